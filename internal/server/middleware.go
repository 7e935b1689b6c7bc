package server

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/lestrrat-go/jwx/v3/jwt"
	"github.com/sirupsen/logrus"
)

// Context key types to avoid collisions
type contextKey string

const contextKeyUserID contextKey = "user_id"

type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

func (s *Service) LoggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		started := time.Now()
		rw := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}

		next.ServeHTTP(rw, r)

		s.logger.WithFields(logrus.Fields{
			"method":      r.Method,
			"path":        r.URL.Path,
			"status":      rw.statusCode,
			"duration_ms": time.Since(started).Milliseconds(),
		}).Info("http request")
	})
}

// RequireAuth resolves the caller's stable user id, issued by the external
// auth provider. Two envelopes are accepted: a bearer access token verified
// against the provider's JWKS, or the encrypted session cookie written at
// login. The resolved id goes into the request context and from there is
// passed explicitly into every workflow call.
func (s *Service) RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		userID := s.userIDFromBearer(r)

		if userID == "" {
			userID = s.userIDFromSessionCookie(r)
		}

		if userID == "" {
			s.respondError(w, http.StatusUnauthorized, "UNAUTHENTICATED", "authentication required")
			return
		}

		ctx := context.WithValue(r.Context(), contextKeyUserID, userID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func (s *Service) userIDFromBearer(r *http.Request) string {
	header := r.Header.Get("Authorization")
	if header == "" || !strings.HasPrefix(header, "Bearer ") {
		return ""
	}

	accessToken := strings.TrimPrefix(header, "Bearer ")

	set, err := s.jwksCache.Lookup(r.Context(), s.jwksURL)
	if err != nil {
		s.logger.WithError(err).Error("failed to fetch JWKS")
		return ""
	}

	token, err := jwt.Parse(
		[]byte(accessToken),
		jwt.WithKeySet(set),
		jwt.WithValidate(true),
	)
	if err != nil {
		s.logger.WithError(err).Debug("failed to parse bearer token")
		return ""
	}

	userID, ok := token.Subject()
	if !ok {
		return ""
	}

	return userID
}

func (s *Service) userIDFromSessionCookie(r *http.Request) string {
	cookie, err := r.Cookie(s.config.CookieName)
	if err != nil {
		return ""
	}

	var userID string
	if err := s.cookie.Decode(s.config.CookieName, cookie.Value, &userID); err != nil {
		s.logger.WithError(err).Debug("failed to decode session cookie")
		return ""
	}

	return userID
}

func (s *Service) StripTrailingSlash(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		path := r.URL.Path

		// Only strip if path is not root and has trailing slash
		if path != "/" && strings.HasSuffix(path, "/") {
			newPath := strings.TrimSuffix(path, "/")
			newURL := *r.URL
			newURL.Path = newPath

			// Preserve query string
			http.Redirect(w, r, newURL.String(), http.StatusMovedPermanently)
			return
		}

		next.ServeHTTP(w, r)
	})
}
