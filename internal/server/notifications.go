package server

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"neighborly/pkg/types"

	"github.com/alexedwards/flow"
)

func (s *Service) handleListNotifications(w http.ResponseWriter, r *http.Request) {
	userID, err := s.userIDFromContext(r.Context())
	if err != nil {
		s.respondError(w, http.StatusUnauthorized, "UNAUTHENTICATED", "authentication required")
		return
	}

	var limit uint64
	if raw := r.URL.Query().Get("limit"); raw != "" {
		limit, _ = strconv.ParseUint(raw, 10, 64)
	}

	notifications, err := s.notificationsRepo.NotificationsByRecipient(r.Context(), userID, limit)
	if err != nil {
		s.respondDomainError(w, err)
		return
	}

	s.respondJSON(w, http.StatusOK, notifications)
}

func (s *Service) handleUnreadCount(w http.ResponseWriter, r *http.Request) {
	userID, err := s.userIDFromContext(r.Context())
	if err != nil {
		s.respondError(w, http.StatusUnauthorized, "UNAUTHENTICATED", "authentication required")
		return
	}

	count, err := s.notificationsRepo.UnreadCount(r.Context(), userID)
	if err != nil {
		s.respondDomainError(w, err)
		return
	}

	s.respondJSON(w, http.StatusOK, map[string]int{"unread": count})
}

func (s *Service) handleMarkRead(w http.ResponseWriter, r *http.Request) {
	userID, err := s.userIDFromContext(r.Context())
	if err != nil {
		s.respondError(w, http.StatusUnauthorized, "UNAUTHENTICATED", "authentication required")
		return
	}

	notificationID := flow.Param(r.Context(), "id")

	changed, err := s.notificationsRepo.MarkRead(r.Context(), notificationID, userID)
	if err != nil {
		s.respondDomainError(w, err)
		return
	}

	s.respondJSON(w, http.StatusOK, changedResponse{OK: true, Changed: changed})
}

// handleNotificationStream pushes the caller's notifications over SSE. The
// broker subscription feeds a channel; the handler drains it until the
// client goes away. A slow client drops events rather than blocking the
// dispatcher.
func (s *Service) handleNotificationStream(w http.ResponseWriter, r *http.Request) {
	userID, err := s.userIDFromContext(r.Context())
	if err != nil {
		s.respondError(w, http.StatusUnauthorized, "UNAUTHENTICATED", "authentication required")
		return
	}

	flusher, ok := w.(http.Flusher)
	if !ok {
		s.respondError(w, http.StatusInternalServerError, "TRANSIENT", "streaming unsupported")
		return
	}

	// The server's write timeout would cut the stream off mid-flight, so
	// lift the deadline for this response only.
	if err := http.NewResponseController(w).SetWriteDeadline(time.Time{}); err != nil {
		s.logger.WithError(err).Debug("could not clear write deadline for notification stream")
	}

	events := make(chan *types.Notification, 16)
	unsubscribe := s.broker.Subscribe(userID, func(n *types.Notification) {
		select {
		case events <- n:
		default:
		}
	})
	defer unsubscribe()

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.WriteHeader(http.StatusOK)
	flusher.Flush()

	keepalive := time.NewTicker(25 * time.Second)
	defer keepalive.Stop()

	for {
		select {
		case <-r.Context().Done():
			return
		case <-keepalive.C:
			fmt.Fprint(w, ": keepalive\n\n")
			flusher.Flush()
		case n := <-events:
			data, err := json.Marshal(n)
			if err != nil {
				s.logger.WithError(err).Error("failed to marshal notification event")
				continue
			}
			fmt.Fprintf(w, "event: %s\ndata: %s\n\n", n.EventType, data)
			flusher.Flush()
		}
	}
}
