package server

import (
	"context"
	"encoding/base64"
	"fmt"
	"net/http"
	"time"

	"neighborly/internal/notify"
	"neighborly/internal/store"
	"neighborly/internal/workflow"
	"neighborly/pkg/types"

	"github.com/alexedwards/flow"
	"github.com/go-playground/form/v4"
	"github.com/gorilla/securecookie"
	"github.com/lestrrat-go/jwx/v3/jwk"
	"github.com/sirupsen/logrus"
)

var decoder = form.NewDecoder()

type Service struct {
	logger *logrus.Logger
	config *types.Config

	needSvc       *workflow.NeedService
	commitmentSvc *workflow.CommitmentService

	needsRepo         *store.NeedRepository
	commitmentsRepo   *store.CommitmentRepository
	profilesRepo      *store.ProfileRepository
	notificationsRepo *store.NotificationRepository

	broker *notify.Broker
	cookie *securecookie.SecureCookie

	jwksCache *jwk.Cache
	jwksURL   string

	server *http.Server
}

func New(
	config *types.Config,
	logger *logrus.Logger,
	needSvc *workflow.NeedService,
	commitmentSvc *workflow.CommitmentService,
	needsRepo *store.NeedRepository,
	commitmentsRepo *store.CommitmentRepository,
	profilesRepo *store.ProfileRepository,
	notificationsRepo *store.NotificationRepository,
	broker *notify.Broker,
	jwkCache *jwk.Cache,
	jwksURL string,
) (*Service, error) {
	mux := flow.New()

	hashKey, _ := base64.StdEncoding.DecodeString(config.CookieHashKey)
	blockKey, _ := base64.StdEncoding.DecodeString(config.CookieBlockKey)

	s := &Service{
		logger: logger,
		config: config,
		cookie: securecookie.New(hashKey, blockKey),

		needSvc:       needSvc,
		commitmentSvc: commitmentSvc,

		needsRepo:         needsRepo,
		commitmentsRepo:   commitmentsRepo,
		profilesRepo:      profilesRepo,
		notificationsRepo: notificationsRepo,

		broker: broker,

		jwksCache: jwkCache,
		jwksURL:   jwksURL,
		server: &http.Server{
			Addr:              fmt.Sprintf(":%d", config.ServerPort),
			Handler:           mux,
			ReadTimeout:       time.Duration(config.ReadTimeoutSec) * time.Second,
			ReadHeaderTimeout: time.Duration(config.ReadTimeoutSec) * time.Second,
			WriteTimeout:      time.Duration(config.WriteTimeoutSec) * time.Second,
			MaxHeaderBytes:    1 << 20,
		},
	}

	s.buildRouter(mux)

	return s, nil
}

func (s *Service) Start() error {
	return s.server.ListenAndServe()
}

func (s *Service) Stop(ctx context.Context) error {
	return s.server.Shutdown(ctx)
}

func (s *Service) buildRouter(r *flow.Mux) {
	r.Use(s.StripTrailingSlash)
	r.Use(s.LoggingMiddleware)

	r.HandleFunc("/healthz", s.handleHealth, http.MethodGet)
	r.HandleFunc("/gifts", s.handleGiftTaxonomy, http.MethodGet)

	r.Group(func(r *flow.Mux) {
		r.Use(s.RequireAuth)

		r.HandleFunc("/needs", s.handleBrowseNeeds, http.MethodGet)
		r.HandleFunc("/needs", s.handleSubmitNeed, http.MethodPost)
		r.HandleFunc("/needs/:id", s.handleNeedDetail, http.MethodGet)
		r.HandleFunc("/needs/:id/approve", s.handleApproveNeed, http.MethodPost)
		r.HandleFunc("/needs/:id/reject", s.handleRejectNeed, http.MethodPost)
		r.HandleFunc("/needs/:id/commitments", s.handleNeedCommitments, http.MethodGet)
		r.HandleFunc("/needs/:id/help", s.handleRequestHelp, http.MethodPost)

		r.HandleFunc("/commitments", s.handleMyCommitments, http.MethodGet)
		r.HandleFunc("/commitments/:id/accept", s.handleAcceptCommitment, http.MethodPost)
		r.HandleFunc("/commitments/:id/decline", s.handleDeclineCommitment, http.MethodPost)
		r.HandleFunc("/commitments/:id/cancel", s.handleCancelCommitment, http.MethodPost)

		r.HandleFunc("/notifications", s.handleListNotifications, http.MethodGet)
		r.HandleFunc("/notifications/unread-count", s.handleUnreadCount, http.MethodGet)
		r.HandleFunc("/notifications/stream", s.handleNotificationStream, http.MethodGet)
		r.HandleFunc("/notifications/:id/read", s.handleMarkRead, http.MethodPost)

		r.HandleFunc("/profile", s.handleGetProfile, http.MethodGet)
		r.HandleFunc("/profile", s.handleUpsertProfile, http.MethodPut)
	})
}

func (s *Service) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.respondJSON(w, http.StatusOK, map[string]bool{"ok": true})
}

func (s *Service) userIDFromContext(ctx context.Context) (string, error) {
	userID, ok := ctx.Value(contextKeyUserID).(string)
	if !ok {
		return "", fmt.Errorf("user id not found in context")
	}
	return userID, nil
}
