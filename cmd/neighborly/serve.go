package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"neighborly/internal/db"
	"neighborly/internal/notify"
	"neighborly/internal/server"
	"neighborly/internal/store"
	"neighborly/internal/workflow"

	"github.com/lestrrat-go/httprc/v3"
	"github.com/lestrrat-go/jwx/v3/jwk"
	"github.com/sirupsen/logrus"
	"github.com/urfave/cli/v2"
)

var serveCommand = &cli.Command{
	Name:   "serve",
	Usage:  "Start the HTTP server",
	Action: serve,
}

func serve(cCtx *cli.Context) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger := logrus.New()
	logger.SetFormatter(&logrus.JSONFormatter{})

	config, err := loadConfig()
	if err != nil {
		return err
	}

	pool, err := db.Connect(ctx, config)
	if err != nil {
		return err
	}
	defer pool.Close()

	needsRepo := store.NewNeedRepository(pool)
	commitmentsRepo := store.NewCommitmentRepository(pool)
	profilesRepo := store.NewProfileRepository(pool)
	notificationsRepo := store.NewNotificationRepository(pool)

	broker := notify.NewBroker()
	dispatcher := notify.NewDispatcher(logger, notificationsRepo, broker)
	if config.SendgridAPIKey != "" {
		mailer := notify.NewMailer(config.SendgridAPIKey, config.EmailFrom, config.EmailFromName)
		dispatcher = dispatcher.WithMailer(mailer, profilesRepo)
	}

	needSvc := workflow.NewNeedService(needsRepo, profilesRepo, dispatcher)
	commitmentSvc := workflow.NewCommitmentService(needsRepo, commitmentsRepo, profilesRepo, dispatcher)

	jwkCache, err := jwk.NewCache(context.Background(), httprc.NewClient())
	if err != nil {
		return fmt.Errorf("failed to initialize jwk cache: %w", err)
	}

	jwksURL := fmt.Sprintf("%s/.well-known/jwks.json", config.AuthIssuerURL)

	if config.AuthIssuerURL != "" {
		if err := jwkCache.Register(context.Background(), jwksURL); err != nil {
			return fmt.Errorf("failed to register auth provider jwk with cache: %w", err)
		}
	}

	srv, err := server.New(
		config,
		logger,
		needSvc,
		commitmentSvc,
		needsRepo,
		commitmentsRepo,
		profilesRepo,
		notificationsRepo,
		broker,
		jwkCache,
		jwksURL,
	)
	if err != nil {
		return err
	}

	go func() {
		logger.WithField("port", config.ServerPort).Infof("server starting http://localhost:%d", config.ServerPort)
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.WithError(err).Fatal("server failed")
		}
	}()

	<-ctx.Done()
	logger.Info("shutdown signal received")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	return srv.Stop(shutdownCtx)
}
