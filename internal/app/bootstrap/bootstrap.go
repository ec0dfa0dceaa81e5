package bootstrap

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	auth "aegis/contexts/identity-access/auth-service"
	authpassword "aegis/contexts/identity-access/auth-service/adapters/password"
	authpostgres "aegis/contexts/identity-access/auth-service/adapters/postgres"
	authworkers "aegis/contexts/identity-access/auth-service/application/workers"
	userprofile "aegis/contexts/identity-access/user-profile-service"
	profilepostgres "aegis/contexts/identity-access/user-profile-service/adapters/postgres"
	profileapp "aegis/contexts/identity-access/user-profile-service/application"
	profileworkers "aegis/contexts/identity-access/user-profile-service/application/workers"
	"aegis/internal/platform/config"
	"aegis/internal/platform/db"
	"aegis/internal/platform/httpserver"
	"aegis/internal/platform/messaging"
	"aegis/internal/platform/tokens"
)

// Package bootstrap is the composition root.
// Keep construction/wiring here so module code stays framework-agnostic.

type APIApp struct {
	server   *httpserver.Server
	postgres *db.Postgres
	logger   *slog.Logger
}

type WorkerApp struct {
	postgres     *db.Postgres
	outboxRelay  authworkers.OutboxRelay
	replicator   profileworkers.UserRegisteredConsumer
	relayEnabled bool
	replication  bool
	pollInterval time.Duration
	logger       *slog.Logger
}

func BuildAPI() (*APIApp, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}

	logger := slog.Default().With("service", cfg.ServiceName, "process", "api")
	if strings.TrimSpace(cfg.PostgresDSN) == "" {
		return nil, errors.New("POSTGRES_DSN is required")
	}

	issuer, err := tokens.NewIssuer(cfg.TokenSecret, cfg.TokenDuration())
	if err != nil {
		return nil, err
	}

	pg, err := db.Connect(cfg.PostgresDSN)
	if err != nil {
		return nil, err
	}

	authRepo := authpostgres.NewRepository(pg.DB, logger)
	authModule := auth.NewModule(auth.Dependencies{
		Users:       authRepo,
		Roles:       authRepo,
		Outbox:      authRepo,
		Hasher:      authpassword.NewBcryptHasher(),
		Tokens:      issuer,
		Clock:       authpostgres.SystemClock{},
		IDGenerator: authpostgres.UUIDGenerator{},
		Logger:      logger,
	})

	profileRepo := profilepostgres.NewRepository(pg.DB, logger)
	profileModule := userprofile.NewModule(userprofile.Dependencies{
		Profiles:    profileRepo,
		Roles:       profileRepo,
		Clock:       profilepostgres.SystemClock{},
		IDGenerator: profilepostgres.UUIDGenerator{},
		Logger:      logger,
	})

	server := httpserver.New(authModule, profileModule, issuer, logger, cfg.HTTPAddr())
	return &APIApp{
		server:   server,
		postgres: pg,
		logger:   logger,
	}, nil
}

func BuildWorker() (*WorkerApp, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}

	logger := slog.Default().With("service", cfg.ServiceName, "process", "worker")
	if strings.TrimSpace(cfg.PostgresDSN) == "" {
		return nil, errors.New("POSTGRES_DSN is required")
	}

	pg, err := db.Connect(cfg.PostgresDSN)
	if err != nil {
		return nil, err
	}

	kafka, err := messaging.NewKafka(cfg.KafkaBrokers, logger)
	if err != nil {
		return nil, err
	}

	authRepo := authpostgres.NewRepository(pg.DB, logger)
	profileRepo := profilepostgres.NewRepository(pg.DB, logger)

	return &WorkerApp{
		postgres: pg,
		outboxRelay: authworkers.OutboxRelay{
			Outbox:    authRepo,
			Publisher: kafka,
			Clock:     authpostgres.SystemClock{},
			BatchSize: 100,
			Logger:    logger,
		},
		replicator: profileworkers.UserRegisteredConsumer{
			Subscriber: kafka,
			Service: profileapp.Service{
				Profiles:    profileRepo,
				Roles:       profileRepo,
				Clock:       profilepostgres.SystemClock{},
				IDGenerator: profilepostgres.UUIDGenerator{},
				Logger:      logger,
			},
			Logger: logger,
		},
		relayEnabled: cfg.EnableOutboxRelay,
		replication:  cfg.EnableProfileReplication,
		pollInterval: cfg.WorkerPollInterval,
		logger:       logger,
	}, nil
}

func (a *APIApp) Run(_ context.Context) error {
	if a.logger != nil {
		a.logger.Info("api app started",
			"event", "bootstrap_api_started",
			"module", "internal/app/bootstrap",
			"layer", "platform",
		)
	}
	return a.server.Start()
}

func (a *APIApp) Close() error {
	if a.postgres != nil {
		return a.postgres.Close()
	}
	return nil
}

func (w *WorkerApp) Run(ctx context.Context) error {
	if w.replication {
		if err := w.replicator.Start(ctx); err != nil {
			return err
		}
	}

	ticker := time.NewTicker(w.pollInterval)
	defer ticker.Stop()

	w.logger.Info("worker app started",
		"event", "bootstrap_worker_started",
		"module", "internal/app/bootstrap",
		"layer", "platform",
		"poll_interval", w.pollInterval.String(),
		"relay_enabled", w.relayEnabled,
		"replication_enabled", w.replication,
	)

	for {
		if w.relayEnabled {
			if err := w.outboxRelay.RunOnce(ctx); err != nil {
				return err
			}
		}
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
		}
	}
}

func (w *WorkerApp) Close() error {
	if w.postgres != nil {
		return w.postgres.Close()
	}
	return nil
}
