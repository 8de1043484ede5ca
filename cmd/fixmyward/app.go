package main

import (
	"context"
	"fmt"
	"time"

	"github.com/fixmyward/ward-server/internal/config"
	"github.com/fixmyward/ward-server/internal/models"
	"github.com/fixmyward/ward-server/internal/services"
	"github.com/fixmyward/ward-server/internal/storage"
	"go.uber.org/zap"
)

// app holds the services shared by every command. Fields left nil are
// built from the environment on first use.
type app struct {
	store  storage.Store
	gen    services.TextGenerator
	logger *zap.SugaredLogger
	wards  *services.WardDirectory

	identity *services.IdentityService
	sessions *services.SessionStore
	reports  *services.ReportService
}

func (a *app) init(ctx context.Context) error {
	if a.identity != nil {
		return nil
	}
	if a.logger == nil {
		cfg := zap.NewProductionConfig()
		cfg.Level = zap.NewAtomicLevelAt(zap.WarnLevel)
		cfg.Encoding = "console"
		l, err := cfg.Build()
		if err != nil {
			return fmt.Errorf("build logger: %w", err)
		}
		a.logger = l.Sugar()
	}

	var cfg *config.Config
	if a.store == nil || a.wards == nil {
		var err error
		if cfg, err = config.Load(); err != nil {
			return err
		}
	}
	if a.store == nil {
		s, err := storage.Open(ctx, cfg)
		if err != nil {
			return err
		}
		a.store = s
		if cfg.GeminiAPIKey != "" {
			if g, err := services.NewGenAIGenerator(ctx, cfg.GeminiAPIKey, cfg.GeminiModel); err == nil {
				a.gen = g
			} else {
				a.logger.Warnw("GenAI client unavailable, using fallback descriptions", "error", err)
			}
		}
	}
	if a.wards == nil {
		w, err := services.LoadWardDirectory(cfg.WardsFile)
		if err != nil {
			return err
		}
		a.wards = w
	}

	var timeout time.Duration
	if cfg != nil {
		timeout = cfg.AITimeout
	}
	a.identity = services.NewIdentityService(a.store, a.logger)
	a.sessions = services.NewSessionStore(a.store, a.logger)
	a.reports = services.NewReportService(
		services.NewReportRepository(a.store, a.logger),
		services.NewEnricher(a.gen, timeout, a.logger),
		a.logger,
	)
	return nil
}

func (a *app) close() {
	if a.store != nil {
		a.store.Close()
	}
	if a.logger != nil {
		_ = a.logger.Sync()
	}
}

// currentUser restores the session or explains how to get one.
func (a *app) currentUser(ctx context.Context) (models.User, error) {
	user, ok, err := a.sessions.Restore(ctx)
	if err != nil {
		return models.User{}, err
	}
	if !ok {
		return models.User{}, fmt.Errorf("not signed in, run `fixmyward login` first")
	}
	return user, nil
}
