package app

import (
	"context"
	"fmt"
	"log/slog"

	httpapp "artclub/internal/app/http"
	"artclub/internal/client"
	"artclub/internal/config"
	"artclub/internal/lib/logger/sl"
	"artclub/internal/lib/validate"
	"artclub/internal/repository"
	"artclub/internal/session"
	httprouters "artclub/internal/transport/http"
)

type App struct {
	HTTPServer *httpapp.Server
	Sessions   *session.Registry

	repo *repository.Repository
	log  *slog.Logger
}

func New(ctx context.Context, log *slog.Logger, cfg *config.Config) (*App, error) {
	const op = "app.New"

	api, err := client.New(log, client.Options{
		BaseURL:   cfg.API.BaseURL,
		Timeout:   cfg.API.Timeout,
		MaxPages:  cfg.API.MaxPages,
		RateLimit: cfg.API.RateLimit,
		Burst:     cfg.API.Burst,
	})
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	repo, err := repository.NewRepository(ctx, log, cfg.Redis, cfg.Session.TTL)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	v := validate.New()

	registry := session.NewRegistry(log, api, repo.Sessions, v, cfg.Session.TTL, cfg.Session.IdleTTL)

	routers := httprouters.NewRouter(log, registry)

	server := httpapp.New(log, v, httpapp.Options{
		Host:          cfg.HTTP.Host,
		Port:          cfg.HTTP.Port,
		SessionName:   cfg.Session.Name,
		SessionSecret: cfg.Session.Secret,
		SessionMaxAge: int(cfg.Session.TTL.Seconds()),
	}, routers)
	server.BuildRouters()

	return &App{
		HTTPServer: server,
		Sessions:   registry,
		repo:       repo,
		log:        log,
	}, nil
}

// Stop останавливает сервер и закрывает хранилище сессий
func (a *App) Stop() {
	const op = "app.Stop"

	if err := a.HTTPServer.Stop(); err != nil {
		a.log.Error("failed to stop http server", slog.String("op", op), sl.Err(err))
	}
	if err := a.repo.Close(); err != nil {
		a.log.Error("failed to close session storage", slog.String("op", op), sl.Err(err))
	}
}
