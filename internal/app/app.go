// Package app wires storage, services and the optional assistant from configuration.
// Both the HTTP server and the operator CLI start from here.
package app

import (
	"context"
	"fmt"
	"log/slog"

	"sales-analytics/internal/config"
	"sales-analytics/internal/llm/gemini"
	"sales-analytics/internal/metrics"
	"sales-analytics/internal/service/clients"
	"sales-analytics/internal/service/dashboard"
	"sales-analytics/internal/service/executives"
	"sales-analytics/internal/service/insight"
	"sales-analytics/internal/service/report"
	"sales-analytics/internal/storage/mysql"
)

type App struct {
	Storage    *mysql.Storage
	Metrics    *metrics.Metrics
	Dashboard  *dashboard.Service
	Executives *executives.Service
	Clients    *clients.Service
	Report     *report.Service
	// nil when no API key is configured
	Insight *insight.Service
}

func New(ctx context.Context, cfg *config.Config, log *slog.Logger) (*App, error) {
	const op = "app.New"

	storage, err := mysql.New(*cfg)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	m := metrics.New()
	dash := dashboard.New(log, storage, m)

	a := &App{
		Storage:    storage,
		Metrics:    m,
		Dashboard:  dash,
		Executives: executives.New(storage),
		Clients:    clients.New(storage),
		Report:     report.NewService(dash),
	}

	if cfg.Assistant.APIKey == "" {
		log.Warn("assistant disabled: no API key configured")
		return a, nil
	}

	guard, err := insight.NewGuard(cfg.Assistant.Guard)
	if err != nil {
		_ = storage.Close()
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	llm, err := gemini.New(ctx, cfg.Assistant.APIKey, cfg.Assistant.Model)
	if err != nil {
		_ = storage.Close()
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	a.Insight = insight.New(log, llm, guard, storage, m, insight.Options{
		MaxRows:       cfg.Assistant.MaxRows,
		PreviewRows:   cfg.Assistant.PreviewRows,
		ReferenceYear: cfg.Dashboard.DefaultYear,
	})

	return a, nil
}

func (a *App) Close() error {
	return a.Storage.Close()
}
