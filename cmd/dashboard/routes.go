package main

import (
	"log/slog"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/cors"

	aiinsight "sales-analytics/http-server/ai/insight"
	getclients "sales-analytics/http-server/clients/get"
	getexecutives "sales-analytics/http-server/executives/get"
	"sales-analytics/http-server/health"
	getlanding "sales-analytics/http-server/landing/get"
	landingreport "sales-analytics/http-server/landing/report"
	gettargets "sales-analytics/http-server/targets/get"
	"sales-analytics/internal/app"
	"sales-analytics/internal/config"
	"sales-analytics/internal/middleware/auth"
)

func routes(cfg config.Config, log *slog.Logger, a *app.App) *chi.Mux {
	router := chi.NewRouter()

	corsHandler := cors.New(cors.Options{
		AllowedOrigins:   cfg.CORSOrigins,
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
	})

	router.Use(corsHandler.Handler)

	router.Use(middleware.RequestID)
	router.Use(middleware.RealIP)
	router.Use(middleware.Logger)
	router.Use(middleware.Recoverer)
	router.Use(a.Metrics.Middleware)

	year := cfg.Dashboard.DefaultYear

	router.Get("/healthz", health.Health(log, a.Storage))
	router.Handle("/metrics", a.Metrics.Handler())

	router.Route("/api/landing", func(r chi.Router) {
		r.Use(middleware.Timeout(cfg.Dashboard.RequestTimeout))

		r.Get("/kpi-cards", getlanding.KPICards(log, a.Dashboard, year))
		r.Get("/revenue-chart-data", getlanding.RevenueChart(log, a.Dashboard, year))
		r.Get("/win-chart-data", getlanding.WinChart(log, a.Dashboard, year))
		r.Get("/pipeline-chart-data", getlanding.PipelineChart(log, a.Dashboard, year))
		r.Get("/signings-chart-data", getlanding.SigningsChart(log, a.Dashboard, year))
	})

	// the workbook runs every landing query, so it sits outside the per-request timeout
	router.Get("/api/landing/report/excel", landingreport.ReportExcel(log, a.Report, year))

	router.Get("/api/targets/{metric}/quarterly", gettargets.QuarterlyTargets(log, a.Dashboard, year))

	router.Get("/api/executives/account-executives", getexecutives.AccountExecutives(log, a.Executives))
	router.Get("/api/executives/ae-performance", getexecutives.AEPerformance(log, a.Executives, year))

	router.Get("/api/clients/industry-treemap-chart", getclients.IndustryTreemap(log, a.Clients))
	router.Get("/api/clients/province-pie-chart", getclients.ProvincePie(log, a.Clients))
	router.Get("/api/clients/clients", getclients.Clients(log, a.Clients))

	var asker aiinsight.Asker
	if a.Insight != nil {
		asker = a.Insight
	}

	aiRouter := chi.NewRouter()
	aiRouter.Use(auth.BasicAuth(cfg.AdminLogin, cfg.AdminPass))
	aiRouter.Post("/", aiinsight.Insight(log, asker, cfg.Assistant.Timeout))

	router.Mount("/api/ai-insight", aiRouter)

	return router
}
