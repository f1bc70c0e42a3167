package get

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/render"

	"sales-analytics/internal/lib/api"
	"sales-analytics/internal/service/dashboard"
	"sales-analytics/internal/storage"
)

type LandingProvider interface {
	KPISummary(ctx context.Context, username string, year int) (dashboard.KPIs, error)
	RevenueChart(ctx context.Context, username string, year int) ([]dashboard.RevenuePoint, error)
	WinChart(ctx context.Context, username string, year int) ([]dashboard.WinPoint, error)
	PipelineChart(ctx context.Context, username string, year int) ([]dashboard.PipelineShare, error)
	SigningsChart(ctx context.Context, username string, year int) ([]dashboard.SigningShare, error)
}

type RevenueChartResponse struct {
	RevenueChartData []dashboard.RevenuePoint `json:"revenue_chart_data"`
	Year             int                      `json:"year"`
}

type WinChartResponse struct {
	WinChartData []dashboard.WinPoint `json:"win_chart_data"`
	Year         int                  `json:"year"`
}

type PipelineChartResponse struct {
	PipelineChartData []dashboard.PipelineShare `json:"pipeline_chart_data"`
	Year              int                       `json:"year"`
}

type SigningsChartResponse struct {
	SigningsChartData []dashboard.SigningShare `json:"signings_chart_data"`
	Year              int                      `json:"year"`
}

// params validates ?username and ?year and writes the 400 itself when they are unusable.
func params(log *slog.Logger, op string, w http.ResponseWriter, r *http.Request, defaultYear int) (string, int, bool) {
	username := strings.TrimSpace(r.URL.Query().Get("username"))
	if username == "" {
		log.With(slog.String("op", op)).Warn("Missing 'username' in query parameters")
		http.Error(w, "Missing required parameter: username", http.StatusBadRequest)
		return "", 0, false
	}

	year, err := api.Year(r, defaultYear)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return "", 0, false
	}

	return username, year, true
}

func failed(log *slog.Logger, op, username string, w http.ResponseWriter, err error) {
	if errors.Is(err, storage.ErrUserNotFound) {
		log.With(slog.String("op", op), slog.String("username", username)).Warn("User not found")
		http.Error(w, "User not found", http.StatusNotFound)
		return
	}

	log.With(
		slog.String("op", op),
		slog.String("username", username),
		slog.String("error", err.Error()),
	).Error("Failed to build landing data")
	http.Error(w, "Internal server error", http.StatusInternalServerError)
}

func KPICards(log *slog.Logger, provider LandingProvider, defaultYear int) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.landing.KPICards"

		username, year, ok := params(log, op, w, r, defaultYear)
		if !ok {
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		kpis, err := provider.KPISummary(ctx, username, year)
		if err != nil {
			failed(log, op, username, w, err)
			return
		}

		render.JSON(w, r, kpis)
	}
}

func RevenueChart(log *slog.Logger, provider LandingProvider, defaultYear int) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.landing.RevenueChart"

		username, year, ok := params(log, op, w, r, defaultYear)
		if !ok {
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		points, err := provider.RevenueChart(ctx, username, year)
		if err != nil {
			failed(log, op, username, w, err)
			return
		}

		render.JSON(w, r, RevenueChartResponse{RevenueChartData: points, Year: year})
	}
}

func WinChart(log *slog.Logger, provider LandingProvider, defaultYear int) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.landing.WinChart"

		username, year, ok := params(log, op, w, r, defaultYear)
		if !ok {
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		points, err := provider.WinChart(ctx, username, year)
		if err != nil {
			failed(log, op, username, w, err)
			return
		}

		render.JSON(w, r, WinChartResponse{WinChartData: points, Year: year})
	}
}

func PipelineChart(log *slog.Logger, provider LandingProvider, defaultYear int) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.landing.PipelineChart"

		username, year, ok := params(log, op, w, r, defaultYear)
		if !ok {
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		shares, err := provider.PipelineChart(ctx, username, year)
		if err != nil {
			failed(log, op, username, w, err)
			return
		}

		render.JSON(w, r, PipelineChartResponse{PipelineChartData: shares, Year: year})
	}
}

func SigningsChart(log *slog.Logger, provider LandingProvider, defaultYear int) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.landing.SigningsChart"

		username, year, ok := params(log, op, w, r, defaultYear)
		if !ok {
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		shares, err := provider.SigningsChart(ctx, username, year)
		if err != nil {
			failed(log, op, username, w, err)
			return
		}

		render.JSON(w, r, SigningsChartResponse{SigningsChartData: shares, Year: year})
	}
}
