package get

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"

	"sales-analytics/internal/lib/api"
	"sales-analytics/internal/service/dashboard"
	"sales-analytics/internal/storage"
)

type TargetsProvider interface {
	QuarterlyTargets(ctx context.Context, username string, year int, metric string) ([]dashboard.QuarterTarget, error)
}

type Response struct {
	Metric   string                    `json:"metric"`
	Year     int                       `json:"year"`
	Quarters []dashboard.QuarterTarget `json:"quarters"`
}

// QuarterlyTargets serves /api/targets/{metric}/quarterly.
func QuarterlyTargets(log *slog.Logger, provider TargetsProvider, defaultYear int) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.targets.QuarterlyTargets"

		metric := chi.URLParam(r, "metric")

		username := strings.TrimSpace(r.URL.Query().Get("username"))
		if username == "" {
			http.Error(w, "Missing required parameter: username", http.StatusBadRequest)
			return
		}

		year, err := api.Year(r, defaultYear)
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		quarters, err := provider.QuarterlyTargets(ctx, username, year, metric)
		if err != nil {
			switch {
			case errors.Is(err, dashboard.ErrUnknownMetric):
				http.Error(w, "Unknown metric: "+metric, http.StatusBadRequest)
			case errors.Is(err, storage.ErrUserNotFound):
				http.Error(w, "User not found", http.StatusNotFound)
			default:
				log.With(
					slog.String("op", op),
					slog.String("metric", metric),
					slog.String("error", err.Error()),
				).Error("Failed to compute quarterly targets")
				http.Error(w, "Internal server error", http.StatusInternalServerError)
			}
			return
		}

		render.JSON(w, r, Response{Metric: metric, Year: year, Quarters: quarters})
	}
}
