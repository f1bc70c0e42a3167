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
	"sales-analytics/internal/service/executives"
	"sales-analytics/internal/storage"
)

type ExecutivesProvider interface {
	ListAccountExecutives(ctx context.Context) ([]*storage.User, error)
	Performance(ctx context.Context, username string, year int) (*executives.Performance, error)
}

type ListResponse struct {
	AccountExecutives []*storage.User `json:"account_executives"`
	Count             int             `json:"count"`
}

func AccountExecutives(log *slog.Logger, provider ExecutivesProvider) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.executives.AccountExecutives"

		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		users, err := provider.ListAccountExecutives(ctx)
		if err != nil {
			log.With(slog.String("op", op), slog.String("error", err.Error())).Error("Failed to fetch account executives")
			http.Error(w, "Internal server error", http.StatusInternalServerError)
			return
		}

		render.JSON(w, r, ListResponse{AccountExecutives: users, Count: len(users)})
	}
}

func AEPerformance(log *slog.Logger, provider ExecutivesProvider, defaultYear int) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.executives.AEPerformance"

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

		perf, err := provider.Performance(ctx, username, year)
		if err != nil {
			switch {
			case errors.Is(err, storage.ErrUserNotFound):
				http.Error(w, "User not found", http.StatusNotFound)
			case errors.Is(err, executives.ErrForbidden):
				log.With(slog.String("op", op), slog.String("username", username)).Warn("AE performance denied")
				http.Error(w, "Access denied. Only directors can view AE performance data", http.StatusForbidden)
			default:
				log.With(slog.String("op", op), slog.String("error", err.Error())).Error("Failed to compute AE performance")
				http.Error(w, "Internal server error", http.StatusInternalServerError)
			}
			return
		}

		render.JSON(w, r, perf)
	}
}
