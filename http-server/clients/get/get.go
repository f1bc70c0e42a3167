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
	"sales-analytics/internal/service/clients"
	"sales-analytics/internal/storage"
)

type ClientsProvider interface {
	IndustryTreemap(ctx context.Context, username string) ([]clients.TreemapEntry, error)
	ProvincePie(ctx context.Context, username string) (*clients.ProvincePie, error)
	Clients(ctx context.Context, username string, provinces, industries []string) (*clients.ClientList, error)
}

type TreemapResponse struct {
	TreemapData []clients.TreemapEntry `json:"treemap_data"`
}

func usernameParam(w http.ResponseWriter, r *http.Request) (string, bool) {
	username := strings.TrimSpace(r.URL.Query().Get("username"))
	if username == "" {
		http.Error(w, "Missing required parameter: username", http.StatusBadRequest)
		return "", false
	}
	return username, true
}

func failed(log *slog.Logger, op string, w http.ResponseWriter, err error) {
	if errors.Is(err, storage.ErrUserNotFound) {
		http.Error(w, "User not found", http.StatusNotFound)
		return
	}

	log.With(slog.String("op", op), slog.String("error", err.Error())).Error("Failed to query clients")
	http.Error(w, "Internal server error", http.StatusInternalServerError)
}

func IndustryTreemap(log *slog.Logger, provider ClientsProvider) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.clients.IndustryTreemap"

		username, ok := usernameParam(w, r)
		if !ok {
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		entries, err := provider.IndustryTreemap(ctx, username)
		if err != nil {
			failed(log, op, w, err)
			return
		}

		render.JSON(w, r, TreemapResponse{TreemapData: entries})
	}
}

func ProvincePie(log *slog.Logger, provider ClientsProvider) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.clients.ProvincePie"

		username, ok := usernameParam(w, r)
		if !ok {
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		pie, err := provider.ProvincePie(ctx, username)
		if err != nil {
			failed(log, op, w, err)
			return
		}

		render.JSON(w, r, pie)
	}
}

// Clients accepts comma-separated ?provinces=ON,BC and ?industries=Retail filters.
func Clients(log *slog.Logger, provider ClientsProvider) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.clients.Clients"

		username, ok := usernameParam(w, r)
		if !ok {
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		list, err := provider.Clients(ctx, username, api.List(r, "provinces"), api.List(r, "industries"))
		if err != nil {
			failed(log, op, w, err)
			return
		}

		render.JSON(w, r, list)
	}
}
