package health

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/render"
)

type Pinger interface {
	Ping(ctx context.Context) error
}

type Response struct {
	Status string `json:"status"`
}

// Health reports 503 while the database is unreachable.
func Health(log *slog.Logger, db Pinger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.health.Health"

		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()

		if err := db.Ping(ctx); err != nil {
			log.With(slog.String("op", op), slog.String("error", err.Error())).Error("Database unreachable")
			render.Status(r, http.StatusServiceUnavailable)
			render.JSON(w, r, Response{Status: "unavailable"})
			return
		}

		render.JSON(w, r, Response{Status: "ok"})
	}
}
