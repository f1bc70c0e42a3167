package insight

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/render"

	"sales-analytics/internal/service/insight"
)

type Asker interface {
	Ask(ctx context.Context, question string) (*insight.Answer, error)
}

type Request struct {
	Query string `json:"query"`
}

type ErrorResponse struct {
	Error   string `json:"error"`
	SQLUsed string `json:"sql_used,omitempty"`
}

// Insight answers POST /api/ai-insight. A nil asker means the assistant is not configured.
func Insight(log *slog.Logger, asker Asker, timeout time.Duration) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.ai.Insight"

		if asker == nil {
			http.Error(w, "Assistant is not configured", http.StatusServiceUnavailable)
			return
		}

		var req Request
		if err := render.DecodeJSON(r.Body, &req); err != nil {
			http.Error(w, "Invalid JSON body", http.StatusBadRequest)
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), timeout)
		defer cancel()

		answer, err := asker.Ask(ctx, req.Query)
		if err != nil {
			switch {
			case errors.Is(err, insight.ErrEmptyQuestion):
				http.Error(w, "Missing required field: query", http.StatusBadRequest)
			case errors.Is(err, insight.ErrUnsafeQuery):
				resp := ErrorResponse{Error: "Unsafe query detected."}
				if answer != nil {
					resp.SQLUsed = answer.SQLUsed
				}
				render.Status(r, http.StatusUnprocessableEntity)
				render.JSON(w, r, resp)
			default:
				log.With(slog.String("op", op), slog.String("error", err.Error())).Error("Failed to answer question")
				resp := ErrorResponse{Error: "Failed to answer question"}
				if answer != nil {
					resp.SQLUsed = answer.SQLUsed
				}
				render.Status(r, http.StatusInternalServerError)
				render.JSON(w, r, resp)
			}
			return
		}

		render.JSON(w, r, answer)
	}
}
