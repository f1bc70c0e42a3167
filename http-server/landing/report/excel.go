package report

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"mime"
	"net/http"
	"strings"
	"time"

	"sales-analytics/internal/lib/api"
	"sales-analytics/internal/storage"
)

type ExcelGenerator interface {
	GenerateExcel(ctx context.Context, username string, year int) ([]byte, error)
}

func ReportExcel(log *slog.Logger, gen ExcelGenerator, defaultYear int) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.landing.ReportExcel"

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

		// workbook assembly runs every landing query, so it gets more time
		ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
		defer cancel()

		excelBytes, err := gen.GenerateExcel(ctx, username, year)
		if err != nil {
			if errors.Is(err, storage.ErrUserNotFound) {
				http.Error(w, "User not found", http.StatusNotFound)
				return
			}
			log.Error("failed to generate excel", "op", op, "err", err)
			http.Error(w, "Internal error", http.StatusInternalServerError)
			return
		}

		fileName := fmt.Sprintf("Sales_Report_%s_%d.xlsx", username, year)

		w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
		w.Header().Set("Content-Disposition", mime.FormatMediaType("attachment", map[string]string{"filename": fileName}))
		if _, err := w.Write(excelBytes); err != nil {
			log.Error("failed to write excel", "op", op, "err", err)
		}
	}
}
