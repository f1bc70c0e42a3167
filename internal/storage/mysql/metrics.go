package mysql

import (
	"context"
	"database/sql"
	"fmt"

	"sales-analytics/internal/storage"
)

// SumWeightedPipeline sums amount*probability/100 of non-omitted opportunities created inside the period.
func (s *Storage) SumWeightedPipeline(ctx context.Context, f storage.ClientFilter, period storage.PeriodRange) (float64, error) {
	const op = "storage.mysql.SumWeightedPipeline"

	if f.Empty() {
		return 0, nil
	}

	cond, args := clientCondition("client_id", f)
	stmt := `
		SELECT COALESCE(SUM(CASE WHEN forecast_category <> ? THEN amount * probability / 100.0 ELSE 0 END), 0)
		FROM opportunity
		WHERE ` + cond + `
		  AND created_date >= ?
		  AND created_date <= ?`

	queryArgs := append([]any{storage.ForecastOmit}, args...)
	queryArgs = append(queryArgs, period.From.Format(dateTimeLayout), period.To.Format(dateTimeLayout))

	return s.scalarSum(ctx, op, stmt, queryArgs...)
}

func (s *Storage) SumRevenue(ctx context.Context, f storage.ClientFilter, year int) (float64, error) {
	const op = "storage.mysql.SumRevenue"

	if f.Empty() {
		return 0, nil
	}

	cond, args := clientCondition("client_id", f)
	stmt := `SELECT COALESCE(SUM(amount), 0) FROM revenue WHERE ` + cond + ` AND fiscal_year = ?`

	return s.scalarSum(ctx, op, stmt, append(args, year)...)
}

func (s *Storage) SumWinMultipliers(ctx context.Context, f storage.ClientFilter, year int) (float64, error) {
	const op = "storage.mysql.SumWinMultipliers"

	if f.Empty() {
		return 0, nil
	}

	cond, args := clientCondition("client_id", f)
	stmt := `SELECT COALESCE(SUM(win_multiplier), 0) FROM win WHERE ` + cond + ` AND fiscal_year = ?`

	return s.scalarSum(ctx, op, stmt, append(args, year)...)
}

// GetSigningTerms returns the raw contract terms; annualization happens in the aggregate service.
func (s *Storage) GetSigningTerms(ctx context.Context, f storage.ClientFilter, year int) ([]storage.SigningTerm, error) {
	const op = "storage.mysql.GetSigningTerms"

	if f.Empty() {
		return nil, nil
	}

	cond, args := clientCondition("client_id", f)
	stmt := `
		SELECT total_contract_value, start_date, end_date, fiscal_quarter
		FROM signing
		WHERE ` + cond + ` AND fiscal_year = ?`

	rows, err := s.db.QueryContext(ctx, stmt, append(args, year)...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer rows.Close()

	var terms []storage.SigningTerm
	for rows.Next() {
		var (
			term       storage.SigningTerm
			start, end civilDate
		)

		if err := rows.Scan(&term.TotalContractValue, &start, &end, &term.FiscalQuarter); err != nil {
			return nil, fmt.Errorf("%s: scan signing: %w", op, err)
		}

		term.Start, term.End = start.Time, end.Time
		terms = append(terms, term)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: rows iteration: %w", op, err)
	}

	return terms, nil
}

func (s *Storage) scalarSum(ctx context.Context, op, stmt string, args ...any) (float64, error) {
	var sum sql.NullFloat64

	if err := s.db.QueryRowContext(ctx, stmt, args...).Scan(&sum); err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}

	return nullFloat(sum), nil
}
