package mysql

import (
	"context"
	"database/sql"
	"fmt"

	"sales-analytics/internal/storage"
)

func (s *Storage) RevenueByMonth(ctx context.Context, f storage.ClientFilter, year int) (map[int]float64, error) {
	const op = "storage.mysql.RevenueByMonth"

	if f.Empty() {
		return map[int]float64{}, nil
	}

	cond, args := clientCondition("client_id", f)
	stmt := `
		SELECT month, COALESCE(SUM(amount), 0)
		FROM revenue
		WHERE ` + cond + ` AND fiscal_year = ?
		GROUP BY month
		ORDER BY month`

	return s.groupedSums(ctx, op, stmt, append(args, year)...)
}

func (s *Storage) RevenueByQuarter(ctx context.Context, f storage.ClientFilter, year int) (map[int]float64, error) {
	const op = "storage.mysql.RevenueByQuarter"

	if f.Empty() {
		return map[int]float64{}, nil
	}

	cond, args := clientCondition("client_id", f)
	stmt := `
		SELECT fiscal_quarter, COALESCE(SUM(amount), 0)
		FROM revenue
		WHERE ` + cond + ` AND fiscal_year = ?
		GROUP BY fiscal_quarter
		ORDER BY fiscal_quarter`

	return s.groupedSums(ctx, op, stmt, append(args, year)...)
}

// WinsByQuarter sums win multipliers per fiscal quarter.
func (s *Storage) WinsByQuarter(ctx context.Context, f storage.ClientFilter, year int) (map[int]float64, error) {
	const op = "storage.mysql.WinsByQuarter"

	if f.Empty() {
		return map[int]float64{}, nil
	}

	cond, args := clientCondition("client_id", f)
	stmt := `
		SELECT fiscal_quarter, COALESCE(SUM(win_multiplier), 0)
		FROM win
		WHERE ` + cond + ` AND fiscal_year = ?
		GROUP BY fiscal_quarter
		ORDER BY fiscal_quarter`

	return s.groupedSums(ctx, op, stmt, append(args, year)...)
}

// CountOpportunitiesByForecast counts opportunities created inside the period, per forecast category.
func (s *Storage) CountOpportunitiesByForecast(ctx context.Context, f storage.ClientFilter, period storage.PeriodRange) (map[string]int, error) {
	const op = "storage.mysql.CountOpportunitiesByForecast"

	if f.Empty() {
		return map[string]int{}, nil
	}

	cond, args := clientCondition("client_id", f)
	stmt := `
		SELECT forecast_category, COUNT(opportunity_id)
		FROM opportunity
		WHERE ` + cond + `
		  AND created_date >= ?
		  AND created_date <= ?
		GROUP BY forecast_category`

	args = append(args, period.From.Format(dateTimeLayout), period.To.Format(dateTimeLayout))

	return s.groupedCounts(ctx, op, stmt, args...)
}

// CountSigningsByProductCategory counts signings per raw product category.
func (s *Storage) CountSigningsByProductCategory(ctx context.Context, f storage.ClientFilter, year int) (map[string]int, error) {
	const op = "storage.mysql.CountSigningsByProductCategory"

	if f.Empty() {
		return map[string]int{}, nil
	}

	cond, args := clientCondition("s.client_id", f)
	stmt := `
		SELECT p.product_category, COUNT(s.signing_id)
		FROM signing s
		JOIN product p ON s.product_id = p.product_id
		WHERE ` + cond + ` AND s.fiscal_year = ?
		GROUP BY p.product_category`

	return s.groupedCounts(ctx, op, stmt, append(args, year)...)
}

func (s *Storage) groupedSums(ctx context.Context, op, stmt string, args ...any) (map[int]float64, error) {
	rows, err := s.db.QueryContext(ctx, stmt, args...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer rows.Close()

	sums := make(map[int]float64)
	for rows.Next() {
		var (
			period int
			sum    sql.NullFloat64
		)

		if err := rows.Scan(&period, &sum); err != nil {
			return nil, fmt.Errorf("%s: scan group: %w", op, err)
		}
		sums[period] += nullFloat(sum)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: rows iteration: %w", op, err)
	}

	return sums, nil
}

func (s *Storage) groupedCounts(ctx context.Context, op, stmt string, args ...any) (map[string]int, error) {
	rows, err := s.db.QueryContext(ctx, stmt, args...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer rows.Close()

	counts := make(map[string]int)
	for rows.Next() {
		var (
			category string
			count    int
		)

		if err := rows.Scan(&category, &count); err != nil {
			return nil, fmt.Errorf("%s: scan group: %w", op, err)
		}
		counts[category] += count
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: rows iteration: %w", op, err)
	}

	return counts, nil
}
