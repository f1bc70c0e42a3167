package mysql

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"sales-analytics/internal/storage"
)

// IndustryDistribution groups visible clients by industry, ranked by total revenue.
func (s *Storage) IndustryDistribution(ctx context.Context, f storage.ClientFilter, limit int) ([]storage.IndustryBucket, error) {
	const op = "storage.mysql.IndustryDistribution"

	if f.Empty() {
		return nil, nil
	}

	cond, args := clientCondition("c.client_id", f)
	stmt := `
		SELECT c.industry, COUNT(DISTINCT c.client_id), COALESCE(SUM(r.amount), 0) AS revenue_amount
		FROM client c
		LEFT JOIN revenue r ON r.client_id = c.client_id
		WHERE ` + cond + ` AND c.industry IS NOT NULL AND c.industry <> ''
		GROUP BY c.industry
		ORDER BY revenue_amount DESC, c.industry
		LIMIT ?`

	rows, err := s.db.QueryContext(ctx, stmt, append(args, limit)...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer rows.Close()

	var buckets []storage.IndustryBucket
	for rows.Next() {
		var (
			b       storage.IndustryBucket
			revenue sql.NullFloat64
		)

		if err := rows.Scan(&b.Industry, &b.ClientCount, &revenue); err != nil {
			return nil, fmt.Errorf("%s: scan industry: %w", op, err)
		}
		b.Revenue = nullFloat(revenue)
		buckets = append(buckets, b)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: rows iteration: %w", op, err)
	}

	return buckets, nil
}

func (s *Storage) ProvinceDistribution(ctx context.Context, f storage.ClientFilter) ([]storage.ProvinceBucket, error) {
	const op = "storage.mysql.ProvinceDistribution"

	if f.Empty() {
		return nil, nil
	}

	cond, args := clientCondition("c.client_id", f)
	stmt := `
		SELECT c.province, COUNT(DISTINCT c.client_id), COALESCE(SUM(r.amount), 0)
		FROM client c
		LEFT JOIN revenue r ON r.client_id = c.client_id
		WHERE ` + cond + ` AND c.province IS NOT NULL AND c.province <> ''
		GROUP BY c.province`

	rows, err := s.db.QueryContext(ctx, stmt, args...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer rows.Close()

	var buckets []storage.ProvinceBucket
	for rows.Next() {
		var (
			b       storage.ProvinceBucket
			revenue sql.NullFloat64
		)

		if err := rows.Scan(&b.Province, &b.ClientCount, &revenue); err != nil {
			return nil, fmt.Errorf("%s: scan province: %w", op, err)
		}
		b.Revenue = nullFloat(revenue)
		buckets = append(buckets, b)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: rows iteration: %w", op, err)
	}

	return buckets, nil
}

// FindClients lists visible clients with their AE name. Provinces match exactly, industries
// case-insensitively. The total ignores the limit.
func (s *Storage) FindClients(ctx context.Context, f storage.ClientFilter, provinces, industries []string, limit int) ([]storage.ClientRow, int, error) {
	const op = "storage.mysql.FindClients"

	if f.Empty() {
		return nil, 0, nil
	}

	cond, args := clientCondition("c.client_id", f)
	where := []string{cond}

	if len(provinces) > 0 {
		pc, pargs := inCondition("c.province", provinces)
		where = append(where, pc)
		args = append(args, pargs...)
	}

	if len(industries) > 0 {
		lowered := make([]string, len(industries))
		for i, ind := range industries {
			lowered[i] = strings.ToLower(ind)
		}
		ic, iargs := inCondition("LOWER(c.industry)", lowered)
		where = append(where, ic)
		args = append(args, iargs...)
	}

	whereSQL := strings.Join(where, " AND ")

	var total int
	countStmt := `SELECT COUNT(*) FROM client c JOIN user u ON c.account_executive_id = u.user_id WHERE ` + whereSQL
	if err := s.db.QueryRowContext(ctx, countStmt, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("%s: count clients: %w", op, err)
	}

	stmt := `
		SELECT c.client_id, c.client_name, c.account_executive_id, c.city, c.province, c.industry, c.created_date,
		       u.first_name, u.last_name
		FROM client c
		JOIN user u ON c.account_executive_id = u.user_id
		WHERE ` + whereSQL + `
		ORDER BY c.client_name
		LIMIT ?`

	rows, err := s.db.QueryContext(ctx, stmt, append(args, limit)...)
	if err != nil {
		return nil, 0, fmt.Errorf("%s: %w", op, err)
	}
	defer rows.Close()

	var clients []storage.ClientRow
	for rows.Next() {
		var (
			row         storage.ClientRow
			created     civilDate
			first, last sql.NullString
		)

		err := rows.Scan(&row.ID, &row.Name, &row.AccountExecutiveID, &row.City, &row.Province, &row.Industry, &created,
			&first, &last)
		if err != nil {
			return nil, 0, fmt.Errorf("%s: scan client: %w", op, err)
		}

		if !created.IsZero() {
			d := created.Format("2006-01-02")
			row.CreatedDate = &d
		}

		if first.Valid && last.Valid && first.String != "" && last.String != "" {
			row.AccountExecutive = strings.TrimSpace(first.String + " " + last.String)
		}

		clients = append(clients, row)
	}

	if err = rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("%s: rows iteration: %w", op, err)
	}

	return clients, total, nil
}
