package mysql

import (
	"context"
	"database/sql"
	"fmt"

	"sales-analytics/internal/storage"
)

// GetYearlyTargets loads the users' targets of one type together with their quarterly split.
func (s *Storage) GetYearlyTargets(ctx context.Context, userIDs []int64, year int, targetType string) ([]storage.YearlyTarget, error) {
	const op = "storage.mysql.GetYearlyTargets"

	if len(userIDs) == 0 {
		return nil, nil
	}

	cond, args := inCondition("y.user_id", userIDs)
	stmt := `
		SELECT y.target_id, y.user_id, y.fiscal_year, y.target_type, y.amount, q.fiscal_quarter, q.percentage
		FROM yearlytarget y
		LEFT JOIN quarterlytarget q ON q.target_id = y.target_id
		WHERE ` + cond + ` AND y.fiscal_year = ? AND y.target_type = ?
		ORDER BY y.target_id, q.fiscal_quarter`

	rows, err := s.db.QueryContext(ctx, stmt, append(args, year, targetType)...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer rows.Close()

	var (
		targets []storage.YearlyTarget
		index   = make(map[int64]int)
	)

	for rows.Next() {
		var (
			t          storage.YearlyTarget
			quarter    sql.NullInt64
			percentage sql.NullFloat64
		)

		if err := rows.Scan(&t.ID, &t.UserID, &t.FiscalYear, &t.TargetType, &t.Amount, &quarter, &percentage); err != nil {
			return nil, fmt.Errorf("%s: scan target: %w", op, err)
		}

		i, ok := index[t.ID]
		if !ok {
			t.QuarterPercentages = make(map[int]float64)
			targets = append(targets, t)
			i = len(targets) - 1
			index[t.ID] = i
		}

		if quarter.Valid {
			targets[i].QuarterPercentages[int(quarter.Int64)] = nullFloat(percentage)
		}
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: rows iteration: %w", op, err)
	}

	return targets, nil
}
