package mysql

import (
	"context"
	"database/sql"
	"fmt"
	"time"
)

// RunReadOnlyQuery executes an arbitrary statement inside a read-only transaction and returns at
// most maxRows rows keyed by column name. The transaction is always rolled back.
func (s *Storage) RunReadOnlyQuery(ctx context.Context, query string, maxRows int) ([]map[string]any, error) {
	const op = "storage.mysql.RunReadOnlyQuery"

	tx, err := s.db.BeginTx(ctx, &sql.TxOptions{ReadOnly: true})
	if err != nil {
		return nil, fmt.Errorf("%s: begin read-only tx: %w", op, err)
	}
	defer tx.Rollback()

	rows, err := tx.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer rows.Close()

	columns, err := rows.Columns()
	if err != nil {
		return nil, fmt.Errorf("%s: columns: %w", op, err)
	}

	result := make([]map[string]any, 0)
	for rows.Next() {
		if maxRows > 0 && len(result) >= maxRows {
			break
		}

		values := make([]any, len(columns))
		pointers := make([]any, len(columns))
		for i := range values {
			pointers[i] = &values[i]
		}

		if err := rows.Scan(pointers...); err != nil {
			return nil, fmt.Errorf("%s: scan row: %w", op, err)
		}

		record := make(map[string]any, len(columns))
		for i, col := range columns {
			record[col] = normalizeValue(values[i])
		}
		result = append(result, record)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: rows iteration: %w", op, err)
	}

	return result, nil
}

// normalizeValue turns driver values into JSON-friendly ones. DECIMAL and text arrive as []byte.
func normalizeValue(v any) any {
	switch t := v.(type) {
	case []byte:
		return string(t)
	case time.Time:
		if t.Hour() == 0 && t.Minute() == 0 && t.Second() == 0 && t.Nanosecond() == 0 {
			return t.Format("2006-01-02")
		}
		return t.Format(dateTimeLayout)
	default:
		return t
	}
}
