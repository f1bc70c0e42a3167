package mysql

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	_ "github.com/go-sql-driver/mysql"

	"sales-analytics/internal/config"
	"sales-analytics/internal/storage"
)

const dateTimeLayout = "2006-01-02 15:04:05"

type Storage struct {
	db *sql.DB
}

func New(cfg config.Config) (*Storage, error) {
	const op = "storage.mysql.New"

	db, err := sql.Open("mysql", cfg.DSN())
	if err != nil {
		return nil, fmt.Errorf("%s: failed to open db: %w", op, err)
	}

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)

	return &Storage{db: db}, nil
}

// NewWithDB wraps an already opened handle.
func NewWithDB(db *sql.DB) *Storage {
	return &Storage{db: db}
}

func (s *Storage) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

func (s *Storage) Close() error {
	return s.db.Close()
}

// clientCondition renders "<column> IN (?,...)" for the filter. Callers must short-circuit
// empty filters before building a query.
func clientCondition(column string, f storage.ClientFilter) (string, []any) {
	if f.All {
		return "1 = 1", nil
	}

	return inCondition(column, f.IDs)
}

func inCondition[T any](column string, values []T) (string, []any) {
	placeholders := strings.TrimSuffix(strings.Repeat("?,", len(values)), ",")
	args := make([]any, len(values))
	for i, v := range values {
		args[i] = v
	}

	return column + " IN (" + placeholders + ")", args
}

// civilDate scans DATE columns delivered either as time.Time (parseTime=true) or as text.
type civilDate struct {
	time.Time
}

func (d *civilDate) Scan(src any) error {
	switch v := src.(type) {
	case nil:
		d.Time = time.Time{}
		return nil
	case time.Time:
		d.Time = v
		return nil
	case []byte:
		return d.parse(string(v))
	case string:
		return d.parse(v)
	default:
		return fmt.Errorf("unsupported date value %T", src)
	}
}

func (d *civilDate) parse(s string) error {
	if len(s) < len("2006-01-02") {
		return fmt.Errorf("malformed date %q", s)
	}

	t, err := time.Parse("2006-01-02", s[:10])
	if err != nil {
		return fmt.Errorf("malformed date %q: %w", s, err)
	}

	d.Time = t
	return nil
}

func nullFloat(v sql.NullFloat64) float64 {
	if !v.Valid {
		return 0
	}
	return v.Float64
}
