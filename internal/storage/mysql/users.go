package mysql

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"sales-analytics/internal/storage"
)

const userColumns = "user_id, username, email, first_name, last_name, role"

func scanUser(row interface{ Scan(...any) error }) (*storage.User, error) {
	u := &storage.User{}
	if err := row.Scan(&u.ID, &u.Username, &u.Email, &u.FirstName, &u.LastName, &u.Role); err != nil {
		return nil, err
	}
	return u, nil
}

func (s *Storage) GetUserByUsername(ctx context.Context, username string) (*storage.User, error) {
	const op = "storage.mysql.GetUserByUsername"

	stmt := "SELECT " + userColumns + " FROM user WHERE username = ?"

	u, err := scanUser(s.db.QueryRowContext(ctx, stmt, username))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%s: username=%q: %w", op, username, storage.ErrUserNotFound)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return u, nil
}

func (s *Storage) GetUsersByIDs(ctx context.Context, ids []int64) ([]*storage.User, error) {
	const op = "storage.mysql.GetUsersByIDs"

	if len(ids) == 0 {
		return nil, nil
	}

	cond, args := inCondition("user_id", ids)
	return s.queryUsers(ctx, op, "SELECT "+userColumns+" FROM user WHERE "+cond+" ORDER BY user_id", args...)
}

func (s *Storage) GetUsersByRole(ctx context.Context, role string) ([]*storage.User, error) {
	const op = "storage.mysql.GetUsersByRole"

	return s.queryUsers(ctx, op, "SELECT "+userColumns+" FROM user WHERE role = ? ORDER BY user_id", role)
}

func (s *Storage) queryUsers(ctx context.Context, op, stmt string, args ...any) ([]*storage.User, error) {
	rows, err := s.db.QueryContext(ctx, stmt, args...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer rows.Close()

	var users []*storage.User
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, fmt.Errorf("%s: scan user: %w", op, err)
		}
		users = append(users, u)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: rows iteration: %w", op, err)
	}

	return users, nil
}

// GetAccountExecutiveIDsByDirector returns the AEs reporting to the director, ordered by id.
func (s *Storage) GetAccountExecutiveIDsByDirector(ctx context.Context, directorID int64) ([]int64, error) {
	const op = "storage.mysql.GetAccountExecutiveIDsByDirector"

	stmt := `SELECT account_executive_id FROM directoraccountexecutive WHERE director_id = ? ORDER BY account_executive_id`

	return s.queryIDs(ctx, op, stmt, directorID)
}

// GetClientIDsByAccountExecutives returns every client owned by any of the given AEs.
func (s *Storage) GetClientIDsByAccountExecutives(ctx context.Context, aeIDs []int64) ([]int64, error) {
	const op = "storage.mysql.GetClientIDsByAccountExecutives"

	if len(aeIDs) == 0 {
		return nil, nil
	}

	cond, args := inCondition("account_executive_id", aeIDs)
	return s.queryIDs(ctx, op, "SELECT client_id FROM client WHERE "+cond+" ORDER BY client_id", args...)
}

func (s *Storage) queryIDs(ctx context.Context, op, stmt string, args ...any) ([]int64, error) {
	rows, err := s.db.QueryContext(ctx, stmt, args...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer rows.Close()

	var ids []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("%s: scan id: %w", op, err)
		}
		ids = append(ids, id)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: rows iteration: %w", op, err)
	}

	return ids, nil
}
