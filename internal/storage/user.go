package storage

import "errors"

const (
	RoleDirector         = "director"
	RoleAccountExecutive = "account-executive"
	RoleAdmin            = "admin"
)

var ErrUserNotFound = errors.New("user not found")

type User struct {
	ID        int64   `json:"user_id"`
	Username  string  `json:"username"`
	Email     string  `json:"email"`
	FirstName *string `json:"first_name"`
	LastName  *string `json:"last_name"`
	Role      string  `json:"role"`
}

// FullName joins first and last name, tolerating missing parts.
func (u User) FullName() string {
	var first, last string
	if u.FirstName != nil {
		first = *u.FirstName
	}
	if u.LastName != nil {
		last = *u.LastName
	}

	switch {
	case first == "":
		return last
	case last == "":
		return first
	}
	return first + " " + last
}
