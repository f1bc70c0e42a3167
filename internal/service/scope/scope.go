package scope

import (
	"context"
	"fmt"

	"sales-analytics/internal/storage"
)

// Kind says how much of the client base a user can see.
type Kind int

const (
	Empty Kind = iota
	Clients
	All
)

func (k Kind) String() string {
	switch k {
	case Clients:
		return "clients"
	case All:
		return "all"
	default:
		return "empty"
	}
}

type Store interface {
	GetAccountExecutiveIDsByDirector(ctx context.Context, directorID int64) ([]int64, error)
	GetClientIDsByAccountExecutives(ctx context.Context, aeIDs []int64) ([]int64, error)
}

// Scope is the resolved visibility of one user. AccountExecutiveIDs lists the AEs whose
// targets roll up into the user's numbers: the AE itself, or every AE under a director.
type Scope struct {
	Kind                Kind
	ClientIDs           []int64
	AccountExecutiveIDs []int64
}

func (s Scope) IsEmpty() bool {
	return s.Kind == Empty || (s.Kind == Clients && len(s.ClientIDs) == 0)
}

func (s Scope) Filter() storage.ClientFilter {
	switch s.Kind {
	case All:
		return storage.ClientFilter{All: true}
	case Clients:
		return storage.ClientFilter{IDs: s.ClientIDs}
	default:
		return storage.ClientFilter{}
	}
}

// Resolver maps a user to the clients they may see. Roles other than director and
// account-executive get otherRole without touching the store.
type Resolver struct {
	store     Store
	otherRole Kind
}

func NewResolver(store Store, otherRole Kind) *Resolver {
	return &Resolver{store: store, otherRole: otherRole}
}

func (r *Resolver) Resolve(ctx context.Context, user *storage.User) (Scope, error) {
	const op = "service.scope.Resolve"

	switch user.Role {
	case storage.RoleAccountExecutive:
		aeIDs := []int64{user.ID}

		clientIDs, err := r.store.GetClientIDsByAccountExecutives(ctx, aeIDs)
		if err != nil {
			return Scope{}, fmt.Errorf("%s: clients of ae %d: %w", op, user.ID, err)
		}

		return clientScope(aeIDs, clientIDs), nil

	case storage.RoleDirector:
		aeIDs, err := r.store.GetAccountExecutiveIDsByDirector(ctx, user.ID)
		if err != nil {
			return Scope{}, fmt.Errorf("%s: aes of director %d: %w", op, user.ID, err)
		}

		// a director without reports sees nothing
		if len(aeIDs) == 0 {
			return Scope{Kind: Empty}, nil
		}

		clientIDs, err := r.store.GetClientIDsByAccountExecutives(ctx, aeIDs)
		if err != nil {
			return Scope{}, fmt.Errorf("%s: clients of director %d: %w", op, user.ID, err)
		}

		return clientScope(aeIDs, clientIDs), nil
	}

	return Scope{Kind: r.otherRole}, nil
}

func clientScope(aeIDs, clientIDs []int64) Scope {
	if len(clientIDs) == 0 {
		return Scope{Kind: Empty, AccountExecutiveIDs: aeIDs}
	}

	return Scope{Kind: Clients, ClientIDs: clientIDs, AccountExecutiveIDs: aeIDs}
}
