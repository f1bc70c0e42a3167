package executives

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"golang.org/x/sync/errgroup"

	"sales-analytics/internal/service/aggregate"
	"sales-analytics/internal/service/chart"
	"sales-analytics/internal/storage"
)

var (
	ErrMissingUsername = errors.New("missing required parameter: username")
	ErrForbidden       = errors.New("only directors can view account executive performance")
)

type Store interface {
	GetUserByUsername(ctx context.Context, username string) (*storage.User, error)
	GetUsersByRole(ctx context.Context, role string) ([]*storage.User, error)
	GetUsersByIDs(ctx context.Context, ids []int64) ([]*storage.User, error)
	GetAccountExecutiveIDsByDirector(ctx context.Context, directorID int64) ([]int64, error)
	GetClientIDsByAccountExecutives(ctx context.Context, aeIDs []int64) ([]int64, error)
	aggregate.RevenueStore
	aggregate.WinsStore
	aggregate.SigningsStore
}

type AEPerformance struct {
	AccountExecutiveID   int64   `json:"account_executive_id"`
	AccountExecutiveName string  `json:"account_executive_name"`
	WinsRevenue          float64 `json:"wins_revenue"`
	WinCount             float64 `json:"win_count"`
	SigningRevenue       float64 `json:"signing_revenue"`
}

type Performance struct {
	AEPerformance []AEPerformance `json:"ae_performance"`
	Year          int             `json:"year"`
	TotalRevenue  float64         `json:"total_revenue"`
}

type Service struct {
	store    Store
	revenue  aggregate.Aggregator
	wins     aggregate.Aggregator
	signings aggregate.Aggregator
}

func New(store Store) *Service {
	return &Service{
		store:    store,
		revenue:  aggregate.NewRevenue(store),
		wins:     aggregate.NewWins(store),
		signings: aggregate.NewSignings(store),
	}
}

func (s *Service) ListAccountExecutives(ctx context.Context) ([]*storage.User, error) {
	const op = "service.executives.ListAccountExecutives"

	users, err := s.store.GetUsersByRole(ctx, storage.RoleAccountExecutive)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	if users == nil {
		users = []*storage.User{}
	}

	return users, nil
}

// Performance ranks the director's AEs by the revenue their clients produced in the year.
func (s *Service) Performance(ctx context.Context, username string, year int) (*Performance, error) {
	const op = "service.executives.Performance"

	if strings.TrimSpace(username) == "" {
		return nil, ErrMissingUsername
	}

	user, err := s.store.GetUserByUsername(ctx, username)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	if user.Role != storage.RoleDirector {
		return nil, fmt.Errorf("%s: %s is %s: %w", op, username, user.Role, ErrForbidden)
	}

	aeIDs, err := s.store.GetAccountExecutiveIDsByDirector(ctx, user.ID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	out := &Performance{AEPerformance: []AEPerformance{}, Year: year}
	if len(aeIDs) == 0 {
		return out, nil
	}

	users, err := s.store.GetUsersByIDs(ctx, aeIDs)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	rows := make([]AEPerformance, len(users))

	g, gCtx := errgroup.WithContext(ctx)
	g.SetLimit(4)
	for i, u := range users {
		g.Go(func() error {
			row, err := s.performanceOf(gCtx, u, year)
			if err != nil {
				return err
			}
			rows[i] = row
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	sort.SliceStable(rows, func(i, j int) bool { return rows[i].WinsRevenue > rows[j].WinsRevenue })

	var total float64
	for _, r := range rows {
		total += r.WinsRevenue
	}

	out.AEPerformance = rows
	out.TotalRevenue = chart.Round2(total)

	return out, nil
}

func (s *Service) performanceOf(ctx context.Context, ae *storage.User, year int) (AEPerformance, error) {
	row := AEPerformance{AccountExecutiveID: ae.ID, AccountExecutiveName: ae.FullName()}

	clientIDs, err := s.store.GetClientIDsByAccountExecutives(ctx, []int64{ae.ID})
	if err != nil {
		return row, fmt.Errorf("clients of ae %d: %w", ae.ID, err)
	}

	f := storage.ClientFilter{IDs: clientIDs}

	revenue, err := s.revenue.Compute(ctx, f, year)
	if err != nil {
		return row, err
	}

	wins, err := s.wins.Compute(ctx, f, year)
	if err != nil {
		return row, err
	}

	signings, err := s.signings.Compute(ctx, f, year)
	if err != nil {
		return row, err
	}

	row.WinsRevenue = chart.Round2(revenue)
	row.WinCount = wins
	row.SigningRevenue = chart.Round2(signings)

	return row, nil
}
