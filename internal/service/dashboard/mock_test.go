package dashboard

import (
	"context"

	"github.com/stretchr/testify/mock"

	"sales-analytics/internal/storage"
)

type MockStore struct {
	mock.Mock
}

func (m *MockStore) GetUserByUsername(ctx context.Context, username string) (*storage.User, error) {
	args := m.Called(ctx, username)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*storage.User), args.Error(1)
}

func (m *MockStore) GetYearlyTargets(ctx context.Context, userIDs []int64, year int, targetType string) ([]storage.YearlyTarget, error) {
	args := m.Called(ctx, userIDs, year, targetType)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]storage.YearlyTarget), args.Error(1)
}

func (m *MockStore) GetAccountExecutiveIDsByDirector(ctx context.Context, directorID int64) ([]int64, error) {
	args := m.Called(ctx, directorID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]int64), args.Error(1)
}

func (m *MockStore) GetClientIDsByAccountExecutives(ctx context.Context, aeIDs []int64) ([]int64, error) {
	args := m.Called(ctx, aeIDs)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]int64), args.Error(1)
}

func (m *MockStore) SumWeightedPipeline(ctx context.Context, f storage.ClientFilter, period storage.PeriodRange) (float64, error) {
	args := m.Called(ctx, f, period)
	return args.Get(0).(float64), args.Error(1)
}

func (m *MockStore) SumRevenue(ctx context.Context, f storage.ClientFilter, year int) (float64, error) {
	args := m.Called(ctx, f, year)
	return args.Get(0).(float64), args.Error(1)
}

func (m *MockStore) GetSigningTerms(ctx context.Context, f storage.ClientFilter, year int) ([]storage.SigningTerm, error) {
	args := m.Called(ctx, f, year)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]storage.SigningTerm), args.Error(1)
}

func (m *MockStore) SumWinMultipliers(ctx context.Context, f storage.ClientFilter, year int) (float64, error) {
	args := m.Called(ctx, f, year)
	return args.Get(0).(float64), args.Error(1)
}

func (m *MockStore) RevenueByMonth(ctx context.Context, f storage.ClientFilter, year int) (map[int]float64, error) {
	args := m.Called(ctx, f, year)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[int]float64), args.Error(1)
}

func (m *MockStore) RevenueByQuarter(ctx context.Context, f storage.ClientFilter, year int) (map[int]float64, error) {
	args := m.Called(ctx, f, year)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[int]float64), args.Error(1)
}

func (m *MockStore) WinsByQuarter(ctx context.Context, f storage.ClientFilter, year int) (map[int]float64, error) {
	args := m.Called(ctx, f, year)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[int]float64), args.Error(1)
}

func (m *MockStore) CountOpportunitiesByForecast(ctx context.Context, f storage.ClientFilter, period storage.PeriodRange) (map[string]int, error) {
	args := m.Called(ctx, f, period)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[string]int), args.Error(1)
}

func (m *MockStore) CountSigningsByProductCategory(ctx context.Context, f storage.ClientFilter, year int) (map[string]int, error) {
	args := m.Called(ctx, f, year)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[string]int), args.Error(1)
}

type MockRecorder struct {
	mock.Mock
}

func (m *MockRecorder) MetricDegraded(metric string) {
	m.Called(metric)
}
