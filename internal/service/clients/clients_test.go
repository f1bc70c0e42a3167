package clients

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

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

func (m *MockStore) IndustryDistribution(ctx context.Context, f storage.ClientFilter, limit int) ([]storage.IndustryBucket, error) {
	args := m.Called(ctx, f, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]storage.IndustryBucket), args.Error(1)
}

func (m *MockStore) ProvinceDistribution(ctx context.Context, f storage.ClientFilter) ([]storage.ProvinceBucket, error) {
	args := m.Called(ctx, f)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]storage.ProvinceBucket), args.Error(1)
}

func (m *MockStore) FindClients(ctx context.Context, f storage.ClientFilter, provinces, industries []string, limit int) ([]storage.ClientRow, int, error) {
	args := m.Called(ctx, f, provinces, industries, limit)
	if args.Get(0) == nil {
		return nil, args.Int(1), args.Error(2)
	}
	return args.Get(0).([]storage.ClientRow), args.Int(1), args.Error(2)
}

var admin = &storage.User{ID: 5, Username: "root", Role: storage.RoleAdmin}

func TestIndustryTreemap(t *testing.T) {
	store := new(MockStore)
	store.On("GetUserByUsername", mock.Anything, "jsmith").Return(&storage.User{ID: 2, Role: storage.RoleAccountExecutive}, nil)
	store.On("GetClientIDsByAccountExecutives", mock.Anything, []int64{2}).Return([]int64{10, 11}, nil)
	store.On("IndustryDistribution", mock.Anything, storage.ClientFilter{IDs: []int64{10, 11}}, 10).Return([]storage.IndustryBucket{
		{Industry: "Healthcare", ClientCount: 1, Revenue: 500.555},
		{Industry: "Retail", ClientCount: 2, Revenue: 250},
	}, nil)

	entries, err := New(store).IndustryTreemap(context.Background(), "jsmith")
	require.NoError(t, err)

	assert.Equal(t, []TreemapEntry{
		{X: "Healthcare", Y: 1, Revenue: 500.56, ClientCount: 1},
		{X: "Retail", Y: 2, Revenue: 250, ClientCount: 2},
	}, entries)
}

func TestProvincePie_AdminSeesAll(t *testing.T) {
	store := new(MockStore)
	store.On("GetUserByUsername", mock.Anything, "root").Return(admin, nil)
	store.On("ProvinceDistribution", mock.Anything, storage.ClientFilter{All: true}).Return([]storage.ProvinceBucket{
		{Province: "BC", ClientCount: 1, Revenue: 10},
		{Province: "ON", ClientCount: 3, Revenue: 30},
		{Province: "XX", ClientCount: 0},
		{Province: "AB", ClientCount: 1, Revenue: 5},
	}, nil)

	pie, err := New(store).ProvincePie(context.Background(), "root")
	require.NoError(t, err)

	assert.Equal(t, []string{"Ontario", "Alberta", "British Columbia"}, pie.Labels)
	assert.Equal(t, []int{3, 1, 1}, pie.Series)
	require.Len(t, pie.AdditionalData, 3)
	assert.Equal(t, ProvinceEntry{Province: "ON", ProvinceName: "Ontario", ClientCount: 3, Revenue: 30}, pie.AdditionalData[0])
}

func TestProvincePie_DirectorWithoutReports(t *testing.T) {
	store := new(MockStore)
	store.On("GetUserByUsername", mock.Anything, "lonely").Return(&storage.User{ID: 9, Role: storage.RoleDirector}, nil)
	store.On("GetAccountExecutiveIDsByDirector", mock.Anything, int64(9)).Return(nil, nil)
	store.On("ProvinceDistribution", mock.Anything, storage.ClientFilter{}).Return(nil, nil)

	pie, err := New(store).ProvincePie(context.Background(), "lonely")
	require.NoError(t, err)

	assert.NotNil(t, pie.Labels)
	assert.Empty(t, pie.Labels)
	assert.Empty(t, pie.Series)
}

func TestClients_NormalizesFilters(t *testing.T) {
	store := new(MockStore)
	store.On("GetUserByUsername", mock.Anything, "root").Return(admin, nil)
	store.On("FindClients", mock.Anything, storage.ClientFilter{All: true}, []string{"ON", "BC"}, []string{"Retail"}, 1000).
		Return([]storage.ClientRow{{Client: storage.Client{ID: 10, Name: "Acme"}, AccountExecutive: "John Smith"}}, 1, nil)

	list, err := New(store).Clients(context.Background(), "root", []string{" on", "bc ", ""}, []string{"Retail", " "})
	require.NoError(t, err)

	assert.Equal(t, 1, list.TotalCount)
	assert.Equal(t, "Acme", list.Clients[0].Name)
	assert.Equal(t, map[string][]string{"provinces": {"ON", "BC"}, "industries": {"Retail"}}, list.AppliedFilters)
}

func TestClients_NoFilters(t *testing.T) {
	store := new(MockStore)
	store.On("GetUserByUsername", mock.Anything, "root").Return(admin, nil)
	store.On("FindClients", mock.Anything, storage.ClientFilter{All: true}, []string(nil), []string(nil), 1000).Return(nil, 0, nil)

	list, err := New(store).Clients(context.Background(), "root", nil, nil)
	require.NoError(t, err)

	assert.NotNil(t, list.Clients)
	assert.Empty(t, list.AppliedFilters)
}

func TestClients_MissingUsername(t *testing.T) {
	_, err := New(new(MockStore)).Clients(context.Background(), "", nil, nil)
	assert.ErrorIs(t, err, ErrMissingUsername)
}

func TestProvinceName(t *testing.T) {
	assert.Equal(t, "Quebec", ProvinceName("QC"))
	assert.Equal(t, "ZZ", ProvinceName("ZZ"))
}
