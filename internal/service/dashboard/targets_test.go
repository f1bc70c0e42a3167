package dashboard

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"sales-analytics/internal/service/aggregate"
	"sales-analytics/internal/storage"
)

func TestQuarterlyTargets_Revenue(t *testing.T) {
	store := new(MockStore)
	withDirector(store)
	store.On("GetYearlyTargets", mock.Anything, []int64{2, 3}, 2024, storage.TargetRevenue).Return([]storage.YearlyTarget{
		{UserID: 2, Amount: 1000, QuarterPercentages: map[int]float64{1: 10, 2: 20, 3: 30, 4: 40}},
		{UserID: 3, Amount: 400},
	}, nil)
	store.On("RevenueByQuarter", mock.Anything, directorFilter, 2024).Return(map[int]float64{1: 200, 4: 400}, nil)

	quarters, err := newService(store, new(MockRecorder)).QuarterlyTargets(context.Background(), "shogg", 2024, storage.TargetRevenue)
	require.NoError(t, err)

	assert.Equal(t, []QuarterTarget{
		{Quarter: 1, Target: 200, Actual: 200, Attainment: 100},
		{Quarter: 2, Target: 300, Actual: 0, Attainment: 0},
		{Quarter: 3, Target: 400, Actual: 0, Attainment: 0},
		{Quarter: 4, Target: 500, Actual: 400, Attainment: 80},
	}, quarters)
}

func TestQuarterlyTargets_SigningsAnnualizedByQuarter(t *testing.T) {
	store := new(MockStore)
	store.On("GetUserByUsername", mock.Anything, "jsmith").Return(ae, nil)
	store.On("GetClientIDsByAccountExecutives", mock.Anything, []int64{2}).Return([]int64{10}, nil)
	store.On("GetYearlyTargets", mock.Anything, []int64{2}, 2024, storage.TargetSignings).Return(nil, nil)
	store.On("GetSigningTerms", mock.Anything, storage.ClientFilter{IDs: []int64{10}}, 2024).Return([]storage.SigningTerm{
		{TotalContractValue: 300, Start: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), End: time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC), FiscalQuarter: 2},
	}, nil)

	quarters, err := newService(store, new(MockRecorder)).QuarterlyTargets(context.Background(), "jsmith", 2024, storage.TargetSignings)
	require.NoError(t, err)

	assert.Equal(t, 100.0, quarters[1].Actual)
	// no target means no attainment, never a division by zero
	assert.Zero(t, quarters[1].Attainment)
}

func TestQuarterlyTargets_PipelinePerQuarterSpan(t *testing.T) {
	store := new(MockStore)
	store.On("GetUserByUsername", mock.Anything, "jsmith").Return(ae, nil)
	store.On("GetClientIDsByAccountExecutives", mock.Anything, []int64{2}).Return([]int64{10}, nil)
	store.On("GetYearlyTargets", mock.Anything, []int64{2}, 2024, storage.TargetPipeline).
		Return([]storage.YearlyTarget{{UserID: 2, Amount: 400}}, nil)

	f := storage.ClientFilter{IDs: []int64{10}}
	for q := 1; q <= 4; q++ {
		store.On("SumWeightedPipeline", mock.Anything, f, aggregate.FiscalQuarterSpan(2024, q)).Return(float64(q*10), nil)
	}

	quarters, err := newService(store, new(MockRecorder)).QuarterlyTargets(context.Background(), "jsmith", 2024, storage.TargetPipeline)
	require.NoError(t, err)

	for i, q := range quarters {
		assert.Equal(t, 100.0, q.Target)
		assert.Equal(t, float64((i+1)*10), q.Actual)
		assert.Equal(t, float64((i+1)*10), q.Attainment)
	}
	store.AssertExpectations(t)
}

func TestQuarterlyTargets_UnknownMetric(t *testing.T) {
	store := new(MockStore)

	_, err := newService(store, new(MockRecorder)).QuarterlyTargets(context.Background(), "shogg", 2024, "bonus")
	assert.ErrorIs(t, err, ErrUnknownMetric)
	store.AssertNotCalled(t, "GetUserByUsername", mock.Anything, mock.Anything)
}

func TestQuarterlyTargets_OtherRole(t *testing.T) {
	store := new(MockStore)
	store.On("GetUserByUsername", mock.Anything, "root").Return(admin, nil)

	quarters, err := newService(store, new(MockRecorder)).QuarterlyTargets(context.Background(), "root", 2024, storage.TargetWins)
	require.NoError(t, err)
	require.Len(t, quarters, 4)
	for _, q := range quarters {
		assert.Equal(t, QuarterTarget{Quarter: q.Quarter}, q)
	}
}
