package aggregate

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"

	"sales-analytics/internal/storage"
)

const (
	MetricPipeline = "pipeline"
	MetricRevenue  = "revenue"
	MetricSignings = "signings"
	MetricWins     = "wins"
)

// Aggregator computes one KPI for a client set and fiscal year. An empty filter yields 0
// without reaching the store.
type Aggregator interface {
	Name() string
	Compute(ctx context.Context, f storage.ClientFilter, year int) (float64, error)
}

type PipelineStore interface {
	SumWeightedPipeline(ctx context.Context, f storage.ClientFilter, period storage.PeriodRange) (float64, error)
}

type RevenueStore interface {
	SumRevenue(ctx context.Context, f storage.ClientFilter, year int) (float64, error)
}

type SigningsStore interface {
	GetSigningTerms(ctx context.Context, f storage.ClientFilter, year int) ([]storage.SigningTerm, error)
}

type WinsStore interface {
	SumWinMultipliers(ctx context.Context, f storage.ClientFilter, year int) (float64, error)
}

type Store interface {
	PipelineStore
	RevenueStore
	SigningsStore
	WinsStore
}

// Default returns the four KPI aggregators in display order.
func Default(store Store) []Aggregator {
	return []Aggregator{
		NewPipeline(store),
		NewRevenue(store),
		NewSignings(store),
		NewWins(store),
	}
}

// Pipeline weights open opportunities by probability. Opportunities are placed in the year by
// their creation date.
type Pipeline struct {
	store PipelineStore
}

func NewPipeline(store PipelineStore) *Pipeline { return &Pipeline{store: store} }

func (p *Pipeline) Name() string { return MetricPipeline }

func (p *Pipeline) Compute(ctx context.Context, f storage.ClientFilter, year int) (float64, error) {
	const op = "service.aggregate.Pipeline"

	if f.Empty() {
		return 0, nil
	}

	sum, err := p.store.SumWeightedPipeline(ctx, f, FiscalYearSpan(year))
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}

	return sum, nil
}

type Revenue struct {
	store RevenueStore
}

func NewRevenue(store RevenueStore) *Revenue { return &Revenue{store: store} }

func (r *Revenue) Name() string { return MetricRevenue }

func (r *Revenue) Compute(ctx context.Context, f storage.ClientFilter, year int) (float64, error) {
	const op = "service.aggregate.Revenue"

	if f.Empty() {
		return 0, nil
	}

	sum, err := r.store.SumRevenue(ctx, f, year)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}

	return sum, nil
}

// Signings sums the annualized value of every contract signed in the year.
type Signings struct {
	store SigningsStore
}

func NewSignings(store SigningsStore) *Signings { return &Signings{store: store} }

func (s *Signings) Name() string { return MetricSignings }

func (s *Signings) Compute(ctx context.Context, f storage.ClientFilter, year int) (float64, error) {
	const op = "service.aggregate.Signings"

	if f.Empty() {
		return 0, nil
	}

	terms, err := s.store.GetSigningTerms(ctx, f, year)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}

	var sum float64
	for _, t := range terms {
		sum += AnnualizedValue(t.TotalContractValue, t.Start, t.End)
	}

	return sum, nil
}

type Wins struct {
	store WinsStore
}

func NewWins(store WinsStore) *Wins { return &Wins{store: store} }

func (w *Wins) Name() string { return MetricWins }

func (w *Wins) Compute(ctx context.Context, f storage.ClientFilter, year int) (float64, error) {
	const op = "service.aggregate.Wins"

	if f.Empty() {
		return 0, nil
	}

	sum, err := w.store.SumWinMultipliers(ctx, f, year)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}

	return sum, nil
}

// AnnualizedValue divides the contract value by the number of calendar years it touches.
// Only the year components count, so Dec 2023 to Jan 2024 is two years. A missing date
// counts as a single-year contract.
func AnnualizedValue(tcv float64, start, end time.Time) float64 {
	if start.IsZero() || end.IsZero() {
		return tcv
	}

	years := end.Year() - start.Year() + 1
	if years < 1 {
		years = 1
	}

	return tcv / float64(years)
}

// FiscalYearSpan covers the calendar year, inclusive to the last second.
func FiscalYearSpan(year int) storage.PeriodRange {
	from := time.Date(year, time.January, 1, 0, 0, 0, 0, time.UTC)

	return storage.PeriodRange{From: from, To: from.AddDate(1, 0, 0).Add(-time.Second)}
}

func FiscalQuarterSpan(year, quarter int) storage.PeriodRange {
	from := time.Date(year, time.Month((quarter-1)*3+1), 1, 0, 0, 0, 0, time.UTC)

	return storage.PeriodRange{From: from, To: from.AddDate(0, 3, 0).Add(-time.Second)}
}

// Result is a metric value or a zero carrying the reason it could not be computed.
type Result struct {
	Metric string
	Value  float64
	Err    error
}

func (r Result) Degraded() bool {
	return r.Err != nil
}

// RunAll computes every aggregator concurrently. A failing aggregator yields a degraded zero
// result and never cancels its siblings. Results keep the input order.
func RunAll(ctx context.Context, aggregators []Aggregator, f storage.ClientFilter, year int) []Result {
	results := make([]Result, len(aggregators))

	var g errgroup.Group
	for i, a := range aggregators {
		g.Go(func() error {
			value, err := a.Compute(ctx, f, year)
			if err != nil {
				value = 0
			}
			results[i] = Result{Metric: a.Name(), Value: value, Err: err}
			return nil
		})
	}

	_ = g.Wait()

	return results
}
