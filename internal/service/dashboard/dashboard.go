package dashboard

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"golang.org/x/sync/errgroup"

	"sales-analytics/internal/service/aggregate"
	"sales-analytics/internal/service/chart"
	"sales-analytics/internal/service/scope"
	"sales-analytics/internal/storage"
)

var (
	ErrMissingUsername = errors.New("missing required parameter: username")
	ErrUnknownMetric   = errors.New("unknown target metric")
)

type ChartStore interface {
	RevenueByMonth(ctx context.Context, f storage.ClientFilter, year int) (map[int]float64, error)
	RevenueByQuarter(ctx context.Context, f storage.ClientFilter, year int) (map[int]float64, error)
	WinsByQuarter(ctx context.Context, f storage.ClientFilter, year int) (map[int]float64, error)
	CountOpportunitiesByForecast(ctx context.Context, f storage.ClientFilter, period storage.PeriodRange) (map[string]int, error)
	CountSigningsByProductCategory(ctx context.Context, f storage.ClientFilter, year int) (map[string]int, error)
}

type Store interface {
	GetUserByUsername(ctx context.Context, username string) (*storage.User, error)
	GetYearlyTargets(ctx context.Context, userIDs []int64, year int, targetType string) ([]storage.YearlyTarget, error)
	scope.Store
	aggregate.Store
	ChartStore
}

type Recorder interface {
	MetricDegraded(metric string)
}

type KPIs struct {
	Pipeline float64 `json:"pipeline"`
	Revenue  float64 `json:"revenue"`
	Signings float64 `json:"signings"`
	Wins     float64 `json:"wins"`
}

type RevenuePoint struct {
	Month   int     `json:"month"`
	Revenue float64 `json:"revenue"`
}

type WinPoint struct {
	Quarter  int     `json:"quarter"`
	WinCount float64 `json:"win_count"`
}

type PipelineShare struct {
	ForecastCategory string  `json:"forecast_category"`
	Count            int     `json:"count"`
	Percentage       float64 `json:"percentage"`
}

type SigningShare struct {
	ProductCategory string  `json:"product_category"`
	Count           int     `json:"count"`
	Percentage      float64 `json:"percentage"`
}

// Service answers the landing page: KPI cards, charts and target attainment for one user.
// Roles other than director and account-executive see zeros.
type Service struct {
	log         *slog.Logger
	store       Store
	resolver    *scope.Resolver
	aggregators []aggregate.Aggregator
	recorder    Recorder
}

func New(log *slog.Logger, store Store, recorder Recorder) *Service {
	return &Service{
		log:         log,
		store:       store,
		resolver:    scope.NewResolver(store, scope.Empty),
		aggregators: aggregate.Default(store),
		recorder:    recorder,
	}
}

func (s *Service) scopeFor(ctx context.Context, username string) (scope.Scope, error) {
	const op = "service.dashboard.scopeFor"

	if strings.TrimSpace(username) == "" {
		return scope.Scope{}, ErrMissingUsername
	}

	user, err := s.store.GetUserByUsername(ctx, username)
	if err != nil {
		return scope.Scope{}, fmt.Errorf("%s: %w", op, err)
	}

	sc, err := s.resolver.Resolve(ctx, user)
	if err != nil {
		return scope.Scope{}, fmt.Errorf("%s: %w", op, err)
	}

	return sc, nil
}

func (s *Service) KPISummary(ctx context.Context, username string, year int) (KPIs, error) {
	sc, err := s.scopeFor(ctx, username)
	if err != nil {
		return KPIs{}, err
	}

	return s.kpis(ctx, sc, year), nil
}

// kpis never fails: a metric whose query errors is logged, counted and reported as zero.
func (s *Service) kpis(ctx context.Context, sc scope.Scope, year int) KPIs {
	var out KPIs

	for _, r := range aggregate.RunAll(ctx, s.aggregators, sc.Filter(), year) {
		if r.Degraded() {
			s.log.Warn("metric degraded to zero",
				slog.String("op", "service.dashboard.kpis"),
				slog.String("metric", r.Metric),
				slog.Int("year", year),
				slog.String("error", r.Err.Error()),
			)
			s.recorder.MetricDegraded(r.Metric)
		}

		switch r.Metric {
		case aggregate.MetricPipeline:
			out.Pipeline = chart.Round2(r.Value)
		case aggregate.MetricRevenue:
			out.Revenue = chart.Round2(r.Value)
		case aggregate.MetricSignings:
			out.Signings = chart.Round2(r.Value)
		case aggregate.MetricWins:
			out.Wins = r.Value
		}
	}

	return out
}

func (s *Service) RevenueChart(ctx context.Context, username string, year int) ([]RevenuePoint, error) {
	sc, err := s.scopeFor(ctx, username)
	if err != nil {
		return nil, err
	}

	return s.revenueChart(ctx, sc, year)
}

func (s *Service) revenueChart(ctx context.Context, sc scope.Scope, year int) ([]RevenuePoint, error) {
	const op = "service.dashboard.RevenueChart"

	var byMonth map[int]float64
	if !sc.IsEmpty() {
		var err error
		if byMonth, err = s.store.RevenueByMonth(ctx, sc.Filter(), year); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
	}

	months := chart.FillMonths(byMonth)
	points := make([]RevenuePoint, len(months))
	for i, m := range months {
		points[i] = RevenuePoint{Month: m.Month, Revenue: chart.Round2(m.Value)}
	}

	return points, nil
}

func (s *Service) WinChart(ctx context.Context, username string, year int) ([]WinPoint, error) {
	sc, err := s.scopeFor(ctx, username)
	if err != nil {
		return nil, err
	}

	return s.winChart(ctx, sc, year)
}

func (s *Service) winChart(ctx context.Context, sc scope.Scope, year int) ([]WinPoint, error) {
	const op = "service.dashboard.WinChart"

	var byQuarter map[int]float64
	if !sc.IsEmpty() {
		var err error
		if byQuarter, err = s.store.WinsByQuarter(ctx, sc.Filter(), year); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
	}

	quarters := chart.FillQuarters(byQuarter)
	points := make([]WinPoint, len(quarters))
	for i, q := range quarters {
		points[i] = WinPoint{Quarter: q.Quarter, WinCount: q.Value}
	}

	return points, nil
}

func (s *Service) PipelineChart(ctx context.Context, username string, year int) ([]PipelineShare, error) {
	sc, err := s.scopeFor(ctx, username)
	if err != nil {
		return nil, err
	}

	return s.pipelineChart(ctx, sc, year)
}

func (s *Service) pipelineChart(ctx context.Context, sc scope.Scope, year int) ([]PipelineShare, error) {
	const op = "service.dashboard.PipelineChart"

	var counts map[string]int
	if !sc.IsEmpty() {
		var err error
		if counts, err = s.store.CountOpportunitiesByForecast(ctx, sc.Filter(), aggregate.FiscalYearSpan(year)); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
	}

	shares := chart.Distribution(counts, chart.PipelineBuckets, nil)
	out := make([]PipelineShare, len(shares))
	for i, sh := range shares {
		out[i] = PipelineShare{ForecastCategory: sh.Category, Count: sh.Count, Percentage: sh.Percentage}
	}

	return out, nil
}

func (s *Service) SigningsChart(ctx context.Context, username string, year int) ([]SigningShare, error) {
	sc, err := s.scopeFor(ctx, username)
	if err != nil {
		return nil, err
	}

	return s.signingsChart(ctx, sc, year)
}

func (s *Service) signingsChart(ctx context.Context, sc scope.Scope, year int) ([]SigningShare, error) {
	const op = "service.dashboard.SigningsChart"

	var counts map[string]int
	if !sc.IsEmpty() {
		var err error
		if counts, err = s.store.CountSigningsByProductCategory(ctx, sc.Filter(), year); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
	}

	shares := chart.Distribution(counts, chart.SigningBuckets, chart.AppModernizationFold)
	out := make([]SigningShare, len(shares))
	for i, sh := range shares {
		out[i] = SigningShare{ProductCategory: sh.Category, Count: sh.Count, Percentage: sh.Percentage}
	}

	return out, nil
}

// Report is everything the landing page shows, gathered for the spreadsheet export.
type Report struct {
	Username string
	Year     int
	KPIs     KPIs
	Revenue  []RevenuePoint
	Wins     []WinPoint
	Pipeline []PipelineShare
	Signings []SigningShare
}

func (s *Service) Report(ctx context.Context, username string, year int) (*Report, error) {
	const op = "service.dashboard.Report"

	sc, err := s.scopeFor(ctx, username)
	if err != nil {
		return nil, err
	}

	report := &Report{Username: username, Year: year}

	g, gCtx := errgroup.WithContext(ctx)
	// KPIs degrade per metric and never fail the group, so a failing chart must not cancel them
	g.Go(func() error {
		report.KPIs = s.kpis(ctx, sc, year)
		return nil
	})
	g.Go(func() error {
		var err error
		report.Revenue, err = s.revenueChart(gCtx, sc, year)
		return err
	})
	g.Go(func() error {
		var err error
		report.Wins, err = s.winChart(gCtx, sc, year)
		return err
	})
	g.Go(func() error {
		var err error
		report.Pipeline, err = s.pipelineChart(gCtx, sc, year)
		return err
	})
	g.Go(func() error {
		var err error
		report.Signings, err = s.signingsChart(gCtx, sc, year)
		return err
	})

	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return report, nil
}
