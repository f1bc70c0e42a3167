package dashboard

import (
	"context"
	"fmt"

	"sales-analytics/internal/service/aggregate"
	"sales-analytics/internal/service/chart"
	"sales-analytics/internal/service/scope"
	"sales-analytics/internal/storage"
)

// evenSplit is the share of a yearly target each quarter gets when no split was recorded.
const evenSplit = 25.0

type QuarterTarget struct {
	Quarter    int     `json:"quarter"`
	Target     float64 `json:"target"`
	Actual     float64 `json:"actual"`
	Attainment float64 `json:"attainment"`
}

func validMetric(metric string) bool {
	switch metric {
	case storage.TargetRevenue, storage.TargetSignings, storage.TargetWins, storage.TargetPipeline:
		return true
	}
	return false
}

// QuarterlyTargets compares the summed targets of the AEs in scope with what their clients
// actually produced, quarter by quarter.
func (s *Service) QuarterlyTargets(ctx context.Context, username string, year int, metric string) ([]QuarterTarget, error) {
	const op = "service.dashboard.QuarterlyTargets"

	if !validMetric(metric) {
		return nil, fmt.Errorf("%s: %w: %q", op, ErrUnknownMetric, metric)
	}

	sc, err := s.scopeFor(ctx, username)
	if err != nil {
		return nil, err
	}

	targets := make(map[int]float64, 4)
	if len(sc.AccountExecutiveIDs) > 0 {
		yearly, err := s.store.GetYearlyTargets(ctx, sc.AccountExecutiveIDs, year, metric)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		targets = splitTargets(yearly)
	}

	actuals, err := s.quarterlyActuals(ctx, sc, year, metric)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	out := make([]QuarterTarget, 0, 4)
	for _, q := range chart.FillQuarters(actuals) {
		target := chart.Round2(targets[q.Quarter])
		actual := chart.Round2(q.Value)

		var attainment float64
		if target > 0 {
			attainment = chart.Round1(actual / target * 100)
		}

		out = append(out, QuarterTarget{Quarter: q.Quarter, Target: target, Actual: actual, Attainment: attainment})
	}

	return out, nil
}

func splitTargets(yearly []storage.YearlyTarget) map[int]float64 {
	out := make(map[int]float64, 4)

	for _, t := range yearly {
		if len(t.QuarterPercentages) == 0 {
			for q := 1; q <= 4; q++ {
				out[q] += t.Amount * evenSplit / 100
			}
			continue
		}

		for q, pct := range t.QuarterPercentages {
			out[q] += t.Amount * pct / 100
		}
	}

	return out
}

func (s *Service) quarterlyActuals(ctx context.Context, sc scope.Scope, year int, metric string) (map[int]float64, error) {
	if sc.IsEmpty() {
		return nil, nil
	}

	f := sc.Filter()

	switch metric {
	case storage.TargetRevenue:
		return s.store.RevenueByQuarter(ctx, f, year)

	case storage.TargetWins:
		return s.store.WinsByQuarter(ctx, f, year)

	case storage.TargetSignings:
		terms, err := s.store.GetSigningTerms(ctx, f, year)
		if err != nil {
			return nil, err
		}

		out := make(map[int]float64, 4)
		for _, t := range terms {
			out[t.FiscalQuarter] += aggregate.AnnualizedValue(t.TotalContractValue, t.Start, t.End)
		}
		return out, nil

	default:
		out := make(map[int]float64, 4)
		for q := 1; q <= 4; q++ {
			sum, err := s.store.SumWeightedPipeline(ctx, f, aggregate.FiscalQuarterSpan(year, q))
			if err != nil {
				return nil, err
			}
			out[q] = sum
		}
		return out, nil
	}
}
