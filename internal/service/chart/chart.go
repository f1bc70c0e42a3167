package chart

import (
	"sort"

	"github.com/shopspring/decimal"

	"sales-analytics/internal/storage"
)

// PipelineBuckets are the forecast categories always present in the pipeline chart.
var PipelineBuckets = []string{
	storage.ForecastOmit,
	storage.ForecastPipeline,
	storage.ForecastUpside,
	storage.ForecastCommit,
	storage.ForecastClosedWon,
}

const AppModernization = "app-modernization"

var SigningBuckets = []string{"gcp-core", "data-analytics", "cloud-security", AppModernization}

// AppModernizationFold collapses the smaller product lines into one signing bucket.
var AppModernizationFold = map[string]string{
	"mandiant":           AppModernization,
	"looker":             AppModernization,
	"apigee":             AppModernization,
	"maps":               AppModernization,
	"marketplace":        AppModernization,
	"vertex-ai-platform": AppModernization,
}

type MonthValue struct {
	Month int
	Value float64
}

type QuarterValue struct {
	Quarter int
	Value   float64
}

type Share struct {
	Category   string
	Count      int
	Percentage float64
}

// FillMonths returns exactly twelve entries, month 1 first; missing months are zero.
func FillMonths(values map[int]float64) []MonthValue {
	out := make([]MonthValue, 12)
	for i := range out {
		out[i] = MonthValue{Month: i + 1, Value: values[i+1]}
	}
	return out
}

func FillQuarters(values map[int]float64) []QuarterValue {
	out := make([]QuarterValue, 4)
	for i := range out {
		out[i] = QuarterValue{Quarter: i + 1, Value: values[i+1]}
	}
	return out
}

// Distribution counts raw categories into fixed buckets. A raw category lands in its own
// bucket, or in fold[raw] when present; anything else is dropped. Every bucket is returned,
// sorted by name, with its share of the total in tenths of a percent.
func Distribution(counts map[string]int, buckets []string, fold map[string]string) []Share {
	totals := make(map[string]int, len(buckets))
	for _, b := range buckets {
		totals[b] = 0
	}

	for raw, n := range counts {
		bucket := raw
		if folded, ok := fold[raw]; ok {
			bucket = folded
		}
		if _, ok := totals[bucket]; !ok {
			continue
		}
		totals[bucket] += n
	}

	var total int
	for _, n := range totals {
		total += n
	}

	shares := make([]Share, 0, len(totals))
	for bucket, n := range totals {
		shares = append(shares, Share{Category: bucket, Count: n})
	}

	sort.Slice(shares, func(i, j int) bool { return shares[i].Category < shares[j].Category })

	if total > 0 {
		apportion(shares, total)
	}

	return shares
}

// apportion assigns percentages in tenths by largest remainder: each share stays within 0.1
// of its exact value and the shares add up to exactly 100.0. Ties go to the earlier category.
func apportion(shares []Share, total int) {
	const tenths = 1000

	units := make([]int, len(shares))
	remainders := make([]int, len(shares))
	assigned := 0
	for i, s := range shares {
		units[i] = s.Count * tenths / total
		remainders[i] = s.Count * tenths % total
		assigned += units[i]
	}

	order := make([]int, len(shares))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool { return remainders[order[a]] > remainders[order[b]] })

	for k := 0; k < tenths-assigned; k++ {
		units[order[k]]++
	}

	for i := range shares {
		shares[i].Percentage = decimal.New(int64(units[i]), -1).InexactFloat64()
	}
}

func Round2(v float64) float64 {
	return decimal.NewFromFloat(v).Round(2).InexactFloat64()
}

func Round1(v float64) float64 {
	return decimal.NewFromFloat(v).Round(1).InexactFloat64()
}
