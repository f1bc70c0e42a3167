package storage

import "time"

const (
	ForecastOmit      = "omit"
	ForecastPipeline  = "pipeline"
	ForecastUpside    = "upside"
	ForecastCommit    = "commit"
	ForecastClosedWon = "closed-won"
)

// SigningTerm is the slice of a signing needed to annualize its contract value.
type SigningTerm struct {
	TotalContractValue float64
	Start              time.Time
	End                time.Time
	FiscalQuarter      int
}

// PeriodRange is an inclusive timestamp window.
type PeriodRange struct {
	From time.Time
	To   time.Time
}
