package storage

const (
	TargetRevenue  = "revenue"
	TargetSignings = "signings"
	TargetWins     = "wins"
	TargetPipeline = "pipeline"
)

type YearlyTarget struct {
	ID         int64
	UserID     int64
	FiscalYear int
	TargetType string
	Amount     float64
	// quarter -> percentage of Amount; empty when the target has no quarterly split
	QuarterPercentages map[int]float64
}
