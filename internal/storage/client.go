package storage

// ClientFilter narrows a query to a set of clients. All=true means no client restriction;
// otherwise only IDs are visible and an empty IDs slice matches nothing.
type ClientFilter struct {
	All bool
	IDs []int64
}

// Empty reports whether the filter can never match a row.
func (f ClientFilter) Empty() bool {
	return !f.All && len(f.IDs) == 0
}

type Client struct {
	ID                 int64   `json:"client_id"`
	Name               string  `json:"client_name"`
	AccountExecutiveID int64   `json:"account_executive_id"`
	City               *string `json:"city"`
	Province           *string `json:"province"`
	Industry           *string `json:"industry"`
	CreatedDate        *string `json:"created_date"`
}

type ClientRow struct {
	Client
	AccountExecutive string `json:"account_executive"`
}

type IndustryBucket struct {
	Industry    string
	ClientCount int
	Revenue     float64
}

type ProvinceBucket struct {
	Province    string
	ClientCount int
	Revenue     float64
}
