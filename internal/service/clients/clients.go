package clients

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"sales-analytics/internal/service/chart"
	"sales-analytics/internal/service/scope"
	"sales-analytics/internal/storage"
)

const (
	treemapSize    = 10
	maxClientsRows = 1000
)

var ErrMissingUsername = errors.New("missing required parameter: username")

var provinceNames = map[string]string{
	"AB": "Alberta",
	"BC": "British Columbia",
	"MB": "Manitoba",
	"NB": "New Brunswick",
	"NL": "Newfoundland and Labrador",
	"NS": "Nova Scotia",
	"NT": "Northwest Territories",
	"NU": "Nunavut",
	"ON": "Ontario",
	"PE": "Prince Edward Island",
	"QC": "Quebec",
	"SK": "Saskatchewan",
	"YT": "Yukon",
}

// ProvinceName returns the full name for a Canadian province code, or the code itself.
func ProvinceName(code string) string {
	if name, ok := provinceNames[code]; ok {
		return name
	}
	return code
}

type Store interface {
	GetUserByUsername(ctx context.Context, username string) (*storage.User, error)
	scope.Store
	IndustryDistribution(ctx context.Context, f storage.ClientFilter, limit int) ([]storage.IndustryBucket, error)
	ProvinceDistribution(ctx context.Context, f storage.ClientFilter) ([]storage.ProvinceBucket, error)
	FindClients(ctx context.Context, f storage.ClientFilter, provinces, industries []string, limit int) ([]storage.ClientRow, int, error)
}

type TreemapEntry struct {
	X           string  `json:"x"`
	Y           int     `json:"y"`
	Revenue     float64 `json:"revenue"`
	ClientCount int     `json:"client_count"`
}

type ProvinceEntry struct {
	Province     string  `json:"province"`
	ProvinceName string  `json:"province_name"`
	ClientCount  int     `json:"client_count"`
	Revenue      float64 `json:"revenue"`
}

type ProvincePie struct {
	Labels         []string        `json:"labels"`
	Series         []int           `json:"series"`
	AdditionalData []ProvinceEntry `json:"additional_data"`
}

type ClientList struct {
	Clients        []storage.ClientRow `json:"clients"`
	TotalCount     int                 `json:"total_count"`
	AppliedFilters map[string][]string `json:"applied_filters"`
}

// Service backs the clients page. Unlike the landing page, users outside the sales hierarchy
// see every client.
type Service struct {
	store    Store
	resolver *scope.Resolver
}

func New(store Store) *Service {
	return &Service{store: store, resolver: scope.NewResolver(store, scope.All)}
}

func (s *Service) filterFor(ctx context.Context, username string) (storage.ClientFilter, error) {
	const op = "service.clients.filterFor"

	if strings.TrimSpace(username) == "" {
		return storage.ClientFilter{}, ErrMissingUsername
	}

	user, err := s.store.GetUserByUsername(ctx, username)
	if err != nil {
		return storage.ClientFilter{}, fmt.Errorf("%s: %w", op, err)
	}

	sc, err := s.resolver.Resolve(ctx, user)
	if err != nil {
		return storage.ClientFilter{}, fmt.Errorf("%s: %w", op, err)
	}

	return sc.Filter(), nil
}

// IndustryTreemap returns the top industries by revenue, sized by client count.
func (s *Service) IndustryTreemap(ctx context.Context, username string) ([]TreemapEntry, error) {
	const op = "service.clients.IndustryTreemap"

	f, err := s.filterFor(ctx, username)
	if err != nil {
		return nil, err
	}

	buckets, err := s.store.IndustryDistribution(ctx, f, treemapSize)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	out := make([]TreemapEntry, 0, len(buckets))
	for _, b := range buckets {
		out = append(out, TreemapEntry{
			X:           b.Industry,
			Y:           b.ClientCount,
			Revenue:     chart.Round2(b.Revenue),
			ClientCount: b.ClientCount,
		})
	}

	return out, nil
}

func (s *Service) ProvincePie(ctx context.Context, username string) (*ProvincePie, error) {
	const op = "service.clients.ProvincePie"

	f, err := s.filterFor(ctx, username)
	if err != nil {
		return nil, err
	}

	buckets, err := s.store.ProvinceDistribution(ctx, f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	entries := make([]ProvinceEntry, 0, len(buckets))
	for _, b := range buckets {
		if b.ClientCount <= 0 {
			continue
		}
		entries = append(entries, ProvinceEntry{
			Province:     b.Province,
			ProvinceName: ProvinceName(b.Province),
			ClientCount:  b.ClientCount,
			Revenue:      chart.Round2(b.Revenue),
		})
	}

	sort.SliceStable(entries, func(i, j int) bool {
		if entries[i].ClientCount != entries[j].ClientCount {
			return entries[i].ClientCount > entries[j].ClientCount
		}
		return entries[i].Province < entries[j].Province
	})

	pie := &ProvincePie{
		Labels:         make([]string, len(entries)),
		Series:         make([]int, len(entries)),
		AdditionalData: entries,
	}
	for i, e := range entries {
		pie.Labels[i] = e.ProvinceName
		pie.Series[i] = e.ClientCount
	}

	return pie, nil
}

// Clients lists visible clients, optionally narrowed by province codes and industries.
func (s *Service) Clients(ctx context.Context, username string, provinces, industries []string) (*ClientList, error) {
	const op = "service.clients.Clients"

	f, err := s.filterFor(ctx, username)
	if err != nil {
		return nil, err
	}

	provinces = normalize(provinces, strings.ToUpper)
	industries = normalize(industries, nil)

	applied := make(map[string][]string)
	if len(provinces) > 0 {
		applied["provinces"] = provinces
	}
	if len(industries) > 0 {
		applied["industries"] = industries
	}

	rows, total, err := s.store.FindClients(ctx, f, provinces, industries, maxClientsRows)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	if rows == nil {
		rows = []storage.ClientRow{}
	}

	return &ClientList{Clients: rows, TotalCount: total, AppliedFilters: applied}, nil
}

func normalize(values []string, transform func(string) string) []string {
	var out []string
	for _, v := range values {
		v = strings.TrimSpace(v)
		if v == "" {
			continue
		}
		if transform != nil {
			v = transform(v)
		}
		out = append(out, v)
	}
	return out
}
