package api

import (
	"errors"
	"net/http"
	"strconv"
	"strings"
)

var ErrInvalidYear = errors.New("invalid 'year' parameter")

// Year reads the optional ?year= parameter, falling back to def when it is absent.
func Year(r *http.Request, def int) (int, error) {
	raw := strings.TrimSpace(r.URL.Query().Get("year"))
	if raw == "" {
		return def, nil
	}

	year, err := strconv.Atoi(raw)
	if err != nil || year <= 0 {
		return 0, ErrInvalidYear
	}

	return year, nil
}

// List splits a comma-separated query parameter. Repeated keys are merged.
func List(r *http.Request, key string) []string {
	var out []string
	for _, raw := range r.URL.Query()[key] {
		for _, v := range strings.Split(raw, ",") {
			if v = strings.TrimSpace(v); v != "" {
				out = append(out, v)
			}
		}
	}
	return out
}
