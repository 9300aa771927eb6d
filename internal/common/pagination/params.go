package pagination

import (
	"fmt"
	"net/http"
	"strconv"
)

// Params represents pagination query parameters from an HTTP request.
type Params struct {
	Page int // Requested 1-based page; clamped against the window later
}

// ParseQueryParams parses pagination parameters from HTTP request query string.
// A missing page yields config.DefaultPage. Any integer is accepted because the
// window clamps it; only non-integer input is rejected.
func ParseQueryParams(r *http.Request, config Config) (Params, error) {
	params := Params{Page: config.DefaultPage}
	if params.Page <= 0 {
		params.Page = 1
	}

	if pageStr := r.URL.Query().Get("page"); pageStr != "" {
		page, err := strconv.Atoi(pageStr)
		if err != nil {
			return params, fmt.Errorf("invalid query parameter: page must be an integer")
		}
		params.Page = page
	}

	return params, nil
}
