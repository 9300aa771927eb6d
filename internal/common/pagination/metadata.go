package pagination

// Metadata contains pagination metadata included in API responses.
type Metadata struct {
	Total       int  `json:"total"`        // Total number of posts across all pages
	Page        int  `json:"page"`         // Current page number (1-based)
	PageSize    int  `json:"page_size"`    // Posts per page
	TotalPages  int  `json:"total_pages"`  // 0 when there are no posts
	HasNext     bool `json:"has_next"`     // False on the last page
	HasPrevious bool `json:"has_previous"` // False on page 1
}
