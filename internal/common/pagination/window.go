package pagination

// Window is the derived position of one view inside a collection.
// 1 <= CurrentPage <= max(1, TotalPages) always holds for values built by NewWindow.
type Window struct {
	CurrentPage int
	PageSize    int
	TotalPages  int
	Total       int
}

// NewWindow derives the window for a collection of total items showing page.
// page is clamped; a non-positive pageSize falls back to the default page size.
func NewWindow(total, pageSize, page int) Window {
	if pageSize <= 0 {
		pageSize = DefaultConfig().PageSize
	}
	if total < 0 {
		total = 0
	}
	totalPages := CalculateTotalPages(total, pageSize)
	return Window{
		CurrentPage: ClampPage(page, totalPages),
		PageSize:    pageSize,
		TotalPages:  totalPages,
		Total:       total,
	}
}

// GoTo returns the window moved to page, clamped.
func (w Window) GoTo(page int) Window {
	w.CurrentPage = ClampPage(page, w.TotalPages)
	return w
}

// Bounds returns the half-open index range [start, end) of the visible items.
func (w Window) Bounds() (start, end int) {
	start = CalculateOffset(w.CurrentPage, w.PageSize)
	if start > w.Total {
		start = w.Total
	}
	end = start + w.PageSize
	if end > w.Total {
		end = w.Total
	}
	return start, end
}

// HasNext reports whether a later page exists.
func (w Window) HasNext() bool {
	return w.CurrentPage < w.TotalPages
}

// HasPrevious reports whether an earlier page exists.
func (w Window) HasPrevious() bool {
	return w.CurrentPage > 1
}

// PageNumbers lists 1..TotalPages for rendering page controls.
func (w Window) PageNumbers() []int {
	pages := make([]int, w.TotalPages)
	for i := range pages {
		pages[i] = i + 1
	}
	return pages
}

// Metadata converts the window into API response metadata.
func (w Window) Metadata() Metadata {
	return Metadata{
		Total:       w.Total,
		Page:        w.CurrentPage,
		PageSize:    w.PageSize,
		TotalPages:  w.TotalPages,
		HasNext:     w.HasNext(),
		HasPrevious: w.HasPrevious(),
	}
}

// Slice returns the items visible in w. The result shares the backing array
// of items; callers must not mutate it.
func Slice[T any](items []T, w Window) []T {
	if len(items) == 0 {
		return []T{}
	}
	if w.Total != len(items) {
		w = NewWindow(len(items), w.PageSize, w.CurrentPage)
	}
	start, end := w.Bounds()
	return items[start:end:end]
}
