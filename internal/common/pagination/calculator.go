package pagination

// CalculateOffset calculates the slice offset based on page number and page size.
// Page numbers are 1-based, so page 1 has offset 0.
//
// Formula: offset = (page - 1) * pageSize
//
// Examples:
//   - Page 1, Size 5 -> Offset 0
//   - Page 2, Size 5 -> Offset 5
//   - Page 3, Size 10 -> Offset 20
func CalculateOffset(page, pageSize int) int {
	return (page - 1) * pageSize
}

// CalculateTotalPages calculates the total number of pages based on total items and page size.
// Uses ceiling division to ensure all items are included.
//
// Special cases:
//   - If total is 0, returns 0 (the "no results" state)
//   - If pageSize is not positive, returns 0
//   - Otherwise, returns ceil(total / pageSize)
//
// Examples:
//   - Total 0, Size 5 -> 0 pages
//   - Total 4, Size 5 -> 1 page
//   - Total 5, Size 5 -> 1 page
//   - Total 6, Size 5 -> 2 pages
//   - Total 15, Size 5 -> 3 pages
func CalculateTotalPages(total, pageSize int) int {
	if total <= 0 || pageSize <= 0 {
		return 0
	}
	// Ceiling division: (total + pageSize - 1) / pageSize
	return (total + pageSize - 1) / pageSize
}

// ClampPage bounds page to [1, max(1, totalPages)].
// Out-of-range navigation is never an error; it lands on the nearest valid page.
func ClampPage(page, totalPages int) int {
	if page < 1 {
		return 1
	}
	if totalPages < 1 {
		return 1
	}
	if page > totalPages {
		return totalPages
	}
	return page
}
