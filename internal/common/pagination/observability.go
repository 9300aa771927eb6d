package pagination

import (
	"log/slog"
	"time"
)

// LogRequest logs a listing page request with structured fields.
func LogRequest(logger *slog.Logger, requestID string, params Params) {
	logger.Info("Paginated request",
		"request_id", requestID,
		"page", params.Page)
}

// LogResponse logs a listing page response with duration and status.
func LogResponse(logger *slog.Logger, requestID string, w Window, returnedCount int, duration time.Duration, statusCode int) {
	logger.Info("Paginated response",
		"request_id", requestID,
		"page", w.CurrentPage,
		"page_size", w.PageSize,
		"total_pages", w.TotalPages,
		"returned_count", returnedCount,
		"duration_ms", duration.Milliseconds(),
		"status", statusCode)
}

// LogNavigation logs a page change inside a mounted view.
func LogNavigation(logger *slog.Logger, viewID, action string, requested int, w Window) {
	logger.Debug("Page navigation",
		"view_id", viewID,
		"action", action,
		"requested_page", requested,
		"current_page", w.CurrentPage,
		"total_pages", w.TotalPages)
}
