// Package logging provides structured logging utilities with context propagation.
//
// Loggers write JSON (or text, for the CLI) through log/slog. The level comes
// from LOG_LEVEL: debug, info, warn or error.
//
// Example usage:
//
//	import "postpulse/internal/observability/logging"
//
//	func main() {
//	    logger := logging.NewLogger()
//	    slog.SetDefault(logger)
//	}
//
//	func handleRequest(ctx context.Context) {
//	    logger := logging.WithRequestID(ctx, slog.Default())
//	    logger.Info("serving listing page")
//	}
package logging
