package post

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"postpulse/internal/common/pagination"
	"postpulse/internal/handler/http/requestid"
	"postpulse/internal/handler/http/respond"
	"postpulse/internal/observability/logging"
	"postpulse/internal/usecase/listing"
	"postpulse/internal/usecase/query"
)

// DefaultWaitTimeout bounds how long a request waits for the first load.
const DefaultWaitTimeout = 5 * time.Second

// ListHandler serves one page of the listing.
type ListHandler struct {
	Cache         *query.Cache
	PaginationCfg pagination.Config
	SummaryWords  int
	WaitTimeout   time.Duration
	Logger        *slog.Logger
}

// ServeHTTP returns one page of posts
// @Summary      List posts
// @Description  Returns one page of the post collection. Out-of-range pages are clamped. Markup fields (*_html) are unsanitized.
// @Tags         posts
// @Produce      json
// @Param        page  query     int  false  "1-based page number"  default(1)
// @Success      200   {object}  ListingDTO  "Page of posts"
// @Failure      400   {object}  map[string]string  "Page is not an integer"
// @Failure      502   {object}  ListingDTO  "The content source failed and nothing is cached"
// @Failure      503   {object}  ListingDTO  "Still loading"
// @Router       /posts [get]
func (h ListHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	start := time.Now()
	reqID := requestid.FromContext(ctx)
	logger := logging.WithRequestID(ctx, loggerOrDefault(h.Logger))

	params, err := pagination.ParseQueryParams(r, h.PaginationCfg)
	if err != nil {
		logger.Warn("Invalid pagination parameters", slog.String("error", err.Error()))
		pagination.RecordRequest(http.StatusBadRequest, 0)
		respond.SafeError(w, http.StatusBadRequest, err)
		return
	}
	pagination.LogRequest(logger, reqID, params)

	view, err := listing.NewView(h.Cache, listing.Options{
		PageSize: h.PaginationCfg.PageSize,
		Surface:  "http",
		Logger:   logger,
	})
	if err != nil {
		respond.SafeError(w, http.StatusInternalServerError, err)
		return
	}
	defer view.Close()

	since := time.Now()
	st := view.Mount(ctx)
	if st.Status != query.StatusReady {
		waitCtx, cancel := context.WithTimeout(ctx, waitTimeoutOrDefault(h.WaitTimeout))
		st, _ = view.Await(waitCtx, since)
		cancel()
	}
	st = view.GoTo(params.Page)

	status := http.StatusOK
	switch st.Status {
	case query.StatusError:
		status = http.StatusBadGateway
	case query.StatusLoading:
		status = http.StatusServiceUnavailable
		w.Header().Set("Retry-After", "1")
	}

	body := FromState(st, summaryWordsOrDefault(h.SummaryWords))
	pagination.RecordRequest(status, st.CurrentPage)
	pagination.UpdateTotalCount(st.TotalPosts)
	pagination.LogResponse(logger, reqID, st.Window(), len(body.Posts), time.Since(start), status)

	respond.JSON(w, status, body)
}

func loggerOrDefault(l *slog.Logger) *slog.Logger {
	if l == nil {
		return slog.Default()
	}
	return l
}

func waitTimeoutOrDefault(d time.Duration) time.Duration {
	if d <= 0 {
		return DefaultWaitTimeout
	}
	return d
}

func summaryWordsOrDefault(n int) int {
	if n <= 0 {
		return DefaultSummaryWords
	}
	return n
}
