package post

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"postpulse/internal/handler/http/pathutil"
	"postpulse/internal/handler/http/respond"
	"postpulse/internal/observability/logging"
	"postpulse/internal/usecase/query"
)

// GetHandler returns a single post from the cached collection by slug.
type GetHandler struct {
	Cache        *query.Cache
	SummaryWords int
	WaitTimeout  time.Duration
	Logger       *slog.Logger
}

// ServeHTTP returns one post
// @Summary      Get post by slug
// @Description  Looks the post up in the cached collection. Markup fields (*_html) are unsanitized.
// @Tags         posts
// @Produce      json
// @Param        slug  path      string  true  "Post slug"
// @Success      200   {object}  DTO
// @Failure      400   {object}  map[string]string  "Invalid slug"
// @Failure      404   {object}  map[string]string  "Post not found"
// @Failure      502   {object}  map[string]string  "The content source failed and nothing is cached"
// @Failure      503   {object}  map[string]string  "Still loading"
// @Router       /posts/{slug} [get]
func (h GetHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := logging.WithRequestID(ctx, loggerOrDefault(h.Logger))

	slug, err := pathutil.ExtractSlug(r.URL.Path, "/posts/")
	if err != nil {
		respond.SafeError(w, http.StatusBadRequest, errors.New("invalid slug: must be letters, digits, dash or underscore"))
		return
	}

	snap := h.Cache.Get(ctx)
	if !snap.HasData() {
		waitCtx, cancel := context.WithTimeout(ctx, waitTimeoutOrDefault(h.WaitTimeout))
		snap, err = h.Cache.Fetch(waitCtx)
		cancel()
		if !snap.HasData() {
			if snap.Status == query.StatusError && waitCtx.Err() == nil {
				logger.Warn("post lookup failed", slog.String("error", respond.SanitizeError(err)))
				respond.SafeError(w, http.StatusBadGateway,
					respond.NewAppError(http.StatusBadGateway, respond.SanitizeError(snap.Err), nil))
				return
			}
			w.Header().Set("Retry-After", "1")
			respond.SafeError(w, http.StatusServiceUnavailable,
				respond.NewAppError(http.StatusServiceUnavailable, "posts loading", nil))
			return
		}
	}

	for _, p := range snap.Posts {
		if p.Slug == slug {
			respond.JSON(w, http.StatusOK, FromPost(p, summaryWordsOrDefault(h.SummaryWords)))
			return
		}
	}
	respond.SafeError(w, http.StatusNotFound, errors.New("post not found"))
}
