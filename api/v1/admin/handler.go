package admin

import (
	"context"
	"time"

	"github.com/gin-gonic/gin"

	"socialhub/internal/httpx"
	"socialhub/internal/scheduler"
)

// PassRunner runs one delivery pass.
type PassRunner interface {
	RunPass(ctx context.Context, now time.Time, dryRun bool) ([]scheduler.PostResult, error)
}

// Handler admin handler
type Handler struct {
	runner PassRunner
	apiKey string
}

// NewHandler creates a handler instance
func NewHandler(runner PassRunner, apiKey string) *Handler {
	return &Handler{runner: runner, apiKey: apiKey}
}

// RunWorker handles POST /api/v1/admin/post-worker.
//
// The pre-shared x-api-key header must match the configured secret,
// except when x-dry-run is "1": a dry run performs no DB writes, so it
// is exposed without the key. Note that a dry run still performs live
// reads and real outbound publish calls.
func (h *Handler) RunWorker(c *gin.Context) {
	dryRun := c.GetHeader("x-dry-run") == "1"

	if !dryRun {
		if h.apiKey == "" || c.GetHeader("x-api-key") != h.apiKey {
			httpx.FailErr(c, httpx.ErrUnauthorized("invalid api key"))
			return
		}
	}

	results, err := h.runner.RunPass(c.Request.Context(), time.Now(), dryRun)
	if err != nil {
		httpx.FailErr(c, httpx.ErrInternalError("worker pass failed", err))
		return
	}

	httpx.OK(c, gin.H{"results": results})
}
