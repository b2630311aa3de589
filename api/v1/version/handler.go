package version

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"socialhub/internal/config"
	"socialhub/internal/httpx"
	"socialhub/internal/version"
)

// Handler resolves and persists the visitor's marketing site version.
type Handler struct {
	registry *version.Registry
	store    version.Store
	cfg      *config.VersionConfig
}

// NewHandler creates a version handler
func NewHandler(registry *version.Registry, store version.Store, cfg *config.VersionConfig) *Handler {
	return &Handler{registry: registry, store: store, cfg: cfg}
}

// SetVersionRequest is the body for POST /api/v1/version
type SetVersionRequest struct {
	Version string `json:"version" binding:"required"`
}

func (h *Handler) cookieMaxAge() int {
	return h.cfg.CookieMaxAgeDays * 24 * 60 * 60
}

// visitorID returns the visitor id cookie, minting one when absent.
func (h *Handler) visitorID(c *gin.Context) string {
	if id, err := c.Cookie(h.cfg.VisitorCookie); err == nil && id != "" {
		return id
	}
	id := uuid.NewString()
	c.SetCookie(h.cfg.VisitorCookie, id, h.cookieMaxAge(), "/", "", false, true)
	return id
}

// storedVersion loads the persisted identity: server-side store first,
// cookie second. A cookie hit is back-filled into the store. Invalid
// persisted values are treated as absent.
func (h *Handler) storedVersion(c *gin.Context, visitorID string) string {
	if stored, err := h.store.Get(c.Request.Context(), visitorID); err == nil && h.registry.IsValid(stored) {
		return stored
	}

	if fromCookie, err := c.Cookie(h.cfg.CookieName); err == nil && h.registry.IsValid(fromCookie) {
		// Back-fill the store so the cookie is no longer load-bearing.
		_ = h.store.Set(c.Request.Context(), visitorID, fromCookie)
		return fromCookie
	}

	return ""
}

func (h *Handler) persist(c *gin.Context, visitorID string, v version.Version) {
	c.SetCookie(h.cfg.CookieName, string(v), h.cookieMaxAge(), "/", "", false, false)
	_ = h.store.Set(c.Request.Context(), visitorID, string(v))
}

// Resolve handles GET /api/v1/version.
// Priority: ?version= query parameter, then ?path=, then the persisted
// value, then the default. The resolved identity is written back to
// both the cookie and the server-side store.
func (h *Handler) Resolve(c *gin.Context) {
	visitorID := h.visitorID(c)

	urlVersion := c.Query("version")

	pathVersion := ""
	if path := c.Query("path"); path != "" {
		pathVersion = string(h.registry.FromPath(path))
	}

	resolved := h.registry.Resolve(urlVersion, pathVersion, h.storedVersion(c, visitorID))
	h.persist(c, visitorID, resolved)

	def, _ := h.registry.Definition(resolved)
	httpx.OK(c, gin.H{
		"version": resolved,
		"path":    def.Path,
	})
}

// Set handles POST /api/v1/version
func (h *Handler) Set(c *gin.Context) {
	var req SetVersionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpx.FailErr(c, httpx.ErrParamInvalid("invalid request body"))
		return
	}

	if !h.registry.IsValid(req.Version) {
		httpx.FailErr(c, httpx.ErrParamIllegal("unknown version"))
		return
	}

	visitorID := h.visitorID(c)
	resolved := h.registry.Canonical(req.Version)
	h.persist(c, visitorID, resolved)

	httpx.OK(c, gin.H{"version": resolved})
}
