package social_accounts

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"socialhub/internal/httpx"
	"socialhub/internal/model"
	"socialhub/internal/oauth"
)

// Handler social_accounts handler
type Handler struct {
	db    *gorm.DB
	oauth *oauth.Service
}

// NewHandler creates a handler instance
func NewHandler(db *gorm.DB, oauthService *oauth.Service) *Handler {
	return &Handler{db: db, oauth: oauthService}
}

func currentUserID(c *gin.Context) int {
	uid, _ := c.Get("uid")
	id, _ := uid.(int)
	return id
}

func parseProvider(c *gin.Context) (model.Provider, bool) {
	p := model.Provider(c.Param("provider"))
	switch p {
	case model.ProviderTwitter, model.ProviderLinkedIn:
		return p, true
	}
	httpx.FailErr(c, httpx.ErrParamIllegal("unknown provider"))
	return "", false
}

// List handles GET /api/v1/social-accounts
func (h *Handler) List(c *gin.Context) {
	uid := currentUserID(c)

	var accounts []model.SocialAccount
	if err := h.db.Where("user_id = ?", uid).Order("provider ASC").Find(&accounts).Error; err != nil {
		httpx.FailErr(c, httpx.ErrDatabaseError("database error", err))
		return
	}

	httpx.OK(c, accounts)
}

// Delete handles DELETE /api/v1/social-accounts/:id (disconnect)
func (h *Handler) Delete(c *gin.Context) {
	uid := currentUserID(c)
	id := c.Param("id")

	result := h.db.Where("id = ? AND user_id = ?", id, uid).Delete(&model.SocialAccount{})
	if result.Error != nil {
		httpx.FailErr(c, httpx.ErrDatabaseError("failed to delete account", result.Error))
		return
	}
	if result.RowsAffected == 0 {
		httpx.FailErr(c, httpx.ErrNotFound("social account not found"))
		return
	}

	httpx.OK(c, gin.H{"deleted": id})
}

// Connect handles GET /api/v1/social-accounts/connect/:provider.
// Returns the provider consent URL for the frontend to redirect to.
func (h *Handler) Connect(c *gin.Context) {
	uid := currentUserID(c)

	p, ok := parseProvider(c)
	if !ok {
		return
	}

	url, err := h.oauth.AuthURL(c.Request.Context(), uid, p)
	if err != nil {
		httpx.FailErr(c, httpx.ErrInternalError("failed to build authorization URL", err))
		return
	}

	httpx.OK(c, gin.H{"url": url})
}

// Callback handles GET /api/v1/social-accounts/callback/:provider.
// The state nonce carries the user binding, so this route needs no
// session.
func (h *Handler) Callback(c *gin.Context) {
	p, ok := parseProvider(c)
	if !ok {
		return
	}

	state := c.Query("state")
	code := c.Query("code")
	if state == "" || code == "" {
		httpx.FailErr(c, httpx.ErrParamMissing("state and code are required"))
		return
	}

	account, err := h.oauth.HandleCallback(c.Request.Context(), p, state, code)
	if err != nil {
		httpx.FailErr(c, httpx.ErrExternalError("failed to connect account", err))
		return
	}

	httpx.OK(c, account)
}
