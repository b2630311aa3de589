package scheduled_posts

import (
	"encoding/json"
	"errors"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"socialhub/internal/httpx"
	"socialhub/internal/model"
	"socialhub/internal/ws"
)

// Handler scheduled_posts handler
type Handler struct {
	db *gorm.DB
}

// NewHandler creates a handler instance
func NewHandler(db *gorm.DB) *Handler {
	return &Handler{db: db}
}

// CreatePostRequest is the body for POST /api/v1/scheduled-posts
type CreatePostRequest struct {
	Content         string              `json:"content" binding:"required"`
	ScheduledFor    time.Time           `json:"scheduledFor" binding:"required"`
	SocialAccountID string              `json:"socialAccountId" binding:"required"`
	Metadata        *model.PostMetadata `json:"metadata"`
}

// UpdatePostRequest is the body for PATCH /api/v1/scheduled-posts/:id.
// Retrying a failed post is the same request with a new future time.
type UpdatePostRequest struct {
	Content      string    `json:"content" binding:"required"`
	ScheduledFor time.Time `json:"scheduledFor" binding:"required"`
}

func currentUserID(c *gin.Context) int {
	uid, _ := c.Get("uid")
	id, _ := uid.(int)
	return id
}

// List handles GET /api/v1/scheduled-posts
func (h *Handler) List(c *gin.Context) {
	uid := currentUserID(c)

	status := c.Query("status")
	pageStr := c.DefaultQuery("page", "1")
	pageSizeStr := c.DefaultQuery("pageSize", "20")

	page, _ := strconv.Atoi(pageStr)
	pageSize, _ := strconv.Atoi(pageSizeStr)
	if page < 1 {
		page = 1
	}
	if pageSize < 1 || pageSize > 100 {
		pageSize = 20
	}

	query := h.db.Model(&model.ScheduledPost{}).Where("user_id = ?", uid)
	if status != "" {
		query = query.Where("status = ?", status)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		httpx.FailErr(c, httpx.ErrDatabaseError("database error", err))
		return
	}

	var posts []model.ScheduledPost
	offset := (page - 1) * pageSize
	if err := query.Preload("SocialAccount").
		Order("scheduled_for ASC").
		Limit(pageSize).Offset(offset).
		Find(&posts).Error; err != nil {
		httpx.FailErr(c, httpx.ErrDatabaseError("database error", err))
		return
	}

	httpx.OKItems(c, posts, total, page, pageSize)
}

// Create handles POST /api/v1/scheduled-posts
func (h *Handler) Create(c *gin.Context) {
	uid := currentUserID(c)

	var req CreatePostRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpx.FailErr(c, httpx.ErrParamInvalid("invalid request body"))
		return
	}

	if err := validateSchedule(req.ScheduledFor, req.Metadata); err != nil {
		httpx.FailErr(c, err)
		return
	}

	// The referenced account must exist and belong to the caller.
	var account model.SocialAccount
	if err := h.db.Where("id = ? AND user_id = ?", req.SocialAccountID, uid).First(&account).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			httpx.FailErr(c, httpx.ErrNotFound("social account not found"))
			return
		}
		httpx.FailErr(c, httpx.ErrDatabaseError("database error", err))
		return
	}

	post := model.ScheduledPost{
		ID:              uuid.NewString(),
		UserID:          uid,
		SocialAccountID: account.ID,
		Content:         req.Content,
		ScheduledFor:    req.ScheduledFor,
		Status:          model.ScheduledPostStatusScheduled,
	}
	if req.Metadata != nil {
		raw, err := json.Marshal(req.Metadata)
		if err != nil {
			httpx.FailErr(c, httpx.ErrParamInvalid("invalid metadata"))
			return
		}
		post.Metadata = datatypes.JSON(raw)
	}

	if err := h.db.Create(&post).Error; err != nil {
		httpx.FailErr(c, httpx.ErrDatabaseError("failed to create post", err))
		return
	}

	_ = ws.PublishPostEvent(h.db, "created", post)
	httpx.OK(c, post)
}

// Update handles PATCH /api/v1/scheduled-posts/:id. It edits a
// scheduled post, or re-enters a failed post into the pipeline with a
// new future time.
func (h *Handler) Update(c *gin.Context) {
	uid := currentUserID(c)
	id := c.Param("id")

	var req UpdatePostRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpx.FailErr(c, httpx.ErrParamInvalid("invalid request body"))
		return
	}

	if err := validateSchedule(req.ScheduledFor, nil); err != nil {
		httpx.FailErr(c, err)
		return
	}

	var post model.ScheduledPost
	if err := h.db.Where("id = ? AND user_id = ?", id, uid).First(&post).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			httpx.FailErr(c, httpx.ErrNotFound("scheduled post not found"))
			return
		}
		httpx.FailErr(c, httpx.ErrDatabaseError("database error", err))
		return
	}

	if post.Status == model.ScheduledPostStatusPosted {
		httpx.FailErr(c, httpx.ErrStateConflict("post has already been published"))
		return
	}

	// failed -> scheduled is the user-triggered retry transition; the
	// stale error message is cleared.
	updates := map[string]interface{}{
		"content":       req.Content,
		"scheduled_for": req.ScheduledFor,
		"status":        model.ScheduledPostStatusScheduled,
		"error_message": nil,
		"claimed_until": nil,
	}
	if err := h.db.Model(&post).Updates(updates).Error; err != nil {
		httpx.FailErr(c, httpx.ErrDatabaseError("failed to update post", err))
		return
	}

	post.Content = req.Content
	post.ScheduledFor = req.ScheduledFor
	post.Status = model.ScheduledPostStatusScheduled
	post.ErrorMessage = nil

	_ = ws.PublishPostEvent(h.db, "updated", post)
	httpx.OK(c, post)
}

// Delete handles DELETE /api/v1/scheduled-posts/:id. Deleting a
// scheduled post is how cancellation works; there is no cancelled
// status.
func (h *Handler) Delete(c *gin.Context) {
	uid := currentUserID(c)
	id := c.Param("id")

	result := h.db.Where("id = ? AND user_id = ?", id, uid).Delete(&model.ScheduledPost{})
	if result.Error != nil {
		httpx.FailErr(c, httpx.ErrDatabaseError("failed to delete post", result.Error))
		return
	}
	if result.RowsAffected == 0 {
		httpx.FailErr(c, httpx.ErrNotFound("scheduled post not found"))
		return
	}

	_ = ws.PublishPostEvent(h.db, "deleted", map[string]string{"id": id})
	httpx.OK(c, gin.H{"deleted": id})
}

// validateSchedule enforces the strictly-future timestamp and the
// image asset cap.
func validateSchedule(scheduledFor time.Time, metadata *model.PostMetadata) *httpx.AppError {
	if !scheduledFor.After(time.Now()) {
		return httpx.ErrParamIllegal("scheduledFor must be in the future")
	}
	if metadata != nil && len(metadata.ImageAssets) > model.MaxImageAssets {
		return httpx.ErrParamIllegal("too many image assets (max 9)")
	}
	return nil
}
