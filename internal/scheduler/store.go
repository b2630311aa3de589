package scheduler

import (
	"context"
	"time"

	"socialhub/internal/model"

	"gorm.io/gorm"
)

// Store is the worker's view of scheduled-post persistence.
type Store interface {
	// DuePosts returns scheduled rows with scheduled_for <= now whose
	// claim lease (if any) has expired, joined with their account.
	DuePosts(ctx context.Context, now time.Time) ([]model.ScheduledPost, error)
	// Claim atomically leases a row until the given time. Returns
	// false when another pass already holds the lease.
	Claim(ctx context.Context, id string, now, until time.Time) (bool, error)
	MarkPosted(ctx context.Context, id string, now time.Time) error
	MarkFailed(ctx context.Context, id string, errorMessage string, now time.Time) error
}

// GormStore implements Store on the scheduled_posts table.
type GormStore struct {
	db *gorm.DB
}

// NewGormStore creates a GormStore
func NewGormStore(db *gorm.DB) *GormStore {
	return &GormStore{db: db}
}

// DuePosts returns all due, unclaimed scheduled posts in natural order.
func (s *GormStore) DuePosts(ctx context.Context, now time.Time) ([]model.ScheduledPost, error) {
	var posts []model.ScheduledPost
	err := s.db.WithContext(ctx).
		Preload("SocialAccount").
		Where("status = ? AND scheduled_for <= ?", model.ScheduledPostStatusScheduled, now).
		Where("claimed_until IS NULL OR claimed_until <= ?", now).
		Find(&posts).Error
	if err != nil {
		return nil, err
	}
	return posts, nil
}

// Claim leases a due row with a conditional update, so overlapping
// worker passes cannot pick up the same post.
func (s *GormStore) Claim(ctx context.Context, id string, now, until time.Time) (bool, error) {
	result := s.db.WithContext(ctx).
		Model(&model.ScheduledPost{}).
		Where("id = ? AND status = ?", id, model.ScheduledPostStatusScheduled).
		Where("claimed_until IS NULL OR claimed_until <= ?", now).
		Update("claimed_until", until)
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

// MarkPosted transitions a row to posted and releases the claim.
func (s *GormStore) MarkPosted(ctx context.Context, id string, now time.Time) error {
	return s.db.WithContext(ctx).
		Model(&model.ScheduledPost{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"status":        model.ScheduledPostStatusPosted,
			"error_message": nil,
			"claimed_until": nil,
			"updated_at":    now,
		}).Error
}

// MarkFailed transitions a row to failed with the publish error and
// releases the claim.
func (s *GormStore) MarkFailed(ctx context.Context, id string, errorMessage string, now time.Time) error {
	if len(errorMessage) > 2048 {
		errorMessage = errorMessage[:2048]
	}
	return s.db.WithContext(ctx).
		Model(&model.ScheduledPost{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"status":        model.ScheduledPostStatusFailed,
			"error_message": errorMessage,
			"claimed_until": nil,
			"updated_at":    now,
		}).Error
}
