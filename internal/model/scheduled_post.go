package model

import (
	"encoding/json"
	"time"

	"gorm.io/datatypes"
)

// ScheduledPostStatus represents the lifecycle state of a scheduled post
type ScheduledPostStatus string

const (
	ScheduledPostStatusScheduled ScheduledPostStatus = "scheduled"
	ScheduledPostStatusPosted    ScheduledPostStatus = "posted"
	ScheduledPostStatusFailed    ScheduledPostStatus = "failed"
)

// MaxImageAssets is the upper bound on image asset references per post.
const MaxImageAssets = 9

// ScheduledPost is an intent to publish to one social account at a
// future time. There is no cancelled status: cancellation is hard
// deletion of the row while it is still scheduled.
type ScheduledPost struct {
	ID              string              `gorm:"column:id;type:char(36);primaryKey" json:"id"`
	UserID          int                 `gorm:"column:user_id;not null;index:idx_scheduled_posts_user_id" json:"userId"`
	SocialAccountID string              `gorm:"column:social_account_id;type:char(36);not null;index:idx_scheduled_posts_account_id" json:"socialAccountId"`
	SocialAccount   *SocialAccount      `gorm:"foreignKey:SocialAccountID" json:"socialAccount,omitempty"`
	Content         string              `gorm:"column:content;type:text;not null" json:"content"`
	ScheduledFor    time.Time           `gorm:"column:scheduled_for;not null;index:idx_scheduled_posts_due" json:"scheduledFor"`
	Status          ScheduledPostStatus `gorm:"column:status;type:enum('scheduled','posted','failed');not null;default:scheduled;index:idx_scheduled_posts_status" json:"status"`
	Metadata        datatypes.JSON      `gorm:"column:metadata;type:json" json:"metadata,omitempty"`
	ErrorMessage    *string             `gorm:"column:error_message;type:varchar(2048)" json:"errorMessage,omitempty"`
	ClaimedUntil    *time.Time          `gorm:"column:claimed_until" json:"-"`
	CreatedAt       time.Time           `gorm:"column:created_at;autoCreateTime" json:"createdAt"`
	UpdatedAt       time.Time           `gorm:"column:updated_at;autoUpdateTime" json:"updatedAt"`
}

// TableName specifies the table name for ScheduledPost
func (ScheduledPost) TableName() string {
	return "scheduled_posts"
}

// PostMetadata is the decoded shape of the free-form metadata column.
type PostMetadata struct {
	ImageAssets []string `json:"imageAssets,omitempty"`
}

// ImageAssets decodes the metadata column and returns the platform
// asset references, if any. Malformed metadata yields an empty list.
func (p *ScheduledPost) ImageAssets() []string {
	if len(p.Metadata) == 0 {
		return nil
	}
	var meta PostMetadata
	if err := json.Unmarshal(p.Metadata, &meta); err != nil {
		return nil
	}
	return meta.ImageAssets
}
