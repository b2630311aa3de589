package model

import "time"

// Provider identifies a supported social platform.
type Provider string

const (
	ProviderTwitter  Provider = "twitter"
	ProviderLinkedIn Provider = "linkedin"
)

// SocialAccount is a connected external identity. One account per
// (user, provider) pair, enforced by the composite unique index.
type SocialAccount struct {
	ID             string     `gorm:"column:id;type:char(36);primaryKey" json:"id"`
	UserID         int        `gorm:"column:user_id;not null;uniqueIndex:uniq_social_accounts_user_provider" json:"userId"`
	Provider       Provider   `gorm:"column:provider;type:enum('twitter','linkedin');not null;uniqueIndex:uniq_social_accounts_user_provider" json:"provider"`
	ProviderUserID string     `gorm:"column:provider_user_id;type:varchar(128);not null" json:"providerUserId"`
	DisplayName    string     `gorm:"column:display_name;type:varchar(255)" json:"displayName"`
	AccessToken    string     `gorm:"column:access_token;type:text;not null" json:"-"`
	RefreshToken   string     `gorm:"column:refresh_token;type:text" json:"-"`
	TokenExpiresAt *time.Time `gorm:"column:token_expires_at" json:"tokenExpiresAt"`
	CreatedAt      time.Time  `gorm:"column:created_at;autoCreateTime" json:"createdAt"`
	UpdatedAt      time.Time  `gorm:"column:updated_at;autoUpdateTime" json:"updatedAt"`
}

// TableName specifies the table name for SocialAccount
func (SocialAccount) TableName() string {
	return "social_accounts"
}
