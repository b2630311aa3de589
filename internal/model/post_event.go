package model

import "time"

// PostEvent represents a scheduled-post event stored in the database
// and broadcast to connected admin clients.
type PostEvent struct {
	ID        int64     `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	Topic     string    `gorm:"column:topic;type:varchar(64);not null;index:idx_post_events_topic" json:"topic"`
	EventType string    `gorm:"column:event_type;type:enum('created','updated','deleted','posted','failed');not null" json:"eventType"`
	Payload   string    `gorm:"column:payload;type:json;not null" json:"payload"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime" json:"createdAt"`
}

// TableName specifies the table name for PostEvent
func (PostEvent) TableName() string {
	return "post_events"
}
