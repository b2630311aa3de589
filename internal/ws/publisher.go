package ws

import (
	"encoding/json"
	"fmt"
	"log"

	"gorm.io/gorm"

	"socialhub/internal/model"
)

// PublishPostEvent persists a scheduled-post event and broadcasts it
// to all connected admin clients. Broadcast failure never affects the
// caller's main flow.
func PublishPostEvent(db *gorm.DB, eventType string, payload interface{}) error {
	payloadJSON, err := json.Marshal(payload)
	if err != nil {
		log.Printf("[WebSocket] Failed to marshal payload: %v", err)
		return fmt.Errorf("failed to marshal payload: %w", err)
	}

	event := model.PostEvent{
		Topic:     "posts",
		EventType: eventType,
		Payload:   string(payloadJSON),
	}

	if err := db.Create(&event).Error; err != nil {
		log.Printf("[WebSocket] Failed to write event to database: %v", err)
		return fmt.Errorf("failed to write event to database: %w", err)
	}

	BroadcastToAll("posts:update", map[string]interface{}{
		"eventId": event.ID,
		"type":    eventType,
		"data":    payload,
	})

	return nil
}

// Notifier adapts PublishPostEvent to the delivery worker's
// notification hook.
type Notifier struct {
	DB *gorm.DB
}

// PostStatusChanged broadcasts a worker status transition.
func (n *Notifier) PostStatusChanged(post *model.ScheduledPost, status model.ScheduledPostStatus, errorMessage string) {
	eventType := "posted"
	if status == model.ScheduledPostStatusFailed {
		eventType = "failed"
	}

	payload := map[string]interface{}{
		"id":     post.ID,
		"status": status,
	}
	if errorMessage != "" {
		payload["error"] = errorMessage
	}

	if err := PublishPostEvent(n.DB, eventType, payload); err != nil {
		log.Printf("[WebSocket] Failed to publish post event: %v", err)
	}
}
