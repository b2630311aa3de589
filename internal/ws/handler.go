package ws

import (
	"log"

	socketio "github.com/googollee/go-socket.io"

	"socialhub/internal/db"
	"socialhub/internal/model"
)

// handleRequestPosts replays recent post events to a client that
// reconnected, starting after its last seen event id.
func handleRequestPosts(s socketio.Conn, data interface{}) {
	var lastEventID int64
	if dataMap, ok := data.(map[string]interface{}); ok {
		if v, ok := dataMap["lastEventId"].(float64); ok {
			lastEventID = int64(v)
		}
	}

	var events []model.PostEvent
	if err := db.GetDB().
		Where("topic = ? AND id > ?", "posts", lastEventID).
		Order("id ASC").
		Limit(200).
		Find(&events).Error; err != nil {
		log.Printf("[WebSocket] Failed to load post events: %v", err)
		return
	}

	s.Emit("posts:replay", events)
}
