package api

import (
	"encoding/json"

	"go.uber.org/zap"
)

// Feed event types pushed to websocket clients.
const (
	EventRoll         = "roll"
	EventPlayerJoined = "player_joined"
	EventPlayerLeft   = "player_left"
)

// Event is the envelope every feed payload travels in.
type Event struct {
	Type string `json:"type"`
	Data any    `json:"data"`
}

// publish encodes an event and fans it out to the session's
// subscribers. Encoding failures are logged and dropped; the feed never
// carries partial payloads.
func (h *Handler) publish(sessionID, eventType string, data any) {
	payload, err := json.Marshal(Event{Type: eventType, Data: data})
	if err != nil {
		h.logger.Error("encoding feed event",
			zap.String("session_id", sessionID),
			zap.String("type", eventType),
			zap.Error(err),
		)
		return
	}
	h.feed.Publish(sessionID, payload)
}
