package api

import (
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/pedrohwah/shadowsofavernus/internal/game/session"
)

// wsWriteTimeout caps a single frame write when the config does not set
// one; a stalled client must not hold the writer forever.
const wsWriteTimeout = 10 * time.Second

func (h *Handler) writeTimeout() time.Duration {
	if h.cfg.WriteTimeout > 0 {
		return h.cfg.WriteTimeout
	}
	return wsWriteTimeout
}

// handleSessionFeed upgrades the connection and streams the session's
// feed events until either side disconnects. The read side only
// consumes control frames; clients talk to the table through the REST
// endpoints.
func (h *Handler) handleSessionFeed(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	if _, ok := h.manager.Get(id); !ok {
		h.respondError(w, session.ErrSessionNotFound)
		return
	}

	// Subscribing before the upgrade means no event published between
	// the handshake and the first read can be missed.
	sub := h.feed.Subscribe(id)

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		// Upgrade has already written the HTTP error response.
		h.feed.Unsubscribe(id, sub)
		h.logger.Debug("websocket upgrade failed",
			zap.String("session_id", id),
			zap.Error(err),
		)
		return
	}

	start := time.Now()
	h.logger.Info("feed subscriber connected",
		zap.String("session_id", id),
		zap.String("subscriber_id", sub.ID()),
		zap.String("remote_addr", r.RemoteAddr),
	)

	// Writer: drains the subscriber until it closes, either because the
	// client left or the feed evicted it as a slow consumer. Closing the
	// connection afterwards unblocks the read loop below.
	done := make(chan struct{})
	go func() {
		defer close(done)
		defer conn.Close()
		for payload := range sub.Events() {
			_ = conn.SetWriteDeadline(time.Now().Add(h.writeTimeout()))
			if err := conn.WriteMessage(websocket.TextMessage, payload); err != nil {
				return
			}
		}
	}()

	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			break
		}
	}

	h.feed.Unsubscribe(id, sub)
	<-done

	h.logger.Info("feed subscriber disconnected",
		zap.String("session_id", id),
		zap.String("subscriber_id", sub.ID()),
		zap.Duration("duration", time.Since(start)),
	)
}
