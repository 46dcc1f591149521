package api

import (
	"net/http"
	"strconv"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"github.com/pedrohwah/shadowsofavernus/internal/game/dice"
	"github.com/pedrohwah/shadowsofavernus/internal/game/session"
)

type createSessionRequest struct {
	Name       string `json:"name"`
	GMName     string `json:"gm_name"`
	Passphrase string `json:"passphrase,omitempty"`
}

type sessionResponse struct {
	Session   *session.Session  `json:"session"`
	Protected bool              `json:"protected"`
	Players   []*session.Player `json:"players"`
}

// handleCreateSession opens a session and persists it so it survives a
// server restart.
func (h *Handler) handleCreateSession(w http.ResponseWriter, r *http.Request) {
	var req createSessionRequest
	if err := decodeJSON(r, &req); err != nil {
		h.respondBadRequest(w, "invalid request body")
		return
	}

	sess, err := h.manager.Create(req.Name, req.GMName, req.Passphrase)
	if err != nil {
		h.respondBadRequest(w, err.Error())
		return
	}

	if err := h.sessions.Create(r.Context(), sess); err != nil {
		// Undo the in-memory half so the manager and the store agree.
		_ = h.manager.Close(sess.ID)
		h.respondError(w, err)
		return
	}

	h.respondJSON(w, http.StatusCreated, sessionResponse{
		Session:   sess,
		Protected: sess.Protected(),
		Players:   []*session.Player{},
	})
}

// handleGetSession returns a session with its current roster.
func (h *Handler) handleGetSession(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	sess, ok := h.manager.Get(id)
	if !ok {
		h.respondError(w, session.ErrSessionNotFound)
		return
	}
	players, err := h.manager.Players(id)
	if err != nil {
		h.respondError(w, err)
		return
	}
	if players == nil {
		players = []*session.Player{}
	}
	h.respondJSON(w, http.StatusOK, sessionResponse{
		Session:   sess,
		Protected: sess.Protected(),
		Players:   players,
	})
}

type joinSessionRequest struct {
	PlayerName  string `json:"player_name"`
	Passphrase  string `json:"passphrase,omitempty"`
	CharacterID int64  `json:"character_id,omitempty"`
}

// handleJoinSession adds a player to the roster and announces it on the
// feed.
func (h *Handler) handleJoinSession(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	var req joinSessionRequest
	if err := decodeJSON(r, &req); err != nil {
		h.respondBadRequest(w, "invalid request body")
		return
	}
	if req.PlayerName == "" {
		h.respondBadRequest(w, "player_name must not be empty")
		return
	}
	if req.CharacterID > 0 {
		if _, err := h.characters.GetByID(r.Context(), req.CharacterID); err != nil {
			h.respondError(w, err)
			return
		}
	}

	player, err := h.manager.Join(id, req.PlayerName, req.Passphrase, req.CharacterID)
	if err != nil {
		h.respondError(w, err)
		return
	}

	h.publish(id, EventPlayerJoined, player)
	h.respondJSON(w, http.StatusOK, map[string]*session.Player{"player": player})
}

type leaveSessionRequest struct {
	PlayerName string `json:"player_name"`
}

type playerLeftEvent struct {
	Name string `json:"name"`
}

// handleLeaveSession removes a player from the roster.
func (h *Handler) handleLeaveSession(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	var req leaveSessionRequest
	if err := decodeJSON(r, &req); err != nil {
		h.respondBadRequest(w, "invalid request body")
		return
	}
	if req.PlayerName == "" {
		h.respondBadRequest(w, "player_name must not be empty")
		return
	}

	if err := h.manager.Leave(id, req.PlayerName); err != nil {
		h.respondError(w, err)
		return
	}

	h.publish(id, EventPlayerLeft, playerLeftEvent{Name: req.PlayerName})
	h.respondJSON(w, http.StatusNoContent, nil)
}

type sessionRollRequest struct {
	PlayerName    string `json:"player_name"`
	CharacterName string `json:"character_name,omitempty"`
	Expression    string `json:"expression"`
	CharacterID   int64  `json:"character_id,omitempty"`
	Advantage     bool   `json:"advantage,omitempty"`
	Disadvantage  bool   `json:"disadvantage,omitempty"`
}

// handleSessionRoll evaluates a roll at the table: the result lands in
// the session's live log, the durable history, and the feed.
func (h *Handler) handleSessionRoll(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	if _, ok := h.manager.Get(id); !ok {
		h.respondError(w, session.ErrSessionNotFound)
		return
	}

	var req sessionRollRequest
	if err := decodeJSON(r, &req); err != nil {
		h.respondBadRequest(w, "invalid request body")
		return
	}
	if req.PlayerName == "" {
		h.respondBadRequest(w, "player_name must not be empty")
		return
	}

	var profile dice.Character
	characterName := req.CharacterName
	if req.CharacterID > 0 {
		c, err := h.characters.GetByID(r.Context(), req.CharacterID)
		if err != nil {
			h.respondError(w, err)
			return
		}
		profile = c
		if characterName == "" {
			characterName = c.Name
		}
	}

	result, err := h.roller.Roll(dice.Request{
		Expression:   req.Expression,
		Character:    profile,
		Advantage:    req.Advantage,
		Disadvantage: req.Disadvantage,
	})
	if err != nil {
		h.respondError(w, err)
		return
	}

	rec := session.RollRecord{
		ID:            uuid.New().String(),
		SessionID:     id,
		PlayerName:    req.PlayerName,
		CharacterName: characterName,
		Result:        result,
	}

	if err := h.manager.AppendRoll(id, rec); err != nil {
		h.respondError(w, err)
		return
	}

	// Persistence is best effort: a storage hiccup must not stop the
	// table from playing, it only costs history across a restart.
	if err := h.rolls.Insert(r.Context(), rec); err != nil {
		h.logger.Error("persisting roll",
			zap.String("session_id", id),
			zap.String("roll_id", rec.ID),
			zap.Error(err),
		)
	} else if _, err := h.rolls.Prune(r.Context(), id, h.historyLimit); err != nil {
		h.logger.Warn("pruning roll history",
			zap.String("session_id", id),
			zap.Error(err),
		)
	}

	h.publish(id, EventRoll, rec)
	h.respondJSON(w, http.StatusCreated, rec)
}

// handleSessionRolls returns the most recent rolls, newest first.
func (h *Handler) handleSessionRolls(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	limit := h.historyLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			h.respondBadRequest(w, "limit must be a positive integer")
			return
		}
		if n < limit {
			limit = n
		}
	}

	recs, err := h.manager.Rolls(id)
	if err != nil {
		h.respondError(w, err)
		return
	}
	if len(recs) > limit {
		recs = recs[:limit]
	}
	if recs == nil {
		recs = []session.RollRecord{}
	}
	h.respondJSON(w, http.StatusOK, map[string][]session.RollRecord{"rolls": recs})
}
