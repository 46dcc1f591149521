package api

import (
	"net/http"
	"strconv"

	"github.com/pedrohwah/shadowsofavernus/internal/game/character"
	"github.com/pedrohwah/shadowsofavernus/internal/game/dice"
)

type rollRequest struct {
	Expression   string `json:"expression"`
	CharacterID  int64  `json:"character_id,omitempty"`
	Advantage    bool   `json:"advantage,omitempty"`
	Disadvantage bool   `json:"disadvantage,omitempty"`
}

// handleRoll evaluates a dice expression outside any session, with
// attribute and luck bonuses when a character id is supplied.
func (h *Handler) handleRoll(w http.ResponseWriter, r *http.Request) {
	var req rollRequest
	if err := decodeJSON(r, &req); err != nil {
		h.respondBadRequest(w, "invalid request body")
		return
	}

	var profile dice.Character
	if req.CharacterID > 0 {
		c, err := h.characters.GetByID(r.Context(), req.CharacterID)
		if err != nil {
			h.respondError(w, err)
			return
		}
		profile = c
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
	h.respondJSON(w, http.StatusOK, result)
}

type validateRequest struct {
	Expression string `json:"expression"`
}

type validateResponse struct {
	Valid      bool   `json:"valid"`
	Normalized string `json:"normalized,omitempty"`
}

// handleValidateRoll reports whether an expression parses, without
// rolling anything.
func (h *Handler) handleValidateRoll(w http.ResponseWriter, r *http.Request) {
	var req validateRequest
	if err := decodeJSON(r, &req); err != nil {
		h.respondBadRequest(w, "invalid request body")
		return
	}

	expr, err := dice.Parse(req.Expression)
	if err != nil {
		h.respondJSON(w, http.StatusOK, validateResponse{Valid: false})
		return
	}
	h.respondJSON(w, http.StatusOK, validateResponse{Valid: true, Normalized: expr.String()})
}

// handleSuggestRolls completes a partial expression the way the roll
// input box does.
func (h *Handler) handleSuggestRolls(w http.ResponseWriter, r *http.Request) {
	suggestions := dice.Suggest(r.URL.Query().Get("input"))
	if suggestions == nil {
		suggestions = []string{}
	}
	h.respondJSON(w, http.StatusOK, map[string][]string{"suggestions": suggestions})
}

// handleCommonRolls returns the quick-roll catalog: the base entries
// alone, or base plus character entries when a character id is given.
func (h *Handler) handleCommonRolls(w http.ResponseWriter, r *http.Request) {
	var profile dice.Profile
	if raw := r.URL.Query().Get("character_id"); raw != "" {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			h.respondBadRequest(w, "character_id must be an integer")
			return
		}
		c, err := h.characters.GetByID(r.Context(), id)
		if err != nil {
			h.respondError(w, err)
			return
		}
		profile = character.NewSheet(c, h.registry)
	}
	h.respondJSON(w, http.StatusOK, map[string][]dice.CommonRoll{"rolls": dice.CommonRolls(profile)})
}
