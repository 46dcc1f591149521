package api

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gorilla/mux"

	"github.com/pedrohwah/shadowsofavernus/internal/game/character"
	"github.com/pedrohwah/shadowsofavernus/internal/game/dice"
)

// characterRequest is a character sheet body. The explicit CurrentHP
// pointer distinguishes "omitted" from an explicit zero; omitted
// defaults to max_hp.
type characterRequest struct {
	character.Character
	CurrentHP *int `json:"current_hp"`
}

type derivedStats struct {
	ArmorClass        int            `json:"armor_class"`
	ProficiencyBonus  int            `json:"proficiency_bonus"`
	MeleeAttackBonus  int            `json:"melee_attack_bonus"`
	RangedAttackBonus int            `json:"ranged_attack_bonus"`
	SpellAttackBonus  int            `json:"spell_attack_bonus"`
	SaveBonuses       map[string]int `json:"save_bonuses"`
	HitDie            string         `json:"hit_die"`
	CarryCapacity     float64        `json:"carry_capacity"`
	Encumbrance       string         `json:"encumbrance"`
}

type characterResponse struct {
	Character *character.Character `json:"character"`
	Derived   derivedStats         `json:"derived"`
}

// derivedBlock computes the stat block the sheet view renders next to
// the raw scores.
func (h *Handler) derivedBlock(c *character.Character) derivedStats {
	sheet := character.NewSheet(c, h.registry)
	saves := make(map[string]int, len(dice.Attributes()))
	for _, attr := range dice.Attributes() {
		saves[attr.Abbrev()] = sheet.SaveBonus(attr)
	}
	return derivedStats{
		ArmorClass:        sheet.ArmorClass(),
		ProficiencyBonus:  sheet.ProficiencyBonus(),
		MeleeAttackBonus:  sheet.MeleeAttackBonus(),
		RangedAttackBonus: sheet.RangedAttackBonus(),
		SpellAttackBonus:  sheet.SpellAttackBonus(),
		SaveBonuses:       saves,
		HitDie:            sheet.HitDieExpression(),
		CarryCapacity:     sheet.CarryCapacity(),
		Encumbrance:       sheet.Encumbrance().String(),
	}
}

// characterID extracts and parses the {id} path variable.
func characterID(r *http.Request) (int64, error) {
	raw := mux.Vars(r)["id"]
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("character id %q must be a positive integer", raw)
	}
	return id, nil
}

// handleCreateCharacter creates a sheet. A body with neither level nor
// max_hp is treated as a fresh level-1 character and gets its starting
// hit points from the class hit die.
func (h *Handler) handleCreateCharacter(w http.ResponseWriter, r *http.Request) {
	var req characterRequest
	if err := decodeJSON(r, &req); err != nil {
		h.respondBadRequest(w, "invalid request body")
		return
	}

	c := req.Character
	c.ID = 0
	c.CreatedAt = time.Time{}
	c.UpdatedAt = time.Time{}

	if c.Level == 0 && c.MaxHP == 0 {
		cls, ok := h.registry.Class(c.Class)
		if !ok {
			h.respondBadRequest(w, fmt.Sprintf("unknown class %q", c.Class))
			return
		}
		built, err := character.New(c.Name, c.Player, cls, c.Abilities, c.Luck)
		if err != nil {
			h.respondBadRequest(w, err.Error())
			return
		}
		built.Ancestry = c.Ancestry
		built.ArmorID = c.ArmorID
		built.Shield = c.Shield
		built.CarriedWeight = c.CarriedWeight
		c = *built
	} else {
		if req.CurrentHP == nil {
			c.CurrentHP = c.MaxHP
		} else {
			c.CurrentHP = *req.CurrentHP
		}
		if err := c.Validate(); err != nil {
			h.respondBadRequest(w, err.Error())
			return
		}
	}

	created, err := h.characters.Create(r.Context(), &c)
	if err != nil {
		h.respondError(w, err)
		return
	}
	h.respondJSON(w, http.StatusCreated, created)
}

// handleListCharacters lists sheets, optionally filtered by player name.
func (h *Handler) handleListCharacters(w http.ResponseWriter, r *http.Request) {
	chars, err := h.characters.List(r.Context())
	if err != nil {
		h.respondError(w, err)
		return
	}

	if player := r.URL.Query().Get("player"); player != "" {
		filtered := make([]*character.Character, 0, len(chars))
		for _, c := range chars {
			if strings.EqualFold(c.Player, player) {
				filtered = append(filtered, c)
			}
		}
		chars = filtered
	}
	if chars == nil {
		chars = []*character.Character{}
	}
	h.respondJSON(w, http.StatusOK, map[string][]*character.Character{"characters": chars})
}

// handleGetCharacter returns one sheet with its derived stat block.
func (h *Handler) handleGetCharacter(w http.ResponseWriter, r *http.Request) {
	id, err := characterID(r)
	if err != nil {
		h.respondBadRequest(w, err.Error())
		return
	}

	c, err := h.characters.GetByID(r.Context(), id)
	if err != nil {
		h.respondError(w, err)
		return
	}
	h.respondJSON(w, http.StatusOK, characterResponse{Character: c, Derived: h.derivedBlock(c)})
}

// handleUpdateCharacter replaces a sheet.
func (h *Handler) handleUpdateCharacter(w http.ResponseWriter, r *http.Request) {
	id, err := characterID(r)
	if err != nil {
		h.respondBadRequest(w, err.Error())
		return
	}

	var req characterRequest
	if err := decodeJSON(r, &req); err != nil {
		h.respondBadRequest(w, "invalid request body")
		return
	}

	c := req.Character
	c.ID = id
	if req.CurrentHP == nil {
		c.CurrentHP = c.MaxHP
	} else {
		c.CurrentHP = *req.CurrentHP
	}
	if err := c.Validate(); err != nil {
		h.respondBadRequest(w, err.Error())
		return
	}

	updated, err := h.characters.Update(r.Context(), &c)
	if err != nil {
		h.respondError(w, err)
		return
	}
	h.respondJSON(w, http.StatusOK, updated)
}

// handleDeleteCharacter removes a sheet.
func (h *Handler) handleDeleteCharacter(w http.ResponseWriter, r *http.Request) {
	id, err := characterID(r)
	if err != nil {
		h.respondBadRequest(w, err.Error())
		return
	}

	if err := h.characters.Delete(r.Context(), id); err != nil {
		h.respondError(w, err)
		return
	}
	h.respondJSON(w, http.StatusNoContent, nil)
}
