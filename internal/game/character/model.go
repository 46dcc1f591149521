// Package character defines the character sheet domain model and the
// derived statistics the companion computes from it.
package character

import (
	"errors"
	"fmt"
	"time"

	"github.com/pedrohwah/shadowsofavernus/internal/game/dice"
)

// AbilityScores holds the six ability score values for a character.
type AbilityScores struct {
	Strength     int `json:"strength"`
	Dexterity    int `json:"dexterity"`
	Constitution int `json:"constitution"`
	Intelligence int `json:"intelligence"`
	Wisdom       int `json:"wisdom"`
	Charisma     int `json:"charisma"`
}

// Score returns the raw score for attr, or 0 for AttributeNone.
func (a AbilityScores) Score(attr dice.Attribute) int {
	switch attr {
	case dice.STR:
		return a.Strength
	case dice.DEX:
		return a.Dexterity
	case dice.CON:
		return a.Constitution
	case dice.INT:
		return a.Intelligence
	case dice.WIS:
		return a.Wisdom
	case dice.CHA:
		return a.Charisma
	}
	return 0
}

// Modifier returns the ability modifier for attr, floored per the dice
// engine's rule so a score of 7 yields -2, not -1.
func (a AbilityScores) Modifier(attr dice.Attribute) int {
	return dice.AbilityModifier(a.Score(attr))
}

// Character represents a player character's persistent sheet.
//
// ID is set by the persistence layer; zero means unsaved. ArmorID and
// Class reference ruleset content by ID and may dangle if content is
// removed; derived stats treat unknown references as absent.
type Character struct {
	ID       int64  `json:"id"`
	Name     string `json:"name"`
	Player   string `json:"player"`
	Ancestry string `json:"ancestry"`
	Class    string `json:"class"`
	Level    int    `json:"level"`

	Abilities AbilityScores `json:"abilities"`
	Luck      bool          `json:"luck"`

	MaxHP     int `json:"max_hp"`
	CurrentHP int `json:"current_hp"`

	ArmorID       string  `json:"armor_id"`
	Shield        bool    `json:"shield"`
	CarriedWeight float64 `json:"carried_weight"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// AbilityScore implements the dice engine's read-only character view.
func (c *Character) AbilityScore(attr dice.Attribute) int {
	return c.Abilities.Score(attr)
}

// Lucky reports the luck trait; lucky characters add +1 to every roll.
func (c *Character) Lucky() bool {
	return c.Luck
}

// Validate reports an error when the sheet holds illegal values. Create
// and update both gate on it.
//
// Postcondition: Returns nil iff the sheet is well-formed.
func (c *Character) Validate() error {
	var errs []error
	if c.Name == "" {
		errs = append(errs, errors.New("name must not be empty"))
	}
	if c.Level < 1 || c.Level > 20 {
		errs = append(errs, fmt.Errorf("level %d must be within [1, 20]", c.Level))
	}
	for _, attr := range dice.Attributes() {
		score := c.Abilities.Score(attr)
		if score < 1 || score > 30 {
			errs = append(errs, fmt.Errorf("%s score %d must be within [1, 30]", attr.Abbrev(), score))
		}
	}
	if c.MaxHP < 1 {
		errs = append(errs, fmt.Errorf("max hp %d must be >= 1", c.MaxHP))
	}
	if c.CurrentHP < 0 || c.CurrentHP > c.MaxHP {
		errs = append(errs, fmt.Errorf("current hp %d must be within [0, %d]", c.CurrentHP, c.MaxHP))
	}
	if c.CarriedWeight < 0 {
		errs = append(errs, errors.New("carried weight must be >= 0"))
	}
	if len(errs) > 0 {
		return errors.Join(errs...)
	}
	return nil
}
