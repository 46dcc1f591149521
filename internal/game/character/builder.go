package character

import (
	"errors"

	"github.com/pedrohwah/shadowsofavernus/internal/game/dice"
	"github.com/pedrohwah/shadowsofavernus/internal/game/ruleset"
)

// New constructs a level-1 character for the given class. Starting hit
// points are the class hit die maximum plus the constitution modifier,
// floored at 1 so a frail sheet still stands up.
//
// Precondition: name must be non-empty; class must be non-nil.
// Postcondition: Returns a Character that passes Validate, or a non-nil
// error.
func New(name, player string, class *ruleset.Class, abilities AbilityScores, luck bool) (*Character, error) {
	if name == "" {
		return nil, errors.New("character name must not be empty")
	}
	if class == nil {
		return nil, errors.New("class must not be nil")
	}

	conMod := abilities.Modifier(dice.CON)
	maxHP := class.HitDie + conMod
	if maxHP < 1 {
		maxHP = 1
	}

	c := &Character{
		Name:      name,
		Player:    player,
		Class:     class.ID,
		Level:     1,
		Abilities: abilities,
		Luck:      luck,
		MaxHP:     maxHP,
		CurrentHP: maxHP,
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}
