package character

import (
	"fmt"

	"github.com/pedrohwah/shadowsofavernus/internal/game/dice"
	"github.com/pedrohwah/shadowsofavernus/internal/game/ruleset"
)

// Encumbrance classifies carried weight against strength thresholds.
type Encumbrance int

const (
	Unencumbered Encumbrance = iota
	Encumbered
	HeavilyEncumbered
)

// String returns the display label for the encumbrance tier.
func (e Encumbrance) String() string {
	switch e {
	case Encumbered:
		return "encumbered"
	case HeavilyEncumbered:
		return "heavily encumbered"
	default:
		return "unencumbered"
	}
}

// ProficiencyBonus scales with level: +2 at level 1, one more every four
// levels. Levels below 1 are treated as 1.
func (c *Character) ProficiencyBonus() int {
	level := c.Level
	if level < 1 {
		level = 1
	}
	return 2 + (level-1)/4
}

// MeleeAttackBonus is the strength modifier plus proficiency.
func (c *Character) MeleeAttackBonus() int {
	return c.Abilities.Modifier(dice.STR) + c.ProficiencyBonus()
}

// RangedAttackBonus is the dexterity modifier plus proficiency.
func (c *Character) RangedAttackBonus() int {
	return c.Abilities.Modifier(dice.DEX) + c.ProficiencyBonus()
}

// CarryCapacity is the hard carrying limit: strength score times 15.
func (c *Character) CarryCapacity() float64 {
	return float64(c.Abilities.Strength) * 15
}

// Encumbrance applies the variant thresholds: above five times strength
// slows a character, above ten times slows them badly.
func (c *Character) Encumbrance() Encumbrance {
	str := float64(c.Abilities.Strength)
	switch {
	case c.CarriedWeight > str*10:
		return HeavilyEncumbered
	case c.CarriedWeight > str*5:
		return Encumbered
	default:
		return Unencumbered
	}
}

// Sheet pairs a character with its resolved ruleset content so derived
// stats needing class or armor data can be computed without further
// lookups. The embedded character keeps Sheet satisfying the dice
// engine's Profile interface.
type Sheet struct {
	*Character
	Class *ruleset.Class // nil when the class ID resolves to nothing
	Armor *ruleset.Armor // nil when unarmored or the armor ID is unknown
}

// NewSheet resolves the character's class and armor IDs against reg. A
// nil registry yields a sheet with no resolved content, which is still
// fully usable; class- and armor-dependent stats fall back to their
// defaults.
func NewSheet(c *Character, reg *ruleset.Registry) Sheet {
	s := Sheet{Character: c}
	if reg == nil {
		return s
	}
	if cls, ok := reg.Class(c.Class); ok {
		s.Class = cls
	}
	if c.ArmorID != "" {
		if a, ok := reg.Armor(c.ArmorID); ok {
			s.Armor = a
		}
	}
	return s
}

// SpellAttackBonus is the class key-ability modifier plus proficiency;
// without a resolved class the key ability defaults to intelligence.
func (s Sheet) SpellAttackBonus() int {
	attr := dice.INT
	if s.Class != nil {
		attr = s.Class.KeyAttribute()
	}
	return s.Abilities.Modifier(attr) + s.ProficiencyBonus()
}

// ArmorClass is 10 plus the dexterity modifier when unarmored, otherwise
// the armor's base with dexterity capped by the armor, plus 2 for a
// raised shield.
func (s Sheet) ArmorClass() int {
	dexMod := s.Abilities.Modifier(dice.DEX)
	ac := 10 + dexMod
	if s.Armor != nil {
		ac = s.Armor.BaseAC + s.Armor.DexBonus(dexMod)
	}
	if s.Shield {
		ac += 2
	}
	return ac
}

// SaveBonus is the ability modifier for attr, plus proficiency when the
// class trains that save.
func (s Sheet) SaveBonus(attr dice.Attribute) int {
	bonus := s.Abilities.Modifier(attr)
	if s.Class != nil && s.Class.TrainsSave(attr) {
		bonus += s.ProficiencyBonus()
	}
	return bonus
}

// HitDieExpression is the roll players make when recovering hit points,
// e.g. "1d10" for a fighter. Without a resolved class it falls back to
// the d8 most classes use.
func (s Sheet) HitDieExpression() string {
	sides := 8
	if s.Class != nil {
		sides = s.Class.HitDie
	}
	return fmt.Sprintf("1d%d", sides)
}
