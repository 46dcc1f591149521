package character_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"github.com/pedrohwah/shadowsofavernus/internal/game/character"
	"github.com/pedrohwah/shadowsofavernus/internal/game/dice"
	"github.com/pedrohwah/shadowsofavernus/internal/game/ruleset"
)

func makeClass(keyAbility string, hitDie int, saves ...string) *ruleset.Class {
	return &ruleset.Class{
		ID:           "test_class",
		Name:         "Test Class",
		HitDie:       hitDie,
		KeyAbility:   keyAbility,
		TrainedSaves: saves,
	}
}

func standardScores() character.AbilityScores {
	return character.AbilityScores{
		Strength: 16, Dexterity: 14, Constitution: 12,
		Intelligence: 10, Wisdom: 8, Charisma: 7,
	}
}

func TestAbilityScores_Score(t *testing.T) {
	a := standardScores()
	assert.Equal(t, 16, a.Score(dice.STR))
	assert.Equal(t, 14, a.Score(dice.DEX))
	assert.Equal(t, 12, a.Score(dice.CON))
	assert.Equal(t, 10, a.Score(dice.INT))
	assert.Equal(t, 8, a.Score(dice.WIS))
	assert.Equal(t, 7, a.Score(dice.CHA))
	assert.Equal(t, 0, a.Score(dice.AttributeNone))
}

func TestAbilityScores_ModifierFloors(t *testing.T) {
	a := standardScores()
	assert.Equal(t, 3, a.Modifier(dice.STR))
	assert.Equal(t, -1, a.Modifier(dice.WIS), "8 floors to -1")
	assert.Equal(t, -2, a.Modifier(dice.CHA), "7 floors to -2, not -1")
}

func TestNew_BuildsLevelOneCharacter(t *testing.T) {
	class := makeClass("str", 10)
	c, err := character.New("Seren", "ada", class, standardScores(), true)
	require.NoError(t, err)

	assert.Equal(t, 1, c.Level)
	assert.Equal(t, "test_class", c.Class)
	assert.Equal(t, 11, c.MaxHP, "hit die 10 + CON modifier 1")
	assert.Equal(t, c.MaxHP, c.CurrentHP)
	assert.True(t, c.Lucky())
	require.NoError(t, c.Validate())
}

func TestNew_HPFloorsAtOne(t *testing.T) {
	class := makeClass("int", 4)
	scores := standardScores()
	scores.Constitution = 1 // -5 modifier swamps the d4
	c, err := character.New("Wisp", "ada", class, scores, false)
	require.NoError(t, err)
	assert.Equal(t, 1, c.MaxHP)
}

func TestNew_Rejects(t *testing.T) {
	_, err := character.New("", "ada", makeClass("str", 10), standardScores(), false)
	assert.Error(t, err, "empty name")

	_, err = character.New("Seren", "ada", nil, standardScores(), false)
	assert.Error(t, err, "nil class")
}

func TestCharacter_Validate(t *testing.T) {
	base := func() *character.Character {
		return &character.Character{
			Name:      "Seren",
			Level:     3,
			Abilities: standardScores(),
			MaxHP:     20,
			CurrentHP: 12,
		}
	}

	require.NoError(t, base().Validate())

	c := base()
	c.Name = ""
	assert.Error(t, c.Validate())

	c = base()
	c.Level = 0
	assert.Error(t, c.Validate())

	c = base()
	c.Level = 21
	assert.Error(t, c.Validate())

	c = base()
	c.Abilities.Dexterity = 0
	assert.Error(t, c.Validate())

	c = base()
	c.Abilities.Charisma = 31
	assert.Error(t, c.Validate())

	c = base()
	c.CurrentHP = 25
	assert.Error(t, c.Validate(), "current hp above max")

	c = base()
	c.CarriedWeight = -1
	assert.Error(t, c.Validate())
}

func TestProficiencyBonus(t *testing.T) {
	cases := []struct {
		level int
		want  int
	}{
		{1, 2}, {2, 2}, {4, 2}, {5, 3}, {8, 3}, {9, 4}, {12, 4}, {13, 5}, {17, 6}, {20, 6},
	}
	for _, tc := range cases {
		c := &character.Character{Level: tc.level}
		assert.Equal(t, tc.want, c.ProficiencyBonus(), "level %d", tc.level)
	}
}

func TestAttackBonuses(t *testing.T) {
	c := &character.Character{Level: 5, Abilities: standardScores()}
	assert.Equal(t, 6, c.MeleeAttackBonus(), "STR +3 with proficiency +3")
	assert.Equal(t, 5, c.RangedAttackBonus(), "DEX +2 with proficiency +3")
}

func TestSheet_SpellAttackBonus(t *testing.T) {
	c := &character.Character{Level: 1, Abilities: standardScores()}

	s := character.Sheet{Character: c, Class: makeClass("cha", 8)}
	assert.Equal(t, 0, s.SpellAttackBonus(), "CHA -2 with proficiency +2")

	s = character.Sheet{Character: c}
	assert.Equal(t, 2, s.SpellAttackBonus(), "defaults to INT when classless")
}

func TestSheet_ArmorClass(t *testing.T) {
	c := &character.Character{Abilities: standardScores()} // DEX mod +2

	unarmored := character.Sheet{Character: c}
	assert.Equal(t, 12, unarmored.ArmorClass())

	light := character.Sheet{Character: c, Armor: &ruleset.Armor{BaseAC: 11, DexCap: -1}}
	assert.Equal(t, 13, light.ArmorClass())

	medium := character.Sheet{Character: c, Armor: &ruleset.Armor{BaseAC: 14, DexCap: 2}}
	assert.Equal(t, 16, medium.ArmorClass())

	heavy := character.Sheet{Character: c, Armor: &ruleset.Armor{BaseAC: 16, DexCap: 0}}
	assert.Equal(t, 16, heavy.ArmorClass(), "heavy armor ignores dexterity")

	c2 := *c
	c2.Shield = true
	withShield := character.Sheet{Character: &c2}
	assert.Equal(t, 14, withShield.ArmorClass(), "shield adds 2")
}

func TestSheet_SaveBonus(t *testing.T) {
	c := &character.Character{Level: 5, Abilities: standardScores()}
	s := character.Sheet{Character: c, Class: makeClass("str", 10, "str", "con")}

	assert.Equal(t, 6, s.SaveBonus(dice.STR), "trained: +3 mod +3 proficiency")
	assert.Equal(t, 4, s.SaveBonus(dice.CON), "trained: +1 mod +3 proficiency")
	assert.Equal(t, 2, s.SaveBonus(dice.DEX), "untrained: modifier only")
}

func TestNewSheet_ResolvesContent(t *testing.T) {
	reg := ruleset.NewRegistry()
	reg.RegisterClass(&ruleset.Class{ID: "fighter", Name: "Fighter", HitDie: 10, KeyAbility: "str"})
	reg.RegisterArmor(&ruleset.Armor{ID: "leather", Name: "Leather", Category: ruleset.CategoryLight, BaseAC: 11, DexCap: -1})

	c := &character.Character{Class: "fighter", ArmorID: "leather"}
	s := character.NewSheet(c, reg)
	require.NotNil(t, s.Class)
	require.NotNil(t, s.Armor)
	assert.Equal(t, "1d10", s.HitDieExpression())

	dangling := &character.Character{Class: "bard", ArmorID: "mithril"}
	s = character.NewSheet(dangling, reg)
	assert.Nil(t, s.Class)
	assert.Nil(t, s.Armor)
	assert.Equal(t, "1d8", s.HitDieExpression(), "classless falls back to d8")

	s = character.NewSheet(c, nil)
	assert.Nil(t, s.Class, "nil registry resolves nothing")
}

func TestEncumbrance(t *testing.T) {
	c := &character.Character{Abilities: character.AbilityScores{Strength: 10}}

	c.CarriedWeight = 50
	assert.Equal(t, character.Unencumbered, c.Encumbrance())

	c.CarriedWeight = 51
	assert.Equal(t, character.Encumbered, c.Encumbrance())

	c.CarriedWeight = 100
	assert.Equal(t, character.Encumbered, c.Encumbrance())

	c.CarriedWeight = 101
	assert.Equal(t, character.HeavilyEncumbered, c.Encumbrance())

	assert.Equal(t, 150.0, c.CarryCapacity())
	assert.Equal(t, "heavily encumbered", c.Encumbrance().String())
}

// The sheet must satisfy the dice engine's interfaces so rolls and the
// catalog can consume it directly.
func TestSheetSatisfiesDiceInterfaces(t *testing.T) {
	c := &character.Character{Level: 1, Abilities: standardScores(), Luck: true}
	s := character.Sheet{Character: c}

	var _ dice.Character = c
	var _ dice.Profile = s

	rolls := dice.CommonRolls(s)
	assert.Len(t, rolls, 18)
	for _, cr := range rolls {
		assert.True(t, dice.ValidExpression(cr.Expression), "entry %q", cr.Label)
	}
}

func TestPropertyHPNeverBelowOne(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		hitDie := rapid.SampledFrom([]int{4, 6, 8, 10, 12}).Draw(rt, "hit_die")
		con := rapid.IntRange(1, 30).Draw(rt, "con")

		scores := standardScores()
		scores.Constitution = con
		c, err := character.New("Hero", "p", makeClass("str", hitDie), scores, false)
		if err != nil {
			rt.Fatalf("build failed: %v", err)
		}
		if c.MaxHP < 1 {
			rt.Fatalf("max hp %d below 1", c.MaxHP)
		}
		if c.MaxHP != c.CurrentHP {
			rt.Fatalf("fresh character hp mismatch: %d != %d", c.MaxHP, c.CurrentHP)
		}
	})
}
