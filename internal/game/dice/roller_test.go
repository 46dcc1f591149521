package dice_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"github.com/pedrohwah/shadowsofavernus/internal/game/dice"
)

// fakeSource feeds predetermined Intn values and counts calls so tests
// can pin exact die faces and prove when randomness was not consumed.
type fakeSource struct {
	vals  []int
	calls int
}

func (f *fakeSource) Intn(n int) int {
	if f.calls >= len(f.vals) {
		panic("fakeSource exhausted")
	}
	v := f.vals[f.calls]
	f.calls++
	if v < 0 || v >= n {
		panic("fakeSource value out of range")
	}
	return v
}

// faces builds a fakeSource that yields the given die faces in order.
func faces(results ...int) *fakeSource {
	vals := make([]int, len(results))
	for i, r := range results {
		vals[i] = r - 1
	}
	return &fakeSource{vals: vals}
}

type testCharacter struct {
	scores map[dice.Attribute]int
	lucky  bool
}

func (c *testCharacter) AbilityScore(attr dice.Attribute) int { return c.scores[attr] }
func (c *testCharacter) Lucky() bool                          { return c.lucky }

func TestRoll_SingleDie(t *testing.T) {
	r := dice.NewRoller(faces(5))
	res, err := r.Roll(dice.Request{Expression: "1d6"})
	require.NoError(t, err)

	require.Len(t, res.Rolls, 1)
	assert.Equal(t, dice.Die{Sides: 6, Result: 5}, res.Rolls[0])
	assert.Empty(t, res.Modifiers)
	assert.Equal(t, 5, res.Total)
	assert.Equal(t, "1d6 → 5", res.Details)
	assert.WithinDuration(t, time.Now(), res.RolledAt, time.Minute)
}

func TestRoll_MultipleDice(t *testing.T) {
	r := dice.NewRoller(faces(2, 6, 1))
	res, err := r.Roll(dice.Request{Expression: "3d6"})
	require.NoError(t, err)

	require.Len(t, res.Rolls, 3)
	assert.Equal(t, 9, res.Total)
	assert.Equal(t, "3d6 → [2, 6, 1]", res.Details)

	assert.False(t, res.Rolls[0].IsMax)
	assert.False(t, res.Rolls[0].IsMin)
	assert.True(t, res.Rolls[1].IsMax, "a natural 6 on d6 is a max")
	assert.True(t, res.Rolls[2].IsMin, "a natural 1 is a min")
}

func TestRoll_FlatModifier(t *testing.T) {
	r := dice.NewRoller(faces(1, 4))
	res, err := r.Roll(dice.Request{Expression: "2d4+3"})
	require.NoError(t, err)

	assert.Equal(t, []dice.Modifier{{Name: "Modifier", Value: 3}}, res.Modifiers)
	assert.Equal(t, 8, res.Total)
	assert.Equal(t, "2d4 → [1, 4] +3 (Modifier)", res.Details)
}

func TestRoll_NegativeTotalAllowed(t *testing.T) {
	r := dice.NewRoller(faces(1))
	res, err := r.Roll(dice.Request{Expression: "1d4-2"})
	require.NoError(t, err)

	assert.Equal(t, -1, res.Total, "totals may drop to zero or below")
	assert.Equal(t, "1d4 → 1 -2 (Modifier)", res.Details)
}

func TestRoll_ZeroModifierOmitted(t *testing.T) {
	r := dice.NewRoller(faces(3))
	res, err := r.Roll(dice.Request{Expression: "1d6+0"})
	require.NoError(t, err)
	assert.Empty(t, res.Modifiers, "a zero modifier earns no trace entry")
	assert.Equal(t, "1d6 → 3", res.Details)
}

func TestRoll_InvalidExpressionConsumesNoRandomness(t *testing.T) {
	src := &fakeSource{}
	r := dice.NewRoller(src)

	_, err := r.Roll(dice.Request{Expression: "101d6"})
	require.Error(t, err)
	assert.ErrorIs(t, err, dice.ErrInvalidExpression)
	assert.Equal(t, 0, src.calls, "parse failure must happen before any roll")
}

func TestRoll_Advantage(t *testing.T) {
	r := dice.NewRoller(faces(14, 7))
	res, err := r.Roll(dice.Request{Expression: "1d20", Advantage: true})
	require.NoError(t, err)

	require.Len(t, res.Rolls, 1, "advantage is one logical roll")
	assert.Equal(t, 14, res.Rolls[0].Result)
	assert.Equal(t, 14, res.Total)
	assert.Equal(t, "(Advantage) 1d20 → 14 (14, 7)", res.Details)
}

func TestRoll_Disadvantage(t *testing.T) {
	r := dice.NewRoller(faces(14, 7))
	res, err := r.Roll(dice.Request{Expression: "1d20", Disadvantage: true})
	require.NoError(t, err)

	require.Len(t, res.Rolls, 1)
	assert.Equal(t, 7, res.Rolls[0].Result)
	assert.Equal(t, "(Disadvantage) 1d20 → 7 (14, 7)", res.Details)
}

func TestRoll_AdvantageWinsWhenBothFlagsSet(t *testing.T) {
	r := dice.NewRoller(faces(3, 18))
	res, err := r.Roll(dice.Request{Expression: "1d20", Advantage: true, Disadvantage: true})
	require.NoError(t, err)
	assert.Equal(t, 18, res.Total)
	assert.Contains(t, res.Details, "(Advantage)")
}

func TestRoll_AdvantageKeptDieFlags(t *testing.T) {
	r := dice.NewRoller(faces(20, 2))
	res, err := r.Roll(dice.Request{Expression: "1d20", Advantage: true})
	require.NoError(t, err)
	assert.True(t, res.Rolls[0].IsMax, "kept natural 20 must flag IsMax")

	r = dice.NewRoller(faces(1, 15))
	res, err = r.Roll(dice.Request{Expression: "1d20", Disadvantage: true})
	require.NoError(t, err)
	assert.True(t, res.Rolls[0].IsMin, "kept natural 1 must flag IsMin")
}

func TestRoll_AdvantageIgnoredOffSingleD20(t *testing.T) {
	// Two d20s: flags ignored, both dice kept.
	r := dice.NewRoller(faces(4, 9))
	res, err := r.Roll(dice.Request{Expression: "2d20", Advantage: true})
	require.NoError(t, err)
	assert.Len(t, res.Rolls, 2)
	assert.Equal(t, "2d20 → [4, 9]", res.Details)

	// Not a d20: flags ignored.
	r = dice.NewRoller(faces(3))
	res, err = r.Roll(dice.Request{Expression: "1d6", Disadvantage: true})
	require.NoError(t, err)
	assert.Len(t, res.Rolls, 1)
	assert.Equal(t, "1d6 → 3", res.Details)
}

func TestRoll_AttributeBonus(t *testing.T) {
	ch := &testCharacter{scores: map[dice.Attribute]int{dice.STR: 18}}
	r := dice.NewRoller(faces(10))

	res, err := r.Roll(dice.Request{Expression: "1d20+str", Character: ch})
	require.NoError(t, err)

	assert.Equal(t, []dice.Modifier{{Name: "STR Bonus", Value: 4}}, res.Modifiers)
	assert.Equal(t, 14, res.Total)
	assert.Equal(t, "1d20 → 10 +4 (STR Bonus)", res.Details)
}

func TestRoll_AttributeBonusFloorsNegative(t *testing.T) {
	ch := &testCharacter{scores: map[dice.Attribute]int{dice.WIS: 7}}
	r := dice.NewRoller(faces(10))

	res, err := r.Roll(dice.Request{Expression: "1d20+wis", Character: ch})
	require.NoError(t, err)
	assert.Equal(t, []dice.Modifier{{Name: "WIS Bonus", Value: -2}}, res.Modifiers)
	assert.Equal(t, "1d20 → 10 -2 (WIS Bonus)", res.Details)
}

func TestRoll_AttributeWithoutCharacter(t *testing.T) {
	r := dice.NewRoller(faces(10))
	res, err := r.Roll(dice.Request{Expression: "1d20+str"})
	require.NoError(t, err)
	assert.Empty(t, res.Modifiers, "no sheet, no attribute bonus")
	assert.Equal(t, 10, res.Total)
}

func TestRoll_AttributeSignDoesNotFlipBonus(t *testing.T) {
	ch := &testCharacter{scores: map[dice.Attribute]int{dice.STR: 18}}
	r := dice.NewRoller(faces(10))

	res, err := r.Roll(dice.Request{Expression: "1d20-str", Character: ch})
	require.NoError(t, err)
	assert.Equal(t, []dice.Modifier{{Name: "STR Bonus", Value: 4}}, res.Modifiers, "written minus is ignored")
	assert.Equal(t, 14, res.Total)
}

func TestRoll_LuckBonusAppliesToAnyExpression(t *testing.T) {
	ch := &testCharacter{lucky: true, scores: map[dice.Attribute]int{}}
	r := dice.NewRoller(faces(2, 5))

	res, err := r.Roll(dice.Request{Expression: "2d6", Character: ch})
	require.NoError(t, err)
	assert.Equal(t, []dice.Modifier{{Name: "Luck Bonus", Value: 1}}, res.Modifiers)
	assert.Equal(t, 8, res.Total)
	assert.Equal(t, "2d6 → [2, 5] +1 (Luck Bonus)", res.Details)
}

func TestRoll_ModifierOrder(t *testing.T) {
	ch := &testCharacter{
		scores: map[dice.Attribute]int{dice.DEX: 14},
		lucky:  true,
	}
	r := dice.NewRoller(faces(2, 6))

	res, err := r.Roll(dice.Request{Expression: "2d6+dex+3", Character: ch})
	require.NoError(t, err)

	want := []dice.Modifier{
		{Name: "Modifier", Value: 3},
		{Name: "DEX Bonus", Value: 2},
		{Name: "Luck Bonus", Value: 1},
	}
	assert.Equal(t, want, res.Modifiers, "flat modifier, then attribute, then luck")
	assert.Equal(t, 14, res.Total)
	assert.Equal(t, "2d6 → [2, 6] +3 (Modifier) +2 (DEX Bonus) +1 (Luck Bonus)", res.Details)
}

func TestAbilityModifier(t *testing.T) {
	cases := []struct {
		score int
		want  int
	}{
		{1, -5}, {3, -4}, {7, -2}, {8, -1}, {9, -1}, {10, 0},
		{11, 0}, {12, 1}, {15, 2}, {18, 4}, {20, 5}, {30, 10},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, dice.AbilityModifier(tc.score), "score %d", tc.score)
	}
}

func TestPropertyRollWithinBounds(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		count := rapid.IntRange(1, 10).Draw(rt, "count")
		sides := rapid.IntRange(1, 100).Draw(rt, "sides")
		seed := rapid.Int64().Draw(rt, "seed")

		r := dice.NewRoller(dice.NewPseudoSource(seed))
		res, err := r.Roll(dice.Request{Expression: dice.Expression{Count: count, Sides: sides}.String()})
		if err != nil {
			rt.Fatalf("roll failed: %v", err)
		}
		if len(res.Rolls) != count {
			rt.Fatalf("expected %d rolls, got %d", count, len(res.Rolls))
		}
		sum := 0
		for _, d := range res.Rolls {
			if d.Result < 1 || d.Result > sides {
				rt.Fatalf("die result %d outside [1, %d]", d.Result, sides)
			}
			if d.IsMax != (d.Result == sides) || d.IsMin != (d.Result == 1) {
				rt.Fatalf("extreme flags wrong for %+v", d)
			}
			sum += d.Result
		}
		if res.Total != sum {
			rt.Fatalf("total %d != dice sum %d", res.Total, sum)
		}
	})
}

func TestPropertyTotalEquation(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		count := rapid.IntRange(1, 8).Draw(rt, "count")
		sides := rapid.IntRange(2, 20).Draw(rt, "sides")
		mod := rapid.IntRange(-10, 10).Draw(rt, "mod")
		lucky := rapid.Bool().Draw(rt, "lucky")
		score := rapid.IntRange(3, 20).Draw(rt, "score")
		seed := rapid.Int64().Draw(rt, "seed")

		ch := &testCharacter{scores: map[dice.Attribute]int{dice.CON: score}, lucky: lucky}
		in := dice.Expression{Count: count, Sides: sides, Attribute: dice.CON, Modifier: mod}.String()

		r := dice.NewRoller(dice.NewPseudoSource(seed))
		res, err := r.Roll(dice.Request{Expression: in, Character: ch})
		if err != nil {
			rt.Fatalf("roll failed for %q: %v", in, err)
		}

		want := 0
		for _, d := range res.Rolls {
			want += d.Result
		}
		for _, m := range res.Modifiers {
			want += m.Value
		}
		if res.Total != want {
			rt.Fatalf("total %d != rolls+modifiers %d", res.Total, want)
		}

		expectMods := 0
		if mod != 0 {
			expectMods++
		}
		expectMods++ // attribute bonus always present with a character
		if lucky {
			expectMods++
		}
		if len(res.Modifiers) != expectMods {
			rt.Fatalf("expected %d modifiers, got %+v", expectMods, res.Modifiers)
		}
	})
}
