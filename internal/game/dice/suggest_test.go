package dice

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"pgregory.net/rapid"
)

func TestSuggest_Empty(t *testing.T) {
	assert.Nil(t, Suggest(""))
	assert.Nil(t, Suggest("   "))
}

func TestSuggest_CountOnly(t *testing.T) {
	assert.Equal(t, []string{"2d4", "2d6", "2d8", "2d10", "2d12"}, Suggest("2"))
}

func TestSuggest_CountAndD(t *testing.T) {
	assert.Equal(t, []string{"3d4", "3d6", "3d8", "3d10", "3d12"}, Suggest("3d"))
}

func TestSuggest_PartialSides(t *testing.T) {
	// "d1" is itself valid (one one-sided die), then the sizes extending it.
	assert.Equal(t, []string{"d1", "d10", "d12", "d100"}, Suggest("d1"))
	assert.Equal(t, []string{"1d2", "1d20"}, Suggest("1d2"))
}

func TestSuggest_AttributeTail(t *testing.T) {
	assert.Equal(t, []string{"1d20+str"}, Suggest("1d20+s"))
	assert.Equal(t, []string{"1d20+con", "1d20+cha"}, Suggest("1d20+c"))
	assert.Equal(t, []string{"1d20+wis"}, Suggest("1d20+w"))
}

func TestSuggest_AttributeContained(t *testing.T) {
	assert.Equal(t, []string{"1d20+str"}, Suggest("str"))
	assert.Equal(t, []string{"1d20+int"}, Suggest("int"))
}

func TestSuggest_ValidInputComesFirst(t *testing.T) {
	got := Suggest("1d20+cha")
	assert.Equal(t, []string{"1d20+cha"}, got, "already-valid input suggests itself once")
}

func TestSuggest_CapAtFive(t *testing.T) {
	got := Suggest("d")
	assert.Len(t, got, 5)
	assert.Equal(t, []string{"d4", "d6", "d8", "d10", "d12"}, got)
}

func TestSuggest_OutOfBoundsCountYieldsNothing(t *testing.T) {
	assert.Empty(t, Suggest("101"))
	assert.Empty(t, Suggest("0"))
}

func TestSuggest_HopelessInput(t *testing.T) {
	assert.Empty(t, Suggest("fireball"))
	assert.Empty(t, Suggest("+++"))
}

func TestTrailsInto(t *testing.T) {
	assert.True(t, trailsInto("1d20+s", "str"))
	assert.True(t, trailsInto("2d6-de", "dex"))
	assert.False(t, trailsInto("1d20+str", "str"), "a full abbreviation is not a partial tail")
	assert.False(t, trailsInto("1d20+", "str"))
	assert.False(t, trailsInto("str", "str"))
	assert.False(t, trailsInto("1d20+x", "str"))
}

func TestPropertySuggestionsAlwaysValid(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		in := rapid.StringMatching(`[0-9d+\-a-z ]{0,12}`).Draw(rt, "input")
		got := Suggest(in)
		if len(got) > maxSuggestions {
			rt.Fatalf("%d suggestions for %q exceeds cap", len(got), in)
		}
		seen := map[string]bool{}
		for _, s := range got {
			if !ValidExpression(s) {
				rt.Fatalf("suggestion %q for input %q does not parse", s, in)
			}
			if seen[s] {
				rt.Fatalf("duplicate suggestion %q for input %q", s, in)
			}
			seen[s] = true
		}
	})
}
