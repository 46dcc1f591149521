package dice

import "strings"

// Attribute identifies one of the six ability scores a dice expression may
// reference. The zero value AttributeNone marks an expression with no
// attribute term.
type Attribute string

const (
	AttributeNone Attribute = ""
	STR           Attribute = "str"
	DEX           Attribute = "dex"
	CON           Attribute = "con"
	INT           Attribute = "int"
	WIS           Attribute = "wis"
	CHA           Attribute = "cha"
)

// Attributes returns the six abilities in canonical display order.
func Attributes() []Attribute {
	return []Attribute{STR, DEX, CON, INT, WIS, CHA}
}

// ParseAttribute matches a case-insensitive three-letter ability
// abbreviation. It returns AttributeNone and false for anything else.
func ParseAttribute(s string) (Attribute, bool) {
	switch Attribute(strings.ToLower(s)) {
	case STR, DEX, CON, INT, WIS, CHA:
		return Attribute(strings.ToLower(s)), true
	}
	return AttributeNone, false
}

// Abbrev returns the upper-case abbreviation used in modifier names and
// catalog labels, e.g. "STR".
func (a Attribute) Abbrev() string {
	return strings.ToUpper(string(a))
}

// AbilityModifier converts an ability score to its bonus using a true
// floor of (score-10)/2, so odd scores below 10 round down: 8 yields -1,
// 7 yields -2, 3 yields -4. Integer division alone would round toward
// zero and inflate penalties by one.
func AbilityModifier(score int) int {
	n := score - 10
	if n < 0 {
		return (n - 1) / 2
	}
	return n / 2
}
