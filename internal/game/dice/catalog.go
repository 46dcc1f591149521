package dice

import "fmt"

// Profile extends Character with the derived attack bonuses the catalog
// bakes into its attack expressions. The character package's sheet type
// satisfies it.
type Profile interface {
	Character
	MeleeAttackBonus() int
	RangedAttackBonus() int
	SpellAttackBonus() int
}

// CommonRoll is one entry in the quick-roll catalog offered to players.
// Expression always parses; Advantage and Disadvantage are evaluation
// flags alongside the expression, not part of its text.
type CommonRoll struct {
	Label        string `json:"label"`
	Expression   string `json:"expression"`
	Advantage    bool   `json:"advantage,omitempty"`
	Disadvantage bool   `json:"disadvantage,omitempty"`
}

// baseRolls covers the seven standard die sizes, with the d20 appearing
// three times: plain and in both advantage flavors.
func baseRolls() []CommonRoll {
	return []CommonRoll{
		{Label: "d4", Expression: "1d4"},
		{Label: "d6", Expression: "1d6"},
		{Label: "d8", Expression: "1d8"},
		{Label: "d10", Expression: "1d10"},
		{Label: "d12", Expression: "1d12"},
		{Label: "d100", Expression: "1d100"},
		{Label: "d20", Expression: "1d20"},
		{Label: "d20 (Advantage)", Expression: "1d20", Advantage: true},
		{Label: "d20 (Disadvantage)", Expression: "1d20", Disadvantage: true},
	}
}

// CommonRolls returns the quick-roll catalog in its fixed display order:
// the nine base entries, then, when p is non-nil, nine character entries.
// The three attacks carry the derived bonus baked into the expression;
// the six saves use the attribute form and resolve against the character
// at roll time.
func CommonRolls(p Profile) []CommonRoll {
	rolls := baseRolls()
	if p == nil {
		return rolls
	}

	rolls = append(rolls,
		CommonRoll{Label: "Melee Attack", Expression: fmt.Sprintf("1d20%+d", p.MeleeAttackBonus())},
		CommonRoll{Label: "Ranged Attack", Expression: fmt.Sprintf("1d20%+d", p.RangedAttackBonus())},
		CommonRoll{Label: "Spell Attack", Expression: fmt.Sprintf("1d20%+d", p.SpellAttackBonus())},
	)
	for _, attr := range Attributes() {
		rolls = append(rolls, CommonRoll{
			Label:      attr.Abbrev() + " Save",
			Expression: "1d20+" + string(attr),
		})
	}
	return rolls
}
