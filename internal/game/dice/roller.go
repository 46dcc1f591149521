package dice

import (
	"fmt"
	"strings"
	"time"
)

// Character is the read-only view of a character sheet the evaluator
// needs. A nil Character disables attribute and luck bonuses; the sheet
// itself stays owned by the caller.
type Character interface {
	// AbilityScore returns the raw score (typically 3-20) for attr.
	AbilityScore(attr Attribute) int
	// Lucky reports whether the character has the luck trait.
	Lucky() bool
}

// Request describes one roll to evaluate.
type Request struct {
	Expression   string
	Character    Character // optional; nil rolls without a sheet
	Advantage    bool
	Disadvantage bool
}

// Roller evaluates roll requests using an injected randomness Source, so
// tests and the offline tool can substitute a deterministic one.
type Roller struct {
	src Source
	now func() time.Time
}

// NewRoller returns a Roller drawing from src; a nil src selects the
// crypto-backed production source.
func NewRoller(src Source) *Roller {
	if src == nil {
		src = NewCryptoSource()
	}
	return &Roller{src: src, now: time.Now}
}

// roll returns one uniform die result in [1, sides].
func (r *Roller) roll(sides int) int {
	return r.src.Intn(sides) + 1
}

// Roll evaluates req.
//
// The expression is parsed before any randomness is consumed; invalid
// input is rejected with an error wrapping ErrInvalidExpression and
// nothing else happens. Advantage and disadvantage only apply to a single
// d20 (count 1, sides 20): two dice are rolled, the higher (advantage) or
// lower (disadvantage) is kept as the one roll entry, and Details records
// both raws. On any other expression the flags are ignored. When both
// flags are set advantage wins.
//
// Modifiers are applied in a fixed order: the flat "Modifier" when
// non-zero, then "<ATTR> Bonus" when the expression names an attribute
// and a character is supplied, then "Luck Bonus" +1 whenever the supplied
// character is lucky.
//
// Precondition: req.Character may be nil.
// Postcondition: every die result lies in [1, sides]; Total equals the
// sum of roll results plus the sum of modifier values.
func (r *Roller) Roll(req Request) (Result, error) {
	expr, err := Parse(req.Expression)
	if err != nil {
		return Result{}, err
	}

	res := Result{Expression: req.Expression, RolledAt: r.now()}
	var trace strings.Builder

	advantage := req.Advantage
	disadvantage := req.Disadvantage && !req.Advantage

	if expr.Count == 1 && expr.Sides == 20 && (advantage || disadvantage) {
		first, second := r.roll(20), r.roll(20)
		kept, tag := max(first, second), "(Advantage) "
		if disadvantage {
			kept, tag = min(first, second), "(Disadvantage) "
		}
		res.Rolls = []Die{newDie(20, kept)}
		fmt.Fprintf(&trace, "%s1d20 → %d (%d, %d)", tag, kept, first, second)
	} else {
		res.Rolls = make([]Die, 0, expr.Count)
		for i := 0; i < expr.Count; i++ {
			res.Rolls = append(res.Rolls, newDie(expr.Sides, r.roll(expr.Sides)))
		}
		fmt.Fprintf(&trace, "%dd%d → ", expr.Count, expr.Sides)
		if len(res.Rolls) == 1 {
			fmt.Fprintf(&trace, "%d", res.Rolls[0].Result)
		} else {
			parts := make([]string, len(res.Rolls))
			for i, d := range res.Rolls {
				parts[i] = fmt.Sprintf("%d", d.Result)
			}
			fmt.Fprintf(&trace, "[%s]", strings.Join(parts, ", "))
		}
	}

	if expr.Modifier != 0 {
		res.Modifiers = append(res.Modifiers, Modifier{Name: "Modifier", Value: expr.Modifier})
	}
	if expr.HasAttribute() && req.Character != nil {
		res.Modifiers = append(res.Modifiers, Modifier{
			Name:  expr.Attribute.Abbrev() + " Bonus",
			Value: AbilityModifier(req.Character.AbilityScore(expr.Attribute)),
		})
	}
	if req.Character != nil && req.Character.Lucky() {
		res.Modifiers = append(res.Modifiers, Modifier{Name: "Luck Bonus", Value: 1})
	}

	for _, d := range res.Rolls {
		res.Total += d.Result
	}
	for _, m := range res.Modifiers {
		res.Total += m.Value
		fmt.Fprintf(&trace, " %+d (%s)", m.Value, m.Name)
	}

	res.Details = trace.String()
	return res, nil
}
