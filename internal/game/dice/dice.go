// Package dice implements the companion's dice engine: parsing the
// [count]d<sides>[+|-modifier] grammar and its attribute form
// (2d6+str+1), evaluating rolls with advantage and disadvantage on a
// single d20, the named-modifier trace shown to players, the common-roll
// catalog, and expression suggestions for partial input.
package dice

import "time"

// Die is one rolled die inside a result. IsMax and IsMin flag natural
// extremes (Result equal to Sides, Result equal to 1) so clients can
// highlight crits without re-deriving them.
type Die struct {
	Sides  int  `json:"sides"`
	Result int  `json:"result"`
	IsMax  bool `json:"is_max"`
	IsMin  bool `json:"is_min"`
}

func newDie(sides, result int) Die {
	return Die{
		Sides:  sides,
		Result: result,
		IsMax:  result == sides,
		IsMin:  result == 1,
	}
}

// Modifier is one named contribution added after the dice, in the order
// it was applied: the flat "Modifier", an ability bonus such as
// "STR Bonus", or the "Luck Bonus".
type Modifier struct {
	Name  string `json:"name"`
	Value int    `json:"value"`
}

// Result is the outcome of evaluating a single roll request.
//
// Under advantage or disadvantage both d20s are rolled but only the kept
// die appears in Rolls; Details records the discarded raw alongside it,
// e.g. "(Advantage) 1d20 → 14 (14, 7)".
//
// Postcondition: Total == sum of roll results + sum of modifier values.
type Result struct {
	Expression string     `json:"expression"`
	Rolls      []Die      `json:"rolls"`
	Modifiers  []Modifier `json:"modifiers,omitempty"`
	Total      int        `json:"total"`
	Details    string     `json:"details"`
	RolledAt   time.Time  `json:"rolled_at"`
}

// Source is the randomness provider for dice rolls.
//
// Implementations MUST be safe for concurrent use.
type Source interface {
	// Intn returns a non-negative random int in [0, n).
	//
	// Precondition: n > 0.
	Intn(n int) int
}
