package dice

import (
	"regexp"
	"strings"
)

// standardSizes are the die sizes offered as completions, ascending.
var standardSizes = []string{"4", "6", "8", "10", "12", "20", "100"}

// partialExpr matches input that is a prefix of the basic grammar: an
// optional count, a 'd', and an optional partial sides number.
var partialExpr = regexp.MustCompile(`^(\d*)d(\d*)$`)

const maxSuggestions = 5

// Suggest returns up to five valid dice expressions completing the
// partial input, in deterministic order with no duplicates. Empty or
// hopeless input yields nil. Every returned string satisfies
// ValidExpression.
//
// Completions come from three places: the input itself when it is
// already valid, die-size completions for a bare count or a partial
// "NdS" form, and "1d20+<attr>" hints when the input contains an ability
// abbreviation or trails off in the middle of one.
func Suggest(input string) []string {
	norm := normalize(input)
	if norm == "" {
		return nil
	}

	var out []string
	add := func(cand string) {
		if len(out) >= maxSuggestions || !ValidExpression(cand) {
			return
		}
		for _, have := range out {
			if have == cand {
				return
			}
		}
		out = append(out, cand)
	}

	add(norm)

	if isDigits(norm) {
		for _, size := range standardSizes {
			add(norm + "d" + size)
		}
	} else if m := partialExpr.FindStringSubmatch(norm); m != nil {
		count, sides := m[1], m[2]
		for _, size := range standardSizes {
			if strings.HasPrefix(size, sides) {
				add(count + "d" + size)
			}
		}
	}

	for _, attr := range Attributes() {
		if strings.Contains(norm, string(attr)) || trailsInto(norm, string(attr)) {
			add("1d20+" + string(attr))
		}
	}

	return out
}

func isDigits(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return len(s) > 0
}

// trailsInto reports whether s ends in a partial prefix of word right
// after a '+' or '-', e.g. "1d20+s" trails into "str".
func trailsInto(s, word string) bool {
	idx := strings.LastIndexAny(s, "+-")
	if idx < 0 || idx == len(s)-1 {
		return false
	}
	tail := s[idx+1:]
	return len(tail) < len(word) && strings.HasPrefix(word, tail)
}
