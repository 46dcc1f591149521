package dice

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"unicode"
)

// ErrInvalidExpression is returned by Parse for any input that does not
// match the dice grammar or violates the count/sides bounds. Callers test
// with errors.Is; the wrapped message carries the specific reason.
var ErrInvalidExpression = fmt.Errorf("dice: invalid expression")

// Bounds enforced by Parse. Out-of-range values are rejected, never
// clamped.
const (
	MinCount = 1
	MaxCount = 100
	MinSides = 1
	MaxSides = 1000
)

var (
	// basic form: [count]d<sides>[+|-modifier]
	basicExpr = regexp.MustCompile(`^(\d*)d(\d+)([+-]\d+)?$`)
	// attribute form: [count]d<sides>[+|-attr][+|-modifier]
	attrExpr = regexp.MustCompile(`^(\d*)d(\d+)[+-](str|dex|con|int|wis|cha)([+-]\d+)?$`)
)

// Expression is a parsed dice expression ready to be rolled.
//
// Postcondition of a successful Parse: MinCount <= Count <= MaxCount and
// MinSides <= Sides <= MaxSides; Attribute is AttributeNone when the
// expression has no attribute term; Modifier is 0 when omitted.
type Expression struct {
	Raw       string    // input as the caller wrote it
	Count     int       // number of dice
	Sides     int       // faces per die
	Attribute Attribute // ability referenced by the attribute form
	Modifier  int       // flat modifier (may be negative)
}

// HasAttribute reports whether the expression carries an attribute term.
func (e Expression) HasAttribute() bool {
	return e.Attribute != AttributeNone
}

// String renders the canonical normalized form, e.g. "2d6+str+1".
func (e Expression) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%dd%d", e.Count, e.Sides)
	if e.HasAttribute() {
		b.WriteByte('+')
		b.WriteString(string(e.Attribute))
	}
	if e.Modifier != 0 {
		fmt.Fprintf(&b, "%+d", e.Modifier)
	}
	return b.String()
}

// normalize lowercases text and strips every whitespace rune, so
// " 2 D 6 + 1 " and "2d6+1" parse identically.
func normalize(text string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return -1
		}
		return unicode.ToLower(r)
	}, text)
}

// Parse parses a dice expression string into an Expression.
//
// Supported forms: "d20", "2d6", "2d6+3", "4d8-2", "1d20+str",
// "2d6+dex-1". Matching is case-insensitive and ignores whitespace. A
// sign written before the attribute is accepted but does not flip the
// bonus; attribute bonuses always apply with their own sign, which is how
// the tabletop client has always behaved.
//
// Precondition: none; any string is safe to pass.
// Postcondition: on failure the error wraps ErrInvalidExpression and the
// returned Expression is the zero value. Parse never panics.
func Parse(text string) (Expression, error) {
	norm := normalize(text)
	if norm == "" {
		return Expression{}, fmt.Errorf("%w: empty input", ErrInvalidExpression)
	}
	if m := basicExpr.FindStringSubmatch(norm); m != nil {
		return newExpression(text, m[1], m[2], AttributeNone, m[3])
	}
	if m := attrExpr.FindStringSubmatch(norm); m != nil {
		return newExpression(text, m[1], m[2], Attribute(m[3]), m[4])
	}
	return Expression{}, fmt.Errorf("%w: %q does not match [count]d<sides>[+|-attr][+|-modifier]", ErrInvalidExpression, text)
}

func newExpression(raw, countStr, sidesStr string, attr Attribute, modStr string) (Expression, error) {
	expr := Expression{Raw: raw, Count: 1, Attribute: attr}

	if countStr != "" {
		count, err := strconv.Atoi(countStr)
		if err != nil {
			return Expression{}, fmt.Errorf("%w: die count %q", ErrInvalidExpression, countStr)
		}
		expr.Count = count
	}
	if expr.Count < MinCount || expr.Count > MaxCount {
		return Expression{}, fmt.Errorf("%w: die count %d out of range [%d, %d]", ErrInvalidExpression, expr.Count, MinCount, MaxCount)
	}

	sides, err := strconv.Atoi(sidesStr)
	if err != nil {
		return Expression{}, fmt.Errorf("%w: die sides %q", ErrInvalidExpression, sidesStr)
	}
	if sides < MinSides || sides > MaxSides {
		return Expression{}, fmt.Errorf("%w: die sides %d out of range [%d, %d]", ErrInvalidExpression, sides, MinSides, MaxSides)
	}
	expr.Sides = sides

	if modStr != "" {
		mod, err := strconv.Atoi(modStr)
		if err != nil {
			return Expression{}, fmt.Errorf("%w: modifier %q", ErrInvalidExpression, modStr)
		}
		expr.Modifier = mod
	}

	return expr, nil
}

// MustParse parses text and panics on failure. Intended for fixed
// expressions known valid at compile time.
func MustParse(text string) Expression {
	expr, err := Parse(text)
	if err != nil {
		panic(err)
	}
	return expr
}

// ValidExpression reports whether text parses as a dice expression. It is
// the cheap pre-flight check clients call while the player is typing.
func ValidExpression(text string) bool {
	_, err := Parse(text)
	return err == nil
}
