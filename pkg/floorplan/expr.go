package floorplan

import (
	"slices"
	"strings"

	errs "github.com/matzehuels/floorplan/pkg/errors"
)

// Token is a single element of a polish expression: either a module name
// (operand) or one of the cut operators.
type Token string

// Cut operators.
const (
	// Horizontal stacks the second operand on top of the first:
	// width = max(w1, w2), height = h1 + h2.
	Horizontal Token = "H"
	// Vertical places the second operand to the right of the first:
	// width = w1 + w2, height = max(h1, h2).
	Vertical Token = "V"
)

// IsOperator reports whether t is H or V.
func (t Token) IsOperator() bool { return t == Horizontal || t == Vertical }

// Complement swaps H and V. Operands are returned unchanged.
func (t Token) Complement() Token {
	switch t {
	case Horizontal:
		return Vertical
	case Vertical:
		return Horizontal
	}
	return t
}

// Expression is a polish expression in post-order.
type Expression []Token

// ParseExpression splits s on whitespace into tokens. It performs no
// validation; use [Validate] for that.
func ParseExpression(s string) Expression {
	fields := strings.Fields(s)
	e := make(Expression, len(fields))
	for i, f := range fields {
		e[i] = Token(f)
	}
	return e
}

// Chain builds the initial "chain" topology over names:
// n1 n2 V n3 V ... nk V. A single name yields a one-token expression.
func Chain(names []string) Expression {
	if len(names) == 0 {
		return nil
	}
	e := make(Expression, 0, 2*len(names)-1)
	e = append(e, Token(names[0]))
	for _, n := range names[1:] {
		e = append(e, Token(n), Vertical)
	}
	return e
}

// Clone returns an independent copy of e.
func (e Expression) Clone() Expression { return slices.Clone(e) }

// String joins the tokens with single spaces.
func (e Expression) String() string {
	parts := make([]string, len(e))
	for i, t := range e {
		parts[i] = string(t)
	}
	return strings.Join(parts, " ")
}

// MarshalText encodes e in its space-separated form, so expressions
// appear as plain strings in JSON and TOML.
func (e Expression) MarshalText() ([]byte, error) {
	return []byte(e.String()), nil
}

// UnmarshalText parses the space-separated form.
func (e *Expression) UnmarshalText(text []byte) error {
	*e = ParseExpression(string(text))
	return nil
}

// Operands returns the module names in expression order.
func (e Expression) Operands() []string {
	var out []string
	for _, t := range e {
		if !t.IsOperator() {
			out = append(out, string(t))
		}
	}
	return out
}

// Equal reports whether e and o hold the same tokens.
func (e Expression) Equal(o Expression) bool { return slices.Equal(e, o) }

// CheckBallotingProperty reports whether every prefix of e contains fewer
// operators than operands.
func CheckBallotingProperty(e Expression) bool {
	operands, operators := 0, 0
	for _, t := range e {
		if t.IsOperator() {
			operators++
		} else {
			operands++
		}
		if operators >= operands {
			return false
		}
	}
	return true
}

// IsSkewed reports whether no operator in e directly follows an identical
// operator.
func IsSkewed(e Expression) bool {
	for i := 1; i < len(e); i++ {
		if e[i].IsOperator() && e[i-1] == e[i] {
			return false
		}
	}
	return true
}

// Validate checks that e is a normalized polish expression: non-empty,
// balanced, balloting and skewed, with no operand repeated.
func Validate(e Expression) error {
	if len(e) == 0 {
		return errs.New(errs.ErrCodeInvalidExpression, "expression is empty")
	}

	operands := 0
	seen := make(map[Token]bool, len(e)/2+1)
	for _, t := range e {
		if t.IsOperator() {
			continue
		}
		if seen[t] {
			return errs.New(errs.ErrCodeInvalidExpression, "operand %q appears more than once", t)
		}
		seen[t] = true
		operands++
	}
	if operators := len(e) - operands; operators != operands-1 {
		return errs.New(errs.ErrCodeInvalidExpression,
			"unbalanced expression: %d operands, %d operators", operands, operators)
	}
	if !CheckBallotingProperty(e) {
		return errs.New(errs.ErrCodeInvalidExpression, "expression %q violates the balloting property", e.String())
	}
	if !IsSkewed(e) {
		return errs.New(errs.ErrCodeInvalidExpression, "expression %q has adjacent identical operators", e.String())
	}
	return nil
}
