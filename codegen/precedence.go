package codegen

import "strconv"

// Precedence is the binding class of a rendered expression. Lower values
// bind tighter.
type Precedence uint8

const (
	PrecAtomic Precedence = iota
	PrecUnaryPostfix
	PrecUnaryPrefix
	PrecMultiplicative
	PrecAdditive
	PrecShift
	PrecRelational
	PrecEquality
	PrecBitwiseAnd
	PrecBitwiseXor
	PrecBitwiseOr
	PrecLogicalAnd
	PrecLogicalOr
	PrecConditional
	PrecAssignment
	PrecNone
)

//nolint:gochecknoglobals
var precName = [...]string{
	PrecAtomic:         "atomic",
	PrecUnaryPostfix:   "unary-postfix",
	PrecUnaryPrefix:    "unary-prefix",
	PrecMultiplicative: "multiplicative",
	PrecAdditive:       "additive",
	PrecShift:          "shift",
	PrecRelational:     "relational",
	PrecEquality:       "equality",
	PrecBitwiseAnd:     "bitwise-and",
	PrecBitwiseXor:     "bitwise-xor",
	PrecBitwiseOr:      "bitwise-or",
	PrecLogicalAnd:     "logical-and",
	PrecLogicalOr:      "logical-or",
	PrecConditional:    "conditional",
	PrecAssignment:     "assignment",
	PrecNone:           "none",
}

func (p Precedence) String() string {
	if int(p) < len(precName) {
		return precName[p]
	}

	return "precedence(" + strconv.Itoa(int(p)) + ")"
}

// Looser reports whether p binds less tightly than q.
func (p Precedence) Looser(q Precedence) bool { return p > q }
