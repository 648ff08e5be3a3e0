package codegen

import (
	"errors"
	"math"
	"regexp"
	"strconv"
	"strings"
	"sync"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"

	"github.com/ardnew/brickc/block"
)

// Unit scales applied to slots given in seconds; NQC counts in 10 ms ticks.
const (
	TicksPerSecond = 100
)

var numericLiteral = regexp.MustCompile(`^-?[0-9]+(\.[0-9]+)?$`)

type scaleEnv struct {
	Value  float64 `expr:"value"`
	Factor float64 `expr:"factor"`
}

//nolint:gochecknoglobals
var scaleProgram = sync.OnceValues(func() (*vm.Program, error) {
	return expr.Compile(
		"round(value * factor)",
		expr.Env(scaleEnv{}),
		expr.AsFloat64(),
	)
})

// foldScale multiplies a numeric literal by factor at generation time and
// limits the result to the NQC int range. ok is false when text is not a
// numeric literal; clamped reports that the limit applied.
func foldScale(text string, factor int) (out string, clamped, ok bool) {
	if !numericLiteral.MatchString(text) {
		return "", false, false
	}

	v, err := strconv.ParseFloat(text, 64)
	if err != nil && !errors.Is(err, strconv.ErrRange) {
		return "", false, false
	}

	prog, err := scaleProgram()
	if err != nil {
		return "", false, false
	}

	res, err := vm.Run(prog, scaleEnv{Value: v, Factor: float64(factor)})
	if err != nil {
		return "", false, false
	}

	f, isFloat := res.(float64)
	if !isFloat || math.IsNaN(f) {
		return "", false, false
	}

	i, clamped := clampInt(f)

	return strconv.FormatInt(i, 10), clamped, true
}

// scaled renders the value slot of a node multiplied by factor. Literal
// operands fold to a single integer. Other operands are multiplied in the
// output and parenthesized when they bind looser than the multiplication.
func (e *emitter) scaled(
	parent *block.Node,
	slot string,
	factor int,
) (string, Precedence, error) {
	// Fold from the raw field so fractional seconds survive.
	if n := e.run.ws.Node(parent.Input(slot)); n != nil &&
		!n.Disabled() && n.Kind() == block.KindNumber {
		if folded, clamped, ok := foldScale(strings.TrimSpace(n.Field("NUM")), factor); ok {
			if clamped {
				e.diagnose(n, msgOutOfRange)
			}

			text, prec := literalPrec(folded)

			return text, prec, nil
		}
	}

	text, prec, err := e.expr(parent, slot, PrecNone)
	if err != nil {
		return "", PrecNone, err
	}

	if folded, clamped, ok := foldScale(text, factor); ok {
		if clamped {
			e.diagnose(parent, msgOutOfRange)
		}

		text, prec := literalPrec(folded)

		return text, prec, nil
	}

	if prec.Looser(PrecMultiplicative) {
		text = "(" + text + ")"
	}

	return text + " * " + strconv.Itoa(factor), PrecMultiplicative, nil
}

func literalPrec(text string) (string, Precedence) {
	if strings.HasPrefix(text, "-") {
		return text, PrecUnaryPrefix
	}

	return text, PrecAtomic
}
