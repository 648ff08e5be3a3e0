package codegen

import (
	"errors"
	"fmt"
	"log/slog"
	"maps"
	"math"
	"slices"
	"strconv"
	"strings"

	"github.com/ardnew/brickc/block"
)

// expr renders the value slot of parent. An empty slot, or one holding a
// disabled node, yields the default literal of the slot type. A result
// looser than required is reported as a diagnostic, never parenthesized.
func (e *emitter) expr(
	parent *block.Node,
	slot string,
	required Precedence,
) (string, Precedence, error) {
	n := e.run.ws.Node(parent.Input(slot))
	if n == nil || n.Disabled() {
		return defaultLiteral(parent, slot), PrecAtomic, nil
	}

	text, prec, err := e.value(n)
	if err != nil {
		return "", PrecNone, err
	}

	if prec.Looser(required) {
		e.diagnose(n, msgLooseOperand)
	}

	return text, prec, nil
}

// value renders the value node n.
func (e *emitter) value(n *block.Node) (string, Precedence, error) {
	def, err := e.definition(n)
	if err != nil {
		return "", PrecNone, err
	}

	if def.expr == nil {
		return "", PrecNone, roleError(n, block.RoleValue)
	}

	text, prec, err := def.expr(e, n)
	if err != nil {
		return "", PrecNone, err
	}

	e.run.logger.TraceContext(e.run.ctx, "expression",
		slog.String("node", n.ID().String()),
		slog.String("kind", string(n.Kind())),
		slog.String("prec", prec.String()),
	)

	return text, prec, nil
}

func defaultLiteral(parent *block.Node, slot string) string {
	if s, ok := parent.Spec().Input(slot); ok && s.Type == block.TypeBoolean {
		return "false"
	}

	return "0"
}

// binaryOp is a rendered infix operator.
type binaryOp struct {
	token string
	prec  Precedence
}

// binary renders "A op B" where op is selected by the OP field of n.
func (e *emitter) binary(
	n *block.Node,
	ops map[string]binaryOp,
) (string, Precedence, error) {
	op, ok := ops[strings.ToUpper(n.Field("OP"))]
	if !ok {
		return "", PrecNone, fieldError(n, "OP", keys(ops))
	}

	left, _, err := e.expr(n, "A", op.prec)
	if err != nil {
		return "", PrecNone, err
	}

	right, _, err := e.expr(n, "B", op.prec)
	if err != nil {
		return "", PrecNone, err
	}

	return left + " " + op.token + " " + right, op.prec, nil
}

// call renders name(args...) with each argument taken from a value slot.
func (e *emitter) call(
	n *block.Node,
	name string,
	slots ...string,
) (string, Precedence, error) {
	args := make([]string, len(slots))

	for i, slot := range slots {
		text, _, err := e.expr(n, slot, PrecAssignment)
		if err != nil {
			return "", PrecNone, err
		}

		args[i] = text
	}

	return name + "(" + strings.Join(args, ", ") + ")", PrecAtomic, nil
}

// number renders the NUM field of n as an integer literal. NQC has no
// fractions and 16-bit ints, so fractional values are truncated and values
// outside [MinInt, MaxInt] are clamped, each with a diagnostic.
func (e *emitter) number(n *block.Node) (string, Precedence, error) {
	raw := strings.TrimSpace(n.Field("NUM"))
	if raw == "" {
		return "0", PrecAtomic, nil
	}

	f, err := strconv.ParseFloat(raw, 64)

	switch {
	case errors.Is(err, strconv.ErrRange):
		// Too large for a float64; clamped below.

	case err != nil, math.IsInf(f, 0), math.IsNaN(f):
		e.diagnose(n, msgInvalidNumber)

		return "0", PrecAtomic, nil

	case f != math.Trunc(f):
		e.diagnose(n, msgFractional)
	}

	i, clamped := clampInt(f)
	if clamped {
		e.diagnose(n, msgOutOfRange)
	}

	return literal(i)
}

// NQC ints are 16 bits wide.
const (
	MinInt = math.MinInt16
	MaxInt = math.MaxInt16
)

// clampInt truncates f toward zero and limits it to [MinInt, MaxInt],
// reporting whether the limit applied.
func clampInt(f float64) (int64, bool) {
	switch {
	case f < MinInt:
		return MinInt, true
	case f > MaxInt:
		return MaxInt, true
	default:
		return int64(f), false
	}
}

func literal(i int64) (string, Precedence, error) {
	if i < 0 {
		return strconv.FormatInt(i, 10), PrecUnaryPrefix, nil
	}

	return strconv.FormatInt(i, 10), PrecAtomic, nil
}

// variable resolves the VAR field of n and registers it with the open scope.
func (e *emitter) variable(n *block.Node) (string, error) {
	name, err := identifier(e.run.gen.policy, n, "VAR", false)
	if err != nil {
		return "", err
	}

	if name == "" {
		return "", ErrUnrenderable.With(
			slog.String("node", n.ID().String()),
			slog.String("kind", string(n.Kind())),
		).Wrap(errors.New("variable name required"))
	}

	raw := strings.TrimSpace(n.Field("VAR"))

	return e.run.tracker.Bind(raw, name, e.run.gen.policy == ReservedRename)
}

// not renders the logical negation of the BOOL slot of n. The operand is
// wrapped in parentheses when it binds looser than a prefix operator, since
// the block negates its whole operand.
func (e *emitter) not(n *block.Node) (string, Precedence, error) {
	text, prec, err := e.expr(n, "BOOL", PrecNone)
	if err != nil {
		return "", PrecNone, err
	}

	if prec.Looser(PrecUnaryPrefix) {
		return "!(" + text + ")", PrecUnaryPrefix, nil
	}

	return "!" + text, PrecUnaryPrefix, nil
}

// negate renders the arithmetic negation of the NUM slot of n.
func (e *emitter) negate(n *block.Node) (string, Precedence, error) {
	text, _, err := e.expr(n, "NUM", PrecUnaryPrefix)
	if err != nil {
		return "", PrecNone, err
	}

	// Keep "- -1" from lexing as a decrement.
	if strings.HasPrefix(text, "-") {
		return "- " + text, PrecUnaryPrefix, nil
	}

	return "-" + text, PrecUnaryPrefix, nil
}

func roleError(n *block.Node, want block.Role) error {
	return ErrUnrenderable.With(
		slog.String("node", n.ID().String()),
		slog.String("kind", string(n.Kind())),
	).Wrap(fmt.Errorf("%s block used where a %s is expected", n.Spec().Role, want))
}

func fieldError(n *block.Node, field string, valid []string) error {
	return ErrUnrenderable.With(
		slog.String("node", n.ID().String()),
		slog.String("kind", string(n.Kind())),
		slog.String("field", field),
	).Wrap(block.DidYouMean(n.Field(field), valid))
}

func keys[V any](m map[string]V) []string {
	return slices.Sorted(maps.Keys(m))
}
