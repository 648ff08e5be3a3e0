package codegen

import (
	"fmt"
	"log/slog"

	"github.com/ardnew/brickc/block"
)

// Diagnostic is a non-fatal finding about a node. Diagnostics never change
// the generated text.
type Diagnostic struct {
	Node    block.ID
	Kind    block.Kind
	Message string
}

func (d Diagnostic) String() string {
	if d.Node == 0 {
		return d.Message
	}

	return fmt.Sprintf("%s %s: %s", d.Node, d.Kind, d.Message)
}

// LogValue implements slog.LogValuer.
func (d Diagnostic) LogValue() slog.Value {
	return slog.GroupValue(
		slog.String("node", d.Node.String()),
		slog.String("kind", string(d.Kind)),
		slog.String("message", d.Message),
	)
}

// Diagnostic messages.
const (
	msgLooseOperand  = "operand binds looser than its context; wrap it in a group block"
	msgExtraMain     = "ignored: only one main task is allowed"
	msgNameRequired  = "ignored: name required"
	msgDuplicateName = "ignored: duplicate name"
	msgFractional    = "fractional value truncated"
	msgInvalidNumber = "invalid number, using 0"
	msgOutOfRange    = "value outside the NQC int range -32768..32767, clamped"
)
