package codegen

import (
	"log/slog"
	"strconv"
	"strings"

	"github.com/ardnew/brickc/block"
)

// emitter renders nodes for one pass over one scope. A dry emitter renders
// the same text but only to discover names; its diagnostics are dropped.
type emitter struct {
	run *run
	dry bool

	// free is set while rendering the top level of a loose chain, where a
	// value block may stand as an expression statement.
	free bool
}

func (e *emitter) definition(n *block.Node) (Definition, error) {
	def, ok := e.run.gen.registry.Lookup(n.Kind())
	if !ok {
		return Definition{}, ErrUnrenderable.With(
			slog.String("node", n.ID().String()),
			slog.String("kind", string(n.Kind())),
		).Wrap(block.DidYouMean(string(n.Kind()), e.run.gen.registry.names()))
	}

	return def, nil
}

func (e *emitter) diagnose(n *block.Node, msg string) {
	if !e.dry {
		e.run.diagnose(n, msg)
	}
}

// chain renders the statements linked from head. Disabled statements are
// skipped and the chain continues after them.
func (e *emitter) chain(head block.ID) (string, error) {
	var sb strings.Builder

	for n := range e.run.ws.Chain(head) {
		if n.Disabled() {
			e.run.logger.TraceContext(e.run.ctx, "skip disabled",
				slog.String("node", n.ID().String()),
				slog.String("kind", string(n.Kind())),
			)

			continue
		}

		text, err := e.statement(n)
		if err != nil {
			return "", err
		}

		sb.WriteString(text)
	}

	return sb.String(), nil
}

// statement renders one chain member, preceded by its comments.
func (e *emitter) statement(n *block.Node) (string, error) {
	def, err := e.definition(n)
	if err != nil {
		return "", err
	}

	var text string

	switch {
	case def.stmt != nil:
		text, err = def.stmt(e, n)

	case def.expr != nil && e.free:
		text, _, err = e.value(n)
		text += ";\n"

	default:
		err = roleError(n, block.RoleStatement)
	}

	if err != nil {
		return "", err
	}

	return e.comments(n) + text, nil
}

// comments renders the comment of n and of every enabled node in its value
// sub-graph as line comments. Statement slots carry their own comments.
func (e *emitter) comments(n *block.Node) string {
	var sb strings.Builder

	var visit func(*block.Node)

	visit = func(m *block.Node) {
		for _, line := range strings.Split(m.Comment(), "\n") {
			if line = strings.TrimSpace(line); line != "" {
				sb.WriteString("// " + line + "\n")
			}
		}

		for _, s := range m.Inputs() {
			if c := e.run.ws.Node(s.Target); c != nil && !c.Disabled() {
				visit(c)
			}
		}
	}

	visit(n)

	return sb.String()
}

// body renders the statement slot of n as a braced, indented block.
func (e *emitter) body(n *block.Node, slot string) (string, error) {
	free := e.free
	e.free = false

	defer func() { e.free = free }()

	inner, err := e.chain(n.Statement(slot))
	if err != nil {
		return "", err
	}

	return "{\n" + e.run.gen.indentText(inner) + "}\n", nil
}

// counter returns the auxiliary loop counter of n in the open scope. The
// dry pass only reserves it.
func (e *emitter) counter(n *block.Node) string {
	s := e.run.tracker.Current()
	if s == nil {
		return auxBase
	}

	if e.dry {
		s.deferAux(n.ID())

		return auxBase
	}

	name, ok := s.auxName(n.ID())
	if !ok {
		s.deferAux(n.ID())
		s.allocate()
		name, _ = s.auxName(n.ID())
	}

	return name
}

// plainBound reports whether text can stand as a repeat bound as is.
func plainBound(text string) bool {
	if identPattern.MatchString(text) {
		return true
	}

	_, err := strconv.ParseUint(text, 10, 64)

	return err == nil
}

// segments returns the number of condition/body pairs of an if node.
func segments(n *block.Node) int {
	count := 1

	scan := func(slots []block.Slot, prefix string) {
		for _, s := range slots {
			idx, ok := strings.CutPrefix(s.Name, prefix)
			if !ok {
				continue
			}

			if i, err := strconv.Atoi(idx); err == nil && i+1 > count {
				count = i + 1
			}
		}
	}

	scan(n.Inputs(), "IF")
	scan(n.Statements(), "DO")

	return count
}

func (g *Generator) indentText(text string) string {
	if text == "" {
		return ""
	}

	unit := strings.Repeat(" ", g.indent)
	lines := strings.SplitAfter(text, "\n")

	var sb strings.Builder

	for _, line := range lines {
		if line != "" && line != "\n" {
			sb.WriteString(unit)
		}

		sb.WriteString(line)
	}

	return sb.String()
}
