package block

import (
	"fmt"
	"io"
	"strings"
)

// Print writes an indented outline of w, one line per node. Chains list
// their nodes at the same depth; slot contents are nested under the slot
// name. Top-level chains are separated by a blank line.
func (w *Workspace) Print(out io.Writer) error {
	var sb strings.Builder

	for i, id := range w.TopLevel() {
		if i > 0 {
			sb.WriteByte('\n')
		}

		w.printChain(&sb, id, 0)
	}

	_, err := io.WriteString(out, sb.String())

	return err
}

func (w *Workspace) printChain(sb *strings.Builder, head ID, depth int) {
	for n := range w.Chain(head) {
		w.printNode(sb, n, depth)
	}
}

func (w *Workspace) printNode(sb *strings.Builder, n *Node, depth int) {
	pad := strings.Repeat("  ", depth)

	fmt.Fprintf(sb, "%s%s %s", pad, n.id, n.kind)

	for _, f := range n.fields {
		fmt.Fprintf(sb, " %s=%q", f.Name, f.Value)
	}

	if n.disabled {
		sb.WriteString(" [disabled]")
	}

	if n.warning != "" {
		fmt.Fprintf(sb, " [warning: %s]", n.warning)
	}

	sb.WriteByte('\n')

	for _, line := range strings.Split(n.comment, "\n") {
		if line != "" {
			fmt.Fprintf(sb, "%s  // %s\n", pad, line)
		}
	}

	for _, s := range n.inputs {
		fmt.Fprintf(sb, "%s  %s:\n", pad, s.Name)
		w.printNode(sb, w.Node(s.Target), depth+2)
	}

	for _, s := range n.stmts {
		fmt.Fprintf(sb, "%s  %s:\n", pad, s.Name)
		w.printChain(sb, s.Target, depth+2)
	}
}
