package block

import (
	"iter"
	"log/slog"
)

// Workspace is an arena of nodes and the connections between them.
//
// A Workspace is not safe for concurrent use.
type Workspace struct {
	nodes  []*Node // indexed by ID-1, nil once deleted
	subs   []subscriber
	subKey int
}

// New returns an empty workspace.
func New() *Workspace { return &Workspace{} }

// Node returns the node with the given id, or nil.
func (w *Workspace) Node(id ID) *Node {
	if id == 0 || int(id) > len(w.nodes) {
		return nil
	}

	return w.nodes[id-1]
}

// Len returns the number of live nodes.
func (w *Workspace) Len() int {
	n := 0

	for _, node := range w.nodes {
		if node != nil {
			n++
		}
	}

	return n
}

// All yields every live node in creation order.
func (w *Workspace) All() iter.Seq[*Node] {
	return func(yield func(*Node) bool) {
		for _, n := range w.nodes {
			if n != nil && !yield(n) {
				return
			}
		}
	}
}

// TopLevel returns the nodes not held by any other node, in creation order.
func (w *Workspace) TopLevel() []ID {
	var out []ID

	for n := range w.All() {
		if n.parent == 0 {
			out = append(out, n.id)
		}
	}

	return out
}

// Chain yields head and every node reached from it through next links.
func (w *Workspace) Chain(head ID) iter.Seq[*Node] {
	return func(yield func(*Node) bool) {
		for n := w.Node(head); n != nil; n = w.Node(n.next) {
			if !yield(n) {
				return
			}
		}
	}
}

// Tail returns the last node of the chain starting at head.
func (w *Workspace) Tail(head ID) ID {
	tail := head

	for n := range w.Chain(head) {
		tail = n.id
	}

	return tail
}

// Create adds a new top-level node of the given kind.
func (w *Workspace) Create(kind Kind) (ID, error) {
	if _, ok := Lookup(kind); !ok {
		return 0, ErrUnknownKind.Wrap(DidYouMean(string(kind), kindNames()))
	}

	id := ID(len(w.nodes) + 1)
	w.nodes = append(w.nodes, &Node{id: id, kind: kind})

	w.publish(Event{Type: EventCreate, ID: id, Kind: kind})

	return id, nil
}

// SetField sets a field of node id.
func (w *Workspace) SetField(id ID, name, value string) error {
	n, err := w.lookup(id)
	if err != nil {
		return err
	}

	spec := n.Spec()
	if !spec.HasField(name) {
		return ErrUnknownField.
			With(slog.String("kind", string(n.kind))).
			Wrap(DidYouMean(name, spec.Fields))
	}

	if old := n.setField(name, value); old != value {
		w.publish(Event{
			Type: EventChange, ID: id, Kind: n.kind, Name: name, Old: old, New: value,
		})
	}

	return nil
}

// SetComment sets the comment attached to node id.
func (w *Workspace) SetComment(id ID, text string) error {
	n, err := w.lookup(id)
	if err != nil {
		return err
	}

	if old := n.comment; old != text {
		n.comment = text
		w.publish(Event{
			Type: EventChange, ID: id, Kind: n.kind, Name: "comment", Old: old, New: text,
		})
	}

	return nil
}

// SetDisabled enables or disables node id on behalf of the user.
func (w *Workspace) SetDisabled(id ID, disabled bool) error {
	n, err := w.lookup(id)
	if err != nil {
		return err
	}

	if n.disabled != disabled {
		n.disabled = disabled
		w.publish(Event{
			Type: EventChange, ID: id, Kind: n.kind, Name: "disabled",
			Old: boolString(!disabled), New: boolString(disabled),
		})
	}

	return nil
}

// SetFlags sets the disabled flag and warning text of node id on behalf of a
// rule checker. It publishes [EventFlags], which rule checkers ignore.
func (w *Workspace) SetFlags(id ID, disabled bool, warning string) error {
	n, err := w.lookup(id)
	if err != nil {
		return err
	}

	if n.disabled == disabled && n.warning == warning {
		return nil
	}

	old := n.warning
	n.disabled, n.warning = disabled, warning

	w.publish(Event{
		Type: EventFlags, ID: id, Kind: n.kind, Name: "warning", Old: old, New: warning,
	})

	return nil
}

// Connect plugs the top-level node child into the named slot of parent. A
// node already in the slot is disconnected and becomes top-level.
//
// Value slots and statement slots are both addressed by name. Roles are not
// checked here; the code generator rejects a node in a slot of the wrong role.
func (w *Workspace) Connect(parent ID, slot string, child ID) error {
	p, err := w.lookup(parent)
	if err != nil {
		return err
	}

	c, err := w.lookup(child)
	if err != nil {
		return err
	}

	if c.parent != 0 {
		return ErrAttached.With(slog.String("node", child.String()))
	}

	if w.reaches(child, parent) {
		return ErrCycle.With(
			slog.String("parent", parent.String()),
			slog.String("child", child.String()),
		)
	}

	spec := p.Spec()

	var bumped ID

	switch {
	case matchAny(spec.Inputs, slot):
		p.inputs, bumped = bind(p.inputs, spec.Inputs, slot, child)

	case matchAny(spec.Statements, slot):
		p.stmts, bumped = bind(p.stmts, spec.Statements, slot, child)

	default:
		return ErrUnknownSlot.
			With(slog.String("kind", string(p.kind))).
			Wrap(DidYouMean(slot, append(slotNames(spec.Inputs), slotNames(spec.Statements)...)))
	}

	c.parent = parent

	if b := w.Node(bumped); b != nil {
		b.parent = 0
		w.publish(Event{Type: EventMove, ID: bumped, Kind: b.kind, Name: slot})
	}

	w.publish(Event{Type: EventMove, ID: child, Kind: c.kind, Name: slot})

	return nil
}

// Append links the top-level chain headed by next after prev. Whatever
// followed prev is moved to the end of the inserted chain. Subprogram blocks
// have no place in a chain, so neither prev nor next may be one.
func (w *Workspace) Append(prev, next ID) error {
	p, err := w.lookup(prev)
	if err != nil {
		return err
	}

	n, err := w.lookup(next)
	if err != nil {
		return err
	}

	for _, e := range []*Node{p, n} {
		if e.kind.IsRoot() {
			return ErrRootChain.With(
				slog.String("node", e.id.String()),
				slog.String("kind", string(e.kind)),
			)
		}
	}

	if n.parent != 0 {
		return ErrAttached.With(slog.String("node", next.String()))
	}

	if w.reaches(next, prev) {
		return ErrCycle.With(
			slog.String("prev", prev.String()),
			slog.String("next", next.String()),
		)
	}

	rest := p.next
	p.next, n.parent = next, prev

	if rest != 0 {
		tail := w.Node(w.Tail(next))
		tail.next = rest
		w.nodes[rest-1].parent = tail.id
	}

	w.publish(Event{Type: EventMove, ID: next, Kind: n.kind})

	return nil
}

// Detach disconnects node id from its parent. The node keeps its own
// subtree and the chain following it, and becomes top-level.
func (w *Workspace) Detach(id ID) error {
	n, err := w.lookup(id)
	if err != nil {
		return err
	}

	if n.parent == 0 {
		return nil
	}

	slot := w.unlink(n, 0)

	w.publish(Event{Type: EventMove, ID: id, Kind: n.kind, Name: slot})

	return nil
}

// Delete removes node id together with every node held in its slots. The
// chain following id closes the gap it leaves.
func (w *Workspace) Delete(id ID) error {
	n, err := w.lookup(id)
	if err != nil {
		return err
	}

	heal := n.next
	n.next = 0

	if h := w.Node(heal); h != nil {
		h.parent = 0
	}

	if n.parent != 0 {
		w.unlink(n, heal)
	}

	var doomed []*Node

	w.collect(n, &doomed)

	for _, d := range doomed {
		w.nodes[d.id-1] = nil
	}

	for _, d := range doomed {
		w.publish(Event{Type: EventDelete, ID: d.id, Kind: d.kind})
	}

	if h := w.Node(heal); h != nil {
		w.publish(Event{Type: EventMove, ID: heal, Kind: h.kind})
	}

	return nil
}

// collect appends n and every node reachable through its slots and, for
// nodes below n, their next links.
func (w *Workspace) collect(n *Node, out *[]*Node) {
	*out = append(*out, n)

	for _, s := range append(n.Inputs(), n.stmts...) {
		for c := range w.Chain(s.Target) {
			w.collect(c, out)
		}
	}
}

// unlink removes n from its parent's slot or next link, putting replacement
// in its place, and returns the slot name. n becomes top-level.
func (w *Workspace) unlink(n *Node, replacement ID) string {
	p := w.Node(n.parent)
	n.parent = 0

	r := w.Node(replacement)

	if p.next == n.id {
		p.next = replacement
		if r != nil {
			r.parent = p.id
		}

		return ""
	}

	spec := p.Spec()

	name, statement := p.slotOf(n.id)
	if statement {
		p.stmts, _ = bind(p.stmts, spec.Statements, name, replacement)
		if r != nil {
			r.parent = p.id
		}

		return name
	}

	// A value slot holds a single node, so the replacement stays top-level.
	p.inputs, _ = bind(p.inputs, spec.Inputs, name, 0)

	return name
}

// reaches reports whether to is from or one of its ancestors.
func (w *Workspace) reaches(from, to ID) bool {
	for n := w.Node(to); n != nil; n = w.Node(n.parent) {
		if n.id == from {
			return true
		}
	}

	return false
}

// Root returns the top-level ancestor of id.
func (w *Workspace) Root(id ID) ID {
	n := w.Node(id)
	for n != nil && n.parent != 0 {
		n = w.Node(n.parent)
	}

	if n == nil {
		return 0
	}

	return n.id
}

func (w *Workspace) lookup(id ID) (*Node, error) {
	if n := w.Node(id); n != nil {
		return n, nil
	}

	return nil, ErrUnknownNode.With(slog.String("node", id.String()))
}

func matchAny(specs []SlotSpec, slot string) bool {
	_, ok := findSlot(specs, slot)

	return ok
}

func boolString(b bool) string {
	if b {
		return "true"
	}

	return "false"
}
