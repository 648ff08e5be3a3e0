package block

import (
	"slices"
	"strconv"
	"strings"
)

// ID is a stable handle to a node in a [Workspace]. The zero ID refers to no
// node. IDs increase in creation order and are never reused.
type ID uint32

func (id ID) String() string { return "#" + strconv.FormatUint(uint64(id), 10) }

// Field is a named literal carried by a node.
type Field struct {
	Name  string
	Value string
}

// Slot binds a named socket to the node plugged into it.
type Slot struct {
	Name   string
	Target ID
}

// Node is one block. Nodes are owned by their [Workspace] and change only
// through its methods.
type Node struct {
	id       ID
	kind     Kind
	fields   []Field
	inputs   []Slot
	stmts    []Slot
	next     ID
	parent   ID
	comment  string
	disabled bool
	warning  string
}

func (n *Node) ID() ID     { return n.id }
func (n *Node) Kind() Kind { return n.kind }

// Next returns the following statement in the node's chain.
func (n *Node) Next() ID { return n.next }

// Parent returns the node holding this one in a slot or next link, or zero
// for a top-level node.
func (n *Node) Parent() ID { return n.parent }

func (n *Node) Comment() string { return n.comment }
func (n *Node) Disabled() bool  { return n.disabled }
func (n *Node) Warning() string { return n.warning }

// Spec returns the spec of the node's kind.
func (n *Node) Spec() Spec {
	s, _ := Lookup(n.kind)

	return s
}

// Field returns the value of the named field, or "" if unset.
func (n *Node) Field(name string) string {
	for _, f := range n.fields {
		if f.Name == name {
			return f.Value
		}
	}

	return ""
}

// Fields returns a copy of the node's fields in spec order.
func (n *Node) Fields() []Field { return slices.Clone(n.fields) }

// Input returns the node plugged into the named value slot.
func (n *Node) Input(name string) ID { return lookupSlot(n.inputs, name) }

// Inputs returns a copy of the bound value slots in spec order.
func (n *Node) Inputs() []Slot { return slices.Clone(n.inputs) }

// Statement returns the head of the chain in the named statement slot.
func (n *Node) Statement(name string) ID { return lookupSlot(n.stmts, name) }

// Statements returns a copy of the bound statement slots in spec order.
func (n *Node) Statements() []Slot { return slices.Clone(n.stmts) }

func lookupSlot(slots []Slot, name string) ID {
	for _, s := range slots {
		if s.Name == name {
			return s.Target
		}
	}

	return 0
}

// bind sets slot name to target in slots, keeping spec order, and returns the
// previous target.
func bind(slots []Slot, specs []SlotSpec, name string, target ID) ([]Slot, ID) {
	for i, s := range slots {
		if s.Name != name {
			continue
		}

		prev := s.Target
		if target == 0 {
			return slices.Delete(slots, i, i+1), prev
		}

		slots[i].Target = target

		return slots, prev
	}

	if target == 0 {
		return slots, 0
	}

	slots = append(slots, Slot{Name: name, Target: target})
	slices.SortStableFunc(slots, func(a, b Slot) int {
		ra, ia := slotRank(specs, a.Name)
		rb, ib := slotRank(specs, b.Name)

		if ra != rb {
			return ra - rb
		}

		return ia - ib
	})

	return slots, 0
}

// slotRank orders slots by their spec position, then by repeat index.
func slotRank(specs []SlotSpec, name string) (rank, index int) {
	for i, s := range specs {
		if !s.Match(name) {
			continue
		}

		if s.Repeated {
			index, _ = strconv.Atoi(strings.TrimPrefix(name, s.Name))
		}

		return i, index
	}

	return len(specs), 0
}

func (n *Node) setField(name, value string) (old string) {
	for i, f := range n.fields {
		if f.Name == name {
			old = f.Value
			n.fields[i].Value = value

			return old
		}
	}

	n.fields = append(n.fields, Field{Name: name, Value: value})

	spec := n.Spec()
	slices.SortStableFunc(n.fields, func(a, b Field) int {
		return slices.Index(spec.Fields, a.Name) - slices.Index(spec.Fields, b.Name)
	})

	return ""
}

// slotOf returns the name of the slot of n holding child, and whether it is
// a statement slot. It returns "" for a next link or when child is not held.
func (n *Node) slotOf(child ID) (name string, statement bool) {
	for _, s := range n.inputs {
		if s.Target == child {
			return s.Name, false
		}
	}

	for _, s := range n.stmts {
		if s.Target == child {
			return s.Name, true
		}
	}

	return "", false
}
