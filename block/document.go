package block

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"slices"
	"strconv"
	"strings"

	"github.com/goccy/go-yaml"
)

// document is the serialized form of a workspace.
type document struct {
	Blocks []*nodeDoc `json:"blocks" yaml:"blocks"`
}

// nodeDoc is the serialized form of a node and everything it holds.
type nodeDoc struct {
	Kind       string                `json:"kind"                 yaml:"kind"`
	Fields     map[string]any        `json:"fields,omitempty"     yaml:"fields,omitempty"`
	Inputs     map[string]*nodeDoc   `json:"inputs,omitempty"     yaml:"inputs,omitempty"`
	Statements map[string][]*nodeDoc `json:"statements,omitempty" yaml:"statements,omitempty"`
	Comment    string                `json:"comment,omitempty"    yaml:"comment,omitempty"`
	Disabled   bool                  `json:"disabled,omitempty"   yaml:"disabled,omitempty"`
	Next       []*nodeDoc            `json:"next,omitempty"       yaml:"next,omitempty"`
}

// Decode builds a workspace from a YAML or JSON document.
//
// Nodes are created in document order, so the top-level blocks keep the
// order in which they appear.
func Decode(data []byte) (*Workspace, error) {
	var doc document

	if err := yaml.UnmarshalWithOptions(
		data, &doc, yaml.DisallowUnknownField(),
	); err != nil {
		return nil, ErrDecode.Wrap(err)
	}

	w := New()

	for i, nd := range doc.Blocks {
		path := "blocks[" + strconv.Itoa(i) + "]"

		id, err := w.build(nd, path)
		if err != nil {
			return nil, err
		}

		if len(nd.Next) > 0 {
			if _, err := w.buildChain(nd.Next, id, path+".next"); err != nil {
				return nil, err
			}
		}
	}

	return w, nil
}

// Read decodes a workspace document from r.
func Read(r io.Reader) (*Workspace, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, ErrDecode.Wrap(err)
	}

	return Decode(data)
}

// build creates the node described by nd and its slots, ignoring nd.Next.
func (w *Workspace) build(nd *nodeDoc, path string) (ID, error) {
	if nd == nil {
		return 0, ErrDecode.With(slog.String("path", path)).
			Wrap(errors.New("empty block"))
	}

	id, err := w.Create(Kind(nd.Kind))
	if err != nil {
		return 0, ErrDecode.With(slog.String("path", path)).Wrap(err)
	}

	spec := w.Node(id).Spec()

	for _, name := range sortedKeys(nd.Fields, spec.Fields) {
		if err := w.SetField(id, name, fieldString(nd.Fields[name])); err != nil {
			return 0, ErrDecode.With(slog.String("path", path)).Wrap(err)
		}
	}

	for _, slot := range sortedSlots(nd.Inputs, spec.Inputs) {
		sub := path + ".inputs." + slot

		child, err := w.build(nd.Inputs[slot], sub)
		if err != nil {
			return 0, err
		}

		if err := w.Connect(id, slot, child); err != nil {
			return 0, ErrDecode.With(slog.String("path", sub)).Wrap(err)
		}
	}

	for _, slot := range sortedSlots(nd.Statements, spec.Statements) {
		sub := path + ".statements." + slot

		head, err := w.buildChain(nd.Statements[slot], 0, sub)
		if err != nil {
			return 0, err
		}

		if head == 0 {
			continue
		}

		if err := w.Connect(id, slot, head); err != nil {
			return 0, ErrDecode.With(slog.String("path", sub)).Wrap(err)
		}
	}

	if nd.Comment != "" {
		_ = w.SetComment(id, nd.Comment)
	}

	if nd.Disabled {
		_ = w.SetDisabled(id, true)
	}

	return id, nil
}

// buildChain creates the nodes of list, links them into one chain and, when
// after is non-zero, appends the chain to it. It returns the chain head.
func (w *Workspace) buildChain(list []*nodeDoc, after ID, path string) (ID, error) {
	head, prev := ID(0), after

	for i, nd := range list {
		sub := path + "[" + strconv.Itoa(i) + "]"

		id, err := w.build(nd, sub)
		if err != nil {
			return 0, err
		}

		if prev != 0 {
			if err := w.Append(prev, id); err != nil {
				return 0, ErrDecode.With(slog.String("path", sub)).Wrap(err)
			}
		}

		if head == 0 {
			head = id
		}

		prev = id

		// Nested next lists continue the same chain.
		if len(nd.Next) > 0 {
			tail, err := w.buildChain(nd.Next, id, sub+".next")
			if err != nil {
				return 0, err
			}

			prev = w.Tail(tail)
		}
	}

	return head, nil
}

// sortedKeys returns the keys of m, known names first in declaration order.
func sortedKeys[V any](m map[string]V, order []string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}

	slices.SortFunc(keys, func(a, b string) int {
		ia, ib := rank(order, a), rank(order, b)
		if ia != ib {
			return ia - ib
		}

		return strings.Compare(a, b)
	})

	return keys
}

func sortedSlots[V any](m map[string]V, specs []SlotSpec) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}

	slices.SortFunc(keys, func(a, b string) int {
		ra, ia := slotRank(specs, a)
		rb, ib := slotRank(specs, b)

		switch {
		case ra != rb:
			return ra - rb
		case ia != ib:
			return ia - ib
		default:
			return strings.Compare(a, b)
		}
	})

	return keys
}

func rank(order []string, s string) int {
	if i := slices.Index(order, s); i >= 0 {
		return i
	}

	return len(order)
}

// fieldString renders a decoded scalar as field text.
func fieldString(v any) string {
	switch v := v.(type) {
	case nil:
		return ""
	case string:
		return v
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	default:
		return fmt.Sprint(v)
	}
}

// fieldValue is the inverse of fieldString for values that survive the round
// trip as numbers or booleans.
func fieldValue(s string) any {
	if i, err := strconv.ParseInt(s, 10, 64); err == nil &&
		strconv.FormatInt(i, 10) == s {
		return i
	}

	if f, err := strconv.ParseFloat(s, 64); err == nil &&
		strconv.FormatFloat(f, 'f', -1, 64) == s {
		return f
	}

	switch s {
	case "true":
		return true
	case "false":
		return false
	}

	return s
}

// document returns the serialized form of w.
func (w *Workspace) document() document {
	var doc document

	for _, id := range w.TopLevel() {
		nd := w.nodeDoc(w.Node(id))

		for n := range w.Chain(w.Node(id).next) {
			nd.Next = append(nd.Next, w.nodeDoc(n))
		}

		doc.Blocks = append(doc.Blocks, nd)
	}

	return doc
}

func (w *Workspace) nodeDoc(n *Node) *nodeDoc {
	nd := &nodeDoc{
		Kind:     string(n.kind),
		Comment:  n.comment,
		Disabled: n.disabled,
	}

	for _, f := range n.fields {
		if nd.Fields == nil {
			nd.Fields = make(map[string]any, len(n.fields))
		}

		nd.Fields[f.Name] = fieldValue(f.Value)
	}

	for _, s := range n.inputs {
		if nd.Inputs == nil {
			nd.Inputs = make(map[string]*nodeDoc, len(n.inputs))
		}

		nd.Inputs[s.Name] = w.nodeDoc(w.Node(s.Target))
	}

	for _, s := range n.stmts {
		if nd.Statements == nil {
			nd.Statements = make(map[string][]*nodeDoc, len(n.stmts))
		}

		for c := range w.Chain(s.Target) {
			nd.Statements[s.Name] = append(nd.Statements[s.Name], w.nodeDoc(c))
		}
	}

	return nd
}

// EncodeJSON writes w as a JSON document. A positive indent pretty-prints
// with that many spaces per level.
func (w *Workspace) EncodeJSON(out io.Writer, indent int) error {
	var (
		data []byte
		err  error
	)

	if indent > 0 {
		data, err = json.MarshalIndent(w.document(), "", strings.Repeat(" ", indent))
	} else {
		data, err = json.Marshal(w.document())
	}

	if err != nil {
		return ErrEncode.Wrap(err)
	}

	_, err = fmt.Fprintln(out, string(data))

	return err
}

// EncodeYAML writes w as a YAML document. A positive indent sets the block
// indentation; otherwise flow style is used.
func (w *Workspace) EncodeYAML(ctx context.Context, out io.Writer, indent int) error {
	var opts []yaml.EncodeOption
	if indent > 0 {
		opts = append(opts, yaml.Indent(indent), yaml.IndentSequence(true))
	} else {
		opts = append(opts, yaml.Flow(true))
	}

	data, err := yaml.MarshalContext(ctx, w.document(), opts...)
	if err != nil {
		return ErrEncode.Wrap(err)
	}

	_, err = fmt.Fprint(out, string(data))

	return err
}
