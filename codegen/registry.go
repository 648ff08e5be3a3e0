package codegen

import (
	"github.com/ardnew/brickc/block"
)

type (
	exprFunc   func(e *emitter, n *block.Node) (string, Precedence, error)
	stmtFunc   func(e *emitter, n *block.Node) (string, error)
	headerFunc func(e *emitter, n *block.Node) (string, error)
)

// Definition binds a node kind to its rendering rule. Value kinds render as
// expressions, statement kinds as lines, and root kinds as a subprogram
// header around their body.
type Definition struct {
	Kind block.Kind

	expr   exprFunc
	stmt   stmtFunc
	header headerFunc
}

// Role returns the role the definition renders.
func (d Definition) Role() block.Role {
	switch {
	case d.header != nil:
		return block.RoleRoot
	case d.stmt != nil:
		return block.RoleStatement
	case d.expr != nil:
		return block.RoleValue
	default:
		return 0
	}
}

// Registry maps node kinds to definitions.
type Registry map[block.Kind]Definition

// Lookup returns the definition of kind.
func (r Registry) Lookup(kind block.Kind) (Definition, bool) {
	d, ok := r[kind]

	return d, ok
}

func (r Registry) names() []string {
	out := make([]string, 0, len(r))
	for k := range r {
		out = append(out, string(k))
	}

	return out
}

func (r Registry) add(defs ...Definition) Registry {
	for _, d := range defs {
		r[d.Kind] = d
	}

	return r
}

// DefaultRegistry returns the definitions of every built-in kind.
func DefaultRegistry() Registry {
	r := make(Registry, len(block.Kinds()))

	return r.add(rootRules()...).add(statementRules()...).add(valueRules()...)
}
