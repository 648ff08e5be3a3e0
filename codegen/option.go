package codegen

import (
	"github.com/ardnew/brickc/log"
)

// Option configures a [Generator].
type Option func(Generator) Generator

// DefaultIndent is the number of spaces per nesting level.
const DefaultIndent = 2

// WithLogger sets the logger used for trace output. The zero logger is
// silent.
func WithLogger(l log.Logger) Option {
	return func(g Generator) Generator {
		g.logger = l

		return g
	}
}

// WithIndent sets the number of spaces per nesting level. Values below one
// are ignored.
func WithIndent(n int) Option {
	return func(g Generator) Generator {
		if n > 0 {
			g.indent = n
		}

		return g
	}
}

// WithHeader sets text emitted as line comments above the program.
func WithHeader(text string) Option {
	return func(g Generator) Generator {
		g.header = text

		return g
	}
}

// WithReservedPolicy selects how names colliding with NQC reserved words are
// handled.
func WithReservedPolicy(p ReservedPolicy) Option {
	return func(g Generator) Generator {
		g.policy = p

		return g
	}
}

// WithRegistry replaces the kind definitions.
func WithRegistry(r Registry) Option {
	return func(g Generator) Generator {
		if r != nil {
			g.registry = r
		}

		return g
	}
}
