package validate

import (
	"context"
	"log/slog"

	"github.com/ardnew/brickc/block"
	"github.com/ardnew/brickc/codegen"
	"github.com/ardnew/brickc/log"
)

// Warnings set on nodes that break a rule.
const (
	WarnExtraMain     = "only one main task is allowed"
	WarnNameRequired  = "name required"
	WarnDuplicateName = "duplicate name"
)

// Finding is a node flagged by the last check.
type Finding struct {
	ID      block.ID
	Kind    block.Kind
	Warning string
}

func (f Finding) String() string {
	return f.ID.String() + " " + string(f.Kind) + ": " + f.Warning
}

// LogValue implements slog.LogValuer.
func (f Finding) LogValue() slog.Value {
	return slog.GroupValue(
		slog.String("node", f.ID.String()),
		slog.String("kind", string(f.Kind)),
		slog.String("warning", f.Warning),
	)
}

// Option configures a [Validator].
type Option func(Validator) Validator

// WithLogger sets the logger used for trace output.
func WithLogger(l log.Logger) Option {
	return func(v Validator) Validator {
		v.logger = l.Unit("validate")

		return v
	}
}

// Validator checks workspace rules. The zero value is ready to use.
type Validator struct {
	logger log.Logger
}

// New returns a validator configured by opts.
func New(opts ...Option) Validator {
	var v Validator

	for _, opt := range opts {
		v = opt(v)
	}

	return v
}

// Attach checks ws once, then again after every mutation other than a flag
// change. Flag changes are the validator's own output, so checks never
// recurse. The returned function stops checking.
func (v Validator) Attach(ctx context.Context, ws *block.Workspace) (detach func()) {
	v.Check(ctx, ws)

	return ws.Subscribe(func(e block.Event) {
		if e.Type == block.EventFlags {
			return
		}

		v.logger.TraceContext(ctx, "workspace changed",
			slog.String("event", e.Type.String()),
			slog.String("node", e.ID.String()),
		)

		v.Check(ctx, ws)
	})
}

// Check applies every rule to ws and returns the nodes left flagged, in
// creation order.
func (v Validator) Check(ctx context.Context, ws *block.Workspace) []Finding {
	type named struct {
		kind block.Kind
		name string
	}

	var (
		mainSeen bool
		taken    = make(map[named]bool)
		found    []Finding
	)

	for n := range ws.All() {
		var (
			warning string
			key     named
		)

		switch n.Kind() {
		case block.KindTaskMain:
			if mainSeen {
				warning = WarnExtraMain
			}

			mainSeen = true

		case block.KindTask, block.KindSub:
			key = named{n.Kind(), codegen.Sanitize(n.Field("NAME"))}

			switch {
			case key.name == "":
				warning = WarnNameRequired
			case taken[key]:
				warning = WarnDuplicateName
			}

		default:
			continue
		}

		// Only enabled nodes claim a name.
		if !v.flag(ctx, ws, n, warning) && key.name != "" {
			taken[key] = true
		}

		if warning != "" {
			found = append(found, Finding{ID: n.ID(), Kind: n.Kind(), Warning: warning})
		}
	}

	return found
}

// flag sets or clears the warning of n and reports whether n is disabled
// afterwards. Clearing re-enables n only if the validator disabled it.
func (v Validator) flag(
	ctx context.Context,
	ws *block.Workspace,
	n *block.Node,
	warning string,
) (disabled bool) {
	disabled = warning != "" || (n.Disabled() && n.Warning() == "")

	if disabled == n.Disabled() && warning == n.Warning() {
		return disabled
	}

	if err := ws.SetFlags(n.ID(), disabled, warning); err != nil {
		v.logger.ErrorContext(ctx, "flag node",
			slog.String("node", n.ID().String()),
			slog.Any("error", err),
		)

		return n.Disabled()
	}

	v.logger.TraceContext(ctx, "flags changed",
		slog.String("node", n.ID().String()),
		slog.String("kind", string(n.Kind())),
		slog.Bool("disabled", disabled),
		slog.String("warning", warning),
	)

	return disabled
}
