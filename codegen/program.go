package codegen

import (
	"context"
	"log/slog"
	"strings"

	"github.com/ardnew/brickc/block"
	"github.com/ardnew/brickc/log"
)

// Generator renders workspaces as NQC programs. A Generator holds only
// configuration, so one value may serve concurrent calls to Generate on
// different workspaces.
type Generator struct {
	logger   log.Logger
	registry Registry
	header   string
	indent   int
	policy   ReservedPolicy
}

// New returns a Generator configured by opts.
func New(opts ...Option) Generator {
	g := Generator{
		registry: DefaultRegistry(),
		indent:   DefaultIndent,
	}

	for _, opt := range opts {
		if opt != nil {
			g = opt(g)
		}
	}

	return g
}

// Program is the result of one generation run.
type Program struct {
	// Text is the complete, newline-terminated NQC program.
	Text string
	// Diagnostics lists non-fatal findings in discovery order.
	Diagnostics []Diagnostic
	// Scopes lists the scope of every rendered body in rendering order:
	// subprograms first, then free statements or the synthesized main task.
	Scopes []*Scope
}

// run holds the state of one Generate call.
type run struct {
	ctx     context.Context
	gen     Generator
	ws      *block.Workspace
	logger  log.Logger
	tracker *Tracker
	diags   []Diagnostic
}

func (r *run) diagnose(n *block.Node, msg string) {
	d := Diagnostic{Node: n.ID(), Kind: n.Kind(), Message: msg}
	r.diags = append(r.diags, d)

	r.logger.DebugContext(r.ctx, "diagnostic", slog.Any("diagnostic", d))
}

// Generate renders ws as one NQC program.
//
// Structural problems (extra main tasks, missing or duplicate subprogram
// names, loose operands) are reported as diagnostics and never stop
// generation. A node that cannot be rendered or a reserved-name collision
// under [ReservedReject] fails the run. ctx is checked between subprograms.
func (g Generator) Generate(ctx context.Context, ws *block.Workspace) (*Program, error) {
	r := &run{
		ctx:     ctx,
		gen:     g,
		ws:      ws,
		logger:  g.logger.Unit("codegen"),
		tracker: NewTracker(),
	}

	r.logger.TraceContext(ctx, "generate start", slog.Int("nodes", ws.Len()))

	text, err := r.assemble()
	if err != nil {
		return nil, err
	}

	r.logger.TraceContext(ctx, "generate done",
		slog.Int("bytes", len(text)),
		slog.Int("diagnostics", len(r.diags)),
	)

	return &Program{
		Text:        text,
		Diagnostics: r.diags,
		Scopes:      r.tracker.Scopes(),
	}, nil
}

// Generate renders ws with a default [Generator].
func Generate(ctx context.Context, ws *block.Workspace, opts ...Option) (*Program, error) {
	return New(opts...).Generate(ctx, ws)
}

// partition splits the enabled top-level nodes into subprogram roots and
// loose chain heads. Extra main tasks and unnamed or duplicate subprograms
// are dropped with a diagnostic.
func (r *run) partition() (roots, loose []*block.Node, mainSeen bool) {
	type named struct {
		kind block.Kind
		name string
	}

	seen := make(map[named]bool)

	for _, id := range r.ws.TopLevel() {
		n := r.ws.Node(id)

		if !n.Kind().IsRoot() {
			loose = append(loose, n)

			continue
		}

		if n.Disabled() {
			r.logger.TraceContext(r.ctx, "skip disabled subprogram",
				slog.String("node", n.ID().String()),
			)

			continue
		}

		switch n.Kind() {
		case block.KindTaskMain:
			if mainSeen {
				r.diagnose(n, msgExtraMain)

				continue
			}

			mainSeen = true

		default:
			key := named{n.Kind(), Sanitize(n.Field("NAME"))}

			switch {
			case key.name == "":
				r.diagnose(n, msgNameRequired)

				continue

			case seen[key]:
				r.diagnose(n, msgDuplicateName)

				continue
			}

			seen[key] = true
		}

		roots = append(roots, n)
	}

	return roots, loose, mainSeen
}

// assemble renders the whole program: header comment, free statements,
// subprogram blocks in first-seen order, then any synthesized main task.
func (r *run) assemble() (string, error) {
	roots, loose, mainSeen := r.partition()

	var sections []string

	if r.gen.header != "" {
		sections = append(sections, commentLines(r.gen.header))
	}

	var blocks []string

	for _, n := range roots {
		if err := r.ctx.Err(); err != nil {
			return "", ErrCanceled.Wrap(err)
		}

		text, err := r.subprogram(n)
		if err != nil {
			return "", err
		}

		blocks = append(blocks, text)
	}

	switch {
	case len(loose) > 0 && mainSeen:
		text, err := r.free(loose)
		if err != nil {
			return "", err
		}

		if text != "" {
			sections = append(sections, text)
		}

		sections = append(sections, blocks...)

	default:
		if err := r.ctx.Err(); err != nil {
			return "", ErrCanceled.Wrap(err)
		}

		sections = append(sections, blocks...)

		if !mainSeen {
			text, err := r.synthesize(loose)
			if err != nil {
				return "", err
			}

			sections = append(sections, text)
		}
	}

	return strings.Join(sections, "\n"), nil
}

// render runs both passes over the chains of one scope: a dry pass that
// registers every name and reserves loop counters, then the emitting pass.
func (r *run) render(key ScopeKey, heads []block.ID, free bool) (decls, body string, err error) {
	scope, err := r.tracker.Open(key)
	if err != nil {
		return "", "", err
	}

	for _, dry := range []bool{true, false} {
		e := &emitter{run: r, dry: dry, free: free}

		var sb strings.Builder

		for _, h := range heads {
			text, err := e.chain(h)
			if err != nil {
				_ = r.tracker.Close()

				return "", "", err
			}

			sb.WriteString(text)
		}

		if dry {
			scope.allocate()
		}

		body = sb.String()
	}

	decls = r.tracker.Declarations(key)

	r.logger.TraceContext(r.ctx, "scope rendered",
		slog.String("scope", key.String()),
		slog.Any("names", scope.Names()),
	)

	return decls, body, r.tracker.Close()
}

// subprogram renders one task or subroutine block.
func (r *run) subprogram(n *block.Node) (string, error) {
	e := &emitter{run: r}

	def, err := e.definition(n)
	if err != nil {
		return "", err
	}

	if def.header == nil {
		return "", roleError(n, block.RoleRoot)
	}

	header, err := def.header(e, n)
	if err != nil {
		return "", err
	}

	key := ScopeKey{Kind: n.Kind(), Name: Sanitize(n.Field("NAME"))}

	decls, body, err := r.render(key, []block.ID{n.Statement("DO")}, false)
	if err != nil {
		return "", err
	}

	r.logger.TraceContext(r.ctx, "subprogram emitted",
		slog.String("scope", key.String()),
		slog.Int("bytes", len(body)),
	)

	return e.comments(n) + wrap(r.gen, header, decls+body), nil
}

// synthesize renders a main task around the loose chains. With no loose
// chains the result is an empty main task.
func (r *run) synthesize(loose []*block.Node) (string, error) {
	decls, body, err := r.render(ScopeKey{Kind: block.KindTaskMain}, ids(loose), true)
	if err != nil {
		return "", err
	}

	r.logger.TraceContext(r.ctx, "synthesized main", slog.Int("chains", len(loose)))

	return wrap(r.gen, "task main()", decls+body), nil
}

// free renders loose chains as statements outside any subprogram, with their
// declarations hoisted above them.
func (r *run) free(loose []*block.Node) (string, error) {
	decls, body, err := r.render(ScopeKey{}, ids(loose), true)
	if err != nil {
		return "", err
	}

	r.logger.TraceContext(r.ctx, "free statements", slog.Int("chains", len(loose)))

	return decls + body, nil
}

func wrap(g Generator, header, body string) string {
	return header + "\n{\n" + g.indentText(body) + "}\n"
}

func ids(nodes []*block.Node) []block.ID {
	out := make([]block.ID, len(nodes))
	for i, n := range nodes {
		out[i] = n.ID()
	}

	return out
}

func commentLines(text string) string {
	var sb strings.Builder

	for _, line := range strings.Split(strings.TrimRight(text, "\n"), "\n") {
		if line = strings.TrimRight(line, " \t"); line == "" {
			sb.WriteString("//\n")
		} else {
			sb.WriteString("// " + line + "\n")
		}
	}

	return sb.String()
}
