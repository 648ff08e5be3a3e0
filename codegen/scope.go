package codegen

import (
	"log/slog"
	"slices"
	"strconv"
	"strings"

	"github.com/ardnew/brickc/block"
)

// ScopeKey identifies the scope of one subprogram body. The zero key is the
// global scope of free statements.
type ScopeKey struct {
	Kind block.Kind
	Name string
}

func (k ScopeKey) String() string {
	switch {
	case k.Kind == "":
		return "global"
	case k.Name == "":
		return string(k.Kind)
	default:
		return string(k.Kind) + " " + k.Name
	}
}

// auxBase prefixes the names of generated loop counters.
const auxBase = "repeat_count"

// Scope holds the distinct variable names used by one subprogram body.
type Scope struct {
	Key ScopeKey

	names   []string
	seen    map[string]struct{}
	owner   map[string]string // identifier -> user name
	bound   map[string]string // user name -> identifier
	aux     map[block.ID]string
	pending []block.ID
}

func newScope(key ScopeKey) *Scope {
	return &Scope{
		Key:   key,
		seen:  make(map[string]struct{}),
		owner: make(map[string]string),
		bound: make(map[string]string),
		aux:   make(map[block.ID]string),
	}
}

// Names returns the registered names in insertion order.
func (s *Scope) Names() []string { return slices.Clone(s.names) }

// Has reports whether name is registered.
func (s *Scope) Has(name string) bool {
	_, ok := s.seen[name]

	return ok
}

func (s *Scope) register(name string) {
	if _, ok := s.seen[name]; ok {
		return
	}

	s.seen[name] = struct{}{}
	s.names = append(s.names, name)
}

// deferAux requests an auxiliary counter for the loop node id. Counters are
// named by allocate once every user name is known.
func (s *Scope) deferAux(id block.ID) {
	if _, ok := s.aux[id]; ok || slices.Contains(s.pending, id) {
		return
	}

	s.pending = append(s.pending, id)
}

// allocate names every pending counter, avoiding all registered names, and
// registers the results after them.
func (s *Scope) allocate() {
	for _, id := range s.pending {
		name := auxBase
		for n := 2; s.Has(name); n++ {
			name = auxBase + strconv.Itoa(n)
		}

		s.aux[id] = name
		s.register(name)
	}

	s.pending = nil
}

// auxName returns the counter allocated for loop node id.
func (s *Scope) auxName(id block.ID) (string, bool) {
	name, ok := s.aux[id]

	return name, ok
}

// Tracker records the scopes of one generation run. At most one scope is
// open at a time.
type Tracker struct {
	open   *Scope
	scopes map[ScopeKey]*Scope
	order  []ScopeKey
}

// NewTracker returns an empty tracker.
func NewTracker() *Tracker {
	return &Tracker{scopes: make(map[ScopeKey]*Scope)}
}

// Open starts a fresh scope for key. It fails with [ErrScopeNested] while
// another scope is open.
func (t *Tracker) Open(key ScopeKey) (*Scope, error) {
	if t.open != nil {
		return nil, ErrScopeNested.With(
			slog.String("open", t.open.Key.String()),
			slog.String("requested", key.String()),
		)
	}

	s := newScope(key)
	if _, ok := t.scopes[key]; !ok {
		t.order = append(t.order, key)
	}

	t.scopes[key] = s
	t.open = s

	return s, nil
}

// Current returns the open scope, or nil.
func (t *Tracker) Current() *Scope { return t.open }

// Register adds name to the open scope as its own user name. Registering a
// name twice has no effect.
func (t *Tracker) Register(name string) error {
	_, err := t.Bind(name, name, false)

	return err
}

// Bind registers the identifier name for the user name raw in the open scope
// and returns the identifier raw resolves to. Once bound, raw keeps its
// identifier for the life of the scope.
//
// Two distinct user names that sanitize to the same identifier collide. With
// rename set, the later one gets underscores appended until it is free;
// otherwise Bind fails with [ErrNameCollision].
func (t *Tracker) Bind(raw, name string, rename bool) (string, error) {
	if t.open == nil {
		return "", ErrScopeClosed.With(slog.String("name", name))
	}

	s := t.open

	if id, ok := s.bound[raw]; ok {
		return id, nil
	}

	for {
		owner, taken := s.owner[name]
		if (!taken || owner == raw) && !IsReserved(name) {
			break
		}

		if !rename {
			return "", ErrNameCollision.With(
				slog.String("scope", s.Key.String()),
				slog.String("name", name),
				slog.String("first", owner),
				slog.String("second", raw),
			)
		}

		name += "_"
	}

	s.owner[name] = raw
	s.bound[raw] = name
	s.register(name)

	return name, nil
}

// Declarations renders one "int name;" line per name of the scope for key,
// followed by a blank line. It returns "" for an empty or unknown scope.
func (t *Tracker) Declarations(key ScopeKey) string {
	s, ok := t.scopes[key]
	if !ok || len(s.names) == 0 {
		return ""
	}

	var sb strings.Builder

	for _, name := range s.names {
		sb.WriteString("int ")
		sb.WriteString(name)
		sb.WriteString(";\n")
	}

	sb.WriteByte('\n')

	return sb.String()
}

// Close ends the open scope.
func (t *Tracker) Close() error {
	if t.open == nil {
		return ErrScopeClosed
	}

	t.open = nil

	return nil
}

// Scopes returns every scope opened so far, in first-opened order.
func (t *Tracker) Scopes() []*Scope {
	out := make([]*Scope, 0, len(t.order))
	for _, k := range t.order {
		out = append(out, t.scopes[k])
	}

	return out
}
