package block

import "strconv"

// EventType identifies the kind of workspace mutation.
type EventType uint8

const (
	EventCreate EventType = iota + 1 // node created
	EventDelete                      // node deleted
	EventChange                      // field, comment or user enable/disable changed
	EventMove                        // node connected or disconnected
	EventFlags                       // warning or disabled flag set by a rule checker
)

func (t EventType) String() string {
	switch t {
	case EventCreate:
		return "create"
	case EventDelete:
		return "delete"
	case EventChange:
		return "change"
	case EventMove:
		return "move"
	case EventFlags:
		return "flags"
	default:
		return "event(" + strconv.Itoa(int(t)) + ")"
	}
}

// Event describes one workspace mutation.
//
// For [EventChange], Name is the changed field (or "comment", "disabled")
// and Old and New hold its values. For [EventMove], Name is the slot the node
// moved into or out of; it is empty for next links and top-level moves.
type Event struct {
	Type EventType
	ID   ID
	Kind Kind
	Name string
	Old  string
	New  string
}

type subscriber struct {
	key int
	fn  func(Event)
}

// Subscribe registers fn to receive every subsequent event and returns a
// function that removes it.
//
// Handlers run synchronously in subscription order. A handler may mutate the
// workspace; the resulting events are delivered before the outer call
// returns.
func (w *Workspace) Subscribe(fn func(Event)) (unsubscribe func()) {
	w.subKey++
	key := w.subKey
	w.subs = append(w.subs, subscriber{key: key, fn: fn})

	return func() {
		for i, s := range w.subs {
			if s.key == key {
				w.subs = append(w.subs[:i:i], w.subs[i+1:]...)

				return
			}
		}
	}
}

func (w *Workspace) publish(e Event) {
	// Iterate a snapshot so handlers may unsubscribe.
	for _, s := range append([]subscriber(nil), w.subs...) {
		s.fn(e)
	}
}
