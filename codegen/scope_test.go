package codegen

import (
	"testing"

	"github.com/nalgeon/be"

	"github.com/ardnew/brickc/block"
)

func TestTrackerLifecycle(t *testing.T) {
	tr := NewTracker()

	be.Err(t, tr.Register("x"), ErrScopeClosed)
	be.Err(t, tr.Close(), ErrScopeClosed)

	main := ScopeKey{Kind: block.KindTaskMain}

	s, err := tr.Open(main)
	be.Err(t, err, nil)
	be.Equal(t, tr.Current(), s)

	_, err = tr.Open(ScopeKey{Kind: block.KindSub, Name: "beep"})
	be.Err(t, err, ErrScopeNested)

	be.Err(t, tr.Register("speed"), nil)
	be.Err(t, tr.Register("count"), nil)
	be.Err(t, tr.Register("speed"), nil)

	be.Err(t, tr.Close(), nil)
	be.Equal(t, tr.Current(), (*Scope)(nil))

	be.Equal(t, s.Names(), []string{"speed", "count"})
	be.Equal(t, tr.Declarations(main), "int speed;\nint count;\n\n")
	be.Equal(t, tr.Declarations(ScopeKey{}), "")
}

func TestTrackerBind(t *testing.T) {
	tr := NewTracker()

	_, err := tr.Bind("x", "x", false)
	be.Err(t, err, ErrScopeClosed)

	_, err = tr.Open(ScopeKey{})
	be.Err(t, err, nil)

	name, err := tr.Bind("left motor", "left_motor", false)
	be.Err(t, err, nil)
	be.Equal(t, name, "left_motor")

	// Same user name, same identifier.
	name, err = tr.Bind("left motor", "left_motor", false)
	be.Err(t, err, nil)
	be.Equal(t, name, "left_motor")

	_, err = tr.Bind("left_motor", "left_motor", false)
	be.Err(t, err, ErrNameCollision)

	name, err = tr.Bind("left_motor", "left_motor", true)
	be.Err(t, err, nil)
	be.Equal(t, name, "left_motor_")

	// The rename sticks for later lookups.
	name, err = tr.Bind("left_motor", "left_motor", false)
	be.Err(t, err, nil)
	be.Equal(t, name, "left_motor_")

	be.Equal(t, tr.Current().Names(), []string{"left_motor", "left_motor_"})
}

func TestScopeAuxAllocation(t *testing.T) {
	s := newScope(ScopeKey{})
	s.register("repeat_count")
	s.register("repeat_count2")

	s.deferAux(7)
	s.deferAux(9)
	s.deferAux(7)
	s.allocate()

	a, ok := s.auxName(7)
	be.True(t, ok)
	be.Equal(t, a, "repeat_count3")

	b, ok := s.auxName(9)
	be.True(t, ok)
	be.Equal(t, b, "repeat_count4")

	_, ok = s.auxName(8)
	be.True(t, !ok)

	be.Equal(t, s.Names(), []string{
		"repeat_count", "repeat_count2", "repeat_count3", "repeat_count4",
	})
}

func TestScopeKeyString(t *testing.T) {
	be.Equal(t, ScopeKey{}.String(), "global")
	be.Equal(t, ScopeKey{Kind: block.KindTaskMain}.String(), "task_main")
	be.Equal(t, ScopeKey{Kind: block.KindTask, Name: "drive"}.String(), "task drive")
}
