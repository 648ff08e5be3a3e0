package block

import (
	"slices"
	"testing"

	"github.com/nalgeon/be"
)

func TestLookup(t *testing.T) {
	s, ok := Lookup(KindIf)
	be.True(t, ok)
	be.Equal(t, s.Role, RoleStatement)

	in, ok := s.Input("IF3")
	be.True(t, ok)
	be.Equal(t, in.Type, TypeBoolean)

	_, ok = s.Input("IF")
	be.True(t, !ok)

	_, ok = s.Statement("ELSE")
	be.True(t, ok)

	_, ok = Lookup("nope")
	be.True(t, !ok)
}

func TestKindsUniqueAndComplete(t *testing.T) {
	seen := map[Kind]bool{}

	for _, k := range Kinds() {
		be.True(t, !seen[k])
		seen[k] = true

		s, ok := Lookup(k)
		be.True(t, ok)
		be.True(t, s.Role != 0)

		if s.Role == RoleValue {
			be.Equal(t, len(s.Statements), 0)
		}
	}

	be.True(t, KindTaskMain.IsRoot())
	be.True(t, KindSub.IsRoot())
	be.True(t, !KindWait.IsRoot())
}

func TestSuggest(t *testing.T) {
	names := kindNames()

	be.Equal(t, Suggest("motr_on", names, 1), []string{"motor_on"})
	be.Equal(t, Suggest("set_powr", names, 1), []string{"set_power"})
	be.True(t, slices.Contains(Suggest("waitt", names, 3), "wait"))
	be.Equal(t, len(Suggest("", names, 3)), 0)

	err := DidYouMean("repaet", names)
	be.Err(t, err, `"repaet"`)
}
