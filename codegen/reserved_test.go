package codegen

import (
	"context"
	"testing"

	"github.com/nalgeon/be"
)

func TestReservedReject(t *testing.T) {
	tests := []struct {
		name string
		doc  string
	}{
		{"variable", "blocks:\n  - kind: variable_set\n    fields: {VAR: Wait}\n"},
		{"keyword", "blocks:\n  - kind: variable_set\n    fields: {VAR: while}\n"},
		{"task named main", "blocks:\n  - kind: task\n    fields: {NAME: main}\n"},
		{"sub named after constant", "blocks:\n  - kind: sub\n    fields: {NAME: OUT_A}\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Generate(context.Background(), decode(t, tt.doc))
			be.Err(t, err, ErrReservedName)
		})
	}
}

func TestReservedRename(t *testing.T) {
	p := generate(t, `
blocks:
  - kind: task
    fields: {NAME: main}
    statements:
      DO:
        - kind: variable_set
          fields: {VAR: Wait}
          inputs:
            VALUE: {kind: variable_get, fields: {VAR: Wait_}}
`, WithReservedPolicy(ReservedRename))

	// The user's own Wait_ stays distinct from the renamed Wait.
	be.True(t, containsLine(p.Text, "task main_()"))
	be.True(t, containsLine(p.Text, "int Wait_;"))
	be.True(t, containsLine(p.Text, "int Wait__;"))
	be.True(t, containsLine(p.Text, "Wait_ = Wait__;"))
	be.Equal(t, p.Scopes[0].Names(), []string{"Wait_", "Wait__"})
}

const accentedNames = `
blocks:
  - kind: variable_set
    fields: {VAR: ação}
    inputs:
      VALUE: {kind: number, fields: {NUM: 1}}
    next:
      - kind: variable_set
        fields: {VAR: açõo}
        inputs:
          VALUE: {kind: number, fields: {NUM: 2}}
      - kind: variable_change
        fields: {VAR: ação}
        inputs:
          DELTA: {kind: variable_get, fields: {VAR: açõo}}
`

func TestNameCollisionReject(t *testing.T) {
	_, err := Generate(context.Background(), decode(t, accentedNames))

	be.Err(t, err, ErrNameCollision)
	be.Err(t, err, "name=a__o")
}

func TestNameCollisionRename(t *testing.T) {
	p := generate(t, accentedNames, WithReservedPolicy(ReservedRename))

	be.Equal(t, p.Text, lines(
		"task main()",
		"{",
		"  int a__o;",
		"  int a__o_;",
		"",
		"  a__o = 1;",
		"  a__o_ = 2;",
		"  a__o += a__o_;",
		"}",
	))
}

func TestSameNameAcrossScopes(t *testing.T) {
	p := generate(t, `
blocks:
  - kind: task
    fields: {NAME: left}
    statements:
      DO:
        - kind: variable_set
          fields: {VAR: ação}
  - kind: task
    fields: {NAME: right}
    statements:
      DO:
        - kind: variable_set
          fields: {VAR: açõo}
`)

	be.Equal(t, p.Scopes[0].Names(), []string{"a__o"})
	be.Equal(t, p.Scopes[1].Names(), []string{"a__o"})
}

func TestSanitize(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"speed", "speed"},
		{" left motor ", "left_motor"},
		{"2fast", "_2fast"},
		{"a-b.c", "a_b_c"},
		{"", ""},
	}

	for _, tt := range tests {
		be.Equal(t, Sanitize(tt.in), tt.want)
	}
}

func TestParseReservedPolicy(t *testing.T) {
	p, ok := ParseReservedPolicy(" Rename ")
	be.True(t, ok)
	be.Equal(t, p, ReservedRename)

	p, ok = ParseReservedPolicy("reject")
	be.True(t, ok)
	be.Equal(t, p, ReservedReject)

	_, ok = ParseReservedPolicy("ignore")
	be.True(t, !ok)
}
