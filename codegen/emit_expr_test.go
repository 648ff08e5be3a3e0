package codegen

import (
	"testing"

	"github.com/nalgeon/be"
)

// exprOf generates a program whose only statement assigns the value document
// to x, and returns the right-hand side along with the diagnostics.
func exprOf(t *testing.T, value string) (string, []Diagnostic) {
	t.Helper()

	p := generate(t, `
blocks:
  - kind: variable_set
    fields: {VAR: x}
    inputs:
      VALUE: `+value+`
`)

	for _, line := range splitLines(p.Text) {
		if rhs, ok := cutAssignment(line); ok {
			return rhs, p.Diagnostics
		}
	}

	t.Fatalf("no assignment in %q", p.Text)

	return "", nil
}

func TestPrecedenceNoImplicitParens(t *testing.T) {
	tests := []struct {
		name  string
		value string
		want  string
		diags int
	}{
		{
			name:  "tighter right operand",
			value: `{kind: arithmetic, fields: {OP: ADD}, inputs: {A: {kind: variable_get, fields: {VAR: a}}, B: {kind: arithmetic, fields: {OP: MUL}, inputs: {A: {kind: variable_get, fields: {VAR: b}}, B: {kind: variable_get, fields: {VAR: c}}}}}}`,
			want:  "a + b * c",
		},
		{
			name:  "looser operand is reported, not wrapped",
			value: `{kind: arithmetic, fields: {OP: MUL}, inputs: {A: {kind: arithmetic, fields: {OP: ADD}, inputs: {A: {kind: variable_get, fields: {VAR: a}}, B: {kind: variable_get, fields: {VAR: b}}}}, B: {kind: variable_get, fields: {VAR: c}}}}`,
			want:  "a + b * c",
			diags: 1,
		},
		{
			name:  "explicit group",
			value: `{kind: arithmetic, fields: {OP: MUL}, inputs: {A: {kind: group, inputs: {VALUE: {kind: arithmetic, fields: {OP: ADD}, inputs: {A: {kind: variable_get, fields: {VAR: a}}, B: {kind: variable_get, fields: {VAR: b}}}}}}, B: {kind: variable_get, fields: {VAR: c}}}}`,
			want:  "(a + b) * c",
		},
		{
			name:  "same precedence renders flat",
			value: `{kind: arithmetic, fields: {OP: SUB}, inputs: {A: {kind: arithmetic, fields: {OP: SUB}, inputs: {A: {kind: number, fields: {NUM: 9}}, B: {kind: number, fields: {NUM: 3}}}}, B: {kind: number, fields: {NUM: 1}}}}`,
			want:  "9 - 3 - 1",
		},
		{
			name:  "logic over compare",
			value: `{kind: logic, fields: {OP: AND}, inputs: {A: {kind: compare, fields: {OP: GT}, inputs: {A: {kind: variable_get, fields: {VAR: a}}, B: {kind: number, fields: {NUM: 0}}}}, B: {kind: not, inputs: {BOOL: {kind: boolean, fields: {BOOL: true}}}}}}`,
			want:  "a > 0 && !true",
		},
		{
			name:  "not wraps a loose operand",
			value: `{kind: not, inputs: {BOOL: {kind: compare, fields: {OP: NEQ}, inputs: {A: {kind: variable_get, fields: {VAR: a}}, B: {kind: variable_get, fields: {VAR: b}}}}}}`,
			want:  "!(a != b)",
		},
		{
			name:  "bitwise and shift",
			value: `{kind: bitwise, fields: {OP: OR}, inputs: {A: {kind: bitwise, fields: {OP: SHL}, inputs: {A: {kind: variable_get, fields: {VAR: a}}, B: {kind: number, fields: {NUM: 2}}}}, B: {kind: bitwise, fields: {OP: XOR}, inputs: {A: {kind: variable_get, fields: {VAR: b}}, B: {kind: number, fields: {NUM: 1}}}}}}`,
			want:  "a << 2 | b ^ 1",
		},
		{
			name:  "negate literal keeps tokens apart",
			value: `{kind: negate, inputs: {NUM: {kind: number, fields: {NUM: -3}}}}`,
			want:  "- -3",
		},
		{
			name:  "negate loose operand is reported",
			value: `{kind: negate, inputs: {NUM: {kind: arithmetic, fields: {OP: ADD}}}}`,
			want:  "-0 + 0",
			diags: 1,
		},
		{
			name:  "calls are atomic",
			value: `{kind: arithmetic, fields: {OP: MOD}, inputs: {A: {kind: abs, inputs: {NUM: {kind: sensor_value, fields: {PORT: 2}}}}, B: {kind: random, inputs: {MAX: {kind: number, fields: {NUM: 6}}}}}}`,
			want:  "abs(SENSOR_2) % Random(6)",
		},
		{
			name:  "disabled operand uses default",
			value: `{kind: arithmetic, fields: {OP: DIV}, inputs: {A: {kind: number, disabled: true, fields: {NUM: 8}}, B: {kind: number, fields: {NUM: 2}}}}`,
			want:  "0 / 2",
		},
		{
			name:  "fraction truncated",
			value: `{kind: number, fields: {NUM: 2.7}}`,
			want:  "2",
			diags: 1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, diags := exprOf(t, tt.value)

			be.Equal(t, got, tt.want)
			be.Equal(t, len(diags), tt.diags)
		})
	}
}

func TestScaledOperands(t *testing.T) {
	tests := []struct {
		name string
		time string
		want string
	}{
		{"literal", `{kind: number, fields: {NUM: 1.5}}`, "Wait(150);"},
		{"variable", `{kind: variable_get, fields: {VAR: t}}`, "Wait(t * 100);"},
		{
			"additive operand",
			`{kind: arithmetic, fields: {OP: ADD}, inputs: {A: {kind: variable_get, fields: {VAR: t}}, B: {kind: number, fields: {NUM: 1}}}}`,
			"Wait((t + 1) * 100);",
		},
		{"disabled", `{kind: number, disabled: true, fields: {NUM: 3}}`, "Wait(0);"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := generate(t, `
blocks:
  - kind: task_main
    statements:
      DO:
        - kind: wait
          inputs:
            TIME: `+tt.time+`
`)

			be.True(t, containsLine(p.Text, tt.want))
		})
	}
}

func TestFoldScale(t *testing.T) {
	tests := []struct {
		in      string
		want    string
		clamped bool
		ok      bool
	}{
		{"2", "200", false, true},
		{"-0.125", "-13", false, true},
		{"327.67", "32767", false, true},
		{"327.68", "32767", true, true},
		{"-400", "-32768", true, true},
		{"99999999999999999999", "32767", true, true},
		{"x", "", false, false},
		{"1 + 1", "", false, false},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, clamped, ok := foldScale(tt.in, TicksPerSecond)
			be.Equal(t, ok, tt.ok)
			be.Equal(t, clamped, tt.clamped)
			be.Equal(t, got, tt.want)
		})
	}
}

func TestNumberRange(t *testing.T) {
	tests := []struct {
		num  string
		want string
		diag string
	}{
		{"32767", "32767", ""},
		{"-32768", "-32768", ""},
		{"70000", "32767", msgOutOfRange},
		{"-70000", "-32768", msgOutOfRange},
		{"99999999999999999999", "32767", msgOutOfRange},
		{"1e400", "32767", msgOutOfRange},
		{"2.5", "2", msgFractional},
		{"inf", "0", msgInvalidNumber},
		{"ten", "0", msgInvalidNumber},
	}

	for _, tt := range tests {
		t.Run(tt.num, func(t *testing.T) {
			got, diags := exprOf(t, `{kind: number, fields: {NUM: "`+tt.num+`"}}`)
			be.Equal(t, got, tt.want)

			if tt.diag == "" {
				be.Equal(t, len(diags), 0)

				return
			}

			be.Equal(t, len(diags), 1)
			be.Equal(t, diags[0].Message, tt.diag)
		})
	}
}

func TestLoopAndWaitClamp(t *testing.T) {
	p := generate(t, `
blocks:
  - kind: repeat
    inputs:
      TIMES: {kind: number, fields: {NUM: 70000}}
    next:
      - kind: wait
        inputs:
          TIME: {kind: number, fields: {NUM: "99999999999999999999"}}
`)

	be.True(t, containsLine(p.Text, "repeat (32767)"))
	be.True(t, containsLine(p.Text, "Wait(32767);"))
	be.Equal(t, len(p.Diagnostics), 2)

	for _, d := range p.Diagnostics {
		be.Equal(t, d.Message, msgOutOfRange)
	}
}
