package codegen

import (
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"strconv"
	"strings"

	"github.com/ardnew/brickc/block"
)

func rootRules() []Definition {
	named := func(keyword string) headerFunc {
		return func(e *emitter, n *block.Node) (string, error) {
			name, err := identifier(e.run.gen.policy, n, "NAME", true)
			if err != nil {
				return "", err
			}

			return keyword + " " + name + "()", nil
		}
	}

	return []Definition{
		{
			Kind:   block.KindTaskMain,
			header: func(*emitter, *block.Node) (string, error) { return "task main()", nil },
		},
		{Kind: block.KindTask, header: named("task")},
		{Kind: block.KindSub, header: named("sub")},
	}
}

func statementRules() []Definition {
	return []Definition{
		{Kind: block.KindWait, stmt: func(e *emitter, n *block.Node) (string, error) {
			t, _, err := e.scaled(n, "TIME", TicksPerSecond)
			if err != nil {
				return "", err
			}

			return "Wait(" + t + ");\n", nil
		}},

		{Kind: block.KindWaitUntil, stmt: func(e *emitter, n *block.Node) (string, error) {
			cond, _, err := e.expr(n, "COND", PrecNone)
			if err != nil {
				return "", err
			}

			return "until (" + cond + ");\n", nil
		}},

		{Kind: block.KindRepeat, stmt: func(e *emitter, n *block.Node) (string, error) {
			bound, _, err := e.expr(n, "TIMES", PrecNone)
			if err != nil {
				return "", err
			}

			var init string

			if !plainBound(bound) {
				counter := e.counter(n)
				init = counter + " = " + bound + ";\n"
				bound = counter
			}

			body, err := e.body(n, "DO")
			if err != nil {
				return "", err
			}

			return init + "repeat (" + bound + ")\n" + body, nil
		}},

		{Kind: block.KindForever, stmt: func(e *emitter, n *block.Node) (string, error) {
			body, err := e.body(n, "DO")
			if err != nil {
				return "", err
			}

			return "while (true)\n" + body, nil
		}},

		{Kind: block.KindDoWhile, stmt: func(e *emitter, n *block.Node) (string, error) {
			body, err := e.body(n, "DO")
			if err != nil {
				return "", err
			}

			cond, _, err := e.expr(n, "COND", PrecNone)
			if err != nil {
				return "", err
			}

			return "do\n" + body + "while (" + cond + ");\n", nil
		}},

		{Kind: block.KindIf, stmt: ifStatement},

		{Kind: block.KindVariableSet, stmt: func(e *emitter, n *block.Node) (string, error) {
			return e.assign(n, "=", "VALUE")
		}},

		{Kind: block.KindVariableChange, stmt: func(e *emitter, n *block.Node) (string, error) {
			return e.assign(n, "+=", "DELTA")
		}},

		{Kind: block.KindMotorOn, stmt: func(e *emitter, n *block.Node) (string, error) {
			out, err := outputs(n)
			if err != nil {
				return "", err
			}

			fn, ok := direction[strings.ToLower(strings.TrimSpace(n.Field("DIR")))]
			if !ok {
				return "", fieldError(n, "DIR", keys(direction))
			}

			return fn + "(" + out + ");\n", nil
		}},

		{Kind: block.KindMotorOff, stmt: motorCall("Off")},
		{Kind: block.KindMotorFloat, stmt: motorCall("Float")},

		{Kind: block.KindSetPower, stmt: func(e *emitter, n *block.Node) (string, error) {
			out, err := outputs(n)
			if err != nil {
				return "", err
			}

			power, _, err := e.expr(n, "POWER", PrecAssignment)
			if err != nil {
				return "", err
			}

			return "SetPower(" + out + ", " + power + ");\n", nil
		}},

		{Kind: block.KindSetSensor, stmt: func(e *emitter, n *block.Node) (string, error) {
			port, err := sensor(n)
			if err != nil {
				return "", err
			}

			kind, ok := sensorType[strings.ToLower(strings.TrimSpace(n.Field("TYPE")))]
			if !ok {
				return "", fieldError(n, "TYPE", keys(sensorType))
			}

			return "SetSensor(" + port + ", " + kind + ");\n", nil
		}},

		{Kind: block.KindPlayTone, stmt: func(e *emitter, n *block.Node) (string, error) {
			freq, _, err := e.expr(n, "FREQ", PrecAssignment)
			if err != nil {
				return "", err
			}

			dur, _, err := e.scaled(n, "DURATION", TicksPerSecond)
			if err != nil {
				return "", err
			}

			return "PlayTone(" + freq + ", " + dur + ");\n", nil
		}},

		{Kind: block.KindPlaySound, stmt: func(_ *emitter, n *block.Node) (string, error) {
			raw := strings.ToLower(strings.TrimSpace(n.Field("SOUND")))

			if i, err := strconv.Atoi(raw); err == nil && i >= 0 && i < len(sounds) {
				raw = sounds[i]
			}

			if !slices.Contains(sounds, raw) {
				return "", fieldError(n, "SOUND", sounds)
			}

			return "PlaySound(SOUND_" + strings.ToUpper(raw) + ");\n", nil
		}},

		{Kind: block.KindClearTimer, stmt: func(_ *emitter, n *block.Node) (string, error) {
			t, err := timer(n)
			if err != nil {
				return "", err
			}

			return "ClearTimer(" + t + ");\n", nil
		}},

		{Kind: block.KindStartTask, stmt: taskControl("start %s;\n")},
		{Kind: block.KindStopTask, stmt: taskControl("stop %s;\n")},
		{Kind: block.KindCallSub, stmt: taskControl("%s();\n")},

		{Kind: block.KindStopAll, stmt: func(*emitter, *block.Node) (string, error) {
			return "StopAllTasks();\n", nil
		}},
	}
}

func valueRules() []Definition {
	return []Definition{
		{Kind: block.KindNumber, expr: (*emitter).number},

		{Kind: block.KindBoolean, expr: func(_ *emitter, n *block.Node) (string, Precedence, error) {
			switch strings.ToLower(strings.TrimSpace(n.Field("BOOL"))) {
			case "true":
				return "true", PrecAtomic, nil
			case "false", "":
				return "false", PrecAtomic, nil
			default:
				return "", PrecNone, fieldError(n, "BOOL", []string{"true", "false"})
			}
		}},

		{Kind: block.KindVariableGet, expr: func(e *emitter, n *block.Node) (string, Precedence, error) {
			name, err := e.variable(n)

			return name, PrecAtomic, err
		}},

		{Kind: block.KindArithmetic, expr: func(e *emitter, n *block.Node) (string, Precedence, error) {
			return e.binary(n, arithmeticOps)
		}},
		{Kind: block.KindCompare, expr: func(e *emitter, n *block.Node) (string, Precedence, error) {
			return e.binary(n, compareOps)
		}},
		{Kind: block.KindLogic, expr: func(e *emitter, n *block.Node) (string, Precedence, error) {
			return e.binary(n, logicOps)
		}},
		{Kind: block.KindBitwise, expr: func(e *emitter, n *block.Node) (string, Precedence, error) {
			return e.binary(n, bitwiseOps)
		}},

		{Kind: block.KindNot, expr: (*emitter).not},
		{Kind: block.KindNegate, expr: (*emitter).negate},

		{Kind: block.KindGroup, expr: func(e *emitter, n *block.Node) (string, Precedence, error) {
			text, _, err := e.expr(n, "VALUE", PrecNone)
			if err != nil {
				return "", PrecNone, err
			}

			return "(" + text + ")", PrecAtomic, nil
		}},

		{Kind: block.KindAbs, expr: func(e *emitter, n *block.Node) (string, Precedence, error) {
			return e.call(n, "abs", "NUM")
		}},
		{Kind: block.KindRandom, expr: func(e *emitter, n *block.Node) (string, Precedence, error) {
			return e.call(n, "Random", "MAX")
		}},

		{Kind: block.KindSensorValue, expr: func(_ *emitter, n *block.Node) (string, Precedence, error) {
			port, err := sensor(n)

			return port, PrecAtomic, err
		}},

		{Kind: block.KindTimerValue, expr: func(_ *emitter, n *block.Node) (string, Precedence, error) {
			t, err := timer(n)

			return "Timer(" + t + ")", PrecAtomic, err
		}},
	}
}

//nolint:gochecknoglobals
var (
	arithmeticOps = map[string]binaryOp{
		"ADD": {"+", PrecAdditive},
		"SUB": {"-", PrecAdditive},
		"MUL": {"*", PrecMultiplicative},
		"DIV": {"/", PrecMultiplicative},
		"MOD": {"%", PrecMultiplicative},
	}
	compareOps = map[string]binaryOp{
		"EQ":  {"==", PrecEquality},
		"NEQ": {"!=", PrecEquality},
		"LT":  {"<", PrecRelational},
		"LTE": {"<=", PrecRelational},
		"GT":  {">", PrecRelational},
		"GTE": {">=", PrecRelational},
	}
	logicOps = map[string]binaryOp{
		"AND": {"&&", PrecLogicalAnd},
		"OR":  {"||", PrecLogicalOr},
	}
	bitwiseOps = map[string]binaryOp{
		"AND": {"&", PrecBitwiseAnd},
		"OR":  {"|", PrecBitwiseOr},
		"XOR": {"^", PrecBitwiseXor},
		"SHL": {"<<", PrecShift},
		"SHR": {">>", PrecShift},
	}

	direction = map[string]string{
		"":        "OnFwd",
		"fwd":     "OnFwd",
		"forward": "OnFwd",
		"rev":     "OnRev",
		"reverse": "OnRev",
	}

	sensorType = map[string]string{
		"touch":      "SENSOR_TOUCH",
		"light":      "SENSOR_LIGHT",
		"rotation":   "SENSOR_ROTATION",
		"celsius":    "SENSOR_CELSIUS",
		"fahrenheit": "SENSOR_FAHRENHEIT",
		"pulse":      "SENSOR_PULSE",
		"edge":       "SENSOR_EDGE",
	}

	// sounds are the system sounds in firmware order.
	sounds = []string{"click", "double_beep", "down", "up", "low_beep", "fast_up"}
)

// assign renders "VAR op SLOT;".
func (e *emitter) assign(n *block.Node, op, slot string) (string, error) {
	name, err := e.variable(n)
	if err != nil {
		return "", err
	}

	value, _, err := e.expr(n, slot, PrecAssignment)
	if err != nil {
		return "", err
	}

	return name + " " + op + " " + value + ";\n", nil
}

func ifStatement(e *emitter, n *block.Node) (string, error) {
	var sb strings.Builder

	for i := range segments(n) {
		idx := strconv.Itoa(i)

		cond, _, err := e.expr(n, "IF"+idx, PrecNone)
		if err != nil {
			return "", err
		}

		body, err := e.body(n, "DO"+idx)
		if err != nil {
			return "", err
		}

		if i > 0 {
			sb.WriteString("else ")
		}

		sb.WriteString("if (" + cond + ")\n" + body)
	}

	if n.Statement("ELSE") != 0 {
		body, err := e.body(n, "ELSE")
		if err != nil {
			return "", err
		}

		sb.WriteString("else\n" + body)
	}

	return sb.String(), nil
}

func motorCall(fn string) stmtFunc {
	return func(_ *emitter, n *block.Node) (string, error) {
		out, err := outputs(n)
		if err != nil {
			return "", err
		}

		return fn + "(" + out + ");\n", nil
	}
}

func taskControl(format string) stmtFunc {
	return func(e *emitter, n *block.Node) (string, error) {
		name, err := identifier(e.run.gen.policy, n, "NAME", true)
		if err != nil {
			return "", err
		}

		if name == "" {
			return "", ErrUnrenderable.With(
				slog.String("node", n.ID().String()),
				slog.String("kind", string(n.Kind())),
			).Wrap(errors.New("name required"))
		}

		return fmt.Sprintf(format, name), nil
	}
}

// outputs renders the PORT field of a motor node, one or more of A, B and C,
// as an output list such as "OUT_A + OUT_C".
func outputs(n *block.Node) (string, error) {
	var ports []string

	for _, r := range strings.ToUpper(strings.TrimSpace(n.Field("PORT"))) {
		switch r {
		case 'A', 'B', 'C':
			p := "OUT_" + string(r)
			if !slices.Contains(ports, p) {
				ports = append(ports, p)
			}

		case ' ', ',', '+':
		default:
			return "", fieldError(n, "PORT", []string{"A", "B", "C"})
		}
	}

	if len(ports) == 0 {
		return "", fieldError(n, "PORT", []string{"A", "B", "C"})
	}

	return strings.Join(ports, " + "), nil
}

// sensor renders the PORT field of a sensor node, 1 to 3.
func sensor(n *block.Node) (string, error) {
	port := strings.TrimPrefix(strings.ToUpper(strings.TrimSpace(n.Field("PORT"))), "S")

	switch port {
	case "1", "2", "3":
		return "SENSOR_" + port, nil
	default:
		return "", fieldError(n, "PORT", []string{"1", "2", "3"})
	}
}

// timer renders the TIMER field of a node, 0 to 3.
func timer(n *block.Node) (string, error) {
	t := strings.TrimSpace(n.Field("TIMER"))
	if t == "" {
		return "0", nil
	}

	switch t {
	case "0", "1", "2", "3":
		return t, nil
	default:
		return "", fieldError(n, "TIMER", []string{"0", "1", "2", "3"})
	}
}
