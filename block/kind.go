package block

import (
	"slices"
	"strconv"
	"strings"
)

// Kind names the type of a node.
type Kind string

// Subprogram roots.
const (
	KindTaskMain Kind = "task_main"
	KindTask     Kind = "task"
	KindSub      Kind = "sub"
)

// Statements.
const (
	KindWait           Kind = "wait"
	KindWaitUntil      Kind = "wait_until"
	KindRepeat         Kind = "repeat"
	KindForever        Kind = "forever"
	KindDoWhile        Kind = "do_while"
	KindIf             Kind = "if"
	KindVariableSet    Kind = "variable_set"
	KindVariableChange Kind = "variable_change"
	KindMotorOn        Kind = "motor_on"
	KindMotorOff       Kind = "motor_off"
	KindMotorFloat     Kind = "motor_float"
	KindSetPower       Kind = "set_power"
	KindSetSensor      Kind = "set_sensor"
	KindPlayTone       Kind = "play_tone"
	KindPlaySound      Kind = "play_sound"
	KindClearTimer     Kind = "clear_timer"
	KindStartTask      Kind = "start_task"
	KindStopTask       Kind = "stop_task"
	KindCallSub        Kind = "call_sub"
	KindStopAll        Kind = "stop_all"
)

// Values.
const (
	KindNumber      Kind = "number"
	KindBoolean     Kind = "boolean"
	KindVariableGet Kind = "variable_get"
	KindArithmetic  Kind = "arithmetic"
	KindCompare     Kind = "compare"
	KindLogic       Kind = "logic"
	KindBitwise     Kind = "bitwise"
	KindNot         Kind = "not"
	KindNegate      Kind = "negate"
	KindGroup       Kind = "group"
	KindAbs         Kind = "abs"
	KindRandom      Kind = "random"
	KindSensorValue Kind = "sensor_value"
	KindTimerValue  Kind = "timer_value"
)

// Role classifies how a node participates in a program.
type Role uint8

const (
	RoleRoot      Role = iota + 1 // heads a subprogram
	RoleStatement                 // sits in a statement chain
	RoleValue                     // plugs into a value slot
)

func (r Role) String() string {
	switch r {
	case RoleRoot:
		return "root"
	case RoleStatement:
		return "statement"
	case RoleValue:
		return "value"
	default:
		return "role(" + strconv.Itoa(int(r)) + ")"
	}
}

// Type is the value type carried by a value slot or produced by a value node.
type Type uint8

const (
	TypeAny Type = iota
	TypeNumber
	TypeBoolean
)

func (t Type) String() string {
	switch t {
	case TypeNumber:
		return "number"
	case TypeBoolean:
		return "boolean"
	default:
		return "any"
	}
}

// SlotSpec describes one input or statement slot of a kind.
//
// A repeated slot names a family: Name is a prefix followed by a decimal
// index, as in IF0, IF1, ... for the conditions of an if node.
type SlotSpec struct {
	Name     string
	Type     Type
	Repeated bool
}

// Match reports whether slot belongs to s.
func (s SlotSpec) Match(slot string) bool {
	if !s.Repeated {
		return slot == s.Name
	}

	idx, ok := strings.CutPrefix(slot, s.Name)
	if !ok || idx == "" {
		return false
	}

	_, err := strconv.ParseUint(idx, 10, 16)

	return err == nil
}

// Spec describes a node kind.
type Spec struct {
	Kind       Kind
	Role       Role
	Output     Type // value nodes only
	Fields     []string
	Inputs     []SlotSpec
	Statements []SlotSpec
}

// Input returns the input slot spec matching slot.
func (s Spec) Input(slot string) (SlotSpec, bool) {
	return findSlot(s.Inputs, slot)
}

// Statement returns the statement slot spec matching slot.
func (s Spec) Statement(slot string) (SlotSpec, bool) {
	return findSlot(s.Statements, slot)
}

// HasField reports whether name is a field of the kind.
func (s Spec) HasField(name string) bool {
	return slices.Contains(s.Fields, name)
}

func findSlot(specs []SlotSpec, slot string) (SlotSpec, bool) {
	for _, ss := range specs {
		if ss.Match(slot) {
			return ss, true
		}
	}

	return SlotSpec{}, false
}

func numIn(name string) SlotSpec { return SlotSpec{Name: name, Type: TypeNumber} }
func boolIn(name string) SlotSpec { return SlotSpec{Name: name, Type: TypeBoolean} }
func body(name string) SlotSpec { return SlotSpec{Name: name} }

//nolint:gochecknoglobals
var specs = []Spec{
	{Kind: KindTaskMain, Role: RoleRoot, Statements: []SlotSpec{body("DO")}},
	{Kind: KindTask, Role: RoleRoot, Fields: []string{"NAME"}, Statements: []SlotSpec{body("DO")}},
	{Kind: KindSub, Role: RoleRoot, Fields: []string{"NAME"}, Statements: []SlotSpec{body("DO")}},

	{Kind: KindWait, Role: RoleStatement, Inputs: []SlotSpec{numIn("TIME")}},
	{Kind: KindWaitUntil, Role: RoleStatement, Inputs: []SlotSpec{boolIn("COND")}},
	{Kind: KindRepeat, Role: RoleStatement, Inputs: []SlotSpec{numIn("TIMES")}, Statements: []SlotSpec{body("DO")}},
	{Kind: KindForever, Role: RoleStatement, Statements: []SlotSpec{body("DO")}},
	{Kind: KindDoWhile, Role: RoleStatement, Inputs: []SlotSpec{boolIn("COND")}, Statements: []SlotSpec{body("DO")}},
	{
		Kind:       KindIf,
		Role:       RoleStatement,
		Inputs:     []SlotSpec{{Name: "IF", Type: TypeBoolean, Repeated: true}},
		Statements: []SlotSpec{{Name: "DO", Repeated: true}, body("ELSE")},
	},
	{Kind: KindVariableSet, Role: RoleStatement, Fields: []string{"VAR"}, Inputs: []SlotSpec{numIn("VALUE")}},
	{Kind: KindVariableChange, Role: RoleStatement, Fields: []string{"VAR"}, Inputs: []SlotSpec{numIn("DELTA")}},
	{Kind: KindMotorOn, Role: RoleStatement, Fields: []string{"PORT", "DIR"}},
	{Kind: KindMotorOff, Role: RoleStatement, Fields: []string{"PORT"}},
	{Kind: KindMotorFloat, Role: RoleStatement, Fields: []string{"PORT"}},
	{Kind: KindSetPower, Role: RoleStatement, Fields: []string{"PORT"}, Inputs: []SlotSpec{numIn("POWER")}},
	{Kind: KindSetSensor, Role: RoleStatement, Fields: []string{"PORT", "TYPE"}},
	{Kind: KindPlayTone, Role: RoleStatement, Inputs: []SlotSpec{numIn("FREQ"), numIn("DURATION")}},
	{Kind: KindPlaySound, Role: RoleStatement, Fields: []string{"SOUND"}},
	{Kind: KindClearTimer, Role: RoleStatement, Fields: []string{"TIMER"}},
	{Kind: KindStartTask, Role: RoleStatement, Fields: []string{"NAME"}},
	{Kind: KindStopTask, Role: RoleStatement, Fields: []string{"NAME"}},
	{Kind: KindCallSub, Role: RoleStatement, Fields: []string{"NAME"}},
	{Kind: KindStopAll, Role: RoleStatement},

	{Kind: KindNumber, Role: RoleValue, Output: TypeNumber, Fields: []string{"NUM"}},
	{Kind: KindBoolean, Role: RoleValue, Output: TypeBoolean, Fields: []string{"BOOL"}},
	{Kind: KindVariableGet, Role: RoleValue, Output: TypeNumber, Fields: []string{"VAR"}},
	{Kind: KindArithmetic, Role: RoleValue, Output: TypeNumber, Fields: []string{"OP"}, Inputs: []SlotSpec{numIn("A"), numIn("B")}},
	{Kind: KindCompare, Role: RoleValue, Output: TypeBoolean, Fields: []string{"OP"}, Inputs: []SlotSpec{numIn("A"), numIn("B")}},
	{Kind: KindLogic, Role: RoleValue, Output: TypeBoolean, Fields: []string{"OP"}, Inputs: []SlotSpec{boolIn("A"), boolIn("B")}},
	{Kind: KindBitwise, Role: RoleValue, Output: TypeNumber, Fields: []string{"OP"}, Inputs: []SlotSpec{numIn("A"), numIn("B")}},
	{Kind: KindNot, Role: RoleValue, Output: TypeBoolean, Inputs: []SlotSpec{boolIn("BOOL")}},
	{Kind: KindNegate, Role: RoleValue, Output: TypeNumber, Inputs: []SlotSpec{numIn("NUM")}},
	{Kind: KindGroup, Role: RoleValue, Output: TypeAny, Inputs: []SlotSpec{{Name: "VALUE"}}},
	{Kind: KindAbs, Role: RoleValue, Output: TypeNumber, Inputs: []SlotSpec{numIn("NUM")}},
	{Kind: KindRandom, Role: RoleValue, Output: TypeNumber, Inputs: []SlotSpec{numIn("MAX")}},
	{Kind: KindSensorValue, Role: RoleValue, Output: TypeNumber, Fields: []string{"PORT"}},
	{Kind: KindTimerValue, Role: RoleValue, Output: TypeNumber, Fields: []string{"TIMER"}},
}

//nolint:gochecknoglobals
var specByKind = func() map[Kind]Spec {
	m := make(map[Kind]Spec, len(specs))
	for _, s := range specs {
		m[s.Kind] = s
	}

	return m
}()

// Lookup returns the spec of kind.
func Lookup(kind Kind) (Spec, bool) {
	s, ok := specByKind[kind]

	return s, ok
}

// Kinds returns every registered kind in declaration order.
func Kinds() []Kind {
	out := make([]Kind, len(specs))
	for i, s := range specs {
		out[i] = s.Kind
	}

	return out
}

// IsRoot reports whether kind heads a subprogram.
func (k Kind) IsRoot() bool {
	s, ok := Lookup(k)

	return ok && s.Role == RoleRoot
}
