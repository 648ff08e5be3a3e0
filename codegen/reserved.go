package codegen

import (
	"log/slog"
	"regexp"
	"strings"

	"github.com/ardnew/brickc/block"
)

// ReservedPolicy selects how a user name that collides with a reserved word
// is handled.
type ReservedPolicy uint8

const (
	// ReservedReject fails generation with [ErrReservedName].
	ReservedReject ReservedPolicy = iota
	// ReservedRename appends underscores until the name is free.
	ReservedRename
)

func (p ReservedPolicy) String() string {
	if p == ReservedRename {
		return "rename"
	}

	return "reject"
}

// ParseReservedPolicy parses "reject" or "rename".
func ParseReservedPolicy(s string) (ReservedPolicy, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "reject":
		return ReservedReject, true
	case "rename":
		return ReservedRename, true
	default:
		return ReservedReject, false
	}
}

// reserved holds NQC keywords, built-in functions and built-in constants.
//
//nolint:gochecknoglobals
var reserved = func() map[string]struct{} {
	words := strings.Fields(`
		__event_src __nolist __res __sensor __taskid __type
		abs acquire asm break case catch const continue default do else
		false for goto if inline int monitor repeat return sign start stop
		sub switch task true until void while

		AddToDatalog ClearMessage ClearSensor ClearTimer CreateDatalog Float
		Fwd Message Off On OnFor OnFwd OnRev PlaySound PlayTone Random Rev
		SelectDisplay SendMessage SensorMode SensorType SensorValue
		SetDirection SetOutput SetPower SetSensor SetSensorMode
		SetSensorType SetTxPower SetUserDisplay SetWatch StopAllTasks Timer
		Toggle UploadDatalog Wait Watch

		OUT_A OUT_B OUT_C OUT_FLOAT OUT_FULL OUT_FWD OUT_HALF OUT_LOW OUT_OFF
		OUT_ON OUT_REV OUT_TOGGLE
		SENSOR_1 SENSOR_2 SENSOR_3 SENSOR_CELSIUS SENSOR_EDGE
		SENSOR_FAHRENHEIT SENSOR_LIGHT SENSOR_PULSE SENSOR_ROTATION
		SENSOR_TOUCH SENSOR_MODE_BOOL SENSOR_MODE_CELSIUS SENSOR_MODE_EDGE
		SENSOR_MODE_FAHRENHEIT SENSOR_MODE_PERCENT SENSOR_MODE_PULSE
		SENSOR_MODE_RAW SENSOR_MODE_ROTATION SENSOR_TYPE_LIGHT
		SENSOR_TYPE_NONE SENSOR_TYPE_ROTATION SENSOR_TYPE_TEMPERATURE
		SENSOR_TYPE_TOUCH
		SOUND_CLICK SOUND_DOUBLE_BEEP SOUND_DOWN SOUND_FAST_UP SOUND_LOW_BEEP
		SOUND_UP TX_POWER_HI TX_POWER_LO
	`)

	m := make(map[string]struct{}, len(words))
	for _, w := range words {
		m[w] = struct{}{}
	}

	return m
}()

// IsReserved reports whether name is an NQC keyword or built-in.
func IsReserved(name string) bool {
	_, ok := reserved[name]

	return ok
}

var (
	identPattern   = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)
	invalidIdentCh = regexp.MustCompile(`[^A-Za-z0-9_]`)
)

// Sanitize turns user text into an identifier: invalid characters become
// underscores and a leading digit gets an underscore prefix.
func Sanitize(raw string) string {
	name := invalidIdentCh.ReplaceAllString(strings.TrimSpace(raw), "_")
	if name != "" && name[0] >= '0' && name[0] <= '9' {
		name = "_" + name
	}

	return name
}

// identifier resolves the user name held by field of n under policy. An
// empty name resolves to "".
func identifier(
	policy ReservedPolicy,
	n *block.Node,
	field string,
	subprogram bool,
) (string, error) {
	name := Sanitize(n.Field(field))
	if name == "" {
		return "", nil
	}

	// A named task called main would clash with the entry point.
	taken := func(s string) bool { return IsReserved(s) || (subprogram && s == "main") }

	if !taken(name) {
		return name, nil
	}

	if policy == ReservedReject {
		return "", ErrReservedName.With(
			slog.String("node", n.ID().String()),
			slog.String("kind", string(n.Kind())),
			slog.String("name", name),
		).Wrap(reservedError(name))
	}

	for taken(name) {
		name += "_"
	}

	return name, nil
}

type reservedError string

func (e reservedError) Error() string {
	return `"` + string(e) + `" is an NQC keyword or built-in`
}
