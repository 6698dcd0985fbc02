// Copyright 2023 - 2025, VnPower and the PixivFE contributors
// SPDX-License-Identifier: AGPL-3.0-only

package message

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// ModifierFunc transforms a resolved placeholder value. The input is the
// previous chain stage's output: the originally resolved value for the first
// modifier, a string afterwards.
type ModifierFunc func(value any) (string, error)

// customModifiers is the user-extensible modifier registry, consulted only
// after the built-in families. Read-only once rendering starts.
var customModifiers = map[string]ModifierFunc{}

// RegisterModifier installs a custom modifier under name. It must be called
// during setup, before any concurrent rendering; later registration is a
// data race by contract. The first registration for a name wins.
func RegisterModifier(name string, fn ModifierFunc) {
	if _, ok := customModifiers[name]; ok {
		return
	}

	customModifiers[name] = fn
}

// applyModifiers runs the placeholder's modifier chain over value. An empty
// chain stringifies the value unchanged.
func applyModifiers(specs []ModifierSpec, value any) (string, error) {
	if len(specs) == 0 {
		return stringify(value), nil
	}

	cur := value

	for _, spec := range specs {
		out, err := applyModifier(spec, cur)
		if err != nil {
			return "", err
		}

		cur = out
	}

	return cur.(string), nil
}

func applyModifier(spec ModifierSpec, value any) (string, error) {
	if spec.Spec != "" {
		return applyFormatSpec(spec.Spec, value)
	}

	switch spec.Name {
	case "BYTES":
		return applyBytes(value)
	case "YEAR":
		return applyDateTime(value, "2006")
	case "DATE":
		return applyDateTime(value, time.DateOnly)
	case "TIME":
		return applyDateTime(value, time.TimeOnly)
	case "DT":
		layout, ok := dtLayouts[spec.Arg]
		if !ok {
			return "", fmt.Errorf("%w: DT(%s)", ErrUnknownModifier, spec.Arg)
		}

		return applyDateTime(value, layout)
	}

	if fn, ok := customModifiers[spec.Name]; ok {
		return fn(value)
	}

	return "", fmt.Errorf("%w: %s", ErrUnknownModifier, spec.Name)
}

// applyFormatSpec applies a single POSIX-style conversion such as "%d",
// "%.2f" or "%-10s" to value, coercing it to the type the verb expects.
func applyFormatSpec(spec string, value any) (string, error) {
	verb := spec[len(spec)-1]

	switch verb {
	case 'd', 'i', 'o', 'x', 'X', 'b', 'c':
		n, err := toInt(value)
		if err != nil {
			return "", fmt.Errorf("%s: %w", spec, err)
		}

		if verb == 'i' { // C-style alias for %d
			spec = spec[:len(spec)-1] + "d"
		}

		return fmt.Sprintf(spec, n), nil

	case 'e', 'E', 'f', 'F', 'g', 'G':
		f, err := toFloat(value)
		if err != nil {
			return "", fmt.Errorf("%s: %w", spec, err)
		}

		return fmt.Sprintf(spec, f), nil

	case 's', 'q', 'v':
		return fmt.Sprintf(spec, stringify(value)), nil

	default:
		return "", fmt.Errorf("%w: %s", ErrUnknownModifier, spec)
	}
}

// byteUnits are binary magnitude steps; each is 1024 times the previous.
var byteUnits = []string{"B", "KB", "MB", "GB", "TB", "PB", "EB"}

// applyBytes humanizes a byte count: the smallest unit keeping the magnitude
// in [1, 1024), rendered with one decimal.
func applyBytes(value any) (string, error) {
	n, err := toFloat(value)
	if err != nil {
		return "", fmt.Errorf("BYTES: %w", err)
	}

	unit := 0
	for n >= 1024 && unit < len(byteUnits)-1 {
		n /= 1024
		unit++
	}

	return fmt.Sprintf("%.1f %s", n, byteUnits[unit]), nil
}

// dtLayouts maps DT() keywords to time layouts. DATETIME is the default
// full form; the rest mirror the standard library's named layouts.
var dtLayouts = map[string]string{
	"DATETIME": time.DateTime,
	"RFC3339":  time.RFC3339,
	"RFC1123":  time.RFC1123,
	"RFC822":   time.RFC822,
	"ANSIC":    time.ANSIC,
	"STAMP":    time.Stamp,
	"KITCHEN":  time.Kitchen,
}

// dateInputLayouts are the accepted textual date/time encodings, tried in
// order.
var dateInputLayouts = []string{
	time.RFC3339,
	time.DateTime,
	"2006-01-02T15:04:05",
	time.DateOnly,
	time.TimeOnly,
}

// applyDateTime re-renders a date/time value using layout. Accepted inputs:
// time.Time, epoch seconds (any numeric type or digit string), ISO date,
// ISO datetime.
func applyDateTime(value any, layout string) (string, error) {
	t, err := toTime(value)
	if err != nil {
		return "", err
	}

	return t.Format(layout), nil
}

func toTime(value any) (time.Time, error) {
	switch v := value.(type) {
	case time.Time:
		return v, nil
	case int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64:
		n, _ := toInt(v)

		return time.Unix(n, 0).UTC(), nil
	}

	s := strings.TrimSpace(stringify(value))

	if epoch, err := strconv.ParseInt(s, 10, 64); err == nil {
		return time.Unix(epoch, 0).UTC(), nil
	}

	for _, layout := range dateInputLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}

	return time.Time{}, fmt.Errorf("%w: %q", ErrBadDateTime, s)
}

// toInt coerces value to an int64, accepting all integer kinds, floats with
// integral truncation, bools, and numeric strings.
func toInt(value any) (int64, error) {
	switch v := value.(type) {
	case int:
		return int64(v), nil
	case int8:
		return int64(v), nil
	case int16:
		return int64(v), nil
	case int32:
		return int64(v), nil
	case int64:
		return v, nil
	case uint:
		return int64(v), nil
	case uint8:
		return int64(v), nil
	case uint16:
		return int64(v), nil
	case uint32:
		return int64(v), nil
	case uint64:
		return int64(v), nil
	case float32:
		return int64(v), nil
	case float64:
		return int64(v), nil
	case bool:
		if v {
			return 1, nil
		}

		return 0, nil
	case string:
		n, err := strconv.ParseInt(strings.TrimSpace(v), 10, 64)
		if err != nil {
			return 0, fmt.Errorf("%w: %q", ErrNotNumeric, v)
		}

		return n, nil
	default:
		return 0, fmt.Errorf("%w: %T", ErrNotNumeric, value)
	}
}

func toFloat(value any) (float64, error) {
	switch v := value.(type) {
	case float32:
		return float64(v), nil
	case float64:
		return v, nil
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		if err != nil {
			return 0, fmt.Errorf("%w: %q", ErrNotNumeric, v)
		}

		return f, nil
	default:
		n, err := toInt(value)
		if err != nil {
			return 0, err
		}

		return float64(n), nil
	}
}

// stringify renders any value the way the formatter inserts it when no
// modifier says otherwise.
func stringify(value any) string {
	switch v := value.(type) {
	case nil:
		return ""
	case string:
		return v
	case fmt.Stringer:
		return v.String()
	default:
		return fmt.Sprint(v)
	}
}
