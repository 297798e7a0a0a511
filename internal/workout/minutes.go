package workout

import (
	"errors"
	"math"
	"strconv"
	"strings"
)

var (
	ErrDurationMissing     = errors.New("duration is required")
	ErrDurationNotNumber   = errors.New("duration is not a number")
	ErrDurationNotPositive = errors.New("duration must be positive")
	ErrDurationNotWhole    = errors.New("duration must be whole minutes")
)

// Minutes is an exercise duration as typed by the user. It is either unset
// or holds the parsed number, which may be NaN for non-numeric input.
// Nothing is rejected until Int is called at submit time.
type Minutes struct {
	value float64
	set   bool
}

// MinutesOf returns a set duration of n minutes.
func MinutesOf(n int) Minutes {
	return Minutes{value: float64(n), set: true}
}

// ParseMinutes coerces raw input. Blank input is unset; anything else that
// does not parse becomes NaN.
func ParseMinutes(raw string) Minutes {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return Minutes{}
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return Minutes{value: math.NaN(), set: true}
	}
	return Minutes{value: v, set: true}
}

// IsSet reports whether any value was entered.
func (m Minutes) IsSet() bool { return m.set }

// String renders the value for an input field; unset is "".
func (m Minutes) String() string {
	if !m.set {
		return ""
	}
	return strconv.FormatFloat(m.value, 'f', -1, 64)
}

// Int validates m and returns whole minutes.
func (m Minutes) Int() (int, error) {
	switch {
	case !m.set:
		return 0, ErrDurationMissing
	case math.IsNaN(m.value) || math.IsInf(m.value, 0):
		return 0, ErrDurationNotNumber
	case m.value <= 0:
		return 0, ErrDurationNotPositive
	case m.value != math.Trunc(m.value):
		return 0, ErrDurationNotWhole
	}
	return int(m.value), nil
}

// Equal reports value equality; two NaN durations are equal.
func (m Minutes) Equal(o Minutes) bool {
	if m.set != o.set {
		return false
	}
	if !m.set {
		return true
	}
	if math.IsNaN(m.value) && math.IsNaN(o.value) {
		return true
	}
	return m.value == o.value
}
