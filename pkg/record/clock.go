package record

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// ErrInvalidClock is returned when a time of day is not in HH:MM:SS form.
var ErrInvalidClock = errors.New("time must be expressed in hh:mm:ss format")

// Clock bounds.
const (
	clockParts       = 3
	secondsPerMinute = 60
	secondsPerHour   = 60 * secondsPerMinute
	maxHour          = 23
	maxMinute        = 59
	maxSecond        = 59
)

// Clock is a wall-clock time of day expressed as seconds since midnight.
type Clock int32

// ParseClock parses an HH:MM:SS time of day. Hours may be written with one
// digit; minutes and seconds need two.
func ParseClock(value string) (Clock, error) {
	parts := strings.Split(value, ":")
	if len(parts) != clockParts {
		return 0, fmt.Errorf("%w: %q", ErrInvalidClock, value)
	}

	limits := [clockParts]int{maxHour, maxMinute, maxSecond}
	fields := [clockParts]int{}

	for idx, part := range parts {
		if part == "" || len(part) > 2 || (idx > 0 && len(part) != 2) {
			return 0, fmt.Errorf("%w: %q", ErrInvalidClock, value)
		}

		num, err := strconv.Atoi(part)
		if err != nil || num < 0 || num > limits[idx] {
			return 0, fmt.Errorf("%w: %q", ErrInvalidClock, value)
		}

		fields[idx] = num
	}

	return Clock(fields[0]*secondsPerHour + fields[1]*secondsPerMinute + fields[2]), nil
}

// String formats the clock as HH:MM:SS.
func (c Clock) String() string {
	secs := int(c)

	return fmt.Sprintf("%02d:%02d:%02d", secs/secondsPerHour, secs%secondsPerHour/secondsPerMinute, secs%secondsPerMinute)
}

// Sub returns the signed number of seconds from other to c.
func (c Clock) Sub(other Clock) int64 {
	return int64(c) - int64(other)
}

// Elapsed returns the seconds between two same-day times of day. The result
// is negative when exit precedes entry; callers decide whether that is valid.
func Elapsed(entry, exit string) (int64, error) {
	in, err := ParseClock(entry)
	if err != nil {
		return 0, fmt.Errorf("entry: %w", err)
	}

	out, err := ParseClock(exit)
	if err != nil {
		return 0, fmt.Errorf("exit: %w", err)
	}

	return out.Sub(in), nil
}
