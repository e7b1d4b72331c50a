// Package codec converts between the human-facing forms used during
// onboarding (day names, "H:MM:SS" times) and the stored forms (day index
// with Sunday=0, whole seconds).
package codec

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"
)

// dayNames is indexed by the stored day index.
var dayNames = [7]string{"sunday", "monday", "tuesday", "wednesday", "thursday", "friday", "saturday"}

// WeekDays lists day names in the order the onboarding form offers them.
var WeekDays = []string{"monday", "tuesday", "wednesday", "thursday", "friday", "saturday", "sunday"}

// TimeStringToSeconds parses "H:MM:SS" or "MM:SS" into seconds.
//
// Any other shape, a non-numeric or negative part, or a total too large for
// an int yields 0. A zero
// result is indistinguishable from an unset time; the fitness step rejects
// it as a missing finish time.
func TimeStringToSeconds(s string) int {
	parts := strings.Split(strings.TrimSpace(s), ":")
	if len(parts) < 2 || len(parts) > 3 {
		return 0
	}

	total := 0
	for _, p := range parts {
		n, err := strconv.Atoi(p)
		if err != nil || n < 0 || total > (math.MaxInt-n)/60 {
			return 0
		}
		total = total*60 + n
	}
	return total
}

// SecondsToTimeString renders secs as "H:MM:SS", keeping the hour even when
// it is zero. Negative input renders as "0:00:00".
func SecondsToTimeString(secs int) string {
	if secs < 0 {
		secs = 0
	}
	h := secs / 3600
	m := (secs % 3600) / 60
	s := secs % 60
	return fmt.Sprintf("%d:%02d:%02d", h, m, s)
}

// DayNameToIndex maps a day name, in any case, to its stored index.
func DayNameToIndex(name string) (int, bool) {
	key := strings.ToLower(strings.TrimSpace(name))
	for i, d := range dayNames {
		if d == key {
			return i, true
		}
	}
	return 0, false
}

// DayIndexToName is the inverse of DayNameToIndex.
func DayIndexToName(idx int) (string, bool) {
	if idx < 0 || idx >= len(dayNames) {
		return "", false
	}
	return dayNames[idx], true
}

// FormatDayLabel upper-cases the first letter of name and leaves the rest
// untouched.
func FormatDayLabel(name string) string {
	r, size := utf8.DecodeRuneInString(name)
	if r == utf8.RuneError {
		return name
	}
	return string(unicode.ToUpper(r)) + name[size:]
}
