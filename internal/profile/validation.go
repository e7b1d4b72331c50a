package profile

import (
	"bytes"
	"encoding/json"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/lmagsino/stride/internal/codec"
)

// ProfileInput is the body of a profile update. Fields are kept raw so an
// absent key (keep the stored value) differs from an explicit null.
type ProfileInput struct {
	ExperienceLevel     json.RawMessage `json:"experience_level"`
	CurrentWeeklyKm     json.RawMessage `json:"current_weekly_km"`
	AvailableDays       json.RawMessage `json:"available_days"`
	PreferredLongRunDay json.RawMessage `json:"preferred_long_run_day"`
	InjuryNotes         json.RawMessage `json:"injury_notes"`
}

// Apply assigns every present field onto p and returns the validation
// messages for the result. p is only meaningful when no messages return.
func (in ProfileInput) Apply(p *Profile) []string {
	var details []string

	if in.ExperienceLevel != nil {
		switch v := decodeScalar(in.ExperienceLevel).(type) {
		case nil:
			details = append(details, "Experience level can't be blank")
		case string:
			if strings.TrimSpace(v) == "" {
				details = append(details, "Experience level can't be blank")
			} else if idx, ok := ExperienceLevelIndex(v); ok {
				p.ExperienceLevel = idx
			} else if n, err := strconv.Atoi(v); err == nil && ExperienceLevelName(n) != "" {
				p.ExperienceLevel = n
			} else {
				details = append(details, "Experience level is not included in the list")
			}
		case float64:
			if n, ok := wholeNumber(v); ok && ExperienceLevelName(n) != "" {
				p.ExperienceLevel = n
			} else {
				details = append(details, "Experience level is not included in the list")
			}
		default:
			details = append(details, "Experience level is not included in the list")
		}
	}

	if in.CurrentWeeklyKm != nil {
		km, msg := numberField(in.CurrentWeeklyKm, "Current weekly km")
		switch {
		case msg != "":
			details = append(details, msg)
		case km < 0:
			details = append(details, "Current weekly km must be greater than or equal to 0")
		default:
			p.CurrentWeeklyKm = km
		}
	}

	if in.AvailableDays != nil {
		days, msg := numberField(in.AvailableDays, "Available days")
		switch {
		case msg != "":
			details = append(details, msg)
		case days < 1 || days > 7:
			details = append(details, "Available days must be in 1..7")
		default:
			p.AvailableDays = int(days)
		}
	}

	if in.PreferredLongRunDay != nil {
		raw := in.PreferredLongRunDay
		if name, ok := decodeScalar(raw).(string); ok {
			if idx, found := codec.DayNameToIndex(name); found {
				raw = json.RawMessage(strconv.Itoa(idx))
			}
		}
		day, msg := numberField(raw, "Preferred long run day")
		switch {
		case msg != "":
			details = append(details, msg)
		case day < 0 || day > 6:
			details = append(details, "Preferred long run day must be in 0..6")
		default:
			p.PreferredLongRunDay = int(day)
		}
	}

	if in.InjuryNotes != nil {
		switch v := decodeScalar(in.InjuryNotes).(type) {
		case nil:
			p.InjuryNotes = nil
		case string:
			p.InjuryNotes = &v
		}
	}

	return details
}

// Validate returns the messages for a race about to be created.
func (in RaceInput) Validate() []string {
	var details []string
	switch {
	case in.DistanceKm == nil:
		details = append(details, "Distance km can't be blank")
	case *in.DistanceKm <= 0:
		details = append(details, "Distance km must be greater than 0")
	}
	switch {
	case in.FinishTimeSecs == nil:
		details = append(details, "Finish time secs can't be blank")
	case *in.FinishTimeSecs <= 0:
		details = append(details, "Finish time secs must be greater than 0")
	}
	if _, ok := in.date(); !ok {
		details = append(details, "Race date can't be blank")
	}
	return details
}

func (in RaceInput) date() (time.Time, bool) {
	d, err := time.Parse(dateLayout, strings.TrimSpace(in.RaceDate))
	if err != nil {
		return time.Time{}, false
	}
	return d, true
}

func decodeScalar(raw json.RawMessage) any {
	var v any
	dec := json.NewDecoder(bytes.NewReader(raw))
	if err := dec.Decode(&v); err != nil {
		return nil
	}
	return v
}

// numberField accepts JSON numbers and numeric strings.
func numberField(raw json.RawMessage, label string) (float64, string) {
	switch v := decodeScalar(raw).(type) {
	case nil:
		return 0, label + " can't be blank"
	case float64:
		return v, ""
	case string:
		s := strings.TrimSpace(v)
		if s == "" {
			return 0, label + " can't be blank"
		}
		n, err := strconv.ParseFloat(s, 64)
		if err != nil || math.IsNaN(n) || math.IsInf(n, 0) {
			return 0, label + " is not a number"
		}
		return n, ""
	default:
		return 0, label + " is not a number"
	}
}

func wholeNumber(v float64) (int, bool) {
	if v != math.Trunc(v) {
		return 0, false
	}
	return int(v), true
}
