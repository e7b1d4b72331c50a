package profile

import (
	"time"

	"github.com/lmagsino/stride/internal/codec"
)

const dateLayout = "2006-01-02"

// Column defaults for a profile created by its first update.
const (
	DefaultExperienceLevel     = 0
	DefaultCurrentWeeklyKm     = 0.0
	DefaultAvailableDays       = 3
	DefaultPreferredLongRunDay = 6
)

var experienceLevels = []string{"beginner", "intermediate", "advanced"}

// ExperienceLevelIndex maps a level name to its stored value.
func ExperienceLevelIndex(name string) (int, bool) {
	for i, level := range experienceLevels {
		if level == name {
			return i, true
		}
	}
	return 0, false
}

func ExperienceLevelName(idx int) string {
	if idx < 0 || idx >= len(experienceLevels) {
		return ""
	}
	return experienceLevels[idx]
}

type Profile struct {
	ID                  string
	UserID              string
	ExperienceLevel     int
	CurrentWeeklyKm     float64
	AvailableDays       int
	PreferredLongRunDay int
	InjuryNotes         *string
	CreatedAt           time.Time
	UpdatedAt           time.Time
}

func newProfile(userID string) Profile {
	return Profile{
		UserID:              userID,
		ExperienceLevel:     DefaultExperienceLevel,
		CurrentWeeklyKm:     DefaultCurrentWeeklyKm,
		AvailableDays:       DefaultAvailableDays,
		PreferredLongRunDay: DefaultPreferredLongRunDay,
	}
}

type ProfileView struct {
	ID                  string  `json:"id"`
	ExperienceLevel     string  `json:"experience_level"`
	CurrentWeeklyKm     float64 `json:"current_weekly_km"`
	AvailableDays       int     `json:"available_days"`
	PreferredLongRunDay string  `json:"preferred_long_run_day"`
	InjuryNotes         *string `json:"injury_notes"`
}

func (p Profile) View() ProfileView {
	day, _ := codec.DayIndexToName(p.PreferredLongRunDay)
	return ProfileView{
		ID:                  p.ID,
		ExperienceLevel:     ExperienceLevelName(p.ExperienceLevel),
		CurrentWeeklyKm:     p.CurrentWeeklyKm,
		AvailableDays:       p.AvailableDays,
		PreferredLongRunDay: day,
		InjuryNotes:         p.InjuryNotes,
	}
}

type RaceHistory struct {
	ID             string
	UserID         string
	RaceName       *string
	DistanceKm     float64
	FinishTimeSecs int
	RaceDate       time.Time
	Notes          *string
	CreatedAt      time.Time
}

type RaceView struct {
	ID             string  `json:"id"`
	RaceName       *string `json:"race_name"`
	DistanceKm     float64 `json:"distance_km"`
	FinishTime     string  `json:"finish_time"`
	FinishTimeSecs int     `json:"finish_time_secs"`
	RaceDate       string  `json:"race_date"`
	Notes          *string `json:"notes"`
}

func (r RaceHistory) View() RaceView {
	return RaceView{
		ID:             r.ID,
		RaceName:       r.RaceName,
		DistanceKm:     r.DistanceKm,
		FinishTime:     codec.SecondsToTimeString(r.FinishTimeSecs),
		FinishTimeSecs: r.FinishTimeSecs,
		RaceDate:       r.RaceDate.Format(dateLayout),
		Notes:          r.Notes,
	}
}

// RaceInput is the body of a race-create request.
type RaceInput struct {
	RaceName       *string  `json:"race_name"`
	DistanceKm     *float64 `json:"distance_km"`
	FinishTimeSecs *int     `json:"finish_time_secs"`
	RaceDate       string   `json:"race_date"`
	Notes          *string  `json:"notes"`
}
