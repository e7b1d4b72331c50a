package onboarding

import (
	"fmt"
	"strings"
)

// Validate checks the fields owned by step and returns the first problem
// found, or "" when the step may be left. Races are checked in order and
// named by their 1-based position.
func Validate(step Step, d Data) string {
	switch step {
	case StepExperience:
		if d.ExperienceLevel == "" {
			return "Please select your experience level."
		}
	case StepFitness:
		if d.CurrentWeeklyKm <= 0 {
			return "Please enter your weekly mileage."
		}
		for i, race := range d.Races {
			if msg := validateRace(race); msg != "" {
				return fmt.Sprintf("Race %d: %s", i+1, msg)
			}
		}
	case StepPreferences:
		if d.AvailableDays <= 0 {
			return "Please select how many days you can train."
		}
		if d.PreferredLongRunDay == "" {
			return "Please select your preferred long run day."
		}
	}
	return ""
}

func validateRace(r RaceEntry) string {
	if strings.TrimSpace(r.RaceName) == "" {
		return "Please enter a race name."
	}
	if r.DistanceKm <= 0 {
		return "Please enter a valid distance."
	}
	if r.FinishTimeSecs <= 0 {
		return "Please enter a valid finish time."
	}
	if strings.TrimSpace(r.RaceDate) == "" {
		return "Please enter a race date."
	}
	return ""
}
