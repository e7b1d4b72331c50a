package onboarding

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func completeRace() RaceEntry {
	return RaceEntry{RaceName: "City 10K", DistanceKm: 10, FinishTimeSecs: 2700, RaceDate: "2025-03-01"}
}

func TestValidateExperience(t *testing.T) {
	assert.NotEmpty(t, Validate(StepExperience, Data{}))
	assert.Empty(t, Validate(StepExperience, Data{ExperienceLevel: "beginner"}))
}

func TestValidateFitness(t *testing.T) {
	assert.Equal(t, "Please enter your weekly mileage.", Validate(StepFitness, Data{}))
	assert.NotEmpty(t, Validate(StepFitness, Data{CurrentWeeklyKm: -3}))
	assert.Empty(t, Validate(StepFitness, Data{CurrentWeeklyKm: 25}))

	missingName := completeRace()
	missingName.RaceName = "  "
	msg := Validate(StepFitness, Data{CurrentWeeklyKm: 25, Races: []RaceEntry{missingName}})
	assert.Contains(t, msg, "Race 1")
	assert.Equal(t, "Race 1: Please enter a race name.", msg)

	assert.Empty(t, Validate(StepFitness, Data{CurrentWeeklyKm: 25, Races: []RaceEntry{completeRace(), completeRace()}}))
}

func TestValidateFitnessFirstErrorWins(t *testing.T) {
	second := completeRace()
	second.DistanceKm = 0
	second.RaceDate = ""
	third := completeRace()
	third.RaceName = ""

	msg := Validate(StepFitness, Data{CurrentWeeklyKm: 25, Races: []RaceEntry{completeRace(), second, third}})
	assert.Equal(t, "Race 2: Please enter a valid distance.", msg)

	noTime := completeRace()
	noTime.FinishTimeSecs = 0
	assert.Equal(t, "Race 1: Please enter a valid finish time.",
		Validate(StepFitness, Data{CurrentWeeklyKm: 25, Races: []RaceEntry{noTime}}))

	noDate := completeRace()
	noDate.RaceDate = ""
	assert.Equal(t, "Race 1: Please enter a race date.",
		Validate(StepFitness, Data{CurrentWeeklyKm: 25, Races: []RaceEntry{noDate}}))

	// mileage is checked before any race
	assert.Equal(t, "Please enter your weekly mileage.",
		Validate(StepFitness, Data{Races: []RaceEntry{third}}))
}

func TestValidatePreferences(t *testing.T) {
	assert.Equal(t, "Please select how many days you can train.", Validate(StepPreferences, Data{PreferredLongRunDay: "sunday"}))
	assert.Equal(t, "Please select your preferred long run day.", Validate(StepPreferences, Data{AvailableDays: 4}))
	assert.Empty(t, Validate(StepPreferences, Data{AvailableDays: 4, PreferredLongRunDay: "sunday"}))
}

func TestValidateReviewAlwaysPasses(t *testing.T) {
	assert.Empty(t, Validate(StepReview, Data{}))
}
