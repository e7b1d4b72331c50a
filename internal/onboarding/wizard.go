package onboarding

// Step identifies a wizard page.
type Step int

const (
	StepExperience Step = iota
	StepFitness
	StepPreferences
	StepReview
)

// Steps lists every step in order.
var Steps = []Step{StepExperience, StepFitness, StepPreferences, StepReview}

func (s Step) String() string {
	switch s {
	case StepExperience:
		return "experience"
	case StepFitness:
		return "fitness"
	case StepPreferences:
		return "preferences"
	case StepReview:
		return "review"
	default:
		return "unknown"
	}
}

// Title is the label shown above a step.
func (s Step) Title() string {
	switch s {
	case StepExperience:
		return "Experience"
	case StepFitness:
		return "Fitness"
	case StepPreferences:
		return "Preferences"
	case StepReview:
		return "Review"
	default:
		return ""
	}
}

// Wizard is the state of one onboarding session. It is a value: every
// transition returns a new Wizard and leaves the receiver untouched.
type Wizard struct {
	step Step
	data Data
	err  string
}

// NewWizard starts on the experience step with every field unset.
func NewWizard() Wizard {
	return Wizard{step: StepExperience}
}

func (w Wizard) Step() Step { return w.step }

// Data returns a copy of the accumulated form data.
func (w Wizard) Data() Data { return w.data.clone() }

// Err is the message left by the last failed transition or submission.
func (w Wizard) Err() string { return w.err }

// Advance validates the current step and moves forward when it passes. The
// review step is the last one; advancing from it stays put.
func (w Wizard) Advance() Wizard {
	if msg := Validate(w.step, w.data); msg != "" {
		w.err = msg
		return w
	}
	w.err = ""
	if w.step < StepReview {
		w.step++
	}
	return w
}

// Retreat moves back one step without validating.
func (w Wizard) Retreat() Wizard {
	w.err = ""
	if w.step > StepExperience {
		w.step--
	}
	return w
}

// Update merges p into the form data and clears any error.
func (w Wizard) Update(p Patch) Wizard {
	w.data = w.data.apply(p)
	w.err = ""
	return w
}

// AddRace appends an empty race entry.
func (w Wizard) AddRace() Wizard {
	races := append(w.Data().Races, RaceEntry{})
	return w.Update(Patch{Races: races})
}

// UpdateRace applies set to the race at index i. Out of range indexes leave
// the races unchanged.
func (w Wizard) UpdateRace(i int, set func(*RaceEntry)) Wizard {
	races := w.Data().Races
	if i >= 0 && i < len(races) {
		set(&races[i])
	}
	if races == nil {
		races = []RaceEntry{}
	}
	return w.Update(Patch{Races: races})
}

// RemoveRace drops the race at index i, keeping the others in order.
func (w Wizard) RemoveRace(i int) Wizard {
	current := w.Data().Races
	races := make([]RaceEntry, 0, len(current))
	for j, r := range current {
		if j != i {
			races = append(races, r)
		}
	}
	return w.Update(Patch{Races: races})
}

// ReadyToSubmit reports whether the wizard is on the review step and that
// step validates.
func (w Wizard) ReadyToSubmit() bool {
	return w.step == StepReview && Validate(w.step, w.data) == ""
}

// WithError returns w carrying msg, for failures that happen outside a
// transition such as a rejected submission.
func (w Wizard) WithError(msg string) Wizard {
	w.err = msg
	return w
}
