package onboarding

// RaceEntry is one past race captured on the fitness step.
type RaceEntry struct {
	RaceName       string  `json:"race_name"`
	DistanceKm     float64 `json:"distance_km"`
	FinishTimeSecs int     `json:"finish_time_secs"`
	RaceDate       string  `json:"race_date"`
}

// Data is the form state accumulated by a wizard session. Zero values are
// the "unset" sentinels: "" for strings, 0 for numbers.
type Data struct {
	ExperienceLevel     string
	CurrentWeeklyKm     float64
	AvailableDays       int
	PreferredLongRunDay string
	InjuryNotes         string
	Races               []RaceEntry
}

// Patch carries a partial update. Nil fields are left alone; a non-nil
// Races replaces the whole list.
type Patch struct {
	ExperienceLevel     *string
	CurrentWeeklyKm     *float64
	AvailableDays       *int
	PreferredLongRunDay *string
	InjuryNotes         *string
	Races               []RaceEntry
}

func (d Data) clone() Data {
	if d.Races != nil {
		races := make([]RaceEntry, len(d.Races))
		copy(races, d.Races)
		d.Races = races
	}
	return d
}

func (d Data) apply(p Patch) Data {
	out := d.clone()
	if p.ExperienceLevel != nil {
		out.ExperienceLevel = *p.ExperienceLevel
	}
	if p.CurrentWeeklyKm != nil {
		out.CurrentWeeklyKm = *p.CurrentWeeklyKm
	}
	if p.AvailableDays != nil {
		out.AvailableDays = *p.AvailableDays
	}
	if p.PreferredLongRunDay != nil {
		out.PreferredLongRunDay = *p.PreferredLongRunDay
	}
	if p.InjuryNotes != nil {
		out.InjuryNotes = *p.InjuryNotes
	}
	if p.Races != nil {
		out.Races = append([]RaceEntry{}, p.Races...)
	}
	return out
}
