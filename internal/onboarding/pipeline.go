package onboarding

import (
	"context"
	"errors"
	"fmt"

	"github.com/lmagsino/stride/internal/codec"

	"go.uber.org/zap"
)

// ProfileUpdate is the body of the profile-update call.
// PreferredLongRunDay holds the stored day index, or the raw form value
// when it does not name a day.
type ProfileUpdate struct {
	ExperienceLevel     string  `json:"experience_level"`
	CurrentWeeklyKm     float64 `json:"current_weekly_km"`
	AvailableDays       int     `json:"available_days"`
	PreferredLongRunDay any     `json:"preferred_long_run_day"`
	InjuryNotes         *string `json:"injury_notes"`
}

// Store persists a runner's profile and race history.
type Store interface {
	UpdateProfile(ctx context.Context, p ProfileUpdate) error
	CreateRace(ctx context.Context, r RaceEntry) error
}

// Refresher re-reads the signed-in user so the "has profile" flag is
// current.
type Refresher interface {
	Refresh(ctx context.Context) error
}

// ErrNotReady is returned when a wizard is submitted before its review step.
var ErrNotReady = errors.New("onboarding: wizard is not ready to submit")

// RaceError reports a race-create failure. Races before Position were
// already saved and stay saved.
type RaceError struct {
	Position int
	Created  int
	Err      error
}

func (e *RaceError) Error() string {
	return fmt.Sprintf("create race %d (%d already saved): %v", e.Position, e.Created, e.Err)
}

func (e *RaceError) Unwrap() error { return e.Err }

// Pipeline writes a finished onboarding session to the store. Calls are
// strictly sequential and never retried.
type Pipeline struct {
	store   Store
	session Refresher
	log     *zap.Logger
}

func NewPipeline(store Store, session Refresher, log *zap.Logger) *Pipeline {
	if log == nil {
		log = zap.NewNop()
	}
	return &Pipeline{store: store, session: session, log: log}
}

// Submit updates the profile, creates each race in order, then refreshes
// the session. A failed profile update stops before any race is sent; a
// failed race stops the remaining ones and returns a *RaceError.
func (p *Pipeline) Submit(ctx context.Context, d Data) error {
	update := NewProfileUpdate(d)
	p.log.Debug("updating profile", zap.Any("preferred_long_run_day", update.PreferredLongRunDay))
	if err := p.store.UpdateProfile(ctx, update); err != nil {
		p.log.Warn("profile update failed", zap.Error(err))
		return fmt.Errorf("update profile: %w", err)
	}

	for i, race := range d.Races {
		p.log.Debug("creating race", zap.Int("position", i+1), zap.String("race_name", race.RaceName))
		if err := p.store.CreateRace(ctx, race); err != nil {
			p.log.Warn("race create failed", zap.Int("position", i+1), zap.Int("saved", i), zap.Error(err))
			return &RaceError{Position: i + 1, Created: i, Err: err}
		}
	}

	if err := p.session.Refresh(ctx); err != nil {
		return fmt.Errorf("refresh session: %w", err)
	}
	p.log.Info("onboarding submitted", zap.Int("races", len(d.Races)))
	return nil
}

// SubmitWizard submits w when it is ready. On failure the returned wizard
// stays on the review step carrying a displayable message.
func (p *Pipeline) SubmitWizard(ctx context.Context, w Wizard) (Wizard, error) {
	if !w.ReadyToSubmit() {
		if msg := Validate(w.Step(), w.data); msg != "" {
			return w.WithError(msg), ErrNotReady
		}
		return w, ErrNotReady
	}
	if err := p.Submit(ctx, w.Data()); err != nil {
		return w.WithError(ErrorMessage(err)), err
	}
	return w.WithError(""), nil
}

// NewProfileUpdate builds the profile-update body from form data.
func NewProfileUpdate(d Data) ProfileUpdate {
	var day any = d.PreferredLongRunDay
	if idx, ok := codec.DayNameToIndex(d.PreferredLongRunDay); ok {
		day = idx
	}

	var notes *string
	if d.InjuryNotes != "" {
		n := d.InjuryNotes
		notes = &n
	}

	return ProfileUpdate{
		ExperienceLevel:     d.ExperienceLevel,
		CurrentWeeklyKm:     d.CurrentWeeklyKm,
		AvailableDays:       d.AvailableDays,
		PreferredLongRunDay: day,
		InjuryNotes:         notes,
	}
}

// ErrorMessage picks the text to show for a submission error: the error's
// own Display text when it has one, otherwise a generic message.
func ErrorMessage(err error) string {
	var d interface{ Display() string }
	if errors.As(err, &d) {
		return d.Display()
	}
	return "Something went wrong. Please try again."
}
