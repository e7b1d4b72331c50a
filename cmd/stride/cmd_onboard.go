package main

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/lmagsino/stride/internal/codec"
	"github.com/lmagsino/stride/internal/onboarding"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

// answersFile is the YAML form of the onboarding questions.
type answersFile struct {
	ExperienceLevel     string        `yaml:"experience_level"`
	CurrentWeeklyKm     float64       `yaml:"current_weekly_km"`
	AvailableDays       int           `yaml:"available_days"`
	PreferredLongRunDay string        `yaml:"preferred_long_run_day"`
	InjuryNotes         string        `yaml:"injury_notes"`
	Races               []answersRace `yaml:"races"`
}

type answersRace struct {
	Name       string  `yaml:"name"`
	DistanceKm float64 `yaml:"distance_km"`
	FinishTime string  `yaml:"finish_time"`
	Date       string  `yaml:"date"`
}

func loadAnswers(r io.Reader) (onboarding.Data, error) {
	var f answersFile
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&f); err != nil && !errors.Is(err, io.EOF) {
		return onboarding.Data{}, fmt.Errorf("parse answers: %w", err)
	}
	return f.data(), nil
}

func (f answersFile) data() onboarding.Data {
	d := onboarding.Data{
		ExperienceLevel:     f.ExperienceLevel,
		CurrentWeeklyKm:     f.CurrentWeeklyKm,
		AvailableDays:       f.AvailableDays,
		PreferredLongRunDay: f.PreferredLongRunDay,
		InjuryNotes:         f.InjuryNotes,
	}
	for _, r := range f.Races {
		d.Races = append(d.Races, onboarding.RaceEntry{
			RaceName:       r.Name,
			DistanceKm:     r.DistanceKm,
			FinishTimeSecs: codec.TimeStringToSeconds(r.FinishTime),
			RaceDate:       r.Date,
		})
	}
	return d
}

func newOnboardCmd(app *cli) *cobra.Command {
	var file string
	cmd := &cobra.Command{
		Use:   "onboard",
		Short: "Create your runner profile from a YAML answers file",
		Long: `Walks the onboarding steps (experience, fitness, preferences, review)
using the answers in --file, then saves the profile and each race.

Example answers file:

  experience_level: intermediate
  current_weekly_km: 30
  available_days: 4
  preferred_long_run_day: saturday
  injury_notes: ""
  races:
    - name: Parkrun
      distance_km: 5
      finish_time: "0:24:10"
      date: "2025-01-01"`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			u, err := app.requireUser(cmd)
			if err != nil {
				return err
			}
			if u.HasProfile {
				return errors.New("you already have a profile; see `stride profile`")
			}

			fh, err := os.Open(file)
			if err != nil {
				return err
			}
			defer fh.Close()
			data, err := loadAnswers(fh)
			if err != nil {
				return err
			}

			pipeline := onboarding.NewPipeline(app.client.Store(), app.session, app.log)
			return runOnboarding(cmd, pipeline, data)
		},
	}
	cmd.Flags().StringVarP(&file, "file", "f", "", "YAML answers file")
	_ = cmd.MarkFlagRequired("file")
	return cmd
}

// runOnboarding drives the wizard to the review step, then submits.
func runOnboarding(cmd *cobra.Command, pipeline *onboarding.Pipeline, data onboarding.Data) error {
	out := cmd.OutOrStdout()
	w := onboarding.NewWizard().Update(patchFor(data))

	for w.Step() != onboarding.StepReview {
		step := w.Step()
		w = w.Advance()
		if msg := w.Err(); msg != "" {
			return fmt.Errorf("%s: %s", step.Title(), msg)
		}
		fmt.Fprintf(out, "%s ok\n", step.Title())
	}

	printReview(out, w.Data())

	w, err := pipeline.SubmitWizard(cmd.Context(), w)
	if err != nil {
		var raceErr *onboarding.RaceError
		if errors.As(err, &raceErr) && raceErr.Created > 0 {
			fmt.Fprintf(cmd.ErrOrStderr(), "Note: %d race(s) were already saved before the failure.\n", raceErr.Created)
		}
		return errors.New(w.Err())
	}
	fmt.Fprintln(out, "Profile saved. You're ready to run!")
	return nil
}

func patchFor(d onboarding.Data) onboarding.Patch {
	races := d.Races
	if races == nil {
		races = []onboarding.RaceEntry{}
	}
	return onboarding.Patch{
		ExperienceLevel:     &d.ExperienceLevel,
		CurrentWeeklyKm:     &d.CurrentWeeklyKm,
		AvailableDays:       &d.AvailableDays,
		PreferredLongRunDay: &d.PreferredLongRunDay,
		InjuryNotes:         &d.InjuryNotes,
		Races:               races,
	}
}

func printReview(out io.Writer, d onboarding.Data) {
	fmt.Fprintln(out, "Review")
	fmt.Fprintf(out, "  Experience:    %s\n", d.ExperienceLevel)
	fmt.Fprintf(out, "  Weekly km:     %g\n", d.CurrentWeeklyKm)
	fmt.Fprintf(out, "  Days per week: %d\n", d.AvailableDays)
	fmt.Fprintf(out, "  Long run day:  %s\n", codec.FormatDayLabel(d.PreferredLongRunDay))
	for i, r := range d.Races {
		fmt.Fprintf(out, "  Race %d:        %s, %g km in %s on %s\n", i+1, r.RaceName, r.DistanceKm, codec.SecondsToTimeString(r.FinishTimeSecs), r.RaceDate)
	}
}
