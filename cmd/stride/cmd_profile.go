package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/lmagsino/stride/internal/codec"

	"github.com/spf13/cobra"
)

func newProfileCmd(app *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "profile",
		Short: "Show your runner profile and race history",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if _, err := app.requireUser(cmd); err != nil {
				return err
			}
			resp, err := app.client.GetProfile(cmd.Context())
			if err != nil {
				return userError(err)
			}

			out := cmd.OutOrStdout()
			if p := resp.Profile; p == nil {
				fmt.Fprintln(out, "No profile yet. Run `stride onboard --file <answers.yaml>`.")
			} else {
				fmt.Fprintf(out, "Experience:     %s\n", p.ExperienceLevel)
				fmt.Fprintf(out, "Weekly km:      %g\n", p.CurrentWeeklyKm)
				fmt.Fprintf(out, "Days per week:  %d\n", p.AvailableDays)
				fmt.Fprintf(out, "Long run day:   %s\n", codec.FormatDayLabel(p.PreferredLongRunDay))
				if p.InjuryNotes != nil && *p.InjuryNotes != "" {
					fmt.Fprintf(out, "Injury notes:   %s\n", *p.InjuryNotes)
				}
			}

			if len(resp.RaceHistories) == 0 {
				return nil
			}
			fmt.Fprintln(out)
			tw := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
			fmt.Fprintln(tw, "ID\tDATE\tRACE\tKM\tTIME")
			for _, r := range resp.RaceHistories {
				name := ""
				if r.RaceName != nil {
					name = *r.RaceName
				}
				fmt.Fprintf(tw, "%s\t%s\t%s\t%g\t%s\n", r.ID, r.RaceDate, name, r.DistanceKm, codec.SecondsToTimeString(r.FinishTimeSecs))
			}
			return tw.Flush()
		},
	}
}

func newRaceCmd(app *cli) *cobra.Command {
	race := &cobra.Command{
		Use:   "race",
		Short: "Manage race history",
	}
	race.AddCommand(&cobra.Command{
		Use:   "delete <id>",
		Short: "Delete one race from your history",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := app.requireUser(cmd); err != nil {
				return err
			}
			if err := app.client.DeleteRace(cmd.Context(), args[0]); err != nil {
				return userError(err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Race history deleted")
			return nil
		},
	})
	return race
}
