package dash

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/cmmeyer1800/accountabilidash/internal/progress"
	"github.com/cmmeyer1800/accountabilidash/internal/service"
)

var (
	checkinValue       string
	checkinNote        string
	checkinCompletions bool
)

var checkinCmd = &cobra.Command{
	Use:   "check-in <goal-id>",
	Short: "Record progress against a goal",
	Long: "Record a check-in. Goals that track no value take a quick check-in\n" +
		"with no payload; goals with a numeric or text value accept --value\n" +
		"and --note. Non-numeric --value input is treated as absent.",
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := newEnv()
		if err != nil {
			return err
		}
		if err := requireSession(cmd, e); err != nil {
			return err
		}

		in := service.CheckInInput{WantCompletions: checkinCompletions}
		if checkinValue != "" {
			in.Value = progress.ParseValue(checkinValue)
			if in.Value == nil {
				e.log.Debug("ignoring non-numeric value input")
			}
		}
		if checkinNote != "" {
			in.Note = &checkinNote
		}

		result, err := service.CheckIn(cmd.Context(), e.client, args[0], in)
		if err = checkAuthRejected(e, err); err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		if result.Goal != nil {
			g := result.Goal
			pct := progress.Percent(g.PeriodCompletions, g.TargetCount)
			if g.IsCompleted {
				fmt.Fprintf(out, "Checked in: %s is complete for this period (%d/%d)\n",
					g.Title, g.PeriodCompletions, g.TargetCount)
			} else {
				fmt.Fprintf(out, "Checked in: %s at %d%% (%d/%d, %d to go)\n",
					g.Title, pct, g.PeriodCompletions, g.TargetCount,
					progress.Remaining(g.PeriodCompletions, g.TargetCount))
			}
		} else {
			fmt.Fprintln(out, "Checked in")
		}

		if checkinCompletions {
			fmt.Fprintln(out, "\nSubmissions this period")
			var unit *string
			if result.Goal != nil {
				unit = result.Goal.ValueUnit
			}
			printCompletions(cmd, unit, result.Completions)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(checkinCmd)
	checkinCmd.Flags().StringVar(&checkinValue, "value", "", "Numeric value for this check-in")
	checkinCmd.Flags().StringVar(&checkinNote, "note", "", "Note for this check-in")
	checkinCmd.Flags().BoolVar(&checkinCompletions, "completions", false, "Show this period's submissions after checking in")
}
