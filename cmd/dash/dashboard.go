package dash

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/cmmeyer1800/accountabilidash/internal/model"
	"github.com/cmmeyer1800/accountabilidash/internal/progress"
	"github.com/cmmeyer1800/accountabilidash/internal/service"
)

var dashboardCmd = &cobra.Command{
	Use:   "dashboard",
	Short: "Show current-period progress for all active goals",
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := newEnv()
		if err != nil {
			return err
		}
		if err := requireSession(cmd, e); err != nil {
			return err
		}

		board, err := service.LoadDashboard(cmd.Context(), e.client)
		if err = checkAuthRejected(e, err); err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		if user := e.session.User(); user != nil {
			fmt.Fprintf(out, "Welcome back, %s\n\n", user.DisplayName())
		}
		if board.ActiveGoals == 0 {
			fmt.Fprintln(out, "No active goals. Create one with `dash goal add`.")
			return nil
		}

		fmt.Fprintf(out, "Active: %d   Completed this period: %d   Remaining: %d\n",
			board.ActiveGoals, board.CompletedCount, board.RemainingCount)

		if len(board.Pending) > 0 {
			fmt.Fprintln(out, "\nReady to check in")
			for _, g := range board.Pending {
				printDashboardRow(out, g)
			}
		}
		if len(board.Completed) > 0 {
			fmt.Fprintln(out, "\nCompleted this period")
			for _, g := range board.Completed {
				printDashboardRow(out, g)
			}
		}
		return nil
	},
}

func printDashboardRow(out io.Writer, g model.GoalWithProgress) {
	pct := progress.Percent(g.PeriodCompletions, g.TargetCount)
	mark := " "
	if g.IsCompleted {
		mark = "x"
	}
	fmt.Fprintf(out, "  [%s] %s %3d%%  %d/%d  %s (%s)  %s\n",
		mark, progress.Bar(pct, 20), pct,
		g.PeriodCompletions, g.TargetCount,
		g.Title, describeCadence(g.Goal), g.ID)
}

func init() {
	rootCmd.AddCommand(dashboardCmd)
}
