package dash

import (
	"fmt"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/cmmeyer1800/accountabilidash/internal/model"
)

var goalCmd = &cobra.Command{
	Use:   "goal",
	Short: "Manage goals",
}

var (
	goalTitle       string
	goalDescription string
	goalType        string
	goalFrequency   string
	goalTarget      int
	goalValueType   string
	goalValueUnit   string
	goalStartDate   string
	goalEndDate     string
)

var goalAddCmd = &cobra.Command{
	Use:   "add",
	Short: "Create a goal",
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := newEnv()
		if err != nil {
			return err
		}
		if err := requireSession(cmd, e); err != nil {
			return err
		}

		create := model.GoalCreate{
			Title:       goalTitle,
			Description: goalDescription,
			GoalType:    model.GoalType(goalType),
			TargetCount: goalTarget,
			ValueType:   model.ValueType(goalValueType),
		}
		if goalFrequency != "" {
			f := model.Frequency(goalFrequency)
			create.Frequency = &f
		}
		if goalValueUnit != "" {
			create.ValueUnit = &goalValueUnit
		}
		if goalStartDate != "" {
			d, err := model.ParseDate(goalStartDate)
			if err != nil {
				return err
			}
			create.StartDate = &d
		}
		if goalEndDate != "" {
			d, err := model.ParseDate(goalEndDate)
			if err != nil {
				return err
			}
			create.EndDate = &d
		}
		if err := create.Validate(); err != nil {
			return err
		}

		goal, err := e.client.CreateGoal(cmd.Context(), create)
		if err = checkAuthRejected(e, err); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Created goal %s (%s)\n", goal.Title, goal.ID)
		return nil
	},
}

var goalListAll bool

var goalListCmd = &cobra.Command{
	Use:   "list",
	Short: "List goals",
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := newEnv()
		if err != nil {
			return err
		}
		if err := requireSession(cmd, e); err != nil {
			return err
		}

		goals, err := e.client.ListGoals(cmd.Context(), !goalListAll)
		if err = checkAuthRejected(e, err); err != nil {
			return err
		}
		if len(goals) == 0 {
			fmt.Fprintln(cmd.OutOrStdout(), "No goals. Create one with `dash goal add`.")
			return nil
		}
		fmt.Fprintln(cmd.OutOrStdout(), "ID\tTITLE\tTYPE\tTARGET\tACTIVE")
		for _, g := range goals {
			fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\t%s\t%d\t%t\n",
				g.ID, g.Title, describeCadence(g), g.TargetCount, g.IsActive)
		}
		return nil
	},
}

var goalShowCmd = &cobra.Command{
	Use:   "show <goal-id>",
	Short: "Show one goal",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := newEnv()
		if err != nil {
			return err
		}
		if err := requireSession(cmd, e); err != nil {
			return err
		}

		goal, err := e.client.GetGoal(cmd.Context(), args[0])
		if err = checkAuthRejected(e, err); err != nil {
			return err
		}
		printGoal(cmd, goal)
		return nil
	},
}

var (
	editTitle       string
	editDescription string
	editTarget      int
	editValueUnit   string
	editEndDate     string
	editActive      bool
	editInactive    bool
)

var goalEditCmd = &cobra.Command{
	Use:   "edit <goal-id>",
	Short: "Update fields of a goal",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := newEnv()
		if err != nil {
			return err
		}
		if err := requireSession(cmd, e); err != nil {
			return err
		}

		var update model.GoalUpdate
		if cmd.Flags().Changed("title") {
			update.Title = &editTitle
		}
		if cmd.Flags().Changed("description") {
			update.Description = &editDescription
		}
		if cmd.Flags().Changed("target") {
			update.TargetCount = &editTarget
		}
		if cmd.Flags().Changed("unit") {
			update.ValueUnit = &editValueUnit
		}
		if cmd.Flags().Changed("end") {
			d, err := model.ParseDate(editEndDate)
			if err != nil {
				return err
			}
			update.EndDate = &d
		}
		if editActive {
			t := true
			update.IsActive = &t
		}
		if editInactive {
			f := false
			update.IsActive = &f
		}
		if update.Empty() {
			return fmt.Errorf("set at least one flag")
		}

		goal, err := e.client.UpdateGoal(cmd.Context(), args[0], update)
		if err = checkAuthRejected(e, err); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Updated goal %s\n", goal.Title)
		return nil
	},
}

var goalDeleteCmd = &cobra.Command{
	Use:   "delete <goal-id>",
	Short: "Delete a goal",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := newEnv()
		if err != nil {
			return err
		}
		if err := requireSession(cmd, e); err != nil {
			return err
		}

		err = e.client.DeleteGoal(cmd.Context(), args[0])
		if err = checkAuthRejected(e, err); err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), "Deleted")
		return nil
	},
}

var goalCompletionsCmd = &cobra.Command{
	Use:   "completions <goal-id>",
	Short: "List this period's check-ins for a goal",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := newEnv()
		if err != nil {
			return err
		}
		if err := requireSession(cmd, e); err != nil {
			return err
		}

		goal, err := e.client.GetGoal(cmd.Context(), args[0])
		if err = checkAuthRejected(e, err); err != nil {
			return err
		}
		completions, err := e.client.ListCompletions(cmd.Context(), args[0])
		if err = checkAuthRejected(e, err); err != nil {
			return err
		}
		printCompletions(cmd, goal.ValueUnit, completions)
		return nil
	},
}

func printGoal(cmd *cobra.Command, g model.Goal) {
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Title: %s\n", g.Title)
	if g.Description != "" {
		fmt.Fprintf(out, "Description: %s\n", g.Description)
	}
	fmt.Fprintf(out, "Cadence: %s\n", describeCadence(g))
	fmt.Fprintf(out, "Target per period: %d\n", g.TargetCount)
	if g.ValueType != model.ValueTypeNone {
		unit := ""
		if g.ValueUnit != nil {
			unit = " (" + *g.ValueUnit + ")"
		}
		fmt.Fprintf(out, "Records: %s%s\n", g.ValueType, unit)
	}
	fmt.Fprintf(out, "Starts: %s\n", g.StartDate)
	if g.EndDate != nil {
		fmt.Fprintf(out, "Ends: %s\n", *g.EndDate)
	}
	fmt.Fprintf(out, "Active: %t\n", g.IsActive)
	fmt.Fprintf(out, "Created: %s\n", humanize.Time(g.CreatedAt))
}

func printCompletions(cmd *cobra.Command, unit *string, completions []model.GoalCompletion) {
	out := cmd.OutOrStdout()
	if len(completions) == 0 {
		fmt.Fprintln(out, "No submissions yet.")
		return
	}
	for _, c := range completions {
		line := humanize.Time(c.CompletedAt)
		if c.Value != nil {
			line += fmt.Sprintf("  %g", *c.Value)
			if unit != nil {
				line += " " + *unit
			}
		}
		if c.Note != nil && *c.Note != "" {
			line += "  " + *c.Note
		}
		if c.Value == nil && (c.Note == nil || *c.Note == "") {
			line += "  checked in"
		}
		fmt.Fprintln(out, line)
	}
}

var frequencyLabels = map[model.Frequency]string{
	model.FrequencyDaily:   "Daily",
	model.FrequencyWeekly:  "Weekly",
	model.FrequencyMonthly: "Monthly",
	model.FrequencyYearly:  "Yearly",
}

func describeCadence(g model.Goal) string {
	if g.GoalType == model.GoalTypePeriodic && g.Frequency != nil {
		if label, ok := frequencyLabels[*g.Frequency]; ok {
			return label
		}
		return string(*g.Frequency)
	}
	return "One-time"
}

func init() {
	rootCmd.AddCommand(goalCmd)
	goalCmd.AddCommand(goalAddCmd, goalListCmd, goalShowCmd, goalEditCmd, goalDeleteCmd, goalCompletionsCmd)

	goalAddCmd.Flags().StringVar(&goalTitle, "title", "", "Goal title")
	goalAddCmd.Flags().StringVar(&goalDescription, "description", "", "Optional description")
	goalAddCmd.Flags().StringVar(&goalType, "type", "one_time", "Goal type: periodic or one_time")
	goalAddCmd.Flags().StringVar(&goalFrequency, "frequency", "", "Period for periodic goals: daily, weekly, monthly, yearly")
	goalAddCmd.Flags().IntVar(&goalTarget, "target", 1, "Check-ins required per period")
	goalAddCmd.Flags().StringVar(&goalValueType, "value-type", "none", "Extra input per check-in: none, numeric, text")
	goalAddCmd.Flags().StringVar(&goalValueUnit, "unit", "", "Unit label for numeric values")
	goalAddCmd.Flags().StringVar(&goalStartDate, "start", "", "Start date YYYY-MM-DD (default today)")
	goalAddCmd.Flags().StringVar(&goalEndDate, "end", "", "End date YYYY-MM-DD")
	_ = goalAddCmd.MarkFlagRequired("title")

	goalListCmd.Flags().BoolVar(&goalListAll, "all", false, "Include inactive goals")

	goalEditCmd.Flags().StringVar(&editTitle, "title", "", "New title")
	goalEditCmd.Flags().StringVar(&editDescription, "description", "", "New description")
	goalEditCmd.Flags().IntVar(&editTarget, "target", 0, "New per-period target")
	goalEditCmd.Flags().StringVar(&editValueUnit, "unit", "", "New unit label")
	goalEditCmd.Flags().StringVar(&editEndDate, "end", "", "New end date YYYY-MM-DD")
	goalEditCmd.Flags().BoolVar(&editActive, "activate", false, "Mark the goal active")
	goalEditCmd.Flags().BoolVar(&editInactive, "deactivate", false, "Mark the goal inactive")
	goalEditCmd.MarkFlagsMutuallyExclusive("activate", "deactivate")
}
