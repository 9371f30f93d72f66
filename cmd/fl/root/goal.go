package root

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"fateline/internal/ui"
)

func newGoalCmd() *cobra.Command {
	var weekly, today string
	cmd := &cobra.Command{
		Use:   "goal",
		Short: "Set the weekly and daily goal lines",
		RunE: func(cmd *cobra.Command, args []string) error {
			if weekly == "" && today == "" {
				return errors.New("pass --week and/or --today")
			}
			ctx := context.Background()
			eng, cleanup, err := openEngine(ctx)
			if err != nil {
				return err
			}
			defer cleanup()

			eng.SetGoals(weekly, today)
			st := eng.Snapshot()
			out := cmd.OutOrStdout()
			fmt.Fprintln(out, ui.LabelValue("Weekly goal", st.WeeklyGoal))
			fmt.Fprintln(out, ui.LabelValue("Today's goal", st.TodayGoal))
			return nil
		},
	}
	cmd.Flags().StringVar(&weekly, "week", "", "weekly goal text")
	cmd.Flags().StringVar(&today, "today", "", "daily goal text")
	return cmd
}
