package root

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"fateline/internal/ui"
)

func newStatusCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "status",
		Short: "Show day, wallet, XP and today's progress",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			eng, cleanup, err := openEngine(ctx)
			if err != nil {
				return err
			}
			defer cleanup()

			st := eng.Snapshot()
			out := cmd.OutOrStdout()

			fmt.Fprintln(out, ui.Heading(ui.IconSparkle, fmt.Sprintf("Day %d", st.Day)))
			fmt.Fprintln(out, ui.LabelValue("Gold", st.Balance))
			fmt.Fprintln(out, ui.LabelValue("XP", st.XP))
			fmt.Fprintln(out, ui.LabelValue("Check-in streak", st.CheckinStreak))
			titles := eng.Titles()
			fmt.Fprintln(out, ui.LabelValue("Title", fmt.Sprintf("%s / %s / %s / %s", titles.Level, titles.Focus, titles.Wealth, titles.Rank)))
			if st.Bank.Balance > 0 {
				fmt.Fprintln(out, ui.LabelValue("Vault", fmt.Sprintf("%d (+%d interest earned)", st.Bank.Balance, st.Bank.TotalInterestEarned)))
			}
			fmt.Fprintln(out, "")

			fmt.Fprintln(out, ui.H2.Render("📊 Today"))
			fmt.Fprintf(out, "- %s focus: %d min\n", ui.IconBolt, st.TodayStats.FocusMinutes)
			fmt.Fprintf(out, "- %s tasks: %d\n", ui.IconDone, st.TodayStats.TasksCompleted)
			fmt.Fprintf(out, "- %s habits: %d\n", ui.IconLoop, st.TodayStats.HabitsDone)
			fmt.Fprintf(out, "- %s earned %s, spent %s\n", ui.IconCoin, ui.Good.Render(fmt.Sprintf("%d", st.TodayStats.Earnings)), ui.Bad.Render(fmt.Sprintf("%d", st.TodayStats.Spending)))
			fmt.Fprintln(out, "")

			fmt.Fprintln(out, ui.H2.Render("🎲 Fate dice"))
			fmt.Fprintf(out, "- spins today: %d/%d\n", st.Dice.TodayCount, st.Dice.Config.DailyLimit)
			if st.Dice.CurrentResult != nil {
				fmt.Fprintf(out, "- awaiting resolution: %s %s\n", ui.Warn.Render(st.Dice.CurrentResult.Task.Text), ui.Muted.Render("(fl resolve <completed|later|skipped>)"))
			}
			if n := len(st.Dice.PendingTasks); n > 0 {
				fmt.Fprintf(out, "- parked for later: %d\n", n)
			}
			fmt.Fprintln(out, "")

			if def, ok := eng.ActiveAchievement(); ok {
				fmt.Fprintln(out, ui.BadgeUnlocked)
				fmt.Fprintf(out, "%s %s %s\n", ui.IconTrophy, ui.Gold.Render(def.Title), ui.Muted.Render("(fl claim "+def.ID+")"))
				fmt.Fprintln(out, "")
			}

			fmt.Fprintln(out, ui.LabelValue("Weekly goal", st.WeeklyGoal))
			fmt.Fprintln(out, ui.LabelValue("Today's goal", st.TodayGoal))
			return nil
		},
	}

	return cmd
}
