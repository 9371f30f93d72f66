package root

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"fateline/internal/engine"
	"fateline/internal/ui"
)

func newChallengeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "challenge",
		Short: "Today's random challenges",
	}
	cmd.AddCommand(newChallengeListCmd(), newChallengeDoneCmd())
	return cmd
}

func newChallengeListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "Show today's three challenges",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			eng, cleanup, err := openEngine(ctx)
			if err != nil {
				return err
			}
			defer cleanup()

			eng.EnsureTodaysChallenges()
			st := eng.Snapshot()
			today := time.Now().Format(engine.DateFormat)
			done := map[string]bool{}
			for _, t := range st.CompletedRandomTasks[today] {
				done[t] = true
			}

			out := cmd.OutOrStdout()
			fmt.Fprintln(out, ui.Heading(ui.IconTarget, "Today's challenges"))
			for _, t := range st.TodaysChallenges.Tasks {
				mark := "[ ]"
				if done[t] {
					mark = ui.Good.Render("[x]")
				}
				fmt.Fprintf(out, "%s %s\n", mark, t)
			}
			return nil
		},
	}
}

func newChallengeDoneCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "done <text>",
		Short: "Toggle a challenge's completion",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			eng, cleanup, err := openEngine(ctx)
			if err != nil {
				return err
			}
			defer cleanup()

			eng.ToggleChallenge(strings.Join(args, " "))
			st := eng.Snapshot()
			fmt.Fprintf(cmd.OutOrStdout(), "%s Toggled. Gold: %d, XP: %d\n", ui.IconDone, st.Balance, st.XP)
			return nil
		},
	}
}
