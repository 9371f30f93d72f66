package root

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"fateline/internal/engine"
	"fateline/internal/ui"
)

func newHabitCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "habit",
		Short: "Manage daily habits",
	}
	cmd.AddCommand(
		newHabitListCmd(),
		newHabitDoneCmd(),
		newHabitAddCmd(),
		newHabitArchiveCmd(),
	)
	return cmd
}

func newHabitListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List habits with today's marks",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			eng, cleanup, err := openEngine(ctx)
			if err != nil {
				return err
			}
			defer cleanup()

			st := eng.Snapshot()
			today := time.Now().Format(engine.DateFormat)
			out := cmd.OutOrStdout()

			fmt.Fprintln(out, ui.Heading(ui.IconLoop, "Habits"))
			for _, h := range st.Habits {
				if h.Archived {
					continue
				}
				mark := "[ ]"
				if h.History[today] {
					mark = ui.Good.Render("[x]")
				}
				fmt.Fprintf(out, "%s %s %s %s\n",
					mark, ui.Key.Render(h.ID), h.Name,
					ui.Muted.Render(fmt.Sprintf("(+%d gold, +%d xp, streak %d)", h.Reward, h.XP, h.Streak)))
			}
			return nil
		},
	}
}

func newHabitDoneCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "done <id>",
		Short: "Toggle a habit's mark for today",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			eng, cleanup, err := openEngine(ctx)
			if err != nil {
				return err
			}
			defer cleanup()

			today := time.Now().Format(engine.DateFormat)
			eng.ToggleHabit(args[0], today)
			st := eng.Snapshot()
			fmt.Fprintf(cmd.OutOrStdout(), "%s Habit toggled. Gold: %d, XP: %d\n", ui.IconDone, st.Balance, st.XP)
			return nil
		},
	}
}

func newHabitAddCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "add <name> <reward>",
		Short: "Add a habit with a gold reward",
		Args: func(cmd *cobra.Command, args []string) error {
			if len(args) != 2 {
				return errors.New("name and reward are required")
			}
			if _, err := strconv.Atoi(args[1]); err != nil {
				return errors.New("reward must be an integer")
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			eng, cleanup, err := openEngine(ctx)
			if err != nil {
				return err
			}
			defer cleanup()

			reward, _ := strconv.Atoi(args[1])
			h := eng.AddHabit(args[0], reward)
			fmt.Fprintf(cmd.OutOrStdout(), "%s Added habit %s (%s)\n", ui.IconSparkle, ui.Key.Render(h.ID), h.Name)
			return nil
		},
	}
}

func newHabitArchiveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "archive <id>",
		Short: "Archive a habit (hide without deleting history)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			eng, cleanup, err := openEngine(ctx)
			if err != nil {
				return err
			}
			defer cleanup()

			eng.ArchiveHabit(args[0], true)
			fmt.Fprintf(cmd.OutOrStdout(), "Archived %s\n", args[0])
			return nil
		},
	}
}
