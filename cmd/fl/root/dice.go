package root

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"fateline/internal/engine"
	"fateline/internal/ui"
)

func newDiceCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "dice",
		Short: "Manage the fate dice task pool and configuration",
	}
	cmd.AddCommand(
		newDiceTasksCmd(),
		newDiceAddCmd(),
		newDiceRemoveCmd(),
		newDiceConfigCmd(),
		newDiceHistoryCmd(),
		newDicePendingCmd(),
	)
	return cmd
}

func newDiceTasksCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "tasks",
		Short: "List the task pool by category",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			eng, cleanup, err := openEngine(ctx)
			if err != nil {
				return err
			}
			defer cleanup()

			st := eng.Snapshot()
			out := cmd.OutOrStdout()
			fmt.Fprintln(out, ui.Heading(ui.IconDice, "Fate dice pool"))
			for _, cat := range engine.DiceCategories {
				weight := st.Dice.Config.CategoryWeights[cat]
				fmt.Fprintf(out, "%s %s\n", ui.H2.Render(string(cat)), ui.Muted.Render(fmt.Sprintf("(weight %d)", weight)))
				for _, t := range st.Dice.TaskPool[cat] {
					reward := fmt.Sprintf("%d-%d gold", t.GoldRange[0], t.GoldRange[1])
					if t.XPRange != nil {
						reward += fmt.Sprintf(", %d-%d xp", t.XPRange[0], t.XPRange[1])
					}
					fmt.Fprintf(out, "  %s %s %s\n", ui.Key.Render(t.ID), t.Text, ui.Dim.Render("("+reward+")"))
				}
			}
			return nil
		},
	}
}

func newDiceAddCmd() *cobra.Command {
	var (
		category string
		goldMin  int
		goldMax  int
		xpMin    int
		xpMax    int
		duration int
	)
	cmd := &cobra.Command{
		Use:   "add <text>",
		Short: "Add a task to the pool",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			eng, cleanup, err := openEngine(ctx)
			if err != nil {
				return err
			}
			defer cleanup()

			task := engine.DiceTask{
				Text:      strings.Join(args, " "),
				Category:  engine.DiceCategory(category),
				GoldRange: [2]int{goldMin, goldMax},
				Duration:  duration,
			}
			if xpMax > 0 {
				r := [2]int{xpMin, xpMax}
				task.XPRange = &r
			}
			added, err := eng.AddDiceTask(task)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s Added %s to %s\n", ui.IconSparkle, ui.Key.Render(added.ID), added.Category)
			return nil
		},
	}
	cmd.Flags().StringVarP(&category, "category", "c", "health", "health, efficiency or leisure")
	cmd.Flags().IntVar(&goldMin, "gold-min", 5, "minimum gold reward")
	cmd.Flags().IntVar(&goldMax, "gold-max", 15, "maximum gold reward")
	cmd.Flags().IntVar(&xpMin, "xp-min", 0, "minimum xp reward")
	cmd.Flags().IntVar(&xpMax, "xp-max", 0, "maximum xp reward")
	cmd.Flags().IntVarP(&duration, "duration", "d", 0, "expected minutes")
	return cmd
}

func newDiceRemoveCmd() *cobra.Command {
	var category string
	cmd := &cobra.Command{
		Use:   "rm <id>",
		Short: "Remove a task from the pool",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			eng, cleanup, err := openEngine(ctx)
			if err != nil {
				return err
			}
			defer cleanup()

			eng.DeleteDiceTask(args[0], engine.DiceCategory(category))
			fmt.Fprintf(cmd.OutOrStdout(), "Removed %s\n", args[0])
			return nil
		},
	}
	cmd.Flags().StringVarP(&category, "category", "c", "health", "category the task lives in")
	return cmd
}

func newDiceConfigCmd() *cobra.Command {
	var (
		limit   int
		weights []string
	)
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Adjust daily limit and category weights",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			eng, cleanup, err := openEngine(ctx)
			if err != nil {
				return err
			}
			defer cleanup()

			w := map[engine.DiceCategory]int{}
			for _, pair := range weights {
				parts := strings.SplitN(pair, "=", 2)
				if len(parts) != 2 {
					return fmt.Errorf("weight %q must look like category=value", pair)
				}
				v, err := strconv.Atoi(parts[1])
				if err != nil {
					return fmt.Errorf("weight %q: %w", pair, err)
				}
				w[engine.DiceCategory(parts[0])] = v
			}
			eng.UpdateDiceConfig(limit, w)

			st := eng.Snapshot()
			fmt.Fprintf(cmd.OutOrStdout(), "Daily limit: %d, weights: %v\n", st.Dice.Config.DailyLimit, st.Dice.Config.CategoryWeights)
			return nil
		},
	}
	cmd.Flags().IntVarP(&limit, "limit", "l", 3, "max spins per day")
	cmd.Flags().StringArrayVarP(&weights, "weight", "w", nil, "category=weight (repeatable)")
	return cmd
}

func newDiceHistoryCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "history",
		Short: "Show recent dice draws",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			eng, cleanup, err := openEngine(ctx)
			if err != nil {
				return err
			}
			defer cleanup()

			st := eng.Snapshot()
			out := cmd.OutOrStdout()
			fmt.Fprintln(out, ui.Heading(ui.IconScroll, "Dice history"))
			for _, h := range st.Dice.History {
				fmt.Fprintf(out, "%s %s %s %s %s\n",
					ui.Muted.Render(h.Date), ui.StatusText(string(h.Outcome)), h.Text,
					ui.Delta(h.Gold), ui.Dim.Render(string(h.Category)))
			}
			return nil
		},
	}
}

func newDicePendingCmd() *cobra.Command {
	var complete, drop string
	cmd := &cobra.Command{
		Use:   "pending",
		Short: "List or settle dice tasks parked for later",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			eng, cleanup, err := openEngine(ctx)
			if err != nil {
				return err
			}
			defer cleanup()

			out := cmd.OutOrStdout()
			if complete != "" {
				if err := eng.CompletePendingDiceTask(complete); err != nil {
					return err
				}
				fmt.Fprintln(out, ui.Good.Render(ui.IconDone+" Completed."))
				return nil
			}
			if drop != "" {
				eng.AbandonPendingDiceTask(drop)
				fmt.Fprintln(out, ui.Muted.Render("Dropped."))
				return nil
			}

			st := eng.Snapshot()
			fmt.Fprintln(out, ui.Heading(ui.IconDice, "Parked fate tasks"))
			if len(st.Dice.PendingTasks) == 0 {
				fmt.Fprintln(out, ui.Muted.Render("(none)"))
				return nil
			}
			for _, rec := range st.Dice.PendingTasks {
				fmt.Fprintf(out, "%s %s %s\n", ui.Key.Render(rec.Task.ID), rec.Task.Text, ui.Delta(rec.Gold))
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&complete, "done", "", "complete the parked task with this id")
	cmd.Flags().StringVar(&drop, "drop", "", "abandon the parked task with this id")
	return cmd
}
