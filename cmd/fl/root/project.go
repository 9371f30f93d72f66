package root

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"fateline/internal/engine"
	"fateline/internal/ui"
)

func newProjectCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "project",
		Short: "Manage projects and their subtasks",
	}
	cmd.AddCommand(
		newProjectListCmd(),
		newProjectDoneCmd(),
		newProjectGiveUpCmd(),
		newProjectAddCmd(),
	)
	return cmd
}

func newProjectListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List projects and subtasks",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			eng, cleanup, err := openEngine(ctx)
			if err != nil {
				return err
			}
			defer cleanup()

			st := eng.Snapshot()
			out := cmd.OutOrStdout()
			fmt.Fprintln(out, ui.Heading(ui.IconTarget, "Projects"))
			for _, p := range st.Projects {
				fmt.Fprintf(out, "%s %s %s\n", ui.Key.Render(p.ID), ui.H2.Render(p.Name), ui.StatusText(string(p.Status)))
				for _, t := range p.SubTasks {
					mark := "[ ]"
					switch {
					case t.GivenUp:
						mark = ui.Bad.Render("[!]")
					case t.Completed:
						mark = ui.Good.Render("[x]")
					}
					fmt.Fprintf(out, "  %s %s %s %s\n", mark, ui.Muted.Render(t.ID), t.Title, ui.Dim.Render(fmt.Sprintf("(%dm)", t.Duration)))
				}
			}
			return nil
		},
	}
}

func newProjectDoneCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "done <project-id> <subtask-id>",
		Short: "Toggle a subtask's completion",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			eng, cleanup, err := openEngine(ctx)
			if err != nil {
				return err
			}
			defer cleanup()

			eng.ToggleSubTask(args[0], args[1])
			st := eng.Snapshot()
			for _, p := range st.Projects {
				if p.ID == args[0] && p.Status == engine.ProjectCompleted {
					fmt.Fprintln(cmd.OutOrStdout(), ui.Gold.Render(ui.IconTrophy+" Project complete! +100 gold, +200 XP"))
				}
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s Toggled. Gold: %d, XP: %d\n", ui.IconDone, st.Balance, st.XP)
			return nil
		},
	}
}

func newProjectGiveUpCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "giveup <project-id> <subtask-id>",
		Short: "Give up a subtask and let the fate dice decide a substitute",
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) != 2 {
				return fmt.Errorf("project-id and subtask-id are required")
			}
			ctx := context.Background()
			eng, cleanup, err := openEngine(ctx)
			if err != nil {
				return err
			}
			defer cleanup()

			outcome := eng.GiveUpSubTask(args[0], args[1])
			out := cmd.OutOrStdout()
			if !outcome.Success {
				fmt.Fprintln(out, ui.Warn.Render(ui.IconWarn+" Given up, but no spin: "+outcome.Message))
				return nil
			}
			fmt.Fprintf(out, "%s Given up. The dice rolled: %s %s\n",
				ui.IconDice, ui.H2.Render(outcome.Result.Task.Text), ui.Delta(outcome.Result.Gold))
			fmt.Fprintln(out, ui.Muted.Render("Resolve it with: fl resolve <completed|later|skipped>"))
			return nil
		},
	}
}

func newProjectAddCmd() *cobra.Command {
	var subtasks []string
	cmd := &cobra.Command{
		Use:   "add <name>",
		Short: "Add a project with optional subtasks",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			eng, cleanup, err := openEngine(ctx)
			if err != nil {
				return err
			}
			defer cleanup()

			var sts []engine.SubTask
			for _, s := range subtasks {
				sts = append(sts, engine.SubTask{Title: s})
			}
			p := eng.AddProject(strings.Join(args, " "), sts)
			fmt.Fprintf(cmd.OutOrStdout(), "%s Added project %s (%s) with %d subtasks\n", ui.IconSparkle, ui.Key.Render(p.ID), p.Name, len(p.SubTasks))
			return nil
		},
	}
	cmd.Flags().StringArrayVarP(&subtasks, "subtask", "t", nil, "subtask title (repeatable)")
	return cmd
}
