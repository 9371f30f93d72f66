package root

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"fateline/internal/engine"
	"fateline/internal/ui"
)

func newSpinCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "spin",
		Short: "Spin the fate dice for a random task",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			eng, cleanup, err := openEngine(ctx)
			if err != nil {
				return err
			}
			defer cleanup()

			out := cmd.OutOrStdout()
			outcome := eng.SpinDice()
			if !outcome.Success {
				fmt.Fprintln(out, ui.Warn.Render(ui.IconWarn+" "+outcome.Message))
				return nil
			}

			fmt.Fprintf(out, "%s Spinning", ui.IconDice)
			// Let the resolution window elapse so the result lands before exit.
			deadline := time.Now().Add(eng.SpinDelay() + 100*time.Millisecond)
			for time.Now().Before(deadline) {
				fmt.Fprint(out, ".")
				time.Sleep(300 * time.Millisecond)
			}
			fmt.Fprintln(out)

			res := outcome.Result
			fmt.Fprintf(out, "%s %s %s", ui.IconSparkle, ui.H2.Render(res.Task.Text), ui.Delta(res.Gold))
			if res.XP > 0 {
				fmt.Fprintf(out, " %s", ui.Gold.Render(fmt.Sprintf("+%d XP", res.XP)))
			}
			fmt.Fprintln(out)
			fmt.Fprintln(out, ui.Muted.Render("Resolve it with: fl resolve <completed|later|skipped>"))
			return nil
		},
	}
}

func newResolveCmd() *cobra.Command {
	return &cobra.Command{
		Use:       "resolve <completed|later|skipped>",
		Short:     "Resolve the pending fate dice result",
		Args:      cobra.ExactArgs(1),
		ValidArgs: []string{"completed", "later", "skipped"},
		RunE: func(cmd *cobra.Command, args []string) error {
			outcome, err := engine.ParseDiceOutcome(args[0])
			if err != nil {
				return err
			}

			ctx := context.Background()
			eng, cleanup, err := openEngine(ctx)
			if err != nil {
				return err
			}
			defer cleanup()

			if err := eng.HandleDiceResult(outcome); err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			switch outcome {
			case engine.OutcomeCompleted:
				st := eng.Snapshot()
				fmt.Fprintf(out, "%s Done. Gold: %d, XP: %d\n", ui.IconDone, st.Balance, st.XP)
			case engine.OutcomeLater:
				fmt.Fprintln(out, ui.Warn.Render("Parked for later. See it under fl status."))
			case engine.OutcomeSkipped:
				fmt.Fprintln(out, ui.Muted.Render("Skipped."))
			}
			return nil
		},
	}
}
