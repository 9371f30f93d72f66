package root

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"fateline/internal/engine"
	"fateline/internal/ui"
)

func newLedgerCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "ledger",
		Short: "Show recent transactions",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			eng, cleanup, err := openEngine(ctx)
			if err != nil {
				return err
			}
			defer cleanup()

			st := eng.Snapshot()
			out := cmd.OutOrStdout()
			fmt.Fprintln(out, ui.Heading(ui.IconScroll, "Ledger"))
			if len(st.Transactions) == 0 {
				fmt.Fprintln(out, ui.Muted.Render("(empty)"))
				return nil
			}
			for _, tx := range st.Transactions {
				fmt.Fprintf(out, "%s %s %s\n", ui.Muted.Render(tx.Time), ui.Delta(tx.Amount), tx.Desc)
			}
			return nil
		},
	}
}

func newAdjustCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "adjust <amount>",
		Short: "Manually correct the gold balance",
		Long:  "Applies a signed correction to the wallet. Corrections are logged in the ledger but never counted as earnings or spending.",
		Args: func(cmd *cobra.Command, args []string) error {
			if len(args) != 1 {
				return errors.New("amount is required")
			}
			if _, err := strconv.Atoi(args[0]); err != nil {
				return errors.New("amount must be an integer")
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

			amount, _ := strconv.Atoi(args[0])
			eng.ApplyDelta(amount, engine.ReasonManualAdjust)
			st := eng.Snapshot()
			fmt.Fprintf(cmd.OutOrStdout(), "Adjusted by %s. Wallet: %d\n", ui.Delta(amount), st.Balance)
			return nil
		},
	}
}

func newPomodoroCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "pomodoro <minutes>",
		Short: "Book a finished focus block",
		Args: func(cmd *cobra.Command, args []string) error {
			if len(args) != 1 {
				return errors.New("minutes is required")
			}
			n, err := strconv.Atoi(args[0])
			if err != nil || n <= 0 {
				return errors.New("minutes must be a positive integer")
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

			minutes, _ := strconv.Atoi(args[0])
			eng.CompletePomodoro(minutes)
			fmt.Fprintf(cmd.OutOrStdout(), "%s %dm of focus booked: +%d gold, +%d XP\n", ui.IconBolt, minutes, minutes, minutes*2)
			return nil
		},
	}
}

func newReviewCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "review <text>",
		Short: "Write a retrospective entry",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			eng, cleanup, err := openEngine(ctx)
			if err != nil {
				return err
			}
			defer cleanup()

			r := eng.SaveReview(strings.Join(args, " "))
			fmt.Fprintf(cmd.OutOrStdout(), "%s Saved review for %s\n", ui.IconDone, r.Date)
			return nil
		},
	}
}
