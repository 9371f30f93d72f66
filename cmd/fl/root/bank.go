package root

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"fateline/internal/ui"
)

func newBankCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "bank",
		Short: "Show the interest-bearing vault",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			eng, cleanup, err := openEngine(ctx)
			if err != nil {
				return err
			}
			defer cleanup()

			acct := eng.Bank()
			out := cmd.OutOrStdout()
			fmt.Fprintln(out, ui.Heading(ui.IconVault, "Vault"))
			fmt.Fprintln(out, ui.LabelValue("Balance", acct.Balance))
			fmt.Fprintln(out, ui.LabelValue("Interest earned", acct.TotalInterestEarned))
			fmt.Fprintln(out, ui.Muted.Render("Interest: 1% per day, floored."))
			return nil
		},
	}
	cmd.AddCommand(newBankDepositCmd(), newBankWithdrawCmd())
	return cmd
}

func newBankDepositCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "deposit <amount>",
		Short: "Move gold from the wallet into the vault",
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
			if err := eng.Deposit(amount); err != nil {
				return err
			}
			acct := eng.Bank()
			fmt.Fprintf(cmd.OutOrStdout(), "%s Deposited %d. Vault: %d\n", ui.IconVault, amount, acct.Balance)
			return nil
		},
	}
}

func newBankWithdrawCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "withdraw",
		Short: "Empty the vault back into the wallet",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			eng, cleanup, err := openEngine(ctx)
			if err != nil {
				return err
			}
			defer cleanup()

			amount := eng.WithdrawAll()
			if amount == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), ui.Muted.Render("Vault is empty."))
				return nil
			}
			st := eng.Snapshot()
			fmt.Fprintf(cmd.OutOrStdout(), "%s Withdrew %d. Wallet: %d\n", ui.IconCoin, amount, st.Balance)
			return nil
		},
	}
}
