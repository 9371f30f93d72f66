package root

import (
	"context"

	"github.com/spf13/cobra"

	"fateline/internal/tui"
)

func newBoardCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "board",
		Short: "Open the interactive quest board",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			eng, cleanup, err := openEngine(ctx)
			if err != nil {
				return err
			}
			defer cleanup()

			// The board is long-running, so it gets the midnight scheduler.
			eng.StartRolloverScheduler()

			return tui.RunBoard(eng, cmd.OutOrStdout())
		},
	}
}
