package root

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"fateline/internal/ui"
)

func newCheckinCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "checkin",
		Short: "Claim today's check-in reward",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			eng, cleanup, err := openEngine(ctx)
			if err != nil {
				return err
			}
			defer cleanup()

			res, err := eng.CheckIn()
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s Checked in! +%d gold, +%d XP %s\n",
				ui.IconFire, res.Gold, res.XP, ui.Muted.Render(fmt.Sprintf("(streak %d)", res.Streak)))
			return nil
		},
	}
}
