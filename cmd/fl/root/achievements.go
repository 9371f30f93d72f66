package root

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"fateline/internal/engine"
	"fateline/internal/ui"
)

func newAchievementsCmd() *cobra.Command {
	var all bool
	cmd := &cobra.Command{
		Use:   "achievements",
		Short: "Show unlocked and claimable badges",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			eng, cleanup, err := openEngine(ctx)
			if err != nil {
				return err
			}
			defer cleanup()

			st := eng.Snapshot()
			claimed := map[string]bool{}
			for _, id := range st.ClaimedBadges {
				claimed[id] = true
			}
			m := eng.Metrics()

			out := cmd.OutOrStdout()
			fmt.Fprintln(out, ui.Heading(ui.IconTrophy, "Achievements"))
			for _, d := range engine.AchievementDefs() {
				crossed := d.Crossed(m)
				if !all && !crossed {
					continue
				}
				switch {
				case claimed[d.ID]:
					fmt.Fprintf(out, "%s %s %s\n", ui.Good.Render("claimed "), ui.Key.Render(d.ID), d.Title)
				case crossed:
					r := d.Reward()
					fmt.Fprintf(out, "%s %s %s %s\n", ui.Gold.Render("ready   "), ui.Key.Render(d.ID), d.Title,
						ui.Muted.Render(fmt.Sprintf("(+%d gold, +%d xp)", r.Gold, r.XP)))
				default:
					fmt.Fprintf(out, "%s %s %s %s\n", ui.Dim.Render("locked  "), ui.Key.Render(d.ID), d.Title,
						ui.Dim.Render(fmt.Sprintf("(needs %d)", d.Threshold)))
				}
			}
			return nil
		},
	}
	cmd.Flags().BoolVarP(&all, "all", "a", false, "include locked badges")
	return cmd
}

func newClaimCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "claim <id>",
		Short: "Claim an unlocked achievement's reward",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			eng, cleanup, err := openEngine(ctx)
			if err != nil {
				return err
			}
			defer cleanup()

			res, err := eng.ClaimAchievement(args[0])
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if res == (engine.ClaimResult{}) {
				fmt.Fprintln(out, ui.Muted.Render("Already claimed."))
				return nil
			}
			fmt.Fprintf(out, "%s %s +%d gold, +%d XP\n", ui.IconTrophy, ui.Gold.Render("Claimed!"), res.Gold, res.XP)
			return nil
		},
	}
}
