package root

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"fateline/internal/ui"
)

const Version = "0.1.0"

var rootCmd = &cobra.Command{
	Use:           "fl",
	Short:         "Fateline — local-first gamified progression tracker",
	Long:          "Fateline is a local-first CLI/TUI life tracker with habits, projects, fate dice and RPG progression mechanics.",
	SilenceUsage:  true,
	SilenceErrors: true,
}

func Execute() {
	rootCmd.Version = Version
	rootCmd.SetVersionTemplate("{{.Name}} v{{.Version}}\n")

	rootCmd.PersistentFlags().BoolVar(&verbose, "verbose", false, "enable debug logging")

	rootCmd.AddCommand(
		newStatusCmd(),
		newHabitCmd(),
		newProjectCmd(),
		newSpinCmd(),
		newResolveCmd(),
		newDiceCmd(),
		newAchievementsCmd(),
		newClaimCmd(),
		newCheckinCmd(),
		newBankCmd(),
		newLedgerCmd(),
		newAdjustCmd(),
		newPomodoroCmd(),
		newReviewCmd(),
		newChallengeCmd(),
		newGoalCmd(),
		newBoardCmd(),
	)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, ui.Bad.Render(ui.IconError+" "+err.Error()))
		os.Exit(1)
	}
}
