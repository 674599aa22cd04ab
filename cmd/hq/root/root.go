package root

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"habitquest/internal/ui"
)

const Version = "0.1.0"

var rootCmd = &cobra.Command{
	Use:           "hq",
	Short:         "HabitQuest — gamified habit tracker",
	Long:          "HabitQuest is a local-first habit tracker with RPG progression: quests, streaks, attributes, a coin economy and achievements.",
	SilenceUsage:  true,
	SilenceErrors: true,
}

func Execute() {
	rootCmd.Version = Version
	rootCmd.SetVersionTemplate("{{.Name}} v{{.Version}}\n")

	rootCmd.AddCommand(
		newStatusCmd(),
		newQuestsCmd(),
		newDoCmd(),
		newStepCmd(),
		newShopCmd(),
		newBuyCmd(),
		newUseCmd(),
		newUpgradeCmd(),
		newToggleCmd(),
		newResetCmd(),
		newLogCmd(),
		newBoardCmd(),
	)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, ui.Bad.Render(ui.IconError+" "+err.Error()))
		os.Exit(1)
	}
}
