package root

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"habitquest/internal/ui"
)

func newStatusCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "status",
		Short: "Show level, streak, coins and attributes",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			_, sess, cleanup, err := openSession(ctx)
			if err != nil {
				return err
			}
			defer cleanup()

			u := sess.User
			lp := sess.LevelProgress()
			mods := sess.Modifiers()

			fmt.Fprintln(cmd.OutOrStdout(), ui.Heading(ui.IconSparkle, "HabitQuest Status"))
			fmt.Fprintln(cmd.OutOrStdout(), ui.LabelValue("Level", fmt.Sprintf("%d  %s %.0f%%", lp.Level, ui.ProgressBar(lp.Percent/100, 20), lp.Percent)))
			fmt.Fprintln(cmd.OutOrStdout(), ui.LabelValue("XP", fmt.Sprintf("%d / %d (total %d)", lp.CurrentXP, lp.NextLevelXP, u.TotalXP)))
			fmt.Fprintln(cmd.OutOrStdout(), ui.LabelValue("Coins", fmt.Sprintf("%s %d", ui.IconCoin, u.Coins)))
			fmt.Fprintln(cmd.OutOrStdout(), ui.LabelValue("Streak", fmt.Sprintf("%s %d (best %d, ×%.1f rewards)", ui.IconFlame, u.CurrentStreak, u.BestStreak, sess.StreakMultiplier())))
			if u.StreakProtected {
				fmt.Fprintln(cmd.OutOrStdout(), ui.Good.Render(ui.IconShield+" Streak protection active"))
			}
			fmt.Fprintln(cmd.OutOrStdout(), "")

			fmt.Fprintln(cmd.OutOrStdout(), ui.H2.Render("📊 Attributes"))
			fmt.Fprintf(cmd.OutOrStdout(), "- 💪 Strength: %d %s\n", u.Strength, ui.Muted.Render(fmt.Sprintf("(-%d%% XP to level)", mods.StrengthXPReduction)))
			fmt.Fprintf(cmd.OutOrStdout(), "- 🧠 Intelligence: %d %s\n", u.Intelligence, ui.Muted.Render(fmt.Sprintf("(+%d%% quest XP)", mods.IntelligenceXPBonus)))
			fmt.Fprintf(cmd.OutOrStdout(), "- 🗣️ Charisma: %d %s\n", u.Charisma, ui.Muted.Render(fmt.Sprintf("(-%d%% shop prices)", mods.CharismaDiscount)))
			fmt.Fprintf(cmd.OutOrStdout(), "- 🧘 Discipline: %d %s\n", u.Discipline, ui.Muted.Render("(upgrade currency)"))

			return nil
		},
	}

	return cmd
}
