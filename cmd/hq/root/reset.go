package root

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"habitquest/internal/engine"
	"habitquest/internal/ui"
)

func newResetCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "reset",
		Short: "Run the daily boundary check now",
		Long: `Run the day-boundary check explicitly.

Every command runs this check on startup, so "reset" is mostly useful to
see what the check decided: streak extended, broken, or protected.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			db, cleanup, err := openDB(ctx)
			if err != nil {
				return err
			}
			defer cleanup()

			svc := engine.NewService(db)
			sess, err := svc.OpenSession(ctx)
			if err != nil {
				return err
			}
			out, err := svc.RunDailyResetIfDue(ctx, sess, time.Now().UTC())
			if err != nil {
				return err
			}

			if out.DaysPassed == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), ui.Muted.Render("No day boundary crossed; nothing to do."))
				return nil
			}
			switch {
			case out.StreakExtended:
				fmt.Fprintf(cmd.OutOrStdout(), "%s streak %d → %d\n", ui.Good.Render(ui.IconFlame+" Streak extended:"), out.StreakBefore, out.StreakAfter)
			case out.ProtectionUsed:
				fmt.Fprintln(cmd.OutOrStdout(), ui.Warn.Render(ui.IconShield+" Streak protected — shield consumed"))
			case out.StreakBroken:
				fmt.Fprintf(cmd.OutOrStdout(), "%s streak %d → 0\n", ui.Bad.Render(ui.IconWarn+" Streak broken:"), out.StreakBefore)
			}
			if out.DisciplineGained > 0 {
				fmt.Fprintf(cmd.OutOrStdout(), "%s discipline +%d (streak milestone)\n", ui.Gold.Render(ui.IconBolt), out.DisciplineGained)
			}
			if out.DailyQuestsReset {
				fmt.Fprintln(cmd.OutOrStdout(), ui.Muted.Render("Daily quests reset."))
			}
			return nil
		},
	}

	return cmd
}
