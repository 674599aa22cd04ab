package root

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"habitquest/internal/ui"
)

func newStepCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "step <main-quest-id> <step-id>",
		Short: "Complete a main quest step",
		Args: func(cmd *cobra.Command, args []string) error {
			if len(args) != 2 {
				return errors.New("main quest id and step id are required")
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			svc, sess, cleanup, err := openSession(ctx)
			if err != nil {
				return err
			}
			defer cleanup()

			res, err := svc.CompleteStep(ctx, sess, args[0], args[1])
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "%s +%d XP, +%d %s\n",
				ui.Good.Render(ui.IconDone+" Step complete!"), res.XPAwarded, res.CoinsAwarded, ui.IconCoin)
			if res.MainQuestCompleted {
				fmt.Fprintln(cmd.OutOrStdout(), ui.Gold.Render(ui.IconTrophy+" Main quest complete!"))
			}
			if res.LeveledUp {
				fmt.Fprintf(cmd.OutOrStdout(), "%s %d → %d\n", ui.BadgeLevelUp, res.LevelBefore, res.LevelAfter)
			}
			for _, g := range res.CompletedGoals {
				fmt.Fprintf(cmd.OutOrStdout(), "%s %s\n", ui.Gold.Render(ui.IconTrophy+" Unlocked:"), g.Title)
			}
			return nil
		},
	}

	return cmd
}
