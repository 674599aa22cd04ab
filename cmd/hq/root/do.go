package root

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"habitquest/internal/ui"
)

func newDoCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "do <quest-id>",
		Short: "Complete a quest",
		Args: func(cmd *cobra.Command, args []string) error {
			if len(args) != 1 {
				return errors.New("quest id is required")
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

			res, err := svc.CompleteQuest(ctx, sess, args[0])
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "%s +%d XP, +%d %s\n",
				ui.Good.Render(ui.IconDone+" Quest complete!"), res.XPAwarded, res.CoinsAwarded, ui.IconCoin)
			if res.AttributeRaised != nil {
				fmt.Fprintf(cmd.OutOrStdout(), "%s %s +1\n", ui.Gold.Render(ui.IconBolt), *res.AttributeRaised)
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
