package root

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"habitquest/internal/ui"
)

func newUseCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "use <inventory-entry>",
		Short: "Use an item from your inventory",
		Args: func(cmd *cobra.Command, args []string) error {
			if len(args) != 1 {
				return errors.New("inventory entry number is required")
			}
			if _, err := strconv.ParseInt(args[0], 10, 64); err != nil {
				return errors.New("inventory entry must be an integer")
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

			entryID, _ := strconv.ParseInt(args[0], 10, 64)
			res, err := svc.UseItem(ctx, sess, entryID)
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "%s #%d %s\n", ui.Good.Render(ui.IconPotion+" Used"), res.EntryID, ui.Muted.Render(string(res.Effect)))
			if res.AttributeRaised != nil {
				fmt.Fprintf(cmd.OutOrStdout(), "%s %s increased\n", ui.Gold.Render(ui.IconBolt), *res.AttributeRaised)
			}
			for _, g := range res.CompletedGoals {
				fmt.Fprintf(cmd.OutOrStdout(), "%s %s\n", ui.Gold.Render(ui.IconTrophy+" Unlocked:"), g.Title)
			}
			return nil
		},
	}

	return cmd
}
