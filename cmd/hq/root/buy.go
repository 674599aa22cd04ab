package root

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"habitquest/internal/ui"
)

func newBuyCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "buy <item-id>",
		Short: "Buy a shop item",
		Args: func(cmd *cobra.Command, args []string) error {
			if len(args) != 1 {
				return errors.New("item id is required")
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

			res, err := svc.PurchaseItem(ctx, sess, args[0])
			if err != nil {
				return err
			}

			line := fmt.Sprintf("%s %s for %d %s", ui.Good.Render(ui.IconShop+" Bought"), args[0], res.FinalPrice, ui.IconCoin)
			if res.Discount > 0 {
				line += " " + ui.Muted.Render(fmt.Sprintf("(-%d%% charisma)", res.Discount))
			}
			fmt.Fprintln(cmd.OutOrStdout(), line)
			fmt.Fprintln(cmd.OutOrStdout(), ui.LabelValue("Inventory entry", fmt.Sprintf("#%d", res.EntryID)))
			fmt.Fprintln(cmd.OutOrStdout(), ui.LabelValue("Coins left", sess.User.Coins))
			return nil
		},
	}

	return cmd
}
