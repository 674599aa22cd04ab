package root

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"habitquest/internal/engine"
	"habitquest/internal/ui"
)

func newShopCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "shop",
		Short: "Browse items, upgrades and your inventory",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			svc, sess, cleanup, err := openSession(ctx)
			if err != nil {
				return err
			}
			defer cleanup()

			discount := sess.Modifiers().CharismaDiscount

			items, err := svc.ShopRepo().ListItems(ctx)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), ui.Heading(ui.IconShop, "Shop"))
			if discount > 0 {
				fmt.Fprintln(cmd.OutOrStdout(), ui.Muted.Render(fmt.Sprintf("charisma discount: -%d%%", discount)))
			}
			for _, it := range items {
				final := engine.DiscountedPrice(it.Price, sess.User.Charisma)
				price := fmt.Sprintf("%d %s", final, ui.IconCoin)
				if final != it.Price {
					price = fmt.Sprintf("%s %s", ui.Muted.Render(fmt.Sprintf("%d", it.Price)), ui.Gold.Render(price))
				}
				fmt.Fprintf(cmd.OutOrStdout(), "- %s %s %s — %s\n", ui.IconPotion, ui.Key.Render(it.ID), it.Name, price)
			}

			upgrades, err := svc.ShopRepo().ListUpgrades(ctx)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "")
			fmt.Fprintln(cmd.OutOrStdout(), ui.H2.Render("⬆️ Upgrades"))
			for _, up := range upgrades {
				var costs []string
				for attr, n := range up.Costs {
					costs = append(costs, fmt.Sprintf("%d %s", n, attr))
				}
				state := ui.Warn.Render("available")
				switch {
				case up.Purchased && up.Active:
					state = ui.Good.Render("owned, active")
				case up.Purchased:
					state = ui.Muted.Render("owned, inactive")
				}
				fmt.Fprintf(cmd.OutOrStdout(), "- %s %s — costs %s — %s\n",
					ui.Key.Render(up.ID), up.Name, strings.Join(costs, ", "), state)
			}

			inv, err := svc.ShopRepo().ListInventory(ctx)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "")
			fmt.Fprintln(cmd.OutOrStdout(), ui.H2.Render("🎒 Inventory"))
			if len(inv) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), ui.Muted.Render("(empty)"))
			}
			for _, e := range inv {
				used := ""
				if e.UsedAt != nil {
					used = ui.Muted.Render(" (used)")
				}
				fmt.Fprintf(cmd.OutOrStdout(), "- #%d %s%s\n", e.ID, e.ItemID, used)
			}

			return nil
		},
	}

	return cmd
}
