package root

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"habitquest/internal/ui"
)

func newUpgradeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "upgrade <upgrade-id>",
		Short: "Buy a permanent upgrade with attribute points",
		Args: func(cmd *cobra.Command, args []string) error {
			if len(args) != 1 {
				return errors.New("upgrade id is required")
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

			if _, err := svc.PurchaseUpgrade(ctx, sess, args[0]); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s %s\n", ui.Good.Render(ui.IconBolt+" Upgrade purchased:"), args[0])
			return nil
		},
	}

	return cmd
}

func newToggleCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "toggle <upgrade-id> <on|off>",
		Short: "Toggle a non-permanent upgrade",
		Args: func(cmd *cobra.Command, args []string) error {
			if len(args) != 2 {
				return errors.New("upgrade id and on/off are required")
			}
			if args[1] != "on" && args[1] != "off" {
				return errors.New("second argument must be on or off")
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

			active := args[1] == "on"
			if err := svc.ToggleUpgrade(ctx, sess, args[0], active); err != nil {
				return err
			}
			state := ui.Good.Render("on")
			if !active {
				state = ui.Muted.Render("off")
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s %s is now %s\n", ui.IconBolt, args[0], state)
			return nil
		},
	}

	return cmd
}
