package root

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"habitquest/internal/ui"
)

func newLogCmd() *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "log",
		Short: "Show recent activity",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			svc, _, cleanup, err := openSession(ctx)
			if err != nil {
				return err
			}
			defer cleanup()

			entries, err := svc.Activity(ctx, limit)
			if err != nil {
				return err
			}

			fmt.Fprintln(cmd.OutOrStdout(), ui.Heading(ui.IconScroll, "Activity"))
			if len(entries) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), ui.Muted.Render("(nothing yet)"))
			}
			for _, e := range entries {
				delta := ""
				if e.XPDelta != 0 {
					delta += fmt.Sprintf(" %+d xp", e.XPDelta)
				}
				if e.CoinDelta != 0 {
					delta += fmt.Sprintf(" %+d %s", e.CoinDelta, ui.IconCoin)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "- %s %s %s%s\n",
					ui.Muted.Render(e.At.Format("2006-01-02 15:04")),
					ui.Key.Render(e.Kind), e.Note, ui.Gold.Render(delta))
			}
			return nil
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "number of entries to show")
	return cmd
}
