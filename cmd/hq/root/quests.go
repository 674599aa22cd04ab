package root

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"habitquest/internal/ui"
)

func newQuestsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "quests",
		Short: "List quests and main quest steps",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			svc, _, cleanup, err := openSession(ctx)
			if err != nil {
				return err
			}
			defer cleanup()

			quests, err := svc.QuestRepo().ListAll(ctx)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), ui.Heading(ui.IconQuest, "Quests"))
			for _, q := range quests {
				tag := ""
				if q.Category == "daily" {
					tag = ui.Muted.Render(" [daily]")
				}
				fmt.Fprintf(cmd.OutOrStdout(), "- %s %s%s %s %s\n",
					ui.Key.Render(q.ID), q.Title, tag,
					ui.Muted.Render(fmt.Sprintf("(%d xp, %d coins)", q.XPReward, q.CoinReward)),
					ui.CompletedText(q.Completed))
			}

			mains, err := svc.QuestRepo().ListMainQuests(ctx)
			if err != nil {
				return err
			}
			for _, m := range mains {
				fmt.Fprintln(cmd.OutOrStdout(), "")
				fmt.Fprintf(cmd.OutOrStdout(), "%s %s %s\n", ui.H2.Render(ui.IconTarget+" "+m.Title), ui.Muted.Render(m.ID), ui.CompletedText(m.Completed))
				steps, err := svc.QuestRepo().ListSteps(ctx, m.ID)
				if err != nil {
					return err
				}
				for _, st := range steps {
					fmt.Fprintf(cmd.OutOrStdout(), "  %d. %s %s %s %s\n",
						st.Seq, ui.Key.Render(st.ID), st.Title,
						ui.Muted.Render(fmt.Sprintf("(%d xp, %d coins)", st.XPReward, st.CoinReward)),
						ui.CompletedText(st.Completed))
				}
			}

			return nil
		},
	}

	return cmd
}
