package engine

import (
	"context"
	"database/sql"

	"github.com/google/uuid"

	"habitquest/internal/storage"
)

// MergeReport describes how a pushed snapshot was reconciled with the local
// optimistic state.
type MergeReport struct {
	// EchoedGrants are entities completed on both sides with the same
	// grant id: our own writes coming back. Nothing to do.
	EchoedGrants []string
	// AdoptedRemote are entities the remote completed that we had not;
	// their flags are adopted without re-granting any reward locally
	// (the remote aggregate already carries the reward).
	AdoptedRemote []string
	// KeptLocal are entities we completed optimistically that the remote
	// has not echoed yet; local state wins until it does.
	KeptLocal []string
	// UserAdopted reports whether the remote user aggregate replaced the
	// local one.
	UserAdopted bool
}

// ApplySnapshot merges an externally-pushed snapshot into local state.
//
// Completion flags are one-way and each carries the grant id that set it,
// so duplicate reward application is detected by (entity id, transition,
// grant id) rather than by arrival order. Rewards are never applied during
// a merge: a remote-side completion arrives with its reward already folded
// into the remote user aggregate, and a local pending grant keeps the local
// aggregate until the write is echoed.
func (s *Service) ApplySnapshot(ctx context.Context, sess *Session, remote *storage.Snapshot) (*MergeReport, error) {
	report := &MergeReport{}

	localQuests, err := s.quests.ListAll(ctx)
	if err != nil {
		return nil, err
	}
	localSteps, err := s.quests.ListAllSteps(ctx)
	if err != nil {
		return nil, err
	}
	localGoals, err := s.goals.ListAll(ctx)
	if err != nil {
		return nil, err
	}
	localUpgrades, err := s.shop.ListUpgrades(ctx)
	if err != nil {
		return nil, err
	}

	questByID := make(map[string]storage.Quest, len(localQuests))
	for _, q := range localQuests {
		questByID[q.ID] = q
	}
	stepByID := make(map[string]storage.Step, len(localSteps))
	for _, st := range localSteps {
		stepByID[st.ID] = st
	}
	goalByID := make(map[string]storage.Goal, len(localGoals))
	for _, g := range localGoals {
		goalByID[g.ID] = g
	}
	upgradeByID := make(map[string]storage.Upgrade, len(localUpgrades))
	for _, up := range localUpgrades {
		upgradeByID[up.ID] = up
	}

	localAhead := false
	classify := func(id string, localDone, remoteDone bool, localGrant, remoteGrant *string) (adopt bool) {
		switch {
		case localDone && remoteDone:
			if sameGrant(localGrant, remoteGrant) {
				report.EchoedGrants = append(report.EchoedGrants, id)
			} else {
				// Completed independently on both sides; the remote
				// grant wins, ours is dropped as a duplicate.
				report.EchoedGrants = append(report.EchoedGrants, id)
				adopt = true
			}
		case remoteDone:
			report.AdoptedRemote = append(report.AdoptedRemote, id)
			adopt = true
		case localDone:
			report.KeptLocal = append(report.KeptLocal, id)
			localAhead = true
		}
		return adopt
	}

	type questAdopt struct{ q storage.Quest }
	type stepAdopt struct{ st storage.Step }
	type goalAdopt struct{ g storage.Goal }
	var adoptQuests []questAdopt
	var adoptSteps []stepAdopt
	var adoptGoals []goalAdopt
	var adoptUpgrades []storage.Upgrade
	var adoptMainQuests []storage.MainQuest

	for _, rq := range remote.Quests {
		lq, ok := questByID[rq.ID]
		if !ok {
			continue
		}
		if classify(rq.ID, lq.Completed, rq.Completed, lq.LastGrantID, rq.LastGrantID) {
			adoptQuests = append(adoptQuests, questAdopt{q: rq})
		}
	}
	for _, rst := range remote.Steps {
		lst, ok := stepByID[rst.ID]
		if !ok {
			continue
		}
		if classify(rst.ID, lst.Completed, rst.Completed, lst.LastGrantID, rst.LastGrantID) {
			adoptSteps = append(adoptSteps, stepAdopt{st: rst})
		}
	}
	for _, rg := range remote.Goals {
		lg, ok := goalByID[rg.ID]
		if !ok {
			continue
		}
		if classify(rg.ID, lg.Completed, rg.Completed, lg.LastGrantID, rg.LastGrantID) {
			adoptGoals = append(adoptGoals, goalAdopt{g: rg})
		}
	}
	for _, rup := range remote.Upgrades {
		lup, ok := upgradeByID[rup.ID]
		if !ok {
			continue
		}
		if rup.Purchased && !lup.Purchased {
			report.AdoptedRemote = append(report.AdoptedRemote, rup.ID)
			adoptUpgrades = append(adoptUpgrades, rup)
		} else if lup.Purchased && !rup.Purchased {
			report.KeptLocal = append(report.KeptLocal, lup.ID)
			localAhead = true
		}
	}
	for _, rmq := range remote.MainQuests {
		if rmq.Completed {
			adoptMainQuests = append(adoptMainQuests, rmq)
		}
	}

	// The remote user aggregate already reflects every remote grant. It is
	// adopted unless we hold optimistic grants the remote has not echoed,
	// in which case the local aggregate (which includes them) stays.
	adoptUser := remote.User != nil && !localAhead
	report.UserAdopted = adoptUser

	now := s.now()
	err = storage.WithTx(ctx, s.db, func(tx *sql.Tx) error {
		qr := storage.NewQuestRepo(tx)
		gr := storage.NewGoalRepo(tx)
		sr := storage.NewShopRepo(tx)

		for _, a := range adoptQuests {
			if err := qr.SetCompleted(ctx, a.q.ID, true, a.q.LastGrantID); err != nil {
				return err
			}
		}
		for _, a := range adoptSteps {
			if err := qr.SetStepCompleted(ctx, a.st.ID, true, a.st.LastGrantID); err != nil {
				return err
			}
		}
		for _, a := range adoptMainQuests {
			if err := qr.SetMainQuestCompleted(ctx, a.ID, true); err != nil {
				return err
			}
		}
		for _, a := range adoptGoals {
			if err := gr.SetCompleted(ctx, a.g.ID, a.g.Current, true, a.g.LastGrantID); err != nil {
				return err
			}
		}
		for _, a := range adoptUpgrades {
			if err := sr.MarkUpgradePurchased(ctx, a.ID); err != nil {
				return err
			}
		}
		if adoptUser {
			u := *remote.User
			u.Key = storage.MainUserKey
			if err := storage.NewUserRepo(tx).Update(ctx, &u); err != nil {
				return err
			}
		}
		return storage.NewActivityRepo(tx).Append(ctx, storage.ActivityEntry{
			ID:       uuid.NewString(),
			At:       now,
			Kind:     "snapshot_merged",
			EntityID: storage.MainUserKey,
		})
	})
	if err != nil {
		return nil, err
	}

	if adoptUser {
		u := *remote.User
		u.Key = storage.MainUserKey
		*sess.User = u
	}
	return report, nil
}

func sameGrant(a, b *string) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}
