package tui

import (
	"context"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"habitquest/internal/engine"
	"habitquest/internal/storage"
	"habitquest/internal/ui"
)

type boardModel struct {
	ctx  context.Context
	svc  *engine.Service
	sess *engine.Session

	width  int
	height int

	quests []storage.Quest
	goals  []storage.Goal

	selected int

	lastLog string
	loading bool
	err     error
}

type loadedMsg struct {
	quests []storage.Quest
	goals  []storage.Goal
	err    error
}

type completedMsg struct {
	id  string
	res *engine.RewardResult
	err error
}

func newBoardModel(ctx context.Context, svc *engine.Service, sess *engine.Session) boardModel {
	return boardModel{
		ctx:     ctx,
		svc:     svc,
		sess:    sess,
		loading: true,
		lastLog: "Loaded.",
	}
}

func (m boardModel) Init() tea.Cmd {
	return m.loadCmd()
}

func (m boardModel) loadCmd() tea.Cmd {
	return func() tea.Msg {
		quests, err := m.svc.QuestRepo().ListAll(m.ctx)
		if err != nil {
			return loadedMsg{err: err}
		}
		goals, err := m.svc.GoalRepo().ListAll(m.ctx)
		if err != nil {
			return loadedMsg{err: err}
		}
		return loadedMsg{quests: quests, goals: goals}
	}
}

func (m boardModel) completeCmd(id string) tea.Cmd {
	return func() tea.Msg {
		res, err := m.svc.CompleteQuest(m.ctx, m.sess, id)
		return completedMsg{id: id, res: res, err: err}
	}
}

func (m boardModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case loadedMsg:
		m.loading = false
		m.err = msg.err
		if msg.err != nil {
			m.lastLog = "Load failed: " + msg.err.Error()
			return m, nil
		}
		m.quests = msg.quests
		m.goals = msg.goals
		if m.selected >= len(m.quests) {
			m.selected = 0
		}
		return m, nil

	case completedMsg:
		if msg.err != nil {
			m.lastLog = msg.err.Error()
			return m, m.loadCmd()
		}
		m.lastLog = fmt.Sprintf("Completed %s: +%d XP, +%d coins", msg.id, msg.res.XPAwarded, msg.res.CoinsAwarded)
		if msg.res.LeveledUp {
			m.lastLog += fmt.Sprintf(" — level %d!", msg.res.LevelAfter)
		}
		return m, m.loadCmd()

	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case "up", "k":
			if m.selected > 0 {
				m.selected--
			}
			return m, nil
		case "down", "j":
			if m.selected < len(m.quests)-1 {
				m.selected++
			}
			return m, nil
		case "enter", " ":
			if m.selected < len(m.quests) {
				return m, m.completeCmd(m.quests[m.selected].ID)
			}
			return m, nil
		case "r":
			return m, m.loadCmd()
		}
	}
	return m, nil
}

func (m boardModel) View() string {
	if m.loading {
		return "Loading..."
	}
	if m.err != nil {
		return ui.Bad.Render("error: " + m.err.Error())
	}

	var b strings.Builder

	u := m.sess.User
	lp := m.sess.LevelProgress()
	header := fmt.Sprintf("%s  Lv %d %s  %s %d  %s %d (×%.1f)",
		ui.Title.Render("HabitQuest"),
		lp.Level, ui.ProgressBar(lp.Percent/100, 16),
		ui.IconCoin, u.Coins,
		ui.IconFlame, u.CurrentStreak, m.sess.StreakMultiplier())
	b.WriteString(ui.Panel.Render(header))
	b.WriteString("\n\n")

	b.WriteString(ui.PanelTitle.Render(ui.IconQuest + " Quests (enter to complete)"))
	b.WriteString("\n")
	for i, q := range m.quests {
		mark := "[ ]"
		if q.Completed {
			mark = "[x]"
		}
		line := fmt.Sprintf("%s %s %s", mark, q.Title, ui.Muted.Render(fmt.Sprintf("(%d xp, %d %s)", q.XPReward, q.CoinReward, ui.IconCoin)))
		if i == m.selected {
			line = ui.SelectedRow.Render("> " + line)
		} else {
			line = "  " + line
		}
		b.WriteString(line)
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(ui.PanelTitle.Render(ui.IconTarget + " Goals"))
	b.WriteString("\n")
	for _, g := range m.goals {
		if g.Completed {
			b.WriteString(fmt.Sprintf("  %s %s\n", ui.IconTrophy, ui.Good.Render(g.Title)))
			continue
		}
		ratio := 0.0
		if g.Target > 0 {
			ratio = float64(g.Current) / float64(g.Target)
		}
		b.WriteString(fmt.Sprintf("  %s %s %d/%d\n", g.Title, ui.ProgressBar(ratio, 10), g.Current, g.Target))
	}

	b.WriteString("\n")
	b.WriteString(ui.Muted.Render(m.lastLog))
	b.WriteString("\n")
	b.WriteString(ui.Muted.Render("j/k move · enter complete · r refresh · q quit"))
	b.WriteString("\n")
	return b.String()
}
