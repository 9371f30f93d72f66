package tui

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"fateline/internal/engine"
)

type boardModel struct {
	eng *engine.Engine

	width  int
	height int

	st *engine.State

	selected int

	lastLog string
	loading bool
}

type refreshMsg struct {
	st *engine.State
}

type actionMsg struct {
	log string
}

func newBoardModel(eng *engine.Engine) boardModel {
	return boardModel{
		eng:     eng,
		loading: true,
		lastLog: "Loaded.",
	}
}

func (m boardModel) Init() tea.Cmd {
	return m.refreshCmd()
}

func (m boardModel) refreshCmd() tea.Cmd {
	return func() tea.Msg {
		return refreshMsg{st: m.eng.Snapshot()}
	}
}

func (m boardModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil
	case refreshMsg:
		m.loading = false
		m.st = msg.st
		return m, nil
	case actionMsg:
		m.lastLog = msg.log
		return m, m.refreshCmd()
	case tea.KeyMsg:
		return m.handleKey(msg)
	}
	return m, nil
}

func (m boardModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c", "q":
		return m, tea.Quit
	case "r":
		m.lastLog = fmt.Sprintf("Refreshed at %s.", time.Now().Format("15:04:05"))
		return m, m.refreshCmd()
	case "up", "k":
		if m.selected > 0 {
			m.selected--
		}
		return m, nil
	case "down", "j":
		if m.selected < len(m.rows())-1 {
			m.selected++
		}
		return m, nil
	case "enter", " ":
		return m.toggleSelected()
	case "s":
		return m, func() tea.Msg {
			out := m.eng.SpinDice()
			if !out.Success {
				return actionMsg{log: "Spin refused: " + out.Message}
			}
			return actionMsg{log: fmt.Sprintf("Rolled %q (+%d gold). Resolve with 1/2/3.", out.Result.Task.Text, out.Result.Gold)}
		}
	case "1", "2", "3":
		outcome := engine.OutcomeCompleted
		switch msg.String() {
		case "2":
			outcome = engine.OutcomeLater
		case "3":
			outcome = engine.OutcomeSkipped
		}
		return m, func() tea.Msg {
			if err := m.eng.HandleDiceResult(outcome); err != nil {
				return actionMsg{log: "Resolve failed: " + err.Error()}
			}
			return actionMsg{log: "Dice task resolved: " + string(outcome)}
		}
	case "c":
		return m, func() tea.Msg {
			res, err := m.eng.CheckIn()
			if err != nil {
				return actionMsg{log: "Check-in: " + err.Error()}
			}
			return actionMsg{log: fmt.Sprintf("Checked in: +%d gold, +%d XP (streak %d).", res.Gold, res.XP, res.Streak)}
		}
	}
	return m, nil
}

type rowKind int

const (
	rowHabit rowKind = iota
	rowChallenge
	rowSubTask
	rowPendingDice
)

type row struct {
	kind      rowKind
	id        string
	projectID string
	title     string
	done      bool
}

func (m boardModel) rows() []row {
	if m.st == nil {
		return nil
	}
	today := time.Now().Format(engine.DateFormat)

	var out []row
	for _, h := range m.st.Habits {
		if h.Archived {
			continue
		}
		out = append(out, row{kind: rowHabit, id: h.ID, title: h.Name, done: h.History[today]})
	}
	doneChallenges := m.st.CompletedRandomTasks[today]
	for _, t := range m.st.TodaysChallenges.Tasks {
		out = append(out, row{kind: rowChallenge, id: t, title: t, done: containsStr(doneChallenges, t)})
	}
	for _, p := range m.st.Projects {
		for _, st := range p.SubTasks {
			out = append(out, row{
				kind: rowSubTask, id: st.ID, projectID: p.ID,
				title: p.Name + " / " + st.Title, done: st.Completed,
			})
		}
	}
	for _, rec := range m.st.Dice.PendingTasks {
		out = append(out, row{kind: rowPendingDice, id: rec.Task.ID, title: rec.Task.Text})
	}
	return out
}

func (m boardModel) toggleSelected() (tea.Model, tea.Cmd) {
	rows := m.rows()
	if m.selected < 0 || m.selected >= len(rows) {
		return m, nil
	}
	r := rows[m.selected]
	today := time.Now().Format(engine.DateFormat)

	return m, func() tea.Msg {
		switch r.kind {
		case rowHabit:
			m.eng.ToggleHabit(r.id, today)
			return actionMsg{log: "Toggled habit: " + r.title}
		case rowChallenge:
			m.eng.ToggleChallenge(r.id)
			return actionMsg{log: "Toggled challenge: " + r.title}
		case rowSubTask:
			m.eng.ToggleSubTask(r.projectID, r.id)
			return actionMsg{log: "Toggled task: " + r.title}
		case rowPendingDice:
			if err := m.eng.CompletePendingDiceTask(r.id); err != nil {
				return actionMsg{log: "Complete failed: " + err.Error()}
			}
			return actionMsg{log: "Completed fate task: " + r.title}
		}
		return actionMsg{log: ""}
	}
}

func (m boardModel) View() string {
	if m.loading || m.st == nil {
		return "Fateline — loading…\n"
	}

	header := m.renderHeader()
	sidebar := m.renderSidebar()
	main := m.renderMain()
	footer := "\n" + m.lastLog

	leftW := 28
	if m.width > 0 {
		maxLeft := m.width / 2
		if maxLeft < leftW {
			leftW = maxLeft
		}
		if leftW < 18 {
			leftW = 18
		}
	}

	linesLeft := strings.Split(sidebar, "\n")
	linesRight := strings.Split(main, "\n")
	max := len(linesLeft)
	if len(linesRight) > max {
		max = len(linesRight)
	}

	var body strings.Builder
	for i := 0; i < max; i++ {
		l := ""
		r := ""
		if i < len(linesLeft) {
			l = linesLeft[i]
		}
		if i < len(linesRight) {
			r = linesRight[i]
		}
		body.WriteString(padRight(l, leftW))
		body.WriteString("  ")
		body.WriteString(r)
		body.WriteString("\n")
	}

	return header + "\n" + body.String() + footer
}

func (m boardModel) renderHeader() string {
	return fmt.Sprintf("Fateline | Day %d | %d gold | %d XP | streak %d",
		m.st.Day, m.st.Balance, m.st.XP, m.st.CheckinStreak)
}

func (m boardModel) renderSidebar() string {
	s := m.st.TodayStats
	lines := []string{"Today"}
	lines = append(lines, fmt.Sprintf("- focus: %dm", s.FocusMinutes))
	lines = append(lines, fmt.Sprintf("- tasks: %d", s.TasksCompleted))
	lines = append(lines, fmt.Sprintf("- habits: %d", s.HabitsDone))
	lines = append(lines, fmt.Sprintf("- earned: %d", s.Earnings))
	lines = append(lines, fmt.Sprintf("- spent: %d", s.Spending))
	lines = append(lines, "")
	lines = append(lines, "Fate dice")
	lines = append(lines, fmt.Sprintf("- spins: %d/%d", m.st.Dice.TodayCount, m.st.Dice.Config.DailyLimit))
	if cur := m.st.Dice.CurrentResult; cur != nil {
		lines = append(lines, "- rolled: "+cur.Task.Text)
		lines = append(lines, "  1 done / 2 later / 3 skip")
	}
	lines = append(lines, "")
	lines = append(lines, "Keys")
	lines = append(lines, "- ↑/↓ or j/k: move")
	lines = append(lines, "- enter/space: toggle")
	lines = append(lines, "- s: spin dice")
	lines = append(lines, "- c: check in")
	lines = append(lines, "- r: refresh")
	lines = append(lines, "- q: quit")
	return strings.Join(lines, "\n")
}

func (m boardModel) renderMain() string {
	rows := m.rows()
	var out []string
	out = append(out, "Quest Board")
	if len(rows) == 0 {
		out = append(out, "(empty)")
		return strings.Join(out, "\n")
	}
	sel := m.selected
	if sel >= len(rows) {
		sel = len(rows) - 1
	}
	for i, r := range rows {
		cursor := "  "
		if i == sel {
			cursor = "> "
		}
		mark := "[ ]"
		if r.done {
			mark = "[x]"
		}
		tag := ""
		switch r.kind {
		case rowHabit:
			tag = "[H] "
		case rowChallenge:
			tag = "[C] "
		case rowSubTask:
			tag = "[P] "
		case rowPendingDice:
			tag = "[D] "
			mark = "[~]"
		}
		out = append(out, fmt.Sprintf("%s%s %s%s", cursor, mark, tag, r.title))
	}
	return strings.Join(out, "\n")
}

func padRight(s string, width int) string {
	if width <= 0 {
		return s
	}
	r := []rune(s)
	if len(r) >= width {
		return string(r[:width])
	}
	return s + strings.Repeat(" ", width-len(r))
}

func containsStr(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
