package tui

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"mailmop/internal/config"
	"mailmop/internal/model"
	"mailmop/internal/store"
	"mailmop/internal/sweep"
)

// stage is the widget variant's explicit state machine. Transitions run
// strictly forward: welcome → fetching → review → executing → finished,
// except "start new session" which resets to welcome.
type stage int

const (
	stageWelcome stage = iota
	stageFetching
	stageReview
	stageExecuting
	stageFinished
)

type AppModel struct {
	svc   *sweep.Service
	index *store.ArchiveIndex
	cfg   *config.Config
	Err   error

	stage  stage
	state  model.RunState
	runID  string
	status string

	// Welcome
	countInput textinput.Model

	// Fetching
	fetchBar   progress.Model
	fetchDone  int
	fetchTotal int

	// Review
	review     *sweep.Review
	reviewList list.Model
	detail     *model.SenderGroup

	// Executing / finished
	savedCount   int
	trashedCount int
	execLines    []string
	recentRuns   []store.RunSummary

	width, height int

	// Program reference for sending messages from goroutines.
	program *tea.Program
}

// SetProgram stores a reference to the tea.Program so commands can stream
// progress back into the Update loop.
func (m *AppModel) SetProgram(p *tea.Program) {
	m.program = p
}

func NewAppModel(svc *sweep.Service, index *store.ArchiveIndex, cfg *config.Config, runID string) AppModel {
	ti := textinput.New()
	ti.Placeholder = strconv.FormatInt(cfg.MaxFetch, 10)
	ti.CharLimit = 3
	ti.Width = 6
	ti.Focus()

	rl := list.New([]list.Item{}, list.NewDefaultDelegate(), 0, 0)
	rl.Title = "Review senders"
	rl.KeyMap.Quit.SetKeys("q")

	return AppModel{
		svc:        svc,
		index:      index,
		cfg:        cfg,
		runID:      runID,
		stage:      stageWelcome,
		countInput: ti,
		fetchBar:   progress.New(progress.WithDefaultGradient()),
		reviewList: rl,
	}
}

func (m *AppModel) Init() tea.Cmd {
	return textinput.Blink
}

func (m *AppModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.reviewList.SetSize(msg.Width, msg.Height-6)
		m.fetchBar.Width = msg.Width - 8
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)

	case fetchProgressMsg:
		m.fetchDone = msg.done
		m.fetchTotal = msg.total
		return m, nil

	case fetchCompleteMsg:
		if msg.err != nil {
			// A failed fetch surfaces an empty result set: nothing to
			// review, nothing executed. No retry.
			m.stage = stageFinished
			m.status = fmt.Sprintf("Fetch error: %v", msg.err)
			return m, nil
		}
		m.state = m.state.WithEmails(msg.emails).
			WithGroups(sweep.GroupBySender(msg.emails))
		if len(msg.emails) == 0 {
			m.stage = stageFinished
			m.status = "Inbox returned no messages"
			return m, nil
		}
		m.review = sweep.NewReview(m.state.Groups)
		m.reviewList.SetItems(m.reviewItems())
		m.reviewList.Title = fmt.Sprintf("Review senders (%d groups, %d emails)",
			len(m.state.Groups), len(msg.emails))
		m.stage = stageReview
		m.status = ""
		return m, nil

	case execEventMsg:
		e := sweep.Event(msg)
		switch e.Kind {
		case sweep.EventSaved:
			m.execLines = append(m.execLines, "saved   → "+e.Path)
		case sweep.EventTrashed:
			m.execLines = append(m.execLines, "trashed → "+e.MessageID)
		case sweep.EventTrashFailed:
			m.execLines = append(m.execLines,
				fmt.Sprintf("failed to trash %s: %v", e.MessageID, e.Err))
		}
		if keep := m.height - 8; keep > 0 && len(m.execLines) > keep {
			m.execLines = m.execLines[len(m.execLines)-keep:]
		}
		return m, nil

	case execCompleteMsg:
		if msg.err != nil {
			m.Err = msg.err
			m.status = "Cleanup failed"
			return m, tea.Quit
		}
		m.state = m.state.WithResults(msg.saved, msg.trashed)
		m.savedCount = len(msg.saved)
		m.trashedCount = len(msg.trashed)
		if m.index != nil {
			if runs, err := m.index.RecentRuns(context.Background(), 5); err == nil {
				m.recentRuns = runs
			}
		}
		m.stage = stageFinished
		m.status = ""
		return m, nil
	}

	var cmd tea.Cmd
	switch m.stage {
	case stageWelcome:
		m.countInput, cmd = m.countInput.Update(msg)
	case stageReview:
		m.reviewList, cmd = m.reviewList.Update(msg)
	}
	return m, cmd
}

func (m *AppModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	key := msg.String()

	if key == "ctrl+c" {
		return m, tea.Quit
	}

	switch m.stage {
	case stageWelcome:
		switch key {
		case "q", "esc":
			return m, tea.Quit
		case "enter":
			return m.startFetch()
		}
		var cmd tea.Cmd
		m.countInput, cmd = m.countInput.Update(msg)
		return m, cmd

	case stageReview:
		if m.detail != nil {
			switch key {
			case "esc", "enter", "q":
				m.detail = nil
			}
			return m, nil
		}
		if m.reviewList.FilterState() == list.Filtering {
			var cmd tea.Cmd
			m.reviewList, cmd = m.reviewList.Update(msg)
			return m, cmd
		}
		switch key {
		case "q":
			return m, tea.Quit
		case "enter":
			if g := m.selectedGroup(); g != nil {
				m.detail = g
			}
			return m, nil
		case "s":
			return m.submitSelected(model.DecisionSkip)
		case "d":
			return m.submitSelected(model.DecisionDelete)
		case "c":
			return m.confirmReview()
		}
		var cmd tea.Cmd
		m.reviewList, cmd = m.reviewList.Update(msg)
		return m, cmd

	case stageFinished:
		switch key {
		case "q", "esc":
			return m, tea.Quit
		case "n":
			return m.resetSession()
		}
	}

	return m, nil
}

func (m *AppModel) startFetch() (tea.Model, tea.Cmd) {
	max := m.cfg.MaxFetch
	if v := strings.TrimSpace(m.countInput.Value()); v != "" {
		n, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			m.status = "Enter a number between 10 and 500"
			return m, nil
		}
		max = config.ClampFetch(n)
	}

	m.state = model.NewRunState(max, time.Now().Format(time.RFC3339))
	m.stage = stageFetching
	m.status = fmt.Sprintf("Fetching up to %d messages...", max)
	return m, m.fetchCmd(max)
}

func (m *AppModel) selectedGroup() *model.SenderGroup {
	selected := m.reviewList.SelectedItem()
	if selected == nil {
		return nil
	}
	gi := selected.(groupItem)
	g := gi.SenderGroup
	return &g
}

func (m *AppModel) submitSelected(d model.Decision) (tea.Model, tea.Cmd) {
	g := m.selectedGroup()
	if g == nil {
		return m, nil
	}
	if err := m.review.Submit(g.Sender, d); err != nil {
		m.status = err.Error()
		return m, nil
	}
	idx := m.reviewList.Index()
	m.reviewList.SetItems(m.reviewItems())
	m.reviewList.Select(idx)
	m.status = ""
	return m, nil
}

func (m *AppModel) confirmReview() (tea.Model, tea.Cmd) {
	if m.review.DeleteCount() == 0 {
		m.status = "No senders selected for deletion. Press d to mark, c to confirm."
		return m, nil
	}
	m.state = m.state.WithDecisions(m.review.Decisions())
	m.stage = stageExecuting
	m.execLines = nil
	m.status = fmt.Sprintf("Saving and trashing mail from %d senders...", m.review.DeleteCount())
	return m, m.executeCmd()
}

func (m *AppModel) resetSession() (tea.Model, tea.Cmd) {
	m.state = model.RunState{}
	m.review = nil
	m.detail = nil
	m.execLines = nil
	m.savedCount = 0
	m.trashedCount = 0
	m.fetchDone = 0
	m.fetchTotal = 0
	m.countInput.Reset()
	m.countInput.Focus()
	m.runID = m.cfg.RunPrefix + time.Now().Format("20060102-150405")
	m.stage = stageWelcome
	m.status = ""
	return m, textinput.Blink
}

// Commands

func (m *AppModel) fetchCmd(max int64) tea.Cmd {
	return func() tea.Msg {
		emails, err := m.svc.Fetch(context.Background(), max, func(done, total int) {
			if m.program != nil {
				m.program.Send(fetchProgressMsg{done: done, total: total})
			}
		})
		return fetchCompleteMsg{emails: emails, err: err}
	}
}

func (m *AppModel) executeCmd() tea.Cmd {
	groups := m.state.Groups
	decisions := m.state.Decisions
	runID := m.runID
	started := time.Now()
	return func() tea.Msg {
		ctx := context.Background()
		if m.index != nil {
			if err := m.index.BeginRun(ctx, runID, started); err != nil {
				m.svc.Log.Warn("begin run", "error", err)
			}
		}
		saved, trashed, err := m.svc.Execute(ctx, runID, groups, decisions, func(e sweep.Event) {
			if m.program != nil {
				m.program.Send(execEventMsg(e))
			}
		})
		if m.index != nil {
			if ferr := m.index.FinishRun(ctx, runID, len(saved), len(trashed), time.Now()); ferr != nil {
				m.svc.Log.Warn("finish run", "error", ferr)
			}
		}
		return execCompleteMsg{saved: saved, trashed: trashed, err: err}
	}
}
