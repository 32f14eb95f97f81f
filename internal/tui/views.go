package tui

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/lipgloss"

	"mailmop/internal/model"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("39"))

	footerStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("241")).
			PaddingTop(1)

	deleteStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("203")).
			Bold(true)

	keepStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("78"))
)

// groupItem wraps a SenderGroup plus its current decision for list display.
type groupItem struct {
	model.SenderGroup
	decision model.Decision
	decided  bool
}

func (g groupItem) FilterValue() string { return g.Sender }

func (g groupItem) Title() string {
	mark := "·"
	switch {
	case g.decided && g.decision == model.DecisionDelete:
		mark = deleteStyle.Render("✗")
	case g.decided:
		mark = keepStyle.Render("✓")
	}
	return fmt.Sprintf("%s %s (%d)", mark, g.Sender, g.Count)
}

func (g groupItem) Description() string {
	if len(g.Emails) == 0 {
		return ""
	}
	return truncate(g.Emails[0].Subject, 60)
}

func (m *AppModel) reviewItems() []list.Item {
	groups := m.review.Groups()
	decisions := m.review.Decisions()
	items := make([]list.Item, len(groups))
	for i, g := range groups {
		d, decided := decisions[g.Sender]
		items[i] = groupItem{SenderGroup: g, decision: d, decided: decided}
	}
	return items
}

// View renders the current stage.
func (m *AppModel) View() string {
	if m.Err != nil {
		return "Error: " + m.Err.Error() + "\n"
	}

	var b strings.Builder
	switch m.stage {
	case stageWelcome:
		b.WriteString(titleStyle.Render("mailmop — inbox cleanup"))
		b.WriteString("\n\n")
		b.WriteString("Fetch recent INBOX messages, group them by sender,\n")
		b.WriteString("then keep or delete per sender. Deleted senders are\n")
		b.WriteString("archived to local JSON before anything is trashed.\n\n")
		b.WriteString(fmt.Sprintf("How many recent emails to fetch? (10–500)\n%s\n", m.countInput.View()))
		b.WriteString(footerStyle.Render("enter: start  q: quit"))

	case stageFetching:
		b.WriteString(titleStyle.Render("Fetching"))
		b.WriteString("\n\n")
		if m.fetchTotal > 0 {
			b.WriteString(m.fetchBar.ViewAs(float64(m.fetchDone) / float64(m.fetchTotal)))
			b.WriteString(fmt.Sprintf("\n\n%d / %d messages", m.fetchDone, m.fetchTotal))
		} else if m.status != "" {
			b.WriteString(m.status)
		}

	case stageReview:
		if m.detail != nil {
			b.WriteString(m.detailView())
			break
		}
		b.WriteString(m.reviewList.View())
		b.WriteString("\n")
		b.WriteString(footerStyle.Render("d: delete (save + trash)  s: skip  enter: details  c: confirm  q: quit"))

	case stageExecuting:
		b.WriteString(titleStyle.Render("Executing cleanup"))
		b.WriteString("\n\n")
		for _, line := range m.execLines {
			b.WriteString("  " + line + "\n")
		}

	case stageFinished:
		b.WriteString(titleStyle.Render("Cleanup finished"))
		b.WriteString("\n\n")
		b.WriteString(fmt.Sprintf("  Saved  : %d files\n", m.savedCount))
		b.WriteString(fmt.Sprintf("  Trashed: %d messages\n", m.trashedCount))
		b.WriteString(fmt.Sprintf("\n  Archives live in %s\n", m.cfg.ArchiveDir))
		if len(m.recentRuns) > 0 {
			b.WriteString("\n  Recent runs:\n")
			for _, r := range m.recentRuns {
				b.WriteString(fmt.Sprintf("    %s  saved %d  trashed %d\n", r.ID, r.SavedCount, r.TrashedCount))
			}
		}
		b.WriteString(footerStyle.Render("n: new session  q: quit"))
	}

	if m.status != "" && m.stage != stageFetching {
		b.WriteString("\n")
		b.WriteString(m.status)
	}
	return b.String()
}

func (m *AppModel) detailView() string {
	g := m.detail
	var b strings.Builder
	b.WriteString(titleStyle.Render(fmt.Sprintf("%s — %d emails", g.Sender, g.Count)))
	b.WriteString("\n\n")
	shown := g.Emails
	if len(shown) > 3 {
		shown = shown[:3]
	}
	for _, e := range shown {
		b.WriteString("  • " + truncate(e.Subject, 90) + "\n")
		if e.Preview != "" {
			b.WriteString("    " + truncate(e.Preview, 100) + "\n")
		}
	}
	if g.Count > len(shown) {
		b.WriteString(fmt.Sprintf("  … +%d more\n", g.Count-len(shown)))
	}
	b.WriteString(footerStyle.Render("esc: back"))
	return b.String()
}

func truncate(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	return string([]rune(s)[:n]) + "…"
}
