package tui

import (
	"fmt"
	"time"

	"github.com/charmbracelet/lipgloss"
)

// View renders the UI
func (m Model) View() string {
	if m.width == 0 {
		return "Loading..."
	}

	if m.attach != nil {
		return lipgloss.Place(m.width, m.height,
			lipgloss.Center, lipgloss.Center,
			m.renderAttach(),
			lipgloss.WithWhitespaceChars(" "))
	}

	sidebar := m.renderSidebar()
	taskList := m.renderTaskList()
	statusBar := m.renderStatusBar()

	mainContent := lipgloss.JoinHorizontal(lipgloss.Top, sidebar, taskList)

	switch m.mode {
	case ModeAddTask, ModeAddPlan:
		mainContent = m.place(m.renderModal())
	case ModeConfirmDelete:
		mainContent = m.place(m.renderConfirmDelete())
	case ModeHelp:
		mainContent = m.renderHelp()
	}

	return lipgloss.JoinVertical(lipgloss.Left, mainContent, statusBar)
}

func (m Model) place(modal string) string {
	return lipgloss.Place(
		m.width, m.height-2,
		lipgloss.Center, lipgloss.Center,
		modal,
		lipgloss.WithWhitespaceChars(" "),
	)
}

func (m Model) renderSidebar() string {
	sidebarWidth := 24
	var s string

	// Header with time
	now := time.Now().Format("15:04:05")
	s += lipgloss.NewStyle().Bold(true).Foreground(Primary).Render("CropTask") + "\n"
	s += HelpStyle.Render(now) + "\n"
	s += lipgloss.NewStyle().Foreground(Border).Render("───────────────────") + "\n\n"

	for i, p := range m.plans {
		c := m.counts[p.ID]

		cursor := "  "
		style := PlanItemStyle
		if i == m.planCursor {
			cursor = "❯ "
			if m.pane == PaneSidebar {
				style = PlanItemSelectedStyle
			}
		}

		line := fmt.Sprintf("%s%-11s %d/%d", cursor, truncate(p.Crop, 11), c[0], c[1])
		s += style.Render(line)
		if p.IsSeed() {
			s += SeedBadgeStyle.Render(" •")
		}
		s += "\n"
	}

	s += "\n" + lipgloss.NewStyle().Foreground(Border).Render("───────────────────") + "\n"
	s += HelpStyle.Render("p new plan  • sample")

	return SidebarStyle.Width(sidebarWidth).Height(m.height - 2).Render(s)
}

func (m Model) renderTaskList() string {
	width := m.width - 26
	var s string

	plan := m.currentPlan()
	if plan == nil {
		return TaskListStyle.Width(width).Height(m.height - 2).Render("No plans yet. Press 'p' to create one.")
	}

	pending := 0
	for _, t := range m.tasks {
		if !t.Completed {
			pending++
		}
	}
	header := fmt.Sprintf("%s · %s (%d pending)", plan.Crop, plan.Area, pending)
	s += lipgloss.NewStyle().Bold(true).Foreground(Primary).Render(header) + "\n"
	if plan.Variety != "" || plan.SowingDate != "" {
		s += HelpStyle.Render(fmt.Sprintf("%s  sown %s", plan.Variety, orDash(plan.SowingDate))) + "\n"
	}
	s += lipgloss.NewStyle().Foreground(Border).Render(repeat("─", width-4)) + "\n\n"

	if len(m.tasks) == 0 {
		s += HelpStyle.Render("  No tasks. Press 'a' to add one.")
	}

	for i, t := range m.tasks {
		cursor := "  "
		style := TaskItemStyle
		if i == m.taskCursor && m.pane == PaneTaskList {
			cursor = "❯ "
			style = TaskItemSelectedStyle
		}

		// Highlight matching tasks
		isMatch := false
		for _, idx := range m.matchIndices {
			if idx == i {
				isMatch = true
				break
			}
		}
		if isMatch && i != m.taskCursor {
			style = lipgloss.NewStyle().Foreground(Highlight)
		}

		icon := "[ ]"
		if t.Completed {
			icon = "[x]"
			style = TaskDoneStyle
		}

		s += style.Render(fmt.Sprintf("%s%s %s", cursor, icon, truncate(t.Text, width-12))) + "\n"
	}

	return TaskListStyle.Width(width).Height(m.height - 2).Render(s)
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

func (m Model) renderStatusBar() string {
	// When in filter mode, show inline search input (like vim)
	if m.mode == ModeFilter {
		matches := ""
		if len(m.matchIndices) > 0 {
			matches = fmt.Sprintf(" [%d/%d]", m.matchCursor+1, len(m.matchIndices))
		} else if m.filterText != "" {
			matches = " [no match]"
		}
		return StatusBarStyle.Width(m.width).Render("/" + m.input.View() + matches)
	}

	help := "/:search  n/N:next/prev  a:add  p:plan  x:done  d:delete plan  ?:help  q:quit"
	if m.filterText != "" {
		if len(m.matchIndices) > 0 {
			help = fmt.Sprintf("/%s  [%d/%d matches]  n:next  N:prev  Esc:clear",
				m.filterText, m.matchCursor+1, len(m.matchIndices))
		} else {
			help = fmt.Sprintf("/%s  [no matches]  Esc:clear", m.filterText)
		}
	} else if m.message != "" {
		help = m.message
	}

	return StatusBarStyle.Width(m.width).Render(help)
}

func (m Model) renderModal() string {
	title := "New Plan"
	if plan := m.currentPlan(); plan != nil && m.mode == ModeAddTask {
		title = fmt.Sprintf("Add Task to: %s", plan.Crop)
	}

	content := lipgloss.NewStyle().Bold(true).Render(title) + "\n\n"
	content += m.input.View() + "\n\n"
	if m.mode == ModeAddPlan && m.message != "" {
		content += ErrorStyle.Render(m.message) + "\n\n"
	}
	content += HelpStyle.Render("Enter:save  Esc:cancel")

	return ModalStyle.Render(content)
}

func (m Model) renderConfirmDelete() string {
	crop := fmt.Sprintf("plan %d", m.deleteID)
	for _, p := range m.plans {
		if p.ID == m.deleteID {
			crop = p.Crop
		}
	}
	c := m.counts[m.deleteID]

	content := lipgloss.NewStyle().Bold(true).Foreground(Danger).Render("Delete plan?") + "\n\n"
	content += fmt.Sprintf("%s and its %d task(s) will be removed.", crop, c[1]) + "\n\n"
	content += HelpStyle.Render("y:delete  any other key:cancel")

	return DangerModalStyle.Render(content)
}

func (m Model) renderHelp() string {
	help := `
╭─── Keyboard Shortcuts ───╮
│                          │
│  Navigation              │
│  ──────────              │
│  j/↓    Move down        │
│  k/↑    Move up          │
│  h/l    Switch pane      │
│  Tab    Switch pane      │
│  G      Go to bottom     │
│                          │
│  Actions                 │
│  ───────                 │
│  a       Add task        │
│  x/Enter Toggle done     │
│  p       New plan        │
│  d       Delete plan     │
│  /       Search tasks    │
│  r       Reload          │
│                          │
│  Other                   │
│  ─────                   │
│  ?       Toggle help     │
│  q       Quit            │
│                          │
╰──────────────────────────╯

     Press any key to close
`
	return lipgloss.Place(m.width, m.height-2, lipgloss.Center, lipgloss.Center, help)
}
