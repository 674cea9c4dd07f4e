package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/existflow/croptask/internal/logger"
	"github.com/existflow/croptask/internal/model"
	"github.com/existflow/croptask/internal/planner"
)

// attachState drives the "add this suggestion to a plan" picker
type attachState struct {
	suggestion string
	related    []string
	showAll    bool
	result     planner.MatchResult
	cursor     int

	attached *model.Task
}

// NewAttachModel creates a picker that attaches suggestion to one of the
// plans matching related. The program quits once a task is attached.
func NewAttachModel(store *planner.Store, suggestion string, related []string) Model {
	logger.Info("Initializing attach picker",
		logger.F("suggestion", suggestion),
		logger.F("related", strings.Join(related, ",")))

	m := Model{
		store: store,
		ctx:   context.Background(),
		mode:  ModeNormal,
		input: newInput(),
		attach: &attachState{
			suggestion: suggestion,
			related:    related,
		},
	}
	m.rematch()
	return m
}

// Attached returns the task created by the picker, if any
func (m Model) Attached() (model.Task, bool) {
	if m.attach == nil || m.attach.attached == nil {
		return model.Task{}, false
	}
	return *m.attach.attached, true
}

func (m *Model) rematch() {
	a := m.attach
	a.result = m.store.MatchPlans(m.ctx, a.related, a.showAll)
	m.counts = make(map[int64][2]int, len(a.result.Plans))
	for _, p := range a.result.Plans {
		pending, total := m.store.TaskCounts(m.ctx, p.ID)
		m.counts[p.ID] = [2]int{pending, total}
	}
	if a.cursor >= len(a.result.Plans) {
		a.cursor = 0
	}
}

func (m Model) handleAttachKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	a := m.attach

	switch {
	case key.Matches(msg, keys.Quit), key.Matches(msg, keys.Escape):
		return m, tea.Quit

	case key.Matches(msg, keys.Up):
		if a.cursor > 0 {
			a.cursor--
		}

	case key.Matches(msg, keys.Down):
		if a.cursor < len(a.result.Plans)-1 {
			a.cursor++
		}

	case key.Matches(msg, keys.ShowAll):
		a.showAll = !a.showAll
		a.cursor = 0
		m.rematch()
		m.message = ""

	case key.Matches(msg, keys.Enter):
		if len(a.result.Plans) == 0 {
			m.message = "Nothing to attach to. Press n to create a plan."
			return m, nil
		}
		plan := a.result.Plans[a.cursor]
		task, err := m.store.AddTaskToPlan(m.ctx, plan.ID, a.suggestion)
		if err != nil {
			m.message = fmt.Sprintf("Error adding task: %v", err)
			return m, nil
		}
		a.attached = &task
		m.message = fmt.Sprintf("Added to %s", plan.Crop)
		return m, tea.Quit

	case key.Matches(msg, keys.QuickPlan):
		task, err := m.store.CreateQuickPlanAndAddTask(m.ctx, a.suggestion)
		if err != nil {
			m.message = fmt.Sprintf("Error creating plan: %v", err)
			return m, nil
		}
		a.attached = &task
		m.message = "Created a new plan for this task"
		return m, tea.Quit
	}

	return m, nil
}

func (m Model) renderAttach() string {
	a := m.attach
	modalWidth := min(max(m.width-4, 30), 70)

	content := lipgloss.NewStyle().Bold(true).Foreground(Primary).Render("Add to Plan") + "\n\n"
	content += truncate(a.suggestion, modalWidth-6) + "\n\n"

	switch {
	case a.showAll:
		content += HelpStyle.Render("Showing all plans") + "\n"
	case len(nonEmpty(a.related)) > 0:
		content += HelpStyle.Render("Plans for: "+strings.Join(nonEmpty(a.related), ", ")) + "\n"
	}
	content += lipgloss.NewStyle().Foreground(Border).Render(repeat("─", modalWidth-6)) + "\n"

	switch a.result.State {
	case planner.MatchNoPlans:
		content += HelpStyle.Render("No plans yet. Press n to create one for this task.") + "\n"
	case planner.MatchNone:
		content += HelpStyle.Render("No matching plans. Press s to show all plans or n to create one.") + "\n"
	default:
		for i, p := range a.result.Plans {
			marker := "  "
			style := PlanItemStyle
			if i == a.cursor {
				marker = "❯ "
				style = PlanItemSelectedStyle
			}
			c := m.counts[p.ID]
			line := fmt.Sprintf("%s%-14s %-12s %d/%d", marker, truncate(p.Crop, 14), truncate(p.Area, 12), c[0], c[1])
			content += style.Render(line) + "\n"
		}
	}

	content += "\n" + HelpStyle.Render("↑↓:nav  enter:add  s:show all  n:new plan  esc:cancel")
	if m.message != "" {
		content += "\n\n" + ErrorStyle.Render(m.message)
	}

	return ModalStyle.Width(modalWidth).Render(content)
}

func nonEmpty(in []string) []string {
	var out []string
	for _, s := range in {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}
