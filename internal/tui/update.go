package tui

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/existflow/croptask/internal/logger"
	"github.com/existflow/croptask/internal/model"
	"github.com/existflow/croptask/internal/planner"
)

// tickMsg is sent every second for time updates
type tickMsg time.Time

// Init initializes the model with a tick command
func (m Model) Init() tea.Cmd {
	if m.attach != nil {
		return nil
	}
	return tickCmd()
}

func tickCmd() tea.Cmd {
	return tea.Every(time.Second, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

// Update handles messages
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tickMsg:
		// Check for delayed sorting
		needsRefresh := false
		for id, doneTime := range m.recentlyDone {
			if time.Since(doneTime) >= doneSortDelay {
				delete(m.recentlyDone, id)
				needsRefresh = true
			}
		}
		if needsRefresh {
			m.loadData()
		}
		return m, tickCmd()

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case tea.KeyMsg:
		if m.attach != nil {
			return m.handleAttachKeys(msg)
		}

		// Handle mode-specific input
		switch m.mode {
		case ModeAddTask, ModeAddPlan:
			return m.updateInput(msg)
		case ModeFilter:
			return m.updateFilter(msg)
		case ModeConfirmDelete:
			return m.updateConfirmDelete(msg)
		case ModeHelp:
			m.mode = ModeNormal
			return m, nil
		}

		return m.handleNormalKeys(msg)
	}

	return m, nil
}

// handleNormalKeys handles key presses in normal mode
func (m Model) handleNormalKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, keys.Quit):
		return m, tea.Quit

	case key.Matches(msg, keys.Tab):
		if m.pane == PaneSidebar {
			m.pane = PaneTaskList
		} else {
			m.pane = PaneSidebar
		}

	case key.Matches(msg, keys.Left):
		m.pane = PaneSidebar

	case key.Matches(msg, keys.Right):
		m.pane = PaneTaskList

	case key.Matches(msg, keys.Up):
		m.handleUp()

	case key.Matches(msg, keys.Down):
		m.handleDown()

	case msg.String() == "G":
		m.handleGoBottom()

	case key.Matches(msg, keys.Add):
		return m.startAddTask()

	case key.Matches(msg, keys.Plan):
		return m.startAddPlan()

	case key.Matches(msg, keys.Enter) && m.pane == PaneSidebar:
		m.pane = PaneTaskList

	case key.Matches(msg, keys.Done), key.Matches(msg, keys.Enter):
		m.handleToggleDone()

	case key.Matches(msg, keys.Delete):
		m.startDeletePlan()

	case msg.String() == "/":
		return m.startFilter()

	case msg.String() == "n":
		m.handleNextMatch()

	case msg.String() == "N":
		m.handlePrevMatch()

	case key.Matches(msg, keys.Escape):
		if m.filterText != "" {
			m.filterText = ""
			m.matchIndices = nil
			m.message = "Filter cleared"
		}

	case key.Matches(msg, keys.Help):
		m.mode = ModeHelp

	case key.Matches(msg, keys.Refresh):
		m.loadData()
		m.message = "Reloaded"
	}

	return m, nil
}

func (m *Model) handleUp() {
	if m.pane == PaneSidebar {
		if m.planCursor > 0 {
			m.planCursor--
			m.taskCursor = 0
			m.loadData()
		}
	} else {
		if m.taskCursor > 0 {
			m.taskCursor--
		}
	}
}

func (m *Model) handleDown() {
	if m.pane == PaneSidebar {
		if m.planCursor < len(m.plans)-1 {
			m.planCursor++
			m.taskCursor = 0
			m.loadData()
		}
	} else {
		if m.taskCursor < len(m.tasks)-1 {
			m.taskCursor++
		}
	}
}

func (m *Model) handleGoBottom() {
	if m.pane == PaneSidebar {
		m.planCursor = max(len(m.plans)-1, 0)
		m.taskCursor = 0
		m.loadData()
	} else {
		m.taskCursor = max(len(m.tasks)-1, 0)
	}
}

func (m Model) startAddTask() (tea.Model, tea.Cmd) {
	if m.currentPlan() == nil {
		m.message = "Create a plan first (p)"
		return m, nil
	}
	m.mode = ModeAddTask
	m.input.SetValue("")
	m.input.Placeholder = "Enter task..."
	m.input.Focus()
	return m, textinput.Blink
}

func (m Model) startAddPlan() (tea.Model, tea.Cmd) {
	m.mode = ModeAddPlan
	m.input.SetValue("")
	m.input.Placeholder = "Crop, area (e.g. Okra, 2 acres)"
	m.input.Focus()
	return m, textinput.Blink
}

func (m *Model) handleToggleDone() {
	if m.pane != PaneTaskList {
		return
	}
	task := m.currentTask()
	if task == nil {
		return
	}

	updated, err := m.store.ToggleTask(m.ctx, task.PlanID, task.ID)
	if err != nil {
		m.message = fmt.Sprintf("Error: %v", err)
		return
	}
	if updated.Completed {
		m.recentlyDone[updated.ID] = time.Now()
	} else {
		delete(m.recentlyDone, updated.ID)
	}
	m.loadData()
}

func (m *Model) startDeletePlan() {
	plan := m.currentPlan()
	if plan == nil {
		return
	}
	if plan.IsSeed() {
		m.message = "Sample plans can't be deleted"
		return
	}
	m.deleteID = plan.ID
	m.mode = ModeConfirmDelete
}

func (m Model) updateConfirmDelete(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	m.mode = ModeNormal
	id := m.deleteID
	m.deleteID = 0

	if !key.Matches(msg, keys.Confirm) {
		m.message = "Cancelled"
		return m, nil
	}

	if err := m.store.DeletePlan(m.ctx, id); err != nil {
		logger.Error("Failed to delete plan", logger.F("id", id), logger.F("error", err))
		m.message = fmt.Sprintf("Error deleting plan: %v", err)
		return m, nil
	}
	if m.planCursor > 0 {
		m.planCursor--
	}
	m.taskCursor = 0
	m.loadData()
	m.message = "Plan deleted"
	return m, nil
}

func (m Model) startFilter() (tea.Model, tea.Cmd) {
	m.mode = ModeFilter
	m.input.SetValue(m.filterText)
	m.input.Placeholder = "/"
	m.input.Focus()
	return m, textinput.Blink
}

func (m *Model) handleNextMatch() {
	if len(m.matchIndices) > 0 {
		m.matchCursor = (m.matchCursor + 1) % len(m.matchIndices)
		m.taskCursor = m.matchIndices[m.matchCursor]
		m.message = fmt.Sprintf("[%d/%d] matches", m.matchCursor+1, len(m.matchIndices))
	}
}

func (m *Model) handlePrevMatch() {
	if len(m.matchIndices) > 0 {
		m.matchCursor--
		if m.matchCursor < 0 {
			m.matchCursor = len(m.matchIndices) - 1
		}
		m.taskCursor = m.matchIndices[m.matchCursor]
		m.message = fmt.Sprintf("[%d/%d] matches", m.matchCursor+1, len(m.matchIndices))
	}
}

// parsePlanInput splits "Crop, area" into its parts; the area is optional
func parsePlanInput(value string) model.Plan {
	crop, area, _ := strings.Cut(value, ",")
	return model.Plan{Crop: strings.TrimSpace(crop), Area: strings.TrimSpace(area)}
}

func (m Model) updateInput(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, keys.Escape):
		m.mode = ModeNormal
		return m, nil

	case key.Matches(msg, keys.Enter):
		value := strings.TrimSpace(m.input.Value())
		if value == "" {
			m.mode = ModeNormal
			return m, nil
		}

		switch m.mode {
		case ModeAddTask:
			plan := m.currentPlan()
			if plan != nil {
				if _, err := m.store.AddTaskToPlan(m.ctx, plan.ID, value); err != nil {
					m.message = fmt.Sprintf("Error adding task: %v", err)
				} else {
					m.message = fmt.Sprintf("Added: %s", value)
				}
			}
		case ModeAddPlan:
			plan, err := m.store.AddPlan(m.ctx, parsePlanInput(value))
			if err != nil {
				m.message = fmt.Sprintf("Error creating plan: %v", err)
				if errors.Is(err, planner.ErrInvalidPlan) {
					// keep the modal open so the input can be fixed
					return m, nil
				}
			} else {
				m.message = fmt.Sprintf("Created plan: %s", plan.Crop)
				m.loadData()
				for i, p := range m.plans {
					if p.ID == plan.ID {
						m.planCursor = i
					}
				}
			}
		}

		m.loadData()
		m.mode = ModeNormal
		return m, nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m Model) updateFilter(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, keys.Escape):
		m.mode = ModeNormal
		m.filterText = ""
		m.matchIndices = nil
		return m, nil

	case key.Matches(msg, keys.Enter):
		m.mode = ModeNormal
		m.filterText = m.input.Value()
		m.applyFilter()
		if len(m.matchIndices) > 0 {
			m.pane = PaneTaskList
			m.taskCursor = m.matchIndices[0]
		}
		return m, nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	m.filterText = m.input.Value()
	m.applyFilter()
	return m, cmd
}

func (m *Model) applyFilter() {
	m.matchIndices = nil
	m.matchCursor = 0
	if m.filterText == "" {
		return
	}
	needle := strings.ToLower(m.filterText)
	for i, t := range m.tasks {
		if strings.Contains(strings.ToLower(t.Text), needle) {
			m.matchIndices = append(m.matchIndices, i)
		}
	}
}
