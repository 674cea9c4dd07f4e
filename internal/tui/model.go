package tui

import (
	"context"
	"sort"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/existflow/croptask/internal/logger"
	"github.com/existflow/croptask/internal/model"
	"github.com/existflow/croptask/internal/planner"
)

// Pane represents which pane is focused
type Pane int

const (
	PaneSidebar Pane = iota
	PaneTaskList
)

// Mode represents the current UI mode
type Mode int

const (
	ModeNormal Mode = iota
	ModeAddTask
	ModeAddPlan
	ModeFilter
	ModeConfirmDelete
	ModeHelp
)

// doneSortDelay keeps a freshly completed task in place before it sinks
const doneSortDelay = 10 * time.Second

// Model is the main TUI model
type Model struct {
	store  *planner.Store
	ctx    context.Context
	plans  []model.Plan
	counts map[int64][2]int // pending, total
	tasks  []model.Task

	// UI state
	width      int
	height     int
	pane       Pane
	mode       Mode
	planCursor int
	taskCursor int

	// Input
	input textinput.Model

	// Sorting state
	recentlyDone map[string]time.Time

	// Filter (vim-style)
	filterText   string
	matchIndices []int // Indices of matching tasks
	matchCursor  int   // Current match for n/N navigation

	// Plan awaiting delete confirmation
	deleteID int64

	// Set when the model runs as the attach picker
	attach *attachState

	message string
}

func newInput() textinput.Model {
	ti := textinput.New()
	ti.Placeholder = "Enter task..."
	ti.CharLimit = 256
	ti.Width = 50
	return ti
}

// NewModel creates the browse-mode model
func NewModel(store *planner.Store) Model {
	logger.Info("Initializing TUI model")

	m := Model{
		store:        store,
		ctx:          context.Background(),
		pane:         PaneSidebar,
		mode:         ModeNormal,
		input:        newInput(),
		recentlyDone: make(map[string]time.Time),
	}

	m.loadData()
	logger.Debug("TUI model initialized",
		logger.F("plans", len(m.plans)),
		logger.F("tasks", len(m.tasks)))
	return m
}

func (m *Model) loadData() {
	m.plans = m.store.LoadPlans(m.ctx)
	m.counts = make(map[int64][2]int, len(m.plans))
	for _, p := range m.plans {
		pending, total := m.store.TaskCounts(m.ctx, p.ID)
		m.counts[p.ID] = [2]int{pending, total}
	}
	if m.planCursor >= len(m.plans) {
		m.planCursor = 0
	}

	m.tasks = nil
	plan := m.currentPlan()
	if plan == nil {
		return
	}
	tasks, err := m.store.Tasks(m.ctx, plan.ID)
	if err != nil {
		m.message = "Error: " + err.Error()
		return
	}
	m.tasks = tasks

	// Active first, done last; a task done less than doneSortDelay ago
	// still counts as active. Stable, so insertion order is kept otherwise.
	sort.SliceStable(m.tasks, func(i, j int) bool {
		return !m.sinks(m.tasks[i]) && m.sinks(m.tasks[j])
	})
	if m.taskCursor >= len(m.tasks) {
		m.taskCursor = max(len(m.tasks)-1, 0)
	}
}

func (m *Model) sinks(t model.Task) bool {
	if !t.Completed {
		return false
	}
	if doneTime, ok := m.recentlyDone[t.ID]; ok && time.Since(doneTime) < doneSortDelay {
		return false
	}
	return true
}

func (m *Model) currentPlan() *model.Plan {
	if m.planCursor < len(m.plans) {
		return &m.plans[m.planCursor]
	}
	return nil
}

func (m *Model) currentTask() *model.Task {
	if m.taskCursor < len(m.tasks) {
		return &m.tasks[m.taskCursor]
	}
	return nil
}
