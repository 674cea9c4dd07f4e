package planner

import (
	"context"
	"fmt"
	"strings"

	"github.com/existflow/croptask/internal/logger"
	"github.com/existflow/croptask/internal/model"
)

// QuickPlanFallbackCrop names a quick plan when the suggestion has no second word
const QuickPlanFallbackCrop = "My Plan"

// AddTaskToPlan appends an incomplete task to a known plan. Plan ids must
// come from a previous LoadPlans or MatchPlans; unknown ids fail with
// ErrUnknownPlan and nothing is written.
func (s *Store) AddTaskToPlan(ctx context.Context, planID int64, text string) (model.Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.addTaskToPlan(ctx, planID, text)
}

func (s *Store) addTaskToPlan(ctx context.Context, planID int64, text string) (model.Task, error) {
	if strings.TrimSpace(text) == "" {
		return model.Task{}, ErrEmptyTask
	}
	if _, ok := findPlan(s.loadPlans(ctx), planID); !ok {
		return model.Task{}, fmt.Errorf("%w: %d", ErrUnknownPlan, planID)
	}

	task := model.NewTask(s.newID(), planID, text, s.now())
	tasks := append(s.loadTasks(ctx, planID), task)
	if err := s.repo.SaveTasks(ctx, planID, tasks); err != nil {
		return model.Task{}, fmt.Errorf("failed to save tasks: %w", err)
	}

	logger.Info("Task attached", logger.F("plan", planID), logger.F("task", task.ID))
	return task, nil
}

// QuickPlanCrop derives a provisional crop name from a suggestion
func QuickPlanCrop(suggestion string) string {
	words := strings.Fields(suggestion)
	if len(words) < 2 {
		return QuickPlanFallbackCrop
	}
	return words[1]
}

// CreateQuickPlanAndAddTask creates a minimal plan named after the
// suggestion's second word and attaches the whole suggestion to it.
// If the task cannot be stored the new plan is removed again.
func (s *Store) CreateQuickPlanAndAddTask(ctx context.Context, suggestion string) (model.Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if strings.TrimSpace(suggestion) == "" {
		return model.Task{}, ErrEmptyTask
	}

	plan, err := s.addPlan(ctx, model.Plan{
		Crop: QuickPlanCrop(suggestion),
		Area: DefaultArea,
	})
	if err != nil {
		return model.Task{}, err
	}

	task, err := s.addTaskToPlan(ctx, plan.ID, suggestion)
	if err != nil {
		s.removeUserPlan(ctx, plan.ID)
		return model.Task{}, err
	}
	return task, nil
}

// removeUserPlan drops a just-created plan; failures are only logged
func (s *Store) removeUserPlan(ctx context.Context, id int64) {
	users := userPlans(s.loadPlans(ctx))
	kept := users[:0]
	for _, p := range users {
		if p.ID != id {
			kept = append(kept, p)
		}
	}
	if err := s.writePlans(ctx, kept); err != nil {
		logger.Warn("Failed to remove orphan quick plan", logger.F("id", id), logger.F("error", err))
	}
}
