package planner

import (
	"context"
	"errors"
	"testing"

	"github.com/existflow/croptask/internal/db"
	"github.com/existflow/croptask/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAddTaskToPlan_SeedPlan(t *testing.T) {
	s, _ := newTestStore(t)
	ctx := context.Background()

	task, err := s.AddTaskToPlan(ctx, 1001, "Apply neem oil spray")
	require.NoError(t, err)
	assert.Equal(t, "Apply neem oil spray", task.Text)
	assert.False(t, task.Completed)
	assert.Equal(t, int64(1001), task.PlanID)
	assert.Equal(t, fixedNow, task.CreatedAt)

	tasks, err := s.Tasks(ctx, 1001)
	require.NoError(t, err)
	require.Len(t, tasks, 1)
	assert.Equal(t, task, tasks[0])

	// Seed plan fields untouched
	p, err := s.GetPlan(ctx, 1001)
	require.NoError(t, err)
	assert.Equal(t, model.SeedPlans()[0], p)
}

func TestAddTaskToPlan_AppendsInOrder(t *testing.T) {
	s, _ := newTestStore(t)
	ctx := context.Background()

	for _, text := range []string{"first", "second", "third"} {
		before, err := s.Tasks(ctx, 1003)
		require.NoError(t, err)

		_, err = s.AddTaskToPlan(ctx, 1003, text)
		require.NoError(t, err)

		after, err := s.Tasks(ctx, 1003)
		require.NoError(t, err)
		require.Len(t, after, len(before)+1)
		assert.Equal(t, text, after[len(after)-1].Text)
	}

	other, err := s.Tasks(ctx, 1004)
	require.NoError(t, err)
	assert.Empty(t, other)
}

func TestAddTaskToPlan_Errors(t *testing.T) {
	s, kv := newTestStore(t)
	ctx := context.Background()

	_, err := s.AddTaskToPlan(ctx, 999, "orphan")
	assert.ErrorIs(t, err, ErrUnknownPlan)

	_, err = s.AddTaskToPlan(ctx, 1001, "   ")
	assert.ErrorIs(t, err, ErrEmptyTask)

	keys, err := kv.Keys(ctx, "croptask:todos:")
	require.NoError(t, err)
	assert.Empty(t, keys)
}

func TestCreateQuickPlanAndAddTask(t *testing.T) {
	s, _ := newTestStore(t)
	ctx := context.Background()

	task, err := s.CreateQuickPlanAndAddTask(ctx, "Remove Bindweed - pull by hand")
	require.NoError(t, err)
	assert.Equal(t, "Remove Bindweed - pull by hand", task.Text)
	assert.False(t, task.Completed)

	plan, err := s.GetPlan(ctx, task.PlanID)
	require.NoError(t, err)
	assert.Equal(t, "Bindweed", plan.Crop)
	assert.Equal(t, DefaultArea, plan.Area)
	assert.Equal(t, model.PlanKindUser, plan.Kind)

	tasks, err := s.Tasks(ctx, plan.ID)
	require.NoError(t, err)
	assert.Len(t, tasks, 1)
}

func TestCreateQuickPlanAndAddTask_NeverCollides(t *testing.T) {
	s, _ := newTestStore(t)
	ctx := context.Background()

	ids := map[int64]bool{}
	for _, p := range s.LoadPlans(ctx) {
		ids[p.ID] = true
	}
	for i := 0; i < 5; i++ {
		task, err := s.CreateQuickPlanAndAddTask(ctx, "Treat Blight - copper spray")
		require.NoError(t, err)
		assert.False(t, ids[task.PlanID])
		ids[task.PlanID] = true
	}
}

func TestCreateQuickPlanAndAddTask_SingleWordFallsBack(t *testing.T) {
	s := NewStore(NewKVRepository(db.NewMemory(), "croptask"))
	ctx := context.Background()

	task, err := s.CreateQuickPlanAndAddTask(ctx, "Irrigate")
	require.NoError(t, err)

	plan, err := s.GetPlan(ctx, task.PlanID)
	require.NoError(t, err)
	assert.Equal(t, QuickPlanFallbackCrop, plan.Crop)

	_, err = s.CreateQuickPlanAndAddTask(ctx, " ")
	assert.ErrorIs(t, err, ErrEmptyTask)
}

// failingTasksRepo stores plans normally but refuses task writes
type failingTasksRepo struct {
	*KVRepository
}

func (r failingTasksRepo) SaveTasks(ctx context.Context, planID int64, tasks []model.Task) error {
	return errors.New("disk full")
}

func TestCreateQuickPlanAndAddTask_RemovesPlanWhenTaskFails(t *testing.T) {
	s := NewStore(failingTasksRepo{NewKVRepository(db.NewMemory(), "croptask")})
	ctx := context.Background()

	_, err := s.CreateQuickPlanAndAddTask(ctx, "Remove Bindweed - pull by hand")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "disk full")

	plans := s.LoadPlans(ctx)
	assert.Equal(t, model.SeedPlans(), plans)
}

func TestQuickPlanCrop(t *testing.T) {
	// the first word is always the action verb
	assert.Equal(t, "Bindweed", QuickPlanCrop("Remove Bindweed - pull by hand"))
	assert.Equal(t, "Aphids", QuickPlanCrop("  Control   Aphids - spray"))
	assert.Equal(t, "My Plan", QuickPlanCrop("Water"))
	assert.Equal(t, "My Plan", QuickPlanCrop(""))
}
