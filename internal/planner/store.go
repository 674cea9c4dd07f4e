package planner

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/existflow/croptask/internal/logger"
	"github.com/existflow/croptask/internal/model"
	"github.com/google/uuid"
)

// DefaultArea is used when a plan is created without an area
const DefaultArea = "1 acre"

// Store is the single owner of plans and tasks. Every write is a full
// read-modify-write of the affected slot, serialised by mu.
type Store struct {
	repo  Repository
	now   func() time.Time
	newID func() string
	mu    sync.Mutex
}

// Option customises a Store
type Option func(*Store)

// WithClock replaces time.Now
func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

// WithIDGenerator replaces the task id generator
func WithIDGenerator(newID func() string) Option {
	return func(s *Store) { s.newID = newID }
}

// NewStore creates a store backed by repo
func NewStore(repo Repository, opts ...Option) *Store {
	s := &Store{
		repo:  repo,
		now:   time.Now,
		newID: func() string { return uuid.New().String() },
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// LoadPlans returns the seed plans followed by the stored user plans.
// It never fails: unreadable storage degrades to the seed plans alone.
func (s *Store) LoadPlans(ctx context.Context) []model.Plan {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loadPlans(ctx)
}

func (s *Store) loadPlans(ctx context.Context) []model.Plan {
	plans := model.SeedPlans()

	stored, err := s.repo.LoadPlans(ctx)
	if err != nil {
		logger.Warn("Plan storage unreadable, showing seed plans only", logger.F("error", err))
		return plans
	}

	seen := make(map[int64]bool, len(plans)+len(stored))
	for _, p := range plans {
		seen[p.ID] = true
	}
	for _, p := range stored {
		if !isUserRecord(p) || seen[p.ID] {
			logger.Warn("Skipping stored plan",
				logger.F("id", p.ID),
				logger.F("kind", p.Kind),
				logger.F("duplicate", seen[p.ID]))
			continue
		}
		p.Kind = model.PlanKindUser
		seen[p.ID] = true
		plans = append(plans, p)
	}
	return plans
}

// isUserRecord accepts records tagged as user plans, and untagged records
// written before plans carried a kind as long as they stay off the seed ids.
func isUserRecord(p model.Plan) bool {
	switch p.Kind {
	case model.PlanKindUser:
		return !model.IsSeedID(p.ID)
	case "":
		return !model.IsSeedID(p.ID) && p.ID > 0
	default:
		return false
	}
}

// userPlans filters out seed plans and duplicate ids, keeping order
func userPlans(plans []model.Plan) []model.Plan {
	out := make([]model.Plan, 0, len(plans))
	seen := make(map[int64]bool, len(plans))
	for _, p := range plans {
		if p.IsSeed() || !isUserRecord(p) || seen[p.ID] {
			continue
		}
		p.Kind = model.PlanKindUser
		seen[p.ID] = true
		out = append(out, p)
	}
	return out
}

// SavePlans persists the user plans in plans. Seed plans are never written.
// An empty user subset is ignored so a transient empty read cannot wipe
// stored plans.
func (s *Store) SavePlans(ctx context.Context, plans []model.Plan) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	users := userPlans(plans)
	if len(users) == 0 {
		logger.Debug("Ignoring save of empty plan list")
		return nil
	}
	return s.writePlans(ctx, users)
}

func (s *Store) writePlans(ctx context.Context, users []model.Plan) error {
	if err := s.repo.SavePlans(ctx, users); err != nil {
		return fmt.Errorf("failed to save plans: %w", err)
	}
	return nil
}

// nextPlanID returns a time-based id above the seed block and every existing id
func (s *Store) nextPlanID(plans []model.Plan) int64 {
	maxID := model.SeedIDMax
	for _, p := range plans {
		if p.ID > maxID {
			maxID = p.ID
		}
	}
	id := s.now().UnixMilli()
	if id <= maxID {
		id = maxID + 1
	}
	return id
}

func validatePlan(p *model.Plan) error {
	p.Crop = model.CleanCrop(p.Crop)
	if p.Crop == "" {
		return fmt.Errorf("%w: crop is required", ErrInvalidPlan)
	}
	if p.Area == "" {
		p.Area = DefaultArea
		return nil
	}
	q, err := model.ParseQuantity(p.Area)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidPlan, err)
	}
	p.Area = q.String()
	return nil
}

// AddPlan validates plan, gives it a fresh id and stores it
func (s *Store) AddPlan(ctx context.Context, plan model.Plan) (model.Plan, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.addPlan(ctx, plan)
}

func (s *Store) addPlan(ctx context.Context, plan model.Plan) (model.Plan, error) {
	if err := validatePlan(&plan); err != nil {
		return model.Plan{}, err
	}

	plans := s.loadPlans(ctx)
	plan.ID = s.nextPlanID(plans)
	plan.Kind = model.PlanKindUser

	users := append(userPlans(plans), plan)
	if err := s.writePlans(ctx, users); err != nil {
		return model.Plan{}, err
	}

	logger.Info("Plan created", logger.F("id", plan.ID), logger.F("crop", plan.Crop))
	return plan, nil
}

// GetPlan looks a plan up by id
func (s *Store) GetPlan(ctx context.Context, id int64) (model.Plan, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, ok := findPlan(s.loadPlans(ctx), id)
	if !ok {
		return model.Plan{}, fmt.Errorf("%w: %d", ErrUnknownPlan, id)
	}
	return p, nil
}

func findPlan(plans []model.Plan, id int64) (model.Plan, bool) {
	for _, p := range plans {
		if p.ID == id {
			return p, true
		}
	}
	return model.Plan{}, false
}

// UpdatePlan replaces a user plan's fields. Seed plans are read-only.
func (s *Store) UpdatePlan(ctx context.Context, plan model.Plan) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	plans := s.loadPlans(ctx)
	existing, ok := findPlan(plans, plan.ID)
	if !ok {
		return fmt.Errorf("%w: %d", ErrUnknownPlan, plan.ID)
	}
	if existing.IsSeed() {
		return fmt.Errorf("%w: %d", ErrSeedPlan, plan.ID)
	}
	if err := validatePlan(&plan); err != nil {
		return err
	}
	plan.Kind = model.PlanKindUser

	users := userPlans(plans)
	for i := range users {
		if users[i].ID == plan.ID {
			users[i] = plan
		}
	}
	return s.writePlans(ctx, users)
}

// DeletePlan removes a user plan together with its tasks and checklist state.
// Confirmation is the caller's job.
func (s *Store) DeletePlan(ctx context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	plans := s.loadPlans(ctx)
	existing, ok := findPlan(plans, id)
	if !ok {
		return fmt.Errorf("%w: %d", ErrUnknownPlan, id)
	}
	if existing.IsSeed() {
		return fmt.Errorf("%w: %d", ErrSeedPlan, id)
	}

	users := userPlans(plans)
	kept := users[:0]
	for _, p := range users {
		if p.ID != id {
			kept = append(kept, p)
		}
	}

	// Deliberate delete: an empty result is written, unlike SavePlans
	if err := s.writePlans(ctx, kept); err != nil {
		return err
	}
	if err := s.repo.DeleteTasks(ctx, id); err != nil {
		return fmt.Errorf("failed to delete tasks of plan %d: %w", id, err)
	}

	completed, err := s.repo.LoadCompleted(ctx)
	if err == nil {
		if _, ok := completed[id]; ok {
			delete(completed, id)
			if err := s.repo.SaveCompleted(ctx, completed); err != nil {
				return fmt.Errorf("failed to clear checklist of plan %d: %w", id, err)
			}
		}
	}

	logger.Info("Plan deleted", logger.F("id", id), logger.F("crop", existing.Crop))
	return nil
}

// Tasks returns the plan's tasks in insertion order
func (s *Store) Tasks(ctx context.Context, planID int64) ([]model.Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := findPlan(s.loadPlans(ctx), planID); !ok {
		return nil, fmt.Errorf("%w: %d", ErrUnknownPlan, planID)
	}
	return s.loadTasks(ctx, planID), nil
}

func (s *Store) loadTasks(ctx context.Context, planID int64) []model.Task {
	tasks, err := s.repo.LoadTasks(ctx, planID)
	if err != nil {
		logger.Warn("Task storage unreadable, treating as empty",
			logger.F("plan", planID), logger.F("error", err))
		return []model.Task{}
	}
	if tasks == nil {
		tasks = []model.Task{}
	}
	return tasks
}

// TaskCounts returns pending and total task counts for a plan
func (s *Store) TaskCounts(ctx context.Context, planID int64) (pending, total int) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, t := range s.loadTasks(ctx, planID) {
		total++
		if !t.Completed {
			pending++
		}
	}
	return pending, total
}

// ToggleTask flips a task between incomplete and complete
func (s *Store) ToggleTask(ctx context.Context, planID int64, taskID string) (model.Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := findPlan(s.loadPlans(ctx), planID); !ok {
		return model.Task{}, fmt.Errorf("%w: %d", ErrUnknownPlan, planID)
	}

	tasks := s.loadTasks(ctx, planID)
	for i := range tasks {
		if tasks[i].ID != taskID {
			continue
		}
		tasks[i].Toggle()
		if err := s.repo.SaveTasks(ctx, planID, tasks); err != nil {
			return model.Task{}, fmt.Errorf("failed to save tasks: %w", err)
		}
		return tasks[i], nil
	}
	return model.Task{}, fmt.Errorf("%w: %s", ErrUnknownTask, taskID)
}

// FindTask resolves a task by full id or unique id prefix across all plans
func (s *Store) FindTask(ctx context.Context, idOrPrefix string) (model.Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var found []model.Task
	for _, p := range s.loadPlans(ctx) {
		for _, t := range s.loadTasks(ctx, p.ID) {
			if t.ID == idOrPrefix {
				return t, nil
			}
			if len(idOrPrefix) > 0 && len(t.ID) >= len(idOrPrefix) && t.ID[:len(idOrPrefix)] == idOrPrefix {
				found = append(found, t)
			}
		}
	}
	switch len(found) {
	case 0:
		return model.Task{}, fmt.Errorf("%w: %s", ErrUnknownTask, idOrPrefix)
	case 1:
		return found[0], nil
	default:
		return model.Task{}, fmt.Errorf("%w: %s matches %d tasks", ErrUnknownTask, idOrPrefix, len(found))
	}
}

// Reset wipes every user plan, task and checklist entry
func (s *Store) Reset(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.repo.DeleteAll(ctx); err != nil {
		return fmt.Errorf("failed to reset store: %w", err)
	}
	logger.Info("Store reset")
	return nil
}
