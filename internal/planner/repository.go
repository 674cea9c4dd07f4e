package planner

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"

	"github.com/existflow/croptask/internal/db"
	"github.com/existflow/croptask/internal/model"
)

// Repository persists plans, their tasks and checklist progress
type Repository interface {
	LoadPlans(ctx context.Context) ([]model.Plan, error)
	SavePlans(ctx context.Context, plans []model.Plan) error
	LoadTasks(ctx context.Context, planID int64) ([]model.Task, error)
	SaveTasks(ctx context.Context, planID int64, tasks []model.Task) error
	DeleteTasks(ctx context.Context, planID int64) error
	LoadCompleted(ctx context.Context) (map[int64][]string, error)
	SaveCompleted(ctx context.Context, completed map[int64][]string) error
	DeleteAll(ctx context.Context) error
}

// KVRepository lays the data out as JSON values under namespaced keys:
//
//	<ns>:plans          user plans
//	<ns>:todos:<id>     tasks of one plan
//	<ns>:completed      checklist item ids done, keyed by plan id
type KVRepository struct {
	kv        db.KV
	namespace string
}

// NewKVRepository creates a repository over kv
func NewKVRepository(kv db.KV, namespace string) *KVRepository {
	if namespace == "" {
		namespace = "croptask"
	}
	return &KVRepository{kv: kv, namespace: namespace}
}

func (r *KVRepository) plansKey() string     { return r.namespace + ":plans" }
func (r *KVRepository) todosPrefix() string  { return r.namespace + ":todos:" }
func (r *KVRepository) completedKey() string { return r.namespace + ":completed" }

func (r *KVRepository) todosKey(planID int64) string {
	return r.todosPrefix() + strconv.FormatInt(planID, 10)
}

// get decodes key into v; a missing key leaves v untouched
func (r *KVRepository) get(ctx context.Context, key string, v any) error {
	data, err := r.kv.Get(ctx, key)
	if errors.Is(err, db.ErrNotFound) {
		return nil
	}
	if err != nil {
		return err
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("corrupt value at %s: %w", key, err)
	}
	return nil
}

func (r *KVRepository) put(ctx context.Context, key string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("failed to encode %s: %w", key, err)
	}
	return r.kv.Put(ctx, key, data)
}

func (r *KVRepository) LoadPlans(ctx context.Context) ([]model.Plan, error) {
	var plans []model.Plan
	if err := r.get(ctx, r.plansKey(), &plans); err != nil {
		return nil, err
	}
	return plans, nil
}

func (r *KVRepository) SavePlans(ctx context.Context, plans []model.Plan) error {
	if plans == nil {
		plans = []model.Plan{}
	}
	return r.put(ctx, r.plansKey(), plans)
}

func (r *KVRepository) LoadTasks(ctx context.Context, planID int64) ([]model.Task, error) {
	var tasks []model.Task
	if err := r.get(ctx, r.todosKey(planID), &tasks); err != nil {
		return nil, err
	}
	return tasks, nil
}

func (r *KVRepository) SaveTasks(ctx context.Context, planID int64, tasks []model.Task) error {
	if tasks == nil {
		tasks = []model.Task{}
	}
	return r.put(ctx, r.todosKey(planID), tasks)
}

func (r *KVRepository) DeleteTasks(ctx context.Context, planID int64) error {
	return r.kv.Delete(ctx, r.todosKey(planID))
}

func (r *KVRepository) LoadCompleted(ctx context.Context) (map[int64][]string, error) {
	completed := map[int64][]string{}
	if err := r.get(ctx, r.completedKey(), &completed); err != nil {
		return nil, err
	}
	return completed, nil
}

func (r *KVRepository) SaveCompleted(ctx context.Context, completed map[int64][]string) error {
	return r.put(ctx, r.completedKey(), completed)
}

// DeleteAll removes every key in the namespace
func (r *KVRepository) DeleteAll(ctx context.Context) error {
	keys, err := r.kv.Keys(ctx, r.todosPrefix())
	if err != nil {
		return err
	}
	keys = append(keys, r.plansKey(), r.completedKey())
	for _, k := range keys {
		if err := r.kv.Delete(ctx, k); err != nil {
			return err
		}
	}
	return nil
}
