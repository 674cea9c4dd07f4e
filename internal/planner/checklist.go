package planner

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/existflow/croptask/internal/model"
)

const dateLayout = "2006-01-02"

// Activity cadence of a generated checklist, in days
const (
	scoutEvery     = 2
	waterEvery     = 3
	fertilizeEvery = 14
)

// ChecklistEntry is a checklist item with its completion state
type ChecklistEntry struct {
	model.ChecklistItem
	Done bool `json:"done"`
}

// BuildChecklist expands a plan into one item per day starting at its
// sowing date, or at start when the plan has none
func BuildChecklist(plan model.Plan, start time.Time, days int) []model.ChecklistItem {
	if d, err := time.Parse(dateLayout, plan.SowingDate); err == nil {
		start = d
	}
	start = time.Date(start.Year(), start.Month(), start.Day(), 0, 0, 0, 0, time.UTC)

	items := make([]model.ChecklistItem, 0, days)
	for day := 0; day < days; day++ {
		var acts []string
		switch {
		case day == 0:
			acts = append(acts, "sow and water lightly")
		default:
			if day%waterEvery == 0 {
				acts = append(acts, "water")
			}
			if day%scoutEvery == 0 {
				acts = append(acts, "scout for pests and disease")
			}
			if day%fertilizeEvery == 0 {
				acts = append(acts, "apply fertilizer")
			}
		}
		if len(acts) == 0 {
			acts = append(acts, "check soil moisture")
		}

		items = append(items, model.ChecklistItem{
			ID:    fmt.Sprintf("day-%d", day),
			Day:   day,
			Date:  start.AddDate(0, 0, day).Format(dateLayout),
			Title: plan.Crop + ": " + strings.Join(acts, ", "),
		})
	}
	return items
}

// Checklist builds the plan's checklist and marks completed items
func (s *Store) Checklist(ctx context.Context, planID int64, days int) ([]ChecklistEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	plan, ok := findPlan(s.loadPlans(ctx), planID)
	if !ok {
		return nil, fmt.Errorf("%w: %d", ErrUnknownPlan, planID)
	}

	done := map[string]bool{}
	for _, id := range s.loadCompleted(ctx)[planID] {
		done[id] = true
	}

	items := BuildChecklist(plan, s.now(), days)
	entries := make([]ChecklistEntry, len(items))
	for i, it := range items {
		entries[i] = ChecklistEntry{ChecklistItem: it, Done: done[it.ID]}
	}
	return entries, nil
}

func (s *Store) loadCompleted(ctx context.Context) map[int64][]string {
	completed, err := s.repo.LoadCompleted(ctx)
	if err != nil || completed == nil {
		return map[int64][]string{}
	}
	return completed
}

// ToggleChecklistItem flips one checklist item of a plan and reports the new state
func (s *Store) ToggleChecklistItem(ctx context.Context, planID int64, itemID string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := findPlan(s.loadPlans(ctx), planID); !ok {
		return false, fmt.Errorf("%w: %d", ErrUnknownPlan, planID)
	}
	if !strings.HasPrefix(itemID, "day-") {
		return false, fmt.Errorf("%w: %s", ErrUnknownTask, itemID)
	}

	completed := s.loadCompleted(ctx)
	ids := completed[planID]
	done := true
	kept := make([]string, 0, len(ids)+1)
	for _, id := range ids {
		if id == itemID {
			done = false
			continue
		}
		kept = append(kept, id)
	}
	if done {
		kept = append(kept, itemID)
	}

	if len(kept) == 0 {
		delete(completed, planID)
	} else {
		completed[planID] = kept
	}
	if err := s.repo.SaveCompleted(ctx, completed); err != nil {
		return false, fmt.Errorf("failed to save checklist: %w", err)
	}
	return done, nil
}
