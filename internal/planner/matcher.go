package planner

import (
	"context"
	"strings"

	"github.com/existflow/croptask/internal/model"
)

// MatchState says why a match result looks the way it does
type MatchState int

const (
	// MatchAll: no filter applied, every plan is listed
	MatchAll MatchState = iota
	// MatchFiltered: at least one plan matched the related crops
	MatchFiltered
	// MatchNone: plans exist but none matched
	MatchNone
	// MatchNoPlans: there are no plans at all
	MatchNoPlans
)

// String returns a short name for the state
func (s MatchState) String() string {
	switch s {
	case MatchAll:
		return "all"
	case MatchFiltered:
		return "filtered"
	case MatchNone:
		return "no_match"
	case MatchNoPlans:
		return "no_plans"
	default:
		return "unknown"
	}
}

// MatchResult is a filtered plan list plus its state
type MatchResult struct {
	Plans []model.Plan
	State MatchState
}

// CropMatches implements the crop matching policy: case-insensitive
// substring containment in either direction, so "Tomato" matches
// "tomato plant" and "plant" is never required to be exact.
func CropMatches(crop, related string) bool {
	c := strings.ToLower(strings.TrimSpace(crop))
	r := strings.ToLower(strings.TrimSpace(related))
	if c == "" || r == "" {
		return false
	}
	return strings.Contains(c, r) || strings.Contains(r, c)
}

// MatchPlans returns the plans whose crop matches any related crop.
// Blank entries are ignored; with nothing left to match on, plans is
// returned unchanged.
func MatchPlans(plans []model.Plan, relatedCrops []string) []model.Plan {
	related := nonBlank(relatedCrops)
	if len(related) == 0 {
		return plans
	}

	out := []model.Plan{}
	for _, p := range plans {
		for _, r := range related {
			if CropMatches(p.Crop, r) {
				out = append(out, p)
				break
			}
		}
	}
	return out
}

func nonBlank(in []string) []string {
	var out []string
	for _, s := range in {
		if strings.TrimSpace(s) != "" {
			out = append(out, s)
		}
	}
	return out
}

// Match is MatchPlans plus the empty-state distinction callers must show
func Match(plans []model.Plan, relatedCrops []string, showAll bool) MatchResult {
	if len(plans) == 0 {
		return MatchResult{Plans: []model.Plan{}, State: MatchNoPlans}
	}
	if showAll || len(nonBlank(relatedCrops)) == 0 {
		return MatchResult{Plans: plans, State: MatchAll}
	}

	matched := MatchPlans(plans, relatedCrops)
	if len(matched) == 0 {
		return MatchResult{Plans: matched, State: MatchNone}
	}
	return MatchResult{Plans: matched, State: MatchFiltered}
}

// MatchPlans loads the current plans and matches them
func (s *Store) MatchPlans(ctx context.Context, relatedCrops []string, showAll bool) MatchResult {
	return Match(s.LoadPlans(ctx), relatedCrops, showAll)
}
