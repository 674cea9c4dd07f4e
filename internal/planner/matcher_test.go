package planner

import (
	"context"
	"testing"

	"github.com/existflow/croptask/internal/model"
	"github.com/stretchr/testify/assert"
)

func TestMatchPlans_SingleCrop(t *testing.T) {
	got := MatchPlans(model.SeedPlans(), []string{"onion"})
	if assert.Len(t, got, 1) {
		assert.Equal(t, int64(1003), got[0].ID)
		assert.Equal(t, "Onion", got[0].Crop)
	}
}

func TestMatchPlans_EmptyReturnsAll(t *testing.T) {
	seeds := model.SeedPlans()
	assert.Equal(t, seeds, MatchPlans(seeds, nil))
	assert.Equal(t, seeds, MatchPlans(seeds, []string{}))
	assert.Equal(t, seeds, MatchPlans(seeds, []string{"", "  "}))
}

func TestMatchPlans_Bidirectional(t *testing.T) {
	plans := []model.Plan{
		{ID: 1, Crop: "Tomato"},
		{ID: 2, Crop: "Cherry Tomato"},
		{ID: 3, Crop: "Potato"},
		{ID: 4, Crop: "tom"},
	}

	tests := []struct {
		name    string
		related []string
		want    []int64
	}{
		{"crop contains related", []string{"cherry"}, []int64{2}},
		{"both directions", []string{"tomato"}, []int64{1, 2, 4}},
		{"related contains crop", []string{"tomato plant"}, []int64{1, 4}},
		{"case insensitive", []string{"POTATO"}, []int64{3}},
		{"any entry", []string{"potato", "cherry"}, []int64{2, 3}},
		{"no match", []string{"rice"}, []int64{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := MatchPlans(plans, tt.related)
			ids := []int64{}
			for _, p := range got {
				ids = append(ids, p.ID)
			}
			assert.Equal(t, tt.want, ids)
		})
	}
}

func TestMatchPlans_TomatoPartition(t *testing.T) {
	plans := append(model.SeedPlans(),
		model.Plan{ID: 2000, Crop: "Tomato (hybrid)"},
		model.Plan{ID: 2001, Crop: "Tomatillo"},
	)
	got := MatchPlans(plans, []string{"tomato"})

	in := map[int64]bool{}
	for _, p := range got {
		in[p.ID] = true
	}
	for _, p := range plans {
		assert.Equal(t, CropMatches(p.Crop, "tomato"), in[p.ID], p.Crop)
	}
	assert.True(t, in[1001])
	assert.True(t, in[2000])
	assert.False(t, in[2001])
}

func TestMatch_States(t *testing.T) {
	seeds := model.SeedPlans()

	r := Match(nil, []string{"onion"}, false)
	assert.Equal(t, MatchNoPlans, r.State)
	assert.Empty(t, r.Plans)

	r = Match(seeds, []string{"rice"}, false)
	assert.Equal(t, MatchNone, r.State)
	assert.Empty(t, r.Plans)

	r = Match(seeds, []string{"rice"}, true)
	assert.Equal(t, MatchAll, r.State)
	assert.Len(t, r.Plans, 5)

	r = Match(seeds, []string{"carrot"}, false)
	assert.Equal(t, MatchFiltered, r.State)
	assert.Len(t, r.Plans, 1)

	r = Match(seeds, nil, false)
	assert.Equal(t, MatchAll, r.State)
}

func TestStoreMatchPlans(t *testing.T) {
	s, _ := newTestStore(t)
	r := s.MatchPlans(context.Background(), []string{"chilli pepper"}, false)
	assert.Equal(t, MatchFiltered, r.State)
	if assert.Len(t, r.Plans, 1) {
		assert.Equal(t, "Chilli", r.Plans[0].Crop)
	}
}

func TestMatchState_String(t *testing.T) {
	assert.Equal(t, "no_match", MatchNone.String())
	assert.Equal(t, "no_plans", MatchNoPlans.String())
}
