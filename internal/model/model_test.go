package model

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseQuantity(t *testing.T) {
	tests := []struct {
		in      string
		want    Quantity
		wantStr string
	}{
		{"0.5 acres", Quantity{0.5, "acres"}, "0.5 acres"},
		{"1 acre", Quantity{1, "acre"}, "1 acre"},
		{"  2   Hectares ", Quantity{2, "hectares"}, "2 hectares"},
		{"3", Quantity{3, ""}, "3"},
		{".25 acres", Quantity{0.25, "acres"}, "0.25 acres"},
		{"10sqm", Quantity{10, "sqm"}, "10 sqm"},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			q, err := ParseQuantity(tt.in)
			require.NoError(t, err)
			assert.Equal(t, tt.want, q)
			assert.Equal(t, tt.wantStr, q.String())
		})
	}
}

func TestParseQuantityRejects(t *testing.T) {
	for _, in := range []string{"", "   ", "lots", "acre 1", "-1 acre"} {
		_, err := ParseQuantity(in)
		assert.ErrorIs(t, err, ErrInvalidQuantity, in)
	}
}

func TestSeedPlans(t *testing.T) {
	seeds := SeedPlans()
	require.Len(t, seeds, 5)

	for i, p := range seeds {
		assert.Equal(t, SeedIDMin+int64(i), p.ID)
		assert.True(t, p.IsSeed())
		assert.True(t, IsSeedID(p.ID))
		_, err := p.AreaQuantity()
		assert.NoError(t, err, p.Area)
	}

	// callers get their own copies
	seeds[0].Crop = "Changed"
	*seeds[0].Expenses = -1
	fresh := SeedPlans()
	assert.Equal(t, "Tomato", fresh[0].Crop)
	assert.NotEqual(t, -1.0, *fresh[0].Expenses)
}

func TestIsSeedID(t *testing.T) {
	assert.False(t, IsSeedID(1000))
	assert.True(t, IsSeedID(1001))
	assert.True(t, IsSeedID(1005))
	assert.False(t, IsSeedID(1006))
}

func TestCleanCrop(t *testing.T) {
	assert.Equal(t, "Sweet Corn", CleanCrop("  Sweet \t Corn "))
	assert.Equal(t, "", CleanCrop("   "))
}

func TestPlanJSONOmitsAbsentFields(t *testing.T) {
	data, err := json.Marshal(Plan{ID: 1700000000000, Kind: PlanKindUser, Crop: "Okra", Area: "1 acre"})
	require.NoError(t, err)

	var raw map[string]any
	require.NoError(t, json.Unmarshal(data, &raw))
	assert.NotContains(t, raw, "variety")
	assert.NotContains(t, raw, "expenses")
	assert.NotContains(t, raw, "currentMarketPrice")
	assert.Equal(t, "user", raw["kind"])
}

func TestTaskToggle(t *testing.T) {
	now := time.Date(2025, 10, 1, 9, 0, 0, 0, time.UTC)
	task := NewTask("t1", 1001, "Water", now)
	assert.False(t, task.Completed)

	task.Toggle()
	assert.True(t, task.Completed)
	task.Toggle()
	assert.False(t, task.Completed)
	assert.Equal(t, int64(1001), task.PlanID)
}
