package export

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/existflow/croptask/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func TestWriteWorkbook(t *testing.T) {
	path := filepath.Join(t.TempDir(), "plans.xlsx")
	plans := append(model.SeedPlans()[:1], model.Plan{ID: 2000, Kind: model.PlanKindUser, Crop: "Okra", Area: "1 acre"})
	created := time.Date(2025, 10, 1, 9, 30, 0, 0, time.UTC)
	tasks := map[int64][]model.Task{
		1001: {
			{ID: "a", PlanID: 1001, Text: "Apply neem oil spray", CreatedAt: created},
			{ID: "b", PlanID: 1001, Text: "Stake plants", Completed: true, CreatedAt: created},
		},
	}

	require.NoError(t, WriteWorkbook(path, plans, tasks))

	f, err := excelize.OpenFile(path)
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows(plansSheet)
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, "Crop", rows[0][2])
	assert.Equal(t, "Tomato", rows[1][2])
	assert.Equal(t, "1", rows[1][11])
	assert.Equal(t, "2", rows[1][12])
	assert.Equal(t, "Okra", rows[2][2])

	taskRows, err := f.GetRows(tasksSheet)
	require.NoError(t, err)
	require.Len(t, taskRows, 3)
	assert.Equal(t, "Apply neem oil spray", taskRows[1][3])
	assert.Equal(t, "TRUE", taskRows[2][4])
	assert.Equal(t, "2025-10-01 09:30", taskRows[1][5])
}
