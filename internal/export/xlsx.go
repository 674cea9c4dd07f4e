// Package export writes plans and their tasks to a spreadsheet
package export

import (
	"fmt"

	"github.com/existflow/croptask/internal/model"
	"github.com/xuri/excelize/v2"
)

const (
	plansSheet = "Plans"
	tasksSheet = "Tasks"
)

var (
	planHeader = []interface{}{"ID", "Kind", "Crop", "Area", "Variety", "Expected yield/acre",
		"Market price", "Sowing date", "Last watered", "Fertilized", "Expenses", "Pending", "Total"}
	taskHeader = []interface{}{"Plan ID", "Crop", "Task ID", "Text", "Completed", "Created"}
)

// WriteWorkbook saves plans and tasks (keyed by plan id) to path
func WriteWorkbook(path string, plans []model.Plan, tasks map[int64][]model.Task) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", plansSheet); err != nil {
		return fmt.Errorf("failed to name sheet: %w", err)
	}
	if _, err := f.NewSheet(tasksSheet); err != nil {
		return fmt.Errorf("failed to add sheet: %w", err)
	}

	if err := writeRow(f, plansSheet, 1, planHeader); err != nil {
		return err
	}
	if err := writeRow(f, tasksSheet, 1, taskHeader); err != nil {
		return err
	}

	taskRow := 2
	for i, p := range plans {
		pending, total := 0, 0
		for _, t := range tasks[p.ID] {
			total++
			if !t.Completed {
				pending++
			}
		}

		row := []interface{}{p.ID, string(p.Kind), p.Crop, p.Area, p.Variety,
			num(p.ExpectedYieldPerAcre), num(p.CurrentMarketPrice), p.SowingDate,
			p.LastWatered, p.FertilizedDate, num(p.Expenses), pending, total}
		if err := writeRow(f, plansSheet, i+2, row); err != nil {
			return err
		}

		for _, t := range tasks[p.ID] {
			row := []interface{}{p.ID, p.Crop, t.ID, t.Text, t.Completed, t.CreatedAt.Format("2006-01-02 15:04")}
			if err := writeRow(f, tasksSheet, taskRow, row); err != nil {
				return err
			}
			taskRow++
		}
	}

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("failed to save workbook: %w", err)
	}
	return nil
}

func writeRow(f *excelize.File, sheet string, row int, values []interface{}) error {
	cell, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return err
	}
	if err := f.SetSheetRow(sheet, cell, &values); err != nil {
		return fmt.Errorf("failed to write %s row %d: %w", sheet, row, err)
	}
	return nil
}

// num leaves absent values as empty cells
func num(v *float64) interface{} {
	if v == nil {
		return ""
	}
	return *v
}
