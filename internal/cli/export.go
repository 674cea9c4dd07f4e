package cli

import (
	"fmt"

	"github.com/existflow/croptask/internal/export"
	"github.com/existflow/croptask/internal/model"
	"github.com/spf13/cobra"
)

var exportCmd = &cobra.Command{
	Use:   "export [file]",
	Short: "Export plans and tasks to a spreadsheet",
	Long: `Write every plan and task to an .xlsx workbook.

Examples:
  croptask export
  croptask export ~/farm-2025.xlsx`,
	Args: cobra.MaximumNArgs(1),
	RunE: runExport,
}

func runExport(cmd *cobra.Command, args []string) error {
	path := "croptask.xlsx"
	if len(args) == 1 {
		path = args[0]
	}

	store, closeStore, err := openStore(cmd.Context())
	if err != nil {
		return err
	}
	defer closeStore()

	plans := store.LoadPlans(cmd.Context())
	tasks := make(map[int64][]model.Task, len(plans))
	count := 0
	for _, p := range plans {
		t, err := store.Tasks(cmd.Context(), p.ID)
		if err != nil {
			return err
		}
		tasks[p.ID] = t
		count += len(t)
	}

	if err := export.WriteWorkbook(path, plans, tasks); err != nil {
		return fmt.Errorf("failed to export: %w", err)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "✓ Exported %d plans and %d tasks to %s\n", len(plans), count, path)
	return nil
}
