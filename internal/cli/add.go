package cli

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/existflow/croptask/internal/planner"
	"github.com/spf13/cobra"
)

var addCmd = &cobra.Command{
	Use:   "add [text]",
	Short: "Add a task to a plan",
	Long: `Add a task to a plan. Without --plan the task goes to the current context.

Examples:
  croptask add "Stake the tomato vines" --plan 1001
  croptask context set 1002 && croptask add Net the nursery bed`,
	Args: cobra.MinimumNArgs(1),
	RunE: runAdd,
}

var addPlan int64

func init() {
	addCmd.Flags().Int64VarP(&addPlan, "plan", "P", 0, "Plan to add the task to")
}

func runAdd(cmd *cobra.Command, args []string) error {
	planID := addPlan
	if !cmd.Flags().Changed("plan") {
		planID = GetCurrentContext()
	}
	if planID == 0 {
		return errors.New("no plan given: use --plan or 'croptask context set <plan-id>'")
	}

	store, closeStore, err := openStore(cmd.Context())
	if err != nil {
		return err
	}
	defer closeStore()

	text := strings.Join(args, " ")
	task, err := store.AddTaskToPlan(cmd.Context(), planID, text)
	if err != nil {
		return fmt.Errorf("failed to add task: %w", err)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "✓ Added to [%s]: %q (%s)\n", planLabel(cmd.Context(), store, planID), task.Text, shortID(task.ID))
	return nil
}

// planLabel names a plan by crop, or by id when it cannot be read back
func planLabel(ctx context.Context, store *planner.Store, id int64) string {
	plan, err := store.GetPlan(ctx, id)
	if err != nil || plan.Crop == "" {
		return strconv.FormatInt(id, 10)
	}
	return plan.Crop
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
