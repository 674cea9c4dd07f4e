package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

var doneCmd = &cobra.Command{
	Use:   "done [task-id]",
	Short: "Mark a task as done",
	Long: `Mark a task as completed. The id may be a unique prefix.

Examples:
  croptask done 3f2a9c1b
  croptask done 3f2a --undo`,
	Args: cobra.ExactArgs(1),
	RunE: runDone,
}

var doneUndo bool

func init() {
	doneCmd.Flags().BoolVar(&doneUndo, "undo", false, "Mark task as not done")
}

func runDone(cmd *cobra.Command, args []string) error {
	store, closeStore, err := openStore(cmd.Context())
	if err != nil {
		return err
	}
	defer closeStore()

	task, err := store.FindTask(cmd.Context(), args[0])
	if err != nil {
		return fmt.Errorf("task not found: %w", err)
	}

	done := !doneUndo
	if task.Completed != done {
		if task, err = store.ToggleTask(cmd.Context(), task.PlanID, task.ID); err != nil {
			return fmt.Errorf("failed to update task: %w", err)
		}
	}

	if task.Completed {
		fmt.Fprintf(cmd.OutOrStdout(), "✓ Completed: %q\n", task.Text)
	} else {
		fmt.Fprintf(cmd.OutOrStdout(), "○ Reopened: %q\n", task.Text)
	}
	return nil
}
