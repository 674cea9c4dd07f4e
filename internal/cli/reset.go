package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

var resetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Delete all your plans and tasks",
	Long: `Delete every plan you created, every task and all checklist progress.
Sample plans come back empty.`,
	Args: cobra.NoArgs,
	RunE: runReset,
}

var resetForce bool

func init() {
	resetCmd.Flags().BoolVarP(&resetForce, "force", "f", false, "Do not ask for confirmation")
}

func runReset(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()

	ok, err := confirm(cmd, "Are you sure you want to delete all data?", resetForce)
	if err != nil {
		return err
	}
	if !ok {
		fmt.Fprintln(out, "Aborted.")
		return nil
	}

	store, closeStore, err := openStore(cmd.Context())
	if err != nil {
		return err
	}
	defer closeStore()

	fmt.Fprintln(out, "🧹 Clearing local data...")
	if err := store.Reset(cmd.Context()); err != nil {
		return fmt.Errorf("failed to clear local data: %w", err)
	}
	if err := ClearContext(); err != nil {
		return fmt.Errorf("failed to clear context: %w", err)
	}
	fmt.Fprintln(out, "Local data cleared.")
	return nil
}
