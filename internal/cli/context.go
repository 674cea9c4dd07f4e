package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/existflow/croptask/internal/config"
	"github.com/spf13/cobra"
)

var contextCmd = &cobra.Command{
	Use:   "context",
	Short: "Manage the default plan",
	Long: `Set or view the current plan context.

When a context is set, 'croptask add' adds tasks to that plan by default.

Examples:
  croptask context              # Show current context
  croptask context set 1001     # Add tasks to the Tomato plan by default
  croptask context clear        # Clear context`,
	Args: cobra.NoArgs,
	RunE: runContextShow,
}

var contextSetCmd = &cobra.Command{
	Use:   "set [plan-id]",
	Short: "Set the current plan context",
	Args:  cobra.ExactArgs(1),
	RunE:  runContextSet,
}

var contextClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Clear the current context",
	Args:  cobra.NoArgs,
	RunE:  runContextClear,
}

func init() {
	contextCmd.AddCommand(contextSetCmd)
	contextCmd.AddCommand(contextClearCmd)
}

// Context file path
func contextFilePath() (string, error) {
	dir, err := config.Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "context"), nil
}

// GetCurrentContext returns the default plan id, 0 when unset
func GetCurrentContext() int64 {
	path, err := contextFilePath()
	if err != nil {
		return 0
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return 0
	}
	id, err := strconv.ParseInt(strings.TrimSpace(string(data)), 10, 64)
	if err != nil {
		return 0
	}
	return id
}

// SetContext saves the current context
func SetContext(planID int64) error {
	path, err := contextFilePath()
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}
	return os.WriteFile(path, []byte(strconv.FormatInt(planID, 10)), 0644)
}

// ClearContext removes the context file
func ClearContext() error {
	path, err := contextFilePath()
	if err != nil {
		return err
	}
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}

func runContextShow(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()
	id := GetCurrentContext()
	if id == 0 {
		fmt.Fprintln(out, "No context set. Use 'croptask context set <plan-id>'")
		return nil
	}

	store, closeStore, err := openStore(cmd.Context())
	if err != nil {
		return err
	}
	defer closeStore()

	p, err := store.GetPlan(cmd.Context(), id)
	if err != nil {
		fmt.Fprintf(out, "⚠️  Context set to %d but plan not found\n", id)
		return nil
	}

	pending, total := store.TaskCounts(cmd.Context(), id)
	fmt.Fprintf(out, "🌱 Current context: %s (%d/%d tasks)\n", p.Crop, pending, total)
	return nil
}

func runContextSet(cmd *cobra.Command, args []string) error {
	id, err := parsePlanID(args[0])
	if err != nil {
		return err
	}

	store, closeStore, err := openStore(cmd.Context())
	if err != nil {
		return err
	}
	defer closeStore()

	p, err := store.GetPlan(cmd.Context(), id)
	if err != nil {
		return fmt.Errorf("plan not found: %d", id)
	}

	if err := SetContext(id); err != nil {
		return fmt.Errorf("failed to set context: %w", err)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "🌱 Switched to: %s\n", p.Crop)
	return nil
}

func runContextClear(cmd *cobra.Command, args []string) error {
	if err := ClearContext(); err != nil {
		return fmt.Errorf("failed to clear context: %w", err)
	}
	fmt.Fprintln(cmd.OutOrStdout(), "Context cleared")
	return nil
}
