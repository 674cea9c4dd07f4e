package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

var checklistCmd = &cobra.Command{
	Use:   "checklist [plan-id]",
	Short: "Show a plan's day-by-day checklist",
	Long: `Show the generated care checklist of a plan, starting at its sowing date.

Examples:
  croptask checklist 1001
  croptask checklist 1001 --days 30
  croptask checklist 1001 --toggle day-3`,
	Args: cobra.ExactArgs(1),
	RunE: runChecklist,
}

var (
	checklistDays   int
	checklistToggle string
)

func init() {
	checklistCmd.Flags().IntVarP(&checklistDays, "days", "d", 0, "Number of days (default from config)")
	checklistCmd.Flags().StringVar(&checklistToggle, "toggle", "", "Toggle an item, e.g. day-3")
}

func runChecklist(cmd *cobra.Command, args []string) error {
	id, err := parsePlanID(args[0])
	if err != nil {
		return err
	}

	store, closeStore, err := openStore(cmd.Context())
	if err != nil {
		return err
	}
	defer closeStore()

	out := cmd.OutOrStdout()
	if checklistToggle != "" {
		done, err := store.ToggleChecklistItem(cmd.Context(), id, checklistToggle)
		if err != nil {
			return fmt.Errorf("failed to toggle %s: %w", checklistToggle, err)
		}
		state := "open"
		if done {
			state = "done"
		}
		fmt.Fprintf(out, "✓ %s marked %s\n", checklistToggle, state)
		return nil
	}

	days := checklistDays
	if days <= 0 {
		days = cfg.ChecklistDays
	}
	entries, err := store.Checklist(cmd.Context(), id, days)
	if err != nil {
		return err
	}

	fmt.Fprintln(out)
	fmt.Fprintln(out, strings.Repeat("─", 70))
	for _, e := range entries {
		icon := "[ ]"
		if e.Done {
			icon = "[x]"
		}
		fmt.Fprintf(out, "  %s  %-7s  %s  %s\n", icon, e.ID, e.Date, e.Title)
	}
	fmt.Fprintln(out)
	return nil
}
