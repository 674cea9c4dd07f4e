package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/existflow/croptask/internal/model"
	"github.com/spf13/cobra"
)

var listCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls"},
	Short:   "List tasks",
	Long: `List pending tasks, grouped by plan.

Examples:
  croptask list
  croptask list --plan 1001
  croptask list --done`,
	Args: cobra.NoArgs,
	RunE: runList,
}

var (
	listPlan        int64
	listIncludeDone bool
)

func init() {
	listCmd.Flags().Int64VarP(&listPlan, "plan", "P", 0, "Only this plan")
	listCmd.Flags().BoolVar(&listIncludeDone, "done", false, "Include completed tasks")
}

func runList(cmd *cobra.Command, args []string) error {
	store, closeStore, err := openStore(cmd.Context())
	if err != nil {
		return err
	}
	defer closeStore()

	out := cmd.OutOrStdout()
	plans := store.LoadPlans(cmd.Context())
	if listPlan != 0 {
		p, err := store.GetPlan(cmd.Context(), listPlan)
		if err != nil {
			return err
		}
		plans = []model.Plan{p}
	}

	shown := 0
	for _, p := range plans {
		tasks, err := store.Tasks(cmd.Context(), p.ID)
		if err != nil {
			return err
		}
		visible := tasks[:0:0]
		for _, t := range tasks {
			if listIncludeDone || !t.Completed {
				visible = append(visible, t)
			}
		}
		if len(visible) == 0 && listPlan == 0 {
			continue
		}
		printTasks(out, p, visible)
		shown += len(visible)
	}

	if shown == 0 {
		fmt.Fprintln(out, "No tasks found. Add one with: croptask add \"Your task\" --plan <id>")
	}
	return nil
}

func printTasks(out io.Writer, plan model.Plan, tasks []model.Task) {
	pending := 0
	for _, t := range tasks {
		if !t.Completed {
			pending++
		}
	}

	fmt.Fprintf(out, "\n🌱 %s · %s (%d pending)\n", plan.Crop, plan.Area, pending)
	fmt.Fprintln(out, strings.Repeat("─", 60))

	for _, t := range tasks {
		printTask(out, t)
	}
	fmt.Fprintln(out)
}

func printTask(out io.Writer, t model.Task) {
	icon := "[ ]"
	if t.Completed {
		icon = "[x]"
	}

	created := ""
	if !t.CreatedAt.IsZero() {
		created = t.CreatedAt.Local().Format("Jan 2")
	}

	fmt.Fprintf(out, "  %s  %-8s  %-40s  %s\n", icon, shortID(t.ID), truncate(t.Text, 40), created)
}
