package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/existflow/croptask/internal/model"
	"github.com/existflow/croptask/internal/planner"
	"github.com/spf13/cobra"
)

var planCmd = &cobra.Command{
	Use:   "plan",
	Short: "Manage crop plans",
	Long:  `Create, list, edit and delete crop plans. Sample plans are read-only.`,
}

var planListCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls"},
	Short:   "List all plans",
	Args:    cobra.NoArgs,
	RunE:    runPlanList,
}

var planNewCmd = &cobra.Command{
	Use:   "new [crop]",
	Short: "Create a new plan",
	Long: `Create a new crop plan.

Examples:
  croptask plan new Okra --area "2 acres"
  croptask plan new "Sweet Corn" --area "0.5 hectare" --variety "Sugar 75" --sowing 2025-06-01`,
	Args: cobra.MinimumNArgs(1),
	RunE: runPlanNew,
}

var planEditCmd = &cobra.Command{
	Use:   "edit [plan-id]",
	Short: "Edit a plan",
	Long: `Change fields of one of your plans. Only the flags given are changed.

Examples:
  croptask plan edit 1730000000000 --area "3 acres"
  croptask plan edit 1730000000000 --watered 2025-10-02`,
	Args: cobra.ExactArgs(1),
	RunE: runPlanEdit,
}

var planDeleteCmd = &cobra.Command{
	Use:     "delete [plan-id]",
	Aliases: []string{"rm"},
	Short:   "Delete a plan and its tasks",
	Args:    cobra.ExactArgs(1),
	RunE:    runPlanDelete,
}

var planMatchCmd = &cobra.Command{
	Use:   "match [crop...]",
	Short: "List plans matching crops",
	Long: `List the plans whose crop matches any of the given crops, the way the
attach picker filters them.

Examples:
  croptask plan match tomato
  croptask plan match "tomato plant" chilli --all`,
	RunE: runPlanMatch,
}

// planFlags are the editable plan fields
type planFlags struct {
	crop       string
	area       string
	variety    string
	yield      float64
	price      float64
	expenses   float64
	sowing     string
	watered    string
	fertilized string
}

var (
	newPlanFlags  planFlags
	editPlanFlags planFlags
	planForce     bool
	planMatchAll  bool
)

func addPlanFlags(cmd *cobra.Command, f *planFlags) {
	cmd.Flags().StringVarP(&f.area, "area", "a", "", "Area, e.g. \"2 acres\"")
	cmd.Flags().StringVar(&f.variety, "variety", "", "Variety")
	cmd.Flags().Float64Var(&f.yield, "yield", 0, "Expected yield per acre")
	cmd.Flags().Float64Var(&f.price, "price", 0, "Current market price")
	cmd.Flags().Float64Var(&f.expenses, "expenses", 0, "Expenses so far")
	cmd.Flags().StringVar(&f.sowing, "sowing", "", "Sowing date (YYYY-MM-DD)")
	cmd.Flags().StringVar(&f.watered, "watered", "", "Last watered date")
	cmd.Flags().StringVar(&f.fertilized, "fertilized", "", "Last fertilized date")
}

// apply copies the flags the user actually passed onto p
func (f *planFlags) apply(cmd *cobra.Command, p *model.Plan) {
	changed := cmd.Flags().Changed
	if changed("crop") {
		p.Crop = f.crop
	}
	if changed("area") {
		p.Area = f.area
	}
	if changed("variety") {
		p.Variety = f.variety
	}
	if changed("yield") {
		p.ExpectedYieldPerAcre = fptr(f.yield)
	}
	if changed("price") {
		p.CurrentMarketPrice = fptr(f.price)
	}
	if changed("expenses") {
		p.Expenses = fptr(f.expenses)
	}
	if changed("sowing") {
		p.SowingDate = f.sowing
	}
	if changed("watered") {
		p.LastWatered = f.watered
	}
	if changed("fertilized") {
		p.FertilizedDate = f.fertilized
	}
}

func init() {
	addPlanFlags(planNewCmd, &newPlanFlags)
	addPlanFlags(planEditCmd, &editPlanFlags)
	planEditCmd.Flags().StringVar(&editPlanFlags.crop, "crop", "", "Crop name")
	planDeleteCmd.Flags().BoolVarP(&planForce, "force", "f", false, "Do not ask for confirmation")
	planMatchCmd.Flags().BoolVar(&planMatchAll, "all", false, "Show all plans regardless of crop")

	planCmd.AddCommand(planListCmd)
	planCmd.AddCommand(planNewCmd)
	planCmd.AddCommand(planEditCmd)
	planCmd.AddCommand(planDeleteCmd)
	planCmd.AddCommand(planMatchCmd)
}

func runPlanList(cmd *cobra.Command, args []string) error {
	store, closeStore, err := openStore(cmd.Context())
	if err != nil {
		return err
	}
	defer closeStore()

	printPlans(cmd.OutOrStdout(), store, cmd, store.LoadPlans(cmd.Context()))
	return nil
}

func printPlans(out io.Writer, store *planner.Store, cmd *cobra.Command, plans []model.Plan) {
	current := GetCurrentContext()

	fmt.Fprintln(out)
	fmt.Fprintf(out, "  %-15s  %-14s  %-12s  %-6s  %s\n", "ID", "Crop", "Area", "Kind", "Tasks")
	fmt.Fprintln(out, strings.Repeat("─", 62))

	totalPending := 0
	for _, p := range plans {
		pending, total := store.TaskCounts(cmd.Context(), p.ID)
		totalPending += pending
		marker := "  "
		if p.ID == current {
			marker = "❯ "
		}
		fmt.Fprintf(out, "%s%-15d  %-14s  %-12s  %-6s  %d/%d\n",
			marker, p.ID, truncate(p.Crop, 14), truncate(p.Area, 12), p.Kind, pending, total)
	}

	fmt.Fprintln(out, strings.Repeat("─", 62))
	fmt.Fprintf(out, "  %d plans, %d pending tasks\n\n", len(plans), totalPending)
}

func runPlanNew(cmd *cobra.Command, args []string) error {
	store, closeStore, err := openStore(cmd.Context())
	if err != nil {
		return err
	}
	defer closeStore()

	p := model.Plan{Crop: strings.Join(args, " ")}
	newPlanFlags.apply(cmd, &p)

	created, err := store.AddPlan(cmd.Context(), p)
	if err != nil {
		return fmt.Errorf("failed to create plan: %w", err)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "✓ Created plan: %s, %s (id: %d)\n", created.Crop, created.Area, created.ID)
	return nil
}

func runPlanEdit(cmd *cobra.Command, args []string) error {
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
		return err
	}
	editPlanFlags.apply(cmd, &p)

	if err := store.UpdatePlan(cmd.Context(), p); err != nil {
		return fmt.Errorf("failed to update plan: %w", err)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "✓ Updated plan: %s (id: %d)\n", p.Crop, p.ID)
	return nil
}

func runPlanDelete(cmd *cobra.Command, args []string) error {
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
		return err
	}
	if p.IsSeed() {
		return fmt.Errorf("%s is a sample plan: %w", p.Crop, planner.ErrSeedPlan)
	}

	_, total := store.TaskCounts(cmd.Context(), id)
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "About to delete: %s (%d tasks)\n", p.Crop, total)
	ok, err := confirm(cmd, "Are you sure?", planForce)
	if err != nil {
		return err
	}
	if !ok {
		fmt.Fprintln(out, "Cancelled.")
		return nil
	}

	if err := store.DeletePlan(cmd.Context(), id); err != nil {
		return fmt.Errorf("failed to delete plan: %w", err)
	}
	if GetCurrentContext() == id {
		_ = ClearContext()
	}

	fmt.Fprintf(out, "🗑️  Deleted plan: %s\n", p.Crop)
	return nil
}

func runPlanMatch(cmd *cobra.Command, args []string) error {
	store, closeStore, err := openStore(cmd.Context())
	if err != nil {
		return err
	}
	defer closeStore()

	out := cmd.OutOrStdout()
	r := store.MatchPlans(cmd.Context(), args, planMatchAll)
	switch r.State {
	case planner.MatchNoPlans:
		fmt.Fprintln(out, "No plans yet. Create one with: croptask plan new <crop>")
		return nil
	case planner.MatchNone:
		fmt.Fprintln(out, "No matching plans. Use --all to see every plan.")
		return nil
	}

	printPlans(out, store, cmd, r.Plans)
	return nil
}

// truncate shortens a string to max runes with ellipsis
func truncate(s string, max int) string {
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	return string(r[:max-3]) + "..."
}

func fptr(v float64) *float64 { return &v }
