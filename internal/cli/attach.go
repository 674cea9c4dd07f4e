package cli

import (
	"errors"
	"fmt"
	"io"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/existflow/croptask/internal/finding"
	"github.com/existflow/croptask/internal/logger"
	"github.com/existflow/croptask/internal/model"
	"github.com/existflow/croptask/internal/planner"
	"github.com/existflow/croptask/internal/tui"
	"github.com/spf13/cobra"
)

var attachCmd = &cobra.Command{
	Use:   "attach [finding-file]",
	Short: "Add a diagnosis suggestion to a plan",
	Long: `Turn a disease, pest or weed finding into a task on one of your plans.

The finding is read from a JSON file ('-' for stdin), as returned by the
diagnosis screens, or built from flags. Without --plan or --quick an
interactive picker lists the plans matching the finding's crops.

Examples:
  croptask attach result.json
  croptask attach --kind pest --name Aphids --treatment "Neem oil spray" --crop chilli
  croptask attach result.json --plan 1002
  croptask attach result.json --quick`,
	Args: cobra.MaximumNArgs(1),
	RunE: runAttach,
}

var (
	attachKind      string
	attachName      string
	attachTreatment string
	attachCrops     []string
	attachPlan      int64
	attachQuick     bool
)

func init() {
	attachCmd.Flags().StringVarP(&attachKind, "kind", "k", string(finding.KindDisease), "Finding kind (disease, pest, weed)")
	attachCmd.Flags().StringVarP(&attachName, "name", "n", "", "Name of the disease, pest or weed")
	attachCmd.Flags().StringVarP(&attachTreatment, "treatment", "t", "", "Recommended treatment")
	attachCmd.Flags().StringSliceVarP(&attachCrops, "crop", "c", nil, "Related crop (repeatable)")
	attachCmd.Flags().Int64VarP(&attachPlan, "plan", "P", 0, "Attach to this plan")
	attachCmd.Flags().BoolVarP(&attachQuick, "quick", "q", false, "Create a new plan for the task")
}

func readFinding(cmd *cobra.Command, args []string) (finding.Finding, error) {
	if len(args) == 0 {
		f := finding.Finding{
			Kind:         finding.Kind(attachKind),
			Name:         attachName,
			Treatment:    attachTreatment,
			RelatedCrops: attachCrops,
		}
		if f.Name == "" {
			return f, errors.New("a finding file or --name is required")
		}
		return f, nil
	}

	var (
		raw []byte
		err error
	)
	if args[0] == "-" {
		raw, err = io.ReadAll(cmd.InOrStdin())
	} else {
		raw, err = os.ReadFile(args[0])
	}
	if err != nil {
		return finding.Finding{}, fmt.Errorf("failed to read finding: %w", err)
	}

	f, err := finding.Parse(raw)
	if err != nil {
		return f, err
	}
	if cmd.Flags().Changed("crop") {
		f.RelatedCrops = attachCrops
	}
	return f, nil
}

func runAttach(cmd *cobra.Command, args []string) error {
	if attachQuick && attachPlan != 0 {
		return errors.New("--plan and --quick are mutually exclusive")
	}

	f, err := readFinding(cmd, args)
	if err != nil {
		return err
	}
	suggestion := f.SuggestedAction()

	store, closeStore, err := openStore(cmd.Context())
	if err != nil {
		return err
	}
	defer closeStore()

	var task model.Task
	switch {
	case attachPlan != 0:
		task, err = store.AddTaskToPlan(cmd.Context(), attachPlan, suggestion)
	case attachQuick:
		task, err = store.CreateQuickPlanAndAddTask(cmd.Context(), suggestion)
	default:
		var ok bool
		task, ok, err = pickPlan(store, suggestion, f.RelatedCrops)
		if err == nil && !ok {
			fmt.Fprintln(cmd.OutOrStdout(), "Cancelled.")
			return nil
		}
	}
	if err != nil {
		return fmt.Errorf("failed to attach finding: %w", err)
	}

	logger.Info("Finding attached",
		logger.F("kind", string(f.Kind)),
		logger.F("name", f.Name),
		logger.F("plan", task.PlanID))
	fmt.Fprintf(cmd.OutOrStdout(), "✓ Added to [%s]: %q\n", planLabel(cmd.Context(), store, task.PlanID), task.Text)
	return nil
}

// pickPlan runs the attach picker and returns the task it created
func pickPlan(store *planner.Store, suggestion string, related []string) (model.Task, bool, error) {
	p := tea.NewProgram(tui.NewAttachModel(store, suggestion, related))
	final, err := p.Run()
	if err != nil {
		return model.Task{}, false, fmt.Errorf("failed to run picker: %w", err)
	}
	m, ok := final.(tui.Model)
	if !ok {
		return model.Task{}, false, nil
	}
	task, ok := m.Attached()
	return task, ok, nil
}
