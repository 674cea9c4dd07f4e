package cli

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"
	"testing"

	"github.com/existflow/croptask/internal/planner"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// setupHome points config, data and logs at a temp dir with the file backend
func setupHome(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("CROPTASK_HOME", dir)
	t.Setenv("CROPTASK_BACKEND", "file")
	t.Setenv("CROPTASK_LOG_FILE", filepath.Join(dir, "logs", "test.log"))
	cfg = nil

	orig := stdinIsTerminal
	stdinIsTerminal = func() bool { return false }
	t.Cleanup(func() { stdinIsTerminal = orig })
	return dir
}

// resetFlags puts every flag back to its default between invocations
func resetFlags(c *cobra.Command) {
	reset := func(f *pflag.Flag) {
		if sv, ok := f.Value.(pflag.SliceValue); ok {
			_ = sv.Replace(nil)
		} else {
			_ = f.Value.Set(f.DefValue)
		}
		f.Changed = false
	}
	c.Flags().VisitAll(reset)
	c.PersistentFlags().VisitAll(reset)
	for _, sub := range c.Commands() {
		resetFlags(sub)
	}
}

func run(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	resetFlags(rootCmd)

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetIn(strings.NewReader(stdin))
	rootCmd.SetArgs(args)

	err := rootCmd.Execute()
	return out.String(), err
}

func mustRun(t *testing.T, args ...string) string {
	t.Helper()
	out, err := run(t, "", args...)
	require.NoError(t, err, out)
	return out
}

var idPattern = regexp.MustCompile(`\(id: (\d+)\)`)

func createdID(t *testing.T, out string) int64 {
	t.Helper()
	m := idPattern.FindStringSubmatch(out)
	require.NotNil(t, m, out)
	id, err := strconv.ParseInt(m[1], 10, 64)
	require.NoError(t, err)
	return id
}

func testStore(t *testing.T) *planner.Store {
	t.Helper()
	store, closeStore, err := openStore(context.Background())
	require.NoError(t, err)
	t.Cleanup(closeStore)
	return store
}

func TestPlanLifecycle(t *testing.T) {
	setupHome(t)

	out := mustRun(t, "plan", "new", "Okra", "--area", "2 acres", "--variety", "Pusa Sawani", "--price", "40")
	assert.Contains(t, out, "Created plan: Okra, 2 acres")
	id := createdID(t, out)
	sid := strconv.FormatInt(id, 10)

	out = mustRun(t, "plan", "list")
	assert.Contains(t, out, "Tomato")
	assert.Contains(t, out, "Okra")
	assert.Contains(t, out, "6 plans")

	mustRun(t, "plan", "edit", sid, "--area", "3 acres")
	p, err := testStore(t).GetPlan(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, "3 acres", p.Area)
	assert.Equal(t, "Pusa Sawani", p.Variety)
	require.NotNil(t, p.CurrentMarketPrice)
	assert.Equal(t, 40.0, *p.CurrentMarketPrice)

	out = mustRun(t, "plan", "delete", sid, "--force")
	assert.Contains(t, out, "Deleted plan: Okra")
	assert.NotContains(t, mustRun(t, "plan", "list"), "Okra")
}

func TestPlanNewRejectsBadArea(t *testing.T) {
	setupHome(t)

	_, err := run(t, "", "plan", "new", "Okra", "--area", "lots")
	assert.ErrorIs(t, err, planner.ErrInvalidPlan)
}

func TestPlanSeedIsReadOnly(t *testing.T) {
	setupHome(t)

	_, err := run(t, "", "plan", "edit", "1001", "--area", "9 acres")
	assert.ErrorIs(t, err, planner.ErrSeedPlan)

	_, err = run(t, "", "plan", "delete", "1001", "--force")
	assert.ErrorIs(t, err, planner.ErrSeedPlan)
}

func TestPlanDeleteConfirmation(t *testing.T) {
	setupHome(t)
	id := createdID(t, mustRun(t, "plan", "new", "Okra"))
	sid := strconv.FormatInt(id, 10)

	_, err := run(t, "", "plan", "delete", sid)
	assert.ErrorIs(t, err, errNoTerminal)

	stdinIsTerminal = func() bool { return true }

	out, err := run(t, "n\n", "plan", "delete", sid)
	require.NoError(t, err)
	assert.Contains(t, out, "Cancelled.")

	out, err = run(t, "y\n", "plan", "delete", sid)
	require.NoError(t, err)
	assert.Contains(t, out, "Deleted plan: Okra")
}

func TestPlanMatch(t *testing.T) {
	setupHome(t)

	out := mustRun(t, "plan", "match", "tomato plant")
	assert.Contains(t, out, "Tomato")
	assert.NotContains(t, out, "Onion")

	out = mustRun(t, "plan", "match", "rice")
	assert.Contains(t, out, "No matching plans")

	out = mustRun(t, "plan", "match", "rice", "--all")
	assert.Contains(t, out, "5 plans")
}

func TestAddListDone(t *testing.T) {
	setupHome(t)

	_, err := run(t, "", "add", "Stake", "vines")
	assert.Error(t, err)

	mustRun(t, "context", "set", "1001")
	assert.Equal(t, int64(1001), GetCurrentContext())

	out := mustRun(t, "add", "Stake", "vines")
	assert.Contains(t, out, `Added to [Tomato]: "Stake vines"`)
	mustRun(t, "add", "Thin seedlings", "--plan", "1004")

	out = mustRun(t, "list")
	assert.Contains(t, out, "Stake vines")
	assert.Contains(t, out, "Thin seedlings")

	tasks, err := testStore(t).Tasks(context.Background(), 1001)
	require.NoError(t, err)
	require.Len(t, tasks, 1)

	out = mustRun(t, "done", tasks[0].ID[:6])
	assert.Contains(t, out, "Completed")
	assert.NotContains(t, mustRun(t, "list"), "Stake vines")
	assert.Contains(t, mustRun(t, "list", "--done"), "Stake vines")

	// already done stays done
	mustRun(t, "done", tasks[0].ID)
	out = mustRun(t, "done", tasks[0].ID, "--undo")
	assert.Contains(t, out, "Reopened")
}

func TestAttachFromFile(t *testing.T) {
	dir := setupHome(t)
	path := filepath.Join(dir, "finding.json")
	raw := "Here is the result:\n```json\n" +
		`{"kind":"disease","name":"Early Blight","treatment":"Spray copper fungicide. Repeat weekly","relatedCrops":["tomato"]}` +
		"\n```"
	require.NoError(t, os.WriteFile(path, []byte(raw), 0644))

	out := mustRun(t, "attach", path, "--plan", "1001")
	assert.Contains(t, out, `Added to [Tomato]: "Treat Early Blight - Spray copper fungicide"`)

	out = mustRun(t, "attach", path, "--quick")
	assert.Contains(t, out, "Added to [Early]")
	assert.Len(t, testStore(t).LoadPlans(context.Background()), 6)
}

func TestAttachFromFlags(t *testing.T) {
	setupHome(t)

	out := mustRun(t, "attach", "--kind", "pest", "--name", "Aphids", "--treatment", "Neem oil; yellow traps", "--crop", "chilli", "--plan", "1002")
	assert.Contains(t, out, `"Control Aphids - Neem oil"`)

	_, err := run(t, "", "attach", "--plan", "1002")
	assert.Error(t, err)

	_, err = run(t, "", "attach", "--name", "Aphids", "--plan", "1002", "--quick")
	assert.Error(t, err)

	_, err = run(t, "", "attach", "--name", "Aphids", "--plan", "42")
	assert.ErrorIs(t, err, planner.ErrUnknownPlan)
}

func TestChecklist(t *testing.T) {
	setupHome(t)

	out := mustRun(t, "checklist", "1003", "--days", "3")
	assert.Contains(t, out, "day-0")
	assert.Contains(t, out, "day-2")
	assert.NotContains(t, out, "day-3")

	out = mustRun(t, "checklist", "1003", "--toggle", "day-0")
	assert.Contains(t, out, "day-0 marked done")
	assert.Contains(t, mustRun(t, "checklist", "1003", "--days", "1"), "[x]")
}

func TestExport(t *testing.T) {
	dir := setupHome(t)
	path := filepath.Join(dir, "out.xlsx")

	mustRun(t, "add", "Harvest", "--plan", "1003")
	out := mustRun(t, "export", path)
	assert.Contains(t, out, "Exported 5 plans and 1 tasks")

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Greater(t, info.Size(), int64(0))
}

func TestReset(t *testing.T) {
	setupHome(t)
	mustRun(t, "plan", "new", "Okra")
	mustRun(t, "add", "Harvest", "--plan", "1003")
	mustRun(t, "context", "set", "1003")

	_, err := run(t, "", "reset")
	assert.ErrorIs(t, err, errNoTerminal)

	mustRun(t, "reset", "--force")
	store := testStore(t)
	assert.Len(t, store.LoadPlans(context.Background()), 5)
	pending, total := store.TaskCounts(context.Background(), 1003)
	assert.Zero(t, pending)
	assert.Zero(t, total)
	assert.Zero(t, GetCurrentContext())
}

func TestPlanLabel(t *testing.T) {
	setupHome(t)
	store := testStore(t)

	assert.Equal(t, "Tomato", planLabel(context.Background(), store, 1001))
	assert.Equal(t, "42", planLabel(context.Background(), store, 42))
}
