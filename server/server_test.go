package server

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/existflow/croptask/internal/db"
	"github.com/existflow/croptask/internal/model"
	"github.com/existflow/croptask/internal/planner"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestServer(t *testing.T) *Server {
	t.Helper()
	store := planner.NewStore(planner.NewKVRepository(db.NewMemory(), "croptask"),
		planner.WithClock(func() time.Time { return time.Date(2025, 10, 1, 8, 0, 0, 0, time.UTC) }))
	return New(store, 7)
}

func do(t *testing.T, s *Server, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	rec := httptest.NewRecorder()
	s.Router().ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v), rec.Body.String())
	return v
}

func TestHealth(t *testing.T) {
	rec := do(t, newTestServer(t), http.MethodGet, "/health", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "ok")
}

func TestListPlansIncludesSeeds(t *testing.T) {
	rec := do(t, newTestServer(t), http.MethodGet, "/api/v1/plans", "")
	require.Equal(t, http.StatusOK, rec.Code)

	plans := decode[[]PlanResponse](t, rec)
	require.Len(t, plans, 5)
	assert.Equal(t, "Tomato", plans[0].Crop)
	assert.Equal(t, model.PlanKindSeed, plans[0].Kind)
}

func TestCreateUpdateDeletePlan(t *testing.T) {
	s := newTestServer(t)

	rec := do(t, s, http.MethodPost, "/api/v1/plans", `{"crop":"Okra","area":"2 acres"}`)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	created := decode[model.Plan](t, rec)
	assert.Greater(t, created.ID, model.SeedIDMax)
	assert.Equal(t, model.PlanKindUser, created.Kind)

	path := "/api/v1/plans/" + strconv.FormatInt(created.ID, 10)
	rec = do(t, s, http.MethodPut, path, `{"crop":"Okra","area":"3 acres","variety":"Pusa"}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	updated := decode[model.Plan](t, rec)
	assert.Equal(t, "3 acres", updated.Area)
	assert.Equal(t, "Pusa", updated.Variety)

	rec = do(t, s, http.MethodDelete, path, "")
	assert.Equal(t, http.StatusNoContent, rec.Code)

	rec = do(t, s, http.MethodGet, path, "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestPlanErrors(t *testing.T) {
	s := newTestServer(t)

	tests := []struct {
		name   string
		method string
		path   string
		body   string
		want   int
	}{
		{"blank crop", http.MethodPost, "/api/v1/plans", `{"crop":"  "}`, http.StatusBadRequest},
		{"bad area", http.MethodPost, "/api/v1/plans", `{"crop":"Okra","area":"lots"}`, http.StatusBadRequest},
		{"edit seed", http.MethodPut, "/api/v1/plans/1001", `{"crop":"Tomato","area":"1 acre"}`, http.StatusConflict},
		{"delete seed", http.MethodDelete, "/api/v1/plans/1002", "", http.StatusConflict},
		{"unknown plan", http.MethodDelete, "/api/v1/plans/42", "", http.StatusNotFound},
		{"bad id", http.MethodGet, "/api/v1/plans/abc/tasks", "", http.StatusBadRequest},
		{"tasks of unknown plan", http.MethodGet, "/api/v1/plans/9999/tasks", "", http.StatusNotFound},
		{"blank task", http.MethodPost, "/api/v1/plans/1001/tasks", `{"text":"   "}`, http.StatusBadRequest},
		{"unknown task", http.MethodPost, "/api/v1/plans/1001/tasks/nope/toggle", "", http.StatusNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := do(t, s, tt.method, tt.path, tt.body)
			assert.Equal(t, tt.want, rec.Code, rec.Body.String())
		})
	}
}

func TestTaskLifecycle(t *testing.T) {
	s := newTestServer(t)

	rec := do(t, s, http.MethodPost, "/api/v1/plans/1001/tasks", `{"text":"Treat Early Blight - Spray copper fungicide"}`)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	task := decode[model.Task](t, rec)
	assert.Equal(t, int64(1001), task.PlanID)
	assert.False(t, task.Completed)

	rec = do(t, s, http.MethodPost, "/api/v1/plans/1001/tasks/"+task.ID+"/toggle", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, decode[model.Task](t, rec).Completed)

	rec = do(t, s, http.MethodGet, "/api/v1/plans/1001/tasks", "")
	require.Equal(t, http.StatusOK, rec.Code)
	tasks := decode[[]model.Task](t, rec)
	require.Len(t, tasks, 1)
	assert.True(t, tasks[0].Completed)

	plans := decode[[]PlanResponse](t, do(t, s, http.MethodGet, "/api/v1/plans", ""))
	assert.Equal(t, 0, plans[0].Pending)
	assert.Equal(t, 1, plans[0].Total)
}

func TestMatchPlans(t *testing.T) {
	s := newTestServer(t)

	rec := do(t, s, http.MethodGet, "/api/v1/plans/match?crop=tomato&crop=onion", "")
	require.Equal(t, http.StatusOK, rec.Code)
	res := decode[MatchResponse](t, rec)
	assert.Equal(t, "filtered", res.State)
	require.Len(t, res.Plans, 2)
	assert.Equal(t, "Tomato", res.Plans[0].Crop)
	assert.Equal(t, "Onion", res.Plans[1].Crop)

	res = decode[MatchResponse](t, do(t, s, http.MethodGet, "/api/v1/plans/match?crop=rice,wheat", ""))
	assert.Equal(t, "no_match", res.State)
	assert.Empty(t, res.Plans)

	res = decode[MatchResponse](t, do(t, s, http.MethodGet, "/api/v1/plans/match?crop=rice&all=true", ""))
	assert.Equal(t, "all", res.State)
	assert.Len(t, res.Plans, 5)
}

func TestQuickTask(t *testing.T) {
	s := newTestServer(t)

	rec := do(t, s, http.MethodPost, "/api/v1/quick-tasks", `{"text":"Treat Rust - apply sulfur"}`)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	task := decode[model.Task](t, rec)
	assert.Greater(t, task.PlanID, model.SeedIDMax)

	plans := decode[[]PlanResponse](t, do(t, s, http.MethodGet, "/api/v1/plans", ""))
	require.Len(t, plans, 6)
	assert.Equal(t, "Rust", plans[5].Crop)
	assert.Equal(t, planner.DefaultArea, plans[5].Area)
	assert.Equal(t, 1, plans[5].Pending)
}

func TestAttachFinding(t *testing.T) {
	s := newTestServer(t)
	body := `{"finding":{"kind":"pest","name":"Aphids","treatment":"Neem oil spray. Repeat in a week","relatedCrops":["chilli"]},"planId":1002}`

	rec := do(t, s, http.MethodPost, "/api/v1/findings/attach", body)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	task := decode[model.Task](t, rec)
	assert.Equal(t, int64(1002), task.PlanID)
	assert.Equal(t, "Control Aphids - Neem oil spray", task.Text)

	rec = do(t, s, http.MethodPost, "/api/v1/findings/attach", `{"finding":{"kind":"weed","name":"Nutsedge"}}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestChecklistToggle(t *testing.T) {
	s := newTestServer(t)

	rec := do(t, s, http.MethodGet, "/api/v1/plans/1003/checklist", "")
	require.Equal(t, http.StatusOK, rec.Code)
	entries := decode[[]planner.ChecklistEntry](t, rec)
	require.Len(t, entries, 7)
	assert.False(t, entries[0].Done)

	rec = do(t, s, http.MethodPost, "/api/v1/plans/1003/checklist/day-0/toggle", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"done":true`)

	entries = decode[[]planner.ChecklistEntry](t, do(t, s, http.MethodGet, "/api/v1/plans/1003/checklist?days=3", ""))
	require.Len(t, entries, 3)
	assert.True(t, entries[0].Done)
}
