package server

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/existflow/croptask/internal/finding"
	"github.com/existflow/croptask/internal/logger"
	"github.com/existflow/croptask/internal/model"
	"github.com/existflow/croptask/internal/planner"
	"github.com/labstack/echo/v4"
)

// PlanResponse is a plan with its task counts
type PlanResponse struct {
	model.Plan
	Pending int `json:"pending"`
	Total   int `json:"total"`
}

// MatchResponse carries the match state so clients can tell
// "no plans yet" from "no matching plans"
type MatchResponse struct {
	State string         `json:"state"`
	Plans []PlanResponse `json:"plans"`
}

// TaskRequest is the body of POST /plans/:id/tasks and /quick-tasks
type TaskRequest struct {
	Text string `json:"text"`
}

// AttachRequest is the body of POST /findings/attach. PlanID 0 with Quick
// set creates a plan on the fly.
type AttachRequest struct {
	Finding finding.Finding `json:"finding"`
	PlanID  int64           `json:"planId"`
	Quick   bool            `json:"quick"`
}

func errorJSON(c echo.Context, status int, err error) error {
	return c.JSON(status, map[string]string{"error": err.Error()})
}

// storeError maps planner errors onto status codes
func storeError(c echo.Context, err error) error {
	switch {
	case errors.Is(err, planner.ErrUnknownPlan), errors.Is(err, planner.ErrUnknownTask):
		return errorJSON(c, http.StatusNotFound, err)
	case errors.Is(err, planner.ErrSeedPlan):
		return errorJSON(c, http.StatusConflict, err)
	case errors.Is(err, planner.ErrEmptyTask), errors.Is(err, planner.ErrInvalidPlan):
		return errorJSON(c, http.StatusBadRequest, err)
	default:
		logger.Error("Store operation failed", logger.F("path", c.Path()), logger.F("error", err))
		return errorJSON(c, http.StatusInternalServerError, errors.New("internal error"))
	}
}

func planID(c echo.Context) (int64, error) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return 0, errors.New("invalid plan id")
	}
	return id, nil
}

func (s *Server) withCounts(c echo.Context, plans []model.Plan) []PlanResponse {
	out := make([]PlanResponse, len(plans))
	for i, p := range plans {
		pending, total := s.store.TaskCounts(c.Request().Context(), p.ID)
		out[i] = PlanResponse{Plan: p, Pending: pending, Total: total}
	}
	return out
}

func (s *Server) handleListPlans(c echo.Context) error {
	plans := s.store.LoadPlans(c.Request().Context())
	return c.JSON(http.StatusOK, s.withCounts(c, plans))
}

func (s *Server) handleGetPlan(c echo.Context) error {
	id, err := planID(c)
	if err != nil {
		return errorJSON(c, http.StatusBadRequest, err)
	}
	p, err := s.store.GetPlan(c.Request().Context(), id)
	if err != nil {
		return storeError(c, err)
	}
	return c.JSON(http.StatusOK, s.withCounts(c, []model.Plan{p})[0])
}

func (s *Server) handleCreatePlan(c echo.Context) error {
	var p model.Plan
	if err := c.Bind(&p); err != nil {
		return errorJSON(c, http.StatusBadRequest, errors.New("invalid request body"))
	}
	created, err := s.store.AddPlan(c.Request().Context(), p)
	if err != nil {
		return storeError(c, err)
	}
	return c.JSON(http.StatusCreated, created)
}

func (s *Server) handleUpdatePlan(c echo.Context) error {
	id, err := planID(c)
	if err != nil {
		return errorJSON(c, http.StatusBadRequest, err)
	}
	var p model.Plan
	if err := c.Bind(&p); err != nil {
		return errorJSON(c, http.StatusBadRequest, errors.New("invalid request body"))
	}
	p.ID = id
	if err := s.store.UpdatePlan(c.Request().Context(), p); err != nil {
		return storeError(c, err)
	}
	updated, err := s.store.GetPlan(c.Request().Context(), id)
	if err != nil {
		return storeError(c, err)
	}
	return c.JSON(http.StatusOK, updated)
}

func (s *Server) handleDeletePlan(c echo.Context) error {
	id, err := planID(c)
	if err != nil {
		return errorJSON(c, http.StatusBadRequest, err)
	}
	if err := s.store.DeletePlan(c.Request().Context(), id); err != nil {
		return storeError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

// handleMatchPlans accepts repeated or comma separated crop params
func (s *Server) handleMatchPlans(c echo.Context) error {
	var crops []string
	for _, v := range c.QueryParams()["crop"] {
		crops = append(crops, strings.Split(v, ",")...)
	}
	showAll, _ := strconv.ParseBool(c.QueryParam("all"))

	r := s.store.MatchPlans(c.Request().Context(), crops, showAll)
	return c.JSON(http.StatusOK, MatchResponse{State: r.State.String(), Plans: s.withCounts(c, r.Plans)})
}

func (s *Server) handleListTasks(c echo.Context) error {
	id, err := planID(c)
	if err != nil {
		return errorJSON(c, http.StatusBadRequest, err)
	}
	tasks, err := s.store.Tasks(c.Request().Context(), id)
	if err != nil {
		return storeError(c, err)
	}
	return c.JSON(http.StatusOK, tasks)
}

func (s *Server) handleAddTask(c echo.Context) error {
	id, err := planID(c)
	if err != nil {
		return errorJSON(c, http.StatusBadRequest, err)
	}
	var req TaskRequest
	if err := c.Bind(&req); err != nil {
		return errorJSON(c, http.StatusBadRequest, errors.New("invalid request body"))
	}
	task, err := s.store.AddTaskToPlan(c.Request().Context(), id, req.Text)
	if err != nil {
		return storeError(c, err)
	}
	return c.JSON(http.StatusCreated, task)
}

func (s *Server) handleToggleTask(c echo.Context) error {
	id, err := planID(c)
	if err != nil {
		return errorJSON(c, http.StatusBadRequest, err)
	}
	task, err := s.store.ToggleTask(c.Request().Context(), id, c.Param("taskId"))
	if err != nil {
		return storeError(c, err)
	}
	return c.JSON(http.StatusOK, task)
}

func (s *Server) handleChecklist(c echo.Context) error {
	id, err := planID(c)
	if err != nil {
		return errorJSON(c, http.StatusBadRequest, err)
	}
	days := s.checklistDays
	if v := c.QueryParam("days"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 && n <= 365 {
			days = n
		}
	}
	entries, err := s.store.Checklist(c.Request().Context(), id, days)
	if err != nil {
		return storeError(c, err)
	}
	return c.JSON(http.StatusOK, entries)
}

func (s *Server) handleToggleChecklist(c echo.Context) error {
	id, err := planID(c)
	if err != nil {
		return errorJSON(c, http.StatusBadRequest, err)
	}
	done, err := s.store.ToggleChecklistItem(c.Request().Context(), id, c.Param("itemId"))
	if err != nil {
		return storeError(c, err)
	}
	return c.JSON(http.StatusOK, map[string]interface{}{"id": c.Param("itemId"), "done": done})
}

func (s *Server) handleQuickTask(c echo.Context) error {
	var req TaskRequest
	if err := c.Bind(&req); err != nil {
		return errorJSON(c, http.StatusBadRequest, errors.New("invalid request body"))
	}
	task, err := s.store.CreateQuickPlanAndAddTask(c.Request().Context(), req.Text)
	if err != nil {
		return storeError(c, err)
	}
	return c.JSON(http.StatusCreated, task)
}

func (s *Server) handleAttachFinding(c echo.Context) error {
	var req AttachRequest
	if err := c.Bind(&req); err != nil {
		return errorJSON(c, http.StatusBadRequest, errors.New("invalid request body"))
	}
	text := req.Finding.SuggestedAction()
	ctx := c.Request().Context()

	var (
		task model.Task
		err  error
	)
	switch {
	case req.PlanID != 0:
		task, err = s.store.AddTaskToPlan(ctx, req.PlanID, text)
	case req.Quick:
		task, err = s.store.CreateQuickPlanAndAddTask(ctx, text)
	default:
		return errorJSON(c, http.StatusBadRequest, errors.New("planId or quick is required"))
	}
	if err != nil {
		return storeError(c, err)
	}
	return c.JSON(http.StatusCreated, task)
}
