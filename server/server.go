package server

import (
	"context"
	"net/http"
	"time"

	"github.com/existflow/croptask/internal/logger"
	"github.com/existflow/croptask/internal/planner"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
)

// Server exposes the plan store to diagnostic front-ends over HTTP
type Server struct {
	store         *planner.Store
	checklistDays int
	echo          *echo.Echo
}

// New creates a new server
func New(store *planner.Store, checklistDays int) *Server {
	if checklistDays <= 0 {
		checklistDays = 14
	}
	s := &Server{
		store:         store,
		checklistDays: checklistDays,
	}
	s.setupEcho()
	return s
}

func (s *Server) setupEcho() {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	e.Use(requestLogger)
	e.Use(middleware.Recover())
	e.Use(middleware.RequestID())
	e.Use(middleware.CORS())

	// Health check
	e.GET("/health", s.handleHealth)

	api := e.Group("/api/v1")

	api.GET("/plans", s.handleListPlans)
	api.POST("/plans", s.handleCreatePlan)
	api.GET("/plans/match", s.handleMatchPlans)
	api.GET("/plans/:id", s.handleGetPlan)
	api.PUT("/plans/:id", s.handleUpdatePlan)
	api.DELETE("/plans/:id", s.handleDeletePlan)

	api.GET("/plans/:id/tasks", s.handleListTasks)
	api.POST("/plans/:id/tasks", s.handleAddTask)
	api.POST("/plans/:id/tasks/:taskId/toggle", s.handleToggleTask)

	api.GET("/plans/:id/checklist", s.handleChecklist)
	api.POST("/plans/:id/checklist/:itemId/toggle", s.handleToggleChecklist)

	api.POST("/quick-tasks", s.handleQuickTask)
	api.POST("/findings/attach", s.handleAttachFinding)

	s.echo = e
}

// requestLogger writes one line per request to the structured log
func requestLogger(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		start := time.Now()
		req := c.Request()

		err := next(c)
		if err != nil {
			c.Error(err)
		}

		res := c.Response()
		logger.Info("HTTP Request",
			logger.F("method", req.Method),
			logger.F("uri", req.RequestURI),
			logger.F("status", res.Status),
			logger.F("size", res.Size),
			logger.F("duration", time.Since(start).String()))

		return nil
	}
}

// Router returns the HTTP handler
func (s *Server) Router() http.Handler {
	return s.echo
}

// Start starts the server
func (s *Server) Start(addr string) error {
	logger.Info("HTTP API listening", logger.F("addr", addr))
	return s.echo.Start(addr)
}

// Shutdown stops accepting requests and waits for in-flight ones
func (s *Server) Shutdown(ctx context.Context) error {
	return s.echo.Shutdown(ctx)
}

func (s *Server) handleHealth(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
}
