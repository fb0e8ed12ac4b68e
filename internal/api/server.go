// Package api exposes the timeline services over HTTP with a JSON envelope
// and a websocket change feed.
package api

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/alexanderramin/tempo/internal/service"
)

// Server is the HTTP boundary over one set of services.
type Server struct {
	svc    *service.Services
	feed   *Feed
	logger *slog.Logger
	router *gin.Engine
}

// NewServer builds the router. feed may be nil, in which case /api/feed is
// not registered.
func NewServer(svc *service.Services, feed *Feed, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	router := gin.New()
	router.Use(gin.Recovery(), requestLogger(logger))

	s := &Server{svc: svc, feed: feed, logger: logger, router: router}

	router.GET("/healthz", s.handleHealth)

	api := router.Group("/api")
	{
		api.GET("/timelines", s.listTimelines)
		api.POST("/timelines", s.createTimeline)
		api.GET("/timelines/:id", s.getTimeline)
		api.PUT("/timelines/:id", s.updateTimeline)
		api.DELETE("/timelines/:id", s.deleteTimeline)
		api.GET("/timelines/:id/sprints", s.listSprints)
		api.POST("/timelines/:id/sprints", s.createSprint)

		api.GET("/sprints/:id", s.getSprint)
		api.PUT("/sprints/:id", s.updateSprint)
		api.DELETE("/sprints/:id", s.deleteSprint)
		api.GET("/sprints/:id/tasks", s.listTasks)
		api.POST("/sprints/:id/tasks", s.createTask)

		api.GET("/tasks/:id", s.getTask)
		api.PUT("/tasks/:id", s.updateTask)
		api.DELETE("/tasks/:id", s.deleteTask)
		api.POST("/tasks/:id/move", s.moveTask)
		api.POST("/tasks/:id/shift", s.shiftTask)
		api.GET("/tasks/:id/subtasks", s.listSubtasks)
		api.POST("/tasks/:id/subtasks", s.createSubtask)

		api.GET("/subtasks/:id", s.getSubtask)
		api.PUT("/subtasks/:id", s.updateSubtask)
		api.DELETE("/subtasks/:id", s.deleteSubtask)

		api.GET("/search/tasks", s.searchTasks)
		api.GET("/search/members", s.searchMembers)
		api.POST("/members", s.addMember)

		if svc.Snapshots != nil {
			api.POST("/snapshot/save", s.saveSnapshot)
			api.POST("/snapshot/load", s.loadSnapshot)
		}
		if feed != nil {
			api.GET("/feed", feed.handle)
		}
	}
	return s
}

// Handler returns the router for use with httptest or a custom server.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Run serves on addr until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("http server listening", "addr", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("http server: %w", err)
	case <-ctx.Done():
	}

	if s.feed != nil {
		s.feed.Close()
	}
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("http server shutdown: %w", err)
	}
	return nil
}

func (s *Server) handleHealth(c *gin.Context) {
	respond(c, http.StatusOK, gin.H{"status": "ok", "clients": s.feed.ClientCount()})
}
