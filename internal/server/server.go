// Package server exposes the task API over HTTP/JSON.
package server

import (
	"context"
	stderrors "errors"
	"net"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gin-gonic/gin"

	"todo/internal/api"
	"todo/internal/domain"
	"todo/internal/errors"
	"todo/internal/logging"
)

const defaultShutdownTimeout = 10 * time.Second

// Server serves the /tasks routes.
type Server struct {
	api             api.API
	logger          *log.Logger
	engine          *gin.Engine
	shutdownTimeout time.Duration
}

// Option configures a Server.
type Option func(*Server)

// WithLogger sets the logger used for request and error logging.
func WithLogger(logger *log.Logger) Option {
	return func(s *Server) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithShutdownTimeout bounds how long Run waits for in-flight requests.
func WithShutdownTimeout(d time.Duration) Option {
	return func(s *Server) {
		if d > 0 {
			s.shutdownTimeout = d
		}
	}
}

// New builds the gin engine with all routes registered.
func New(a api.API, opts ...Option) *Server {
	s := &Server{
		api:             a,
		logger:          logging.Discard(),
		shutdownTimeout: defaultShutdownTimeout,
	}
	for _, opt := range opts {
		opt(s)
	}

	r := gin.New()
	// Match on the escaped path so ids containing "/" reach the :id param.
	r.UseRawPath = true
	r.Use(gin.Recovery(), s.requestLogger())

	r.GET("/health", s.health)
	r.GET("/tasks", s.listTasks)
	r.GET("/tasks/:id", s.getTask)
	r.POST("/tasks", s.createTask)
	r.PUT("/tasks/:id", s.updateTask)
	r.DELETE("/tasks/:id", s.deleteTask)
	r.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{"error": "route not found"})
	})

	s.engine = r
	return s
}

// Handler returns the HTTP handler, for tests and embedding.
func (s *Server) Handler() http.Handler {
	return s.engine
}

// Run listens on addr and serves until ctx is cancelled.
func (s *Server) Run(ctx context.Context, addr string) error {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return err
	}
	return s.Serve(ctx, ln)
}

// Serve serves on ln until ctx is cancelled, then shuts down gracefully.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	srv := &http.Server{
		Handler:           s.engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("listening", "addr", ln.Addr().String())
		errCh <- srv.Serve(ln)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	s.logger.Info("shutting down", "timeout", s.shutdownTimeout)
	shutdownCtx, cancel := context.WithTimeout(context.Background(), s.shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errCh; err != nil && !stderrors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (s *Server) requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		s.logger.Info("request",
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", c.Writer.Status(),
			"duration", time.Since(start),
		)
	}
}

func (s *Server) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (s *Server) listTasks(c *gin.Context) {
	tasks, err := s.api.ListTasks(c.Request.Context(), c.Query("search"))
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, tasks)
}

func (s *Server) getTask(c *gin.Context) {
	task, err := s.api.GetTask(c.Request.Context(), c.Param("id"))
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, task)
}

func (s *Server) createTask(c *gin.Context) {
	var req domain.NewTask
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	task, err := s.api.CreateTask(c.Request.Context(), req)
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, task)
}

// updateTask applies the body as a merge-patch. id and createdAt in the
// body are not part of TaskPatch and so are ignored.
func (s *Server) updateTask(c *gin.Context) {
	var patch domain.TaskPatch
	if err := c.ShouldBindJSON(&patch); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	task, err := s.api.UpdateTask(c.Request.Context(), c.Param("id"), patch)
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, task)
}

func (s *Server) deleteTask(c *gin.Context) {
	if err := s.api.DeleteTask(c.Request.Context(), c.Param("id")); err != nil {
		s.fail(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// fail writes err as {"error": message}. Server-side failures are logged
// and answered with a generic message.
func (s *Server) fail(c *gin.Context, err error) {
	switch {
	case errors.IsErrorType(err, errors.ErrorTypeValidation),
		errors.IsErrorType(err, errors.ErrorTypeInvalidInput):
		c.JSON(http.StatusBadRequest, gin.H{"error": errors.GetUserMessage(err)})
	case errors.IsNotFound(err):
		c.JSON(http.StatusNotFound, gin.H{"error": "task not found"})
	default:
		s.logger.Error("request failed",
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"code", errors.GetErrorCode(err),
			"err", err,
		)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
	}
}
