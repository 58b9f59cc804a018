// Package server hosts interview sessions over HTTP.
package server

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/screenline-dev/screenline/internal/interview"
)

// maxMessageLen bounds one candidate message.
const maxMessageLen = 4000

// maxBodySize bounds a request body before it is decoded.
const maxBodySize = "16K"

// MessageRequest is the body of POST /api/sessions/:id/messages.
type MessageRequest struct {
	Message string `json:"message"`
}

// TurnResponse is returned after creating a session or sending a message.
type TurnResponse struct {
	SessionID string `json:"session_id"`
	Stage     string `json:"stage"`
	Reply     string `json:"reply"`
	Done      bool   `json:"done"`
	RecordID  string `json:"record_id,omitempty"`
}

// SessionResponse is returned by GET /api/sessions/:id.
type SessionResponse struct {
	SessionID       string              `json:"session_id"`
	Stage           string              `json:"stage"`
	Done            bool                `json:"done"`
	CurrentQuestion string              `json:"current_question,omitempty"`
	Answered        int                 `json:"answered"`
	Remaining       int                 `json:"remaining"`
	History         []interview.Message `json:"history"`
}

// Server is the HTTP host for interview sessions.
type Server struct {
	echo     *echo.Echo
	machine  *interview.Machine
	sessions *registry
	logger   *slog.Logger
}

// Option customizes a Server.
type Option func(*Server)

// WithLogger sets the request and diagnostic logger.
func WithLogger(l *slog.Logger) Option {
	return func(s *Server) { s.logger = l }
}

// WithClock overrides the time source used for session expiry.
func WithClock(now func() time.Time) Option {
	return func(s *Server) { s.sessions.now = now }
}

// New builds a Server. Sessions idle for longer than ttl are evicted by Sweep.
func New(m *interview.Machine, ttl time.Duration, opts ...Option) *Server {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	s := &Server{
		echo:     e,
		machine:  m,
		sessions: newRegistry(ttl),
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}

	e.Use(middleware.Recover(), middleware.CORS(), middleware.BodyLimit(maxBodySize))
	e.Use(middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogMethod:  true,
		LogURIPath: true,
		LogStatus:  true,
		LogLatency: true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			s.logger.Debug("request", "method", v.Method, "path", v.URIPath, "status", v.Status, "latency", v.Latency)
			return nil
		},
	}))

	s.setupRoutes()
	return s
}

func (s *Server) setupRoutes() {
	s.echo.GET("/healthz", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
	})

	api := s.echo.Group("/api")
	api.POST("/sessions", s.createSession)
	api.GET("/sessions/:id", s.getSession)
	api.POST("/sessions/:id/messages", s.sendMessage)
	api.DELETE("/sessions/:id", s.endSession)
}

// Handler exposes the router, mainly for tests.
func (s *Server) Handler() http.Handler {
	return s.echo
}

// Start listens on addr and serves until Shutdown.
func (s *Server) Start(addr string) error {
	s.logger.Info("serving interviews", "addr", addr)
	if err := s.echo.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown stops accepting requests and waits for in-flight turns.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.echo.Shutdown(ctx)
}

// Sweep evicts idle sessions and returns how many were removed.
func (s *Server) Sweep() int {
	n := s.sessions.sweep()
	if n > 0 {
		s.logger.Info("evicted idle sessions", "count", n)
	}
	return n
}

// RunSweeper calls Sweep every interval until ctx is done.
func (s *Server) RunSweeper(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.Sweep()
		}
	}
}

func (s *Server) createSession(c echo.Context) error {
	sess := s.machine.NewSession()
	reply := s.machine.Start(sess)
	s.sessions.add(sess)

	return c.JSON(http.StatusCreated, TurnResponse{
		SessionID: sess.ID,
		Stage:     string(sess.Stage),
		Reply:     reply,
	})
}

func (s *Server) sendMessage(c echo.Context) error {
	req := new(MessageRequest)
	if err := c.Bind(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if len(req.Message) > maxMessageLen {
		return echo.NewHTTPError(http.StatusRequestEntityTooLarge, "message too long")
	}

	ent, ok := s.sessions.get(c.Param("id"))
	if !ok {
		return echo.NewHTTPError(http.StatusNotFound, "session not found")
	}

	ent.mu.Lock()
	defer ent.mu.Unlock()

	turn := s.machine.Advance(c.Request().Context(), ent.session, req.Message)
	if turn.Err != nil {
		s.logger.Error("interview turn failed", "session", ent.session.ID, "error", turn.Err)
	}
	if turn.Directive == interview.DirectiveSaveCandidateRecord && turn.RecordID == "" {
		s.logger.Warn("completed interview was not stored", "session", ent.session.ID)
	}

	return c.JSON(http.StatusOK, TurnResponse{
		SessionID: ent.session.ID,
		Stage:     string(turn.Stage),
		Reply:     turn.Reply,
		Done:      turn.Stage.Terminal() || turn.Err != nil,
		RecordID:  turn.RecordID,
	})
}

func (s *Server) getSession(c echo.Context) error {
	ent, ok := s.sessions.get(c.Param("id"))
	if !ok {
		return echo.NewHTTPError(http.StatusNotFound, "session not found")
	}

	ent.mu.Lock()
	defer ent.mu.Unlock()

	sess := ent.session
	return c.JSON(http.StatusOK, SessionResponse{
		SessionID:       sess.ID,
		Stage:           string(sess.Stage),
		Done:            sess.Stage.Terminal(),
		CurrentQuestion: sess.CurrentQuestion(),
		Answered:        len(sess.Answers),
		Remaining:       len(sess.Queue),
		History:         append([]interview.Message(nil), sess.History...),
	})
}

func (s *Server) endSession(c echo.Context) error {
	if !s.sessions.remove(c.Param("id")) {
		return echo.NewHTTPError(http.StatusNotFound, "session not found")
	}
	return c.NoContent(http.StatusNoContent)
}
