package httpserver

import (
	"context"
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/PratikJH153/OrbitAI/internal/archive"
	"github.com/PratikJH153/OrbitAI/internal/conversation"
	"github.com/PratikJH153/OrbitAI/internal/session"
	"github.com/PratikJH153/OrbitAI/internal/speech"
	"github.com/PratikJH153/OrbitAI/internal/turn"
)

// Deps are the collaborators the HTTP surface exposes.
type Deps struct {
	Controller *turn.Controller
	Store      *session.Store
	Convo      *conversation.Log
	Archiver   archive.Archiver
	Mic        *speech.PushMicrophone
	Hub        *Hub

	// BaseCtx bounds turn work started by a request, so a turn is not
	// torn down when the client disconnects mid-reply.
	BaseCtx context.Context
}

// Server bundles the Echo router and its dependencies.
type Server struct {
	Router *echo.Echo
	deps   Deps
}

// New constructs the HTTP server with routes and middleware.
func New(d Deps) *Server {
	if d.BaseCtx == nil {
		d.BaseCtx = context.Background()
	}
	if d.Archiver == nil {
		d.Archiver = archive.Disabled{}
	}
	if d.Hub == nil {
		d.Hub = NewHub()
	}

	e := echo.New()
	e.HideBanner = true
	e.Use(middleware.Logger())
	e.Use(middleware.Recover())

	s := &Server{Router: e, deps: d}

	e.GET("/healthz", func(c echo.Context) error {
		return c.String(http.StatusOK, "ok")
	})

	api := e.Group("/api")
	api.POST("/message", s.handleMessage)
	api.POST("/capture/toggle", s.handleCaptureToggle)
	api.POST("/capture/cancel", s.handleCaptureCancel)
	api.GET("/state", s.handleState)
	api.GET("/history", s.handleHistory)
	api.POST("/session/end", s.handleSessionEnd)
	api.POST("/session/save", s.handleSessionSave)
	api.POST("/session/discard", s.handleSessionDiscard)

	e.GET("/ws", s.handleWS)

	return s
}

type messageRequest struct {
	Text string `json:"text"`
}

type errorResponse struct {
	Error string `json:"error"`
}

// handleMessage runs a typed-message turn and returns the structured reply.
func (s *Server) handleMessage(c echo.Context) error {
	var req messageRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, errorResponse{Error: "invalid request body"})
	}

	reply, err := s.deps.Controller.HandleText(s.deps.BaseCtx, req.Text)
	if err != nil {
		if errors.Is(err, turn.ErrNotIdle) {
			return c.JSON(http.StatusConflict, errorResponse{Error: err.Error()})
		}
		return c.JSON(http.StatusBadRequest, errorResponse{Error: err.Error()})
	}
	return c.JSON(http.StatusOK, reply)
}

// handleCaptureToggle starts recording when idle and ends it when
// recording. The resulting state is reported; a toggle in any other
// state is a no-op.
func (s *Server) handleCaptureToggle(c echo.Context) error {
	s.deps.Controller.ToggleCapture(s.deps.BaseCtx)
	return c.JSON(http.StatusOK, map[string]any{"state": s.deps.Controller.State()})
}

func (s *Server) handleCaptureCancel(c echo.Context) error {
	s.deps.Controller.CancelCapture()
	return c.JSON(http.StatusOK, map[string]any{"state": s.deps.Controller.State()})
}

func (s *Server) handleState(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]any{
		"state":   s.deps.Controller.State(),
		"session": s.deps.Store.Snapshot(),
	})
}

func (s *Server) handleHistory(c echo.Context) error {
	return c.JSON(http.StatusOK, s.deps.Convo.Messages())
}

// handleSessionEnd surfaces the end-of-session prompt with the rendered
// transcript so the student can review before saving.
func (s *Server) handleSessionEnd(c echo.Context) error {
	s.deps.Store.ShowEndPrompt(archive.Render(s.deps.Convo.Messages()))
	return c.JSON(http.StatusOK, s.deps.Store.Snapshot())
}

type saveRequest struct {
	Title string `json:"title"`
}

// handleSessionSave stores the session notes, archives the transcript,
// and clears the conversation for a fresh session.
func (s *Server) handleSessionSave(c echo.Context) error {
	var req saveRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, errorResponse{Error: "invalid request body"})
	}

	note, ok := s.deps.Store.SaveSessionNotes(req.Title)
	if !ok {
		return c.JSON(http.StatusConflict, errorResponse{Error: "no session is awaiting save"})
	}

	if err := s.deps.Archiver.SaveTranscript(s.deps.Convo.Messages()); err != nil {
		// The session is still saved locally; the archive is best effort.
		log.WithError(err).Warn("transcript archive failed")
	}
	s.deps.Convo.Reset()

	return c.JSON(http.StatusOK, note)
}

// handleSessionDiscard dismisses the end prompt without saving.
func (s *Server) handleSessionDiscard(c echo.Context) error {
	s.deps.Store.HideEndPrompt()
	s.deps.Convo.Reset()
	return c.JSON(http.StatusOK, s.deps.Store.Snapshot())
}

// handleWS serves the event feed. Binary frames from the client carry
// recorded audio chunks and are pushed into the microphone bridge.
func (s *Server) handleWS(c echo.Context) error {
	var onBinary func([]byte)
	if s.deps.Mic != nil {
		onBinary = func(chunk []byte) {
			s.deps.Mic.Push(chunk)
		}
	}
	return s.deps.Hub.Handle(c, onBinary)
}
