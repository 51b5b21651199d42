package mcp

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

// heartbeatInterval keeps intermediaries from timing out idle streams.
const heartbeatInterval = 30 * time.Second

// handleSSEOpen serves GET /sse: the legacy event-stream push channel.
//
// The server immediately emits an "endpoint" event naming the URL the client
// must POST its requests to, then streams JSON-RPC messages as "message"
// events until the client disconnects. The most recently opened stream is
// the implicit reply target for POST /messages bodies that carry no session
// id.
func (s *Server) handleSSEOpen(c echo.Context) error {
	sess := s.sessions.Create(InitializeParams{})

	s.mu.Lock()
	s.lastSSE = sess
	s.mu.Unlock()

	s.logger.Info("sse session opened", zap.String("session_id", sess.ID))

	h := c.Response().Header()
	h.Set(echo.HeaderContentType, "text/event-stream")
	h.Set("Cache-Control", "no-cache")
	h.Set("Connection", "keep-alive")
	h.Set("X-Accel-Buffering", "no") // Disable nginx buffering
	c.Response().WriteHeader(http.StatusOK)

	fmt.Fprintf(c.Response(), "event: endpoint\ndata: /messages?sessionId=%s\n\n", sess.ID)
	c.Response().Flush()

	ticker := time.NewTicker(heartbeatInterval)
	defer ticker.Stop()
	defer s.retireSSE(sess)

	for {
		select {
		case msg, ok := <-sess.Messages():
			if !ok {
				return nil
			}
			fmt.Fprintf(c.Response(), "event: message\ndata: %s\n\n", msg)
			c.Response().Flush()

		case <-ticker.C:
			fmt.Fprint(c.Response(), ": keep-alive\n\n")
			c.Response().Flush()

		case <-c.Request().Context().Done():
			return nil
		}
	}
}

func (s *Server) retireSSE(sess *Session) {
	s.mu.Lock()
	if s.lastSSE == sess {
		s.lastSSE = nil
	}
	s.mu.Unlock()
	s.sessions.Delete(sess.ID)
	s.logger.Info("sse session closed", zap.String("session_id", sess.ID))
}

// handleSSEMessage serves POST /messages: the request intake for Transport A.
//
// The reply travels over the event stream, not the POST response; the POST
// itself is acknowledged with 202. A sessionId query parameter selects the
// stream explicitly, otherwise the most recently opened one is used.
func (s *Server) handleSSEMessage(c echo.Context) error {
	sess := s.resolveSSESession(c.QueryParam("sessionId"))
	if sess == nil {
		return c.JSON(http.StatusBadRequest,
			errorResponse(nil, InvalidRequest, "no active event stream; open GET /sse first"))
	}

	var req JSONRPCRequest
	if err := json.NewDecoder(c.Request().Body).Decode(&req); err != nil {
		return c.JSON(http.StatusBadRequest,
			errorResponse(nil, ParseError, fmt.Sprintf("malformed JSON-RPC request: %v", err)))
	}

	resp := s.dispatcher.Handle(c.Request().Context(), sess, &req)
	if resp == nil {
		return c.NoContent(http.StatusAccepted)
	}

	data, err := json.Marshal(resp)
	if err != nil {
		return c.JSON(http.StatusInternalServerError,
			errorResponse(req.ID, InternalError, "failed to encode response"))
	}
	if !sess.Send(data) {
		s.logger.Warn("dropped response for slow or closed sse session",
			zap.String("session_id", sess.ID))
	}
	return c.NoContent(http.StatusAccepted)
}

func (s *Server) resolveSSESession(id string) *Session {
	if id != "" {
		return s.sessions.Get(id)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastSSE
}
