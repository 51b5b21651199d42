package mcp

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

// sessionHeader carries the opaque session id on Transport B, both ways.
const sessionHeader = "Mcp-Session-Id"

// handleStreamPost serves POST /stream.
//
// An initialize request creates the session and returns its id in the
// Mcp-Session-Id response header. Every other request must present the
// header. Responses are inlined as application/json; server-initiated
// notifications travel over the GET channel instead.
func (s *Server) handleStreamPost(c echo.Context) error {
	var req JSONRPCRequest
	if err := json.NewDecoder(c.Request().Body).Decode(&req); err != nil {
		return c.JSON(http.StatusBadRequest,
			errorResponse(nil, ParseError, fmt.Sprintf("malformed JSON-RPC request: %v", err)))
	}

	var sess *Session
	if req.Method == "initialize" {
		var params InitializeParams
		if len(req.Params) > 0 {
			if err := json.Unmarshal(req.Params, &params); err != nil {
				return c.JSON(http.StatusBadRequest,
					errorResponse(req.ID, InvalidParams, fmt.Sprintf("invalid initialize params: %v", err)))
			}
		}
		sess = s.sessions.Create(params)
		c.Response().Header().Set(sessionHeader, sess.ID)
		s.logger.Info("stream session initialized",
			zap.String("session_id", sess.ID),
			zap.String("client", params.ClientInfo.Name))
	} else {
		sess = s.sessions.Get(c.Request().Header.Get(sessionHeader))
		if sess == nil {
			return c.JSON(http.StatusBadRequest,
				errorResponse(req.ID, SessionRequired, "valid Mcp-Session-Id header required"))
		}
		c.Response().Header().Set(sessionHeader, sess.ID)
	}

	resp := s.dispatcher.Handle(c.Request().Context(), sess, &req)
	if resp == nil {
		return c.NoContent(http.StatusAccepted)
	}
	return c.JSON(http.StatusOK, resp)
}

// handleStreamGet serves GET /stream: a push channel for server-initiated
// notifications on an existing session.
func (s *Server) handleStreamGet(c echo.Context) error {
	sess := s.sessions.Get(c.Request().Header.Get(sessionHeader))
	if sess == nil {
		return c.JSON(http.StatusBadRequest,
			errorResponse(nil, SessionRequired, "valid Mcp-Session-Id header required"))
	}

	h := c.Response().Header()
	h.Set(echo.HeaderContentType, "text/event-stream")
	h.Set("Cache-Control", "no-cache")
	h.Set("Connection", "keep-alive")
	h.Set("X-Accel-Buffering", "no")
	h.Set(sessionHeader, sess.ID)
	c.Response().WriteHeader(http.StatusOK)

	ticker := time.NewTicker(heartbeatInterval)
	defer ticker.Stop()

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

// handleStreamDelete serves DELETE /stream: explicit session termination.
func (s *Server) handleStreamDelete(c echo.Context) error {
	id := c.Request().Header.Get(sessionHeader)
	if id == "" {
		return c.JSON(http.StatusBadRequest,
			errorResponse(nil, SessionRequired, "valid Mcp-Session-Id header required"))
	}
	s.sessions.Delete(id)
	s.logger.Info("stream session deleted", zap.String("session_id", id))
	return c.NoContent(http.StatusNoContent)
}
