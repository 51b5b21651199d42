package mcp

import (
	"context"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/nareshsaladi2024/oicagentops/internal/catalog"
	"github.com/nareshsaladi2024/oicagentops/internal/config"
	"github.com/nareshsaladi2024/oicagentops/internal/oic"
)

// ServerName is the identity advertised in initialize responses.
const ServerName = "oic-monitor-mcp"

// Server hosts both MCP wire transports plus the operational endpoints on a
// single echo listener.
type Server struct {
	echo       *echo.Echo
	cfg        *config.Config
	sessions   *SessionStore
	dispatcher *Dispatcher
	catalog    *catalog.Catalog
	logger     *zap.Logger
	version    string

	mu      sync.Mutex
	lastSSE *Session
}

// NewServer wires routes and middleware.
func NewServer(cfg *config.Config, cat *catalog.Catalog, tokens oic.TokenSource, client *oic.Client, version string, logger *zap.Logger) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Use(middleware.Recover())
	e.Use(middleware.RequestID())
	e.Use(requestLogger(logger))

	s := &Server{
		echo:     e,
		cfg:      cfg,
		sessions: NewSessionStore(),
		catalog:  cat,
		logger:   logger,
		version:  version,
	}
	s.dispatcher = NewDispatcher(cat, cfg, tokens, client,
		ServerInfo{Name: ServerName, Version: version}, logger)

	// Transport A: event-stream push.
	e.GET("/sse", s.handleSSEOpen)
	e.POST("/messages", s.handleSSEMessage)

	// Transport B: bidirectional streaming.
	e.GET("/stream", s.handleStreamGet)
	e.POST("/stream", s.handleStreamPost)
	e.DELETE("/stream", s.handleStreamDelete)

	// Operational surface.
	e.GET("/health", s.handleHealth)
	e.GET("/", s.handleRoot)
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))

	return s
}

// requestLogger logs one line per HTTP request.
func requestLogger(logger *zap.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()
			err := next(c)

			logger.Info("http request",
				zap.String("method", c.Request().Method),
				zap.String("uri", c.Request().RequestURI),
				zap.Int("status", c.Response().Status),
				zap.Duration("duration", time.Since(start)),
				zap.String("request_id", c.Response().Header().Get(echo.HeaderXRequestID)),
			)
			return err
		}
	}
}

// Start begins serving on the configured port and blocks until shutdown.
func (s *Server) Start() error {
	return s.echo.Start(fmt.Sprintf(":%d", s.cfg.Port))
}

// Shutdown stops accepting connections and drains outstanding requests
// within the context deadline, then retires every live session.
func (s *Server) Shutdown(ctx context.Context) error {
	err := s.echo.Shutdown(ctx)
	s.sessions.Range(func(sess *Session) bool {
		s.sessions.Delete(sess.ID)
		return true
	})
	return err
}

// Handler exposes the routing tree for tests.
func (s *Server) Handler() http.Handler {
	return s.echo
}

type healthResponse struct {
	Status    string `json:"status"`
	Version   string `json:"version"`
	Timestamp string `json:"timestamp"`
}

func (s *Server) handleHealth(c echo.Context) error {
	return c.JSON(http.StatusOK, healthResponse{
		Status:    "healthy",
		Version:   s.version,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	})
}

// handleRoot returns the server identity and a tool catalog summary.
func (s *Server) handleRoot(c echo.Context) error {
	tools := s.catalog.List()
	names := make([]string, 0, len(tools))
	for _, t := range tools {
		names = append(names, t.Name)
	}
	return c.JSON(http.StatusOK, map[string]interface{}{
		"name":      ServerName,
		"version":   s.version,
		"transport": []string{"/sse", "/stream"},
		"toolCount": len(names),
		"tools":     names,
	})
}
