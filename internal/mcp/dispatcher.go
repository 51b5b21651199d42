package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/nareshsaladi2024/oicagentops/internal/catalog"
	"github.com/nareshsaladi2024/oicagentops/internal/config"
	"github.com/nareshsaladi2024/oicagentops/internal/oic"
)

// Per-call deadlines. Paginated tools may issue hundreds of upstream
// requests, everything else is one or two.
const (
	paginatedDeadline = 120 * time.Second
	defaultDeadline   = 30 * time.Second
)

// Dispatcher routes JSON-RPC methods and executes tool calls. Both wire
// transports share one instance, so dispatch logic exists exactly once.
type Dispatcher struct {
	catalog *catalog.Catalog
	cfg     *config.Config
	tokens  oic.TokenSource
	client  *oic.Client
	info    ServerInfo
	logger  *zap.Logger
}

// NewDispatcher wires the shared dispatcher.
func NewDispatcher(cat *catalog.Catalog, cfg *config.Config, tokens oic.TokenSource, client *oic.Client, info ServerInfo, logger *zap.Logger) *Dispatcher {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Dispatcher{
		catalog: cat,
		cfg:     cfg,
		tokens:  tokens,
		client:  client,
		info:    info,
		logger:  logger,
	}
}

// Handle processes one JSON-RPC message for the given session and returns
// the response object, or nil for notifications. Requests within one
// session are serialized so responses keep request order.
func (d *Dispatcher) Handle(ctx context.Context, sess *Session, req *JSONRPCRequest) interface{} {
	if sess != nil {
		sess.dispatchMu.Lock()
		defer sess.dispatchMu.Unlock()
	}

	switch req.Method {
	case "initialize":
		return d.handleInitialize(sess, req)

	case "notifications/initialized", "notifications/cancelled":
		return nil

	case "ping":
		if req.IsNotification() {
			return nil
		}
		return successResponse(req.ID, map[string]interface{}{})

	case "tools/list":
		return successResponse(req.ID, map[string]interface{}{
			"tools": d.toolDescriptors(),
		})

	case "tools/call":
		return d.handleToolsCall(ctx, req)

	default:
		if req.IsNotification() {
			return nil
		}
		return errorResponse(req.ID, MethodNotFound, fmt.Sprintf("unknown method: %s", req.Method))
	}
}

// handleInitialize negotiates the protocol version from the request itself.
// SSE sessions are created before any initialize arrives, so the version
// chosen at session creation is only a placeholder until this point.
func (d *Dispatcher) handleInitialize(sess *Session, req *JSONRPCRequest) interface{} {
	var params InitializeParams
	if len(req.Params) > 0 {
		if err := json.Unmarshal(req.Params, &params); err != nil {
			return errorResponse(req.ID, InvalidParams, fmt.Sprintf("invalid initialize params: %v", err))
		}
	}

	version := negotiateProtocolVersion(params.ProtocolVersion)
	if sess != nil {
		sess.ProtocolVersion = version
		if params.ClientInfo.Name != "" {
			sess.ClientInfo = params.ClientInfo
		}
	}
	return successResponse(req.ID, InitializeResult{
		ProtocolVersion: version,
		Capabilities: ServerCapabilities{
			Tools: map[string]interface{}{},
		},
		ServerInfo: d.info,
	})
}

func (d *Dispatcher) toolDescriptors() []ToolDescriptor {
	tools := d.catalog.List()
	out := make([]ToolDescriptor, 0, len(tools))
	for _, t := range tools {
		out = append(out, ToolDescriptor{
			Name:        t.Name,
			Description: t.Description,
			InputSchema: t.InputSchema,
		})
	}
	return out
}

func (d *Dispatcher) handleToolsCall(ctx context.Context, req *JSONRPCRequest) interface{} {
	var params ToolsCallParams
	if err := json.Unmarshal(req.Params, &params); err != nil {
		return errorResponse(req.ID, InvalidParams, fmt.Sprintf("invalid tools/call params: %v", err))
	}
	return successResponse(req.ID, d.callTool(ctx, &params))
}

// callTool executes one tool invocation. Every failure past this point is a
// tool-level failure: a successful JSON-RPC response whose content carries
// isError=true.
func (d *Dispatcher) callTool(ctx context.Context, params *ToolsCallParams) *CallToolResult {
	tool, ok := d.catalog.Get(params.Name)
	if !ok {
		observeToolCall(params.Name, "unknown_tool")
		return errorResult(fmt.Sprintf("unknown tool: %s", params.Name))
	}

	args, err := tool.InputSchema.Validate(params.Arguments)
	if err != nil {
		observeToolCall(tool.Name, "invalid_arguments")
		return errorResult(err.Error())
	}

	tenantName, _ := args["tenant"].(string)
	tenant, err := d.cfg.Tenant(tenantName)
	if err != nil {
		observeToolCall(tool.Name, "tenant_error")
		return errorResult(err.Error())
	}

	deadline := defaultDeadline
	if tool.Paginated {
		deadline = paginatedDeadline
	}
	callCtx, cancel := context.WithTimeout(ctx, deadline)
	defer cancel()

	// Acquire up front so handlers never see a cold cache; the client's
	// per-request lookups then hit the cached token.
	if _, err := d.tokens.Token(callCtx, tenant); err != nil {
		observeToolCall(tool.Name, "auth_error")
		return errorResult(err.Error())
	}

	start := time.Now()
	result, err := tool.Handler(callCtx, &catalog.Context{
		Tenant: tenant,
		Client: d.client,
		Logger: d.logger,
	}, args)
	if err != nil {
		observeToolCall(tool.Name, "error")
		d.logger.Warn("tool call failed",
			zap.String("tool", tool.Name),
			zap.String("tenant", tenant.Name),
			zap.Duration("duration", time.Since(start)),
			zap.Error(err))
		return errorResult(renderToolError(tool.Name, err))
	}

	observeToolCall(tool.Name, "success")
	d.logger.Info("tool call completed",
		zap.String("tool", tool.Name),
		zap.String("tenant", tenant.Name),
		zap.Duration("duration", time.Since(start)))

	if tool.Text {
		if text, ok := result.(string); ok {
			return textResult(text)
		}
	}
	payload, merr := json.MarshalIndent(result, "", "  ")
	if merr != nil {
		return errorResult(fmt.Sprintf("failed to encode result: %v", merr))
	}
	return textResult(string(payload))
}

// renderToolError maps a classified failure to its user-visible text.
// Authentication, permission, not-found, transport, and cancellation kinds
// already carry their canonical wording; remaining upstream failures are
// prefixed with the tool name.
func renderToolError(tool string, err error) string {
	var oe *oic.Error
	if errors.As(err, &oe) && oe.Kind == oic.KindUpstream {
		return fmt.Sprintf("Error executing %s: %s", tool, oe.Error())
	}
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return "request cancelled"
	}
	return err.Error()
}
