// Package mcp implements the Model Context Protocol session layer over HTTP.
//
// Two wire transports share one JSON-RPC dispatcher: the legacy event-stream
// pair (GET /sse + POST /messages) and the bidirectional streaming endpoint
// (/stream with GET, POST, DELETE). Only the tools capability is advertised.
package mcp

import "encoding/json"

// JSONRPCRequest is a JSON-RPC 2.0 request.
type JSONRPCRequest struct {
	JSONRPC string          `json:"jsonrpc"`
	ID      interface{}     `json:"id,omitempty"`
	Method  string          `json:"method"`
	Params  json.RawMessage `json:"params,omitempty"`
}

// IsNotification reports whether the request carries no id and therefore
// expects no response.
func (r *JSONRPCRequest) IsNotification() bool {
	return r.ID == nil
}

// JSONRPCResponse is a successful JSON-RPC 2.0 response.
type JSONRPCResponse struct {
	JSONRPC string      `json:"jsonrpc"`
	ID      interface{} `json:"id"`
	Result  interface{} `json:"result"`
}

// JSONRPCError is an error JSON-RPC 2.0 response.
type JSONRPCError struct {
	JSONRPC string       `json:"jsonrpc"`
	ID      interface{}  `json:"id"`
	Error   *ErrorDetail `json:"error"`
}

// ErrorDetail carries the JSON-RPC error object.
type ErrorDetail struct {
	Code    int         `json:"code"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

// JSON-RPC 2.0 standard error codes.
const (
	ParseError     = -32700
	InvalidRequest = -32600
	MethodNotFound = -32601
	InvalidParams  = -32602
	InternalError  = -32603
)

// SessionRequired is returned when a method needing a session arrives
// without a valid Mcp-Session-Id.
const SessionRequired = -32000

func successResponse(id, result interface{}) *JSONRPCResponse {
	return &JSONRPCResponse{JSONRPC: "2.0", ID: id, Result: result}
}

func errorResponse(id interface{}, code int, message string) *JSONRPCError {
	return &JSONRPCError{
		JSONRPC: "2.0",
		ID:      id,
		Error:   &ErrorDetail{Code: code, Message: message},
	}
}

// ClientInfo identifies the connected MCP client.
type ClientInfo struct {
	Name    string `json:"name"`
	Version string `json:"version"`
}

// InitializeParams are the parameters of the initialize method.
type InitializeParams struct {
	ProtocolVersion string                 `json:"protocolVersion"`
	Capabilities    map[string]interface{} `json:"capabilities"`
	ClientInfo      ClientInfo             `json:"clientInfo"`
}

// InitializeResult is the result of the initialize method.
type InitializeResult struct {
	ProtocolVersion string             `json:"protocolVersion"`
	Capabilities    ServerCapabilities `json:"capabilities"`
	ServerInfo      ServerInfo         `json:"serverInfo"`
}

// ServerCapabilities advertises what the server supports. Only tools.
type ServerCapabilities struct {
	Tools map[string]interface{} `json:"tools"`
}

// ServerInfo identifies this server.
type ServerInfo struct {
	Name    string `json:"name"`
	Version string `json:"version"`
}

// ToolsCallParams are the parameters of the tools/call method.
type ToolsCallParams struct {
	Name      string                 `json:"name"`
	Arguments map[string]interface{} `json:"arguments"`
}

// ToolDescriptor is one tools/list catalog entry.
type ToolDescriptor struct {
	Name        string      `json:"name"`
	Description string      `json:"description"`
	InputSchema interface{} `json:"inputSchema"`
}

// ToolContent is one MCP content block.
type ToolContent struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

// CallToolResult is the MCP envelope for a tools/call outcome. Tool-level
// failures are successful JSON-RPC responses with IsError set.
type CallToolResult struct {
	Content []ToolContent `json:"content"`
	IsError bool          `json:"isError,omitempty"`
}

func textResult(text string) *CallToolResult {
	return &CallToolResult{Content: []ToolContent{{Type: "text", Text: text}}}
}

func errorResult(text string) *CallToolResult {
	return &CallToolResult{
		Content: []ToolContent{{Type: "text", Text: text}},
		IsError: true,
	}
}

// supportedProtocolVersions in preference order.
var supportedProtocolVersions = []string{"2025-03-26", "2024-11-05"}

// negotiateProtocolVersion returns the requested version when supported,
// else the server's preferred version.
func negotiateProtocolVersion(requested string) string {
	for _, v := range supportedProtocolVersions {
		if requested == v {
			return v
		}
	}
	return supportedProtocolVersions[0]
}
