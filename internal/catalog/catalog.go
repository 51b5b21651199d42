// Package catalog declares the fixed set of MCP tools the gateway exposes
// and their handlers. The catalog is constructed once at startup and is
// immutable afterwards.
package catalog

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/nareshsaladi2024/oicagentops/internal/config"
	"github.com/nareshsaladi2024/oicagentops/internal/oic"
)

// Context carries everything a handler may touch: the resolved tenant
// snapshot and the upstream client primitives. Handlers never acquire or
// retry tokens themselves; the client owns those concerns.
type Context struct {
	Tenant config.Tenant
	Client *oic.Client
	Logger *zap.Logger
}

// Handler executes one tool call with schema-validated arguments.
type Handler func(ctx context.Context, tc *Context, args map[string]interface{}) (interface{}, error)

// Tool is one declarative binding: name, description, input schema, handler.
type Tool struct {
	Name        string
	Description string
	InputSchema Schema
	// Paginated tools get the long (120s) per-call deadline.
	Paginated bool
	// Text marks tools whose result is already plain text (instance logs).
	Text    bool
	Handler Handler
}

// Catalog is the registry of tool definitions, preserving registration order
// for stable tools/list output.
type Catalog struct {
	tools map[string]*Tool
	order []*Tool
}

// New builds the full catalog.
func New() *Catalog {
	c := &Catalog{tools: make(map[string]*Tool)}
	registerInstanceTools(c)
	registerIntegrationTools(c)
	registerAgentTools(c)
	registerErrorTools(c)
	registerMonitorTools(c)
	return c
}

func (c *Catalog) register(t *Tool) {
	if _, exists := c.tools[t.Name]; exists {
		panic(fmt.Sprintf("duplicate tool name: %s", t.Name))
	}
	c.tools[t.Name] = t
	c.order = append(c.order, t)
}

// Get resolves a tool by exact name.
func (c *Catalog) Get(name string) (*Tool, bool) {
	t, ok := c.tools[name]
	return t, ok
}

// List returns all tools in registration order.
func (c *Catalog) List() []*Tool {
	return c.order
}

// Len returns the number of registered tools.
func (c *Catalog) Len() int {
	return len(c.order)
}
