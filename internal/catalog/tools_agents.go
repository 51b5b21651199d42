package catalog

import (
	"context"
	"net/url"
)

func registerAgentTools(c *Catalog) {
	c.register(&Tool{
		Name:        "monitoringAgentGroups",
		Description: "List connectivity agent groups for a tenant",
		Paginated:   true,
		InputSchema: objectSchema([]string{"tenant"}, map[string]*Property{
			"tenant":  tenantProp(),
			"q":       qProp(),
			"orderBy": orderByProp(),
		}),
		Handler: func(ctx context.Context, tc *Context, args map[string]interface{}) (interface{}, error) {
			params := passthroughParams(args, "orderBy")
			return tc.Client.GetPaginated(ctx, tc.Tenant, "agentgroups", params, stringArg(args, "q"))
		},
	})

	c.register(&Tool{
		Name:        "monitoringAgentGroupDetails",
		Description: "Get the details of one connectivity agent group",
		InputSchema: objectSchema([]string{"tenant", "agentGroupId"}, map[string]*Property{
			"tenant":       tenantProp(),
			"agentGroupId": idProp("Agent group identifier"),
		}),
		Handler: func(ctx context.Context, tc *Context, args map[string]interface{}) (interface{}, error) {
			return tc.Client.GetSingle(ctx, tc.Tenant, "agentgroups/"+url.PathEscape(stringArg(args, "agentGroupId")), nil)
		},
	})

	c.register(&Tool{
		Name:        "monitoringAgentsInGroup",
		Description: "List the agents registered in one connectivity agent group",
		Paginated:   true,
		InputSchema: objectSchema([]string{"tenant", "agentGroupId"}, map[string]*Property{
			"tenant":       tenantProp(),
			"agentGroupId": idProp("Agent group identifier"),
			"q":            qProp(),
		}),
		Handler: func(ctx context.Context, tc *Context, args map[string]interface{}) (interface{}, error) {
			path := "agentgroups/" + url.PathEscape(stringArg(args, "agentGroupId")) + "/agents"
			return tc.Client.GetPaginated(ctx, tc.Tenant, path, nil, stringArg(args, "q"))
		},
	})

	c.register(&Tool{
		Name:        "monitoringAgentDetails",
		Description: "Get the details of one connectivity agent",
		InputSchema: objectSchema([]string{"tenant", "agentId"}, map[string]*Property{
			"tenant":  tenantProp(),
			"agentId": idProp("Agent identifier"),
		}),
		Handler: func(ctx context.Context, tc *Context, args map[string]interface{}) (interface{}, error) {
			return tc.Client.GetSingle(ctx, tc.Tenant, "agents/"+url.PathEscape(stringArg(args, "agentId")), nil)
		},
	})
}
