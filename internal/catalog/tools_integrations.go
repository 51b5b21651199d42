package catalog

import (
	"context"
	"net/url"
)

func registerIntegrationTools(c *Catalog) {
	c.register(&Tool{
		Name:        "monitoringIntegrations",
		Description: "List integrations visible to monitoring for a tenant",
		Paginated:   true,
		InputSchema: objectSchema([]string{"tenant"}, map[string]*Property{
			"tenant":   tenantProp(),
			"duration": durationProp(),
			"status":   statusProp("Integration status filter, e.g. ACTIVATED"),
			"q":        qProp(),
			"orderBy":  orderByProp(),
		}),
		Handler: func(ctx context.Context, tc *Context, args map[string]interface{}) (interface{}, error) {
			params := passthroughParams(args, "orderBy")
			return tc.Client.GetPaginated(ctx, tc.Tenant, "integrations", params, listFilter(args))
		},
	})

	c.register(&Tool{
		Name:        "monitoringIntegrationDetails",
		Description: "Get monitoring details of one integration by its composite identifier (CODE|VERSION)",
		InputSchema: objectSchema([]string{"tenant", "integrationId"}, map[string]*Property{
			"tenant":        tenantProp(),
			"integrationId": idProp("Integration identifier in CODE|VERSION form"),
		}),
		Handler: func(ctx context.Context, tc *Context, args map[string]interface{}) (interface{}, error) {
			return tc.Client.GetSingle(ctx, tc.Tenant, "integrations/"+url.PathEscape(stringArg(args, "integrationId")), nil)
		},
	})

	c.register(&Tool{
		Name:        "monitoringIntegrationMessageCounts",
		Description: "Get the received/processed/errored message count summary of one integration",
		InputSchema: objectSchema([]string{"tenant", "integrationId"}, map[string]*Property{
			"tenant":        tenantProp(),
			"integrationId": idProp("Integration identifier in CODE|VERSION form"),
			"duration":      durationProp(),
		}),
		Handler: func(ctx context.Context, tc *Context, args map[string]interface{}) (interface{}, error) {
			params := url.Values{}
			if filter := listFilter(args); filter != "" {
				params.Set("q", filter)
			}
			return tc.Client.GetSingle(ctx, tc.Tenant, "integrations/"+url.PathEscape(stringArg(args, "integrationId"))+"/messageCounts", params)
		},
	})

	c.register(&Tool{
		Name:        "monitoringIntegrationHistory",
		Description: "List the activation and configuration history of one integration",
		Paginated:   true,
		InputSchema: objectSchema([]string{"tenant", "integrationId"}, map[string]*Property{
			"tenant":        tenantProp(),
			"integrationId": idProp("Integration identifier in CODE|VERSION form"),
			"duration":      durationProp(),
			"q":             qProp(),
		}),
		Handler: func(ctx context.Context, tc *Context, args map[string]interface{}) (interface{}, error) {
			path := "integrations/" + url.PathEscape(stringArg(args, "integrationId")) + "/history"
			return tc.Client.GetPaginated(ctx, tc.Tenant, path, nil, listFilter(args))
		},
	})
}
