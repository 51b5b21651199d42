package catalog

import (
	"context"
	"net/url"
)

func registerInstanceTools(c *Catalog) {
	c.register(&Tool{
		Name:        "monitoringInstances",
		Description: "List integration instances for a tenant within a time window, optionally filtered by status",
		Paginated:   true,
		InputSchema: objectSchema([]string{"tenant"}, map[string]*Property{
			"tenant":   tenantProp(),
			"duration": durationProp(),
			"status":   statusProp("Instance status filter, e.g. COMPLETED, FAILED, IN_PROGRESS, ABORTED"),
			"q":        qProp(),
			"orderBy":  orderByProp(),
			"fields":   fieldsProp(),
		}),
		Handler: func(ctx context.Context, tc *Context, args map[string]interface{}) (interface{}, error) {
			params := passthroughParams(args, "orderBy", "fields")
			return tc.Client.GetPaginated(ctx, tc.Tenant, "instances", params, listFilter(args))
		},
	})

	c.register(&Tool{
		Name:        "monitoringInstanceDetails",
		Description: "Get the full details of one integration instance",
		InputSchema: objectSchema([]string{"tenant", "instanceId"}, map[string]*Property{
			"tenant":     tenantProp(),
			"instanceId": idProp("Instance identifier"),
		}),
		Handler: func(ctx context.Context, tc *Context, args map[string]interface{}) (interface{}, error) {
			return tc.Client.GetSingle(ctx, tc.Tenant, "instances/"+url.PathEscape(stringArg(args, "instanceId")), nil)
		},
	})

	c.register(&Tool{
		Name:        "monitoringInstanceActivityStream",
		Description: "Get the activity stream of one integration instance",
		InputSchema: objectSchema([]string{"tenant", "instanceId"}, map[string]*Property{
			"tenant":     tenantProp(),
			"instanceId": idProp("Instance identifier"),
		}),
		Handler: func(ctx context.Context, tc *Context, args map[string]interface{}) (interface{}, error) {
			return tc.Client.GetSingle(ctx, tc.Tenant, "instances/"+url.PathEscape(stringArg(args, "instanceId"))+"/activityStream", nil)
		},
	})

	c.register(&Tool{
		Name:        "monitoringInstanceActivityStreamDetail",
		Description: "Get one activity stream item of an integration instance by item key",
		InputSchema: objectSchema([]string{"tenant", "instanceId", "itemKey"}, map[string]*Property{
			"tenant":     tenantProp(),
			"instanceId": idProp("Instance identifier"),
			"itemKey":    idProp("Activity stream item key"),
		}),
		Handler: func(ctx context.Context, tc *Context, args map[string]interface{}) (interface{}, error) {
			path := "instances/" + url.PathEscape(stringArg(args, "instanceId")) +
				"/activityStream/" + url.PathEscape(stringArg(args, "itemKey"))
			return tc.Client.GetSingle(ctx, tc.Tenant, path, nil)
		},
	})

	c.register(&Tool{
		Name:        "monitoringInstanceLogs",
		Description: "Get the diagnostic logs of one integration instance as text",
		Text:        true,
		InputSchema: objectSchema([]string{"tenant", "instanceId"}, map[string]*Property{
			"tenant":     tenantProp(),
			"instanceId": idProp("Instance identifier"),
		}),
		Handler: func(ctx context.Context, tc *Context, args map[string]interface{}) (interface{}, error) {
			return tc.Client.GetText(ctx, tc.Tenant, "instances/"+url.PathEscape(stringArg(args, "instanceId"))+"/logs", nil)
		},
	})

	c.register(&Tool{
		Name:        "monitoringAbortInstance",
		Description: "Abort one in-progress integration instance",
		InputSchema: objectSchema([]string{"tenant", "instanceId"}, map[string]*Property{
			"tenant":     tenantProp(),
			"instanceId": idProp("Instance identifier"),
		}),
		Handler: func(ctx context.Context, tc *Context, args map[string]interface{}) (interface{}, error) {
			return tc.Client.Post(ctx, tc.Tenant, "instances/"+url.PathEscape(stringArg(args, "instanceId"))+"/abort", nil, nil)
		},
	})
}
