package catalog

import (
	"context"
	"net/url"
	"strconv"
)

// erroredFilter composes the errored-instance filter. The canonical default
// matches what the monitoring agents send: a one hour window of app-driven,
// non-purged errors, optionally narrowed to recoverable ones.
func erroredFilter(args map[string]interface{}) string {
	if raw := stringArg(args, "q"); raw != "" {
		return raw
	}
	clauses := []clause{{key: "timewindow", value: stringArg(args, "duration")}}
	if v, ok := args["recoverable"].(bool); ok {
		clauses = append(clauses, clause{key: "recoverable", value: strconv.FormatBool(v)})
	}
	clauses = append(clauses,
		clause{key: "integration-style", value: stringArg(args, "integrationStyle")},
		clause{key: "includePurged", value: stringArg(args, "includePurged")},
	)
	return composeFilter(clauses)
}

func registerErrorTools(c *Catalog) {
	c.register(&Tool{
		Name:        "monitoringErroredInstances",
		Description: "List errored integration instances for a tenant within a time window",
		Paginated:   true,
		InputSchema: objectSchema([]string{"tenant"}, map[string]*Property{
			"tenant":   tenantProp(),
			"duration": durationProp(),
			"recoverable": {
				Type:        "boolean",
				Description: "Restrict to errors that can (true) or cannot (false) be resubmitted",
			},
			"integrationStyle": {
				Type:        "string",
				Description: "Integration style filter",
				Default:     "appdriven",
			},
			"includePurged": {
				Type:        "string",
				Description: "Whether purged instances are included",
				Enum:        []string{"yes", "no"},
				Default:     "no",
			},
			"q":       qProp(),
			"orderBy": orderByProp(),
			"fields":  fieldsProp(),
		}),
		Handler: func(ctx context.Context, tc *Context, args map[string]interface{}) (interface{}, error) {
			params := passthroughParams(args, "orderBy", "fields")
			return tc.Client.GetPaginated(ctx, tc.Tenant, "errors", params, erroredFilter(args))
		},
	})

	c.register(&Tool{
		Name:        "monitoringErroredInstanceDetails",
		Description: "Get the details of one errored integration instance",
		InputSchema: objectSchema([]string{"tenant", "instanceId"}, map[string]*Property{
			"tenant":     tenantProp(),
			"instanceId": idProp("Errored instance identifier"),
		}),
		Handler: func(ctx context.Context, tc *Context, args map[string]interface{}) (interface{}, error) {
			return tc.Client.GetSingle(ctx, tc.Tenant, "errors/"+url.PathEscape(stringArg(args, "instanceId")), nil)
		},
	})

	c.register(&Tool{
		Name:        "monitoringDiscardErroredInstance",
		Description: "Discard one errored integration instance",
		InputSchema: objectSchema([]string{"tenant", "instanceId"}, map[string]*Property{
			"tenant":     tenantProp(),
			"instanceId": idProp("Errored instance identifier"),
		}),
		Handler: func(ctx context.Context, tc *Context, args map[string]interface{}) (interface{}, error) {
			return tc.Client.Post(ctx, tc.Tenant, "errors/"+url.PathEscape(stringArg(args, "instanceId"))+"/discard", nil, nil)
		},
	})

	c.register(&Tool{
		Name:        "monitoringDiscardErroredInstances",
		Description: "Discard up to 50 errored integration instances in one call",
		InputSchema: objectSchema([]string{"tenant", "instanceIds"}, map[string]*Property{
			"tenant":      tenantProp(),
			"instanceIds": idsProp("Errored instance identifiers to discard"),
		}),
		Handler: func(ctx context.Context, tc *Context, args map[string]interface{}) (interface{}, error) {
			return tc.Client.BulkMutate(ctx, tc.Tenant, "discard", stringSliceArg(args, "instanceIds"), nil)
		},
	})

	c.register(&Tool{
		Name:        "monitoringResubmitErroredInstance",
		Description: "Resubmit one errored integration instance",
		InputSchema: objectSchema([]string{"tenant", "instanceId"}, map[string]*Property{
			"tenant":     tenantProp(),
			"instanceId": idProp("Errored instance identifier"),
			"return":     returnProp(),
		}),
		Handler: func(ctx context.Context, tc *Context, args map[string]interface{}) (interface{}, error) {
			params := passthroughParams(args, "return")
			return tc.Client.Post(ctx, tc.Tenant, "errors/"+url.PathEscape(stringArg(args, "instanceId"))+"/resubmit", params, nil)
		},
	})

	c.register(&Tool{
		Name:        "monitoringResubmitErroredInstances",
		Description: "Resubmit up to 50 errored integration instances in one call",
		InputSchema: objectSchema([]string{"tenant", "instanceIds"}, map[string]*Property{
			"tenant":      tenantProp(),
			"instanceIds": idsProp("Errored instance identifiers to resubmit"),
			"return":      returnProp(),
		}),
		Handler: func(ctx context.Context, tc *Context, args map[string]interface{}) (interface{}, error) {
			params := passthroughParams(args, "return")
			return tc.Client.BulkMutate(ctx, tc.Tenant, "resubmit", stringSliceArg(args, "instanceIds"), params)
		},
	})
}
