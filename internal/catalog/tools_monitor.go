package catalog

import (
	"context"
	"net/url"
)

func registerMonitorTools(c *Catalog) {
	c.register(&Tool{
		Name:        "monitoringErrorRecoveryJobs",
		Description: "List error recovery jobs started by resubmit operations",
		Paginated:   true,
		InputSchema: objectSchema([]string{"tenant"}, map[string]*Property{
			"tenant":   tenantProp(),
			"duration": durationProp(),
			"status":   statusProp("Recovery job status filter, e.g. COMPLETED, INPROGRESS, FAILED"),
			"q":        qProp(),
		}),
		Handler: func(ctx context.Context, tc *Context, args map[string]interface{}) (interface{}, error) {
			return tc.Client.GetPaginated(ctx, tc.Tenant, "errorRecoveryJobs", nil, listFilter(args))
		},
	})

	c.register(&Tool{
		Name:        "monitoringErrorRecoveryJobDetails",
		Description: "Get the status and details of one error recovery job",
		InputSchema: objectSchema([]string{"tenant", "jobId"}, map[string]*Property{
			"tenant": tenantProp(),
			"jobId":  idProp("Recovery job identifier returned by a resubmit call"),
		}),
		Handler: func(ctx context.Context, tc *Context, args map[string]interface{}) (interface{}, error) {
			return tc.Client.GetSingle(ctx, tc.Tenant, "errorRecoveryJobs/"+url.PathEscape(stringArg(args, "jobId")), nil)
		},
	})

	c.register(&Tool{
		Name:        "monitoringAuditRecords",
		Description: "List monitoring audit records for a tenant",
		Paginated:   true,
		InputSchema: objectSchema([]string{"tenant"}, map[string]*Property{
			"tenant":   tenantProp(),
			"duration": durationProp(),
			"q":        qProp(),
		}),
		Handler: func(ctx context.Context, tc *Context, args map[string]interface{}) (interface{}, error) {
			return tc.Client.GetPaginated(ctx, tc.Tenant, "auditRecords", nil, listFilter(args))
		},
	})

	c.register(&Tool{
		Name:        "monitoringScheduledRuns",
		Description: "List past and future scheduled runs for a tenant",
		Paginated:   true,
		InputSchema: objectSchema([]string{"tenant"}, map[string]*Property{
			"tenant":   tenantProp(),
			"duration": durationProp(),
			"q":        qProp(),
		}),
		Handler: func(ctx context.Context, tc *Context, args map[string]interface{}) (interface{}, error) {
			return tc.Client.GetPaginated(ctx, tc.Tenant, "scheduledRuns", nil, listFilter(args))
		},
	})
}
