package oic

import (
	"context"
	"net/url"

	"go.uber.org/zap"

	"github.com/nareshsaladi2024/oicagentops/internal/config"
)

// MaxBulkIDs is the largest id array a bulk mutation accepts.
const MaxBulkIDs = 50

// BulkResult aggregates the outcome of a bulk fan-out. Details preserve the
// caller's id order.
type BulkResult struct {
	TotalRequested int          `json:"totalRequested"`
	SuccessCount   int          `json:"successCount"`
	FailedCount    int          `json:"failedCount"`
	RecoveryJobIDs []string     `json:"recoveryJobIds"`
	Details        []BulkDetail `json:"details"`
}

// BulkDetail is the per-id outcome of a bulk fan-out.
type BulkDetail struct {
	ID      string `json:"id"`
	JobID   string `json:"jobId,omitempty"`
	Success bool   `json:"success"`
	Error   string `json:"error,omitempty"`
}

// BulkMutate POSTs one mutation per id, sequentially, and aggregates the
// outcomes. Individual failures are captured per id; only token acquisition
// failure aborts the fan-out, since no further POST could succeed either.
//
// action is the trailing path segment of the per-id endpoint, e.g.
// "resubmit" for errors/{id}/resubmit.
func (c *Client) BulkMutate(ctx context.Context, tenant config.Tenant, action string, ids []string, params url.Values) (*BulkResult, error) {
	result := &BulkResult{
		TotalRequested: len(ids),
		RecoveryJobIDs: []string{},
		Details:        make([]BulkDetail, 0, len(ids)),
	}

	for _, id := range ids {
		detail := BulkDetail{ID: id}

		resp, err := c.Post(ctx, tenant, "errors/"+url.PathEscape(id)+"/"+action, params, nil)
		if err != nil {
			detail.Error = err.Error()
			result.FailedCount++
			result.Details = append(result.Details, detail)
			c.logger.Warn("bulk mutation failed",
				zap.String("tenant", tenant.Name),
				zap.String("action", action),
				zap.String("id", id),
				zap.Error(err))
			continue
		}

		detail.Success = true
		if obj, ok := resp.(map[string]interface{}); ok {
			if flag, present := obj["resubmitSuccessful"].(bool); present && !flag {
				detail.Success = false
				detail.Error = "upstream reported resubmit not successful"
			}
			if jobID, ok := obj["recoveryJobId"].(string); ok && jobID != "" {
				detail.JobID = jobID
			}
		}

		if detail.Success {
			result.SuccessCount++
			if detail.JobID != "" {
				result.RecoveryJobIDs = append(result.RecoveryJobIDs, detail.JobID)
			}
		} else {
			result.FailedCount++
		}
		result.Details = append(result.Details, detail)
	}

	return result, nil
}
