package oic

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"
	"regexp"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/nareshsaladi2024/oicagentops/internal/config"
)

const (
	// pageLimit is the canonical page size for listing endpoints.
	pageLimit = 50
	// maxOffset is the upstream's paging-window cap: it refuses pages with a
	// cumulative offset beyond this value for a single filter expression.
	maxOffset = 500
	// maxBatches bounds the date-keyed batch loop.
	maxBatches = 100
)

// recordDateFields are the timestamp keys tried, in order, on the final item
// of a full window to advance the paging window.
var recordDateFields = []string{
	"creation-date",
	"creationDate",
	"last-tracked-time",
	"lastTrackedTime",
	"date",
}

// Page is the aggregate result of a paginated retrieval.
type Page struct {
	Total     int                      `json:"total"`
	Retrieved int                      `json:"retrieved"`
	Items     []map[string]interface{} `json:"items"`
}

// listResponse is the upstream listing envelope. TotalRecordsCount is a
// pointer so "absent" and "zero" stay distinguishable.
type listResponse struct {
	Items             []map[string]interface{} `json:"items"`
	TotalRecordsCount *int                     `json:"totalRecordsCount"`
}

// GetPaginated retrieves a listing to completion.
//
// The upstream caps the offset window at 500 per filter expression, so
// retrieval proceeds in date-keyed batches: page through the window with
// limit/offset, and when the window is exhausted while items keep coming,
// rewrite the filter's startdate clause from the last item's record date and
// start a fresh window. The reported total is the first totalRecordsCount
// the upstream supplied, or the accumulator size if it never supplied one.
func (c *Client) GetPaginated(ctx context.Context, tenant config.Tenant, path string, params url.Values, filter string) (*Page, error) {
	page := &Page{Items: []map[string]interface{}{}}
	totalSeen := false

	for batch := 0; batch < maxBatches; batch++ {
		offset := 0
		for {
			q := url.Values{}
			for k, vs := range params {
				for _, v := range vs {
					q.Add(k, v)
				}
			}
			q.Set("limit", strconv.Itoa(pageLimit))
			q.Set("offset", strconv.Itoa(offset))
			if filter != "" {
				q.Set("q", filter)
			}

			status, body, err := c.doWithRetry(ctx, tenant, http.MethodGet, path, q, nil, "application/json")
			if err != nil {
				return nil, err
			}
			if status < 200 || status > 299 {
				return nil, classifyStatus(status, string(body))
			}

			var resp listResponse
			if err := json.Unmarshal(body, &resp); err != nil {
				return nil, &Error{Kind: KindTransport, Cause: err}
			}

			page.Items = append(page.Items, resp.Items...)
			if resp.TotalRecordsCount != nil && !totalSeen {
				page.Total = *resp.TotalRecordsCount
				totalSeen = true
			}

			c.logger.Debug("retrieved page",
				zap.String("path", path),
				zap.Int("batch", batch),
				zap.Int("offset", offset),
				zap.Int("items", len(resp.Items)),
				zap.Int("accumulated", len(page.Items)))

			if len(resp.Items) < pageLimit {
				// End of data within this window.
				page.Retrieved = len(page.Items)
				if !totalSeen {
					page.Total = page.Retrieved
				}
				return page, nil
			}

			offset += pageLimit
			if offset > maxOffset {
				// Window cap reached on a full page: advance by record date.
				date, ok := recordDate(resp.Items[len(resp.Items)-1])
				if !ok {
					page.Retrieved = len(page.Items)
					if !totalSeen {
						page.Total = page.Retrieved
					}
					return page, nil
				}
				filter = rewriteStartDate(filter, date)
				break
			}
		}
	}

	c.logger.Warn("pagination terminated at batch bound",
		zap.String("path", path),
		zap.Int("batches", maxBatches),
		zap.Int("accumulated", len(page.Items)))
	page.Retrieved = len(page.Items)
	page.Total = page.Retrieved
	return page, nil
}

// recordDate extracts the window-advancing timestamp from an item.
func recordDate(item map[string]interface{}) (string, bool) {
	for _, key := range recordDateFields {
		if v, ok := item[key].(string); ok && v != "" {
			return v, true
		}
	}
	return "", false
}

var startDateClause = regexp.MustCompile(`startdate:'[^']*'`)

// rewriteStartDate replaces or inserts the startdate clause in a
// brace-delimited filter expression. A filter that is not brace-delimited is
// replaced outright so the window still advances.
func rewriteStartDate(filter, date string) string {
	clause := "startdate:'" + date + "'"
	if filter == "" {
		return "{" + clause + "}"
	}
	if startDateClause.MatchString(filter) {
		return startDateClause.ReplaceAllString(filter, clause)
	}
	trimmed := strings.TrimSpace(filter)
	if strings.HasSuffix(trimmed, "}") {
		return trimmed[:len(trimmed)-1] + ", " + clause + "}"
	}
	return "{" + clause + "}"
}
