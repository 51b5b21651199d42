package catalog

import "strings"

// durations accepted by list tools; mapped verbatim to the upstream's
// timewindow clause.
var durations = []string{"1h", "6h", "1d", "2d", "3d", "1w", "1M"}

// clause is one key:'value' pair of the upstream's brace-delimited filter
// expression.
type clause struct {
	key   string
	value string
}

// composeFilter renders clauses into the upstream q syntax, e.g.
// {timewindow:'1h', status:'FAILED'}. Empty values are skipped; an empty
// clause set yields an empty filter.
func composeFilter(clauses []clause) string {
	parts := make([]string, 0, len(clauses))
	for _, c := range clauses {
		if c.value == "" {
			continue
		}
		parts = append(parts, c.key+":'"+c.value+"'")
	}
	if len(parts) == 0 {
		return ""
	}
	return "{" + strings.Join(parts, ", ") + "}"
}

// listFilter builds the filter for a listing tool from its high-level
// arguments. A caller-supplied raw q expression wins verbatim; otherwise the
// duration and status arguments (plus any extra fixed clauses) compose one.
func listFilter(args map[string]interface{}, extra ...clause) string {
	if raw := stringArg(args, "q"); raw != "" {
		return raw
	}
	clauses := []clause{{key: "timewindow", value: stringArg(args, "duration")}}
	if status := stringArg(args, "status"); status != "" {
		clauses = append(clauses, clause{key: "status", value: status})
	}
	clauses = append(clauses, extra...)
	return composeFilter(clauses)
}
