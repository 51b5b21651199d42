package catalog

import "net/url"

// stringArg returns the named string argument, or "" when absent.
func stringArg(args map[string]interface{}, name string) string {
	v, _ := args[name].(string)
	return v
}

// stringSliceArg converts a validated array argument to []string.
func stringSliceArg(args map[string]interface{}, name string) []string {
	raw, _ := args[name].([]interface{})
	out := make([]string, 0, len(raw))
	for _, item := range raw {
		if s, ok := item.(string); ok {
			out = append(out, s)
		}
	}
	return out
}

// passthroughParams copies the named arguments, when present, into upstream
// query parameters under the same names.
func passthroughParams(args map[string]interface{}, names ...string) url.Values {
	params := url.Values{}
	for _, name := range names {
		if v := stringArg(args, name); v != "" {
			params.Set(name, v)
		}
	}
	return params
}
