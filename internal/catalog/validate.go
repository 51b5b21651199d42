package catalog

import (
	"fmt"
	"math"
	"strings"
)

// ValidationError reports an argument object that violates a tool's schema.
// Field names the offending parameter.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return "invalid arguments: " + e.Reason
}

func invalidArg(field, format string, a ...interface{}) *ValidationError {
	return &ValidationError{Field: field, Reason: fmt.Sprintf(format, a...)}
}

// Validate checks args against the schema and returns a normalized copy:
// defaults applied, integers coerced from JSON numbers, unknown properties
// silently dropped.
func (s Schema) Validate(args map[string]interface{}) (map[string]interface{}, error) {
	if args == nil {
		args = map[string]interface{}{}
	}

	for _, name := range s.Required {
		if _, ok := args[name]; !ok {
			return nil, invalidArg(name, "missing required parameter %q", name)
		}
	}

	out := make(map[string]interface{}, len(s.Properties))
	for name, prop := range s.Properties {
		raw, ok := args[name]
		if !ok {
			if prop.Default != nil {
				out[name] = prop.Default
			}
			continue
		}
		normalized, err := prop.check(name, raw)
		if err != nil {
			return nil, err
		}
		out[name] = normalized
	}
	return out, nil
}

func (p *Property) check(name string, raw interface{}) (interface{}, error) {
	switch p.Type {
	case "string":
		v, ok := raw.(string)
		if !ok {
			return nil, invalidArg(name, "parameter %q must be a string", name)
		}
		if len(p.Enum) > 0 && !contains(p.Enum, v) {
			return nil, invalidArg(name, "parameter %q must be one of [%s], got %q", name, strings.Join(p.Enum, ", "), v)
		}
		return v, nil

	case "integer":
		f, ok := asNumber(raw)
		if !ok || f != math.Trunc(f) {
			return nil, invalidArg(name, "parameter %q must be an integer", name)
		}
		if err := p.checkBounds(name, f); err != nil {
			return nil, err
		}
		return int(f), nil

	case "number":
		f, ok := asNumber(raw)
		if !ok {
			return nil, invalidArg(name, "parameter %q must be a number", name)
		}
		if err := p.checkBounds(name, f); err != nil {
			return nil, err
		}
		return f, nil

	case "boolean":
		v, ok := raw.(bool)
		if !ok {
			return nil, invalidArg(name, "parameter %q must be a boolean", name)
		}
		return v, nil

	case "array":
		items, ok := raw.([]interface{})
		if !ok {
			return nil, invalidArg(name, "parameter %q must be an array", name)
		}
		if p.MinItems > 0 && len(items) < p.MinItems {
			return nil, invalidArg(name, "parameter %q must contain at least %d item(s)", name, p.MinItems)
		}
		if p.MaxItems > 0 && len(items) > p.MaxItems {
			return nil, invalidArg(name, "parameter %q must contain at most %d item(s)", name, p.MaxItems)
		}
		if p.Items != nil {
			for i, item := range items {
				if _, err := p.Items.check(fmt.Sprintf("%s[%d]", name, i), item); err != nil {
					return nil, err
				}
			}
		}
		return items, nil

	case "object":
		v, ok := raw.(map[string]interface{})
		if !ok {
			return nil, invalidArg(name, "parameter %q must be an object", name)
		}
		return v, nil

	default:
		return raw, nil
	}
}

func (p *Property) checkBounds(name string, f float64) error {
	if p.Minimum != nil && f < *p.Minimum {
		return invalidArg(name, "parameter %q must be at least %v", name, *p.Minimum)
	}
	if p.Maximum != nil && f > *p.Maximum {
		return invalidArg(name, "parameter %q must be at most %v", name, *p.Maximum)
	}
	return nil
}

// asNumber accepts both JSON numbers (float64) and Go ints from direct
// callers in tests.
func asNumber(raw interface{}) (float64, bool) {
	switch v := raw.(type) {
	case float64:
		return v, true
	case int:
		return float64(v), true
	case int64:
		return float64(v), true
	default:
		return 0, false
	}
}

func contains(set []string, v string) bool {
	for _, s := range set {
		if s == v {
			return true
		}
	}
	return false
}
