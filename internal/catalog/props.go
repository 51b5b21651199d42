package catalog

import "github.com/nareshsaladi2024/oicagentops/internal/config"

// Shared property constructors. Every tenant-scoped tool requires tenant;
// the enum is the fixed tenant set.

func tenantProp() *Property {
	return &Property{
		Type:        "string",
		Description: "Target OIC environment",
		Enum:        config.TenantNames,
	}
}

func durationProp() *Property {
	return &Property{
		Type:        "string",
		Description: "Time window to query, mapped to the upstream timewindow filter",
		Enum:        durations,
		Default:     "1h",
	}
}

func statusProp(desc string) *Property {
	return &Property{
		Type:        "string",
		Description: desc,
	}
}

func qProp() *Property {
	return &Property{
		Type:        "string",
		Description: "Raw upstream filter expression, e.g. {timewindow:'1h', status:'FAILED'}. Overrides duration and status when set",
	}
}

func orderByProp() *Property {
	return &Property{
		Type:        "string",
		Description: "Upstream sort expression, e.g. lastupdatedtime",
	}
}

func fieldsProp() *Property {
	return &Property{
		Type:        "string",
		Description: "Comma-separated list of fields to return",
	}
}

func returnProp() *Property {
	return &Property{
		Type:        "string",
		Description: "Upstream response shaping hint, e.g. monitoringui",
	}
}

func idProp(desc string) *Property {
	return &Property{
		Type:        "string",
		Description: desc,
	}
}

func idsProp(desc string) *Property {
	return &Property{
		Type:        "array",
		Description: desc,
		Items:       &Property{Type: "string"},
		MinItems:    1,
		MaxItems:    50,
	}
}
