package catalog

// Schema describes a tool's input object in JSON-Schema convention. It is
// rendered verbatim into tools/list responses; encoding/json sorts property
// keys, so the rendered catalog is stable across calls.
type Schema struct {
	Type       string               `json:"type"`
	Properties map[string]*Property `json:"properties"`
	Required   []string             `json:"required,omitempty"`
}

// Property describes one input parameter.
type Property struct {
	Type        string      `json:"type"`
	Description string      `json:"description,omitempty"`
	Enum        []string    `json:"enum,omitempty"`
	Default     interface{} `json:"default,omitempty"`
	Minimum     *float64    `json:"minimum,omitempty"`
	Maximum     *float64    `json:"maximum,omitempty"`
	Items       *Property   `json:"items,omitempty"`
	MinItems    int         `json:"minItems,omitempty"`
	MaxItems    int         `json:"maxItems,omitempty"`
}

func objectSchema(required []string, props map[string]*Property) Schema {
	return Schema{
		Type:       "object",
		Properties: props,
		Required:   required,
	}
}
