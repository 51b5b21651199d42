package catalog

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func erroredInstancesSchema(t *testing.T) Schema {
	t.Helper()
	tool, ok := New().Get("monitoringErroredInstances")
	require.True(t, ok)
	return tool.InputSchema
}

func TestValidate_MissingRequired(t *testing.T) {
	schema := erroredInstancesSchema(t)
	_, err := schema.Validate(map[string]interface{}{"duration": "1h"})
	require.Error(t, err)
	assert.Equal(t, `invalid arguments: missing required parameter "tenant"`, err.Error())
}

func TestValidate_EnumViolationNamesValue(t *testing.T) {
	schema := erroredInstancesSchema(t)
	_, err := schema.Validate(map[string]interface{}{"tenant": "staging"})
	require.Error(t, err)
	assert.Equal(t,
		`invalid arguments: parameter "tenant" must be one of [dev, qa3, prod1, prod3], got "staging"`,
		err.Error())
}

func TestValidate_DefaultsApplied(t *testing.T) {
	schema := erroredInstancesSchema(t)
	args, err := schema.Validate(map[string]interface{}{"tenant": "dev"})
	require.NoError(t, err)

	assert.Equal(t, "1h", args["duration"])
	assert.Equal(t, "appdriven", args["integrationStyle"])
	assert.Equal(t, "no", args["includePurged"])
	// No default declared, so no key appears.
	_, present := args["recoverable"]
	assert.False(t, present)
}

func TestValidate_UnknownKeysDropped(t *testing.T) {
	schema := erroredInstancesSchema(t)
	args, err := schema.Validate(map[string]interface{}{
		"tenant":  "dev",
		"verbose": true,
	})
	require.NoError(t, err)
	_, present := args["verbose"]
	assert.False(t, present)
}

func TestValidate_TypeMismatches(t *testing.T) {
	schema := erroredInstancesSchema(t)

	tests := []struct {
		name string
		args map[string]interface{}
		want string
	}{
		{
			name: "string expected",
			args: map[string]interface{}{"tenant": "dev", "duration": 3600},
			want: `invalid arguments: parameter "duration" must be a string`,
		},
		{
			name: "boolean expected",
			args: map[string]interface{}{"tenant": "dev", "recoverable": "true"},
			want: `invalid arguments: parameter "recoverable" must be a boolean`,
		},
		{
			name: "enum on optional",
			args: map[string]interface{}{"tenant": "dev", "includePurged": "maybe"},
			want: `invalid arguments: parameter "includePurged" must be one of [yes, no], got "maybe"`,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := schema.Validate(tt.args)
			require.Error(t, err)
			assert.Equal(t, tt.want, err.Error())
		})
	}
}

func TestValidate_BulkIDBounds(t *testing.T) {
	tool, ok := New().Get("monitoringResubmitErroredInstances")
	require.True(t, ok)
	schema := tool.InputSchema

	// Empty array violates the lower bound.
	_, err := schema.Validate(map[string]interface{}{
		"tenant":      "dev",
		"instanceIds": []interface{}{},
	})
	require.Error(t, err)
	assert.Equal(t, `invalid arguments: parameter "instanceIds" must contain at least 1 item(s)`, err.Error())

	// 51 ids violates the upper bound.
	ids := make([]interface{}, 51)
	for i := range ids {
		ids[i] = "id"
	}
	_, err = schema.Validate(map[string]interface{}{
		"tenant":      "dev",
		"instanceIds": ids,
	})
	require.Error(t, err)
	assert.Equal(t, `invalid arguments: parameter "instanceIds" must contain at most 50 item(s)`, err.Error())

	// Item type is enforced.
	_, err = schema.Validate(map[string]interface{}{
		"tenant":      "dev",
		"instanceIds": []interface{}{"ok", 42},
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), `"instanceIds[1]" must be a string`)

	// 50 ids is accepted.
	_, err = schema.Validate(map[string]interface{}{
		"tenant":      "dev",
		"instanceIds": ids[:50],
	})
	assert.NoError(t, err)
}

func TestValidate_IntegerCoercion(t *testing.T) {
	min, max := 0.0, 500.0
	schema := objectSchema(nil, map[string]*Property{
		"offset": {Type: "integer", Minimum: &min, Maximum: &max},
	})

	// JSON numbers arrive as float64.
	args, err := schema.Validate(map[string]interface{}{"offset": float64(50)})
	require.NoError(t, err)
	assert.Equal(t, 50, args["offset"])

	_, err = schema.Validate(map[string]interface{}{"offset": 50.5})
	require.Error(t, err)
	assert.Equal(t, `invalid arguments: parameter "offset" must be an integer`, err.Error())

	_, err = schema.Validate(map[string]interface{}{"offset": float64(501)})
	require.Error(t, err)
	assert.Equal(t, `invalid arguments: parameter "offset" must be at most 500`, err.Error())
}

func TestValidate_NilArguments(t *testing.T) {
	schema := objectSchema(nil, map[string]*Property{
		"duration": durationProp(),
	})
	args, err := schema.Validate(nil)
	require.NoError(t, err)
	assert.Equal(t, "1h", args["duration"])
}
