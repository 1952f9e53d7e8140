package jsonutil

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFlexibleStringValue(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want string
	}{
		{"string", `"Private"`, "Private"},
		{"integer", `2000`, "2000"},
		{"float", `1999.5`, "1999.5"},
		{"boolean", `true`, "true"},
		{"null", `null`, ""},
		{"empty", ``, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, FlexibleStringValue(json.RawMessage(tt.raw)))
		})
	}
}

func TestFlexibleFloatValue(t *testing.T) {
	got := FlexibleFloatValue(json.RawMessage(`2000`))
	require.NotNil(t, got)
	assert.Equal(t, 2000.0, *got)

	got = FlexibleFloatValue(json.RawMessage(`"1850.50"`))
	require.NotNil(t, got)
	assert.Equal(t, 1850.5, *got)

	assert.Nil(t, FlexibleFloatValue(json.RawMessage(`null`)))
	assert.Nil(t, FlexibleFloatValue(json.RawMessage(`"not a number"`)))
}
