package schema

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestObject(t *testing.T) {
	s := Object(map[string]any{
		"x": map[string]any{"type": "integer"},
	}, []string{"x"})

	assert.Equal(t, "object", s["type"])
	assert.Equal(t, []string{"x"}, s["required"])

	noReq := Object(map[string]any{}, nil)
	_, hasRequired := noReq["required"]
	assert.False(t, hasRequired)
}

func TestFromStruct(t *testing.T) {
	type args struct {
		Query  string  `json:"query" description:"Search query"`
		Limit  int     `json:"limit,omitempty"`
		Score  float64 `json:"score"`
		Active bool    `json:"active"`
		Tags   []string
		hidden string `json:"hidden"`
		Skip   string `json:"-"`
	}

	s := FromStruct(args{})
	properties := s["properties"].(map[string]any)

	assert.Equal(t, map[string]any{"type": "string", "description": "Search query"}, properties["query"])
	assert.Equal(t, map[string]any{"type": "integer"}, properties["limit"])
	assert.Equal(t, map[string]any{"type": "number"}, properties["score"])
	assert.Equal(t, map[string]any{"type": "boolean"}, properties["active"])
	assert.Equal(t, map[string]any{"type": "array"}, properties["Tags"])

	_, ok := properties["hidden"]
	assert.False(t, ok, "unexported field must not appear")
	_, ok = properties["Skip"]
	assert.False(t, ok, "json:\"-\" field must not appear")

	required := s["required"].([]string)
	assert.Contains(t, required, "query")
	assert.Contains(t, required, "score")
	assert.NotContains(t, required, "limit", "omitempty fields are optional")
}

func TestFromStructNonStruct(t *testing.T) {
	s := FromStruct(42)
	assert.Equal(t, "object", s["type"])
	assert.Empty(t, s["properties"])
}

func TestValidate(t *testing.T) {
	s := Object(map[string]any{
		"x":    map[string]any{"type": "integer"},
		"name": map[string]any{"type": "string"},
	}, []string{"x"})

	assert.NoError(t, Validate(map[string]any{"x": 3, "name": "a"}, s))
	// JSON decoding yields float64 for every number.
	assert.NoError(t, Validate(map[string]any{"x": float64(3)}, s))
	// Extra fields are allowed.
	assert.NoError(t, Validate(map[string]any{"x": 1, "extra": true}, s))

	err := Validate(map[string]any{"name": "a"}, s)
	assert.Error(t, err)
	verr, ok := err.(*ValidationError)
	assert.True(t, ok)
	assert.Equal(t, "x", verr.Field)

	err = Validate(map[string]any{"x": "three"}, s)
	assert.Error(t, err)

	err = Validate(map[string]any{"x": 1.5}, s)
	assert.Error(t, err, "fractional value is not an integer")
}
