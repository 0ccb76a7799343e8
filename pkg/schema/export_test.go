package schema

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExport_Object(t *testing.T) {
	s := buildSchema(t, `{"a":1}`, `{"a":2,"b":"x"}`)

	out := Export(s)
	assert.Equal(t, "object", out.Type)
	assert.Equal(t, []string{"a"}, out.Required)

	require.NotNil(t, out.Properties)
	a := out.Properties.GetPair("a")
	require.NotNil(t, a)
	assert.Equal(t, "integer", a.Value.Type)

	b := out.Properties.GetPair("b")
	require.NotNil(t, b)
	assert.Equal(t, "string", b.Value.Type)
}

func TestExport_TypeUnionBecomesAnyOf(t *testing.T) {
	s := buildSchema(t, `{"v": "x"}`, `{"v": null}`)

	out := Export(s)
	v := out.Properties.GetPair("v")
	require.NotNil(t, v)

	require.Len(t, v.Value.AnyOf, 2)
	assert.Equal(t, "null", v.Value.AnyOf[0].Type)
	assert.Equal(t, "string", v.Value.AnyOf[1].Type)
}

func TestExport_ArrayItems(t *testing.T) {
	s := buildSchema(t, `{"tags": ["a", "b"]}`)

	out := Export(s)
	tags := out.Properties.GetPair("tags")
	require.NotNil(t, tags)
	assert.Equal(t, "array", tags.Value.Type)
	require.NotNil(t, tags.Value.Items)
	assert.Equal(t, "string", tags.Value.Items.Type)
}

func TestExport_Enum(t *testing.T) {
	s := buildSchema(t, `{"state": "new"}`, `{"state": "used"}`, `{"state": "new"}`)

	out := Export(s)
	state := out.Properties.GetPair("state")
	require.NotNil(t, state)
	assert.Equal(t, []any{"new", "used"}, state.Value.Enum)
}

func TestExport_EnumSplitAcrossUnionBranches(t *testing.T) {
	s := buildSchema(t, `{"v": "x"}`, `{"v": 3}`, `{"v": "x"}`, `{"v": 3}`)

	out := Export(s)
	v := out.Properties.GetPair("v")
	require.NotNil(t, v)
	require.Len(t, v.Value.AnyOf, 2)

	// Each branch carries only the literals of its own type.
	assert.Equal(t, "integer", v.Value.AnyOf[0].Type)
	assert.Equal(t, []any{int64(3)}, v.Value.AnyOf[0].Enum)
	assert.Equal(t, "string", v.Value.AnyOf[1].Type)
	assert.Equal(t, []any{"x"}, v.Value.AnyOf[1].Enum)
}

func TestExport_EmptySchema(t *testing.T) {
	out := Export(&Schema{})
	assert.NotNil(t, out)
	assert.Empty(t, out.Type)
}
