package schema

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDiff_IdenticalSchemas(t *testing.T) {
	a := buildSchema(t, `{"a":1,"b":"x"}`, `{"a":2}`)
	b := buildSchema(t, `{"a":2}`, `{"a":1,"b":"x"}`)

	assert.True(t, Diff(a, b).Empty())
}

func TestDiff_PropertyAddedAndRemoved(t *testing.T) {
	baseline := buildSchema(t, `{"a":1,"old":true}`)
	candidate := buildSchema(t, `{"a":1,"new":"x"}`)

	d := Diff(baseline, candidate)
	assert.Equal(t, []string{"$.new"}, d.PropertiesAdded)
	assert.Equal(t, []string{"$.old"}, d.PropertiesRemoved)
}

func TestDiff_TypeChange(t *testing.T) {
	baseline := buildSchema(t, `{"price":10}`)
	candidate := buildSchema(t, `{"price":"10.00"}`)

	d := Diff(baseline, candidate)
	require.Len(t, d.TypeChanges, 1)
	assert.Equal(t, "$.price", d.TypeChanges[0].Path)
	assert.Equal(t, []Type{TypeInteger}, d.TypeChanges[0].Baseline)
	assert.Equal(t, []Type{TypeString}, d.TypeChanges[0].Candidate)
}

func TestDiff_RequiredRelaxedAndTightened(t *testing.T) {
	baseline := buildSchema(t, `{"a":1,"b":2}`, `{"a":1}`)
	candidate := buildSchema(t, `{"a":1,"b":2}`, `{"b":3}`)

	d := Diff(baseline, candidate)
	assert.Equal(t, []string{"$.a"}, d.RequiredRelaxed)
	assert.Equal(t, []string{"$.b"}, d.RequiredTightened)
}

func TestDiff_NestedAndArrayPaths(t *testing.T) {
	baseline := buildSchema(t, `{"items":[{"sku":"A"}]}`)
	candidate := buildSchema(t, `{"items":[{"sku":"A","price":1.5}]}`)

	d := Diff(baseline, candidate)
	assert.Equal(t, []string{"$.items[].price"}, d.PropertiesAdded)
}

func TestDiff_EnumAndCountsIgnored(t *testing.T) {
	baseline := buildSchema(t, `{"color":"red"}`)
	candidate := buildSchema(t, `{"color":"blue"}`, `{"color":"green"}`, `{"color":"red"}`)

	assert.True(t, Diff(baseline, candidate).Empty())
}

func TestDiff_NilBaseline(t *testing.T) {
	candidate := buildSchema(t, `{"a":1}`)

	d := Diff(nil, candidate)
	assert.Equal(t, []string{"$"}, d.PropertiesAdded)
}
