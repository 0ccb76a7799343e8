package audit

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jsonvet/jsonvet/pkg/document"
	"github.com/jsonvet/jsonvet/pkg/schema"
)

func inferSchema(t *testing.T, docs ...string) *schema.Schema {
	t.Helper()
	b := schema.NewBuilder(nil)
	for _, d := range docs {
		v, err := document.Parse([]byte(d))
		require.NoError(t, err)
		b.Merge(v)
	}
	return b.Freeze()
}

func TestAudit_ConformingDocument(t *testing.T) {
	a, err := New(0)
	require.NoError(t, err)

	s := inferSchema(t, `{"a":1,"b":"x"}`, `{"a":2,"b":"y"}`)
	findings, err := a.Audit(s, []byte(`{"a":2,"b":"x"}`))
	require.NoError(t, err)
	assert.Empty(t, findings)
}

func TestAudit_TypeMismatchProducesFinding(t *testing.T) {
	a, err := New(0)
	require.NoError(t, err)

	s := inferSchema(t, `{"a":1}`, `{"a":2}`)
	findings, err := a.Audit(s, []byte(`{"a":"oops"}`))
	require.NoError(t, err)

	require.NotEmpty(t, findings)
	assert.Contains(t, findings[0], "/a")
}

func TestAudit_MissingRequiredProducesFinding(t *testing.T) {
	a, err := New(0)
	require.NoError(t, err)

	s := inferSchema(t, `{"a":1}`)
	findings, err := a.Audit(s, []byte(`{}`))
	require.NoError(t, err)
	assert.NotEmpty(t, findings)
}

func TestAudit_InvalidJSON(t *testing.T) {
	a, err := New(0)
	require.NoError(t, err)

	s := inferSchema(t, `{"a":1}`)
	_, err = a.Audit(s, []byte(`{nope`))
	assert.Error(t, err)
}

func TestAudit_CompiledSchemaCached(t *testing.T) {
	a, err := New(2)
	require.NoError(t, err)

	s := inferSchema(t, `{"a":1}`)
	first, err := a.compiled(s)
	require.NoError(t, err)
	second, err := a.compiled(s)
	require.NoError(t, err)

	// Same fingerprint resolves to the same compiled schema.
	assert.Same(t, first, second)
}

func TestAudit_MixedNumericField(t *testing.T) {
	a, err := New(0)
	require.NoError(t, err)

	// Mixed int and float observations export both numeric branches.
	s := inferSchema(t, `{"price":1}`, `{"price":2.5}`)
	findings, err := a.Audit(s, []byte(`{"price":1}`))
	require.NoError(t, err)
	assert.Empty(t, findings)
}
