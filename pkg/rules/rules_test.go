package rules

import (
	"testing"

	gojson "github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jsonvet/jsonvet/pkg/document"
	"github.com/jsonvet/jsonvet/pkg/schema"
)

func parseDocs(t *testing.T, docs ...string) []document.Value {
	t.Helper()
	out := make([]document.Value, len(docs))
	for i, d := range docs {
		v, err := document.Parse([]byte(d))
		require.NoError(t, err)
		out[i] = v
	}
	return out
}

func inferSchema(t *testing.T, docs ...string) *schema.Schema {
	t.Helper()
	b := schema.NewBuilder(nil)
	for _, v := range parseDocs(t, docs...) {
		b.Merge(v)
	}
	return b.Freeze()
}

func TestCheckFieldCoverage_AllPresent(t *testing.T) {
	s := inferSchema(t, `{"a":1,"b":"x"}`, `{"a":2,"b":"y"}`)

	out := CheckFieldCoverage(s)
	assert.Equal(t, LevelInfo, out.Level)
	assert.Equal(t, 0, out.ItemsFlagged)
	assert.Equal(t, 2, out.ItemsChecked)
	assert.Equal(t, "all 2 fields present in every document", out.Summary)
}

func TestCheckFieldCoverage_PartialFieldWarns(t *testing.T) {
	s := inferSchema(t, `{"a":1,"b":"x"}`, `{"a":2}`, `{"a":3}`)

	out := CheckFieldCoverage(s)
	assert.Equal(t, LevelWarning, out.Level)
	assert.Equal(t, 1, out.ItemsFlagged)
	assert.Contains(t, out.Details, "a: 100.0% (3/3)")
	assert.Contains(t, out.Details, "b: 33.3% (1/3)")
}

func TestCheckFieldCoverage_SparseFieldEscalates(t *testing.T) {
	docs := make([]string, 20)
	for i := range docs {
		docs[i] = `{"a":1}`
	}
	docs[0] = `{"a":1,"rare":true}` // 1/20 is below the error threshold

	out := CheckFieldCoverage(inferSchema(t, docs...))
	assert.Equal(t, LevelError, out.Level)
}

func TestCheckFieldCoverage_EmptySchema(t *testing.T) {
	out := CheckFieldCoverage(nil)
	assert.Equal(t, LevelInfo, out.Level)
	assert.Equal(t, "no object fields observed", out.Summary)
}

func TestCheckUniqueness_Duplicates(t *testing.T) {
	docs := parseDocs(t,
		`{"sku":"A1","url":"http://x/1"}`,
		`{"sku":"A1","url":"http://x/2"}`,
		`{"sku":"B2","url":"http://x/3"}`,
	)

	out := CheckUniqueness(docs, []string{"sku", "url"})
	assert.Equal(t, LevelError, out.Level)
	assert.Equal(t, 2, out.ItemsFlagged)
	require.Len(t, out.Details, 1)
	assert.Equal(t, `sku="A1" duplicated across 2 documents [0 1]`, out.Details[0])
}

func TestCheckUniqueness_MissingFieldNotCounted(t *testing.T) {
	docs := parseDocs(t, `{"sku":"A1"}`, `{"name":"no sku"}`, `{"sku":"B2"}`)

	out := CheckUniqueness(docs, []string{"sku"})
	assert.Equal(t, LevelInfo, out.Level)
	assert.Equal(t, 0, out.ItemsFlagged)
}

func TestCheckUniqueness_DistinctNumbersNotFlagged(t *testing.T) {
	docs := parseDocs(t, `{"id":1}`, `{"id":1.5}`)

	out := CheckUniqueness(docs, []string{"id"})
	assert.Equal(t, 0, out.ItemsFlagged)
}

func TestCheckUniqueness_NoFieldsDeclared(t *testing.T) {
	out := CheckUniqueness(parseDocs(t, `{"a":1}`), nil)
	assert.Equal(t, LevelInfo, out.Level)
	assert.Equal(t, "no unique fields declared", out.Summary)
}

func TestCheckGarbageSymbols(t *testing.T) {
	tests := []struct {
		name    string
		doc     string
		flagged bool
	}{
		{"clean", `{"name":"Plain product name"}`, false},
		{"html tag", `{"name":"<div>Widget</div>"}`, true},
		{"html entity", `{"name":"Tom &amp; Jerry"}`, true},
		{"numeric entity", `{"name":"deg&#176;"}`, true},
		{"unicode escape", `{"name":"price \\u00a3 10"}`, true},
		{"leading space", `{"name":"  padded"}`, true},
		{"trailing space", `{"name":"padded  "}`, true},
		{"interior run", `{"name":"too   many spaces"}`, true},
		{"nested string", `{"meta":{"tags":["ok","<b>bad</b>"]}}`, true},
		{"non-string garbage ignored", `{"count":3}`, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := CheckGarbageSymbols(parseDocs(t, tt.doc))
			if tt.flagged {
				assert.Equal(t, 1, out.ItemsFlagged)
				assert.Equal(t, LevelWarning, out.Level)
			} else {
				assert.Equal(t, 0, out.ItemsFlagged)
				assert.Equal(t, LevelInfo, out.Level)
			}
		})
	}
}

func TestCheckGarbageSymbols_DetailsNamePaths(t *testing.T) {
	out := CheckGarbageSymbols(parseDocs(t, `{"items":[{"name":"<p>x</p>"}]}`))

	require.Len(t, out.Details, 1)
	assert.Contains(t, out.Details[0], "items[0].name")
}

func TestLevelString(t *testing.T) {
	assert.Equal(t, "info", LevelInfo.String())
	assert.Equal(t, "warning", LevelWarning.String())
	assert.Equal(t, "error", LevelError.String())
}

func TestOutcomeMarshal_LevelAsName(t *testing.T) {
	out := CheckFieldCoverage(inferSchema(t, `{"a": 1}`, `{"a": 2}`))

	data, err := gojson.Marshal(out)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"level":"info"`)
	assert.Contains(t, string(data), `"rule":"field coverage"`)
}
