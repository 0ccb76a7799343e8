package document

import (
	"errors"
	"testing"
)

func TestParse_PrimitiveKinds(t *testing.T) {
	tests := []struct {
		name     string
		json     string
		expected Kind
	}{
		{"null", `null`, KindNull},
		{"true", `true`, KindBool},
		{"false", `false`, KindBool},
		{"integer", `42`, KindInt},
		{"negative_integer", `-7`, KindInt},
		{"float", `3.14`, KindFloat},
		{"exponent", `1e3`, KindFloat},
		{"float_whole", `1.0`, KindFloat},
		{"string", `"hello"`, KindString},
		{"array", `[1,2]`, KindArray},
		{"object", `{"a":1}`, KindObject},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v, err := Parse([]byte(tt.json))
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if v.Kind() != tt.expected {
				t.Errorf("Parse(%s) kind = %v, want %v", tt.json, v.Kind(), tt.expected)
			}
		})
	}
}

func TestParse_IntegerFloatSplit(t *testing.T) {
	v, err := Parse([]byte(`{"count": 3, "price": 19.99}`))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	count, _ := v.Field("count")
	if count.Kind() != KindInt || count.Int() != 3 {
		t.Errorf("count = %v (%v), want int 3", count.Int(), count.Kind())
	}

	price, _ := v.Field("price")
	if price.Kind() != KindFloat || price.Float() != 19.99 {
		t.Errorf("price = %v (%v), want float 19.99", price.Float(), price.Kind())
	}
}

func TestParse_LargeInteger(t *testing.T) {
	// Values beyond float64 precision must survive as exact integers.
	v, err := Parse([]byte(`9007199254740993`))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if v.Kind() != KindInt || v.Int() != 9007199254740993 {
		t.Errorf("got %v (%v), want exact int", v.Int(), v.Kind())
	}
}

func TestParse_Nested(t *testing.T) {
	v, err := Parse([]byte(`{"items": [{"sku": "a-1"}, {"sku": "a-2"}]}`))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	got, err := v.At(Key("items"), Index(1), Key("sku"))
	if err != nil {
		t.Fatalf("At failed: %v", err)
	}
	if got.Str() != "a-2" {
		t.Errorf("sku = %q, want %q", got.Str(), "a-2")
	}
}

func TestParse_Malformed(t *testing.T) {
	tests := []struct {
		name string
		json string
	}{
		{"empty", ``},
		{"bare_brace", `{`},
		{"missing_value", `{"a":}`},
		{"trailing_comma", `[1,2,]`},
		{"unquoted_key", `{a: 1}`},
		{"trailing_data", `{"a":1} extra`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.json))
			if err == nil {
				t.Fatalf("Parse(%s) succeeded, want error", tt.json)
			}
			var perr *ParseError
			if !errors.As(err, &perr) {
				t.Fatalf("error type = %T, want *ParseError", err)
			}
			if perr.Line < 1 {
				t.Errorf("line = %d, want >= 1", perr.Line)
			}
		})
	}
}

func TestParse_MalformedLineNumber(t *testing.T) {
	data := []byte("{\n  \"a\": 1,\n  \"b\": oops\n}")
	_, err := Parse(data)
	var perr *ParseError
	if !errors.As(err, &perr) {
		t.Fatalf("error type = %T, want *ParseError", err)
	}
	if perr.Line != 3 {
		t.Errorf("line = %d, want 3", perr.Line)
	}
	if perr.Offset <= 0 {
		t.Errorf("offset = %d, want > 0", perr.Offset)
	}
}

func TestValue_Equal(t *testing.T) {
	tests := []struct {
		name  string
		a, b  string
		equal bool
	}{
		{"same_object", `{"a":1,"b":"x"}`, `{"b":"x","a":1}`, true},
		{"different_value", `{"a":1}`, `{"a":2}`, false},
		{"different_keys", `{"a":1}`, `{"b":1}`, false},
		{"int_vs_float", `1`, `1.0`, false},
		{"arrays", `[1,[2,3]]`, `[1,[2,3]]`, true},
		{"array_order", `[1,2]`, `[2,1]`, false},
		{"nulls", `null`, `null`, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a, err := Parse([]byte(tt.a))
			if err != nil {
				t.Fatal(err)
			}
			b, err := Parse([]byte(tt.b))
			if err != nil {
				t.Fatal(err)
			}
			if got := a.Equal(b); got != tt.equal {
				t.Errorf("Equal(%s, %s) = %v, want %v", tt.a, tt.b, got, tt.equal)
			}
		})
	}
}

func TestValue_InterfaceRoundTrip(t *testing.T) {
	v, err := Parse([]byte(`{"a": [1, 2.5, "x", null, true]}`))
	if err != nil {
		t.Fatal(err)
	}
	back := FromInterface(v.Interface())
	if !v.Equal(back) {
		t.Errorf("FromInterface(Interface()) is not equal to the original")
	}
}
