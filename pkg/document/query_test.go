package document

import "testing"

func TestQuery(t *testing.T) {
	doc, err := Parse([]byte(`{"items": [{"price": 10}, {"price": 25}, {"price": 5}]}`))
	if err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name     string
		expr     string
		expected []Value
	}{
		{"field", `.items[0].price`, []Value{Int(10)}},
		{"iterate", `.items[].price`, []Value{Int(10), Int(25), Int(5)}},
		{"filter", `.items[] | select(.price > 8) | .price`, []Value{Int(10), Int(25)}},
		{"length", `.items | length`, []Value{Int(3)}},
		{"missing", `.nope`, []Value{Null()}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := doc.Query(tt.expr)
			if err != nil {
				t.Fatalf("Query(%q) failed: %v", tt.expr, err)
			}
			if len(got) != len(tt.expected) {
				t.Fatalf("Query(%q) returned %d values, want %d", tt.expr, len(got), len(tt.expected))
			}
			for i := range got {
				if !got[i].Equal(tt.expected[i]) {
					t.Errorf("result[%d] = %v, want %v", i, got[i].Interface(), tt.expected[i].Interface())
				}
			}
		})
	}
}

func TestQuery_BadExpression(t *testing.T) {
	doc := Object(map[string]Value{"a": Int(1)})
	if _, err := doc.Query(`.[broken`); err == nil {
		t.Fatal("Query with a bad expression should fail")
	}
}
