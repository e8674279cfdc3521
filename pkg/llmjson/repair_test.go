package llmjson

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRepair(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"valid untouched", `{"a": [1, 2]}`, `{"a": [1, 2]}`},
		{"trailing comma object", `{"a": 1, }`, `{"a": 1 }`},
		{"trailing comma array", `[1, 2,]`, `[1, 2]`},
		{"bare keys", `{a: 1, b_2: "x"}`, `{"a": 1, "b_2": "x"}`},
		{"bare key with space before colon", `{ key : true }`, `{ "key" : true }`},
		{"control characters dropped", "{\"a\":\x001}", `{"a":1}`},
		{"newline in string escaped", "{\"a\": \"line1\nline2\"}", `{"a": "line1\nline2"}`},
		{"comma before brace in string kept", `{"a": "x,}"}`, `{"a": "x,}"}`},
		{"key-like text in string kept", `{"a": "note, b: c"}`, `{"a": "note, b: c"}`},
		{"escaped quote in string", `{"a": "say \"hi\", k: v"}`, `{"a": "say \"hi\", k: v"}`},
		{"array literals not quoted", `[true, null, 3]`, `[true, null, 3]`},
		{"surrounding space trimmed", "  {}\n", `{}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Repair(tt.input))
		})
	}
}
