package llmjson

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtract(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		want     string
		strategy string
	}{
		{
			name:     "fenced with tag",
			input:    "Here is your plan:\n```json\n{\"milestones\": []}\n```\nGood luck!",
			want:     `{"milestones": []}`,
			strategy: "fenced",
		},
		{
			name:     "fenced without tag",
			input:    "```\n[1, 2, 3]\n```",
			want:     `[1, 2, 3]`,
			strategy: "fenced",
		},
		{
			name:     "prose around object",
			input:    `Sure! {"narrative": "ok", "score": {"overall": 70}} Hope that helps.`,
			want:     `{"narrative": "ok", "score": {"overall": 70}}`,
			strategy: "balanced",
		},
		{
			name:     "fence holding prose falls through",
			input:    "```\nnot json\n```\n{\"a\": 1}",
			want:     `{"a": 1}`,
			strategy: "balanced",
		},
		{
			name:     "trailing comma and bare keys",
			input:    "{narrative: \"hi\", insights: [\"a\", \"b\",],}",
			want:     `{"narrative": "hi", "insights": ["a", "b"]}`,
			strategy: "balanced",
		},
		{
			name:     "braces inside strings",
			input:    `noise {"title": "use {curly} braces", "n": 1} noise`,
			want:     `{"title": "use {curly} braces", "n": 1}`,
			strategy: "balanced",
		},
		{
			name:     "first valid candidate wins",
			input:    `{"broken": } {"a": 1} {"b": 2}`,
			want:     `{"a": 1}`,
			strategy: "balanced",
		},
		{
			name:     "objects preferred over arrays",
			input:    `The books: [{"title": "Atomic Habits"}]`,
			want:     `{"title": "Atomic Habits"}`,
			strategy: "balanced",
		},
		{
			name:     "padded object",
			input:    "  {\"a\": 1}  ",
			want:     `{"a": 1}`,
			strategy: "balanced",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, err := ExtractWith(tt.input, DefaultStrategies...)
			require.NoError(t, err)
			assert.JSONEq(t, tt.want, m.JSON)
			assert.Equal(t, tt.strategy, m.Strategy)

			got, err := Extract(tt.input)
			require.NoError(t, err)
			assert.Equal(t, m.JSON, got)
		})
	}
}

func TestExtractNoJSON(t *testing.T) {
	for _, input := range []string{
		"not json at all",
		"",
		"{ this is { not valid",
		"42",
		`"just a string"`,
	} {
		_, err := Extract(input)
		assert.ErrorIs(t, err, ErrNoJSON, input)
	}
}

func TestNaiveStrategy(t *testing.T) {
	input := `}{"a": {"b": 1}}`
	m, err := ExtractWith(input, Naive)
	require.NoError(t, err)
	assert.JSONEq(t, `{"a": {"b": 1}}`, m.JSON)
	assert.Equal(t, "naive", m.Strategy)
}

func TestWholeStrategySkipsRepair(t *testing.T) {
	_, err := ExtractWith(`{"a": 1,}`, Whole)
	assert.ErrorIs(t, err, ErrNoJSON)

	m, err := ExtractWith(`{"a": 1,}`, Naive)
	require.NoError(t, err)
	assert.Equal(t, `{"a": 1}`, m.JSON)
}

func TestCustomStrategy(t *testing.T) {
	after := Strategy{
		Name: "after-marker",
		Candidates: func(text string) []string {
			return []string{text[len("JSON:"):]}
		},
	}
	m, err := ExtractWith(`JSON:{"ok": true}`, after)
	require.NoError(t, err)
	assert.Equal(t, "after-marker", m.Strategy)
}

func TestDecode(t *testing.T) {
	var v struct {
		Narrative string `json:"narrative"`
	}
	require.NoError(t, Decode("```json\n{\"narrative\": \"hello\"}\n```", &v))
	assert.Equal(t, "hello", v.Narrative)

	err := Decode("nothing here", &v)
	assert.True(t, errors.Is(err, ErrNoJSON))

	var n struct{ N int }
	err = Decode(`{"N": "not a number"}`, &n)
	require.Error(t, err)
	assert.False(t, errors.Is(err, ErrNoJSON))
}
