// Package llmjson pulls a JSON document out of free-form model output.
//
// Models wrap JSON in markdown fences, prepend chatter, or leave trailing
// commas and bare keys. Extraction runs an ordered list of strategies, each
// proposing candidate spans, and returns the first one that parses after
// Repair.
package llmjson

import (
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"strings"
)

// ErrNoJSON means no strategy produced a parseable document.
var ErrNoJSON = errors.New("no JSON found in response")

// Strategy proposes candidate JSON spans from a response.
type Strategy struct {
	Name       string
	Candidates func(text string) []string
	// Raw skips Repair for this strategy's candidates.
	Raw bool
}

// Match is a successful extraction.
type Match struct {
	Strategy string
	JSON     string
}

var fencePattern = regexp.MustCompile("(?s)```(?:json)?\\s*(.*?)\\s*```")

var (
	// Fenced takes the interior of markdown code fences that hold an object or array.
	Fenced = Strategy{Name: "fenced", Candidates: fenced}
	// Balanced takes every top-level {...} span, then every top-level [...] span.
	Balanced = Strategy{Name: "balanced", Candidates: balanced}
	// Naive slices from the first opening to the last closing brace or bracket.
	Naive = Strategy{Name: "naive", Candidates: naive}
	// Whole tries the entire trimmed response unchanged.
	Whole = Strategy{Name: "whole", Candidates: whole, Raw: true}
)

// DefaultStrategies is the order Extract uses.
var DefaultStrategies = []Strategy{Fenced, Balanced, Naive, Whole}

// Extract returns the first valid JSON document found in text.
func Extract(text string) (string, error) {
	m, err := ExtractWith(text, DefaultStrategies...)
	if err != nil {
		return "", err
	}
	return m.JSON, nil
}

// ExtractWith runs the given strategies in order.
func ExtractWith(text string, strategies ...Strategy) (Match, error) {
	for _, s := range strategies {
		for _, c := range s.Candidates(text) {
			if !s.Raw {
				c = Repair(c)
			}
			if c != "" && json.Valid([]byte(c)) {
				return Match{Strategy: s.Name, JSON: c}, nil
			}
		}
	}
	return Match{}, ErrNoJSON
}

// Decode extracts JSON from text and unmarshals it into v.
func Decode(text string, v any) error {
	doc, err := Extract(text)
	if err != nil {
		return err
	}
	if err := json.Unmarshal([]byte(doc), v); err != nil {
		return fmt.Errorf("decoding extracted JSON: %w", err)
	}
	return nil
}

func fenced(text string) []string {
	var out []string
	for _, m := range fencePattern.FindAllStringSubmatch(text, -1) {
		body := strings.TrimSpace(m[1])
		if strings.HasPrefix(body, "{") || strings.HasPrefix(body, "[") {
			out = append(out, body)
		}
	}
	return out
}

func balanced(text string) []string {
	return append(spans(text, '{', '}'), spans(text, '[', ']')...)
}

// spans returns each top-level open...close span, ignoring delimiters
// inside string literals.
func spans(text string, open, close byte) []string {
	var out []string
	depth, start := 0, -1
	inString, escaped := false, false
	for i := 0; i < len(text); i++ {
		c := text[i]
		if inString {
			switch {
			case escaped:
				escaped = false
			case c == '\\':
				escaped = true
			case c == '"':
				inString = false
			}
			continue
		}
		switch c {
		case '"':
			if depth > 0 {
				inString = true
			}
		case open:
			if depth == 0 {
				start = i
			}
			depth++
		case close:
			if depth == 0 {
				continue
			}
			depth--
			if depth == 0 {
				out = append(out, text[start:i+1])
			}
		}
	}
	return out
}

func naive(text string) []string {
	var out []string
	for _, pair := range [][2]string{{"{", "}"}, {"[", "]"}} {
		first := strings.Index(text, pair[0])
		last := strings.LastIndex(text, pair[1])
		if first != -1 && last > first {
			out = append(out, text[first:last+1])
		}
	}
	return out
}

func whole(text string) []string {
	t := strings.TrimSpace(text)
	if strings.HasPrefix(t, "{") || strings.HasPrefix(t, "[") {
		return []string{t}
	}
	return nil
}
