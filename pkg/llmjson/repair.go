package llmjson

import (
	"strings"
	"unicode"
)

// Repair fixes the mistakes models commonly make in otherwise valid JSON:
// control characters, trailing commas before } or ], and unquoted object
// keys. Text inside string literals is left alone, except that raw newlines
// and tabs are escaped.
func Repair(s string) string {
	in := []rune(strings.TrimSpace(s))
	var b strings.Builder
	b.Grow(len(s))

	inString, escaped := false, false
	// last significant rune written outside a string
	var last rune
	for i := 0; i < len(in); i++ {
		r := in[i]

		if inString {
			if isControl(r) {
				escaped = false
				switch r {
				case '\n':
					b.WriteString(`\n`)
				case '\r':
					b.WriteString(`\r`)
				case '\t':
					b.WriteString(`\t`)
				}
				continue
			}
			switch {
			case escaped:
				escaped = false
			case r == '\\':
				escaped = true
			case r == '"':
				inString = false
				last = r
			}
			b.WriteRune(r)
			continue
		}

		switch {
		case r == '"':
			inString = true
			b.WriteRune(r)
		case isControl(r) && !unicode.IsSpace(r):
			// dropped
		case r == ',':
			if j := skipSpace(in, i+1); j < len(in) && (in[j] == '}' || in[j] == ']') {
				continue
			}
			b.WriteRune(r)
			last = r
		case isWord(r) && (last == '{' || last == ','):
			j := i
			for j < len(in) && isWord(in[j]) {
				j++
			}
			word := string(in[i:j])
			if k := skipSpace(in, j); k < len(in) && in[k] == ':' {
				b.WriteString(`"` + word + `"`)
			} else {
				b.WriteString(word)
			}
			last = in[j-1]
			i = j - 1
		default:
			b.WriteRune(r)
			if !unicode.IsSpace(r) {
				last = r
			}
		}
	}
	return b.String()
}

func isControl(r rune) bool {
	return r <= 0x1f || (r >= 0x7f && r <= 0x9f)
}

func isWord(r rune) bool {
	return r == '_' || (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9')
}

func skipSpace(in []rune, i int) int {
	for i < len(in) && (unicode.IsSpace(in[i]) || isControl(in[i])) {
		i++
	}
	return i
}
