package store

import (
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

const frontmatterDelimiter = "---"

// splitFrontmatter returns the YAML block and the body that follows it.
// ok is false when the content has no frontmatter at all.
func splitFrontmatter(content string) (yamlContent, body string, ok bool, err error) {
	content = strings.TrimSpace(content)
	if !strings.HasPrefix(content, frontmatterDelimiter) {
		return "", content, false, nil
	}
	rest := content[len(frontmatterDelimiter):]
	idx := strings.Index(rest, "\n"+frontmatterDelimiter)
	if idx == -1 {
		return "", "", false, fmt.Errorf("unclosed frontmatter delimiter")
	}
	body = rest[idx+len("\n"+frontmatterDelimiter):]
	return rest[:idx], strings.TrimLeft(body, "\n"), true, nil
}

// ParseFrontmatter splits an exported goal.md into its Document.
func ParseFrontmatter(content string) (*Document, error) {
	yamlContent, body, ok, err := splitFrontmatter(content)
	if err != nil {
		return nil, err
	}
	if !ok {
		return &Document{Body: body}, nil
	}

	var doc Document
	if err := yaml.Unmarshal([]byte(yamlContent), &doc); err != nil {
		return nil, fmt.Errorf("parsing frontmatter YAML: %w", err)
	}
	doc.Body = body
	return &doc, nil
}

// SerializeFrontmatter renders a Document to markdown with YAML frontmatter.
func SerializeFrontmatter(doc *Document) (string, error) {
	yamlBytes, err := yaml.Marshal(doc)
	if err != nil {
		return "", fmt.Errorf("serializing frontmatter YAML: %w", err)
	}

	var b strings.Builder
	b.WriteString(frontmatterDelimiter)
	b.WriteString("\n")
	b.WriteString(strings.TrimRight(string(yamlBytes), "\n"))
	b.WriteString("\n")
	b.WriteString(frontmatterDelimiter)
	b.WriteString("\n")
	if doc.Body != "" {
		b.WriteString("\n")
		b.WriteString(doc.Body)
		if !strings.HasSuffix(doc.Body, "\n") {
			b.WriteString("\n")
		}
	}
	return b.String(), nil
}

// ParseFocusList parses a focus.md file.
func ParseFocusList(content string) (*FocusList, error) {
	yamlContent, body, ok, err := splitFrontmatter(content)
	if err != nil {
		return nil, fmt.Errorf("focus.md: %w", err)
	}

	var f FocusList
	if ok {
		if err := yaml.Unmarshal([]byte(yamlContent), &f); err != nil {
			return nil, fmt.Errorf("parsing focus frontmatter: %w", err)
		}
	}

	for _, line := range strings.Split(body, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		f.Items = append(f.Items, stripListMarker(line))
	}
	return &f, nil
}

// stripListMarker removes a leading "1. " or "- [ ] " marker.
func stripListMarker(line string) string {
	if rest, ok := strings.CutPrefix(line, "- [ ] "); ok {
		return strings.TrimSpace(rest)
	}
	if rest, ok := strings.CutPrefix(line, "- "); ok {
		return strings.TrimSpace(rest)
	}
	digits := 0
	for digits < len(line) && line[digits] >= '0' && line[digits] <= '9' {
		digits++
	}
	if digits > 0 && digits < len(line) && line[digits] == '.' {
		if item := strings.TrimSpace(line[digits+1:]); item != "" {
			return item
		}
	}
	return line
}

// SerializeFocusList renders a FocusList to markdown.
func SerializeFocusList(f *FocusList) string {
	var b strings.Builder
	b.WriteString(frontmatterDelimiter)
	b.WriteString("\n")
	yamlBytes, _ := yaml.Marshal(struct {
		Updated string `yaml:"updated"`
	}{
		Updated: f.Updated.UTC().Format("2006-01-02T15:04:05Z"),
	})
	b.WriteString(strings.TrimRight(string(yamlBytes), "\n"))
	b.WriteString("\n")
	b.WriteString(frontmatterDelimiter)
	b.WriteString("\n\n")

	for i, item := range f.Items {
		fmt.Fprintf(&b, "%d. %s\n", i+1, item)
	}
	return b.String()
}
