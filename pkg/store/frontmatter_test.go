package store

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseFrontmatter(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
		check   func(t *testing.T, d *Document)
	}{
		{
			name: "full frontmatter with body",
			input: `---
id: g-1
title: "Run a marathon"
category: fitness
timeframe: 6 months
progress: 40
milestones: 3
exported: 2026-02-08T14:30:00Z
---

# Run a marathon

- [x] Buy shoes
`,
			check: func(t *testing.T, d *Document) {
				assert.Equal(t, "g-1", d.ID)
				assert.Equal(t, "Run a marathon", d.Title)
				assert.Equal(t, "fitness", d.Category)
				assert.Equal(t, 40, d.Progress)
				assert.Equal(t, 3, d.Milestones)
				assert.False(t, d.IsComplete())
				assert.Contains(t, d.Body, "- [x] Buy shoes")
			},
		},
		{
			name:  "no frontmatter",
			input: "Just some notes without frontmatter.",
			check: func(t *testing.T, d *Document) {
				assert.Equal(t, "", d.Title)
				assert.Equal(t, "Just some notes without frontmatter.", d.Body)
			},
		},
		{
			name:    "unclosed frontmatter",
			input:   "---\ntitle: broken\n",
			wantErr: true,
		},
		{
			name:    "invalid yaml",
			input:   "---\nprogress: [unterminated\n---\n",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d, err := ParseFrontmatter(tt.input)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			tt.check(t, d)
		})
	}
}

func TestSerializeFrontmatter(t *testing.T) {
	d := &Document{
		ID:         "g-1",
		Title:      "Learn Go",
		Category:   "learning",
		Progress:   100,
		Milestones: 2,
		Exported:   time.Date(2026, 2, 8, 14, 30, 0, 0, time.UTC),
		Body:       "# Learn Go\n\nSome notes.",
	}

	content, err := SerializeFrontmatter(d)
	require.NoError(t, err)
	assert.Contains(t, content, "Some notes.\n")

	parsed, err := ParseFrontmatter(content)
	require.NoError(t, err)
	assert.Equal(t, d.Title, parsed.Title)
	assert.Equal(t, d.Progress, parsed.Progress)
	assert.True(t, d.Exported.Equal(parsed.Exported))
	assert.True(t, parsed.IsComplete())
	assert.Contains(t, parsed.Body, "# Learn Go")
}

func TestParseFocusList(t *testing.T) {
	input := `---
updated: 2026-02-08T14:30:00Z
---

1. Fitness: Walk 20 minutes
2. Career: Update resume
- [ ] Learning: Read chapter 1
plain line
`
	f, err := ParseFocusList(input)
	require.NoError(t, err)
	assert.Equal(t, []string{
		"Fitness: Walk 20 minutes",
		"Career: Update resume",
		"Learning: Read chapter 1",
		"plain line",
	}, f.Items)
	assert.Equal(t, 2026, f.Updated.Year())
}

func TestSerializeFocusList(t *testing.T) {
	f := &FocusList{
		Updated: time.Date(2026, 2, 8, 14, 30, 0, 0, time.UTC),
		Items:   []string{"Fitness: Walk", "Career: Resume"},
	}

	content := SerializeFocusList(f)
	assert.Contains(t, content, "1. Fitness: Walk")
	assert.Contains(t, content, "2. Career: Resume")

	parsed, err := ParseFocusList(content)
	require.NoError(t, err)
	assert.Equal(t, f.Items, parsed.Items)
}
