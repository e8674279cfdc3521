package store

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"
	"time"

	"github.com/stefanpenner/lifeos/pkg/goal"
)

var nonSlugChars = regexp.MustCompile(`[^a-z0-9]+`)

// Slugify turns a title into a directory-safe name.
func Slugify(title string) string {
	slug := strings.Trim(nonSlugChars.ReplaceAllString(strings.ToLower(title), "-"), "-")
	if len(slug) > 48 {
		slug = strings.TrimRight(slug[:48], "-")
	}
	if slug == "" {
		return "goal"
	}
	return slug
}

// GoalMarkdown renders the milestone tree of g as a markdown checklist.
func GoalMarkdown(g goal.Goal) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# %s\n\n", g.Title)
	if g.Description != "" {
		fmt.Fprintf(&b, "%s\n\n", g.Description)
	}
	fmt.Fprintf(&b, "**Progress:** %d%%", g.Progress)
	if g.Timeframe != "" {
		fmt.Fprintf(&b, " · **Timeframe:** %s", g.Timeframe)
	}
	b.WriteString("\n")

	for _, m := range g.Milestones {
		fmt.Fprintf(&b, "\n## Month %d: %s\n\n", m.Month, m.Title)
		if m.Description != "" {
			fmt.Fprintf(&b, "%s\n\n", m.Description)
		}
		if m.Timeline != nil && m.Timeline.StartDate != "" {
			fmt.Fprintf(&b, "_%s to %s_\n\n", m.Timeline.StartDate, m.Timeline.EndDate)
		}
		for _, t := range m.Tasks {
			fmt.Fprintf(&b, "- [%s] %s", checkbox(t.Completed), t.Title)
			if t.Priority != "" {
				fmt.Fprintf(&b, " (%s", t.Priority)
				if t.EstimatedHours > 0 {
					fmt.Fprintf(&b, ", %gh", t.EstimatedHours)
				}
				b.WriteString(")")
			}
			b.WriteString("\n")
			for _, s := range m.SubtasksFor(t.ID) {
				fmt.Fprintf(&b, "  - [%s] %s\n", checkbox(s.Completed), s.Title)
			}
		}
	}

	if len(g.Checkpoints) > 0 {
		b.WriteString("\n## Checkpoints\n\n")
		for _, c := range g.Checkpoints {
			fmt.Fprintf(&b, "- [%s] %s", checkbox(c.Achieved), c.Title)
			if c.TargetDate != "" {
				fmt.Fprintf(&b, " (by %s)", c.TargetDate)
			}
			b.WriteString("\n")
		}
	}

	if a := g.AIAnalysis; a != nil {
		b.WriteString("\n## Analysis\n")
		writeSection(&b, "Strengths", a.Strengths)
		writeSection(&b, "Challenges", a.Challenges)
		writeSection(&b, "Recommendations", a.Recommendations)
	}
	return b.String()
}

func writeSection(b *strings.Builder, title string, items []string) {
	if len(items) == 0 {
		return
	}
	fmt.Fprintf(b, "\n### %s\n\n", title)
	for _, item := range items {
		fmt.Fprintf(b, "- %s\n", item)
	}
}

func checkbox(done bool) string {
	if done {
		return "x"
	}
	return " "
}

// ExportMarkdown writes each goal to dir/goals/<slug>/goal.md and returns
// the written paths in goal order. Duplicate slugs get a numeric suffix.
func ExportMarkdown(dir string, goals []goal.Goal, now time.Time) ([]string, error) {
	goalsDir := filepath.Join(dir, "goals")
	if err := os.MkdirAll(goalsDir, 0755); err != nil {
		return nil, fmt.Errorf("creating export directory: %w", err)
	}

	seen := map[string]int{}
	paths := make([]string, 0, len(goals))
	for _, g := range goals {
		slug := Slugify(g.Title)
		seen[slug]++
		if n := seen[slug]; n > 1 {
			slug = fmt.Sprintf("%s-%d", slug, n)
		}

		doc := &Document{
			ID:         g.ID,
			Title:      g.Title,
			Category:   string(g.Category),
			Timeframe:  g.Timeframe,
			Progress:   g.Progress,
			Milestones: len(g.Milestones),
			Exported:   now.UTC(),
			Body:       GoalMarkdown(g),
		}
		content, err := SerializeFrontmatter(doc)
		if err != nil {
			return paths, fmt.Errorf("rendering %s: %w", g.Title, err)
		}

		goalDir := filepath.Join(goalsDir, slug)
		if err := os.MkdirAll(goalDir, 0755); err != nil {
			return paths, fmt.Errorf("creating %s: %w", goalDir, err)
		}
		path := filepath.Join(goalDir, "goal.md")
		if err := os.WriteFile(path, []byte(content), 0644); err != nil {
			return paths, fmt.Errorf("writing %s: %w", path, err)
		}
		paths = append(paths, path)
	}
	return paths, nil
}

// ExportFocus writes today's focus tasks to dir/focus.md.
func ExportFocus(dir string, items []goal.FocusItem, now time.Time) (string, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("creating export directory: %w", err)
	}
	f := &FocusList{Updated: now}
	for _, item := range items {
		f.Items = append(f.Items, fmt.Sprintf("%s: %s", item.GoalTitle, item.Task.Title))
	}
	path := filepath.Join(dir, "focus.md")
	if err := os.WriteFile(path, []byte(SerializeFocusList(f)), 0644); err != nil {
		return "", fmt.Errorf("writing %s: %w", path, err)
	}
	return path, nil
}

// LoadExported reads back a goal.md written by ExportMarkdown.
func LoadExported(path string) (*Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	doc, err := ParseFrontmatter(string(data))
	if err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	return doc, nil
}

// ListExported reads every goal.md under dir/goals, sorted by path.
func ListExported(dir string) ([]*Document, error) {
	paths, err := filepath.Glob(filepath.Join(dir, "goals", "*", "goal.md"))
	if err != nil {
		return nil, err
	}
	sort.Strings(paths)
	docs := make([]*Document, 0, len(paths))
	for _, p := range paths {
		doc, err := LoadExported(p)
		if err != nil {
			return nil, err
		}
		docs = append(docs, doc)
	}
	return docs, nil
}

// LoadFocus reads back dir/focus.md. A missing file is an empty list.
func LoadFocus(dir string) (*FocusList, error) {
	data, err := os.ReadFile(filepath.Join(dir, "focus.md"))
	if errors.Is(err, os.ErrNotExist) {
		return &FocusList{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading focus.md: %w", err)
	}
	return ParseFocusList(string(data))
}
