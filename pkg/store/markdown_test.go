package store

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stefanpenner/lifeos/pkg/goal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSlugify(t *testing.T) {
	tests := []struct{ in, want string }{
		{"Run a Marathon!", "run-a-marathon"},
		{"  Learn Go & Rust  ", "learn-go-rust"},
		{"???", "goal"},
		{"Ünïcode only", "n-code-only"},
		{"a very long title that keeps going and going past the limit", "a-very-long-title-that-keeps-going-and-going-pas"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Slugify(tt.in), tt.in)
	}
}

func TestGoalMarkdown(t *testing.T) {
	g := sampleGoal("g1", "Get fit")
	g.Milestones[0].Subtasks = []goal.Subtask{{ID: "s1", Title: "Find route", ParentTaskID: "t1", Completed: true}}
	g.Milestones[0].Tasks[1].Priority = goal.PriorityHigh
	g.Milestones[0].Tasks[1].EstimatedHours = 2
	g.Checkpoints = []goal.Checkpoint{{ID: "c1", Title: "Review", TargetDate: "2026-04-01"}}
	g.AIAnalysis = &goal.Analysis{Strengths: []string{"Consistent"}}

	md := GoalMarkdown(g)
	assert.Contains(t, md, "# Get fit")
	assert.Contains(t, md, "**Progress:** 50%")
	assert.Contains(t, md, "## Month 1: Base")
	assert.Contains(t, md, "- [x] Walk\n")
	assert.Contains(t, md, "  - [x] Find route\n")
	assert.Contains(t, md, "- [ ] Run (high, 2h)")
	assert.Contains(t, md, "- [ ] Review (by 2026-04-01)")
	assert.Contains(t, md, "### Strengths")
	assert.NotContains(t, md, "### Challenges")
}

func TestExportMarkdown(t *testing.T) {
	dir := t.TempDir()
	goals := []goal.Goal{sampleGoal("g1", "Get fit"), sampleGoal("g2", "Get Fit")}

	paths, err := ExportMarkdown(dir, goals, testNow)
	require.NoError(t, err)
	require.Len(t, paths, 2)
	assert.Equal(t, filepath.Join(dir, "goals", "get-fit", "goal.md"), paths[0])
	assert.Equal(t, filepath.Join(dir, "goals", "get-fit-2", "goal.md"), paths[1])

	doc, err := LoadExported(paths[1])
	require.NoError(t, err)
	assert.Equal(t, "g2", doc.ID)
	assert.Equal(t, 50, doc.Progress)
	assert.Equal(t, 1, doc.Milestones)
	assert.True(t, testNow.Equal(doc.Exported))
	assert.Contains(t, doc.Body, "- [x] Walk")
}

func TestExportFocus(t *testing.T) {
	dir := t.TempDir()
	items := goal.TodaysFocus([]goal.Goal{sampleGoal("g1", "Get fit")}, 0)

	path, err := ExportFocus(dir, items, testNow)
	require.NoError(t, err)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	f, err := ParseFocusList(string(data))
	require.NoError(t, err)
	assert.Equal(t, []string{"Get fit: Run"}, f.Items)
}

func TestListExportedAndLoadFocus(t *testing.T) {
	dir := t.TempDir()

	docs, err := ListExported(dir)
	require.NoError(t, err)
	assert.Empty(t, docs)
	f, err := LoadFocus(dir)
	require.NoError(t, err)
	assert.Empty(t, f.Items)

	done := sampleGoal("g2", "Aaa done")
	done.Progress = 100
	goals := []goal.Goal{sampleGoal("g1", "Get fit"), done}
	_, err = ExportMarkdown(dir, goals, testNow)
	require.NoError(t, err)
	_, err = ExportFocus(dir, goal.TodaysFocus(goals, 0), testNow)
	require.NoError(t, err)

	docs, err = ListExported(dir)
	require.NoError(t, err)
	require.Len(t, docs, 2)
	assert.Equal(t, "g2", docs[0].ID, "sorted by slug")
	assert.True(t, docs[0].IsComplete())
	assert.False(t, docs[1].IsComplete())

	f, err = LoadFocus(dir)
	require.NoError(t, err)
	assert.True(t, testNow.Equal(f.Updated))
	assert.Len(t, f.Items, 2)
}
