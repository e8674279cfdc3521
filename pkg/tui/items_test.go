package tui

import (
	"testing"

	"github.com/charmbracelet/lipgloss"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stefanpenner/lifeos/pkg/goal"
)

func treeGoals() []goal.Goal {
	return []goal.Goal{{
		ID:       "g1",
		Title:    "Run a 10k",
		Progress: 50,
		Milestones: []goal.Milestone{{
			ID:    "m1",
			Title: "Base",
			Tasks: []goal.Task{
				{ID: "t1", Title: "Walk", Completed: true},
				{ID: "t2", Title: "Jog"},
			},
			Subtasks: []goal.Subtask{{ID: "s1", Title: "Buy shoes", ParentTaskID: "t2"}},
		}},
		Checkpoints: []goal.Checkpoint{{ID: "c1", Title: "Review", MilestoneID: "m1"}},
	}, {
		ID:    "g2",
		Title: "",
	}}
}

func names(items []TreeItem) []string {
	var out []string
	for _, it := range items {
		out = append(out, it.Name)
	}
	return out
}

func TestFlattenCollapsed(t *testing.T) {
	items := FlattenVisibleItems(treeGoals(), map[string]bool{})
	assert.Equal(t, []string{"Run a 10k", "g2"}, names(items))
	assert.True(t, items[0].HasChildren)
	assert.False(t, items[1].HasChildren)
	assert.Equal(t, 50, items[0].Progress)
}

func TestFlattenExpanded(t *testing.T) {
	expanded := map[string]bool{}
	ExpandAll(treeGoals(), expanded)
	items := FlattenVisibleItems(treeGoals(), expanded)

	assert.Equal(t, []string{"Run a 10k", "Base", "Walk", "Jog", "Buy shoes", "Review", "g2"}, names(items))

	jog := items[3]
	assert.Equal(t, KindTask, jog.Kind)
	assert.Equal(t, "g1/m1/t2", jog.ID)
	assert.Equal(t, "g1/m1", jog.ParentID)
	assert.True(t, jog.HasChildren)

	shoes := items[4]
	assert.Equal(t, KindSubtask, shoes.Kind)
	assert.Equal(t, "s1", shoes.NodeID)
	assert.Equal(t, "t2", shoes.TaskID)
	assert.Equal(t, 3, shoes.Depth)

	review := items[5]
	assert.Equal(t, KindCheckpoint, review.Kind)
	assert.Equal(t, "c1", review.NodeID)
	assert.Equal(t, 1, review.Depth)

	assert.True(t, items[2].Done)
	assert.False(t, expanded["g1/m1/t1"], "tasks without subtasks are not expandable")
}

func TestFlattenWithFocus(t *testing.T) {
	goals := treeGoals()
	focus := goal.TodaysFocus(goals, 0)
	items := FlattenWithFocus(goals, focus, map[string]bool{})

	require.Len(t, items, 5)
	assert.True(t, items[0].IsSectionHeader())
	assert.Equal(t, "TODAY'S FOCUS", items[0].Name)
	assert.Equal(t, KindTask, items[1].Kind)
	assert.Equal(t, "Jog", items[1].Name)
	assert.Equal(t, "m1", items[1].MilestoneID)
	assert.True(t, items[2].IsSectionHeader())
	assert.Equal(t, 1, items[3].Depth)
	assert.Equal(t, goalsSectionID, items[3].ParentID)
}

func TestFlattenWithFocusEmpty(t *testing.T) {
	assert.Empty(t, FlattenWithFocus(nil, nil, map[string]bool{}))
}

func TestFilterVisibleItems(t *testing.T) {
	expanded := map[string]bool{}
	ExpandAll(treeGoals(), expanded)
	items := FlattenVisibleItems(treeGoals(), expanded)

	filtered := FilterVisibleItems(items, map[string]bool{"g1/m1/t2": true}, map[string]bool{"g1": true, "g1/m1": true})
	assert.Equal(t, []string{"Run a 10k", "Base", "Jog"}, names(filtered))
}

func TestKeyMapHelp(t *testing.T) {
	keys := DefaultKeyMap()
	assert.Equal(t, "↑↓ nav  ←→ fold  space toggle  x subtask  f focus done  s summary  / search  ? help", keys.ShortHelp())

	rows := keys.FullHelp()
	require.Len(t, rows, 15)
	assert.Equal(t, []string{"x", "toggle subtask"}, rows[6])
	assert.Equal(t, []string{"q", "quit"}, rows[14])
}

func TestPanelRows(t *testing.T) {
	rows := panelRows("ab\ncdef", 4, 3)
	assert.Equal(t, []string{"ab  ", "cdef", "    "}, rows)
	assert.Empty(t, panelRows("x", 4, 0))
}

func TestHighlightMatchKeepsText(t *testing.T) {
	plain := lipgloss.NewStyle()
	assert.Equal(t, "Run a run", highlightMatch("Run a run", "run", plain, plain))
	assert.Equal(t, "Run", highlightMatch("Run", "zzz", plain, plain))
	assert.Equal(t, "Run", highlightMatch("Run", "", plain, plain))
}
