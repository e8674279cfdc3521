package tui

import (
	"github.com/stefanpenner/lifeos/pkg/goal"
)

// Kind is the type of node a tree row shows.
type Kind int

const (
	KindSection Kind = iota
	KindGoal
	KindMilestone
	KindTask
	KindSubtask
	KindCheckpoint
)

// TreeItem is one row of the flattened goal tree.
type TreeItem struct {
	ID          string // unique path-based ID (e.g., "<goal>/<milestone>/<task>")
	ParentID    string // parent's ID for search ancestor tracking
	Kind        Kind
	Name        string
	Depth       int
	HasChildren bool
	IsExpanded  bool
	Done        bool
	Progress    int           // goals only
	Category    goal.Category // goals only
	Priority    goal.Priority // tasks only

	GoalID      string
	MilestoneID string
	TaskID      string
	NodeID      string // subtask or checkpoint id
}

// IsSectionHeader reports whether the row is a non-selectable header.
func (t TreeItem) IsSectionHeader() bool {
	return t.Kind == KindSection
}

const (
	focusSectionID = "__header_focus"
	goalsSectionID = "__header_goals"
)

// FlattenVisibleItems lists goals in tree order, descending into expanded
// nodes. A goal's children are its milestones followed by its checkpoints;
// a task's children are its subtasks.
func FlattenVisibleItems(goals []goal.Goal, expandedState map[string]bool) []TreeItem {
	var result []TreeItem
	for _, g := range goals {
		flattenGoal(g, 0, "", expandedState, &result)
	}
	return result
}

// FlattenWithFocus prepends today's focus tasks under a FOCUS header and
// groups the tree under a GOALS header.
func FlattenWithFocus(goals []goal.Goal, focus []goal.FocusItem, expandedState map[string]bool) []TreeItem {
	var result []TreeItem

	if len(focus) > 0 {
		result = append(result, TreeItem{ID: focusSectionID, Name: "TODAY'S FOCUS", Kind: KindSection})
		for _, f := range focus {
			result = append(result, TreeItem{
				ID:          focusSectionID + "/" + f.GoalID + "/" + f.MilestoneID + "/" + f.Task.ID,
				ParentID:    focusSectionID,
				Kind:        KindTask,
				Name:        f.Task.Title,
				Depth:       1,
				Done:        f.Task.Completed,
				Priority:    f.Task.Priority,
				GoalID:      f.GoalID,
				MilestoneID: f.MilestoneID,
				TaskID:      f.Task.ID,
			})
		}
	}

	if len(goals) > 0 {
		result = append(result, TreeItem{ID: goalsSectionID, Name: "GOALS", Kind: KindSection})
		for _, g := range goals {
			flattenGoal(g, 1, goalsSectionID, expandedState, &result)
		}
	}
	return result
}

func flattenGoal(g goal.Goal, depth int, parentID string, expandedState map[string]bool, result *[]TreeItem) {
	item := TreeItem{
		ID:          g.ID,
		ParentID:    parentID,
		Kind:        KindGoal,
		Name:        displayName(g.Title, g.ID),
		Depth:       depth,
		HasChildren: len(g.Milestones)+len(g.Checkpoints) > 0,
		IsExpanded:  expandedState[g.ID],
		Done:        g.Progress >= 100,
		Progress:    g.Progress,
		Category:    g.Category,
		GoalID:      g.ID,
	}
	*result = append(*result, item)
	if !item.HasChildren || !item.IsExpanded {
		return
	}

	for _, m := range g.Milestones {
		flattenMilestone(g.ID, m, depth+1, expandedState, result)
	}
	for _, c := range g.Checkpoints {
		*result = append(*result, TreeItem{
			ID:       g.ID + "/checkpoint/" + c.ID,
			ParentID: g.ID,
			Kind:     KindCheckpoint,
			Name:     displayName(c.Title, c.ID),
			Depth:    depth + 1,
			Done:     c.Achieved,
			GoalID:   g.ID,
			NodeID:   c.ID,
		})
	}
}

func flattenMilestone(goalID string, m goal.Milestone, depth int, expandedState map[string]bool, result *[]TreeItem) {
	id := goalID + "/" + m.ID
	item := TreeItem{
		ID:          id,
		ParentID:    goalID,
		Kind:        KindMilestone,
		Name:        displayName(m.Title, m.ID),
		Depth:       depth,
		HasChildren: len(m.Tasks) > 0,
		IsExpanded:  expandedState[id],
		Done:        m.Completed,
		GoalID:      goalID,
		MilestoneID: m.ID,
	}
	*result = append(*result, item)
	if !item.HasChildren || !item.IsExpanded {
		return
	}

	for _, t := range m.Tasks {
		taskID := id + "/" + t.ID
		subtasks := m.SubtasksFor(t.ID)
		task := TreeItem{
			ID:          taskID,
			ParentID:    id,
			Kind:        KindTask,
			Name:        displayName(t.Title, t.ID),
			Depth:       depth + 1,
			HasChildren: len(subtasks) > 0,
			IsExpanded:  expandedState[taskID],
			Done:        t.Completed,
			Priority:    t.Priority,
			GoalID:      goalID,
			MilestoneID: m.ID,
			TaskID:      t.ID,
		}
		*result = append(*result, task)
		if !task.HasChildren || !task.IsExpanded {
			continue
		}
		for _, s := range subtasks {
			*result = append(*result, TreeItem{
				ID:          taskID + "/" + s.ID,
				ParentID:    taskID,
				Kind:        KindSubtask,
				Name:        displayName(s.Title, s.ID),
				Depth:       depth + 2,
				Done:        s.Completed,
				GoalID:      goalID,
				MilestoneID: m.ID,
				TaskID:      t.ID,
				NodeID:      s.ID,
			})
		}
	}
}

func displayName(title, id string) string {
	if title != "" {
		return title
	}
	return id
}

// ExpandAll marks every goal, milestone and task with children as expanded.
func ExpandAll(goals []goal.Goal, expandedState map[string]bool) {
	for _, g := range goals {
		expandedState[g.ID] = true
		for _, m := range g.Milestones {
			id := g.ID + "/" + m.ID
			expandedState[id] = true
			for _, t := range m.Tasks {
				if len(m.SubtasksFor(t.ID)) > 0 {
					expandedState[id+"/"+t.ID] = true
				}
			}
		}
	}
}

// FilterVisibleItems filters already-flattened visible items to only include
// items whose ID is in matchIDs or ancestorIDs.
func FilterVisibleItems(items []TreeItem, matchIDs, ancestorIDs map[string]bool) []TreeItem {
	var result []TreeItem
	for _, item := range items {
		if matchIDs[item.ID] || ancestorIDs[item.ID] {
			result = append(result, item)
		}
	}
	return result
}
