package goal

import (
	"fmt"
	"math"
)

// TaskCounts returns how many tasks are completed and how many exist across
// every milestone of the given goals.
func TaskCounts(goals ...Goal) (completed, total int) {
	for _, g := range goals {
		for _, m := range g.Milestones {
			for _, t := range m.Tasks {
				total++
				if t.Completed {
					completed++
				}
			}
		}
	}
	return completed, total
}

// Percent rounds completed/total to a whole percentage, 0 when total is 0.
func Percent(completed, total int) int {
	if total == 0 {
		return 0
	}
	return int(math.Round(100 * float64(completed) / float64(total)))
}

// Recompute returns a copy of g with every milestone's completed flag and the
// goal's progress derived from task state. Subtasks do not count.
func Recompute(g Goal) Goal {
	out := g.Clone()
	for i := range out.Milestones {
		out.Milestones[i].Completed = out.Milestones[i].IsComplete()
	}
	out.Progress = Percent(TaskCounts(out))
	return out
}

// RecomputeAll applies Recompute to every goal.
func RecomputeAll(goals []Goal) []Goal {
	out := make([]Goal, len(goals))
	for i, g := range goals {
		out[i] = Recompute(g)
	}
	return out
}

// ToggleTask flips a task's completed flag and recomputes the owning goal.
// The input is never modified.
func ToggleTask(goals []Goal, goalID, milestoneID, taskID string) ([]Goal, error) {
	out := CloneAll(goals)
	g, m, err := locate(out, goalID, milestoneID)
	if err != nil {
		return goals, err
	}
	t := findTask(m, taskID)
	if t == nil {
		return goals, fmt.Errorf("task %s in milestone %s: %w", taskID, milestoneID, ErrNotFound)
	}
	t.Completed = !t.Completed
	*g = Recompute(*g)
	return out, nil
}

// ToggleSubtask flips a subtask's completed flag. Progress is untouched.
func ToggleSubtask(goals []Goal, goalID, milestoneID, subtaskID string) ([]Goal, error) {
	out := CloneAll(goals)
	_, m, err := locate(out, goalID, milestoneID)
	if err != nil {
		return goals, err
	}
	for i := range m.Subtasks {
		if m.Subtasks[i].ID == subtaskID {
			m.Subtasks[i].Completed = !m.Subtasks[i].Completed
			return out, nil
		}
	}
	return goals, fmt.Errorf("subtask %s in milestone %s: %w", subtaskID, milestoneID, ErrNotFound)
}

// ToggleCheckpoint flips a checkpoint's achieved flag.
func ToggleCheckpoint(goals []Goal, goalID, checkpointID string) ([]Goal, error) {
	out := CloneAll(goals)
	g, ok := Find(out, goalID)
	if !ok {
		return goals, fmt.Errorf("goal %s: %w", goalID, ErrNotFound)
	}
	for i := range g.Checkpoints {
		if g.Checkpoints[i].ID == checkpointID {
			g.Checkpoints[i].Achieved = !g.Checkpoints[i].Achieved
			return out, nil
		}
	}
	return goals, fmt.Errorf("checkpoint %s in goal %s: %w", checkpointID, goalID, ErrNotFound)
}

// CompleteTask marks every task with the given id as done, wherever it lives,
// and recomputes all goals.
func CompleteTask(goals []Goal, taskID string) ([]Goal, error) {
	out := CloneAll(goals)
	found := false
	for gi := range out {
		for mi := range out[gi].Milestones {
			m := &out[gi].Milestones[mi]
			for ti := range m.Tasks {
				if m.Tasks[ti].ID == taskID {
					m.Tasks[ti].Completed = true
					found = true
				}
			}
		}
	}
	if !found {
		return goals, fmt.Errorf("task %s: %w", taskID, ErrNotFound)
	}
	return RecomputeAll(out), nil
}

// OverallProgress is the rounded mean progress of the goals, 0 for none.
func OverallProgress(goals []Goal) int {
	if len(goals) == 0 {
		return 0
	}
	sum := 0
	for _, g := range goals {
		sum += g.Progress
	}
	return int(math.Round(float64(sum) / float64(len(goals))))
}

// FocusItem is a task suggested for today, with enough context to toggle it.
type FocusItem struct {
	GoalID      string `json:"goalId"`
	GoalTitle   string `json:"goalTitle"`
	MilestoneID string `json:"milestoneId"`
	Task        Task   `json:"task"`
}

// DefaultFocusLimit is how many tasks TodaysFocus suggests when limit <= 0.
const DefaultFocusLimit = 3

// TodaysFocus picks the first incomplete task of each milestone, in tree
// order, up to limit items.
func TodaysFocus(goals []Goal, limit int) []FocusItem {
	if limit <= 0 {
		limit = DefaultFocusLimit
	}
	var items []FocusItem
	for _, g := range goals {
		for _, m := range g.Milestones {
			for _, t := range m.Tasks {
				if t.Completed {
					continue
				}
				items = append(items, FocusItem{
					GoalID:      g.ID,
					GoalTitle:   g.Title,
					MilestoneID: m.ID,
					Task:        t,
				})
				if len(items) == limit {
					return items
				}
				break
			}
		}
	}
	return items
}

func locate(goals []Goal, goalID, milestoneID string) (*Goal, *Milestone, error) {
	g, ok := Find(goals, goalID)
	if !ok {
		return nil, nil, fmt.Errorf("goal %s: %w", goalID, ErrNotFound)
	}
	for i := range g.Milestones {
		if g.Milestones[i].ID == milestoneID {
			return g, &g.Milestones[i], nil
		}
	}
	return nil, nil, fmt.Errorf("milestone %s in goal %s: %w", milestoneID, goalID, ErrNotFound)
}

func findTask(m *Milestone, taskID string) *Task {
	for i := range m.Tasks {
		if m.Tasks[i].ID == taskID {
			return &m.Tasks[i]
		}
	}
	return nil
}
