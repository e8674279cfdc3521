package coach

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/stefanpenner/lifeos/pkg/goal"
	"github.com/stefanpenner/lifeos/pkg/profile"
)

// ErrNoMilestones means a breakdown response lacked a milestones array.
var ErrNoMilestones = errors.New("breakdown has no milestones array")

// NormalizeLifeSummary checks each field of a decoded summary on its own,
// substituting a safe default for anything missing or malformed.
func NormalizeLifeSummary(raw map[string]any, p profile.Profile) profile.Summary {
	scores, _ := raw["score"].(map[string]any)

	narrative, _ := raw["narrative"].(string)
	if narrative == "" {
		narrative = profile.ShortNarrative(p)
	}

	return profile.Summary{
		Narrative: narrative,
		Score: profile.Score{
			Overall:      score(scores, "overall", 50),
			Productivity: score(scores, "productivity", p.Productivity*10),
			Focus:        score(scores, "focus", 50),
			Confidence:   score(scores, "confidence", 50),
			GoalProgress: score(scores, "goalProgress", profile.DefaultGoalProgress),
		},
		Insights:     stringList(raw["insights"], profile.DefaultInsights),
		Strengths:    stringList(raw["strengths"], profile.DefaultStrengths),
		Improvements: stringList(raw["improvements"], profile.DefaultImprovements),
	}
}

// score reads a 0-100 value. Numeric strings are accepted; zero and
// non-numeric values take def.
func score(m map[string]any, key string, def int) int {
	v := number(m[key])
	if v == 0 {
		v = float64(def)
	}
	return int(math.Round(math.Min(100, math.Max(0, v))))
}

// number reads a JSON number or a numeric string. Anything else is 0.
func number(v any) float64 {
	var f float64
	switch n := v.(type) {
	case float64:
		f = n
	case string:
		parsed, err := strconv.ParseFloat(strings.TrimSpace(n), 64)
		if err != nil {
			return 0
		}
		f = parsed
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0
	}
	return f
}

func text(m map[string]any, key string) string {
	switch v := m[key].(type) {
	case string:
		return v
	case nil:
		return ""
	case map[string]any, []any:
		return ""
	default:
		return fmt.Sprint(v)
	}
}

func flag(m map[string]any, key string) bool {
	b, _ := m[key].(bool)
	return b
}

// objects returns the object elements of a JSON array, skipping anything else.
// A missing or non-array value is nil.
func objects(v any) []map[string]any {
	items, ok := v.([]any)
	if !ok {
		return nil
	}
	out := make([]map[string]any, 0, len(items))
	for _, item := range items {
		if obj, ok := item.(map[string]any); ok {
			out = append(out, obj)
		}
	}
	return out
}

func stringList(v any, def []string) []string {
	items, ok := v.([]any)
	if !ok {
		return append([]string(nil), def...)
	}
	out := make([]string, 0, len(items))
	for _, item := range items {
		switch s := item.(type) {
		case string:
			out = append(out, s)
		case nil:
		default:
			out = append(out, fmt.Sprint(s))
		}
	}
	return out
}

// looseList is stringList for plan fields: a lone string becomes a one-item
// list and any other non-list value is absent.
func looseList(v any) []string {
	if s, ok := v.(string); ok {
		if s = strings.TrimSpace(s); s != "" {
			return []string{s}
		}
		return nil
	}
	if _, ok := v.([]any); !ok {
		return nil
	}
	return stringList(v, nil)
}

// NormalizeBreakdown grafts a generated plan onto g. The response must carry
// a milestones array; every other field is read on its own and a malformed
// value is dropped rather than failing the plan.
func NormalizeBreakdown(raw map[string]any, g goal.Goal) (goal.Goal, error) {
	if _, ok := raw["milestones"].([]any); !ok {
		return g, ErrNoMilestones
	}

	out := g.Clone()
	milestones := objects(raw["milestones"])
	out.Milestones = make([]goal.Milestone, 0, len(milestones))
	for i, m := range milestones {
		out.Milestones = append(out.Milestones, toMilestone(m, i))
	}

	checkpoints := objects(raw["checkpoints"])
	out.Checkpoints = make([]goal.Checkpoint, 0, len(checkpoints))
	for _, c := range checkpoints {
		out.Checkpoints = append(out.Checkpoints, goal.Checkpoint{
			ID:          text(c, "id"),
			Title:       text(c, "title"),
			Description: text(c, "description"),
			TargetDate:  text(c, "targetDate"),
			Achieved:    flag(c, "achieved"),
			MilestoneID: text(c, "milestoneId"),
		})
	}

	analysis, _ := raw["aiAnalysis"].(map[string]any)
	out.AIAnalysis = &goal.Analysis{
		Strengths:       nonNil(looseList(analysis["strengths"])),
		Challenges:      nonNil(looseList(analysis["challenges"])),
		Recommendations: nonNil(looseList(analysis["recommendations"])),
	}
	out.Progress = 0
	return goal.Recompute(out), nil
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}

// toMilestone fills ids the tree needs for toggling and drops values the
// enricher would otherwise treat as present.
func toMilestone(raw map[string]any, i int) goal.Milestone {
	m := goal.Milestone{
		ID:          text(raw, "id"),
		Title:       text(raw, "title"),
		Description: text(raw, "description"),
		Month:       int(number(raw["month"])),
		Completed:   flag(raw, "completed"),
	}
	if m.ID == "" {
		m.ID = fmt.Sprintf("milestone-%d", i+1)
	}
	if m.Month <= 0 {
		m.Month = i + 1
	}

	tasks := objects(raw["tasks"])
	m.Tasks = make([]goal.Task, 0, len(tasks))
	for j, t := range tasks {
		task := goal.Task{
			ID:             text(t, "id"),
			Title:          text(t, "title"),
			Description:    text(t, "description"),
			Completed:      flag(t, "completed"),
			DueDate:        text(t, "dueDate"),
			Priority:       goal.Priority(text(t, "priority")),
			EstimatedHours: max(number(t["estimatedHours"]), 0),
			Resources:      looseList(t["resources"]),
		}
		if task.ID == "" {
			task.ID = fmt.Sprintf("task-%d-%d", i+1, j+1)
		}
		switch task.Priority {
		case goal.PriorityLow, goal.PriorityMedium, goal.PriorityHigh:
		default:
			task.Priority = ""
		}
		m.Tasks = append(m.Tasks, task)
	}

	if _, ok := raw["subtasks"].([]any); ok {
		subtasks := objects(raw["subtasks"])
		m.Subtasks = make([]goal.Subtask, 0, len(subtasks))
		for _, st := range subtasks {
			m.Subtasks = append(m.Subtasks, goal.Subtask{
				ID:           text(st, "id"),
				Title:        text(st, "title"),
				Description:  text(st, "description"),
				Completed:    flag(st, "completed"),
				ParentTaskID: text(st, "parentTaskId"),
			})
		}
	}

	if tl, ok := raw["timeline"].(map[string]any); ok {
		timeline := &goal.Timeline{StartDate: text(tl, "startDate"), EndDate: text(tl, "endDate")}
		for _, kd := range objects(tl["keyDates"]) {
			timeline.KeyDates = append(timeline.KeyDates, goal.KeyDate{Date: text(kd, "date"), Description: text(kd, "description")})
		}
		m.Timeline = timeline
	}
	return m
}
