package goal

import "errors"

// ErrNotFound is returned when a goal, milestone, task, subtask or checkpoint id
// does not exist in the tree.
var ErrNotFound = errors.New("not found")

// Category is the life area a goal belongs to.
type Category string

const (
	CategoryCareer        Category = "career"
	CategoryFitness       Category = "fitness"
	CategoryLearning      Category = "learning"
	CategoryFinance       Category = "finance"
	CategoryRelationships Category = "relationships"
	CategoryCreative      Category = "creative"
	CategoryOther         Category = "other"
)

// Categories lists the known categories in display order.
var Categories = []Category{
	CategoryCareer,
	CategoryFitness,
	CategoryLearning,
	CategoryFinance,
	CategoryRelationships,
	CategoryCreative,
	CategoryOther,
}

// ParseCategory maps free text onto a known category, defaulting to other.
func ParseCategory(s string) Category {
	for _, c := range Categories {
		if string(c) == s {
			return c
		}
	}
	return CategoryOther
}

// Priority ranks tasks within a milestone.
type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
)

// Goal is the root of a goal tree.
//
// Slices without omitempty distinguish "absent" (nil, JSON null) from
// "present but empty" ([]); enrichment only fills absent fields.
type Goal struct {
	ID          string       `json:"id" yaml:"id"`
	Title       string       `json:"title" yaml:"title"`
	Description string       `json:"description" yaml:"description"`
	Timeframe   string       `json:"timeframe" yaml:"timeframe"`
	Category    Category     `json:"category" yaml:"category"`
	Milestones  []Milestone  `json:"milestones" yaml:"milestones"`
	Progress    int          `json:"progress" yaml:"progress"`
	Checkpoints []Checkpoint `json:"checkpoints" yaml:"checkpoints"`
	AIAnalysis  *Analysis    `json:"aiAnalysis,omitempty" yaml:"ai_analysis,omitempty"`
}

// Analysis is the AI commentary attached to a goal.
type Analysis struct {
	Strengths       []string `json:"strengths" yaml:"strengths"`
	Challenges      []string `json:"challenges" yaml:"challenges"`
	Recommendations []string `json:"recommendations" yaml:"recommendations"`
}

// Milestone groups the tasks planned for one month of a goal.
type Milestone struct {
	ID          string    `json:"id" yaml:"id"`
	Title       string    `json:"title" yaml:"title"`
	Description string    `json:"description" yaml:"description"`
	Month       int       `json:"month" yaml:"month"`
	Tasks       []Task    `json:"tasks" yaml:"tasks"`
	Completed   bool      `json:"completed" yaml:"completed"`
	Subtasks    []Subtask `json:"subtasks" yaml:"subtasks"`
	Timeline    *Timeline `json:"timeline,omitempty" yaml:"timeline,omitempty"`
}

// Task is a single actionable item. Only tasks count toward progress.
type Task struct {
	ID             string   `json:"id" yaml:"id"`
	Title          string   `json:"title" yaml:"title"`
	Description    string   `json:"description" yaml:"description"`
	Completed      bool     `json:"completed" yaml:"completed"`
	DueDate        string   `json:"dueDate,omitempty" yaml:"due_date,omitempty"`
	Priority       Priority `json:"priority,omitempty" yaml:"priority,omitempty"`
	EstimatedHours float64  `json:"estimatedHours,omitempty" yaml:"estimated_hours,omitempty"`
	Resources      []string `json:"resources" yaml:"resources"`
}

// Subtask is a checklist item that refers to its task by id.
type Subtask struct {
	ID           string `json:"id" yaml:"id"`
	Title        string `json:"title" yaml:"title"`
	Description  string `json:"description" yaml:"description"`
	Completed    bool   `json:"completed" yaml:"completed"`
	ParentTaskID string `json:"parentTaskId" yaml:"parent_task_id"`
}

// Checkpoint is a goal-level review marker linked to a milestone.
type Checkpoint struct {
	ID          string `json:"id" yaml:"id"`
	Title       string `json:"title" yaml:"title"`
	Description string `json:"description" yaml:"description"`
	TargetDate  string `json:"targetDate" yaml:"target_date"`
	Achieved    bool   `json:"achieved" yaml:"achieved"`
	MilestoneID string `json:"milestoneId" yaml:"milestone_id"`
}

// Timeline is the planned date range of a milestone.
type Timeline struct {
	StartDate string    `json:"startDate" yaml:"start_date"`
	EndDate   string    `json:"endDate" yaml:"end_date"`
	KeyDates  []KeyDate `json:"keyDates" yaml:"key_dates"`
}

// KeyDate is a dated note on a timeline.
type KeyDate struct {
	Date        string `json:"date" yaml:"date"`
	Description string `json:"description" yaml:"description"`
}

// DateLayout is the format used for every date in a goal tree.
const DateLayout = "2006-01-02"

// IsComplete reports whether the milestone has at least one task and all are done.
func (m *Milestone) IsComplete() bool {
	if len(m.Tasks) == 0 {
		return false
	}
	for _, t := range m.Tasks {
		if !t.Completed {
			return false
		}
	}
	return true
}

// SubtasksFor returns the subtasks whose parent is the given task.
func (m *Milestone) SubtasksFor(taskID string) []Subtask {
	var out []Subtask
	for _, s := range m.Subtasks {
		if s.ParentTaskID == taskID {
			out = append(out, s)
		}
	}
	return out
}

// Find returns the goal with the given id.
func Find(goals []Goal, id string) (*Goal, bool) {
	for i := range goals {
		if goals[i].ID == id {
			return &goals[i], true
		}
	}
	return nil, false
}

// Clone returns a deep copy of the goal so callers can mutate freely.
func (g Goal) Clone() Goal {
	out := g
	if g.Milestones != nil {
		out.Milestones = make([]Milestone, len(g.Milestones))
		for i, m := range g.Milestones {
			out.Milestones[i] = m.clone()
		}
	}
	if g.Checkpoints != nil {
		out.Checkpoints = append([]Checkpoint{}, g.Checkpoints...)
	}
	if g.AIAnalysis != nil {
		a := Analysis{
			Strengths:       cloneStrings(g.AIAnalysis.Strengths),
			Challenges:      cloneStrings(g.AIAnalysis.Challenges),
			Recommendations: cloneStrings(g.AIAnalysis.Recommendations),
		}
		out.AIAnalysis = &a
	}
	return out
}

func (m Milestone) clone() Milestone {
	out := m
	if m.Tasks != nil {
		out.Tasks = make([]Task, len(m.Tasks))
		for i, t := range m.Tasks {
			t.Resources = cloneStrings(t.Resources)
			out.Tasks[i] = t
		}
	}
	if m.Subtasks != nil {
		out.Subtasks = append([]Subtask{}, m.Subtasks...)
	}
	if m.Timeline != nil {
		tl := *m.Timeline
		if tl.KeyDates != nil {
			tl.KeyDates = append([]KeyDate{}, tl.KeyDates...)
		}
		out.Timeline = &tl
	}
	return out
}

func cloneStrings(s []string) []string {
	if s == nil {
		return nil
	}
	return append([]string{}, s...)
}

// CloneAll deep-copies a list of goals.
func CloneAll(goals []Goal) []Goal {
	if goals == nil {
		return nil
	}
	out := make([]Goal, len(goals))
	for i, g := range goals {
		out[i] = g.Clone()
	}
	return out
}
