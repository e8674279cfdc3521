package goal

import (
	"fmt"
	"hash/fnv"
	"math/rand/v2"
	"strings"
	"time"
)

// Enricher fills in the optional structure of goal trees produced by an
// unreliable generator. It only ever fills absent fields.
type Enricher struct {
	// Now is the reference date for checkpoints and timelines.
	Now func() time.Time
	// Hours supplies a default estimate (1-5) for the task with the given id.
	Hours func(taskID string) int
}

// NewEnricher returns an Enricher on the wall clock. A nil rng derives hours
// from the task id, so repeated loads of an unsaved tree agree.
func NewEnricher(rng *rand.Rand) *Enricher {
	hours := StableHours
	if rng != nil {
		hours = func(string) int { return rng.IntN(5) + 1 }
	}
	return &Enricher{Now: time.Now, Hours: hours}
}

// StableHours maps a task id onto 1-5 hours.
func StableHours(taskID string) int {
	h := fnv.New32a()
	_, _ = h.Write([]byte(taskID))
	return int(h.Sum32()%5) + 1
}

func (e *Enricher) now() time.Time {
	if e == nil || e.Now == nil {
		return time.Now()
	}
	return e.Now()
}

func (e *Enricher) hours(taskID string) int {
	if e == nil || e.Hours == nil {
		return StableHours(taskID)
	}
	return e.Hours(taskID)
}

// EnrichAll enriches each goal in order.
func (e *Enricher) EnrichAll(goals []Goal) []Goal {
	if goals == nil {
		return nil
	}
	out := make([]Goal, len(goals))
	for i, g := range goals {
		out[i] = e.Enrich(g)
	}
	return out
}

// Enrich returns a copy of g with checkpoints, AI analysis, subtasks,
// timelines and per-task metadata filled in where absent.
func (e *Enricher) Enrich(g Goal) Goal {
	out := g.Clone()
	today := e.now()

	if out.Checkpoints == nil {
		out.Checkpoints = defaultCheckpoints(out.Milestones, today)
	}
	if out.AIAnalysis == nil {
		out.AIAnalysis = defaultAnalysis(out.Category)
	}

	for i := range out.Milestones {
		m := &out.Milestones[i]
		if m.Subtasks == nil {
			m.Subtasks = defaultSubtasks(m.Tasks)
		}
		if m.Timeline == nil {
			m.Timeline = defaultTimeline(m.Month, today)
		}
		for j := range m.Tasks {
			t := &m.Tasks[j]
			if t.Priority == "" {
				t.Priority = priorityForPosition(j)
			}
			if t.EstimatedHours <= 0 {
				t.EstimatedHours = float64(e.hours(t.ID))
			}
			if t.Resources == nil {
				t.Resources = defaultResources(out.Category)
			}
		}
	}
	return out
}

func defaultCheckpoints(milestones []Milestone, today time.Time) []Checkpoint {
	checkpoints := []Checkpoint{}
	for i, m := range milestones {
		if i%2 != 1 {
			continue
		}
		n := len(checkpoints) + 1
		checkpoints = append(checkpoints, Checkpoint{
			ID:          fmt.Sprintf("checkpoint-%d", n),
			Title:       fmt.Sprintf("Progress Review %d", n),
			Description: "Evaluate progress after milestone " + m.Title,
			TargetDate:  today.AddDate(0, m.Month, 0).Format(DateLayout),
			MilestoneID: m.ID,
		})
	}
	return checkpoints
}

func defaultAnalysis(category Category) *Analysis {
	return &Analysis{
		Strengths: []string{
			"Clear goal definition helps with focus",
			fmt.Sprintf("Your experience in %s will be valuable", category),
		},
		Challenges: []string{
			"Maintaining consistency may require additional accountability",
			"Time management will be critical for success",
		},
		Recommendations: []string{
			"Break down each task into smaller steps",
			"Schedule regular progress reviews",
			"Find an accountability partner for this goal",
		},
	}
}

func defaultSubtasks(tasks []Task) []Subtask {
	subtasks := make([]Subtask, 0, 2*len(tasks))
	for _, t := range tasks {
		subtasks = append(subtasks,
			Subtask{
				ID:           fmt.Sprintf("subtask-%s-1", t.ID),
				Title:        "Prepare for " + t.Title,
				Description:  "Gather resources and plan for " + t.Title,
				ParentTaskID: t.ID,
			},
			Subtask{
				ID:           fmt.Sprintf("subtask-%s-2", t.ID),
				Title:        "Review " + t.Title,
				Description:  "Evaluate results of " + t.Title,
				ParentTaskID: t.ID,
			},
		)
	}
	return subtasks
}

func defaultTimeline(month int, today time.Time) *Timeline {
	start := today.AddDate(0, month-1, 0)
	return &Timeline{
		StartDate: start.Format(DateLayout),
		EndDate:   start.AddDate(0, 1, 0).Format(DateLayout),
		KeyDates: []KeyDate{{
			Date:        start.AddDate(0, 0, 15).Format(DateLayout),
			Description: "Mid-milestone progress check",
		}},
	}
}

func priorityForPosition(i int) Priority {
	switch i {
	case 0:
		return PriorityHigh
	case 1:
		return PriorityMedium
	default:
		return PriorityLow
	}
}

func defaultResources(category Category) []string {
	return []string{
		"https://example.com/resources/" + strings.ToLower(string(category)),
		fmt.Sprintf("Book: %s Mastery Guide", category),
	}
}
