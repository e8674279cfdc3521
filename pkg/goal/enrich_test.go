package goal

import (
	"math/rand/v2"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var fixedNow = time.Date(2026, time.January, 10, 9, 0, 0, 0, time.UTC)

func testEnricher() *Enricher {
	return &Enricher{
		Now:   func() time.Time { return fixedNow },
		Hours: func(string) int { return 3 },
	}
}

func bareGoal() Goal {
	return Goal{
		ID:       "g1",
		Title:    "Learn Spanish",
		Category: CategoryLearning,
		Milestones: []Milestone{
			{ID: "m0", Title: "Basics", Month: 1, Tasks: []Task{{ID: "a"}, {ID: "b"}, {ID: "c"}}},
			{ID: "m1", Title: "Conversation", Month: 2, Tasks: []Task{{ID: "d", Title: "Speak"}}},
			{ID: "m2", Title: "Reading", Month: 3},
			{ID: "m3", Title: "Fluency", Month: 4},
		},
	}
}

func TestEnrichFillsAbsentFields(t *testing.T) {
	g := testEnricher().Enrich(bareGoal())

	require.Len(t, g.Checkpoints, 2)
	assert.Equal(t, Checkpoint{
		ID:          "checkpoint-1",
		Title:       "Progress Review 1",
		Description: "Evaluate progress after milestone Conversation",
		TargetDate:  "2026-03-10",
		MilestoneID: "m1",
	}, g.Checkpoints[0])
	assert.Equal(t, "checkpoint-2", g.Checkpoints[1].ID)
	assert.Equal(t, "m3", g.Checkpoints[1].MilestoneID)

	require.NotNil(t, g.AIAnalysis)
	assert.Contains(t, g.AIAnalysis.Strengths, "Your experience in learning will be valuable")
	assert.Len(t, g.AIAnalysis.Recommendations, 3)

	m := g.Milestones[1]
	assert.Equal(t, []Subtask{
		{ID: "subtask-d-1", Title: "Prepare for Speak", Description: "Gather resources and plan for Speak", ParentTaskID: "d"},
		{ID: "subtask-d-2", Title: "Review Speak", Description: "Evaluate results of Speak", ParentTaskID: "d"},
	}, m.Subtasks)
	assert.Equal(t, &Timeline{
		StartDate: "2026-02-10",
		EndDate:   "2026-03-10",
		KeyDates:  []KeyDate{{Date: "2026-02-25", Description: "Mid-milestone progress check"}},
	}, m.Timeline)

	tasks := g.Milestones[0].Tasks
	assert.Equal(t, PriorityHigh, tasks[0].Priority)
	assert.Equal(t, PriorityMedium, tasks[1].Priority)
	assert.Equal(t, PriorityLow, tasks[2].Priority)
	assert.Equal(t, 3.0, tasks[0].EstimatedHours)
	assert.Equal(t, []string{"https://example.com/resources/learning", "Book: learning Mastery Guide"}, tasks[0].Resources)

	// milestones without tasks still get an empty, present subtask list
	assert.NotNil(t, g.Milestones[2].Subtasks)
	assert.Empty(t, g.Milestones[2].Subtasks)
}

func TestEnrichKeepsExistingValues(t *testing.T) {
	in := bareGoal()
	in.Checkpoints = []Checkpoint{}
	in.AIAnalysis = &Analysis{Strengths: []string{"mine"}}
	in.Milestones[0].Subtasks = []Subtask{{ID: "keep", ParentTaskID: "a"}}
	in.Milestones[0].Timeline = &Timeline{StartDate: "2030-01-01"}
	in.Milestones[0].Tasks[0] = Task{ID: "a", Priority: PriorityLow, EstimatedHours: 7, Resources: []string{}}

	g := testEnricher().Enrich(in)

	assert.Empty(t, g.Checkpoints)
	assert.Equal(t, []string{"mine"}, g.AIAnalysis.Strengths)
	assert.Equal(t, []Subtask{{ID: "keep", ParentTaskID: "a"}}, g.Milestones[0].Subtasks)
	assert.Equal(t, "2030-01-01", g.Milestones[0].Timeline.StartDate)
	assert.Equal(t, PriorityLow, g.Milestones[0].Tasks[0].Priority)
	assert.Equal(t, 7.0, g.Milestones[0].Tasks[0].EstimatedHours)
	assert.Empty(t, g.Milestones[0].Tasks[0].Resources)
}

func TestEnrichIsIdempotent(t *testing.T) {
	e := &Enricher{
		Now:   func() time.Time { return fixedNow },
		Hours: NewEnricher(rand.New(rand.NewPCG(1, 2))).Hours,
	}
	once := e.Enrich(bareGoal())
	twice := e.Enrich(once)
	if diff := cmp.Diff(once, twice); diff != "" {
		t.Errorf("second enrichment changed goal (-once +twice):\n%s", diff)
	}
}

func TestEnrichDoesNotTouchProgress(t *testing.T) {
	in := bareGoal()
	in.Milestones[0].Tasks[0].Completed = true
	in = Recompute(in)

	g := testEnricher().Enrich(in)
	assert.Equal(t, in.Progress, g.Progress)
	assert.True(t, g.Milestones[0].Tasks[0].Completed)
	for _, m := range g.Milestones {
		for _, s := range m.Subtasks {
			assert.False(t, s.Completed)
		}
	}
}

func TestEnrichDoesNotMutateInput(t *testing.T) {
	in := bareGoal()
	before := in.Clone()
	_ = testEnricher().Enrich(in)
	if diff := cmp.Diff(before, in); diff != "" {
		t.Errorf("input mutated (-before +after):\n%s", diff)
	}
}

func TestNewEnricherHoursInRange(t *testing.T) {
	e := NewEnricher(rand.New(rand.NewPCG(7, 7)))
	for range 100 {
		h := e.Hours("task-1-1")
		assert.GreaterOrEqual(t, h, 1)
		assert.LessOrEqual(t, h, 5)
	}
}

func TestNilEnricherUsesDefaults(t *testing.T) {
	var e *Enricher
	g := e.Enrich(bareGoal())
	require.NotNil(t, g.Milestones[0].Timeline)
	h := g.Milestones[0].Tasks[0].EstimatedHours
	assert.True(t, h >= 1 && h <= 5)
}

func TestEnrichAll(t *testing.T) {
	assert.Nil(t, testEnricher().EnrichAll(nil))
	out := testEnricher().EnrichAll([]Goal{bareGoal(), {ID: "empty"}})
	require.Len(t, out, 2)
	assert.NotNil(t, out[1].Checkpoints)
	assert.Empty(t, out[1].Checkpoints)
}

func TestStableHours(t *testing.T) {
	for _, id := range []string{"", "task-1-1", "task-2-3", "a-much-longer-task-identifier"} {
		h := StableHours(id)
		assert.GreaterOrEqual(t, h, 1, id)
		assert.LessOrEqual(t, h, 5, id)
		assert.Equal(t, h, StableHours(id), id)
	}
}

func TestDefaultEnricherAgreesAcrossCalls(t *testing.T) {
	e := NewEnricher(nil)
	e.Now = func() time.Time { return fixedNow }

	first := e.Enrich(bareGoal())
	second := e.Enrich(bareGoal())
	if diff := cmp.Diff(first, second); diff != "" {
		t.Errorf("enriching the same goal twice disagreed (-first +second):\n%s", diff)
	}
	for _, m := range first.Milestones {
		for _, task := range m.Tasks {
			assert.Equal(t, float64(StableHours(task.ID)), task.EstimatedHours, task.ID)
		}
	}
}
