package goal

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseTimeframeMonths(t *testing.T) {
	tests := []struct {
		in   string
		want int
	}{
		{"6 months", 6},
		{"3 Months", 3},
		{"1 month", 1},
		{"2 years", 24},
		{"1year", 12},
		{"18 months or 2 years", 18},
		{"soon", 6},
		{"", 6},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseTimeframeMonths(tt.in))
		})
	}
}

func TestFallbackBreakdown(t *testing.T) {
	in := Goal{ID: "g1", Title: "Become a Senior Developer", Timeframe: "6 months", Category: CategoryCareer}
	g := FallbackBreakdown(in, fixedNow)

	require.Len(t, g.Milestones, 4)
	m := g.Milestones[0]
	assert.Equal(t, "milestone-1", m.ID)
	assert.Equal(t, "Become a Senior Developer - Phase 1", m.Title)
	assert.Equal(t, 1, m.Month)
	require.Len(t, m.Tasks, 2)
	assert.Equal(t, Task{
		ID:             "task-1-1",
		Title:          "Research and plan for Become a Senior Developer",
		Description:    "Gather information and create a plan",
		Priority:       PriorityHigh,
		EstimatedHours: 2,
	}, m.Tasks[0])
	assert.Equal(t, PriorityMedium, m.Tasks[1].Priority)
	assert.Equal(t, 4.0, m.Tasks[1].EstimatedHours)
	require.Len(t, m.Subtasks, 1)
	assert.Equal(t, "task-1-1", m.Subtasks[0].ParentTaskID)

	last := g.Milestones[3]
	assert.Equal(t, "2026-04-10", last.Timeline.StartDate)
	assert.Equal(t, "2026-05-10", last.Timeline.EndDate)
	assert.Equal(t, "2026-04-15", last.Timeline.KeyDates[0].Date)

	require.Len(t, g.Checkpoints, 2)
	assert.Equal(t, "checkpoint-1", g.Checkpoints[0].ID)
	assert.Equal(t, "milestone-2", g.Checkpoints[0].MilestoneID)
	assert.Equal(t, "2026-03-10", g.Checkpoints[0].TargetDate)
	assert.Equal(t, "milestone-4", g.Checkpoints[1].MilestoneID)

	require.NotNil(t, g.AIAnalysis)
	assert.Len(t, g.AIAnalysis.Strengths, 1)
	assert.Len(t, g.AIAnalysis.Challenges, 1)
	assert.Len(t, g.AIAnalysis.Recommendations, 2)
	assert.Equal(t, 0, g.Progress)

	c, n := TaskCounts(g)
	assert.Equal(t, 0, c)
	assert.Equal(t, 8, n)
}

func TestFallbackBreakdownShortTimeframes(t *testing.T) {
	for months, want := range map[string]int{"1 month": 1, "2 months": 2, "3 months": 3, "4 months": 4, "5 years": 4} {
		g := FallbackBreakdown(Goal{Title: "x", Timeframe: months}, fixedNow)
		assert.Len(t, g.Milestones, want, months)
		assert.Len(t, g.Checkpoints, want/2, months)
	}
}

func TestFallbackBreakdownSurvivesEnrichment(t *testing.T) {
	g := FallbackBreakdown(Goal{Title: "x", Timeframe: "3 months", Category: CategoryFitness}, fixedNow)
	e := testEnricher().Enrich(g)

	assert.Equal(t, g.Checkpoints, e.Checkpoints)
	assert.Equal(t, g.AIAnalysis, e.AIAnalysis)
	assert.Equal(t, g.Milestones[0].Subtasks, e.Milestones[0].Subtasks)
	assert.Equal(t, g.Milestones[0].Timeline, e.Milestones[0].Timeline)
	assert.Equal(t, 2.0, e.Milestones[0].Tasks[0].EstimatedHours)
	assert.NotNil(t, e.Milestones[0].Tasks[0].Resources)
}

func TestTemplateBreakdown(t *testing.T) {
	tests := []struct {
		category   Category
		timeframe  string
		milestones int
		first      string
	}{
		{CategoryCareer, "6 months", 4, "Skill Assessment & Learning Plan"},
		{CategoryCareer, "2 months", 2, "Skill Assessment & Learning Plan"},
		{CategoryFitness, "1 year", 3, "Foundation Building"},
		{CategoryLearning, "6 months", 3, "Learning Foundation"},
		{CategoryFinance, "6 months", 3, "Planning & Preparation"},
	}
	for _, tt := range tests {
		t.Run(string(tt.category)+"/"+tt.timeframe, func(t *testing.T) {
			g := TemplateBreakdown(Goal{ID: "g", Title: "t", Timeframe: tt.timeframe, Category: tt.category})
			require.Len(t, g.Milestones, tt.milestones)
			assert.Equal(t, tt.first, g.Milestones[0].Title)
			for i, m := range g.Milestones {
				assert.Equal(t, i+1, m.Month)
				assert.Len(t, m.Tasks, 4)
				assert.Nil(t, m.Subtasks)
			}
			assert.Equal(t, "task-0-0", g.Milestones[0].Tasks[0].ID)
			assert.Nil(t, g.Checkpoints)
		})
	}
}

func TestTemplateBreakdownTaskDescription(t *testing.T) {
	g := TemplateBreakdown(Goal{Timeframe: "1 month", Category: CategoryCareer})
	assert.Equal(t,
		"Complete complete skills gap analysis as part of Skill Assessment & Learning Plan",
		g.Milestones[0].Tasks[0].Description)
}
