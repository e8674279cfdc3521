package goal

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// DefaultTimeframeMonths is assumed when a timeframe names no months or years.
const DefaultTimeframeMonths = 6

// maxFallbackMilestones caps the fallback plan regardless of timeframe.
const maxFallbackMilestones = 4

var (
	monthsPattern = regexp.MustCompile(`(?i)(\d+)\s*month`)
	yearsPattern  = regexp.MustCompile(`(?i)(\d+)\s*year`)
)

// ParseTimeframeMonths reads "6 months" or "2 years" style text.
func ParseTimeframeMonths(timeframe string) int {
	if m := monthsPattern.FindStringSubmatch(timeframe); m != nil {
		if n, err := strconv.Atoi(m[1]); err == nil {
			return n
		}
	}
	if m := yearsPattern.FindStringSubmatch(timeframe); m != nil {
		if n, err := strconv.Atoi(m[1]); err == nil {
			return n * 12
		}
	}
	return DefaultTimeframeMonths
}

// FallbackBreakdown builds a deterministic plan for g when AI generation is
// unavailable: up to four monthly phases of two tasks each, with a checkpoint
// after every second phase.
func FallbackBreakdown(g Goal, now time.Time) Goal {
	out := g.Clone()
	n := min(ParseTimeframeMonths(g.Timeframe), maxFallbackMilestones)

	out.Milestones = make([]Milestone, 0, n)
	out.Checkpoints = []Checkpoint{}
	for i := 0; i < n; i++ {
		phase := i + 1
		milestoneID := fmt.Sprintf("milestone-%d", phase)
		researchID := fmt.Sprintf("task-%d-1", phase)
		start := now.AddDate(0, i, 0)
		mid := time.Date(now.Year(), now.Month()+time.Month(i), 15, 0, 0, 0, 0, now.Location())

		out.Milestones = append(out.Milestones, Milestone{
			ID:          milestoneID,
			Title:       fmt.Sprintf("%s - Phase %d", g.Title, phase),
			Description: fmt.Sprintf("Work towards %s in month %d", g.Title, phase),
			Month:       phase,
			Tasks: []Task{
				{
					ID:             researchID,
					Title:          "Research and plan for " + g.Title,
					Description:    "Gather information and create a plan",
					Priority:       PriorityHigh,
					EstimatedHours: 2,
				},
				{
					ID:             fmt.Sprintf("task-%d-2", phase),
					Title:          "Take action towards " + g.Title,
					Description:    "Execute planned activities",
					Priority:       PriorityMedium,
					EstimatedHours: 4,
				},
			},
			Subtasks: []Subtask{{
				ID:           fmt.Sprintf("subtask-%d-1-1", phase),
				Title:        "Break down research for " + g.Title,
				Description:  "Identify key areas to research",
				ParentTaskID: researchID,
			}},
			Timeline: &Timeline{
				StartDate: start.Format(DateLayout),
				EndDate:   now.AddDate(0, i+1, 0).Format(DateLayout),
				KeyDates: []KeyDate{{
					Date:        mid.Format(DateLayout),
					Description: "Mid-month progress check",
				}},
			},
		})

		if i%2 == 1 {
			k := i/2 + 1
			out.Checkpoints = append(out.Checkpoints, Checkpoint{
				ID:          fmt.Sprintf("checkpoint-%d", k),
				Title:       fmt.Sprintf("Progress Review %d", k),
				Description: fmt.Sprintf("Evaluate progress after milestone %d", phase),
				TargetDate:  now.AddDate(0, i+1, 0).Format(DateLayout),
				MilestoneID: milestoneID,
			})
		}
	}

	out.AIAnalysis = &Analysis{
		Strengths:       []string{"Your clear goal definition will help with focus"},
		Challenges:      []string{"Maintaining consistency may require additional accountability"},
		Recommendations: []string{"Break down each task into smaller steps", "Schedule regular progress reviews"},
	}
	out.Progress = 0
	return out
}

type milestoneTemplate struct {
	title       string
	description string
	tasks       []string
}

var milestoneTemplates = map[Category][]milestoneTemplate{
	CategoryCareer: {
		{"Skill Assessment & Learning Plan", "Identify required skills and create a structured learning path",
			[]string{"Complete skills gap analysis", "Research industry requirements", "Choose 3 primary skills to develop", "Set up learning schedule"}},
		{"Portfolio Development", "Build a compelling portfolio showcasing your abilities",
			[]string{"Create 2-3 portfolio projects", "Write compelling project descriptions", "Get feedback from industry professionals", "Optimize for target audience"}},
		{"Network Building", "Establish valuable professional connections",
			[]string{"Join relevant professional groups", "Attend 2 networking events", "Connect with 10 industry professionals", "Schedule 3 informational interviews"}},
		{"Job Search Strategy", "Launch targeted job search and application process",
			[]string{"Optimize LinkedIn profile", "Apply to 20 relevant positions", "Prepare for common interview questions", "Follow up on applications"}},
	},
	CategoryFitness: {
		{"Foundation Building", "Establish basic fitness habits and routines",
			[]string{"Complete fitness assessment", "Set up workout schedule", "Learn proper form for basic exercises", "Track daily activity"}},
		{"Strength Development", "Build core strength and endurance",
			[]string{"Increase workout frequency", "Add progressive overload", "Track strength improvements", "Focus on consistency"}},
		{"Advanced Training", "Implement advanced techniques and specialization",
			[]string{"Introduce advanced exercises", "Optimize nutrition plan", "Set performance benchmarks", "Consider specialized training"}},
	},
	CategoryLearning: {
		{"Learning Foundation", "Set up effective learning systems and habits",
			[]string{"Choose primary learning resources", "Create study schedule", "Set up note-taking system", "Establish progress tracking"}},
		{"Deep Dive Phase", "Intensive learning and skill development",
			[]string{"Complete core curriculum", "Practice consistently", "Apply knowledge to projects", "Seek feedback and guidance"}},
		{"Mastery & Application", "Achieve proficiency and practical application",
			[]string{"Build practical projects", "Teach others what you've learned", "Join relevant communities", "Pursue advanced topics"}},
	},
}

var defaultTemplates = []milestoneTemplate{
	{"Planning & Preparation", "Set up the foundation for achieving your goal",
		[]string{"Break down goal into specific steps", "Research best practices", "Identify potential obstacles", "Create accountability system"}},
	{"Implementation Phase", "Execute your plan with consistent action",
		[]string{"Take daily action toward goal", "Track progress weekly", "Adjust strategy as needed", "Maintain motivation and momentum"}},
	{"Optimization & Growth", "Refine your approach and accelerate progress",
		[]string{"Analyze what's working best", "Optimize your processes", "Expand your efforts", "Plan for long-term sustainability"}},
}

// TemplateBreakdown builds milestones from the per-category templates used in
// offline mode. Optional structure is left for the Enricher.
func TemplateBreakdown(g Goal) Goal {
	templates, ok := milestoneTemplates[g.Category]
	if !ok {
		templates = defaultTemplates
	}
	n := min(ParseTimeframeMonths(g.Timeframe), len(templates))

	out := g.Clone()
	out.Milestones = make([]Milestone, 0, n)
	for i := 0; i < n; i++ {
		tmpl := templates[i]
		tasks := make([]Task, len(tmpl.tasks))
		for j, title := range tmpl.tasks {
			tasks[j] = Task{
				ID:          fmt.Sprintf("task-%d-%d", i, j),
				Title:       title,
				Description: fmt.Sprintf("Complete %s as part of %s", strings.ToLower(title), tmpl.title),
			}
		}
		out.Milestones = append(out.Milestones, Milestone{
			ID:          fmt.Sprintf("milestone-%d", i),
			Title:       tmpl.title,
			Description: tmpl.description,
			Month:       i + 1,
			Tasks:       tasks,
		})
	}
	out.Progress = 0
	return out
}
