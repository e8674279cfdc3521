package app

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/stefanpenner/lifeos/pkg/coach"
	"github.com/stefanpenner/lifeos/pkg/goal"
	"github.com/stefanpenner/lifeos/pkg/profile"
	"github.com/stefanpenner/lifeos/pkg/store"
)

var testNow = time.Date(2026, 4, 6, 9, 0, 0, 0, time.UTC)

func newTestService(t *testing.T) (*Service, *store.Store) {
	t.Helper()
	st, err := store.NewStore(t.TempDir())
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.Close() })

	logger := zaptest.NewLogger(t)
	c := coach.New(nil, logger)
	c.Now = func() time.Time { return testNow }
	e := &goal.Enricher{
		Now:   func() time.Time { return testNow },
		Hours: func(string) int { return 3 },
	}
	svc := New(st, c, e, logger, "tester")
	svc.Now = func() time.Time { return testNow }
	return svc, st
}

func validProfile() profile.Profile {
	p := profile.New()
	p.Location = "Lisbon"
	p.Profession = "Engineer"
	p.Frustrations = "Too many meetings"
	p.DailyRoutine = "Code, eat, sleep"
	p.ProudHabit = "Morning walks"
	p.AvoidingWhat = "Public speaking"
	p.Goals = []goal.Goal{
		profile.NewGoal("Run a 10k", "", "3 months", "fitness"),
		profile.NewGoal("Get promoted", "", "2 months", "career"),
	}
	return p
}

func onboard(t *testing.T, svc *Service) *OnboardResult {
	t.Helper()
	res, err := svc.Onboard(context.Background(), validProfile())
	require.NoError(t, err)
	return res
}

func TestOnboardRejectsInvalidProfile(t *testing.T) {
	svc, st := newTestService(t)
	p := validProfile()
	p.Profession = ""

	_, err := svc.Onboard(context.Background(), p)
	var verr *profile.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "profession", verr.Field)

	saved, err := st.LoadProfile(context.Background(), "tester")
	require.NoError(t, err)
	assert.Nil(t, saved)
}

func TestOnboardPersistsEverything(t *testing.T) {
	svc, st := newTestService(t)
	ctx := context.Background()
	res := onboard(t, svc)

	require.Len(t, res.Goals, 2)
	assert.Len(t, res.Goals[0].Milestones, 3)
	assert.Len(t, res.Goals[1].Milestones, 2)
	assert.NotEmpty(t, res.Summary.Narrative)
	require.NotNil(t, res.Profile.Streak)
	assert.Equal(t, 1, res.Profile.Streak.Current)

	goals, err := st.LoadGoals(ctx, "tester")
	require.NoError(t, err)
	require.Len(t, goals, 2)
	assert.Equal(t, "Run a 10k", goals[0].Title)
	assert.NotNil(t, goals[0].AIAnalysis, "goals are enriched before saving")

	summary, err := st.LoadSummary(ctx, "tester")
	require.NoError(t, err)
	require.NotNil(t, summary)
	assert.Equal(t, res.Summary, *summary)
}

func TestDashboardRequiresOnboarding(t *testing.T) {
	svc, _ := newTestService(t)
	_, err := svc.Dashboard(context.Background())
	assert.ErrorIs(t, err, ErrNotOnboarded)
}

func TestDashboard(t *testing.T) {
	svc, _ := newTestService(t)
	onboard(t, svc)

	d, err := svc.Dashboard(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 0, d.OverallProgress)
	assert.Equal(t, 0, d.CompletedTasks)
	assert.Equal(t, 20, d.TotalTasks)
	require.Len(t, d.Focus, 3)
	assert.Equal(t, "milestone-0", d.Focus[0].MilestoneID)
	assert.Equal(t, "milestone-1", d.Focus[1].MilestoneID)
	assert.Equal(t, 1, d.Streak.Current)
	require.NotNil(t, d.Summary)
	assert.Len(t, d.Profile.Goals, 2)
}

func TestToggleTaskPersistsProgress(t *testing.T) {
	svc, st := newTestService(t)
	ctx := context.Background()
	res := onboard(t, svc)
	g := res.Goals[0]

	goals, err := svc.ToggleTask(ctx, g.ID, "milestone-0", "task-0-0")
	require.NoError(t, err)
	assert.Equal(t, 8, goals[0].Progress) // 1 of 12

	stored, err := st.LoadGoals(ctx, "tester")
	require.NoError(t, err)
	assert.True(t, stored[0].Milestones[0].Tasks[0].Completed)
	assert.Equal(t, 8, stored[0].Progress)
	assert.Equal(t, 0, stored[1].Progress)

	goals, err = svc.ToggleTask(ctx, g.ID, "milestone-0", "task-0-0")
	require.NoError(t, err)
	assert.Equal(t, 0, goals[0].Progress)
}

func TestToggleUnknownIDLeavesStoreUntouched(t *testing.T) {
	svc, st := newTestService(t)
	ctx := context.Background()
	res := onboard(t, svc)

	before, err := st.LoadGoals(ctx, "tester")
	require.NoError(t, err)

	_, err = svc.ToggleTask(ctx, res.Goals[0].ID, "milestone-0", "nope")
	assert.ErrorIs(t, err, goal.ErrNotFound)
	_, err = svc.ToggleSubtask(ctx, "nope", "milestone-0", "x")
	assert.ErrorIs(t, err, goal.ErrNotFound)
	_, err = svc.ToggleCheckpoint(ctx, res.Goals[0].ID, "nope")
	assert.ErrorIs(t, err, goal.ErrNotFound)

	after, err := st.LoadGoals(ctx, "tester")
	require.NoError(t, err)
	assert.Equal(t, before, after)
}

func TestToggleSubtaskAndCheckpoint(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()
	g := onboard(t, svc).Goals[0]
	sub := g.Milestones[0].Subtasks[0]
	require.NotEmpty(t, g.Checkpoints)
	cp := g.Checkpoints[0]

	goals, err := svc.ToggleSubtask(ctx, g.ID, "milestone-0", sub.ID)
	require.NoError(t, err)
	assert.True(t, goals[0].Milestones[0].Subtasks[0].Completed)
	assert.Equal(t, 0, goals[0].Progress, "subtasks do not count toward progress")

	goals, err = svc.ToggleCheckpoint(ctx, g.ID, cp.ID)
	require.NoError(t, err)
	assert.True(t, goals[0].Checkpoints[0].Achieved)
}

func TestCompleteFocus(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()
	onboard(t, svc)

	item, goals, err := svc.CompleteFocus(ctx)
	require.NoError(t, err)
	assert.Equal(t, "task-0-0", item.Task.ID)
	assert.True(t, goals[0].Milestones[0].Tasks[0].Completed)

	item, _, err = svc.CompleteFocus(ctx)
	require.NoError(t, err)
	assert.Equal(t, "task-0-1", item.Task.ID)
}

func TestCompleteTask(t *testing.T) {
	svc, _ := newTestService(t)
	onboard(t, svc)

	goals, err := svc.CompleteTask(context.Background(), "task-1-0")
	require.NoError(t, err)
	// Template task ids repeat across goals; every match completes.
	assert.True(t, goals[0].Milestones[1].Tasks[0].Completed)
	assert.True(t, goals[1].Milestones[1].Tasks[0].Completed)

	_, err = svc.CompleteTask(context.Background(), "missing")
	assert.ErrorIs(t, err, goal.ErrNotFound)
}

func TestAddAndDeleteGoal(t *testing.T) {
	svc, st := newTestService(t)
	ctx := context.Background()
	onboard(t, svc)

	_, err := svc.AddGoal(ctx, goal.Goal{Title: "No timeframe"})
	var verr *profile.ValidationError
	require.ErrorAs(t, err, &verr)

	added, err := svc.AddGoal(ctx, goal.Goal{Title: "Learn Go", Timeframe: "1 month", Category: goal.CategoryLearning})
	require.NoError(t, err)
	assert.NotEmpty(t, added.ID)
	assert.Len(t, added.Milestones, 1)

	goals, err := st.LoadGoals(ctx, "tester")
	require.NoError(t, err)
	require.Len(t, goals, 3)
	assert.Equal(t, added.ID, goals[2].ID)

	_, err = svc.AddGoal(ctx, added)
	assert.Error(t, err, "duplicate ids are rejected")

	require.NoError(t, svc.DeleteGoal(ctx, goals[0].ID))
	goals, err = st.LoadGoals(ctx, "tester")
	require.NoError(t, err)
	assert.Len(t, goals, 2)
	assert.ErrorIs(t, svc.DeleteGoal(ctx, "missing"), goal.ErrNotFound)
}

func TestTouchStreak(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()
	onboard(t, svc)

	s, changed, err := svc.TouchStreak(ctx)
	require.NoError(t, err)
	assert.False(t, changed, "already touched at onboarding")
	assert.Equal(t, 1, s.Current)

	svc.Now = func() time.Time { return testNow.AddDate(0, 0, 1) }
	s, changed, err = svc.TouchStreak(ctx)
	require.NoError(t, err)
	assert.True(t, changed)
	assert.Equal(t, profile.Streak{Current: 2, LastLoginDate: "2026-04-07", TotalDays: 2}, s)

	d, err := svc.Dashboard(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, d.Streak.Current)
}

func TestTouchStreakRequiresProfile(t *testing.T) {
	svc, _ := newTestService(t)
	_, _, err := svc.TouchStreak(context.Background())
	assert.True(t, errors.Is(err, ErrNotOnboarded))
}

func TestResourcesGeneratesOnce(t *testing.T) {
	svc, st := newTestService(t)
	ctx := context.Background()
	onboard(t, svc)

	recs, err := svc.Resources(ctx)
	require.NoError(t, err)
	assert.NotEmpty(t, recs.Books)

	stored, err := st.LoadResources(ctx, "tester")
	require.NoError(t, err)
	require.NotNil(t, stored)
	assert.Len(t, stored.Books, len(recs.Books))

	again, err := svc.Resources(ctx)
	require.NoError(t, err)
	assert.True(t, recs.LastUpdated.Equal(again.LastUpdated))
}

func TestRegenerateSummary(t *testing.T) {
	svc, st := newTestService(t)
	ctx := context.Background()
	onboard(t, svc)

	summary, err := svc.RegenerateSummary(ctx)
	require.NoError(t, err)
	stored, err := st.LoadSummary(ctx, "tester")
	require.NoError(t, err)
	assert.Equal(t, summary, *stored)
}

func TestExportMarkdown(t *testing.T) {
	svc, _ := newTestService(t)
	onboard(t, svc)
	dir := t.TempDir()

	paths, err := svc.ExportMarkdown(context.Background(), dir)
	require.NoError(t, err)
	require.Len(t, paths, 3)
	assert.Equal(t, filepath.Join(dir, "goals", "run-a-10k", "goal.md"), paths[0])
	assert.Equal(t, filepath.Join(dir, "focus.md"), paths[2])
	for _, p := range paths {
		_, err := os.Stat(p)
		assert.NoError(t, err)
	}
}

func TestDashboardHoursStableAcrossReloads(t *testing.T) {
	svc, st := newTestService(t)
	ctx := context.Background()
	onboard(t, svc)

	goals, err := st.LoadGoals(ctx, "tester")
	require.NoError(t, err)
	for gi := range goals {
		for mi := range goals[gi].Milestones {
			for ti := range goals[gi].Milestones[mi].Tasks {
				goals[gi].Milestones[mi].Tasks[ti].EstimatedHours = 0
			}
		}
	}
	require.NoError(t, st.SaveGoals(ctx, "tester", goals))

	svc.Enricher = goal.NewEnricher(nil)
	svc.Enricher.Now = func() time.Time { return testNow }

	first, err := svc.Dashboard(ctx)
	require.NoError(t, err)
	second, err := svc.Dashboard(ctx)
	require.NoError(t, err)
	assert.Equal(t, first.Goals, second.Goals)

	task := first.Goals[0].Milestones[0].Tasks[0]
	assert.Equal(t, float64(goal.StableHours(task.ID)), task.EstimatedHours)
}
