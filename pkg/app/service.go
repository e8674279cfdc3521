// Package app ties persistence, the coach and the enrichment pass into the
// operations the CLI and dashboard run.
package app

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/stefanpenner/lifeos/pkg/coach"
	"github.com/stefanpenner/lifeos/pkg/goal"
	"github.com/stefanpenner/lifeos/pkg/profile"
	"github.com/stefanpenner/lifeos/pkg/resources"
	"github.com/stefanpenner/lifeos/pkg/store"
)

// ErrNotOnboarded is returned by operations that need a saved profile.
var ErrNotOnboarded = errors.New("no profile yet: run `lifeos onboard` first")

// Repository is the persistence the service needs. *store.Store
// implements it.
type Repository interface {
	SaveProfile(ctx context.Context, userID string, p profile.Profile) error
	LoadProfile(ctx context.Context, userID string) (*profile.Profile, error)
	SaveSummary(ctx context.Context, userID string, s profile.Summary) error
	LoadSummary(ctx context.Context, userID string) (*profile.Summary, error)
	SaveGoals(ctx context.Context, userID string, goals []goal.Goal) error
	LoadGoals(ctx context.Context, userID string) ([]goal.Goal, error)
	SaveResources(ctx context.Context, userID string, recs resources.Recommendations) error
	LoadResources(ctx context.Context, userID string) (*resources.Recommendations, error)
}

var _ Repository = (*store.Store)(nil)

// Service runs user-facing operations for one user.
type Service struct {
	Store    Repository
	Coach    *coach.Coach
	Enricher *goal.Enricher
	Logger   *zap.Logger
	UserID   string
	Now      func() time.Time
}

// New returns a Service. A nil coach runs offline, a nil enricher uses the
// wall clock and a nil logger discards output.
func New(repo Repository, c *coach.Coach, e *goal.Enricher, logger *zap.Logger, userID string) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	if c == nil {
		c = coach.New(nil, logger)
	}
	if e == nil {
		e = goal.NewEnricher(nil)
	}
	return &Service{
		Store:    repo,
		Coach:    c,
		Enricher: e,
		Logger:   logger,
		UserID:   userID,
		Now:      time.Now,
	}
}

func (s *Service) now() time.Time {
	if s.Now == nil {
		return time.Now()
	}
	return s.Now()
}

// OnboardResult is what onboarding produced and saved.
type OnboardResult struct {
	Profile profile.Profile `json:"profile"`
	Summary profile.Summary `json:"summary"`
	Goals   []goal.Goal     `json:"goals"`
}

// Onboard validates the profile, generates the life summary and then every
// goal's breakdown in parallel, and persists profile, summary and goals.
func (s *Service) Onboard(ctx context.Context, p profile.Profile) (*OnboardResult, error) {
	if err := profile.Validate(p); err != nil {
		return nil, err
	}

	summary := s.Coach.GenerateLifeSummary(ctx, p)
	goals := s.Enricher.EnrichAll(s.Coach.GenerateBreakdowns(ctx, p.Goals))
	if goals == nil {
		goals = []goal.Goal{}
	}
	streak, _ := p.Streak.Touch(s.now())
	p.Streak = &streak
	p.Goals = goals

	if err := s.Store.SaveProfile(ctx, s.UserID, p); err != nil {
		return nil, fmt.Errorf("saving profile: %w", err)
	}
	if err := s.Store.SaveSummary(ctx, s.UserID, summary); err != nil {
		return nil, fmt.Errorf("saving summary: %w", err)
	}
	if err := s.Store.SaveGoals(ctx, s.UserID, goals); err != nil {
		return nil, fmt.Errorf("saving goals: %w", err)
	}

	s.Logger.Info("onboarding complete",
		zap.String("user", s.UserID),
		zap.Int("goals", len(goals)),
		zap.Int("overall", summary.Score.Overall))
	return &OnboardResult{Profile: p, Summary: summary, Goals: goals}, nil
}

// Dashboard is the loaded state of the main screen.
type Dashboard struct {
	Profile         profile.Profile  `json:"profile"`
	Summary         *profile.Summary `json:"summary,omitempty"`
	Goals           []goal.Goal      `json:"goals"`
	OverallProgress int              `json:"overallProgress"`
	CompletedTasks  int              `json:"completedTasks"`
	TotalTasks      int              `json:"totalTasks"`
	Focus           []goal.FocusItem `json:"focus"`
	Streak          profile.Streak   `json:"streak"`
}

// Dashboard loads profile, summary and goals and derives the aggregates.
// Goals are enriched in memory; enrichment is persisted by the next write.
func (s *Service) Dashboard(ctx context.Context) (*Dashboard, error) {
	p, err := s.profile(ctx)
	if err != nil {
		return nil, err
	}
	summary, err := s.Store.LoadSummary(ctx, s.UserID)
	if err != nil {
		return nil, err
	}
	goals, err := s.Goals(ctx)
	if err != nil {
		return nil, err
	}

	completed, total := goal.TaskCounts(goals...)
	d := &Dashboard{
		Profile:         *p,
		Summary:         summary,
		Goals:           goals,
		OverallProgress: goal.OverallProgress(goals),
		CompletedTasks:  completed,
		TotalTasks:      total,
		Focus:           goal.TodaysFocus(goals, goal.DefaultFocusLimit),
	}
	if p.Streak != nil {
		d.Streak = *p.Streak
	}
	d.Profile.Goals = goals
	return d, nil
}

// Goals returns the user's enriched goals.
func (s *Service) Goals(ctx context.Context) ([]goal.Goal, error) {
	goals, err := s.Store.LoadGoals(ctx, s.UserID)
	if err != nil {
		return nil, err
	}
	return s.Enricher.EnrichAll(goals), nil
}

// Goal returns one enriched goal.
func (s *Service) Goal(ctx context.Context, goalID string) (goal.Goal, error) {
	goals, err := s.Goals(ctx)
	if err != nil {
		return goal.Goal{}, err
	}
	g, ok := goal.Find(goals, goalID)
	if !ok {
		return goal.Goal{}, fmt.Errorf("goal %s: %w", goalID, goal.ErrNotFound)
	}
	return *g, nil
}

// Summary returns the saved life summary, or nil before onboarding.
func (s *Service) Summary(ctx context.Context) (*profile.Summary, error) {
	return s.Store.LoadSummary(ctx, s.UserID)
}

// RegenerateSummary asks the coach for a fresh summary of the saved profile.
func (s *Service) RegenerateSummary(ctx context.Context) (profile.Summary, error) {
	p, err := s.profile(ctx)
	if err != nil {
		return profile.Summary{}, err
	}
	goals, err := s.Store.LoadGoals(ctx, s.UserID)
	if err != nil {
		return profile.Summary{}, err
	}
	p.Goals = goals
	summary := s.Coach.GenerateLifeSummary(ctx, *p)
	if err := s.Store.SaveSummary(ctx, s.UserID, summary); err != nil {
		return profile.Summary{}, fmt.Errorf("saving summary: %w", err)
	}
	return summary, nil
}

// ToggleTask flips a task and saves the recomputed goals.
func (s *Service) ToggleTask(ctx context.Context, goalID, milestoneID, taskID string) ([]goal.Goal, error) {
	return s.mutate(ctx, "toggle task", func(goals []goal.Goal) ([]goal.Goal, error) {
		return goal.ToggleTask(goals, goalID, milestoneID, taskID)
	})
}

// ToggleSubtask flips a subtask and saves.
func (s *Service) ToggleSubtask(ctx context.Context, goalID, milestoneID, subtaskID string) ([]goal.Goal, error) {
	return s.mutate(ctx, "toggle subtask", func(goals []goal.Goal) ([]goal.Goal, error) {
		return goal.ToggleSubtask(goals, goalID, milestoneID, subtaskID)
	})
}

// ToggleCheckpoint flips a checkpoint and saves.
func (s *Service) ToggleCheckpoint(ctx context.Context, goalID, checkpointID string) ([]goal.Goal, error) {
	return s.mutate(ctx, "toggle checkpoint", func(goals []goal.Goal) ([]goal.Goal, error) {
		return goal.ToggleCheckpoint(goals, goalID, checkpointID)
	})
}

// CompleteTask marks a task done wherever it appears and saves.
func (s *Service) CompleteTask(ctx context.Context, taskID string) ([]goal.Goal, error) {
	return s.mutate(ctx, "complete task", func(goals []goal.Goal) ([]goal.Goal, error) {
		return goal.CompleteTask(goals, taskID)
	})
}

// CompleteFocus marks the first of today's focus tasks done. It returns
// goal.ErrNotFound when nothing is left to do.
func (s *Service) CompleteFocus(ctx context.Context) (goal.FocusItem, []goal.Goal, error) {
	var done goal.FocusItem
	goals, err := s.mutate(ctx, "complete focus", func(goals []goal.Goal) ([]goal.Goal, error) {
		focus := goal.TodaysFocus(goals, 1)
		if len(focus) == 0 {
			return goals, fmt.Errorf("focus task: %w", goal.ErrNotFound)
		}
		done = focus[0]
		return goal.ToggleTask(goals, done.GoalID, done.MilestoneID, done.Task.ID)
	})
	return done, goals, err
}

// Enrich persists the enrichment of every goal.
func (s *Service) Enrich(ctx context.Context) ([]goal.Goal, error) {
	return s.mutate(ctx, "enrich", func(goals []goal.Goal) ([]goal.Goal, error) {
		return goals, nil
	})
}

// AddGoal generates a breakdown for a new goal and appends it.
func (s *Service) AddGoal(ctx context.Context, g goal.Goal) (goal.Goal, error) {
	if err := profile.ValidateNewGoal(g); err != nil {
		return goal.Goal{}, err
	}
	if g.ID == "" {
		g = profile.NewGoal(g.Title, g.Description, g.Timeframe, string(g.Category))
	}
	planned := s.Enricher.Enrich(s.Coach.GenerateBreakdown(ctx, g))

	_, err := s.mutate(ctx, "add goal", func(goals []goal.Goal) ([]goal.Goal, error) {
		if _, exists := goal.Find(goals, planned.ID); exists {
			return goals, fmt.Errorf("goal %s already exists", planned.ID)
		}
		return append(goals, planned), nil
	})
	if err != nil {
		return goal.Goal{}, err
	}
	return planned, nil
}

// DeleteGoal removes a goal.
func (s *Service) DeleteGoal(ctx context.Context, goalID string) error {
	_, err := s.mutate(ctx, "delete goal", func(goals []goal.Goal) ([]goal.Goal, error) {
		for i := range goals {
			if goals[i].ID == goalID {
				return append(goals[:i:i], goals[i+1:]...), nil
			}
		}
		return goals, fmt.Errorf("goal %s: %w", goalID, goal.ErrNotFound)
	})
	return err
}

// TouchStreak records today's visit. It reports whether the streak changed.
func (s *Service) TouchStreak(ctx context.Context) (profile.Streak, bool, error) {
	p, err := s.profile(ctx)
	if err != nil {
		return profile.Streak{}, false, err
	}
	streak, changed := p.Streak.Touch(s.now())
	if !changed {
		return streak, false, nil
	}
	p.Streak = &streak
	if err := s.Store.SaveProfile(ctx, s.UserID, *p); err != nil {
		return profile.Streak{}, false, fmt.Errorf("saving streak: %w", err)
	}
	s.Logger.Debug("streak updated", zap.Int("current", streak.Current), zap.Int("total", streak.TotalDays))
	return streak, true, nil
}

// Resources returns the saved reading list, generating one if none exists.
func (s *Service) Resources(ctx context.Context) (resources.Recommendations, error) {
	recs, err := s.Store.LoadResources(ctx, s.UserID)
	if err != nil {
		return resources.Recommendations{}, err
	}
	if !recs.Empty() {
		return *recs, nil
	}
	return s.RefreshResources(ctx)
}

// RefreshResources asks the coach for a new reading list and saves it.
func (s *Service) RefreshResources(ctx context.Context) (resources.Recommendations, error) {
	p, err := s.profile(ctx)
	if err != nil {
		return resources.Recommendations{}, err
	}
	goals, err := s.Store.LoadGoals(ctx, s.UserID)
	if err != nil {
		return resources.Recommendations{}, err
	}
	recs := s.Coach.Recommend(ctx, *p, goals)
	if err := s.Store.SaveResources(ctx, s.UserID, recs); err != nil {
		return resources.Recommendations{}, fmt.Errorf("saving resources: %w", err)
	}
	return recs, nil
}

// ExportMarkdown writes every goal and today's focus list under dir.
func (s *Service) ExportMarkdown(ctx context.Context, dir string) ([]string, error) {
	goals, err := s.Goals(ctx)
	if err != nil {
		return nil, err
	}
	now := s.now()
	paths, err := store.ExportMarkdown(dir, goals, now)
	if err != nil {
		return paths, err
	}
	focus, err := store.ExportFocus(dir, goal.TodaysFocus(goals, goal.DefaultFocusLimit), now)
	if err != nil {
		return paths, err
	}
	s.Logger.Info("exported goals", zap.String("dir", dir), zap.Int("goals", len(goals)))
	return append(paths, focus), nil
}

// mutate loads and enriches the goals, applies fn and saves the result.
// Nothing is written when fn fails.
func (s *Service) mutate(ctx context.Context, op string, fn func([]goal.Goal) ([]goal.Goal, error)) ([]goal.Goal, error) {
	goals, err := s.Goals(ctx)
	if err != nil {
		return nil, err
	}
	updated, err := fn(goals)
	if err != nil {
		return nil, err
	}
	if err := s.Store.SaveGoals(ctx, s.UserID, updated); err != nil {
		return nil, fmt.Errorf("%s: saving goals: %w", op, err)
	}
	s.Logger.Debug(op, zap.String("user", s.UserID), zap.Int("goals", len(updated)))
	return updated, nil
}

func (s *Service) profile(ctx context.Context) (*profile.Profile, error) {
	p, err := s.Store.LoadProfile(ctx, s.UserID)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, ErrNotOnboarded
	}
	return p, nil
}
