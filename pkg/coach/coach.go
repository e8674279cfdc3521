package coach

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/stefanpenner/lifeos/pkg/goal"
	"github.com/stefanpenner/lifeos/pkg/llmjson"
	"github.com/stefanpenner/lifeos/pkg/profile"
	"github.com/stefanpenner/lifeos/pkg/resources"
)

// maxParallelBreakdowns bounds concurrent gateway calls.
const maxParallelBreakdowns = 4

// Coach generates content through an Analyzer. None of its methods fail:
// any gateway or parse error degrades to deterministic output. A Coach
// without an Analyzer runs offline on the built-in templates.
type Coach struct {
	analyzer Analyzer
	logger   *zap.Logger

	// Now dates fallback plans and reading lists.
	Now func() time.Time
	// Pick chooses the offline narrative; nil picks the first.
	Pick profile.Picker
}

// New returns a Coach. A nil analyzer means offline mode.
func New(analyzer Analyzer, logger *zap.Logger) *Coach {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Coach{analyzer: analyzer, logger: logger, Now: time.Now}
}

// Offline reports whether the coach uses templates only.
func (c *Coach) Offline() bool { return c.analyzer == nil }

func (c *Coach) now() time.Time {
	if c.Now == nil {
		return time.Now()
	}
	return c.Now()
}

// GenerateLifeSummary assesses the profile.
func (c *Coach) GenerateLifeSummary(ctx context.Context, p profile.Profile) profile.Summary {
	if c.Offline() {
		return profile.TemplateSummary(p, c.Pick)
	}
	raw, err := c.analyze(ctx, TypeLifeSummary, p)
	if err != nil {
		c.logger.Warn("life summary generation failed, using fallback", zap.Error(err))
		return profile.FallbackSummary(p)
	}
	return NormalizeLifeSummary(raw, p)
}

// GenerateBreakdown plans milestones for g.
func (c *Coach) GenerateBreakdown(ctx context.Context, g goal.Goal) goal.Goal {
	if c.Offline() {
		return goal.TemplateBreakdown(g)
	}
	raw, err := c.analyze(ctx, TypeGoalBreakdown, g)
	if err == nil {
		var out goal.Goal
		if out, err = NormalizeBreakdown(raw, g); err == nil {
			return out
		}
	}
	c.logger.Warn("goal breakdown failed, using fallback",
		zap.String("goal_id", g.ID), zap.String("title", g.Title), zap.Error(err))
	return goal.FallbackBreakdown(g, c.now())
}

// GenerateBreakdowns plans every goal concurrently, preserving order.
func (c *Coach) GenerateBreakdowns(ctx context.Context, goals []goal.Goal) []goal.Goal {
	out := make([]goal.Goal, len(goals))
	eg, egCtx := errgroup.WithContext(ctx)
	eg.SetLimit(maxParallelBreakdowns)
	for i, g := range goals {
		eg.Go(func() error {
			out[i] = c.GenerateBreakdown(egCtx, g)
			return nil
		})
	}
	_ = eg.Wait()
	return out
}

type recommendationRequest struct {
	Profile profile.Profile `json:"profile"`
	Goals   []goal.Goal     `json:"goals"`
}

type rawRecommendations struct {
	Books            []resources.Book `json:"books"`
	PersonalizedNote string           `json:"personalizedNote"`
}

// Recommend builds a reading list for the profile's goals.
func (c *Coach) Recommend(ctx context.Context, p profile.Profile, goals []goal.Goal) resources.Recommendations {
	if c.Offline() {
		return resources.Default(c.now())
	}
	recs, err := c.recommend(ctx, p, goals)
	if err != nil {
		c.logger.Warn("book recommendations failed, using defaults", zap.Error(err))
		return resources.Default(c.now())
	}
	return recs
}

func (c *Coach) recommend(ctx context.Context, p profile.Profile, goals []goal.Goal) (resources.Recommendations, error) {
	content, err := c.analyzer.Analyze(ctx, TypeBookRecommendations, recommendationRequest{Profile: p, Goals: goals})
	if err != nil {
		return resources.Recommendations{}, err
	}
	var raw rawRecommendations
	if err := llmjson.Decode(content, &raw); err != nil {
		return resources.Recommendations{}, err
	}
	if len(raw.Books) == 0 {
		return resources.Recommendations{}, fmt.Errorf("no books in response")
	}
	for i := range raw.Books {
		if raw.Books[i].ID == "" {
			raw.Books[i].ID = fmt.Sprint(i + 1)
		}
	}
	note := raw.PersonalizedNote
	if note == "" {
		note = resources.DefaultNote
	}
	return resources.Recommendations{
		Books:            raw.Books,
		PersonalizedNote: note,
		LastUpdated:      c.now().UTC(),
	}, nil
}

// analyze fetches content and decodes it as a JSON object.
func (c *Coach) analyze(ctx context.Context, typ RequestType, data any) (map[string]any, error) {
	content, err := c.analyzer.Analyze(ctx, typ, data)
	if err != nil {
		return nil, err
	}
	doc, err := llmjson.Extract(content)
	if err != nil {
		return nil, err
	}
	var raw map[string]any
	if err := json.Unmarshal([]byte(doc), &raw); err != nil {
		return nil, fmt.Errorf("%s response is not an object: %w", typ, err)
	}
	return raw, nil
}
