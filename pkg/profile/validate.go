package profile

import (
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/stefanpenner/lifeos/pkg/goal"
)

// Onboarding steps.
const (
	StepBasics = iota
	StepAudit
	StepGoals
	StepConfirm

	NumSteps
)

// ValidationError names the field that blocks progress.
type ValidationError struct {
	Step    int
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("step %d: %s: %s", e.Step, e.Field, e.Message)
}

func required(step int, field, value string) error {
	if strings.TrimSpace(value) == "" {
		return &ValidationError{Step: step, Field: field, Message: "required"}
	}
	return nil
}

// ValidateStep reports whether the given onboarding step is complete.
func ValidateStep(step int, p Profile) error {
	switch step {
	case StepBasics:
		if p.Age <= 0 {
			return &ValidationError{Step: step, Field: "age", Message: "must be positive"}
		}
		if err := required(step, "profession", p.Profession); err != nil {
			return err
		}
		return required(step, "location", p.Location)
	case StepAudit:
		for _, f := range []struct{ name, value string }{
			{"frustrations", p.Frustrations},
			{"dailyRoutine", p.DailyRoutine},
			{"proudHabit", p.ProudHabit},
			{"avoidingWhat", p.AvoidingWhat},
		} {
			if err := required(step, f.name, f.value); err != nil {
				return err
			}
		}
		return nil
	case StepGoals:
		if len(p.Goals) == 0 {
			return &ValidationError{Step: step, Field: "goals", Message: "add at least one goal"}
		}
		return nil
	case StepConfirm:
		return nil
	default:
		return &ValidationError{Step: step, Field: "step", Message: "unknown step"}
	}
}

// Validate runs every onboarding step plus the rating range check.
func Validate(p Profile) error {
	for step := StepBasics; step < NumSteps; step++ {
		if err := ValidateStep(step, p); err != nil {
			return err
		}
	}
	return ValidateRatings(p.Ratings)
}

// ValidateRatings requires every rating in 1-10.
func ValidateRatings(r Ratings) error {
	for _, f := range []struct {
		name  string
		value int
	}{
		{"productivity", r.Productivity},
		{"health", r.Health},
		{"motivation", r.Motivation},
		{"mentalHealth", r.MentalHealth},
		{"careerDirection", r.CareerDirection},
	} {
		if f.value < 1 || f.value > 10 {
			return &ValidationError{Step: StepAudit, Field: f.name, Message: fmt.Sprintf("rating %d out of range 1-10", f.value)}
		}
	}
	return nil
}

// ValidateNewGoal checks the fields a user must fill before adding a goal.
func ValidateNewGoal(g goal.Goal) error {
	if err := required(StepGoals, "title", g.Title); err != nil {
		return err
	}
	return required(StepGoals, "timeframe", g.Timeframe)
}

// NewGoal creates an unplanned goal with a fresh id.
func NewGoal(title, description, timeframe, category string) goal.Goal {
	return goal.Goal{
		ID:          uuid.NewString(),
		Title:       strings.TrimSpace(title),
		Description: strings.TrimSpace(description),
		Timeframe:   strings.TrimSpace(timeframe),
		Category:    goal.ParseCategory(category),
		Milestones:  []goal.Milestone{},
	}
}
