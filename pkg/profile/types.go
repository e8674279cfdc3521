// Package profile holds the user's self-assessment, the life summary derived
// from it, onboarding validation and the daily streak.
package profile

import "github.com/stefanpenner/lifeos/pkg/goal"

// Profile is everything collected during onboarding.
type Profile struct {
	Age              int     `json:"age" yaml:"age"`
	Location         string  `json:"location" yaml:"location"`
	Profession       string  `json:"profession" yaml:"profession"`
	WorkHours        float64 `json:"workHours" yaml:"work_hours"`
	SocialMediaHours float64 `json:"socialMediaHours" yaml:"social_media_hours"`

	Frustrations string `json:"frustrations" yaml:"frustrations"`
	DailyRoutine string `json:"dailyRoutine" yaml:"daily_routine"`
	ProudHabit   string `json:"proudHabit" yaml:"proud_habit"`
	AvoidingWhat string `json:"avoidingWhat" yaml:"avoiding_what"`

	Ratings `yaml:",inline"`

	Goals  []goal.Goal `json:"goals" yaml:"goals"`
	Streak *Streak     `json:"streakData,omitempty" yaml:"streak,omitempty"`
}

// Ratings are the five 1-10 self-ratings.
type Ratings struct {
	Productivity    int `json:"productivity" yaml:"productivity"`
	Health          int `json:"health" yaml:"health"`
	Motivation      int `json:"motivation" yaml:"motivation"`
	MentalHealth    int `json:"mentalHealth" yaml:"mental_health"`
	CareerDirection int `json:"careerDirection" yaml:"career_direction"`
}

// DefaultRatings is the neutral starting point shown during onboarding.
var DefaultRatings = Ratings{
	Productivity:    5,
	Health:          5,
	Motivation:      5,
	MentalHealth:    5,
	CareerDirection: 5,
}

// New returns an empty profile with onboarding defaults applied.
func New() Profile {
	return Profile{
		Age:              25,
		WorkHours:        8,
		SocialMediaHours: 2,
		Ratings:          DefaultRatings,
		Goals:            []goal.Goal{},
	}
}

// Average is the mean of the five ratings.
func (r Ratings) Average() float64 {
	return float64(r.Productivity+r.Health+r.Motivation+r.MentalHealth+r.CareerDirection) / 5
}

// Summary is the narrative assessment generated after onboarding.
type Summary struct {
	Narrative    string   `json:"narrative" yaml:"narrative"`
	Score        Score    `json:"score" yaml:"score"`
	Insights     []string `json:"insights" yaml:"insights"`
	Strengths    []string `json:"strengths" yaml:"strengths"`
	Improvements []string `json:"improvements" yaml:"improvements"`
}

// Score holds 0-100 sub-scores.
type Score struct {
	Overall      int `json:"overall" yaml:"overall"`
	Productivity int `json:"productivity" yaml:"productivity"`
	Focus        int `json:"focus" yaml:"focus"`
	Confidence   int `json:"confidence" yaml:"confidence"`
	GoalProgress int `json:"goalProgress" yaml:"goal_progress"`
}
