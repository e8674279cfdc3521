package profile

import (
	"fmt"
	"math"
	"strings"
)

// Default lists used when generated summaries omit a field.
var (
	DefaultInsights = []string{
		"You have strong self-awareness and willingness to grow",
		"Building consistent daily systems will unlock your potential",
	}
	DefaultStrengths = []string{
		"Self-awareness and willingness to grow",
		"Clear communication of goals and challenges",
	}
	DefaultImprovements = []string{
		"Implement a daily planning system",
		"Develop consistent progress tracking habits",
	}
)

// DefaultGoalProgress is the goal-progress score before any goal has moved.
const DefaultGoalProgress = 20

// ShortNarrative is the one-line narrative used when a generated one is empty.
func ShortNarrative(p Profile) string {
	return fmt.Sprintf("You're a %d-year-old %s with great potential for growth.", p.Age, p.Profession)
}

// FallbackSummary derives a complete summary from the ratings alone.
func FallbackSummary(p Profile) Summary {
	return Summary{
		Narrative: fmt.Sprintf("You're a %d-year-old %s who recognizes the importance of growth and self-improvement. "+
			"Your awareness of your challenges and strengths shows great self-reflection skills, "+
			"and you're ready for the next level of personal development.", p.Age, p.Profession),
		Score: ratingScore(p, DefaultGoalProgress),
		Insights: []string{
			"You have strong self-awareness and willingness to grow",
			"Building consistent daily systems will unlock your potential",
			"Your motivation levels show promise for achieving your goals",
		},
		Strengths: []string{
			"Self-awareness and willingness to grow",
			"Clear communication of goals and challenges",
			"Recognition of personal patterns",
		},
		Improvements: []string{
			"Implement a daily planning system",
			"Create intentional boundaries around screen time",
			"Develop consistent progress tracking habits",
		},
	}
}

func ratingScore(p Profile, goalProgress int) Score {
	r := p.Ratings
	return Score{
		Overall:      round(r.Average() * 10),
		Productivity: r.Productivity * 10,
		Focus:        max(10, round(float64(r.Productivity+r.Motivation)*5)),
		Confidence:   max(15, round(float64(r.MentalHealth+r.CareerDirection)*5)),
		GoalProgress: goalProgress,
	}
}

func round(f float64) int { return int(math.Round(f)) }

// Picker chooses an index in [0, n).
type Picker func(n int) int

// TemplateSummary builds a summary that reads the profile's own answers back,
// used when no generator is configured. pick selects among the narratives; nil
// picks the first.
func TemplateSummary(p Profile, pick Picker) Summary {
	narratives := []string{
		fmt.Sprintf("You're a %d-year-old %s who recognizes the importance of growth and self-improvement. %s"+
			"but you've taken the crucial first step by seeking a structured approach to your goals. "+
			"Your daily routine shows dedication, and your awareness of what you're proud of (%s) indicates strong self-reflection skills.",
			p.Age, p.Profession, frustrationClause(p.Frustrations), strings.ToLower(p.ProudHabit)),
		fmt.Sprintf("At %d, you're in a unique position as a %s to make meaningful changes. "+
			"You spend about %s hours on work daily and %s hours on social media. "+
			"Your honesty about what you're avoiding (%s) shows courage and self-awareness that many lack. You're ready for the next level.",
			p.Age, p.Profession, hours(p.WorkHours), hours(p.SocialMediaHours), strings.ToLower(p.AvoidingWhat)),
		fmt.Sprintf("You're a thoughtful %d-year-old %s who understands that growth requires intentional action. "+
			"Your current habits and routines show promise, especially your pride in %s. "+
			"The fact that you're here, taking time to evaluate and improve your life, already sets you apart from most people your age.",
			p.Age, p.Profession, strings.ToLower(p.ProudHabit)),
	}
	i := 0
	if pick != nil {
		i = pick(len(narratives))
		if i < 0 || i >= len(narratives) {
			i = 0
		}
	}

	goalProgress := DefaultGoalProgress
	if len(p.Goals) > 0 {
		sum := 0
		for _, g := range p.Goals {
			sum += g.Progress
		}
		goalProgress = round(float64(sum) / float64(len(p.Goals)))
	}

	r := p.Ratings
	insights := []string{
		pickText(r.Productivity < 5,
			"You have clarity on what you want, but need a more structured system.",
			"Your productivity foundation is solid and ready for optimization."),
		pickText(p.SocialMediaHours > 3,
			fmt.Sprintf("You're spending %s+ hours daily on social media - that's potential time for growth.", hours(p.SocialMediaHours)),
			"Your digital habits show good balance and intentionality."),
		pickText(r.Motivation < 6,
			"Building consistent daily rituals will unlock your natural motivation.",
			"Your motivation levels are strong - now we need to channel them effectively."),
	}
	strengths := []string{
		"Self-awareness and willingness to grow",
		pickText(p.ProudHabit != "",
			"Strong foundation with "+strings.ToLower(p.ProudHabit),
			"Recognition of personal patterns"),
		"Clear communication of goals and challenges",
	}
	improvements := []string{
		pickText(r.Productivity < 5, "Implement a daily planning system", "Optimize existing productivity systems"),
		pickText(p.SocialMediaHours > 2, "Create intentional boundaries around screen time", "Maintain healthy digital habits"),
		"Develop consistent progress tracking habits",
	}

	return Summary{
		Narrative:    narratives[i],
		Score:        ratingScore(p, goalProgress),
		Insights:     insights,
		Strengths:    strengths,
		Improvements: improvements,
	}
}

func frustrationClause(f string) string {
	if f == "" {
		return ""
	}
	return fmt.Sprintf("You're currently facing challenges with %s, ", strings.ToLower(f))
}

func hours(h float64) string {
	return fmt.Sprintf("%g", h)
}

func pickText(cond bool, yes, no string) string {
	if cond {
		return yes
	}
	return no
}
