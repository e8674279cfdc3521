package gateway

import (
	"bytes"
	"encoding/json"
	"fmt"
	"text/template"

	"github.com/stefanpenner/lifeos/pkg/coach"
)

// SystemInstruction is sent with every generation request.
const SystemInstruction = "You are a professional life coach AI. You must respond with ONLY valid JSON - " +
	"no additional text, explanations, or conversational elements. " +
	"The JSON may optionally be wrapped in markdown code blocks (```json). " +
	"Do not include any preambles, postambles, or commentary outside the JSON structure. " +
	"Be encouraging and actionable in your analysis within the JSON content itself."

var prompts = map[coach.RequestType]*template.Template{
	coach.TypeLifeSummary: template.Must(template.New("life-summary").Parse(`Analyze this person's life situation and provide a JSON response with their life summary.

Profile Data:
- Age: {{.age}}
- Profession: {{.profession}}
- Location: {{.location}}
- Work Hours/Day: {{.workHours}}
- Social Media Hours/Day: {{.socialMediaHours}}
- Main Frustrations: {{.frustrations}}
- Daily Routine: {{.dailyRoutine}}
- Proud Habit: {{.proudHabit}}
- Currently Avoiding: {{.avoidingWhat}}
- Self Ratings (1-10):
  - Productivity: {{.productivity}}
  - Health: {{.health}}
  - Motivation: {{.motivation}}
  - Mental Health: {{.mentalHealth}}
  - Career Direction: {{.careerDirection}}

Return ONLY this JSON structure with no additional text:
{
  "narrative": "A 2-3 sentence personal narrative about their current life situation and potential",
  "score": {
    "overall": 75,
    "productivity": 80,
    "focus": 70,
    "confidence": 65,
    "goalProgress": 60
  },
  "insights": ["insight1", "insight2", "insight3"],
  "strengths": ["strength1", "strength2", "strength3"],
  "improvements": ["improvement1", "improvement2", "improvement3"]
}

Make the analysis personal, actionable, and encouraging. Base scores on their self-ratings and profile data.`)),

	coach.TypeGoalBreakdown: template.Must(template.New("goal-breakdown").Parse(`Break down this goal into a comprehensive action plan with milestones, subtasks, timelines, and checkpoints.

Goal Details:
- Title: {{.title}}
- Description: {{.description}}
- Timeframe: {{.timeframe}}
- Category: {{.category}}

Return ONLY this JSON structure with no additional text:
{
  "milestones": [
    {
      "id": "milestone-1",
      "title": "Milestone Title",
      "description": "Detailed description of what this milestone achieves",
      "month": 1,
      "tasks": [
        {
          "id": "task-1-1",
          "title": "Specific task title",
          "description": "What exactly needs to be done",
          "completed": false,
          "priority": "high",
          "estimatedHours": 2,
          "resources": ["https://example.com/resource", "Book: Relevant Title"]
        }
      ],
      "completed": false,
      "subtasks": [
        {
          "id": "subtask-1-1-1",
          "title": "Granular subtask title",
          "description": "Very specific action item",
          "completed": false,
          "parentTaskId": "task-1-1"
        }
      ],
      "timeline": {
        "startDate": "2025-01-01",
        "endDate": "2025-01-31",
        "keyDates": [
          {
            "date": "2025-01-15",
            "description": "Mid-milestone check-in"
          }
        ]
      }
    }
  ],
  "checkpoints": [
    {
      "id": "checkpoint-1",
      "title": "Initial Progress Review",
      "description": "Evaluate progress after first milestone",
      "targetDate": "2025-01-31",
      "achieved": false,
      "milestoneId": "milestone-1"
    }
  ],
  "aiAnalysis": {
    "strengths": ["Key strength or advantage for this goal"],
    "challenges": ["Potential obstacle to overcome"],
    "recommendations": ["Strategic advice for success"]
  }
}

Create 3-6 milestones depending on the timeframe. Each milestone should have 3-5 specific, actionable tasks with appropriate subtasks. Include realistic timelines and strategic checkpoints. The AI analysis should provide personalized insights based on the goal details.`)),

	coach.TypeBookRecommendations: template.Must(template.New("book-recommendations").Parse(`Recommend books for this person based on their profile and goals.

Profile:
- Age: {{.profile.age}}
- Profession: {{.profile.profession}}
- Main Frustrations: {{.profile.frustrations}}
- Currently Avoiding: {{.profile.avoidingWhat}}

Goals:
{{- range .goals}}
- {{.title}} ({{.category}}, {{.timeframe}})
{{- end}}

Return ONLY this JSON structure with no additional text:
{
  "books": [
    {
      "id": "1",
      "title": "Book Title",
      "author": "Author Name",
      "description": "Why this book helps with their goals",
      "amazonUrl": "https://www.amazon.com/...",
      "category": "Personal Growth",
      "relevantGoals": ["Goal title"],
      "tags": ["habits", "productivity"],
      "rating": 4.5
    }
  ],
  "personalizedNote": "One paragraph explaining how these books fit together"
}

Recommend 4-6 books. Prefer well-known, practical titles.`)),
}

// UnknownTypeError is returned for a request type with no prompt.
type UnknownTypeError struct{ Type coach.RequestType }

func (e UnknownTypeError) Error() string {
	return fmt.Sprintf("unknown request type %q", e.Type)
}

// Prompt renders the user prompt for a request. data is the request's
// decoded JSON payload.
func Prompt(typ coach.RequestType, data any) (string, error) {
	tmpl, ok := prompts[typ]
	if !ok {
		return "", UnknownTypeError{Type: typ}
	}
	fields, err := asMap(data)
	if err != nil {
		return "", err
	}
	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, fields); err != nil {
		return "", fmt.Errorf("render %s prompt: %w", typ, err)
	}
	return buf.String(), nil
}

// asMap normalizes payloads to the JSON shape the templates index, so typed
// values nested anywhere are addressed by their JSON names.
func asMap(data any) (map[string]any, error) {
	raw, err := json.Marshal(data)
	if err != nil {
		return nil, fmt.Errorf("encode prompt data: %w", err)
	}
	var m map[string]any
	if err := json.Unmarshal(raw, &m); err != nil {
		return nil, fmt.Errorf("prompt data must be an object: %w", err)
	}
	return m, nil
}
