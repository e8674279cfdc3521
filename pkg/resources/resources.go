// Package resources holds book recommendations tied to a user's goals.
package resources

import (
	"slices"
	"strings"
	"time"
)

// Book is a single recommended title.
type Book struct {
	ID            string   `json:"id" yaml:"id"`
	Title         string   `json:"title" yaml:"title"`
	Author        string   `json:"author" yaml:"author"`
	Description   string   `json:"description" yaml:"description"`
	CoverURL      string   `json:"coverUrl,omitempty" yaml:"cover_url,omitempty"`
	AmazonURL     string   `json:"amazonUrl,omitempty" yaml:"amazon_url,omitempty"`
	Category      string   `json:"category" yaml:"category"`
	RelevantGoals []string `json:"relevantGoals" yaml:"relevant_goals"`
	Tags          []string `json:"tags" yaml:"tags"`
	Rating        float64  `json:"rating,omitempty" yaml:"rating,omitempty"`
}

// Recommendations is the stored reading list for one user.
type Recommendations struct {
	Books            []Book    `json:"books" yaml:"books"`
	PersonalizedNote string    `json:"personalizedNote" yaml:"personalized_note"`
	LastUpdated      time.Time `json:"lastUpdated" yaml:"last_updated"`
}

// Empty reports whether there is nothing to show.
func (r *Recommendations) Empty() bool {
	return r == nil || len(r.Books) == 0
}

// Categories returns the distinct book categories in first-seen order.
func Categories(books []Book) []string {
	var out []string
	for _, b := range books {
		if !slices.Contains(out, b.Category) {
			out = append(out, b.Category)
		}
	}
	return out
}

// Filter keeps books in category (all when empty) whose title, author,
// description or tags contain query, case-insensitively.
func Filter(books []Book, category, query string) []Book {
	q := strings.ToLower(strings.TrimSpace(query))
	var out []Book
	for _, b := range books {
		if category != "" && b.Category != category {
			continue
		}
		if q != "" && !matches(b, q) {
			continue
		}
		out = append(out, b)
	}
	return out
}

func matches(b Book, q string) bool {
	for _, s := range []string{b.Title, b.Author, b.Description} {
		if strings.Contains(strings.ToLower(s), q) {
			return true
		}
	}
	for _, tag := range b.Tags {
		if strings.Contains(strings.ToLower(tag), q) {
			return true
		}
	}
	return false
}

// DefaultNote accompanies the default reading list.
const DefaultNote = "Based on your goals and profile, I've selected these books to help you build better habits, " +
	"improve productivity, enhance focus, and develop both personally and professionally. " +
	"These resources target common challenges like procrastination and low motivation " +
	"while providing practical strategies for achieving your objectives."

// Default returns the curated reading list used when no generator is available.
func Default(now time.Time) Recommendations {
	return Recommendations{
		Books:            slices.Clone(defaultBooks),
		PersonalizedNote: DefaultNote,
		LastUpdated:      now.UTC(),
	}
}

var defaultBooks = []Book{
	{
		ID:            "1",
		Title:         "Atomic Habits",
		Author:        "James Clear",
		Description:   "This book provides practical strategies for building good habits and breaking bad ones, emphasizing that small, consistent changes can lead to significant improvements in daily life and long-term goals.",
		AmazonURL:     "https://www.amazon.com/Atomic-Habits-Proven-Build-Break/dp/0735211299",
		Category:      "Personal Growth",
		RelevantGoals: []string{"Building Better Habits", "Improve Productivity"},
		Tags:          []string{"habits", "self-improvement", "productivity"},
		Rating:        4.5,
	},
	{
		ID:            "2",
		Title:         "Deep Work",
		Author:        "Cal Newport",
		Description:   "Focuses on the importance of deep, distraction-free work in the digital age, offering techniques to cultivate concentration and productivity for achieving professional and personal objectives.",
		AmazonURL:     "https://www.amazon.com/Deep-Work-Focused-Success-Distracted/dp/1455586692",
		Category:      "Productivity",
		RelevantGoals: []string{"Improve Focus", "Work More Efficiently"},
		Tags:          []string{"focus", "productivity", "attention"},
		Rating:        4.6,
	},
	{
		ID:            "3",
		Title:         "Mindset",
		Author:        "Carol S. Dweck",
		Description:   "Explores the psychology of success through the concept of growth versus fixed mindsets, showing how our beliefs about our abilities significantly impact our achievement and satisfaction in life.",
		AmazonURL:     "https://www.amazon.com/Mindset-Psychology-Carol-S-Dweck/dp/0345472322",
		Category:      "Psychology",
		RelevantGoals: []string{"Personal Growth", "Overcome Challenges"},
		Tags:          []string{"mindset", "psychology", "growth"},
		Rating:        4.7,
	},
	{
		ID:            "4",
		Title:         "Cracking the Coding Interview",
		Author:        "Gayle Laakmann McDowell",
		Description:   "A comprehensive guide to preparing for technical interviews at top companies like Google, covering coding challenges, system design, and behavioral questions to build confidence and skills for the application process.",
		AmazonURL:     "https://www.amazon.com/Cracking-Coding-Interview-Programming-Questions/dp/0984782850/",
		Category:      "Career Development",
		RelevantGoals: []string{"Career Advancement", "Technical Skills"},
		Tags:          []string{"interviews", "coding", "algorithms"},
		Rating:        4.5,
	},
	{
		ID:            "5",
		Title:         "The Power of Habit",
		Author:        "Charles Duhigg",
		Description:   "Explores how habits work and how they can be changed, combining scientific research with real-world examples to help readers transform their lives, businesses, and communities.",
		AmazonURL:     "https://www.amazon.com/Power-Habit-What-Life-Business/dp/081298160X/",
		Category:      "Personal Development",
		RelevantGoals: []string{"Building Better Habits", "Improve Productivity"},
		Tags:          []string{"habits", "psychology", "self-improvement"},
		Rating:        4.6,
	},
	{
		ID:            "6",
		Title:         "The 7 Habits of Highly Effective People",
		Author:        "Stephen R. Covey",
		Description:   "A timeless guide to personal and professional effectiveness, presenting seven fundamental principles that can help individuals achieve their goals and build meaningful relationships.",
		AmazonURL:     "https://www.amazon.com/Habits-Highly-Effective-People-Powerful/dp/0743269519",
		Category:      "Leadership",
		RelevantGoals: []string{"Personal Growth", "Leadership Skills"},
		Tags:          []string{"leadership", "effectiveness", "principles"},
		Rating:        4.4,
	},
}
