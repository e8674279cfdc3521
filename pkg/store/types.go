package store

import "time"

// Document is a goal exported to goal.md: YAML frontmatter for the summary
// fields and a markdown body for the milestone tree.
type Document struct {
	ID         string    `yaml:"id"`
	Title      string    `yaml:"title"`
	Category   string    `yaml:"category"`
	Timeframe  string    `yaml:"timeframe,omitempty"`
	Progress   int       `yaml:"progress"`
	Milestones int       `yaml:"milestones"`
	Exported   time.Time `yaml:"exported"`

	// Parsed from markdown body
	Body string `yaml:"-"`
}

// IsComplete returns true if every task of the goal was done at export time.
func (d *Document) IsComplete() bool {
	return d.Progress >= 100
}

// FocusList is the exported list of today's focus tasks.
type FocusList struct {
	Updated time.Time `yaml:"updated"`
	Items   []string  // task titles, prefixed with the goal title
}
