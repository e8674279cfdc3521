package tui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/stefanpenner/lifeos/pkg/goal"
)

// Palette
var (
	ColorPurple      = lipgloss.Color("#7D56F4")
	ColorGreen       = lipgloss.Color("#25A065")
	ColorBlue        = lipgloss.Color("#4285F4")
	ColorRed         = lipgloss.Color("#E05252")
	ColorYellow      = lipgloss.Color("#E5C07B")
	ColorOrange      = lipgloss.Color("#D19A66")
	ColorCyan        = lipgloss.Color("#56B6C2")
	ColorPink        = lipgloss.Color("#C678DD")
	ColorGray        = lipgloss.Color("#626262")
	ColorGrayDim     = lipgloss.Color("#404040")
	ColorWhite       = lipgloss.Color("#FFFFFF")
	ColorOffWhite    = lipgloss.Color("#D0D0D0")
	ColorSelectionBg = lipgloss.Color("#2D3B4D")
	ColorMatchRowBg  = lipgloss.Color("#1E1A2E")
	ColorMatchCharBg = lipgloss.Color("#2E2545")
)

// categoryColors gives each life area a stable color in the tree.
var categoryColors = map[goal.Category]lipgloss.Color{
	goal.CategoryCareer:        ColorBlue,
	goal.CategoryFitness:       ColorGreen,
	goal.CategoryLearning:      ColorCyan,
	goal.CategoryFinance:       ColorYellow,
	goal.CategoryRelationships: ColorPink,
	goal.CategoryCreative:      ColorOrange,
}

// CategoryStyle colors a goal title by its category.
func CategoryStyle(c goal.Category) lipgloss.Style {
	color, ok := categoryColors[c]
	if !ok {
		color = ColorOffWhite
	}
	return lipgloss.NewStyle().Foreground(color)
}

// ProgressStyle colors a percentage: gray untouched, yellow underway, green
// done.
func ProgressStyle(pct int) lipgloss.Style {
	switch {
	case pct >= 100:
		return CompleteStyle
	case pct > 0:
		return InProgressStyle
	default:
		return lipgloss.NewStyle().Foreground(ColorGray)
	}
}

// PriorityMarker flags high-priority tasks in the tree.
func PriorityMarker(p goal.Priority) string {
	if p == goal.PriorityHigh {
		return lipgloss.NewStyle().Foreground(ColorRed).Render(IconHighPriority) + " "
	}
	return ""
}

var (
	HeaderStyle      = lipgloss.NewStyle().Bold(true).Foreground(ColorPurple)
	HeaderCountStyle = lipgloss.NewStyle().Foreground(ColorGray)
	FooterStyle      = lipgloss.NewStyle().Foreground(ColorGray)
	PercentStyle     = lipgloss.NewStyle().Foreground(ColorCyan)
	StreakStyle      = lipgloss.NewStyle().Bold(true).Foreground(ColorOrange)

	// The first focus task is what `f` completes.
	NextFocusStyle  = lipgloss.NewStyle().Bold(true).Foreground(ColorWhite).Background(ColorPurple).Padding(0, 1)
	LaterFocusStyle = lipgloss.NewStyle().Foreground(ColorGray).Padding(0, 1)

	FocusSectionStyle = lipgloss.NewStyle().Bold(true).Foreground(ColorRed)
	GoalsSectionStyle = lipgloss.NewStyle().Bold(true).Foreground(ColorGray)
)

// Tree rows
var (
	SelectedStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(ColorWhite).
			Background(ColorSelectionBg)

	CompleteStyle   = lipgloss.NewStyle().Foreground(ColorGreen)
	InProgressStyle = lipgloss.NewStyle().Foreground(ColorYellow)
	IncompleteStyle = lipgloss.NewStyle().Foreground(ColorOffWhite)

	DepthIndent = "  "
)

// Help modal
var (
	ModalStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(ColorPurple).
			Padding(1, 2)

	ModalTitleStyle = lipgloss.NewStyle().Bold(true).Foreground(ColorPurple)
)

// Search
var (
	SearchBarStyle          = lipgloss.NewStyle().Foreground(ColorWhite)
	SearchCountStyle        = lipgloss.NewStyle().Foreground(ColorGray)
	SearchRowStyle          = lipgloss.NewStyle().Background(ColorMatchRowBg)
	SearchCharStyle         = lipgloss.NewStyle().Bold(true).Foreground(ColorPurple).Background(ColorMatchCharBg)
	SearchCharSelectedStyle = lipgloss.NewStyle().Bold(true).Foreground(ColorPurple).Background(ColorSelectionBg)
)

const (
	IconComplete     = "✓"
	IconInProgress   = "◐"
	IconIncomplete   = "○"
	IconExpanded     = "▼"
	IconCollapsed    = "▶"
	IconCheckpoint   = "◆"
	IconHighPriority = "!"
	IconStreak       = "🔥"
)
