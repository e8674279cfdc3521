// Package tui is the Bubble Tea dashboard: a goal tree on the left, the
// selected node's details on the right, and progress in the header.
package tui

import (
	"context"
	"errors"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/progress"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/glamour"
	"go.uber.org/zap"

	"github.com/stefanpenner/lifeos/pkg/app"
	"github.com/stefanpenner/lifeos/pkg/goal"
	"github.com/stefanpenner/lifeos/pkg/profile"
)

// Backend is what the dashboard reads and mutates. *app.Service
// implements it.
type Backend interface {
	Dashboard(ctx context.Context) (*app.Dashboard, error)
	ToggleTask(ctx context.Context, goalID, milestoneID, taskID string) ([]goal.Goal, error)
	ToggleSubtask(ctx context.Context, goalID, milestoneID, subtaskID string) ([]goal.Goal, error)
	ToggleCheckpoint(ctx context.Context, goalID, checkpointID string) ([]goal.Goal, error)
	CompleteFocus(ctx context.Context) (goal.FocusItem, []goal.Goal, error)
	TouchStreak(ctx context.Context) (profile.Streak, bool, error)
}

var _ Backend = (*app.Service)(nil)

// DataChangedMsg is sent when the watcher sees the database change.
type DataChangedMsg struct{}

// MutationDoneMsg reports the outcome of a toggle.
type MutationDoneMsg struct {
	Status string
	Err    error
}

// Model is the Bubble Tea model for the dashboard.
type Model struct {
	backend       Backend
	ctx           context.Context
	logger        *zap.Logger
	keys          KeyMap
	dataPath      string
	width         int
	height        int
	dash          *app.Dashboard
	visibleItems  []TreeItem
	expandedState map[string]bool
	cursor        int
	focusedPane   int // 0 = tree, 1 = details
	detailScroll  int
	progressBar   progress.Model

	// Modal state
	showHelpModal bool
	showSummary   bool

	// Search state
	isSearching    bool
	searchQuery    string
	searchMatchIDs map[string]bool // IDs of items matching query
	searchAncIDs   map[string]bool // IDs of ancestor items (for context)

	// Status message
	statusMsg     string
	statusTimeout time.Time

	// Cached glamour renderer (expensive to create)
	glamourRenderer *glamour.TermRenderer
	glamourWidth    int

	// Track whether all items are expanded for toggle
	allExpanded bool
}

// Option configures a Model.
type Option func(*Model)

// WithLogger logs mutation failures. The dashboard owns the terminal, so the
// logger must not write to stderr.
func WithLogger(l *zap.Logger) Option {
	return func(m *Model) { m.logger = l }
}

// WithDataPath shows path at the bottom of the tree.
func WithDataPath(path string) Option {
	return func(m *Model) { m.dataPath = path }
}

// NewModel creates a dashboard over backend.
func NewModel(ctx context.Context, backend Backend, opts ...Option) Model {
	m := Model{
		backend:       backend,
		ctx:           ctx,
		logger:        zap.NewNop(),
		keys:          DefaultKeyMap(),
		expandedState: make(map[string]bool),
		progressBar:   progress.New(progress.WithGradient(string(ColorPurple), string(ColorGreen)), progress.WithoutPercentage()),
	}
	for _, opt := range opts {
		opt(&m)
	}
	return m
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return tea.Batch(tea.WindowSize(), m.touchStreak())
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		// Pre-create glamour renderer at the right width
		m.getGlamourRenderer(max(msg.Width-leftPanelWidth(msg.Width)-1-2, 20))
		m.progressBar.Width = max(msg.Width/4, 10)
		m.reload()
		return m, tea.ClearScreen

	case DataChangedMsg:
		m.reload()
		return m, nil

	case MutationDoneMsg:
		if msg.Err != nil {
			m.setStatus("Error: " + msg.Err.Error())
			m.logger.Warn("dashboard mutation failed", zap.Error(msg.Err))
		} else if msg.Status != "" {
			m.setStatus(msg.Status)
		}
		m.reload()
		return m, nil

	case tea.KeyMsg:
		return m.handleKeyMsg(msg)
	}

	return m, nil
}

func (m Model) handleKeyMsg(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	// Search input mode handling
	if m.isSearching {
		return m.handleSearchInput(msg)
	}

	// Help modal
	if m.showHelpModal {
		switch msg.String() {
		case "esc", "enter", "?", "q":
			m.showHelpModal = false
		}
		return m, nil
	}

	// If search filter is active (not typing), Esc/Enter clears it
	if m.searchQuery != "" && (msg.Type == tea.KeyEsc || msg.Type == tea.KeyEnter) {
		curID := m.currentID()
		m.searchQuery = ""
		m.searchMatchIDs = nil
		m.searchAncIDs = nil
		m.rebuildVisible()
		m.moveCursorTo(curID)
		return m, nil
	}

	if m.showSummary && msg.Type == tea.KeyEsc {
		m.showSummary = false
		return m, nil
	}

	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit

	case key.Matches(msg, m.keys.Up):
		if m.focusedPane == 1 {
			if m.detailScroll > 0 {
				m.detailScroll--
			}
		} else {
			m.moveCursor(-1)
		}

	case key.Matches(msg, m.keys.Down):
		if m.focusedPane == 1 {
			m.detailScroll++
		} else {
			m.moveCursor(1)
		}

	case key.Matches(msg, m.keys.Right):
		if item, ok := m.current(); ok && item.HasChildren {
			m.expandedState[item.ID] = true
			m.rebuildVisible()
		}

	case key.Matches(msg, m.keys.Left):
		if item, ok := m.current(); ok {
			if item.IsExpanded {
				m.expandedState[item.ID] = false
				m.rebuildVisible()
			} else if item.ParentID != "" {
				m.moveCursorTo(item.ParentID)
			}
		}

	case key.Matches(msg, m.keys.Enter):
		if item, ok := m.current(); ok && item.HasChildren {
			m.expandedState[item.ID] = !m.expandedState[item.ID]
			m.rebuildVisible()
		}

	case key.Matches(msg, m.keys.Space):
		if item, ok := m.current(); ok {
			switch item.Kind {
			case KindTask:
				return m, m.toggleTask(item)
			case KindCheckpoint:
				return m, m.toggleCheckpoint(item)
			case KindSubtask:
				return m, m.toggleSubtask(item)
			default:
				m.setStatus("Select a task or checkpoint to toggle")
			}
		}

	case key.Matches(msg, m.keys.Subtask):
		if item, ok := m.current(); ok {
			if item.Kind != KindSubtask {
				m.setStatus("Select a subtask to toggle")
				return m, nil
			}
			return m, m.toggleSubtask(item)
		}

	case key.Matches(msg, m.keys.Focus):
		return m, m.completeFocus()

	case key.Matches(msg, m.keys.Summary):
		m.showSummary = !m.showSummary
		m.detailScroll = 0

	case key.Matches(msg, m.keys.Tab):
		m.focusedPane = (m.focusedPane + 1) % 2

	case key.Matches(msg, m.keys.ToggleExpand):
		if m.allExpanded {
			m.expandedState = make(map[string]bool)
		} else if m.dash != nil {
			ExpandAll(m.dash.Goals, m.expandedState)
		}
		m.allExpanded = !m.allExpanded
		m.rebuildVisible()

	case key.Matches(msg, m.keys.Reload):
		m.reload()
		m.setStatus("Reloaded")

	case key.Matches(msg, m.keys.Search):
		m.isSearching = true
		m.searchQuery = ""
		m.searchMatchIDs = nil
		m.searchAncIDs = nil

	case key.Matches(msg, m.keys.Help):
		m.showHelpModal = true
	}

	return m, nil
}

func (m Model) handleSearchInput(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc:
		// Exit search and clear filter
		m.isSearching = false
		m.searchQuery = ""
		m.searchMatchIDs = nil
		m.searchAncIDs = nil
		m.rebuildVisible()
		return m, nil

	case tea.KeyEnter, tea.KeyDown, tea.KeyTab:
		// Exit search input but keep filter active
		m.isSearching = false
		return m, nil

	case tea.KeyBackspace:
		if len(m.searchQuery) > 0 {
			_, size := utf8.DecodeLastRuneInString(m.searchQuery)
			m.searchQuery = m.searchQuery[:len(m.searchQuery)-size]
		}
		m.applySearchFilter()
		m.rebuildVisible()
		return m, nil

	default:
		if msg.Type == tea.KeyRunes || msg.Type == tea.KeySpace {
			m.searchQuery += string(msg.Runes)
			m.applySearchFilter()
			m.rebuildVisible()
		}
		return m, nil
	}
}

// applySearchFilter matches against the fully expanded tree so hits inside
// collapsed milestones are found.
func (m *Model) applySearchFilter() {
	if m.searchQuery == "" || m.dash == nil {
		m.searchMatchIDs = nil
		m.searchAncIDs = nil
		return
	}

	query := strings.ToLower(m.searchQuery)
	m.searchMatchIDs = make(map[string]bool)
	m.searchAncIDs = make(map[string]bool)

	allItems := m.flattenAll()
	for _, item := range allItems {
		if item.IsSectionHeader() {
			continue
		}
		if strings.Contains(strings.ToLower(item.Name), query) {
			m.searchMatchIDs[item.ID] = true
			m.addSearchAncestors(item.ParentID, allItems)
		}
	}
}

func (m *Model) addSearchAncestors(parentID string, allItems []TreeItem) {
	for parentID != "" {
		if m.searchAncIDs[parentID] {
			return
		}
		m.searchAncIDs[parentID] = true
		next := ""
		for _, item := range allItems {
			if item.ID == parentID {
				next = item.ParentID
				break
			}
		}
		parentID = next
	}
}

func (m *Model) flattenAll() []TreeItem {
	expanded := make(map[string]bool)
	ExpandAll(m.dash.Goals, expanded)
	return FlattenWithFocus(m.dash.Goals, m.dash.Focus, expanded)
}

func (m *Model) reload() {
	if m.backend == nil {
		return
	}
	d, err := m.backend.Dashboard(m.ctx)
	if err != nil {
		if errors.Is(err, app.ErrNotOnboarded) {
			m.setStatus("No profile yet: run `lifeos onboard`")
		} else {
			m.setStatus("Load error: " + err.Error())
		}
		m.dash = nil
		m.rebuildVisible()
		return
	}
	m.dash = d
	if m.searchQuery != "" {
		m.applySearchFilter()
	}
	m.rebuildVisible()
}

func (m *Model) rebuildVisible() {
	if m.dash == nil {
		m.visibleItems = nil
		m.cursor = 0
		return
	}

	if m.searchQuery != "" && m.searchMatchIDs != nil {
		m.visibleItems = FilterVisibleItems(m.flattenAll(), m.searchMatchIDs, m.searchAncIDs)
	} else {
		m.visibleItems = FlattenWithFocus(m.dash.Goals, m.dash.Focus, m.expandedState)
	}

	// Clamp cursor
	if m.cursor >= len(m.visibleItems) {
		m.cursor = len(m.visibleItems) - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}

	// Skip section headers
	if m.cursor < len(m.visibleItems) && m.visibleItems[m.cursor].IsSectionHeader() {
		for i := m.cursor; i < len(m.visibleItems); i++ {
			if !m.visibleItems[i].IsSectionHeader() {
				m.cursor = i
				return
			}
		}
	}
}

// moveCursor steps over section headers.
func (m *Model) moveCursor(delta int) {
	for i := m.cursor + delta; i >= 0 && i < len(m.visibleItems); i += delta {
		if !m.visibleItems[i].IsSectionHeader() {
			m.cursor = i
			break
		}
	}
	m.detailScroll = 0
}

func (m *Model) moveCursorTo(id string) {
	for i, item := range m.visibleItems {
		if item.ID == id && !item.IsSectionHeader() {
			m.cursor = i
			m.detailScroll = 0
			return
		}
	}
}

func (m Model) current() (TreeItem, bool) {
	if m.cursor < 0 || m.cursor >= len(m.visibleItems) {
		return TreeItem{}, false
	}
	item := m.visibleItems[m.cursor]
	if item.IsSectionHeader() {
		return TreeItem{}, false
	}
	return item, true
}

func (m Model) currentID() string {
	if item, ok := m.current(); ok {
		return item.ID
	}
	return ""
}

func (m Model) toggleTask(item TreeItem) tea.Cmd {
	backend, ctx := m.backend, m.ctx
	return func() tea.Msg {
		_, err := backend.ToggleTask(ctx, item.GoalID, item.MilestoneID, item.TaskID)
		return MutationDoneMsg{Status: statusFor(item, !item.Done), Err: err}
	}
}

func (m Model) toggleSubtask(item TreeItem) tea.Cmd {
	backend, ctx := m.backend, m.ctx
	return func() tea.Msg {
		_, err := backend.ToggleSubtask(ctx, item.GoalID, item.MilestoneID, item.NodeID)
		return MutationDoneMsg{Status: statusFor(item, !item.Done), Err: err}
	}
}

func (m Model) toggleCheckpoint(item TreeItem) tea.Cmd {
	backend, ctx := m.backend, m.ctx
	return func() tea.Msg {
		_, err := backend.ToggleCheckpoint(ctx, item.GoalID, item.NodeID)
		return MutationDoneMsg{Status: statusFor(item, !item.Done), Err: err}
	}
}

func (m Model) completeFocus() tea.Cmd {
	backend, ctx := m.backend, m.ctx
	return func() tea.Msg {
		done, _, err := backend.CompleteFocus(ctx)
		if errors.Is(err, goal.ErrNotFound) {
			return MutationDoneMsg{Status: "Nothing left to focus on today"}
		}
		return MutationDoneMsg{Status: "Done: " + done.Task.Title, Err: err}
	}
}

func (m Model) touchStreak() tea.Cmd {
	backend, ctx := m.backend, m.ctx
	if backend == nil {
		return nil
	}
	return func() tea.Msg {
		streak, changed, err := backend.TouchStreak(ctx)
		if err != nil || !changed {
			// Before onboarding there is no streak to touch.
			return nil
		}
		return MutationDoneMsg{Status: streakStatus(streak)}
	}
}

func statusFor(item TreeItem, done bool) string {
	if done {
		return "✓ " + item.Name
	}
	return "○ " + item.Name
}

func streakStatus(s profile.Streak) string {
	if s.Current == 1 {
		return "Welcome back! Streak started"
	}
	return "Streak: " + strconv.Itoa(s.Current) + " days"
}

// getGlamourRenderer returns a cached glamour renderer, creating one if needed.
func (m *Model) getGlamourRenderer(width int) *glamour.TermRenderer {
	if m.glamourRenderer != nil && m.glamourWidth == width {
		return m.glamourRenderer
	}
	r, err := glamour.NewTermRenderer(
		glamour.WithStylePath("dark"),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		return nil
	}
	m.glamourRenderer = r
	m.glamourWidth = width
	return r
}

func (m *Model) setStatus(msg string) {
	m.statusMsg = msg
	m.statusTimeout = time.Now().Add(3 * time.Second)
}

// Run starts the dashboard on the alternate screen and watches dataDir for
// changes until the user quits.
func Run(ctx context.Context, backend Backend, dataDir string, opts ...Option) error {
	m := NewModel(ctx, backend, append([]Option{WithDataPath(dataDir)}, opts...)...)
	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(ctx))

	if dataDir != "" {
		cleanup, err := StartWatcher(dataDir, p.Send)
		if err != nil {
			return err
		}
		defer cleanup()
	}

	_, err := p.Run()
	if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
		return nil
	}
	return err
}
