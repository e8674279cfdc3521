package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/stefanpenner/lifeos/pkg/goal"
	"github.com/stefanpenner/lifeos/pkg/profile"
)

const minWidth = 40
const minHeight = 10

func leftPanelWidth(width int) int {
	return max(width/3, 24)
}

// View implements tea.Model.
func (m Model) View() string {
	w := max(m.width, minWidth)
	h := max(m.height, minHeight)

	if m.showHelpModal {
		return lipgloss.Place(w, h, lipgloss.Center, lipgloss.Center, m.renderHelpModal())
	}

	rule := strings.Repeat("─", w)
	rows := []string{m.renderHeader(w), m.renderFocusTabs(w), rule}
	if m.isSearching || m.searchQuery != "" {
		rows = append(rows, m.renderSearchBar(w))
	}

	// footer takes the closing rule plus the help line
	contentHeight := h - len(rows) - 2

	leftWidth := leftPanelWidth(w)
	rightWidth := max(w-leftWidth-1, 20)
	left := panelRows(m.renderTreePanel(leftWidth, contentHeight), leftWidth, contentHeight)
	right := panelRows(m.renderDetailPanel(rightWidth, contentHeight), rightWidth, contentHeight)

	divider := ColorGrayDim
	if m.focusedPane == 1 {
		divider = ColorPurple
	}
	sep := lipgloss.NewStyle().Foreground(divider).Render("│")
	for i := range contentHeight {
		rows = append(rows, left[i]+sep+right[i])
	}

	rows = append(rows, rule, m.renderFooter(w))
	return strings.Join(rows, "\n")
}

// panelRows cuts a rendered panel into exactly height rows, each padded to width.
func panelRows(panel string, width, height int) []string {
	lines := strings.Split(panel, "\n")
	rows := make([]string, max(height, 0))
	for i := range rows {
		var line string
		if i < len(lines) {
			line = lines[i]
		}
		if pad := width - lipgloss.Width(line); pad > 0 {
			line += strings.Repeat(" ", pad)
		}
		rows[i] = line
	}
	return rows
}

func (m Model) renderHeader(width int) string {
	title := HeaderStyle.Render("LifeOS")

	var parts []string
	if m.dash != nil {
		pct := m.dash.OverallProgress
		parts = append(parts,
			m.progressBar.ViewAs(float64(pct)/100)+" "+PercentStyle.Render(fmt.Sprintf("%d%%", pct)),
			HeaderCountStyle.Render(fmt.Sprintf("%d/%d tasks", m.dash.CompletedTasks, m.dash.TotalTasks)),
		)
		if m.dash.Streak.Current > 0 {
			parts = append(parts, StreakStyle.Render(fmt.Sprintf("%s %d", IconStreak, m.dash.Streak.Current)))
		}
	}
	stats := strings.Join(parts, "  ")

	// Status message
	status := ""
	if m.statusMsg != "" && time.Now().Before(m.statusTimeout) {
		status = "  " + lipgloss.NewStyle().Foreground(ColorCyan).Render(m.statusMsg) + "  "
	}

	gap := max(width-lipgloss.Width(title)-lipgloss.Width(stats)-lipgloss.Width(status), 1)
	return title + strings.Repeat(" ", gap) + status + stats
}

// renderFocusTabs lists today's focus tasks; the first is what `f` completes.
func (m Model) renderFocusTabs(width int) string {
	if m.dash == nil || len(m.dash.Focus) == 0 {
		return FooterStyle.Render("Focus: (nothing left, nice work)")
	}

	tabs := []string{FooterStyle.Render("Focus: ")}
	for i, item := range m.dash.Focus {
		if i == 0 {
			tabs = append(tabs, NextFocusStyle.Render(item.Task.Title))
		} else {
			tabs = append(tabs, LaterFocusStyle.Render(item.Task.Title))
		}
	}
	line := strings.Join(tabs, "")
	if lipgloss.Width(line) > width {
		line = lipgloss.NewStyle().MaxWidth(width).Render(line)
	}
	return line
}

func (m Model) renderSearchBar(width int) string {
	prefix := SearchBarStyle.Render(" / ")
	query := SearchBarStyle.Render(m.searchQuery)
	cursor := ""
	if m.isSearching {
		cursor = SearchBarStyle.Render("█")
	}

	countStr := ""
	if m.searchQuery != "" {
		countStr = SearchCountStyle.Render(fmt.Sprintf(" %d matches", len(m.searchMatchIDs)))
	}

	left := prefix + query + cursor
	padWidth := max(width-lipgloss.Width(left)-lipgloss.Width(countStr), 1)
	return left + strings.Repeat(" ", padWidth) + countStr
}

func (m Model) renderTreePanel(width, height int) string {
	var lines []string

	// Reserve last line for the data path
	treeHeight := max(height-1, 1)

	if len(m.visibleItems) == 0 {
		if m.dash == nil {
			lines = append(lines, FooterStyle.Render("No profile yet. Run `lifeos onboard`."))
		} else {
			lines = append(lines, FooterStyle.Render("No goals yet. Run `lifeos goals add`."))
		}
	}

	// Scrolling window
	startIdx := 0
	endIdx := len(m.visibleItems)
	if len(m.visibleItems) > treeHeight {
		startIdx = max(m.cursor-treeHeight/2, 0)
		endIdx = startIdx + treeHeight
		if endIdx > len(m.visibleItems) {
			endIdx = len(m.visibleItems)
			startIdx = max(endIdx-treeHeight, 0)
		}
	}

	for i := startIdx; i < endIdx; i++ {
		item := m.visibleItems[i]
		if item.IsSectionHeader() {
			lines = append(lines, m.renderSectionHeader(item, width))
			continue
		}
		lines = append(lines, m.renderTreeItem(item, i == m.cursor, width))
	}

	// Pad to treeHeight so the path line lands at the bottom
	for len(lines) < treeHeight {
		lines = append(lines, "")
	}

	if m.dataPath != "" {
		lines = append(lines, lipgloss.NewStyle().Foreground(ColorGrayDim).Render(osc8Link(m.dataPath)))
	}

	return strings.Join(lines, "\n")
}

func (m Model) renderSectionHeader(item TreeItem, width int) string {
	style := GoalsSectionStyle
	if item.ID == focusSectionID {
		style = FocusSectionStyle
	}

	label := style.Render("── " + item.Name + " ")
	if remaining := width - lipgloss.Width(label); remaining > 0 {
		label += lipgloss.NewStyle().Foreground(ColorGrayDim).Render(strings.Repeat("─", remaining))
	}
	return label
}

func (m Model) renderTreeItem(item TreeItem, isSelected bool, width int) string {
	indent := strings.Repeat(DepthIndent, item.Depth)

	expandIcon := "  "
	if item.HasChildren {
		if item.IsExpanded {
			expandIcon = IconExpanded + " "
		} else {
			expandIcon = IconCollapsed + " "
		}
	}

	statusIcon := m.statusIcon(item)

	// Search match highlighting
	isSearchMatch := m.searchMatchIDs[item.ID]
	name := item.Name
	if isSearchMatch && m.searchQuery != "" {
		if isSelected {
			name = highlightMatch(name, m.searchQuery, SearchCharSelectedStyle, SelectedStyle)
		} else {
			name = highlightMatch(name, m.searchQuery, SearchCharStyle, SearchRowStyle)
		}
	}

	prefix, suffix := "", ""
	switch item.Kind {
	case KindGoal:
		if !isSearchMatch && !isSelected {
			name = CategoryStyle(item.Category).Render(name)
		}
		suffix = " " + ProgressStyle(item.Progress).Render(fmt.Sprintf("%d%%", item.Progress))
	case KindTask:
		if !item.Done {
			prefix = PriorityMarker(item.Priority)
		}
	}

	line := indent + expandIcon + statusIcon + " " + prefix + name + suffix

	// Pad to width
	if lineWidth := lipgloss.Width(line); lineWidth < width {
		line += strings.Repeat(" ", width-lineWidth)
	}

	if isSearchMatch && !isSelected {
		line = SearchRowStyle.Render(line)
	} else if isSelected {
		line = SelectedStyle.Render(line)
	}

	return line
}

func (m Model) statusIcon(item TreeItem) string {
	switch {
	case item.Kind == KindCheckpoint && item.Done:
		return CompleteStyle.Render(IconCheckpoint)
	case item.Kind == KindCheckpoint:
		return IncompleteStyle.Render(IconCheckpoint)
	case item.Done:
		return CompleteStyle.Render(IconComplete)
	case item.Kind == KindGoal && item.Progress > 0:
		return InProgressStyle.Render(IconInProgress)
	default:
		return IncompleteStyle.Render(IconIncomplete)
	}
}

func (m Model) renderDetailPanel(width, height int) string {
	var md string
	switch {
	case m.showSummary:
		md = m.summaryMarkdown()
	default:
		item, ok := m.current()
		if !ok {
			return FooterStyle.Render(" Select a goal to view details")
		}
		md = m.detailMarkdown(item)
	}

	// Render with glamour (cached renderer)
	rendered := md
	if m.glamourRenderer != nil {
		if out, err := m.glamourRenderer.Render(md); err == nil {
			rendered = out
		}
	}

	rendered = strings.TrimRight(rendered, "\n ")
	lines := strings.Split(rendered, "\n")

	// Apply scroll offset
	scroll := min(m.detailScroll, len(lines)-1)
	if scroll < 0 {
		scroll = 0
	}
	lines = lines[scroll:]

	if len(lines) > height {
		lines = lines[:height]
	}
	return strings.Join(lines, "\n")
}

// detailMarkdown describes the node under the cursor.
func (m Model) detailMarkdown(item TreeItem) string {
	if m.dash == nil {
		return ""
	}
	g, ok := goal.Find(m.dash.Goals, item.GoalID)
	if !ok {
		return "_This item no longer exists._\n"
	}

	switch item.Kind {
	case KindGoal:
		return goalMarkdown(g)
	case KindCheckpoint:
		for _, c := range g.Checkpoints {
			if c.ID == item.NodeID {
				return checkpointMarkdown(g, c)
			}
		}
	default:
		for i := range g.Milestones {
			ms := &g.Milestones[i]
			if ms.ID != item.MilestoneID {
				continue
			}
			switch item.Kind {
			case KindMilestone:
				return milestoneMarkdown(ms)
			case KindTask:
				for _, t := range ms.Tasks {
					if t.ID == item.TaskID {
						return taskMarkdown(g, ms, t)
					}
				}
			case KindSubtask:
				for _, s := range ms.Subtasks {
					if s.ID == item.NodeID {
						return subtaskMarkdown(ms, s)
					}
				}
			}
		}
	}
	return "_This item no longer exists._\n"
}

func goalMarkdown(g *goal.Goal) string {
	var md strings.Builder
	md.WriteString("# " + g.Title + "\n\n")

	meta := []string{fmt.Sprintf("**Progress:** %d%%", g.Progress)}
	if g.Category != "" {
		meta = append(meta, "**Category:** "+string(g.Category))
	}
	if g.Timeframe != "" {
		meta = append(meta, "**Timeframe:** "+g.Timeframe)
	}
	md.WriteString(strings.Join(meta, " | ") + "\n\n")

	if g.Description != "" {
		md.WriteString(g.Description + "\n\n")
	}

	completed, total := goal.TaskCounts(*g)
	fmt.Fprintf(&md, "%d of %d tasks done across %d milestones.\n\n", completed, total, len(g.Milestones))

	if len(g.Checkpoints) > 0 {
		md.WriteString("## Checkpoints\n\n")
		for _, c := range g.Checkpoints {
			fmt.Fprintf(&md, "- [%s] %s (by %s)\n", check(c.Achieved), c.Title, c.TargetDate)
		}
		md.WriteString("\n")
	}

	if a := g.AIAnalysis; a != nil {
		writeList(&md, "Strengths", a.Strengths)
		writeList(&md, "Challenges", a.Challenges)
		writeList(&md, "Recommendations", a.Recommendations)
	}
	return md.String()
}

func milestoneMarkdown(ms *goal.Milestone) string {
	var md strings.Builder
	fmt.Fprintf(&md, "# Month %d: %s\n\n", ms.Month, ms.Title)
	if ms.Description != "" {
		md.WriteString(ms.Description + "\n\n")
	}
	if tl := ms.Timeline; tl != nil {
		fmt.Fprintf(&md, "**Timeline:** %s to %s\n\n", tl.StartDate, tl.EndDate)
		for _, kd := range tl.KeyDates {
			fmt.Fprintf(&md, "- %s: %s\n", kd.Date, kd.Description)
		}
		md.WriteString("\n")
	}
	md.WriteString("## Tasks\n\n")
	for _, t := range ms.Tasks {
		fmt.Fprintf(&md, "- [%s] %s\n", check(t.Completed), t.Title)
	}
	if len(ms.Subtasks) > 0 {
		done := 0
		for _, s := range ms.Subtasks {
			if s.Completed {
				done++
			}
		}
		fmt.Fprintf(&md, "\n%d of %d subtasks done.\n", done, len(ms.Subtasks))
	}
	return md.String()
}

func taskMarkdown(g *goal.Goal, ms *goal.Milestone, t goal.Task) string {
	var md strings.Builder
	md.WriteString("# " + t.Title + "\n\n")
	fmt.Fprintf(&md, "_%s › %s_\n\n", g.Title, ms.Title)

	meta := []string{"**Status:** " + doneLabel(t.Completed)}
	if t.Priority != "" {
		meta = append(meta, "**Priority:** "+string(t.Priority))
	}
	if t.EstimatedHours > 0 {
		meta = append(meta, fmt.Sprintf("**Estimate:** %gh", t.EstimatedHours))
	}
	if t.DueDate != "" {
		meta = append(meta, "**Due:** "+t.DueDate)
	}
	md.WriteString(strings.Join(meta, " | ") + "\n\n")

	if t.Description != "" {
		md.WriteString(t.Description + "\n\n")
	}
	if subtasks := ms.SubtasksFor(t.ID); len(subtasks) > 0 {
		md.WriteString("## Subtasks\n\n")
		for _, s := range subtasks {
			fmt.Fprintf(&md, "- [%s] %s\n", check(s.Completed), s.Title)
		}
		md.WriteString("\n")
	}
	writeList(&md, "Resources", t.Resources)
	return md.String()
}

func subtaskMarkdown(ms *goal.Milestone, s goal.Subtask) string {
	var md strings.Builder
	md.WriteString("# " + s.Title + "\n\n")
	md.WriteString("**Status:** " + doneLabel(s.Completed) + "\n\n")
	if s.Description != "" {
		md.WriteString(s.Description + "\n\n")
	}
	for _, t := range ms.Tasks {
		if t.ID == s.ParentTaskID {
			md.WriteString("Part of _" + t.Title + "_.\n")
		}
	}
	return md.String()
}

func checkpointMarkdown(g *goal.Goal, c goal.Checkpoint) string {
	var md strings.Builder
	md.WriteString("# " + c.Title + "\n\n")
	status := "pending"
	if c.Achieved {
		status = "achieved"
	}
	fmt.Fprintf(&md, "**Status:** %s | **Target:** %s\n\n", status, c.TargetDate)
	if c.Description != "" {
		md.WriteString(c.Description + "\n\n")
	}
	for _, ms := range g.Milestones {
		if ms.ID == c.MilestoneID {
			fmt.Fprintf(&md, "Reviews milestone _%s_.\n", ms.Title)
		}
	}
	return md.String()
}

func (m Model) summaryMarkdown() string {
	if m.dash == nil || m.dash.Summary == nil {
		return "# Life Summary\n\n_No summary yet. Run `lifeos summary --regenerate`._\n"
	}
	return SummaryMarkdown(*m.dash.Summary, m.dash.Streak)
}

// SummaryMarkdown renders a life summary with its scores.
func SummaryMarkdown(s profile.Summary, streak profile.Streak) string {
	var md strings.Builder
	md.WriteString("# Life Summary\n\n")
	if s.Narrative != "" {
		md.WriteString(s.Narrative + "\n\n")
	}
	md.WriteString("| Score | Value |\n|---|---|\n")
	for _, row := range []struct {
		name  string
		value int
	}{
		{"Overall", s.Score.Overall},
		{"Productivity", s.Score.Productivity},
		{"Focus", s.Score.Focus},
		{"Confidence", s.Score.Confidence},
		{"Goal progress", s.Score.GoalProgress},
	} {
		fmt.Fprintf(&md, "| %s | %d |\n", row.name, row.value)
	}
	md.WriteString("\n")
	if streak.Current > 0 {
		fmt.Fprintf(&md, "**Streak:** %d days (%d total)\n\n", streak.Current, streak.TotalDays)
	}
	writeList(&md, "Insights", s.Insights)
	writeList(&md, "Strengths", s.Strengths)
	writeList(&md, "Improvements", s.Improvements)
	return md.String()
}

func writeList(md *strings.Builder, title string, items []string) {
	if len(items) == 0 {
		return
	}
	md.WriteString("## " + title + "\n\n")
	for _, item := range items {
		md.WriteString("- " + item + "\n")
	}
	md.WriteString("\n")
}

func check(done bool) string {
	if done {
		return "x"
	}
	return " "
}

func doneLabel(done bool) string {
	if done {
		return "done"
	}
	return "open"
}

func (m Model) renderFooter(width int) string {
	help := m.keys.ShortHelp()
	if m.isSearching {
		help = "type to search  enter/↓ keep filter  esc clear"
	} else if m.searchQuery != "" {
		help = "esc/enter clear filter  ↑↓ nav"
	} else if m.showSummary {
		help = "s/esc close summary  tab scroll  ? help"
	} else if m.focusedPane == 1 {
		help = "↑↓ scroll details  tab tree  ? help"
	}
	return FooterStyle.Render(help)
}

func (m Model) renderHelpModal() string {
	var b strings.Builder

	b.WriteString(ModalTitleStyle.Render("Keyboard Shortcuts"))
	b.WriteString("\n\n")

	keyStyle := lipgloss.NewStyle().Foreground(ColorBlue).Width(16)
	descStyle := lipgloss.NewStyle().Foreground(ColorWhite)

	for _, binding := range m.keys.FullHelp() {
		b.WriteString(keyStyle.Render(binding[0]))
		b.WriteString(descStyle.Render(binding[1]))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(FooterStyle.Render("Press Esc or ? to close"))

	return ModalStyle.Render(b.String())
}

// highlightMatch styles every case-insensitive occurrence of query in name
// with hit and the remaining runs with base.
func highlightMatch(name, query string, hit, base lipgloss.Style) string {
	if query == "" {
		return base.Render(name)
	}
	lower, q := strings.ToLower(name), strings.ToLower(query)
	if len(lower) != len(name) {
		// case folding changed byte offsets; fall back to a plain row
		return base.Render(name)
	}
	var b strings.Builder
	rest := 0
	for rest < len(name) {
		idx := strings.Index(lower[rest:], q)
		if idx < 0 {
			break
		}
		start := rest + idx
		if start > rest {
			b.WriteString(base.Render(name[rest:start]))
		}
		b.WriteString(hit.Render(name[start : start+len(q)]))
		rest = start + len(q)
	}
	if rest == 0 {
		return base.Render(name)
	}
	if rest < len(name) {
		b.WriteString(base.Render(name[rest:]))
	}
	return b.String()
}

// osc8Link renders path as a clickable terminal hyperlink to the database file.
func osc8Link(path string) string {
	return "\x1b]8;;file://" + path + "\x1b\\" + path + "\x1b]8;;\x1b\\"
}
