package tui

import (
	"fmt"
	"image/color"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/ahlgren/tavla/internal/app"
	"github.com/ahlgren/tavla/internal/domain"
)

// View handles view.
func (m Model) View() tea.View {
	if !m.ready {
		v := tea.NewView("loading...")
		v.AltScreen = true
		return v
	}

	accent := lipgloss.Color("62")
	muted := lipgloss.Color("241")
	dim := lipgloss.Color("239")

	titleStyle := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("252"))
	statusStyle := lipgloss.NewStyle().Foreground(dim)

	header := titleStyle.Render("tavla") + "  " + m.app.BoardName()
	header += statusStyle.Render("  [" + m.app.Mode().String() + "]")

	board := m.app.Board()
	columnViews := make([]string, 0, len(board.Columns))
	colWidth := m.columnWidth(len(board.Columns))
	colHeight := m.columnHeight()

	baseColStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(dim).
		Padding(1, 2).
		MarginRight(1).
		Width(colWidth)
	selColStyle := baseColStyle.BorderForeground(accent)
	colTitle := lipgloss.NewStyle().Bold(true).Foreground(accent)
	selectedTaskStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("212")).Bold(true)
	itemSubStyle := lipgloss.NewStyle().Foreground(muted)

	selectedCol := m.app.SelectedColumn()
	selectedIdx, hasSelection := m.app.SelectedTaskIndex()

	for colIdx, column := range board.Columns {
		lines := []string{colTitle.Render(fmt.Sprintf("%s (%d)", column.Name, len(column.Tasks)))}
		for taskIdx, task := range column.Tasks {
			line := taskLine(task, colWidth-6)
			if colIdx == selectedCol && hasSelection && taskIdx == selectedIdx {
				line = selectedTaskStyle.Render("> " + line)
			} else {
				line = "  " + line
			}
			lines = append(lines, line)
			if sub := taskSubLine(task); sub != "" {
				lines = append(lines, itemSubStyle.Render("    "+truncate(sub, colWidth-8)))
			}
		}
		body := fitLines(strings.Join(lines, "\n"), colHeight)
		style := baseColStyle
		if colIdx == selectedCol {
			style = selColStyle
		}
		columnViews = append(columnViews, style.Render(body))
	}

	boardView := lipgloss.JoinHorizontal(lipgloss.Top, columnViews...)

	helpBubble := m.help
	helpBubble.SetWidth(max(0, m.width-2))
	helpLine := lipgloss.NewStyle().
		Foreground(muted).
		BorderTop(true).
		BorderForeground(dim).
		Padding(0, 1).
		Width(max(0, m.width)).
		Render(helpBubble.View(m.keys))

	sections := []string{header, "", boardView}
	if status := m.statusLine(); status != "" {
		sections = append(sections, statusStyle.Render(status))
	}
	content := strings.Join(sections, "\n")
	if m.height > 0 {
		content = fitLines(content, max(0, m.height-lipgloss.Height(helpLine)))
	}
	full := content + "\n" + helpLine

	if overlay := m.renderOverlay(accent, muted, dim); overlay != "" {
		overlayHeight := lipgloss.Height(full)
		if m.height > 0 {
			overlayHeight = m.height
		}
		full = overlayOnContent(full, overlay, max(1, m.width), max(1, overlayHeight))
	}

	v := tea.NewView(full)
	v.AltScreen = true
	return v
}

// statusLine describes the pending input, if any.
func (m Model) statusLine() string {
	buffer := m.app.InputBuffer()
	switch m.app.Mode() {
	case app.ModeCreating:
		return "new task: " + buffer + "█"
	case app.ModeEditing:
		return "edit title: " + buffer + "█"
	case app.ModeEditingDescription:
		return "description: " + buffer + "█"
	case app.ModeAddingTag:
		return "tag: " + buffer + "█"
	case app.ModeCreatingBoard:
		return "new board: " + buffer + "█"
	default:
		return m.status
	}
}

// renderOverlay builds the centered popup for viewing and board selection.
func (m Model) renderOverlay(accent, muted, dim color.Color) string {
	switch m.app.Mode() {
	case app.ModeViewing:
		return m.renderTaskDetail(accent, muted, dim)
	case app.ModeSelectingBoard:
		return m.renderBoardSelector(accent, muted, dim)
	default:
		return ""
	}
}

func (m Model) renderTaskDetail(accent, muted, dim color.Color) string {
	task, ok := m.app.SelectedTask()
	if !ok {
		return ""
	}
	width := clamp(m.width-12, 32, 80)

	titleStyle := lipgloss.NewStyle().Bold(true).Foreground(accent)
	labelStyle := lipgloss.NewStyle().Foreground(muted)

	lines := []string{titleStyle.Render(fmt.Sprintf("#%d %s", task.ID, task.Title))}
	if task.Priority != domain.PriorityNone {
		lines = append(lines, labelStyle.Render("priority: ")+string(task.Priority))
	}
	if len(task.Tags) > 0 {
		lines = append(lines, labelStyle.Render("tags: ")+"#"+strings.Join(task.Tags, " #"))
	}
	if task.DueDate != nil {
		lines = append(lines, labelStyle.Render("due: ")+*task.DueDate)
	}
	lines = append(lines,
		labelStyle.Render("created: ")+task.CreatedAt,
		labelStyle.Render("updated: ")+task.UpdatedAt,
	)
	if task.Description != nil {
		lines = append(lines, "", m.md.render(*task.Description, width-4))
	}
	lines = append(lines, "", labelStyle.Render("esc/enter close"))

	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(accent).
		Padding(1, 2).
		Width(width).
		Render(strings.Join(lines, "\n"))
}

func (m Model) renderBoardSelector(accent, muted, dim color.Color) string {
	boards := m.app.AvailableBoards()
	selected, _ := m.app.SelectedBoardIndex()

	titleStyle := lipgloss.NewStyle().Bold(true).Foreground(accent)
	rowStyle := lipgloss.NewStyle().Foreground(muted)
	selRowStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("212")).Bold(true)

	lines := []string{titleStyle.Render("boards"), ""}
	for i, name := range boards {
		marker := "  "
		style := rowStyle
		if i == selected {
			marker = "> "
			style = selRowStyle
		}
		label := name
		if name == m.app.BoardName() {
			label += " (current)"
		}
		lines = append(lines, style.Render(marker+label))
	}
	lines = append(lines, "", rowStyle.Render("enter switch • n new • d delete • esc close"))

	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(accent).
		Padding(1, 2).
		Width(clamp(m.width-20, 28, 48)).
		Render(strings.Join(lines, "\n"))
}

// taskLine renders a single card line.
func taskLine(task domain.Task, width int) string {
	line := task.Title
	if symbol := task.Priority.Symbol(); symbol != "" {
		line = symbol + " " + line
	}
	return truncate(line, max(4, width))
}

// taskSubLine summarizes card metadata shown under the title.
func taskSubLine(task domain.Task) string {
	parts := []string{}
	if len(task.Tags) > 0 {
		parts = append(parts, "#"+strings.Join(task.Tags, " #"))
	}
	if task.DueDate != nil {
		parts = append(parts, "due "+*task.DueDate)
	}
	return strings.Join(parts, "  ")
}

func (m Model) columnWidth(columns int) int {
	if columns == 0 {
		return 20
	}
	return clamp((m.width-2)/columns-2, 18, 44)
}

func (m Model) columnHeight() int {
	return clamp(m.height-8, 5, 60)
}

func clamp(v, minV, maxV int) int {
	if maxV < minV {
		return minV
	}
	if v < minV {
		return minV
	}
	if v > maxV {
		return maxV
	}
	return v
}

// fitLines fits lines.
func fitLines(content string, maxLines int) string {
	if maxLines <= 0 {
		return ""
	}
	lines := strings.Split(content, "\n")
	switch {
	case len(lines) > maxLines:
		if maxLines == 1 {
			lines = []string{"…"}
		} else {
			lines = append(lines[:maxLines-1], "…")
		}
	case len(lines) < maxLines:
		padding := make([]string, maxLines-len(lines))
		lines = append(lines, padding...)
	}
	return strings.Join(lines, "\n")
}

// overlayOnContent overlays on content.
func overlayOnContent(base, overlay string, width, height int) string {
	if width <= 0 || height <= 0 {
		if strings.TrimSpace(overlay) == "" {
			return base
		}
		return overlay + "\n\n" + base
	}

	base = fitLines(base, height)
	canvas := lipgloss.NewCanvas(width, height)
	baseLayer := lipgloss.NewLayer(base).X(0).Y(0).Z(0)
	centeredOverlay := lipgloss.Place(
		width,
		height,
		lipgloss.Center,
		lipgloss.Center,
		overlay,
	)
	overlayLayer := lipgloss.NewLayer(centeredOverlay).X(0).Y(0).Z(10)

	canvas.Compose(baseLayer)
	canvas.Compose(overlayLayer)
	return canvas.Render()
}

// truncate truncates the requested operation.
func truncate(s string, max int) string {
	if max <= 0 {
		return ""
	}
	rs := []rune(s)
	if len(rs) <= max {
		return s
	}
	if max <= 1 {
		return string(rs[:max])
	}
	return string(rs[:max-1]) + "…"
}
