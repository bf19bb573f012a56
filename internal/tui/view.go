package tui

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/lumen-tui/lumen/internal/timeline"
)

const (
	colorText     = "#E6E6E6"
	colorMuted    = "#8A8A8A"
	colorPanel    = "#2D2D44"
	colorAccent   = "#7AA2F7"
	colorError    = "#F7768E"
	colorPhoto    = "#9ECE6A"
	colorVideo    = "#E0AF68"
	colorSkeleton = "#44475A"
)

func (m model) View() string {
	if m.quitting {
		return ""
	}
	if m.width == 0 || m.height == 0 {
		return "loading library..."
	}

	parts := []string{
		m.renderHeader(),
		m.renderBody(),
	}
	if m.err != nil {
		errStyle := lipgloss.NewStyle().Foreground(lipgloss.Color(colorError)).Bold(true)
		parts = append(parts, errStyle.Render(truncateLine("Error: "+m.err.Error(), m.width)))
	} else {
		parts = append(parts, m.renderStatusLine())
	}
	return strings.Join(parts, "\n")
}

func (m model) renderHeader() string {
	title := fmt.Sprintf("lumen  %d days  %d items", m.skeleton.Count(), m.itemTotal)
	if m.visibleDate != "" {
		title += "  |  " + m.visibleDate
	}
	return lipgloss.NewStyle().
		Foreground(lipgloss.Color(colorText)).
		Background(lipgloss.Color(colorPanel)).
		Padding(0, 1).
		Width(m.width).
		Render(truncateLine(title, maxInt(1, m.width-2)))
}

// renderBody paints the slice of the virtual timeline that is visible right
// now. Every line is addressed by its virtual coordinate so the output only
// depends on the layout window, never on how much of it is materialized.
func (m model) renderBody() string {
	lines := make([]string, m.viewportRows)
	virtualTop := m.coord.VirtualPosition()

	for _, item := range m.layout.Items() {
		start := maxInt(item.Top, virtualTop)
		end := minInt(item.Top+item.Height, virtualTop+m.viewportRows)
		if start >= end {
			continue
		}
		switch item.Kind {
		case timeline.LayoutSpacer:
			// Chunked so no single fill run exceeds the renderer-safe
			// height; each chunk paints as blank lines.
			offset := item.Top
			for _, chunk := range timeline.ChunkHeights(item.Height, m.opts.ChunkMax) {
				for y := maxInt(offset, start); y < minInt(offset+chunk, end); y++ {
					lines[y-virtualTop] = ""
				}
				offset += chunk
			}
		case timeline.LayoutHeader:
			for y := start; y < end; y++ {
				lines[y-virtualTop] = m.renderDateHeader(item)
			}
		case timeline.LayoutRow:
			for y := start; y < end; y++ {
				lines[y-virtualTop] = m.renderRow(item, y-item.Top)
			}
		}
	}

	return strings.Join(lines, "\n")
}

func (m model) renderDateHeader(item timeline.LayoutItem) string {
	if item.Placeholder {
		return lipgloss.NewStyle().
			Foreground(lipgloss.Color(colorSkeleton)).
			Render(strings.Repeat("▒", 10))
	}
	return lipgloss.NewStyle().
		Foreground(lipgloss.Color(colorAccent)).
		Bold(true).
		Render(item.DateKey)
}

// renderRow draws one line of a media row. Each cell is a fixed-width tile;
// tiles span the row's full height, so line selects which slice to draw.
func (m model) renderRow(item timeline.LayoutItem, line int) string {
	tileWidth := m.tileWidth()
	cells := make([]string, 0, m.opts.ColumnCount)

	if item.Placeholder {
		style := lipgloss.NewStyle().Foreground(lipgloss.Color(colorSkeleton))
		for col := 0; col < m.opts.ColumnCount; col++ {
			cells = append(cells, style.Render(strings.Repeat("░", tileWidth-1)))
		}
		return strings.Join(cells, " ")
	}

	for col := 0; col < m.opts.ColumnCount; col++ {
		if col >= len(item.Items) {
			cells = append(cells, strings.Repeat(" ", tileWidth-1))
			continue
		}
		cells = append(cells, m.renderTile(item.Items[col], tileWidth-1, line))
	}
	return strings.Join(cells, " ")
}

func (m model) renderTile(item timeline.Item, width, line int) string {
	color := colorPhoto
	glyph := "▣"
	if isVideoPath(item.Path) {
		color = colorVideo
		glyph = "▶"
	}

	var text string
	switch line {
	case 0:
		text = glyph + " " + filepath.Base(item.Path)
	default:
		text = strings.Repeat("·", width)
	}
	return lipgloss.NewStyle().
		Foreground(lipgloss.Color(color)).
		Width(width).
		MaxWidth(width).
		Render(truncateLine(text, width))
}

func (m model) renderStatusLine() string {
	virtual := m.coord.VirtualPosition()
	total := m.skeleton.TotalHeight()

	status := fmt.Sprintf("pos %d/%d", virtual, total)
	if bucket, ok := m.skeleton.Bucket(m.coord.Cursor()); ok {
		status += "  bucket " + bucket.ID
	}
	if m.anchor.ResetPending() {
		status += "  [recentering]"
	}
	if m.enteringDate {
		status = "jump to date: " + m.dateInput + "▌"
	}

	hints := "  j/k scroll  d/u page  [/] day  / jump  g/G ends  q quit"
	if lipgloss.Width(status+hints) <= m.width {
		status += hints
	}
	return lipgloss.NewStyle().
		Foreground(lipgloss.Color(colorMuted)).
		Render(truncateLine(status, m.width))
}

// tileWidth divides the terminal width evenly between columns.
func (m model) tileWidth() int {
	if m.opts.ColumnCount <= 0 {
		return 2
	}
	return maxInt(2, m.width/m.opts.ColumnCount)
}

func isVideoPath(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".mp4", ".mov", ".mkv", ".webm", ".avi":
		return true
	}
	return false
}

func truncateLine(s string, width int) string {
	if width <= 0 {
		return ""
	}
	if lipgloss.Width(s) <= width {
		return s
	}
	runes := []rune(s)
	if len(runes) <= width {
		return s
	}
	if width <= 1 {
		return string(runes[:width])
	}
	return string(runes[:width-1]) + "…"
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}
