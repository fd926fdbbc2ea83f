package tui

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
)

// View renders the browser.
func (m *Model) View() string {
	if m.width == 0 {
		return "Loading..."
	}

	switch m.mode {
	case ModeHelp:
		return m.renderHelp()
	case ModeFilter:
		return m.renderFilter()
	case ModeFavorites:
		return m.renderFavorites()
	default:
		return m.renderMain()
	}
}

// renderMain renders the listing view.
func (m *Model) renderMain() string {
	var sections []string

	sections = append(sections, m.renderTitle())
	sections = append(sections, m.renderHeader())
	sections = append(sections, m.renderList())
	sections = append(sections, m.renderStatus())

	if m.mode == ModeSearch || m.mode == ModeSaveFavorite {
		sections = append(sections, m.renderInput())
	}

	sections = append(sections, m.renderHelpBar())

	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

// renderTitle renders the title bar with the current location.
func (m *Model) renderTitle() string {
	location := "/" + m.state.PathKey()
	if m.state.SearchText != "" {
		location = fmt.Sprintf("search %q", m.state.SearchText)
	}
	title := fmt.Sprintf("blobnav [%s] %s", m.sourceID, location)
	return m.theme.TitleStyle.Render(title)
}

// renderHeader renders the column header row.
func (m *Model) renderHeader() string {
	nameWidth, typeWidth := m.columnWidths()
	header := fmt.Sprintf("   %s %s %10s  %s",
		padRight("NAME", nameWidth), padRight("TYPE", typeWidth), "SIZE", "MODIFIED")
	return m.theme.HeaderStyle.Render(header)
}

// renderList renders the visible window of the current page.
func (m *Model) renderList() string {
	if m.result.FolderMissing {
		return m.theme.NormalItemStyle.Render("  (folder not found)")
	}
	if len(m.entries) == 0 {
		if m.state.SearchText != "" {
			return m.theme.NormalItemStyle.Render("  (no matches)")
		}
		return m.theme.NormalItemStyle.Render("  (empty folder)")
	}

	var lines []string
	visibleLines := m.getVisibleLines()

	start := m.offset
	end := m.offset + visibleLines
	if end > len(m.entries) {
		end = len(m.entries)
	}

	for i := start; i < end; i++ {
		lines = append(lines, m.renderRow(m.entries[i], i == m.cursor))
	}

	return strings.Join(lines, "\n")
}

// renderRow renders a single listing row. The selected row is styled
// as one block; other rows color the name by kind and the type label
// by its color hint.
func (m *Model) renderRow(entry *Entry, selected bool) string {
	nameWidth, typeWidth := m.columnWidths()

	label := ""
	if !entry.IsFolder {
		label = entry.Type.Label
	}

	name := padRight(entry.DisplayName(), nameWidth)
	paddedLabel := padRight(label, typeWidth)
	size := entry.DisplaySize()
	modified := entry.DisplayModified(m.dateFormat)

	if selected {
		line := fmt.Sprintf("%s %s %s %10s  %s", entry.Icon(), name, paddedLabel, size, modified)
		return m.theme.SelectedItemStyle.Render(line)
	}

	nameStyle := m.theme.FileStyle
	if entry.IsFolder {
		nameStyle = m.theme.FolderStyle
	}
	styledLabel := paddedLabel
	if !entry.IsFolder && entry.Type.ColorHint != "" {
		styledLabel = lipgloss.NewStyle().
			Foreground(lipgloss.Color(entry.Type.ColorHint)).
			Render(paddedLabel)
	}

	return fmt.Sprintf("%s %s %s %10s  %s",
		entry.Icon(), nameStyle.Render(name), styledLabel, size, modified)
}

// renderStatus renders the status bar.
func (m *Model) renderStatus() string {
	left := fmt.Sprintf("%d items", m.result.Total)
	if m.page.TotalPages > 1 {
		left = fmt.Sprintf("%d items · page %d/%d", m.result.Total, m.page.Number, m.page.TotalPages)
	}
	left += fmt.Sprintf(" · sort %s", m.state.Sort)
	if len(m.state.TypeLabels) > 0 {
		labels := make([]string, 0, len(m.state.TypeLabels))
		for label := range m.state.TypeLabels {
			labels = append(labels, label)
		}
		sort.Strings(labels)
		left += fmt.Sprintf(" · types %s", strings.Join(labels, ","))
	}

	right := ""
	if m.errorMsg != "" {
		right = m.theme.ErrorStyle.Render(m.errorMsg)
	} else if m.statusMsg != "" {
		right = m.statusMsg
	}

	spacing := max(m.width-lipgloss.Width(left)-lipgloss.Width(right)-4, 0)

	statusLine := left + strings.Repeat(" ", spacing) + right
	return m.theme.StatusBarStyle.Width(m.width).Render(statusLine)
}

// renderInput renders the search or favorite name input line.
func (m *Model) renderInput() string {
	prompt := "> "
	if m.mode == ModeSearch {
		prompt = "/ "
	}
	return m.theme.CommandStyle.Render(prompt + m.textInput.View())
}

// renderHelpBar renders the collapsed help bar.
func (m *Model) renderHelpBar() string {
	return m.theme.HelpStyle.Render(m.help.ShortHelpView(m.keys.ShortHelp()))
}

// renderFilter renders the type filter panel.
func (m *Model) renderFilter() string {
	var sections []string

	sections = append(sections, m.theme.TitleStyle.Render("Type filter"))
	sections = append(sections, "")

	if len(m.labels) == 0 {
		sections = append(sections, m.theme.NormalItemStyle.Render("  (no listable records)"))
	}

	for i, lc := range m.labels {
		marker := "[ ]"
		if _, ok := m.state.TypeLabels[lc.label]; ok {
			marker = "[x]"
		}
		line := fmt.Sprintf(" %s %-12s %6d", marker, lc.label, lc.count)
		if i == m.filterCursor {
			line = m.theme.SelectedItemStyle.Render(line)
		} else {
			line = m.theme.NormalItemStyle.Render(line)
		}
		sections = append(sections, line)
	}

	sections = append(sections, "")
	sections = append(sections, m.theme.HelpStyle.Render("space toggle · c clear · esc close · empty selection shows every type"))

	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

// renderFavorites renders the favorites panel, either the saved list
// or the folders the selected favorite matched.
func (m *Model) renderFavorites() string {
	var sections []string

	if m.favMatches != nil {
		pattern := ""
		if m.favCursor < len(m.favorites) {
			pattern = m.favorites[m.favCursor].Pattern
		}
		sections = append(sections, m.theme.TitleStyle.Render(fmt.Sprintf("Folders matching %q", pattern)))
		sections = append(sections, "")

		for i, folder := range m.favMatches {
			line := " /" + folder
			if i == m.matchCursor {
				line = m.theme.SelectedItemStyle.Render(line)
			} else {
				line = m.theme.FolderStyle.Render(line)
			}
			sections = append(sections, line)
		}

		sections = append(sections, "")
		sections = append(sections, m.theme.HelpStyle.Render("enter open folder · esc back"))
		return lipgloss.JoinVertical(lipgloss.Left, sections...)
	}

	sections = append(sections, m.theme.TitleStyle.Render("Favorites"))
	sections = append(sections, "")

	if len(m.favorites) == 0 {
		sections = append(sections, m.theme.NormalItemStyle.Render("  (no favorites saved)"))
	}

	for i, fav := range m.favorites {
		line := fmt.Sprintf(" %-20s %s", fav.Name, fav.Pattern)
		if fav.Limit > 0 {
			line += fmt.Sprintf(" (limit %d)", fav.Limit)
		}
		if i == m.favCursor {
			line = m.theme.SelectedItemStyle.Render(line)
		} else {
			line = m.theme.NormalItemStyle.Render(line)
		}
		sections = append(sections, line)
	}

	sections = append(sections, "")
	sections = append(sections, m.theme.HelpStyle.Render("enter run · d delete · esc close"))

	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

// renderHelp renders the full help screen.
func (m *Model) renderHelp() string {
	var sections []string

	sections = append(sections, m.theme.TitleStyle.Render("blobnav help"))
	sections = append(sections, "")

	sections = append(sections, m.theme.HeaderStyle.Render("Navigation:"))
	sections = append(sections, "  ↑/k ↓/j      Move selection")
	sections = append(sections, "  Enter/l      Open folder, or jump to a search hit's folder")
	sections = append(sections, "  Bksp/h       Parent folder (clears an active search first)")
	sections = append(sections, "  ←/p →/n      Previous / next page")
	sections = append(sections, "  g / G        First / last page")
	sections = append(sections, "")

	sections = append(sections, m.theme.HeaderStyle.Render("Search and filters:"))
	sections = append(sections, "  /            Search all files: plain text, * and ? wildcards, or /regex")
	sections = append(sections, "  Esc          Clear the active search")
	sections = append(sections, "  f            Type filter panel")
	sections = append(sections, "  s            Cycle sort: modified, size, name")
	sections = append(sections, "")

	sections = append(sections, m.theme.HeaderStyle.Render("Favorites:"))
	sections = append(sections, "  b            Open saved favorites")
	sections = append(sections, "  B            Save the current search or folder as a favorite")
	sections = append(sections, "")

	sections = append(sections, m.theme.HeaderStyle.Render("Application:"))
	sections = append(sections, "  r            Refresh the listing from the source")
	sections = append(sections, "  ?            Toggle this help")
	sections = append(sections, "  q/Ctrl+C     Quit")
	sections = append(sections, "")

	sections = append(sections, m.theme.HelpStyle.Render("Press ? or q to return"))

	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

// columnWidths computes the name and type column widths for the
// current terminal width. Size and modified use fixed widths.
func (m *Model) columnWidths() (nameWidth, typeWidth int) {
	typeWidth = 8
	modWidth := len(time.Date(2006, 1, 2, 15, 4, 5, 0, time.UTC).Format(m.dateFormat))
	if modWidth < len("MODIFIED") {
		modWidth = len("MODIFIED")
	}
	nameWidth = m.width - typeWidth - 10 - modWidth - 9
	if nameWidth < 20 {
		nameWidth = 20
	}
	return nameWidth, typeWidth
}

// padRight truncates or pads s to exactly width runes.
func padRight(s string, width int) string {
	runes := []rune(s)
	if len(runes) > width {
		if width <= 3 {
			return string(runes[:width])
		}
		return string(runes[:width-3]) + "..."
	}
	return s + strings.Repeat(" ", width-len(runes))
}
