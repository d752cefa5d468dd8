package ui

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/hferr/revlog/internal/blame"
)

// NewBlameTable creates a new table with blame-specific styling defaults.
// This is a thin wrapper around lipgloss/table with opinionated defaults.
func NewBlameTable() *table.Table {
	return table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(TableBorderStyle).
		BorderColumn(true).
		StyleFunc(blameTableStyleFunc)
}

func blameTableStyleFunc(row, col int) lipgloss.Style {
	switch {
	case row == table.HeaderRow:
		return TableHeaderStyle
	case row%2 == 0:
		return TableCellStyle
	default:
		return TableRowAltStyle
	}
}

// RenderBlameTable renders blame ranges as a table. messages maps a
// revision to its commit message title; highlighted marks the range
// starts that share the cursor line's revision.
func RenderBlameTable(ranges []blame.Range, messages map[string]string, highlighted map[int]bool) string {
	t := NewBlameTable().Headers("LINES", "REV", "AUTHOR", "DATE", "MESSAGE")

	for _, r := range ranges {
		lines := fmt.Sprintf("%d-%d", r.Start+1, r.End)

		var rev, author, date, msg string
		if r.Commit == nil {
			rev = IconUncommitted
			author = "(uncommitted)"
		} else {
			rev = "r" + r.Commit.Revision
			author = Truncate(r.Commit.Author, Display.MaxAuthorLength)
			date = r.Commit.Date.Format(Display.DateLayout)
			msg = Truncate(messages[r.Commit.Revision], Display.MaxMessageLength)
		}

		if highlighted[r.Start] {
			rev = SiblingHighlightStyle.Render(rev)
		}
		t.Row(lines, rev, author, date, msg)
	}

	t.Width(min(GetTerminalWidth(), Display.DefaultTerminalWidth))
	return t.String()
}
