package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/hferr/revlog/internal/vcs"
)

// Truncate truncates text to maxLen with an ellipsis if needed
// Uses lipgloss for proper ANSI-aware width handling
func Truncate(text string, maxLen int) string {
	if maxLen <= 0 {
		return ""
	}

	width := lipgloss.Width(text)
	if width <= maxLen {
		return text
	}

	if maxLen <= 3 {
		return lipgloss.NewStyle().MaxWidth(maxLen).Render(text)
	}

	return lipgloss.NewStyle().MaxWidth(maxLen-3).Render(text) + "..."
}

func Pad(text string, width int, align lipgloss.Position) string {
	return lipgloss.PlaceHorizontal(width, align, text)
}

func RenderBox(title string, content string) string {
	style := BoxStyle
	if title != "" {
		style = style.BorderForeground(ColorPrimary)
		titleStyled := lipgloss.NewStyle().
			Foreground(ColorPrimary).
			Bold(true).
			Render(title)

		combined := lipgloss.JoinVertical(lipgloss.Left, titleStyled, "", content)
		return style.Render(combined)
	}
	return style.Render(content)
}

func RenderHeader(text string) string {
	return HeaderStyle.Render(text)
}

func RenderKeyValue(key string, value string) string {
	keyStyled := DimStyle.Render(key + ":")
	return fmt.Sprintf("%s %s", keyStyled, value)
}

// Rows joins multiple strings vertically with newlines
// Uses lipgloss.JoinVertical for consistent layout
func Rows(items ...string) string {
	return lipgloss.JoinVertical(lipgloss.Left, items...)
}

// messageTitle returns the first line of a commit message.
func messageTitle(message string) string {
	if i := strings.IndexByte(message, '\n'); i >= 0 {
		return strings.TrimSpace(message[:i])
	}
	return strings.TrimSpace(message)
}

// FormatCommitLine formats a commit for display in the history tree.
// Example: "r42 Fix login redirect (alice, 2024-03-01 12:34)"
func FormatCommitLine(cm *vcs.Commit) string {
	title := Truncate(messageTitle(cm.Message), Display.MaxMessageLength)
	line := fmt.Sprintf("%s %s %s",
		Highlight("r"+cm.Revision),
		title,
		Dim(fmt.Sprintf("(%s, %s)", cm.Author, cm.Date.Format(Display.DateLayout))),
	)
	if cm.FromMerge {
		line += " " + Muted("[merged]")
	}
	return line
}

// FormatActionLine formats one path change for display under a commit.
func FormatActionLine(ch *vcs.PathChange) string {
	status := GetActionStatus(ch.Action)
	line := status.RenderCompact() + " " + Truncate(ch.Path, Display.MaxPathLength)
	if ch.CopyFromPath != "" {
		line += " " + Dim(fmt.Sprintf("(from %s@%s)", ch.CopyFromPath, ch.CopyFromRev))
	}
	return line
}

// FormatCommitFinderLine formats a commit for fuzzy finder display.
// Fuzzy finder doesn't support ANSI codes, so we use plain text.
func FormatCommitFinderLine(cm vcs.Commit) string {
	return fmt.Sprintf("r%-8s %-*s %s",
		cm.Revision,
		Display.MaxAuthorLength, cm.Author,
		messageTitle(cm.Message))
}

// FormatCommitPreview formats a commit for the fuzzy finder preview
// window. Preview pane supports ANSI codes, so we can use styling.
func FormatCommitPreview(cm vcs.Commit) string {
	lines := []string{
		RenderKeyValue("Revision", Bold("r"+cm.Revision)),
		RenderKeyValue("Author", cm.Author),
		RenderKeyValue("Date", Muted(cm.Date.Format(Display.DateLayout))),
	}

	if msg := strings.TrimSpace(cm.Message); msg != "" {
		lines = append(lines, "", Bold("Message:"), msg)
	}

	if len(cm.Changes) > 0 {
		lines = append(lines, "", Bold("Changed paths:"))
		max := Display.MaxPreviewChanges
		if len(cm.Changes) < max {
			max = len(cm.Changes)
		}
		for i := 0; i < max; i++ {
			ch := cm.Changes[i]
			lines = append(lines, fmt.Sprintf("  %s %s", ch.Action, ch.Path))
		}
		if len(cm.Changes) > max {
			lines = append(lines, Dim(fmt.Sprintf("  ... and %d more", len(cm.Changes)-max)))
		}
	}

	return strings.Join(lines, "\n")
}
