package ui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/hferr/revlog/internal/vcs"
)

// Action icons
const (
	IconAdded       = "+"
	IconDeleted     = "−"
	IconModified    = "●"
	IconReplaced    = "◆"
	IconUncommitted = "◯"
	IconCommit      = "○"
)

// ActionStatus carries the icon, label, and style for one path action.
type ActionStatus struct {
	Icon  string
	Label string
	Style lipgloss.Style
}

// GetActionStatus returns the display status for a path action.
func GetActionStatus(action vcs.Action) ActionStatus {
	switch action {
	case vcs.ActionAdded:
		return ActionStatus{Icon: IconAdded, Label: "Added", Style: ActionAddedStyle}
	case vcs.ActionDeleted:
		return ActionStatus{Icon: IconDeleted, Label: "Deleted", Style: ActionDeletedStyle}
	case vcs.ActionReplaced:
		return ActionStatus{Icon: IconReplaced, Label: "Replaced", Style: ActionReplacedStyle}
	default:
		return ActionStatus{Icon: IconModified, Label: "Modified", Style: ActionModifiedStyle}
	}
}

// Render returns the full status with icon and label (e.g., "+ Added")
func (s ActionStatus) Render() string {
	return s.Style.Render(s.Icon + " " + s.Label)
}

// RenderCompact returns just the styled icon
func (s ActionStatus) RenderCompact() string {
	return s.Style.Render(s.Icon)
}
