package ui

import (
	"fmt"

	"github.com/charmbracelet/lipgloss/tree"

	"github.com/hferr/revlog/internal/revlog"
)

// RenderHistoryTree renders one cache entry's item sequence as a tree.
// Example output:
//
//	trunk/src/app.c
//	├─ r42 Fix login redirect (alice, 2024-03-01 12:34)
//	│  ╰─● trunk/src/app.c
//	├─ ── working copy base r40 ──
//	├─ r39 Extract session helper (bob, 2024-02-27 09:12)
//	╰─ … load more
func RenderHistoryTree(items []revlog.Item) string {
	if len(items) == 0 {
		return Dim("No history yet")
	}

	root := tree.Root(TreeRootStyle.Render(items[0].Label))
	var commitNode *tree.Tree

	for _, item := range items[1:] {
		switch item.Kind {
		case revlog.ItemCommit:
			commitNode = tree.Root(FormatCommitLine(item.Commit))
			root.Child(commitNode)
		case revlog.ItemCommitDetail:
			if commitNode != nil {
				commitNode.Child(Dim(Truncate(item.Label, Display.MaxMessageLength)))
			}
		case revlog.ItemAction:
			if commitNode != nil {
				commitNode.Child(FormatActionLine(item.Change))
			}
		case revlog.ItemBaseMarker:
			commitNode = nil
			root.Child(BaseMarkerStyle.Render("── " + item.Label + " ──"))
		case revlog.ItemLoadMore:
			commitNode = nil
			root.Child(Dim("… " + item.Label))
		}
	}

	root.Enumerator(roundedEnumerator()).
		EnumeratorStyle(TreeEnumeratorStyle).
		Indenter(treeIndenter())

	return root.String()
}

// RenderTargetList renders the tracked targets as a tree, one node per
// target with a summary line.
func RenderTargetList(targets []TargetSummary) string {
	if len(targets) == 0 {
		return Dim("No targets tracked. Add one with: ") + Highlight("revlog target add <path>")
	}

	title := fmt.Sprintf("Targets (%d total)", len(targets))
	t := tree.Root(HeaderStyle.Render(title))

	for _, tgt := range targets {
		label := TreeItemStyle.Render(tgt.Name)
		if tgt.UserAdded {
			label += " " + Muted("[added]")
		}
		node := tree.Root(label)
		node.Child(Dim(tgt.Summary))
		t.Child(node)
	}

	t.Enumerator(roundedEnumerator()).
		EnumeratorStyle(TreeEnumeratorStyle).
		Indenter(treeIndenter())

	return t.String()
}

// TargetSummary is the display payload for one tracked target.
type TargetSummary struct {
	Name      string
	Summary   string
	UserAdded bool
}

// roundedEnumerator returns a custom rounded enumerator for trees
func roundedEnumerator() tree.Enumerator {
	return func(children tree.Children, i int) string {
		if children.Length() == 0 {
			return ""
		}

		if i == children.Length()-1 {
			return "╰─ "
		}
		return "├─ "
	}
}

// treeIndenter returns an indenter function for trees
func treeIndenter() tree.Indenter {
	return func(children tree.Children, i int) string {
		if children.Length() == 0 {
			return ""
		}

		if i == children.Length()-1 {
			return "   " // No vertical line after last child
		}
		return "│  " // Vertical line for non-last children
	}
}
