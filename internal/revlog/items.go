package revlog

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/hferr/revlog/internal/vcs"
)

// ItemKind discriminates the variants of a rendered history item.
type ItemKind int

const (
	ItemRepo ItemKind = iota
	ItemCommit
	ItemCommitDetail
	ItemAction
	ItemBaseMarker
	ItemLoadMore
)

// Item is one node of the rendered history sequence: a tagged union over
// the discriminant, plain data only. Owner carries the owning entry's key
// so deeply nested items can be resolved back to their cache entry by
// lookup rather than by holding a pointer.
type Item struct {
	Kind   ItemKind
	Owner  string
	Commit *vcs.Commit
	Change *vcs.PathChange
	Label  string
}

// Items flattens the entry for key into its presentation sequence: the
// repository root, each commit followed by its message body (when one
// exists) and its path actions, a synthetic
// base marker where the working copy's base revision falls strictly
// between two adjacent commits, and a load-more tail while the entry is
// incomplete. The marker is a presentation aid only; it is never part of
// the entry's commits.
func (c *Cache) Items(key string) ([]Item, error) {
	snap, ok := c.Snapshot(key)
	if !ok {
		return nil, ErrUnknownTarget
	}

	items := []Item{{
		Kind:  ItemRepo,
		Owner: key,
		Label: snap.Target.DisplayName(),
	}}

	base := snap.Persisted.BaseRevision
	for i := range snap.Commits {
		cm := &snap.Commits[i]
		if i > 0 && base > 0 && betweenRevisions(snap.Commits[i-1].Revision, cm.Revision, base) {
			items = append(items, Item{
				Kind:  ItemBaseMarker,
				Owner: key,
				Label: fmt.Sprintf("working copy base r%d", base),
			})
		}
		items = append(items, Item{Kind: ItemCommit, Owner: key, Commit: cm})
		if body := messageBody(cm.Message); body != "" {
			items = append(items, Item{Kind: ItemCommitDetail, Owner: key, Commit: cm, Label: body})
		}
		for j := range cm.Changes {
			items = append(items, Item{
				Kind:   ItemAction,
				Owner:  key,
				Commit: cm,
				Change: &cm.Changes[j],
			})
		}
	}

	if !snap.Complete {
		items = append(items, Item{Kind: ItemLoadMore, Owner: key, Label: "load more"})
	}
	return items, nil
}

// messageBody returns the message text past the first line.
func messageBody(message string) string {
	if i := strings.IndexByte(message, '\n'); i >= 0 {
		return strings.TrimSpace(message[i+1:])
	}
	return ""
}

// betweenRevisions reports whether base lies strictly between the newer
// and older adjacent revisions.
func betweenRevisions(newer, older string, base int) bool {
	b := strconv.Itoa(base)
	return vcs.CompareRevisions(b, newer) < 0 && vcs.CompareRevisions(b, older) > 0
}
