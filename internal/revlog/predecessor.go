package revlog

import (
	"context"
	"errors"
	"fmt"

	"github.com/hferr/revlog/internal/vcs"
)

// ErrNoPredecessor is returned when no earlier commit touching the path
// can be determined. The cache is left untouched.
var ErrNoPredecessor = errors.New("no previous commit found for path")

// Predecessor finds the commit immediately preceding revision that also
// touched path (repository-relative). The cached history is scanned
// first, newest match wins; when the cache window does not reach far
// enough back, a targeted two-result fetch scoped to the single path is
// issued instead of paging in full history.
func (c *Cache) Predecessor(ctx context.Context, key, revision, path string) (vcs.Commit, error) {
	c.mu.Lock()
	e, ok := c.entries[key]
	if !ok {
		c.mu.Unlock()
		return vcs.Commit{}, ErrUnknownTarget
	}
	commits := make([]vcs.Commit, len(e.commits))
	copy(commits, e.commits)
	root := e.target.RepositoryRoot()
	c.mu.Unlock()

	for _, cm := range commits {
		if cm.FromMerge {
			continue
		}
		if vcs.CompareRevisions(cm.Revision, revision) >= 0 {
			continue
		}
		if _, ok := findChange(cm, path); ok {
			return cm, nil
		}
	}

	fetched, err := c.fetcher.Log(ctx, root+path, revision, vcs.Genesis, 2, false)
	if err != nil {
		if errors.Is(err, vcs.ErrTargetNotFound) {
			return vcs.Commit{}, ErrNoPredecessor
		}
		return vcs.Commit{}, fmt.Errorf("failed to fetch history for %s: %w", path, err)
	}
	if len(fetched) < 2 {
		return vcs.Commit{}, ErrNoPredecessor
	}

	anchor, candidate := fetched[0], fetched[1]
	if ch, ok := findChange(anchor, path); ok {
		// Lineage check: a record that added the path fresh has no
		// predecessor, and a copy must trace back to its source. Without
		// this an older touch of a same-named but unrelated file (for
		// example after delete and recreate) would be reported.
		switch {
		case ch.Action == vcs.ActionAdded && ch.CopyFromPath == "":
			return vcs.Commit{}, ErrNoPredecessor
		case ch.CopyFromPath != "" && ch.CopyFromPath != path:
			if _, ok := findChange(candidate, ch.CopyFromPath); !ok {
				return vcs.Commit{}, ErrNoPredecessor
			}
		}
	}
	return candidate, nil
}

// findChange returns the path change for path within the commit.
func findChange(cm vcs.Commit, path string) (vcs.PathChange, bool) {
	for _, ch := range cm.Changes {
		if ch.Path == path {
			return ch, true
		}
	}
	return vcs.PathChange{}, false
}
