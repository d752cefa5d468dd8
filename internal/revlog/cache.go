package revlog

import (
	"context"
	"errors"
	"sort"
	"sync"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/singleflight"

	"github.com/hferr/revlog/internal/config"
	"github.com/hferr/revlog/internal/target"
	"github.com/hferr/revlog/internal/vcs"
)

// ErrUnknownTarget is returned for operations on a target the cache does
// not track.
var ErrUnknownTarget = errors.New("target is not tracked")

// Persisted is the per-target state that survives a refresh cycle.
// CommitFrom anchors the first page ("HEAD" or an explicit revision);
// BaseRevision is the working copy's base at discovery time; UserAdded
// distinguishes ad-hoc targets from auto-discovered repositories.
type Persisted struct {
	CommitFrom   string
	BaseRevision int
	UserAdded    bool
}

// entry accumulates fetched history for one target. Commits are
// newest-first, append-only within a session, with no duplicate
// revisions. The generation counter invalidates in-flight fetches when
// the entry is refreshed or discarded.
type entry struct {
	target     target.Identity
	commits    []vcs.Commit
	complete   bool
	persisted  Persisted
	order      int
	generation uint64
}

// Snapshot is the read-only view of a cache entry handed to consumers.
type Snapshot struct {
	Target    target.Identity
	Commits   []vcs.Commit
	Complete  bool
	Persisted Persisted
	Order     int
}

// Cache owns one entry per tracked target and orchestrates incremental
// history fetches. All mutation goes through its methods; consumers only
// ever see snapshots.
type Cache struct {
	mu        sync.Mutex
	entries   map[string]*entry
	nextOrder int

	fetcher vcs.LogFetcher
	cfg     *config.Config
	log     *logrus.Logger

	// group enforces at most one in-flight fetch per entry: concurrent
	// FetchMore calls for the same target coalesce into a single
	// backend call instead of interleaving pages.
	group singleflight.Group
}

// New creates an empty cache using fetcher for backend log calls.
func New(fetcher vcs.LogFetcher, cfg *config.Config, logger *logrus.Logger) *Cache {
	if logger == nil {
		logger = logrus.New()
		logger.SetLevel(logrus.WarnLevel)
	}
	return &Cache{
		entries: make(map[string]*entry),
		fetcher: fetcher,
		cfg:     cfg,
		log:     logger,
	}
}

// Track registers a target, creating its entry if absent, and returns the
// entry's key. An existing entry keeps its accumulated history.
func (c *Cache) Track(id target.Identity, p Persisted) string {
	if p.CommitFrom == "" {
		p.CommitFrom = vcs.Head
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	key := id.Key()
	if _, ok := c.entries[key]; !ok {
		c.entries[key] = &entry{
			target:    id,
			persisted: p,
			order:     c.nextOrder,
		}
		c.nextOrder++
	}
	return key
}

// Snapshot returns a read-only copy of the entry for key.
func (c *Cache) Snapshot(key string) (Snapshot, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.entries[key]
	if !ok {
		return Snapshot{}, false
	}
	commits := make([]vcs.Commit, len(e.commits))
	copy(commits, e.commits)
	return Snapshot{
		Target:    e.target,
		Commits:   commits,
		Complete:  e.complete,
		Persisted: e.persisted,
		Order:     e.order,
	}, true
}

// Keys returns all tracked target keys in stable display order.
func (c *Cache) Keys() []string {
	c.mu.Lock()
	defer c.mu.Unlock()

	keys := make([]string, 0, len(c.entries))
	for k := range c.entries {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		return c.entries[keys[i]].order < c.entries[keys[j]].order
	})
	return keys
}

// Remove discards the entry for key. A fetch still in flight for the
// removed entry is dropped when it resolves.
func (c *Cache) Remove(key string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.entries, key)
}

// Refresh resets an entry's accumulated history so the next FetchMore
// starts over from the persisted anchor. Persisted state is kept. An
// in-flight fetch started before the refresh is dropped when it resolves.
func (c *Cache) Refresh(key string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.entries[key]
	if !ok {
		return ErrUnknownTarget
	}
	e.commits = nil
	e.complete = false
	e.generation++
	return nil
}

// Prune drops auto-discovered entries whose target a global refresh no
// longer found. User-added entries persist.
func (c *Cache) Prune(found map[string]bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	for key, e := range c.entries {
		if !e.persisted.UserAdded && !found[key] {
			delete(c.entries, key)
		}
	}
}

// FetchMore extends the entry for key by one page of history. The page
// anchor continues strictly backward from the oldest fetched revision, or
// starts at the persisted anchor for an empty entry. A backend failure
// degrades to an empty page and the entry finishes as complete. Calling
// FetchMore on a complete entry is a no-op.
func (c *Cache) FetchMore(ctx context.Context, key string) error {
	limit, err := c.cfg.PageSize()
	if err != nil {
		return err
	}

	c.mu.Lock()
	e, ok := c.entries[key]
	if !ok {
		c.mu.Unlock()
		return ErrUnknownTarget
	}
	if e.complete {
		c.mu.Unlock()
		return nil
	}

	gen := e.generation
	tgt := e.target.RemotePath
	rfrom := e.persisted.CommitFrom
	if last := lastDirect(e.commits); last != nil {
		prev, err := vcs.PrevRevision(last.Revision)
		if err != nil {
			// oldest fetched revision is genesis, nothing older exists
			e.complete = true
			c.mu.Unlock()
			return nil
		}
		rfrom = prev
	}
	c.mu.Unlock()

	_, err, _ = c.group.Do(key, func() (any, error) {
		fetched, err := c.fetcher.Log(ctx, tgt, rfrom, vcs.Genesis, limit, false)
		if err != nil {
			c.log.WithError(err).WithField("target", key).
				Debug("log fetch failed, treating as end of history")
			fetched = nil
		}

		c.mu.Lock()
		defer c.mu.Unlock()

		e, ok := c.entries[key]
		if !ok || e.generation != gen {
			// entry was refreshed or discarded while the fetch was in
			// flight; drop the stale page
			return nil, nil
		}
		c.appendPage(e, fetched)
		e.complete = !needFetch(e.commits, fetched, limit)
		return nil, nil
	})
	return err
}

// appendPage appends fetched records in order, skipping revisions already
// present so the strictly-decreasing no-duplicates invariant holds across
// pages.
func (c *Cache) appendPage(e *entry, fetched []vcs.Commit) {
	seen := make(map[string]bool, len(e.commits))
	for _, cm := range e.commits {
		seen[cm.Revision] = true
	}
	for _, cm := range fetched {
		if seen[cm.Revision] {
			continue
		}
		seen[cm.Revision] = true
		e.commits = append(e.commits, cm)
	}
}

// needFetch decides whether more pages may exist after a fetch. It
// returns false, meaning the entry is complete, when the cached history
// reaches the genesis revision, when the page came back empty or ends at
// genesis, or when the page is shorter than the requested limit.
// Merge-derived records do not count toward pagination progress.
func needFetch(cached, fetched []vcs.Commit, limit int) bool {
	if last := lastDirect(cached); last != nil && last.Revision == vcs.Genesis {
		return false
	}
	direct := 0
	for _, cm := range fetched {
		if !cm.FromMerge {
			direct++
		}
	}
	if direct == 0 {
		return false
	}
	if last := lastDirect(fetched); last != nil && last.Revision == vcs.Genesis {
		return false
	}
	return direct >= limit
}

// lastDirect returns the last non-merge-derived record, or nil.
func lastDirect(commits []vcs.Commit) *vcs.Commit {
	for i := len(commits) - 1; i >= 0; i-- {
		if !commits[i].FromMerge {
			return &commits[i]
		}
	}
	return nil
}
