package revlog

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hferr/revlog/internal/config"
	"github.com/hferr/revlog/internal/target"
	"github.com/hferr/revlog/internal/testutil"
	"github.com/hferr/revlog/internal/vcs"
)

func testIdentity() target.Identity {
	return target.Identity{
		Raw:              "src/app.c",
		LocalPath:        "/work/src/app.c",
		RemotePath:       "https://svn.example.org/repo/trunk/src/app.c",
		RepoRelativePath: "/trunk/src/app.c",
	}
}

func newTestCache(fake *testutil.FakeBackend, pageSize any) (*Cache, string) {
	cfg := config.New()
	cfg.Set("log.length", pageSize)
	c := New(fake, cfg, nil)
	key := c.Track(testIdentity(), Persisted{})
	return c, key
}

func revisions(commits []vcs.Commit) []string {
	revs := make([]string, 0, len(commits))
	for _, cm := range commits {
		revs = append(revs, cm.Revision)
	}
	return revs
}

func TestFetchMore_PaginatesToCompletion(t *testing.T) {
	fake := &testutil.FakeBackend{
		Pages: [][]vcs.Commit{
			testutil.MakeCommits(10, 9),
			testutil.MakeCommits(8, 7),
			testutil.MakeCommits(6),
		},
	}
	c, key := newTestCache(fake, 2)
	ctx := context.Background()

	require.NoError(t, c.FetchMore(ctx, key))
	snap, ok := c.Snapshot(key)
	require.True(t, ok)
	assert.Equal(t, []string{"10", "9"}, revisions(snap.Commits))
	assert.False(t, snap.Complete)

	require.NoError(t, c.FetchMore(ctx, key))
	snap, _ = c.Snapshot(key)
	assert.Equal(t, []string{"10", "9", "8", "7"}, revisions(snap.Commits))
	assert.False(t, snap.Complete)

	// final page is shorter than the limit, so the entry completes
	require.NoError(t, c.FetchMore(ctx, key))
	snap, _ = c.Snapshot(key)
	assert.Equal(t, []string{"10", "9", "8", "7", "6"}, revisions(snap.Commits))
	assert.True(t, snap.Complete)

	// each page continues strictly backward from the oldest fetched revision
	reqs := fake.Requests()
	require.Len(t, reqs, 3)
	assert.Equal(t, vcs.Head, reqs[0].From)
	assert.Equal(t, "8", reqs[1].From)
	assert.Equal(t, "6", reqs[2].From)
	for _, req := range reqs {
		assert.Equal(t, vcs.Genesis, req.To)
		assert.Equal(t, 2, req.Limit)
	}
}

func TestFetchMore_CompleteEntryIsNoOp(t *testing.T) {
	fake := &testutil.FakeBackend{
		Pages: [][]vcs.Commit{testutil.MakeCommits(5)},
	}
	c, key := newTestCache(fake, 2)
	ctx := context.Background()

	require.NoError(t, c.FetchMore(ctx, key))
	snap, _ := c.Snapshot(key)
	require.True(t, snap.Complete)

	require.NoError(t, c.FetchMore(ctx, key))
	assert.Equal(t, 1, fake.Calls(), "complete entry must not hit the backend")
}

func TestFetchMore_DeduplicatesOverlappingPages(t *testing.T) {
	fake := &testutil.FakeBackend{
		Pages: [][]vcs.Commit{
			testutil.MakeCommits(10, 9),
			testutil.MakeCommits(9, 8),
		},
	}
	c, key := newTestCache(fake, 2)
	ctx := context.Background()

	require.NoError(t, c.FetchMore(ctx, key))
	require.NoError(t, c.FetchMore(ctx, key))

	snap, _ := c.Snapshot(key)
	assert.Equal(t, []string{"10", "9", "8"}, revisions(snap.Commits))
}

func TestFetchMore_ReachingGenesisCompletes(t *testing.T) {
	fake := &testutil.FakeBackend{
		Pages: [][]vcs.Commit{testutil.MakeCommits(3, 2), testutil.MakeCommits(1)},
	}
	c, key := newTestCache(fake, 2)
	ctx := context.Background()

	require.NoError(t, c.FetchMore(ctx, key))
	require.NoError(t, c.FetchMore(ctx, key))

	snap, _ := c.Snapshot(key)
	assert.True(t, snap.Complete)

	// nothing older than r1 can exist
	require.NoError(t, c.FetchMore(ctx, key))
	assert.Equal(t, 2, fake.Calls())
}

func TestFetchMore_BackendFailureDegradesToComplete(t *testing.T) {
	fake := &testutil.FakeBackend{LogErr: errors.New("svn: E170013: unable to connect")}
	c, key := newTestCache(fake, 2)

	require.NoError(t, c.FetchMore(context.Background(), key))

	snap, _ := c.Snapshot(key)
	assert.Empty(t, snap.Commits)
	assert.True(t, snap.Complete, "a failed fetch reads as end of history")
}

func TestFetchMore_MergeRecordsDoNotCountTowardPagination(t *testing.T) {
	fake := &testutil.FakeBackend{
		Pages: [][]vcs.Commit{
			{testutil.MakeCommit(10), testutil.MergeCommit(9), testutil.MakeCommit(8)},
			testutil.MakeCommits(6),
		},
	}
	c, key := newTestCache(fake, 2)
	ctx := context.Background()

	// two direct records reach the limit even though the merge record
	// makes the page longer
	require.NoError(t, c.FetchMore(ctx, key))
	snap, _ := c.Snapshot(key)
	assert.False(t, snap.Complete)

	// the next anchor steps back from the oldest direct record, r8
	require.NoError(t, c.FetchMore(ctx, key))
	reqs := fake.Requests()
	require.Len(t, reqs, 2)
	assert.Equal(t, "7", reqs[1].From)
}

func TestFetchMore_InvalidPageSizeFailsFast(t *testing.T) {
	fake := &testutil.FakeBackend{}
	c, key := newTestCache(fake, "not-a-number")

	err := c.FetchMore(context.Background(), key)
	require.ErrorIs(t, err, config.ErrInvalidPageSize)
	assert.Zero(t, fake.Calls(), "invalid page size must not reach the backend")
}

func TestFetchMore_UnknownTarget(t *testing.T) {
	c, _ := newTestCache(&testutil.FakeBackend{}, 2)
	err := c.FetchMore(context.Background(), "nope")
	assert.ErrorIs(t, err, ErrUnknownTarget)
}

func TestFetchMore_ConcurrentCallsCoalesce(t *testing.T) {
	gate := make(chan struct{})
	fake := &testutil.FakeBackend{
		Pages:   [][]vcs.Commit{testutil.MakeCommits(10, 9)},
		Gate:    gate,
		Started: make(chan struct{}, 1),
	}
	c, key := newTestCache(fake, 2)
	ctx := context.Background()

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		assert.NoError(t, c.FetchMore(ctx, key))
	}()
	<-fake.Started

	// these join the in-flight fetch instead of issuing their own
	for i := 0; i < 3; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			assert.NoError(t, c.FetchMore(ctx, key))
		}()
	}
	time.Sleep(50 * time.Millisecond)
	close(gate)
	wg.Wait()

	assert.Equal(t, 1, fake.Calls())
	snap, _ := c.Snapshot(key)
	assert.Equal(t, []string{"10", "9"}, revisions(snap.Commits))
}

func TestFetchMore_StalePageDroppedAfterRefresh(t *testing.T) {
	gate := make(chan struct{})
	fake := &testutil.FakeBackend{
		Pages:   [][]vcs.Commit{testutil.MakeCommits(10, 9)},
		Gate:    gate,
		Started: make(chan struct{}, 1),
	}
	c, key := newTestCache(fake, 2)
	ctx := context.Background()

	done := make(chan error, 1)
	go func() {
		done <- c.FetchMore(ctx, key)
	}()

	// refresh while the fetch is held in flight
	<-fake.Started
	require.NoError(t, c.Refresh(key))
	close(gate)
	require.NoError(t, <-done)

	snap, _ := c.Snapshot(key)
	assert.Empty(t, snap.Commits, "page fetched before the refresh must be dropped")
	assert.False(t, snap.Complete)
}

func TestTrack_DefaultsAnchorToHead(t *testing.T) {
	c := New(&testutil.FakeBackend{}, config.New(), nil)
	key := c.Track(testIdentity(), Persisted{})

	snap, ok := c.Snapshot(key)
	require.True(t, ok)
	assert.Equal(t, vcs.Head, snap.Persisted.CommitFrom)
}

func TestTrack_ExistingEntryKeepsHistory(t *testing.T) {
	fake := &testutil.FakeBackend{Pages: [][]vcs.Commit{testutil.MakeCommits(5)}}
	c, key := newTestCache(fake, 2)
	require.NoError(t, c.FetchMore(context.Background(), key))

	again := c.Track(testIdentity(), Persisted{CommitFrom: "3"})
	assert.Equal(t, key, again)

	snap, _ := c.Snapshot(key)
	assert.Equal(t, []string{"5"}, revisions(snap.Commits))
	assert.Equal(t, vcs.Head, snap.Persisted.CommitFrom, "re-tracking must not overwrite persisted state")
}

func TestRefresh_ResetsHistoryKeepsPersisted(t *testing.T) {
	fake := &testutil.FakeBackend{Pages: [][]vcs.Commit{testutil.MakeCommits(5)}}
	cfg := config.New()
	cfg.Set("log.length", 2)
	c := New(fake, cfg, nil)
	key := c.Track(testIdentity(), Persisted{CommitFrom: "40", BaseRevision: 38})
	require.NoError(t, c.FetchMore(context.Background(), key))

	require.NoError(t, c.Refresh(key))

	snap, _ := c.Snapshot(key)
	assert.Empty(t, snap.Commits)
	assert.False(t, snap.Complete)
	assert.Equal(t, "40", snap.Persisted.CommitFrom)
	assert.Equal(t, 38, snap.Persisted.BaseRevision)

	assert.ErrorIs(t, c.Refresh("nope"), ErrUnknownTarget)
}

func TestPrune_KeepsUserAddedEntries(t *testing.T) {
	c := New(&testutil.FakeBackend{}, config.New(), nil)
	auto := c.Track(testIdentity(), Persisted{})
	user := c.Track(target.Identity{
		Raw:        "https://svn.example.org/other",
		RemotePath: "https://svn.example.org/other",
	}, Persisted{UserAdded: true})

	c.Prune(map[string]bool{})

	_, ok := c.Snapshot(auto)
	assert.False(t, ok, "auto-discovered entry not in found set is dropped")
	_, ok = c.Snapshot(user)
	assert.True(t, ok, "user-added entry survives prune")
}

func TestKeys_StableDisplayOrder(t *testing.T) {
	c := New(&testutil.FakeBackend{}, config.New(), nil)
	first := c.Track(target.Identity{RemotePath: "https://svn.example.org/b"}, Persisted{})
	second := c.Track(target.Identity{RemotePath: "https://svn.example.org/a"}, Persisted{})

	assert.Equal(t, []string{first, second}, c.Keys())
}

func TestRemove(t *testing.T) {
	c, key := newTestCache(&testutil.FakeBackend{}, 2)
	c.Remove(key)
	_, ok := c.Snapshot(key)
	assert.False(t, ok)
}
