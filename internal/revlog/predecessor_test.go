package revlog

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hferr/revlog/internal/testutil"
	"github.com/hferr/revlog/internal/vcs"
)

const appPath = "/trunk/src/app.c"

func TestPredecessor_ResolvedFromCache(t *testing.T) {
	fake := &testutil.FakeBackend{
		Pages: [][]vcs.Commit{{
			testutil.MakeCommit(10, appPath),
			testutil.MakeCommit(8, "/trunk/other.c"),
			testutil.MergeCommit(7, appPath),
			testutil.MakeCommit(5, appPath),
		}},
	}
	c, key := newTestCache(fake, 10)
	ctx := context.Background()
	require.NoError(t, c.FetchMore(ctx, key))
	require.Equal(t, 1, fake.Calls())

	pred, err := c.Predecessor(ctx, key, "10", appPath)
	require.NoError(t, err)

	// r8 does not touch the path and the merge-derived r7 is skipped
	assert.Equal(t, "5", pred.Revision)
	assert.Equal(t, 1, fake.Calls(), "a cached hit must not reach the backend")
}

func TestPredecessor_FallsBackToScopedFetch(t *testing.T) {
	fake := &testutil.FakeBackend{
		Pages: [][]vcs.Commit{{
			testutil.MakeCommit(10, appPath),
			testutil.MakeCommit(4, appPath),
		}},
	}
	c, key := newTestCache(fake, 10)

	pred, err := c.Predecessor(context.Background(), key, "10", appPath)
	require.NoError(t, err)
	assert.Equal(t, "4", pred.Revision)

	reqs := fake.Requests()
	require.Len(t, reqs, 1)
	assert.Equal(t, "https://svn.example.org/repo"+appPath, reqs[0].Target)
	assert.Equal(t, "10", reqs[0].From)
	assert.Equal(t, vcs.Genesis, reqs[0].To)
	assert.Equal(t, 2, reqs[0].Limit)
}

func TestPredecessor_SingleResultMeansNone(t *testing.T) {
	fake := &testutil.FakeBackend{
		Pages: [][]vcs.Commit{{testutil.MakeCommit(10, appPath)}},
	}
	c, key := newTestCache(fake, 10)

	_, err := c.Predecessor(context.Background(), key, "10", appPath)
	assert.ErrorIs(t, err, ErrNoPredecessor)
}

func TestPredecessor_TargetGoneMeansNone(t *testing.T) {
	fake := &testutil.FakeBackend{LogErr: vcs.ErrTargetNotFound}
	c, key := newTestCache(fake, 10)

	_, err := c.Predecessor(context.Background(), key, "10", appPath)
	assert.ErrorIs(t, err, ErrNoPredecessor)
}

func TestPredecessor_FreshlyAddedPathHasNone(t *testing.T) {
	anchor := vcs.Commit{
		Revision: "10",
		Changes:  []vcs.PathChange{{Path: appPath, Action: vcs.ActionAdded, Kind: "file"}},
	}
	fake := &testutil.FakeBackend{
		Pages: [][]vcs.Commit{{anchor, testutil.MakeCommit(4, appPath)}},
	}
	c, key := newTestCache(fake, 10)

	// an older same-named file (deleted and recreated) is not an ancestor
	_, err := c.Predecessor(context.Background(), key, "10", appPath)
	assert.ErrorIs(t, err, ErrNoPredecessor)
}

func TestPredecessor_CopyTracesBackToSource(t *testing.T) {
	anchor := vcs.Commit{
		Revision: "10",
		Changes: []vcs.PathChange{{
			Path:         appPath,
			Action:       vcs.ActionAdded,
			Kind:         "file",
			CopyFromPath: "/trunk/src/old.c",
			CopyFromRev:  "9",
		}},
	}

	t.Run("candidate touched the copy source", func(t *testing.T) {
		fake := &testutil.FakeBackend{
			Pages: [][]vcs.Commit{{anchor, testutil.MakeCommit(9, "/trunk/src/old.c")}},
		}
		c, key := newTestCache(fake, 10)

		pred, err := c.Predecessor(context.Background(), key, "10", appPath)
		require.NoError(t, err)
		assert.Equal(t, "9", pred.Revision)
	})

	t.Run("candidate unrelated to the copy source", func(t *testing.T) {
		fake := &testutil.FakeBackend{
			Pages: [][]vcs.Commit{{anchor, testutil.MakeCommit(9, "/trunk/unrelated.c")}},
		}
		c, key := newTestCache(fake, 10)

		_, err := c.Predecessor(context.Background(), key, "10", appPath)
		assert.ErrorIs(t, err, ErrNoPredecessor)
	})
}

func TestPredecessor_UnknownTarget(t *testing.T) {
	c, _ := newTestCache(&testutil.FakeBackend{}, 10)
	_, err := c.Predecessor(context.Background(), "nope", "10", appPath)
	assert.ErrorIs(t, err, ErrUnknownTarget)
}
