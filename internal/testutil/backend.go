package testutil

import (
	"context"
	"strconv"
	"sync"
	"time"

	"github.com/hferr/revlog/internal/vcs"
)

// LogRequest records the arguments of one Log call against the fake
// backend.
type LogRequest struct {
	Target string
	From   string
	To     string
	Limit  int
}

// FakeBackend is a scripted in-memory stand-in for the svn client. Log
// calls consume Pages in order; once the script runs out, further calls
// return an empty page. All methods are safe for concurrent use.
type FakeBackend struct {
	mu sync.Mutex

	// Pages are served one per Log call, in order.
	Pages [][]vcs.Commit
	// LogErr, when set, fails every Log call.
	LogErr error

	BlameLines []vcs.BlameLine
	BlameErr   error

	InfoResult vcs.Info
	InfoErr    error

	// Gate, when non-nil, is received from inside Log after the call is
	// recorded, letting tests hold a fetch in flight. Started, when
	// non-nil, gets a non-blocking send as each Log call begins.
	Gate    chan struct{}
	Started chan struct{}

	LogCalls    int
	LogRequests []LogRequest
}

func (f *FakeBackend) Log(ctx context.Context, target, from, to string, limit int, includeMerged bool) ([]vcs.Commit, error) {
	f.mu.Lock()
	call := f.LogCalls
	f.LogCalls++
	f.LogRequests = append(f.LogRequests, LogRequest{Target: target, From: from, To: to, Limit: limit})
	gate := f.Gate
	started := f.Started
	f.mu.Unlock()

	if started != nil {
		select {
		case started <- struct{}{}:
		default:
		}
	}
	if gate != nil {
		<-gate
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	if f.LogErr != nil {
		return nil, f.LogErr
	}
	if call >= len(f.Pages) {
		return nil, nil
	}
	page := make([]vcs.Commit, len(f.Pages[call]))
	copy(page, f.Pages[call])
	return page, nil
}

func (f *FakeBackend) Blame(ctx context.Context, target string, includeMerged bool) ([]vcs.BlameLine, error) {
	if f.BlameErr != nil {
		return nil, f.BlameErr
	}
	return f.BlameLines, nil
}

func (f *FakeBackend) Info(ctx context.Context, target, revision string) (vcs.Info, error) {
	if f.InfoErr != nil {
		return vcs.Info{}, f.InfoErr
	}
	return f.InfoResult, nil
}

// Calls returns the number of Log calls made so far.
func (f *FakeBackend) Calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.LogCalls
}

// Requests returns a copy of the recorded Log requests.
func (f *FakeBackend) Requests() []LogRequest {
	f.mu.Lock()
	defer f.mu.Unlock()
	reqs := make([]LogRequest, len(f.LogRequests))
	copy(reqs, f.LogRequests)
	return reqs
}

// MakeCommit builds a commit at revision rev touching the given paths as
// modifications.
func MakeCommit(rev int, paths ...string) vcs.Commit {
	cm := vcs.Commit{
		Revision: strconv.Itoa(rev),
		Author:   "alice",
		Date:     time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC).Add(time.Duration(rev) * time.Hour),
		Message:  "commit r" + strconv.Itoa(rev),
	}
	for _, p := range paths {
		cm.Changes = append(cm.Changes, vcs.PathChange{Path: p, Action: vcs.ActionModified, Kind: "file"})
	}
	return cm
}

// MakeCommits builds one plain commit per revision, newest first order
// preserved as given.
func MakeCommits(revs ...int) []vcs.Commit {
	commits := make([]vcs.Commit, 0, len(revs))
	for _, rev := range revs {
		commits = append(commits, MakeCommit(rev))
	}
	return commits
}

// MergeCommit marks a commit as pulled in through merge history.
func MergeCommit(rev int, paths ...string) vcs.Commit {
	cm := MakeCommit(rev, paths...)
	cm.FromMerge = true
	return cm
}
