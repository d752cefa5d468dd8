package vcs

import (
	"context"
	"time"
)

// Action describes what a commit did to one path.
type Action string

const (
	ActionAdded    Action = "A"
	ActionDeleted  Action = "D"
	ActionModified Action = "M"
	ActionReplaced Action = "R"
)

// PathChange is one path touched by a commit.
type PathChange struct {
	Path         string
	Action       Action
	Kind         string // "file" or "dir"
	CopyFromPath string
	CopyFromRev  string
}

// Commit is a single log record. Immutable once fetched.
// Revision is a monotonically decreasing integer encoded as a string.
// FromMerge marks records pulled in as merge-source sub-entries rather
// than direct ancestors of the queried target.
type Commit struct {
	Revision  string
	Author    string
	Date      time.Time
	Message   string
	Changes   []PathChange
	FromMerge bool
}

// LineCommit identifies the commit that last touched one line.
type LineCommit struct {
	Revision string
	Author   string
	Date     time.Time
}

// BlameLine is one line of blame output. Line is zero-based.
// A nil Commit means the line is an uncommitted local change.
type BlameLine struct {
	Line   int
	Commit *LineCommit
}

// Info is the result of an info lookup on a target.
type Info struct {
	URL            string
	Revision       string
	RepositoryRoot string
	Kind           string // "file" or "dir"
}

// LogFetcher fetches a bounded page of history, newest first.
// from and to are revision strings; from may be the symbolic "HEAD".
// A limit of 0 means no limit.
type LogFetcher interface {
	Log(ctx context.Context, target, from, to string, limit int, includeMerged bool) ([]Commit, error)
}

// Blamer fetches per-line authorship for a file target.
type Blamer interface {
	Blame(ctx context.Context, target string, includeMerged bool) ([]BlameLine, error)
}

// InfoGetter resolves a target (optionally at a revision) to its identity.
type InfoGetter interface {
	Info(ctx context.Context, target, revision string) (Info, error)
}
