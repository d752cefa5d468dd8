package blame

import (
	"sort"

	"github.com/hferr/revlog/internal/vcs"
)

// Range is a contiguous run of lines sharing one authorship class.
// [Start, End) is half-open and zero-based. A nil Commit marks
// uncommitted local changes.
type Range struct {
	Start  int
	End    int
	Commit *vcs.LineCommit
}

// Contains reports whether line falls inside the range.
func (r Range) Contains(line int) bool {
	return line >= r.Start && line < r.End
}

// sameClass reports whether two line commits belong to the same
// authorship class: both uncommitted, or both committed with equal
// revision. An uncommitted line never merges with a committed one.
func sameClass(a, b *vcs.LineCommit) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return a.Revision == b.Revision
}

// Transform run-length-encodes a flat per-line blame listing into
// contiguous ranges. The input is ordered by ascending line number, one
// record per line. The output partitions [0, len(lines)) exactly: ranges
// are ordered, non-overlapping, and adjacent ranges never share a class.
func Transform(lines []vcs.BlameLine) []Range {
	if len(lines) == 0 {
		return nil
	}

	var ranges []Range
	current := Range{Start: 0, Commit: lines[0].Commit}

	for _, line := range lines[1:] {
		if sameClass(line.Commit, current.Commit) {
			continue
		}
		current.End = line.Line
		ranges = append(ranges, current)
		current = Range{Start: line.Line, Commit: line.Commit}
	}

	current.End = len(lines)
	return append(ranges, current)
}

// CommitRange returns the oldest and newest revision across the committed
// ranges. ok is false when every range is uncommitted; callers use the
// bound to fetch messages for exactly the displayed revisions in one call.
func CommitRange(ranges []Range) (lo, hi string, ok bool) {
	for _, r := range ranges {
		if r.Commit == nil {
			continue
		}
		rev := r.Commit.Revision
		if !ok {
			lo, hi, ok = rev, rev, true
			continue
		}
		if vcs.CompareRevisions(rev, lo) < 0 {
			lo = rev
		}
		if vcs.CompareRevisions(rev, hi) > 0 {
			hi = rev
		}
	}
	return lo, hi, ok
}

// RangeAt returns the range containing line. Ranges are sorted by Start,
// so a binary search suffices.
func RangeAt(ranges []Range, line int) (Range, bool) {
	i := sort.Search(len(ranges), func(i int) bool {
		return ranges[i].End > line
	})
	if i < len(ranges) && ranges[i].Contains(line) {
		return ranges[i], true
	}
	return Range{}, false
}

// Siblings returns every other range sharing the cursor line's authorship
// class, for simultaneous highlighting of all lines touched by one commit.
func Siblings(ranges []Range, line int) []Range {
	at, ok := RangeAt(ranges, line)
	if !ok {
		return nil
	}

	var siblings []Range
	for _, r := range ranges {
		if r.Start == at.Start {
			continue
		}
		if sameClass(r.Commit, at.Commit) {
			siblings = append(siblings, r)
		}
	}
	return siblings
}
