package revlog

import (
	"strings"

	"github.com/hferr/revlog/internal/vcs"
)

// SimilarPath selects the changed path most similar to the working copy's
// repository-relative path. Similarity is the number of consecutive path
// components matching from the end (filename first, then parents): a
// commit that renamed or merged the file across branches still lists it
// under a different leading prefix, while the trailing components usually
// remain stable. Ties keep the first-seen change.
func SimilarPath(workingPath string, changes []vcs.PathChange) (vcs.PathChange, bool) {
	if len(changes) == 0 {
		return vcs.PathChange{}, false
	}

	want := splitComponents(workingPath)
	best := -1
	var bestChange vcs.PathChange
	for _, ch := range changes {
		if score := trailingMatch(want, splitComponents(ch.Path)); score > best {
			best = score
			bestChange = ch
		}
	}
	return bestChange, true
}

func splitComponents(path string) []string {
	var parts []string
	for _, p := range strings.Split(path, "/") {
		if p != "" {
			parts = append(parts, p)
		}
	}
	return parts
}

// trailingMatch counts consecutive equal components from the end of both
// slices, stopping at the first mismatch.
func trailingMatch(a, b []string) int {
	n := 0
	for i, j := len(a)-1, len(b)-1; i >= 0 && j >= 0; i, j = i-1, j-1 {
		if a[i] != b[j] {
			break
		}
		n++
	}
	return n
}
