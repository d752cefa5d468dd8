package vcs

import (
	"fmt"
	"strconv"
)

// Head is the symbolic revision for the newest commit.
const Head = "HEAD"

// Genesis is the first revision of any repository.
const Genesis = "1"

// ParseRevision converts a revision string to its numeric value.
func ParseRevision(rev string) (int, error) {
	n, err := strconv.Atoi(rev)
	if err != nil || n < 1 {
		return 0, fmt.Errorf("invalid revision %q", rev)
	}
	return n, nil
}

// CompareRevisions returns -1, 0, or 1 ordering a before b by recency
// (numerically). Invalid revisions sort before valid ones.
func CompareRevisions(a, b string) int {
	na, errA := ParseRevision(a)
	nb, errB := ParseRevision(b)
	switch {
	case errA != nil && errB != nil:
		return 0
	case errA != nil:
		return -1
	case errB != nil:
		return 1
	case na < nb:
		return -1
	case na > nb:
		return 1
	}
	return 0
}

// PrevRevision returns the revision immediately older than rev.
// Asking for the predecessor of the genesis revision is an error.
func PrevRevision(rev string) (string, error) {
	n, err := ParseRevision(rev)
	if err != nil {
		return "", err
	}
	if n <= 1 {
		return "", fmt.Errorf("revision %q has no predecessor", rev)
	}
	return strconv.Itoa(n - 1), nil
}
