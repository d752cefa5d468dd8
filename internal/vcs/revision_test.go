package vcs

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseRevision(t *testing.T) {
	n, err := ParseRevision("42")
	require.NoError(t, err)
	assert.Equal(t, 42, n)

	for _, bad := range []string{"", "0", "-3", "HEAD", "r42", "4.2"} {
		_, err := ParseRevision(bad)
		assert.Error(t, err, "revision %q", bad)
	}
}

func TestCompareRevisions(t *testing.T) {
	assert.Equal(t, -1, CompareRevisions("9", "10"))
	assert.Equal(t, 1, CompareRevisions("10", "9"))
	assert.Equal(t, 0, CompareRevisions("7", "7"))

	// invalid revisions sort before valid ones
	assert.Equal(t, -1, CompareRevisions("HEAD", "1"))
	assert.Equal(t, 1, CompareRevisions("1", ""))
	assert.Equal(t, 0, CompareRevisions("", "HEAD"))
}

func TestPrevRevision(t *testing.T) {
	prev, err := PrevRevision("42")
	require.NoError(t, err)
	assert.Equal(t, "41", prev)

	_, err = PrevRevision(Genesis)
	assert.Error(t, err, "genesis has no predecessor")

	_, err = PrevRevision("HEAD")
	assert.Error(t, err)
}
