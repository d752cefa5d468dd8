package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPageSize_Default(t *testing.T) {
	n, err := New().PageSize()
	require.NoError(t, err)
	assert.Equal(t, DefaultPageSize, n)
}

func TestPageSize_Override(t *testing.T) {
	c := New()
	c.Set("log.length", 25)

	n, err := c.PageSize()
	require.NoError(t, err)
	assert.Equal(t, 25, n)
}

func TestPageSize_NumericString(t *testing.T) {
	c := New()
	c.Set("log.length", " 10 ")

	n, err := c.PageSize()
	require.NoError(t, err)
	assert.Equal(t, 10, n)
}

func TestPageSize_Invalid(t *testing.T) {
	for _, bad := range []any{0, -5, "abc", "", "1.5", false} {
		c := New()
		c.Set("log.length", bad)

		_, err := c.PageSize()
		assert.ErrorIs(t, err, ErrInvalidPageSize, "value %v", bad)
	}
}

func TestBlameDefaults(t *testing.T) {
	c := New()
	assert.True(t, c.GravatarEnabled())
	assert.False(t, c.BlameMergeInfo())

	c.Set("blame.gravatar", false)
	c.Set("blame.mergeInfo", true)
	assert.False(t, c.GravatarEnabled())
	assert.True(t, c.BlameMergeInfo())
}
