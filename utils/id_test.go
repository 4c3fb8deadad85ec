package utils

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestNextID(t *testing.T) {
	now := time.UnixMilli(1_700_000_000_000)

	t.Run("uses the clock when ahead of the last id", func(t *testing.T) {
		assert.Equal(t, int64(1_700_000_000_000), NextID(now, 5))
	})

	t.Run("bumps past the last id within the same millisecond", func(t *testing.T) {
		first := NextID(now, 0)
		second := NextID(now, first)
		assert.Equal(t, first+1, second)
	})

	t.Run("never goes backwards when the clock does", func(t *testing.T) {
		assert.Equal(t, int64(1_700_000_000_101), NextID(now, 1_700_000_000_100))
	})
}
