package engine

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLoadTracker(t *testing.T) {
	t.Run("starts at zero", func(t *testing.T) {
		lt := NewLoadTracker([]string{"A", "B"})

		require.True(t, lt.Tracked("A"))
		require.Equal(t, 0, lt.Total("A"))
		require.Equal(t, 0, lt.View("B").Stage("primary"))
		require.True(t, lt.UnderCapacity("A", 1))
	})

	t.Run("increment updates every bucket", func(t *testing.T) {
		lt := NewLoadTracker([]string{"A"})

		require.True(t, lt.Increment("A", "primary", "general"))
		require.True(t, lt.Increment("A", "primary", "private"))

		view := lt.View("A")
		require.Equal(t, 2, view.Total())
		require.Equal(t, 2, view.Stage("primary"))
		require.Equal(t, 1, view.Type("general"))
		require.Equal(t, 1, view.Type("private"))
		require.False(t, lt.UnderCapacity("A", 2))
		require.True(t, lt.UnderCapacity("A", 3))
	})

	t.Run("unknown code is a no-op", func(t *testing.T) {
		lt := NewLoadTracker([]string{"A"})

		require.False(t, lt.Increment("Z", "primary", "general"))
		require.False(t, lt.Tracked("Z"))
		require.Equal(t, 0, lt.Total("Z"))
		require.False(t, lt.UnderCapacity("Z", 1))
		require.Equal(t, 0, lt.Total("A"))
	})

	t.Run("empty stage and type are not bucketed", func(t *testing.T) {
		lt := NewLoadTracker([]string{"A"})
		lt.Increment("A", "", "")

		view := lt.View("A")
		require.Equal(t, 1, view.Total())
		require.Equal(t, 0, view.Stage(""))
		require.Equal(t, 0, view.Type(""))
	})
}
