package reptable

import (
	"testing"

	"github.com/stretchr/testify/require"

	"mateengine/internal/shogi"
)

func TestInsertAndContains(t *testing.T) {
	tbl := New(100)
	tbl.Insert(shogi.PathKey(42))
	require.True(t, tbl.Contains(shogi.PathKey(42)))
	require.False(t, tbl.Contains(shogi.PathKey(43)))
}

func TestRotationDiscardsOldestGeneration(t *testing.T) {
	// genCap = 2 per generation (n=4).
	tbl := New(4)

	tbl.Insert(shogi.PathKey(1))
	tbl.Insert(shogi.PathKey(2)) // fills generation 0, rotates to 1 (cleared)
	require.True(t, tbl.Contains(shogi.PathKey(1)))
	require.True(t, tbl.Contains(shogi.PathKey(2)))

	tbl.Insert(shogi.PathKey(3))
	tbl.Insert(shogi.PathKey(4)) // fills generation 1, rotates back to 0 (cleared, discarding 1&2)

	require.False(t, tbl.Contains(shogi.PathKey(1)))
	require.False(t, tbl.Contains(shogi.PathKey(2)))
	require.True(t, tbl.Contains(shogi.PathKey(3)))
	require.True(t, tbl.Contains(shogi.PathKey(4)))
}

func TestClear(t *testing.T) {
	tbl := New(10)
	tbl.Insert(shogi.PathKey(7))
	tbl.Clear()
	require.False(t, tbl.Contains(shogi.PathKey(7)))
}
