package hand

import (
	"testing"

	"github.com/matryer/is"

	"mateengine/internal/shogi"
)

func TestAddRemoveSaturate(t *testing.T) {
	is := is.New(t)

	h := shogi.Hand{}
	for i := 0; i < shogi.MaxHandCount+5; i++ {
		h = Add(h, shogi.Rook)
	}
	is.Equal(h.Count(shogi.Rook), uint8(shogi.MaxHandCount))

	h = Remove(h, shogi.Rook)
	is.Equal(h.Count(shogi.Rook), uint8(shogi.MaxHandCount-1))

	empty := shogi.Hand{}
	is.Equal(Remove(empty, shogi.Pawn), empty) // removing from empty is a no-op
}

func TestMergeSaturates(t *testing.T) {
	is := is.New(t)

	a := shogi.Hand{}
	b := shogi.Hand{}
	a[shogi.Pawn] = shogi.MaxHandCount
	b[shogi.Pawn] = 3

	m := Merge(a, b)
	is.Equal(m.Count(shogi.Pawn), uint8(shogi.MaxHandCount))
}

func TestIntersect(t *testing.T) {
	is := is.New(t)

	a := shogi.Hand{}
	b := shogi.Hand{}
	a[shogi.Gold] = 2
	b[shogi.Gold] = 5
	a[shogi.Bishop] = 0
	b[shogi.Bishop] = 1

	got := Intersect(a, b)
	is.Equal(got.Count(shogi.Gold), uint8(2))
	is.Equal(got.Count(shogi.Bishop), uint8(0))
}

func TestSupersetSubset(t *testing.T) {
	is := is.New(t)

	small := shogi.Hand{}
	small[shogi.Silver] = 1

	big := shogi.Hand{}
	big[shogi.Silver] = 2
	big[shogi.Gold] = 1

	is.True(IsSuperset(big, small))
	is.True(!IsSuperset(small, big))
	is.True(IsSubset(small, big))
}
