// Package hand implements multiset arithmetic on attacker/defender piece
// reserves. It operates purely on shogi.Hand values; the two correction
// routines that also consult the board live in correction.go since they
// need a shogi.Position.
package hand

import "mateengine/internal/shogi"

// Add returns h with one more piece of type p, saturating at
// shogi.MaxHandCount.
func Add(h shogi.Hand, p shogi.Piece) shogi.Hand {
	if p == shogi.PieceNone || p >= shogi.NumPieceTypes {
		return h
	}
	if h[p] < shogi.MaxHandCount {
		h[p]++
	}
	return h
}

// Remove returns h with one fewer piece of type p. Removing from an empty
// count is a no-op; callers that require p to be present should check
// Count first.
func Remove(h shogi.Hand, p shogi.Piece) shogi.Hand {
	if p == shogi.PieceNone || p >= shogi.NumPieceTypes {
		return h
	}
	if h[p] > 0 {
		h[p]--
	}
	return h
}

// Merge returns the multiset sum of h1 and h2, saturating each count at
// shogi.MaxHandCount.
func Merge(h1, h2 shogi.Hand) shogi.Hand {
	var out shogi.Hand
	for p := shogi.Piece(0); p < shogi.NumPieceTypes; p++ {
		sum := int(h1[p]) + int(h2[p])
		if sum > shogi.MaxHandCount {
			sum = shogi.MaxHandCount
		}
		out[p] = uint8(sum)
	}
	return out
}

// Intersect returns, for each piece type, the smaller of the two counts.
// Used when computing a disproof-hand as the intersection across children
// that are all proven losses for the side to move.
func Intersect(h1, h2 shogi.Hand) shogi.Hand {
	var out shogi.Hand
	for p := shogi.Piece(0); p < shogi.NumPieceTypes; p++ {
		m := h1[p]
		if h2[p] < m {
			m = h2[p]
		}
		out[p] = m
	}
	return out
}

// IsSuperset reports whether h1 holds at least as many of every piece type
// as h2 — the proof-hand / disproof-hand dominance relation.
func IsSuperset(h1, h2 shogi.Hand) bool {
	for p := shogi.Piece(0); p < shogi.NumPieceTypes; p++ {
		if h1[p] < h2[p] {
			return false
		}
	}
	return true
}

// IsSubset reports whether h1 holds no more of any piece type than h2.
func IsSubset(h1, h2 shogi.Hand) bool {
	return IsSuperset(h2, h1)
}
