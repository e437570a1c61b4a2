// Package mlen implements a mate-length composite value: a total order
// over (half-moves, attacker-piece-count tiebreaker) used to rank multiple
// proofs (shorter is better) and disproofs (longer is better).
package mlen

import "math"

// Len packs a half-move count into the high 16 bits and a piece-count
// tiebreaker into the low 16 bits, so that plain numeric comparison between
// two Len values gives the intended total order: ties on ply count are
// broken by the tiebreaker, and a strictly shorter ply count always sorts
// first regardless of tiebreaker.
type Len uint32

const (
	maxPlies = 0xFFFF
	maxTie   = 0xFFFF
)

// Infinite represents "no mate / no defense found", the +∞ sentinel.
const Infinite Len = math.MaxUint32

// None represents "length not applicable", the −1 sentinel (e.g. a node
// that has neither proof nor disproof yet).
const None Len = math.MaxUint32 - 1

// New packs a ply count and tiebreaker into a Len, saturating each field at
// its maximum rather than overflowing into the other.
func New(plies, tiebreak int) Len {
	if plies < 0 {
		plies = 0
	}
	if plies > maxPlies {
		plies = maxPlies
	}
	if tiebreak < 0 {
		tiebreak = 0
	}
	if tiebreak > maxTie {
		tiebreak = maxTie
	}
	return Len(uint32(plies)<<16 | uint32(tiebreak))
}

// Plies returns the half-move count, or 0 for the sentinels.
func (l Len) Plies() int {
	if l == Infinite || l == None {
		return 0
	}
	return int(uint32(l) >> 16)
}

// Tiebreak returns the attacker-piece-count tiebreaker, or 0 for the
// sentinels.
func (l Len) Tiebreak() int {
	if l == Infinite || l == None {
		return 0
	}
	return int(uint32(l) & 0xFFFF)
}

// Less reports whether l sorts strictly before o under the packed total
// order (fewer plies first, then smaller tiebreaker).
func (l Len) Less(o Len) bool {
	return uint32(l) < uint32(o)
}

// ShorterProof returns whichever of a, b represents the shorter proof,
// treating Infinite/None as "no information" that never wins.
func ShorterProof(a, b Len) Len {
	if a == Infinite || a == None {
		return b
	}
	if b == Infinite || b == None {
		return a
	}
	if a.Less(b) {
		return a
	}
	return b
}

// LongerDisproof returns whichever of a, b represents the longer defense.
func LongerDisproof(a, b Len) Len {
	if a == Infinite || a == None {
		return b
	}
	if b == Infinite || b == None {
		return a
	}
	if b.Less(a) {
		return a
	}
	return b
}

// Add1 returns l with its ply count incremented by one (used when
// prepending a move to a child's recorded length to get the parent's
// length), saturating at Infinite rather than wrapping.
func Add1(l Len) Len {
	if l == Infinite || l == None {
		return l
	}
	if l.Plies() >= maxPlies {
		return Infinite
	}
	return New(l.Plies()+1, l.Tiebreak())
}
