package mlen

import "testing"

func TestTotalOrder(t *testing.T) {
	a := New(3, 0)
	b := New(3, 1)
	c := New(5, 0)

	if !a.Less(b) {
		t.Fatalf("expected %v < %v on tiebreak", a, b)
	}
	if !b.Less(c) {
		t.Fatalf("expected %v < %v: fewer plies always wins regardless of tiebreak", b, c)
	}
}

func TestSentinelsNeverWinShorterProof(t *testing.T) {
	real := New(7, 2)
	if got := ShorterProof(Infinite, real); got != real {
		t.Fatalf("ShorterProof(Infinite, real) = %v, want %v", got, real)
	}
	if got := ShorterProof(None, real); got != real {
		t.Fatalf("ShorterProof(None, real) = %v, want %v", got, real)
	}
	if got := ShorterProof(Infinite, Infinite); got != Infinite {
		t.Fatalf("ShorterProof(Infinite, Infinite) = %v, want Infinite", got)
	}
}

func TestLongerDisproofPrefersLonger(t *testing.T) {
	short := New(3, 0)
	long := New(9, 0)
	if got := LongerDisproof(short, long); got != long {
		t.Fatalf("LongerDisproof = %v, want %v", got, long)
	}
}

func TestAdd1Saturates(t *testing.T) {
	if Add1(Infinite) != Infinite {
		t.Fatalf("Add1(Infinite) should stay Infinite")
	}
	l := New(maxPlies, 0)
	if got := Add1(l); got != Infinite {
		t.Fatalf("Add1 at max plies should saturate to Infinite, got %v", got)
	}
}
