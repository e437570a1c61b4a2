package tt

import (
	"math"

	"mateengine/internal/mlen"
	"mateengine/internal/shogi"
)

// Count is a proof or disproof number. Inf is its shared sentinel.
type Count uint32

// Inf is the shared pn/dn sentinel.
const Inf Count = math.MaxUint32

// AddSat adds two counts, saturating at Inf instead of wrapping.
func AddSat(a, b Count) Count {
	if a >= Inf || b >= Inf {
		return Inf
	}
	sum := uint64(a) + uint64(b)
	if sum >= uint64(Inf) {
		return Inf
	}
	return Count(sum)
}

// MaxSubentries bounds how many (len, pn, dn, amount) sub-entries an Entry
// may carry at once. A minimal configuration could use 1; this
// implementation carries up to 4, letting several mate lengths for the
// same (board, hand) coexist before the lowest-amount one is evicted.
const MaxSubentries = 4

// SubEntry is one (pn, dn, len, amount) tuple within an Entry.
type SubEntry struct {
	Len    mlen.Len
	Pn, Dn Count
	// Amount is the monotone eviction priority: how much search work
	// produced this value. Proven/disproven sub-entries (Pn==0 or Dn==0)
	// are weighted more heavily than unknown ones, so proofs survive GC
	// passes that clear out speculative unknown bounds.
	Amount uint64
}

// IsFinal reports whether this sub-entry is a proof or a disproof.
func (s SubEntry) IsFinal() bool {
	return s.Pn == 0 || s.Dn == 0
}

// Entry is a TT slot keyed by (BoardKey, Hand) within its cluster.
type Entry struct {
	used bool

	BoardKey shogi.BoardKey
	Hand     shogi.Hand

	// MinDepth is the shallowest cursor depth this entry was ever visited
	// at; NeverVisited means "never visited".
	MinDepth  uint32
	MayRepeat bool

	HasParent      bool
	ParentBoardKey shogi.BoardKey
	ParentHand     shogi.Hand

	// Secret is an opaque tag supplied by the local expansion, used to
	// detect equivalent subtrees so their delta contribution is
	// max-combined instead of summed (double-count elimination).
	Secret uint64

	Subs []SubEntry
}

// NeverVisited is the MinDepth value for an entry no search has reached.
const NeverVisited = 1<<24 - 1

func newEntry(boardKey shogi.BoardKey, h shogi.Hand) Entry {
	return Entry{
		used:     true,
		BoardKey: boardKey,
		Hand:     h,
		MinDepth: NeverVisited,
		Subs:     make([]SubEntry, 0, MaxSubentries),
	}
}

// totalAmount sums the amount of every sub-entry, used both for cluster
// replacement (evict the minimum) and for garbage collection's threshold
// test.
func (e *Entry) totalAmount() uint64 {
	var total uint64
	for _, s := range e.Subs {
		total += s.Amount
	}
	return total
}

// findSub returns the sub-entry recorded for exactly this length, if any.
func (e *Entry) findSub(l mlen.Len) (int, bool) {
	for i, s := range e.Subs {
		if s.Len == l {
			return i, true
		}
	}
	return -1, false
}

// upsertSub writes (or tightens) the sub-entry for length l. If the entry is
// already at MaxSubentries and l is not present, the lowest-amount
// sub-entry is replaced when its amount does not exceed the new one's;
// otherwise the write is dropped.
func (e *Entry) upsertSub(s SubEntry) {
	if i, ok := e.findSub(s.Len); ok {
		old := e.Subs[i]
		if old.IsFinal() {
			// Final states are sticky: never let a write move pn/dn away
			// from 0 once proven.
			return
		}
		s.Amount += old.Amount
		e.Subs[i] = s
		return
	}
	if len(e.Subs) < MaxSubentries {
		e.Subs = append(e.Subs, s)
		return
	}
	// Evict the minimum-amount sub-entry to make room, matching the
	// cluster-level replacement policy at a finer grain.
	minIdx := 0
	for i := 1; i < len(e.Subs); i++ {
		if e.Subs[i].Amount < e.Subs[minIdx].Amount {
			minIdx = i
		}
	}
	if e.Subs[minIdx].Amount <= s.Amount {
		e.Subs[minIdx] = s
	}
}
