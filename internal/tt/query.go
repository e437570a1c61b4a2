package tt

import (
	"mateengine/internal/hand"
	"mateengine/internal/mlen"
	"mateengine/internal/shogi"
)

// ResultKind tags what kind of value a SearchResult / WriteRequest carries.
type ResultKind uint8

const (
	ResultUnknown ResultKind = iota
	ResultProof
	ResultDisproof
	ResultRepetition
)

// SearchResult is what Query.LookUp returns: either a dominance-derived
// proof/disproof, a repetition loss, or the tightest known (pn, dn) bound —
// falling back to the caller's first-visit estimate when nothing is known
// at all.
type SearchResult struct {
	Kind     ResultKind
	Pn, Dn   Count
	Len      mlen.Len
	Amount   uint64
	MinDepth uint32
}

// Query is the sole read/write surface onto the table for one
// (board_key, hand, depth, path_key) address. It holds no pointer into the
// cluster array, only the coordinates needed to re-derive one under the
// table's lock — entries may be evicted or the table resized between
// calls, so nothing may hold a cluster pointer across them.
type Query struct {
	t        *Table
	boardKey shogi.BoardKey
	hand     shogi.Hand
	depth    int
	pathKey  shogi.PathKey
}

// QueryFor builds a Query for the node itself.
func (t *Table) QueryFor(boardKey shogi.BoardKey, h shogi.Hand, depth int, pathKey shogi.PathKey) Query {
	return Query{t: t, boardKey: boardKey, hand: h, depth: depth, pathKey: pathKey}
}

// QueryForChild builds a Query for a prospective child, identical in shape
// to QueryFor — the distinction is purely about which caller uses it (the
// search core itself vs. the local expansion probing a move before
// committing to a descent), not a different code path.
func (t *Table) QueryForChild(boardKey shogi.BoardKey, h shogi.Hand, depth int, pathKey shogi.PathKey) Query {
	return t.QueryFor(boardKey, h, depth, pathKey)
}

func min32(a, b Count) Count {
	if a < b {
		return a
	}
	return b
}

// LookUp scans the whole cluster and aggregates:
//   - any sub-entry proving this board for a hand dominated by q.hand
//     (proof-hand dominance) returns an immediate proof;
//   - any sub-entry disproving this board for a hand dominating q.hand
//     (disproof-hand dominance) returns an immediate disproof;
//   - an exact match with may_repeat set consults the repetition table;
//   - otherwise the tightest recorded (pn, dn) bound is returned, or
//     evalFn()'s first-visit estimate if nothing was ever recorded.
func (q Query) LookUp(evalFn func() (Count, Count)) SearchResult {
	q.t.mu.RLock()
	defer q.t.mu.RUnlock()

	cl := &q.t.clusters[q.t.index(q.boardKey)]
	matches := cl.matching(q.boardKey)

	for _, e := range matches {
		for _, s := range e.Subs {
			if s.Pn == 0 && hand.IsSuperset(q.hand, e.Hand) {
				return SearchResult{Kind: ResultProof, Pn: 0, Dn: Inf, Len: s.Len, Amount: s.Amount, MinDepth: e.MinDepth}
			}
			if s.Dn == 0 && hand.IsSubset(q.hand, e.Hand) {
				return SearchResult{Kind: ResultDisproof, Pn: Inf, Dn: 0, Len: s.Len, Amount: s.Amount, MinDepth: e.MinDepth}
			}
		}
	}

	if e, ok := cl.find(q.boardKey, q.hand); ok {
		if e.MayRepeat && q.t.rep.Contains(q.pathKey) {
			return SearchResult{Kind: ResultRepetition, Pn: Inf, Dn: 0, Len: mlen.None, MinDepth: e.MinDepth}
		}
		if len(e.Subs) > 0 {
			bestPn, bestDn := Inf, Inf
			bestLen := mlen.None
			for _, s := range e.Subs {
				if s.Pn < bestPn {
					bestPn = s.Pn
					bestLen = s.Len
				}
				bestDn = min32(bestDn, s.Dn)
			}
			return SearchResult{Kind: ResultUnknown, Pn: bestPn, Dn: bestDn, Len: bestLen, MinDepth: e.MinDepth}
		}
	}

	pn, dn := evalFn()
	return SearchResult{Kind: ResultUnknown, Pn: pn, Dn: dn, Len: mlen.None, MinDepth: NeverVisited}
}

// WriteRequest is what Query.SetResult writes.
type WriteRequest struct {
	Kind   ResultKind
	Pn, Dn Count
	Len    mlen.Len
	Amount uint64
	Secret uint64

	HasParent      bool
	ParentBoardKey shogi.BoardKey
	ParentHand     shogi.Hand
}

// SetResult writes w into the entry addressed by this Query, dispatching
// on its Kind among the four write cases (proof, disproof, repetition,
// unknown bound).
func (q Query) SetResult(w WriteRequest) {
	q.t.mu.Lock()
	defer q.t.mu.Unlock()

	cl := &q.t.clusters[q.t.index(q.boardKey)]
	e := cl.getOrCreate(q.boardKey, q.hand)

	if uint32(q.depth) < e.MinDepth {
		e.MinDepth = uint32(q.depth)
	}
	e.HasParent = w.HasParent
	e.ParentBoardKey = w.ParentBoardKey
	e.ParentHand = w.ParentHand
	e.Secret = w.Secret

	switch w.Kind {
	case ResultProof:
		e.Subs = e.Subs[:0]
		e.Subs = append(e.Subs, SubEntry{Len: w.Len, Pn: 0, Dn: Inf, Amount: w.Amount})
		cleanupDominatedByProof(cl, e, w.Len)
	case ResultDisproof:
		e.Subs = e.Subs[:0]
		e.Subs = append(e.Subs, SubEntry{Len: w.Len, Pn: Inf, Dn: 0, Amount: w.Amount})
		cleanupDominatedByDisproof(cl, e, w.Len)
	case ResultRepetition:
		e.MayRepeat = true
		q.t.rep.Insert(q.pathKey)
	default:
		e.upsertSub(SubEntry{Len: w.Len, Pn: w.Pn, Dn: w.Dn, Amount: w.Amount})
	}
}

// cleanupDominatedByProof removes now-redundant "unknown" sub-entries from
// every other entry in the cluster whose hand is a superset of the newly
// proven one — those positions are already provably won for any length at
// or beyond provenLen by proof-hand dominance, so the stale unknown bound
// no longer needs tracking; LookUp will re-derive the proof from the
// dominating entry on the next read.
func cleanupDominatedByProof(cl *cluster, provenEntry *Entry, provenLen mlen.Len) {
	for i := range cl.entries {
		e2 := &cl.entries[i]
		if e2 == provenEntry || !e2.used || e2.BoardKey != provenEntry.BoardKey {
			continue
		}
		if !hand.IsSuperset(e2.Hand, provenEntry.Hand) {
			continue
		}
		kept := e2.Subs[:0]
		for _, s := range e2.Subs {
			if s.IsFinal() || s.Len.Less(provenLen) {
				kept = append(kept, s)
			}
		}
		e2.Subs = kept
	}
}

// cleanupDominatedByDisproof is the dual of cleanupDominatedByProof for
// disproof-hand dominance: subset hands at lengths at or below the
// disproven length are already provably lost.
func cleanupDominatedByDisproof(cl *cluster, disprovenEntry *Entry, disprovenLen mlen.Len) {
	for i := range cl.entries {
		e2 := &cl.entries[i]
		if e2 == disprovenEntry || !e2.used || e2.BoardKey != disprovenEntry.BoardKey {
			continue
		}
		if !hand.IsSubset(e2.Hand, disprovenEntry.Hand) {
			continue
		}
		kept := e2.Subs[:0]
		for _, s := range e2.Subs {
			if s.IsFinal() || disprovenLen.Less(s.Len) {
				kept = append(kept, s)
			}
		}
		e2.Subs = kept
	}
}
