// Package search implements the depth-first proof-number search core: the
// recursive MID (mutual iterative deepening) procedure with Threshold
// Controlling Algorithm thresholds, and the root driver that repeats it
// until a position is proven, disproven, or the node/time budget runs out.
package search

import (
	"mateengine/internal/expansion"
	"mateengine/internal/mlen"
	"mateengine/internal/monitor"
	"mateengine/internal/node"
	"mateengine/internal/shogi"
	"mateengine/internal/tt"
)

// Core owns the table and monitor a run searches against. It is not safe
// for concurrent use by two goroutines driving two different roots
// against the same table. The table locks every read and write; the search
// goroutine is the only one that writes results into it, while a
// background GC goroutine (monitor.RunBackgroundGC) may clear entries
// concurrently.
type Core struct {
	Table   *tt.Table
	Monitor *monitor.Monitor

	// GCRatio is how much of the table CollectGarbage should try to clear
	// once Hashfull crosses its trigger point.
	GCRatio float64
}

// NewCore builds a Core ready to drive searches against table.
func NewCore(table *tt.Table, mon *monitor.Monitor) *Core {
	return &Core{Table: table, Monitor: mon, GCRatio: 0.25}
}

// Result is the outcome of one call to Search.
type Result struct {
	Proven    bool
	Disproven bool
	Len       mlen.Len
	PV        []shogi.Move
}

// parent identifies the node one ply up the search path, so each node's
// own TT write can record it.
type parent struct {
	has      bool
	boardKey shogi.BoardKey
	hand     shogi.Hand
}

// maxDeepenIterations bounds the post-proof length-shortening loop so a
// pathological sequence of proof/disproof flips at shrinking bounds can
// never oscillate forever (spec.md §9, Open Question 3).
const maxDeepenIterations = 128

// Search runs MID from pos's current position once against a fresh table,
// then drives the iterative-deepening root loop (spec.md §4.6): once a
// proof is found, it re-searches with the proof length tightened by two
// plies to recover a shorter mate, reusing the same table across
// iterations, until shrinking the bound stops finding a proof or the
// monitor calls for a stop.
func (c *Core) Search(pos shogi.Position) Result {
	c.Table.NewSearch()
	c.Monitor.Reset()
	return c.deepen(pos)
}

// SearchOnce runs a single bounded MID pass with no length-shortening
// iteration — the post_search_level "none"/"upper_bound" behavior of
// spec.md §6: whatever proof length the first pass happens to find is
// reported as-is, which is a true upper bound on the shortest mate but not
// necessarily a tight one.
func (c *Core) SearchOnce(pos shogi.Position) Result {
	c.Table.NewSearch()
	c.Monitor.Reset()

	cur := node.NewCursor(pos)
	pn, dn := c.search(cur, tt.Inf, tt.Inf, nil, parent{}, -1)

	switch {
	case pn == 0:
		return Result{Proven: true, Len: c.lenAt(cur), PV: c.extractPV(cur)}
	case dn == 0:
		return Result{Disproven: true, Len: c.lenAt(cur)}
	default:
		return Result{}
	}
}

func (c *Core) deepen(pos shogi.Position) Result {
	maxPlies := -1 // unbounded
	var best Result
	haveProof := false

	for i := 0; i < maxDeepenIterations; i++ {
		if c.Monitor.ShouldStop() {
			break
		}

		cur := node.NewCursor(pos)
		pn, dn := c.search(cur, tt.Inf, tt.Inf, nil, parent{}, maxPlies)

		switch {
		case pn == 0:
			best = Result{Proven: true, Len: c.lenAt(cur), PV: c.extractPV(cur)}
			haveProof = true
			next := best.Len.Plies() - 2
			if next < 1 {
				return best
			}
			maxPlies = next
		case dn == 0:
			if haveProof {
				// The tightened bound made a real proof look like a
				// disproof at this length; the previous iteration's proof
				// still stands as the best length found so far.
				return best
			}
			return Result{Disproven: true, Len: c.lenAt(cur)}
		default:
			if haveProof {
				return best
			}
			return Result{}
		}
	}
	return best
}

func (c *Core) lenAt(cur *node.Cursor) mlen.Len {
	res := c.Table.QueryFor(cur.BoardKey(), cur.Hand(true), cur.Depth(), cur.PathKey()).LookUp(firstVisitEstimate)
	return res.Len
}

// firstVisitEstimate is the (pn, dn) a freshly generated, never-queried
// node starts with before anything is known about it.
func firstVisitEstimate() (tt.Count, tt.Count) { return 1, 1 }

// search is MID: it builds the local expansion, then repeatedly recurses
// into the currently-best child with a tightened pair of thresholds until
// the node's own aggregate crosses (thpn, thdn) or no child remains.
//
// maxPlies bounds how many more plies below the root a proof may be
// discovered on this call (-1 means unbounded); it never limits disproof
// discovery. Once the cursor reaches the bound, this node is treated as a
// horizon: it reports whatever is already cached for its children without
// recursing further, so a proof can only be found within the bound while a
// disproof already resolved below it remains valid.
func (c *Core) search(cur *node.Cursor, thpn, thdn tt.Count, ancestry []expansion.Ancestor, p parent, maxPlies int) (tt.Count, tt.Count) {
	c.Monitor.Tick()

	if rc := cur.Position().RepetitionClass(); rc != shogi.RepNone {
		return c.handleRepetition(cur, rc, p)
	}

	ex := expansion.Build(cur, c.Table, ancestry)
	secret := shogi.MixHandIntoBoardKey(cur.BoardKey(), cur.Hand(true))
	childAncestry := append(append([]expansion.Ancestor{}, ancestry...), expansion.Ancestor{Secret: secret})

	atHorizon := maxPlies >= 0 && cur.Depth() >= maxPlies

	for !atHorizon && ex.Pn < thpn && ex.Dn < thdn {
		best, second := ex.BestSecond()
		if best == -1 {
			break
		}
		if c.Monitor.ShouldStop() {
			break
		}

		child := ex.Children[best]
		childThPn, childThDn := ex.ChildThresholds(best, thpn, thdn)
		if child.IsOld(cur.Depth()+1) && second != -1 {
			childThPn, childThDn = raiseForOldChild(ex, childThPn, childThDn)
		}

		childParent := parent{has: true, boardKey: cur.BoardKey(), hand: cur.Hand(true)}
		cur.Do(child.Move)
		c.search(cur, childThPn, childThDn, childAncestry, childParent, maxPlies)
		cur.Undo(child.Move)

		if c.Table.Hashfull() > 900 {
			c.Table.CollectGarbage(c.GCRatio)
		}
		ex = expansion.Build(cur, c.Table, ancestry)
	}

	c.writeResult(cur, ex, p)
	return ex.Pn, ex.Dn
}

// raiseForOldChild bumps a stale child's thresholds past their naive
// derivation so a second visit to an unresolved old child is guaranteed
// to make measurable progress rather than immediately re-hitting the same
// threshold and bouncing back with no new information — the Threshold
// Controlling Algorithm's core move.
func raiseForOldChild(ex *expansion.Expansion, thpn, thdn tt.Count) (tt.Count, tt.Count) {
	const bump = 2
	if thpn < tt.Inf-bump {
		thpn += bump
	}
	if thdn < tt.Inf-bump {
		thdn += bump
	}
	return thpn, thdn
}

// handleRepetition maps the rules adapter's win/lose/draw classification
// onto a proof or disproof for the attacker, per spec.md §4.6 step 3: the
// classification is relative to the side currently to move, so it flips
// meaning between an OR node (attacker to move) and an AND node (defender
// to move). It also marks the entry as a suspected repetition and records
// the path so a later visit to the same path can short-circuit via the
// repetition table (spec.md §4.3, §4.4).
func (c *Core) handleRepetition(cur *node.Cursor, rc shogi.RepetitionClass, p parent) (tt.Count, tt.Count) {
	q := c.queryFor(cur, p)
	q.SetResult(tt.WriteRequest{Kind: tt.ResultRepetition})

	role := cur.Role()
	attackerWins := rc != shogi.RepDraw && (rc == shogi.RepWin) == (role == shogi.RoleOR)

	base := tt.WriteRequest{
		Len:            mlen.New(cur.Depth(), 0),
		Amount:         2,
		HasParent:      p.has,
		ParentBoardKey: p.boardKey,
		ParentHand:     p.hand,
	}
	if attackerWins {
		base.Kind = tt.ResultProof
		q.SetResult(base)
		return 0, tt.Inf
	}
	base.Kind = tt.ResultDisproof
	q.SetResult(base)
	return tt.Inf, 0
}

func (c *Core) queryFor(cur *node.Cursor, p parent) tt.Query {
	return c.Table.QueryFor(cur.BoardKey(), cur.Hand(true), cur.Depth(), cur.PathKey())
}

func (c *Core) writeResult(cur *node.Cursor, ex *expansion.Expansion, p parent) {
	q := c.Table.QueryFor(cur.BoardKey(), cur.Hand(true), cur.Depth(), cur.PathKey())
	secret := shogi.MixHandIntoBoardKey(cur.BoardKey(), cur.Hand(true))

	base := tt.WriteRequest{
		Len:            ex.Len,
		Secret:         secret,
		HasParent:      p.has,
		ParentBoardKey: p.boardKey,
		ParentHand:     p.hand,
	}

	switch {
	case ex.Pn == 0:
		base.Kind = tt.ResultProof
		base.Amount = amount(ex, true)
		q.SetResult(base)
		c.writeGeneralizedHand(cur, ex.ProofHand(cur.Position()), cur.Hand(true), base)
	case ex.Dn == 0:
		base.Kind = tt.ResultDisproof
		base.Amount = amount(ex, true)
		q.SetResult(base)
		c.writeGeneralizedHand(cur, ex.DisproofHand(cur.Position()), cur.Hand(true), base)
	default:
		base.Kind = tt.ResultUnknown
		base.Pn, base.Dn = ex.Pn, ex.Dn
		base.Amount = amount(ex, false)
		q.SetResult(base)
	}
}

// writeGeneralizedHand records the same final result a second time at the
// hand algebra correction's tighter reserve, when it differs from the
// hand actually reached — extending proof-hand/disproof-hand dominance
// coverage beyond the single literal hand the search walked through.
func (c *Core) writeGeneralizedHand(cur *node.Cursor, generalized, actual shogi.Hand, base tt.WriteRequest) {
	if generalized == (shogi.Hand{}) || generalized == actual {
		return
	}
	c.Table.QueryFor(cur.BoardKey(), generalized, cur.Depth(), cur.PathKey()).SetResult(base)
}

// amount is the eviction-priority weight a node's write carries: a final
// (proof or disproof) result is weighted twice as heavily as a merely
// updated bound, so garbage collection clears speculative bounds first.
func amount(ex *expansion.Expansion, final bool) uint64 {
	var total uint64
	for _, c := range ex.Children {
		total += c.Amount
	}
	total++
	if final {
		total *= 2
	}
	return total
}

// extractPV walks the principal variation from cur by repeatedly picking
// the (already searched and written-back) proven child with the shortest
// recorded length at OR nodes and the longest at AND nodes, stopping as
// soon as the table records no proven child for the next position.
func (c *Core) extractPV(cur *node.Cursor) []shogi.Move {
	var pv []shogi.Move
	pos := cur.Position()
	role := cur.Role()

	for i := 0; i < 1<<10; i++ {
		var moves []shogi.Move
		if role == shogi.RoleOR {
			if mv, ok := pos.MateInOne(); ok {
				pv = append(pv, mv)
				break
			}
			moves = pos.LegalCheckMoves()
		} else {
			moves = pos.LegalEvasions()
		}
		if len(moves) == 0 {
			break
		}

		var (
			bestMove shogi.Move
			bestLen  mlen.Len
			found    bool
		)
		for _, m := range moves {
			res := c.Table.QueryForChild(cur.ChildBoardKey(m), cur.ChildHand(m, true), cur.Depth()+1, cur.ChildPathKey(m)).LookUp(firstVisitEstimate)
			if res.Pn != 0 {
				continue
			}
			better := !found ||
				(role == shogi.RoleOR && res.Len.Less(bestLen)) ||
				(role == shogi.RoleAND && bestLen.Less(res.Len))
			if better {
				bestMove, bestLen, found = m, res.Len, true
			}
		}
		if !found {
			break
		}

		pv = append(pv, bestMove)
		cur.Do(bestMove)
		defer cur.Undo(bestMove)
		role = role.Other()
	}
	return pv
}
