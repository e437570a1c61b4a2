// Package expansion builds and aggregates the set of legal children at one
// search node: the local expansion the search core consults on every
// visit instead of re-deriving move-ordering and phi/delta bookkeeping
// inline.
package expansion

import (
	"github.com/samber/lo"

	"mateengine/internal/hand"
	"mateengine/internal/mlen"
	"mateengine/internal/node"
	"mateengine/internal/shogi"
	"mateengine/internal/tt"
)

// Ancestor is one still-open node on the current search path, carried down
// so a freshly generated child can be checked against it for double
// counting before it is folded into the parent's delta.
type Ancestor struct {
	Secret uint64
}

// ChildInfo is one legal move together with its currently known
// proof/disproof state.
type ChildInfo struct {
	Move     shogi.Move
	BoardKey shogi.BoardKey
	Hand     shogi.Hand
	PathKey  shogi.PathKey
	Pn, Dn   tt.Count
	Len      mlen.Len
	Amount   uint64
	MinDepth uint32

	// SumMask is false when this child's position also sits open on an
	// ancestor of the current path: its delta contribution is combined by
	// max instead of summed, so the same unresolved subtree is not paid
	// for twice.
	SumMask bool
}

// IsOld reports whether this child was already visited shallower than
// depth and is still unresolved — the unproven-old-child condition the
// Threshold Controlling Algorithm watches for.
func (c ChildInfo) IsOld(depth int) bool {
	return c.MinDepth != tt.NeverVisited &&
		c.MinDepth < uint32(depth) &&
		c.Pn != 0 && c.Dn != 0
}

// Expansion is the per-visit workspace built by Build.
type Expansion struct {
	Role     shogi.Role
	Secret   uint64
	Children []ChildInfo

	Pn, Dn tt.Count
	Len    mlen.Len

	HasOldChild bool
}

// Build generates every legal child of the cursor's current node, probes
// each one's table entry, and aggregates their (pn, dn) into the node's
// own value.
func Build(cur *node.Cursor, table *tt.Table, ancestry []Ancestor) *Expansion {
	role := cur.Role()
	pos := cur.Position()

	ex := &Expansion{
		Role:   role,
		Secret: shogi.MixHandIntoBoardKey(cur.BoardKey(), cur.Hand(true)),
	}

	var moves []shogi.Move
	if role == shogi.RoleOR {
		if mv, ok := pos.MateInOne(); ok {
			moves = []shogi.Move{mv}
		} else {
			moves = pos.LegalCheckMoves()
		}
	} else {
		moves = pos.LegalEvasions()
	}

	for _, m := range moves {
		childBoardKey := cur.ChildBoardKey(m)
		childHand := cur.ChildHand(m, true)
		childPathKey := cur.ChildPathKey(m)
		childSecret := shogi.MixHandIntoBoardKey(childBoardKey, childHand)

		q := table.QueryForChild(childBoardKey, childHand, cur.Depth()+1, childPathKey)
		res := q.LookUp(func() (tt.Count, tt.Count) { return 1, 1 })

		sumMask := true
		for _, anc := range ancestry {
			if anc.Secret == childSecret {
				sumMask = false
				break
			}
		}

		ci := ChildInfo{
			Move:     m,
			BoardKey: childBoardKey,
			Hand:     childHand,
			PathKey:  childPathKey,
			Pn:       res.Pn,
			Dn:       res.Dn,
			Len:      res.Len,
			Amount:   res.Amount,
			MinDepth: res.MinDepth,
			SumMask:  sumMask,
		}
		ex.Children = append(ex.Children, ci)
	}

	depth := cur.Depth() + 1
	ex.HasOldChild = lo.SomeBy(ex.Children, func(c ChildInfo) bool { return c.IsOld(depth) })

	ex.Pn, ex.Dn, ex.Len = aggregate(role, ex.Children)
	return ex
}

// ProofHand returns the minimal attacker reserve this node's proof relies
// on, or the zero hand if the node is not (yet) proven.
func (ex *Expansion) ProofHand(pos shogi.Position) shogi.Hand {
	if ex.Pn != 0 {
		return shogi.Hand{}
	}
	if ex.Role == shogi.RoleOR {
		for _, c := range ex.Children {
			if c.Pn == 0 {
				return c.Hand
			}
		}
		return shogi.Hand{}
	}
	var acc shogi.Hand
	any := false
	for _, c := range ex.Children {
		if c.Pn != 0 {
			continue
		}
		if !any {
			acc, any = c.Hand, true
			continue
		}
		acc = hand.Merge(acc, c.Hand)
	}
	return hand.ExpandProofHand(pos, acc)
}

// DisproofHand returns the minimal attacker reserve deficit this node's
// disproof relies on, or the zero hand if the node is not (yet) disproven.
func (ex *Expansion) DisproofHand(pos shogi.Position) shogi.Hand {
	if ex.Dn != 0 {
		return shogi.Hand{}
	}
	if ex.Role == shogi.RoleAND {
		for _, c := range ex.Children {
			if c.Dn == 0 {
				return c.Hand
			}
		}
		return shogi.Hand{}
	}
	var acc shogi.Hand
	any := false
	for _, c := range ex.Children {
		if c.Dn != 0 {
			continue
		}
		if !any {
			acc, any = c.Hand, true
			continue
		}
		acc = hand.Intersect(acc, c.Hand)
	}
	return hand.TightenDisproofHand(pos, acc)
}
