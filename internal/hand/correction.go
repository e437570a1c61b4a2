package hand

import "mateengine/internal/shogi"

// TightenDisproofHand implements the OR-node disproof-hand correction: D
// was computed as the intersection of all children's disproof hands; for
// any piece type the attacker does not currently hold
// but D claims is unnecessary for the defender to keep, a drop of that type
// might have given a check that was never explored as a child (the child
// list only ever contains moves legal in the *current* hand). The adapter's
// GivesCheckByDrop already accounts for the two-pawns-in-a-file exception
// (a drop that would be illegal under nifu does not "give check" for this
// purpose), so no extra legality test is needed here.
func TightenDisproofHand(pos shogi.Position, d shogi.Hand) shogi.Hand {
	attackerHand := pos.Hand(true)
	for p := shogi.Pawn; p < shogi.NumPieceTypes; p++ {
		if attackerHand.Count(p) > 0 {
			continue
		}
		if d.Count(p) == 0 {
			continue
		}
		if pos.GivesCheckByDrop(p) {
			d = Remove(d, p)
		}
	}
	return d
}

// ExpandProofHand implements the AND-node proof-hand correction: P was
// computed as the union of all children's proof hands; when the defender
// is in a single check deliverable by an interposition,
// and the defender never held a piece type p that P claims is part of the
// minimal winning reserve, completeness requires folding in the attacker's
// entire holding of p — the defender had no way to interpose with p, so any
// hand at least as large as the attacker's current holding proves the same
// way.
func ExpandProofHand(pos shogi.Position, p shogi.Hand) shogi.Hand {
	if !pos.SingleCheckInterposable() {
		return p
	}
	defenderHand := pos.Hand(false)
	attackerHand := pos.Hand(true)
	for pt := shogi.Pawn; pt < shogi.NumPieceTypes; pt++ {
		if defenderHand.Count(pt) > 0 {
			continue
		}
		if p.Count(pt) == 0 {
			continue
		}
		if attackerHand.Count(pt) > p.Count(pt) {
			p[pt] = attackerHand[pt]
		}
	}
	return p
}
