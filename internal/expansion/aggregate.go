package expansion

import (
	"mateengine/internal/mlen"
	"mateengine/internal/shogi"
	"mateengine/internal/tt"
)

// phiDelta maps a child's universal (pn, dn) into the (phi, delta) pair
// the parent's role wants to combine: phi is min-combined across children,
// delta is (mostly) sum-combined. OR nodes want phi=pn/delta=dn (a proof is
// as good as its best child; a disproof needs all children to fail); AND
// nodes swap the two.
func phiDelta(role shogi.Role, pn, dn tt.Count) (phi, delta tt.Count) {
	if role == shogi.RoleOR {
		return pn, dn
	}
	return dn, pn
}

// fromPhiDelta is phiDelta's inverse, rebuilding a universal (pn, dn) pair
// from the parent's aggregated (phi, delta).
func fromPhiDelta(role shogi.Role, phi, delta tt.Count) (pn, dn tt.Count) {
	if role == shogi.RoleOR {
		return phi, delta
	}
	return delta, phi
}

// aggregate combines every child's (pn, dn) into the parent's own value: a
// min over phi, and a sum over delta for children in the sum mask combined
// with a max over the children outside it (the double-count-elimination
// case), per the parent's role. The length is one more than the min-phi
// child's length, or, when every child's delta is 0, one more than the
// longest child length.
func aggregate(role shogi.Role, children []ChildInfo) (pn, dn tt.Count, length mlen.Len) {
	if len(children) == 0 {
		if role == shogi.RoleOR {
			return tt.Inf, 0, mlen.Infinite
		}
		return 0, tt.Inf, mlen.New(0, 0)
	}

	phiParent := tt.Inf
	var deltaSum, deltaMax tt.Count
	bestLen := mlen.Infinite
	longestLen := mlen.None

	for _, c := range children {
		phi, delta := phiDelta(role, c.Pn, c.Dn)
		if phi < phiParent {
			phiParent = phi
			bestLen = c.Len
		}
		longestLen = mlen.LongerDisproof(longestLen, c.Len)
		if c.SumMask {
			deltaSum = tt.AddSat(deltaSum, delta)
		} else if delta > deltaMax {
			deltaMax = delta
		}
	}
	deltaParent := tt.AddSat(deltaSum, deltaMax)
	if deltaParent == 0 {
		// Every child is resolved against the side to move (all proven at
		// an AND node, all disproven at an OR node), so no child has a
		// finite phi; the line lasts as long as the longest child.
		bestLen = longestLen
	}

	pn, dn = fromPhiDelta(role, phiParent, deltaParent)
	return pn, dn, mlen.Add1(bestLen)
}

// deltaExcluding recomputes the parent's delta as if child index skip did
// not exist, used to derive that child's threshold when recursing into it.
func deltaExcluding(ex *Expansion, skip int) tt.Count {
	var sum, max tt.Count
	for i, c := range ex.Children {
		if i == skip {
			continue
		}
		_, delta := phiDelta(ex.Role, c.Pn, c.Dn)
		if c.SumMask {
			sum = tt.AddSat(sum, delta)
		} else if delta > max {
			max = delta
		}
	}
	return tt.AddSat(sum, max)
}

func subSat(a, b tt.Count) tt.Count {
	if b >= a {
		return 0
	}
	return a - b
}

// ChildThresholds derives the (thpn, thdn) pair to pass down when the
// search core recurses into ex.Children[i], splitting the parent's
// thresholds the way depth-first proof-number search always does: the phi
// side passes straight through, the delta side is reduced by every other
// child's contribution to the parent's delta.
func (ex *Expansion) ChildThresholds(i int, thpn, thdn tt.Count) (childThpn, childThdn tt.Count) {
	others := deltaExcluding(ex, i)
	if ex.Role == shogi.RoleOR {
		return thpn, subSat(thdn, others)
	}
	return subSat(thpn, others), thdn
}

func (ex *Expansion) primary(c ChildInfo) tt.Count {
	if ex.Role == shogi.RoleOR {
		return c.Pn
	}
	return c.Dn
}

func (ex *Expansion) less(a, b ChildInfo) bool {
	pa, pb := ex.primary(a), ex.primary(b)
	if pa != pb {
		return pa < pb
	}
	return a.Amount < b.Amount
}

// BestSecond returns the indices of the best and second-best child by the
// node's own ordering (ascending pn at OR nodes, ascending dn at AND
// nodes), breaking ties toward the less-explored child. second is -1 when
// there is only one child.
func (ex *Expansion) BestSecond() (best, second int) {
	best, second = -1, -1
	for i, c := range ex.Children {
		switch {
		case best == -1 || ex.less(c, ex.Children[best]):
			second = best
			best = i
		case second == -1 || ex.less(c, ex.Children[second]):
			second = i
		}
	}
	return best, second
}
