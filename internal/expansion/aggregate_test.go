package expansion

import (
	"testing"

	"github.com/stretchr/testify/require"

	"mateengine/internal/mlen"
	"mateengine/internal/shogi"
	"mateengine/internal/tt"
)

func TestAggregateORTakesMinPnSumsDn(t *testing.T) {
	children := []ChildInfo{
		{Pn: 3, Dn: 2, Len: mlen.New(2, 0), SumMask: true},
		{Pn: 1, Dn: 5, Len: mlen.New(4, 0), SumMask: true},
		{Pn: 7, Dn: 1, Len: mlen.New(6, 0), SumMask: true},
	}
	pn, dn, length := aggregate(shogi.RoleOR, children)
	require.Equal(t, tt.Count(1), pn)
	require.Equal(t, tt.Count(8), dn)
	require.Equal(t, 5, length.Plies())
}

func TestAggregateANDTakesMinDnSumsPn(t *testing.T) {
	children := []ChildInfo{
		{Pn: 2, Dn: 3, SumMask: true},
		{Pn: 5, Dn: 1, SumMask: true},
	}
	pn, dn, _ := aggregate(shogi.RoleAND, children)
	require.Equal(t, tt.Count(7), pn)
	require.Equal(t, tt.Count(1), dn)
}

func TestAggregateNoChildrenIsTerminal(t *testing.T) {
	pn, dn, _ := aggregate(shogi.RoleOR, nil)
	require.Equal(t, tt.Inf, pn)
	require.Equal(t, tt.Count(0), dn)

	pn, dn, _ = aggregate(shogi.RoleAND, nil)
	require.Equal(t, tt.Count(0), pn)
	require.Equal(t, tt.Inf, dn)
}

func TestAggregateMaxCombinesNonSumMaskChildren(t *testing.T) {
	children := []ChildInfo{
		{Pn: 5, Dn: 4, SumMask: false},
		{Pn: 6, Dn: 9, SumMask: false},
	}
	_, dn, _ := aggregate(shogi.RoleOR, children)
	require.Equal(t, tt.Count(9), dn, "non-sum-mask siblings combine by max, not sum")
}

func TestBestSecondPicksLowerAmountOnTie(t *testing.T) {
	ex := &Expansion{
		Role: shogi.RoleOR,
		Children: []ChildInfo{
			{Pn: 3, Amount: 50},
			{Pn: 3, Amount: 5},
			{Pn: 9, Amount: 0},
		},
	}
	best, second := ex.BestSecond()
	require.Equal(t, 1, best)
	require.Equal(t, 0, second)
}

func TestBestSecondSingleChild(t *testing.T) {
	ex := &Expansion{Role: shogi.RoleAND, Children: []ChildInfo{{Dn: 4}}}
	best, second := ex.BestSecond()
	require.Equal(t, 0, best)
	require.Equal(t, -1, second)
}

func TestChildThresholdsORPassesThPnThroughAndSubtractsSiblingDn(t *testing.T) {
	ex := &Expansion{
		Role: shogi.RoleOR,
		Children: []ChildInfo{
			{Pn: 2, Dn: 3, SumMask: true},
			{Pn: 4, Dn: 5, SumMask: true},
		},
	}
	thpn, thdn := ex.ChildThresholds(0, 10, 20)
	require.Equal(t, tt.Count(10), thpn)
	require.Equal(t, tt.Count(15), thdn) // 20 - sibling's dn (5)
}

func TestChildThresholdsANDPassesThDnThroughAndSubtractsSiblingPn(t *testing.T) {
	ex := &Expansion{
		Role: shogi.RoleAND,
		Children: []ChildInfo{
			{Pn: 2, Dn: 3, SumMask: true},
			{Pn: 4, Dn: 5, SumMask: true},
		},
	}
	thpn, thdn := ex.ChildThresholds(1, 10, 20)
	require.Equal(t, tt.Count(8), thpn) // 10 - sibling's pn (2)
	require.Equal(t, tt.Count(20), thdn)
}

func TestChildThresholdsNeverUnderflow(t *testing.T) {
	ex := &Expansion{
		Role: shogi.RoleOR,
		Children: []ChildInfo{
			{Pn: 1, Dn: 100, SumMask: true},
			{Pn: 1, Dn: 1, SumMask: true},
		},
	}
	_, thdn := ex.ChildThresholds(1, 10, 5)
	require.Equal(t, tt.Count(0), thdn)
}
