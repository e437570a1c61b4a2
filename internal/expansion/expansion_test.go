package expansion

import (
	"testing"

	"github.com/stretchr/testify/require"

	"mateengine/internal/node"
	"mateengine/internal/shogi"
	"mateengine/internal/tt"
)

// fakePos is a minimal shogi.Position stub: every move m leads to a child
// board keyed by m itself, so tests can name children by move number.
type fakePos struct {
	shogi.Position
	role    shogi.Role
	moves   []shogi.Move
	hand    shogi.Hand
	hasMate bool
	mate    shogi.Move
}

func (f *fakePos) ToMove() shogi.Role                { return f.role }
func (f *fakePos) LegalCheckMoves() []shogi.Move     { return f.moves }
func (f *fakePos) LegalEvasions() []shogi.Move       { return f.moves }
func (f *fakePos) MateInOne() (shogi.Move, bool)     { return f.mate, f.hasMate }
func (f *fakePos) Hand(attacker bool) shogi.Hand     { return f.hand }
func (f *fakePos) BoardKey() shogi.BoardKey          { return 0 }
func (f *fakePos) PathKey() shogi.PathKey            { return 0 }
func (f *fakePos) BoardKeyAfter(m shogi.Move) shogi.BoardKey {
	return shogi.BoardKey(m)
}
func (f *fakePos) HandAfter(m shogi.Move, attacker bool) shogi.Hand { return f.hand }
func (f *fakePos) PathKeyAfter(m shogi.Move, depth int) shogi.PathKey {
	return shogi.PathKey(m)
}

func TestBuildFirstVisitORAggregatesFreshChildren(t *testing.T) {
	pos := &fakePos{role: shogi.RoleOR, moves: []shogi.Move{1, 2, 3}}
	cur := node.NewCursor(pos)
	table := tt.NewTable(1)

	ex := Build(cur, table, nil)
	require.Len(t, ex.Children, 3)
	require.Equal(t, tt.Count(1), ex.Pn)
	require.Equal(t, tt.Count(3), ex.Dn)
}

func TestBuildORShortCircuitsOnMateInOne(t *testing.T) {
	pos := &fakePos{role: shogi.RoleOR, moves: []shogi.Move{1, 2, 3}, hasMate: true, mate: 99}
	cur := node.NewCursor(pos)
	table := tt.NewTable(1)

	ex := Build(cur, table, nil)
	require.Len(t, ex.Children, 1)
	require.Equal(t, shogi.Move(99), ex.Children[0].Move)
}

func TestBuildNoMovesIsTerminal(t *testing.T) {
	orPos := &fakePos{role: shogi.RoleOR}
	ex := Build(node.NewCursor(orPos), tt.NewTable(1), nil)
	require.Equal(t, tt.Inf, ex.Pn)
	require.Equal(t, tt.Count(0), ex.Dn)

	andPos := &fakePos{role: shogi.RoleAND}
	ex = Build(node.NewCursor(andPos), tt.NewTable(1), nil)
	require.Equal(t, tt.Count(0), ex.Pn)
	require.Equal(t, tt.Inf, ex.Dn)
}

func TestBuildMarksAncestorTranspositionAsNonSummed(t *testing.T) {
	pos := &fakePos{role: shogi.RoleOR, moves: []shogi.Move{7}}
	cur := node.NewCursor(pos)
	table := tt.NewTable(1)

	childSecret := shogi.MixHandIntoBoardKey(shogi.BoardKey(7), shogi.Hand{})
	ex := Build(cur, table, []Ancestor{{Secret: childSecret}})
	require.False(t, ex.Children[0].SumMask)
}

func TestBuildReadsBackAPriorWrite(t *testing.T) {
	// At an AND node, a single escaping (disproven) child is enough to
	// disprove the node outright.
	pos := &fakePos{role: shogi.RoleAND, moves: []shogi.Move{5, 6}}
	cur := node.NewCursor(pos)
	table := tt.NewTable(1)

	table.QueryForChild(5, shogi.Hand{}, 1, 5).SetResult(tt.WriteRequest{Kind: tt.ResultDisproof})

	ex := Build(cur, table, nil)
	require.Equal(t, tt.Count(0), ex.Dn)
}

func TestProofHandORTakesWinningChildsHand(t *testing.T) {
	h := shogi.Hand{}
	h[shogi.Rook] = 1
	ex := &Expansion{
		Role: shogi.RoleOR,
		Pn:   0,
		Children: []ChildInfo{
			{Pn: 5, Hand: shogi.Hand{}},
			{Pn: 0, Hand: h},
		},
	}
	got := ex.ProofHand(&fakePos{})
	require.Equal(t, uint8(1), got.Count(shogi.Rook))
}

func TestDisproofHandANDTakesEscapingChildsHand(t *testing.T) {
	h := shogi.Hand{}
	h[shogi.Pawn] = 2
	ex := &Expansion{
		Role: shogi.RoleAND,
		Dn:   0,
		Children: []ChildInfo{
			{Dn: 0, Hand: h},
			{Dn: 9, Hand: shogi.Hand{}},
		},
	}
	got := ex.DisproofHand(&fakePos{})
	require.Equal(t, uint8(2), got.Count(shogi.Pawn))
}
