package search

import (
	"testing"

	"github.com/stretchr/testify/require"

	"mateengine/internal/monitor"
	"mateengine/internal/shogi"
	"mateengine/internal/tt"
)

// fakePos is a tiny finite game tree keyed entirely by global move numbers:
// each move leads unambiguously to one state regardless of where it's
// played from, so the transition table needs no (state, move) pairing.
type fakePos struct {
	state   int
	roleAt  map[int]shogi.Role
	movesAt map[int][]shogi.Move
	next    map[shogi.Move]int
	stack   []int
}

func (f *fakePos) ToMove() shogi.Role            { return f.roleAt[f.state] }
func (f *fakePos) LegalCheckMoves() []shogi.Move { return f.movesAt[f.state] }
func (f *fakePos) LegalEvasions() []shogi.Move   { return f.movesAt[f.state] }
func (f *fakePos) MateInOne() (shogi.Move, bool) { return 0, false }
func (f *fakePos) Hand(attacker bool) shogi.Hand { return shogi.Hand{} }
func (f *fakePos) BoardKey() shogi.BoardKey      { return shogi.BoardKey(f.state) }
func (f *fakePos) PathKey() shogi.PathKey        { return shogi.PathKey(f.state) }
func (f *fakePos) InCheck() bool                 { return false }

func (f *fakePos) DoMove(m shogi.Move) {
	f.stack = append(f.stack, f.state)
	f.state = f.next[m]
}

func (f *fakePos) UndoMove(m shogi.Move) {
	n := len(f.stack) - 1
	f.state = f.stack[n]
	f.stack = f.stack[:n]
}

func (f *fakePos) BoardKeyAfter(m shogi.Move) shogi.BoardKey { return shogi.BoardKey(f.next[m]) }
func (f *fakePos) HandAfter(m shogi.Move, attacker bool) shogi.Hand {
	return shogi.Hand{}
}
func (f *fakePos) PathKeyAfter(m shogi.Move, depth int) shogi.PathKey {
	return shogi.PathKey(f.next[m])*1000 + shogi.PathKey(depth)
}
func (f *fakePos) RepetitionClass() shogi.RepetitionClass { return shogi.RepNone }
func (f *fakePos) GivesCheckByDrop(p shogi.Piece) bool      { return false }
func (f *fakePos) KingSquare(attacker bool) int             { return 0 }
func (f *fakePos) SingleCheckInterposable() bool            { return false }

func newCore() *Core {
	table := tt.NewTable(1)
	return NewCore(table, monitor.New(table))
}

// TestSearchProvesMateInOne builds a root OR node whose single checking
// move reaches an AND node with no legal evasions — mate in one ply.
func TestSearchProvesMateInOne(t *testing.T) {
	pos := &fakePos{
		state:   0,
		roleAt:  map[int]shogi.Role{0: shogi.RoleOR, 1: shogi.RoleAND},
		movesAt: map[int][]shogi.Move{0: {10}, 1: {}},
		next:    map[shogi.Move]int{10: 1},
	}

	res := newCore().Search(pos)
	require.True(t, res.Proven)
	require.False(t, res.Disproven)
	require.Equal(t, []shogi.Move{10}, res.PV)
	require.Equal(t, 0, len(pos.stack))
}

// TestSearchDisprovesWhenDefenderEscapes builds a root OR node whose
// single checking move reaches an AND node with one evasion that lands on
// an OR node with no further checks — the defender gets away.
func TestSearchDisprovesWhenDefenderEscapes(t *testing.T) {
	pos := &fakePos{
		state: 0,
		roleAt: map[int]shogi.Role{
			0: shogi.RoleOR, 1: shogi.RoleAND, 2: shogi.RoleOR,
		},
		movesAt: map[int][]shogi.Move{
			0: {20}, 1: {30}, 2: {},
		},
		next: map[shogi.Move]int{20: 1, 30: 2},
	}

	res := newCore().Search(pos)
	require.False(t, res.Proven)
	require.True(t, res.Disproven)
	require.Equal(t, 0, len(pos.stack))
}

// TestSearchNoMovesAtRootIsImmediateDisproof covers the degenerate case of
// an attacker with no checking move at all.
func TestSearchNoMovesAtRootIsImmediateDisproof(t *testing.T) {
	pos := &fakePos{
		state:   0,
		roleAt:  map[int]shogi.Role{0: shogi.RoleOR},
		movesAt: map[int][]shogi.Move{0: {}},
		next:    map[shogi.Move]int{},
	}

	res := newCore().Search(pos)
	require.False(t, res.Proven)
	require.True(t, res.Disproven)
}

func TestSearchRespectsNodeLimit(t *testing.T) {
	pos := &fakePos{
		state:   0,
		roleAt:  map[int]shogi.Role{0: shogi.RoleOR, 1: shogi.RoleAND},
		movesAt: map[int][]shogi.Move{0: {10}, 1: {}},
		next:    map[shogi.Move]int{10: 1},
	}

	core := newCore()
	core.Monitor.SetLimits(1, 0)
	res := core.Search(pos)
	require.False(t, res.Proven)
	require.False(t, res.Disproven)
}
