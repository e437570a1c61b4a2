// Package fixture implements a minimal, declarative rules adapter
// satisfying shogi.Position — not a production move generator, but a
// reusable test harness for the search core's invariants and the
// end-to-end scenarios named in spec.md §8. A fixture is authored as a
// finite directed graph of named states; each state carries the role to
// move, the hands in effect, and the handful of board facts the hand
// algebra corrections need (drop-gives-check, king squares,
// single-check-interposable), declared directly rather than derived from
// real board geometry.
package fixture

import "mateengine/internal/shogi"

// State names one node of the fixture's game graph.
type State int

// Transition is one legal move out of a state, together with the state it
// leads to.
type Transition struct {
	Move shogi.Move
	To   State
}

// StateSpec declares everything the rules-adapter contract needs to know
// about one state.
type StateSpec struct {
	Role shogi.Role

	// AttackerHand and DefenderHand are the absolute hand contents once
	// this state is reached (not deltas from the parent).
	AttackerHand shogi.Hand
	DefenderHand shogi.Hand

	// CheckMoves is consulted at OR states, Evasions at AND states.
	CheckMoves []Transition
	Evasions   []Transition

	HasMateInOne bool
	MateInOneMv  shogi.Move

	InCheck    bool
	Repetition shogi.RepetitionClass

	// RepeatAfter, when positive, makes RepetitionClass report RepeatClass
	// instead of Repetition once this state has recurred on the current
	// path at least RepeatAfter times (counting the current occupancy) —
	// a path-dependent repetition rule (e.g. fourfold check repetition)
	// without requiring the fixture to track real move history.
	RepeatAfter int
	RepeatClass shogi.RepetitionClass

	// DropGivesCheck lists which piece types would give check if dropped
	// right now, independent of whether the attacker currently holds one.
	DropGivesCheck map[shogi.Piece]bool

	AttackerKingSq int
	DefenderKingSq int

	SingleCheckInterposable bool
}

// Graph is an immutable fixture definition: a set of states plus the state
// play begins at.
type Graph struct {
	States map[State]StateSpec
	Root   State
}

// Position is a live walk pointer into a Graph, implementing
// shogi.Position. Two Positions built from the same Graph never share
// mutable state.
type Position struct {
	g     *Graph
	cur   State
	stack []State
}

// New starts a Position at g's root.
func New(g *Graph) *Position {
	return &Position{g: g, cur: g.Root}
}

func (p *Position) spec() StateSpec { return p.g.States[p.cur] }

func (p *Position) ToMove() shogi.Role { return p.spec().Role }
func (p *Position) InCheck() bool      { return p.spec().InCheck }

func (p *Position) LegalCheckMoves() []shogi.Move {
	ts := p.spec().CheckMoves
	moves := make([]shogi.Move, len(ts))
	for i, t := range ts {
		moves[i] = t.Move
	}
	return moves
}

func (p *Position) LegalEvasions() []shogi.Move {
	ts := p.spec().Evasions
	moves := make([]shogi.Move, len(ts))
	for i, t := range ts {
		moves[i] = t.Move
	}
	return moves
}

func (p *Position) MateInOne() (shogi.Move, bool) {
	s := p.spec()
	return s.MateInOneMv, s.HasMateInOne
}

func (p *Position) Hand(attacker bool) shogi.Hand {
	s := p.spec()
	if attacker {
		return s.AttackerHand
	}
	return s.DefenderHand
}

func (p *Position) transitions() []Transition {
	s := p.spec()
	if s.Role == shogi.RoleOR {
		return s.CheckMoves
	}
	return s.Evasions
}

func (p *Position) next(m shogi.Move) (State, bool) {
	for _, t := range p.transitions() {
		if t.Move == m {
			return t.To, true
		}
	}
	return 0, false
}

func (p *Position) DoMove(m shogi.Move) {
	to, ok := p.next(m)
	if !ok {
		panic("fixture: illegal move")
	}
	p.stack = append(p.stack, p.cur)
	p.cur = to
}

func (p *Position) UndoMove(shogi.Move) {
	n := len(p.stack) - 1
	p.cur = p.stack[n]
	p.stack = p.stack[:n]
}

func (p *Position) BoardKey() shogi.BoardKey { return shogi.BoardKey(p.cur) }

// PathKey distinguishes repeated visits to the same state by depth, so a
// fixture can model "this exact board recurred" without actually needing
// move-sequence-sensitive hashing.
func (p *Position) PathKey() shogi.PathKey {
	return shogi.PathKey(p.cur)*1000 + shogi.PathKey(len(p.stack))
}

func (p *Position) BoardKeyAfter(m shogi.Move) shogi.BoardKey {
	to, ok := p.next(m)
	if !ok {
		panic("fixture: illegal move")
	}
	return shogi.BoardKey(to)
}

func (p *Position) HandAfter(m shogi.Move, attacker bool) shogi.Hand {
	to, ok := p.next(m)
	if !ok {
		panic("fixture: illegal move")
	}
	s := p.g.States[to]
	if attacker {
		return s.AttackerHand
	}
	return s.DefenderHand
}

func (p *Position) PathKeyAfter(m shogi.Move, depth int) shogi.PathKey {
	to, ok := p.next(m)
	if !ok {
		panic("fixture: illegal move")
	}
	return shogi.PathKey(to)*1000 + shogi.PathKey(depth)
}

func (p *Position) RepetitionClass() shogi.RepetitionClass {
	s := p.spec()
	if s.RepeatAfter > 0 && p.visitCount(p.cur) >= s.RepeatAfter {
		return s.RepeatClass
	}
	return s.Repetition
}

// visitCount counts how many times state s occupies the current path,
// including the current occupancy.
func (p *Position) visitCount(s State) int {
	n := 1
	for _, st := range p.stack {
		if st == s {
			n++
		}
	}
	return n
}

func (p *Position) GivesCheckByDrop(pc shogi.Piece) bool {
	return p.spec().DropGivesCheck[pc]
}

func (p *Position) KingSquare(attacker bool) int {
	s := p.spec()
	if attacker {
		return s.AttackerKingSq
	}
	return s.DefenderKingSq
}

func (p *Position) SingleCheckInterposable() bool { return p.spec().SingleCheckInterposable }
