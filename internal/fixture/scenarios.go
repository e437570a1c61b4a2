package fixture

import "mateengine/internal/shogi"

// oneHand returns a hand holding n pieces of type p.
func oneHand(p shogi.Piece, n uint8) shogi.Hand {
	var h shogi.Hand
	h[p] = n
	return h
}

// MateInOne builds the scenario from spec.md §8: the attacker holds one
// piece of class Pawn, and dropping it mates immediately — state 0 (root,
// OR) has a single move to state 1 (AND, no evasions).
func MateInOne() *Graph {
	return &Graph{
		Root: 0,
		States: map[State]StateSpec{
			0: {
				Role:         shogi.RoleOR,
				AttackerHand: oneHand(shogi.Pawn, 1),
				HasMateInOne: true,
				MateInOneMv:  1,
				CheckMoves:   []Transition{{Move: 1, To: 1}},
			},
			1: {
				Role:     shogi.RoleAND,
				Evasions: nil,
			},
		},
	}
}

// NoMate builds spec.md §8's "obvious no-mate" scenario: the defender is
// to move at the root and the attacker has no check in contact with the
// king, so there are zero legal checking moves to generate in the first
// place — modeled here as an OR root with no legal check moves, the
// immediate-disproof boundary case of spec.md §4.5.
func NoMate() *Graph {
	return &Graph{
		Root: 0,
		States: map[State]StateSpec{
			0: {Role: shogi.RoleOR, CheckMoves: nil},
		},
	}
}

// OneMoveDelay builds spec.md §8's "mate in 3" scenario: the attacker's
// only check is answered by a capture-evasion, after which a second check
// finishes the defender off with no further evasions.
//
//	0 (OR)  --check--> 1 (AND) --evade--> 2 (OR) --check--> 3 (AND, mated)
func OneMoveDelay() *Graph {
	return &Graph{
		Root: 0,
		States: map[State]StateSpec{
			0: {
				Role:         shogi.RoleOR,
				AttackerHand: oneHand(shogi.Rook, 1),
				CheckMoves:   []Transition{{Move: 1, To: 1}},
			},
			1: {
				Role:     shogi.RoleAND,
				Evasions: []Transition{{Move: 2, To: 2}},
			},
			2: {
				Role:         shogi.RoleOR,
				AttackerHand: oneHand(shogi.Rook, 1),
				CheckMoves:   []Transition{{Move: 3, To: 3}},
			},
			3: {
				Role:     shogi.RoleAND,
				Evasions: nil,
			},
		},
	}
}

// RepetitionLoss builds spec.md §8's repetition scenario: the attacker's
// only checking line cycles back into a position already on the path, and
// the rules adapter classifies a fourfold recurrence of the root as a loss
// for the side to move there — the attacker, since the root is an OR node —
// modeling the perpetual-check-loses-for-the-checker rule.
func RepetitionLoss() *Graph {
	return &Graph{
		Root: 0,
		States: map[State]StateSpec{
			0: {
				Role:        shogi.RoleOR,
				CheckMoves:  []Transition{{Move: 1, To: 1}},
				RepeatAfter: 4,
				RepeatClass: shogi.RepLose,
			},
			1: {
				Role:     shogi.RoleAND,
				Evasions: []Transition{{Move: 2, To: 0}},
			},
		},
	}
}

// DoubleCountTrap builds spec.md §8's transposition scenario: two distinct
// first moves from the root (through states 1 and 2) both reach the same
// deeper node (state 3), so a naive sum-based delta aggregation would
// double-count that subtree's disproof weight. State 3's only check leads
// to state 4, which has no evasions, so the root is provable.
func DoubleCountTrap() *Graph {
	return &Graph{
		Root: 0,
		States: map[State]StateSpec{
			0: {
				Role: shogi.RoleOR,
				CheckMoves: []Transition{
					{Move: 1, To: 1},
					{Move: 2, To: 2},
				},
			},
			1: {
				Role:     shogi.RoleAND,
				Evasions: []Transition{{Move: 10, To: 3}},
			},
			2: {
				Role:     shogi.RoleAND,
				Evasions: []Transition{{Move: 11, To: 3}},
			},
			3: {
				Role:     shogi.RoleOR,
				CheckMoves: []Transition{{Move: 20, To: 4}},
			},
			4: {
				Role:     shogi.RoleAND,
				Evasions: nil,
			},
		},
	}
}
