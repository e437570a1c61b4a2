// Package node implements a mutable walk-pointer into the game tree
// carrying depth and role, wrapping the rules adapter's do/undo pair.
package node

import "mateengine/internal/shogi"

// Cursor walks a shogi.Position depth-first. It owns no state the adapter
// doesn't already own except the current depth, which the adapter's
// PathKey alone does not expose directly.
type Cursor struct {
	pos   shogi.Position
	depth int
}

// NewCursor wraps pos at depth 0. pos is assumed to already be positioned
// at the search root.
func NewCursor(pos shogi.Position) *Cursor {
	return &Cursor{pos: pos}
}

func (c *Cursor) Position() shogi.Position { return c.pos }
func (c *Cursor) Depth() int               { return c.depth }
func (c *Cursor) Role() shogi.Role         { return c.pos.ToMove() }
func (c *Cursor) BoardKey() shogi.BoardKey { return c.pos.BoardKey() }
func (c *Cursor) PathKey() shogi.PathKey   { return c.pos.PathKey() }
func (c *Cursor) Hand(attacker bool) shogi.Hand {
	return c.pos.Hand(attacker)
}

// Do advances the cursor by one ply, mutating the wrapped position in
// place. Every Do must be matched by an Undo with the same move before the
// cursor is used again at the parent's depth.
func (c *Cursor) Do(m shogi.Move) {
	c.pos.DoMove(m)
	c.depth++
}

// Undo reverses the most recent Do. m must be the same move passed to that
// Do call; the adapter is responsible for restoring every observable field
// exactly.
func (c *Cursor) Undo(m shogi.Move) {
	c.pos.UndoMove(m)
	c.depth--
}

// ChildBoardKey and ChildHand let the search core build a child's TT
// address without mutating the cursor, so the table can be probed before
// deciding whether to recurse.
func (c *Cursor) ChildBoardKey(m shogi.Move) shogi.BoardKey {
	return c.pos.BoardKeyAfter(m)
}

func (c *Cursor) ChildHand(m shogi.Move, attacker bool) shogi.Hand {
	return c.pos.HandAfter(m, attacker)
}

func (c *Cursor) ChildPathKey(m shogi.Move) shogi.PathKey {
	return c.pos.PathKeyAfter(m, c.depth+1)
}
