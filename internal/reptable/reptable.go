// Package reptable implements a bounded set of path-hashes flagged as
// repetition losses, backed by two rotating generations.
package reptable

import (
	"sync"

	"mateengine/internal/shogi"
)

// Table is a bounded set of shogi.PathKey values. Capacity is split across
// two generations; once the active generation reaches half the budget, the
// other (oldest) generation is cleared and becomes active, discarding
// whatever it held.
type Table struct {
	mu     sync.Mutex
	genCap int
	gens   [2]map[shogi.PathKey]struct{}
	active int
}

// New builds a table with room for approximately n path keys in total
// (n/2 per generation).
func New(n int) *Table {
	capPerGen := n / 2
	if capPerGen < 1 {
		capPerGen = 1
	}
	return &Table{
		genCap: capPerGen,
		gens: [2]map[shogi.PathKey]struct{}{
			make(map[shogi.PathKey]struct{}, capPerGen),
			make(map[shogi.PathKey]struct{}, capPerGen),
		},
	}
}

// Insert records p as a repetition-loss path, rotating generations if the
// active one just filled up.
func (t *Table) Insert(p shogi.PathKey) {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.gens[t.active][p] = struct{}{}
	if len(t.gens[t.active]) >= t.genCap {
		other := 1 - t.active
		t.gens[other] = make(map[shogi.PathKey]struct{}, t.genCap)
		t.active = other
	}
}

// Contains reports whether p was inserted and has not yet been displaced by
// two rotations.
func (t *Table) Contains(p shogi.PathKey) bool {
	t.mu.Lock()
	defer t.mu.Unlock()

	if _, ok := t.gens[0][p]; ok {
		return true
	}
	_, ok := t.gens[1][p]
	return ok
}

// Clear empties both generations wholesale. internal/tt.Table.NewSearch
// calls this transitively at the start of each new root search.
func (t *Table) Clear() {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.gens[0] = make(map[shogi.PathKey]struct{}, t.genCap)
	t.gens[1] = make(map[shogi.PathKey]struct{}, t.genCap)
	t.active = 0
}
