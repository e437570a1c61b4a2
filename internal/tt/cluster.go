package tt

import "mateengine/internal/shogi"

// ClusterSize is the fixed neighborhood size TT lookups probe.
const ClusterSize = 16

type cluster struct {
	entries [ClusterSize]Entry
}

// find returns the entry exactly matching (boardKey, h), if present.
func (c *cluster) find(boardKey shogi.BoardKey, h shogi.Hand) (*Entry, bool) {
	for i := range c.entries {
		e := &c.entries[i]
		if e.used && e.BoardKey == boardKey && e.Hand.Equal(h) {
			return e, true
		}
	}
	return nil, false
}

// matching returns every used entry sharing boardKey, regardless of hand —
// the set the dominance rules scan over.
func (c *cluster) matching(boardKey shogi.BoardKey) []*Entry {
	var out []*Entry
	for i := range c.entries {
		e := &c.entries[i]
		if e.used && e.BoardKey == boardKey {
			out = append(out, e)
		}
	}
	return out
}

// getOrCreate returns the entry for (boardKey, h), allocating a free slot
// or evicting the minimum-amount occupied slot if the cluster is full.
func (c *cluster) getOrCreate(boardKey shogi.BoardKey, h shogi.Hand) *Entry {
	if e, ok := c.find(boardKey, h); ok {
		return e
	}
	for i := range c.entries {
		if !c.entries[i].used {
			c.entries[i] = newEntry(boardKey, h)
			return &c.entries[i]
		}
	}
	minIdx := 0
	minAmount := c.entries[0].totalAmount()
	for i := 1; i < ClusterSize; i++ {
		a := c.entries[i].totalAmount()
		if a < minAmount {
			minAmount = a
			minIdx = i
		}
	}
	c.entries[minIdx] = newEntry(boardKey, h)
	return &c.entries[minIdx]
}

func (c *cluster) nonEmptyCount() int {
	n := 0
	for i := range c.entries {
		if c.entries[i].used {
			n++
		}
	}
	return n
}

// collectGarbage clears every used entry whose total amount is below eta,
// returning how many were cleared.
func (c *cluster) collectGarbage(eta uint64) int {
	cleared := 0
	for i := range c.entries {
		e := &c.entries[i]
		if e.used && e.totalAmount() < eta {
			c.entries[i] = Entry{}
			cleared++
		}
	}
	return cleared
}
