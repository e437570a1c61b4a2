// Package tt implements a clustered, open-addressed transposition table:
// replacement by minimum amount, hashfull estimation, garbage collection,
// and save/load.
package tt

import (
	"sync"

	"github.com/pbnjay/memory"

	"mateengine/internal/reptable"
	"mateengine/internal/shogi"
)

// approxEntryBytes estimates the footprint of one Entry including its
// sub-entry slice, used only to size the cluster array from a megabyte
// budget — it need not be exact, just monotone in MaxSubentries.
const approxEntryBytes = 48 + MaxSubentries*16

// entryFraction and repFraction split a hash_mb budget between the entry
// clusters and the repetition table.
const (
	entryFraction = 0.95
	repFraction   = 0.05
)

// Table is the transposition table. The zero value is not usable; call
// NewTable or Resize first.
type Table struct {
	// mu guards cluster contents. Besides the goroutine driving the search,
	// the monitor's background GC goroutine calls Hashfull and
	// CollectGarbage, and a protocol Session's info ticker calls Hashfull,
	// from other goroutines.
	mu sync.RWMutex

	clusters []cluster
	rep      *reptable.Table

	eta uint64 // current GC eviction threshold, raised by CollectGarbage

	sampleCursor int // rotates the hashfull sample window across calls
}

// DefaultHashMB picks a hash_mb default from free system memory rather
// than pinning a fixed number: a quarter of free memory, clamped to a
// sane range.
func DefaultHashMB() int {
	freeMB := int(memory.FreeMemory() / (1024 * 1024))
	mb := freeMB / 4
	if mb < 16 {
		mb = 16
	}
	if mb > 8192 {
		mb = 8192
	}
	return mb
}

// NewTable allocates a table sized to hashMB megabytes.
func NewTable(hashMB int) *Table {
	t := &Table{}
	t.Resize(hashMB)
	return t
}

// Resize reallocates the entry array and repetition table from a megabyte
// budget, discarding all prior content.
func (t *Table) Resize(hashMB int) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if hashMB < 1 {
		hashMB = 1
	}
	totalBytes := hashMB * 1024 * 1024
	entryBytes := int(float64(totalBytes) * entryFraction)
	repBytes := int(float64(totalBytes) * repFraction)

	numClusters := entryBytes / (ClusterSize * approxEntryBytes)
	if numClusters < 1 {
		numClusters = 1
	}
	t.clusters = make([]cluster, numClusters)

	repEntries := repBytes / 8 // one path key (uint64) per slot
	if repEntries < 1024 {
		repEntries = 1024
	}
	t.rep = reptable.New(repEntries)
	t.eta = 0
}

// NewSearch nullifies all entries, the repetition table, and the GC
// threshold, for a fresh root search that must not see stale results.
func (t *Table) NewSearch() {
	t.mu.Lock()
	defer t.mu.Unlock()

	for i := range t.clusters {
		t.clusters[i] = cluster{}
	}
	t.rep.Clear()
	t.eta = 0
}

func (t *Table) index(boardKey shogi.BoardKey) int {
	return int(uint64(boardKey) % uint64(len(t.clusters)))
}

// Hashfull samples up to 10000 interior entries and returns their fill
// rate in permille.
func (t *Table) Hashfull() int {
	t.mu.RLock()
	defer t.mu.RUnlock()

	const sampleEntries = 10000
	n := len(t.clusters)
	if n == 0 {
		return 0
	}
	take := n
	if take > sampleEntries/ClusterSize {
		take = sampleEntries / ClusterSize
	}

	used, total := 0, 0
	start := t.sampleCursor
	for i := 0; i < take; i++ {
		idx := (start + i) % n
		used += t.clusters[idx].nonEmptyCount()
		total += ClusterSize
	}
	t.sampleCursor = (start + take) % n
	if total == 0 {
		return 0
	}
	return used * 1000 / total
}

// CollectGarbage raises the eviction threshold until at least ratio of
// non-empty entries have been cleared.
func (t *Table) CollectGarbage(ratio float64) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if ratio <= 0 {
		return
	}
	if ratio > 1 {
		ratio = 1
	}

	totalBefore := 0
	for i := range t.clusters {
		totalBefore += t.clusters[i].nonEmptyCount()
	}
	if totalBefore == 0 {
		return
	}
	target := int(float64(totalBefore) * ratio)

	// Double the threshold until enough entries fall below it, then apply
	// it. This keeps CollectGarbage O(clusters) amortized across calls
	// instead of sorting every entry by amount.
	eta := t.eta
	if eta == 0 {
		eta = 1
	}
	for {
		cleared := 0
		for i := range t.clusters {
			for _, e := range t.clusters[i].entries {
				if e.used && e.totalAmount() < eta {
					cleared++
				}
			}
		}
		if cleared >= target || eta > 1<<40 {
			break
		}
		eta *= 2
	}

	for i := range t.clusters {
		t.clusters[i].collectGarbage(eta)
	}
	t.eta = eta
}
