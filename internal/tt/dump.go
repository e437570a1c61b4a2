package tt

import (
	"bufio"
	"encoding/binary"
	"fmt"
	"io"

	"mateengine/internal/mlen"
	"mateengine/internal/shogi"
)

// dumpMagic and dumpVersion identify the raw binary TT dump format. The
// format must be self-describing enough that Load either accepts the file
// or refuses it outright, never partially applying it.
var dumpMagic = [8]byte{'M', 'A', 'T', 'E', 'T', 'T', '1', 0}

const dumpVersion uint32 = 1

// Save writes every cluster to w in the raw binary format. A loaded table
// is semantically indistinguishable from one built by replaying the same
// sequence of SetResult calls.
func (t *Table) Save(w io.Writer) error {
	t.mu.RLock()
	defer t.mu.RUnlock()

	bw := bufio.NewWriter(w)

	if err := binary.Write(bw, binary.LittleEndian, dumpMagic); err != nil {
		return err
	}
	if err := binary.Write(bw, binary.LittleEndian, dumpVersion); err != nil {
		return err
	}
	if err := binary.Write(bw, binary.LittleEndian, uint32(ClusterSize)); err != nil {
		return err
	}
	if err := binary.Write(bw, binary.LittleEndian, uint32(len(t.clusters))); err != nil {
		return err
	}

	for i := range t.clusters {
		for j := range t.clusters[i].entries {
			if err := writeEntry(bw, &t.clusters[i].entries[j]); err != nil {
				return err
			}
		}
	}
	return bw.Flush()
}

func writeEntry(w io.Writer, e *Entry) error {
	used := byte(0)
	if e.used {
		used = 1
	}
	if err := binary.Write(w, binary.LittleEndian, used); err != nil {
		return err
	}
	if !e.used {
		return nil
	}
	fields := []any{
		uint64(e.BoardKey),
		e.Hand,
		e.MinDepth,
		boolByte(e.MayRepeat),
		boolByte(e.HasParent),
		uint64(e.ParentBoardKey),
		e.ParentHand,
		e.Secret,
		uint32(len(e.Subs)),
	}
	for _, f := range fields {
		if err := binary.Write(w, binary.LittleEndian, f); err != nil {
			return err
		}
	}
	for _, s := range e.Subs {
		if err := binary.Write(w, binary.LittleEndian, uint32(s.Len)); err != nil {
			return err
		}
		if err := binary.Write(w, binary.LittleEndian, uint32(s.Pn)); err != nil {
			return err
		}
		if err := binary.Write(w, binary.LittleEndian, uint32(s.Dn)); err != nil {
			return err
		}
		if err := binary.Write(w, binary.LittleEndian, s.Amount); err != nil {
			return err
		}
	}
	return nil
}

func boolByte(b bool) byte {
	if b {
		return 1
	}
	return 0
}

// Load replaces the table's contents from r. On any format mismatch it
// leaves the table untouched and returns an error; the caller is expected
// to log and continue with an empty or previously-resized table, not
// treat this as fatal.
func (t *Table) Load(r io.Reader) error {
	br := bufio.NewReader(r)

	var magic [8]byte
	if err := binary.Read(br, binary.LittleEndian, &magic); err != nil {
		return fmt.Errorf("tt: read magic: %w", err)
	}
	if magic != dumpMagic {
		return fmt.Errorf("tt: bad magic %v", magic)
	}
	var version, clusterSize, numClusters uint32
	if err := binary.Read(br, binary.LittleEndian, &version); err != nil {
		return fmt.Errorf("tt: read version: %w", err)
	}
	if version != dumpVersion {
		return fmt.Errorf("tt: unsupported dump version %d", version)
	}
	if err := binary.Read(br, binary.LittleEndian, &clusterSize); err != nil {
		return fmt.Errorf("tt: read cluster size: %w", err)
	}
	if clusterSize != ClusterSize {
		return fmt.Errorf("tt: cluster size mismatch: file has %d, want %d", clusterSize, ClusterSize)
	}
	if err := binary.Read(br, binary.LittleEndian, &numClusters); err != nil {
		return fmt.Errorf("tt: read cluster count: %w", err)
	}

	clusters := make([]cluster, numClusters)
	for i := range clusters {
		for j := range clusters[i].entries {
			e, err := readEntry(br)
			if err != nil {
				return fmt.Errorf("tt: read entry [%d][%d]: %w", i, j, err)
			}
			clusters[i].entries[j] = e
		}
	}

	t.mu.Lock()
	t.clusters = clusters
	t.eta = 0
	t.mu.Unlock()
	return nil
}

func readEntry(r io.Reader) (Entry, error) {
	var used byte
	if err := binary.Read(r, binary.LittleEndian, &used); err != nil {
		return Entry{}, err
	}
	if used == 0 {
		return Entry{}, nil
	}

	var (
		boardKey, parentBoardKey uint64
		h, parentHand            shogi.Hand
		minDepth                 uint32
		mayRepeat, hasParent     byte
		secret                   uint64
		numSubs                  uint32
	)
	reads := []any{
		&boardKey, &h, &minDepth, &mayRepeat, &hasParent,
		&parentBoardKey, &parentHand, &secret, &numSubs,
	}
	for _, f := range reads {
		if err := binary.Read(r, binary.LittleEndian, f); err != nil {
			return Entry{}, err
		}
	}

	e := Entry{
		used:           true,
		BoardKey:       shogi.BoardKey(boardKey),
		Hand:           h,
		MinDepth:       minDepth,
		MayRepeat:      mayRepeat != 0,
		HasParent:      hasParent != 0,
		ParentBoardKey: shogi.BoardKey(parentBoardKey),
		ParentHand:     parentHand,
		Secret:         secret,
		Subs:           make([]SubEntry, 0, numSubs),
	}
	for i := uint32(0); i < numSubs; i++ {
		var l, pn, dn uint32
		var amount uint64
		if err := binary.Read(r, binary.LittleEndian, &l); err != nil {
			return Entry{}, err
		}
		if err := binary.Read(r, binary.LittleEndian, &pn); err != nil {
			return Entry{}, err
		}
		if err := binary.Read(r, binary.LittleEndian, &dn); err != nil {
			return Entry{}, err
		}
		if err := binary.Read(r, binary.LittleEndian, &amount); err != nil {
			return Entry{}, err
		}
		e.Subs = append(e.Subs, SubEntry{Len: mlen.Len(l), Pn: Count(pn), Dn: Count(dn), Amount: amount})
	}
	return e, nil
}
