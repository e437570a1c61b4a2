package shogi

import "github.com/cespare/xxhash/v2"

// MixHandIntoBoardKey folds a hand into a board key to produce a single
// 64-bit tag for a (board, hand) pair, using xxhash rather than an ad hoc
// mixer. internal/expansion and internal/search use it as a node's secret
// for double-count detection; the table itself addresses entries by board
// key and hand directly.
func MixHandIntoBoardKey(b BoardKey, h Hand) uint64 {
	var buf [1 + NumPieceTypes]byte
	buf[0] = byte(b)
	for i := Piece(0); i < NumPieceTypes; i++ {
		buf[i+1] = h[i]
	}
	d := xxhash.New()
	var bk [8]byte
	for i := 0; i < 8; i++ {
		bk[i] = byte(b >> (8 * i))
	}
	_, _ = d.Write(bk[:])
	_, _ = d.Write(buf[1:])
	return d.Sum64()
}
