package protocol

import (
	"fmt"
	"strings"
	"time"

	"mateengine/internal/monitor"
	"mateengine/internal/shogi"
)

// Info is one progress record (spec.md §6): depth/seldepth/time/nodes/nps/
// hashfull/score/pv/currmove, rendered USI-style.
type Info struct {
	Depth, SelDepth int
	Time            time.Duration
	Nodes           int64
	Hashfull        int
	Score           monitor.Score
	PV              []shogi.Move
	CurrMove        shogi.Move
	HasCurrMove     bool
}

// NPS returns nodes per second, or 0 if no time has elapsed.
func (i Info) NPS() int64 {
	secs := i.Time.Seconds()
	if secs <= 0 {
		return 0
	}
	return int64(float64(i.Nodes) / secs)
}

// Format renders the record as a USI-style "info ..." line.
func (i Info) Format(formatMove MoveFormatter) string {
	var b strings.Builder
	b.WriteString("info")
	fmt.Fprintf(&b, " depth %d seldepth %d", i.Depth, i.SelDepth)
	fmt.Fprintf(&b, " time %d", i.Time.Milliseconds())
	fmt.Fprintf(&b, " nodes %d nps %d", i.Nodes, i.NPS())
	fmt.Fprintf(&b, " hashfull %d", i.Hashfull)
	fmt.Fprintf(&b, " score cp %d", i.Score.MateScore())
	if i.HasCurrMove {
		fmt.Fprintf(&b, " currmove %s", formatMove(i.CurrMove))
	}
	if len(i.PV) > 0 {
		b.WriteString(" pv")
		for _, m := range i.PV {
			b.WriteString(" ")
			b.WriteString(formatMove(m))
		}
	}
	return b.String()
}

// FormatCheckmate renders a search.Result as spec.md §6's final response.
func FormatCheckmate(proven, disproven bool, pv []shogi.Move, formatMove MoveFormatter) string {
	switch {
	case proven:
		moves := make([]string, len(pv))
		for i, m := range pv {
			moves[i] = formatMove(m)
		}
		return "checkmate " + strings.Join(moves, " ")
	case disproven:
		return "checkmate nomate"
	default:
		return "checkmate timeout"
	}
}
