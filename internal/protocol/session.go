package protocol

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"mateengine/internal/monitor"
	"mateengine/internal/search"
	"mateengine/internal/shogi"
	"mateengine/internal/store"
	"mateengine/internal/tt"
)

// MoveFormatter renders an opaque shogi.Move for the text surface; the
// rules adapter in use owns move notation, so Session never interprets a
// Move itself.
type MoveFormatter func(shogi.Move) string

// Session is one engine instance bound to the text command surface of
// spec.md §6: one table, one monitor, one search core, addressable by a
// generated ID the way domino14-macondo's game registry tags each running
// game.
type Session struct {
	ID      uuid.UUID
	Options *OptionSet
	Table   *tt.Table
	Monitor *monitor.Monitor
	Core    *search.Core
	Log     zerolog.Logger

	FormatMove MoveFormatter

	stop context.CancelFunc
}

// NewSession builds a Session with a fresh table sized from the option
// defaults and a monitor watching it.
func NewSession(formatMove MoveFormatter, log zerolog.Logger) *Session {
	opts := NewOptionSet()
	table := tt.NewTable(opts.HashMB())
	mon := monitor.New(table)
	core := search.NewCore(table, mon)

	id := uuid.New()
	return &Session{
		ID:         id,
		Options:    opts,
		Table:      table,
		Monitor:    mon,
		Core:       core,
		Log:        log.With().Str("session", id.String()).Logger(),
		FormatMove: formatMove,
	}
}

// Handle dispatches one parsed command against pos, writing any response
// lines to out. "mate" is the only command that blocks for a meaningful
// duration; it emits periodic info records at the pv_interval_ms cadence
// until the search concludes or is stopped.
func (s *Session) Handle(ctx context.Context, cmd Command, pos shogi.Position, out io.Writer) error {
	switch cmd.Name {
	case "":
		return nil
	case "usinewgame":
		s.Table.NewSearch()
		s.Log.Info().Msg("usinewgame")
		return nil
	case "isready":
		_, err := fmt.Fprintln(out, "readyok")
		return err
	case "setoption":
		name, value, err := SetOptionArgs(cmd.Args)
		if err != nil {
			return err
		}
		if err := s.Options.Set(name, value); err != nil {
			return err
		}
		s.Log.Info().Str("option", name).Str("value", value).Msg("setoption")
		return nil
	case "stop":
		s.Monitor.Stop()
		return nil
	case "mate":
		return s.handleMate(ctx, cmd.Args, pos, out)
	default:
		return fmt.Errorf("protocol: unknown command %q", cmd.Name)
	}
}

func (s *Session) handleMate(ctx context.Context, args []string, pos shogi.Position, out io.Writer) error {
	ms, infinite, err := MateMS(args)
	if err != nil {
		return err
	}
	if !infinite {
		s.Monitor.SetLimits(s.Options.NodesLimit(), time.Duration(ms)*time.Millisecond)
	} else {
		s.Monitor.SetLimits(s.Options.NodesLimit(), 0)
	}

	if err := s.loadTT(ctx); err != nil {
		s.Log.Warn().Err(err).Msg("tt_read_path load failed, starting empty")
	}

	gcCtx, cancel := context.WithCancel(ctx)
	s.stop = cancel
	gcCancel, gcWait := s.Monitor.RunBackgroundGC(gcCtx, time.Second, s.Core.GCRatio)
	defer func() {
		gcCancel()
		gcWait()
	}()

	done := make(chan search.Result, 1)
	go func() {
		if s.Options.PostSearchLevel() == PostSearchPrecise {
			done <- s.Core.Search(pos)
		} else {
			done <- s.Core.SearchOnce(pos)
		}
	}()

	ticker := time.NewTicker(time.Duration(s.Options.PVIntervalMS()) * time.Millisecond)
	defer ticker.Stop()

	ctxDone := ctx.Done()
	var result search.Result
	for {
		select {
		case result = <-done:
			s.emitInfo(out, result)
			if err := s.saveTT(ctx); err != nil {
				s.Log.Warn().Err(err).Msg("tt_write_path save failed")
			}
			_, err := fmt.Fprintln(out, FormatCheckmate(result.Proven, result.Disproven, result.PV, s.FormatMove))
			return err
		case <-ticker.C:
			s.emitInfo(out, search.Result{})
		case <-ctxDone:
			s.Monitor.Stop()
			ctxDone = nil
		}
	}
}

func (s *Session) emitInfo(out io.Writer, res search.Result) {
	score := monitor.FromCounts(0, 0, s.Options.ScoreMethod())
	if res.Proven {
		score = monitor.Win(res.Len)
	} else if res.Disproven {
		score = monitor.Lose(res.Len)
	}
	info := Info{
		Depth:    res.Len.Plies(),
		SelDepth: res.Len.Plies(),
		Time:     s.Monitor.Elapsed(),
		Nodes:    s.Monitor.Nodes(),
		Hashfull: s.Table.Hashfull(),
		Score:    score,
		PV:       res.PV,
	}
	fmt.Fprintln(out, info.Format(s.FormatMove))
}

func (s *Session) loadTT(ctx context.Context) error {
	path := s.Options.TTReadPath()
	if path == "" {
		return nil
	}
	switch {
	case strings.HasPrefix(path, "sqlite://"):
		return s.loadFromSQLite(ctx, strings.TrimPrefix(path, "sqlite://"))
	case strings.HasPrefix(path, "file://"):
		return s.loadFromFile(strings.TrimPrefix(path, "file://"))
	default:
		return s.loadFromFile(path)
	}
}

func (s *Session) saveTT(ctx context.Context) error {
	path := s.Options.TTWritePath()
	if path == "" {
		return nil
	}
	switch {
	case strings.HasPrefix(path, "sqlite://"):
		return s.saveToSQLite(ctx, strings.TrimPrefix(path, "sqlite://"))
	case strings.HasPrefix(path, "file://"):
		return s.saveToFile(strings.TrimPrefix(path, "file://"))
	default:
		return s.saveToFile(path)
	}
}

func (s *Session) loadFromFile(path string) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("protocol: open %q: %w", path, err)
	}
	defer f.Close()
	return s.Table.Load(bufio.NewReader(f))
}

func (s *Session) saveToFile(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("protocol: create %q: %w", path, err)
	}
	defer f.Close()
	w := bufio.NewWriter(f)
	if err := s.Table.Save(w); err != nil {
		return err
	}
	return w.Flush()
}

func (s *Session) loadFromSQLite(ctx context.Context, dsn string) error {
	st, err := store.OpenSQLiteStore(dsn)
	if err != nil {
		return err
	}
	defer st.Close()
	slot := "root"
	if s.Options.TTNoOverwrite() {
		slot = s.ID.String()
	}
	return st.Load(ctx, slot, s.Table)
}

func (s *Session) saveToSQLite(ctx context.Context, dsn string) error {
	st, err := store.OpenSQLiteStore(dsn)
	if err != nil {
		return err
	}
	defer st.Close()
	slot := "root"
	if s.Options.TTNoOverwrite() {
		slot = s.ID.String()
	}
	return st.Save(ctx, slot, s.Table)
}
