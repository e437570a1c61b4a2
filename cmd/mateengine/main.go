// Command mateengine is the interactive text-command REPL named by
// spec.md §6: a chzyer/readline front end over internal/protocol.Session.
//
// No production shogi move generator is in scope (spec.md §1's
// Non-goals), so "position" selects one of internal/fixture's named
// scenarios rather than parsing a board notation.
package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/chzyer/readline"
	"github.com/rs/zerolog"

	"mateengine/internal/fixture"
	"mateengine/internal/protocol"
	"mateengine/internal/shogi"
)

var scenarios = map[string]func() *fixture.Graph{
	"mateinone":       fixture.MateInOne,
	"nomate":          fixture.NoMate,
	"onemovedelay":    fixture.OneMoveDelay,
	"repetitionloss":  fixture.RepetitionLoss,
	"doublecounttrap": fixture.DoubleCountTrap,
}

func formatMove(m shogi.Move) string {
	return fmt.Sprintf("%d", uint32(m))
}

func main() {
	log := zerolog.New(os.Stderr).With().Timestamp().Logger()

	rl, err := readline.New("mateengine> ")
	if err != nil {
		log.Fatal().Err(err).Msg("readline init")
	}
	defer rl.Close()

	sess := protocol.NewSession(formatMove, log)
	var pos *fixture.Position = fixture.New(fixture.MateInOne())

	ctx := context.Background()
	for {
		line, err := rl.Readline()
		if err == readline.ErrInterrupt || err == io.EOF {
			return
		}
		if err != nil {
			log.Error().Err(err).Msg("readline")
			return
		}

		if name, ok := parsePosition(line); ok {
			build, known := scenarios[name]
			if !known {
				fmt.Fprintf(os.Stdout, "unknown scenario %q\n", name)
				continue
			}
			pos = fixture.New(build())
			continue
		}

		cmd, err := protocol.ParseCommand(line)
		if err != nil {
			fmt.Fprintln(os.Stdout, err)
			continue
		}
		if cmd.Name == "quit" || cmd.Name == "exit" {
			return
		}
		if err := sess.Handle(ctx, cmd, pos, os.Stdout); err != nil {
			fmt.Fprintln(os.Stdout, err)
		}
	}
}

func parsePosition(line string) (scenario string, ok bool) {
	line = strings.TrimSpace(line)
	const prefix = "position "
	if !strings.HasPrefix(line, prefix) {
		return "", false
	}
	return strings.TrimSpace(strings.TrimPrefix(line, prefix)), true
}
