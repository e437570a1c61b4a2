package protocol

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/kballard/go-shellquote"
)

// Command is one parsed line of the text command surface.
type Command struct {
	Name string
	Args []string
}

// ParseCommand tokenizes line with shell-style quoting rules, so an option
// value containing spaces (a file path, typically) survives round-tripping
// the way domino14-macondo's shell tokenizes its own REPL input.
func ParseCommand(line string) (Command, error) {
	line = strings.TrimSpace(line)
	if line == "" {
		return Command{}, nil
	}
	fields, err := shellquote.Split(line)
	if err != nil {
		return Command{}, fmt.Errorf("protocol: parse %q: %w", line, err)
	}
	if len(fields) == 0 {
		return Command{}, nil
	}
	return Command{Name: strings.ToLower(fields[0]), Args: fields[1:]}, nil
}

// MateMS parses the "mate <ms>" command's argument; "inf"/"infinite" means
// no time limit (spec.md §6).
func MateMS(args []string) (ms int, infinite bool, err error) {
	if len(args) != 1 {
		return 0, false, fmt.Errorf("protocol: mate expects exactly one argument, got %d", len(args))
	}
	switch strings.ToLower(args[0]) {
	case "inf", "infinite":
		return 0, true, nil
	}
	n, err := strconv.Atoi(args[0])
	if err != nil {
		return 0, false, fmt.Errorf("protocol: mate: %w", err)
	}
	if n < 0 {
		return 0, false, fmt.Errorf("protocol: mate: negative duration %d", n)
	}
	return n, false, nil
}

// SetOptionArgs parses "setoption name <k> value <v>" (the value may be
// absent, e.g. a bare boolean flag) into a (name, value) pair.
func SetOptionArgs(args []string) (name, value string, err error) {
	if len(args) < 2 || strings.ToLower(args[0]) != "name" {
		return "", "", fmt.Errorf("protocol: setoption: expected \"name <k> [value <v>]\"")
	}
	name = args[1]
	for i := 2; i < len(args)-1; i++ {
		if strings.ToLower(args[i]) == "value" {
			value = strings.Join(args[i+1:], " ")
			return name, value, nil
		}
	}
	return name, "true", nil
}
