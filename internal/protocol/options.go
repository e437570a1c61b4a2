// Package protocol implements the text command surface named abstractly
// by spec.md §6: command parsing, option storage, and info/checkmate
// response formatting, wired to the search core via a Session.
package protocol

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/viper"

	"mateengine/internal/monitor"
	"mateengine/internal/tt"
)

// PostSearchLevel selects how hard the engine works to report a precise
// mate length once a proof is found (spec.md §6's post_search_level).
type PostSearchLevel uint8

const (
	// PostSearchNone reports the first proof found, whatever its length.
	PostSearchNone PostSearchLevel = iota
	// PostSearchUpperBound is identical to None in this engine: the core
	// always finds *a* proof in one bounded pass before any shortening;
	// spec.md's distinction between "none" and "upper_bound" is about
	// whether the host trusts the reported length as a true upper bound,
	// not a different search behavior.
	PostSearchUpperBound
	// PostSearchPrecise runs the full iterative-deepening length-shortening
	// loop (spec.md §4.6) to recover a tight mate length.
	PostSearchPrecise
)

func (l PostSearchLevel) String() string {
	switch l {
	case PostSearchUpperBound:
		return "upper_bound"
	case PostSearchPrecise:
		return "precise"
	default:
		return "none"
	}
}

// knownOptions is the set of option names spec.md §6 names. setoption
// rejects anything outside this set rather than silently accepting typos.
var knownOptions = map[string]bool{
	"hash_mb":                     true,
	"more_precise_pv":             true,
	"score_method":                true,
	"post_search_level":           true,
	"tt_read_path":                true,
	"tt_write_path":               true,
	"tt_no_overwrite":             true,
	"pv_interval_ms":              true,
	"nodes_limit":                 true,
	"root_is_and_node_if_checked": true,
}

// OptionSet binds the engine's option bundle through viper, the way
// domino14-macondo's config package binds runtime configuration:
// defaults registered programmatically, overridable by setoption at
// runtime or by environment variables at startup.
type OptionSet struct {
	v *viper.Viper
}

// NewOptionSet builds an OptionSet with spec.md §6's defaults.
func NewOptionSet() *OptionSet {
	v := viper.New()
	v.SetEnvPrefix("MATEENGINE")
	v.AutomaticEnv()

	v.SetDefault("hash_mb", tt.DefaultHashMB())
	v.SetDefault("more_precise_pv", true)
	v.SetDefault("score_method", "dn")
	v.SetDefault("post_search_level", "precise")
	v.SetDefault("tt_read_path", "")
	v.SetDefault("tt_write_path", "")
	v.SetDefault("tt_no_overwrite", false)
	v.SetDefault("pv_interval_ms", 1000)
	v.SetDefault("nodes_limit", 0)
	v.SetDefault("root_is_and_node_if_checked", false)

	return &OptionSet{v: v}
}

// Set validates and stores one "setoption name <k> value <v>" pair.
func (o *OptionSet) Set(name, value string) error {
	name = strings.ToLower(name)
	if !knownOptions[name] {
		return fmt.Errorf("protocol: unknown option %q", name)
	}
	switch name {
	case "more_precise_pv", "tt_no_overwrite", "root_is_and_node_if_checked":
		b, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("protocol: option %s: %w", name, err)
		}
		o.v.Set(name, b)
	case "hash_mb", "pv_interval_ms", "nodes_limit":
		n, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("protocol: option %s: %w", name, err)
		}
		o.v.Set(name, n)
	case "score_method":
		if _, err := monitor.ParseScoreMethod(value); err != nil {
			return err
		}
		o.v.Set(name, value)
	case "post_search_level":
		if _, err := ParsePostSearchLevel(value); err != nil {
			return err
		}
		o.v.Set(name, value)
	default:
		o.v.Set(name, value)
	}
	return nil
}

func (o *OptionSet) HashMB() int                      { return o.v.GetInt("hash_mb") }
func (o *OptionSet) MorePrecisePV() bool              { return o.v.GetBool("more_precise_pv") }
func (o *OptionSet) TTReadPath() string               { return o.v.GetString("tt_read_path") }
func (o *OptionSet) TTWritePath() string              { return o.v.GetString("tt_write_path") }
func (o *OptionSet) TTNoOverwrite() bool              { return o.v.GetBool("tt_no_overwrite") }
func (o *OptionSet) PVIntervalMS() int                { return o.v.GetInt("pv_interval_ms") }
func (o *OptionSet) NodesLimit() int64                { return int64(o.v.GetInt("nodes_limit")) }
func (o *OptionSet) RootIsAndNodeIfChecked() bool     { return o.v.GetBool("root_is_and_node_if_checked") }

func (o *OptionSet) ScoreMethod() monitor.ScoreMethod {
	m, err := monitor.ParseScoreMethod(o.v.GetString("score_method"))
	if err != nil {
		return monitor.ScoreMethodDN
	}
	return m
}

func (o *OptionSet) PostSearchLevel() PostSearchLevel {
	l, err := ParsePostSearchLevel(o.v.GetString("post_search_level"))
	if err != nil {
		return PostSearchPrecise
	}
	return l
}

// ParsePostSearchLevel parses the post_search_level option value.
func ParsePostSearchLevel(s string) (PostSearchLevel, error) {
	switch s {
	case "none":
		return PostSearchNone, nil
	case "upper_bound":
		return PostSearchUpperBound, nil
	case "precise", "":
		return PostSearchPrecise, nil
	default:
		return PostSearchPrecise, fmt.Errorf("protocol: unknown post_search_level %q", s)
	}
}
