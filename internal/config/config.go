// Package config loads the settings a running srcspan process needs that
// the core SourceMap deliberately has no opinion on (§1: "File I/O policy,
// CLI parsing, configuration loading... are out of scope" for the core,
// but not for this repository): path-remapping rules (§4.8), source-map
// generation defaults (§4.7's GenerationConfig knobs), ignore-list glob
// patterns, and the doctest line offset (see SPEC_FULL.md "Doctest line
// offset"). Grounded in standardbeagle-lci's use of
// github.com/pelletier/go-toml/v2 for its own settings files.
package config

import (
	"fmt"
	"os"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/pelletier/go-toml/v2"

	"github.com/srcspan/srcspan/internal/pathmap"
)

// PathMappingRule is one (from, to) prefix-replacement rule (§4.8),
// serialized as a TOML table.
type PathMappingRule struct {
	From string `toml:"from"`
	To   string `toml:"to"`
}

// SourceMapSettings holds the §4.7 GenerationConfig defaults plus the
// ignore-list glob patterns matched against a file's name.
type SourceMapSettings struct {
	EmitColumns          bool     `toml:"emit_columns"`
	InlineSourcesContent bool     `toml:"inline_sources_content"`
	IgnoreListGlobs      []string `toml:"ignore_list_globs"`
	SkipGlobs            []string `toml:"skip_globs"`
}

// Config is the full TOML-loaded settings document.
type Config struct {
	PathMappings  []PathMappingRule `toml:"path_mapping"`
	SourceMap     SourceMapSettings `toml:"source_map"`
	DoctestOffset int               `toml:"doctest_offset"`
}

// Default returns the zero-config defaults: no path remapping, columns
// emitted, sources content inlined, nothing ignored or skipped.
func Default() *Config {
	return &Config{
		SourceMap: SourceMapSettings{
			EmitColumns:          true,
			InlineSourcesContent: true,
		},
	}
}

// Load reads and parses a TOML settings file at path.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: read %s: %w", path, err)
	}

	cfg := Default()
	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("config: parse %s: %w", path, err)
	}
	return cfg, nil
}

// PathMapTable builds the pathmap.Table package srcmap needs from the
// configured rules, in file order (§4.8: later rules win; the table
// itself applies that reversal).
func (c *Config) PathMapTable() *pathmap.Table {
	rules := make([]pathmap.Rule, len(c.PathMappings))
	for i, r := range c.PathMappings {
		rules[i] = pathmap.Rule{From: r.From, To: r.To}
	}
	return pathmap.NewTable(rules...)
}

// MatchesIgnoreList reports whether name matches one of the configured
// ignore-list glob patterns (§4.7's ignore_list option), using
// doublestar.Match rather than a hand-rolled glob matcher.
func (c *Config) MatchesIgnoreList(name string) bool {
	return matchesAny(c.SourceMap.IgnoreListGlobs, name)
}

// MatchesSkip reports whether name matches one of the configured skip glob
// patterns (§4.7's skip option).
func (c *Config) MatchesSkip(name string) bool {
	return matchesAny(c.SourceMap.SkipGlobs, name)
}

func matchesAny(patterns []string, name string) bool {
	for _, pattern := range patterns {
		if ok, err := doublestar.Match(pattern, name); err == nil && ok {
			return true
		}
	}
	return false
}
