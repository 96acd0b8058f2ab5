package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault(t *testing.T) {
	cfg := Default()
	assert.True(t, cfg.SourceMap.EmitColumns)
	assert.True(t, cfg.SourceMap.InlineSourcesContent)
	assert.Empty(t, cfg.PathMappings)
}

func TestLoadParsesTOML(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "srcspan.toml")
	contents := `
doctest_offset = 3

[[path_mapping]]
from = "/build/"
to = "/src/"

[[path_mapping]]
from = "/build/vendor/"
to = "/src/vendor/"

[source_map]
emit_columns = false
inline_sources_content = false
ignore_list_globs = ["**/vendor/**", "**/*.min.js"]
skip_globs = ["**/*.generated.go"]
`
	require.NoError(t, os.WriteFile(path, []byte(contents), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 3, cfg.DoctestOffset)
	require.Len(t, cfg.PathMappings, 2)
	assert.Equal(t, "/build/", cfg.PathMappings[0].From)
	assert.False(t, cfg.SourceMap.EmitColumns)
	assert.False(t, cfg.SourceMap.InlineSourcesContent)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "does-not-exist.toml"))
	assert.Error(t, err)
}

func TestPathMapTableLaterRuleWins(t *testing.T) {
	cfg := &Config{
		PathMappings: []PathMappingRule{
			{From: "/build/", To: "/src/"},
			{From: "/build/vendor/", To: "/src/vendor/"},
		},
	}
	table := cfg.PathMapTable()

	mapped, ok := table.Map("/build/vendor/lib.rs")
	require.True(t, ok)
	assert.Equal(t, "/src/vendor/lib.rs", mapped)

	mapped, ok = table.Map("/build/main.rs")
	require.True(t, ok)
	assert.Equal(t, "/src/main.rs", mapped)
}

func TestMatchesIgnoreList(t *testing.T) {
	cfg := &Config{
		SourceMap: SourceMapSettings{
			IgnoreListGlobs: []string{"**/vendor/**", "**/*.min.js"},
		},
	}
	assert.True(t, cfg.MatchesIgnoreList("project/vendor/lib.js"))
	assert.True(t, cfg.MatchesIgnoreList("dist/app.min.js"))
	assert.False(t, cfg.MatchesIgnoreList("src/app.js"))
}

func TestMatchesSkip(t *testing.T) {
	cfg := &Config{
		SourceMap: SourceMapSettings{SkipGlobs: []string{"**/*.generated.go"}},
	}
	assert.True(t, cfg.MatchesSkip("internal/foo.generated.go"))
	assert.False(t, cfg.MatchesSkip("internal/foo.go"))
}
