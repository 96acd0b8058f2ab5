package sourcemap

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/srcspan/srcspan/internal/ast"
	"github.com/srcspan/srcspan/internal/span"
	"github.com/srcspan/srcspan/internal/srcfile"
	"github.com/srcspan/srcspan/internal/srcmap"
)

func TestVLQRoundTrip(t *testing.T) {
	for _, v := range []int{0, 1, -1, 31, -31, 32, 1000, -123456} {
		encoded := encodeVLQ(nil, v)
		got, n := DecodeVLQ(encoded, 0)
		assert.Equal(t, v, got)
		assert.Equal(t, len(encoded), n)
	}
}

// TestEmitColumnsScenario6 matches spec.md §8 scenario 6: a single file
// with two mappings both on generated line 0. With emit_columns=false we
// expect exactly one record for that line; with emit_columns=true, two.
func TestEmitColumnsScenario6(t *testing.T) {
	sm := srcmap.New(nil, nil, nil)
	sm.Register(srcfile.Custom("a.rs"), "hello world")
	file := sm.Files()[0]

	mappings := []InputMapping{
		{Generated: span.LineCol{Line: 0, Col: 0}, Source: file.StartPos},
		{Generated: span.LineCol{Line: 0, Col: 6}, Source: file.StartPos + 6},
	}

	out, err := Generate(sm, mappings, GenerationConfig{
		EmitColumns: func(string) bool { return false },
	})
	require.NoError(t, err)
	require.Len(t, out.Mappings, 1)

	out, err = Generate(sm, mappings, GenerationConfig{
		EmitColumns: func(string) bool { return true },
	})
	require.NoError(t, err)
	require.Len(t, out.Mappings, 2)
}

func TestGenerateSkipsReservedForComments(t *testing.T) {
	sm := srcmap.New(nil, nil, nil)
	sm.Register(srcfile.Custom("a.rs"), "hello")

	mappings := []InputMapping{
		{Generated: span.LineCol{Line: 0, Col: 0}, Source: span.BytePos(^uint32(0) - 1)},
	}
	out, err := Generate(sm, mappings, GenerationConfig{})
	require.NoError(t, err)
	assert.Empty(t, out.Mappings)
}

func TestGenerateSourceBoundaryMarker(t *testing.T) {
	sm := srcmap.New(nil, nil, nil)
	sm.Register(srcfile.Custom("a.rs"), "hello")

	mappings := []InputMapping{
		{Generated: span.LineCol{Line: 2, Col: 3}, Source: boundaryBytePos},
	}
	out, err := Generate(sm, mappings, GenerationConfig{})
	require.NoError(t, err)
	require.Len(t, out.Mappings, 1)
	assert.True(t, out.Mappings[0].IsSourceBoundary)
	assert.False(t, out.Mappings[0].HasSource)
}

func TestGenerateSkipOption(t *testing.T) {
	sm := srcmap.New(nil, nil, nil)
	sm.Register(srcfile.Custom("skip.rs"), "hello")
	file := sm.Files()[0]

	out, err := Generate(sm, []InputMapping{
		{Generated: span.LineCol{}, Source: file.StartPos},
	}, GenerationConfig{Skip: func(string) bool { return true }})
	require.NoError(t, err)
	assert.Empty(t, out.Mappings)
	assert.Empty(t, out.Sources)
}

func TestGenerateInlinesSourcesContent(t *testing.T) {
	sm := srcmap.New(nil, nil, nil)
	sm.Register(srcfile.Custom("a.rs"), "hello world")
	file := sm.Files()[0]

	out, err := Generate(sm, []InputMapping{
		{Generated: span.LineCol{}, Source: file.StartPos},
	}, GenerationConfig{})
	require.NoError(t, err)
	require.Len(t, out.SourcesContent, 1)
	assert.True(t, out.HasContent[0])
	assert.Equal(t, "hello world", out.SourcesContent[0])
}

func TestGenerateNameForBytePos(t *testing.T) {
	sm := srcmap.New(nil, nil, nil)
	sm.Register(srcfile.Custom("a.rs"), "hello world")
	file := sm.Files()[0]

	out, err := Generate(sm, []InputMapping{
		{Generated: span.LineCol{}, Source: file.StartPos},
	}, GenerationConfig{
		NameForBytePos: func(bp span.BytePos) (string, bool) { return "hello", true },
	})
	require.NoError(t, err)
	require.Len(t, out.Mappings, 1)
	require.True(t, out.Mappings[0].Name.IsValid())
	assert.Equal(t, "hello", out.Names[out.Mappings[0].Name.GetIndex()])
}

// TestGenerateInternalFileDefaults pins down §4.7's FileNameInternal
// default: compiler-internal synthetic source is ignore-listed and not
// content-inlined unless the caller overrides those hooks.
func TestGenerateInternalFileDefaults(t *testing.T) {
	sm := srcmap.New(nil, nil, nil)
	sm.Register(srcfile.Internal("<runtime>"), "internal helper code")
	file := sm.Files()[0]

	out, err := Generate(sm, []InputMapping{
		{Generated: span.LineCol{}, Source: file.StartPos},
	}, GenerationConfig{})
	require.NoError(t, err)

	require.Len(t, out.Sources, 1)
	assert.Equal(t, []int{0}, out.IgnoreList)
	assert.False(t, out.HasContent[0])
}

func TestJSONRoundTripsThroughParseUpstream(t *testing.T) {
	sm := srcmap.New(nil, nil, nil)
	sm.Register(srcfile.Custom("a.rs"), "fir€st line.\nsecond line")
	file := sm.Files()[0]

	out, err := Generate(sm, []InputMapping{
		{Generated: span.LineCol{Line: 0, Col: 0}, Source: file.StartPos},
		{Generated: span.LineCol{Line: 1, Col: 0}, Source: file.StartPos + 5},
	}, GenerationConfig{})
	require.NoError(t, err)

	data := out.JSON(false)
	parsed, err := ParseUpstream(data)
	require.NoError(t, err)

	require.Len(t, parsed.Mappings, len(out.Mappings))
	for i := range out.Mappings {
		assert.Equal(t, out.Mappings[i].GeneratedLine, parsed.Mappings[i].GeneratedLine)
		assert.Equal(t, out.Mappings[i].GeneratedColumn, parsed.Mappings[i].GeneratedColumn)
		assert.Equal(t, out.Mappings[i].OriginalLine, parsed.Mappings[i].OriginalLine)
		assert.Equal(t, out.Mappings[i].OriginalColumn, parsed.Mappings[i].OriginalColumn)
	}
}

func TestAdjustMappingsComposesThroughUpstream(t *testing.T) {
	// Upstream: generated (0,0) -> original.ts line 5 col 2, named "foo".
	upstream := &Map{
		Sources: []string{"original.ts"},
		Names:   []string{"foo"},
		Mappings: []Mapping{
			{GeneratedLine: 0, GeneratedColumn: 0, HasSource: true, SourceIndex: 0, OriginalLine: 5, OriginalColumn: 2, Name: ast.MakeIndex32(0)},
		},
	}

	// New map: our generated (10,1) -> "intermediate.js" which is upstream's
	// generated (0,0).
	newMap := &Map{
		Sources: []string{"intermediate.js"},
		Mappings: []Mapping{
			{GeneratedLine: 10, GeneratedColumn: 1, HasSource: true, SourceIndex: 0, OriginalLine: 0, OriginalColumn: 0},
		},
	}

	composed := upstream.AdjustMappings(newMap)
	require.Len(t, composed.Mappings, 1)
	mp := composed.Mappings[0]
	assert.Equal(t, 10, mp.GeneratedLine)
	assert.Equal(t, 1, mp.GeneratedColumn)
	assert.Equal(t, 5, mp.OriginalLine)
	assert.Equal(t, 2, mp.OriginalColumn)
	assert.Equal(t, "original.ts", composed.Sources[mp.SourceIndex])
	require.True(t, mp.Name.IsValid())
	assert.Equal(t, "foo", composed.Names[mp.Name.GetIndex()])
}

func TestAdjustMappingsDropsUnmatchedPosition(t *testing.T) {
	upstream := &Map{Sources: []string{"original.ts"}}
	newMap := &Map{
		Sources: []string{"intermediate.js"},
		Mappings: []Mapping{
			{GeneratedLine: 0, GeneratedColumn: 0, HasSource: true, SourceIndex: 0, OriginalLine: 99, OriginalColumn: 0},
		},
	}
	composed := upstream.AdjustMappings(newMap)
	assert.Empty(t, composed.Mappings)
}
