package srcmap

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/sync/errgroup"

	"github.com/srcspan/srcspan/internal/span"
	"github.com/srcspan/srcspan/internal/srcfile"
)

// initBasic mirrors original_source's init_source_map(): three files,
// "blork.rs" and "blork2.rs" holding the same two-line text, and an empty
// "empty.rs" in between.
func initBasic(t *testing.T) (*SourceMap, *srcfile.SourceFile, *srcfile.SourceFile, *srcfile.SourceFile) {
	t.Helper()
	m := New(nil, nil, nil)
	blork := m.Register(srcfile.Custom("blork.rs"), "first line.\nsecond line")
	empty := m.Register(srcfile.Custom("empty.rs"), "")
	blork2 := m.Register(srcfile.Custom("blork2.rs"), "first line.\nsecond line")
	return m, blork, empty, blork2
}

func TestLookupByteOffsetScenario1(t *testing.T) {
	m, blork, empty, blork2 := initBasic(t)
	_ = empty

	file, offset, err := m.LookupByteOffset(24)
	require.NoError(t, err)
	assert.Equal(t, "blork.rs", file.Name.Path)
	assert.EqualValues(t, 23, offset)

	file, offset, err = m.LookupByteOffset(25)
	require.NoError(t, err)
	assert.Equal(t, "empty.rs", file.Name.Path)
	assert.EqualValues(t, 0, offset)

	file, offset, err = m.LookupByteOffset(26)
	require.NoError(t, err)
	assert.Equal(t, "blork2.rs", file.Name.Path)
	assert.EqualValues(t, 0, offset)
	assert.Equal(t, blork.StartPos, span.BytePos(1))
	assert.Equal(t, blork2.Name.Path, "blork2.rs")
}

func TestLookupCharPosScenario1(t *testing.T) {
	m, _, _, _ := initBasic(t)

	loc, err := m.LookupCharPos(23)
	require.NoError(t, err)
	assert.Equal(t, "blork.rs", loc.File)
	assert.Equal(t, 2, loc.Line)
	assert.EqualValues(t, 10, loc.Col)

	loc, err = m.LookupCharPos(26)
	require.NoError(t, err)
	assert.Equal(t, "blork2.rs", loc.File)
	assert.Equal(t, 1, loc.Line)
	assert.EqualValues(t, 0, loc.Col)
}

func TestBytePosToCharPosScenario2(t *testing.T) {
	// "fir€st €€€€ line.\nsecond line", € is 3 UTF-8 bytes.
	m := New(nil, nil, nil)
	m.Register(srcfile.Custom("mbc.rs"), "fir€st €€€€ line.\nsecond line")
	file := m.Files()[0]

	var cursor ByteToCharPosState
	assert.EqualValues(t, 3, BytePosToCharPos(file, 4, &cursor))
	assert.EqualValues(t, 4, BytePosToCharPos(file, 7, &cursor))
}

func TestCursorCacheForwardAndBackwardScenario3(t *testing.T) {
	// "t¢e∆s💩t" walked forward then backward must agree with a fresh
	// computation at every position (§8 "Monotonic cursor").
	m := New(nil, nil, nil)
	m.Register(srcfile.Custom("mixed.rs"), "t¢e∆s💩t")
	file := m.Files()[0]

	var offsets []uint32
	var fwd ByteToCharPosState
	for i := 0; i < len(file.Src); i++ {
		offsets = append(offsets, BytePosToUTF16Offset(file, file.StartPos+span.BytePos(i), &fwd))
	}

	bwd := fwd
	for i := len(file.Src) - 1; i >= 0; i-- {
		got := BytePosToUTF16Offset(file, file.StartPos+span.BytePos(i), &bwd)
		assert.Equal(t, offsets[i], got, "mismatch at byte %d", i)
	}
}

func TestSpanToSnippetAndLinesScenario4(t *testing.T) {
	m := New(nil, nil, nil)
	m.Register(srcfile.Custom("multi.rs"), "aaaaa\nbbbbBB\nCCC\nDDDDDddddd\neee\n")
	file := m.Files()[0]

	// "BB" starts at byte 10 of the source (0-based), through "DDDDD".
	lo := file.StartPos + 10
	hi := file.StartPos + 22 // just past "DDDDD" within "DDDDDddddd"

	snippet, err := m.SpanToSnippet(span.Span{Lo: lo, Hi: hi})
	require.NoError(t, err)
	assert.Equal(t, "BB\nCCC\nDDDDD", snippet)

	lines, err := m.SpanToLines(span.Span{Lo: lo, Hi: hi})
	require.NoError(t, err)
	require.Len(t, lines, 3)
	assert.Equal(t, span.LineInfo{LineIndex: 1, StartCol: 4, EndCol: 6}, lines[0])
	assert.Equal(t, span.LineInfo{LineIndex: 2, StartCol: 0, EndCol: 3}, lines[1])
	assert.Equal(t, span.LineInfo{LineIndex: 3, StartCol: 0, EndCol: 5}, lines[2])
}

func TestMergeSpansFailScenario5(t *testing.T) {
	m := New(nil, nil, nil)
	m.Register(srcfile.Custom("merge.rs"), "aaaa\nbbbb\ncccc\n")
	file := m.Files()[0]

	lhs := span.Span{Lo: file.StartPos, Hi: file.StartPos + 2}
	rhs := span.Span{Lo: file.StartPos + 10, Hi: file.StartPos + 12}

	_, ok := m.MergeSpans(lhs, rhs)
	assert.False(t, ok)
}

func TestMergeSpansSameLine(t *testing.T) {
	m := New(nil, nil, nil)
	m.Register(srcfile.Custom("merge2.rs"), "aaaabbbbcccc\n")
	file := m.Files()[0]

	lhs := span.Span{Lo: file.StartPos, Hi: file.StartPos + 4}
	rhs := span.Span{Lo: file.StartPos + 4, Hi: file.StartPos + 8}

	merged, ok := m.MergeSpans(lhs, rhs)
	require.True(t, ok)
	assert.Equal(t, lhs.Lo, merged.Lo)
	assert.Equal(t, rhs.Hi, merged.Hi)
}

// TestMergeSpansDoesNotTrySwappedOrder pins down the Merge law (§8): a
// call with rhs entirely before lhs must fail rather than silently
// returning a union keyed off the wrong endpoints.
func TestMergeSpansDoesNotTrySwappedOrder(t *testing.T) {
	m := New(nil, nil, nil)
	m.Register(srcfile.Custom("merge3.rs"), "aaaabbbbcccc\n")
	file := m.Files()[0]

	lhs := span.Span{Lo: file.StartPos + 4, Hi: file.StartPos + 8}
	rhs := span.Span{Lo: file.StartPos, Hi: file.StartPos + 4}

	_, ok := m.MergeSpans(lhs, rhs)
	assert.False(t, ok)
}

func TestIntervalDisjointness(t *testing.T) {
	m := New(nil, nil, nil)
	a := m.Register(srcfile.Custom("a"), "hello")
	b := m.Register(srcfile.Custom("b"), "")
	c := m.Register(srcfile.Custom("c"), "world")

	assert.LessOrEqual(t, a.EndPos+1, b.StartPos)
	assert.LessOrEqual(t, b.EndPos+1, c.StartPos)
}

// TestRegisterBOMLeavesOneByteGap verifies a BOM'd file's position-space
// gap to the next file is the intended 1 byte, not 1 byte plus the BOM's
// 3 stripped bytes.
func TestRegisterBOMLeavesOneByteGap(t *testing.T) {
	m := New(nil, nil, nil)
	a := m.Register(srcfile.Custom("a"), "\xef\xbb\xbfhello")
	b := m.Register(srcfile.Custom("b"), "world")

	assert.Equal(t, "hello", a.Src)
	assert.Equal(t, a.EndPos+1, b.StartPos)
}

func TestLookupDummyFails(t *testing.T) {
	m := New(nil, nil, nil)
	m.Register(srcfile.Custom("a"), "hello")
	_, err := m.LookupCharPos(span.DummyPos)
	require.Error(t, err)
}

func TestConcurrentRegistration(t *testing.T) {
	m := New(nil, nil, nil)
	var g errgroup.Group
	const n = 64
	for i := 0; i < n; i++ {
		i := i
		g.Go(func() error {
			m.Register(srcfile.Anon(), "concurrent text")
			_ = i
			return nil
		})
	}
	require.NoError(t, g.Wait())

	files := m.Files()
	require.Len(t, files, n)
	for i := 1; i < len(files); i++ {
		assert.LessOrEqual(t, files[i-1].EndPos, files[i].StartPos)
	}
}

func TestSpanAdjustersNoMatchReturnsUnchanged(t *testing.T) {
	m := New(nil, nil, nil)
	m.Register(srcfile.Custom("a"), "hello world")
	file := m.Files()[0]
	sp := span.Span{Lo: file.StartPos, Hi: file.StartPos + 5}

	assert.Equal(t, sp, m.ExtendToPrevChar(sp, '@'))
	assert.Equal(t, sp, m.UntilChar(sp, '@'))
}

func TestPointsOnASCII(t *testing.T) {
	m := New(nil, nil, nil)
	m.Register(srcfile.Custom("a"), "hello")
	file := m.Files()[0]
	sp := span.Span{Lo: file.StartPos + 1, Hi: file.StartPos + 4}

	start := m.StartPoint(sp)
	assert.Equal(t, sp.Lo, start.Lo)
	assert.Equal(t, sp.Lo+1, start.Hi)

	end := m.EndPoint(sp)
	assert.Equal(t, sp.Hi-1, end.Lo)
	assert.Equal(t, sp.Hi, end.Hi)

	// For a single-byte (ASCII) next character, width == 1 and next_point
	// collapses to {hi, hi} per the original's own comment: "If the width
	// is 1, then the next span should point to the same lo and hi."
	next := m.NextPoint(sp)
	assert.Equal(t, sp.Hi, next.Lo)
	assert.Equal(t, sp.Hi, next.Hi)
}
