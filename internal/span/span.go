// Package span holds the position primitives shared by every other package
// in this module: BytePos, CharPos, and Span. These are pure value types
// with no notion of a particular SourceMap; resolving a BytePos to a file
// and line is the job of package srcmap.
package span

import "fmt"

// BytePos is an opaque index into the process-wide 32-bit source address
// space. BytePos(0) is the reserved "dummy" position, meaning "no
// location." Values from firstReservedForComments up to u32::MAX form the
// reserved high range and are used as synthetic anchors for comments that were never part of
// any file's interned bytes; IsReservedForComments reports that range.
type BytePos uint32

// CharPos counts Unicode scalar values (not bytes, not UTF-16 code units)
// within a single file. It is monotonic within a file but is not comparable
// across files the way BytePos is.
type CharPos uint32

// DummyPos is the sentinel meaning "no location."
const DummyPos BytePos = 0

// commentAnchorBand reserves the top of the 32-bit space for synthetic
// BytePos values minted for comments that are attached to the AST but were
// never assigned a real interned range. u32::MAX itself is further
// special-cased by the emitter (see package sourcemap) as a "source
// boundary" marker distinct from a comment anchor.
const commentAnchorBand = 1 << 20

// firstReservedForComments is the lowest BytePos considered part of the
// synthetic-comment band.
const firstReservedForComments = ^BytePos(0) - commentAnchorBand

// IsDummy reports whether p is the dummy sentinel.
func (p BytePos) IsDummy() bool {
	return p == DummyPos
}

// IsReservedForComments reports whether p falls in the high band reserved
// for synthetic comment anchors, including the u32::MAX source-boundary
// marker used by the emitter.
func (p BytePos) IsReservedForComments() bool {
	return p >= firstReservedForComments
}

// SyntaxContext identifies the macro-expansion context a span was produced
// in. This module specifies only the identity expansion (§1 non-goals
// exclude hygienic rename tracking), so SyntaxContext is carried on Span
// but never inspected by any operation in this package.
type SyntaxContext uint32

// Span is a half-open byte range `[Lo, Hi)` tagged with a syntax context.
// Lo <= Hi for any span produced by registration; both endpoints lie in the
// same file for any span the lexer produces, though this package does not
// itself enforce that invariant (see package srcmap, which owns the file
// table needed to check it).
type Span struct {
	Lo   BytePos
	Hi   BytePos
	Ctxt SyntaxContext
}

// DummySpan is a span whose endpoints are both the dummy position.
var DummySpan = Span{Lo: DummyPos, Hi: DummyPos}

// IsDummy reports whether both endpoints of sp are the dummy position.
func (sp Span) IsDummy() bool {
	return sp.Lo.IsDummy() && sp.Hi.IsDummy()
}

// Len returns the byte length of the span. Callers must not call this on a
// span with Hi < Lo.
func (sp Span) Len() uint32 {
	return uint32(sp.Hi) - uint32(sp.Lo)
}

// WithLo returns a copy of sp with Lo replaced.
func (sp Span) WithLo(lo BytePos) Span {
	sp.Lo = lo
	return sp
}

// WithHi returns a copy of sp with Hi replaced.
func (sp Span) WithHi(hi BytePos) Span {
	sp.Hi = hi
	return sp
}

func (sp Span) String() string {
	return fmt.Sprintf("Span(%d, %d)", sp.Lo, sp.Hi)
}

// Loc is a resolved human-readable location: file, 1-based line, 0-based
// scalar column, and 0-based display column (adjusted for wide/zero-width
// characters per §4.4 step 4).
type Loc struct {
	File       string
	Line       int
	Col        CharPos
	ColDisplay int
}

// LineInfo is one line's worth of a span, produced by span_to_lines (§4.6).
type LineInfo struct {
	LineIndex int // 0-based
	StartCol  CharPos
	EndCol    CharPos
}

// LineCol is a generated-side (line, column) pair used by the source-map
// emitter (§4.7); both fields are 0-based.
type LineCol struct {
	Line int
	Col  int
}
