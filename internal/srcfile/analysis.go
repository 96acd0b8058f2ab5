package srcfile

import (
	"unicode/utf16"
	"unicode/utf8"

	"github.com/rivo/uniseg"

	"github.com/srcspan/srcspan/internal/span"
)

// MultiByteChar records one scalar whose UTF-8 encoding is longer than one
// byte, so that the byte<->char and byte<->UTF-16 conversions (§4.5) can
// walk only the characters that need correcting for, rather than every
// scalar in the file.
type MultiByteChar struct {
	Pos        span.BytePos
	Bytes      uint8 // 2, 3, or 4
	UTF16Units uint8 // 1 (BMP) or 2 (surrogate pair)
}

// ByteToCharDiff is the number of extra *bytes* this character costs over a
// single-scalar count: e.g. a 3-byte character is 1 scalar but 3 bytes, a
// diff of 2.
func (m MultiByteChar) ByteToCharDiff() uint32 {
	return uint32(m.Bytes) - 1
}

// ByteToUTF16Diff is the number of extra bytes this character costs over
// its UTF-16 code-unit count.
func (m MultiByteChar) ByteToUTF16Diff() uint32 {
	return uint32(m.Bytes) - uint32(m.UTF16Units)
}

// NonNarrowKind classifies a scalar's deviation from the default column
// width of 1.
type NonNarrowKind uint8

const (
	ZeroWidth NonNarrowKind = iota
	WideWidth
)

// Width returns the scalar's rendered column width.
func (k NonNarrowKind) Width() int {
	if k == ZeroWidth {
		return 0
	}
	return 2
}

// NonNarrowChar records one scalar whose rendered display width differs
// from the default of one column (§3, §4.4 step 4).
type NonNarrowChar struct {
	Pos  span.BytePos
	Kind NonNarrowKind
}

// Analysis is the memoized per-file table set computed by a single scan of
// the source text (§4.3). Once produced it is never mutated; the rest of
// package srcmap treats it as immutable, read-only data.
type Analysis struct {
	LineStarts     []span.BytePos
	MultibyteChars []MultiByteChar
	NonNarrowChars []NonNarrowChar
}

// analyze performs the single scan described in §4.3 over src, whose first
// byte lives at the absolute position startPos.
func analyze(src string, startPos span.BytePos) Analysis {
	a := Analysis{
		LineStarts: []span.BytePos{startPos},
	}

	pos := startPos
	for i := 0; i < len(src); {
		r, width := utf8.DecodeRuneInString(src[i:])

		if r == '\n' {
			a.LineStarts = append(a.LineStarts, pos+1)
		}

		if width > 1 {
			a.MultibyteChars = append(a.MultibyteChars, MultiByteChar{
				Pos:        pos,
				Bytes:      uint8(width),
				UTF16Units: uint8(utf16.RuneLen(r)),
			})
		}

		if kind, nonNarrow := classifyWidth(r); nonNarrow {
			a.NonNarrowChars = append(a.NonNarrowChars, NonNarrowChar{Pos: pos, Kind: kind})
		}

		i += width
		pos += span.BytePos(width)
	}

	return a
}

// classifyWidth reports the display-width classification of r, and whether
// it deviates from the default column width of 1 (and so belongs in
// non_narrow_chars). Classification is delegated to uniseg's East-Asian-
// Width-aware string-width measurement rather than a hand-rolled table.
func classifyWidth(r rune) (NonNarrowKind, bool) {
	w := uniseg.StringWidth(string(r))
	switch w {
	case 1:
		return 0, false
	case 0:
		return ZeroWidth, true
	default:
		return WideWidth, true
	}
}
