package srcmap

import "github.com/srcspan/srcspan/internal/span"

// StartPoint returns a new span representing just the start-point of sp.
func (m *SourceMap) StartPoint(sp span.Span) span.Span {
	pos := uint32(sp.Lo)
	width := m.findWidthOfCharacterAtSpan(sp, false)
	correctedStartPosition := addOrSelf(pos, width)
	endPoint := maxU32(correctedStartPosition, uint32(sp.Lo))
	return sp.WithHi(span.BytePos(endPoint))
}

// EndPoint returns a new span representing just the end-point of sp.
func (m *SourceMap) EndPoint(sp span.Span) span.Span {
	pos := uint32(sp.Hi)
	width := m.findWidthOfCharacterAtSpan(sp, false)
	correctedEndPosition := subOrSelf(pos, width)
	endPoint := maxU32(correctedEndPosition, uint32(sp.Lo))
	return sp.WithLo(span.BytePos(endPoint))
}

// NextPoint returns a new span representing the next character after the
// end-point of sp.
func (m *SourceMap) NextPoint(sp span.Span) span.Span {
	startOfNextPoint := uint32(sp.Hi)

	width := m.findWidthOfCharacterAtSpan(sp, true)
	// If the width is 1, then the next span should point to the same lo and
	// hi. However, in the case of a multibyte character, where the width !=
	// 1, the next span should span multiple bytes to include the whole
	// character.
	endOfNextPoint := addOrSelf(startOfNextPoint, width-1)
	endOfNextPoint = maxU32(uint32(sp.Lo)+1, endOfNextPoint)

	return span.Span{Lo: span.BytePos(startOfNextPoint), Hi: span.BytePos(endOfNextPoint), Ctxt: sp.Ctxt}
}

func addOrSelf(a, b uint32) uint32 {
	r := a + b
	if r < a {
		return a
	}
	return r
}

func subOrSelf(a, b uint32) uint32 {
	if b > a {
		return a
	}
	return a - b
}

func maxU32(a, b uint32) uint32 {
	if a > b {
		return a
	}
	return b
}

// findWidthOfCharacterAtSpan finds the width of a character, either before
// or after sp, by walking UTF-8 char boundaries outward from sp's
// endpoint. This is the exact algorithm named in §9's Open Question and is
// replicated verbatim from original_source's find_width_of_character_at_span,
// including the backward walker's target==0 early break, rather than
// reinterpreted: both StartPoint and EndPoint call it with forwards=false,
// NextPoint calls it with forwards=true.
func (m *SourceMap) findWidthOfCharacterAtSpan(sp span.Span, forwards bool) uint32 {
	// Disregard malformed spans and assume a one-byte wide character.
	if sp.Lo >= sp.Hi {
		return 1
	}

	beginFile, startIndex, err := m.LookupByteOffset(sp.Lo)
	if err != nil {
		return 1
	}
	_, endIndexU32, err := m.LookupByteOffset(sp.Hi)
	if err != nil {
		return 1
	}

	startIndexInt := int(startIndex)
	endIndexInt := int(endIndexU32)

	// Disregard indexes that are at the start or end of their spans, they
	// can't fit bigger characters.
	if (!forwards && endIndexInt == 0) || (forwards && startIndexInt == int(^uint32(0))) {
		return 1
	}

	sourceLen := len(beginFile.Src)

	// Ensure indexes are also not malformed.
	if startIndexInt > endIndexInt || endIndexInt > sourceLen {
		return 1
	}

	// Extend the snippet to the end of the source rather than to end_index
	// so that searching forwards for boundaries has somewhere to search.
	snippet := beginFile.Src[startIndexInt:]

	var target int
	if forwards {
		target = endIndexInt + 1
	} else {
		target = endIndexInt - 1
	}

	for !isCharBoundary(snippet, target-startIndexInt) && target < sourceLen {
		if forwards {
			target++
		} else {
			if target == 0 {
				break
			}
			target--
		}
	}

	if forwards {
		return uint32(target - endIndexInt)
	}
	return uint32(endIndexInt - target)
}

// isCharBoundary reports whether byte index i of s is a UTF-8 char
// boundary: the start or end of the string, or a byte that is not a UTF-8
// continuation byte.
func isCharBoundary(s string, i int) bool {
	if i < 0 || i > len(s) {
		return false
	}
	if i == 0 || i == len(s) {
		return true
	}
	return s[i]&0xC0 != 0x80
}
