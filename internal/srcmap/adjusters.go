package srcmap

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/srcspan/srcspan/internal/span"
)

// The span adjusters of §4.6. Every adjuster here returns sp unchanged on
// any lookup error or when its pattern is not found (§8 "Idempotent
// span-adjusters on no-match"), so that diagnostic rendering built on top
// of them degrades gracefully instead of propagating failures (§7).

// ExtendToPrevChar grows sp.Lo leftward to just past the nearest rune c,
// but only if the intervening text contains no newline.
func (m *SourceMap) ExtendToPrevChar(sp span.Span, c rune) span.Span {
	file, err := m.lookupSourceFile(sp.Lo)
	if err != nil {
		return sp
	}
	loOff := int(sp.Lo - file.StartPos)
	if loOff > len(file.Src) {
		return sp
	}
	before := file.Src[:loOff]

	runeIdx := lastIndexRune(before, c)
	if runeIdx < 0 {
		return sp
	}
	intervening := before[runeIdx+utf8.RuneLen(c):]
	if strings.ContainsRune(intervening, '\n') {
		return sp
	}
	return sp.WithLo(file.StartPos + span.BytePos(runeIdx+utf8.RuneLen(c)))
}

// ExtendToNextChar grows sp.Hi rightward to just before the nearest rune c,
// but only if the intervening text contains no newline.
func (m *SourceMap) ExtendToNextChar(sp span.Span, c rune) span.Span {
	file, err := m.lookupSourceFile(sp.Hi)
	if err != nil {
		return sp
	}
	hiOff := int(sp.Hi - file.StartPos)
	if hiOff > len(file.Src) {
		return sp
	}
	after := file.Src[hiOff:]

	runeIdx := strings.IndexRune(after, c)
	if runeIdx < 0 {
		return sp
	}
	intervening := after[:runeIdx]
	if strings.ContainsRune(intervening, '\n') {
		return sp
	}
	return sp.WithHi(file.StartPos + span.BytePos(hiOff+runeIdx))
}

// ExtendToPrevStr grows sp.Lo leftward to just past the nearest occurrence
// of pat, allowing the intervening text to contain newlines only if
// acceptNewlines is set.
func (m *SourceMap) ExtendToPrevStr(sp span.Span, pat string, acceptNewlines bool) span.Span {
	file, err := m.lookupSourceFile(sp.Lo)
	if err != nil {
		return sp
	}
	loOff := int(sp.Lo - file.StartPos)
	if loOff > len(file.Src) || pat == "" {
		return sp
	}
	before := file.Src[:loOff]

	idx := strings.LastIndex(before, pat)
	if idx < 0 {
		return sp
	}
	intervening := before[idx+len(pat):]
	if !acceptNewlines && strings.ContainsRune(intervening, '\n') {
		return sp
	}
	return sp.WithLo(file.StartPos + span.BytePos(idx+len(pat)))
}

// ExtendToNextStr grows sp.Hi rightward to just before the nearest
// occurrence of pat, allowing the intervening text to contain newlines only
// if acceptNewlines is set.
func (m *SourceMap) ExtendToNextStr(sp span.Span, pat string, acceptNewlines bool) span.Span {
	file, err := m.lookupSourceFile(sp.Hi)
	if err != nil {
		return sp
	}
	hiOff := int(sp.Hi - file.StartPos)
	if hiOff > len(file.Src) || pat == "" {
		return sp
	}
	after := file.Src[hiOff:]

	idx := strings.Index(after, pat)
	if idx < 0 {
		return sp
	}
	intervening := after[:idx]
	if !acceptNewlines && strings.ContainsRune(intervening, '\n') {
		return sp
	}
	return sp.WithHi(file.StartPos + span.BytePos(hiOff+idx))
}

// UntilChar shrinks sp.Hi to end just before the first occurrence of c
// inside the span.
func (m *SourceMap) UntilChar(sp span.Span, c rune) span.Span {
	snippet, err := m.SpanToSnippet(sp)
	if err != nil {
		return sp
	}
	idx := strings.IndexRune(snippet, c)
	if idx < 0 {
		return sp
	}
	return sp.WithHi(sp.Lo + span.BytePos(idx))
}

// ThroughChar shrinks sp.Hi to end just after the first occurrence of c
// inside the span.
func (m *SourceMap) ThroughChar(sp span.Span, c rune) span.Span {
	snippet, err := m.SpanToSnippet(sp)
	if err != nil {
		return sp
	}
	idx := strings.IndexRune(snippet, c)
	if idx < 0 {
		return sp
	}
	return sp.WithHi(sp.Lo + span.BytePos(idx+utf8.RuneLen(c)))
}

// TakeWhile shrinks sp.Hi to the position of the first scalar failing
// predicate.
func (m *SourceMap) TakeWhile(sp span.Span, predicate func(rune) bool) span.Span {
	snippet, err := m.SpanToSnippet(sp)
	if err != nil {
		return sp
	}
	for i, r := range snippet {
		if !predicate(r) {
			return sp.WithHi(sp.Lo + span.BytePos(i))
		}
	}
	return sp
}

// UntilWhitespace shrinks sp.Hi to the first whitespace scalar.
func (m *SourceMap) UntilWhitespace(sp span.Span) span.Span {
	return m.TakeWhile(sp, func(r rune) bool { return !unicode.IsSpace(r) })
}

// UntilNonWhitespace shrinks sp.Hi to the first non-whitespace scalar.
func (m *SourceMap) UntilNonWhitespace(sp span.Span) span.Span {
	return m.TakeWhile(sp, unicode.IsSpace)
}

// DefSpan returns sp shrunk to end just before the first '{', the
// convention original_source uses to isolate a definition's header from its
// body.
func (m *SourceMap) DefSpan(sp span.Span) span.Span {
	return m.UntilChar(sp, '{')
}

func lastIndexRune(s string, c rune) int {
	if c < utf8.RuneSelf {
		return strings.LastIndexByte(s, byte(c))
	}
	last := -1
	for i, r := range s {
		if r == c {
			last = i
		}
	}
	return last
}
