package srcmap

import (
	"fmt"
	"strings"

	"github.com/srcspan/srcspan/internal/span"
	"github.com/srcspan/srcspan/internal/srcfile"
)

// spanToSource is the private generic helper of §9 ("Span adjusters as
// higher-order functions... they all compose span_to_source(sp, extract)"):
// it validates sp, resolves the single file both endpoints must share, and
// then calls extract with the file's source slice and the two in-file
// offsets, keeping the slice borrow scoped to this call.
func (m *SourceMap) spanToSource(sp span.Span, extract func(src string, loOff, hiOff int) (any, error)) (any, error) {
	if sp.Lo > sp.Hi {
		return nil, &IllFormedSpanError{Span: sp}
	}
	if sp.Lo.IsDummy() || sp.Hi.IsDummy() {
		return nil, ErrDummyBytePos
	}

	loFile, err := m.lookupSourceFile(sp.Lo)
	if err != nil {
		return nil, err
	}
	hiFile, err := m.lookupSourceFile(sp.Hi)
	if err != nil {
		return nil, err
	}
	if loFile.StartPos != hiFile.StartPos {
		return nil, &DistinctSourcesError{BeginFile: loFile.Name.String(), EndFile: hiFile.Name.String()}
	}

	loOff := int(sp.Lo - loFile.StartPos)
	hiOff := int(sp.Hi - loFile.StartPos)
	if hiOff > len(loFile.Src) {
		return nil, &MalformedForSourcemapError{Name: loFile.Name.String(), SourceLen: len(loFile.Src), Lo: sp.Lo, Hi: sp.Hi}
	}

	return extract(loFile.Src, loOff, hiOff)
}

// SpanToSnippet returns the exact source bytes covered by sp (§4.6, §8
// "Snippet identity").
func (m *SourceMap) SpanToSnippet(sp span.Span) (string, error) {
	result, err := m.spanToSource(sp, func(src string, lo, hi int) (any, error) {
		return src[lo:hi], nil
	})
	if err != nil {
		return "", err
	}
	return result.(string), nil
}

// SpanToLines returns one LineInfo per line sp spans (§4.6, §8 scenario 4).
func (m *SourceMap) SpanToLines(sp span.Span) ([]span.LineInfo, error) {
	if sp.Lo > sp.Hi {
		return nil, &IllFormedSpanError{Span: sp}
	}

	loFile, err := m.lookupSourceFile(sp.Lo)
	if err != nil {
		return nil, err
	}
	hiFile, err := m.lookupSourceFile(sp.Hi)
	if err != nil {
		return nil, err
	}
	if loFile.StartPos != hiFile.StartPos {
		return nil, &DistinctSourcesError{BeginFile: loFile.Name.String(), EndFile: hiFile.Name.String()}
	}
	file := loFile

	if file.IsEmpty() {
		return nil, nil
	}

	loLine := lookupLineIndex(file, sp.Lo)
	hiLine := lookupLineIndex(file, sp.Hi)
	analysis := file.Analysis()

	var cursor ByteToCharPosState
	lines := make([]span.LineInfo, 0, hiLine-loLine+1)

	for line := loLine; line <= hiLine; line++ {
		lineStart := analysis.LineStarts[line]
		lineStartChar := BytePosToCharPos(file, lineStart, &cursor)

		var startCol span.CharPos
		if line == loLine {
			startCol = BytePosToCharPos(file, sp.Lo, &cursor) - lineStartChar
		}

		var endCol span.CharPos
		if line == hiLine {
			endCol = BytePosToCharPos(file, sp.Hi, &cursor) - lineStartChar
		} else if line+1 < len(analysis.LineStarts) {
			// The next line starts just past this line's '\n', which is not
			// counted as part of the line.
			lineEnd := analysis.LineStarts[line+1] - 1
			endCol = BytePosToCharPos(file, lineEnd, &cursor) - lineStartChar
		} else {
			endCol = BytePosToCharPos(file, file.EndPos, &cursor) - lineStartChar
		}

		lines = append(lines, span.LineInfo{LineIndex: line, StartCol: startCol, EndCol: endCol})
	}

	return lines, nil
}

// MergeSpans returns the union of lhs and rhs iff they live in the same
// file, on the same line, and lhs ends no later than rhs begins (§4.6).
// Per the Merge law (§8): when it returns true, u.lo == lhs.lo and
// u.hi == rhs.hi.
func (m *SourceMap) MergeSpans(lhs, rhs span.Span) (span.Span, bool) {
	if lhs.Lo > rhs.Lo || lhs.Hi > rhs.Lo {
		return span.Span{}, false
	}

	hiFileOfLhs, hiLine, err := m.LookupLine(lhs.Hi)
	if err != nil {
		return span.Span{}, false
	}
	loFileOfRhs, loLineOfRhs, err := m.LookupLine(rhs.Lo)
	if err != nil {
		return span.Span{}, false
	}
	if hiFileOfLhs.StartPos != loFileOfRhs.StartPos || hiLine != loLineOfRhs {
		return span.Span{}, false
	}

	return span.Span{Lo: lhs.Lo, Hi: rhs.Hi, Ctxt: lhs.Ctxt}, true
}

// IsMultiline reports whether sp's endpoints fall on different lines.
func (m *SourceMap) IsMultiline(sp span.Span) (bool, error) {
	_, loLine, err := m.LookupLine(sp.Lo)
	if err != nil {
		return false, err
	}
	_, hiLine, err := m.LookupLine(sp.Hi)
	if err != nil {
		return false, err
	}
	return loLine != hiLine, nil
}

// SpanToMargin returns the length of the leading whitespace run on the last
// line before sp.Lo (§4.6).
func (m *SourceMap) SpanToMargin(sp span.Span) (int, error) {
	file, lineIdx, err := m.LookupLine(sp.Lo)
	if err != nil {
		return 0, err
	}
	lineStart := file.Analysis().LineStarts[lineIdx]
	lineStartOff := int(lineStart - file.StartPos)
	loOff := int(sp.Lo - file.StartPos)
	if loOff > len(file.Src) {
		loOff = len(file.Src)
	}
	return len(file.Src[lineStartOff:loOff]) - len(strings.TrimLeft(file.Src[lineStartOff:loOff], " \t")), nil
}

// SpanToString renders sp as "file:line:col:endLine:endCol", a debugging
// convenience grounded in original_source's own span-to-string formatter
// (a supplemented feature; see SPEC_FULL.md).
func (m *SourceMap) SpanToString(sp span.Span) string {
	loLoc, err := m.LookupCharPos(sp.Lo)
	if err != nil {
		return "<unknown>"
	}
	hiLoc, err := m.LookupCharPos(sp.Hi)
	if err != nil {
		return "<unknown>"
	}
	return fmt.Sprintf("%s:%d:%d:%d:%d", loLoc.File, loLoc.Line, loLoc.Col, hiLoc.Line, hiLoc.Col)
}

// SpanToFilename returns just the FileName of the file sp.Lo resolves to
// (a supplemented feature; see SPEC_FULL.md).
func (m *SourceMap) SpanToFilename(sp span.Span) (srcfile.FileName, error) {
	file, err := m.lookupSourceFile(sp.Lo)
	if err != nil {
		return srcfile.FileName{}, err
	}
	return file.Name, nil
}
