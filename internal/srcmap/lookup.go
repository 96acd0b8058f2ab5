package srcmap

import (
	"sort"

	"github.com/srcspan/srcspan/internal/span"
	"github.com/srcspan/srcspan/internal/srcfile"
)

// lookupSourceFile implements §4.4 step 1 and original_source's
// lookup_source_file_in: binary search files (sorted by StartPos) for the
// greatest entry whose StartPos <= pos. The one-byte gap reserved between
// files (§4.1) means the file found here may still not actually contain
// pos (e.g. pos lands in the gap, or past the last file's EndPos); callers
// needing that stronger guarantee should check SourceFile.Contains, except
// for the empty-file case documented there.
func (m *SourceMap) lookupSourceFile(pos span.BytePos) (*srcfile.SourceFile, error) {
	if pos.IsDummy() {
		return nil, &NoFileForError{Pos: pos}
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	files := m.files
	idx := sort.Search(len(files), func(i int) bool {
		return files[i].StartPos > pos
	}) - 1

	if idx < 0 {
		return nil, &NoFileForError{Pos: pos}
	}
	return files[idx], nil
}

// LookupByteOffset resolves an absolute BytePos to the file that contains
// it and the offset within that file's bytes (§8 scenario 1).
func (m *SourceMap) LookupByteOffset(pos span.BytePos) (*srcfile.SourceFile, uint32, error) {
	file, err := m.lookupSourceFile(pos)
	if err != nil {
		return nil, 0, err
	}
	return file, uint32(pos - file.StartPos), nil
}

// lookupLineIndex implements §4.4 step 2: binary search line_starts for the
// greatest entry <= pos, returning a zero-based line index. Empty files
// synthesize line 0.
func lookupLineIndex(file *srcfile.SourceFile, pos span.BytePos) int {
	if file.IsEmpty() {
		return 0
	}
	lineStarts := file.Analysis().LineStarts
	idx := sort.Search(len(lineStarts), func(i int) bool {
		return lineStarts[i] > pos
	}) - 1
	if idx < 0 {
		idx = 0
	}
	return idx
}

// LineIndexForBytePos exposes lookupLineIndex (§4.4 step 2) for package
// sourcemap, which needs to resolve a file's line without going through the
// mutex-guarded file-lookup path a second time.
func LineIndexForBytePos(file *srcfile.SourceFile, pos span.BytePos) int {
	return lookupLineIndex(file, pos)
}

// LookupLine returns the zero-based line index containing pos, within the
// file it resolves to.
func (m *SourceMap) LookupLine(pos span.BytePos) (*srcfile.SourceFile, int, error) {
	file, err := m.lookupSourceFile(pos)
	if err != nil {
		return nil, 0, err
	}
	return file, lookupLineIndex(file, pos), nil
}

// LookupCharPos resolves pos to a full Loc{file, line, col, col_display}
// per §4.4. Each call uses fresh cursor state (§9: cursor caches "must be
// kept out of the globally shared state"); callers resolving many
// positions in file order should instead drive BytePosToCharPos /
// BytePosToUTF16Offset directly with a cursor they own, as the emitter
// does.
func (m *SourceMap) LookupCharPos(pos span.BytePos) (span.Loc, error) {
	file, err := m.lookupSourceFile(pos)
	if err != nil {
		return span.Loc{}, err
	}

	lineIdx := lookupLineIndex(file, pos)
	analysis := file.Analysis()

	if file.IsEmpty() {
		return span.Loc{
			File: file.Name.String(),
			Line: 1 + file.DoctestOffsetLine,
			Col:  0,
		}, nil
	}

	lineStart := analysis.LineStarts[lineIdx]

	var cursor ByteToCharPosState
	lineCharPos := BytePosToCharPos(file, lineStart, &cursor)
	posCharPos := BytePosToCharPos(file, pos, &cursor)
	col := posCharPos - lineCharPos

	colDisplay := displayColumn(analysis, lineStart, pos, int(col))

	return span.Loc{
		File:       file.Name.String(),
		Line:       lineIdx + 1 + file.DoctestOffsetLine,
		Col:        col,
		ColDisplay: colDisplay,
	}, nil
}

// displayColumn implements §4.4 step 4: starting from the scalar column,
// adjust for every non_narrow_chars entry at or after lineStart and before
// pos, turning "one scalar counted as width 1" into the character's true
// rendered width.
func displayColumn(analysis *srcfile.Analysis, lineStart, pos span.BytePos, col int) int {
	lo := sort.Search(len(analysis.NonNarrowChars), func(i int) bool {
		return analysis.NonNarrowChars[i].Pos >= lineStart
	})
	hi := sort.Search(len(analysis.NonNarrowChars), func(i int) bool {
		return analysis.NonNarrowChars[i].Pos >= pos
	})

	display := col
	for _, nc := range analysis.NonNarrowChars[lo:hi] {
		display += nc.Kind.Width() - 1
	}
	return display
}
