// Package srcfile holds the per-file data the interner in package srcmap
// manages: SourceFile itself, its lazily-computed Analysis, FileName, and
// StableSourceFileId. Nothing in this package is safe for concurrent
// *construction*; package srcmap is responsible for publishing a SourceFile
// exactly once under its files-table lock (§4.2, §5). Concurrent *reads*,
// including the lazy Analysis, are safe by construction (sync.Once).
package srcfile

import (
	"strings"
	"sync"

	"github.com/srcspan/srcspan/internal/span"
)

const utf8BOM = "\xef\xbb\xbf"

// StripBOM removes a leading UTF-8 byte-order mark from src, if present
// (§4.2 step 1). Callers that need to compute a length-derived quantity
// (e.g. the interner's position-counter bump) from the same text
// NewSourceFile will store must strip first, since NewSourceFile's own
// Src/EndPos are always post-strip.
func StripBOM(src string) string {
	return strings.TrimPrefix(src, utf8BOM)
}

// SourceFile is one registered file's immutable text plus its lazily
// computed Analysis. Once constructed, Src never changes (§3: "src never
// mutated after insertion").
type SourceFile struct {
	Name         FileName
	UnmappedName FileName // the name prior to path-prefix remapping (§4.2 step 2)
	WasRemapped  bool
	Src          string
	StartPos     span.BytePos
	EndPos       span.BytePos // StartPos + len(Src)

	// DoctestOffsetLine, when non-zero, is added to every reported 1-based
	// line number for this file (a supplemented feature; see SPEC_FULL.md).
	DoctestOffsetLine int

	stableID     StableSourceFileId
	analysisOnce sync.Once
	analysis     Analysis
}

// NewSourceFile strips a leading UTF-8 BOM (§4.2 step 1) and constructs a
// SourceFile occupying [startPos, startPos+len(src)). Analysis is deferred
// until first access (§4.3).
func NewSourceFile(name, unmappedName FileName, wasRemapped bool, src string, startPos span.BytePos) *SourceFile {
	src = StripBOM(src)
	f := &SourceFile{
		Name:         name,
		UnmappedName: unmappedName,
		WasRemapped:  wasRemapped,
		Src:          src,
		StartPos:     startPos,
		EndPos:       startPos + span.BytePos(len(src)),
	}
	f.stableID = computeStableSourceFileId(name, wasRemapped, unmappedName)
	return f
}

// StableID returns the 128-bit stable hash derived at construction time.
func (f *SourceFile) StableID() StableSourceFileId {
	return f.stableID
}

// Analysis computes (on first call) and returns the memoized per-file
// tables of §4.3. Concurrent callers racing the first call block until it
// completes; this is the "one-shot lazy initialization" discipline of §4.3
// and §9 ("Lazy analysis with one-time publication").
func (f *SourceFile) Analysis() *Analysis {
	f.analysisOnce.Do(func() {
		f.analysis = analyze(f.Src, f.StartPos)
	})
	return &f.analysis
}

// IsEmpty reports whether the file has zero bytes of source text.
func (f *SourceFile) IsEmpty() bool {
	return len(f.Src) == 0
}

// Contains reports whether pos falls within this file's half-open byte
// range. Note the reserved one-byte gap between files (§4.1) is *not* part
// of any file's range, including an empty file's single reserved slot at
// StartPos == EndPos; the core file lookup in package srcmap does not use
// Contains for that reason and instead binary-searches sorted StartPos
// values directly, letting the next file's StartPos implicitly bound this
// one.
func (f *SourceFile) Contains(pos span.BytePos) bool {
	return pos >= f.StartPos && pos < f.EndPos
}
