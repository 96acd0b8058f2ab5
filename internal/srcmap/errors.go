// Package srcmap implements the SourceMap interner of §4: the
// concurrent-safe registry of source files and the position allocator,
// lookup, span-manipulation, and path-remapping operations built on top of
// it. Grounded primarily in original_source/crates/swc_common/src/
// source_map.rs, the Rust origin of this spec, re-expressed in the
// teacher's (evanw/esbuild) idiom: exported methods on a struct, plain
// error values rather than a Result-returning monad, explicit mutexes
// rather than RefCell/Lock wrappers.
package srcmap

import (
	"errors"
	"fmt"

	"github.com/srcspan/srcspan/internal/span"
)

// ErrDummyBytePos is returned when an operation is asked to resolve the
// dummy BytePos(0) to a real location.
var ErrDummyBytePos = errors.New("srcmap: dummy byte position has no location")

// NoFileForError reports that a position is outside every registered
// file's range (§7: "NoFileFor(pos)").
type NoFileForError struct {
	Pos span.BytePos
}

func (e *NoFileForError) Error() string {
	return fmt.Sprintf("srcmap: no file contains byte position %d", e.Pos)
}

// IllFormedSpanError reports lo > hi (§7).
type IllFormedSpanError struct {
	Span span.Span
}

func (e *IllFormedSpanError) Error() string {
	return fmt.Sprintf("srcmap: ill-formed span %s (lo > hi)", e.Span)
}

// DistinctSourcesError reports that a span's two endpoints resolve to
// different files (§7).
type DistinctSourcesError struct {
	BeginFile string
	EndFile   string
}

func (e *DistinctSourcesError) Error() string {
	return fmt.Sprintf("srcmap: span endpoints lie in distinct files %q and %q", e.BeginFile, e.EndFile)
}

// MalformedForSourcemapError reports that a span's end index runs past the
// end of its file's source (§7).
type MalformedForSourcemapError struct {
	Name      string
	SourceLen int
	Lo, Hi    span.BytePos
}

func (e *MalformedForSourcemapError) Error() string {
	return fmt.Sprintf("srcmap: span [%d, %d) is malformed for file %q of length %d", e.Lo, e.Hi, e.Name, e.SourceLen)
}
