package srcmap

import (
	"sync"

	"go.uber.org/zap"

	"github.com/srcspan/srcspan/internal/fileloader"
	"github.com/srcspan/srcspan/internal/pathmap"
	"github.com/srcspan/srcspan/internal/span"
	"github.com/srcspan/srcspan/internal/srcfile"
)

// SourceMap is the concurrent-safe interner of §4: it owns the ordered
// vector of files, assigns each a disjoint [start_pos, end_pos) slice of
// the 32-bit address space, and exposes the lookup, span-manipulation, and
// snippet APIs that operate on BytePos values.
//
// Concurrency (§5): the position counter and the files table are both
// guarded by mu, held in write mode across the whole of Register (counter
// bump, SourceFile construction, and publish happen in one critical
// section, per §4.2 and §5), and in read mode for every lookup. No I/O
// happens while mu is held: Loader.ReadUTF8 is expected to run before the
// caller passes the resulting string to Register.
type SourceMap struct {
	mu            sync.RWMutex
	files         []*srcfile.SourceFile
	stableIDIndex map[srcfile.StableSourceFileId]*srcfile.SourceFile

	// nextStartPos is the next BytePos to hand out. Position 0 is reserved
	// for the dummy sentinel, so this starts at 1. It wraps silently past
	// 4 GiB of total interned text, the "fails implicitly on 32-bit
	// overflow by design" behavior of §4.1 — callers are expected to stay
	// well under that limit.
	nextStartPos uint32

	Loader      fileloader.Loader
	PathMapping *pathmap.Table

	log *zap.SugaredLogger
}

// New constructs an empty SourceMap. loader and pathMapping may be nil;
// a nil pathMapping behaves as an empty remapping table and a nil loader
// makes LoadFile (which delegates registration I/O to the loader) panic if
// called — direct Register calls never need a loader.
func New(loader fileloader.Loader, pathMapping *pathmap.Table, log *zap.SugaredLogger) *SourceMap {
	if pathMapping == nil {
		pathMapping = pathmap.NewTable()
	}
	if log == nil {
		log = zap.NewNop().Sugar()
	}
	return &SourceMap{
		files:         nil,
		stableIDIndex: make(map[srcfile.StableSourceFileId]*srcfile.SourceFile),
		nextStartPos:  1,
		Loader:        loader,
		PathMapping:   pathMapping,
		log:           log,
	}
}

// Register interns src under name, applying path-prefix remapping (§4.8)
// if name is a Real() name, and returns the published SourceFile (§4.2).
func (m *SourceMap) Register(name srcfile.FileName, src string) *srcfile.SourceFile {
	return m.register(name, src, 0)
}

// RegisterDoctest is Register with a doctest line offset applied to every
// location subsequently reported for this file (a supplemented feature;
// see SPEC_FULL.md "Doctest line offset").
func (m *SourceMap) RegisterDoctest(name srcfile.FileName, src string, lineOffset int) *srcfile.SourceFile {
	return m.register(name, src, lineOffset)
}

func (m *SourceMap) register(name srcfile.FileName, src string, doctestOffsetLine int) *srcfile.SourceFile {
	unmappedName := name
	mappedName := name
	wasRemapped := false

	if name.IsReal() {
		if mapped, did := m.PathMapping.Map(name.Path); did {
			mappedName = srcfile.Real(mapped)
			wasRemapped = true
		}
	}

	// Strip the BOM before computing the counter bump: NewSourceFile strips
	// it again internally (idempotent) but derives EndPos from the
	// post-strip length, and the position-space gap below must match that
	// same length or a BOM'd file wastes bytes of address space (original:
	// source_map.rs's remove_bom runs before start_pos is computed from
	// src.len()).
	src = srcfile.StripBOM(src)

	m.mu.Lock()
	defer m.mu.Unlock()

	startPos := span.BytePos(m.nextStartPos)
	m.nextStartPos += uint32(len(src)) + 1

	file := srcfile.NewSourceFile(mappedName, unmappedName, wasRemapped, src, startPos)
	file.DoctestOffsetLine = doctestOffsetLine

	m.files = append(m.files, file)
	m.stableIDIndex[file.StableID()] = file

	m.log.Debugw("registered source file", "name", mappedName.String(), "startPos", startPos, "len", len(file.Src))

	return file
}

// LoadFile reads path via m.Loader and registers its contents under a
// Real() name. BOM stripping happens inside Register; the loader must
// return raw file bytes decoded to UTF-8 and nothing more (§6).
func (m *SourceMap) LoadFile(path string) (*srcfile.SourceFile, error) {
	src, err := m.Loader.ReadUTF8(path)
	if err != nil {
		return nil, err
	}
	return m.Register(srcfile.Real(path), src), nil
}

// FileByStableID looks a file up by its StableSourceFileId, the identifier
// that survives process restarts for identical inputs.
func (m *SourceMap) FileByStableID(id srcfile.StableSourceFileId) (*srcfile.SourceFile, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	f, ok := m.stableIDIndex[id]
	return f, ok
}

// Files returns a snapshot of the currently registered files, ordered by
// StartPos. The returned slice is a copy; mutating it does not affect the
// SourceMap.
func (m *SourceMap) Files() []*srcfile.SourceFile {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]*srcfile.SourceFile, len(m.files))
	copy(out, m.files)
	return out
}
