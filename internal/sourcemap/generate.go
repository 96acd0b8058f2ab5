package sourcemap

import (
	"math"

	"github.com/srcspan/srcspan/internal/ast"
	"github.com/srcspan/srcspan/internal/span"
	"github.com/srcspan/srcspan/internal/srcfile"
	"github.com/srcspan/srcspan/internal/srcmap"
)

// boundaryBytePos is the §4.7 step 6 / §6 "source boundary" marker: a
// generated position with BytePos == u32::MAX, emitted with zero source
// coordinates and no name so callers can detect the end of a run.
const boundaryBytePos = span.BytePos(math.MaxUint32)

// InputMapping is one record of the ordered list §4.7 consumes: a generated
// position paired with the source BytePos it maps back to.
type InputMapping struct {
	Generated span.LineCol
	Source    span.BytePos
}

// GenerationConfig holds the per-file options §4.7's table enumerates. Any
// nil field behaves as its stated default: FileNameToSource defaults to the
// file's own Name.String(), EmitColumns defaults to true, Skip defaults to
// false, and InlineSourcesContent/IgnoreList default to true/false for
// every FileName variant except FileNameInternal, which flips both (§4.7:
// compiler-internal synthetic source is skipped by the ignore-list default
// and never has its content inlined by default), and NameForBytePos
// defaults to "no name".
type GenerationConfig struct {
	FileNameToSource     func(name string) string
	InlineSourcesContent func(name string) bool
	EmitColumns          func(name string) bool
	Skip                 func(name string) bool
	IgnoreList           func(name string) bool
	NameForBytePos       func(bp span.BytePos) (string, bool)
}

func (c GenerationConfig) fileNameToSource(name string) string {
	if c.FileNameToSource != nil {
		return c.FileNameToSource(name)
	}
	return name
}

func (c GenerationConfig) inlineSourcesContent(file *srcfile.SourceFile) bool {
	if c.InlineSourcesContent != nil {
		return c.InlineSourcesContent(file.Name.String())
	}
	return file.Name.Kind != srcfile.FileNameInternal
}

func (c GenerationConfig) emitColumns(name string) bool {
	if c.EmitColumns != nil {
		return c.EmitColumns(name)
	}
	return true
}

func (c GenerationConfig) skip(name string) bool {
	return c.Skip != nil && c.Skip(name)
}

func (c GenerationConfig) ignoreList(file *srcfile.SourceFile) bool {
	if c.IgnoreList != nil {
		return c.IgnoreList(file.Name.String())
	}
	return file.Name.Kind == srcfile.FileNameInternal
}

func (c GenerationConfig) nameForBytePos(bp span.BytePos) (string, bool) {
	if c.NameForBytePos != nil {
		return c.NameForBytePos(bp)
	}
	return "", false
}

// Generate implements §4.7 steps 1-6: it walks mappings (already ordered by
// generated position), resolving each source BytePos to a file/line/
// UTF-16-column through sm, and produces a Map. Step 7 (composing through a
// pre-existing upstream map) is a separate pass the caller applies
// afterward via upstream.AdjustMappings(result) — see adjust.go.
func Generate(sm *srcmap.SourceMap, mappings []InputMapping, cfg GenerationConfig) (*Map, error) {
	out := &Map{}

	sourceIndexOf := make(map[string]int)
	nameIndexOf := make(map[string]int)

	var curFile *srcfile.SourceFile
	var curSourceIdx int
	var curSkip bool
	var lineState, chState srcmap.ByteToCharPosState

	prevGenLine := -1

	for _, in := range mappings {
		if in.Source == boundaryBytePos {
			out.Mappings = append(out.Mappings, Mapping{
				GeneratedLine:    in.Generated.Line,
				GeneratedColumn:  in.Generated.Col,
				IsSourceBoundary: true,
			})
			prevGenLine = in.Generated.Line
			continue
		}

		// Step 1: skip reserved-for-comments anchors and the dummy position
		// mapped to the zero generated target (§4.7 step 1).
		if in.Source.IsReservedForComments() {
			continue
		}
		if in.Source.IsDummy() && in.Generated == (span.LineCol{}) {
			continue
		}

		file, _, err := sm.LookupByteOffset(in.Source)
		if err != nil {
			continue
		}

		if file != curFile {
			curFile = file
			lineState = srcmap.ByteToCharPosState{}
			chState = srcmap.ByteToCharPosState{}

			name := file.Name.String()
			curSkip = cfg.skip(name)
			if !curSkip {
				idx, ok := sourceIndexOf[name]
				if !ok {
					idx = len(out.Sources)
					out.Sources = append(out.Sources, cfg.fileNameToSource(name))
					sourceIndexOf[name] = idx
					out.SourcesContent = append(out.SourcesContent, "")
					out.HasContent = append(out.HasContent, false)
					out.IgnoreList = growIgnoreList(out, cfg, idx, file)
					if cfg.inlineSourcesContent(file) {
						out.SourcesContent[idx] = file.Src
						out.HasContent[idx] = true
					}
				}
				curSourceIdx = idx
			}
			prevGenLine = -1
		}

		if curSkip {
			continue
		}

		if !cfg.emitColumns(file.Name.String()) && in.Generated.Line == prevGenLine {
			continue
		}
		prevGenLine = in.Generated.Line

		lineIdx := srcmap.LineIndexForBytePos(file, in.Source)
		lineStart := file.Analysis().LineStarts[lineIdx]

		srcLineStartUTF16 := srcmap.BytePosToUTF16Offset(file, lineStart, &lineState)
		srcColUTF16 := srcmap.BytePosToUTF16Offset(file, in.Source, &chState) - srcLineStartUTF16

		mp := Mapping{
			GeneratedLine:   in.Generated.Line,
			GeneratedColumn: in.Generated.Col,
			HasSource:       true,
			SourceIndex:     curSourceIdx,
			OriginalLine:    lineIdx,
			OriginalColumn:  int(srcColUTF16),
		}

		if name, ok := cfg.nameForBytePos(in.Source); ok {
			nidx, seen := nameIndexOf[name]
			if !seen {
				nidx = len(out.Names)
				out.Names = append(out.Names, name)
				nameIndexOf[name] = nidx
			}
			mp.Name = ast.MakeIndex32(uint32(nidx))
		}

		out.Mappings = append(out.Mappings, mp)
	}

	return out, nil
}

func growIgnoreList(out *Map, cfg GenerationConfig, idx int, file *srcfile.SourceFile) []int {
	if cfg.ignoreList(file) {
		return append(out.IgnoreList, idx)
	}
	return out.IgnoreList
}
