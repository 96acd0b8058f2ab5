package sourcemap

import "github.com/srcspan/srcspan/internal/ast"

// AdjustMappings implements §4.7 step 7: composing a freshly generated map
// through the upstream map it was generated against. Only the shape
// (mappings, sources, names) of newMap matters; the returned Map's
// SourcesContent and IgnoreList are carried over from upstream (the
// receiver) unchanged, per spec wording.
//
// Each of newMap's mappings points at a position in the *upstream's
// generated* coordinate space (what newMap calls its "original" position,
// since newMap was itself generated from upstream's output). For each one,
// this looks that position up in upstream via Find and rewrites the
// mapping to point at upstream's original source instead; mappings with no
// match in upstream are dropped, matching the teacher's own
// ChunkBuilder.appendMapping behavior for "some locations won't have a
// mapping."
func (upstream *Map) AdjustMappings(newMap *Map) *Map {
	out := &Map{
		Sources:        append([]string(nil), upstream.Sources...),
		SourcesContent: append([]string(nil), upstream.SourcesContent...),
		HasContent:     append([]bool(nil), upstream.HasContent...),
		IgnoreList:     append([]int(nil), upstream.IgnoreList...),
	}

	names := append([]string(nil), upstream.Names...)
	nameIndexOf := make(map[string]int, len(names))
	for i, n := range names {
		nameIndexOf[n] = i
	}

	for _, mp := range newMap.Mappings {
		if mp.IsSourceBoundary || !mp.HasSource {
			out.Mappings = append(out.Mappings, mp)
			continue
		}

		um := upstream.Find(mp.OriginalLine, mp.OriginalColumn)
		if um == nil {
			continue
		}

		resolved := mp
		resolved.SourceIndex = um.SourceIndex
		resolved.OriginalLine = um.OriginalLine
		resolved.OriginalColumn = um.OriginalColumn
		resolved.HasSource = um.HasSource

		if um.Name.IsValid() && int(um.Name.GetIndex()) < len(upstream.Names) {
			name := upstream.Names[um.Name.GetIndex()]
			idx, ok := nameIndexOf[name]
			if !ok {
				idx = len(names)
				names = append(names, name)
				nameIndexOf[name] = idx
			}
			resolved.Name = ast.MakeIndex32(uint32(idx))
		} else if mp.Name.IsValid() && int(mp.Name.GetIndex()) < len(newMap.Names) {
			// Keep newMap's own name when upstream has none at this
			// position, matching the teacher's "otherwise, keep the
			// original name... which corresponds to the name in the
			// intermediate source code."
			name := newMap.Names[mp.Name.GetIndex()]
			idx, ok := nameIndexOf[name]
			if !ok {
				idx = len(names)
				names = append(names, name)
				nameIndexOf[name] = idx
			}
			resolved.Name = ast.MakeIndex32(uint32(idx))
		}

		out.Mappings = append(out.Mappings, resolved)
	}

	out.Names = names
	return out
}
