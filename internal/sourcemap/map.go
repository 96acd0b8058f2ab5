package sourcemap

import (
	"encoding/json"
	"fmt"

	"github.com/srcspan/srcspan/internal/ast"
	"github.com/srcspan/srcspan/internal/helpers"
)

// Mapping is one decoded record of a version-3 source map: a generated
// (line, column) paired with an optional source location and name, per the
// GLOSSARY's "Mapping" entry. Generated and original lines/columns are
// both 0-based. Name uses ast.Index32 (absent == Go zero value) the same
// way the teacher's own sourcemap.Mapping.OriginalName does.
type Mapping struct {
	GeneratedLine   int
	GeneratedColumn int // UTF-16 code units

	HasSource      bool
	SourceIndex    int
	OriginalLine   int
	OriginalColumn int // UTF-16 code units

	Name ast.Index32

	// IsSourceBoundary marks the §4.7 step 6 "source boundary" marker
	// (input BytePos == u32::MAX): zero source coordinates, no name,
	// callers use it to terminate a run.
	IsSourceBoundary bool
}

// Map is a parsed or freshly generated version-3 source map: the four
// top-level arrays plus the decoded Mappings, held in memory rather than as
// a VLQ string so that upstream composition (§4.7 step 7) can walk it with
// plain slice indexing.
type Map struct {
	Sources        []string
	SourcesContent []string // parallel to Sources; "" if not inlined
	HasContent     []bool   // parallel to Sources; whether SourcesContent[i] is meaningful
	Names          []string
	Mappings       []Mapping
	IgnoreList     []int // indices into Sources, per the TC39 ignoreList field
}

// Find performs the same binary search the teacher's Mozilla-compatible
// "source-map" library implements: the last mapping at or before
// (line, column), restricted to the requested generated line. Used by
// AdjustMappings to resolve a new map's "original" position back through
// an upstream map's own generated coordinate space (§4.7 step 7).
func (m *Map) Find(line, column int) *Mapping {
	mappings := m.Mappings
	count := len(mappings)
	index := 0
	for count > 0 {
		step := count / 2
		i := index + step
		mapping := mappings[i]
		if mapping.GeneratedLine < line || (mapping.GeneratedLine == line && mapping.GeneratedColumn <= column) {
			index = i + 1
			count -= step + 1
		} else {
			count = step
		}
	}
	if index > 0 {
		mapping := &mappings[index-1]
		if mapping.GeneratedLine == line {
			return mapping
		}
	}
	return nil
}

// jsonMap mirrors the wire shape of a version-3 source map for decoding an
// upstream map. Encoding is done by hand with helpers.Joiner (Map.JSON)
// to match the teacher's own string-assembly idiom; stdlib encoding/json is
// used only for decoding, since no example repo in the pack wires in a
// third-party JSON library (see DESIGN.md).
type jsonMap struct {
	Version        int       `json:"version"`
	Sources        []string  `json:"sources"`
	SourcesContent []*string `json:"sourcesContent,omitempty"`
	Names          []string  `json:"names"`
	Mappings       string    `json:"mappings"`
	IgnoreList     []int     `json:"ignoreList,omitempty"`
}

// ParseUpstream decodes a version-3 source map's JSON text into a Map
// suitable as the receiver of AdjustMappings (§4.7 step 7).
func ParseUpstream(data []byte) (*Map, error) {
	var raw jsonMap
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("sourcemap: parse upstream map: %w", err)
	}

	m := &Map{
		Sources:    raw.Sources,
		Names:      raw.Names,
		IgnoreList: raw.IgnoreList,
	}
	if raw.SourcesContent != nil {
		m.SourcesContent = make([]string, len(raw.SourcesContent))
		m.HasContent = make([]bool, len(raw.SourcesContent))
		for i, c := range raw.SourcesContent {
			if c != nil {
				m.SourcesContent[i] = *c
				m.HasContent[i] = true
			}
		}
	}

	line := 0
	generatedColumn, sourceIndex, originalLine, originalColumn, nameIndex := 0, 0, 0, 0, 0
	i := 0
	data2 := []byte(raw.Mappings)
	for i < len(data2) {
		switch data2[i] {
		case ';':
			line++
			generatedColumn = 0
			i++
			continue
		case ',':
			i++
			continue
		}

		var delta int
		delta, i = DecodeVLQ(data2, i)
		generatedColumn += delta
		mapping := Mapping{GeneratedLine: line, GeneratedColumn: generatedColumn}

		if i < len(data2) && data2[i] != ',' && data2[i] != ';' {
			delta, i = DecodeVLQ(data2, i)
			sourceIndex += delta
			delta, i = DecodeVLQ(data2, i)
			originalLine += delta
			delta, i = DecodeVLQ(data2, i)
			originalColumn += delta
			mapping.HasSource = true
			mapping.SourceIndex = sourceIndex
			mapping.OriginalLine = originalLine
			mapping.OriginalColumn = originalColumn

			if i < len(data2) && data2[i] != ',' && data2[i] != ';' {
				delta, i = DecodeVLQ(data2, i)
				nameIndex += delta
				mapping.Name = ast.MakeIndex32(uint32(nameIndex))
			}
		}

		m.Mappings = append(m.Mappings, mapping)
	}

	return m, nil
}

// JSON renders m as a version-3 source map, using the teacher's
// Joiner + QuoteForJSON idiom for string assembly rather than
// encoding/json, so that large mappings strings are built with a single
// allocation (helpers.Joiner.Done).
func (m *Map) JSON(asciiOnly bool) []byte {
	j := helpers.Joiner{}
	j.AddString(`{"version":3,"sources":[`)
	for i, s := range m.Sources {
		if i != 0 {
			j.AddString(",")
		}
		j.AddBytes(helpers.QuoteForJSON(s, asciiOnly))
	}
	j.AddString("]")

	if len(m.SourcesContent) > 0 {
		j.AddString(`,"sourcesContent":[`)
		for i := range m.Sources {
			if i != 0 {
				j.AddString(",")
			}
			if i < len(m.HasContent) && m.HasContent[i] {
				j.AddBytes(helpers.QuoteForJSON(m.SourcesContent[i], asciiOnly))
			} else {
				j.AddString("null")
			}
		}
		j.AddString("]")
	}

	j.AddString(`,"names":[`)
	for i, n := range m.Names {
		if i != 0 {
			j.AddString(",")
		}
		j.AddBytes(helpers.QuoteForJSON(n, asciiOnly))
	}
	j.AddString("]")

	j.AddString(`,"mappings":"`)
	j.AddBytes(encodeMappings(m.Mappings))
	j.AddString(`"`)

	if len(m.IgnoreList) > 0 {
		j.AddString(`,"ignoreList":[`)
		for i, idx := range m.IgnoreList {
			if i != 0 {
				j.AddString(",")
			}
			j.AddString(fmt.Sprintf("%d", idx))
		}
		j.AddString("]")
	}

	j.AddString("}")
	return j.Done()
}

// encodeMappings VLQ-encodes a sorted []Mapping into the wire "mappings"
// string: ';' separates generated lines, ',' separates records on the same
// line, and every field is delta-encoded against the previous record with a
// source (a source-boundary marker resets nothing but itself carries no
// source/name fields, matching §4.7 step 6).
func encodeMappings(mappings []Mapping) []byte {
	var out []byte
	line := 0
	prevGenCol, prevSrc, prevOrigLine, prevOrigCol, prevName := 0, 0, 0, 0, 0
	first := true

	for _, mp := range mappings {
		for line < mp.GeneratedLine {
			out = append(out, ';')
			line++
			prevGenCol = 0
			first = true
		}
		if !first {
			out = append(out, ',')
		}
		first = false

		out = encodeVLQ(out, mp.GeneratedColumn-prevGenCol)
		prevGenCol = mp.GeneratedColumn

		if mp.HasSource && !mp.IsSourceBoundary {
			out = encodeVLQ(out, mp.SourceIndex-prevSrc)
			out = encodeVLQ(out, mp.OriginalLine-prevOrigLine)
			out = encodeVLQ(out, mp.OriginalColumn-prevOrigCol)
			prevSrc, prevOrigLine, prevOrigCol = mp.SourceIndex, mp.OriginalLine, mp.OriginalColumn

			if mp.Name.IsValid() {
				nameIdx := int(mp.Name.GetIndex())
				out = encodeVLQ(out, nameIdx-prevName)
				prevName = nameIdx
			}
		}
	}

	return out
}
