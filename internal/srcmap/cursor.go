package srcmap

import (
	"github.com/srcspan/srcspan/internal/span"
	"github.com/srcspan/srcspan/internal/srcfile"
)

// ByteToCharPosState is the cursor cache of §4.5 and §9: {last_pos,
// last_extra, last_mbc_index}, renamed to match the field names used here.
// The zero value is a valid starting cursor (position 0, no accumulated
// correction, scanning from the start of multibyte_chars). It must never be
// shared between concurrent callers or across unrelated query sequences;
// pass it as a local variable, as the emitter does per source file (§4.7
// step 2: "Reset the cursor caches of 4.5 on file change").
type ByteToCharPosState struct {
	Pos             span.BytePos
	TotalExtraBytes uint32
	MbcIndex        int
}

// diffFunc extracts the per-character correction this cursor accumulates;
// BytePosToCharPos and BytePosToUTF16Offset differ only in which one they
// pass.
type diffFunc func(srcfile.MultiByteChar) uint32

// advance is the shared forward/backward walk described in §4.5: if
// queryPos is at or ahead of the cursor, scan forward through
// multibyte_chars accumulating deltas of entries strictly before queryPos;
// otherwise rewind, subtracting deltas of entries at or past queryPos.
func advance(file *srcfile.SourceFile, queryPos span.BytePos, state *ByteToCharPosState, diff diffFunc) {
	mbcs := file.Analysis().MultibyteChars

	if queryPos >= state.Pos {
		for state.MbcIndex < len(mbcs) {
			mbc := mbcs[state.MbcIndex]
			if mbc.Pos >= queryPos {
				break
			}
			state.TotalExtraBytes += diff(mbc)
			state.MbcIndex++
		}
	} else {
		for state.MbcIndex > 0 {
			mbc := mbcs[state.MbcIndex-1]
			if mbc.Pos < queryPos {
				break
			}
			state.TotalExtraBytes -= diff(mbc)
			state.MbcIndex--
		}
	}

	state.Pos = queryPos
}

// BytePosToCharPos converts an absolute BytePos within file to a CharPos
// (Unicode scalar index within the file), using and updating the supplied
// cursor (§4.5: "CharPos = (pos − start_pos) − total_extra_bytes").
func BytePosToCharPos(file *srcfile.SourceFile, pos span.BytePos, state *ByteToCharPosState) span.CharPos {
	advance(file, pos, state, srcfile.MultiByteChar.ByteToCharDiff)
	return span.CharPos(uint32(pos-file.StartPos) - state.TotalExtraBytes)
}

// BytePosToUTF16Offset converts an absolute BytePos within file to a
// UTF-16 code-unit offset from the file's start, using and updating the
// supplied cursor (§4.5: surrogate pairs contribute `bytes − 2`).
func BytePosToUTF16Offset(file *srcfile.SourceFile, pos span.BytePos, state *ByteToCharPosState) uint32 {
	advance(file, pos, state, srcfile.MultiByteChar.ByteToUTF16Diff)
	return uint32(pos-file.StartPos) - state.TotalExtraBytes
}
