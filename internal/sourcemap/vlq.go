// Package sourcemap implements the source-map emitter of §4.7/§2 item 5:
// converting a sorted list of (generated_position, source BytePos) mappings
// into a version-3 source map, optionally composing through a pre-existing
// upstream map. Grounded directly in the teacher's own
// internal/sourcemap/sourcemap.go, whose VLQ codec, Joiner-based JSON
// assembly, and binary-search Find are reused near verbatim; the parts tied
// to logger.Loc and to the bundler's parallel per-chunk joining are
// replaced with this module's own span.BytePos-keyed single-pass algorithm
// (see DESIGN.md for what was dropped and why).
package sourcemap

import "bytes"

var base64 = []byte("ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789+/")

// encodeVLQ appends value to encoded using the base64 variable-length
// quantity encoding the source-map spec uses: the low bit is the sign, the
// remaining bits are the magnitude split into 5-bit digits, and the 6th bit
// of each digit is the continuation flag.
func encodeVLQ(encoded []byte, value int) []byte {
	var vlq int
	if value < 0 {
		vlq = ((-value) << 1) | 1
	} else {
		vlq = value << 1
	}

	if (vlq >> 5) == 0 {
		return append(encoded, base64[vlq&31])
	}

	for {
		digit := vlq & 31
		vlq >>= 5
		if vlq != 0 {
			digit |= 32
		}
		encoded = append(encoded, base64[digit])
		if vlq == 0 {
			break
		}
	}
	return encoded
}

// DecodeVLQ decodes a single VLQ value starting at byte offset start,
// returning the value and the offset just past it.
func DecodeVLQ(encoded []byte, start int) (int, int) {
	shift := 0
	vlq := 0

	for start < len(encoded) {
		index := bytes.IndexByte(base64, encoded[start])
		if index < 0 {
			break
		}
		vlq |= (index & 31) << shift
		start++
		shift += 5
		if (index & 32) == 0 {
			break
		}
	}

	value := vlq >> 1
	if (vlq & 1) != 0 {
		value = -value
	}
	return value, start
}
