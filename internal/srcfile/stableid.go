package srcfile

import (
	"encoding/binary"

	"github.com/cespare/xxhash/v2"
)

// StableSourceFileId is a 128-bit hash of {name, was_remapped,
// unmapped_name} that is identical across runs for identical inputs
// (§3: "identical across runs for identical inputs"). It is built from two
// independent 64-bit xxhash sums so that a single-lane 64-bit collision
// does not collide the full 128-bit id; the two lanes are domain-separated
// by hashing a one-byte salt into the second digest before any field, so
// the two lanes never hash the same byte stream.
type StableSourceFileId [2]uint64

func computeStableSourceFileId(name FileName, wasRemapped bool, unmappedName FileName) StableSourceFileId {
	lo := xxhash.New()
	hi := xxhash.New()
	hi.Write([]byte{0x5a}) // domain-separation salt for the second lane

	writeField := func(s string) {
		var lenBuf [8]byte
		binary.LittleEndian.PutUint64(lenBuf[:], uint64(len(s)))
		lo.Write(lenBuf[:])
		lo.Write([]byte(s))
		hi.Write(lenBuf[:])
		hi.Write([]byte(s))
	}

	writeField(name.Kind.String())
	writeField(name.Path)
	if wasRemapped {
		lo.Write([]byte{1})
		hi.Write([]byte{1})
	} else {
		lo.Write([]byte{0})
		hi.Write([]byte{0})
	}
	writeField(unmappedName.Kind.String())
	writeField(unmappedName.Path)

	return StableSourceFileId{lo.Sum64(), hi.Sum64()}
}
