// Package fileloader is the minimal capability set §4.1/§6 requires:
// {exists, absolute, read_utf8}. It intentionally does not attempt to be a
// general virtual filesystem (the teacher's internal/fs, with its mock/zip/
// wasm backends, is far larger than this spec needs — see DESIGN.md).
package fileloader

import "errors"

// ErrInvalidUTF8 is returned by ReadUTF8 when a file's bytes are not valid
// UTF-8. BOM stripping is explicitly the caller's job (§6: "BOM stripping
// is performed by the core, not the loader"), so Loader implementations
// must not strip one.
var ErrInvalidUTF8 = errors.New("fileloader: file contents are not valid UTF-8")

// ErrNotFound is returned by ReadUTF8 when the path does not exist.
var ErrNotFound = errors.New("fileloader: file not found")

// Loader is the capability set a SourceMap needs from the host environment
// to resolve and read files. It is deliberately narrow so that tests can
// supply an in-memory fake without reimplementing a filesystem.
type Loader interface {
	// Exists reports whether path names a file the loader can read.
	Exists(path string) bool

	// Absolute resolves path to an absolute form, or returns ok=false if it
	// cannot be resolved (e.g. a non-filesystem name).
	Absolute(path string) (resolved string, ok bool)

	// ReadUTF8 reads the full contents of path, returning ErrInvalidUTF8 if
	// the bytes are not valid UTF-8.
	ReadUTF8(path string) (string, error)
}
