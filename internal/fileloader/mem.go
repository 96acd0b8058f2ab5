package fileloader

import "unicode/utf8"

// MemLoader is an in-memory Loader fake for tests, grounded in the
// teacher's internal/fs/fs_mock.go "map of path to contents" shape, trimmed
// to this module's narrower three-method capability set.
type MemLoader struct {
	Files map[string][]byte
}

var _ Loader = (*MemLoader)(nil)

func NewMemLoader() *MemLoader {
	return &MemLoader{Files: make(map[string][]byte)}
}

func (m *MemLoader) Add(path string, contents []byte) *MemLoader {
	m.Files[path] = contents
	return m
}

func (m *MemLoader) Exists(path string) bool {
	_, ok := m.Files[path]
	return ok
}

func (m *MemLoader) Absolute(path string) (string, bool) {
	if len(path) > 0 && path[0] == '/' {
		return path, true
	}
	return "/" + path, true
}

func (m *MemLoader) ReadUTF8(path string) (string, error) {
	contents, ok := m.Files[path]
	if !ok {
		return "", ErrNotFound
	}
	if !utf8.Valid(contents) {
		return "", ErrInvalidUTF8
	}
	return string(contents), nil
}
