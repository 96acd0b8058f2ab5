package fileloader

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"unicode/utf8"
)

// OSLoader is the Loader backed by the host filesystem, the only
// implementation this module ships (§2 item 3: "one implementation backs
// it with the host filesystem").
type OSLoader struct{}

var _ Loader = OSLoader{}

func (OSLoader) Exists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}

func (OSLoader) Absolute(path string) (string, bool) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", false
	}
	return abs, true
}

func (OSLoader) ReadUTF8(path string) (string, error) {
	bytes, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return "", fmt.Errorf("%w: %w", ErrNotFound, err)
		}
		return "", err
	}
	if !utf8.Valid(bytes) {
		return "", ErrInvalidUTF8
	}
	return string(bytes), nil
}
