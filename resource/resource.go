// Package resource resolves logical model names to payload bytes.
//
// Sources report a missing name with an error wrapping fs.ErrNotExist so
// callers can tell "not packaged" apart from I/O failures.
package resource

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"
)

// Source reads named model payloads.
type Source interface {
	ReadFile(name string) ([]byte, error)
}

// SourceFunc adapts a function to a Source.
type SourceFunc func(name string) ([]byte, error)

// ReadFile calls f(name).
func (f SourceFunc) ReadFile(name string) ([]byte, error) {
	return f(name)
}

type fsSource struct {
	fsys fs.FS
}

// FS serves resources from a file system, typically an embed.FS or os.DirFS.
func FS(fsys fs.FS) Source {
	return fsSource{fsys: fsys}
}

// Dir serves resources from a directory on disk.
func Dir(path string) Source {
	return fsSource{fsys: os.DirFS(path)}
}

func (s fsSource) ReadFile(name string) ([]byte, error) {
	if !fs.ValidPath(name) {
		return nil, fmt.Errorf("resource %q: %w", name, fs.ErrNotExist)
	}
	data, err := fs.ReadFile(s.fsys, name)
	if err != nil {
		return nil, fmt.Errorf("resource %q: %w", name, err)
	}
	return data, nil
}

type chain []Source

// Chain tries each source in order and returns the first payload found.
// Lookup moves to the next source only when a source reports fs.ErrNotExist.
func Chain(sources ...Source) Source {
	return chain(sources)
}

func (c chain) ReadFile(name string) ([]byte, error) {
	for _, s := range c {
		data, err := s.ReadFile(name)
		if err == nil {
			return data, nil
		}
		if !errors.Is(err, fs.ErrNotExist) {
			return nil, err
		}
	}
	return nil, fmt.Errorf("resource %q: %w", name, fs.ErrNotExist)
}

// Empty is a Source with no resources.
var Empty Source = SourceFunc(func(name string) ([]byte, error) {
	return nil, fmt.Errorf("resource %q: %w", name, fs.ErrNotExist)
})

// cleanName normalises bundle keys to slash-separated relative names.
func cleanName(name string) string {
	return strings.TrimPrefix(strings.ReplaceAll(name, "\\", "/"), "./")
}
