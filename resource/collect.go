package resource

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"

	"github.com/bmatcuk/doublestar/v4"
)

// Collect walks root and returns the slash-separated relative paths of
// files matching any include pattern and no exclude pattern. No includes
// means every file. Paths are sorted.
func Collect(root string, includes, excludes []string) ([]string, error) {
	if len(includes) == 0 {
		includes = []string{"**/*"}
	}

	var names []string
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}

		rel, err := filepath.Rel(root, path)
		if err != nil {
			return err
		}
		rel = filepath.ToSlash(rel)

		if d.IsDir() {
			if rel != "." && matchAny(excludes, rel+"/") {
				return filepath.SkipDir
			}
			return nil
		}

		if matchAny(includes, rel) && !matchAny(excludes, rel) {
			names = append(names, rel)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("collect %s: %w", root, err)
	}

	sort.Strings(names)
	return names, nil
}

func matchAny(patterns []string, path string) bool {
	for _, pattern := range patterns {
		matched, err := doublestar.Match(pattern, path)
		if err == nil && matched {
			return true
		}
	}
	return false
}

// WriteBundle copies the named files under root into a bundle at path.
// progress, if non-nil, is called after each file.
func WriteBundle(path, root string, names []string, progress func(done, total int, name string)) error {
	b, err := CreateBundle(path)
	if err != nil {
		return err
	}

	for i, name := range names {
		data, err := os.ReadFile(filepath.Join(root, filepath.FromSlash(name)))
		if err != nil {
			_ = b.Close()
			return fmt.Errorf("read %s: %w", name, err)
		}
		if err := b.Put(name, data); err != nil {
			_ = b.Close()
			return fmt.Errorf("store %s: %w", name, err)
		}
		if progress != nil {
			progress(i+1, len(names), name)
		}
	}

	return b.Close()
}
