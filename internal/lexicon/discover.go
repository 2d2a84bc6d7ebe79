package lexicon

import (
	"io/fs"
	"path/filepath"
	"sort"
	"strings"

	"gitlab.com/tozd/go/errors"
)

// DefaultExcludeDirs are directory names never searched for lexicons.
func DefaultExcludeDirs() []string {
	return []string{".git", "node_modules"}
}

// Discover returns every *.json file below root, sorted by path so that runs
// over the same tree process files in the same order.
func Discover(root string) ([]string, error) {
	excluded := make(map[string]bool)
	for _, dir := range DefaultExcludeDirs() {
		excluded[dir] = true
	}

	var files []string
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if path != root && excluded[d.Name()] {
				return filepath.SkipDir
			}
			return nil
		}
		if strings.HasSuffix(d.Name(), ".json") {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return nil, errors.Errorf("discovering lexicons in %s: %w", root, err)
	}

	sort.Strings(files)
	return files, nil
}
