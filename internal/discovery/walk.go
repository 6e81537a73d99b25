package discovery

import (
	"iter"
	"os"
	"path/filepath"
)

// Walk returns a lazy, depth-first sequence of every entry below root,
// directories included. A directory's own entries come before anything in
// its subdirectories, and subdirectories are visited in name order.
//
// Directories that cannot be listed are reported as (path, err) pairs and
// skipped. Symlinks are never followed. The sequence can be ranged over any
// number of times; each pass walks the tree afresh.
func Walk(root string) iter.Seq2[string, error] {
	return func(yield func(string, error) bool) {
		pending := []string{root}
		for len(pending) > 0 {
			dir := pending[len(pending)-1]
			pending = pending[:len(pending)-1]

			entries, err := os.ReadDir(dir)
			if err != nil {
				if !yield(dir, err) {
					return
				}
				continue
			}

			var subdirs []string
			for _, e := range entries {
				path := filepath.Join(dir, e.Name())
				if !yield(path, nil) {
					return
				}
				if e.IsDir() {
					subdirs = append(subdirs, path)
				}
			}
			for i := len(subdirs) - 1; i >= 0; i-- {
				pending = append(pending, subdirs[i])
			}
		}
	}
}
