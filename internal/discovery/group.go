package discovery

import (
	"fmt"
	"iter"
	"os"
	"path/filepath"
	"slices"
	"strings"
)

// DefaultMarker separates a fragment's target path from its ordinal.
const DefaultMarker = ".FRAG-"

// Group is the set of fragments that rebuild one file.
type Group struct {
	// Base is the path of the file to rebuild.
	Base string

	// Fragments are sorted ascending; that order is the byte order of Base.
	Fragments []string
}

// BaseName returns path with everything from the first marker in its last
// element removed, and whether that element carries the marker at all.
//
// Only the last element is searched. A marker inside a directory name is
// ignored, so "x.FRAG-1/a.FRAG-2" has base "x.FRAG-1/a" rather than "x", which
// is what cutting at the first marker anywhere in the path would give.
func BaseName(path, marker string) (string, bool) {
	dir, name := filepath.Split(path)
	before, _, found := strings.Cut(name, marker)
	return dir + before, found
}

// GroupPaths collects every path carrying marker by its base name. Errors in
// the sequence are passed to onErr (which may be nil) and otherwise ignored.
// The result is sorted by Base and each Fragments list is sorted, so the
// outcome does not depend on the order paths arrive in.
func GroupPaths(paths iter.Seq2[string, error], marker string, onErr func(path string, err error)) []Group {
	byBase := make(map[string][]string)
	for path, err := range paths {
		if err != nil {
			if onErr != nil {
				onErr(path, err)
			}
			continue
		}
		base, ok := BaseName(path, marker)
		if !ok {
			continue
		}
		byBase[base] = append(byBase[base], path)
	}

	groups := make([]Group, 0, len(byBase))
	for base, frags := range byBase {
		slices.Sort(frags)
		groups = append(groups, Group{Base: base, Fragments: frags})
	}
	slices.SortFunc(groups, func(a, b Group) int { return strings.Compare(a.Base, b.Base) })
	return groups
}

// Discover walks root and groups the fragments found below it. Only a root
// that cannot be opened is an error; unreadable subdirectories go to onErr.
func Discover(root, marker string, onErr func(path string, err error)) ([]Group, error) {
	if marker == "" {
		return nil, fmt.Errorf("fragment marker must not be empty")
	}
	info, err := os.Stat(root)
	if err != nil {
		return nil, fmt.Errorf("discover fragments: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("discover fragments: %s is not a directory", root)
	}
	return GroupPaths(skipDirs(Walk(root), marker), marker, onErr), nil
}

// skipDirs drops directories whose names carry marker; only regular entries
// can be fragments.
func skipDirs(paths iter.Seq2[string, error], marker string) iter.Seq2[string, error] {
	return func(yield func(string, error) bool) {
		for path, err := range paths {
			if err == nil && strings.Contains(filepath.Base(path), marker) {
				if info, statErr := os.Lstat(path); statErr == nil && info.IsDir() {
					continue
				}
			}
			if !yield(path, err) {
				return
			}
		}
	}
}
