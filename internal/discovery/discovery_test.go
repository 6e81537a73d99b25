package discovery

import (
	"errors"
	"iter"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func touch(t *testing.T, root string, rel ...string) {
	t.Helper()
	for _, r := range rel {
		path := filepath.Join(root, r)
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte(r), 0o644))
	}
}

func collect(seq iter.Seq2[string, error]) []string {
	var out []string
	for p, err := range seq {
		if err == nil {
			out = append(out, p)
		}
	}
	return out
}

func sliceSeq(paths []string) iter.Seq2[string, error] {
	return func(yield func(string, error) bool) {
		for _, p := range paths {
			if !yield(p, nil) {
				return
			}
		}
	}
}

func TestWalk_DepthFirstOrder(t *testing.T) {
	root := t.TempDir()
	touch(t, root, "a.txt", "b/c.txt", "b/d/e.txt", "f/g.txt")

	got := collect(Walk(root))
	want := []string{
		filepath.Join(root, "a.txt"),
		filepath.Join(root, "b"),
		filepath.Join(root, "f"),
		filepath.Join(root, "b", "c.txt"),
		filepath.Join(root, "b", "d"),
		filepath.Join(root, "b", "d", "e.txt"),
		filepath.Join(root, "f", "g.txt"),
	}
	assert.Equal(t, want, got)
}

func TestWalk_Restartable(t *testing.T) {
	root := t.TempDir()
	touch(t, root, "x", "y/z")

	seq := Walk(root)
	first := collect(seq)
	second := collect(seq)
	assert.Equal(t, first, second)
	assert.Len(t, first, 3)
}

func TestWalk_StopsWhenConsumerStops(t *testing.T) {
	root := t.TempDir()
	touch(t, root, "1", "2", "3")

	n := 0
	for range Walk(root) {
		n++
		if n == 2 {
			break
		}
	}
	assert.Equal(t, 2, n)
}

func TestWalk_MissingRootYieldsError(t *testing.T) {
	var errs []error
	for _, err := range Walk(filepath.Join(t.TempDir(), "nope")) {
		if err != nil {
			errs = append(errs, err)
		}
	}
	require.Len(t, errs, 1)
	assert.True(t, errors.Is(errs[0], os.ErrNotExist))
}

func TestBaseName(t *testing.T) {
	base, ok := BaseName("dir/report.txt.FRAG-00001", DefaultMarker)
	assert.True(t, ok)
	assert.Equal(t, "dir/report.txt", base)

	base, ok = BaseName("a.FRAG-b.FRAG-1", DefaultMarker)
	assert.True(t, ok)
	assert.Equal(t, "a", base, "split happens at the first marker")

	_, ok = BaseName("plain.txt", DefaultMarker)
	assert.False(t, ok)

	_, ok = BaseName(filepath.Join("x.FRAG-1", "plain.txt"), DefaultMarker)
	assert.False(t, ok, "markers in directory names do not count")

	base, ok = BaseName(filepath.Join("x.FRAG-1", "y.txt.FRAG-2"), DefaultMarker)
	assert.True(t, ok)
	assert.Equal(t, filepath.Join("x.FRAG-1", "y.txt"), base)
}

func TestGroupPaths_InsensitiveToInputOrder(t *testing.T) {
	paths := []string{
		"r.txt.FRAG-00002", "other", "s.bin.FRAG-1", "r.txt.FRAG-00000", "r.txt.FRAG-00001",
	}
	reversed := make([]string, len(paths))
	for i, p := range paths {
		reversed[len(paths)-1-i] = p
	}

	want := []Group{
		{Base: "r.txt", Fragments: []string{"r.txt.FRAG-00000", "r.txt.FRAG-00001", "r.txt.FRAG-00002"}},
		{Base: "s.bin", Fragments: []string{"s.bin.FRAG-1"}},
	}
	assert.Equal(t, want, GroupPaths(sliceSeq(paths), DefaultMarker, nil))
	assert.Equal(t, want, GroupPaths(sliceSeq(reversed), DefaultMarker, nil))
}

func TestGroupPaths_ReportsErrors(t *testing.T) {
	boom := errors.New("permission denied")
	seq := func(yield func(string, error) bool) {
		if !yield("locked", boom) {
			return
		}
		yield("a.FRAG-0", nil)
	}

	var seen []string
	groups := GroupPaths(seq, DefaultMarker, func(path string, err error) {
		seen = append(seen, path)
		assert.ErrorIs(t, err, boom)
	})
	assert.Equal(t, []string{"locked"}, seen)
	require.Len(t, groups, 1)
	assert.Equal(t, "a", groups[0].Base)
}

func TestDiscover_FindsNestedFragments(t *testing.T) {
	root := t.TempDir()
	touch(t, root,
		"one/report.txt.FRAG-00001",
		"one/report.txt.FRAG-00000",
		"two/data.bin.FRAG-00000",
		"two/readme.md")

	groups, err := Discover(root, DefaultMarker, nil)
	require.NoError(t, err)
	require.Len(t, groups, 2)
	assert.Equal(t, filepath.Join(root, "one", "report.txt"), groups[0].Base)
	assert.Equal(t, []string{
		filepath.Join(root, "one", "report.txt.FRAG-00000"),
		filepath.Join(root, "one", "report.txt.FRAG-00001"),
	}, groups[0].Fragments)
	assert.Equal(t, filepath.Join(root, "two", "data.bin"), groups[1].Base)
}

func TestDiscover_SkipsMarkerDirectories(t *testing.T) {
	root := t.TempDir()
	touch(t, root,
		"odd.FRAG-00000/inner.txt",
		"odd.FRAG-00001",
		"real.bin.FRAG-00000")

	groups, err := Discover(root, DefaultMarker, nil)
	require.NoError(t, err)
	require.Len(t, groups, 2)
	assert.Equal(t, []string{filepath.Join(root, "odd.FRAG-00001")}, groups[0].Fragments)
	assert.Equal(t, filepath.Join(root, "real.bin"), groups[1].Base)
}

func TestDiscover_BadRoot(t *testing.T) {
	_, err := Discover(filepath.Join(t.TempDir(), "missing"), DefaultMarker, nil)
	assert.Error(t, err)

	file := filepath.Join(t.TempDir(), "f")
	require.NoError(t, os.WriteFile(file, nil, 0o644))
	_, err = Discover(file, DefaultMarker, nil)
	assert.Error(t, err)

	_, err = Discover(t.TempDir(), "", nil)
	assert.Error(t, err)
}
