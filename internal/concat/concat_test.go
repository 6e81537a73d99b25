package concat

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// writeFiles creates each name under dir with the given content and returns
// the absolute paths in the same order.
func writeFiles(t *testing.T, dir string, names []string, contents []string) []string {
	t.Helper()
	paths := make([]string, len(names))
	for i, name := range names {
		paths[i] = filepath.Join(dir, name)
		require.NoError(t, os.WriteFile(paths[i], []byte(contents[i]), 0o644))
	}
	return paths
}

func readFile(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	return string(data)
}

func TestAppender_AppendsInOrderAndRemovesSecondaries(t *testing.T) {
	dir := t.TempDir()
	paths := writeFiles(t, dir,
		[]string{"a.FRAG-0", "a.FRAG-1", "a.FRAG-2"},
		[]string{"AAA", "BBB", "CCC"})

	err := NewAppender(zerolog.Nop()).Concat(paths)
	require.NoError(t, err)

	assert.Equal(t, "AAABBBCCC", readFile(t, paths[0]))
	assert.NoFileExists(t, paths[1])
	assert.NoFileExists(t, paths[2])
}

func TestAppender_SingleEntryIsNoop(t *testing.T) {
	dir := t.TempDir()
	paths := writeFiles(t, dir, []string{"only"}, []string{"xyz"})

	require.NoError(t, NewAppender(zerolog.Nop()).Concat(paths))
	assert.Equal(t, "xyz", readFile(t, paths[0]))
}

func TestAppender_EmptyLeaderIsNoop(t *testing.T) {
	dir := t.TempDir()
	paths := writeFiles(t, dir, []string{"b"}, []string{"keep"})

	require.NoError(t, NewAppender(zerolog.Nop()).Concat([]string{"", paths[0]}))
	assert.FileExists(t, paths[0])
}

func TestAppender_SkipsPlaceholdersAndMissingFiles(t *testing.T) {
	dir := t.TempDir()
	paths := writeFiles(t, dir, []string{"l", "r"}, []string{"left-", "right"})
	missing := filepath.Join(dir, "gone")

	err := NewAppender(zerolog.Nop()).Concat([]string{paths[0], "", missing, paths[1], ""})
	require.NoError(t, err)
	assert.Equal(t, "left-right", readFile(t, paths[0]))
	assert.NoFileExists(t, paths[1])
}

func TestAppender_MissingLeader_ReturnsIOError(t *testing.T) {
	dir := t.TempDir()
	paths := writeFiles(t, dir, []string{"second"}, []string{"data"})

	err := NewAppender(zerolog.Nop()).Concat([]string{filepath.Join(dir, "absent"), paths[0]})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrIO)
	assert.ErrorIs(t, err, os.ErrNotExist)
	assert.FileExists(t, paths[0], "secondary must survive a failed open")
}

func TestAppender_UnreadableSecondary_KeepsPartialProgress(t *testing.T) {
	dir := t.TempDir()
	paths := writeFiles(t, dir, []string{"lead", "ok"}, []string{"1", "2"})
	// A directory exists but cannot be read as a file.
	blocker := filepath.Join(dir, "blocker")
	require.NoError(t, os.Mkdir(blocker, 0o755))
	tail := writeFiles(t, dir, []string{"tail"}, []string{"3"})[0]

	err := NewAppender(zerolog.Nop()).Concat([]string{paths[0], paths[1], blocker, tail})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrIO)

	assert.Equal(t, "12", readFile(t, paths[0]))
	assert.NoFileExists(t, paths[1])
	assert.FileExists(t, tail)

	// Once the obstacle is gone the same list completes without duplication.
	require.NoError(t, os.Remove(blocker))
	require.NoError(t, NewAppender(zerolog.Nop()).Concat([]string{paths[0], paths[1], blocker, tail}))
	assert.Equal(t, "123", readFile(t, paths[0]))
}

func TestAppender_FlushFailure_KeepsSecondary(t *testing.T) {
	if _, err := os.Stat("/dev/full"); err != nil {
		t.Skip("/dev/full not available")
	}
	dir := t.TempDir()
	leader := filepath.Join(dir, "lead")
	require.NoError(t, os.Symlink("/dev/full", leader))
	sec := writeFiles(t, dir, []string{"sec"}, []string{"payload"})[0]

	err := NewAppender(zerolog.Nop()).Concat([]string{leader, sec})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrIO)
	assert.Equal(t, "payload", readFile(t, sec))
}

func TestAppender_RemoveFailure_CutsBackAppend(t *testing.T) {
	dir := t.TempDir()
	paths := writeFiles(t, dir,
		[]string{"lead", "a", "b"},
		[]string{"1", "22", "333"})

	a := NewAppender(zerolog.Nop())
	failed := false
	a.remove = func(name string) error {
		if name == paths[2] && !failed {
			failed = true
			return errors.New("device busy")
		}
		return os.Remove(name)
	}

	err := a.Concat(paths)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrIO)
	assert.Equal(t, "122", readFile(t, paths[0]))
	assert.NoFileExists(t, paths[1])
	assert.FileExists(t, paths[2])

	require.NoError(t, a.Concat(paths))
	assert.Equal(t, "122333", readFile(t, paths[0]))
	assert.NoFileExists(t, paths[2])
}

func TestFunc_AdaptsFunction(t *testing.T) {
	var got []string
	var c Concatenator = Func(func(files []string) error {
		got = files
		return nil
	})
	require.NoError(t, c.Concat([]string{"x", "y"}))
	assert.Equal(t, []string{"x", "y"}, got)
}
