package orchestrator

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/dusk-indust/reassemble/internal/discovery"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFanOut_AllFilesSucceed(t *testing.T) {
	dir := t.TempDir()
	var groups []discovery.Group
	wants := map[string]string{}
	for _, name := range []string{"a.iso", "b.tar", "c.log"} {
		frags, want := writeFragments(t, dir, name, 13)
		base := filepath.Join(dir, name)
		groups = append(groups, discovery.Group{Base: base, Fragments: frags})
		wants[base] = want
	}

	fanout := NewFanOut(NewDriver(testConfig(3), fileRunner()))
	results, err := fanout.Run(context.Background(), groups)
	require.NoError(t, err)
	require.Len(t, results, 3)

	for i, res := range results {
		assert.Equal(t, groups[i].Base, res.Base)
		assert.NoError(t, res.Err)
		require.NotNil(t, res.Result)
		assert.Equal(t, wants[res.Base], readString(t, res.Base))
	}
}

func TestFanOut_OneFailureDoesNotAffectOthers(t *testing.T) {
	dir := t.TempDir()
	goodFrags, want := writeFragments(t, dir, "good", 5)
	badFrags, _ := writeFragments(t, dir, "bad", 5)
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "bad", "occupied"), 0o755))

	groups := []discovery.Group{
		{Base: filepath.Join(dir, "bad"), Fragments: badFrags},
		{Base: filepath.Join(dir, "good"), Fragments: goodFrags},
	}

	results, err := NewFanOut(NewDriver(testConfig(2), fileRunner())).Run(context.Background(), groups)
	require.Error(t, err)
	require.Len(t, results, 2)

	assert.Error(t, results[0].Err)
	assert.Nil(t, results[0].Result)
	assert.NoError(t, results[1].Err)
	assert.Equal(t, want, readString(t, filepath.Join(dir, "good")))
}

func TestFanOut_NoGroups(t *testing.T) {
	results, err := NewFanOut(NewDriver(testConfig(2), fileRunner())).Run(context.Background(), nil)
	require.NoError(t, err)
	assert.Empty(t, results)
}
