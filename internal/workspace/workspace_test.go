package workspace

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateAndLoadRun(t *testing.T) {
	m := NewManager(t.TempDir())

	run, err := m.CreateRun("abc123")
	require.NoError(t, err)
	assert.Equal(t, "created", run.Status)
	assert.DirExists(t, run.BasePath)

	loaded, err := m.LoadRun("abc123")
	require.NoError(t, err)
	assert.Equal(t, run.ID, loaded.ID)
	assert.Equal(t, run.BasePath, loaded.BasePath)
}

func TestListRunsSkipsBrokenEntries(t *testing.T) {
	dir := t.TempDir()
	m := NewManager(dir)

	_, err := m.CreateRun("one")
	require.NoError(t, err)
	_, err = m.CreateRun("two")
	require.NoError(t, err)

	// A directory without run.json is ignored.
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "stray"), 0755))

	runs, err := m.ListRuns()
	require.NoError(t, err)
	assert.Len(t, runs, 2)
}

func TestArtifactBaseIsPerRun(t *testing.T) {
	m := NewManager(t.TempDir())

	a, err := m.CreateRun("a")
	require.NoError(t, err)
	b, err := m.CreateRun("b")
	require.NoError(t, err)

	assert.NotEqual(t, m.ArtifactBase(a), m.ArtifactBase(b),
		"concurrent runs must not share an artifact base path")
}

func TestScanAndRecoverRun(t *testing.T) {
	m := NewManager(t.TempDir())

	run, err := m.CreateRun("rec")
	require.NoError(t, err)

	require.NoError(t, os.WriteFile(filepath.Join(run.BasePath, "source.png"), []byte("img"), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(run.BasePath, "output.mp4"), []byte("vid"), 0644))

	require.NoError(t, m.ScanAndRecoverRun("rec"))

	recovered, err := m.LoadRun("rec")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(run.BasePath, "source.png"), recovered.SourceFile)
	assert.Equal(t, filepath.Join(run.BasePath, "output.mp4"), recovered.OutputFile)
	assert.Equal(t, "completed", recovered.Status)
}
