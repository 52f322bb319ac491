package storage

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/san-kum/cardsim/internal/sim"
)

func runSession(t *testing.T) (sim.RunConfig, *sim.Result) {
	t.Helper()
	s, err := sim.NewSession(sim.DefaultConfig())
	require.NoError(t, err)

	rc := sim.RunConfig{FPS: 60, Duration: 2}
	script := sim.NewSchedule([]sim.Timed{{At: 0.1, Input: sim.Tap()}})
	result, err := s.Run(context.Background(), rc, script)
	require.NoError(t, err)
	return rc, result
}

func TestStoreSaveLoad(t *testing.T) {
	store := New(t.TempDir())
	require.NoError(t, store.Init())

	rc, result := runSession(t)
	runID, err := store.Save("tap", rc, "high", result)
	require.NoError(t, err)
	assert.Contains(t, runID, "tap_")

	meta, err := store.Load(runID)
	require.NoError(t, err)
	assert.Equal(t, runID, meta.ID)
	assert.Equal(t, "tap", meta.Scenario)
	assert.Equal(t, result.StepsTaken, meta.Steps)
	assert.Equal(t, "high", meta.Quality)
	assert.Equal(t, 1, meta.Notifications["card-lifted"])

	frames, err := store.LoadFrames(runID)
	require.NoError(t, err)
	require.Len(t, frames, len(result.Times))

	last := len(frames) - 1
	assert.Equal(t, result.States[last].String(), frames[last].State)
	assert.Equal(t, result.Flipped[last], frames[last].Flipped)
	assert.InDelta(t, result.Transforms[last].Position.Y(), frames[last].Transform.Position.Y(), 1e-5)
	assert.Equal(t, result.ParticleCounts[last], frames[last].Particles)
}

func TestStoreList(t *testing.T) {
	store := New(t.TempDir())
	require.NoError(t, store.Init())

	rc, result := runSession(t)
	for _, name := range []string{"a", "b", "c"} {
		_, err := store.Save(name, rc, "high", result)
		require.NoError(t, err)
	}

	runs, err := store.List()
	require.NoError(t, err)
	assert.Len(t, runs, 3)

	latest, err := store.Latest()
	require.NoError(t, err)
	assert.Equal(t, runs[2].ID, latest)
}

func TestStoreListMissingDir(t *testing.T) {
	store := New(filepath.Join(t.TempDir(), "nope"))
	runs, err := store.List()
	require.NoError(t, err)
	assert.Empty(t, runs)

	latest, err := store.Latest()
	require.NoError(t, err)
	assert.Empty(t, latest)
}

func TestStoreFileStructure(t *testing.T) {
	dir := t.TempDir()
	store := New(dir)
	require.NoError(t, store.Init())

	rc, result := runSession(t)
	runID, err := store.Save("layout", rc, "low", result)
	require.NoError(t, err)

	for _, name := range []string{metadataFile, framesFile} {
		_, err := os.Stat(filepath.Join(dir, runID, name))
		assert.NoError(t, err, name)
	}
}

func TestLoadFramesMalformed(t *testing.T) {
	dir := t.TempDir()
	store := New(dir)
	runDir := filepath.Join(dir, "broken")
	require.NoError(t, os.MkdirAll(runDir, 0755))

	body := "time,state,flipped,px,py,pz,rx,ry,rz,scale,particles\n0,idle,false,x,0,0,0,0,0,1,3\n"
	require.NoError(t, os.WriteFile(filepath.Join(runDir, framesFile), []byte(body), 0644))

	_, err := store.LoadFrames("broken")
	assert.ErrorIs(t, err, ErrMalformed)
}

func TestColumn(t *testing.T) {
	frames := []Frame{
		{Time: 0, State: "idle", Particles: 4},
		{Time: 1, State: "lifted", Particles: 9},
	}
	frames[1].Transform.Position[1] = 2.5

	py, err := Column(frames, "py")
	require.NoError(t, err)
	assert.Equal(t, []float64{0, 2.5}, py)

	states, err := Column(frames, "state")
	require.NoError(t, err)
	assert.Equal(t, []float64{0, 2}, states)

	_, err = Column(frames, "bogus")
	assert.Error(t, err)
}

func TestExportJSON(t *testing.T) {
	store := New(t.TempDir())
	require.NoError(t, store.Init())

	rc, result := runSession(t)
	runID, err := store.Save("export", rc, "medium", result)
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, store.WriteJSON(runID, &buf))

	var data ExportData
	require.NoError(t, json.Unmarshal(buf.Bytes(), &data))
	assert.Equal(t, runID, data.Run.ID)
	assert.Len(t, data.Times, len(result.Times))
	assert.Len(t, data.Positions, len(result.Times))

	out := filepath.Join(t.TempDir(), "run.json")
	require.NoError(t, store.ExportJSON(runID, out))
	info, err := os.Stat(out)
	require.NoError(t, err)
	assert.Positive(t, info.Size())
}
