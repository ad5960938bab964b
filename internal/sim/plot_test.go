package sim

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/banshee-data/frontier.explorer/internal/fsutil"
	"github.com/banshee-data/frontier.explorer/internal/occupancy"
	"github.com/banshee-data/frontier.explorer/internal/security"
)

var pngMagic = []byte("\x89PNG\r\n\x1a\n")

func frameDir(t *testing.T) string {
	return filepath.Join(os.TempDir(), "frontier-frames-"+security.SanitizeFilename(t.Name()))
}

func TestFramePlotter_WriteFrame(t *testing.T) {
	mem := fsutil.NewMemoryFileSystem()
	dir := frameDir(t)
	fp, err := NewFramePlotter(mem, dir, 2)
	require.NoError(t, err)
	assert.True(t, mem.Exists(dir))

	grid, start := DefaultScenario()
	res, err := LocalSelector{}.Select(context.Background(), grid, start)
	require.NoError(t, err)

	frame := Frame{RunID: "run/1", Step: 3, Grid: grid, Robot: start, Target: res.Target, Frontiers: res.Frontiers}
	require.NoError(t, fp.WriteFrame(frame))

	path := fp.FramePath("run/1", 3)
	assert.Equal(t, filepath.Join(dir, "run_1_step_003.png"), path)
	data, err := mem.ReadFile(path)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(data, pngMagic), "frame should be a PNG")
}

func TestFramePlotter_DegenerateGrid(t *testing.T) {
	mem := fsutil.NewMemoryFileSystem()
	fp, err := NewFramePlotter(mem, frameDir(t), 1)
	require.NoError(t, err)

	// A single-column grid has no heat map layer but still renders.
	grid := occupancy.New(1, 4, occupancy.Free)
	require.NoError(t, fp.WriteFrame(Frame{RunID: "r", Grid: grid, Robot: occupancy.Cell{}}))
	assert.Len(t, mem.Files(), 1)
}

func TestFramePlotter_WithSimulator(t *testing.T) {
	mem := fsutil.NewMemoryFileSystem()
	fp, err := NewFramePlotter(mem, frameDir(t), 1)
	require.NoError(t, err)

	sim, _, _ := newTestSim(corridorGrid(t), occupancy.Cell{X: 3, Y: 1}, LocalSelector{}, 10)
	sim.Frames = fp
	sum, err := sim.Run(context.Background())
	require.NoError(t, err)

	assert.Len(t, mem.Files(), 3)
	for step := 0; step < 3; step++ {
		assert.True(t, mem.Exists(fp.FramePath(sum.RunID, step)))
	}
}

func TestNewFramePlotter_Rejects(t *testing.T) {
	mem := fsutil.NewMemoryFileSystem()

	_, err := NewFramePlotter(mem, "/proc/frontier-frames", 2)
	assert.ErrorIs(t, err, security.ErrPathEscapes)

	_, err = NewFramePlotter(mem, frameDir(t), 0)
	assert.Error(t, err)
	assert.Empty(t, mem.Files())
}

func TestGridXYZ(t *testing.T) {
	g, err := occupancy.FromRows([][]int{{-1, 0}, {1, 9}})
	require.NoError(t, err)
	v := gridXYZ{g}

	c, r := v.Dims()
	assert.Equal(t, 2, c)
	assert.Equal(t, 2, r)
	assert.Equal(t, -1.0, v.Z(0, 0))
	assert.Equal(t, 0.0, v.Z(0, 1))
	assert.Equal(t, 1.0, v.Z(1, 0))
	assert.Equal(t, 1.0, v.Z(1, 1), "malformed draws as occupied")
	assert.Equal(t, 1.0, v.X(1))
	assert.Equal(t, 1.0, v.Y(1))
}
