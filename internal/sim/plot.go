package sim

import (
	"fmt"
	"image/color"
	"path/filepath"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"

	"github.com/banshee-data/frontier.explorer/internal/fsutil"
	"github.com/banshee-data/frontier.explorer/internal/occupancy"
	"github.com/banshee-data/frontier.explorer/internal/security"
)

// cellPalette colours Unknown, Free and Occupied in that order.
type cellPalette struct{}

func (cellPalette) Colors() []color.Color {
	return []color.Color{
		color.Gray{Y: 0x80},
		color.Gray{Y: 0xff},
		color.Gray{Y: 0x00},
	}
}

// gridXYZ adapts an occupancy grid to plotter.GridXYZ. Column c is X,
// row r is Y. Malformed values draw as occupied.
type gridXYZ struct{ g *occupancy.Grid }

func (v gridXYZ) Dims() (c, r int) { return v.g.Width(), v.g.Height() }

func (v gridXYZ) Z(c, r int) float64 {
	z := v.g.At(occupancy.Cell{X: c, Y: r})
	if !occupancy.IsKnownState(z) {
		z = occupancy.Occupied
	}
	return float64(z)
}

func (v gridXYZ) X(c int) float64 { return float64(c) }
func (v gridXYZ) Y(r int) float64 { return float64(r) }

// FramePlotter renders frames as PNG files named <run>_step_<n>.png.
type FramePlotter struct {
	fs   fsutil.FileSystem
	dir  string
	size vg.Length
}

// NewFramePlotter writes square frames of sizeInches into dir, creating it
// if needed. dir must lie within the working directory or the temp dir.
func NewFramePlotter(fsys fsutil.FileSystem, dir string, sizeInches float64) (*FramePlotter, error) {
	if err := security.ValidateOutputPath(dir); err != nil {
		return nil, err
	}
	if sizeInches <= 0 {
		return nil, fmt.Errorf("frame size must be positive, got %f", sizeInches)
	}
	if err := fsys.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create frame dir: %w", err)
	}
	return &FramePlotter{fs: fsys, dir: dir, size: vg.Length(sizeInches) * vg.Inch}, nil
}

// FramePath returns where the frame for step of run is written.
func (fp *FramePlotter) FramePath(runID string, step int) string {
	name := security.SanitizeFilename(fmt.Sprintf("%s_step_%03d.png", runID, step))
	return filepath.Join(fp.dir, name)
}

// WriteFrame renders f and writes it to FramePath.
func (fp *FramePlotter) WriteFrame(f Frame) error {
	p, err := framePlot(f)
	if err != nil {
		return err
	}
	wt, err := p.WriterTo(fp.size, fp.size, "png")
	if err != nil {
		return fmt.Errorf("failed to render frame: %w", err)
	}

	path := fp.FramePath(f.RunID, f.Step)
	w, err := fp.fs.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	if _, err := wt.WriteTo(w); err != nil {
		w.Close()
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return w.Close()
}

type scatterLayer struct {
	label string
	pts   plotter.XYs
	color color.Color
	shape draw.GlyphDrawer
}

func framePlot(f Frame) (*plot.Plot, error) {
	p := plot.New()
	p.Title.Text = fmt.Sprintf("Step %d", f.Step)
	p.X.Label.Text = "X (cell)"
	p.Y.Label.Text = "Y (cell)"

	// HeatMap needs at least two cells per axis to size its tiles.
	if f.Grid.Width() >= 2 && f.Grid.Height() >= 2 {
		hm := plotter.NewHeatMap(gridXYZ{f.Grid}, cellPalette{})
		hm.Min, hm.Max = occupancy.Unknown, occupancy.Occupied
		p.Add(hm)
	}

	var frontierPts plotter.XYs
	for x, row := range f.Frontiers {
		for y, v := range row {
			if v != 0 {
				frontierPts = append(frontierPts, plotter.XY{X: float64(x), Y: float64(y)})
			}
		}
	}

	layers := []scatterLayer{
		{"Frontier", frontierPts, color.RGBA{R: 0xff, G: 0x98, B: 0x00, A: 0xff}, draw.BoxGlyph{}},
		{"Robot", plotter.XYs{{X: float64(f.Robot.X), Y: float64(f.Robot.Y)}}, color.RGBA{B: 0xff, A: 0xff}, draw.CircleGlyph{}},
	}
	if f.Target != nil {
		layers = append(layers, scatterLayer{"Target", plotter.XYs{{X: float64(f.Target.X), Y: float64(f.Target.Y)}}, color.RGBA{G: 0xa0, A: 0xff}, draw.CircleGlyph{}})
	}

	for _, l := range layers {
		if len(l.pts) == 0 {
			continue
		}
		s, err := plotter.NewScatter(l.pts)
		if err != nil {
			return nil, fmt.Errorf("%s scatter: %w", l.label, err)
		}
		s.GlyphStyle.Color = l.color
		s.GlyphStyle.Shape = l.shape
		s.GlyphStyle.Radius = vg.Points(5)
		p.Add(s)
		p.Legend.Add(l.label, s)
	}
	return p, nil
}
