package api

import (
	"bytes"
	"fmt"
	"net/http"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"

	"github.com/banshee-data/frontier.explorer/internal/frontier"
	"github.com/banshee-data/frontier.explorer/internal/httputil"
	"github.com/banshee-data/frontier.explorer/internal/occupancy"
)

// chartSeries groups grid cells by what the debug chart draws them as.
type chartSeries struct {
	unknown, free, occupied, frontier []opts.ScatterData
}

func scatterPoint(c occupancy.Cell) opts.ScatterData {
	return opts.ScatterData{Value: []interface{}{c.X, c.Y}}
}

func buildChartSeries(g *occupancy.Grid, m frontier.Mask) chartSeries {
	var s chartSeries
	for x := 0; x < g.Width(); x++ {
		for y := 0; y < g.Height(); y++ {
			c := occupancy.Cell{X: x, Y: y}
			p := scatterPoint(c)
			switch {
			case m.At(c):
				s.frontier = append(s.frontier, p)
			case g.At(c) == occupancy.Unknown:
				s.unknown = append(s.unknown, p)
			case g.At(c) == occupancy.Free:
				s.free = append(s.free, p)
			default:
				s.occupied = append(s.occupied, p)
			}
		}
	}
	return s
}

// handleFrontierChart renders the stored grid, its frontier cells, the robot
// and the chosen target as an HTML scatter chart. Debug only.
func (s *Server) handleFrontierChart(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		httputil.MethodNotAllowed(w, http.MethodGet)
		return
	}

	snap, ok := s.store.Snapshot()
	if !ok {
		httputil.NotFound(w, "no grid has been uploaded")
		return
	}
	sel, err := frontier.Select(snap.Grid, snap.Reference)
	if err != nil {
		httputil.InternalServerError(w, err.Error())
		return
	}

	series := buildChartSeries(snap.Grid, sel.Mask)
	subtitle := fmt.Sprintf("revision=%d frontier=%d regions=%d target=none",
		snap.Revision, sel.Mask.Count(), len(sel.Regions))
	if sel.Target != nil {
		subtitle = fmt.Sprintf("revision=%d frontier=%d regions=%d target=%v",
			snap.Revision, sel.Mask.Count(), len(sel.Regions), *sel.Target)
	}

	scatter := charts.NewScatter()
	scatter.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{PageTitle: "Frontier", Width: "900px", Height: "900px"}),
		charts.WithTitleOpts(opts.Title{Title: "Occupancy grid and frontier", Subtitle: subtitle}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
		charts.WithLegendOpts(opts.Legend{Show: opts.Bool(true)}),
		charts.WithXAxisOpts(opts.XAxis{Min: -1, Max: snap.Grid.Width(), Name: "X (cell)", NameLocation: "middle", NameGap: 25}),
		charts.WithYAxisOpts(opts.YAxis{Min: -1, Max: snap.Grid.Height(), Name: "Y (cell)", NameLocation: "middle", NameGap: 30}),
	)

	cellOpts := func(color string) []charts.SeriesOpts {
		return []charts.SeriesOpts{
			charts.WithScatterChartOpts(opts.ScatterChart{SymbolSize: 14}),
			charts.WithItemStyleOpts(opts.ItemStyle{Color: color}),
		}
	}
	scatter.AddSeries("unknown", series.unknown, cellOpts("#616161")...)
	scatter.AddSeries("free", series.free, cellOpts("#e0e0e0")...)
	scatter.AddSeries("occupied", series.occupied, cellOpts("#212121")...)
	scatter.AddSeries("frontier", series.frontier, cellOpts("#26a69a")...)
	scatter.AddSeries("robot", []opts.ScatterData{scatterPoint(snap.Reference)}, cellOpts("#1e88e5")...)
	if sel.Target != nil {
		scatter.AddSeries("target", []opts.ScatterData{scatterPoint(*sel.Target)}, cellOpts("#ff5252")...)
	}

	var buf bytes.Buffer
	if err := scatter.Render(&buf); err != nil {
		httputil.InternalServerError(w, fmt.Sprintf("failed to render chart: %v", err))
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = w.Write(buf.Bytes())
}
