package sim

import (
	"fmt"
	"image/color"
	"sort"

	tracker "github.com/milosgajdos/go-tracker"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/plotutil"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
)

// History records a tracking run for plotting
type History struct {
	truth  plotter.XYs
	meas   plotter.XYs
	tracks map[int]plotter.XYs
}

// NewHistory creates new empty History and returns it
func NewHistory() *History {
	return &History{
		tracks: make(map[int]plotter.XYs),
	}
}

// Add records true source states, observations and tracker output of one tick
func (h *History) Add(truth []tracker.Track, obs []mat.Vector, tracks []tracker.Track) {
	for _, t := range truth {
		h.truth = append(h.truth, plotter.XY{X: t.Pos[0], Y: t.Pos[1]})
	}

	for _, z := range obs {
		h.meas = append(h.meas, plotter.XY{X: z.AtVec(0), Y: z.AtVec(1)})
	}

	for _, t := range tracks {
		h.tracks[t.ID] = append(h.tracks[t.ID], plotter.XY{X: t.Pos[0], Y: t.Pos[1]})
	}
}

// Len returns the number of recorded track points
func (h *History) Len() int {
	n := 0
	for _, pts := range h.tracks {
		n += len(pts)
	}

	return n
}

// NewTrackPlot creates new X-Y plot of the recorded history: true source positions,
// measurements and one scatter per track ID.
// It returns error if nothing has been recorded or if gonum plot fails to be created.
func NewTrackPlot(h *History) (*plot.Plot, error) {
	if h == nil || (len(h.truth) == 0 && len(h.meas) == 0 && len(h.tracks) == 0) {
		return nil, fmt.Errorf("invalid history supplied")
	}

	p := plot.New()

	p.Title.Text = "Tracking"
	p.X.Label.Text = "X"
	p.Y.Label.Text = "Y"

	legend := plot.NewLegend()
	legend.Top = true
	p.Legend = legend

	if len(h.meas) > 0 {
		measScatter, err := plotter.NewScatter(h.meas)
		if err != nil {
			return nil, fmt.Errorf("failed to create scatter: %v", err)
		}
		measScatter.GlyphStyle.Color = color.RGBA{G: 255, A: 128}
		measScatter.GlyphStyle.Radius = vg.Points(2)

		p.Add(measScatter)
		p.Legend.Add("measurement", measScatter)
	}

	if len(h.truth) > 0 {
		truthScatter, err := plotter.NewScatter(h.truth)
		if err != nil {
			return nil, fmt.Errorf("failed to create scatter: %v", err)
		}
		truthScatter.GlyphStyle.Color = color.RGBA{R: 255, B: 128, A: 255}
		truthScatter.Shape = draw.PyramidGlyph{}
		truthScatter.GlyphStyle.Radius = vg.Points(3)

		p.Add(truthScatter)
		p.Legend.Add("source", truthScatter)
	}

	ids := make([]int, 0, len(h.tracks))
	for id := range h.tracks {
		ids = append(ids, id)
	}
	sort.Ints(ids)

	for _, id := range ids {
		trackScatter, err := plotter.NewScatter(h.tracks[id])
		if err != nil {
			return nil, fmt.Errorf("failed to create scatter: %v", err)
		}
		trackScatter.GlyphStyle.Color = plotutil.Color(id)
		trackScatter.Shape = draw.CrossGlyph{}
		trackScatter.GlyphStyle.Radius = vg.Points(3)

		p.Add(trackScatter)
		p.Legend.Add(fmt.Sprintf("track %d", id), trackScatter)
	}

	return p, nil
}
