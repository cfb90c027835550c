package viz

import (
	"fmt"
	"image/color"
	"os"
	"path/filepath"

	"github.com/golang/geo/r2"
	"github.com/rs/zerolog/log"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"

	"github.com/jengzang/carbon-footprint-backend/internal/models"
)

// PlotTitle is the title of the rendered cluster scatter plot
const PlotTitle = "User Carbon Footprint Clusters"

// Default color palette, one entry per cluster id.
var defaultColors = []color.RGBA{
	{R: 0x1f, G: 0x77, B: 0xb4, A: 0xff},
	{R: 0xff, G: 0x7f, B: 0x0e, A: 0xff},
	{R: 0x2c, G: 0xa0, B: 0x2c, A: 0xff},
	{R: 0xd6, G: 0x27, B: 0x28, A: 0xff},
	{R: 0x94, G: 0x67, B: 0xbd, A: 0xff},
	{R: 0x8c, G: 0x56, B: 0x4b, A: 0xff},
	{R: 0xe3, G: 0x77, B: 0xc2, A: 0xff},
	{R: 0x7f, G: 0x7f, B: 0x7f, A: 0xff},
	{R: 0xbc, G: 0xbd, B: 0x22, A: 0xff},
	{R: 0x17, G: 0xbe, B: 0xcf, A: 0xff},
}

// ScatterRenderer draws the projected rows as a PNG scatter plot
type ScatterRenderer struct {
	path   string
	width  vg.Length
	height vg.Length
}

// NewScatterRenderer creates a renderer writing to path
func NewScatterRenderer(path string) *ScatterRenderer {
	return &ScatterRenderer{
		path:   path,
		width:  8 * vg.Inch,
		height: 6 * vg.Inch,
	}
}

// Path returns the output image path
func (r *ScatterRenderer) Path() string {
	return r.path
}

// Render draws one series per cluster id and overwrites the image at the
// renderer's path. The file is replaced atomically so readers never see a partial image.
func (r *ScatterRenderer) Render(rows []models.AugmentedRow, labels models.ClusterLabels, k int) (string, error) {
	p := plot.New()
	p.Title.Text = PlotTitle
	p.X.Label.Text = labels.XAxis
	p.Y.Label.Text = labels.YAxis
	p.Legend.Top = true
	p.Add(plotter.NewGrid())

	groups := make([]plotter.XYs, k)
	points := make([]r2.Point, 0, len(rows))
	for _, row := range rows {
		if row.Cluster < 0 || row.Cluster >= k {
			continue
		}
		pt := row.Point()
		groups[row.Cluster] = append(groups[row.Cluster], plotter.XY{X: pt.X, Y: pt.Y})
		points = append(points, pt)
	}

	for id, xys := range groups {
		if len(xys) == 0 {
			continue
		}
		scatter, err := plotter.NewScatter(xys)
		if err != nil {
			return "", fmt.Errorf("failed to build series for cluster %d: %w", id, err)
		}
		scatter.GlyphStyle.Color = defaultColors[id%len(defaultColors)]
		scatter.GlyphStyle.Radius = vg.Points(3.5)
		scatter.GlyphStyle.Shape = draw.CircleGlyph{}
		p.Add(scatter)
		p.Legend.Add(labels.Name(id), scatter)
	}

	if len(points) > 0 {
		bounds := paddedBounds(r2.RectFromPoints(points...))
		p.X.Min, p.X.Max = bounds.X.Lo, bounds.X.Hi
		p.Y.Min, p.Y.Max = bounds.Y.Lo, bounds.Y.Hi
	}

	if err := r.write(p); err != nil {
		return "", err
	}

	log.Debug().Str("path", r.path).Int("points", len(points)).Msg("Cluster plot rendered")
	return r.path, nil
}

func (r *ScatterRenderer) write(p *plot.Plot) error {
	dir := filepath.Dir(r.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create plot directory: %w", err)
	}

	wt, err := p.WriterTo(r.width, r.height, "png")
	if err != nil {
		return fmt.Errorf("failed to render plot: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".cluster_plot-*.png")
	if err != nil {
		return fmt.Errorf("failed to create temp plot file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := wt.WriteTo(tmp); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to write plot: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to close plot: %w", err)
	}

	if err := os.Rename(tmp.Name(), r.path); err != nil {
		return fmt.Errorf("failed to replace plot: %w", err)
	}
	return nil
}

// paddedBounds expands rect by 5% on each side, with a minimum margin for degenerate extents
func paddedBounds(rect r2.Rect) r2.Rect {
	size := rect.Size()
	margin := r2.Point{X: size.X * 0.05, Y: size.Y * 0.05}
	if margin.X < 0.5 {
		margin.X = 0.5
	}
	if margin.Y < 0.5 {
		margin.Y = 0.5
	}
	return rect.Expanded(margin)
}
