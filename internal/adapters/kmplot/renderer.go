// Package kmplot renders Kaplan-Meier survival curves as step-function images.
package kmplot

import (
	"fmt"
	"io"
	"strings"

	"github.com/okian/biostat/internal/domain/survival"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/plotutil"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
)

// Default rendering configuration constants.
const (
	defaultWidth  = 4 * vg.Inch
	defaultHeight = 4 * vg.Inch
	defaultFormat = "png"
	markerRadius  = 3 * vg.Millimeter / 2
)

var supportedFormats = map[string]string{
	"png": "image/png",
	"svg": "image/svg+xml",
	"pdf": "application/pdf",
	"eps": "application/postscript",
	"jpg": "image/jpeg",
	"tif": "image/tiff",
}

// ContentType returns the MIME type for a supported format.
func ContentType(format string) (string, error) {
	ct, ok := supportedFormats[strings.ToLower(format)]
	if !ok {
		return "", fmt.Errorf("%w: %q", ErrFormat, format)
	}
	return ct, nil
}

// Renderer draws survival curves.
type Renderer struct {
	width  vg.Length
	height vg.Length
	title  string
	xLabel string
	yLabel string
	format string
}

// NewRenderer creates a renderer with configuration options.
func NewRenderer(opts ...Option) *Renderer {
	r := &Renderer{
		width:  defaultWidth,
		height: defaultHeight,
		xLabel: "Time",
		yLabel: "Survival probability",
		format: defaultFormat,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Format returns the configured output format.
func (r *Renderer) Format() string { return r.format }

// Render writes the curve image to w.
func (r *Renderer) Render(w io.Writer, curve *survival.Curve) error {
	if curve == nil || curve.Len() == 0 {
		return ErrEmptyCurve
	}
	format := strings.ToLower(r.format)
	if _, err := ContentType(format); err != nil {
		return err
	}

	p := plot.New()
	p.Title.Text = r.title
	p.X.Label.Text = r.xLabel
	p.Y.Label.Text = r.yLabel
	p.Y.Min = 0
	p.Y.Max = 1
	p.X.Min = 0

	rows := curve.PlotPoints()
	line, err := plotter.NewLine(stepXYs(rows))
	if err != nil {
		return fmt.Errorf("%w: %w", ErrRenderFailed, err)
	}
	line.Color = plotutil.Color(0)
	p.Add(line)

	if marks := censoredXYs(rows); len(marks) > 0 {
		sc, err := plotter.NewScatter(marks)
		if err != nil {
			return fmt.Errorf("%w: %w", ErrRenderFailed, err)
		}
		sc.GlyphStyle.Shape = draw.PlusGlyph{}
		sc.GlyphStyle.Radius = markerRadius
		sc.GlyphStyle.Color = plotutil.Color(0)
		p.Add(sc)
	}

	wt, err := p.WriterTo(r.width, r.height, format)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrRenderFailed, err)
	}
	if _, err := wt.WriteTo(w); err != nil {
		return fmt.Errorf("%w: %w", ErrRenderFailed, err)
	}
	return nil
}

// stepXYs expands the curve into a step function starting at (0,1): each
// time contributes a horizontal segment at the previous level and a drop.
func stepXYs(rows []survival.PlotPoint) plotter.XYs {
	pts := make(plotter.XYs, 0, 2*len(rows)+1)
	pts = append(pts, plotter.XY{X: 0, Y: 1})
	for _, row := range rows {
		pts = append(pts, plotter.XY{X: row.X, Y: pts[len(pts)-1].Y})
		pts = append(pts, plotter.XY{X: row.X, Y: row.Y})
	}
	return pts
}

func censoredXYs(rows []survival.PlotPoint) plotter.XYs {
	var pts plotter.XYs
	for _, row := range rows {
		if row.Marker {
			pts = append(pts, plotter.XY{X: row.X, Y: row.Y})
		}
	}
	return pts
}
