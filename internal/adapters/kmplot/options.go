package kmplot

import "gonum.org/v1/plot/vg"

// Option applies a configuration option to the Renderer.
type Option func(*Renderer)

// WithSize sets the image size in inches.
func WithSize(widthIn, heightIn float64) Option {
	return func(r *Renderer) {
		if widthIn > 0 && heightIn > 0 {
			r.width = vg.Length(widthIn) * vg.Inch
			r.height = vg.Length(heightIn) * vg.Inch
		}
	}
}

// WithTitle sets the plot title.
func WithTitle(title string) Option {
	return func(r *Renderer) {
		r.title = title
	}
}

// WithFormat sets the output format: png, svg, pdf, eps, jpg or tif.
func WithFormat(format string) Option {
	return func(r *Renderer) {
		if format != "" {
			r.format = format
		}
	}
}

// WithAxisLabels overrides the default axis labels.
func WithAxisLabels(x, y string) Option {
	return func(r *Renderer) {
		if x != "" {
			r.xLabel = x
		}
		if y != "" {
			r.yLabel = y
		}
	}
}
