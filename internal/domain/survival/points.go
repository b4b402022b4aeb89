package survival

// PlotPoint is the row shape handed to curve renderers.
type PlotPoint struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Marker bool    `json:"marker"`
}

// PlotPoints projects the curve onto {x: time, y: survival, marker: has_censoring}.
func (c *Curve) PlotPoints() []PlotPoint {
	out := make([]PlotPoint, len(c.Points))
	for i, p := range c.Points {
		out[i] = PlotPoint{X: p.Time, Y: p.Survival, Marker: p.HasCensoring}
	}
	return out
}
