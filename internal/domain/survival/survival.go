// Package survival estimates Kaplan-Meier survival curves from right-censored data.
package survival

import (
	"fmt"
	"math"
	"sort"
)

// Status codes accepted by Estimate.
const (
	StatusCensored = 0
	StatusEvent    = 1
)

// Observation is one participant record.
type Observation struct {
	Status bool    // true when the event occurred, false when censored
	Time   float64 // event or censoring time, non-negative
}

// TimePoint aggregates every observation sharing one distinct time value.
type TimePoint struct {
	Time         float64 `json:"time"`
	NEvents      int     `json:"n_events"`
	NCensored    int     `json:"n_censored"`
	NTotal       int     `json:"n_total"`
	NAtRisk      int     `json:"n_at_risk"`
	Hazard       float64 `json:"hazard"`
	Survival     float64 `json:"survival"`
	HasCensoring bool    `json:"has_censoring"`
}

// Curve is the ordered Kaplan-Meier table built from one set of observations.
type Curve struct {
	NStart int         `json:"n_start"`
	Points []TimePoint `json:"points"`
}

// Estimate computes the Kaplan-Meier table for parallel status/time arrays.
// Status values must be exactly 0 (censored) or 1 (event).
func Estimate(status, time []float64) (*Curve, error) {
	obs, err := Observations(status, time)
	if err != nil {
		return nil, err
	}
	return EstimateObservations(obs)
}

// Observations validates parallel status/time arrays and pairs them.
func Observations(status, time []float64) ([]Observation, error) {
	if len(status) == 0 || len(time) == 0 {
		return nil, fmt.Errorf("%w: empty input", ErrInvalidInput)
	}
	if len(status) != len(time) {
		return nil, fmt.Errorf("%w: status has %d values, time has %d", ErrInvalidInput, len(status), len(time))
	}
	obs := make([]Observation, len(status))
	for i := range status {
		switch status[i] {
		case StatusEvent:
			obs[i].Status = true
		case StatusCensored:
		default:
			return nil, fmt.Errorf("%w: status[%d]=%v is not 0 or 1", ErrInvalidInput, i, status[i])
		}
		t := time[i]
		if math.IsNaN(t) || math.IsInf(t, 0) || t < 0 {
			return nil, fmt.Errorf("%w: time[%d]=%v must be finite and non-negative", ErrInvalidInput, i, t)
		}
		obs[i].Time = t
	}
	return obs, nil
}

// EstimateObservations computes the Kaplan-Meier table for paired observations.
func EstimateObservations(obs []Observation) (*Curve, error) {
	if len(obs) == 0 {
		return nil, fmt.Errorf("%w: empty input", ErrInvalidInput)
	}

	sorted := make([]Observation, len(obs))
	copy(sorted, obs)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Time < sorted[j].Time })

	// Group ties.
	points := make([]TimePoint, 0, len(sorted))
	for _, o := range sorted {
		if n := len(points); n == 0 || points[n-1].Time != o.Time {
			points = append(points, TimePoint{Time: o.Time})
		}
		p := &points[len(points)-1]
		if o.Status {
			p.NEvents++
		} else {
			p.NCensored++
		}
		p.NTotal++
	}

	// The remaining population is read before it is decremented by the
	// current group, so each group sees the risk set just before its time.
	remaining := len(sorted)
	surv := 1.0
	for i := range points {
		p := &points[i]
		p.NAtRisk = remaining
		if p.NAtRisk > 0 {
			p.Hazard = float64(p.NEvents) / float64(p.NAtRisk)
		} else {
			p.Hazard = math.NaN()
		}
		surv *= 1 - p.Hazard
		p.Survival = surv
		p.HasCensoring = p.NCensored > 0
		remaining -= p.NTotal
	}

	return &Curve{NStart: len(sorted), Points: points}, nil
}

// Len returns the number of distinct time points.
func (c *Curve) Len() int { return len(c.Points) }

// At evaluates the survival step function at t. The curve is right-continuous,
// so the drop at an event time applies at that time.
func (c *Curve) At(t float64) float64 {
	i := sort.Search(len(c.Points), func(i int) bool { return c.Points[i].Time > t })
	if i == 0 {
		return 1
	}
	return c.Points[i-1].Survival
}

// Median returns the smallest time at which survival drops to 0.5 or below.
// The second result is false when the curve never reaches 0.5.
func (c *Curve) Median() (float64, bool) {
	for _, p := range c.Points {
		if p.Survival <= 0.5 {
			return p.Time, true
		}
	}
	return 0, false
}
