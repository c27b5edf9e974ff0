// Package chart renders measured path loss against fitted models, as a
// static PNG (gonum/plot) or an interactive HTML page (go-echarts).
package chart

import (
	"errors"
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"

	"github.com/banshee-data/pathloss/internal/pathloss"
)

// curvePoints is the number of samples drawn for each fitted model curve.
const curvePoints = 64

// ErrNoData is returned when there is nothing to plot.
var ErrNoData = errors.New("no measurements to plot")

// FitSet bundles a measurement table with the fits to overlay on it.
// Either fit may be nil.
type FitSet struct {
	Title        string
	Measurements pathloss.Table
	FI           *pathloss.FIResult
	CI           *pathloss.CIResult
}

// Curve is a sampled model line.
type Curve struct {
	Name string
	X    []float64 // distance, metres
	Y    []float64 // loss, dB
}

func (fs FitSet) validate() error {
	if len(fs.Measurements) == 0 {
		return ErrNoData
	}
	return fs.Measurements.Validate()
}

// distanceSpan returns the log-spaced distances covering the measurements.
func (fs FitSet) distanceSpan() []float64 {
	ds := fs.Measurements.Distances()
	lo, hi := floats.Min(ds), floats.Max(ds)
	if lo == hi {
		return []float64{lo}
	}
	return floats.LogSpan(make([]float64, curvePoints), lo, hi)
}

// Curves samples each present model over the measured distance range.
func (fs FitSet) Curves() []Curve {
	xs := fs.distanceSpan()
	var out []Curve
	if fs.FI != nil {
		c := Curve{Name: fmt.Sprintf("FI (α=%.2f, β=%.2f)", fs.FI.Alpha, fs.FI.Beta), X: xs, Y: make([]float64, len(xs))}
		for i, d := range xs {
			c.Y[i] = fs.FI.Predict(d)
		}
		out = append(out, c)
	}
	if fs.CI != nil {
		c := Curve{Name: fmt.Sprintf("CI (n=%.2f)", fs.CI.PLE), X: xs, Y: make([]float64, len(xs))}
		for i, d := range xs {
			c.Y[i] = fs.CI.Predict(d)
		}
		out = append(out, c)
	}
	return out
}

func (fs FitSet) title() string {
	if fs.Title != "" {
		return fs.Title
	}
	return "Path loss vs distance"
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
