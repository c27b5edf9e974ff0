package pathloss

import (
	"errors"
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

var (
	// ErrInsufficientData is returned when a model has fewer measurements than
	// free parameters.
	ErrInsufficientData = errors.New("insufficient data")
	// ErrDegenerateFit is returned when the regression has no unique solution,
	// e.g. every measurement was taken at the same distance.
	ErrDegenerateFit = errors.New("degenerate fit")
)

// degenerateTolerance bounds the relative spread of log-distance below which
// the slope denominator is treated as zero.
const degenerateTolerance = 1e-12

// FIResult is the outcome of a Floating Intercept fit:
//
//	PL(d) = Alpha + Beta·10·log10(d)
type FIResult struct {
	Alpha        float64
	Beta         float64
	Fitted       []float64
	RMSE         float64
	ShadowingStd float64
}

// Predict evaluates the fitted model at distance d (metres).
func (r FIResult) Predict(d float64) float64 {
	return r.Alpha + r.Beta*10*math.Log10(d)
}

// FitFloatingIntercept fits the alpha-beta model by ordinary least squares
// using the closed-form simple-regression moments on x = 10·log10(d).
func FitFloatingIntercept(t Table) (FIResult, error) {
	if err := t.Validate(); err != nil {
		return FIResult{}, fmt.Errorf("floating intercept: %w", err)
	}
	n := len(t)
	if n < 2 {
		return FIResult{}, fmt.Errorf("floating intercept: %w: need at least 2 measurements, got %d", ErrInsufficientData, n)
	}

	x := logDistances(t.Distances(), 1)
	y := t.Losses()
	nf := float64(n)

	sumX := floats.Sum(x)
	sumY := floats.Sum(y)
	sumXX := floats.Dot(x, x)

	den := sumXX - sumX*sumX/nf
	if den <= degenerateTolerance*sumXX {
		return FIResult{}, fmt.Errorf("floating intercept: %w: log-distance has zero variance", ErrDegenerateFit)
	}
	num := floats.Dot(x, y) - sumX*sumY/nf

	beta := num / den
	alpha := stat.Mean(y, nil) - beta*stat.Mean(x, nil)

	fitted := make([]float64, n)
	for i, xi := range x {
		fitted[i] = alpha + beta*xi
	}

	rmse, shadowing, err := fitStats(y, fitted)
	if err != nil {
		return FIResult{}, fmt.Errorf("floating intercept: %w", err)
	}

	return FIResult{
		Alpha:        alpha,
		Beta:         beta,
		Fitted:       fitted,
		RMSE:         rmse,
		ShadowingStd: shadowing,
	}, nil
}

// logDistances returns 10·log10(d/ref) for each distance.
func logDistances(ds []float64, ref float64) []float64 {
	out := make([]float64, len(ds))
	for i, d := range ds {
		out[i] = 10 * math.Log10(d/ref)
	}
	return out
}
