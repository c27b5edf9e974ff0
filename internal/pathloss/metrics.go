package pathloss

import (
	"errors"
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

var (
	// ErrLengthMismatch is returned when paired sequences differ in length.
	ErrLengthMismatch = errors.New("length mismatch")
	// ErrEmptyInput is returned when a statistic is requested over no values.
	ErrEmptyInput = errors.New("empty input")
)

// Residuals returns yTrue - yPred elementwise.
func Residuals(yTrue, yPred []float64) ([]float64, error) {
	if len(yTrue) != len(yPred) {
		return nil, fmt.Errorf("%w: %d vs %d", ErrLengthMismatch, len(yTrue), len(yPred))
	}
	if len(yTrue) == 0 {
		return nil, ErrEmptyInput
	}
	out := make([]float64, len(yTrue))
	floats.SubTo(out, yTrue, yPred)
	return out, nil
}

// RMSE returns the root-mean-square error between measured and predicted values.
func RMSE(yTrue, yPred []float64) (float64, error) {
	res, err := Residuals(yTrue, yPred)
	if err != nil {
		return 0, err
	}
	return rms(res), nil
}

// ShadowingStd is the population standard deviation of the residuals
// around a fitted model, i.e. the shadow-fading sigma in dB.
func ShadowingStd(residuals []float64) float64 {
	if len(residuals) == 0 {
		return math.NaN()
	}
	return stat.PopStdDev(residuals, nil)
}

func rms(xs []float64) float64 {
	return math.Sqrt(floats.Dot(xs, xs) / float64(len(xs)))
}

// fitStats computes the RMSE and shadowing sigma of a fitted model.
func fitStats(measured, fitted []float64) (rmse, shadowing float64, err error) {
	res, err := Residuals(measured, fitted)
	if err != nil {
		return 0, 0, err
	}
	return rms(res), ShadowingStd(res), nil
}
