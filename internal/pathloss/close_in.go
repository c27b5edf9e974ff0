package pathloss

import (
	"errors"
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"

	"github.com/banshee-data/pathloss/internal/units"
)

// Defaults for the Close-In model.
const (
	DefaultFrequencyGHz      = 3.5
	DefaultReferenceDistance = 1.0
)

var (
	// ErrInvalidFrequency is returned for a non-positive carrier frequency.
	ErrInvalidFrequency = errors.New("frequency must be positive")
	// ErrInvalidReferenceDistance is returned for a non-positive d0.
	ErrInvalidReferenceDistance = errors.New("reference distance must be positive")
)

// CIOptions configures a Close-In fit.
type CIOptions struct {
	FrequencyGHz      float64
	ReferenceDistance float64 // d0, metres
}

// DefaultCIOptions returns 3.5 GHz with a 1 m reference distance.
func DefaultCIOptions() CIOptions {
	return CIOptions{
		FrequencyGHz:      DefaultFrequencyGHz,
		ReferenceDistance: DefaultReferenceDistance,
	}
}

// Validate checks that the options define a usable free-space anchor.
func (o CIOptions) Validate() error {
	if !(o.FrequencyGHz > 0) || math.IsInf(o.FrequencyGHz, 0) {
		return fmt.Errorf("%w, got %v GHz", ErrInvalidFrequency, o.FrequencyGHz)
	}
	if !(o.ReferenceDistance > 0) || math.IsInf(o.ReferenceDistance, 0) {
		return fmt.Errorf("%w, got %v m", ErrInvalidReferenceDistance, o.ReferenceDistance)
	}
	return nil
}

// CIResult is the outcome of a Close-In fit:
//
//	PL(d) = FreeSpaceLoss + 10·PLE·log10(d/d0)
type CIResult struct {
	PLE               float64
	FrequencyGHz      float64
	ReferenceDistance float64
	FreeSpaceLoss     float64 // L0 at ReferenceDistance, dB
	Fitted            []float64
	RMSE              float64
	ShadowingStd      float64
}

// Predict evaluates the fitted model at distance d (metres).
func (r CIResult) Predict(d float64) float64 {
	return r.FreeSpaceLoss + 10*r.PLE*math.Log10(d/r.ReferenceDistance)
}

// FitCloseIn fits the path-loss exponent of the Close-In model. The intercept
// is pinned to the free-space loss at d0, so the only unknown is the slope of a
// regression through the origin of (L - L0) on 10·log10(d/d0).
func FitCloseIn(t Table, opts CIOptions) (CIResult, error) {
	if err := opts.Validate(); err != nil {
		return CIResult{}, fmt.Errorf("close-in: %w", err)
	}
	if err := t.Validate(); err != nil {
		return CIResult{}, fmt.Errorf("close-in: %w", err)
	}

	d0 := opts.ReferenceDistance
	l0 := units.FreeSpacePathLoss(d0, units.Wavelength(opts.FrequencyGHz))

	ds := t.Distances()
	losses := t.Losses()
	x := logDistances(ds, d0)
	if floats.Dot(x, x) == 0 {
		return CIResult{}, fmt.Errorf("close-in: %w: every distance equals the reference distance", ErrDegenerateFit)
	}

	resp := make([]float64, len(losses))
	for i, l := range losses {
		resp[i] = l - l0
	}

	ple, err := solveExponent(x, resp)
	if err != nil {
		return CIResult{}, fmt.Errorf("close-in: %w", err)
	}

	fitted := make([]float64, len(ds))
	for i, xi := range x {
		fitted[i] = l0 + ple*xi
	}

	rmse, shadowing, err := fitStats(losses, fitted)
	if err != nil {
		return CIResult{}, fmt.Errorf("close-in: %w", err)
	}

	return CIResult{
		PLE:               ple,
		FrequencyGHz:      opts.FrequencyGHz,
		ReferenceDistance: d0,
		FreeSpaceLoss:     l0,
		Fitted:            fitted,
		RMSE:              rmse,
		ShadowingStd:      shadowing,
	}, nil
}

// solveExponent solves min ||x·n - y||² for scalar n as a one-column least
// squares system.
func solveExponent(x, y []float64) (float64, error) {
	a := mat.NewDense(len(x), 1, x)
	b := mat.NewVecDense(len(y), y)

	var n mat.VecDense
	if err := n.SolveVec(a, b); err != nil {
		var cond mat.Condition
		if errors.As(err, &cond) {
			return 0, fmt.Errorf("%w: %v", ErrDegenerateFit, err)
		}
		return 0, fmt.Errorf("failed to solve for path-loss exponent: %w", err)
	}
	return n.AtVec(0), nil
}
