// Package testutil provides shared test utilities and fixtures.
//
// The generators here build noise-free measurement sets from known model
// parameters so fitters can be checked against exact answers.
package testutil

import (
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/banshee-data/pathloss/internal/units"
)

// AssertNoError fails the test if err is not nil.
func AssertNoError(t testing.TB, err error) {
	t.Helper()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

// AssertError fails the test if err is nil.
func AssertError(t testing.TB, err error) {
	t.Helper()
	if err == nil {
		t.Fatal("expected error, got nil")
	}
}

// Distances returns n evenly spaced distances starting at start.
func Distances(n int, start, step float64) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = start + float64(i)*step
	}
	return out
}

// FILosses returns alpha + beta·10·log10(d) for each distance.
func FILosses(distances []float64, alpha, beta float64) []float64 {
	out := make([]float64, len(distances))
	for i, d := range distances {
		out[i] = alpha + beta*10*math.Log10(d)
	}
	return out
}

// CILosses returns the Close-In model loss for each distance with the given
// path-loss exponent, carrier frequency and reference distance.
func CILosses(distances []float64, ple, freqGHz, d0 float64) []float64 {
	l0 := units.FreeSpacePathLoss(d0, units.Wavelength(freqGHz))
	out := make([]float64, len(distances))
	for i, d := range distances {
		out[i] = l0 + 10*ple*math.Log10(d/d0)
	}
	return out
}

// MeasurementCSV renders distances and losses in the measurement CSV layout
// (distance, placeholder, loss) with a header row.
func MeasurementCSV(distances, losses []float64) string {
	var b strings.Builder
	b.WriteString("distance_m,sample,path_loss_db\n")
	for i := range distances {
		fmt.Fprintf(&b, "%g,%d,%g\n", distances[i], i, losses[i])
	}
	return b.String()
}

// WriteFile writes content to name inside a fresh temp dir and returns its path.
func WriteFile(t testing.TB, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("failed to write fixture %s: %v", name, err)
	}
	return path
}
