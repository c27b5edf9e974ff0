package testutil

import (
	"math"
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDistances(t *testing.T) {
	t.Parallel()

	got := Distances(4, 1, 0.5)
	assert.Equal(t, []float64{1, 1.5, 2, 2.5}, got)
	assert.Empty(t, Distances(0, 1, 1))
}

func TestFILosses(t *testing.T) {
	t.Parallel()

	got := FILosses([]float64{1, 10, 100}, 30, 2)
	require.Len(t, got, 3)
	assert.InDelta(t, 30, got[0], 1e-12)
	assert.InDelta(t, 50, got[1], 1e-12)
	assert.InDelta(t, 70, got[2], 1e-12)
}

func TestCILosses(t *testing.T) {
	t.Parallel()

	got := CILosses([]float64{1, 10}, 3, 3.5, 1)
	require.Len(t, got, 2)
	// Free-space loss at 1 m for 3.5 GHz is ~43.32 dB; a decade adds 10·n dB.
	assert.InDelta(t, 43.3231, got[0], 1e-3)
	assert.InDelta(t, 30, got[1]-got[0], 1e-9)
	assert.False(t, math.IsNaN(got[1]))
}

func TestMeasurementCSV(t *testing.T) {
	t.Parallel()

	out := MeasurementCSV([]float64{1, 2.5}, []float64{40, 45.25})
	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, "distance_m,sample,path_loss_db", lines[0])
	assert.Equal(t, "1,0,40", lines[1])
	assert.Equal(t, "2.5,1,45.25", lines[2])
}

func TestWriteFile(t *testing.T) {
	t.Parallel()

	path := WriteFile(t, "fixture.txt", "hello")
	data, err := os.ReadFile(path)
	AssertNoError(t, err)
	assert.Equal(t, "hello", string(data))
}

func TestAssertNoError(t *testing.T) {
	t.Parallel()
	AssertNoError(t, nil)
}

func TestAssertError(t *testing.T) {
	t.Parallel()
	AssertError(t, os.ErrNotExist)
}
