package pathloss

import (
	"bytes"
	"math"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/banshee-data/pathloss/internal/testutil"
)

func TestDefaultCIOptions(t *testing.T) {
	t.Parallel()

	opts := DefaultCIOptions()
	assert.Equal(t, 3.5, opts.FrequencyGHz)
	assert.Equal(t, 1.0, opts.ReferenceDistance)
	assert.NoError(t, opts.Validate())
}

func TestFitCloseIn_Perfect(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		ple     float64
		freqGHz float64
		d0      float64
	}{
		{"n=3 at 3.5 GHz", 3, 3.5, 1},
		{"n=2 free space at 2.4 GHz", 2, 2.4, 1},
		{"n=1.7 at 28 GHz with 5 m reference", 1.7, 28, 5},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ds := testutil.Distances(30, 1.5, 3)
			tbl, err := NewTable(ds, testutil.CILosses(ds, tt.ple, tt.freqGHz, tt.d0))
			require.NoError(t, err)

			res, err := FitCloseIn(tbl, CIOptions{FrequencyGHz: tt.freqGHz, ReferenceDistance: tt.d0})
			require.NoError(t, err)

			assert.InDelta(t, tt.ple, res.PLE, 1e-9)
			assert.InDelta(t, 0.0, res.RMSE, 1e-9)
			assert.InDelta(t, 0.0, res.ShadowingStd, 1e-9)
			assert.Equal(t, tt.freqGHz, res.FrequencyGHz)
			assert.Equal(t, tt.d0, res.ReferenceDistance)
			require.Len(t, res.Fitted, len(ds))
		})
	}
}

func TestFitCloseIn_Noisy(t *testing.T) {
	t.Parallel()

	tbl := campaignTable(t)

	res, err := FitCloseIn(tbl, DefaultCIOptions())
	require.NoError(t, err)
	assert.InDelta(t, 43.323133, res.FreeSpaceLoss, 1e-5)
	assert.InDelta(t, 2.291551, res.PLE, 1e-5)
	assert.InDelta(t, 1.044818, res.RMSE, 1e-5)
	assert.InDelta(t, 1.000877, res.ShadowingStd, 1e-5)

	res, err = FitCloseIn(tbl, CIOptions{FrequencyGHz: 28, ReferenceDistance: 2})
	require.NoError(t, err)
	assert.InDelta(t, 67.405533, res.FreeSpaceLoss, 1e-5)
	assert.InDelta(t, 1.002095, res.PLE, 1e-5)
	assert.InDelta(t, 7.750191, res.RMSE, 1e-5)
	assert.InDelta(t, 6.754991, res.ShadowingStd, 1e-5)
}

func TestFitCloseIn_MatchesClosedForm(t *testing.T) {
	t.Parallel()

	tbl := campaignTable(t)
	res, err := FitCloseIn(tbl, DefaultCIOptions())
	require.NoError(t, err)

	var num, den float64
	for _, m := range tbl {
		x := 10 * math.Log10(m.Distance)
		num += x * (m.Loss - res.FreeSpaceLoss)
		den += x * x
	}
	assert.InDelta(t, num/den, res.PLE, 1e-9)
}

func TestFitCloseIn_Errors(t *testing.T) {
	t.Parallel()

	tbl := campaignTable(t)

	tests := []struct {
		name    string
		tbl     Table
		opts    CIOptions
		wantErr error
	}{
		{"zero frequency", tbl, CIOptions{FrequencyGHz: 0, ReferenceDistance: 1}, ErrInvalidFrequency},
		{"negative frequency", tbl, CIOptions{FrequencyGHz: -3.5, ReferenceDistance: 1}, ErrInvalidFrequency},
		{"NaN frequency", tbl, CIOptions{FrequencyGHz: math.NaN(), ReferenceDistance: 1}, ErrInvalidFrequency},
		{"zero reference", tbl, CIOptions{FrequencyGHz: 3.5, ReferenceDistance: 0}, ErrInvalidReferenceDistance},
		{"negative distance", Table{{Distance: -1, Loss: 50}}, DefaultCIOptions(), ErrInvalidDistance},
		{"empty table", Table{}, DefaultCIOptions(), ErrEmptyTable},
		{"all at reference distance", Table{{Distance: 1, Loss: 44}, {Distance: 1, Loss: 45}}, DefaultCIOptions(), ErrDegenerateFit},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := FitCloseIn(tt.tbl, tt.opts)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestFitCloseIn_SingleMeasurement(t *testing.T) {
	t.Parallel()

	l0 := 43.32313307305419
	res, err := FitCloseIn(Table{{Distance: 10, Loss: l0 + 25}}, DefaultCIOptions())
	require.NoError(t, err)
	assert.InDelta(t, 2.5, res.PLE, 1e-9)
}

func TestCIResult_Predict(t *testing.T) {
	t.Parallel()

	r := CIResult{PLE: 3, ReferenceDistance: 1, FreeSpaceLoss: 40}
	assert.InDelta(t, 70.0, r.Predict(10), 1e-12)
	assert.InDelta(t, 40.0, r.Predict(1), 1e-12)
}

func TestWriteCIReport(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	require.NoError(t, WriteCIReport(&buf, CIResult{PLE: 2.291551, RMSE: 1.04482, ShadowingStd: 1.00088}))

	out := buf.String()
	assert.True(t, strings.HasPrefix(out, "\n--- Close-In (CI) Model ---\n"))
	assert.Contains(t, out, "RMSE: 1.0448\n")
	assert.Contains(t, out, "Path Loss Exponent (PLE): 2.2916\n")
	assert.Contains(t, out, "Shadowing (Std Dev): 1.0009\n")
}
