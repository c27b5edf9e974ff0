package db

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/banshee-data/pathloss/internal/pathloss"
	"github.com/banshee-data/pathloss/internal/timeutil"
)

func newTestDB(t *testing.T) *DB {
	t.Helper()
	d, err := NewDB(filepath.Join(t.TempDir(), "fits.db"))
	require.NoError(t, err)
	t.Cleanup(func() {
		if err := d.Close(); err != nil {
			t.Errorf("Failed to close test database: %v", err)
		}
	})
	return d
}

func TestRecordAndGetFitRun(t *testing.T) {
	d := newTestDB(t)
	start := time.Date(2025, 6, 23, 23, 3, 46, 0, time.UTC)
	d.SetClock(timeutil.NewMockClock(start, time.Second))

	fi := pathloss.FIResult{Alpha: 45.2, Beta: 2.17, RMSE: 0.73, ShadowingStd: 0.72}
	stored, err := d.RecordFitRun(FitRunFromFI("campaign.csv", 8, fi))
	require.NoError(t, err)
	assert.NotEmpty(t, stored.RunID)
	assert.Equal(t, start, stored.CreatedAt)

	got, err := d.GetFitRun(stored.RunID)
	require.NoError(t, err)
	if diff := cmp.Diff(stored, got); diff != "" {
		t.Errorf("GetFitRun mismatch (-want +got):\n%s", diff)
	}
	assert.Nil(t, got.PLE)
	require.NotNil(t, got.Beta)
	assert.Equal(t, 2.17, *got.Beta)
}

func TestRecordFitRun_CloseIn(t *testing.T) {
	d := newTestDB(t)

	ci := pathloss.CIResult{PLE: 2.29, FrequencyGHz: 3.5, ReferenceDistance: 1, RMSE: 1.04, ShadowingStd: 1.0}
	run := FitRunFromCI("campaign.csv", 8, ci)
	run.SlantDistance = true
	stored, err := d.RecordFitRun(run)
	require.NoError(t, err)

	got, err := d.GetFitRun(stored.RunID)
	require.NoError(t, err)
	assert.Equal(t, ModelCI, got.Model)
	assert.True(t, got.SlantDistance)
	assert.Nil(t, got.Alpha)
	require.NotNil(t, got.PLE)
	assert.Equal(t, 2.29, *got.PLE)
	require.NotNil(t, got.FrequencyGHz)
	assert.Equal(t, 3.5, *got.FrequencyGHz)
}

func TestRecordFitRun_InvalidModel(t *testing.T) {
	d := newTestDB(t)

	_, err := d.RecordFitRun(FitRun{Source: "x.csv", Model: "hata"})
	assert.Error(t, err)
}

func TestGetFitRun_NotFound(t *testing.T) {
	d := newTestDB(t)

	_, err := d.GetFitRun("does-not-exist")
	assert.ErrorIs(t, err, ErrFitRunNotFound)
}

func TestListFitRuns(t *testing.T) {
	d := newTestDB(t)
	d.SetClock(timeutil.NewMockClock(time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC), time.Minute))

	var ids []string
	for i := 0; i < 5; i++ {
		run, err := d.RecordFitRun(FitRunFromFI("run.csv", 10+i, pathloss.FIResult{Alpha: float64(i)}))
		require.NoError(t, err)
		ids = append(ids, run.RunID)
	}

	all, err := d.ListFitRuns(0)
	require.NoError(t, err)
	require.Len(t, all, 5)
	assert.Equal(t, ids[4], all[0].RunID, "newest first")
	assert.Equal(t, ids[0], all[4].RunID)

	limited, err := d.ListFitRuns(2)
	require.NoError(t, err)
	require.Len(t, limited, 2)
	assert.Equal(t, 14, limited[0].Measurements)
}

func TestListFitRuns_Empty(t *testing.T) {
	d := newTestDB(t)

	runs, err := d.ListFitRuns(10)
	require.NoError(t, err)
	assert.Empty(t, runs)
}
