package db

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/banshee-data/pathloss/internal/pathloss"
)

// Model identifiers stored in fit_runs.model.
const (
	ModelFI = "fi"
	ModelCI = "ci"
)

// ErrFitRunNotFound is returned when a run ID has no row.
var ErrFitRunNotFound = errors.New("fit run not found")

// FitRun is one stored model fit. Model-specific parameters are nil for the
// model that does not use them.
type FitRun struct {
	RunID             string
	Source            string
	Model             string
	Measurements      int
	Alpha             *float64
	Beta              *float64
	PLE               *float64
	FrequencyGHz      *float64
	ReferenceDistance *float64
	RMSE              float64
	ShadowingStd      float64
	SlantDistance     bool
	CreatedAt         time.Time
}

// FitRunFromFI builds a FitRun for a Floating Intercept result.
func FitRunFromFI(source string, n int, r pathloss.FIResult) FitRun {
	alpha, beta := r.Alpha, r.Beta
	return FitRun{
		Source:       source,
		Model:        ModelFI,
		Measurements: n,
		Alpha:        &alpha,
		Beta:         &beta,
		RMSE:         r.RMSE,
		ShadowingStd: r.ShadowingStd,
	}
}

// FitRunFromCI builds a FitRun for a Close-In result.
func FitRunFromCI(source string, n int, r pathloss.CIResult) FitRun {
	ple, f, d0 := r.PLE, r.FrequencyGHz, r.ReferenceDistance
	return FitRun{
		Source:            source,
		Model:             ModelCI,
		Measurements:      n,
		PLE:               &ple,
		FrequencyGHz:      &f,
		ReferenceDistance: &d0,
		RMSE:              r.RMSE,
		ShadowingStd:      r.ShadowingStd,
	}
}

// RecordFitRun inserts run, assigning a RunID and CreatedAt when unset.
// The stored run is returned.
func (db *DB) RecordFitRun(run FitRun) (FitRun, error) {
	if run.Model != ModelFI && run.Model != ModelCI {
		return FitRun{}, fmt.Errorf("invalid model %q", run.Model)
	}
	if run.RunID == "" {
		run.RunID = uuid.NewString()
	}
	if run.CreatedAt.IsZero() {
		run.CreatedAt = db.clock.Now()
	}

	_, err := db.Exec(
		`INSERT INTO fit_runs (
			run_id, source, model, measurements, alpha, beta, ple,
			frequency_ghz, reference_distance_m, rmse, shadowing_std,
			slant_distance, created_at_ns
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		run.RunID, run.Source, run.Model, run.Measurements,
		nullFloat(run.Alpha), nullFloat(run.Beta), nullFloat(run.PLE),
		nullFloat(run.FrequencyGHz), nullFloat(run.ReferenceDistance),
		run.RMSE, run.ShadowingStd, run.SlantDistance, run.CreatedAt.UnixNano(),
	)
	if err != nil {
		return FitRun{}, fmt.Errorf("failed to insert fit run: %w", err)
	}
	return run, nil
}

const fitRunColumns = `run_id, source, model, measurements, alpha, beta, ple,
	frequency_ghz, reference_distance_m, rmse, shadowing_std, slant_distance, created_at_ns`

// GetFitRun loads a single run by ID.
func (db *DB) GetFitRun(runID string) (FitRun, error) {
	row := db.QueryRow(`SELECT `+fitRunColumns+` FROM fit_runs WHERE run_id = ?`, runID)
	run, err := scanFitRun(row)
	if errors.Is(err, sql.ErrNoRows) {
		return FitRun{}, fmt.Errorf("%w: %s", ErrFitRunNotFound, runID)
	}
	return run, err
}

// ListFitRuns returns the most recent runs first. A non-positive limit
// returns every run.
func (db *DB) ListFitRuns(limit int) ([]FitRun, error) {
	query := `SELECT ` + fitRunColumns + ` FROM fit_runs ORDER BY created_at_ns DESC, rowid DESC`
	var args []any
	if limit > 0 {
		query += ` LIMIT ?`
		args = append(args, limit)
	}

	rows, err := db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query fit runs: %w", err)
	}
	defer rows.Close()

	var runs []FitRun
	for rows.Next() {
		run, err := scanFitRun(rows)
		if err != nil {
			return nil, err
		}
		runs = append(runs, run)
	}
	return runs, rows.Err()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanFitRun(s scanner) (FitRun, error) {
	var (
		run                             FitRun
		alpha, beta, ple, freq, refDist sql.NullFloat64
		createdNs                       int64
	)
	err := s.Scan(
		&run.RunID, &run.Source, &run.Model, &run.Measurements,
		&alpha, &beta, &ple, &freq, &refDist,
		&run.RMSE, &run.ShadowingStd, &run.SlantDistance, &createdNs,
	)
	if err != nil {
		return FitRun{}, err
	}
	run.Alpha = floatPtr(alpha)
	run.Beta = floatPtr(beta)
	run.PLE = floatPtr(ple)
	run.FrequencyGHz = floatPtr(freq)
	run.ReferenceDistance = floatPtr(refDist)
	run.CreatedAt = time.Unix(0, createdNs).UTC()
	return run, nil
}

func nullFloat(v *float64) sql.NullFloat64 {
	if v == nil {
		return sql.NullFloat64{}
	}
	return sql.NullFloat64{Float64: *v, Valid: true}
}

func floatPtr(v sql.NullFloat64) *float64 {
	if !v.Valid {
		return nil
	}
	f := v.Float64
	return &f
}
