// Package pathloss fits log-distance path-loss models to measured
// distance/loss tables. It provides the Floating Intercept (alpha-beta)
// and Close-In (free-space reference) fitters together with the RMSE and
// shadowing statistics used to compare them.
package pathloss

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"

	"github.com/banshee-data/pathloss/internal/units"
)

var (
	// ErrEmptyTable is returned when a table has no measurements.
	ErrEmptyTable = errors.New("measurement table is empty")
	// ErrInvalidDistance is returned when a distance is not strictly positive.
	ErrInvalidDistance = errors.New("distance must be positive")
	// ErrInvalidLoss is returned when a loss value is NaN or infinite.
	ErrInvalidLoss = errors.New("loss must be finite")
	// ErrMissingColumn is returned when a CSV row is too short for the
	// configured distance or loss column.
	ErrMissingColumn = errors.New("missing column")
)

// Measurement is a single row of a measurement table.
type Measurement struct {
	Distance float64 // metres, column 0
	Aux      string  // column 1, carried through but unused by the fitters
	Loss     float64 // dB, column 2
}

// Table is an ordered set of measurements.
type Table []Measurement

// NewTable builds a Table from parallel distance and loss slices.
func NewTable(distances, losses []float64) (Table, error) {
	if len(distances) != len(losses) {
		return nil, fmt.Errorf("%w: %d distances, %d losses", ErrLengthMismatch, len(distances), len(losses))
	}
	t := make(Table, len(distances))
	for i := range distances {
		t[i] = Measurement{Distance: distances[i], Loss: losses[i]}
	}
	return t, nil
}

// Validate checks the invariants every fitter relies on: at least one row,
// every distance positive and finite, every loss finite.
func (t Table) Validate() error {
	if len(t) == 0 {
		return ErrEmptyTable
	}
	for i, m := range t {
		if !(m.Distance > 0) || math.IsInf(m.Distance, 0) {
			return fmt.Errorf("row %d: %w, got %v", i, ErrInvalidDistance, m.Distance)
		}
		if math.IsNaN(m.Loss) || math.IsInf(m.Loss, 0) {
			return fmt.Errorf("row %d: %w, got %v", i, ErrInvalidLoss, m.Loss)
		}
	}
	return nil
}

// Distances returns a copy of the distance column.
func (t Table) Distances() []float64 {
	out := make([]float64, len(t))
	for i, m := range t {
		out[i] = m.Distance
	}
	return out
}

// Losses returns a copy of the loss column.
func (t Table) Losses() []float64 {
	out := make([]float64, len(t))
	for i, m := range t {
		out[i] = m.Loss
	}
	return out
}

// WithSlantDistance returns a copy of the table whose distances have been
// converted from horizontal to slant range for the given antenna height offset.
func (t Table) WithSlantDistance(height float64) Table {
	out := make(Table, len(t))
	copy(out, t)
	for i := range out {
		out[i].Distance = units.SlantDistanceWithHeight(out[i].Distance, height)
	}
	return out
}

// ReadOptions selects which CSV columns hold distance and loss.
type ReadOptions struct {
	DistanceColumn int
	LossColumn     int
	// SkipHeader drops the first record.
	SkipHeader bool
}

// DefaultReadOptions returns the layout of a measurement CSV: a header row,
// distance in column 0 and loss in column 2.
func DefaultReadOptions() ReadOptions {
	return ReadOptions{DistanceColumn: 0, LossColumn: 2, SkipHeader: true}
}

// ReadTable parses a measurement table from CSV. Column 1 is kept as Aux when
// it is not one of the selected columns.
func ReadTable(r io.Reader, opts ReadOptions) (Table, error) {
	if opts.DistanceColumn < 0 || opts.LossColumn < 0 {
		return nil, fmt.Errorf("column indexes must be non-negative, got distance=%d loss=%d", opts.DistanceColumn, opts.LossColumn)
	}

	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	var t Table
	line := 0
	for {
		rec, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read CSV: %w", err)
		}
		line++
		if line == 1 && opts.SkipHeader {
			continue
		}

		m, err := parseMeasurement(rec, opts)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		t = append(t, m)
	}

	if len(t) == 0 {
		return nil, ErrEmptyTable
	}
	return t, nil
}

func parseMeasurement(rec []string, opts ReadOptions) (Measurement, error) {
	need := max(opts.DistanceColumn, opts.LossColumn) + 1
	if len(rec) < need {
		return Measurement{}, fmt.Errorf("%w: need %d fields, got %d", ErrMissingColumn, need, len(rec))
	}

	d, err := strconv.ParseFloat(strings.TrimSpace(rec[opts.DistanceColumn]), 64)
	if err != nil {
		return Measurement{}, fmt.Errorf("invalid distance %q: %w", rec[opts.DistanceColumn], err)
	}
	l, err := strconv.ParseFloat(strings.TrimSpace(rec[opts.LossColumn]), 64)
	if err != nil {
		return Measurement{}, fmt.Errorf("invalid loss %q: %w", rec[opts.LossColumn], err)
	}

	m := Measurement{Distance: d, Loss: l}
	if len(rec) > 1 && opts.DistanceColumn != 1 && opts.LossColumn != 1 {
		m.Aux = rec[1]
	}
	return m, nil
}

// LoadTable reads a measurement CSV from disk.
func LoadTable(path string, opts ReadOptions) (Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open measurement file: %w", err)
	}
	defer f.Close()

	t, err := ReadTable(f, opts)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return t, nil
}
