package pathloss

import (
	"errors"
	"io/fs"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/banshee-data/pathloss/internal/testutil"
	"github.com/banshee-data/pathloss/internal/units"
)

func TestReadTable_DefaultLayout(t *testing.T) {
	t.Parallel()

	in := "distance,label,pl\n1.5,a,40.2\n3,b,47.9\n12,c,60.25\n"
	tbl, err := ReadTable(strings.NewReader(in), DefaultReadOptions())
	require.NoError(t, err)

	want := Table{
		{Distance: 1.5, Aux: "a", Loss: 40.2},
		{Distance: 3, Aux: "b", Loss: 47.9},
		{Distance: 12, Aux: "c", Loss: 60.25},
	}
	if diff := cmp.Diff(want, tbl); diff != "" {
		t.Errorf("ReadTable mismatch (-want +got):\n%s", diff)
	}
}

func TestReadTable_CustomColumns(t *testing.T) {
	t.Parallel()

	// Converted "other simulation" layout: distance in column 4, loss in 5.
	in := "ID,X,Y,Z,Distance (m),Pl\n1,0,0,0,10,62.5\n2,0,0,0,20,68.1\n"
	tbl, err := ReadTable(strings.NewReader(in), ReadOptions{DistanceColumn: 4, LossColumn: 5, SkipHeader: true})
	require.NoError(t, err)

	assert.Equal(t, []float64{10, 20}, tbl.Distances())
	assert.Equal(t, []float64{62.5, 68.1}, tbl.Losses())
	assert.Equal(t, "0", tbl[0].Aux)
}

func TestReadTable_NoHeader(t *testing.T) {
	t.Parallel()

	opts := DefaultReadOptions()
	opts.SkipHeader = false
	tbl, err := ReadTable(strings.NewReader("2,x,50\n4,y,56\n"), opts)
	require.NoError(t, err)
	assert.Len(t, tbl, 2)
}

func TestReadTable_Errors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		input   string
		opts    ReadOptions
		wantErr error
	}{
		{"header only", "d,x,pl\n", DefaultReadOptions(), ErrEmptyTable},
		{"empty", "", DefaultReadOptions(), ErrEmptyTable},
		{"short row", "d,x,pl\n1,2\n", DefaultReadOptions(), ErrMissingColumn},
		{"bad distance", "d,x,pl\nfar,2,50\n", DefaultReadOptions(), nil},
		{"bad loss", "d,x,pl\n1,2,loud\n", DefaultReadOptions(), nil},
		{"negative column", "d,x,pl\n1,2,3\n", ReadOptions{DistanceColumn: -1, LossColumn: 2}, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ReadTable(strings.NewReader(tt.input), tt.opts)
			require.Error(t, err)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			}
		})
	}
}

func TestLoadTable(t *testing.T) {
	t.Parallel()

	ds := []float64{1, 2, 4, 8}
	path := testutil.WriteFile(t, "meas.csv", testutil.MeasurementCSV(ds, testutil.FILosses(ds, 30, 2)))

	tbl, err := LoadTable(path, DefaultReadOptions())
	require.NoError(t, err)
	assert.Equal(t, ds, tbl.Distances())

	_, err = LoadTable(path+".missing", DefaultReadOptions())
	require.Error(t, err)
	assert.True(t, errors.Is(err, fs.ErrNotExist))
}

func TestNewTable_LengthMismatch(t *testing.T) {
	t.Parallel()

	_, err := NewTable([]float64{1, 2}, []float64{3})
	assert.ErrorIs(t, err, ErrLengthMismatch)
}

func TestTable_WithSlantDistance(t *testing.T) {
	t.Parallel()

	tbl := Table{{Distance: 0.001, Loss: 40}, {Distance: 4, Loss: 50}}
	slant := tbl.WithSlantDistance(units.AntennaHeightOffset)

	assert.InDelta(t, units.SlantDistance(4), slant[1].Distance, 1e-12)
	assert.InDelta(t, units.AntennaHeightOffset, slant[0].Distance, 1e-6)
	assert.Equal(t, 4.0, tbl[1].Distance, "original table must not change")
	assert.Equal(t, tbl.Losses(), slant.Losses())
}
