package convert

import (
	"bufio"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"log"
	"math"
	"strconv"
	"strings"

	"github.com/banshee-data/pathloss/internal/fsutil"
)

// ErrRowShape is returned when a line has the wrong number of tokens.
var ErrRowShape = errors.New("row has wrong number of columns")

// TxtToCSV converts the simulator output at input into a CSV at output,
// overwriting it. full3D selects Full3DSchema, otherwise OtherSchema.
func TxtToCSV(fsys fsutil.FileSystem, input, output string, full3D bool) error {
	in, err := fsys.Open(input)
	if err != nil {
		return fmt.Errorf("failed to open input: %w", err)
	}
	defer in.Close()

	schema := SchemaFor(full3D)
	rows, err := ReadRows(in, schema)
	if err != nil {
		return fmt.Errorf("%s: %w", input, err)
	}

	out, err := fsys.Create(output)
	if err != nil {
		return fmt.Errorf("failed to create output: %w", err)
	}
	if err := WriteCSV(out, schema, rows); err != nil {
		out.Close()
		return fmt.Errorf("%s: %w", output, err)
	}
	if err := out.Close(); err != nil {
		return fmt.Errorf("failed to close output: %w", err)
	}

	log.Printf("File '%s' saved successfully (%s schema, %d rows)", output, schema.Name, len(rows))
	return nil
}

// ReadRows parses whitespace-delimited lines into numeric rows. Blank lines
// are skipped; every other line must have exactly one token per column.
func ReadRows(r io.Reader, schema Schema) ([][]float64, error) {
	var rows [][]float64
	sc := bufio.NewScanner(r)
	line := 0
	for sc.Scan() {
		line++
		fields := strings.Fields(sc.Text())
		if len(fields) == 0 {
			continue
		}
		if len(fields) != len(schema.Columns) {
			return nil, fmt.Errorf("line %d: %w: expected %d, got %d", line, ErrRowShape, len(schema.Columns), len(fields))
		}

		row := make([]float64, len(fields))
		for i, tok := range fields {
			v, err := strconv.ParseFloat(tok, 64)
			if err != nil {
				return nil, fmt.Errorf("line %d: column %q: %w", line, schema.Columns[i].Name, err)
			}
			if schema.Columns[i].Kind == KindInt && (math.IsNaN(v) || math.IsInf(v, 0)) {
				return nil, fmt.Errorf("line %d: column %q: cannot convert %s to int", line, schema.Columns[i].Name, tok)
			}
			row[i] = v
		}
		rows = append(rows, row)
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("failed to read input: %w", err)
	}
	return rows, nil
}

// WriteCSV writes the header and rows with each column coerced to its kind.
func WriteCSV(w io.Writer, schema Schema, rows [][]float64) error {
	kinds := resolveKinds(schema, rows)

	cw := csv.NewWriter(w)
	if err := cw.Write(schema.Header()); err != nil {
		return err
	}
	rec := make([]string, len(schema.Columns))
	for _, row := range rows {
		for i, v := range row {
			rec[i] = formatValue(v, kinds[i])
		}
		if err := cw.Write(rec); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// resolveKinds settles KindNumber columns to int or float from the data.
func resolveKinds(schema Schema, rows [][]float64) []ColumnKind {
	kinds := make([]ColumnKind, len(schema.Columns))
	for i, c := range schema.Columns {
		kinds[i] = c.Kind
		if c.Kind != KindNumber {
			continue
		}
		kinds[i] = KindInt
		for _, row := range rows {
			if row[i] != math.Trunc(row[i]) || math.IsInf(row[i], 0) {
				kinds[i] = KindFloat
				break
			}
		}
	}
	return kinds
}

func formatValue(v float64, kind ColumnKind) string {
	if kind == KindInt {
		return strconv.FormatInt(int64(math.Trunc(v)), 10)
	}
	s := strconv.FormatFloat(v, 'f', -1, 64)
	if math.IsNaN(v) || math.IsInf(v, 0) || strings.ContainsRune(s, '.') {
		return s
	}
	return s + ".0"
}
