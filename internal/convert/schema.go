// Package convert turns whitespace-delimited simulator output into CSV with
// a fixed, named column layout.
package convert

// ColumnKind controls how a column's tokens are coerced before writing.
type ColumnKind int

const (
	// KindNumber columns are inferred: integer if every row is integral,
	// float otherwise.
	KindNumber ColumnKind = iota
	// KindInt columns are truncated toward zero.
	KindInt
	// KindFloat columns are always written as floats.
	KindFloat
)

func (k ColumnKind) String() string {
	switch k {
	case KindInt:
		return "int"
	case KindFloat:
		return "float"
	default:
		return "number"
	}
}

// Column is one named field of a schema.
type Column struct {
	Name string
	Kind ColumnKind
}

// Schema is a fixed column layout for one simulator output format.
type Schema struct {
	Name    string
	Columns []Column
}

// Header returns the column names in order.
func (s Schema) Header() []string {
	out := make([]string, len(s.Columns))
	for i, c := range s.Columns {
		out[i] = c.Name
	}
	return out
}

// Full3DSchema is the layout written by the Full3D ray tracer.
var Full3DSchema = Schema{
	Name: "full3d",
	Columns: []Column{
		{Name: "ID"},
		{Name: "X"},
		{Name: "Y"},
		{Name: "Z"},
		{Name: "Distance (m)", Kind: KindInt},
		{Name: "Power (dBm)", Kind: KindFloat},
		{Name: "Phase", Kind: KindFloat},
	},
}

// OtherSchema is the layout of the other simulators, which report path loss
// directly and have no phase column.
var OtherSchema = Schema{
	Name: "other",
	Columns: []Column{
		{Name: "ID"},
		{Name: "X"},
		{Name: "Y"},
		{Name: "Z"},
		{Name: "Distance (m)", Kind: KindInt},
		{Name: "Pl", Kind: KindFloat},
	},
}

// SchemaFor selects the schema for the simulator variant.
func SchemaFor(full3D bool) Schema {
	if full3D {
		return Full3DSchema
	}
	return OtherSchema
}
