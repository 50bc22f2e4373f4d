package domain

// StructuredTable is an ordered set of named columns and positional rows.
// Cells hold strings as delivered by the API until a coercion pass replaces
// them with int64, float64, or time.Time values.
type StructuredTable struct {
	Columns []string
	Rows    [][]any
}

// NewStructuredTable returns an empty table with the given columns.
func NewStructuredTable(columns []string) *StructuredTable {
	return &StructuredTable{Columns: columns, Rows: [][]any{}}
}

// Len returns the number of rows.
func (t *StructuredTable) Len() int {
	if t == nil {
		return 0
	}
	return len(t.Rows)
}

// ColumnIndex returns the position of the named column, or -1.
func (t *StructuredTable) ColumnIndex(name string) int {
	for i, c := range t.Columns {
		if c == name {
			return i
		}
	}
	return -1
}

// Column returns the values of the named column, or nil when it is absent.
func (t *StructuredTable) Column(name string) []any {
	idx := t.ColumnIndex(name)
	if idx < 0 {
		return nil
	}
	out := make([]any, len(t.Rows))
	for i, row := range t.Rows {
		if idx < len(row) {
			out[i] = row[idx]
		}
	}
	return out
}

// Clone returns a deep copy of the table's column and row slices.
func (t *StructuredTable) Clone() *StructuredTable {
	out := &StructuredTable{
		Columns: append([]string(nil), t.Columns...),
		Rows:    make([][]any, len(t.Rows)),
	}
	for i, row := range t.Rows {
		out.Rows[i] = append([]any(nil), row...)
	}
	return out
}

// OutputMode selects the shape returned by a query run.
type OutputMode string

// Output modes.
const (
	// OutputTable returns a StructuredTable with string cells.
	OutputTable OutputMode = "table"
	// OutputTypedTable returns a StructuredTable coerced through the schema registry.
	OutputTypedTable OutputMode = "typed"
	// OutputRaw returns the MergedResult unmodified.
	OutputRaw OutputMode = "raw"
)

// ParseOutputMode maps a user supplied string to an OutputMode.
func ParseOutputMode(s string) (OutputMode, error) {
	switch OutputMode(s) {
	case OutputTable, OutputTypedTable, OutputRaw:
		return OutputMode(s), nil
	case "":
		return OutputTypedTable, nil
	default:
		return "", ErrValidation("unknown output mode %q: use table, typed or raw", s)
	}
}
