// Package coerce converts structured table cells to their schema-declared
// semantic types.
package coerce

import (
	"fmt"
	"strconv"
	"time"

	"gareport/internal/domain"
	"gareport/internal/schema"
)

// Builder applies a schema registry to structured tables.
type Builder struct {
	registry *schema.Registry
}

// NewBuilder creates a Builder. A nil registry uses schema.Default().
func NewBuilder(registry *schema.Registry) *Builder {
	if registry == nil {
		registry = schema.Default()
	}
	return &Builder{registry: registry}
}

// Coerce returns a copy of table with every cell converted to its column's
// semantic type: Integer cells become int64, Float cells float64, Date cells
// time.Time (UTC midnight). Duration and unknown columns are left as-is.
//
// The first cell that fails to parse aborts the call with a
// *domain.CoercionError; the input table is never modified. Cells that
// already hold the target type are kept, so Coerce is idempotent.
func (b *Builder) Coerce(table *domain.StructuredTable) (*domain.StructuredTable, error) {
	out := table.Clone()
	types := make([]schema.SemanticType, len(out.Columns))
	for i, c := range out.Columns {
		types[i] = b.registry.TypeOf(c)
	}

	for r, row := range out.Rows {
		for c := range row {
			if c >= len(types) {
				break
			}
			v, err := Value(types[c], row[c])
			if err != nil {
				return nil, &domain.CoercionError{
					Column: out.Columns[c],
					Row:    r,
					Value:  row[c],
					Type:   string(types[c]),
					Err:    err,
				}
			}
			row[c] = v
		}
	}
	return out, nil
}

// Value converts a single cell to t.
func Value(t schema.SemanticType, v any) (any, error) {
	if v == nil {
		return nil, nil
	}
	switch t {
	case schema.Integer:
		switch x := v.(type) {
		case int64:
			return x, nil
		case string:
			return strconv.ParseInt(x, 10, 64)
		}
	case schema.Float:
		switch x := v.(type) {
		case float64:
			return x, nil
		case string:
			return strconv.ParseFloat(x, 64)
		}
	case schema.Date:
		switch x := v.(type) {
		case time.Time:
			return x, nil
		case string:
			return parseDate(x)
		}
	default:
		return v, nil
	}
	return nil, fmt.Errorf("unsupported cell type %T", v)
}

func parseDate(s string) (time.Time, error) {
	if d, err := time.Parse(schema.DateLayout, s); err == nil {
		return d, nil
	}
	return time.Parse(time.DateOnly, s)
}
