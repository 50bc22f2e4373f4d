package coerce

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gareport/internal/domain"
	"gareport/internal/schema"
)

func sampleTable() *domain.StructuredTable {
	return &domain.StructuredTable{
		Columns: []string{"date", "sessions", "bounceRate", "avgSessionDuration", "customThing", "source"},
		Rows: [][]any{
			{"20210131", "42", "3.14", "123.5", "foo", "google"},
			{"20210201", "0", "0.0", "0.0", "bar", "(direct)"},
		},
	}
}

func TestBuilder_Coerce(t *testing.T) {
	t.Parallel()

	got, err := NewBuilder(nil).Coerce(sampleTable())
	require.NoError(t, err)

	require.Equal(t, 2, got.Len())
	assert.Equal(t, []any{
		time.Date(2021, 1, 31, 0, 0, 0, 0, time.UTC),
		int64(42),
		3.14,
		"123.5",
		"foo",
		"google",
	}, got.Rows[0])
	assert.Equal(t, int64(0), got.Rows[1][1])
	assert.Equal(t, 0.0, got.Rows[1][2])
}

func TestBuilder_Coerce_DoesNotModifyInput(t *testing.T) {
	t.Parallel()

	in := sampleTable()
	_, err := NewBuilder(nil).Coerce(in)
	require.NoError(t, err)
	assert.Equal(t, sampleTable(), in)
}

func TestBuilder_Coerce_Idempotent(t *testing.T) {
	t.Parallel()

	b := NewBuilder(nil)
	once, err := b.Coerce(sampleTable())
	require.NoError(t, err)
	twice, err := b.Coerce(once)
	require.NoError(t, err)
	assert.Equal(t, once, twice)
}

func TestBuilder_Coerce_UnknownColumnsPassThrough(t *testing.T) {
	t.Parallel()

	in := &domain.StructuredTable{
		Columns: []string{"customThing", "dimension3"},
		Rows:    [][]any{{"foo", "not a number"}},
	}
	got, err := NewBuilder(nil).Coerce(in)
	require.NoError(t, err)
	assert.Equal(t, in.Columns, got.Columns)
	assert.Equal(t, []any{"foo", "not a number"}, got.Rows[0])
}

func TestBuilder_Coerce_EmptyTable(t *testing.T) {
	t.Parallel()

	got, err := NewBuilder(nil).Coerce(domain.NewStructuredTable([]string{"sessions"}))
	require.NoError(t, err)
	assert.Equal(t, []string{"sessions"}, got.Columns)
	assert.Equal(t, 0, got.Len())
}

func TestBuilder_Coerce_Failures(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		column string
		value  any
	}{
		{name: "malformed integer", column: "sessions", value: "4x2"},
		{name: "float text in integer column", column: "pageviews", value: "42.0"},
		{name: "malformed float", column: "adCost", value: "£3.14"},
		{name: "malformed date", column: "date", value: "31/01/2021"},
		{name: "unsupported cell type", column: "sessions", value: 42},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			in := &domain.StructuredTable{
				Columns: []string{"source", tt.column},
				Rows: [][]any{
					{"google", validFor(tt.column)},
					{"bing", tt.value},
				},
			}

			got, err := NewBuilder(nil).Coerce(in)
			require.Error(t, err)
			assert.Nil(t, got)

			var coerceErr *domain.CoercionError
			require.ErrorAs(t, err, &coerceErr)
			assert.Equal(t, tt.column, coerceErr.Column)
			assert.Equal(t, 1, coerceErr.Row)
			assert.Equal(t, tt.value, coerceErr.Value)
		})
	}
}

func TestBuilder_Coerce_CustomRegistry(t *testing.T) {
	t.Parallel()

	reg := schema.New(map[string]schema.SemanticType{"dimension1": schema.Integer})
	in := &domain.StructuredTable{
		Columns: []string{"dimension1"},
		Rows:    [][]any{{"7"}},
	}
	got, err := NewBuilder(reg).Coerce(in)
	require.NoError(t, err)
	assert.Equal(t, int64(7), got.Rows[0][0])
}

func TestValue_DateLayouts(t *testing.T) {
	t.Parallel()

	want := time.Date(2021, 3, 4, 0, 0, 0, 0, time.UTC)
	for _, in := range []string{"20210304", "2021-03-04"} {
		got, err := Value(schema.Date, in)
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}
}

func validFor(column string) any {
	switch schema.TypeOf(column) {
	case schema.Integer:
		return "1"
	case schema.Float:
		return "1.5"
	case schema.Date:
		return "20210101"
	default:
		return "x"
	}
}
