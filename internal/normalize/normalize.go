// Package normalize converts raw report pages into structured tables.
package normalize

import (
	"fmt"

	"gareport/internal/domain"
	"gareport/internal/schema"
)

// PageMetadata summarises the query-invariant fields of a page.
type PageMetadata struct {
	TotalResults        int
	ItemsPerPage        int
	TotalPages          int
	Columns             []string
	Totals              map[string]string
	ProfileInfo         domain.ProfileInfo
	ContainsSampledData bool
}

// ColumnName returns a header name with its namespace prefix stripped.
func ColumnName(header domain.ColumnHeader) string {
	return schema.StripNamespace(header.Name)
}

// ExtractColumnNames returns the page's column names in header order.
func ExtractColumnNames(page *domain.RawPage) []string {
	names := make([]string, len(page.ColumnHeaders))
	for i, h := range page.ColumnHeaders {
		names[i] = ColumnName(h)
	}
	return names
}

// ExtractRows returns the page's rows. An absent rows field yields an empty,
// non-nil slice.
func ExtractRows(page *domain.RawPage) [][]string {
	if page.Rows == nil {
		return [][]string{}
	}
	return page.Rows
}

// ToStructuredTable builds a table from a page without coercing values.
//
// A page without column headers is a *domain.MalformedResponseError. A page
// without rows is an empty result when totalResults is zero and malformed
// otherwise. Empty results are tables with columns and no rows, never nil.
func ToStructuredTable(page *domain.RawPage) (*domain.StructuredTable, error) {
	if page == nil {
		return nil, domain.ErrMalformedResponse("columnHeaders", "rows")
	}
	if page.ColumnHeaders == nil {
		return nil, domain.ErrMalformedResponse("columnHeaders")
	}
	if page.Rows == nil && page.TotalResults > 0 {
		return nil, &domain.MalformedResponseError{
			Missing: []string{"rows"},
			Message: "totalResults is non-zero",
		}
	}

	columns := ExtractColumnNames(page)
	table := domain.NewStructuredTable(columns)
	for i, row := range ExtractRows(page) {
		if len(row) != len(columns) {
			return nil, &domain.MalformedResponseError{
				Message: fmt.Sprintf("row %d has %d cells for %d columns", i, len(row), len(columns)),
			}
		}
		cells := make([]any, len(row))
		for j, v := range row {
			cells[j] = v
		}
		table.Rows = append(table.Rows, cells)
	}
	return table, nil
}

// Metadata returns the page's query-invariant fields.
func Metadata(page *domain.RawPage) PageMetadata {
	return PageMetadata{
		TotalResults:        page.TotalResults,
		ItemsPerPage:        page.ItemsPerPage,
		TotalPages:          page.TotalPages(),
		Columns:             ExtractColumnNames(page),
		Totals:              page.TotalsForAllResults,
		ProfileInfo:         page.ProfileInfo,
		ContainsSampledData: page.ContainsSampledData,
	}
}
