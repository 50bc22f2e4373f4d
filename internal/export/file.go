package export

import (
	"context"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"

	"gareport/internal/domain"
)

// CSVWriter writes a header line followed by one record per row.
type CSVWriter struct {
	w io.Writer
}

// NewCSVWriter creates a CSVWriter on w.
func NewCSVWriter(w io.Writer) *CSVWriter {
	return &CSVWriter{w: w}
}

// Write implements domain.TableWriter.
func (cw *CSVWriter) Write(_ context.Context, table *domain.StructuredTable) error {
	enc := csv.NewWriter(cw.w)
	if err := enc.Write(table.Columns); err != nil {
		return fmt.Errorf("write csv header: %w", err)
	}
	record := make([]string, len(table.Columns))
	for _, row := range table.Rows {
		for i := range record {
			record[i] = ""
			if i < len(row) {
				record[i] = FormatCell(row[i])
			}
		}
		if err := enc.Write(record); err != nil {
			return fmt.Errorf("write csv row: %w", err)
		}
	}
	enc.Flush()
	return enc.Error()
}

// JSONWriter writes the table as an indented array of objects keyed by
// column name. Typed cells keep their JSON type; dates are YYYY-MM-DD.
type JSONWriter struct {
	w io.Writer
}

// NewJSONWriter creates a JSONWriter on w.
func NewJSONWriter(w io.Writer) *JSONWriter {
	return &JSONWriter{w: w}
}

// Write implements domain.TableWriter.
func (jw *JSONWriter) Write(_ context.Context, table *domain.StructuredTable) error {
	records := make([]map[string]any, 0, len(table.Rows))
	for _, row := range table.Rows {
		rec := make(map[string]any, len(table.Columns))
		for i, col := range table.Columns {
			if i >= len(row) {
				rec[col] = nil
				continue
			}
			if d, ok := row[i].(time.Time); ok {
				rec[col] = d.Format(time.DateOnly)
				continue
			}
			rec[col] = row[i]
		}
		records = append(records, rec)
	}

	enc := json.NewEncoder(jw.w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(records); err != nil {
		return fmt.Errorf("encode json: %w", err)
	}
	return nil
}

func newStreamWriter(w io.Writer, format Format) domain.TableWriter {
	if format == FormatJSON {
		return NewJSONWriter(w)
	}
	return NewCSVWriter(w)
}

// FileWriter writes the table to a local file, replacing its contents.
type FileWriter struct {
	Path   string
	Format Format
}

// Write implements domain.TableWriter.
func (fw *FileWriter) Write(ctx context.Context, table *domain.StructuredTable) error {
	f, err := os.Create(fw.Path) //nolint:gosec // path is caller-controlled
	if err != nil {
		return fmt.Errorf("create %s: %w", fw.Path, err)
	}
	if err := newStreamWriter(f, fw.Format).Write(ctx, table); err != nil {
		_ = f.Close()
		return fmt.Errorf("write %s: %w", fw.Path, err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("close %s: %w", fw.Path, err)
	}
	return nil
}
