package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"gareport/internal/domain"
	"gareport/internal/export"
)

// Output formats accepted by --output.
const (
	outputTable = "table"
	outputJSON  = "json"
	outputCSV   = "csv"
)

// getOutputFormat returns the effective output format from the root command's persistent flags.
func getOutputFormat(cmd *cobra.Command) string {
	v, _ := cmd.Root().PersistentFlags().GetString("output")
	return v
}

func validateOutputFormat(output string) error {
	switch output {
	case "", outputTable, outputJSON, outputCSV:
		return nil
	default:
		return fmt.Errorf("unsupported output format %q: use 'table', 'json' or 'csv'", output)
	}
}

// PrintJSON writes v as indented JSON.
func PrintJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// PrintTable writes rows under upper-cased headers, aligned in columns
// separated by two spaces. Nothing is written when there are no columns.
func PrintTable(w io.Writer, columns []string, rows [][]string) {
	if len(columns) == 0 {
		return
	}
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	headers := make([]string, len(columns))
	for i, c := range columns {
		headers[i] = strings.ToUpper(c)
	}
	_, _ = fmt.Fprintln(tw, strings.Join(headers, "\t"))
	for _, row := range rows {
		_, _ = fmt.Fprintln(tw, strings.Join(row, "\t"))
	}
	_ = tw.Flush()
}

// PrintDetail writes one "key: value" line per field, sorted by key.
func PrintDetail(w io.Writer, fields map[string]any) {
	keys := make([]string, 0, len(fields))
	for k := range fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		_, _ = fmt.Fprintf(w, "%s: %s\n", k, detailValue(fields[k]))
	}
}

func detailValue(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return x
	case map[string]any, []any, []string:
		data, err := json.Marshal(x)
		if err != nil {
			return fmt.Sprint(x)
		}
		return string(data)
	default:
		return fmt.Sprint(x)
	}
}

// printStructuredTable renders a result table in the requested output format.
func printStructuredTable(ctx context.Context, w io.Writer, format string, table *domain.StructuredTable) error {
	switch format {
	case outputJSON, outputCSV:
		tw, err := export.Open(ctx, "-", export.Options{Format: export.Format(format), Stdout: w})
		if err != nil {
			return err
		}
		return tw.Write(ctx, table)
	default:
		rows := make([][]string, len(table.Rows))
		for i, row := range table.Rows {
			rows[i] = tableRecord(row)
		}
		PrintTable(w, table.Columns, rows)
		return nil
	}
}

func tableRecord(row []any) []string {
	out := make([]string, len(row))
	for i, v := range row {
		out[i] = export.FormatCell(v)
	}
	return out
}

// isTerminal reports whether f is attached to a terminal.
func isTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd())) //nolint:gosec // fd fits in int
}
