package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"gareport/internal/domain"
	"gareport/internal/export"
	"gareport/internal/service/query"
)

// payloadFlags binds the report query parameters to command-line flags.
type payloadFlags struct {
	startDate        string
	endDate          string
	metrics          []string
	dimensions       []string
	sort             []string
	segment          string
	filters          string
	maxResults       int
	samplingLevel    string
	includeEmptyRows bool
}

// dateFlagSet holds the flags shared by every query-running command.
func (f *payloadFlags) dateFlagSet() *pflag.FlagSet {
	fs := pflag.NewFlagSet("dates", pflag.ContinueOnError)
	fs.StringVar(&f.startDate, "start-date", "30daysAgo", "Start date (YYYY-MM-DD, today, yesterday or NdaysAgo)")
	fs.StringVar(&f.endDate, "end-date", "yesterday", "End date (YYYY-MM-DD, today, yesterday or NdaysAgo)")
	fs.StringVar(&f.segment, "segment", "", "Segment id or definition")
	fs.StringVar(&f.filters, "filters", "", "Filter expression, e.g. ga:country==Denmark")
	return fs
}

// flagSet holds the full set of query payload flags.
func (f *payloadFlags) flagSet() *pflag.FlagSet {
	fs := f.dateFlagSet()
	fs.StringSliceVarP(&f.metrics, "metrics", "m", nil, "Metrics, comma separated (ga: prefix optional)")
	fs.StringSliceVarP(&f.dimensions, "dimensions", "d", nil, "Dimensions, comma separated")
	fs.StringSliceVar(&f.sort, "sort", nil, "Sort fields; prefix with - for descending")
	fs.IntVar(&f.maxResults, "max-results", 0, "Rows per page (default from GA_PAGE_SIZE)")
	fs.StringVar(&f.samplingLevel, "sampling-level", "", "Sampling level (DEFAULT, FASTER, HIGHER_PRECISION)")
	fs.BoolVar(&f.includeEmptyRows, "include-empty-rows", true, "Include rows where all metrics are zero")
	return fs
}

// payload builds the query payload. include-empty-rows is sent only when
// the flag was set explicitly.
func (f *payloadFlags) payload(flags *pflag.FlagSet) domain.QueryPayload {
	p := domain.QueryPayload{
		StartDate:     f.startDate,
		EndDate:       f.endDate,
		Metrics:       f.metrics,
		Dimensions:    f.dimensions,
		Sort:          f.sort,
		Segment:       f.segment,
		Filters:       f.filters,
		MaxResults:    f.maxResults,
		SamplingLevel: f.samplingLevel,
	}
	if flags.Changed("include-empty-rows") {
		v := f.includeEmptyRows
		p.IncludeEmptyRows = &v
	}
	return p
}

func newQueryCmd(a *app) *cobra.Command {
	var (
		pf       payloadFlags
		mode     string
		dest     string
		appendTo bool
	)

	cmd := &cobra.Command{
		Use:   "query",
		Short: "Run a report query",
		Long: `Run a report query against the configured view, fetching every page.

The result is printed in the --output format, or written to --dest:
  report.csv, report.json      local file
  sqlite:///path/db#table      sqlite table
  duckdb:///path/db#table      DuckDB table
  gs://, s3://, az://          object storage`,
		Example: `  gareport query -m sessions,pageviews -d date --start-date 7daysAgo
  gareport query -m sessions -d source --sort -ga:sessions -o csv
  gareport query -m sessions -d date --dest duckdb:///tmp/ga.db#sessions`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			outputMode, err := domain.ParseOutputMode(mode)
			if err != nil {
				return err
			}
			if outputMode == domain.OutputRaw && dest != "" {
				return domain.ErrValidation("--dest cannot be used with --mode raw")
			}
			viewID, err := a.requireViewID()
			if err != nil {
				return err
			}
			payload := pf.payload(cmd.Flags())
			if err := payload.Validate(); err != nil {
				return err
			}

			svc, err := a.service(cmd.Context())
			if err != nil {
				return err
			}
			res, err := svc.Run(cmd.Context(), viewID, payload, outputMode)
			if err != nil {
				return err
			}
			return a.writeResult(cmd, res, dest, appendTo)
		},
	}

	cmd.Flags().AddFlagSet(pf.flagSet())
	cmd.Flags().StringVar(&mode, "mode", string(domain.OutputTypedTable), "Result shape (typed, table, raw)")
	cmd.Flags().StringVar(&dest, "dest", "", "Write the table to a file, database or bucket instead of stdout")
	cmd.Flags().BoolVar(&appendTo, "append", false, "Append to an existing database table")
	_ = cmd.MarkFlagRequired("metrics")

	return cmd
}

// writeResult prints res or writes its table to dest.
func (a *app) writeResult(cmd *cobra.Command, res *query.Result, dest string, appendTo bool) error {
	if res.Mode == domain.OutputRaw {
		return PrintJSON(cmd.OutOrStdout(), res.Raw)
	}
	if dest != "" {
		return a.writeTable(cmd, res.Table, dest, appendTo,
			"query_id", res.QueryID,
			"pages", res.Pages,
			"duration", res.Duration.Round(time.Millisecond),
		)
	}

	format := getOutputFormat(cmd)
	if err := printStructuredTable(cmd.Context(), cmd.OutOrStdout(), format, res.Table); err != nil {
		return err
	}
	if format == outputTable {
		_, _ = fmt.Fprintf(cmd.ErrOrStderr(), "\n(%d rows of %d)\n", res.Table.Len(), res.Metadata.TotalResults)
	}
	return nil
}

// writeTable writes table to an export destination.
func (a *app) writeTable(cmd *cobra.Command, table *domain.StructuredTable, dest string, appendTo bool, attrs ...any) error {
	ctx := cmd.Context()
	w, err := export.Open(ctx, dest, a.exportOptions(cmd, appendTo))
	if err != nil {
		return err
	}
	if err := w.Write(ctx, table); err != nil {
		return fmt.Errorf("write %s: %w", dest, err)
	}
	a.logger.Info("table written", append([]any{"destination", dest, "rows", table.Len()}, attrs...)...)
	return nil
}
