// Package query implements the report query façade: it owns the view
// identifier, drives pagination, and shapes the output.
package query

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"gareport/internal/coerce"
	"gareport/internal/domain"
	"gareport/internal/normalize"
	"gareport/internal/pagination"
	"gareport/internal/schema"
)

// Result holds the output of one query run. Exactly one of Table and Raw is
// set, according to Mode.
type Result struct {
	QueryID  string
	Mode     domain.OutputMode
	Table    *domain.StructuredTable
	Raw      *domain.MergedResult
	Metadata normalize.PageMetadata
	Pages    int
	Duration time.Duration
}

// QueryService runs report queries against an injected executor.
//
//nolint:revive // Name chosen for clarity across package boundaries
type QueryService struct {
	executor domain.QueryExecutor
	engine   *pagination.Engine
	builder  *coerce.Builder
	logger   *slog.Logger
}

// NewQueryService creates a new QueryService. The executor must be safe for
// concurrent use if Run is called concurrently.
func NewQueryService(exec domain.QueryExecutor, logger *slog.Logger) *QueryService {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &QueryService{
		executor: exec,
		engine:   pagination.NewEngine(logger),
		builder:  coerce.NewBuilder(schema.Default()),
		logger:   logger,
	}
}

// SetRegistry replaces the schema registry used for typed output.
func (s *QueryService) SetRegistry(reg *schema.Registry) {
	s.builder = coerce.NewBuilder(reg)
}

// Run executes payload against the given view and returns the result in the
// requested mode. An empty mode means domain.OutputTypedTable.
//
// The view identifier is always set from viewID and any caller-supplied
// start index is ignored. Metric, dimension and sort names without a
// namespace are qualified.
//
// Errors are typed: *domain.ValidationError, *domain.ExecutorError,
// *domain.MalformedResponseError or *domain.CoercionError. On a coercion
// failure the returned Result still carries the un-coerced table.
func (s *QueryService) Run(ctx context.Context, viewID string, payload domain.QueryPayload, mode domain.OutputMode) (*Result, error) {
	if mode == "" {
		mode = domain.OutputTypedTable
	}
	if _, err := domain.ParseOutputMode(string(mode)); err != nil {
		return nil, err
	}
	if err := domain.ValidateViewID(viewID); err != nil {
		return nil, err
	}
	if err := payload.Validate(); err != nil {
		return nil, err
	}

	final := finalPayload(viewID, payload)
	queryID := uuid.NewString()
	logger := s.logger.With("query_id", queryID, "view_id", viewID)
	logger.Debug("running query",
		"metrics", final.Metrics,
		"dimensions", final.Dimensions,
		"start_date", final.StartDate,
		"end_date", final.EndDate,
	)

	start := time.Now()
	merged, err := s.engine.Execute(ctx, s.executor, final)
	if err != nil {
		logger.Warn("query failed", "error", err)
		return nil, fmt.Errorf("run query %s: %w", queryID, err)
	}

	res := &Result{
		QueryID:  queryID,
		Mode:     mode,
		Metadata: normalize.Metadata(&merged.RawPage),
		Pages:    merged.PagesFetched,
		Duration: time.Since(start),
	}
	if merged.ContainsSampledData {
		logger.Warn("result contains sampled data", "sample_size", merged.SampleSize, "sample_space", merged.SampleSpace)
	}

	if mode == domain.OutputRaw {
		res.Raw = merged
		s.logCompleted(logger, res, len(merged.Rows))
		return res, nil
	}

	table, err := normalize.ToStructuredTable(&merged.RawPage)
	if err != nil {
		logger.Warn("normalize failed", "error", err)
		return nil, fmt.Errorf("normalize result %s: %w", queryID, err)
	}
	res.Table = table

	if mode == domain.OutputTypedTable {
		typed, err := s.builder.Coerce(table)
		if err != nil {
			logger.Warn("coercion failed", "error", err)
			return res, fmt.Errorf("coerce result %s: %w", queryID, err)
		}
		res.Table = typed
	}

	s.logCompleted(logger, res, table.Len())
	return res, nil
}

// Table runs payload and returns the typed table.
func (s *QueryService) Table(ctx context.Context, viewID string, payload domain.QueryPayload) (*domain.StructuredTable, error) {
	res, err := s.Run(ctx, viewID, payload, domain.OutputTypedTable)
	if err != nil {
		return nil, err
	}
	return res.Table, nil
}

func (s *QueryService) logCompleted(logger *slog.Logger, res *Result, rows int) {
	logger.Info("query completed",
		"mode", string(res.Mode),
		"rows", rows,
		"pages", res.Pages,
		"duration_ms", res.Duration.Milliseconds(),
	)
}

// Run executes a single query with a throwaway service.
func Run(ctx context.Context, exec domain.QueryExecutor, viewID string, payload domain.QueryPayload, mode domain.OutputMode) (*Result, error) {
	return NewQueryService(exec, nil).Run(ctx, viewID, payload, mode)
}

// IsCoercionError reports whether err came from the typed table pass.
func IsCoercionError(err error) bool {
	var coerceErr *domain.CoercionError
	return errors.As(err, &coerceErr)
}

func finalPayload(viewID string, payload domain.QueryPayload) domain.QueryPayload {
	final := payload.WithView(viewID)
	final.Metrics = domain.QualifiedNames(payload.Metrics)
	final.Dimensions = domain.QualifiedNames(payload.Dimensions)
	final.Sort = domain.QualifiedNames(payload.Sort)
	return final
}
