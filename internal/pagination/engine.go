// Package pagination drives a query executor across every page of a result
// set and merges the pages into one result.
package pagination

import (
	"context"
	"errors"
	"log/slog"

	"gareport/internal/domain"
)

// maxPrealloc caps the row capacity reserved up front, in pages.
const maxPrealloc = 16

// Engine fetches all pages of a query, one request at a time.
// An Engine holds no per-query state and is safe for concurrent use.
type Engine struct {
	logger *slog.Logger
}

// NewEngine creates a new Engine.
func NewEngine(logger *slog.Logger) *Engine {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Engine{logger: logger}
}

// Execute runs payload against exec and returns every row of the result set.
//
// The first page determines totalResults and itemsPerPage. Remaining pages
// are requested at start-index itemsPerPage+1, 2*itemsPerPage+1, ... while
// the zero-based offset is below totalResults, so a query spanning N pages
// makes exactly N executor calls. Rows are returned in retrieval order
// without deduplication. Any executor failure, including context
// cancellation, aborts the whole operation and discards rows already fetched.
func (e *Engine) Execute(ctx context.Context, exec domain.QueryExecutor, payload domain.QueryPayload) (*domain.MergedResult, error) {
	first, err := fetch(ctx, exec, payload.WithStartIndex(0), 1)
	if err != nil {
		return nil, err
	}

	total, perPage := first.TotalResults, first.ItemsPerPage
	if total < 0 {
		return nil, &domain.MalformedResponseError{Message: "totalResults is negative"}
	}
	if perPage <= 0 && total > len(first.Rows) {
		return nil, &domain.MalformedResponseError{
			Missing: []string{"itemsPerPage"},
			Message: "cannot paginate without a page size",
		}
	}

	if first.TotalPages() <= 1 {
		e.logger.Debug("query fits in one page", "total_results", total, "rows", len(first.Rows))
		return &domain.MergedResult{RawPage: *first, PagesFetched: 1}, nil
	}

	// totalResults comes from the server; it bounds the loop, not the allocation.
	rows := make([][]string, 0, min(total, min(perPage, domain.MaxMaxResults)*maxPrealloc))
	rows = append(rows, first.Rows...)
	fetched := 1

	for offset := perPage; offset > 0 && offset < total; offset += perPage {
		startIndex := offset + 1
		if err := ctx.Err(); err != nil {
			return nil, &domain.ExecutorError{StartIndex: startIndex, Err: err}
		}

		page, err := fetch(ctx, exec, payload.WithStartIndex(startIndex), startIndex)
		if err != nil {
			e.logger.Debug("page fetch failed", "start_index", startIndex, "rows_discarded", len(rows), "error", err)
			return nil, err
		}
		fetched++

		if page.TotalResults != total {
			e.logger.Warn("totalResults changed during pagination",
				"start_index", startIndex,
				"first_total", total,
				"page_total", page.TotalResults,
			)
		}

		rows = append(rows, page.Rows...)
		e.logger.Debug("page fetched", "start_index", startIndex, "rows", len(page.Rows), "accumulated", len(rows))
	}

	merged := *first
	merged.Rows = rows
	return &domain.MergedResult{RawPage: merged, PagesFetched: fetched}, nil
}

// fetch performs one executor call and normalises its failure modes.
func fetch(ctx context.Context, exec domain.QueryExecutor, payload domain.QueryPayload, startIndex int) (*domain.RawPage, error) {
	page, err := exec.Execute(ctx, payload)
	if err != nil {
		var execErr *domain.ExecutorError
		var malformed *domain.MalformedResponseError
		if errors.As(err, &execErr) || errors.As(err, &malformed) {
			return nil, err
		}
		return nil, &domain.ExecutorError{StartIndex: startIndex, Err: err}
	}
	if page == nil {
		return nil, &domain.MalformedResponseError{Message: "executor returned no page"}
	}
	return page, nil
}
