// Package testutil provides shared mock implementations of domain interfaces
// for use in tests across the codebase. This follows the Go convention of a
// shared test utility package (like net/http/httptest).
package testutil

import (
	"context"
	"fmt"
	"sync"

	"gareport/internal/domain"
)

// === Query Executor Mock ===

// MockExecutor implements domain.QueryExecutor for testing.
type MockExecutor struct {
	ExecuteFn func(ctx context.Context, payload domain.QueryPayload) (*domain.RawPage, error)

	mu    sync.Mutex
	calls []domain.QueryPayload // collected payloads for assertions
}

// Execute implements the interface method for testing.
func (m *MockExecutor) Execute(ctx context.Context, payload domain.QueryPayload) (*domain.RawPage, error) {
	m.mu.Lock()
	m.calls = append(m.calls, payload)
	m.mu.Unlock()
	if m.ExecuteFn != nil {
		return m.ExecuteFn(ctx, payload)
	}
	panic("unexpected call to MockExecutor.Execute")
}

// Calls returns a copy of the payloads received so far.
func (m *MockExecutor) Calls() []domain.QueryPayload {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]domain.QueryPayload(nil), m.calls...)
}

// CallCount returns the number of Execute calls.
func (m *MockExecutor) CallCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.calls)
}

// StartIndexes returns the start index of every received payload.
func (m *MockExecutor) StartIndexes() []int {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]int, len(m.calls))
	for i, c := range m.calls {
		out[i] = c.StartIndex
	}
	return out
}

// === Paged result fixture ===

// PagedResult serves a synthetic result set of Total rows in pages of
// PerPage rows, honouring the payload's 1-based start index. Row i has
// cells {"row-i", "<i>"} under the headers ga:pagePath and ga:pageviews.
type PagedResult struct {
	Total   int
	PerPage int

	// FailAt makes the call with this start index fail with Err.
	FailAt int
	Err    error
}

// Headers returns the column headers served by the fixture.
func (p PagedResult) Headers() []domain.ColumnHeader {
	return []domain.ColumnHeader{
		{Name: "ga:pagePath", ColumnType: domain.ColumnTypeDimension, DataType: "STRING"},
		{Name: "ga:pageviews", ColumnType: domain.ColumnTypeMetric, DataType: "INTEGER"},
	}
}

// Executor returns a MockExecutor backed by the fixture.
func (p PagedResult) Executor() *MockExecutor {
	return &MockExecutor{ExecuteFn: p.Serve}
}

// Serve returns the page addressed by payload.StartIndex.
func (p PagedResult) Serve(_ context.Context, payload domain.QueryPayload) (*domain.RawPage, error) {
	start := payload.StartIndex
	if start == 0 {
		start = 1
	}
	if p.FailAt != 0 && start == p.FailAt {
		return nil, p.Err
	}

	page := &domain.RawPage{
		Kind:                "analytics#gaData",
		TotalResults:        p.Total,
		ItemsPerPage:        p.PerPage,
		ColumnHeaders:       p.Headers(),
		TotalsForAllResults: map[string]string{"ga:pageviews": fmt.Sprint(p.Total)},
		ProfileInfo:         domain.ProfileInfo{ProfileID: "12345"},
		Query:               domain.QueryInfo{IDs: payload.IDs, StartIndex: start, MaxResults: p.PerPage},
	}
	for i := start - 1; i < p.Total && i < start-1+p.PerPage; i++ {
		page.Rows = append(page.Rows, []string{fmt.Sprintf("row-%d", i), fmt.Sprint(i)})
	}
	return page, nil
}

// === Table Writer Mock ===

// MockTableWriter implements domain.TableWriter for testing.
type MockTableWriter struct {
	WriteFn func(ctx context.Context, table *domain.StructuredTable) error

	mu     sync.Mutex
	Tables []*domain.StructuredTable // collected tables for assertions
}

// Write implements the interface method for testing.
func (m *MockTableWriter) Write(ctx context.Context, table *domain.StructuredTable) error {
	if m.WriteFn != nil {
		if err := m.WriteFn(ctx, table); err != nil {
			return err
		}
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Tables = append(m.Tables, table)
	return nil
}

// Count returns the number of tables written.
func (m *MockTableWriter) Count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.Tables)
}
