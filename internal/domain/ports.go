package domain

import "context"

// QueryExecutor performs one remote report query and returns the page.
// Implemented by ga.Client.
type QueryExecutor interface {
	Execute(ctx context.Context, payload QueryPayload) (*RawPage, error)
}

// ExecutorFunc adapts a function to QueryExecutor.
type ExecutorFunc func(ctx context.Context, payload QueryPayload) (*RawPage, error)

// Execute calls f.
func (f ExecutorFunc) Execute(ctx context.Context, payload QueryPayload) (*RawPage, error) {
	return f(ctx, payload)
}

// TableWriter persists a structured table somewhere.
// Implemented by the writers in internal/export.
type TableWriter interface {
	Write(ctx context.Context, table *StructuredTable) error
}
