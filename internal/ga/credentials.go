package ga

import (
	"context"
	"fmt"
	"log/slog"

	"google.golang.org/api/option"
	htransport "google.golang.org/api/transport/http"

	"gareport/internal/domain"
)

// ReadOnlyScope is the OAuth scope requested for report queries.
const ReadOnlyScope = "https://www.googleapis.com/auth/analytics.readonly"

// Connect builds an authenticated Client from a service-account key file.
// Token acquisition and refresh are handled by the Google transport.
func Connect(ctx context.Context, opts Options, logger *slog.Logger) (*Client, error) {
	if opts.KeyFile == "" {
		return nil, domain.ErrValidation("a service-account key file is required")
	}

	httpClient, _, err := htransport.NewClient(ctx,
		option.WithAuthCredentialsFile(option.ServiceAccount, opts.KeyFile),
		option.WithScopes(ReadOnlyScope),
	)
	if err != nil {
		return nil, fmt.Errorf("load credentials from %s: %w", opts.KeyFile, err)
	}
	return NewClient(httpClient, opts, logger), nil
}
