package port

import "context"

// Reporter receives lifecycle events from the core.
type Reporter interface {
	Ready(ctx context.Context)
	CapabilityInitialized(ctx context.Context, name string)
	CapabilityUnavailable(ctx context.Context, name string)
	CapabilityDegraded(ctx context.Context, name string, err error)
	SearchFailed(ctx context.Context, query string, err error)
}
