package port

import (
	"context"
	"watson/internal/core/domain"
)

type VideoSearcher interface {
	// Search returns at most limit videos for query. A limit of zero or less means the default.
	// Failures are always *domain.SearchFailedError.
	Search(ctx context.Context, query string, limit int) ([]domain.VideoResult, error)
}
