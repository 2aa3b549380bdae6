package ports

import (
	"context"

	"github.com/civicgrid/civic-report-api/internal/core/domain"
)

// CountsCache is a short-TTL cache for the superadmin dashboard tally. Cache
// failures are never fatal; callers fall through to a full scan.
type CountsCache interface {
	// Get returns the cached counts and whether the cache held an entry.
	Get(ctx context.Context) (*domain.RoleCounts, bool, error)
	Set(ctx context.Context, counts *domain.RoleCounts) error
}
