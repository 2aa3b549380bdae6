package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/civicgrid/civic-report-api/internal/core/domain"
)

const (
	countsKey = "dashboard:role_counts"
	countsTTL = 30 * time.Second
)

// CountsCache caches the superadmin dashboard tally so repeated dashboard
// loads do not rescan the accounts collection.
type CountsCache struct {
	client *redis.Client
}

func NewCountsCache(client *redis.Client) *CountsCache {
	return &CountsCache{client: client}
}

// Get returns the cached counts and whether an entry existed.
func (c *CountsCache) Get(ctx context.Context) (*domain.RoleCounts, bool, error) {
	raw, err := c.client.Get(ctx, countsKey).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("counts cache get: %w", err)
	}

	var counts domain.RoleCounts
	if err := json.Unmarshal(raw, &counts); err != nil {
		return nil, false, fmt.Errorf("counts cache decode: %w", err)
	}
	return &counts, true, nil
}

// Set stores the counts with a short TTL.
func (c *CountsCache) Set(ctx context.Context, counts *domain.RoleCounts) error {
	raw, err := json.Marshal(counts)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, countsKey, raw, countsTTL).Err()
}
