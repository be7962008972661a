// Package cache wraps repositories with Redis read-through caching for
// read-mostly data. A cache outage degrades to the underlying repository,
// it never takes a read path down.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/screenseat/cinema-booking-system/internal/domain"
)

const layoutTTL = 1 * time.Hour

// LayoutCache is a domain.LayoutRepository backed by the real repository,
// with screen layouts cached in Redis. Layouts change only through
// out-of-band screen administration, so a bounded TTL is enough.
type LayoutCache struct {
	client redis.UniversalClient
	repo   domain.LayoutRepository
}

func NewLayoutCache(client redis.UniversalClient, repo domain.LayoutRepository) *LayoutCache {
	return &LayoutCache{
		client: client,
		repo:   repo,
	}
}

func (c *LayoutCache) GetByScreenID(ctx context.Context, screenID int) (domain.SeatLayout, error) {
	key := layoutKey(screenID)

	payload, err := c.client.Get(ctx, key).Bytes()
	if err == nil {
		var layout domain.SeatLayout
		if err := json.Unmarshal(payload, &layout); err == nil && len(layout) > 0 {
			return layout, nil
		}
	} else if !errors.Is(err, redis.Nil) && ctx.Err() != nil {
		return nil, ctx.Err()
	}

	layout, err := c.repo.GetByScreenID(ctx, screenID)
	if err != nil {
		return nil, err
	}

	if payload, err := json.Marshal(layout); err == nil {
		c.client.Set(ctx, key, payload, layoutTTL)
	}

	return layout, nil
}

func (c *LayoutCache) GetBlockedSeats(ctx context.Context, screenID int) ([]string, error) {
	return c.repo.GetBlockedSeats(ctx, screenID)
}

// BlockSeats writes through and drops the cached layout so the next seat
// map rebuild observes a consistent view.
func (c *LayoutCache) BlockSeats(ctx context.Context, screenID int, labels []string) error {
	err := c.repo.BlockSeats(ctx, screenID, labels)
	if err != nil {
		return err
	}

	c.client.Del(ctx, layoutKey(screenID))

	return nil
}

func layoutKey(screenID int) string {
	return fmt.Sprintf("screen_layout:%d", screenID)
}
