package redisstore

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// Open-incident marker: fast path for "does this target have an open
// incident". Value is the incident id or "none"; postgres stays
// authoritative, the TTL bounds staleness after manual surgery.

const openIncidentMarkTTL = 24 * time.Hour

func openIncidentKey(targetID uuid.UUID) string {
	return fmt.Sprintf("target:incident:%v", targetID)
}

func (c *Client) GetOpenIncidentMark(ctx context.Context, targetID uuid.UUID) (string, bool, error) {
	mark, err := c.rdb.Get(ctx, openIncidentKey(targetID)).Result()
	if err == redis.Nil {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return mark, true, nil
}

func (c *Client) SetOpenIncidentMark(ctx context.Context, targetID uuid.UUID, mark string) error {
	return retry(ctx, 2, func() error {
		return c.rdb.Set(ctx, openIncidentKey(targetID), mark, openIncidentMarkTTL).Err()
	})
}

func (c *Client) ClearOpenIncidentMark(ctx context.Context, targetID uuid.UUID) error {
	return retry(ctx, 2, func() error {
		return c.rdb.Del(ctx, openIncidentKey(targetID)).Err()
	})
}
