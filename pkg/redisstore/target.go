package redisstore

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"certwatch/internals/modules/target"

	"github.com/google/uuid"
)

const targetTTL = 24 * time.Hour

func targetKey(id uuid.UUID) string {
	return fmt.Sprintf("target:%v", id.String())
}

func (c *Client) SetTarget(ctx context.Context, t target.Target) error {
	jsonT, err := json.Marshal(t)
	if err != nil {
		return err
	}
	return c.rdb.Set(ctx, targetKey(t.ID), jsonT, targetTTL).Err()
}

func (c *Client) GetTarget(ctx context.Context, id uuid.UUID) (target.Target, bool) {
	res, err := c.rdb.Get(ctx, targetKey(id)).Bytes()
	if err != nil {
		return target.Target{}, false
	}
	var t target.Target
	if err := json.Unmarshal(res, &t); err != nil {
		return target.Target{}, false
	}
	return t, true
}

func (c *Client) DelTarget(ctx context.Context, id uuid.UUID) error {
	return c.rdb.Del(ctx, targetKey(id)).Err()
}
