package redisstore

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"certwatch/internals/modules/status"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

func httpStatusKey(targetID uuid.UUID) string {
	return fmt.Sprintf("target:status:http:%v", targetID)
}

func sslStatusKey(targetID uuid.UUID) string {
	return fmt.Sprintf("target:status:ssl:%v", targetID)
}

func (c *Client) StoreHTTPStatus(ctx context.Context, targetID uuid.UUID, st status.LatestHTTPStatus) error {
	return retry(ctx, 2, func() error {
		return c.rdb.HSet(ctx, httpStatusKey(targetID), map[string]any{
			"status":           st.Status,
			"reason":           st.Reason,
			"status_code":      st.StatusCode,
			"response_time_ms": st.ResponseTimeMs,
			"checked_at":       st.CheckedAt.Unix(),
		}).Err()
	})
}

func (c *Client) GetHTTPStatus(ctx context.Context, targetID uuid.UUID) (*status.LatestHTTPStatus, error) {
	res, err := c.rdb.HGetAll(ctx, httpStatusKey(targetID)).Result()
	if err == redis.Nil || len(res) == 0 {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	st := &status.LatestHTTPStatus{
		Status: res["status"],
		Reason: res["reason"],
	}
	if v, err := strconv.Atoi(res["status_code"]); err == nil {
		st.StatusCode = v
	}
	if v, err := strconv.ParseInt(res["response_time_ms"], 10, 64); err == nil {
		st.ResponseTimeMs = v
	}
	if v, err := strconv.ParseInt(res["checked_at"], 10, 64); err == nil {
		st.CheckedAt = time.Unix(v, 0)
	}
	return st, nil
}

func (c *Client) StoreSSLStatus(ctx context.Context, targetID uuid.UUID, st status.LatestSSLStatus) error {
	return retry(ctx, 2, func() error {
		return c.rdb.HSet(ctx, sslStatusKey(targetID), map[string]any{
			"status":         st.Status,
			"days_remaining": st.DaysRemaining,
			"issuer":         st.Issuer,
			"not_after":      st.NotAfter.Unix(),
			"checked_at":     st.CheckedAt.Unix(),
		}).Err()
	})
}

func (c *Client) GetSSLStatus(ctx context.Context, targetID uuid.UUID) (*status.LatestSSLStatus, error) {
	res, err := c.rdb.HGetAll(ctx, sslStatusKey(targetID)).Result()
	if err == redis.Nil || len(res) == 0 {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	st := &status.LatestSSLStatus{
		Status: res["status"],
		Issuer: res["issuer"],
	}
	if v, err := strconv.Atoi(res["days_remaining"]); err == nil {
		st.DaysRemaining = v
	}
	if v, err := strconv.ParseInt(res["not_after"], 10, 64); err == nil {
		st.NotAfter = time.Unix(v, 0)
	}
	if v, err := strconv.ParseInt(res["checked_at"], 10, 64); err == nil {
		st.CheckedAt = time.Unix(v, 0)
	}
	return st, nil
}

func (c *Client) DelStatus(ctx context.Context, targetID uuid.UUID) error {
	return c.rdb.Del(ctx, httpStatusKey(targetID), sslStatusKey(targetID)).Err()
}
