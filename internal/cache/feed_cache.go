package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"go-gin-event-calendar/internal/model"

	"github.com/redis/go-redis/v9"
)

const feedVersionKey = "feed:version"

// FeedCache 只存 repository 查到的資料列，與時間相關的分類在讀取端以當下時間計算
type FeedCache interface {
	// 讀取：回傳快取的資料列與讀到的版本號；未命中時仍回傳版本號供 Set 使用
	Get(ctx context.Context, key string) (rows []*model.FeedRow, version int64, hit bool, err error)
	// 寫入：寫在 Get 當時的版本號下，期間若已失效，這筆資料不會再被讀到
	Set(ctx context.Context, version int64, key string, rows []*model.FeedRow) error
	// 失效：版本號加一，舊版本的 key 交給 TTL 自然過期
	Invalidate(ctx context.Context) error
}

type RedisFeedCacheImpl struct {
	client *redis.Client
	ttl    time.Duration
}

// NewFeedCache ttl <= 0 時回傳不快取的實作
func NewFeedCache(client *redis.Client, ttl time.Duration) FeedCache {
	if client == nil || ttl <= 0 {
		return NoopFeedCache{}
	}
	return &RedisFeedCacheImpl{
		client: client,
		ttl:    ttl,
	}
}

// feed 資料 key，帶版本號
func (c *RedisFeedCacheImpl) getDataKey(version int64, key string) string {
	return fmt.Sprintf("feed:v%d:%s", version, key)
}

func (c *RedisFeedCacheImpl) version(ctx context.Context) (int64, error) {
	v, err := c.client.Get(ctx, feedVersionKey).Int64()
	if err == redis.Nil {
		return 0, nil
	}
	return v, err
}

func (c *RedisFeedCacheImpl) Get(ctx context.Context, key string) ([]*model.FeedRow, int64, bool, error) {
	v, err := c.version(ctx)
	if err != nil {
		return nil, 0, false, err
	}

	raw, err := c.client.Get(ctx, c.getDataKey(v, key)).Bytes()
	if err == redis.Nil {
		return nil, v, false, nil
	}
	if err != nil {
		return nil, v, false, err
	}

	var rows []*model.FeedRow
	if err := json.Unmarshal(raw, &rows); err != nil {
		return nil, v, false, fmt.Errorf("decode cached feed: %w", err)
	}
	return rows, v, true, nil
}

func (c *RedisFeedCacheImpl) Set(ctx context.Context, version int64, key string, rows []*model.FeedRow) error {
	raw, err := json.Marshal(rows)
	if err != nil {
		return fmt.Errorf("encode feed: %w", err)
	}
	return c.client.Set(ctx, c.getDataKey(version, key), raw, c.ttl).Err()
}

func (c *RedisFeedCacheImpl) Invalidate(ctx context.Context) error {
	return c.client.Incr(ctx, feedVersionKey).Err()
}

// NoopFeedCache 永遠不命中
type NoopFeedCache struct{}

func (NoopFeedCache) Get(context.Context, string) ([]*model.FeedRow, int64, bool, error) {
	return nil, 0, false, nil
}

func (NoopFeedCache) Set(context.Context, int64, string, []*model.FeedRow) error { return nil }

func (NoopFeedCache) Invalidate(context.Context) error { return nil }
