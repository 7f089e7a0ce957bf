package repository

import (
	"context"
	"edulearn_backend/internal/model"
	"encoding/json"
	"errors"
	"strconv"
	"time"

	"github.com/go-redis/redis/v8"
)

const (
	progressKeyPrefix = "edulearn:progress:"
	progressGenPrefix = "edulearn:progress:gen:"
)

// ProgressCache 学习进度汇总的读穿缓存。
// 每个学生维护一个代数计数器，汇总按 (学生, 代数) 存放；提交成绩时递增代数，
// 旧代数的条目不再被读取，随 TTL 过期。代数键不设过期时间。
type ProgressCache struct {
	Redis *redis.Client
	TTL   time.Duration
}

func NewProgressCache(rdb *redis.Client, ttl time.Duration) *ProgressCache {
	return &ProgressCache{Redis: rdb, TTL: ttl}
}

func progressKey(studentID string, gen int64) string {
	return progressKeyPrefix + studentID + ":" + strconv.FormatInt(gen, 10)
}

func progressGenKey(studentID string) string {
	return progressGenPrefix + studentID
}

// Generation 计数器不存在时为 0
func (c *ProgressCache) Generation(ctx context.Context, studentID string) (int64, error) {
	gen, err := c.Redis.Get(ctx, progressGenKey(studentID)).Int64()
	if errors.Is(err, redis.Nil) {
		return 0, nil
	}
	return gen, err
}

// Get 未命中时返回 (nil, false, nil)
func (c *ProgressCache) Get(ctx context.Context, studentID string, gen int64) (*model.ProgressSummary, bool, error) {
	data, err := c.Redis.Get(ctx, progressKey(studentID, gen)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}

	var summary model.ProgressSummary
	if err := json.Unmarshal(data, &summary); err != nil {
		return nil, false, err
	}
	return &summary, true, nil
}

func (c *ProgressCache) Set(ctx context.Context, studentID string, gen int64, summary *model.ProgressSummary) error {
	data, err := json.Marshal(summary)
	if err != nil {
		return err
	}
	return c.Redis.Set(ctx, progressKey(studentID, gen), data, c.TTL).Err()
}

func (c *ProgressCache) Invalidate(ctx context.Context, studentID string) error {
	return c.Redis.Incr(ctx, progressGenKey(studentID)).Err()
}
