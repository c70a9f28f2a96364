package cache

import (
	"context"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

const anonQuotaKeyPrefix = "anon:quota:"

// AnonQuotaKey 生成匿名配额 key
func AnonQuotaKey(sessionID string) string {
	return anonQuotaKeyPrefix + sessionID
}

// QuotaStore 匿名配额存储
// 计数器保存在每个匿名会话一个的 Redis hash 里：
//
//	count      累计消息数
//	first_seen 首条消息时间（Unix 秒）
//
// HINCRBY 保证同一会话的并发请求（如多个浏览器标签页）按原子
// 递增读取计数，不会出现 read-then-write 竞态放行超额请求
type QuotaStore struct {
	client *redis.Client
	ttl    time.Duration // 0 表示配额键永不过期
}

// NewQuotaStore 创建匿名配额存储
func NewQuotaStore(rc *RedisCache, ttl time.Duration) *QuotaStore {
	return &QuotaStore{client: rc.Client(), ttl: ttl}
}

// Increment 原子递增会话计数并返回递增后的值和首次请求时间
func (s *QuotaStore) Increment(ctx context.Context, sessionID string) (int64, time.Time, error) {
	key := AnonQuotaKey(sessionID)

	var (
		incr  *redis.IntCmd
		first *redis.StringCmd
	)
	_, err := s.client.Pipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.HSetNX(ctx, key, "first_seen", time.Now().Unix())
		incr = pipe.HIncrBy(ctx, key, "count", 1)
		if s.ttl > 0 {
			pipe.Expire(ctx, key, s.ttl)
		}
		first = pipe.HGet(ctx, key, "first_seen")
		return nil
	})
	if err != nil {
		return 0, time.Time{}, err
	}

	unix, err := strconv.ParseInt(first.Val(), 10, 64)
	if err != nil {
		return 0, time.Time{}, err
	}

	return incr.Val(), time.Unix(unix, 0), nil
}

// Count 读取会话当前计数（不存在返回 0）
func (s *QuotaStore) Count(ctx context.Context, sessionID string) (int64, error) {
	val, err := s.client.HGet(ctx, AnonQuotaKey(sessionID), "count").Result()
	if err == redis.Nil {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}
	return strconv.ParseInt(val, 10, 64)
}
