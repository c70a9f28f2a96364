package service

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog/log"
)

// ErrQuotaExceeded 匿名会话的免费消息额度已用完
var ErrQuotaExceeded = errors.New("匿名额度已用完，请注册后继续使用")

// QuotaStore 匿名配额计数存储（供 service 层依赖）
type QuotaStore interface {
	Increment(ctx context.Context, sessionID string) (int64, time.Time, error)
	Count(ctx context.Context, sessionID string) (int64, error)
}

// QuotaGuard 匿名配额守卫
// 先递增后判断：计数器总是先加一，再和上限比较。
// 第一个把计数推过上限的请求被拒绝，已经放行的请求不受影响
type QuotaGuard struct {
	store QuotaStore
	limit int64
}

// NewQuotaGuard 创建配额守卫
func NewQuotaGuard(store QuotaStore, limit int64) *QuotaGuard {
	return &QuotaGuard{store: store, limit: limit}
}

// Admit 记账并判断是否放行，返回递增后的计数
// 被拒绝的请求也已计数，这是先递增后判断的代价，
// 换来的是并发请求下不会放行超额消息
func (g *QuotaGuard) Admit(ctx context.Context, sessionID string) (int64, error) {
	count, firstSeen, err := g.store.Increment(ctx, sessionID)
	if err != nil {
		log.Error().Err(err).Str("session_id", sessionID).Msg("failed to increment anonymous quota")
		return 0, err
	}

	if count > g.limit {
		log.Info().Str("session_id", sessionID).Int64("count", count).
			Time("first_seen", firstSeen).Msg("anonymous quota exceeded")
		return count, ErrQuotaExceeded
	}
	return count, nil
}

// Remaining 查询会话剩余额度（不计数）
func (g *QuotaGuard) Remaining(ctx context.Context, sessionID string) (int64, error) {
	count, err := g.store.Count(ctx, sessionID)
	if err != nil {
		return 0, err
	}
	remaining := g.limit - count
	if remaining < 0 {
		remaining = 0
	}
	return remaining, nil
}

// Limit 返回配额上限
func (g *QuotaGuard) Limit() int64 { return g.limit }
