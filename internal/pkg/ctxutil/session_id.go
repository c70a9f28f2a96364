package ctxutil

import "context"

type sessionIDKeyType struct{}

var sessionIDKey = sessionIDKeyType{}

// WithSessionID 将匿名会话ID注入到 context 中
// 会话ID来自浏览器 cookie，只用于匿名配额计数，不落库
func WithSessionID(ctx context.Context, sessionID string) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithValue(ctx, sessionIDKey, sessionID)
}

// GetSessionID 从 context 中解析匿名会话ID
func GetSessionID(ctx context.Context) (string, bool) {
	if ctx == nil {
		return "", false
	}
	v := ctx.Value(sessionIDKey)
	id, ok := v.(string)
	if !ok || id == "" {
		return "", false
	}
	return id, true
}
