package ai

import (
	"context"
	"errors"

	"github.com/cloudwego/eino/schema"
	"github.com/rs/zerolog/log"

	"pomelo/internal/config"
	"pomelo/internal/pkg/chatctx"
)

// ErrEmptyCompletion 补全服务没有返回可用内容
var ErrEmptyCompletion = errors.New("empty completion result")

// Completer 外部补全能力接口
// API key 和 engine 由每次请求携带，透传给提供方，不落库不缓存
type Completer interface {
	Complete(ctx context.Context, messages []chatctx.Message, apiKey, engine string) (string, error)
}

// EinoCompleter 基于 Eino ChatModel 的补全实现
// 每次请求按 engine 选择 provider 并用请求方的 API key 新建 ChatModel，
// 凭据只存在于本次调用的栈上
type EinoCompleter struct {
	cfg *config.AIConfig
}

// NewEinoCompleter 创建补全客户端
func NewEinoCompleter(cfg *config.AIConfig) *EinoCompleter {
	return &EinoCompleter{cfg: cfg}
}

// Complete 调用补全服务，返回生成的文本
func (c *EinoCompleter) Complete(ctx context.Context, messages []chatctx.Message, apiKey, engine string) (string, error) {
	chatModel, err := newChatModel(ctx, c.cfg, apiKey, engine)
	if err != nil {
		return "", err
	}

	response, err := chatModel.Generate(ctx, toSchemaMessages(messages))
	if err != nil {
		log.Warn().Err(err).Str("engine", engine).Msg("completion call failed")
		return "", err
	}
	if response.Content == "" {
		return "", ErrEmptyCompletion
	}

	return response.Content, nil
}

// toSchemaMessages 转换为 Eino 的消息格式
func toSchemaMessages(messages []chatctx.Message) []*schema.Message {
	out := make([]*schema.Message, 0, len(messages))
	for _, m := range messages {
		switch m.Role {
		case chatctx.RoleSystem:
			out = append(out, schema.SystemMessage(m.Content))
		case chatctx.RoleAssistant:
			out = append(out, schema.AssistantMessage(m.Content, nil))
		default:
			out = append(out, schema.UserMessage(m.Content))
		}
	}
	return out
}
