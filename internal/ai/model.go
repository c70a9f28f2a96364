package ai

import (
	"context"
	"fmt"
	"strings"

	arkext "github.com/cloudwego/eino-ext/components/model/ark"
	"github.com/cloudwego/eino-ext/components/model/openai"
	"github.com/cloudwego/eino/components/model"

	"pomelo/internal/config"
)

// newChatModel 按 engine 选择器创建 ChatModel
// engine 形如 "provider/model"（如 openai/gpt-4、ark/doubao-pro），
// 省略 provider 时使用配置的默认 provider
func newChatModel(ctx context.Context, cfg *config.AIConfig, apiKey, engine string) (model.ChatModel, error) {
	provider, modelName := parseEngine(cfg, engine)

	switch provider {
	case "openai", "":
		return newOpenAIChatModel(ctx, cfg, apiKey, modelName, false)
	case "azure":
		return newOpenAIChatModel(ctx, cfg, apiKey, modelName, true)
	case "ark":
		return newArkChatModel(ctx, cfg, apiKey, modelName)
	default:
		return nil, fmt.Errorf("unsupported AI provider: %s", provider)
	}
}

// parseEngine 解析 engine 选择器
func parseEngine(cfg *config.AIConfig, engine string) (provider, modelName string) {
	provider = cfg.Provider
	modelName = cfg.Model

	if engine == "" {
		return provider, modelName
	}
	if before, after, found := strings.Cut(engine, "/"); found {
		return before, after
	}
	return provider, engine
}

// newOpenAIChatModel 创建 OpenAI / Azure ChatModel
func newOpenAIChatModel(ctx context.Context, cfg *config.AIConfig, apiKey, modelName string, byAzure bool) (model.ChatModel, error) {
	modelCfg := &openai.ChatModelConfig{
		Model:   modelName,
		APIKey:  apiKey,
		ByAzure: byAzure,
	}

	// Base URL (用于代理或兼容 API)
	if cfg.BaseURL != "" {
		modelCfg.BaseURL = cfg.BaseURL
	}

	// 模型参数
	if cfg.Options.Temperature > 0 {
		temp := float32(cfg.Options.Temperature)
		modelCfg.Temperature = &temp
	}
	if cfg.Options.MaxTokens > 0 {
		modelCfg.MaxTokens = &cfg.Options.MaxTokens
	}
	if cfg.Options.TopP > 0 {
		topP := float32(cfg.Options.TopP)
		modelCfg.TopP = &topP
	}

	return openai.NewChatModel(ctx, modelCfg)
}

// newArkChatModel 创建 Ark ChatModel（使用 eino-ext 模块）
func newArkChatModel(ctx context.Context, cfg *config.AIConfig, apiKey, modelName string) (model.ChatModel, error) {
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = "https://ark.cn-beijing.volces.com/api/v3"
	}

	modelCfg := &arkext.ChatModelConfig{
		Model:   modelName,
		APIKey:  apiKey,
		BaseURL: baseURL,
	}

	if cfg.Options.Temperature > 0 {
		temp := float32(cfg.Options.Temperature)
		modelCfg.Temperature = &temp
	}
	if cfg.Options.MaxTokens > 0 {
		modelCfg.MaxTokens = &cfg.Options.MaxTokens
	}
	if cfg.Options.TopP > 0 {
		topP := float32(cfg.Options.TopP)
		modelCfg.TopP = &topP
	}

	return arkext.NewChatModel(ctx, modelCfg)
}
