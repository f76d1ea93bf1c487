package services

import (
	"fmt"

	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/openai"
)

// NewDeepseekModel 创建 OpenAI 兼容接口的 Deepseek 模型。apiKey 为空时返回 nil，草稿功能不可用。
func NewDeepseekModel(apiKey, apiEndpoint, model string) (llms.Model, error) {
	if apiKey == "" {
		return nil, nil
	}
	opts := []openai.Option{
		openai.WithToken(apiKey),
		openai.WithModel(model),
	}
	if apiEndpoint != "" {
		opts = append(opts, openai.WithBaseURL(apiEndpoint))
	}
	m, err := openai.New(opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create Deepseek client: %w", err)
	}
	return m, nil
}
