package llm

import (
	"context"
	"fmt"
	"strings"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"

	"travel-assistant/internal/common/config"
	"travel-assistant/internal/common/logger"
)

// ClaudeProvider generates answers through the Anthropic API.
type ClaudeProvider struct {
	client      anthropic.Client
	model       string
	maxTokens   int
	temperature float64
	logger      logger.Logger
}

func NewClaudeProvider(cfg config.LLMConfig, log logger.Logger) (*ClaudeProvider, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("anthropic api key is required (set ANTHROPIC_API_KEY)")
	}
	maxTokens := cfg.MaxTokens
	if maxTokens <= 0 {
		maxTokens = 1024
	}
	return &ClaudeProvider{
		client:      anthropic.NewClient(option.WithAPIKey(cfg.APIKey)),
		model:       cfg.Model,
		maxTokens:   maxTokens,
		temperature: cfg.Temperature,
		logger:      log.With(map[string]interface{}{"component": "llm", "model": cfg.Model}),
	}, nil
}

func (p *ClaudeProvider) Generate(ctx context.Context, req *Request) (string, error) {
	params := anthropic.MessageNewParams{
		Model:     anthropic.Model(p.model),
		MaxTokens: int64(p.maxTokens),
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(req.Prompt)),
		},
	}
	if p.temperature > 0 {
		params.Temperature = anthropic.Float(p.temperature)
	}
	if req.System != "" {
		params.System = []anthropic.TextBlockParam{{Text: req.System}}
	}

	resp, err := p.client.Messages.New(ctx, params)
	if err != nil {
		return "", err
	}

	text := textFromBlocks(resp.Content)
	if text == "" {
		return "", fmt.Errorf("no response generated")
	}
	return text, nil
}

// textFromBlocks concatenates the text content blocks, skipping tool-use and
// other non-text block types.
func textFromBlocks(blocks []anthropic.ContentBlockUnion) string {
	var sb strings.Builder
	for _, block := range blocks {
		if block.Type == "text" {
			sb.WriteString(block.Text)
		}
	}
	return sb.String()
}

// Ping exercises the API with a minimal probe.
func (p *ClaudeProvider) Ping(ctx context.Context) error {
	text, err := p.Generate(ctx, &Request{Prompt: "ping"})
	if err != nil {
		return fmt.Errorf("claude probe failed: %w", err)
	}
	if strings.TrimSpace(text) == "" {
		return fmt.Errorf("claude probe returned empty response")
	}
	return nil
}
