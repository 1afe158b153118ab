package completion

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/openai"

	"github.com/octobees/outreach-drafter/internal/config"
)

// LLMCompleter drives any langchaingo model, used here for the
// OpenAI-compatible DeepSeek endpoint.
type LLMCompleter struct {
	llm     llms.Model
	timeout time.Duration
}

// NewDeepSeek builds an OpenAI-compatible client pointed at DeepSeek.
func NewDeepSeek(cfg config.CompletionConfig) (*LLMCompleter, error) {
	if strings.TrimSpace(cfg.DeepSeekAPIKey) == "" {
		return nil, fmt.Errorf("DEEPSEEK_API_KEY is required")
	}
	llm, err := openai.New(
		openai.WithToken(strings.TrimSpace(cfg.DeepSeekAPIKey)),
		openai.WithBaseURL(cfg.DeepSeekBaseURL),
		openai.WithModel(cfg.DeepSeekModel),
	)
	if err != nil {
		return nil, fmt.Errorf("create deepseek client: %w", err)
	}
	return NewLLMCompleter(llm, cfg.Timeout), nil
}

// NewLLMCompleter wraps an existing model.
func NewLLMCompleter(llm llms.Model, timeout time.Duration) *LLMCompleter {
	return &LLMCompleter{llm: llm, timeout: timeout}
}

// Complete sends prompt as a single user message.
func (c *LLMCompleter) Complete(ctx context.Context, prompt string) Result {
	ctx, cancel := withTimeout(ctx, c.timeout)
	defer cancel()

	text, err := llms.GenerateFromSinglePrompt(ctx, c.llm, prompt)
	if err != nil {
		return Result{Err: fmt.Errorf("deepseek completion: %w", err)}
	}
	return finish(text, nil)
}

var _ Completer = (*LLMCompleter)(nil)
