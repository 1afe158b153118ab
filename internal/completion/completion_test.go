package completion

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/tmc/langchaingo/llms"

	"github.com/octobees/outreach-drafter/internal/config"
)

type mockLLM struct {
	response string
	err      error
	delay    time.Duration
	prompts  []string
}

func (m *mockLLM) GenerateContent(ctx context.Context, messages []llms.MessageContent, options ...llms.CallOption) (*llms.ContentResponse, error) {
	for _, msg := range messages {
		for _, part := range msg.Parts {
			if text, ok := part.(llms.TextContent); ok {
				m.prompts = append(m.prompts, text.Text)
			}
		}
	}
	if m.delay > 0 {
		select {
		case <-time.After(m.delay):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	if m.err != nil {
		return nil, m.err
	}
	return &llms.ContentResponse{
		Choices: []*llms.ContentChoice{
			{Content: m.response},
		},
	}, nil
}

func (m *mockLLM) Call(ctx context.Context, prompt string, options ...llms.CallOption) (string, error) {
	return llms.GenerateFromSinglePrompt(ctx, m, prompt, options...)
}

var _ llms.Model = (*mockLLM)(nil)

func TestLLMCompleterReturnsText(t *testing.T) {
	llm := &mockLLM{response: `[{"subject":"Hi","body":"Hello"}]`}
	res := NewLLMCompleter(llm, time.Second).Complete(context.Background(), "draft an email")
	if !res.OK() || !strings.Contains(res.Text, "Hello") {
		t.Fatalf("unexpected result: %+v", res)
	}
	if len(llm.prompts) != 1 || llm.prompts[0] != "draft an email" {
		t.Fatalf("expected prompt forwarded verbatim, got %v", llm.prompts)
	}
}

func TestLLMCompleterFoldsErrors(t *testing.T) {
	res := NewLLMCompleter(&mockLLM{err: errors.New("503 upstream")}, time.Second).Complete(context.Background(), "p")
	if res.OK() || res.Text != "" {
		t.Fatalf("expected failure result, got %+v", res)
	}

	res = NewLLMCompleter(&mockLLM{response: "   "}, time.Second).Complete(context.Background(), "p")
	if !errors.Is(res.Err, ErrEmptyCompletion) {
		t.Fatalf("expected ErrEmptyCompletion, got %v", res.Err)
	}
}

func TestLLMCompleterTimeout(t *testing.T) {
	res := NewLLMCompleter(&mockLLM{response: "late", delay: time.Second}, 10*time.Millisecond).Complete(context.Background(), "p")
	if !errors.Is(res.Err, context.DeadlineExceeded) {
		t.Fatalf("expected deadline exceeded, got %v", res.Err)
	}
}

func TestNewValidatesProvider(t *testing.T) {
	if _, err := New(context.Background(), config.CompletionConfig{Provider: "llama"}); err == nil {
		t.Fatalf("expected error for unknown provider")
	}
	if _, err := New(context.Background(), config.CompletionConfig{Provider: "deepseek"}); err == nil {
		t.Fatalf("expected error for missing deepseek key")
	}
	if _, err := New(context.Background(), config.CompletionConfig{Provider: "gemini", GeminiModel: "m"}); err == nil {
		t.Fatalf("expected error for missing gemini key")
	}
}

func TestNewDeepSeek(t *testing.T) {
	c, err := New(context.Background(), config.CompletionConfig{
		Provider:        "deepseek",
		DeepSeekAPIKey:  "key",
		DeepSeekBaseURL: "http://127.0.0.1:0",
		DeepSeekModel:   "deepseek-chat",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, ok := c.(*LLMCompleter); !ok {
		t.Fatalf("expected LLMCompleter, got %T", c)
	}
}
