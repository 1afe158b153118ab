package app

import (
	"context"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/octobees/outreach-drafter/internal/config"
)

func TestNewOutreachService(t *testing.T) {
	cfg := &config.Config{
		Apollo: config.ApolloConfig{BaseURL: "http://127.0.0.1:0", Timeout: time.Second},
		Completion: config.CompletionConfig{
			Provider:        "deepseek",
			DeepSeekAPIKey:  "key",
			DeepSeekBaseURL: "http://127.0.0.1:0",
			DeepSeekModel:   "deepseek-chat",
		},
	}

	svc, cleanup, err := NewOutreachService(context.Background(), cfg, zap.NewNop())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	defer cleanup()
	if svc == nil {
		t.Fatalf("expected service")
	}
}

func TestNewOutreachServiceErrors(t *testing.T) {
	cfg := &config.Config{Completion: config.CompletionConfig{Provider: "deepseek"}}
	if _, _, err := NewOutreachService(context.Background(), cfg, zap.NewNop()); err == nil {
		t.Fatalf("expected error without completion key")
	}

	cfg = &config.Config{
		DatabaseURL: "invalid-dsn",
		Completion:  config.CompletionConfig{Provider: "deepseek", DeepSeekAPIKey: "key"},
	}
	if _, _, err := NewOutreachService(context.Background(), cfg, zap.NewNop()); err == nil {
		t.Fatalf("expected error for bad database url")
	}
}
