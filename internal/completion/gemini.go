package completion

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"google.golang.org/genai"

	"github.com/octobees/outreach-drafter/internal/config"
)

// GeminiCompleter calls the Gemini API.
type GeminiCompleter struct {
	client  *genai.Client
	model   string
	timeout time.Duration
}

// NewGemini builds a Gemini client from cfg.
func NewGemini(ctx context.Context, cfg config.CompletionConfig) (*GeminiCompleter, error) {
	if strings.TrimSpace(cfg.GeminiAPIKey) == "" {
		return nil, fmt.Errorf("GEMINI_API_KEY is required")
	}
	if strings.TrimSpace(cfg.GeminiModel) == "" {
		return nil, fmt.Errorf("GEMINI_MODEL is required")
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  strings.TrimSpace(cfg.GeminiAPIKey),
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("create gemini client: %w", err)
	}
	return &GeminiCompleter{client: client, model: strings.TrimSpace(cfg.GeminiModel), timeout: cfg.Timeout}, nil
}

// Complete sends prompt and returns the concatenated candidate text.
func (g *GeminiCompleter) Complete(ctx context.Context, prompt string) Result {
	ctx, cancel := withTimeout(ctx, g.timeout)
	defer cancel()

	resp, err := g.client.Models.GenerateContent(ctx, g.model, genai.Text(prompt), &genai.GenerateContentConfig{
		CandidateCount: 1,
	})
	if err != nil {
		return Result{Err: describeGeminiErr(err)}
	}
	return finish(resp.Text(), nil)
}

func describeGeminiErr(err error) error {
	var apiErr genai.APIError
	if errors.As(err, &apiErr) {
		return fmt.Errorf("gemini completion failed with status %d: %w", apiErr.Code, err)
	}
	return fmt.Errorf("gemini completion: %w", err)
}

var _ Completer = (*GeminiCompleter)(nil)
