package completion

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/octobees/outreach-drafter/internal/config"
)

// Result carries either completion text or the reason there is none.
type Result struct {
	Text string
	Err  error
}

// OK reports whether the completion produced text.
func (r Result) OK() bool {
	return r.Err == nil
}

// Completer sends one prompt and returns one text payload. Implementations
// never return transport errors directly; they are folded into Result.
type Completer interface {
	Complete(ctx context.Context, prompt string) Result
}

// ErrEmptyCompletion is reported when the service answers with no text.
var ErrEmptyCompletion = errors.New("completion returned no text")

// New selects the backend named by cfg.Provider.
func New(ctx context.Context, cfg config.CompletionConfig) (Completer, error) {
	switch strings.ToLower(strings.TrimSpace(cfg.Provider)) {
	case "", "deepseek":
		return NewDeepSeek(cfg)
	case "gemini":
		return NewGemini(ctx, cfg)
	default:
		return nil, fmt.Errorf("unknown completion provider %q", cfg.Provider)
	}
}

func withTimeout(ctx context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	if timeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, timeout)
}

func finish(text string, err error) Result {
	if err != nil {
		return Result{Err: err}
	}
	if strings.TrimSpace(text) == "" {
		return Result{Err: ErrEmptyCompletion}
	}
	return Result{Text: text}
}
