package app

import (
	"context"
	"fmt"
	"net/http"

	"go.uber.org/zap"

	"github.com/octobees/outreach-drafter/internal/apollo"
	"github.com/octobees/outreach-drafter/internal/completion"
	"github.com/octobees/outreach-drafter/internal/config"
	"github.com/octobees/outreach-drafter/internal/database"
	"github.com/octobees/outreach-drafter/internal/profile"
	"github.com/octobees/outreach-drafter/internal/repository"
	"github.com/octobees/outreach-drafter/internal/service"
)

// NewOutreachService builds the outreach service and its collaborators from
// cfg. The returned cleanup releases the database pool when one was opened.
func NewOutreachService(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*service.OutreachService, func(), error) {
	cleanup := func() {}

	client := apollo.NewClient(
		&http.Client{Timeout: cfg.Apollo.Timeout},
		cfg.Apollo.BaseURL,
		cfg.Apollo.APIKey,
		apollo.NewLimiter(cfg.Apollo.RateLimit.Requests, cfg.Apollo.RateLimit.Interval),
	)

	completer, err := completion.New(ctx, cfg.Completion)
	if err != nil {
		return nil, cleanup, fmt.Errorf("init completion backend: %w", err)
	}

	var drafts repository.DraftsRepository
	if cfg.DatabaseURL != "" {
		pool, err := database.Connect(ctx, cfg.DatabaseURL)
		if err != nil {
			return nil, cleanup, fmt.Errorf("connect record store: %w", err)
		}
		cleanup = pool.Close

		repo := repository.NewPGXDraftsRepository(pool)
		if err := repo.EnsureSchema(ctx); err != nil {
			pool.Close()
			return nil, func() {}, err
		}
		drafts = repo
		logger.Info("record store enabled")
	}

	svc := service.NewOutreachService(client, client, completer, profile.NewNormalizer(cfg.Draft.PhoneRegion), drafts, logger)
	return svc, cleanup, nil
}
