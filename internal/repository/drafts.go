package repository

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/octobees/outreach-drafter/internal/entity"
)

type pgxPool interface {
	QueryRow(ctx context.Context, query string, args ...any) pgx.Row
	Query(ctx context.Context, query string, args ...any) (pgx.Rows, error)
	Exec(ctx context.Context, query string, args ...any) (pgconn.CommandTag, error)
}

var _ pgxPool = (*pgxpool.Pool)(nil)

// DraftsRepository persists enriched records grouped by run.
type DraftsRepository interface {
	EnsureSchema(ctx context.Context) error
	Insert(ctx context.Context, runID uuid.UUID, record entity.EnrichedRecord) error
	ListByRun(ctx context.Context, runID uuid.UUID) ([]entity.EnrichedRecord, error)
}

// PGXDraftsRepository implements DraftsRepository using pgx.
type PGXDraftsRepository struct {
	pool pgxPool
}

// NewPGXDraftsRepository wires a pgx backed repository.
func NewPGXDraftsRepository(pool *pgxpool.Pool) *PGXDraftsRepository {
	return &PGXDraftsRepository{pool: pool}
}

const createDraftsTable = `
CREATE TABLE IF NOT EXISTS outreach_drafts (
	id BIGSERIAL PRIMARY KEY,
	run_id UUID NOT NULL,
	email TEXT NOT NULL DEFAULT '',
	website TEXT NOT NULL DEFAULT '',
	first_name TEXT NOT NULL DEFAULT '',
	last_name TEXT NOT NULL DEFAULT '',
	title TEXT NOT NULL DEFAULT '',
	company TEXT NOT NULL DEFAULT '',
	mail_subject TEXT NOT NULL DEFAULT '',
	main_email TEXT NOT NULL DEFAULT '',
	second_subject TEXT NOT NULL DEFAULT '',
	second_email TEXT NOT NULL DEFAULT '',
	created_at TIMESTAMPTZ NOT NULL DEFAULT now()
);
CREATE INDEX IF NOT EXISTS outreach_drafts_run_id_idx ON outreach_drafts (run_id, id);`

// EnsureSchema creates the drafts table when missing.
func (r *PGXDraftsRepository) EnsureSchema(ctx context.Context) error {
	if _, err := r.pool.Exec(ctx, createDraftsTable); err != nil {
		return fmt.Errorf("create outreach_drafts: %w", err)
	}
	return nil
}

// Insert stores one record for the run.
func (r *PGXDraftsRepository) Insert(ctx context.Context, runID uuid.UUID, record entity.EnrichedRecord) error {
	const query = `
		INSERT INTO outreach_drafts (run_id, email, website, first_name, last_name, title, company,
			mail_subject, main_email, second_subject, second_email)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`

	_, err := r.pool.Exec(ctx, query,
		runID, record.Email, record.Website, record.FirstName, record.LastName, record.Title, record.Company,
		record.PrimarySubject, record.PrimaryBody, record.FollowupSubject, record.FollowupBody,
	)
	if err != nil {
		return fmt.Errorf("insert outreach draft: %w", err)
	}
	return nil
}

// ListByRun returns the run's records in insertion order.
func (r *PGXDraftsRepository) ListByRun(ctx context.Context, runID uuid.UUID) ([]entity.EnrichedRecord, error) {
	const query = `
		SELECT email, website, first_name, last_name, title, company,
			mail_subject, main_email, second_subject, second_email
		FROM outreach_drafts
		WHERE run_id = $1
		ORDER BY id`

	rows, err := r.pool.Query(ctx, query, runID)
	if err != nil {
		return nil, fmt.Errorf("query outreach drafts: %w", err)
	}
	defer rows.Close()

	records := make([]entity.EnrichedRecord, 0)
	for rows.Next() {
		var rec entity.EnrichedRecord
		if err := rows.Scan(
			&rec.Email, &rec.Website, &rec.FirstName, &rec.LastName, &rec.Title, &rec.Company,
			&rec.PrimarySubject, &rec.PrimaryBody, &rec.FollowupSubject, &rec.FollowupBody,
		); err != nil {
			return nil, fmt.Errorf("scan outreach draft: %w", err)
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate outreach drafts: %w", err)
	}
	return records, nil
}

var _ DraftsRepository = (*PGXDraftsRepository)(nil)
