// Package submissionrepository keeps the gateway's submission history in PostgreSQL
package submissionrepository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"gitlab.com/judgerunner.net/internal/adapter/postgres"
	"gitlab.com/judgerunner.net/internal/core/ports/primary"
	"gitlab.com/judgerunner.net/internal/core/ports/secondary"
	"gitlab.com/judgerunner.net/internal/domain"
)

var _ secondary.SubmissionRepository = (*SubmissionRepository)(nil)

type SubmissionRepository struct {
	db     *sqlx.DB
	logger primary.Logger
	table  string
}

// NewSubmissionRepository creates a new PostgreSQL submission repository
func NewSubmissionRepository(db *sqlx.DB, logger primary.Logger, schema string) *SubmissionRepository {
	return &SubmissionRepository{
		db:     db,
		logger: logger,
		table:  postgres.Table(schema, domain.GetSubmissionTable().TableName()),
	}
}

// SaveSubmission inserts a history record
func (r *SubmissionRepository) SaveSubmission(ctx context.Context, s *domain.Submission) error {
	tbl := domain.GetSubmissionTable()
	query := fmt.Sprintf(
		"INSERT INTO %s (%s, %s, %s, %s, %s, %s, %s) VALUES ($1, $2, $3, $4, $5, $6, $7)",
		r.table,
		tbl.ID, tbl.Owner, tbl.LanguageID, tbl.SourceCode, tbl.Result, tbl.Error, tbl.CreatedAt,
	)

	// lib/pq sends []byte as bytea, so JSONB gets the text form; NULL when empty
	var result interface{}
	if len(s.Result) > 0 {
		result = string(s.Result)
	}

	_, err := r.db.ExecContext(ctx, query,
		s.ID, s.Owner, s.LanguageID, s.SourceCode, result, s.Error, s.CreatedAt,
	)
	if err != nil {
		r.logger.Error("Failed to save submission", "id", s.ID, "error", err)
		return fmt.Errorf("failed to save submission: %w", err)
	}
	return nil
}

// GetSubmission retrieves one record by ID
func (r *SubmissionRepository) GetSubmission(ctx context.Context, id uuid.UUID) (*domain.Submission, error) {
	query := fmt.Sprintf("SELECT %s FROM %s WHERE id = $1", columns(), r.table)

	var s domain.Submission
	if err := r.db.GetContext(ctx, &s, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		r.logger.Error("Failed to get submission", "id", id, "error", err)
		return nil, fmt.Errorf("failed to get submission: %w", err)
	}
	return &s, nil
}

// ListSubmissions retrieves the owner's latest records
func (r *SubmissionRepository) ListSubmissions(ctx context.Context, owner string, limit int) ([]*domain.Submission, error) {
	query := fmt.Sprintf(
		"SELECT %s FROM %s WHERE owner = $1 ORDER BY created_at DESC LIMIT $2",
		columns(), r.table,
	)

	submissions := make([]*domain.Submission, 0, limit)
	if err := r.db.SelectContext(ctx, &submissions, query, owner, limit); err != nil {
		r.logger.Error("Failed to list submissions", "owner", owner, "error", err)
		return nil, fmt.Errorf("failed to list submissions: %w", err)
	}
	return submissions, nil
}

func columns() string {
	tbl := domain.GetSubmissionTable()
	return fmt.Sprintf("%s, %s, %s, %s, COALESCE(%s::text, '') AS %s, %s, %s",
		tbl.ID, tbl.Owner, tbl.LanguageID, tbl.SourceCode,
		tbl.Result, tbl.Result, tbl.Error, tbl.CreatedAt)
}
