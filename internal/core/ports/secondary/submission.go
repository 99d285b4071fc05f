package secondary

import (
	"context"

	"github.com/google/uuid"

	"gitlab.com/judgerunner.net/internal/domain"
)

// SubmissionRepository keeps the history of calls made through the gateway
type SubmissionRepository interface {
	SaveSubmission(ctx context.Context, submission *domain.Submission) error

	// GetSubmission returns nil when the record does not exist
	GetSubmission(ctx context.Context, id uuid.UUID) (*domain.Submission, error)

	// ListSubmissions returns the owner's records, newest first
	ListSubmissions(ctx context.Context, owner string, limit int) ([]*domain.Submission, error)
}
