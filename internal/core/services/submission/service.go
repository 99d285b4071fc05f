package submission

import (
	"context"

	"github.com/google/uuid"

	"gitlab.com/judgerunner.net/internal/domain"
)

// ISubmissionService runs code on the judge on behalf of gateway users
type ISubmissionService interface {
	// Submit sends the program to the judge and records the outcome
	Submit(ctx context.Context, owner string, languageID int, sourceCode string) (domain.SubmissionResult, error)

	// History lists the owner's latest submissions
	History(ctx context.Context, owner string, limit int) ([]*domain.Submission, error)

	// Get returns one of the owner's submissions, nil when not found
	Get(ctx context.Context, owner string, id uuid.UUID) (*domain.Submission, error)

	// Languages lists the judge's runtimes
	Languages(ctx context.Context) ([]domain.Language, error)
}
