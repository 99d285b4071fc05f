package secondary

import (
	"context"

	"gitlab.com/judgerunner.net/internal/domain"
)

type CodeExecutor interface {
	// Submit runs sourceCode on the remote judge and waits for its answer
	Submit(ctx context.Context, languageID int, sourceCode string) (domain.SubmissionResult, error)

	// Languages lists the runtimes the remote judge accepts
	Languages(ctx context.Context) ([]domain.Language, error)
}
