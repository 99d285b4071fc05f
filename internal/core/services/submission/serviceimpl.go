package submission

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/google/uuid"

	"gitlab.com/judgerunner.net/internal/core/ports/primary"
	"gitlab.com/judgerunner.net/internal/core/ports/secondary"
	"gitlab.com/judgerunner.net/internal/domain"
	"gitlab.com/judgerunner.net/internal/observability"
	"gitlab.com/judgerunner.net/internal/static/errs"
)

const (
	DefaultHistoryLimit = 20
	MaxHistoryLimit     = 100
)

var _ ISubmissionService = (*SubmissionService)(nil)

type SubmissionService struct {
	executor    secondary.CodeExecutor
	repo        secondary.SubmissionRepository
	rateLimiter secondary.RateLimiter
	logger      primary.Logger
}

// NewSubmissionService creates a new submission service. repo and
// rateLimiter may be nil to run without history or quota.
func NewSubmissionService(
	executor secondary.CodeExecutor,
	repo secondary.SubmissionRepository,
	rateLimiter secondary.RateLimiter,
	logger primary.Logger,
) *SubmissionService {
	return &SubmissionService{
		executor:    executor,
		repo:        repo,
		rateLimiter: rateLimiter,
		logger:      logger,
	}
}

func (s *SubmissionService) Submit(ctx context.Context, owner string, languageID int, sourceCode string) (domain.SubmissionResult, error) {
	lang := strconv.Itoa(languageID)

	if s.rateLimiter != nil {
		allowed, err := s.rateLimiter.Allow(ctx, owner)
		if err != nil {
			// fail open when redis is unreachable
			s.logger.Warn("Rate limiter unavailable, letting submission through", "owner", owner, "error", err)
		} else if !allowed {
			observability.SubmissionsTotal.WithLabelValues(lang, observability.OutcomeRateLimited).Inc()
			return nil, errs.ErrRateLimited
		}
	}

	s.logger.Info("Submitting code", "owner", owner, "languageId", languageID)

	start := time.Now()
	result, err := s.executor.Submit(ctx, languageID, sourceCode)
	observability.JudgeLatency.WithLabelValues(lang).Observe(time.Since(start).Seconds())
	observability.SubmissionsTotal.WithLabelValues(lang, outcome(err)).Inc()

	if err != nil {
		s.logger.Error("Judge submission failed", "owner", owner, "languageId", languageID, "error", err)
	}

	s.record(ctx, owner, languageID, sourceCode, result, err)

	return result, err
}

// record stores the history entry. Failures are logged only, the caller
// still gets the judge's answer.
func (s *SubmissionService) record(ctx context.Context, owner string, languageID int, sourceCode string, result domain.SubmissionResult, submitErr error) {
	if s.repo == nil {
		return
	}

	entry := domain.NewSubmission(owner, languageID, sourceCode)
	if submitErr != nil {
		msg := submitErr.Error()
		entry.Error = &msg
	} else {
		raw, err := json.Marshal(result)
		if err != nil {
			s.logger.Error("Failed to encode judge result", "error", err)
			return
		}
		entry.Result = raw
	}

	if err := s.repo.SaveSubmission(context.WithoutCancel(ctx), entry); err != nil {
		s.logger.Error("Failed to record submission", "id", entry.ID, "error", err)
	}
}

func (s *SubmissionService) History(ctx context.Context, owner string, limit int) ([]*domain.Submission, error) {
	if s.repo == nil {
		return []*domain.Submission{}, nil
	}

	switch {
	case limit <= 0:
		limit = DefaultHistoryLimit
	case limit > MaxHistoryLimit:
		limit = MaxHistoryLimit
	}

	submissions, err := s.repo.ListSubmissions(ctx, owner, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list submissions: %w", err)
	}
	return submissions, nil
}

func (s *SubmissionService) Get(ctx context.Context, owner string, id uuid.UUID) (*domain.Submission, error) {
	if s.repo == nil {
		return nil, nil
	}

	sub, err := s.repo.GetSubmission(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get submission: %w", err)
	}
	if sub == nil || sub.Owner != owner {
		return nil, nil
	}
	return sub, nil
}

func (s *SubmissionService) Languages(ctx context.Context) ([]domain.Language, error) {
	return s.executor.Languages(ctx)
}

func outcome(err error) string {
	var (
		remote    *errs.RemoteServiceError
		transport *errs.TransportError
	)
	switch {
	case err == nil:
		return observability.OutcomeOK
	case errors.As(err, &remote):
		return observability.OutcomeRemoteError
	case errors.As(err, &transport):
		return observability.OutcomeTransport
	default:
		return observability.OutcomeError
	}
}
