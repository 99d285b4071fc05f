package submissions

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"

	"gitlab.com/judgerunner.net/internal/domain"
)

// CreateSubmissionRequest mirrors the judge's own submission body
type CreateSubmissionRequest struct {
	LanguageID int    `json:"language_id"`
	SourceCode string `json:"source_code"`
}

// SubmissionRecord is a history entry as returned by the API
type SubmissionRecord struct {
	ID         uuid.UUID       `json:"id"`
	LanguageID int             `json:"language_id"`
	SourceCode string          `json:"source_code"`
	Result     json.RawMessage `json:"result,omitempty"`
	Error      string          `json:"error,omitempty"`
	CreatedAt  time.Time       `json:"created_at"`
}

func toRecord(s *domain.Submission) SubmissionRecord {
	rec := SubmissionRecord{
		ID:         s.ID,
		LanguageID: s.LanguageID,
		SourceCode: s.SourceCode,
		CreatedAt:  s.CreatedAt,
	}
	if len(s.Result) > 0 {
		rec.Result = json.RawMessage(s.Result)
	}
	if s.Error != nil {
		rec.Error = *s.Error
	}
	return rec
}
