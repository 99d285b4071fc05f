package domain

import (
	"time"

	"github.com/google/uuid"
)

// SubmissionRequest is the body sent to the judge service
type SubmissionRequest struct {
	LanguageID int    `json:"language_id"`
	SourceCode string `json:"source_code"`
}

// SubmissionResult is the decoded judge response. Its shape belongs to the
// judge service, so it is kept as an untyped map and forwarded as-is.
type SubmissionResult map[string]interface{}

// String returns the value stored under key when it is a string.
func (r SubmissionResult) String(key string) (string, bool) {
	v, ok := r[key]
	if !ok || v == nil {
		return "", false
	}
	s, ok := v.(string)
	return s, ok
}

// Submission is a history record of one call made through the gateway
type Submission struct {
	ID         uuid.UUID `db:"id" json:"id"`
	Owner      string    `db:"owner" json:"owner"`
	LanguageID int       `db:"language_id" json:"language_id"`
	SourceCode string    `db:"source_code" json:"source_code"`
	Result     []byte    `db:"result" json:"-"`
	Error      *string   `db:"error" json:"error,omitempty"`
	CreatedAt  time.Time `db:"created_at" json:"created_at"`
}

type SubmissionTable struct {
	ID         string
	Owner      string
	LanguageID string
	SourceCode string
	Result     string
	Error      string
	CreatedAt  string
}

func GetSubmissionTable() SubmissionTable {
	return SubmissionTable{
		ID:         "id",
		Owner:      "owner",
		LanguageID: "language_id",
		SourceCode: "source_code",
		Result:     "result",
		Error:      "error",
		CreatedAt:  "created_at",
	}
}

func (SubmissionTable) TableName() string {
	return "submissions"
}

// NewSubmission creates a new history record
func NewSubmission(owner string, languageID int, sourceCode string) *Submission {
	return &Submission{
		ID:         uuid.New(),
		Owner:      owner,
		LanguageID: languageID,
		SourceCode: sourceCode,
		CreatedAt:  time.Now(),
	}
}
