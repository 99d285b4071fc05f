package judge0

import "gitlab.com/judgerunner.net/internal/domain"

func submissionRequest(languageID int, sourceCode string) domain.SubmissionRequest {
	return domain.SubmissionRequest{LanguageID: languageID, SourceCode: sourceCode}
}
