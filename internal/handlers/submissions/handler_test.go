package submissions

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"gitlab.com/judgerunner.net/internal/adapter/logging"
	"gitlab.com/judgerunner.net/internal/domain"
	"gitlab.com/judgerunner.net/internal/handlers"
	"gitlab.com/judgerunner.net/internal/static/errs"
)

type fakeService struct {
	result     domain.SubmissionResult
	err        error
	owner      string
	languageID int
	source     string
	history    []*domain.Submission
	limit      int
	record     *domain.Submission
}

func (f *fakeService) Submit(ctx context.Context, owner string, languageID int, sourceCode string) (domain.SubmissionResult, error) {
	f.owner, f.languageID, f.source = owner, languageID, sourceCode
	return f.result, f.err
}

func (f *fakeService) History(ctx context.Context, owner string, limit int) ([]*domain.Submission, error) {
	f.owner, f.limit = owner, limit
	return f.history, f.err
}

func (f *fakeService) Get(ctx context.Context, owner string, id uuid.UUID) (*domain.Submission, error) {
	f.owner = owner
	return f.record, f.err
}

func (f *fakeService) Languages(ctx context.Context) ([]domain.Language, error) {
	if f.err != nil {
		return nil, f.err
	}
	return []domain.Language{{ID: domain.LanguagePython3, Name: "Python (3.8.1)"}}, nil
}

type timeoutErr struct{}

func (timeoutErr) Error() string { return "i/o timeout" }
func (timeoutErr) Timeout() bool { return true }

func newRouter(svc *fakeService) *mux.Router {
	r := mux.NewRouter()
	r.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			ctx := handlers.WithAuthPayload(req.Context(), domain.AuthPayload{Username: "alice", Role: domain.RoleUser})
			next.ServeHTTP(w, req.WithContext(ctx))
		})
	})
	NewSubmissionHandler(svc, logging.NewNopLogger()).RegisterRoutes(r)
	return r
}

func serve(r http.Handler, method, target, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func TestCreateSubmission_ReturnsJudgeResult(t *testing.T) {
	svc := &fakeService{result: domain.SubmissionResult{"stdout": "Hello from Python!\n"}}

	rec := serve(newRouter(svc), http.MethodPost, "/submissions",
		`{"language_id":71,"source_code":"print(\"Hello from Python!\")"}`)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}
	if svc.owner != "alice" || svc.languageID != 71 || svc.source != `print("Hello from Python!")` {
		t.Errorf("service got owner=%q lang=%d source=%q", svc.owner, svc.languageID, svc.source)
	}

	var got map[string]interface{}
	if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if got["stdout"] != "Hello from Python!\n" {
		t.Errorf("stdout = %v", got["stdout"])
	}
}

func TestCreateSubmission_ErrorMapping(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantRemote int
	}{
		{
			name:       "rate limited",
			err:        errs.ErrRateLimited,
			wantStatus: http.StatusTooManyRequests,
		},
		{
			name:       "remote error",
			err:        &errs.RemoteServiceError{StatusCode: http.StatusUnprocessableEntity, Body: []byte(`{"error":"bad language"}`)},
			wantStatus: http.StatusBadGateway,
			wantRemote: http.StatusUnprocessableEntity,
		},
		{
			name:       "transport timeout",
			err:        &errs.TransportError{Op: "request", Err: timeoutErr{}},
			wantStatus: http.StatusGatewayTimeout,
		},
		{
			name:       "transport failure",
			err:        &errs.TransportError{Op: "request", Err: fmt.Errorf("connection refused")},
			wantStatus: http.StatusBadGateway,
		},
		{
			name:       "unexpected",
			err:        fmt.Errorf("boom"),
			wantStatus: http.StatusInternalServerError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := &fakeService{err: tt.err}
			rec := serve(newRouter(svc), http.MethodPost, "/submissions", `{"language_id":71,"source_code":"x"}`)

			if rec.Code != tt.wantStatus {
				t.Fatalf("status = %d, want %d", rec.Code, tt.wantStatus)
			}

			var body struct {
				RemoteStatus int    `json:"remote_status"`
				RemoteBody   string `json:"remote_body"`
			}
			if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
				t.Fatalf("decode: %v", err)
			}
			if body.RemoteStatus != tt.wantRemote {
				t.Errorf("remote_status = %d, want %d", body.RemoteStatus, tt.wantRemote)
			}
			if tt.wantRemote != 0 && body.RemoteBody != `{"error":"bad language"}` {
				t.Errorf("remote_body = %q", body.RemoteBody)
			}
		})
	}
}

func TestCreateSubmission_InvalidBody(t *testing.T) {
	svc := &fakeService{}
	rec := serve(newRouter(svc), http.MethodPost, "/submissions", `{not json`)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
	if svc.owner != "" {
		t.Error("service must not be called for an invalid body")
	}
}

func TestListSubmissions(t *testing.T) {
	errText := "remote service returned 500"
	svc := &fakeService{history: []*domain.Submission{
		{ID: uuid.New(), Owner: "alice", LanguageID: 71, SourceCode: "a", Result: []byte(`{"stdout":"1"}`), CreatedAt: time.Now()},
		{ID: uuid.New(), Owner: "alice", LanguageID: 71, SourceCode: "b", Error: &errText, CreatedAt: time.Now()},
	}}

	rec := serve(newRouter(svc), http.MethodGet, "/submissions?limit=5", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if svc.limit != 5 {
		t.Errorf("limit = %d, want 5", svc.limit)
	}

	var body struct {
		Submissions []SubmissionRecord `json:"submissions"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(body.Submissions) != 2 {
		t.Fatalf("got %d submissions", len(body.Submissions))
	}
	if string(body.Submissions[0].Result) != `{"stdout":"1"}` {
		t.Errorf("result = %s", body.Submissions[0].Result)
	}
	if body.Submissions[1].Error != errText {
		t.Errorf("error = %q", body.Submissions[1].Error)
	}
}

func TestListSubmissions_BadLimit(t *testing.T) {
	rec := serve(newRouter(&fakeService{}), http.MethodGet, "/submissions?limit=abc", "")
	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
}

func TestGetSubmission(t *testing.T) {
	id := uuid.New()

	tests := []struct {
		name       string
		path       string
		record     *domain.Submission
		wantStatus int
	}{
		{"found", "/submissions/" + id.String(), &domain.Submission{ID: id, Owner: "alice"}, http.StatusOK},
		{"missing", "/submissions/" + id.String(), nil, http.StatusNotFound},
		{"bad id", "/submissions/not-a-uuid", nil, http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := serve(newRouter(&fakeService{record: tt.record}), http.MethodGet, tt.path, "")
			if rec.Code != tt.wantStatus {
				t.Errorf("status = %d, want %d", rec.Code, tt.wantStatus)
			}
		})
	}
}

func TestGetLanguages(t *testing.T) {
	rec := serve(newRouter(&fakeService{}), http.MethodGet, "/languages", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}

	var langs []domain.Language
	if err := json.Unmarshal(rec.Body.Bytes(), &langs); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(langs) != 1 || langs[0].ID != domain.LanguagePython3 {
		t.Errorf("languages = %+v", langs)
	}
}
