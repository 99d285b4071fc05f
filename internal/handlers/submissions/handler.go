package submissions

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"gitlab.com/judgerunner.net/internal/core/ports/primary"
	"gitlab.com/judgerunner.net/internal/core/services/submission"
	"gitlab.com/judgerunner.net/internal/handlers"
	"gitlab.com/judgerunner.net/internal/handlers/response"
	"gitlab.com/judgerunner.net/internal/static/errs"
)

// maxBodyBytes bounds the submission body read from API clients
const maxBodyBytes = 1 << 20

// SubmissionHandler handles submission API requests
type SubmissionHandler struct {
	submissionService submission.ISubmissionService
	logger            primary.Logger
}

// NewSubmissionHandler creates a new submission handler
func NewSubmissionHandler(submissionService submission.ISubmissionService, logger primary.Logger) *SubmissionHandler {
	return &SubmissionHandler{
		submissionService: submissionService,
		logger:            logger,
	}
}

// RegisterRoutes registers the API routes for SubmissionHandler on a router
// already guarded by the JWT middleware
func (h *SubmissionHandler) RegisterRoutes(router *mux.Router) {
	router.HandleFunc("/submissions", h.CreateSubmission).Methods(http.MethodPost)
	router.HandleFunc("/submissions", h.ListSubmissions).Methods(http.MethodGet)
	router.HandleFunc("/submissions/{submissionId}", h.GetSubmission).Methods(http.MethodGet)
	router.HandleFunc("/languages", h.GetLanguages).Methods(http.MethodGet)
}

// CreateSubmission runs the posted program on the judge and returns the
// judge's answer unmodified
func (h *SubmissionHandler) CreateSubmission(w http.ResponseWriter, r *http.Request) {
	payload, _ := handlers.AuthPayloadFrom(r.Context())

	var req CreateSubmissionRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(&req); err != nil {
		h.logger.Error("Failed to decode request", "error", err)
		response.WriteError(w, response.ErrorMessage{Message: "Invalid request", StatusCode: http.StatusBadRequest})
		return
	}

	result, err := h.submissionService.Submit(r.Context(), payload.Username, req.LanguageID, req.SourceCode)
	if err != nil {
		writeSubmitError(w, err)
		return
	}

	response.WriteSuccess(w, result)
}

// ListSubmissions returns the caller's latest submissions
func (h *SubmissionHandler) ListSubmissions(w http.ResponseWriter, r *http.Request) {
	payload, _ := handlers.AuthPayloadFrom(r.Context())

	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			response.WriteError(w, response.ErrorMessage{Message: "Invalid limit", StatusCode: http.StatusBadRequest})
			return
		}
		limit = n
	}

	list, err := h.submissionService.History(r.Context(), payload.Username, limit)
	if err != nil {
		h.logger.Error("Failed to list submissions", "error", err)
		response.WriteError(w, response.ErrorMessage{Message: "Failed to list submissions", StatusCode: http.StatusInternalServerError})
		return
	}

	records := make([]SubmissionRecord, 0, len(list))
	for _, s := range list {
		records = append(records, toRecord(s))
	}
	response.WriteSuccess(w, map[string][]SubmissionRecord{"submissions": records})
}

// GetSubmission returns one of the caller's submissions
func (h *SubmissionHandler) GetSubmission(w http.ResponseWriter, r *http.Request) {
	payload, _ := handlers.AuthPayloadFrom(r.Context())
	idStr := mux.Vars(r)["submissionId"]

	id, err := uuid.Parse(idStr)
	if err != nil {
		h.logger.Error("Invalid submission ID", "id", idStr)
		response.WriteError(w, response.ErrorMessage{Message: "Invalid submission ID", StatusCode: http.StatusBadRequest})
		return
	}

	sub, err := h.submissionService.Get(r.Context(), payload.Username, id)
	if err != nil {
		h.logger.Error("Failed to get submission", "error", err)
		response.WriteError(w, response.ErrorMessage{Message: "Failed to get submission", StatusCode: http.StatusInternalServerError})
		return
	}
	if sub == nil {
		response.WriteError(w, response.ErrorMessage{Message: "Submission not found", StatusCode: http.StatusNotFound})
		return
	}

	response.WriteSuccess(w, toRecord(sub))
}

// GetLanguages returns the judge's runtime catalogue
func (h *SubmissionHandler) GetLanguages(w http.ResponseWriter, r *http.Request) {
	languages, err := h.submissionService.Languages(r.Context())
	if err != nil {
		writeSubmitError(w, err)
		return
	}
	response.WriteSuccess(w, languages)
}

func writeSubmitError(w http.ResponseWriter, err error) {
	var (
		remote    *errs.RemoteServiceError
		transport *errs.TransportError
	)

	switch {
	case errors.Is(err, errs.ErrRateLimited):
		response.WriteError(w, response.ErrorMessage{Message: err.Error(), StatusCode: http.StatusTooManyRequests})
	case errors.As(err, &remote):
		response.WriteRemoteError(w, response.RemoteErrorMessage{
			ErrorMessage: response.ErrorMessage{Message: "judge service returned an error", StatusCode: http.StatusBadGateway},
			RemoteStatus: remote.StatusCode,
			RemoteBody:   string(remote.Body),
		})
	case errors.As(err, &transport) && transport.Timeout():
		response.WriteError(w, response.ErrorMessage{Message: transport.Error(), StatusCode: http.StatusGatewayTimeout})
	case errors.As(err, &transport):
		response.WriteError(w, response.ErrorMessage{Message: transport.Error(), StatusCode: http.StatusBadGateway})
	default:
		response.WriteError(w, response.ErrorMessage{Message: "Internal server error", StatusCode: http.StatusInternalServerError})
	}
}
