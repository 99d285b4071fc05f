package rooms

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/gorilla/mux"

	"gitlab.com/judgerunner.net/internal/core/ports/primary"
	"gitlab.com/judgerunner.net/internal/core/services/room"
	"gitlab.com/judgerunner.net/internal/handlers/response"
	"gitlab.com/judgerunner.net/internal/static/errs"
)

type CreateRoomRequest struct {
	ProjectName string `json:"projectName"`
	Password    string `json:"password"`
}

type JoinRoomRequest struct {
	RoomCode string `json:"roomCode"`
	Password string `json:"password"`
}

type RoomHandler struct {
	roomService room.IRoomService
	hub         *Hub
	logger      primary.Logger
}

// NewRoomHandler creates the room handler; hub may be nil to serve without
// the live editor socket
func NewRoomHandler(roomService room.IRoomService, hub *Hub, logger primary.Logger) *RoomHandler {
	return &RoomHandler{
		roomService: roomService,
		hub:         hub,
		logger:      logger,
	}
}

func (h *RoomHandler) RegisterRoutes(router *mux.Router) {
	router.HandleFunc("/createroom", h.CreateRoom).Methods(http.MethodPost)
	router.HandleFunc("/joinroom", h.JoinRoom).Methods(http.MethodPost)
	if h.hub != nil {
		router.HandleFunc("/ws", h.hub.ServeWS).Methods(http.MethodGet)
	}
}

func (h *RoomHandler) CreateRoom(w http.ResponseWriter, r *http.Request) {
	var req CreateRoomRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.WriteError(w, response.ErrorMessage{Message: "Invalid request", StatusCode: http.StatusBadRequest})
		return
	}

	code, err := h.roomService.Create(r.Context(), req.ProjectName, req.Password)
	if errors.Is(err, errs.MissingRoomFields) {
		response.WriteError(w, response.ErrorMessage{Message: err.Error(), StatusCode: http.StatusBadRequest})
		return
	}
	if err != nil {
		h.logger.Error("Failed to create room", "error", err)
		response.WriteError(w, response.ErrorMessage{Message: "Failed to create room", StatusCode: http.StatusInternalServerError})
		return
	}

	response.WriteJSON(w, http.StatusCreated, map[string]string{"roomCode": code})
}

func (h *RoomHandler) JoinRoom(w http.ResponseWriter, r *http.Request) {
	var req JoinRoomRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.WriteError(w, response.ErrorMessage{Message: "Invalid request", StatusCode: http.StatusBadRequest})
		return
	}

	err := h.roomService.Join(r.Context(), req.RoomCode, req.Password)
	switch {
	case err == nil:
		response.WriteSuccess(w, map[string]string{
			"message":  "Joined successfully",
			"roomCode": strings.ToUpper(req.RoomCode),
		})
	case errors.Is(err, errs.MissingJoinFields):
		response.WriteError(w, response.ErrorMessage{Message: err.Error(), StatusCode: http.StatusBadRequest})
	case errors.Is(err, errs.RoomNotFound):
		response.WriteError(w, response.ErrorMessage{Message: err.Error(), StatusCode: http.StatusNotFound})
	case errors.Is(err, errs.InvalidCredentials):
		response.WriteError(w, response.ErrorMessage{Message: "Incorrect password", StatusCode: http.StatusUnauthorized})
	default:
		h.logger.Error("Failed to join room", "error", err)
		response.WriteError(w, response.ErrorMessage{Message: "Failed to join room", StatusCode: http.StatusInternalServerError})
	}
}
