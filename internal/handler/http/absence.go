package http

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/presencehq/presence-backend-go/internal/domain/absence"
	"github.com/presencehq/presence-backend-go/internal/handler/http/response"
)

type AbsenceHandler interface {
	Create(w http.ResponseWriter, r *http.Request)
	Get(w http.ResponseWriter, r *http.Request)
	List(w http.ResponseWriter, r *http.Request)
	Update(w http.ResponseWriter, r *http.Request)
	TransitionStatus(w http.ResponseWriter, r *http.Request)
	Delete(w http.ResponseWriter, r *http.Request)
}

type AbsenceHandlerImpl struct {
	absenceService absence.Service
}

// Create implements AbsenceHandler.
func (a *AbsenceHandlerImpl) Create(w http.ResponseWriter, r *http.Request) {
	actorID, err := actorFromRequest(r)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	var req absence.CreateAbsenceRequest

	// 1. Decode JSON
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		slog.Error("Create absence decode error", "error", err)
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	if err := req.Validate(); err != nil {
		response.HandleError(w, err)
		return
	}

	absenceResponse, err := a.absenceService.CreateAbsence(r.Context(), actorID, req)
	if err != nil {
		slog.Error("Create absence service error", "error", err)
		response.HandleError(w, err)
		return
	}

	response.Created(w, "Absence created successfully", absenceResponse)
}

// Get implements AbsenceHandler.
func (a *AbsenceHandlerImpl) Get(w http.ResponseWriter, r *http.Request) {
	actorID, err := actorFromRequest(r)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	absenceID := chi.URLParam(r, "id")
	if absenceID == "" {
		response.BadRequest(w, "Absence ID is required", nil)
		return
	}

	absenceResponse, err := a.absenceService.GetAbsence(r.Context(), actorID, absenceID)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, absenceResponse)
}

// List implements AbsenceHandler.
func (a *AbsenceHandlerImpl) List(w http.ResponseWriter, r *http.Request) {
	actorID, err := actorFromRequest(r)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	// user_id defaults to the actor
	userID := r.URL.Query().Get("user_id")
	if userID == "" {
		userID = actorID
	}

	absencesResponse, err := a.absenceService.ListAbsences(r.Context(), actorID, userID)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, absencesResponse)
}

// Update implements AbsenceHandler.
func (a *AbsenceHandlerImpl) Update(w http.ResponseWriter, r *http.Request) {
	actorID, err := actorFromRequest(r)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	absenceID := chi.URLParam(r, "id")
	if absenceID == "" {
		response.BadRequest(w, "Absence ID is required", nil)
		return
	}

	var req absence.UpdateAbsenceRequest

	// 1. Decode JSON
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		slog.Error("Update absence decode error", "error", err)
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	req.ID = absenceID

	if err := req.Validate(); err != nil {
		response.HandleError(w, err)
		return
	}

	absenceResponse, err := a.absenceService.UpdateAbsence(r.Context(), actorID, req)
	if err != nil {
		slog.Error("Update absence service error", "error", err)
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Absence updated successfully", absenceResponse)
}

// TransitionStatus implements AbsenceHandler.
func (a *AbsenceHandlerImpl) TransitionStatus(w http.ResponseWriter, r *http.Request) {
	actorID, err := actorFromRequest(r)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	absenceID := chi.URLParam(r, "id")
	if absenceID == "" {
		response.BadRequest(w, "Absence ID is required", nil)
		return
	}

	var req absence.TransitionStatusRequest

	// 1. Decode JSON
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		slog.Error("Transition status decode error", "error", err)
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	req.ID = absenceID

	if err := req.Validate(); err != nil {
		response.HandleError(w, err)
		return
	}

	absenceResponse, err := a.absenceService.TransitionStatus(r.Context(), actorID, req)
	if err != nil {
		slog.Error("Transition status service error", "error", err)
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Absence status updated successfully", absenceResponse)
}

// Delete implements AbsenceHandler.
func (a *AbsenceHandlerImpl) Delete(w http.ResponseWriter, r *http.Request) {
	actorID, err := actorFromRequest(r)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	absenceID := chi.URLParam(r, "id")
	if absenceID == "" {
		response.BadRequest(w, "Absence ID is required", nil)
		return
	}

	if err := a.absenceService.DeleteAbsence(r.Context(), actorID, absenceID); err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Absence deleted successfully", nil)
}

func NewAbsenceHandler(absenceService absence.Service) AbsenceHandler {
	return &AbsenceHandlerImpl{absenceService: absenceService}
}
