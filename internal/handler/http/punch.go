package http

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/presencehq/presence-backend-go/internal/domain/punch"
	"github.com/presencehq/presence-backend-go/internal/handler/http/response"
)

type PunchHandler interface {
	Record(w http.ResponseWriter, r *http.Request)
	List(w http.ResponseWriter, r *http.Request)
}

type PunchHandlerImpl struct {
	punchService punch.Service
}

// Record implements PunchHandler.
func (p *PunchHandlerImpl) Record(w http.ResponseWriter, r *http.Request) {
	actorID, err := actorFromRequest(r)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	var req punch.RecordPunchRequest

	// 1. Decode JSON
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		slog.Error("Record punch decode error", "error", err)
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	if err := req.Validate(); err != nil {
		response.HandleError(w, err)
		return
	}

	punchResponse, err := p.punchService.RecordPunch(r.Context(), actorID, req)
	if err != nil {
		slog.Error("Record punch service error", "error", err)
		response.HandleError(w, err)
		return
	}

	response.Created(w, "Punch recorded successfully", punchResponse)
}

// List implements PunchHandler.
func (p *PunchHandlerImpl) List(w http.ResponseWriter, r *http.Request) {
	actorID, err := actorFromRequest(r)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	filter := punch.ListPunchesFilter{UserID: actorID}

	// user_id defaults to the actor
	if userID := r.URL.Query().Get("user_id"); userID != "" {
		filter.UserID = userID
	}

	// Date range filters
	if from := r.URL.Query().Get("from"); from != "" {
		t, err := time.Parse(time.RFC3339, from)
		if err != nil {
			response.BadRequest(w, "from must be an RFC 3339 timestamp", nil)
			return
		}
		filter.From = &t
	}
	if to := r.URL.Query().Get("to"); to != "" {
		t, err := time.Parse(time.RFC3339, to)
		if err != nil {
			response.BadRequest(w, "to must be an RFC 3339 timestamp", nil)
			return
		}
		filter.To = &t
	}

	punchesResponse, err := p.punchService.ListPunches(r.Context(), filter)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, punchesResponse)
}

func NewPunchHandler(punchService punch.Service) PunchHandler {
	return &PunchHandlerImpl{punchService: punchService}
}
