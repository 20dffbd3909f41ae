package http

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/presencehq/presence-backend-go/internal/domain/leave"
	"github.com/presencehq/presence-backend-go/internal/handler/http/response"
)

type LeaveHandler interface {
	CreateAccount(w http.ResponseWriter, r *http.Request)
	GetBalance(w http.ResponseWriter, r *http.Request)
	ListEntries(w http.ResponseWriter, r *http.Request)
}

type LeaveHandlerImpl struct {
	ledgerService leave.LedgerService
}

// CreateAccount implements LeaveHandler.
func (l *LeaveHandlerImpl) CreateAccount(w http.ResponseWriter, r *http.Request) {
	var req leave.CreateAccountRequest

	// 1. Decode JSON
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		slog.Error("Create account decode error", "error", err)
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	if err := req.Validate(); err != nil {
		response.HandleError(w, err)
		return
	}

	accountResponse, err := l.ledgerService.CreateAccount(r.Context(), req)
	if err != nil {
		slog.Error("Create account service error", "error", err)
		response.HandleError(w, err)
		return
	}

	response.Created(w, "Leave account created successfully", accountResponse)
}

// GetBalance implements LeaveHandler.
func (l *LeaveHandlerImpl) GetBalance(w http.ResponseWriter, r *http.Request) {
	accountID := chi.URLParam(r, "id")
	if accountID == "" {
		response.BadRequest(w, "Account ID is required", nil)
		return
	}

	balance, err := l.ledgerService.CurrentBalance(r.Context(), accountID)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, leave.BalanceResponse{
		AccountID: accountID,
		Balance:   balance.String(),
	})
}

// ListEntries implements LeaveHandler.
func (l *LeaveHandlerImpl) ListEntries(w http.ResponseWriter, r *http.Request) {
	accountID := chi.URLParam(r, "id")
	if accountID == "" {
		response.BadRequest(w, "Account ID is required", nil)
		return
	}

	entriesResponse, err := l.ledgerService.ListEntries(r.Context(), accountID)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, entriesResponse)
}

func NewLeaveHandler(ledgerService leave.LedgerService) LeaveHandler {
	return &LeaveHandlerImpl{ledgerService: ledgerService}
}
