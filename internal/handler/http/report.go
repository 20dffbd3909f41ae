package http

import (
	"net/http"

	"github.com/presencehq/presence-backend-go/internal/domain/report"
	"github.com/presencehq/presence-backend-go/internal/handler/http/response"
)

type ReportHandler interface {
	ListMine(w http.ResponseWriter, r *http.Request)
}

type ReportHandlerImpl struct {
	reportService report.Service
}

// ListMine implements ReportHandler.
func (h *ReportHandlerImpl) ListMine(w http.ResponseWriter, r *http.Request) {
	actorID, err := actorFromRequest(r)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	reportsResponse, err := h.reportService.ListReportsForRecipient(r.Context(), actorID)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, reportsResponse)
}

func NewReportHandler(reportService report.Service) ReportHandler {
	return &ReportHandlerImpl{reportService: reportService}
}
