package handlers

import (
	"net/http"

	"github.com/fixmyward/ward-server/internal/models"
	"github.com/fixmyward/ward-server/internal/services"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// ReportHandler serves the citizen and councillor dashboards
type ReportHandler struct {
	reports *services.ReportService
	wards   *services.WardDirectory
	logger  *zap.SugaredLogger
}

// NewReportHandler creates a new report handler
func NewReportHandler(reports *services.ReportService, wards *services.WardDirectory, logger *zap.SugaredLogger) *ReportHandler {
	return &ReportHandler{reports: reports, wards: wards, logger: logger}
}

// Mine handles GET /api/v1/citizen/reports
func (h *ReportHandler) Mine(w http.ResponseWriter, r *http.Request) {
	user, _ := services.UserFromContext(r.Context())

	reports, err := h.reports.MyReports(r.Context(), user)
	if err != nil {
		respondServiceError(w, h.logger, err, "Failed to fetch reports")
		return
	}
	respondJSON(w, http.StatusOK, reports)
}

// Submit handles POST /api/v1/citizen/reports
// The response is held until the description has been enriched.
func (h *ReportHandler) Submit(w http.ResponseWriter, r *http.Request) {
	user, _ := services.UserFromContext(r.Context())

	var req models.ReportSubmission
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	report, err := h.reports.Submit(r.Context(), user, req)
	if err != nil {
		respondServiceError(w, h.logger, err, "Failed to submit report")
		return
	}
	respondJSON(w, http.StatusCreated, report)
}

// Ward handles GET /api/v1/councillor/reports?status=
func (h *ReportHandler) Ward(w http.ResponseWriter, r *http.Request) {
	user, _ := services.UserFromContext(r.Context())
	status := models.ReportStatus(r.URL.Query().Get("status"))
	if status == "ALL" {
		status = ""
	}

	reports, err := h.reports.WardReports(r.Context(), user, status)
	if err != nil {
		respondServiceError(w, h.logger, err, "Failed to fetch ward reports")
		return
	}
	respondJSON(w, http.StatusOK, reports)
}

// Summary handles GET /api/v1/councillor/summary
func (h *ReportHandler) Summary(w http.ResponseWriter, r *http.Request) {
	user, _ := services.UserFromContext(r.Context())

	summary, err := h.reports.WardSummary(r.Context(), user)
	if err != nil {
		respondServiceError(w, h.logger, err, "Failed to summarize ward")
		return
	}

	dash := models.CouncillorDashboard{Summary: summary}
	if ward, ok := h.wards.ByName(user.Ward); ok {
		dash.Ward = &ward
	}
	respondJSON(w, http.StatusOK, dash)
}

// UpdateStatus handles PATCH /api/v1/councillor/reports/{id}/status
// An unknown id is accepted and changes nothing.
func (h *ReportHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	user, _ := services.UserFromContext(r.Context())
	id := chi.URLParam(r, "id")

	var req models.StatusUpdate
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if err := services.Validate(req); err != nil {
		respondServiceError(w, h.logger, err, "Failed to update status")
		return
	}

	if err := h.reports.Triage(r.Context(), user, id, req.Status); err != nil {
		respondServiceError(w, h.logger, err, "Failed to update status")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
