package handler

import (
	"log/slog"
	"net/http"

	rbSvc "resumebank/internal/domain/services/resumebank"
	"resumebank/internal/httputil"
)

// CompanyHandler serves the company record
type CompanyHandler struct {
	queries CompanyQueries
	logger  *slog.Logger
}

// NewCompanyHandler creates a new company handler
func NewCompanyHandler(queries CompanyQueries, logger *slog.Logger) *CompanyHandler {
	return &CompanyHandler{
		queries: queries,
		logger:  logger,
	}
}

// GetCompany is public. Anonymous callers get trade name, CNPJ and legal
// name only; a request carrying a valid token gets the full record.
// GET /api/company
func (h *CompanyHandler) GetCompany(w http.ResponseWriter, r *http.Request) {
	public := httputil.GetUserID(r) == ""
	httputil.RespondEnvelope(w, h.queries.GetCompany(r.Context(), public))
}

// UpdateCompany applies the fields present in the body
// PUT /api/company
func (h *CompanyHandler) UpdateCompany(w http.ResponseWriter, r *http.Request) {
	var req rbSvc.UpdateCompanyRequest
	if !parseBody(w, r, &req) {
		return
	}
	h.logger.Debug("company update", "user_id", httputil.GetUserID(r))
	httputil.RespondEnvelope(w, h.queries.UpdateCompany(r.Context(), &req))
}
