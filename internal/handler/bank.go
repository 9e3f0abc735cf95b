package handler

import (
	"log/slog"
	"net/http"

	rbSvc "resumebank/internal/domain/services/resumebank"
	"resumebank/internal/httputil"
)

// BankHandler handles bank HTTP requests
type BankHandler struct {
	queries BankQueries
	logger  *slog.Logger
}

// NewBankHandler creates a new bank handler
func NewBankHandler(queries BankQueries, logger *slog.Logger) *BankHandler {
	return &BankHandler{
		queries: queries,
		logger:  logger,
	}
}

// ListBanks returns every bank with folder and résumé counts
// GET /api/banks
func (h *BankHandler) ListBanks(w http.ResponseWriter, r *http.Request) {
	httputil.RespondEnvelope(w, h.queries.ListBanks(r.Context()))
}

// GET /api/banks/{bankId}
func (h *BankHandler) GetBank(w http.ResponseWriter, r *http.Request) {
	httputil.RespondEnvelope(w, h.queries.GetBank(r.Context(), r.PathValue("bankId")))
}

// CreateBank creates a bank
// POST /api/banks
// Returns 201, or 409 when the name is taken
func (h *BankHandler) CreateBank(w http.ResponseWriter, r *http.Request) {
	var req rbSvc.BankRequest
	if !parseBody(w, r, &req) {
		return
	}
	httputil.RespondEnvelope(w, h.queries.CreateBank(r.Context(), &req))
}

// PUT /api/banks/{bankId}
func (h *BankHandler) UpdateBank(w http.ResponseWriter, r *http.Request) {
	var req rbSvc.BankRequest
	if !parseBody(w, r, &req) {
		return
	}
	httputil.RespondEnvelope(w, h.queries.UpdateBank(r.Context(), r.PathValue("bankId"), &req))
}

// DeleteBank deletes a bank without folders
// DELETE /api/banks/{bankId}
func (h *BankHandler) DeleteBank(w http.ResponseWriter, r *http.Request) {
	httputil.RespondEnvelope(w, h.queries.DeleteBank(r.Context(), r.PathValue("bankId")))
}
