package handler

import (
	"log/slog"
	"net/http"

	models "resumebank/internal/domain/models/resumebank"
	rbSvc "resumebank/internal/domain/services/resumebank"
	"resumebank/internal/httputil"
)

// FolderHandler handles folder HTTP requests
type FolderHandler struct {
	queries FolderQueries
	logger  *slog.Logger
}

// NewFolderHandler creates a new folder handler
func NewFolderHandler(queries FolderQueries, logger *slog.Logger) *FolderHandler {
	return &FolderHandler{
		queries: queries,
		logger:  logger,
	}
}

// updateFolderBody distinguishes an absent parent_id (stay) from null (move to root)
type updateFolderBody struct {
	Name     *string                 `json:"name"`
	Color    *string                 `json:"color"`
	ParentID httputil.OptionalString `json:"parent_id"`
}

// ListRootFolders lists the top-level folders of a bank
// GET /api/banks/{bankId}/folders
func (h *FolderHandler) ListRootFolders(w http.ResponseWriter, r *http.Request) {
	httputil.RespondEnvelope(w, h.queries.ListRootFolders(r.Context(), r.PathValue("bankId")))
}

// GetFolder returns a folder with its subfolders and résumé summaries
// GET /api/banks/{bankId}/folders/{folderId}
func (h *FolderHandler) GetFolder(w http.ResponseWriter, r *http.Request) {
	httputil.RespondEnvelope(w, h.queries.GetFolder(r.Context(), r.PathValue("bankId"), r.PathValue("folderId")))
}

// CreateFolder creates a folder, under parent_id when it exists in the bank
// POST /api/banks/{bankId}/folders
func (h *FolderHandler) CreateFolder(w http.ResponseWriter, r *http.Request) {
	var req rbSvc.CreateFolderRequest
	if !parseBody(w, r, &req) {
		return
	}
	httputil.RespondEnvelope(w, h.queries.CreateFolder(r.Context(), r.PathValue("bankId"), &req))
}

// UpdateFolder renames, recolors or moves a folder
// PUT /api/banks/{bankId}/folders/{folderId}
func (h *FolderHandler) UpdateFolder(w http.ResponseWriter, r *http.Request) {
	var body updateFolderBody
	if !parseBody(w, r, &body) {
		return
	}

	req := &rbSvc.UpdateFolderRequest{
		Name:  body.Name,
		Color: body.Color,
		Parent: models.OptionalParent{
			Present: body.ParentID.Present,
			Value:   body.ParentID.Value,
		},
	}
	httputil.RespondEnvelope(w, h.queries.MoveOrRenameFolder(r.Context(), r.PathValue("bankId"), r.PathValue("folderId"), req))
}

// DeleteFolder deletes an empty folder
// DELETE /api/banks/{bankId}/folders/{folderId}
func (h *FolderHandler) DeleteFolder(w http.ResponseWriter, r *http.Request) {
	httputil.RespondEnvelope(w, h.queries.DeleteFolder(r.Context(), r.PathValue("bankId"), r.PathValue("folderId")))
}
