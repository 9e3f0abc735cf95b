package handler

import (
	"fmt"
	"log/slog"
	"mime"
	"net/http"
	"strconv"

	models "resumebank/internal/domain/models/resumebank"
	rbSvc "resumebank/internal/domain/services/resumebank"
	"resumebank/internal/httputil"
)

// ResumeHandler handles résumé HTTP requests
type ResumeHandler struct {
	queries ResumeQueries
	logger  *slog.Logger
}

// NewResumeHandler creates a new résumé handler
func NewResumeHandler(queries ResumeQueries, logger *slog.Logger) *ResumeHandler {
	return &ResumeHandler{
		queries: queries,
		logger:  logger,
	}
}

// resumeBody carries the attachment as base64 (encoding/json's []byte form)
type resumeBody struct {
	Name                  string               `json:"name"`
	Profile               models.ResumeProfile `json:"profile"`
	Attachment            []byte               `json:"attachment,omitempty"`
	AttachmentContentType string               `json:"attachment_content_type,omitempty"`
}

func (b *resumeBody) request() *rbSvc.ResumeRequest {
	req := &rbSvc.ResumeRequest{Name: b.Name, Profile: b.Profile}
	if b.Attachment != nil {
		req.Attachment = &models.Attachment{Data: b.Attachment, ContentType: b.AttachmentContentType}
	}
	return req
}

// extractBody takes either plain text or a base64 PDF in file
type extractBody struct {
	Text string `json:"text"`
	File []byte `json:"file,omitempty"`
}

// GET /api/banks/{bankId}/folders/{folderId}/resumes
func (h *ResumeHandler) ListResumes(w http.ResponseWriter, r *http.Request) {
	httputil.RespondEnvelope(w, h.queries.ListResumes(r.Context(), r.PathValue("bankId"), r.PathValue("folderId")))
}

// GET /api/banks/{bankId}/folders/{folderId}/resumes/{resumeId}
func (h *ResumeHandler) GetResume(w http.ResponseWriter, r *http.Request) {
	httputil.RespondEnvelope(w, h.queries.GetResume(r.Context(),
		r.PathValue("bankId"), r.PathValue("folderId"), r.PathValue("resumeId")))
}

// SearchResumes matches the résumés of a folder and its immediate subfolders
// GET /api/banks/{bankId}/folders/{folderId}/search?q=...
func (h *ResumeHandler) SearchResumes(w http.ResponseWriter, r *http.Request) {
	httputil.RespondEnvelope(w, h.queries.SearchResumes(r.Context(),
		r.PathValue("bankId"), r.PathValue("folderId"), r.URL.Query().Get("q")))
}

// CreateResume stores a résumé and its optional attachment
// POST /api/banks/{bankId}/folders/{folderId}/resumes
func (h *ResumeHandler) CreateResume(w http.ResponseWriter, r *http.Request) {
	var body resumeBody
	if !parseBody(w, r, &body) {
		return
	}
	httputil.RespondEnvelope(w, h.queries.CreateResume(r.Context(),
		r.PathValue("bankId"), r.PathValue("folderId"), body.request()))
}

// UpdateResume replaces fields, and the attachment when one is sent
// PUT /api/banks/{bankId}/folders/{folderId}/resumes/{resumeId}
func (h *ResumeHandler) UpdateResume(w http.ResponseWriter, r *http.Request) {
	var body resumeBody
	if !parseBody(w, r, &body) {
		return
	}
	httputil.RespondEnvelope(w, h.queries.UpdateResume(r.Context(),
		r.PathValue("bankId"), r.PathValue("folderId"), r.PathValue("resumeId"), body.request()))
}

// DELETE /api/banks/{bankId}/folders/{folderId}/resumes/{resumeId}
func (h *ResumeHandler) DeleteResume(w http.ResponseWriter, r *http.Request) {
	httputil.RespondEnvelope(w, h.queries.DeleteResume(r.Context(),
		r.PathValue("bankId"), r.PathValue("folderId"), r.PathValue("resumeId")))
}

// DownloadAttachment streams the stored attachment bytes
// GET /api/resumes/{resumeId}/attachment
func (h *ResumeHandler) DownloadAttachment(w http.ResponseWriter, r *http.Request) {
	blob, env := h.queries.DownloadAttachment(r.Context(), r.PathValue("resumeId"))
	if blob == nil {
		httputil.RespondEnvelope(w, env)
		return
	}

	w.Header().Set("Content-Type", blob.ContentType)
	w.Header().Set("Content-Length", strconv.Itoa(len(blob.Data)))
	w.Header().Set("Content-Disposition", fmt.Sprintf("inline; filename=%q", blob.Filename))
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(blob.Data); err != nil {
		h.logger.Warn("attachment write failed", "resume_id", r.PathValue("resumeId"), "error", err)
	}
}

// ExtractResume structures a résumé into résumé fields. It accepts a JSON
// body with text or a base64 PDF, or a multipart upload with a "file" part.
// POST /api/resumes/extract
func (h *ResumeHandler) ExtractResume(w http.ResponseWriter, r *http.Request) {
	if mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type")); mediaType == "multipart/form-data" {
		data, err := readUpload(w, r, "file")
		if err != nil {
			httputil.RespondEnvelope(w, httputil.FromError(err, "invalid upload"))
			return
		}
		httputil.RespondEnvelope(w, h.queries.ExtractResumePDF(r.Context(), data))
		return
	}

	var body extractBody
	if !parseBody(w, r, &body) {
		return
	}
	if len(body.File) > 0 {
		httputil.RespondEnvelope(w, h.queries.ExtractResumePDF(r.Context(), body.File))
		return
	}
	httputil.RespondEnvelope(w, h.queries.ExtractResume(r.Context(), body.Text))
}
