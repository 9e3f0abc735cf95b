package handler

import "net/http"

// Handlers groups every handler served by the API
type Handlers struct {
	Banks     *BankHandler
	Companies *CompanyHandler
	Folders   *FolderHandler
	Resumes   *ResumeHandler
	System    *SystemHandler
}

// RegisterRoutes mounts the API on mux (Go 1.22+ method and wildcard patterns)
func RegisterRoutes(mux *http.ServeMux, h Handlers) {
	mux.HandleFunc("GET /health", h.System.HealthCheck)
	mux.HandleFunc("GET /status", h.System.Status)
	mux.HandleFunc("POST /api/cache/reset", h.System.ResetCache)

	// Company routes
	mux.HandleFunc("GET /api/company", h.Companies.GetCompany)
	mux.HandleFunc("PUT /api/company", h.Companies.UpdateCompany)

	// Bank routes
	mux.HandleFunc("GET /api/banks", h.Banks.ListBanks)
	mux.HandleFunc("POST /api/banks", h.Banks.CreateBank)
	mux.HandleFunc("GET /api/banks/{bankId}", h.Banks.GetBank)
	mux.HandleFunc("PUT /api/banks/{bankId}", h.Banks.UpdateBank)
	mux.HandleFunc("DELETE /api/banks/{bankId}", h.Banks.DeleteBank)

	// Folder routes
	mux.HandleFunc("GET /api/banks/{bankId}/folders", h.Folders.ListRootFolders)
	mux.HandleFunc("POST /api/banks/{bankId}/folders", h.Folders.CreateFolder)
	mux.HandleFunc("GET /api/banks/{bankId}/folders/{folderId}", h.Folders.GetFolder)
	mux.HandleFunc("PUT /api/banks/{bankId}/folders/{folderId}", h.Folders.UpdateFolder)
	mux.HandleFunc("DELETE /api/banks/{bankId}/folders/{folderId}", h.Folders.DeleteFolder)

	// Résumé routes
	mux.HandleFunc("GET /api/banks/{bankId}/folders/{folderId}/search", h.Resumes.SearchResumes)
	mux.HandleFunc("GET /api/banks/{bankId}/folders/{folderId}/resumes", h.Resumes.ListResumes)
	mux.HandleFunc("POST /api/banks/{bankId}/folders/{folderId}/resumes", h.Resumes.CreateResume)
	mux.HandleFunc("GET /api/banks/{bankId}/folders/{folderId}/resumes/{resumeId}", h.Resumes.GetResume)
	mux.HandleFunc("PUT /api/banks/{bankId}/folders/{folderId}/resumes/{resumeId}", h.Resumes.UpdateResume)
	mux.HandleFunc("DELETE /api/banks/{bankId}/folders/{folderId}/resumes/{resumeId}", h.Resumes.DeleteResume)
	mux.HandleFunc("GET /api/resumes/{resumeId}/attachment", h.Resumes.DownloadAttachment)
	mux.HandleFunc("POST /api/resumes/extract", h.Resumes.ExtractResume)
}
