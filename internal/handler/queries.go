package handler

import (
	"context"

	models "resumebank/internal/domain/models/resumebank"
	rbSvc "resumebank/internal/domain/services/resumebank"
	"resumebank/internal/httputil"
)

// The query façade answers every operation with an envelope. Handlers depend
// on the slice of it they serve.

type BankQueries interface {
	ListBanks(ctx context.Context) httputil.Envelope
	GetBank(ctx context.Context, bankID string) httputil.Envelope
	CreateBank(ctx context.Context, req *rbSvc.BankRequest) httputil.Envelope
	UpdateBank(ctx context.Context, bankID string, req *rbSvc.BankRequest) httputil.Envelope
	DeleteBank(ctx context.Context, bankID string) httputil.Envelope
}

type CompanyQueries interface {
	GetCompany(ctx context.Context, public bool) httputil.Envelope
	UpdateCompany(ctx context.Context, req *rbSvc.UpdateCompanyRequest) httputil.Envelope
}

type FolderQueries interface {
	ListRootFolders(ctx context.Context, bankID string) httputil.Envelope
	GetFolder(ctx context.Context, bankID, folderID string) httputil.Envelope
	CreateFolder(ctx context.Context, bankID string, req *rbSvc.CreateFolderRequest) httputil.Envelope
	MoveOrRenameFolder(ctx context.Context, bankID, folderID string, req *rbSvc.UpdateFolderRequest) httputil.Envelope
	DeleteFolder(ctx context.Context, bankID, folderID string) httputil.Envelope
}

type ResumeQueries interface {
	ListResumes(ctx context.Context, bankID, folderID string) httputil.Envelope
	GetResume(ctx context.Context, bankID, folderID, resumeID string) httputil.Envelope
	SearchResumes(ctx context.Context, bankID, folderID, query string) httputil.Envelope
	CreateResume(ctx context.Context, bankID, folderID string, req *rbSvc.ResumeRequest) httputil.Envelope
	UpdateResume(ctx context.Context, bankID, folderID, resumeID string, req *rbSvc.ResumeRequest) httputil.Envelope
	DeleteResume(ctx context.Context, bankID, folderID, resumeID string) httputil.Envelope
	DownloadAttachment(ctx context.Context, resumeID string) (*models.Blob, httputil.Envelope)
	ExtractResume(ctx context.Context, text string) httputil.Envelope
	ExtractResumePDF(ctx context.Context, data []byte) httputil.Envelope
}

type SystemQueries interface {
	Health(ctx context.Context) httputil.Envelope
	Status(ctx context.Context) httputil.Envelope
	ResetCache(ctx context.Context, id string) httputil.Envelope
}
