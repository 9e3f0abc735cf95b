package resumebank

import (
	"context"

	"resumebank/internal/domain/models/resumebank"
)

// BankService handles bank business logic
type BankService interface {
	// ListBanks returns every bank with folder and résumé counts
	ListBanks(ctx context.Context) ([]resumebank.BankWithMetadata, error)

	GetBank(ctx context.Context, id string) (*resumebank.Bank, error)

	// CreateBank fails with a conflict when the name is taken
	CreateBank(ctx context.Context, req *BankRequest) (*resumebank.Bank, error)

	// UpdateBank fails with a conflict when another bank uses the name
	UpdateBank(ctx context.Context, id string, req *BankRequest) (*resumebank.Bank, error)

	// DeleteBank fails with a conflict while any folder references the bank
	DeleteBank(ctx context.Context, id string) error
}

// FolderService maintains the folder tree of a bank
type FolderService interface {
	// ListRootFolders returns folders not listed as a subfolder by any folder of the bank
	ListRootFolders(ctx context.Context, bankID string) ([]resumebank.Folder, error)

	// GetFolder returns the folder with resolved subfolders and résumé summaries
	GetFolder(ctx context.Context, bankID, folderID string) (*resumebank.FolderDetail, error)

	// CreateFolder creates a folder and links it to its parent when the parent exists in the bank
	CreateFolder(ctx context.Context, bankID string, req *CreateFolderRequest) (*FolderChange, error)

	// MoveOrRenameFolder renames, recolors or reparents a folder
	MoveOrRenameFolder(ctx context.Context, bankID, folderID string, req *UpdateFolderRequest) (*FolderChange, error)

	// DeleteFolder deletes an empty folder and unlinks it from its parent
	DeleteFolder(ctx context.Context, bankID, folderID string) (*FolderChange, error)
}

// ResumeService handles résumé records and their attachments
type ResumeService interface {
	ListResumes(ctx context.Context, bankID, folderID string) ([]resumebank.Resume, error)

	GetResume(ctx context.Context, bankID, folderID, resumeID string) (*resumebank.Resume, error)

	// CreateResume uploads the attachment as <id>.pdf, inserts the résumé and lists it in the folder
	CreateResume(ctx context.Context, bankID, folderID string, req *ResumeRequest) (*ResumeChange, error)

	// UpdateResume applies fields and replaces the attachment when one is supplied
	UpdateResume(ctx context.Context, bankID, folderID, resumeID string, req *ResumeRequest) (*ResumeChange, error)

	// DeleteResume removes the résumé, unlists it and deletes its attachment
	DeleteResume(ctx context.Context, bankID, folderID, resumeID string) (*ResumeChange, error)

	// DownloadAttachment returns the attachment blob of a résumé
	DownloadAttachment(ctx context.Context, resumeID string) (*resumebank.Blob, error)
}

// CompanyService manages the company record
type CompanyService interface {
	// GetCompany returns the oldest company record, NotFound when none exists
	GetCompany(ctx context.Context) (*resumebank.Company, error)

	// UpdateCompany applies the supplied fields only
	UpdateCompany(ctx context.Context, req *UpdateCompanyRequest) (*resumebank.Company, error)

	// EnsureDefaultCompany creates the company unless its CNPJ is on file.
	// created reports whether a record was inserted.
	EnsureDefaultCompany(ctx context.Context, req *CompanyRequest) (company *resumebank.Company, created bool, err error)
}

// SearchService matches résumés of a folder against a natural-language query
type SearchService interface {
	SearchResumes(ctx context.Context, bankID, folderID, query string) (*resumebank.SearchResult, error)
}

// Matcher ranks candidate résumés against a query.
// Implementations return either matches or a failure reason.
type Matcher interface {
	Match(ctx context.Context, query string, candidates []resumebank.Resume) (*resumebank.SearchResult, error)
}

// Extractor turns résumé text into structured fields
type Extractor interface {
	Extract(ctx context.Context, text string) (*ResumeRequest, error)
	// ExtractPDF extracts from the text layer of a PDF document
	ExtractPDF(ctx context.Context, data []byte) (*ResumeRequest, error)
}

// BankRequest is the payload for bank create and update
type BankRequest struct {
	Name string  `json:"name"`
	Icon *string `json:"icon,omitempty"`
}

// CompanyRequest describes a complete company record. CNPJ may carry the
// usual punctuation (00.000.000/0000-00).
type CompanyRequest struct {
	CNPJ      string             `json:"cnpj"`
	LegalName string             `json:"legal_name"`
	TradeName string             `json:"trade_name,omitempty"`
	Phone     string             `json:"phone,omitempty"`
	Email     string             `json:"email,omitempty"`
	Address   resumebank.Address `json:"address"`
}

// UpdateCompanyRequest is a partial update: nil fields are left untouched.
// A supplied address replaces the stored one as a whole.
type UpdateCompanyRequest struct {
	CNPJ      *string             `json:"cnpj,omitempty"`
	LegalName *string             `json:"legal_name,omitempty"`
	TradeName *string             `json:"trade_name,omitempty"`
	Phone     *string             `json:"phone,omitempty"`
	Email     *string             `json:"email,omitempty"`
	Address   *resumebank.Address `json:"address,omitempty"`
}

// CreateFolderRequest represents a folder creation request
type CreateFolderRequest struct {
	Name     string  `json:"name"`
	Color    string  `json:"color,omitempty"`
	ParentID *string `json:"parent_id,omitempty"`
}

// UpdateFolderRequest represents a rename, recolor or move.
// Child lists cannot be set through this request.
type UpdateFolderRequest struct {
	Name   *string
	Color  *string
	Parent resumebank.OptionalParent
}

// ResumeRequest carries résumé fields plus an optional attachment
type ResumeRequest struct {
	Name       string                   `json:"name"`
	Profile    resumebank.ResumeProfile `json:"profile"`
	Attachment *resumebank.Attachment   `json:"-"`
}

// FolderChange reports a folder write together with the parents it touched,
// so callers can invalidate dependent views.
type FolderChange struct {
	Folder    *resumebank.Folder
	OldParent string
	NewParent string
}

// ResumeChange reports a résumé write and the parent of its folder
type ResumeChange struct {
	Resume       *resumebank.Resume
	FolderParent string
}
