package resumebank

import (
	"context"
	"testing"

	models "resumebank/internal/domain/models/resumebank"
	rbSvc "resumebank/internal/domain/services/resumebank"
)

type harness struct {
	db      *memDB
	tx      *fakeTx
	banks   rbSvc.BankService
	folders rbSvc.FolderService
	resumes rbSvc.ResumeService
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	db := newMemDB()
	tx := &fakeTx{}
	bankRepo := &fakeBankRepo{db: db}
	folderRepo := &fakeFolderRepo{db: db}
	resumeRepo := &fakeResumeRepo{db: db}
	blobs := &fakeBlobStore{db: db}
	logger := discardLogger()

	return &harness{
		db:      db,
		tx:      tx,
		banks:   NewBankService(bankRepo, folderRepo, resumeRepo, logger),
		folders: NewFolderService(bankRepo, folderRepo, resumeRepo, tx, logger),
		resumes: NewResumeService(folderRepo, resumeRepo, blobs, tx, logger),
	}
}

func (h *harness) mustBank(t *testing.T, name string) string {
	t.Helper()
	bank, err := h.banks.CreateBank(context.Background(), &rbSvc.BankRequest{Name: name})
	if err != nil {
		t.Fatalf("CreateBank(%q): %v", name, err)
	}
	return bank.ID
}

func (h *harness) mustFolder(t *testing.T, bankID, name string, parentID string) string {
	t.Helper()
	req := &rbSvc.CreateFolderRequest{Name: name}
	if parentID != "" {
		req.ParentID = &parentID
	}
	change, err := h.folders.CreateFolder(context.Background(), bankID, req)
	if err != nil {
		t.Fatalf("CreateFolder(%q): %v", name, err)
	}
	return change.Folder.ID
}

func (h *harness) mustResume(t *testing.T, bankID, folderID, name string, attachment []byte) string {
	t.Helper()
	req := &rbSvc.ResumeRequest{Name: name}
	if attachment != nil {
		req.Attachment = &models.Attachment{Data: attachment}
	}
	change, err := h.resumes.CreateResume(context.Background(), bankID, folderID, req)
	if err != nil {
		t.Fatalf("CreateResume(%q): %v", name, err)
	}
	return change.Resume.ID
}

func (h *harness) folder(t *testing.T, id string) models.Folder {
	t.Helper()
	h.db.mu.Lock()
	defer h.db.mu.Unlock()
	for _, f := range h.db.folders {
		if f.ID == id {
			return f
		}
	}
	t.Fatalf("folder %s not stored", id)
	return models.Folder{}
}

// assertLinksAgree checks that a folder is listed by P iff its parent is P,
// and that no folder is listed by two parents.
func (h *harness) assertLinksAgree(t *testing.T) {
	t.Helper()
	h.db.mu.Lock()
	defer h.db.mu.Unlock()

	listedBy := map[string]string{}
	for _, f := range h.db.folders {
		for _, child := range f.SubFolders {
			if other, dup := listedBy[child]; dup {
				t.Errorf("folder %s listed by both %s and %s", child, other, f.ID)
			}
			listedBy[child] = f.ID
		}
	}
	for _, f := range h.db.folders {
		parent := ""
		if f.ParentID != nil {
			parent = *f.ParentID
		}
		if listedBy[f.ID] != parent {
			t.Errorf("folder %s: parent_id = %q but listed by %q", f.Name, parent, listedBy[f.ID])
		}
	}
}

func names(folders []models.Folder) []string {
	out := make([]string, len(folders))
	for i, f := range folders {
		out[i] = f.Name
	}
	return out
}
