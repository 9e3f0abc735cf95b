package resumebank

import (
	"context"
	"io"
	"log/slog"
	"slices"
	"sync"

	"github.com/google/uuid"

	"resumebank/internal/domain"
	models "resumebank/internal/domain/models/resumebank"
	"resumebank/internal/domain/repositories"
)

// memDB backs every repository fake with one shared state so cross-entity
// invariants can be checked after a sequence of operations.
type memDB struct {
	mu          sync.Mutex
	banks       []models.Bank
	folders     []models.Folder
	resumes     []models.Resume
	companies   []models.Company
	blobs       map[string]models.Blob
	blobDeletes map[string]int
	failNext    error
}

func newMemDB() *memDB {
	return &memDB{blobs: map[string]models.Blob{}, blobDeletes: map[string]int{}}
}

func (db *memDB) takeFailure() error {
	err := db.failNext
	db.failNext = nil
	return err
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// fakeTx runs fn directly
type fakeTx struct{ calls int }

func (f *fakeTx) ExecTx(ctx context.Context, fn repositories.TxFn) error {
	f.calls++
	return fn(ctx)
}

// ---- banks ----

type fakeBankRepo struct{ db *memDB }

func (r *fakeBankRepo) Create(_ context.Context, bank *models.Bank) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	if err := r.db.takeFailure(); err != nil {
		return err
	}
	r.db.banks = append(r.db.banks, *bank)
	return nil
}

func (r *fakeBankRepo) GetByID(_ context.Context, id string) (*models.Bank, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	for _, b := range r.db.banks {
		if b.ID == id {
			return &b, nil
		}
	}
	return nil, domain.NewNotFound("bank", id, "bank not found")
}

func (r *fakeBankRepo) List(context.Context) ([]models.Bank, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	return slices.Clone(r.db.banks), nil
}

func (r *fakeBankRepo) ExistsByName(_ context.Context, name, excludeID string) (bool, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	for _, b := range r.db.banks {
		if b.Name == name && b.ID != excludeID {
			return true, nil
		}
	}
	return false, nil
}

func (r *fakeBankRepo) Update(_ context.Context, bank *models.Bank) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	for i := range r.db.banks {
		if r.db.banks[i].ID == bank.ID {
			r.db.banks[i] = *bank
			return nil
		}
	}
	return domain.NewNotFound("bank", bank.ID, "bank not found")
}

func (r *fakeBankRepo) Delete(_ context.Context, id string) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	for i := range r.db.banks {
		if r.db.banks[i].ID == id {
			r.db.banks = slices.Delete(r.db.banks, i, i+1)
			return nil
		}
	}
	return domain.NewNotFound("bank", id, "bank not found")
}

// ---- folders ----

type fakeFolderRepo struct{ db *memDB }

func (r *fakeFolderRepo) find(id string) int {
	for i := range r.db.folders {
		if r.db.folders[i].ID == id {
			return i
		}
	}
	return -1
}

func cloneFolder(f models.Folder) *models.Folder {
	f.Documents = slices.Clone(f.Documents)
	f.SubFolders = slices.Clone(f.SubFolders)
	return &f
}

func (r *fakeFolderRepo) Create(_ context.Context, folder *models.Folder) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	if err := r.db.takeFailure(); err != nil {
		return err
	}
	r.db.folders = append(r.db.folders, *cloneFolder(*folder))
	return nil
}

func (r *fakeFolderRepo) GetByID(_ context.Context, id, bankID string) (*models.Folder, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	if i := r.find(id); i >= 0 && r.db.folders[i].BankID == bankID {
		return cloneFolder(r.db.folders[i]), nil
	}
	return nil, domain.NewNotFound("folder", id, "folder not found")
}

func (r *fakeFolderRepo) GetByIDOnly(_ context.Context, id string) (*models.Folder, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	if i := r.find(id); i >= 0 {
		return cloneFolder(r.db.folders[i]), nil
	}
	return nil, domain.NewNotFound("folder", id, "folder not found")
}

func (r *fakeFolderRepo) LockByID(ctx context.Context, id, bankID string) (*models.Folder, error) {
	return r.GetByID(ctx, id, bankID)
}

func (r *fakeFolderRepo) ListByBank(_ context.Context, bankID string) ([]models.Folder, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	out := []models.Folder{}
	for _, f := range r.db.folders {
		if f.BankID == bankID {
			out = append(out, *cloneFolder(f))
		}
	}
	return out, nil
}

func (r *fakeFolderRepo) ListByIDs(_ context.Context, bankID string, ids []string) ([]models.Folder, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	out := []models.Folder{}
	for _, id := range ids {
		if i := r.find(id); i >= 0 && r.db.folders[i].BankID == bankID {
			out = append(out, *cloneFolder(r.db.folders[i]))
		}
	}
	return out, nil
}

func (r *fakeFolderRepo) FindParent(_ context.Context, id, bankID string) (*models.Folder, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	for _, f := range r.db.folders {
		if f.BankID == bankID && slices.Contains(f.SubFolders, id) {
			return cloneFolder(f), nil
		}
	}
	return nil, nil
}

func (r *fakeFolderRepo) CountByBank(ctx context.Context, bankID string) (int, error) {
	folders, _ := r.ListByBank(ctx, bankID)
	return len(folders), nil
}

func (r *fakeFolderRepo) Update(_ context.Context, folder *models.Folder) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	if err := r.db.takeFailure(); err != nil {
		return err
	}
	i := r.find(folder.ID)
	if i < 0 || r.db.folders[i].BankID != folder.BankID {
		return domain.NewNotFound("folder", folder.ID, "folder not found")
	}
	stored := &r.db.folders[i]
	stored.Name = folder.Name
	stored.Color = folder.Color
	stored.ParentID = folder.ParentID
	stored.UpdatedAt = folder.UpdatedAt
	return nil
}

func (r *fakeFolderRepo) Delete(_ context.Context, id, bankID string) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	i := r.find(id)
	if i < 0 || r.db.folders[i].BankID != bankID {
		return domain.NewNotFound("folder", id, "folder not found")
	}
	r.db.folders = slices.Delete(r.db.folders, i, i+1)
	return nil
}

func (r *fakeFolderRepo) mutate(folderID string, fn func(f *models.Folder)) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	if err := r.db.takeFailure(); err != nil {
		return err
	}
	i := r.find(folderID)
	if i < 0 {
		return domain.NewNotFound("folder", folderID, "folder not found")
	}
	fn(&r.db.folders[i])
	return nil
}

func remove(list []string, id string) []string {
	return slices.DeleteFunc(list, func(s string) bool { return s == id })
}

func (r *fakeFolderRepo) AppendSubFolder(_ context.Context, parentID, childID string) error {
	return r.mutate(parentID, func(f *models.Folder) { f.SubFolders = append(f.SubFolders, childID) })
}

func (r *fakeFolderRepo) RemoveSubFolder(_ context.Context, parentID, childID string) error {
	return r.mutate(parentID, func(f *models.Folder) { f.SubFolders = remove(f.SubFolders, childID) })
}

func (r *fakeFolderRepo) AppendDocument(_ context.Context, folderID, resumeID string) error {
	return r.mutate(folderID, func(f *models.Folder) { f.Documents = append(f.Documents, resumeID) })
}

func (r *fakeFolderRepo) RemoveDocument(_ context.Context, folderID, resumeID string) error {
	return r.mutate(folderID, func(f *models.Folder) { f.Documents = remove(f.Documents, resumeID) })
}

// ---- resumes ----

type fakeResumeRepo struct{ db *memDB }

func (r *fakeResumeRepo) find(id string) int {
	for i := range r.db.resumes {
		if r.db.resumes[i].ID == id {
			return i
		}
	}
	return -1
}

func (r *fakeResumeRepo) Create(_ context.Context, resume *models.Resume) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	if err := r.db.takeFailure(); err != nil {
		return err
	}
	r.db.resumes = append(r.db.resumes, *resume)
	return nil
}

func (r *fakeResumeRepo) GetByID(_ context.Context, id, folderID string) (*models.Resume, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	if i := r.find(id); i >= 0 && r.db.resumes[i].FolderID == folderID {
		res := r.db.resumes[i]
		return &res, nil
	}
	return nil, domain.NewNotFound("resume", id, "resume not found")
}

func (r *fakeResumeRepo) GetByIDOnly(_ context.Context, id string) (*models.Resume, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	if i := r.find(id); i >= 0 {
		res := r.db.resumes[i]
		return &res, nil
	}
	return nil, domain.NewNotFound("resume", id, "resume not found")
}

func (r *fakeResumeRepo) ListByFolder(_ context.Context, folderID string) ([]models.Resume, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	out := []models.Resume{}
	for _, res := range r.db.resumes {
		if res.FolderID == folderID {
			out = append(out, res)
		}
	}
	return out, nil
}

func (r *fakeResumeRepo) ListByIDs(_ context.Context, ids []string) ([]models.Resume, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	out := []models.Resume{}
	for _, id := range ids {
		if i := r.find(id); i >= 0 {
			out = append(out, r.db.resumes[i])
		}
	}
	return out, nil
}

func (r *fakeResumeRepo) ListSummariesByIDs(ctx context.Context, ids []string) ([]models.ResumeSummary, error) {
	resumes, _ := r.ListByIDs(ctx, ids)
	out := make([]models.ResumeSummary, 0, len(resumes))
	for _, res := range resumes {
		out = append(out, res.Summary())
	}
	return out, nil
}

func (r *fakeResumeRepo) CountByBank(_ context.Context, bankID string) (int, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	n := 0
	for _, res := range r.db.resumes {
		for _, f := range r.db.folders {
			if f.ID == res.FolderID && f.BankID == bankID {
				n++
			}
		}
	}
	return n, nil
}

func (r *fakeResumeRepo) Update(_ context.Context, resume *models.Resume) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	i := r.find(resume.ID)
	if i < 0 || r.db.resumes[i].FolderID != resume.FolderID {
		return domain.NewNotFound("resume", resume.ID, "resume not found")
	}
	r.db.resumes[i].Name = resume.Name
	r.db.resumes[i].Profile = resume.Profile
	r.db.resumes[i].UpdatedAt = resume.UpdatedAt
	return nil
}

func (r *fakeResumeRepo) SetAttachment(_ context.Context, id string, attachmentID *string) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	i := r.find(id)
	if i < 0 {
		return domain.NewNotFound("resume", id, "resume not found")
	}
	r.db.resumes[i].AttachmentID = attachmentID
	return nil
}

func (r *fakeResumeRepo) Delete(_ context.Context, id, folderID string) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	i := r.find(id)
	if i < 0 || r.db.resumes[i].FolderID != folderID {
		return domain.NewNotFound("resume", id, "resume not found")
	}
	r.db.resumes = slices.Delete(r.db.resumes, i, i+1)
	return nil
}

// ---- blobs ----

type fakeBlobStore struct{ db *memDB }

func (s *fakeBlobStore) Upload(_ context.Context, data []byte, filename, contentType string) (string, error) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	id := uuid.NewString()
	s.db.blobs[id] = models.Blob{ID: id, Filename: filename, ContentType: contentType, Size: int64(len(data)), Data: data}
	return id, nil
}

func (s *fakeBlobStore) Delete(_ context.Context, id string) error {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	s.db.blobDeletes[id]++
	delete(s.db.blobs, id)
	return nil
}

func (s *fakeBlobStore) Download(_ context.Context, id string) (*models.Blob, error) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	b, ok := s.db.blobs[id]
	if !ok {
		return nil, domain.NewNotFound("attachment", id, "attachment not found")
	}
	return &b, nil
}

// ---- matcher ----

type fakeMatcher struct {
	calls      int
	query      string
	candidates []models.Resume
	result     *models.SearchResult
	err        error
}

func (m *fakeMatcher) Match(_ context.Context, query string, candidates []models.Resume) (*models.SearchResult, error) {
	m.calls++
	m.query = query
	m.candidates = candidates
	if m.err != nil {
		return nil, m.err
	}
	if m.result != nil {
		return m.result, nil
	}
	return &models.SearchResult{FailureReason: "nothing relevant"}, nil
}

// ---- companies ----

type fakeCompanyRepo struct{ db *memDB }

func (r *fakeCompanyRepo) Create(_ context.Context, company *models.Company) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	for _, c := range r.db.companies {
		if c.CNPJ == company.CNPJ {
			return domain.NewConflict("company", company.ID, "a company with CNPJ "+company.CNPJ+" already exists")
		}
	}
	r.db.companies = append(r.db.companies, *company)
	return nil
}

func (r *fakeCompanyRepo) First(context.Context) (*models.Company, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	if len(r.db.companies) == 0 {
		return nil, domain.NewNotFound("company", "", "company not found")
	}
	c := r.db.companies[0]
	return &c, nil
}

func (r *fakeCompanyRepo) GetByCNPJ(_ context.Context, cnpj string) (*models.Company, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	for _, c := range r.db.companies {
		if c.CNPJ == cnpj {
			return &c, nil
		}
	}
	return nil, domain.NewNotFound("company", cnpj, "company not found")
}

func (r *fakeCompanyRepo) Update(_ context.Context, company *models.Company) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	for i := range r.db.companies {
		if r.db.companies[i].ID == company.ID {
			r.db.companies[i] = *company
			return nil
		}
	}
	return domain.NewNotFound("company", company.ID, "company not found")
}
