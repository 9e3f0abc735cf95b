package query

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"testing"
	"time"

	"resumebank/internal/cache"
	"resumebank/internal/domain"
	models "resumebank/internal/domain/models/resumebank"
	rbSvc "resumebank/internal/domain/services/resumebank"
	"resumebank/internal/httputil"
)

// ---- stubs ----

type calls map[string]int

type stubBanks struct {
	rbSvc.BankService
	calls  calls
	getErr error
}

func (s *stubBanks) ListBanks(context.Context) ([]models.BankWithMetadata, error) {
	s.calls["ListBanks"]++
	return []models.BankWithMetadata{{Bank: models.Bank{ID: "b1", Name: "Bank A"}}}, nil
}

func (s *stubBanks) GetBank(_ context.Context, id string) (*models.Bank, error) {
	s.calls["GetBank"]++
	if s.getErr != nil {
		return nil, s.getErr
	}
	return &models.Bank{ID: id, Name: "Bank A"}, nil
}

func (s *stubBanks) CreateBank(_ context.Context, req *rbSvc.BankRequest) (*models.Bank, error) {
	if req.Name == "taken" {
		return nil, domain.NewConflict("bank", "", "a bank named \"taken\" already exists")
	}
	return &models.Bank{ID: "b1", Name: req.Name}, nil
}

type stubFolders struct {
	rbSvc.FolderService
	calls  calls
	change *rbSvc.FolderChange
}

func (s *stubFolders) GetFolder(_ context.Context, bankID, folderID string) (*models.FolderDetail, error) {
	s.calls["GetFolder:"+folderID]++
	return &models.FolderDetail{
		Folder:     &models.Folder{ID: folderID, BankID: bankID},
		SubFolders: []models.Folder{{ID: folderID + "-child", BankID: bankID}},
	}, nil
}

func (s *stubFolders) ListRootFolders(_ context.Context, bankID string) ([]models.Folder, error) {
	s.calls["ListRootFolders"]++
	return []models.Folder{{ID: "root", BankID: bankID}}, nil
}

func (s *stubFolders) MoveOrRenameFolder(context.Context, string, string, *rbSvc.UpdateFolderRequest) (*rbSvc.FolderChange, error) {
	return s.change, nil
}

func (s *stubFolders) DeleteFolder(_ context.Context, _, folderID string) (*rbSvc.FolderChange, error) {
	return nil, domain.NewConflict("folder", folderID, "cannot delete a folder that still has resumes; delete them first")
}

type stubResumes struct {
	rbSvc.ResumeService
	calls calls
}

func (s *stubResumes) CreateResume(_ context.Context, _, folderID string, req *rbSvc.ResumeRequest) (*rbSvc.ResumeChange, error) {
	return &rbSvc.ResumeChange{
		Resume:       &models.Resume{ID: "r1", FolderID: folderID, Name: req.Name},
		FolderParent: "parent",
	}, nil
}

func (s *stubResumes) DownloadAttachment(_ context.Context, resumeID string) (*models.Blob, error) {
	if resumeID == "missing" {
		return nil, domain.NewNotFound("attachment", resumeID, "resume has no attachment")
	}
	return &models.Blob{ID: "blob", Data: []byte("%PDF")}, nil
}

type stubSearch struct {
	calls calls
}

func (s *stubSearch) SearchResumes(_ context.Context, _, _, query string) (*models.SearchResult, error) {
	s.calls["Search:"+query]++
	return &models.SearchResult{Matches: []models.Match{{ID: "r1", Name: "Alice", Reason: query}}}, nil
}

type stubExtractor struct{}

func (stubExtractor) Extract(_ context.Context, text string) (*rbSvc.ResumeRequest, error) {
	if text == "" {
		return nil, domain.NewValidation("text", "resume text is required")
	}
	return &rbSvc.ResumeRequest{Name: "Alice"}, nil
}

func (stubExtractor) ExtractPDF(_ context.Context, data []byte) (*rbSvc.ResumeRequest, error) {
	if len(data) == 0 {
		return nil, domain.NewValidation("file", "resume file is required")
	}
	return &rbSvc.ResumeRequest{Name: "Alice"}, nil
}

type stubCompanies struct {
	rbSvc.CompanyService
	calls   calls
	company *models.Company
}

func (s *stubCompanies) GetCompany(context.Context) (*models.Company, error) {
	s.calls["GetCompany"]++
	if s.company == nil {
		return nil, domain.NewNotFound("company", "", "company not found")
	}
	c := *s.company
	return &c, nil
}

func (s *stubCompanies) UpdateCompany(_ context.Context, req *rbSvc.UpdateCompanyRequest) (*models.Company, error) {
	if req.Phone != nil {
		s.company.Phone = *req.Phone
	}
	c := *s.company
	return &c, nil
}

func (s *stubCompanies) EnsureDefaultCompany(_ context.Context, req *rbSvc.CompanyRequest) (*models.Company, bool, error) {
	if s.company != nil {
		return s.company, false, nil
	}
	s.company = &models.Company{ID: "c1", CNPJ: req.CNPJ, LegalName: req.LegalName, Phone: req.Phone}
	return s.company, true, nil
}

type fixture struct {
	q       *Service
	calls   calls
	banks     *stubBanks
	folders   *stubFolders
	companies *stubCompanies
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	store, err := cache.NewMemoryStore(cache.DefaultMemoryConfig())
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(store.Close)

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	c := calls{}
	banks := &stubBanks{calls: c}
	folders := &stubFolders{calls: c}
	companies := &stubCompanies{calls: c}
	q := NewService(Services{
		Banks:     banks,
		Companies: companies,
		Folders:   folders,
		Resumes:   &stubResumes{calls: c},
		Search:    &stubSearch{calls: c},
		Extractor: stubExtractor{},
	}, cache.NewLayer(store, time.Minute, logger), "secret", logger)

	return &fixture{q: q, calls: c, banks: banks, folders: folders, companies: companies}
}

// ---- tests ----

func TestRead_HitSkipsServiceUntilWrite(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	for i := 0; i < 3; i++ {
		if env := f.q.ListBanks(ctx); !env.Success {
			t.Fatalf("ListBanks envelope = %+v", env)
		}
	}
	if n := f.calls["ListBanks"]; n != 1 {
		t.Fatalf("ListBanks computed %d times, want 1", n)
	}

	if env := f.q.CreateBank(ctx, &rbSvc.BankRequest{Name: "Bank B"}); env.Status != http.StatusCreated {
		t.Fatalf("CreateBank status = %d", env.Status)
	}
	f.q.ListBanks(ctx)
	if n := f.calls["ListBanks"]; n != 2 {
		t.Errorf("ListBanks computed %d times after write, want 2", n)
	}
}

func TestRead_BusinessFailureIsCached(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	f.banks.getErr = domain.NewNotFound("bank", "b1", "bank not found")

	first := f.q.GetBank(ctx, "b1")
	second := f.q.GetBank(ctx, "b1")
	if first.Status != http.StatusNotFound || second.Status != http.StatusNotFound {
		t.Fatalf("statuses = %d, %d, want 404", first.Status, second.Status)
	}
	if second.Message != "bank not found" {
		t.Errorf("replayed message = %q", second.Message)
	}
	if n := f.calls["GetBank"]; n != 1 {
		t.Errorf("GetBank computed %d times, want 1", n)
	}

	// creating the bank drops the cached 404
	f.banks.getErr = nil
	f.q.CreateBank(ctx, &rbSvc.BankRequest{Name: "Bank A"})
	if env := f.q.GetBank(ctx, "b1"); !env.Success {
		t.Errorf("GetBank after create = %+v", env)
	}
}

func TestRead_InfrastructureFaultIsNotCached(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	f.banks.getErr = errors.New("connection refused")

	env := f.q.GetBank(ctx, "b1")
	if env.Status != http.StatusInternalServerError || env.Success {
		t.Fatalf("envelope = %+v, want 500", env)
	}
	if env.Message != "failed to get bank" {
		t.Errorf("Message = %q", env.Message)
	}
	problem, ok := env.Error.(httputil.ProblemDetail)
	if !ok || problem.Detail != "connection refused" {
		t.Errorf("Error = %#v, want raw fault detail", env.Error)
	}

	f.q.GetBank(ctx, "b1")
	if n := f.calls["GetBank"]; n != 2 {
		t.Errorf("GetBank computed %d times, want 2", n)
	}
}

func TestMove_InvalidatesBothParentsOnly(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	f.folders.change = &rbSvc.FolderChange{
		Folder:    &models.Folder{ID: "moved", BankID: "b1"},
		OldParent: "old",
		NewParent: "new",
	}

	for _, id := range []string{"old", "new", "other"} {
		f.q.GetFolder(ctx, "b1", id)
	}
	f.q.ListRootFolders(ctx, "b1")

	if env := f.q.MoveOrRenameFolder(ctx, "b1", "moved", &rbSvc.UpdateFolderRequest{}); !env.Success {
		t.Fatalf("move envelope = %+v", env)
	}

	for _, id := range []string{"old", "new", "other"} {
		f.q.GetFolder(ctx, "b1", id)
	}
	f.q.ListRootFolders(ctx, "b1")

	want := map[string]int{
		"GetFolder:old":   2,
		"GetFolder:new":   2,
		"GetFolder:other": 1,
		"ListRootFolders": 2,
	}
	for k, n := range want {
		if f.calls[k] != n {
			t.Errorf("%s computed %d times, want %d", k, f.calls[k], n)
		}
	}
}

func TestGetFolder_DependsOnChildren(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	f.folders.change = &rbSvc.FolderChange{Folder: &models.Folder{ID: "p-child"}}

	f.q.GetFolder(ctx, "b1", "p")
	// renaming a child changes the parent's detail view
	f.q.MoveOrRenameFolder(ctx, "b1", "p-child", &rbSvc.UpdateFolderRequest{})
	f.q.GetFolder(ctx, "b1", "p")

	if n := f.calls["GetFolder:p"]; n != 2 {
		t.Errorf("GetFolder computed %d times, want 2", n)
	}
}

func TestResumeWrite_InvalidatesSearchAndParents(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	f.q.SearchResumes(ctx, "b1", "f1", "go")
	f.q.SearchResumes(ctx, "b1", "f1", "go")
	f.q.GetFolder(ctx, "b1", "parent")
	if n := f.calls["Search:go"]; n != 1 {
		t.Fatalf("search computed %d times before write, want 1", n)
	}

	env := f.q.CreateResume(ctx, "b1", "f1", &rbSvc.ResumeRequest{Name: "Alice"})
	if env.Status != http.StatusCreated {
		t.Fatalf("CreateResume status = %d", env.Status)
	}

	f.q.SearchResumes(ctx, "b1", "f1", "go")
	f.q.GetFolder(ctx, "b1", "parent")
	if n := f.calls["Search:go"]; n != 2 {
		t.Errorf("search computed %d times, want 2", n)
	}
	if n := f.calls["GetFolder:parent"]; n != 2 {
		t.Errorf("parent folder computed %d times, want 2", n)
	}
}

func TestWriteFailure_ReturnsEnvelopeWithoutInvalidating(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	f.q.ListBanks(ctx)
	env := f.q.CreateBank(ctx, &rbSvc.BankRequest{Name: "taken"})
	if env.Status != http.StatusConflict || env.Success {
		t.Fatalf("envelope = %+v, want 409", env)
	}
	f.q.ListBanks(ctx)
	if n := f.calls["ListBanks"]; n != 1 {
		t.Errorf("ListBanks computed %d times, want 1", n)
	}

	env = f.q.DeleteFolder(ctx, "b1", "f1")
	if env.Status != http.StatusConflict {
		t.Errorf("DeleteFolder status = %d, want 409", env.Status)
	}
}

func TestResetCache(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	f.q.ListBanks(ctx)
	for _, id := range []string{"", "wrong"} {
		if env := f.q.ResetCache(ctx, id); env.Status != http.StatusForbidden {
			t.Errorf("ResetCache(%q) status = %d, want 403", id, env.Status)
		}
	}
	if env := f.q.ResetCache(ctx, "secret"); !env.Success {
		t.Fatalf("ResetCache = %+v", env)
	}
	f.q.ListBanks(ctx)
	if n := f.calls["ListBanks"]; n != 2 {
		t.Errorf("ListBanks computed %d times after reset, want 2", n)
	}
}

func TestStatus_StableWhileCached(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	first := f.q.Status(ctx)
	second := f.q.Status(ctx)
	if !first.Success {
		t.Fatalf("Status = %+v", first)
	}
	// the second read is decoded from the cache, so compare encoded values
	firstValue := first.Data.(map[string]int)["value"]
	secondValue, ok := second.Data.(map[string]any)["value"].(float64)
	if !ok || int(secondValue) != firstValue {
		t.Errorf("status values differ: %v vs %v", first.Data, second.Data)
	}
}

func TestExtractAndDownload(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	if env := f.q.ExtractResume(ctx, ""); env.Status != http.StatusBadRequest {
		t.Errorf("extract empty status = %d, want 400", env.Status)
	}
	if env := f.q.ExtractResume(ctx, "Alice"); !env.Success {
		t.Errorf("extract = %+v", env)
	}
	if env := f.q.ExtractResumePDF(ctx, nil); env.Status != http.StatusBadRequest {
		t.Errorf("extract empty pdf status = %d, want 400", env.Status)
	}
	if env := f.q.ExtractResumePDF(ctx, []byte("%PDF-1.4")); !env.Success {
		t.Errorf("extract pdf = %+v", env)
	}

	if blob, env := f.q.DownloadAttachment(ctx, "r1"); blob == nil || !env.Success {
		t.Errorf("download = %v, %+v", blob, env)
	}
	if blob, env := f.q.DownloadAttachment(ctx, "missing"); blob != nil || env.Status != http.StatusNotFound {
		t.Errorf("download missing = %v, %+v", blob, env)
	}
}

// isolatedStore is a backend whose breaker reports open
type isolatedStore struct {
	cache.Store
}

func (isolatedStore) Health() string { return "open" }

func TestHealth(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	env := f.q.Health(ctx)
	got := env.Data.(map[string]string)
	if !env.Success || got["status"] != "ok" || got["cache"] != cache.HealthClosed {
		t.Errorf("Health = %+v", env)
	}

	store, err := cache.NewMemoryStore(cache.DefaultMemoryConfig())
	if err != nil {
		t.Fatal(err)
	}
	defer store.Close()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	q := NewService(Services{}, cache.NewLayer(isolatedStore{store}, time.Minute, logger), "", logger)

	env = q.Health(ctx)
	got = env.Data.(map[string]string)
	if !env.Success || got["status"] != "degraded" || got["cache"] != "open" {
		t.Errorf("Health with open breaker = %+v", env)
	}
}

func TestCompany_ViewsAndInvalidation(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	// NotFound is cached until the bootstrap creates the record
	if env := f.q.GetCompany(ctx, true); env.Status != http.StatusNotFound {
		t.Fatalf("GetCompany before bootstrap = %d, want 404", env.Status)
	}
	if err := f.q.BootstrapCompany(ctx, `{"cnpj":"11222333000181","legal_name":"Acme Ltda","phone":"1"}`); err != nil {
		t.Fatalf("BootstrapCompany: %v", err)
	}

	public := f.q.GetCompany(ctx, true)
	summary, ok := public.Data.(models.CompanySummary)
	if !public.Success || !ok || summary.LegalName != "Acme Ltda" {
		t.Fatalf("public view = %+v", public)
	}
	full := f.q.GetCompany(ctx, false)
	if company, ok := full.Data.(*models.Company); !ok || company.Phone != "1" {
		t.Fatalf("full view = %+v", full)
	}

	before := f.calls["GetCompany"]
	f.q.GetCompany(ctx, false)
	if f.calls["GetCompany"] != before {
		t.Error("cached company read reached the service")
	}

	phone := "2"
	if env := f.q.UpdateCompany(ctx, &rbSvc.UpdateCompanyRequest{Phone: &phone}); !env.Success {
		t.Fatalf("UpdateCompany = %+v", env)
	}
	after := f.q.GetCompany(ctx, false)
	if f.calls["GetCompany"] != before+1 {
		t.Error("update did not invalidate the company read")
	}
	if company, ok := after.Data.(*models.Company); !ok || company.Phone != "2" {
		t.Errorf("company after update = %+v", after.Data)
	}

	if err := f.q.BootstrapCompany(ctx, "{"); !errors.Is(err, domain.ErrValidation) {
		t.Errorf("malformed default company: err = %v, want validation", err)
	}
	if err := f.q.BootstrapCompany(ctx, ""); err != nil {
		t.Errorf("empty default company: err = %v", err)
	}
}
