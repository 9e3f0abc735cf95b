package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"log"
	"log/slog"
	"os"

	"github.com/joho/godotenv"

	"resumebank/internal/config"
	"resumebank/internal/domain"
	models "resumebank/internal/domain/models/resumebank"
	rbSvc "resumebank/internal/domain/services/resumebank"
	"resumebank/internal/repository/postgres"
	postgresRB "resumebank/internal/repository/postgres/resumebank"
	serviceRB "resumebank/internal/service/resumebank"
)

func main() {
	dropTables := flag.Bool("drop-tables", false, "Drop all tables before seeding (fresh start)")
	schemaOnly := flag.Bool("schema-only", false, "Only set up schema, don't seed banks")
	clearData := flag.Bool("clear-data", false, "Delete all rows (keep schema)")
	flag.Parse()

	_ = godotenv.Load()
	cfg := config.Load()

	// Destructive flags are refused in production
	if cfg.IsProduction() && (*dropTables || *clearData) {
		log.Fatalf("BLOCKED: --drop-tables and --clear-data cannot run in production")
	}

	logger := config.NewLogger(cfg.Environment, os.Stdout)
	logger.Info("seed starting", "environment", cfg.Environment, "table_prefix", cfg.TablePrefix)

	ctx := context.Background()
	pool, err := postgres.CreateConnectionPool(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer pool.Close()

	tables := postgres.NewTableNames(cfg.TablePrefix)

	if *dropTables {
		if err := postgres.DropTables(ctx, pool, tables); err != nil {
			log.Fatalf("Failed to drop tables: %v", err)
		}
		logger.Info("tables dropped")
	}

	if err := postgres.EnsureSchema(ctx, pool, tables, cfg.TablePrefix); err != nil {
		log.Fatalf("Failed to run schema: %v", err)
	}
	logger.Info("schema ready")

	if *schemaOnly {
		return
	}

	if *clearData {
		if err := postgres.ClearData(ctx, pool, tables); err != nil {
			log.Fatalf("Failed to clear data: %v", err)
		}
		logger.Info("data cleared")
		return
	}

	repoConfig := &postgres.RepositoryConfig{Pool: pool, Tables: tables, Logger: logger}
	bankRepo := postgresRB.NewBankRepository(repoConfig)
	folderRepo := postgresRB.NewFolderRepository(repoConfig)
	resumeRepo := postgresRB.NewResumeRepository(repoConfig)
	txManager := postgres.NewTransactionManager(pool, logger)

	company := sampleCompany()
	if cfg.DefaultCompany != "" {
		company = &rbSvc.CompanyRequest{}
		if err := json.Unmarshal([]byte(cfg.DefaultCompany), company); err != nil {
			log.Fatalf("DEFAULT_COMPANY is not valid JSON: %v", err)
		}
	}

	s := seeder{
		companies: serviceRB.NewCompanyService(postgresRB.NewCompanyRepository(repoConfig), logger),
		company:   company,
		banks:     serviceRB.NewBankService(bankRepo, folderRepo, resumeRepo, logger),
		folders:   serviceRB.NewFolderService(bankRepo, folderRepo, resumeRepo, txManager, logger),
		resumes:   serviceRB.NewResumeService(folderRepo, resumeRepo, postgresRB.NewBlobStore(repoConfig), txManager, logger),
		logger:    logger,
	}
	if err := s.run(ctx); err != nil {
		log.Fatalf("Seeding failed: %v", err)
	}
	logger.Info("seeding complete")
}

// seeder writes sample data through the services so every invariant holds
type seeder struct {
	companies rbSvc.CompanyService
	company   *rbSvc.CompanyRequest
	banks     rbSvc.BankService
	folders   rbSvc.FolderService
	resumes   rbSvc.ResumeService
	logger    *slog.Logger
}

func (s seeder) run(ctx context.Context) error {
	if _, created, err := s.companies.EnsureDefaultCompany(ctx, s.company); err != nil {
		return err
	} else if !created {
		s.logger.Info("company already present", "cnpj", s.company.CNPJ)
	}

	bank, err := s.banks.CreateBank(ctx, &rbSvc.BankRequest{Name: "Bank A"})
	if errors.Is(err, domain.ErrConflict) {
		s.logger.Info("sample bank already present, skipping")
		return nil
	}
	if err != nil {
		return err
	}

	engineering, err := s.folder(ctx, bank.ID, "Engineering", nil)
	if err != nil {
		return err
	}
	backend, err := s.folder(ctx, bank.ID, "Backend", &engineering.ID)
	if err != nil {
		return err
	}
	if _, err := s.folder(ctx, bank.ID, "Design", nil); err != nil {
		return err
	}

	for _, r := range sampleResumes() {
		change, err := s.resumes.CreateResume(ctx, bank.ID, backend.ID, r)
		if err != nil {
			return err
		}
		s.logger.Info("resume created", "id", change.Resume.ID, "name", change.Resume.Name)
	}
	return nil
}

func (s seeder) folder(ctx context.Context, bankID, name string, parentID *string) (*models.Folder, error) {
	change, err := s.folders.CreateFolder(ctx, bankID, &rbSvc.CreateFolderRequest{Name: name, ParentID: parentID})
	if err != nil {
		return nil, err
	}
	s.logger.Info("folder created", "id", change.Folder.ID, "name", name)
	return change.Folder, nil
}

func sampleResumes() []*rbSvc.ResumeRequest {
	age := 29
	return []*rbSvc.ResumeRequest{
		{
			Name: "Alice",
			Profile: models.ResumeProfile{
				Age:         &age,
				CurrentRole: "Backend Engineer",
				Gender:      models.GenderFemale,
				Skills:      []string{"Go", "PostgreSQL", "Redis"},
				Experiences: []models.Experience{
					{Duration: "2020-2024", Place: "Acme", Description: "Payments platform"},
				},
				Contact: &models.Contact{Email: "alice@example.com", City: "Lisbon"},
			},
			Attachment: &models.Attachment{Data: samplePDF, ContentType: "application/pdf"},
		},
	}
}

// sampleCompany is used when DEFAULT_COMPANY is not set
func sampleCompany() *rbSvc.CompanyRequest {
	return &rbSvc.CompanyRequest{
		CNPJ:      "11.222.333/0001-81",
		LegalName: "Bank A Recrutamento Ltda",
		TradeName: "Bank A",
		Email:     "contato@example.com",
		Address:   models.Address{City: "São Paulo", State: "SP"},
	}
}

// samplePDF is a minimal single-page document
var samplePDF = []byte("%PDF-1.4\n1 0 obj<</Type/Catalog/Pages 2 0 R>>endobj\n" +
	"2 0 obj<</Type/Pages/Kids[3 0 R]/Count 1>>endobj\n" +
	"3 0 obj<</Type/Page/Parent 2 0 R/MediaBox[0 0 612 792]>>endobj\n" +
	"trailer<</Root 1 0 R>>\n%%EOF\n")
