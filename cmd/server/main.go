package main

import (
	"context"
	"errors"
	"io"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/cors"

	"resumebank/internal/auth"
	"resumebank/internal/cache"
	"resumebank/internal/config"
	"resumebank/internal/handler"
	"resumebank/internal/middleware"
	"resumebank/internal/query"
	"resumebank/internal/repository/postgres"
	postgresRB "resumebank/internal/repository/postgres/resumebank"
	serviceLLM "resumebank/internal/service/llm"
	serviceRB "resumebank/internal/service/resumebank"
)

func main() {
	// Load .env file (silently ignore if it doesn't exist - for production)
	_ = godotenv.Load()

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	var out io.Writer = os.Stdout
	if cfg.LogDir != "" {
		logFile, err := config.SetupLogFile(cfg.LogDir, "server", cfg.LogMaxFiles)
		if err != nil {
			log.Fatalf("Failed to set up log file: %v", err)
		}
		defer logFile.Close()
		out = io.MultiWriter(os.Stdout, logFile)
	}
	logger := config.NewLogger(cfg.Environment, out)
	slog.SetDefault(logger)

	logger.Info("server starting",
		"environment", cfg.Environment,
		"port", cfg.Port,
		"table_prefix", cfg.TablePrefix,
		"cache_backend", cfg.CacheBackend,
		"llm_provider", cfg.LLMProvider,
	)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Database
	pool, err := postgres.CreateConnectionPool(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("Failed to create connection pool: %v", err)
	}
	defer pool.Close()

	tables := postgres.NewTableNames(cfg.TablePrefix)
	if err := postgres.EnsureSchema(ctx, pool, tables, cfg.TablePrefix); err != nil {
		log.Fatalf("Failed to ensure schema: %v", err)
	}
	logger.Info("database connected", "max_conns", 25, "min_conns", 5)

	repoConfig := &postgres.RepositoryConfig{
		Pool:   pool,
		Tables: tables,
		Logger: logger,
	}
	bankRepo := postgresRB.NewBankRepository(repoConfig)
	folderRepo := postgresRB.NewFolderRepository(repoConfig)
	resumeRepo := postgresRB.NewResumeRepository(repoConfig)
	companyRepo := postgresRB.NewCompanyRepository(repoConfig)
	blobStore := postgresRB.NewBlobStore(repoConfig)
	txManager := postgres.NewTransactionManager(pool, logger)

	// Metrics
	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	// Cache
	backend, closeBackend, err := newCacheBackend(ctx, cfg)
	if err != nil {
		log.Fatalf("Failed to create cache: %v", err)
	}
	defer closeBackend()
	store := cache.Instrument(
		cache.NewBreakerStore(backend, cache.DefaultBreakerConfig(), logger),
		cache.NewMetrics(registry),
	)
	layer := cache.NewLayer(store, cfg.CacheTTL, logger)

	// LLM collaborators
	providers := serviceLLM.NewProviderFactory(cfg)
	provider, err := providers.GetProvider(cfg.LLMProvider)
	if err != nil {
		log.Fatalf("Failed to set up LLM provider: %v", err)
	}
	prompts, err := serviceLLM.NewPromptRegistry()
	if err != nil {
		log.Fatalf("Failed to load prompts: %v", err)
	}
	model := providers.Model(cfg.LLMProvider)
	matcher := serviceLLM.NewMatcher(provider, prompts, model, logger)
	extractor := serviceLLM.NewExtractor(provider, prompts, model, cfg.SearchMaxTokens, logger)
	logger.Info("llm provider initialized", "provider", cfg.LLMProvider, "model", model)

	// Services
	queries := query.NewService(query.Services{
		Banks:     serviceRB.NewBankService(bankRepo, folderRepo, resumeRepo, logger),
		Companies: serviceRB.NewCompanyService(companyRepo, logger),
		Folders:   serviceRB.NewFolderService(bankRepo, folderRepo, resumeRepo, txManager, logger),
		Resumes:   serviceRB.NewResumeService(folderRepo, resumeRepo, blobStore, txManager, logger),
		Search:    serviceRB.NewSearchService(folderRepo, resumeRepo, matcher, cfg.SearchMaxTokens, logger),
		Extractor: extractor,
	}, layer, cfg.CacheResetID, logger)

	if cfg.CacheResetID == "" {
		logger.Warn("CACHE_RESET_ID not set, cache reset endpoint will refuse every request")
	}
	logger.Info("services initialized")

	if err := queries.BootstrapCompany(ctx, cfg.DefaultCompany); err != nil {
		log.Fatalf("Failed to bootstrap company: %v", err)
	}

	// Routes
	mux := http.NewServeMux()
	handler.RegisterRoutes(mux, handler.Handlers{
		Banks:     handler.NewBankHandler(queries, logger),
		Companies: handler.NewCompanyHandler(queries, logger),
		Folders:   handler.NewFolderHandler(queries, logger),
		Resumes:   handler.NewResumeHandler(queries, logger),
		System:    handler.NewSystemHandler(queries, logger),
	})
	mux.Handle("GET /metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))

	// Middleware, applied in reverse: CORS → Recovery → Logging → Auth → Routes
	var h http.Handler = mux
	if cfg.AuthDisabled {
		logger.Warn("authentication disabled, every request runs as the dev user")
		h = middleware.StaticUser("dev")(h)
	} else {
		verifier, err := auth.NewJWTVerifier(ctx, cfg.SupabaseJWKSURL, logger)
		if err != nil {
			log.Fatalf("Failed to create JWT verifier: %v", err)
		}
		h = middleware.AuthMiddleware(verifier, logger)(h)
	}
	h = middleware.RequestLogger(logger)(h)
	h = middleware.Recovery(logger)(h)

	// CORS - Must be outermost to handle OPTIONS pre-flight requests
	h = cors.New(cors.Options{
		AllowedOrigins:   strings.Split(cfg.CORSOrigins, ","),
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Origin", "Content-Type", "Accept", "Authorization"},
		ExposedHeaders:   []string{"Content-Disposition"},
		AllowCredentials: true,
	}).Handler(h)

	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      h,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 2 * time.Minute, // search waits on the LLM
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.Error("shutdown failed", "error", err)
		}
	}()

	logger.Info("server listening", "port", cfg.Port)
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Fatalf("Failed to start server: %v", err)
	}
	logger.Info("server stopped")
}

// newCacheBackend builds the configured store and its close function
func newCacheBackend(ctx context.Context, cfg *config.Config) (cache.Store, func(), error) {
	switch cfg.CacheBackend {
	case "redis":
		store, err := cache.NewRedisStore(ctx, cfg.RedisURL, cfg.RedisPrefix)
		if err != nil {
			return nil, nil, err
		}
		return store, func() { _ = store.Close() }, nil
	case "memory":
		store, err := cache.NewMemoryStore(cache.DefaultMemoryConfig())
		if err != nil {
			return nil, nil, err
		}
		return store, store.Close, nil
	default:
		return nil, nil, errors.New("unknown CACHE_BACKEND " + cfg.CacheBackend)
	}
}
