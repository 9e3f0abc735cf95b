// Command llmcli runs résumé search and extraction against the configured
// database and LLM provider from an interactive prompt.
package main

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"

	"resumebank/internal/config"
	rbSvc "resumebank/internal/domain/services/resumebank"
	"resumebank/internal/repository/postgres"
	postgresRB "resumebank/internal/repository/postgres/resumebank"
	serviceLLM "resumebank/internal/service/llm"
	serviceRB "resumebank/internal/service/resumebank"
)

// ANSI color codes
const (
	colorReset  = "\033[0m"
	colorGreen  = "\033[32m"
	colorRed    = "\033[31m"
	colorCyan   = "\033[36m"
	colorYellow = "\033[33m"
)

type CLI struct {
	ctx       context.Context
	search    rbSvc.SearchService
	extractor rbSvc.Extractor
	scanner   *bufio.Scanner
	bankID    string
	folderID  string
	logger    *slog.Logger
}

func main() {
	_ = godotenv.Load()
	cfg := config.Load()

	// Console stays quiet, the file gets everything at debug level
	logFile, err := config.SetupLogFile("logs", "llmcli", cfg.LogMaxFiles)
	if err != nil {
		fail("Failed to set up log file: %v", err)
	}
	defer logFile.Close()
	logger := config.NewLogger("dev", logFile)

	ctx := context.Background()
	pool, err := postgres.CreateConnectionPool(ctx, cfg.DatabaseURL)
	if err != nil {
		fail("Failed to connect to database: %v", err)
	}
	defer pool.Close()

	repoConfig := &postgres.RepositoryConfig{
		Pool:   pool,
		Tables: postgres.NewTableNames(cfg.TablePrefix),
		Logger: logger,
	}

	providers := serviceLLM.NewProviderFactory(cfg)
	provider, err := providers.GetProvider(cfg.LLMProvider)
	if err != nil {
		fail("Failed to set up provider: %v", err)
	}
	prompts, err := serviceLLM.NewPromptRegistry()
	if err != nil {
		fail("Failed to load prompts: %v", err)
	}
	model := providers.Model(cfg.LLMProvider)

	cli := &CLI{
		ctx: ctx,
		search: serviceRB.NewSearchService(
			postgresRB.NewFolderRepository(repoConfig),
			postgresRB.NewResumeRepository(repoConfig),
			serviceLLM.NewMatcher(provider, prompts, model, logger),
			cfg.SearchMaxTokens,
			logger,
		),
		extractor: serviceLLM.NewExtractor(provider, prompts, model, cfg.SearchMaxTokens, logger),
		scanner:   bufio.NewScanner(os.Stdin),
		logger:    logger,
	}
	cli.scanner.Buffer(make([]byte, 0, 64*1024), config.MaxRequestBodySize)

	fmt.Printf("%sprovider=%s model=%s log=%s%s\n", colorCyan, cfg.LLMProvider, model, logFile.Name(), colorReset)
	cli.run()
}

func (c *CLI) run() {
	c.help()
	for {
		fmt.Printf("%s> %s", colorGreen, colorReset)
		if !c.scanner.Scan() {
			return
		}
		cmd, arg, _ := strings.Cut(strings.TrimSpace(c.scanner.Text()), " ")
		arg = strings.TrimSpace(arg)

		switch cmd {
		case "":
		case "bank":
			c.bankID = arg
		case "folder":
			c.folderID = arg
		case "search":
			c.runSearch(arg)
		case "extract":
			c.runExtract(arg)
		case "help":
			c.help()
		case "quit", "exit":
			return
		default:
			fmt.Printf("%sunknown command %q%s\n", colorRed, cmd, colorReset)
		}
	}
}

func (c *CLI) help() {
	fmt.Println("commands:")
	fmt.Println("  bank <id>         select bank")
	fmt.Println("  folder <id>       select folder")
	fmt.Println("  search <query>    search the selected folder")
	fmt.Println("  extract <file>    extract profile fields from a text or PDF file")
	fmt.Println("  quit")
}

func (c *CLI) runSearch(q string) {
	result, err := c.search.SearchResumes(c.ctx, c.bankID, c.folderID, q)
	if err != nil {
		c.logger.Error("search failed", "error", err)
		fmt.Printf("%s%v%s\n", colorRed, err, colorReset)
		return
	}
	if result.FailureReason != "" {
		fmt.Printf("%sno match: %s%s\n", colorYellow, result.FailureReason, colorReset)
		return
	}
	for i, m := range result.Matches {
		fmt.Printf("%d. %s%s%s (%s)\n   %s\n", i+1, colorCyan, m.Name, colorReset, m.ID, m.Reason)
	}
}

func (c *CLI) runExtract(path string) {
	f, err := os.Open(path)
	if err != nil {
		fmt.Printf("%s%v%s\n", colorRed, err, colorReset)
		return
	}
	defer f.Close()
	text, err := io.ReadAll(f)
	if err != nil {
		fmt.Printf("%s%v%s\n", colorRed, err, colorReset)
		return
	}

	var req *rbSvc.ResumeRequest
	if strings.EqualFold(filepath.Ext(path), ".pdf") {
		req, err = c.extractor.ExtractPDF(c.ctx, text)
	} else {
		req, err = c.extractor.Extract(c.ctx, string(text))
	}
	if err != nil {
		c.logger.Error("extract failed", "error", err)
		fmt.Printf("%s%v%s\n", colorRed, err, colorReset)
		return
	}
	out, _ := json.MarshalIndent(req, "", "  ")
	fmt.Println(string(out))
}

func fail(format string, args ...any) {
	fmt.Fprintf(os.Stderr, colorRed+format+colorReset+"\n", args...)
	os.Exit(1)
}
