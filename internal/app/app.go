// Package app wires configuration, storage, clients, and services into the
// shared core used by cmd/folio-server.
package app

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/folioai/folio/internal/clients/eodhd"
	"github.com/folioai/folio/internal/clients/gemini"
	"github.com/folioai/folio/internal/common"
	"github.com/folioai/folio/internal/interfaces"
	"github.com/folioai/folio/internal/services/advisor"
	"github.com/folioai/folio/internal/services/portfolio"
	"github.com/folioai/folio/internal/services/tax"
	"github.com/folioai/folio/internal/storage"
)

// App holds all initialized services and clients.
type App struct {
	Config           *common.Config
	Logger           *common.Logger
	Storage          interfaces.StorageManager
	QuoteClient      interfaces.QuoteClient
	GeminiClient     interfaces.GeminiClient
	PortfolioService interfaces.PortfolioService
	TaxService       interfaces.TaxService
	AdvisorService   interfaces.AdvisorService
	StartupTime      time.Time
}

// getBinaryDir returns the directory containing the executable.
func getBinaryDir() string {
	exe, err := os.Executable()
	if err != nil {
		return "."
	}
	return filepath.Dir(exe)
}

// NewApp initializes storage, clients, and services.
// configPath may be empty, in which case the default resolution logic is used.
func NewApp(configPath string) (*App, error) {
	startupStart := time.Now()

	// Load version from .version file (fallback if ldflags not set)
	common.LoadVersionFromFile()

	// Get binary directory for self-contained operation
	binDir := getBinaryDir()

	// Load configuration - check provided path, FOLIO_CONFIG, then binary dir, then fallback
	if configPath == "" {
		configPath = os.Getenv("FOLIO_CONFIG")
	}
	if configPath == "" {
		configPath = filepath.Join(binDir, "folio.toml")
		if _, err := os.Stat(configPath); os.IsNotExist(err) {
			configPath = "config/folio.toml" // fallback for development
		}
	}

	config, err := common.LoadConfig(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	// Resolve relative storage paths to the binary directory
	if config.Storage.Internal.Path != "" && !filepath.IsAbs(config.Storage.Internal.Path) {
		config.Storage.Internal.Path = filepath.Join(binDir, config.Storage.Internal.Path)
	}
	if config.Storage.Folio.Path != "" && !filepath.IsAbs(config.Storage.Folio.Path) {
		config.Storage.Folio.Path = filepath.Join(binDir, config.Storage.Folio.Path)
	}

	logger := common.NewLogger(config.Logging.Level)
	if config.Logging.File != "" {
		logPath := config.Logging.File
		if !filepath.IsAbs(logPath) {
			logPath = filepath.Join(binDir, logPath)
		}
		logFile, err := os.OpenFile(logPath, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
		if err != nil {
			logger.Warn().Err(err).Str("path", logPath).Msg("Failed to open log file, using console output")
		} else {
			logger = common.NewLoggerWithOutput(config.Logging.Level, logFile)
		}
	}

	storageManager, err := storage.NewManager(logger, config)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize storage: %w", err)
	}

	// Resolve API keys
	eodhdKey, err := common.ResolveAPIKey("eodhd_api_key", config.Clients.EODHD.APIKey)
	if err != nil {
		logger.Warn().Msg("EODHD API key not configured - price refresh will be unavailable")
	}

	geminiKey, err := common.ResolveAPIKey("gemini_api_key", config.Clients.Gemini.APIKey)
	if err != nil {
		logger.Warn().Msg("Gemini API key not configured - AI advisory will be unavailable")
	}

	// Initialize API clients
	var quoteClient interfaces.QuoteClient
	if eodhdKey != "" {
		quoteClient = eodhd.NewClient(eodhdKey,
			eodhd.WithBaseURL(config.Clients.EODHD.BaseURL),
			eodhd.WithLogger(logger),
			eodhd.WithRateLimit(config.Clients.EODHD.RateLimit),
			eodhd.WithTimeout(config.Clients.EODHD.GetTimeout()),
		)
	}

	var geminiClient interfaces.GeminiClient
	if geminiKey != "" {
		client, err := gemini.NewClient(context.Background(), geminiKey,
			gemini.WithLogger(logger),
			gemini.WithModel(config.Clients.Gemini.Model),
		)
		if err != nil {
			logger.Warn().Err(err).Msg("Failed to initialize Gemini client")
		} else {
			geminiClient = client
		}
	}

	// Initialize services
	taxService := tax.NewService(logger)
	portfolioService := portfolio.NewService(storageManager, quoteClient, logger)
	advisorService := advisor.NewService(storageManager, taxService, geminiClient, logger)

	a := &App{
		Config:           config,
		Logger:           logger,
		Storage:          storageManager,
		QuoteClient:      quoteClient,
		GeminiClient:     geminiClient,
		PortfolioService: portfolioService,
		TaxService:       taxService,
		AdvisorService:   advisorService,
		StartupTime:      startupStart,
	}

	logger.Info().Dur("startup", time.Since(startupStart)).Msg("App initialized")

	return a, nil
}

// Close releases all resources held by the App.
func (a *App) Close() {
	if a.Storage != nil {
		a.Storage.Close()
		a.Storage = nil
	}
}
