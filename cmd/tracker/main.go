package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/joho/godotenv"
	_ "github.com/sijms/go-ora/v2"

	"github.com/rovelin/investment-tracker/internal/application"
	"github.com/rovelin/investment-tracker/internal/domain"
	"github.com/rovelin/investment-tracker/internal/infrastructure/auth"
	"github.com/rovelin/investment-tracker/internal/infrastructure/config"
	"github.com/rovelin/investment-tracker/internal/infrastructure/marketdata"
	"github.com/rovelin/investment-tracker/internal/infrastructure/marketdata/coingecko"
	"github.com/rovelin/investment-tracker/internal/infrastructure/marketdata/yahoo"
	"github.com/rovelin/investment-tracker/internal/infrastructure/persistence/memory"
	"github.com/rovelin/investment-tracker/internal/infrastructure/persistence/sqldb"
	httpHandler "github.com/rovelin/investment-tracker/internal/interfaces/http"
)

// investmentStore is what the application needs from a storage backend: the
// user-scoped repository plus asset enumeration for the quote warmer.
type investmentStore interface {
	domain.InvestmentRepository
	domain.AssetLister
}

func setupLogger(level string) *slog.Logger {
	var logLevel slog.Level
	switch strings.ToLower(level) {
	case "debug":
		logLevel = slog.LevelDebug
	case "warn":
		logLevel = slog.LevelWarn
	case "error":
		logLevel = slog.LevelError
	default:
		logLevel = slog.LevelInfo
	}

	opts := &slog.HandlerOptions{
		AddSource: true,
		Level:     logLevel,
	}
	logger := slog.New(slog.NewTextHandler(os.Stdout, opts))
	slog.SetDefault(logger)
	return logger
}

// initializeStore opens the configured storage backend and runs migrations.
func initializeStore(cfg *config.Config) (investmentStore, error) {
	if cfg.DBDriver == config.DBDriverMemory {
		slog.Warn("Using in-memory storage, records will not survive restarts")
		return memory.NewInvestmentRepository(), nil
	}

	var db *sql.DB
	var dialect sqldb.Dialect
	var err error

	switch cfg.DBDriver {
	case config.DBDriverPostgres:
		db, err = sql.Open("pgx", cfg.DBDSN)
		dialect = &sqldb.PostgresDialect{}
	case config.DBDriverOracle:
		db, err = sql.Open("oracle", cfg.DBDSN)
		dialect = &sqldb.OracleDialect{}
	default:
		return nil, fmt.Errorf("unsupported database driver: %s", cfg.DBDriver)
	}

	if err != nil {
		return nil, fmt.Errorf("failed to connect database: %w", err)
	}

	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	wrapper := sqldb.New(db, dialect)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := wrapper.Dialect.Migrate(ctx, db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	return sqldb.NewRepository(wrapper), nil
}

// buildMarketData wires the external quote sources behind TTL caches.
func buildMarketData(cfg *config.Config) (*marketdata.PriceLookup, *marketdata.Converter) {
	cryptoClient := coingecko.NewClient(cfg.CoinGeckoAPIKey)
	yahooClient := yahoo.NewClient()

	prices := marketdata.NewPriceLookup(
		marketdata.NewCachedCryptoSource(cryptoClient, cfg.QuoteCacheTTL),
		marketdata.NewCachedEquitySource(yahooClient, cfg.QuoteCacheTTL),
	)
	converter := marketdata.NewConverter(
		marketdata.NewCachedRateSource(yahooClient, cfg.QuoteCacheTTL),
	)
	return prices, converter
}

func buildServer(cfg *config.Config, handler *httpHandler.Handler, provider auth.Provider) *http.Server {
	router := gin.Default()
	httpHandler.SetupRoutes(router, handler, provider)

	return &http.Server{
		Addr:              fmt.Sprintf("%s:%s", cfg.ServerHost, cfg.ServerPort),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}
}

// App wraps the application components for easier testing.
type App struct {
	Server        *http.Server
	QuoteWarmer   *application.QuoteWarmer
	CancelContext context.CancelFunc
}

// Shutdown gracefully shuts down the application.
func (a *App) Shutdown(ctx context.Context) error {
	slog.Info("Shutting down application...")

	a.QuoteWarmer.Stop()
	a.CancelContext()

	if err := a.Server.Shutdown(ctx); err != nil {
		return fmt.Errorf("server shutdown error: %w", err)
	}

	return nil
}

// run contains the main application logic without os.Exit calls.
func run() error {
	if err := godotenv.Load(); err != nil {
		slog.Warn("No .env file found, using environment variables")
	}

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	setupLogger(cfg.LogLevel)

	store, err := initializeStore(cfg)
	if err != nil {
		return fmt.Errorf("storage initialization failed: %w", err)
	}

	prices, converter := buildMarketData(cfg)

	investmentService := application.NewInvestmentService(store)
	valuationService := application.NewValuationService(store, prices, converter)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	warmer := application.NewQuoteWarmer(store, prices, cfg.QuoteWarmInterval)
	go warmer.Start(ctx)

	provider := auth.NewStaticTokenProvider(cfg.AuthTokens)
	handler := httpHandler.NewHandler(investmentService, valuationService, cfg.DefaultCurrency)
	server := buildServer(cfg, handler, provider)

	app := &App{
		Server:        server,
		QuoteWarmer:   warmer,
		CancelContext: cancel,
	}

	serverErrors := make(chan error, 1)
	go func() {
		slog.Info("Server starting", "host", cfg.ServerHost, "port", cfg.ServerPort)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErrors <- err
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		return fmt.Errorf("server error: %w", err)
	case <-quit:
		slog.Info("Received shutdown signal")
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()

	if err := app.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown failed: %w", err)
	}

	slog.Info("Server exited gracefully")
	return nil
}

func main() {
	if err := run(); err != nil {
		slog.Error("Application error", "error", err)
		os.Exit(1)
	}
}
