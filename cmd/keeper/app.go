package main

import (
	"io"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"

	"github.com/iho/bookkeeper/internal/adapter/journal"
	"github.com/iho/bookkeeper/internal/adapter/repository/memory"
	"github.com/iho/bookkeeper/internal/infrastructure/config"
	"github.com/iho/bookkeeper/internal/infrastructure/logger"
	"github.com/iho/bookkeeper/internal/infrastructure/metrics"
	"github.com/iho/bookkeeper/internal/usecase"
)

// app is one in-memory ledger wired from configuration.
type app struct {
	cfg          *config.Config
	log          zerolog.Logger
	registry     *prometheus.Registry
	accounts     *usecase.AccountUseCase
	transactions *usecase.TransactionUseCase
	ledger       *usecase.LedgerUseCase
	replayer     *journal.Replayer
}

func newApp(cfg *config.Config, logOut io.Writer) (*app, error) {
	side, err := cfg.Side()
	if err != nil {
		return nil, err
	}

	log := logger.New(logger.Config{Out: logOut, Level: cfg.LogLevel, Format: cfg.LogFormat})

	// Initialize metrics
	registry := prometheus.NewRegistry()
	var recorder usecase.MetricsRecorder = metrics.Nop{}
	if cfg.MetricsEnabled {
		recorder = metrics.New(registry, cfg.MetricsNamespace)
	}

	// Initialize repositories
	accountRepo := memory.NewAccountRepository()
	transactionRepo := memory.NewTransactionRepository()
	idGen := memory.NewULIDGenerator()

	// Initialize use cases
	paging := usecase.Pagination{Default: cfg.PageSize, Max: cfg.MaxPageSize}
	accountUC := usecase.NewAccountUseCase(accountRepo, idGen, recorder, log).WithPagination(paging)
	transactionUC := usecase.NewTransactionUseCase(accountRepo, transactionRepo, idGen, recorder, log).WithPagination(paging)
	ledgerUC := usecase.NewLedgerUseCase(accountRepo, recorder, log)

	return &app{
		cfg:          cfg,
		log:          log,
		registry:     registry,
		accounts:     accountUC,
		transactions: transactionUC,
		ledger:       ledgerUC,
		replayer:     journal.NewReplayer(accountUC, transactionUC, journal.Defaults{Currency: cfg.DefaultCurrency, Side: side}, log),
	}, nil
}
