package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/subosito/gotenv"
	"go.uber.org/zap"

	"github.com/expenseflow/expenseflow/internal/application/routing"
	"github.com/expenseflow/expenseflow/internal/application/service"
	"github.com/expenseflow/expenseflow/internal/config"
	"github.com/expenseflow/expenseflow/internal/currency"
	"github.com/expenseflow/expenseflow/internal/domain/rules"
	"github.com/expenseflow/expenseflow/internal/infrastructure/auth"
	"github.com/expenseflow/expenseflow/internal/infrastructure/external/exchangerate"
	"github.com/expenseflow/expenseflow/internal/infrastructure/external/restcountries"
	"github.com/expenseflow/expenseflow/internal/infrastructure/persistence/repository"
	"github.com/expenseflow/expenseflow/internal/infrastructure/persistence/sqlite"
	httpserver "github.com/expenseflow/expenseflow/internal/interfaces/http"
	"github.com/expenseflow/expenseflow/internal/report"
	"github.com/expenseflow/expenseflow/migrations"
	"github.com/expenseflow/expenseflow/pkg/database"
	"github.com/expenseflow/expenseflow/pkg/utils"
)

func main() {
	// Local .env overrides are optional
	_ = gotenv.Load()

	cfg, err := config.Load("configs/config.yaml")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	logger, err := utils.NewLogger(utils.LoggerConfig{
		Level:      cfg.Logger.Level,
		OutputPath: cfg.Logger.OutputPath,
		Format:     cfg.Logger.Format,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	logger.Info("Starting ExpenseFlow",
		zap.String("version", "1.0.0"),
		zap.Int("port", cfg.Server.Port))

	db, err := database.New(database.Config{
		Path:            cfg.Database.Path,
		MaxOpenConns:    cfg.Database.MaxOpenConns,
		MaxIdleConns:    cfg.Database.MaxIdleConns,
		ConnMaxLifetime: cfg.Database.ConnMaxLifetime,
	}, logger)
	if err != nil {
		logger.Fatal("Failed to initialize database", zap.Error(err))
	}
	defer db.Close()

	migrator := database.NewMigrator(db, logger)
	if err := migrator.Run(migrations.FS, "."); err != nil {
		logger.Fatal("Failed to run database migrations", zap.Error(err))
	}

	// Persistence
	txManager := sqlite.NewDB(db.DB, logger)
	companyRepo := repository.NewCompanyRepository(db.DB, logger)
	userRepo := repository.NewUserRepository(db.DB, logger)
	expenseRepo := repository.NewExpenseRepository(db.DB, logger)
	approvalRepo := repository.NewApprovalRepository(db.DB, logger)
	ruleRepo := repository.NewRuleRepository(db.DB, logger)

	// External providers
	rateClient := exchangerate.NewClient(cfg.Providers.ExchangeRateBaseURL, cfg.Providers.Timeout, logger)
	countryClient := restcountries.NewClient(cfg.Providers.RestCountriesURL, cfg.Providers.Timeout, logger)

	// Auth infrastructure
	tokenManager := auth.NewJWTManager(cfg.Auth.JWTSecret, cfg.Auth.TokenTTL)
	hasher := auth.NewBcryptHasher()

	// Domain
	converter := currency.NewConverter(rateClient, logger)
	router := routing.NewRouter(rules.NewEvaluator(), logger)
	statementWriter := report.NewStatementWriter(logger)

	// Application services
	services := httpserver.Services{
		Company: service.NewCompanyService(companyRepo, userRepo, countryClient, hasher, tokenManager, txManager, logger),
		Auth:    service.NewAuthService(userRepo, hasher, tokenManager, logger),
		User:    service.NewUserService(userRepo, hasher, txManager, logger),
		Expense: service.NewExpenseService(expenseRepo, approvalRepo, userRepo, ruleRepo, companyRepo, converter, router, txManager, logger),
		Rule:    service.NewRuleService(ruleRepo, userRepo, txManager, logger),
		Report:  service.NewReportService(expenseRepo, companyRepo, statementWriter, logger),
	}

	server := httpserver.NewServer(httpserver.ServerConfig{
		Host:         cfg.Server.Host,
		Port:         cfg.Server.Port,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}, services, utils.NewKVLogger(logger))

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := server.Start(ctx); err != nil {
		logger.Fatal("HTTP server failed", zap.Error(err))
	}

	logger.Info("Server exited successfully")
}
