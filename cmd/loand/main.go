package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prestasur/loan-service/internal/application/usecase"
	"github.com/prestasur/loan-service/internal/infrastructure/config"
	"github.com/prestasur/loan-service/internal/infrastructure/kafka"
	pgRepo "github.com/prestasur/loan-service/internal/infrastructure/persistence/postgres"
	grpcPresentation "github.com/prestasur/loan-service/internal/presentation/grpc"
	"github.com/prestasur/loan-service/internal/presentation/rest"
	"github.com/prestasur/loan-service/pkg/auth"
	pkgkafka "github.com/prestasur/loan-service/pkg/kafka"
	"github.com/prestasur/loan-service/pkg/observability"
	pkgpostgres "github.com/prestasur/loan-service/pkg/postgres"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	// Load configuration.
	cfg := config.Load()
	cfg.Validate()

	// Initialize structured logger via shared observability package.
	logger := observability.InitLogger(observability.LogConfig{
		Level:  cfg.LogLevel,
		Format: cfg.LogFormat,
	})
	slog.SetDefault(logger)

	logger.Info("starting loan-service",
		"http_port", cfg.HTTPPort,
		"grpc_port", cfg.GRPCPort,
	)

	// Prometheus metrics exporter.
	_, metricsHandler, err := observability.InitMetrics(observability.MetricsConfig{
		ServiceName: cfg.ServiceName,
	})
	if err != nil {
		logger.Warn("failed to initialize metrics, continuing without /metrics", "error", err)
	}

	// Database connection.
	dbCtx, dbCancel := context.WithTimeout(ctx, 10*time.Second)
	defer dbCancel()

	pool, err := pkgpostgres.NewPool(dbCtx, pkgpostgres.Config{
		Host:     cfg.DB.Host,
		Port:     cfg.DB.Port,
		User:     cfg.DB.User,
		Password: cfg.DB.Password,
		Database: cfg.DB.Name,
		SSLMode:  cfg.DB.SSLMode,
	})
	if err != nil {
		logger.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer pool.Close()
	logger.Info("connected to database")

	// Run database migrations.
	if migErr := pkgpostgres.RunMigrations(cfg.DB.DSN(), cfg.MigrationsDir); migErr != nil {
		logger.Warn("migration warning", "error", migErr)
	}

	// Wire infrastructure adapters.
	customerRepo := pgRepo.NewCustomerRepo(pool)
	loanRepo := pgRepo.NewLoanRepo(pool)
	paymentRepo := pgRepo.NewPaymentRepo(pool)
	kafkaProducer := pkgkafka.NewProducer(pkgkafka.Config{
		Brokers: cfg.Kafka.Brokers,
	})
	defer kafkaProducer.Close()
	publisher := kafka.NewEventPublisher(kafkaProducer, cfg.Kafka.Topic, logger)
	locker := usecase.NewLoanLocker()

	// Wire use cases.
	handlers := grpcPresentation.Handlers{
		CreateCustomer:     usecase.NewCreateCustomerUseCase(customerRepo),
		GetCustomer:        usecase.NewGetCustomerUseCase(customerRepo),
		CreateLoan:         usecase.NewCreateLoanUseCase(loanRepo, customerRepo, publisher),
		RequestLoan:        usecase.NewRequestLoanUseCase(loanRepo, customerRepo, publisher),
		ApproveLoanRequest: usecase.NewApproveLoanRequestUseCase(loanRepo, customerRepo, publisher),
		GetLoan:            usecase.NewGetLoanUseCase(loanRepo),
		ListLoans:          usecase.NewListLoansUseCase(loanRepo),
		RecordPayment:      usecase.NewRecordPaymentUseCase(loanRepo, publisher, locker),
		SubmitPayment:      usecase.NewSubmitPaymentUseCase(loanRepo, paymentRepo),
		ApprovePayment:     usecase.NewApprovePaymentUseCase(loanRepo, paymentRepo, publisher, locker),
		RejectPayment:      usecase.NewRejectPaymentUseCase(loanRepo, paymentRepo, publisher),
		ListPayments:       usecase.NewListPaymentsUseCase(loanRepo, paymentRepo),
	}

	// JWT service (validation-only: public key preferred, secret as fallback).
	jwtCfg := auth.JWTConfig{
		Issuer: "prestasur-gateway",
	}
	if cfg.Auth.PublicKeyPath != "" {
		keyData, loadErr := auth.LoadKeyFromFile(cfg.Auth.PublicKeyPath)
		if loadErr != nil {
			logger.Error("failed to load JWT public key file", "error", loadErr)
			os.Exit(1)
		}
		jwtCfg.PublicKeyPEM = string(keyData)
	} else {
		jwtCfg.Secret = cfg.Auth.JWTSecret
	}
	jwtSvc, err := auth.NewJWTService(jwtCfg)
	if err != nil {
		logger.Error("failed to initialize JWT service", "error", err)
		os.Exit(1)
	}

	// gRPC server.
	handler := grpcPresentation.NewLoanHandler(handlers, logger)
	grpcServer := grpcPresentation.NewServer(handler, &cfg, logger, jwtSvc)

	// HTTP server (health checks and metrics).
	mux := http.NewServeMux()
	healthHandler := rest.NewHealthHandler(pool, logger)
	healthHandler.RegisterRoutes(mux)
	if metricsHandler != nil {
		mux.Handle("GET /metrics", metricsHandler)
	}

	httpServer := &http.Server{
		Addr:              cfg.HTTPAddr(),
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
	}

	// Start servers.
	errCh := make(chan error, 2)

	go func() {
		if err := grpcServer.Serve(cfg.GRPCAddr()); err != nil {
			errCh <- fmt.Errorf("gRPC server error: %w", err)
		}
	}()

	go func() {
		logger.Info("HTTP server starting", "port", cfg.HTTPPort)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- fmt.Errorf("HTTP server error: %w", err)
		}
	}()

	// Wait for shutdown signal.
	select {
	case <-ctx.Done():
		logger.Info("shutdown signal received")
	case err := <-errCh:
		logger.Error("server error", "error", err)
	}

	// Graceful shutdown.
	grpcServer.GracefulStop()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer shutdownCancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		logger.Error("HTTP server shutdown error", "error", err)
	}

	logger.Info("loan-service stopped")
}
