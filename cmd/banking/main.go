package main

import (
	"context"
	"database/sql"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"banking/internal/app/auth"
	"banking/internal/app/banking"
	"banking/internal/config"
	auth_http "banking/internal/handler/http/auth"
	banking_http "banking/internal/handler/http/banking"
	appmiddleware "banking/internal/handler/http/middleware"
	"banking/internal/infrastructure/database"
	kafka_infra "banking/internal/infrastructure/kafka"
	"banking/internal/outbox"
	accounts_pg "banking/internal/repository/accounts_repo/postgres"
	idempotency_pg "banking/internal/repository/idempotency_repo/postgres"
	outbox_pg "banking/internal/repository/outbox_repo/postgres"
	transactions_pg "banking/internal/repository/transactions_repo/postgres"
	users_pg "banking/internal/repository/users_repo/postgres"
	"banking/internal/seed"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func ensureKafkaTopics(ctx context.Context, brokerURLs []string, topics []string, logger *zap.Logger) error {
	conn, err := kafka.DialContext(ctx, "tcp", brokerURLs[0])
	if err != nil {
		return fmt.Errorf("failed to dial kafka broker for admin operations: %w", err)
	}
	defer conn.Close()

	controller, err := conn.Controller()
	if err != nil {
		return fmt.Errorf("failed to get kafka controller: %w", err)
	}
	controllerConn, err := kafka.DialContext(ctx, "tcp", fmt.Sprintf("%s:%d", controller.Host, controller.Port))
	if err != nil {
		return fmt.Errorf("failed to dial kafka controller: %w", err)
	}
	defer controllerConn.Close()

	topicConfigs := make([]kafka.TopicConfig, len(topics))
	for i, topic := range topics {
		topicConfigs[i] = kafka.TopicConfig{
			Topic:             topic,
			NumPartitions:     1,
			ReplicationFactor: 1,
		}
	}

	err = controllerConn.CreateTopics(topicConfigs...)
	if err != nil {
		if err == kafka.TopicAlreadyExists {
			logger.Info("One or more Kafka topics already exist, skipping creation.")
		} else {
			return fmt.Errorf("failed to create Kafka topics: %w", err)
		}
	} else {
		logger.Info("Kafka topics ensured successfully.", zap.Strings("topics", topics))
	}

	return nil
}

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading configuration: %v\n", err)
		os.Exit(1)
	}

	zapConfig := zap.NewProductionConfig()
	zapConfig.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	zapConfig.EncoderConfig.TimeKey = "timestamp"

	appLogger, err := zapConfig.Build()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to create zap logger: %v\n", err)
		os.Exit(1)
	}
	appLogger.Info("Banking Service starting...")

	appLogger.Info("Waiting for database to be available...")
	dbConfig := database.DBConfig{
		Host:     cfg.DBConfig.Host,
		Port:     cfg.DBConfig.Port,
		User:     cfg.DBConfig.User,
		Password: cfg.DBConfig.Password,
		DBName:   cfg.DBConfig.Name,
		SSLMode:  cfg.DBConfig.SSLMode,
	}

	var db *sql.DB
	maxRetries := 10
	retryDelay := 5 * time.Second

	for i := 0; i < maxRetries; i++ {
		db, err = database.NewPostgresDB(dbConfig)
		if err == nil {
			appLogger.Info("Successfully connected to PostgreSQL database!")
			break
		}
		appLogger.Warn(fmt.Sprintf("Failed to connect to database (attempt %d/%d): %v. Retrying in %s...", i+1, maxRetries, err, retryDelay))
		time.Sleep(retryDelay)
	}

	if db == nil {
		appLogger.Fatal("Could not connect to database after multiple retries. Exiting.", zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			appLogger.Error("Error closing database connection", zap.Error(err))
		} else {
			appLogger.Info("Database connection closed.")
		}
	}()

	appLogger.Info("Running database migrations...")
	m, err := migrate.New(
		"file://"+cfg.MigrationsPath,
		cfg.GetDBMigrationConnectionString(),
	)
	if err != nil {
		appLogger.Fatal("Failed to create migrate instance", zap.Error(err))
	}
	if err := m.Up(); err != nil && err != migrate.ErrNoChange {
		appLogger.Fatal("Failed to run database migrations", zap.Error(err))
	}
	appLogger.Info("Database migrations completed successfully (or no new migrations).")

	userRepository := users_pg.NewUserRepository()
	accountRepository := accounts_pg.NewAccountRepository()
	transactionRepository := transactions_pg.NewTransactionRepository()
	outboxRepository := outbox_pg.NewOutboxRepository(db)
	idempotencyRepository := idempotency_pg.NewIdempotencyRepository()

	if cfg.SeedDemoData {
		seedCtx, cancelSeed := context.WithTimeout(context.Background(), 30*time.Second)
		if err := seed.Run(seedCtx, db, userRepository, accountRepository, transactionRepository,
			appLogger.With(zap.String("component", "Seed"))); err != nil {
			appLogger.Fatal("Failed to seed demo data", zap.Error(err))
		}
		cancelSeed()
	}

	kafkaBrokers := cfg.GetKafkaBrokers()
	topicCtx, cancelTopic := context.WithTimeout(context.Background(), 10*time.Second)
	err = ensureKafkaTopics(topicCtx, kafkaBrokers, []string{cfg.KafkaTransferEventsTopic}, appLogger)
	cancelTopic()
	if err != nil {
		appLogger.Fatal("Failed to ensure Kafka topics", zap.Error(err))
	}

	authService := auth.NewAuthService(
		db,
		userRepository,
		accountRepository,
		[]byte(cfg.JWTSecret),
		cfg.TokenTTL,
		appLogger.With(zap.String("component", "AuthService")),
	)
	bankingService := banking.NewBankingService(
		db,
		accountRepository,
		transactionRepository,
		outboxRepository,
		idempotencyRepository,
		cfg.KafkaTransferEventsTopic,
		appLogger.With(zap.String("component", "BankingService")),
	)
	appLogger.Info("Services initialized.")

	router := chi.NewRouter()
	router.Use(middleware.Logger)
	router.Use(middleware.Recoverer)

	router.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"ok":true}`))
	})
	auth_http.RegisterRoutes(router, authService, appLogger.With(zap.String("component", "HTTPHandler")))
	router.Group(func(r chi.Router) {
		r.Use(appmiddleware.Authenticator([]byte(cfg.JWTSecret), appLogger.With(zap.String("component", "AuthMiddleware"))))
		auth_http.RegisterProtectedRoutes(r, authService, appLogger.With(zap.String("component", "HTTPHandler")))
		banking_http.RegisterRoutes(r, bankingService, appLogger.With(zap.String("component", "HTTPHandler")))
	})

	httpServer := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.HTTPPort),
		Handler: router,
	}
	appLogger.Info("HTTP server configured.")

	kafkaProducer := kafka_infra.NewProducer(
		kafkaBrokers,
		cfg.KafkaTransferEventsTopic,
		appLogger.With(zap.String("component", "KafkaProducer")),
	)
	defer func() {
		if err := kafkaProducer.Close(); err != nil {
			appLogger.Error("Error closing Kafka producer", zap.Error(err))
		}
	}()

	outboxProcessor := outbox.NewProcessor(
		outboxRepository,
		kafkaProducer,
		cfg.OutboxPollInterval,
		cfg.OutboxPollTimeout,
		appLogger.With(zap.String("component", "OutboxProcessor")),
	)
	appLogger.Info("Outbox Processor initialized.")

	ctxMain, cancelMain := context.WithCancel(context.Background())
	go func() {
		appLogger.Info("Starting HTTP server", zap.String("address", httpServer.Addr))
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			appLogger.Fatal("HTTP server failed", zap.Error(err))
		}
	}()

	go func() {
		outboxProcessor.Start(ctxMain)
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	<-sigChan
	appLogger.Info("Shutting down application...")

	cancelMain()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer shutdownCancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		appLogger.Error("HTTP server graceful shutdown failed", zap.Error(err))
	} else {
		appLogger.Info("HTTP server gracefully shut down.")
	}

	appLogger.Info("Application gracefully shut down.")
}
