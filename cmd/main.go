package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/jmoiron/sqlx"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"github.com/segmentio/kafka-go"

	"github.com/tembopay/gw-momo-wallet/internal/facades"
	"github.com/tembopay/gw-momo-wallet/internal/handlers"
	"github.com/tembopay/gw-momo-wallet/internal/jwt"
	"github.com/tembopay/gw-momo-wallet/internal/logger"
	"github.com/tembopay/gw-momo-wallet/internal/middlewares"
	"github.com/tembopay/gw-momo-wallet/internal/repositories"
	"github.com/tembopay/gw-momo-wallet/internal/services"

	_ "github.com/jackc/pgx/v5/stdlib"
	httpSwagger "github.com/swaggo/http-swagger"
)

// Build info variables, set via ldflags at build time.
var (
	buildVersion = "N/A" // Version of the service
	buildDate    = "N/A" // Build date
	buildCommit  = "N/A" // Git commit hash
)

// @title gw-momo-wallet API
// @version 1.0.0
// @description Microservice for mobile-money wallet transactions with asynchronous provider reconciliation
// @host localhost:8080
// @BasePath /
// @schemes http
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	printBuildInfo()
	configPath := parseFlags()

	appHost, appPort,
		pgHost, pgPort, pgUser, pgPassword, pgDB,
		pgMaxOpenConns, pgMaxIdleConns,
		redisHost, redisPort, redisDB, redisPassword,
		redisPoolSize, redisMinIdleConns, cacheExpSecond,
		kafkaBroker, kafkaTopic,
		providerBaseURL, providerAPIKey, providerTimeoutSecond,
		dedupWindowSecond, watchIntervalSecond, watchMaxPolls, logLevel,
		jwtSecret, jwtExp,
		err := parseConfig(configPath)
	if err != nil {
		log.Fatalf("failed to parse config: %v", err)
	}

	if err := run(context.Background(),
		appHost, appPort,
		pgHost, pgPort, pgUser, pgPassword, pgDB,
		pgMaxOpenConns, pgMaxIdleConns,
		redisHost, redisPort, redisDB, redisPassword,
		redisPoolSize, redisMinIdleConns, cacheExpSecond,
		kafkaBroker, kafkaTopic,
		providerBaseURL, providerAPIKey, providerTimeoutSecond,
		dedupWindowSecond, watchIntervalSecond, watchMaxPolls, logLevel,
		jwtSecret, jwtExp,
	); err != nil {
		log.Fatalf("application stopped with error: %v", err)
	}
}

// printBuildInfo prints the build version, commit hash, and build date.
func printBuildInfo() {
	fmt.Printf("Version: %s\nCommit: %s\nBuild: %s\n", buildVersion, buildCommit, buildDate)
}

// parseFlags parses command-line flags and returns the config file path.
func parseFlags() string {
	c := flag.String("c", "config.env", "Path to configuration file")
	flag.Parse()
	return *c
}

// parseConfig loads environment variables from a file and returns
// all application, database, Redis, Kafka, provider, logging, and JWT configuration.
func parseConfig(path string) (
	appHost, appPort string,
	pgHost string, pgPort int, pgUser, pgPassword, pgDB string,
	pgMaxOpenConns, pgMaxIdleConns int,
	redisHost string, redisPort int, redisDB int, redisPassword string,
	redisPoolSize, redisMinIdleConns, cacheExpSecond int,
	kafkaBroker, kafkaTopic string,
	providerBaseURL, providerAPIKey string, providerTimeoutSecond int,
	dedupWindowSecond, watchIntervalSecond, watchMaxPolls int, logLevel string,
	jwtSecretKey string, jwtExpSecond int,
	err error,
) {
	_ = godotenv.Load(path)

	getEnv := func(key, defaultValue string) string {
		if val, ok := os.LookupEnv(key); ok && val != "" {
			return val
		}
		return defaultValue
	}

	// Application config
	appHost = getEnv("APP_HOST", "localhost")
	appPort = getEnv("APP_PORT", "8080")
	logLevel = getEnv("APP_LOG_LEVEL", "info")

	// PostgreSQL config
	pgHost = getEnv("POSTGRES_HOST", "localhost")
	pgUser = getEnv("POSTGRES_USER", "user")
	pgPassword = getEnv("POSTGRES_PASSWORD", "password")
	pgDB = getEnv("POSTGRES_DB", "database")
	if pgPort, err = strconv.Atoi(getEnv("POSTGRES_PORT", "5432")); err != nil {
		return
	}
	if pgMaxOpenConns, err = strconv.Atoi(getEnv("POSTGRES_MAX_OPEN_CONNS", "16")); err != nil {
		return
	}
	if pgMaxIdleConns, err = strconv.Atoi(getEnv("POSTGRES_MAX_IDLE_CONNS", "8")); err != nil {
		return
	}

	// Redis config
	redisHost = getEnv("REDIS_HOST", "localhost")
	if redisPort, err = strconv.Atoi(getEnv("REDIS_PORT", "6379")); err != nil {
		return
	}
	if redisDB, err = strconv.Atoi(getEnv("REDIS_DB", "0")); err != nil {
		return
	}
	redisPassword = getEnv("REDIS_PASSWORD", "")
	if redisPoolSize, err = strconv.Atoi(getEnv("REDIS_POOL_SIZE", "10")); err != nil {
		return
	}
	if redisMinIdleConns, err = strconv.Atoi(getEnv("REDIS_MIN_IDLE_CONNS", "2")); err != nil {
		return
	}
	if cacheExpSecond, err = strconv.Atoi(getEnv("CACHE_EXP_SECOND", "3600")); err != nil {
		return
	}

	// Kafka config
	kafkaBroker = getEnv("KAFKA_BROKER", "localhost:9092")
	kafkaTopic = getEnv("KAFKA_TOPIC", "wallet-transactions")

	// Provider config
	providerBaseURL = getEnv("PROVIDER_BASE_URL", "http://localhost:9000")
	providerAPIKey = getEnv("PROVIDER_API_KEY", "")
	if providerTimeoutSecond, err = strconv.Atoi(getEnv("PROVIDER_TIMEOUT_SECOND", "10")); err != nil {
		return
	}

	// Dedup window for identical in-flight requests
	if dedupWindowSecond, err = strconv.Atoi(getEnv("DEDUP_WINDOW_SECOND", "30")); err != nil {
		return
	}

	// Watcher cadence and poll bound for the event stream
	if watchIntervalSecond, err = strconv.Atoi(getEnv("WATCH_INTERVAL_SECOND", "2")); err != nil {
		return
	}
	if watchMaxPolls, err = strconv.Atoi(getEnv("WATCH_MAX_POLLS", "30")); err != nil {
		return
	}

	// JWT config
	jwtSecretKey = getEnv("JWT_SECRET_KEY", "my_super_secret_key")
	if jwtExpSecond, err = strconv.Atoi(getEnv("JWT_EXP_SECOND", "3600")); err != nil {
		return
	}

	return
}

// run initializes the logger, database, Redis, Kafka, provider facade, and
// HTTP server. It sets up routes, applies middleware, and handles graceful
// shutdown.
func run(ctx context.Context,
	appHost, appPort string,
	pgHost string, pgPort int, pgUser, pgPassword, pgDB string,
	pgMaxOpenConns, pgMaxIdleConns int,
	redisHost string, redisPort, redisDB int, redisPassword string,
	redisPoolSize, redisMinIdleConns, cacheExpSecond int,
	kafkaBroker, kafkaTopic string,
	providerBaseURL, providerAPIKey string, providerTimeoutSecond int,
	dedupWindowSecond, watchIntervalSecond, watchMaxPolls int, logLevel string,
	jwtSecretKey string, jwtExpSecond int,
) error {
	// Initialize logger
	log, err := logger.Initialize(logLevel)
	if err != nil {
		fmt.Println("failed to initialize logger:", err)
		return err
	}
	defer log.Sync()
	log.Infof("Logger initialized with level %s", logLevel)

	// Connect to PostgreSQL
	dsn := fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=disable",
		pgUser, pgPassword, pgHost, pgPort, pgDB)
	log.Infof("Connecting to PostgreSQL: %s", dsn)

	db, err := sqlx.ConnectContext(ctx, "pgx", dsn)
	if err != nil {
		log.Errorw("PostgreSQL connection error", "error", err)
		return err
	}
	defer db.Close()
	db.SetMaxOpenConns(pgMaxOpenConns)
	db.SetMaxIdleConns(pgMaxIdleConns)
	if err := db.PingContext(ctx); err != nil {
		log.Errorw("PostgreSQL ping failed", "error", err)
		return err
	}

	// Connect to Redis
	rdb := redis.NewClient(&redis.Options{
		Addr:         fmt.Sprintf("%s:%d", redisHost, redisPort),
		Password:     redisPassword,
		DB:           redisDB,
		PoolSize:     redisPoolSize,
		MinIdleConns: redisMinIdleConns,
	})
	if err := rdb.Ping(ctx).Err(); err != nil {
		log.Errorw("Redis connection error", "error", err)
		return err
	}
	defer rdb.Close()

	// Kafka writer for transaction lifecycle events
	kafkaWriter := &kafka.Writer{
		Addr:     kafka.TCP(kafkaBroker),
		Topic:    kafkaTopic,
		Balancer: &kafka.LeastBytes{},
	}
	defer kafkaWriter.Close()

	// Provider facade
	providerFacade := facades.NewProviderHTTPFacade(providerBaseURL, providerAPIKey,
		time.Duration(providerTimeoutSecond)*time.Second)

	// Initialize JWT service
	jwtService := jwt.New(jwtSecretKey, time.Duration(jwtExpSecond)*time.Second)

	// Initialize repositories
	txWriteRepo := repositories.NewTransactionWriteRepository(db, middlewares.GetTxFromContext,
		time.Duration(dedupWindowSecond)*time.Second)
	txReadRepo := repositories.NewTransactionReadRepository(db)
	ledgerRepo := repositories.NewAccountLedgerRepository(db)
	viewCacheRepo := repositories.NewTransactionViewCacheRepository(rdb,
		time.Duration(cacheExpSecond)*time.Second)
	userReadRepo := repositories.NewUserReadRepository(db)
	userWriteRepo := repositories.NewUserWriteRepository(db, middlewares.GetTxFromContext)

	// Initialize services
	reconciliationService := services.NewReconciliationService(
		txWriteRepo, txReadRepo, ledgerRepo, providerFacade, viewCacheRepo, kafkaWriter)
	authService := services.NewAuthService(userReadRepo, userWriteRepo, ledgerRepo, jwtService)
	transactionWatcher := services.NewTransactionWatcher(reconciliationService, services.NewClientNotifier(),
		time.Duration(watchIntervalSecond)*time.Second, watchMaxPolls)

	// Initialize handlers
	registerHandler := handlers.NewRegisterHandler(authService)
	loginHandler := handlers.NewLoginHandler(authService)
	createTransactionHandler := handlers.NewCreateTransactionHandler(reconciliationService, jwtService)
	getTransactionHandler := handlers.NewGetTransactionHandler(reconciliationService, jwtService)
	transactionEventsHandler := handlers.NewTransactionEventsHandler(reconciliationService, transactionWatcher, jwtService)
	historyHandler := handlers.NewGetTransactionHistoryHandler(reconciliationService, jwtService)
	balanceHandler := handlers.NewGetBalanceHandler(reconciliationService, jwtService)

	// Setup router
	r := chi.NewRouter()
	r.Use(chimiddleware.Recoverer)
	r.Use(middlewares.LoggingMiddleware)

	// Public routes
	r.With(middlewares.TxMiddleware(db)).Post("/register", registerHandler)
	r.Post("/login", loginHandler)

	// Protected routes with JWT middleware
	authMiddleware := middlewares.AuthMiddleware(jwtService)
	r.Group(func(r chi.Router) {
		r.Use(authMiddleware)
		r.Get("/balance", balanceHandler)
		r.Post("/wallet/transactions", createTransactionHandler)
		r.Get("/wallet/transactions", historyHandler)
		r.Get("/wallet/transactions/{transaction_id}", getTransactionHandler)
		r.Get("/wallet/transactions/{transaction_id}/events", transactionEventsHandler)
	})

	r.Get("/swagger/*", httpSwagger.Handler(
		httpSwagger.URL(fmt.Sprintf("http://%s:%s/swagger/doc.json", appHost, appPort)),
	))

	srv := &http.Server{
		Addr:    fmt.Sprintf("%s:%s", appHost, appPort),
		Handler: r,
	}

	// Graceful shutdown
	errChan := make(chan error, 1)
	ctxShutdown, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM, syscall.SIGQUIT)
	defer stop()

	go func() {
		log.Infof("HTTP server listening on %s:%s", appHost, appPort)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errChan <- fmt.Errorf("HTTP server failed: %w", err)
		}
	}()

	select {
	case <-ctxShutdown.Done():
		log.Info("Shutdown signal received, stopping HTTP server...")
	case serveErr := <-errChan:
		return serveErr
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Errorw("HTTP server shutdown error", "error", err)
	}

	log.Info("HTTP server stopped gracefully")
	return nil
}
