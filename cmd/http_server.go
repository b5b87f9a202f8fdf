package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/chayanin/inventory-api/internal"
	"github.com/chayanin/inventory-api/internal/auth"
	authPostgres "github.com/chayanin/inventory-api/internal/auth/postgres"
	"github.com/chayanin/inventory-api/internal/branch"
	branchPostgres "github.com/chayanin/inventory-api/internal/branch/postgres"
	"github.com/chayanin/inventory-api/internal/imagehost"
	"github.com/chayanin/inventory-api/internal/notification"
	"github.com/chayanin/inventory-api/internal/product"
	productPostgres "github.com/chayanin/inventory-api/internal/product/postgres"
	"github.com/chayanin/inventory-api/internal/transport/rest"
	"github.com/chayanin/inventory-api/pkg/logger"

	"github.com/go-chi/chi"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/jmoiron/sqlx"
	"github.com/spf13/cobra"
	gormPostgres "gorm.io/driver/postgres"
	"gorm.io/gorm"
)

var httpServerCmd = &cobra.Command{
	Use:   "server",
	Short: "Start HTTP server",
	Long:  `Start the HTTP server to handle API requests`,
	Run: func(cmd *cobra.Command, args []string) {
		startHTTPServer()
	},
}

type Dependencies struct {
	Config *internal.Config
	DB     *sqlx.DB
	Router *chi.Mux
	Logger *slog.Logger
}

func startHTTPServer() {
	deps, err := initializeDependencies()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize dependencies: %v\n", err)
		os.Exit(1)
	}

	addr := fmt.Sprintf(":%d", deps.Config.Server.Port)
	deps.Logger.Info("Starting HTTP server", "address", addr)

	server := &http.Server{
		Addr:         addr,
		Handler:      deps.Router,
		ReadTimeout:  deps.Config.Server.ReadTimeout,
		WriteTimeout: deps.Config.Server.WriteTimeout,
		IdleTimeout:  deps.Config.Server.IdleTimeout,
	}

	// Signal handling for graceful shutdown
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	serverErrChan := make(chan error, 1)
	go func() {
		serverErrChan <- server.ListenAndServe()
	}()

	select {
	case sig := <-sigChan:
		deps.Logger.Info("Received signal, shutting down...", "signal", sig)
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		if err := server.Shutdown(ctx); err != nil {
			deps.Logger.Error("Server shutdown error", "error", err)
		}
		if err := deps.DB.Close(); err != nil {
			deps.Logger.Error("Database close error", "error", err)
		}
	case err := <-serverErrChan:
		if err != nil && err != http.ErrServerClosed {
			deps.Logger.Error("Server failed to start", "error", err)
			os.Exit(1)
		}
	}

	deps.Logger.Info("Server stopped")
}

func initializeDependencies() (*Dependencies, error) {
	config, err := loadConfig(".")
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	logger.Init(config.Environment)
	lg := logger.LoggerWrapper()

	db, err := initDB(config.Database)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	gormDB, err := gorm.Open(gormPostgres.New(gormPostgres.Config{Conn: db.DB}), &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("failed to initialize orm: %w", err)
	}

	// Repositories
	authRepo := authPostgres.NewRepository(gormDB)
	branchRepo := branchPostgres.NewBranchRepository(gormDB)
	productRepo := productPostgres.NewProductRepository(gormDB)

	// Auth
	tokenGen := auth.NewJWTTokenGenerator(config.Security.JWTSecret, config.Security.AccessTokenDuration)
	authService := auth.NewService(authRepo, tokenGen, config.Security.BCryptCost, lg)
	authHandler := auth.NewHandler(authService)
	authorizer := auth.NewAuthorizer(authRepo, lg)

	// Branches
	branchService := branch.NewService(branchRepo, lg)
	branchHandler := branch.NewHandler(branchService)

	// Products with stock alerts
	fcmSender := notification.NewFCMSender(config.Notification, lg)
	dispatcher := notification.NewDispatcher(fcmSender, lg)
	productService := product.NewService(productRepo, authorizer, dispatcher, lg)
	productHandler := product.NewHandler(productService)

	// Image uploads
	uploader, err := imagehost.NewUploader(config.ImageHost, lg)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize image uploader: %w", err)
	}
	uploadHandler := imagehost.NewHandler(uploader)

	router := chi.NewRouter()
	rest.RegisterAllRoutes(router, db.DB, authHandler, authorizer, branchHandler, productHandler, uploadHandler, lg)

	return &Dependencies{
		Config: config,
		DB:     db,
		Router: router,
		Logger: lg,
	}, nil
}

// initDB initializes the database connection
func initDB(cfg internal.DatabaseConfig) (*sqlx.DB, error) {
	const driver = "pgx"

	dbConn, err := sqlx.Connect(driver, cfg.Source)
	if err != nil {
		return nil, fmt.Errorf("failed to open db connection: %w", err)
	}

	dbConn.SetMaxIdleConns(cfg.MaxIdleConns)
	dbConn.SetMaxOpenConns(cfg.MaxOpenConns)
	dbConn.SetConnMaxLifetime(cfg.ConnMaxLifetime)

	if err := dbConn.Ping(); err != nil {
		_ = dbConn.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return dbConn, nil
}
