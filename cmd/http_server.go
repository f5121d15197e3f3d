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

	"github.com/frahmantamala/procurement-portal/internal"
	"github.com/frahmantamala/procurement-portal/internal/approval"
	approvalpg "github.com/frahmantamala/procurement-portal/internal/approval/postgres"
	"github.com/frahmantamala/procurement-portal/internal/auth"
	authpg "github.com/frahmantamala/procurement-portal/internal/auth/postgres"
	"github.com/frahmantamala/procurement-portal/internal/category"
	categorypg "github.com/frahmantamala/procurement-portal/internal/category/postgres"
	"github.com/frahmantamala/procurement-portal/internal/core/events"
	"github.com/frahmantamala/procurement-portal/internal/delegation"
	delegationpg "github.com/frahmantamala/procurement-portal/internal/delegation/postgres"
	"github.com/frahmantamala/procurement-portal/internal/document"
	documentpg "github.com/frahmantamala/procurement-portal/internal/document/postgres"
	"github.com/frahmantamala/procurement-portal/internal/notification"
	notificationpg "github.com/frahmantamala/procurement-portal/internal/notification/postgres"
	"github.com/frahmantamala/procurement-portal/internal/rule"
	rulepg "github.com/frahmantamala/procurement-portal/internal/rule/postgres"
	"github.com/frahmantamala/procurement-portal/internal/transport"
	"github.com/frahmantamala/procurement-portal/internal/transport/rest"
	"github.com/frahmantamala/procurement-portal/internal/user"
	userpg "github.com/frahmantamala/procurement-portal/internal/user/postgres"
	"github.com/frahmantamala/procurement-portal/pkg/logger"

	"github.com/getkin/kin-openapi/openapi3"
	"github.com/go-chi/chi"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/jmoiron/sqlx"
	"github.com/spf13/cobra"
	gormpostgres "gorm.io/driver/postgres"
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
	Config   *internal.Config
	DB       *sqlx.DB
	GormDB   *gorm.DB
	Router   *chi.Mux
	Handlers rest.Handlers
	EventBus *events.EventBus
	Logger   *slog.Logger
}

func startHTTPServer() {
	deps, err := initializeDependencies()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize dependencies: %v\n", err)
		os.Exit(1)
	}

	rest.RegisterAllRoutes(deps.Router, deps.DB.DB, deps.Handlers, deps.Logger)

	addr := fmt.Sprintf(":%d", deps.Config.Server.Port)
	slog.Info("Starting HTTP server", "address", addr)

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
		slog.Info("Received signal, shutting down...", "signal", sig)
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		if err := server.Shutdown(ctx); err != nil {
			slog.Error("Server shutdown error", "error", err)
		}
		if err := deps.DB.Close(); err != nil {
			slog.Error("Database close error", "error", err)
		}
	case err := <-serverErrChan:
		if err != nil && err != http.ErrServerClosed {
			slog.Error("Server failed to start", "error", err)
			os.Exit(1)
		}
	}

	slog.Info("Server stopped")
}

func initializeDependencies() (*Dependencies, error) {
	config, err := loadConfig(".")
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	appLogger := logger.LoggerWrapper()

	if err := validateOpenAPISpec(config.OpenAPI.SpecPath); err != nil {
		return nil, fmt.Errorf("failed to validate OpenAPI spec: %w", err)
	}

	db, err := initDB(config.Database)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	gormDB, err := gorm.Open(gormpostgres.New(gormpostgres.Config{Conn: db.DB}), &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("failed to initialize gorm: %w", err)
	}

	eventBus := events.NewEventBus(appLogger)

	// repositories
	authRepo := authpg.NewRepository(gormDB)
	categoryRepo := categorypg.NewCategoryRepository(gormDB)
	userRepo := userpg.NewUserRepository(gormDB)
	documentRepo := documentpg.NewDocumentRepository(gormDB)
	ruleRepo := rulepg.NewRuleRepository(gormDB)
	approvalRepo := approvalpg.NewApprovalRepository(gormDB)
	delegationRepo := delegationpg.NewDelegationRepository(gormDB)
	notificationRepo := notificationpg.NewNotificationRepository(gormDB)

	// services
	tokenGen := auth.NewJWTTokenGenerator(
		config.Security.AccessTokenSecret,
		config.Security.RefreshTokenSecret,
		config.Security.AccessTokenDuration,
		config.Security.RefreshTokenDuration,
	)
	authService := auth.NewService(authRepo, tokenGen, config.Security.BCryptCost)
	userService := user.NewService(userRepo)
	categoryService := category.NewService(categoryRepo, appLogger)
	ruleService := rule.NewService(ruleRepo, appLogger)
	resolver := approval.NewResolver(userService, delegationRepo, appLogger)
	approvalService := approval.NewService(approvalRepo, resolver, eventBus, appLogger)
	documentService := document.NewService(documentRepo, ruleService, approvalService, appLogger)
	delegationService := delegation.NewService(delegationRepo, appLogger)
	notificationService := notification.NewService(notificationRepo, appLogger)

	// event subscribers
	document.NewEventHandler(documentService, appLogger).RegisterEventHandlers(eventBus)
	notification.NewEventHandler(notificationService, documentService, appLogger).RegisterEventHandlers(eventBus)

	rbac := auth.NewRBACAuthorization(&auth.DefaultPermissionChecker{}, appLogger)

	handlers := rest.Handlers{
		Auth:         auth.NewHandler(authService),
		RBAC:         rbac,
		User:         user.NewHandler(userService),
		Category:     category.NewHandler(transport.NewBaseHandler(appLogger), categoryService),
		Document:     document.NewHandler(documentService),
		Approval:     approval.NewHandler(approvalService),
		Rule:         rule.NewHandler(ruleService),
		Delegation:   delegation.NewHandler(delegationService),
		Notification: notification.NewHandler(notificationService),
	}

	return &Dependencies{
		Config:   config,
		Logger:   appLogger,
		DB:       db,
		GormDB:   gormDB,
		Router:   chi.NewRouter(),
		Handlers: handlers,
		EventBus: eventBus,
	}, nil
}

// validateOpenAPISpec loads and validates the served contract so a broken
// spec fails fast at startup instead of at the swagger endpoint.
func validateOpenAPISpec(specPath string) error {
	if specPath == "" {
		return nil
	}
	loader := openapi3.NewLoader()
	doc, err := loader.LoadFromFile(specPath)
	if err != nil {
		return fmt.Errorf("load %s: %w", specPath, err)
	}
	return doc.Validate(loader.Context)
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
	dbConn.SetConnMaxIdleTime(cfg.ConnMaxIdleTime)

	// verify connection; close underlying *sql.DB on failure
	if err := dbConn.Ping(); err != nil {
		_ = dbConn.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return dbConn, nil
}
