package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/go-chi/chi"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/jmoiron/sqlx"
	"github.com/spf13/cobra"
	gormpostgres "gorm.io/driver/postgres"
	gormsqlite "gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/osmech/workshop-management/internal"
	"github.com/osmech/workshop-management/internal/audit"
	auditstore "github.com/osmech/workshop-management/internal/audit/postgres"
	"github.com/osmech/workshop-management/internal/auth"
	authstore "github.com/osmech/workshop-management/internal/auth/postgres"
	"github.com/osmech/workshop-management/internal/company"
	companystore "github.com/osmech/workshop-management/internal/company/postgres"
	"github.com/osmech/workshop-management/internal/events"
	"github.com/osmech/workshop-management/internal/finance"
	financestore "github.com/osmech/workshop-management/internal/finance/postgres"
	"github.com/osmech/workshop-management/internal/inventory"
	inventorystore "github.com/osmech/workshop-management/internal/inventory/postgres"
	"github.com/osmech/workshop-management/internal/notification"
	notificationstore "github.com/osmech/workshop-management/internal/notification/postgres"
	"github.com/osmech/workshop-management/internal/order"
	orderstore "github.com/osmech/workshop-management/internal/order/postgres"
	"github.com/osmech/workshop-management/internal/transport/rest"
	"github.com/osmech/workshop-management/internal/user"
	userstore "github.com/osmech/workshop-management/internal/user/postgres"
	"github.com/osmech/workshop-management/pkg/logger"
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
	GormDB *gorm.DB
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
	slog.Info("Starting HTTP server", "address", addr)

	server := &http.Server{
		Addr:         addr,
		Handler:      deps.Router,
		ReadTimeout:  deps.Config.Server.ReadTimeout,
		WriteTimeout: deps.Config.Server.WriteTimeout,
		IdleTimeout:  deps.Config.Server.IdleTimeout,
	}

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
		if sqlDB, err := deps.GormDB.DB(); err == nil {
			if err := sqlDB.Close(); err != nil {
				slog.Error("Database close error", "error", err)
			}
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

	logger.Init(os.Getenv("APP_ENV"))
	appLogger := logger.L()

	gormDB, err := initDB(config.Database)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	if err := migrateSchema(gormDB); err != nil {
		return nil, fmt.Errorf("failed to migrate schema: %w", err)
	}

	// Repositories
	authRepo := authstore.NewRepository(gormDB)
	userRepo := userstore.NewUserRepository(gormDB)
	orderRepo := orderstore.NewOrderRepository(gormDB)
	inventoryRepo := inventorystore.NewInventoryRepository(gormDB)
	financeRepo := financestore.NewFinanceRepository(gormDB)
	auditRepo := auditstore.NewAuditRepository(gormDB)
	notificationRepo := notificationstore.NewNotificationRepository(gormDB)
	companyRepo := companystore.NewCompanyRepository(gormDB)

	// Services
	auditService := audit.NewService(auditRepo, appLogger)
	tokenGen := auth.NewJWTTokenGenerator(config.Security.JWTSecret, config.Security.AccessTokenDuration)
	authService := auth.NewService(authRepo, tokenGen, auditService, config.Security.BCryptCost)
	userService := user.NewService(userRepo, authService, auditService, appLogger)

	bus := events.NewEventBus(appLogger)
	notificationService := notification.NewService(notificationRepo, appLogger)
	notification.RegisterEventHandlers(bus, notificationService)

	orderService := order.NewService(orderRepo, authRepo, auditService, bus, appLogger)
	inventoryService := inventory.NewService(inventoryRepo, appLogger)
	financeService := finance.NewService(financeRepo, auditService, appLogger)
	companyService := company.NewService(companyRepo, appLogger)

	if err := seedDefaults(gormDB, authService, appLogger); err != nil {
		return nil, fmt.Errorf("failed to seed defaults: %w", err)
	}

	handlers := rest.Handlers{
		Auth:         auth.NewHandler(authService),
		User:         user.NewHandler(userService),
		Order:        order.NewHandler(orderService),
		Inventory:    inventory.NewHandler(inventoryService),
		Finance:      finance.NewHandler(financeService),
		Audit:        audit.NewHandler(auditService),
		Notification: notification.NewHandler(notificationService),
		Company:      company.NewHandler(companyService),
	}

	sqlDB, err := gormDB.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to expose sql.DB: %w", err)
	}

	dbName := "sqlite"
	if config.Database.IsPostgres() {
		dbName = "postgres"
	}

	router := chi.NewRouter()
	rest.RegisterAllRoutes(router, sqlDB, dbName, handlers, allowedOrigins(config.Server.AllowedOrigins), appLogger)

	return &Dependencies{
		Config: config,
		GormDB: gormDB,
		Router: router,
		Logger: appLogger,
	}, nil
}

func allowedOrigins(raw string) []string {
	if raw == "" || raw == "*" {
		return nil
	}
	parts := strings.Split(raw, ",")
	origins := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			origins = append(origins, trimmed)
		}
	}
	return origins
}

// initDB opens the store. A postgres:// source goes through sqlx/pgx so
// pooling settings apply; anything else is treated as a sqlite file path,
// the zero-setup default.
func initDB(cfg internal.DatabaseConfig) (*gorm.DB, error) {
	if cfg.IsPostgres() {
		sqlxDB, err := sqlx.Connect("pgx", cfg.Source)
		if err != nil {
			return nil, fmt.Errorf("failed to open db connection: %w", err)
		}

		sqlxDB.SetMaxIdleConns(cfg.MaxIdleConns)
		sqlxDB.SetMaxOpenConns(cfg.MaxOpenConns)
		sqlxDB.SetConnMaxLifetime(cfg.ConnMaxLifetime)
		sqlxDB.SetConnMaxIdleTime(cfg.ConnMaxIdleTime)

		if err := sqlxDB.Ping(); err != nil {
			_ = sqlxDB.Close()
			return nil, fmt.Errorf("failed to ping database: %w", err)
		}

		return gorm.Open(gormpostgres.New(gormpostgres.Config{Conn: sqlxDB.DB}), &gorm.Config{})
	}

	return gorm.Open(gormsqlite.Open(cfg.Source), &gorm.Config{})
}

// migrateSchema keeps the schema current on startup and makes sure the
// order number counter row exists.
func migrateSchema(db *gorm.DB) error {
	err := db.AutoMigrate(
		&user.User{},
		&order.ServiceOrder{},
		&order.ServiceItem{},
		&order.OrderCounter{},
		&inventory.Item{},
		&finance.Expense{},
		&audit.Log{},
		&notification.Notification{},
		&company.Settings{},
	)
	if err != nil {
		return err
	}

	var counter order.OrderCounter
	if err := db.First(&counter, 1).Error; err != nil {
		if err != gorm.ErrRecordNotFound {
			return err
		}
		// First order becomes OS-1001.
		return db.Create(&order.OrderCounter{ID: 1, NextNumber: 1000}).Error
	}
	return nil
}
