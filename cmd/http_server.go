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

	"github.com/go-chi/chi"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/jmoiron/sqlx"
	"github.com/spf13/cobra"
	gormpostgres "gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/akwasiboateng/campus-market/internal"
	"github.com/akwasiboateng/campus-market/internal/core/events"
	"github.com/akwasiboateng/campus-market/internal/paystack"
	"github.com/akwasiboateng/campus-market/internal/recon"
	reconpostgres "github.com/akwasiboateng/campus-market/internal/recon/postgres"
	"github.com/akwasiboateng/campus-market/internal/transport/rest"
	"github.com/akwasiboateng/campus-market/pkg/logger"
)

var httpServerCmd = &cobra.Command{
	Use:   "server",
	Short: "Start HTTP server",
	Long:  `Start the HTTP server exposing health checks and the administrative sync endpoints`,
	Run: func(cmd *cobra.Command, args []string) {
		startHTTPServer()
	},
}

type Dependencies struct {
	Config       *internal.Config
	DB           *sqlx.DB
	Router       *chi.Mux
	ReconHandler *recon.Handler
	Logger       *slog.Logger
}

func startHTTPServer() {
	deps, err := initializeDependencies()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize dependencies: %v\n", err)
		os.Exit(1)
	}

	rest.RegisterAllRoutes(deps.Router, deps.DB.DB, deps.ReconHandler,
		deps.Config.Security.AdminTokenSecret, deps.Logger)

	addr := fmt.Sprintf(":%d", deps.Config.Server.Port)
	deps.Logger.Info("starting HTTP server", "address", addr)

	server := &http.Server{
		Addr:              addr,
		Handler:           deps.Router,
		ReadHeaderTimeout: deps.Config.Server.ReadHeaderTimeout,
		ReadTimeout:       deps.Config.Server.ReadTimeout,
		WriteTimeout:      deps.Config.Server.WriteTimeout,
		IdleTimeout:       deps.Config.Server.IdleTimeout,
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
		deps.Logger.Info("received signal, shutting down...", "signal", sig)
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		if err := server.Shutdown(ctx); err != nil {
			deps.Logger.Error("server shutdown error", "error", err)
		}
		if err := deps.DB.Close(); err != nil {
			deps.Logger.Error("database close error", "error", err)
		}
	case err := <-serverErrChan:
		if err != nil && err != http.ErrServerClosed {
			deps.Logger.Error("server failed to start", "error", err)
			os.Exit(1)
		}
	}

	deps.Logger.Info("server stopped")
}

func initializeDependencies() (*Dependencies, error) {
	config, err := loadConfig(".")
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	logger.Init(config.Observability.Logging.Format, config.Observability.Logging.Level)
	log := logger.LoggerWrapper()

	db, err := initDB(config.Database)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	orchestrator, gateway, err := buildReconciliation(config, db, log)
	if err != nil {
		return nil, err
	}

	return &Dependencies{
		Config:       config,
		Logger:       log,
		DB:           db,
		Router:       chi.NewRouter(),
		ReconHandler: recon.NewHandler(orchestrator, gateway, log),
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
	dbConn.SetConnMaxIdleTime(cfg.ConnMaxIdleTime)

	// verify connection; close underlying *sql.DB on failure
	if err := dbConn.Ping(); err != nil {
		_ = dbConn.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return dbConn, nil
}

// buildReconciliation wires the engine over the shared *sql.DB so migrations,
// health checks and gorm all ride one pool.
func buildReconciliation(config *internal.Config, db *sqlx.DB, log *slog.Logger) (*recon.Orchestrator, recon.GatewayAPI, error) {
	gormDB, err := gorm.Open(gormpostgres.New(gormpostgres.Config{Conn: db.DB}), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Warn),
	})
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open gorm over db pool: %w", err)
	}

	store := reconpostgres.NewStore(gormDB)

	gateway := paystack.NewClient(paystack.Config{
		BaseURL:        config.Paystack.BaseURL,
		SecretKey:      config.Paystack.SecretKey,
		PerPage:        config.Paystack.PerPage,
		RequestTimeout: config.Paystack.RequestTimeout,
		MaxRetries:     config.Paystack.MaxRetries,
	}, log)

	bus := events.NewEventBus(log)
	registerSyncEventLogging(bus, log)

	service := recon.NewService(gateway, store, bus, config.Recon.Currency, log)
	orchestrator := recon.NewOrchestrator(service, recon.OrchestratorConfig{
		RunTimeout:             config.Recon.RunTimeout,
		ContinueOnStageFailure: config.Recon.ContinueOnStageFailure,
	}, log)

	return orchestrator, gateway, nil
}

func registerSyncEventLogging(bus *events.EventBus, log *slog.Logger) {
	bus.Subscribe(events.EventTypeSyncCompleted, func(ctx context.Context, event events.Event) error {
		log.Info("sync stage completed", "event_id", event.EventID(), "payload", event.Payload())
		return nil
	})
}
