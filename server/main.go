package main

import (
	"database/sql"
	"flag"
	"fmt"
	"net/http"
	"os"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	_ "github.com/mattn/go-sqlite3"
	"github.com/subosito/gotenv"

	"github.com/sheetung/SpendFlow/server/db"
)

type Config struct {
	Port             int
	DBPath           string
	AccessConfigPath string
	CommandPrefix    string
	BackupPath       string
	BackupInterval   int
}

type Application struct {
	Config Config
	DB     *sql.DB
	Q      *db.Queries
	Logger *log.Logger
	Access *AccessConfig
	Engine *Engine
}

func main() {
	_ = gotenv.Load()

	logger := log.NewWithOptions(os.Stderr, log.Options{
		ReportTimestamp: true,
		Prefix:          "spendflow",
	})

	var cfg Config
	flag.IntVar(&cfg.Port, "port", 8080, "HTTP server port")
	flag.StringVar(&cfg.DBPath, "db", envOr("SPENDFLOW_DB", "spendflow.db"), "Path to SQLite database")
	flag.StringVar(&cfg.AccessConfigPath, "access-config", envOr("SPENDFLOW_ACCESS_CONFIG", "access.json"), "Path to access control config")
	flag.StringVar(&cfg.CommandPrefix, "prefix", "jw", "Command prefix token")
	flag.StringVar(&cfg.BackupPath, "backup-path", envOr("SPENDFLOW_BACKUP_PATH", ""), "Backup directory (empty disables backups)")
	flag.IntVar(&cfg.BackupInterval, "backup-interval", 60, "Backup interval in minutes")
	flag.Parse()

	// Initialize Database
	dbConn, err := sql.Open("sqlite3", cfg.DBPath)
	if err != nil {
		logger.Fatal("failed to open database", "error", err)
	}
	defer dbConn.Close()

	if err := dbConn.Ping(); err != nil {
		logger.Fatal("failed to ping database", "error", err)
	}

	queries := db.New(dbConn)

	app := &Application{
		Config: cfg,
		DB:     dbConn,
		Q:      queries,
		Logger: logger,
		Access: LoadAccessConfig(cfg.AccessConfigPath, logger),
		Engine: NewEngine(queries, logger),
	}

	// Apply migrations
	if err := app.ensureSchema(); err != nil {
		logger.Fatal("failed to ensure schema", "error", err)
	}

	if cfg.BackupPath != "" {
		go app.startBackupLoop()
	}

	// Setup Router
	r := chi.NewRouter()
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	app.setupRoutes(r)

	// Start Server
	logger.Info("starting server", "port", cfg.Port, "prefix", cfg.CommandPrefix)
	addr := fmt.Sprintf(":%d", cfg.Port)
	if err := http.ListenAndServe(addr, r); err != nil {
		logger.Fatal("server failed", "error", err)
	}
}

func (app *Application) ensureSchema() error {
	schema, err := os.ReadFile("server/db/schema.sql")
	if err != nil {
		return fmt.Errorf("could not read schema: %w", err)
	}
	if _, err := app.DB.Exec(string(schema)); err != nil {
		return fmt.Errorf("could not apply schema: %w", err)
	}
	return nil
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
