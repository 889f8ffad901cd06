package main

import (
	"database/sql"
	"os"
	"path/filepath"
	"testing"

	_ "github.com/mattn/go-sqlite3"
	"github.com/sheetung/SpendFlow/server/db"
)

func TestEnsureSchema(t *testing.T) {
	// The schema file is read relative to the project root
	projectRoot := findProjectRoot(t)
	originalWd, err := os.Getwd()
	if err != nil {
		t.Fatalf("Failed to get working directory: %v", err)
	}

	if err := os.Chdir(projectRoot); err != nil {
		t.Fatalf("Failed to change directory: %v", err)
	}
	defer os.Chdir(originalWd)

	t.Run("creates purchases table on fresh database", func(t *testing.T) {
		dbConn, err := sql.Open("sqlite3", ":memory:")
		if err != nil {
			t.Fatalf("Failed to open database: %v", err)
		}
		defer dbConn.Close()

		app := &Application{
			DB: dbConn,
			Q:  db.New(dbConn),
		}

		if err := app.ensureSchema(); err != nil {
			t.Fatalf("ensureSchema() error = %v", err)
		}

		var name string
		err = dbConn.QueryRow(
			"SELECT name FROM sqlite_master WHERE type='table' AND name='purchases'",
		).Scan(&name)
		if err != nil {
			t.Error("Table purchases should exist after ensureSchema()")
		}
	})

	t.Run("is idempotent", func(t *testing.T) {
		dbConn, err := sql.Open("sqlite3", ":memory:")
		if err != nil {
			t.Fatalf("Failed to open database: %v", err)
		}
		defer dbConn.Close()

		app := &Application{
			DB: dbConn,
			Q:  db.New(dbConn),
		}

		if err := app.ensureSchema(); err != nil {
			t.Fatalf("ensureSchema() error = %v", err)
		}
		if err := app.ensureSchema(); err != nil {
			t.Fatalf("second ensureSchema() error = %v", err)
		}
	})
}

func TestEnvOr(t *testing.T) {
	t.Run("returns env value when set", func(t *testing.T) {
		t.Setenv("SPENDFLOW_TEST_KEY", "from-env")
		if got := envOr("SPENDFLOW_TEST_KEY", "fallback"); got != "from-env" {
			t.Errorf("envOr() = %q, want %q", got, "from-env")
		}
	})

	t.Run("returns fallback when unset", func(t *testing.T) {
		if got := envOr("SPENDFLOW_UNSET_KEY", "fallback"); got != "fallback" {
			t.Errorf("envOr() = %q, want %q", got, "fallback")
		}
	})
}

// findProjectRoot finds the project root by looking for go.mod
func findProjectRoot(t *testing.T) string {
	t.Helper()

	dir, err := os.Getwd()
	if err != nil {
		t.Fatalf("Failed to get working directory: %v", err)
	}

	for {
		if _, err := os.Stat(filepath.Join(dir, "go.mod")); err == nil {
			return dir
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			t.Fatal("Could not find project root (go.mod)")
		}
		dir = parent
	}
}
