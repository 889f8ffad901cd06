package main

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"
)

// BackupStatusResponse is the JSON response for backup status.
type BackupStatusResponse struct {
	Enabled      bool   `json:"enabled"`
	BackupPath   string `json:"backup_path"`
	LastBackupAt string `json:"last_backup_at"`
}

// HandleBackupStatus returns the current backup configuration and last backup time.
func (app *Application) HandleBackupStatus(w http.ResponseWriter, r *http.Request) {
	lastBackup := getLastBackupTime()
	lastBackupStr := ""
	if !lastBackup.IsZero() {
		lastBackupStr = lastBackup.UTC().Format(time.RFC3339)
	}

	resp := BackupStatusResponse{
		Enabled:      app.Config.BackupPath != "",
		BackupPath:   app.Config.BackupPath,
		LastBackupAt: lastBackupStr,
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(resp)
}

// HandleBackupDownload creates a consistent SQLite backup and serves it as a download.
func (app *Application) HandleBackupDownload(w http.ResponseWriter, r *http.Request) {
	// Create temp file for the backup
	tmpFile, err := os.CreateTemp("", "spendflow-backup-*.db")
	if err != nil {
		http.Error(w, "Failed to create backup", http.StatusInternalServerError)
		return
	}
	tmpPath := tmpFile.Name()
	tmpFile.Close()
	defer os.Remove(tmpPath)

	// Perform backup to temp file
	if err := sqliteBackup(app.DB, tmpPath); err != nil {
		app.Logger.Error("backup download failed", "error", err)
		http.Error(w, "Failed to create backup", http.StatusInternalServerError)
		return
	}

	// Serve the file
	filename := fmt.Sprintf("spendflow-backup-%s.db", time.Now().Format("2006-01-02"))
	w.Header().Set("Content-Type", "application/x-sqlite3")
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, filename))
	http.ServeFile(w, r, tmpPath)
}

// HandleBackupRestore accepts a .db file upload and restores it into the live database.
func (app *Application) HandleBackupRestore(w http.ResponseWriter, r *http.Request) {
	// Limit upload size to 100MB
	r.Body = http.MaxBytesReader(w, r.Body, 100<<20)

	file, _, err := r.FormFile("backup")
	if err != nil {
		http.Error(w, "No file provided", http.StatusBadRequest)
		return
	}
	defer file.Close()

	// Save to temp file
	tmpFile, err := os.CreateTemp("", "spendflow-restore-*.db")
	if err != nil {
		http.Error(w, "Failed to process upload", http.StatusInternalServerError)
		return
	}
	tmpPath := tmpFile.Name()
	defer os.Remove(tmpPath)

	if _, err := io.Copy(tmpFile, file); err != nil {
		tmpFile.Close()
		http.Error(w, "Failed to save upload", http.StatusInternalServerError)
		return
	}
	tmpFile.Close()

	// Validate SQLite magic bytes
	f, err := os.Open(tmpPath)
	if err != nil {
		http.Error(w, "Failed to read uploaded file", http.StatusInternalServerError)
		return
	}
	magic := make([]byte, 16)
	_, err = io.ReadFull(f, magic)
	f.Close()
	if err != nil || string(magic) != "SQLite format 3\000" {
		http.Error(w, "Invalid file: not a SQLite database", http.StatusBadRequest)
		return
	}

	// Restore: copy uploaded DB into live database
	if err := sqliteRestore(app.DB, tmpPath); err != nil {
		app.Logger.Error("backup restore failed", "error", err)
		http.Error(w, "Failed to restore backup: "+err.Error(), http.StatusInternalServerError)
		return
	}

	app.Logger.Info("database restored from uploaded backup")
	w.WriteHeader(http.StatusNoContent)
}
