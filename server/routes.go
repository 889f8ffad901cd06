package main

import (
	"github.com/go-chi/chi/v5"
)

func (app *Application) setupRoutes(r chi.Router) {
	r.Post("/api/message", app.HandleMessage)
	r.Get("/api/status", app.HandleStatus)
	r.Get("/api/export", app.HandleExport)
	r.Get("/api/backup/status", app.HandleBackupStatus)
	r.Get("/api/backup/download", app.HandleBackupDownload)
	r.Post("/api/backup/restore", app.HandleBackupRestore)
}
