package main

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/sheetung/SpendFlow/server/db"
)

// ExportPurchase represents a purchase in the export JSON format
type ExportPurchase struct {
	ID           int64   `json:"id"`
	UserID       string  `json:"user_id"`
	ItemName     string  `json:"item_name"`
	Platform     string  `json:"platform"`
	Price        float64 `json:"price"`
	PurchaseDate string  `json:"purchase_date"`
}

// StatusResponse is the response for the status endpoint
type StatusResponse struct {
	PurchaseCount int64  `json:"purchase_count"`
	ServerTime    string `json:"server_time"`
}

// ExportResponse is the response for the export endpoint
type ExportResponse struct {
	Purchases  []ExportPurchase `json:"purchases"`
	User       string           `json:"user"`
	ExportedAt string           `json:"exported_at"`
}

// HandleStatus returns the total purchase count and the server time.
func (app *Application) HandleStatus(w http.ResponseWriter, r *http.Request) {
	count, err := app.Q.CountPurchases(r.Context())
	if err != nil {
		http.Error(w, "Failed to count purchases", http.StatusInternalServerError)
		return
	}

	resp := StatusResponse{
		PurchaseCount: count,
		ServerTime:    time.Now().UTC().Format(time.RFC3339),
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(resp)
}

func toExportPurchases(records []db.Purchase) []ExportPurchase {
	out := make([]ExportPurchase, 0, len(records))
	for _, p := range records {
		out = append(out, ExportPurchase{
			ID:           p.ID,
			UserID:       p.UserID,
			ItemName:     p.ItemName,
			Platform:     p.Platform,
			Price:        p.Price,
			PurchaseDate: p.PurchaseDate,
		})
	}
	return out
}

// HandleExport returns purchases as JSON. With ?user= it exports one owner's
// records in their display order; without it, every record in insertion order.
func (app *Application) HandleExport(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	userParam := r.URL.Query().Get("user")

	var (
		rows []ExportPurchase
		err  error
	)
	if userParam != "" {
		records, listErr := app.Q.ListPurchasesByUser(ctx, userParam)
		err = listErr
		rows = toExportPurchases(records)
	} else {
		userParam = "all"
		records, listErr := app.Q.ListAllPurchases(ctx)
		err = listErr
		rows = toExportPurchases(records)
	}
	if err != nil {
		http.Error(w, "Failed to load purchases", http.StatusInternalServerError)
		return
	}

	resp := ExportResponse{
		Purchases:  rows,
		User:       userParam,
		ExportedAt: time.Now().UTC().Format(time.RFC3339),
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(resp)
}
