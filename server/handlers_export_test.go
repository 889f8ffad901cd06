package main

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/sheetung/SpendFlow/server/db"
)

func createAppPurchase(t *testing.T, app *Application, userID, item, platform string, price float64, date string) {
	t.Helper()

	_, err := app.Q.CreatePurchase(context.Background(), db.CreatePurchaseParams{
		UserID:       userID,
		ItemName:     item,
		Platform:     platform,
		Price:        price,
		PurchaseDate: date,
	})
	if err != nil {
		t.Fatalf("CreatePurchase() error = %v", err)
	}
}

func TestHandleStatus(t *testing.T) {
	t.Run("returns zero count for empty database", func(t *testing.T) {
		app := setupTestApp(t)

		req := httptest.NewRequest(http.MethodGet, "/api/status", nil)
		rec := httptest.NewRecorder()

		app.HandleStatus(rec, req)

		if rec.Code != http.StatusOK {
			t.Errorf("HandleStatus() status = %d, want %d", rec.Code, http.StatusOK)
		}

		var resp StatusResponse
		if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
			t.Fatalf("Failed to decode response: %v", err)
		}

		if resp.PurchaseCount != 0 {
			t.Errorf("PurchaseCount = %d, want 0", resp.PurchaseCount)
		}
		if resp.ServerTime == "" {
			t.Error("ServerTime should not be empty")
		}
	})

	t.Run("returns correct count with purchases", func(t *testing.T) {
		app := setupTestApp(t)

		createAppPurchase(t, app, "u1", "显卡", "京东", 2999, "2024-04-27")
		createAppPurchase(t, app, "u2", "键盘", "淘宝", 199, "2024-04-28")

		req := httptest.NewRequest(http.MethodGet, "/api/status", nil)
		rec := httptest.NewRecorder()

		app.HandleStatus(rec, req)

		var resp StatusResponse
		if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
			t.Fatalf("Failed to decode response: %v", err)
		}
		if resp.PurchaseCount != 2 {
			t.Errorf("PurchaseCount = %d, want 2", resp.PurchaseCount)
		}
	})
}

func TestHandleExport(t *testing.T) {
	t.Run("exports one user's records in display order", func(t *testing.T) {
		app := setupTestApp(t)

		createAppPurchase(t, app, "u1", "旧物", "京东", 100, "2024-01-01")
		createAppPurchase(t, app, "u1", "新物", "淘宝", 200, "2024-04-30")
		createAppPurchase(t, app, "u2", "别人的", "京东", 300, "2024-04-30")

		req := httptest.NewRequest(http.MethodGet, "/api/export?user=u1", nil)
		rec := httptest.NewRecorder()

		app.HandleExport(rec, req)

		if rec.Code != http.StatusOK {
			t.Fatalf("HandleExport() status = %d, want %d", rec.Code, http.StatusOK)
		}

		var resp ExportResponse
		if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
			t.Fatalf("Failed to decode response: %v", err)
		}

		if resp.User != "u1" {
			t.Errorf("User = %q, want %q", resp.User, "u1")
		}
		if len(resp.Purchases) != 2 {
			t.Fatalf("got %d purchases, want 2", len(resp.Purchases))
		}
		if resp.Purchases[0].ItemName != "新物" || resp.Purchases[1].ItemName != "旧物" {
			t.Errorf("order = [%q, %q], want [新物, 旧物]",
				resp.Purchases[0].ItemName, resp.Purchases[1].ItemName)
		}
	})

	t.Run("exports everything without a user filter", func(t *testing.T) {
		app := setupTestApp(t)

		createAppPurchase(t, app, "u1", "显卡", "京东", 2999, "2024-04-27")
		createAppPurchase(t, app, "u2", "键盘", "淘宝", 199, "2024-04-28")

		req := httptest.NewRequest(http.MethodGet, "/api/export", nil)
		rec := httptest.NewRecorder()

		app.HandleExport(rec, req)

		var resp ExportResponse
		if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
			t.Fatalf("Failed to decode response: %v", err)
		}

		if resp.User != "all" {
			t.Errorf("User = %q, want %q", resp.User, "all")
		}
		if len(resp.Purchases) != 2 {
			t.Errorf("got %d purchases, want 2", len(resp.Purchases))
		}
	})

	t.Run("exports empty list for unknown user", func(t *testing.T) {
		app := setupTestApp(t)

		req := httptest.NewRequest(http.MethodGet, "/api/export?user=nobody", nil)
		rec := httptest.NewRecorder()

		app.HandleExport(rec, req)

		var resp ExportResponse
		if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
			t.Fatalf("Failed to decode response: %v", err)
		}
		if len(resp.Purchases) != 0 {
			t.Errorf("got %d purchases, want 0", len(resp.Purchases))
		}
	})
}
