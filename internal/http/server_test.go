package http

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"kakeibo/internal/core"
	"kakeibo/internal/services"
	"kakeibo/internal/store"
)

type fixedClock struct{ now time.Time }

func (c fixedClock) Now() time.Time { return c.now }

func newTestServer(t *testing.T) *Server {
	t.Helper()
	fs, err := store.NewFileStore(filepath.Join(t.TempDir(), "snapshot.json"))
	if err != nil {
		t.Fatalf("file store: %v", err)
	}
	clock := fixedClock{now: time.Date(2025, 5, 1, 12, 0, 0, 0, core.ReferenceLocation())}
	ledger, err := services.NewLedgerService(context.Background(), fs, nil, clock)
	if err != nil {
		t.Fatalf("ledger service: %v", err)
	}
	return NewServer(":0", ledger)
}

func doJSON(t *testing.T, s *Server, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode body: %v", err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	rec := httptest.NewRecorder()
	s.Server.Handler.ServeHTTP(rec, req)
	return rec
}

func TestHealthEndpoints(t *testing.T) {
	s := newTestServer(t)
	for _, path := range []string{"/healthz", "/readyz"} {
		rec := doJSON(t, s, http.MethodGet, path, nil)
		if rec.Code != http.StatusOK {
			t.Errorf("%s status = %d", path, rec.Code)
		}
	}
}

func TestDashboardEndpoint(t *testing.T) {
	s := newTestServer(t)

	rec := doJSON(t, s, http.MethodPost, "/api/transactions", map[string]any{
		"amount":     1200,
		"occurredAt": "2025-04-28",
		"note":       "lunch",
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("create status = %d, body %s", rec.Code, rec.Body)
	}

	rec = doJSON(t, s, http.MethodGet, "/api/dashboard", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("dashboard status = %d", rec.Code)
	}

	var resp dashboardResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.PeriodStart != "2025-04-27T00:00:00+09:00" {
		t.Errorf("period start = %q", resp.PeriodStart)
	}
	if resp.IncomeLanded {
		t.Error("income should not have landed on May 1st with payday 27")
	}
	if resp.TotalSpent != 1200 || resp.TotalSpentText != "¥1,200" {
		t.Errorf("total = %d %q", resp.TotalSpent, resp.TotalSpentText)
	}
	// No income landed yet, so savings project negative.
	if resp.ProjectedSavings != -1200 {
		t.Errorf("projected savings = %d, want -1200", resp.ProjectedSavings)
	}
	if len(resp.Spending) != 1 || resp.Spending[0].BucketID != core.UncategorizedID {
		t.Errorf("spending = %+v", resp.Spending)
	}
}

func TestCreateTransactionStringAmount(t *testing.T) {
	s := newTestServer(t)

	rec := doJSON(t, s, http.MethodPost, "/api/transactions", map[string]any{
		"amount":     "¥4,500",
		"occurredAt": "2025-04-30T10:00:00+09:00",
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body)
	}

	var tx transactionResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &tx); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if tx.Amount != 4500 || tx.ID == "" {
		t.Errorf("tx = %+v", tx)
	}
}

func TestCreateTransactionRejects(t *testing.T) {
	s := newTestServer(t)

	tests := []struct {
		name string
		body map[string]any
		want int
	}{
		{"zero amount", map[string]any{"amount": 0, "occurredAt": "2025-05-01"}, http.StatusUnprocessableEntity},
		{"garbage amount", map[string]any{"amount": "12.50", "occurredAt": "2025-05-01"}, http.StatusUnprocessableEntity},
		{"bad date", map[string]any{"amount": 100, "occurredAt": "yesterday"}, http.StatusUnprocessableEntity},
		{"missing date", map[string]any{"amount": 100}, http.StatusUnprocessableEntity},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := doJSON(t, s, http.MethodPost, "/api/transactions", tt.body)
			if rec.Code != tt.want {
				t.Errorf("status = %d, want %d, body %s", rec.Code, tt.want, rec.Body)
			}
			var e map[string]string
			if err := json.Unmarshal(rec.Body.Bytes(), &e); err != nil || e["error"] == "" {
				t.Errorf("error body = %s", rec.Body)
			}
		})
	}
}

func TestDeleteTransaction(t *testing.T) {
	s := newTestServer(t)

	rec := doJSON(t, s, http.MethodPost, "/api/transactions", map[string]any{
		"amount":     500,
		"occurredAt": "2025-05-01",
	})
	var tx transactionResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &tx); err != nil {
		t.Fatalf("decode: %v", err)
	}

	rec = doJSON(t, s, http.MethodDelete, "/api/transactions/"+tx.ID, nil)
	if rec.Code != http.StatusNoContent {
		t.Errorf("delete status = %d", rec.Code)
	}

	rec = doJSON(t, s, http.MethodDelete, "/api/transactions/"+tx.ID, nil)
	if rec.Code != http.StatusNotFound {
		t.Errorf("second delete status = %d", rec.Code)
	}
}

func TestUpdateCategories(t *testing.T) {
	s := newTestServer(t)

	// Default income is 200000; this plan overshoots it.
	rec := doJSON(t, s, http.MethodPut, "/api/categories", []map[string]any{
		{"name": "Rent", "plannedAmount": 150000},
		{"name": "Food", "plannedAmount": 100000},
	})
	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("over-budget status = %d", rec.Code)
	}

	rec = doJSON(t, s, http.MethodPut, "/api/categories", []map[string]any{
		{"name": "Rent", "plannedAmount": 150000},
		{"name": "Food", "plannedAmount": 40000},
	})
	if rec.Code != http.StatusNoContent {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body)
	}

	rec = doJSON(t, s, http.MethodGet, "/api/dashboard", nil)
	var resp dashboardResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(resp.Planned) != 2 {
		t.Errorf("planned = %+v", resp.Planned)
	}
}

func TestUpdateSettings(t *testing.T) {
	s := newTestServer(t)

	rec := doJSON(t, s, http.MethodPut, "/api/settings", map[string]any{
		"incomeAmount":   250000,
		"payday":         15,
		"currentBalance": 90000,
	})
	if rec.Code != http.StatusNoContent {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body)
	}

	rec = doJSON(t, s, http.MethodPut, "/api/settings", map[string]any{"payday": 0})
	if rec.Code != http.StatusUnprocessableEntity {
		t.Errorf("invalid payday status = %d", rec.Code)
	}
}
