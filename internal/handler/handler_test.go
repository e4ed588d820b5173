package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/josh-kwaku/bakery-pos/internal/domain"
)

type mockCustomers struct {
	customers []domain.Customer
	err       error
}

func (m *mockCustomers) Customers() ([]domain.Customer, error) {
	return m.customers, m.err
}

type mockEntries struct {
	records   []domain.JournalRecord
	err       error
	lastLimit int
}

func (m *mockEntries) Recent(_ context.Context, limit int) ([]domain.JournalRecord, error) {
	m.lastLimit = limit
	return m.records, m.err
}

type mockPinger struct{ err error }

func (m mockPinger) Ping(context.Context) error { return m.err }

func TestCustomerHandler_List(t *testing.T) {
	h := NewCustomerHandler(&mockCustomers{customers: []domain.Customer{
		{Key: "don_pepe", Name: "Don Pepe", Discount: decimal.NewFromInt(10)},
		{Key: "la_tiendita", Name: "La Tiendita", Discount: decimal.RequireFromString("12.5")},
	}})

	rec := httptest.NewRecorder()
	h.List(rec, httptest.NewRequest(http.MethodGet, "/clientes", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{
		"don_pepe": {"nombre": "Don Pepe", "descuento": 10},
		"la_tiendita": {"nombre": "La Tiendita", "descuento": 12.5}
	}`, rec.Body.String())
}

func TestCustomerHandler_ListError(t *testing.T) {
	h := NewCustomerHandler(&mockCustomers{err: errors.New("permission denied")})

	rec := httptest.NewRecorder()
	h.List(rec, httptest.NewRequest(http.MethodGet, "/clientes", nil))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}

func TestEntryHandler_Recent(t *testing.T) {
	id := uuid.New()
	original := uuid.New()
	m := &mockEntries{records: []domain.JournalRecord{
		{
			ID:        id,
			Kind:      domain.JournalKindReversal,
			EntryDate: "2026-03-14",
			Amount:    decimal.RequireFromString("1500"),
			Text:      "2026-03-14 REVERSO: ...",
			Reverses:  uuid.NullUUID{UUID: original, Valid: true},
			CreatedAt: time.Date(2026, 3, 14, 9, 5, 0, 0, time.UTC),
		},
		{Text: "2026-03-13 Merma (10:00)", Amount: decimal.RequireFromString("3")},
	}}
	h := NewEntryHandler(m)

	rec := httptest.NewRecorder()
	h.Recent(rec, httptest.NewRequest(http.MethodGet, "/api/asientos?limit=500", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, maxEntriesLimit, m.lastLimit)

	var resp struct {
		Success bool             `json:"success"`
		Data    []map[string]any `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.True(t, resp.Success)
	require.Len(t, resp.Data, 2)

	assert.Equal(t, id.String(), resp.Data[0]["id"])
	assert.Equal(t, "deshacer", resp.Data[0]["tipo"])
	assert.Equal(t, "$1,500.00", resp.Data[0]["monto"])
	assert.Equal(t, original.String(), resp.Data[0]["revierte"])
	assert.Equal(t, "2026-03-14T09:05:00Z", resp.Data[0]["creado"])

	assert.NotContains(t, resp.Data[1], "id")
	assert.NotContains(t, resp.Data[1], "creado")
	assert.Equal(t, "$3.00", resp.Data[1]["monto"])
}

func TestEntryHandler_RecentLimit(t *testing.T) {
	tests := []struct {
		query     string
		wantCode  int
		wantLimit int
	}{
		{query: "", wantCode: http.StatusOK, wantLimit: defaultEntriesLimit},
		{query: "?limit=5", wantCode: http.StatusOK, wantLimit: 5},
		{query: "?limit=0", wantCode: http.StatusBadRequest},
		{query: "?limit=abc", wantCode: http.StatusBadRequest},
	}

	for _, tc := range tests {
		t.Run(tc.query, func(t *testing.T) {
			m := &mockEntries{}
			rec := httptest.NewRecorder()
			NewEntryHandler(m).Recent(rec, httptest.NewRequest(http.MethodGet, "/api/asientos"+tc.query, nil))

			assert.Equal(t, tc.wantCode, rec.Code)
			assert.Equal(t, tc.wantLimit, m.lastLimit)
		})
	}
}

func TestHealthHandler_Readiness(t *testing.T) {
	ledger := filepath.Join(t.TempDir(), "panaderia.ledger")
	require.NoError(t, os.WriteFile(ledger, []byte("; ledger\n"), 0o644))

	tests := []struct {
		name     string
		path     string
		journal  pinger
		wantCode int
	}{
		{name: "ledger only", path: ledger, wantCode: http.StatusOK},
		{name: "journal up", path: ledger, journal: mockPinger{}, wantCode: http.StatusOK},
		{name: "journal down", path: ledger, journal: mockPinger{err: errors.New("closed")}, wantCode: http.StatusServiceUnavailable},
		{name: "ledger missing", path: filepath.Join(t.TempDir(), "none"), wantCode: http.StatusServiceUnavailable},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			NewHealthHandler(tc.path, tc.journal).Readiness(rec, httptest.NewRequest(http.MethodGet, "/health/ready", nil))
			assert.Equal(t, tc.wantCode, rec.Code)
		})
	}
}

func TestRespondDomainError(t *testing.T) {
	tests := []struct {
		err  error
		want *AppError
	}{
		{domain.ErrInvalidAmount, ErrInvalidAmount},
		{domain.ErrMissingCustomer, ErrMissingCustomer},
		{domain.ErrUnknownAction, ErrUnknownAction},
		{domain.ErrNothingToReverse, ErrNothingToReverse},
		{domain.ErrMalformedEntry, ErrMalformedEntry},
		{domain.ErrLockNotObtained, ErrLedgerBusy},
		{domain.ErrLedgerUnavailable, ErrLedgerUnavailable},
		{domain.ErrNotFound, ErrResourceNotFound},
		{errors.New("boom"), ErrInternalError},
	}

	for _, tc := range tests {
		t.Run(tc.want.Code, func(t *testing.T) {
			rec := httptest.NewRecorder()
			RespondDomainError(rec, tc.err)

			assert.Equal(t, tc.want.Status, rec.Code)
			var resp APIResponse
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
			assert.False(t, resp.Success)
			assert.Equal(t, tc.want.Code, resp.Error.Code)
		})
	}
}

func TestServeStatic(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "index.html"), []byte("<h1>till</h1>"), 0o644))

	rec := httptest.NewRecorder()
	ServeStatic(dir).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "<h1>till</h1>")

	rec = httptest.NewRecorder()
	ServeStatic("").ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "POS Panadería")

	rec = httptest.NewRecorder()
	ServeStatic("").ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/app.js", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
