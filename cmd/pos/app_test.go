package main

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/josh-kwaku/bakery-pos/internal/config"
	"github.com/josh-kwaku/bakery-pos/internal/ledger"
	"github.com/josh-kwaku/bakery-pos/internal/testutil"
)

type stubRunner struct{}

func (stubRunner) Run(ctx context.Context, name string, args ...string) ([]byte, error) {
	return []byte("             $500.00  activos\n"), nil
}

func newTestApp(t *testing.T, driver string) (*app, *config.Config) {
	t.Helper()
	dir := t.TempDir()
	cfg := &config.Config{
		Timezone:       "UTC",
		LedgerPath:     filepath.Join(dir, "panaderia.ledger"),
		CustomersPath:  filepath.Join(dir, "clientes.csv"),
		HledgerBin:     "hledger",
		HledgerTimeout: time.Second,
		JournalDriver:  driver,
		JournalDSN:     filepath.Join(dir, "pos.db"),
		RateLimitRPS:   100,
		RateLimitBurst: 100,
	}

	a, err := newApp(context.Background(), cfg, stubRunner{}, slog.Default())
	require.NoError(t, err)
	t.Cleanup(func() { a.Close() })
	return a, cfg
}

func post(t *testing.T, h http.Handler, path, body string) map[string]any {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var resp map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	return resp
}

func TestApp_PostAndUndo(t *testing.T) {
	for _, driver := range []string{config.JournalNone, config.JournalSQLite} {
		t.Run(driver, func(t *testing.T) {
			a, cfg := newTestApp(t, driver)

			resp := post(t, a.handler, "/api", `{"action":"venta_mayoreo","monto":100,"cliente":"don_pepe"}`)
			require.Equal(t, true, resp["ok"])
			assert.Equal(t, "✅ Venta mayoreo Don Pepe $100.00", resp["msg"])
			entryText := resp["asiento"].(string)
			assert.Contains(t, entryText, "activos:cuentas por cobrar:don pepe")

			body, err := json.Marshal(map[string]string{"action": "deshacer", "asiento": entryText})
			require.NoError(t, err)
			resp = post(t, a.handler, "/", string(body))
			require.Equal(t, true, resp["ok"])
			assert.Equal(t, "↩ Transacción revertida", resp["msg"])

			ledgerText := testutil.ReadFile(t, cfg.LedgerPath)
			assert.Contains(t, ledgerText, entryText)
			assert.Contains(t, ledgerText, resp["asiento"].(string))

			req := httptest.NewRequest(http.MethodGet, "/api/asientos?limit=5", nil)
			rec := httptest.NewRecorder()
			a.handler.ServeHTTP(rec, req)
			require.Equal(t, http.StatusOK, rec.Code)

			var listed struct {
				Success bool              `json:"success"`
				Data    []json.RawMessage `json:"data"`
			}
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &listed))
			assert.True(t, listed.Success)
			assert.Len(t, listed.Data, 2)
		})
	}
}

func TestApp_BusinessFailureIsOK200(t *testing.T) {
	a, cfg := newTestApp(t, config.JournalNone)

	resp := post(t, a.handler, "/api", `{"action":"venta_mostrador","monto":0}`)
	assert.Equal(t, false, resp["ok"])
	assert.Equal(t, "❌ Acción inválida o datos faltantes", resp["msg"])

	resp = post(t, a.handler, "/api", `{"action":"deshacer","asiento":"   "}`)
	assert.Equal(t, "❌ Sin asiento para revertir", resp["msg"])

	assert.NotContains(t, testutil.ReadFile(t, cfg.LedgerPath), "Venta")
}

func TestApp_UserTextCannotAddLedgerLines(t *testing.T) {
	a, cfg := newTestApp(t, config.JournalNone)
	before := testutil.ReadFile(t, cfg.LedgerPath)

	bodies := []string{
		`{"action":"merma","monto":5,"nota":"x\n    activos:caja  $1,000.00"}`,
		`{"action":"venta_mayoreo","monto":5,"cliente":"x\n\n2026-01-01 fake\n    activos:caja  $5.00"}`,
		`{"action":"cobro","monto":5,"cliente":"pago $5"}`,
	}
	for _, body := range bodies {
		resp := post(t, a.handler, "/api", body)
		assert.Equal(t, false, resp["ok"], body)
		assert.Equal(t, "❌ Acción inválida o datos faltantes", resp["msg"], body)
	}
	assert.Equal(t, before, testutil.ReadFile(t, cfg.LedgerPath))

	resp := post(t, a.handler, "/api", `{"action":"produccion","monto":5,"nota":"conchas\ny bolillos"}`)
	require.Equal(t, true, resp["ok"])
	entryText := resp["asiento"].(string)
	assert.Contains(t, entryText, "Producción - conchas y bolillos (")
	assert.Len(t, ledger.SplitEntries(testutil.ReadFile(t, cfg.LedgerPath)), 1)

	body, err := json.Marshal(map[string]string{"action": "deshacer", "asiento": entryText})
	require.NoError(t, err)
	resp = post(t, a.handler, "/api", string(body))
	assert.Equal(t, true, resp["ok"])
	assert.Len(t, ledger.SplitEntries(testutil.ReadFile(t, cfg.LedgerPath)), 2)
}

func TestApp_StatusUsesHledger(t *testing.T) {
	a, _ := newTestApp(t, config.JournalNone)

	resp := post(t, a.handler, "/api", `{"action":"status"}`)
	assert.Equal(t, true, resp["ok"])
	assert.Equal(t, "$500.00", resp["caja"])
	assert.Equal(t, "$500.00", resp["inventario"])
	assert.Equal(t, "$500.00", resp["cxc"])
}

func TestApp_Routes(t *testing.T) {
	a, _ := newTestApp(t, config.JournalSQLite)

	tests := []struct {
		name       string
		method     string
		path       string
		wantStatus int
		wantBody   string
	}{
		{name: "customers", method: http.MethodGet, path: "/clientes", wantStatus: http.StatusOK, wantBody: `"la_tiendita"`},
		{name: "liveness", method: http.MethodGet, path: "/health", wantStatus: http.StatusOK, wantBody: `"ok"`},
		{name: "readiness", method: http.MethodGet, path: "/health/ready", wantStatus: http.StatusOK, wantBody: `"journal":"ok"`},
		{name: "ui placeholder", method: http.MethodGet, path: "/", wantStatus: http.StatusOK, wantBody: "POS Panadería"},
		{name: "unknown page", method: http.MethodGet, path: "/nope", wantStatus: http.StatusNotFound},
		{name: "bad limit", method: http.MethodGet, path: "/api/asientos?limit=x", wantStatus: http.StatusBadRequest},
		{name: "bad json", method: http.MethodPost, path: "/api", wantStatus: http.StatusBadRequest},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			var body *strings.Reader
			if tc.method == http.MethodPost {
				body = strings.NewReader("{not json")
			} else {
				body = strings.NewReader("")
			}
			req := httptest.NewRequest(tc.method, tc.path, body)
			rec := httptest.NewRecorder()
			a.handler.ServeHTTP(rec, req)

			assert.Equal(t, tc.wantStatus, rec.Code)
			assert.NotEmpty(t, rec.Header().Get("X-Request-ID"))
			if tc.wantBody != "" {
				assert.Contains(t, rec.Body.String(), tc.wantBody)
			}
		})
	}
}
