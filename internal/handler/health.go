package handler

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"time"
)

type pinger interface {
	Ping(ctx context.Context) error
}

type HealthHandler struct {
	ledgerPath string
	journal    pinger
}

// NewHealthHandler checks the ledger file and, when journal is not nil, the
// journal database.
func NewHealthHandler(ledgerPath string, journal pinger) *HealthHandler {
	return &HealthHandler{ledgerPath: ledgerPath, journal: journal}
}

func (h *HealthHandler) Liveness(w http.ResponseWriter, r *http.Request) {
	RespondJSON(w, http.StatusOK, map[string]string{
		"status":    "ok",
		"version":   "1.0.0",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}

func (h *HealthHandler) Readiness(w http.ResponseWriter, r *http.Request) {
	checks := map[string]string{"ledger": "ok"}
	httpStatus := http.StatusOK

	if _, err := os.Stat(h.ledgerPath); err != nil {
		slog.Warn("readiness check failed: ledger missing", "path", h.ledgerPath, "error", err)
		checks["ledger"] = "down"
		httpStatus = http.StatusServiceUnavailable
	}

	if h.journal != nil {
		checks["journal"] = "ok"
		if err := h.journal.Ping(r.Context()); err != nil {
			slog.Warn("readiness check failed: journal unreachable", "error", err)
			checks["journal"] = "down"
			httpStatus = http.StatusServiceUnavailable
		}
	}

	overallStatus := "ok"
	if httpStatus != http.StatusOK {
		overallStatus = "down"
	}

	RespondJSON(w, httpStatus, map[string]any{
		"status":    overallStatus,
		"timestamp": time.Now().UTC().Format(time.RFC3339),
		"checks":    checks,
	})
}
