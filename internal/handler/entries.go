package handler

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"

	"github.com/josh-kwaku/bakery-pos/internal/domain"
	"github.com/josh-kwaku/bakery-pos/internal/logging"
)

const (
	defaultEntriesLimit = 20
	maxEntriesLimit     = 200
)

type entryLister interface {
	Recent(ctx context.Context, limit int) ([]domain.JournalRecord, error)
}

type EntryHandler struct {
	entries entryLister
}

func NewEntryHandler(entries entryLister) *EntryHandler {
	return &EntryHandler{entries: entries}
}

type entryResponse struct {
	ID        *uuid.UUID `json:"id,omitempty"`
	Kind      string     `json:"tipo,omitempty"`
	Date      string     `json:"fecha,omitempty"`
	Amount    string     `json:"monto"`
	Customer  string     `json:"cliente,omitempty"`
	Text      string     `json:"asiento"`
	Reverses  *uuid.UUID `json:"revierte,omitempty"`
	CreatedAt *time.Time `json:"creado,omitempty"`
}

func (h *EntryHandler) Recent(w http.ResponseWriter, r *http.Request) {
	limit := defaultEntriesLimit
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 {
			RespondAppError(w, ErrInvalidRequest, map[string]string{"limit": "must be a positive integer"})
			return
		}
		limit = min(n, maxEntriesLimit)
	}

	records, err := h.entries.Recent(r.Context(), limit)
	if err != nil {
		logging.FromContext(r.Context()).Error("failed to list entries", "error", err)
		RespondDomainError(w, err)
		return
	}

	resp := make([]entryResponse, 0, len(records))
	for _, rec := range records {
		resp = append(resp, toEntryResponse(rec))
	}
	RespondSuccess(w, http.StatusOK, resp)
}

func toEntryResponse(rec domain.JournalRecord) entryResponse {
	resp := entryResponse{
		Kind:     rec.Kind,
		Date:     rec.EntryDate,
		Amount:   domain.FormatMoney(rec.Amount),
		Customer: rec.CustomerKey,
		Text:     rec.Text,
	}
	if rec.ID != uuid.Nil {
		id := rec.ID
		resp.ID = &id
	}
	if rec.Reverses.Valid {
		id := rec.Reverses.UUID
		resp.Reverses = &id
	}
	if !rec.CreatedAt.IsZero() {
		at := rec.CreatedAt
		resp.CreatedAt = &at
	}
	return resp
}
