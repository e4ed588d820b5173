package events

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/josh-kwaku/bakery-pos/internal/domain"
)

const TypeEntryPosted = "entry_posted"

type EntryPosted struct {
	Type        string          `json:"type"`
	ID          uuid.UUID       `json:"id"`
	Kind        string          `json:"kind"`
	EntryDate   string          `json:"entry_date"`
	Amount      decimal.Decimal `json:"amount"`
	CustomerKey string          `json:"customer_key,omitempty"`
	Text        string          `json:"text"`
	Reverses    *uuid.UUID      `json:"reverses,omitempty"`
	PostedAt    time.Time       `json:"posted_at"`
}

func NewEntryPosted(rec *domain.JournalRecord) EntryPosted {
	ev := EntryPosted{
		Type:        TypeEntryPosted,
		ID:          rec.ID,
		Kind:        rec.Kind,
		EntryDate:   rec.EntryDate,
		Amount:      rec.Amount,
		CustomerKey: rec.CustomerKey,
		Text:        rec.Text,
		PostedAt:    rec.CreatedAt,
	}
	if rec.Reverses.Valid {
		id := rec.Reverses.UUID
		ev.Reverses = &id
	}
	return ev
}

type NopPublisher struct{}

func (NopPublisher) Publish(context.Context, EntryPosted) error { return nil }

func (NopPublisher) Close() error { return nil }
