package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const JournalKindReversal = "deshacer"

type JournalRecord struct {
	ID          uuid.UUID
	Kind        string
	EntryDate   string
	Amount      decimal.Decimal
	CustomerKey string
	Text        string
	Reverses    uuid.NullUUID
	CreatedAt   time.Time
}
