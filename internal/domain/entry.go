package domain

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

const (
	DateLayout = "2006-01-02"
	TimeLayout = "15:04"
)

type Kind int

const (
	KindCounterSale Kind = iota + 1
	KindProduction
	KindSpoilage
	KindWholesaleSale
	KindCollection
)

var kindNames = map[Kind]string{
	KindCounterSale:   "venta_mostrador",
	KindProduction:    "produccion",
	KindSpoilage:      "merma",
	KindWholesaleSale: "venta_mayoreo",
	KindCollection:    "cobro",
}

func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

func (k Kind) IsValid() bool {
	_, ok := kindNames[k]
	return ok
}

// NeedsCustomer reports whether entries of this kind post to a receivables account.
func (k Kind) NeedsCustomer() bool {
	return k == KindWholesaleSale || k == KindCollection
}

// AcceptsNote reports whether the free-text note is part of the description.
func (k Kind) AcceptsNote() bool {
	return k == KindProduction || k == KindSpoilage
}

type Posting struct {
	Account string
	Amount  decimal.Decimal
}

type Entry struct {
	Kind        Kind
	Date        time.Time
	Description string
	Amount      decimal.Decimal
	Customer    *Customer
	Postings    []Posting
}

func (e *Entry) Header() string {
	return fmt.Sprintf("%s %s (%s)", e.Date.Format(DateLayout), e.Description, e.Date.Format(TimeLayout))
}

func (e *Entry) Sum() decimal.Decimal {
	return SumPostings(e.Postings)
}

func (e *Entry) Validate() error {
	if len(e.Postings) < 2 {
		return fmt.Errorf("Validate: %d postings: %w", len(e.Postings), ErrUnbalanced)
	}
	if sum := e.Sum(); !sum.IsZero() {
		return fmt.Errorf("Validate: sum %s: %w", sum, ErrUnbalanced)
	}
	return nil
}

func SumPostings(postings []Posting) decimal.Decimal {
	sum := decimal.Zero
	for _, p := range postings {
		sum = sum.Add(p.Amount)
	}
	return sum
}

// Volume is the total of the debit side of a balanced set of postings.
func Volume(postings []Posting) decimal.Decimal {
	total := decimal.Zero
	for _, p := range postings {
		if p.Amount.IsPositive() {
			total = total.Add(p.Amount)
		}
	}
	return total
}
