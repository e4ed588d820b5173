package pos

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/josh-kwaku/bakery-pos/internal/balance"
	"github.com/josh-kwaku/bakery-pos/internal/domain"
	"github.com/josh-kwaku/bakery-pos/internal/entry"
	"github.com/josh-kwaku/bakery-pos/internal/events"
	"github.com/josh-kwaku/bakery-pos/internal/logging"
	"github.com/josh-kwaku/bakery-pos/internal/reversal"
)

type entryBuilder interface {
	Build(kind domain.Kind, p entry.Params) (*domain.Entry, error)
}

type reverser interface {
	Reverse(text string, today time.Time) (string, error)
}

type ledgerSink interface {
	Append(ctx context.Context, text string) error
	Tail(n int) ([]string, error)
}

type balanceQuerier interface {
	Status(ctx context.Context) balance.Status
	CustomerBalance(ctx context.Context, customerName string) string
	DailyCut(ctx context.Context, day time.Time) string
}

type customerDirectory interface {
	Lookup(key string) (domain.Customer, bool)
	All() ([]domain.Customer, error)
}

type journalRepo interface {
	Create(ctx context.Context, rec *domain.JournalRecord) error
	Recent(ctx context.Context, limit int) ([]domain.JournalRecord, error)
	FindLatestByText(ctx context.Context, text string) (*domain.JournalRecord, error)
}

type eventPublisher interface {
	Publish(ctx context.Context, ev events.EntryPosted) error
}

type Posted struct {
	Entry  *domain.Entry
	Text   string
	Record *domain.JournalRecord
}

type Service struct {
	builder   entryBuilder
	reverser  reverser
	sink      ledgerSink
	balances  balanceQuerier
	customers customerDirectory
	journal   journalRepo
	publisher eventPublisher
	now       func() time.Time
}

// NewService wires the till operations. journal may be nil, in which case
// recent entries are read back from the ledger file.
func NewService(
	builder entryBuilder,
	rev reverser,
	sink ledgerSink,
	balances balanceQuerier,
	customers customerDirectory,
	journal journalRepo,
	publisher eventPublisher,
	now func() time.Time,
) *Service {
	if publisher == nil {
		publisher = events.NopPublisher{}
	}
	if now == nil {
		now = time.Now
	}
	return &Service{
		builder:   builder,
		reverser:  rev,
		sink:      sink,
		balances:  balances,
		customers: customers,
		journal:   journal,
		publisher: publisher,
		now:       now,
	}
}

// Post builds the entry for a and appends it. Nothing is appended when the
// entry cannot be built.
func (s *Service) Post(ctx context.Context, a domain.PostAction) (*Posted, error) {
	log := logging.FromContext(ctx).With("kind", a.Kind.String(), "amount", a.Amount.String(), "customer", a.Customer)

	e, err := s.builder.Build(a.Kind, entry.Params{Amount: a.Amount, Note: a.Note, Customer: a.Customer})
	if err != nil {
		log.Info("entry rejected", "error", err)
		return nil, fmt.Errorf("Post: %w", err)
	}

	text := entry.Render(e)
	if err := s.sink.Append(ctx, text); err != nil {
		log.Error("ledger append failed", "error", err)
		return nil, fmt.Errorf("Post: %w", err)
	}

	rec := &domain.JournalRecord{
		ID:        uuid.New(),
		Kind:      e.Kind.String(),
		EntryDate: e.Date.Format(domain.DateLayout),
		Amount:    e.Amount,
		Text:      text,
		CreatedAt: s.now().UTC(),
	}
	if e.Customer != nil {
		rec.CustomerKey = e.Customer.Key
	}
	s.record(ctx, rec)

	log.Info("entry posted", "id", rec.ID)
	return &Posted{Entry: e, Text: text, Record: rec}, nil
}

// Undo appends the reversal of a previously posted entry text.
func (s *Service) Undo(ctx context.Context, text string) (*Posted, error) {
	log := logging.FromContext(ctx)

	text = strings.TrimSpace(strings.ReplaceAll(text, "\r\n", "\n"))
	if text == "" {
		return nil, fmt.Errorf("Undo: %w", domain.ErrNothingToReverse)
	}

	now := s.now()
	reversed, err := s.reverser.Reverse(text, now)
	if err != nil {
		log.Warn("reversal rejected", "error", err)
		return nil, fmt.Errorf("Undo: %w", err)
	}

	if err := s.sink.Append(ctx, reversed); err != nil {
		log.Error("ledger append failed", "error", err)
		return nil, fmt.Errorf("Undo: %w", err)
	}

	rec := &domain.JournalRecord{
		ID:        uuid.New(),
		Kind:      domain.JournalKindReversal,
		EntryDate: now.Format(domain.DateLayout),
		Amount:    volume(reversed),
		Text:      reversed,
		CreatedAt: now.UTC(),
	}
	if original := s.findOriginal(ctx, text); original != nil {
		rec.Reverses = uuid.NullUUID{UUID: original.ID, Valid: true}
		rec.CustomerKey = original.CustomerKey
	}
	s.record(ctx, rec)

	log.Info("entry reversed", "id", rec.ID, "reverses", rec.Reverses)
	return &Posted{Text: reversed, Record: rec}, nil
}

func (s *Service) Status(ctx context.Context) balance.Status {
	return s.balances.Status(ctx)
}

// CustomerBalance reports the receivable balance of the customer with key.
// Unknown keys are looked up under the key itself.
func (s *Service) CustomerBalance(ctx context.Context, key string) string {
	c, _ := s.customers.Lookup(strings.TrimSpace(key))
	return s.balances.CustomerBalance(ctx, c.Name)
}

func (s *Service) DailyCut(ctx context.Context) string {
	return s.balances.DailyCut(ctx, s.now())
}

func (s *Service) Customers() ([]domain.Customer, error) {
	customers, err := s.customers.All()
	if err != nil {
		return nil, fmt.Errorf("Customers: %w", err)
	}
	return customers, nil
}

// Lookup resolves a customer key for display. The bool is false on a miss.
func (s *Service) Lookup(key string) (domain.Customer, bool) {
	return s.customers.Lookup(strings.TrimSpace(key))
}

// Recent returns the newest entries first.
func (s *Service) Recent(ctx context.Context, limit int) ([]domain.JournalRecord, error) {
	if s.journal != nil {
		records, err := s.journal.Recent(ctx, limit)
		if err != nil {
			return nil, fmt.Errorf("Recent: %w", err)
		}
		return records, nil
	}

	texts, err := s.sink.Tail(limit)
	if err != nil {
		return nil, fmt.Errorf("Recent: %w", err)
	}
	records := make([]domain.JournalRecord, 0, len(texts))
	for i := len(texts) - 1; i >= 0; i-- {
		rec := domain.JournalRecord{Text: texts[i], Amount: volume(texts[i])}
		if parsed, err := reversal.Parse(texts[i]); err == nil {
			rec.EntryDate = parsed.Date.Format(domain.DateLayout)
		}
		records = append(records, rec)
	}
	return records, nil
}

// record is best-effort: the ledger file is authoritative once Append
// succeeded.
func (s *Service) record(ctx context.Context, rec *domain.JournalRecord) {
	log := logging.FromContext(ctx)

	if s.journal != nil {
		if err := s.journal.Create(ctx, rec); err != nil {
			log.Warn("journal write failed", "id", rec.ID, "error", err)
		}
	}
	if err := s.publisher.Publish(ctx, events.NewEntryPosted(rec)); err != nil {
		log.Warn("entry event not published", "id", rec.ID, "error", err)
	}
}

func (s *Service) findOriginal(ctx context.Context, text string) *domain.JournalRecord {
	if s.journal == nil {
		return nil
	}
	rec, err := s.journal.FindLatestByText(ctx, text)
	if err != nil {
		if !errors.Is(err, domain.ErrNotFound) {
			logging.FromContext(ctx).Warn("journal lookup failed", "error", err)
		}
		return nil
	}
	return rec
}

func volume(text string) decimal.Decimal {
	parsed, err := reversal.Parse(text)
	if err != nil {
		return decimal.Zero
	}
	return parsed.Volume()
}
