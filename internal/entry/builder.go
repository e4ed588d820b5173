package entry

import (
	"fmt"
	"strings"
	"time"
	"unicode"

	"github.com/shopspring/decimal"

	"github.com/josh-kwaku/bakery-pos/internal/catalog"
	"github.com/josh-kwaku/bakery-pos/internal/domain"
)

type customerLookup interface {
	Lookup(key string) (domain.Customer, bool)
}

type Builder struct {
	catalog   *catalog.Catalog
	customers customerLookup
	now       func() time.Time
}

// NewBuilder returns a Builder. now supplies the entry date and the time shown
// in the description; pass a fixed clock for reproducible output.
func NewBuilder(cat *catalog.Catalog, customers customerLookup, now func() time.Time) *Builder {
	if now == nil {
		now = time.Now
	}
	return &Builder{catalog: cat, customers: customers, now: now}
}

type Params struct {
	Amount   decimal.Decimal
	Note     string
	Customer string
}

func (b *Builder) Build(kind domain.Kind, p Params) (*domain.Entry, error) {
	switch kind {
	case domain.KindCounterSale:
		return b.CounterSale(p.Amount)
	case domain.KindProduction:
		return b.Production(p.Amount, p.Note)
	case domain.KindSpoilage:
		return b.Spoilage(p.Amount, p.Note)
	case domain.KindWholesaleSale:
		return b.WholesaleSale(p.Customer, p.Amount)
	case domain.KindCollection:
		return b.Collection(p.Customer, p.Amount)
	default:
		return nil, fmt.Errorf("Build: %s: %w", kind, domain.ErrUnknownAction)
	}
}

func (b *Builder) CounterSale(amount decimal.Decimal) (*domain.Entry, error) {
	amount, err := validAmount(amount)
	if err != nil {
		return nil, fmt.Errorf("CounterSale: %w", err)
	}

	acc := b.catalog.Accounts
	return b.finish(&domain.Entry{
		Kind:        domain.KindCounterSale,
		Description: b.catalog.Labels.CounterSale,
		Amount:      amount,
		Postings: []domain.Posting{
			{Account: acc.Cash, Amount: amount},
			{Account: acc.Inventory, Amount: amount.Neg()},
		},
	})
}

func (b *Builder) Production(amount decimal.Decimal, note string) (*domain.Entry, error) {
	amount, err := validAmount(amount)
	if err != nil {
		return nil, fmt.Errorf("Production: %w", err)
	}

	acc := b.catalog.Accounts
	return b.finish(&domain.Entry{
		Kind:        domain.KindProduction,
		Description: withNote(b.catalog.Labels.Production, note),
		Amount:      amount,
		Postings: []domain.Posting{
			{Account: acc.Inventory, Amount: amount},
			{Account: acc.ProductionExpense, Amount: amount.Neg()},
		},
	})
}

func (b *Builder) Spoilage(amount decimal.Decimal, note string) (*domain.Entry, error) {
	amount, err := validAmount(amount)
	if err != nil {
		return nil, fmt.Errorf("Spoilage: %w", err)
	}

	acc := b.catalog.Accounts
	return b.finish(&domain.Entry{
		Kind:        domain.KindSpoilage,
		Description: withNote(b.catalog.Labels.Spoilage, note),
		Amount:      amount,
		Postings: []domain.Posting{
			{Account: acc.SpoilageExpense, Amount: amount},
			{Account: acc.Inventory, Amount: amount.Neg()},
		},
	})
}

// WholesaleSale books the sale at list price against inventory, the
// discounted price against the customer's receivable and the difference as a
// commercial discount expense.
func (b *Builder) WholesaleSale(customerKey string, amount decimal.Decimal) (*domain.Entry, error) {
	amount, err := validAmount(amount)
	if err != nil {
		return nil, fmt.Errorf("WholesaleSale: %w", err)
	}
	c, err := b.customer(customerKey)
	if err != nil {
		return nil, fmt.Errorf("WholesaleSale: %w", err)
	}

	discount := domain.Percent(amount, c.Discount)
	receivable := amount.Sub(discount)

	acc := b.catalog.Accounts
	postings := []domain.Posting{{Account: b.catalog.Receivable(c.Name), Amount: receivable}}
	if discount.IsPositive() {
		postings = append(postings, domain.Posting{Account: acc.DiscountExpense, Amount: discount})
	}
	postings = append(postings, domain.Posting{Account: acc.Inventory, Amount: amount.Neg()})

	return b.finish(&domain.Entry{
		Kind:        domain.KindWholesaleSale,
		Description: b.catalog.Labels.WholesaleSale + " - " + c.Name,
		Amount:      amount,
		Customer:    &c,
		Postings:    postings,
	})
}

func (b *Builder) Collection(customerKey string, amount decimal.Decimal) (*domain.Entry, error) {
	amount, err := validAmount(amount)
	if err != nil {
		return nil, fmt.Errorf("Collection: %w", err)
	}
	c, err := b.customer(customerKey)
	if err != nil {
		return nil, fmt.Errorf("Collection: %w", err)
	}

	return b.finish(&domain.Entry{
		Kind:        domain.KindCollection,
		Description: b.catalog.Labels.Collection + " - " + c.Name,
		Amount:      amount,
		Customer:    &c,
		Postings: []domain.Posting{
			{Account: b.catalog.Accounts.Cash, Amount: amount},
			{Account: b.catalog.Receivable(c.Name), Amount: amount.Neg()},
		},
	})
}

func (b *Builder) customer(key string) (domain.Customer, error) {
	key = collapseSpace(key)
	if key == "" {
		return domain.Customer{}, domain.ErrMissingCustomer
	}
	c, _ := b.customers.Lookup(key)
	c.Name = collapseSpace(c.Name)
	return c, nil
}

// finish stamps the date and checks the entry both as numbers and as the
// text Render will write.
func (b *Builder) finish(e *domain.Entry) (*domain.Entry, error) {
	e.Date = b.now()
	if err := e.Validate(); err != nil {
		return nil, fmt.Errorf("finish: %s: %w", e.Kind, err)
	}
	if err := checkText(e); err != nil {
		return nil, fmt.Errorf("finish: %s: %w", e.Kind, err)
	}
	return e, nil
}

// checkText rejects text that would change the shape of the rendered entry:
// line breaks and other control characters, a second "$" on a posting line,
// and in accounts the ";" comment marker or a double space, where hledger
// ends the account name.
func checkText(e *domain.Entry) error {
	if !safeText(e.Description) {
		return fmt.Errorf("description %q: %w", e.Description, domain.ErrUnsafeText)
	}
	for _, p := range e.Postings {
		if p.Account == "" || !safeText(p.Account) ||
			strings.Contains(p.Account, ";") || strings.Contains(p.Account, "  ") {
			return fmt.Errorf("account %q: %w", p.Account, domain.ErrUnsafeText)
		}
	}
	return nil
}

func safeText(s string) bool {
	if strings.Contains(s, domain.CurrencySymbol) {
		return false
	}
	for _, r := range s {
		if unicode.IsControl(r) {
			return false
		}
	}
	return true
}

// collapseSpace trims s and turns every run of whitespace, line breaks
// included, into a single space.
func collapseSpace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

func validAmount(amount decimal.Decimal) (decimal.Decimal, error) {
	amount = domain.RoundMoney(amount)
	if !amount.IsPositive() {
		return decimal.Zero, domain.ErrInvalidAmount
	}
	return amount, nil
}

func withNote(label, note string) string {
	note = collapseSpace(note)
	if note == "" {
		return label
	}
	return label + " - " + note
}
