package reversal

import (
	"fmt"
	"strings"
	"time"
	"unicode"

	"github.com/shopspring/decimal"

	"github.com/josh-kwaku/bakery-pos/internal/domain"
)

type Posting struct {
	domain.Posting
	Line string

	// byte offsets of the amount token within Line
	amountStart, amountEnd int
}

type Parsed struct {
	Date        time.Time
	Description string
	Postings    []Posting
}

func (p *Parsed) Sum() decimal.Decimal {
	sum := decimal.Zero
	for _, pp := range p.Postings {
		sum = sum.Add(pp.Amount)
	}
	return sum
}

// Volume is the total of the positive postings.
func (p *Parsed) Volume() decimal.Decimal {
	total := decimal.Zero
	for _, pp := range p.Postings {
		if pp.Amount.IsPositive() {
			total = total.Add(pp.Amount)
		}
	}
	return total
}

// Parse reads one ledger entry: a dated header followed by indented posting
// lines, each ending in a single "$" amount. Blank lines are ignored. The
// postings must balance.
func Parse(text string) (*Parsed, error) {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	if strings.TrimSpace(text) == "" {
		return nil, domain.ErrNothingToReverse
	}

	text = strings.TrimRight(strings.TrimLeftFunc(text, unicode.IsSpace), "\n")
	lines := strings.Split(text, "\n")
	header := strings.TrimSpace(lines[0])

	dateToken, description, _ := strings.Cut(header, " ")
	date, err := time.Parse(domain.DateLayout, dateToken)
	if err != nil {
		return nil, fmt.Errorf("Parse: header %q: %w", header, domain.ErrMalformedEntry)
	}

	parsed := &Parsed{Date: date, Description: strings.TrimSpace(description)}
	for i, line := range lines[1:] {
		if strings.TrimSpace(line) == "" {
			continue
		}
		p, err := parsePosting(line)
		if err != nil {
			return nil, fmt.Errorf("Parse: line %d: %w", i+2, err)
		}
		parsed.Postings = append(parsed.Postings, p)
	}

	if len(parsed.Postings) < 2 {
		return nil, fmt.Errorf("Parse: %d postings: %w", len(parsed.Postings), domain.ErrMalformedEntry)
	}
	if sum := parsed.Sum(); !sum.IsZero() {
		return nil, fmt.Errorf("Parse: postings sum to %s: %w", sum, domain.ErrMalformedEntry)
	}
	return parsed, nil
}

func parsePosting(line string) (Posting, error) {
	if !unicode.IsSpace(rune(line[0])) {
		return Posting{}, fmt.Errorf("posting %q is not indented: %w", line, domain.ErrMalformedEntry)
	}
	if n := strings.Count(line, domain.CurrencySymbol); n != 1 {
		return Posting{}, fmt.Errorf("posting %q has %d amounts: %w", line, n, domain.ErrMalformedEntry)
	}

	start := strings.Index(line, domain.CurrencySymbol)
	token := strings.TrimRightFunc(line[start:], unicode.IsSpace)
	if strings.ContainsFunc(token, unicode.IsSpace) {
		return Posting{}, fmt.Errorf("posting %q: text after amount: %w", line, domain.ErrMalformedEntry)
	}

	amount, err := domain.ParseMoney(token)
	if err != nil {
		return Posting{}, fmt.Errorf("posting %q: %v: %w", line, err, domain.ErrMalformedEntry)
	}

	account := strings.TrimSpace(line[:start])
	if account == "" {
		return Posting{}, fmt.Errorf("posting %q has no account: %w", line, domain.ErrMalformedEntry)
	}

	return Posting{
		Posting:     domain.Posting{Account: account, Amount: amount},
		Line:        line,
		amountStart: start,
		amountEnd:   start + len(token),
	}, nil
}

type Engine struct {
	marker string
}

// NewEngine returns an Engine that prefixes reversed descriptions with marker.
func NewEngine(marker string) *Engine {
	return &Engine{marker: marker}
}

// Reverse returns the entry that cancels text, dated today. Only the sign of
// each amount changes; account paths and spacing are copied from the input.
// Text that does not parse as a balanced entry yields "" and an error, so a
// caller never appends a partial reversal.
func (e *Engine) Reverse(text string, today time.Time) (string, error) {
	parsed, err := Parse(text)
	if err != nil {
		return "", fmt.Errorf("Reverse: %w", err)
	}

	var sb strings.Builder
	sb.WriteString(today.Format(domain.DateLayout))
	sb.WriteByte(' ')
	sb.WriteString(e.marker)
	if parsed.Description != "" {
		sb.WriteByte(' ')
		sb.WriteString(parsed.Description)
	}

	for _, p := range parsed.Postings {
		sb.WriteByte('\n')
		sb.WriteString(p.Line[:p.amountStart])
		sb.WriteString(flipSign(p.Line[p.amountStart:p.amountEnd], p.Amount))
		sb.WriteString(p.Line[p.amountEnd:])
	}
	return sb.String(), nil
}

func flipSign(token string, amount decimal.Decimal) string {
	if amount.IsZero() {
		return token
	}
	if rest, ok := strings.CutPrefix(token, domain.CurrencySymbol+"-"); ok {
		return domain.CurrencySymbol + rest
	}
	return domain.CurrencySymbol + "-" + strings.TrimPrefix(token, domain.CurrencySymbol)
}
