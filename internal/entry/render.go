package entry

import (
	"strings"
	"unicode/utf8"

	"github.com/josh-kwaku/bakery-pos/internal/domain"
)

const (
	postingIndent = "    "
	amountColumn  = 30
	minGap        = 2
)

// Render produces the canonical ledger text for e: a header line followed by
// one indented line per posting. Amounts start at a fixed column so the digits
// of positive and negative amounts line up; at least two spaces always
// separate the account from the amount.
func Render(e *domain.Entry) string {
	var sb strings.Builder
	sb.WriteString(e.Header())
	for _, p := range e.Postings {
		sb.WriteByte('\n')
		sb.WriteString(RenderPosting(p))
	}
	return sb.String()
}

func RenderPosting(p domain.Posting) string {
	gap := amountColumn - utf8.RuneCountInString(p.Account)
	if p.Amount.IsNegative() {
		gap--
	}
	gap = max(gap, minGap)

	return postingIndent + p.Account + strings.Repeat(" ", gap) + domain.FormatMoney(p.Amount)
}
