package customer

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/josh-kwaku/bakery-pos/internal/domain"
)

const seedContent = `# clave|nombre|descuento_%
don_pepe|Don Pepe|10
la_tiendita|La Tiendita|15
`

var maxDiscount = decimal.NewFromInt(100)

// Directory re-reads its file on every call. The file is small and edited by
// hand, so there is nothing to invalidate.
type Directory struct {
	path   string
	logger *slog.Logger
}

func NewDirectory(path string, logger *slog.Logger) *Directory {
	if logger == nil {
		logger = slog.Default()
	}
	return &Directory{path: path, logger: logger}
}

// Lookup returns the customer for key. On a miss the key stands in for the
// name with no discount, and found is false.
func (d *Directory) Lookup(key string) (domain.Customer, bool) {
	customers, err := d.All()
	if err != nil {
		d.logger.Warn("customer directory unreadable", "path", d.path, "error", err)
		return domain.UnknownCustomer(key), false
	}

	for _, c := range customers {
		if c.Key == key {
			return c, true
		}
	}
	return domain.UnknownCustomer(key), false
}

// All returns the directory in file order. A missing file is an empty directory.
func (d *Directory) All() ([]domain.Customer, error) {
	f, err := os.Open(d.path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("All: %w", err)
	}
	defer f.Close()

	customers, problems, err := Parse(f)
	if err != nil {
		return nil, fmt.Errorf("All: %w", err)
	}
	for _, p := range problems {
		d.logger.Warn("customer record skipped", "path", d.path, "error", p)
	}
	for _, w := range Collisions(customers) {
		d.logger.Warn("customer receivables account is ambiguous", "path", d.path, "detail", w)
	}
	return customers, nil
}

// Parse reads directory records. Malformed records are skipped and reported
// in problems; err is only set when the reader itself fails.
func Parse(r io.Reader) (customers []domain.Customer, problems []error, err error) {
	seen := make(map[string]int)
	scanner := bufio.NewScanner(r)

	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		parts := strings.Split(line, "|")
		if len(parts) < 3 {
			problems = append(problems, fmt.Errorf("line %d: expected key|name|discount, got %q", lineNo, line))
			continue
		}

		key := strings.TrimSpace(parts[0])
		name := strings.TrimSpace(parts[1])
		if key == "" || name == "" {
			problems = append(problems, fmt.Errorf("line %d: empty key or name", lineNo))
			continue
		}

		discount, err := decimal.NewFromString(strings.TrimSpace(parts[2]))
		if err != nil {
			problems = append(problems, fmt.Errorf("line %d: discount %q: %w", lineNo, parts[2], err))
			continue
		}
		if discount.IsNegative() || discount.GreaterThanOrEqual(maxDiscount) {
			problems = append(problems, fmt.Errorf("line %d: discount %s outside [0,100)", lineNo, discount))
			continue
		}

		c := domain.Customer{Key: key, Name: name, Discount: discount}
		if i, dup := seen[key]; dup {
			problems = append(problems, fmt.Errorf("line %d: duplicate key %q, later record wins", lineNo, key))
			customers[i] = c
			continue
		}
		seen[key] = len(customers)
		customers = append(customers, c)
	}
	if err := scanner.Err(); err != nil {
		return nil, nil, fmt.Errorf("Parse: %w", err)
	}
	return customers, problems, nil
}

// Collisions describes customers whose receivables account would be shared
// with another customer or split into sub-accounts. They are reported, not
// rewritten, because existing ledger history already uses these paths.
func Collisions(customers []domain.Customer) []string {
	var out []string
	byAccount := make(map[string]string)
	for _, c := range customers {
		if strings.Contains(c.Name, ":") {
			out = append(out, fmt.Sprintf("%s: name %q contains the account separator", c.Key, c.Name))
		}
		lower := strings.ToLower(c.Name)
		if other, ok := byAccount[lower]; ok {
			out = append(out, fmt.Sprintf("%s and %s share the account name %q", other, c.Key, lower))
			continue
		}
		byAccount[lower] = c.Key
	}
	return out
}

// EnsureFile creates the directory file with a header and the two house
// customers when it does not exist yet.
func EnsureFile(path string) error {
	if _, err := os.Stat(path); err == nil {
		return nil
	} else if !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("EnsureFile: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("EnsureFile: %w", err)
	}
	if err := os.WriteFile(path, []byte(seedContent), 0o644); err != nil {
		return fmt.Errorf("EnsureFile: %w", err)
	}
	return nil
}
