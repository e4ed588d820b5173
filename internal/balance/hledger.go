package balance

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os/exec"
	"regexp"
	"strings"
	"time"

	"github.com/josh-kwaku/bakery-pos/internal/catalog"
	"github.com/josh-kwaku/bakery-pos/internal/domain"
)

const (
	// Unknown is reported when hledger fails or times out.
	Unknown = "?"
	zero    = domain.CurrencySymbol + "0"

	noMovementsToday = "(sin movimientos hoy)"
	notInstalled     = "(hledger no encontrado)"
)

type Runner interface {
	Run(ctx context.Context, name string, args ...string) ([]byte, error)
}

type ExecRunner struct{}

func (ExecRunner) Run(ctx context.Context, name string, args ...string) ([]byte, error) {
	out, err := exec.CommandContext(ctx, name, args...).Output()
	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) && len(exitErr.Stderr) > 0 {
			return nil, fmt.Errorf("%s: %w: %s", name, err, strings.TrimSpace(string(exitErr.Stderr)))
		}
		return nil, fmt.Errorf("%s: %w", name, err)
	}
	return out, nil
}

type Status struct {
	Cash        string
	Inventory   string
	Receivables string
}

type Client struct {
	runner  Runner
	bin     string
	ledger  string
	timeout time.Duration
	catalog *catalog.Catalog
	logger  *slog.Logger
}

func NewClient(runner Runner, bin, ledgerPath string, timeout time.Duration, cat *catalog.Catalog, logger *slog.Logger) *Client {
	if logger == nil {
		logger = slog.Default()
	}
	return &Client{
		runner:  runner,
		bin:     bin,
		ledger:  ledgerPath,
		timeout: timeout,
		catalog: cat,
		logger:  logger,
	}
}

// Total returns the first amount hledger reports for account and its
// sub-accounts, "$0" when there are no postings and Unknown on failure.
func (c *Client) Total(ctx context.Context, account string) string {
	out, err := c.balance(ctx, accountQuery(account), "--depth", "1", "-N")
	if err != nil {
		c.logger.Warn("balance query failed", "account", account, "error", err)
		return Unknown
	}
	return firstAmount(out)
}

func (c *Client) Status(ctx context.Context) Status {
	acc := c.catalog.Accounts
	return Status{
		Cash:        c.Total(ctx, acc.Cash),
		Inventory:   c.Total(ctx, acc.Inventory),
		Receivables: c.Total(ctx, acc.ReceivablesPrefix),
	}
}

func (c *Client) CustomerBalance(ctx context.Context, customerName string) string {
	return c.Total(ctx, c.catalog.Receivable(customerName))
}

// DailyCut is the end-of-day report: asset and expense movements for day,
// followed by total asset balances.
func (c *Client) DailyCut(ctx context.Context, day time.Time) string {
	date := day.Format(domain.DateLayout)
	assets := c.catalog.AssetsRoot()

	movements, err := c.balance(ctx, assets, "-p", date, "--tree")
	switch {
	case isNotInstalled(err):
		movements = notInstalled
	case err != nil:
		c.logger.Warn("daily cut query failed", "error", err)
		movements = "Error: " + err.Error()
	case movements == "":
		movements = noMovementsToday
	}

	expenses, err := c.balance(ctx, c.catalog.ExpensesRoot(), "-p", date, "--tree")
	if err != nil {
		expenses = ""
	}
	totals, err := c.balance(ctx, assets, "--tree")
	if err != nil {
		totals = ""
	}

	return fmt.Sprintf("=== CORTE DEL DÍA (%s) ===\n\nACTIVOS HOY:\n%s\n\nGASTOS HOY:\n%s\n=== SALDOS TOTALES ===\n\n%s",
		date, movements, expenses, totals)
}

func (c *Client) balance(ctx context.Context, args ...string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	out, err := c.runner.Run(ctx, c.bin, append([]string{"-f", c.ledger, "balance"}, args...)...)
	if err != nil {
		return "", fmt.Errorf("balance: %w", err)
	}
	return string(out), nil
}

// accountQuery matches account and its sub-accounts but not siblings that
// share a prefix.
func accountQuery(account string) string {
	return "^" + regexp.QuoteMeta(account) + "(:|$)"
}

func firstAmount(out string) string {
	for _, line := range strings.Split(out, "\n") {
		for _, field := range strings.Fields(line) {
			if strings.Contains(field, domain.CurrencySymbol) {
				return field
			}
		}
	}
	return zero
}

func isNotInstalled(err error) bool {
	return errors.Is(err, exec.ErrNotFound) || errors.Is(err, fs.ErrNotExist)
}
