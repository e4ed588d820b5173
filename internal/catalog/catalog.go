package catalog

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/josh-kwaku/bakery-pos/internal/domain"
)

type Accounts struct {
	Cash              string `yaml:"cash"`
	Inventory         string `yaml:"inventory"`
	ProductionExpense string `yaml:"production_expense"`
	SpoilageExpense   string `yaml:"spoilage_expense"`
	DiscountExpense   string `yaml:"discount_expense"`
	ReceivablesPrefix string `yaml:"receivables_prefix"`
}

type Labels struct {
	CounterSale   string `yaml:"counter_sale"`
	Production    string `yaml:"production"`
	Spoilage      string `yaml:"spoilage"`
	WholesaleSale string `yaml:"wholesale_sale"`
	Collection    string `yaml:"collection"`
	Reversal      string `yaml:"reversal"`
}

type Catalog struct {
	Accounts Accounts `yaml:"accounts"`
	Labels   Labels   `yaml:"labels"`
}

func Default() *Catalog {
	return &Catalog{
		Accounts: Accounts{
			Cash:              "activos:caja",
			Inventory:         "activos:inventario:pan",
			ProductionExpense: "gastos:producción",
			SpoilageExpense:   "gastos:mermas",
			DiscountExpense:   "gastos:descuentos comerciales",
			ReceivablesPrefix: "activos:cuentas por cobrar",
		},
		Labels: Labels{
			CounterSale:   "Venta mostrador",
			Production:    "Producción",
			Spoilage:      "Merma",
			WholesaleSale: "Venta mayoreo",
			Collection:    "Cobro",
			Reversal:      "REVERSO:",
		},
	}
}

// Load overlays the YAML file at path on the defaults. An empty path returns
// the defaults unchanged.
func Load(path string) (*Catalog, error) {
	c := Default()
	if path == "" {
		return c, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("catalog.Load: %w", err)
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return nil, fmt.Errorf("catalog.Load: parse %s: %w", path, err)
	}
	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("catalog.Load: %s: %w", path, err)
	}
	return c, nil
}

func (c *Catalog) Validate() error {
	fields := []struct {
		name  string
		value string
	}{
		{"accounts.cash", c.Accounts.Cash},
		{"accounts.inventory", c.Accounts.Inventory},
		{"accounts.production_expense", c.Accounts.ProductionExpense},
		{"accounts.spoilage_expense", c.Accounts.SpoilageExpense},
		{"accounts.discount_expense", c.Accounts.DiscountExpense},
		{"accounts.receivables_prefix", c.Accounts.ReceivablesPrefix},
		{"labels.counter_sale", c.Labels.CounterSale},
		{"labels.production", c.Labels.Production},
		{"labels.spoilage", c.Labels.Spoilage},
		{"labels.wholesale_sale", c.Labels.WholesaleSale},
		{"labels.collection", c.Labels.Collection},
		{"labels.reversal", c.Labels.Reversal},
	}

	var errs []error
	for _, f := range fields {
		if strings.TrimSpace(f.value) == "" {
			errs = append(errs, fmt.Errorf("%s is empty", f.name))
		}
	}
	return errors.Join(errs...)
}

// Receivable is the per-customer receivables account. The display name is
// lowercased and appended verbatim; the balance engine aggregates by this path.
func (c *Catalog) Receivable(customerName string) string {
	return c.Accounts.ReceivablesPrefix + ":" + strings.ToLower(customerName)
}

func (c *Catalog) Label(k domain.Kind) string {
	switch k {
	case domain.KindCounterSale:
		return c.Labels.CounterSale
	case domain.KindProduction:
		return c.Labels.Production
	case domain.KindSpoilage:
		return c.Labels.Spoilage
	case domain.KindWholesaleSale:
		return c.Labels.WholesaleSale
	case domain.KindCollection:
		return c.Labels.Collection
	default:
		return k.String()
	}
}

// AssetsRoot is the top-level account that holds cash and inventory.
func (c *Catalog) AssetsRoot() string {
	return root(c.Accounts.Cash)
}

// ExpensesRoot is the top-level account of the production expense.
func (c *Catalog) ExpensesRoot() string {
	return root(c.Accounts.ProductionExpense)
}

func root(account string) string {
	top, _, _ := strings.Cut(account, ":")
	return top
}
