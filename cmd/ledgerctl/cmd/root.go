package cmd

import (
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/josh-kwaku/bakery-pos/internal/catalog"
	"github.com/josh-kwaku/bakery-pos/internal/logging"
)

type rootOptions struct {
	accounts string
	debug    bool
}

// NewRootCmd builds a fresh command tree. Each call has its own flag state.
func NewRootCmd() *cobra.Command {
	opts := &rootOptions{}

	root := &cobra.Command{
		Use:   "ledgerctl",
		Short: "Operator tools for the bakery ledger",
		Long: `ledgerctl works on the same plain-text ledger the till writes.

Example:
  ledgerctl check --ledger panaderia.ledger
  pbpaste | ledgerctl reverse
  ledgerctl render --action venta_mayoreo --monto 250 --cliente don_pepe
  ledgerctl customers --file clientes.csv`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			level := "warn"
			if opts.debug {
				level = "debug"
			}
			slog.SetDefault(logging.New(cmd.ErrOrStderr(), "ledgerctl", level, "development"))
		},
	}

	root.PersistentFlags().StringVar(&opts.accounts, "accounts", "", "account catalog YAML (default built-in accounts)")
	root.PersistentFlags().BoolVar(&opts.debug, "debug", false, "enable debug logging")

	root.AddCommand(
		newCheckCmd(),
		newReverseCmd(opts),
		newRenderCmd(opts),
		newCustomersCmd(),
	)
	return root
}

func Execute() error {
	return NewRootCmd().Execute()
}

func (o *rootOptions) catalog() (*catalog.Catalog, error) {
	return catalog.Load(o.accounts)
}
