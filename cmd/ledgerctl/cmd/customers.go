package cmd

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/josh-kwaku/bakery-pos/internal/customer"
)

func newCustomersCmd() *cobra.Command {
	var path string

	cmd := &cobra.Command{
		Use:   "customers",
		Short: "List the customer directory with discounts",
		Long: `Lists the customers the till will accept. Lines that cannot be parsed
and names that would collide as ledger accounts are reported on stderr.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := os.Open(path)
			if errors.Is(err, fs.ErrNotExist) {
				fmt.Fprintf(cmd.ErrOrStderr(), "%s does not exist; the till creates it with sample customers\n", path)
				return nil
			}
			if err != nil {
				return fmt.Errorf("customers: %w", err)
			}
			defer f.Close()

			all, problems, err := customer.Parse(f)
			if err != nil {
				return fmt.Errorf("customers: %w", err)
			}

			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "CLAVE\tNOMBRE\tDESCUENTO")
			for _, c := range all {
				fmt.Fprintf(tw, "%s\t%s\t%s%%\n", c.Key, c.Name, c.Discount.String())
			}
			if err := tw.Flush(); err != nil {
				return fmt.Errorf("customers: %w", err)
			}

			stderr := cmd.ErrOrStderr()
			for _, p := range problems {
				fmt.Fprintln(stderr, "warning:", p)
			}
			for _, w := range customer.Collisions(all) {
				fmt.Fprintln(stderr, "warning:", w)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&path, "file", "clientes.csv", "customer directory file")
	return cmd
}
