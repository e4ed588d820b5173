package cmd

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/josh-kwaku/bakery-pos/internal/customer"
	"github.com/josh-kwaku/bakery-pos/internal/domain"
	"github.com/josh-kwaku/bakery-pos/internal/entry"
)

func newRenderCmd(opts *rootOptions) *cobra.Command {
	var (
		action    string
		amount    string
		note      string
		client    string
		customers string
	)

	cmd := &cobra.Command{
		Use:   "render",
		Short: "Preview the entry a till action would post",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			monto, err := decimal.NewFromString(amount)
			if err != nil {
				return fmt.Errorf("render: --monto: %w", err)
			}

			parsed, err := domain.ParseAction(domain.ActionRequest{
				Action:   action,
				Amount:   monto,
				Note:     note,
				Customer: client,
			})
			if err != nil {
				return fmt.Errorf("render: %w", err)
			}
			post, ok := parsed.(domain.PostAction)
			if !ok {
				return fmt.Errorf("render: %q does not post an entry", action)
			}

			cat, err := opts.catalog()
			if err != nil {
				return fmt.Errorf("render: %w", err)
			}
			builder := entry.NewBuilder(cat, customer.NewDirectory(customers, nil), time.Now)

			e, err := builder.Build(post.Kind, entry.Params{Amount: post.Amount, Note: post.Note, Customer: post.Customer})
			if err != nil {
				return fmt.Errorf("render: %w", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), entry.Render(e))
			return nil
		},
	}

	cmd.Flags().StringVar(&action, "action", "venta_mostrador", "till action: venta_mostrador, produccion, merma, venta_mayoreo, cobro")
	cmd.Flags().StringVar(&amount, "monto", "0", "amount in pesos")
	cmd.Flags().StringVar(&note, "nota", "", "note for produccion and merma")
	cmd.Flags().StringVar(&client, "cliente", "", "customer key for venta_mayoreo and cobro")
	cmd.Flags().StringVar(&customers, "customers", "clientes.csv", "customer directory file")
	return cmd
}
