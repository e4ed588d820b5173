package cmd

import (
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"

	"github.com/josh-kwaku/bakery-pos/internal/reversal"
)

func newReverseCmd(opts *rootOptions) *cobra.Command {
	var date string

	cmd := &cobra.Command{
		Use:   "reverse",
		Short: "Print the reversal of an entry read from stdin",
		Long: `Reads one ledger entry on stdin and prints the entry that cancels it.
Nothing is written to the ledger.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cat, err := opts.catalog()
			if err != nil {
				return fmt.Errorf("reverse: %w", err)
			}

			today := time.Now()
			if date != "" {
				if today, err = time.Parse(time.DateOnly, date); err != nil {
					return fmt.Errorf("reverse: --date: %w", err)
				}
			}

			in, err := io.ReadAll(cmd.InOrStdin())
			if err != nil {
				return fmt.Errorf("reverse: read stdin: %w", err)
			}

			text, err := reversal.NewEngine(cat.Labels.Reversal).Reverse(string(in), today)
			if err != nil {
				return fmt.Errorf("reverse: %w", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), text)
			return nil
		},
	}

	cmd.Flags().StringVar(&date, "date", "", "date of the reversal, YYYY-MM-DD (default today)")
	return cmd
}
