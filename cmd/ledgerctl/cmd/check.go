package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/josh-kwaku/bakery-pos/internal/domain"
	"github.com/josh-kwaku/bakery-pos/internal/ledger"
	"github.com/josh-kwaku/bakery-pos/internal/reversal"
)

func newCheckCmd() *cobra.Command {
	var path string

	cmd := &cobra.Command{
		Use:   "check",
		Short: "Report entries the till could not reverse",
		Long: `Parses every entry of a ledger file and reports the ones that are
malformed or do not balance. Exits non-zero when any are found.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := os.ReadFile(path)
			if err != nil {
				return fmt.Errorf("check: %w", err)
			}

			out := cmd.OutOrStdout()
			entries := ledger.SplitEntries(string(data))
			bad := 0
			total := decimal.Zero
			for i, text := range entries {
				parsed, err := reversal.Parse(text)
				if err != nil {
					bad++
					header, _, _ := strings.Cut(text, "\n")
					fmt.Fprintf(out, "entry %d: %v\n    %s\n", i+1, err, header)
					continue
				}
				total = total.Add(parsed.Volume())
			}

			fmt.Fprintf(out, "%d entries, %d with problems, volume %s\n", len(entries), bad, domain.FormatMoney(total))
			if bad > 0 {
				return fmt.Errorf("check: %d of %d entries have problems", bad, len(entries))
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&path, "ledger", "panaderia.ledger", "ledger file to check")
	return cmd
}
