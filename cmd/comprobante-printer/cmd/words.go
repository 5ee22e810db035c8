package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/rezonia/comprobante-printer/internal/decimal"
	"github.com/rezonia/comprobante-printer/internal/words"
)

var wordsCmd = &cobra.Command{
	Use:   "words <amount>...",
	Short: "Spell out amounts as printed on comprobantes",
	Long: `Print the "SON:" clause for each amount.

Examples:
  comprobante-printer words 1 21.50 1000000
  # UN SOL CON 00/100
  # VEINTE Y UNO CON 50/100 SOLES
  # UN MILLÓN CON 00/100 SOLES`,
	Args: cobra.MinimumNArgs(1),
	RunE: runWords,
}

func init() {
	rootCmd.AddCommand(wordsCmd)
}

func runWords(cmd *cobra.Command, args []string) error {
	for _, arg := range args {
		amount, err := decimal.FromString(arg)
		if err != nil {
			return fmt.Errorf("invalid amount %q: %w", arg, err)
		}
		fmt.Fprintln(cmd.OutOrStdout(), words.Format(amount))
	}
	return nil
}
