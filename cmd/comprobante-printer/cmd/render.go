package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/rezonia/comprobante-printer/internal/metrics"
	"github.com/rezonia/comprobante-printer/internal/model"
)

var outputFile string

var renderCmd = &cobra.Command{
	Use:   "render <tipo> <serie> <numero>",
	Short: "Print one comprobante to a PDF file",
	Long: `Look a document up in the sales database and write its PDF.

Examples:
  # Writes comprobante-F001-00000123.pdf
  comprobante-printer render 01 F001 00000123

  # Custom output path
  comprobante-printer render 03 B001 00000045 -o boleta.pdf`,
	Args: cobra.ExactArgs(3),
	RunE: runRender,
}

func init() {
	rootCmd.AddCommand(renderCmd)

	renderCmd.Flags().StringVarP(&outputFile, "output", "o", "", "Output file (default comprobante-<serie>-<numero>.pdf)")
}

func runRender(cmd *cobra.Command, args []string) error {
	pipeline, docs, err := buildPipeline(metrics.New())
	if err != nil {
		return err
	}
	defer docs.Close()

	key := model.DocumentKey{
		Type:   model.DocumentType(args[0]),
		Series: args[1],
		Number: args[2],
	}

	out, err := pipeline.Print(cmd.Context(), key)
	if err != nil {
		return err
	}

	path := outputFile
	if path == "" {
		path = out.Filename
	}
	if err := os.WriteFile(path, out.Content, 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "%s: %d page(s), %d bytes\n", path, out.Pages, len(out.Content))
	return nil
}
