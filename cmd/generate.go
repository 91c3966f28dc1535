package cmd

import (
	"fmt"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/abhisek/mathsheet/internal/paginate"
)

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Generate a batch of worksheets",
	Long: `Generate one or more worksheet sets with the configured LLM provider.

The batch is stored in the database and its questions are added to the
history so later batches avoid repeating them.`,
	Example: `  mathsheet generate --mental 25 --vertical 6 --word 2 --pdf sheets.pdf
  mathsheet generate --settings preset.yaml --sets 3 --xlsx sheets.xlsx`,
	RunE: func(cmd *cobra.Command, args []string) error {
		settings, err := resolveSettings(cmd)
		if err != nil {
			return err
		}

		if err := checkOutputs(cmd, paginate.LabelsFor(appConfig.Locale, settings.Grade)); err != nil {
			return err
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()
		cmd.SetContext(ctx)

		d, err := openDeps(cmd, settings, llmRequired)
		if err != nil {
			return err
		}
		defer d.Close()

		if err := d.workbook.Load(ctx, ""); err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "Generating %d worksheet set(s), %d questions each...\n", settings.BatchSize, settings.Counts.Total())

		batch, err := d.workbook.Generate(ctx, settings)
		if err != nil {
			return fmt.Errorf("generate: %w", err)
		}

		pages, _ := d.workbook.Pages()
		fmt.Fprintf(out, "Batch %s: %d set(s), %d page(s), history now %d questions.\n",
			batch.ID, len(batch.Worksheets), len(pages), d.workbook.History().Len())

		n, err := writeOutputs(cmd, d.workbook)
		if err != nil {
			return err
		}
		if n == 0 {
			fmt.Fprintf(out, "Open it with: mathsheet edit %s\n", batch.ID)
		}
		return nil
	},
}

func init() {
	addSettingsFlags(generateCmd)
	addOutputFlags(generateCmd)
}
