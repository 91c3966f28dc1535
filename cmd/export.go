package cmd

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/abhisek/mathsheet/internal/store"
	"github.com/abhisek/mathsheet/internal/worksheet"
)

var exportCmd = &cobra.Command{
	Use:   "export [batch-id]",
	Short: "Export a stored batch to PDF, Excel, HTML or JSON",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		batchID := ""
		if len(args) == 1 {
			batchID = args[0]
		}

		d, err := openDeps(cmd, worksheet.DefaultSettings(), llmNone)
		if err != nil {
			return err
		}
		defer d.Close()

		if err := loadBatch(cmd, d, batchID); err != nil {
			return err
		}

		n, err := writeOutputs(cmd, d.workbook)
		if err != nil {
			return err
		}
		if n == 0 {
			return errors.New("nothing to export: pass --pdf, --xlsx, --html or --json")
		}
		return nil
	},
}

func init() {
	addOutputFlags(exportCmd)
}

// loadBatch loads batchID, or the latest batch when it is empty, and fails
// when the database holds no batch at all.
func loadBatch(cmd *cobra.Command, d *deps, batchID string) error {
	if err := d.workbook.Load(cmd.Context(), batchID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return fmt.Errorf("batch %q not found", batchID)
		}
		return fmt.Errorf("load batch: %w", err)
	}
	b, err := d.workbook.Batch()
	if err != nil {
		return errors.New("no stored batches yet: run mathsheet generate first")
	}
	d.logger.Debug("batch loaded", "batch", b.ID, "sets", len(b.Worksheets))
	return nil
}
