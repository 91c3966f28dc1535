package cmd

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/abhisek/mathsheet/internal/app"
	"github.com/abhisek/mathsheet/internal/platform/logging"
)

var editCmd = &cobra.Command{
	Use:   "edit [batch-id]",
	Short: "Open a batch in the terminal editor",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		batchID := ""
		if len(args) == 1 {
			batchID = args[0]
		}
		return runEditor(cmd, batchID)
	},
}

func init() {
	addSettingsFlags(editCmd)
}

// runEditor opens the terminal editor on batchID, or on the latest batch.
// An empty database starts the editor with no pages.
func runEditor(cmd *cobra.Command, batchID string) error {
	settings, err := resolveSettings(cmd)
	if err != nil {
		return err
	}
	// The alternate screen owns the terminal, so logs go to a file next to
	// the database.
	closeLog, err := logToFile(cmd)
	if err != nil {
		return err
	}
	defer closeLog()

	d, err := openDeps(cmd, settings, llmOptional)
	if err != nil {
		return err
	}
	defer d.Close()

	if batchID != "" {
		if err := loadBatch(cmd, d, batchID); err != nil {
			return err
		}
	} else if err := d.workbook.Load(cmd.Context(), ""); err != nil {
		return err
	}

	return app.Run(app.Options{
		Workbook: d.workbook,
		Settings: settings,
		Batches:  d.store.WorksheetRepo(),
	})
}

func logToFile(cmd *cobra.Command) (func(), error) {
	dbPath, err := resolveDBPath(cmd)
	if err != nil {
		return nil, fmt.Errorf("resolve database path: %w", err)
	}
	path := filepath.Join(filepath.Dir(dbPath), "mathsheet.log")
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o600)
	if err != nil {
		return nil, fmt.Errorf("open log file: %w", err)
	}
	prev := slog.Default()
	slog.SetDefault(logging.New(f, appConfig.Log.Level, appConfig.Log.Format))
	return func() {
		slog.SetDefault(prev)
		_ = f.Close()
	}, nil
}
