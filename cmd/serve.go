package cmd

import (
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/abhisek/mathsheet/internal/render/pdf"
	"github.com/abhisek/mathsheet/internal/server"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the web editor",
	Long: `Serve the worksheet editor over HTTP. The latest stored batch is loaded
on start; questions edited in the browser are saved immediately.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		settings, err := resolveSettings(cmd)
		if err != nil {
			return err
		}
		addr, _ := cmd.Flags().GetString("addr")
		if addr == "" {
			addr = appConfig.Server.Addr()
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		d, err := openDeps(cmd, settings, llmOptional)
		if err != nil {
			return err
		}
		defer d.Close()

		if err := d.workbook.Load(ctx, ""); err != nil {
			return err
		}

		labels := d.workbook.Paginator().Labels()
		renderer := pdf.New(pdf.Options{
			FontPath: appConfig.PDF.FontPath,
			Title:    labels.SheetTitle,
			Creator:  "mathsheet " + version,
		})
		if renderer.FontMissing(labels) {
			d.logger.Warn("PDF export unavailable: set MATHSHEET_PDF_FONT to a UTF-8 TrueType font", "locale", labels.Locale)
		}

		srv := server.New(server.Options{
			Workbook: d.workbook,
			PDF:      renderer,
			Settings: settings,
			Logger:   d.logger,
		})
		return srv.Run(ctx, addr)
	},
}

func init() {
	serveCmd.Flags().String("addr", "", "Listen address (default MATHSHEET_SERVER_HOST:MATHSHEET_SERVER_PORT)")
	addSettingsFlags(serveCmd)
}
