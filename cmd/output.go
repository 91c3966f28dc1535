package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/abhisek/mathsheet/internal/paginate"
	"github.com/abhisek/mathsheet/internal/render/html"
	"github.com/abhisek/mathsheet/internal/render/pdf"
	"github.com/abhisek/mathsheet/internal/render/xlsx"
	"github.com/abhisek/mathsheet/internal/workbook"
)

// addOutputFlags registers the export destinations.
func addOutputFlags(cmd *cobra.Command) {
	f := cmd.Flags()
	f.String("pdf", "", "Write the pages to this PDF file (Chinese labels need MATHSHEET_PDF_FONT set to a UTF-8 TTF font)")
	f.String("xlsx", "", "Write the questions to this Excel workbook")
	f.String("html", "", "Write printable HTML to this file")
	f.String("json", "", "Write the laid-out pages as JSON to this file (- for stdout)")
}

// checkOutputs rejects a --pdf destination that could not be rendered with
// the configured font, before any questions are generated.
func checkOutputs(cmd *cobra.Command, labels paginate.Labels) error {
	pdfPath, _ := cmd.Flags().GetString("pdf")
	if pdfPath == "" {
		return nil
	}
	if pdf.New(pdf.Options{FontPath: appConfig.PDF.FontPath}).FontMissing(labels) {
		return fmt.Errorf("--pdf %s: %w", pdfPath, pdf.ErrFontRequired)
	}
	return nil
}

// writeOutputs renders the workbook's batch to every requested format and
// returns the number of files written.
func writeOutputs(cmd *cobra.Command, wb *workbook.Workbook) (int, error) {
	f := cmd.Flags()
	pdfPath, _ := f.GetString("pdf")
	xlsxPath, _ := f.GetString("xlsx")
	htmlPath, _ := f.GetString("html")
	jsonPath, _ := f.GetString("json")

	pages, err := wb.Pages()
	if err != nil {
		return 0, err
	}
	labels := wb.Paginator().Labels()
	written := 0

	if pdfPath != "" {
		r := pdf.New(pdf.Options{FontPath: appConfig.PDF.FontPath, Title: labels.SheetTitle, Creator: "mathsheet " + version})
		if err := r.RenderFile(pdfPath, pages); err != nil {
			return written, fmt.Errorf("write pdf: %w", err)
		}
		written++
	}

	if xlsxPath != "" {
		sets, err := wb.Worksheets()
		if err != nil {
			return written, err
		}
		if err := writeFile(xlsxPath, func(w io.Writer) error {
			return xlsx.Write(w, sets, wb.Paginator().Layout(), labels)
		}); err != nil {
			return written, fmt.Errorf("write xlsx: %w", err)
		}
		written++
	}

	if htmlPath != "" {
		doc := html.Document{Title: labels.SheetTitle, Pages: html.Views(pages)}
		if err := writeFile(htmlPath, func(w io.Writer) error { return html.Render(w, doc) }); err != nil {
			return written, fmt.Errorf("write html: %w", err)
		}
		written++
	}

	if jsonPath != "" {
		encode := func(w io.Writer) error {
			enc := json.NewEncoder(w)
			enc.SetIndent("", "  ")
			return enc.Encode(pages)
		}
		if jsonPath == "-" {
			err = encode(cmd.OutOrStdout())
		} else {
			err = writeFile(jsonPath, encode)
		}
		if err != nil {
			return written, fmt.Errorf("write json: %w", err)
		}
		written++
	}

	return written, nil
}

func writeFile(path string, fn func(io.Writer) error) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := fn(f); err != nil {
		_ = f.Close()
		return err
	}
	return f.Close()
}
