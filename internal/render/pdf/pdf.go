// Package pdf renders paginated worksheets to A4 PDF documents.
package pdf

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"codeberg.org/go-pdf/fpdf"

	"github.com/abhisek/mathsheet/internal/paginate"
	"github.com/abhisek/mathsheet/internal/worksheet"
)

const (
	pageWidthMM  = 210.0
	pageHeightMM = 297.0
	marginMM     = 20.0
	footerFromMM = 12.0

	// Layout heights are CSS pixels at 96 dpi.
	pxToMM = 25.4 / 96

	unicodeFamily = "worksheet"
	coreFamily    = "Helvetica"
)

// ErrFontRequired is returned when the pages contain text the core fonts
// cannot encode and no TrueType font was configured.
var ErrFontRequired = errors.New("a UTF-8 TrueType font is required for non-Latin text; set MATHSHEET_PDF_FONT")

// Options configures a Renderer.
type Options struct {
	// FontPath is a TTF file used for all text. Without it the core
	// Helvetica font is used, which only covers cp1252.
	FontPath string
	Title    string
	Creator  string
}

// Renderer draws pages with fpdf.
type Renderer struct {
	opts Options
}

// New creates a Renderer.
func New(opts Options) *Renderer {
	if opts.Creator == "" {
		opts.Creator = "mathsheet"
	}
	return &Renderer{opts: opts}
}

// doc bundles the fpdf document with the active font family and text
// translator.
type doc struct {
	*fpdf.Fpdf
	family string
	tr     func(string) string
}

// Render writes the pages as one PDF document.
func (r *Renderer) Render(w io.Writer, pages []paginate.Page) error {
	d, err := r.newDoc(pages)
	if err != nil {
		return err
	}

	for _, p := range pages {
		d.AddPage()
		y := marginMM
		for _, b := range p.Blocks {
			switch b := b.(type) {
			case paginate.Header:
				d.header(b, y)
			case paginate.SectionTitle:
				d.sectionTitle(b, y)
			case paginate.Row:
				d.row(b, y)
			case paginate.Footer:
				d.footer(b)
			}
			y += float64(b.Height()) * pxToMM
		}
	}

	if err := d.Error(); err != nil {
		return fmt.Errorf("render pdf: %w", err)
	}
	return d.Output(w)
}

// RenderFile writes the pages to path. Nothing is left at path on error.
func (r *Renderer) RenderFile(path string, pages []paginate.Page) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := r.Render(f, pages); err != nil {
		f.Close()
		os.Remove(path)
		return err
	}
	return f.Close()
}

// FontMissing reports whether pages drawn with these labels would fail
// with ErrFontRequired.
func (r *Renderer) FontMissing(l paginate.Labels) bool {
	return r.opts.FontPath == "" && LabelsNeedUnicodeFont(l)
}

func (r *Renderer) newDoc(pages []paginate.Page) (*doc, error) {
	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(marginMM, marginMM, marginMM)
	pdf.SetAutoPageBreak(false, 0)
	pdf.SetTitle(r.opts.Title, true)
	pdf.SetCreator(r.opts.Creator, true)

	d := &doc{Fpdf: pdf}
	if r.opts.FontPath != "" {
		if _, err := os.Stat(r.opts.FontPath); err != nil {
			return nil, fmt.Errorf("pdf font: %w", err)
		}
		pdf.AddUTF8Font(unicodeFamily, "", r.opts.FontPath)
		pdf.AddUTF8Font(unicodeFamily, "B", r.opts.FontPath)
		d.family = unicodeFamily
		d.tr = func(s string) string { return s }
	} else {
		if NeedsUnicodeFont(pages) {
			return nil, ErrFontRequired
		}
		d.family = coreFamily
		d.tr = pdf.UnicodeTranslatorFromDescriptor("")
	}
	if err := pdf.Error(); err != nil {
		return nil, fmt.Errorf("pdf font: %w", err)
	}
	return d, nil
}

func contentWidth() float64 { return pageWidthMM - 2*marginMM }

func (d *doc) header(h paginate.Header, y float64) {
	d.SetTextColor(15, 23, 42)
	d.SetFont(d.family, "B", 18)
	d.SetXY(marginMM, y)
	d.CellFormat(contentWidth(), 12, d.tr(h.Title), "", 0, "C", false, 0, "")

	if n := len(h.Fields); n > 0 {
		d.SetFont(d.family, "", 11)
		d.SetTextColor(71, 85, 105)
		cellW := contentWidth() / float64(n)
		for i, f := range h.Fields {
			d.SetXY(marginMM+float64(i)*cellW, y+18)
			d.CellFormat(cellW, 8, d.tr(paginate.FieldBlank(f)), "", 0, "C", false, 0, "")
		}
	}

	d.SetDrawColor(30, 41, 59)
	d.SetLineWidth(0.5)
	lineY := y + float64(h.H)*pxToMM - 8
	d.Line(marginMM, lineY, pageWidthMM-marginMM, lineY)
}

func (d *doc) sectionTitle(s paginate.SectionTitle, y float64) {
	d.SetTextColor(30, 41, 59)
	d.SetFont(d.family, "B", 13)
	d.SetXY(marginMM, y+2)
	heading := fmt.Sprintf("%d. %s", s.Number, s.Title)
	d.CellFormat(d.GetStringWidth(d.tr(heading))+2, 8, d.tr(heading), "", 0, "L", false, 0, "")

	d.SetFont(d.family, "", 10)
	d.SetTextColor(100, 116, 139)
	d.CellFormat(0, 8, d.tr(s.Instruction), "", 0, "L", false, 0, "")
}

func (d *doc) row(r paginate.Row, y float64) {
	cols := max(r.Columns, 1)
	gap := 6.0
	cellW := (contentWidth() - gap*float64(cols-1)) / float64(cols)

	d.SetTextColor(30, 41, 59)
	d.SetFont(d.family, "", 12)
	for i, it := range r.Items {
		x := marginMM + float64(i)*(cellW+gap)
		text := it.Text
		if p := paginate.ItemPrefix(r.Category, it.Number); p != "" {
			text = p + " " + text
		}
		d.SetXY(x, y+1)
		if r.Category.Multiline() {
			d.MultiCell(cellW, 6, d.tr(text), "", "L", false)
			continue
		}
		align := "L"
		if r.Category == worksheet.Compare {
			align = "C"
		}
		d.CellFormat(cellW, 7, d.tr(text), "", 0, align, false, 0, "")
	}
}

func (d *doc) footer(f paginate.Footer) {
	d.SetFont(d.family, "", 9)
	d.SetTextColor(148, 163, 184)
	d.SetXY(marginMM, pageHeightMM-footerFromMM)
	d.CellFormat(contentWidth(), 5, d.tr(f.Label), "", 0, "C", false, 0, "")
}

// cp1252Extras are the runes above Latin-1 that the core fonts still encode.
const cp1252Extras = "€‚ƒ„…†‡ˆ‰Š‹ŒŽ‘’“”•–—˜™š›œžŸ"

// NeedsUnicodeFont reports whether any text on the pages falls outside
// cp1252 and so cannot be drawn with a core font.
func NeedsUnicodeFont(pages []paginate.Page) bool {
	for _, p := range pages {
		for _, b := range p.Blocks {
			if anyOutsideCP1252(blockTexts(b)...) {
				return true
			}
		}
	}
	return false
}

// LabelsNeedUnicodeFont reports whether the fixed sheet text alone rules
// out the core fonts.
func LabelsNeedUnicodeFont(l paginate.Labels) bool {
	texts := append([]string{l.SheetTitle, l.SetFormat, l.FooterFormat, l.CountFormat}, l.Fields...)
	for _, c := range worksheet.Categories() {
		texts = append(texts, l.Sections[c], l.Instructions[c])
	}
	return anyOutsideCP1252(texts...)
}

func anyOutsideCP1252(texts ...string) bool {
	for _, s := range texts {
		for _, r := range s {
			if r > 0xFF && !strings.ContainsRune(cp1252Extras, r) {
				return true
			}
		}
	}
	return false
}

func blockTexts(b paginate.Block) []string {
	switch b := b.(type) {
	case paginate.Header:
		out := []string{b.Title}
		for _, f := range b.Fields {
			out = append(out, paginate.FieldBlank(f))
		}
		return out
	case paginate.SectionTitle:
		return []string{b.Title, b.Instruction}
	case paginate.Row:
		out := make([]string, 0, len(b.Items)+1)
		for _, it := range b.Items {
			out = append(out, paginate.ItemPrefix(b.Category, it.Number), it.Text)
		}
		return out
	case paginate.Footer:
		return []string{b.Label}
	}
	return nil
}
