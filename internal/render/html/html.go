// Package html renders paginated worksheets as printable, optionally
// editable, HTML.
package html

import (
	"embed"
	"fmt"
	"html/template"
	"io"

	"github.com/abhisek/mathsheet/internal/paginate"
	"github.com/abhisek/mathsheet/internal/worksheet"
)

//go:embed templates/*.html
var templateFS embed.FS

var tmpl = template.Must(template.New("").Funcs(template.FuncMap{
	"fieldBlank": paginate.FieldBlank,
}).ParseFS(templateFS, "templates/*.html"))

// Document is the data behind one rendered HTML page.
type Document struct {
	Title string
	Pages []PageView
	// Editable turns question texts into inputs wired to the edit API.
	Editable bool
	// Form, when set, renders the generation settings panel.
	Form *Form
	// Notice is shown above the sheets, e.g. a generation error.
	Notice string
}

// Form carries the settings panel state.
type Form struct {
	Settings     worksheet.Settings
	Categories   []CategoryField
	HistoryCount int
	MaxBatch     int
}

// CategoryField is one count input of the settings form.
type CategoryField struct {
	Key   string
	Label string
	Value int
}

// PageView is a page flattened for templates.
type PageView struct {
	SetIndex   int
	PageNumber int
	Header     *paginate.Header
	Sections   []SectionView
	Footer     string
}

// SectionView groups a title, if placed on this page, with the rows that
// follow it.
type SectionView struct {
	Title *paginate.SectionTitle
	Rows  []RowView
}

// RowView is one row of items.
type RowView struct {
	Category string
	Columns  int
	Height   int
	Items    []ItemView
}

// ItemView is one editable question.
type ItemView struct {
	ID        string
	Category  string
	Prefix    string
	Text      string
	Multiline bool
}

// Views converts paginated pages to template views.
func Views(pages []paginate.Page) []PageView {
	out := make([]PageView, 0, len(pages))
	for _, p := range pages {
		v := PageView{SetIndex: p.SetIndex, PageNumber: p.PageNumber}
		for _, b := range p.Blocks {
			switch b := b.(type) {
			case paginate.Header:
				v.Header = &b
			case paginate.SectionTitle:
				v.Sections = append(v.Sections, SectionView{Title: &b})
			case paginate.Row:
				if len(v.Sections) == 0 {
					// Continuation of a section begun on an earlier page.
					v.Sections = append(v.Sections, SectionView{})
				}
				last := &v.Sections[len(v.Sections)-1]
				last.Rows = append(last.Rows, rowView(b))
			case paginate.Footer:
				v.Footer = b.Label
			}
		}
		out = append(out, v)
	}
	return out
}

func rowView(r paginate.Row) RowView {
	rv := RowView{Category: r.Category.Key(), Columns: r.Columns, Height: r.H}
	for _, it := range r.Items {
		rv.Items = append(rv.Items, ItemView{
			ID:        it.QuestionID,
			Category:  r.Category.Key(),
			Prefix:    paginate.ItemPrefix(r.Category, it.Number),
			Text:      it.Text,
			Multiline: r.Category.Multiline(),
		})
	}
	return rv
}

// NewForm builds the settings panel for s using the section names of l.
func NewForm(s worksheet.Settings, l paginate.Labels, historyCount int) *Form {
	f := &Form{Settings: s, HistoryCount: historyCount, MaxBatch: worksheet.MaxBatchSize}
	for _, c := range worksheet.Categories() {
		label := l.Sections[c]
		if label == "" {
			label = c.Key()
		}
		f.Categories = append(f.Categories, CategoryField{Key: c.Key(), Label: label, Value: s.Counts.For(c)})
	}
	return f
}

// Render writes a full HTML document.
func Render(w io.Writer, doc Document) error {
	if err := tmpl.ExecuteTemplate(w, "document.html", doc); err != nil {
		return fmt.Errorf("render html: %w", err)
	}
	return nil
}
