// Package paginate lays worksheets out onto fixed-height A4 pages.
//
// Layout is a single greedy pass with no backtracking. Heights are
// estimates in px: a page fits PageHeight of content, a worksheet's first
// page opens with a header, a section title is never left at the bottom of
// a page without at least one row of its items, and every page ends with a
// footer carrying its number within the worksheet. Estimates can be wrong
// for unusually long question text, in which case the rendered page
// overflows; nothing is measured.
package paginate

import (
	"fmt"

	"github.com/abhisek/mathsheet/internal/worksheet"
)

const (
	PageHeight    = 900
	HeaderHeight  = 160
	TitleHeight   = 60
	FooterReserve = 20
)

// DefaultOrder is the order in which category sections appear on a sheet.
var DefaultOrder = []worksheet.Category{
	worksheet.FillInBlank,
	worksheet.Compare,
	worksheet.Mental,
	worksheet.Vertical,
	worksheet.Mixed,
	worksheet.Word,
}

// Layout holds the page geometry. Zero RowHeights/Columns entries fall back
// to the category's own parameters.
type Layout struct {
	PageHeight    int
	HeaderHeight  int
	TitleHeight   int
	FooterReserve int
	Order         []worksheet.Category
	RowHeights    map[worksheet.Category]int
	Columns       map[worksheet.Category]int
}

// DefaultLayout returns the A4 layout.
func DefaultLayout() Layout {
	return Layout{
		PageHeight:    PageHeight,
		HeaderHeight:  HeaderHeight,
		TitleHeight:   TitleHeight,
		FooterReserve: FooterReserve,
		Order:         append([]worksheet.Category(nil), DefaultOrder...),
	}
}

// RowHeight returns the row height used for c.
func (l Layout) RowHeight(c worksheet.Category) int {
	if h := l.RowHeights[c]; h > 0 {
		return h
	}
	return c.RowHeight()
}

// ColumnsFor returns the number of items per row for c.
func (l Layout) ColumnsFor(c worksheet.Category) int {
	if n := l.Columns[c]; n > 0 {
		return n
	}
	if n := c.Columns(); n > 0 {
		return n
	}
	return 1
}

// Sections returns the category order, falling back to DefaultOrder.
func (l Layout) Sections() []worksheet.Category {
	if len(l.Order) == 0 {
		return DefaultOrder
	}
	return l.Order
}

// Paginator turns worksheets into pages. It holds no mutable state and is
// safe for concurrent use.
type Paginator struct {
	layout Layout
	labels Labels
}

// New creates a Paginator.
func New(layout Layout, labels Labels) *Paginator {
	return &Paginator{layout: layout, labels: labels}
}

// Default returns a Paginator with the A4 layout and Chinese grade 3 labels.
func Default() *Paginator {
	return New(DefaultLayout(), ChineseLabels(3))
}

// Layout returns the paginator's geometry.
func (p *Paginator) Layout() Layout { return p.layout }

// Labels returns the paginator's labels.
func (p *Paginator) Labels() Labels { return p.labels }

// Paginate lays out every worksheet in order. All pages of worksheet k
// precede those of worksheet k+1. An empty input yields no pages.
func (p *Paginator) Paginate(sets []worksheet.Worksheet) []Page {
	var pages []Page
	for i, ws := range sets {
		setNumber := 0
		if len(sets) > 1 {
			setNumber = i + 1
		}
		pages = append(pages, p.paginateOne(i, setNumber, ws)...)
	}
	return pages
}

// Paginate lays out worksheets with the default paginator.
func Paginate(sets []worksheet.Worksheet) []Page {
	return Default().Paginate(sets)
}

// sheet accumulates blocks for the worksheet currently being laid out.
type sheet struct {
	layout   Layout
	labels   Labels
	setIndex int
	wsID     string
	pageNum  int
	used     int
	blocks   []Block
	pages    []Page
}

func (s *sheet) place(b Block) {
	s.blocks = append(s.blocks, b)
	s.used += b.Height()
}

func (s *sheet) fits(h int) bool {
	return s.used+h <= s.layout.PageHeight
}

// flush closes the current page with a footer. An empty page is never
// emitted.
func (s *sheet) flush() {
	if len(s.blocks) == 0 {
		return
	}
	s.pageNum++
	s.blocks = append(s.blocks, Footer{
		PageNumber: s.pageNum,
		Label:      fmt.Sprintf(s.labels.FooterFormat, s.pageNum),
		H:          s.layout.FooterReserve,
	})
	s.pages = append(s.pages, Page{
		SetIndex:    s.setIndex,
		WorksheetID: s.wsID,
		PageNumber:  s.pageNum,
		Blocks:      s.blocks,
	})
	s.blocks = nil
	s.used = 0
}

func (p *Paginator) paginateOne(setIndex, setNumber int, ws worksheet.Worksheet) []Page {
	s := &sheet{
		layout:   p.layout,
		labels:   p.labels,
		setIndex: setIndex,
		wsID:     ws.ID,
	}

	s.place(Header{
		Title:     p.labels.headerTitle(setNumber),
		SetNumber: setNumber,
		Fields:    p.labels.Fields,
		H:         p.layout.HeaderHeight,
	})

	section := 0
	for _, c := range p.layout.Sections() {
		qs := ws.Questions[c]
		if len(qs) == 0 {
			continue
		}
		rowH := p.layout.RowHeight(c)
		cols := p.layout.ColumnsFor(c)

		if !s.fits(p.layout.TitleHeight + rowH) {
			s.flush()
		}
		section++
		s.place(SectionTitle{
			Number:      section,
			Category:    c,
			Title:       p.labels.section(c),
			Instruction: p.labels.instruction(c, len(qs)),
			Points:      c.Points(),
			Count:       len(qs),
			H:           p.layout.TitleHeight,
		})

		for start := 0; start < len(qs); start += cols {
			end := min(start+cols, len(qs))
			if !s.fits(rowH) {
				s.flush()
			}
			items := make([]RowItem, 0, end-start)
			for j := start; j < end; j++ {
				items = append(items, RowItem{
					Number:     j + 1,
					QuestionID: qs[j].ID,
					Text:       qs[j].Text,
				})
			}
			s.place(Row{Category: c, Columns: cols, Items: items, H: rowH})
		}
	}

	s.flush()
	return s.pages
}
