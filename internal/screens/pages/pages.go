// Package pages renders paginated worksheets in the terminal and lets the
// user pick a question to edit.
package pages

import (
	"context"
	"errors"
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/mathsheet/internal/paginate"
	"github.com/abhisek/mathsheet/internal/router"
	"github.com/abhisek/mathsheet/internal/screen"
	"github.com/abhisek/mathsheet/internal/screens/batches"
	"github.com/abhisek/mathsheet/internal/screens/editor"
	"github.com/abhisek/mathsheet/internal/ui/layout"
	"github.com/abhisek/mathsheet/internal/ui/theme"
	"github.com/abhisek/mathsheet/internal/workbook"
	"github.com/abhisek/mathsheet/internal/worksheet"
)

type generatedMsg struct {
	sets int
	err  error
}

// item locates one question on the current page.
type item struct {
	category worksheet.Category
	row      int
	col      int
	ref      paginate.RowItem
}

// PagesScreen browses the pages of the loaded batch.
type PagesScreen struct {
	wb         *workbook.Workbook
	batches    batches.Lister
	settings   worksheet.Settings
	pages      []paginate.Page
	page       int
	cursor     int
	items      []item
	generating bool
	notice     string
	errMsg     string
}

var _ screen.Screen = (*PagesScreen)(nil)
var _ screen.KeyHintProvider = (*PagesScreen)(nil)

// New creates a PagesScreen. settings are used when the user asks for a
// new batch; lister may be nil to hide the batch picker.
func New(wb *workbook.Workbook, settings worksheet.Settings, lister batches.Lister) *PagesScreen {
	s := &PagesScreen{wb: wb, batches: lister, settings: settings}
	s.reload()
	return s
}

func (s *PagesScreen) Init() tea.Cmd { return nil }

func (s *PagesScreen) Title() string {
	if len(s.pages) == 0 {
		return "Worksheets"
	}
	p := s.pages[s.page]
	return fmt.Sprintf("Set %d · Page %d", p.SetIndex+1, p.PageNumber)
}

// Status summarizes the position for the header bar.
func (s *PagesScreen) Status() string {
	if len(s.pages) == 0 {
		return ""
	}
	return fmt.Sprintf("%d/%d", s.page+1, len(s.pages))
}

func (s *PagesScreen) KeyHints() []layout.KeyHint {
	hints := []layout.KeyHint{
		{Key: "←→", Description: "Page"},
		{Key: "↑↓", Description: "Question"},
		{Key: "Enter", Description: "Edit"},
		{Key: "g", Description: "Generate"},
	}
	if s.batches != nil {
		hints = append(hints, layout.KeyHint{Key: "b", Description: "Batches"})
	}
	return append(hints, layout.KeyHint{Key: "Ctrl+C", Description: "Quit"})
}

// reload re-paginates the workbook, keeping the page position when it
// still exists.
func (s *PagesScreen) reload() {
	pages, err := s.wb.Pages()
	switch {
	case errors.Is(err, workbook.ErrNoBatch):
		pages = nil
	case err != nil:
		s.errMsg = err.Error()
		return
	}
	s.pages = pages
	if s.page >= len(pages) {
		s.page = max(0, len(pages)-1)
	}
	s.collect()
}

func (s *PagesScreen) collect() {
	s.items = s.items[:0]
	if len(s.pages) == 0 {
		s.cursor = 0
		return
	}
	for ri, r := range s.pages[s.page].Rows() {
		for ci, it := range r.Items {
			s.items = append(s.items, item{category: r.Category, row: ri, col: ci, ref: it})
		}
	}
	if s.cursor >= len(s.items) {
		s.cursor = max(0, len(s.items)-1)
	}
}

// Selected returns the question under the cursor.
func (s *PagesScreen) Selected() (paginate.RowItem, worksheet.Category, bool) {
	if s.cursor < 0 || s.cursor >= len(s.items) {
		return paginate.RowItem{}, 0, false
	}
	it := s.items[s.cursor]
	return it.ref, it.category, true
}

func (s *PagesScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case screen.WorkbookChangedMsg:
		s.reload()
		s.notice = msg.Notice
		return s, nil

	case generatedMsg:
		s.generating = false
		if msg.err != nil {
			s.errMsg = "generation failed: " + msg.err.Error()
			return s, nil
		}
		s.page, s.cursor = 0, 0
		s.reload()
		s.notice = fmt.Sprintf("generated %d worksheet(s)", msg.sets)
		return s, nil

	case tea.KeyMsg:
		return s.handleKey(msg)
	}
	return s, nil
}

func (s *PagesScreen) handleKey(msg tea.KeyMsg) (screen.Screen, tea.Cmd) {
	switch msg.String() {
	case "left", "h", "pgup":
		if s.page > 0 {
			s.page--
			s.cursor = 0
			s.collect()
		}
	case "right", "l", "pgdown":
		if s.page < len(s.pages)-1 {
			s.page++
			s.cursor = 0
			s.collect()
		}
	case "up", "k":
		if s.cursor > 0 {
			s.cursor--
		}
	case "down", "j":
		if s.cursor < len(s.items)-1 {
			s.cursor++
		}
	case "enter", "e":
		ref, cat, ok := s.Selected()
		if !ok {
			return s, nil
		}
		ed := editor.New(s.wb, cat, ref.QuestionID, ref.Text)
		return s, func() tea.Msg { return router.PushScreenMsg{Screen: ed} }
	case "g":
		if s.generating {
			return s, nil
		}
		s.generating = true
		s.errMsg, s.notice = "", ""
		return s, s.generate()
	case "b":
		if s.batches == nil {
			return s, nil
		}
		bs := batches.New(s.wb, s.batches)
		return s, func() tea.Msg { return router.PushScreenMsg{Screen: bs} }
	}
	return s, nil
}

func (s *PagesScreen) generate() tea.Cmd {
	wb, settings := s.wb, s.settings
	return func() tea.Msg {
		b, err := wb.Generate(context.Background(), settings)
		if err != nil {
			return generatedMsg{err: err}
		}
		return generatedMsg{sets: len(b.Worksheets)}
	}
}

func (s *PagesScreen) View(width, height int) string {
	var b strings.Builder

	switch {
	case s.errMsg != "":
		b.WriteString(theme.Failure.Render(s.errMsg) + "\n")
	case s.generating:
		b.WriteString(theme.Hint.Render("Generating worksheets, this can take a minute...") + "\n")
	case s.notice != "":
		b.WriteString(theme.Notice.Render(s.notice) + "\n")
	}

	if len(s.pages) == 0 {
		b.WriteString(lipgloss.NewStyle().
			Width(width).Align(lipgloss.Center).Foreground(theme.TextDim).Italic(true).
			Render("\n\nNo worksheets yet. Press g to generate a batch."))
		return b.String()
	}

	sheetWidth := width - 4
	if !layout.IsCompactWidth(width) {
		sheetWidth = min(sheetWidth, 96)
	}
	sheet := theme.Sheet.Width(sheetWidth).Render(s.renderPage(sheetWidth - 6))
	b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, sheet))
	return b.String()
}

func (s *PagesScreen) renderPage(width int) string {
	page := s.pages[s.page]
	selected := -1
	var selRow, selCol int
	if s.cursor < len(s.items) {
		selected = s.cursor
		selRow, selCol = s.items[s.cursor].row, s.items[s.cursor].col
	}

	var lines []string
	row := 0
	for _, blk := range page.Blocks {
		switch blk := blk.(type) {
		case paginate.Header:
			lines = append(lines, theme.Title.Width(width).Render(blk.Title))
			fields := make([]string, len(blk.Fields))
			for i, f := range blk.Fields {
				fields[i] = paginate.FieldBlank(f)
			}
			lines = append(lines, theme.Subtitle.Width(width).Render(strings.Join(fields, "   ")), "")
		case paginate.SectionTitle:
			lines = append(lines,
				theme.Section.Render(fmt.Sprintf("%d. %s", blk.Number, blk.Title))+"  "+
					theme.Instruction.Render(blk.Instruction))
		case paginate.Row:
			cols := max(blk.Columns, 1)
			cellWidth := width / cols
			cells := make([]string, 0, len(blk.Items))
			for ci, it := range blk.Items {
				text := it.Text
				if p := paginate.ItemPrefix(blk.Category, it.Number); p != "" {
					text = p + " " + text
				}
				style := theme.Unselected
				if selected >= 0 && row == selRow && ci == selCol {
					style = theme.Selected
				}
				cells = append(cells, style.Width(cellWidth).Render(text))
			}
			lines = append(lines, lipgloss.JoinHorizontal(lipgloss.Top, cells...))
			row++
		case paginate.Footer:
			lines = append(lines, "", theme.Footer.Width(width).Render(blk.Label))
		}
	}
	return strings.Join(lines, "\n")
}
