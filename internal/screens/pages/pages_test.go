package pages

import (
	"context"
	"io"
	"log/slog"
	"strings"
	"testing"
	"time"

	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/mathsheet/internal/history"
	"github.com/abhisek/mathsheet/internal/router"
	"github.com/abhisek/mathsheet/internal/screen"
	"github.com/abhisek/mathsheet/internal/screens/editor"
	"github.com/abhisek/mathsheet/internal/workbook"
	"github.com/abhisek/mathsheet/internal/worksheet"
)

var created = time.UnixMilli(1_700_000_000_000)

type stubRunner struct{ mental int }

func (r stubRunner) Run(_ context.Context, _ worksheet.Settings, hist *history.History) ([]worksheet.Worksheet, *history.History, error) {
	ws := worksheet.New(0, created)
	for i := 0; i < r.mental; i++ {
		ws.Questions[worksheet.Mental] = append(ws.Questions[worksheet.Mental], worksheet.Question{
			ID:       worksheet.QuestionID(worksheet.Mental, 0, created, i),
			Category: worksheet.Mental,
			Text:     strings.Repeat("1", i+1) + " + 1 =",
		})
	}
	return []worksheet.Worksheet{ws}, hist.Clone(), nil
}

func newWorkbook(mental int) *workbook.Workbook {
	return workbook.New(workbook.Options{
		Runner: stubRunner{mental: mental},
		Logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
		Now:    func() time.Time { return created },
	})
}

func key(r rune) tea.KeyPressMsg { return tea.KeyPressMsg{Code: r, Text: string(r)} }

func TestPages_EmptyWorkbook(t *testing.T) {
	s := New(newWorkbook(0), worksheet.DefaultSettings(), nil)
	if !strings.Contains(s.View(100, 30), "No worksheets yet") {
		t.Error("expected empty hint")
	}
	if _, _, ok := s.Selected(); ok {
		t.Error("nothing should be selected")
	}
	// Edit on an empty workbook is a no-op.
	if _, cmd := s.Update(tea.KeyPressMsg{Code: tea.KeyEnter}); cmd != nil {
		t.Error("expected no command")
	}
}

func TestPages_GenerateThenNavigate(t *testing.T) {
	wb := newWorkbook(6)
	s := New(wb, worksheet.DefaultSettings(), nil)

	_, cmd := s.Update(key('g'))
	if cmd == nil {
		t.Fatal("expected generate command")
	}
	if !strings.Contains(s.View(100, 30), "Generating") {
		t.Error("expected progress line")
	}
	s.Update(cmd())

	view := s.View(100, 30)
	if !strings.Contains(view, "generated 1 worksheet(s)") {
		t.Errorf("missing notice:\n%s", view)
	}
	if !strings.Contains(view, "1 + 1 =") {
		t.Errorf("missing question text:\n%s", view)
	}

	ref, cat, ok := s.Selected()
	if !ok || cat != worksheet.Mental || ref.Number != 1 {
		t.Fatalf("unexpected selection %+v %v %v", ref, cat, ok)
	}

	s.Update(tea.KeyPressMsg{Code: tea.KeyDown})
	s.Update(tea.KeyPressMsg{Code: tea.KeyDown})
	ref, _, _ = s.Selected()
	if ref.Number != 3 {
		t.Errorf("cursor at %d, want 3", ref.Number)
	}

	_, cmd = s.Update(tea.KeyPressMsg{Code: tea.KeyEnter})
	if cmd == nil {
		t.Fatal("expected push command")
	}
	push, ok := cmd().(router.PushScreenMsg)
	if !ok {
		t.Fatal("expected PushScreenMsg")
	}
	if _, ok := push.Screen.(*editor.EditorScreen); !ok {
		t.Errorf("pushed %T, want editor", push.Screen)
	}
}

func TestPages_ReloadAfterEdit(t *testing.T) {
	wb := newWorkbook(2)
	if _, err := wb.Generate(context.Background(), worksheet.DefaultSettings()); err != nil {
		t.Fatal(err)
	}
	s := New(wb, worksheet.DefaultSettings(), nil)

	id := worksheet.QuestionID(worksheet.Mental, 0, created, 0)
	if err := wb.UpdateQuestion(context.Background(), worksheet.Mental, id, "99 - 9 ="); err != nil {
		t.Fatal(err)
	}
	s.Update(screen.WorkbookChangedMsg{Notice: "saved"})

	ref, _, ok := s.Selected()
	if !ok || ref.Text != "99 - 9 =" {
		t.Errorf("selection not refreshed: %+v", ref)
	}
	if s.Status() != "1/1" {
		t.Errorf("status = %q", s.Status())
	}
}

func TestPages_BatchPickerHiddenWithoutLister(t *testing.T) {
	s := New(newWorkbook(1), worksheet.DefaultSettings(), nil)
	if _, cmd := s.Update(key('b')); cmd != nil {
		t.Error("batch picker should be disabled")
	}
	for _, h := range s.KeyHints() {
		if h.Key == "b" {
			t.Error("batch hint should be hidden")
		}
	}
}
