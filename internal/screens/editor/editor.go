// Package editor edits the text of a single question.
package editor

import (
	"context"
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/mathsheet/internal/problemgen"
	"github.com/abhisek/mathsheet/internal/router"
	"github.com/abhisek/mathsheet/internal/screen"
	"github.com/abhisek/mathsheet/internal/ui/components"
	"github.com/abhisek/mathsheet/internal/ui/layout"
	"github.com/abhisek/mathsheet/internal/ui/theme"
	"github.com/abhisek/mathsheet/internal/worksheet"
)

// Updater applies a question edit. *workbook.Workbook implements it.
type Updater interface {
	UpdateQuestion(ctx context.Context, c worksheet.Category, id, text string) error
}

type savedMsg struct{ err error }

// EditorScreen edits one question and saves it through an Updater.
type EditorScreen struct {
	wb       Updater
	category worksheet.Category
	id       string
	original string
	input    components.TextInput
	saving   bool
}

var _ screen.Screen = (*EditorScreen)(nil)
var _ screen.KeyHintProvider = (*EditorScreen)(nil)

// New creates an editor prefilled with the current text.
func New(wb Updater, c worksheet.Category, id, text string) *EditorScreen {
	return &EditorScreen{
		wb:       wb,
		category: c,
		id:       id,
		original: text,
		input:    components.NewTextInput("Question text", text, false, problemgen.MaxQuestionRunes),
	}
}

func (s *EditorScreen) Init() tea.Cmd { return s.input.Init() }

func (s *EditorScreen) Title() string { return "Edit question" }

func (s *EditorScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "Enter", Description: "Save"},
		{Key: "Esc", Description: "Cancel"},
	}
}

func (s *EditorScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case savedMsg:
		s.saving = false
		if msg.err != nil {
			s.input.SetError(msg.err.Error())
			return s, nil
		}
		notice := fmt.Sprintf("saved %s", s.id)
		return s, router.PopChanged(notice)

	case tea.KeyMsg:
		if msg.String() == "enter" {
			return s, s.save()
		}
	}

	var cmd tea.Cmd
	s.input, cmd = s.input.Update(msg)
	return s, cmd
}

func (s *EditorScreen) save() tea.Cmd {
	if s.saving {
		return nil
	}
	text := strings.TrimSpace(s.input.Value())
	if text == "" {
		s.input.SetError("question text is empty")
		return nil
	}
	if text == s.original {
		return router.Pop()
	}
	s.saving = true
	wb, c, id := s.wb, s.category, s.id
	return func() tea.Msg {
		return savedMsg{err: wb.UpdateQuestion(context.Background(), c, id, text)}
	}
}

func (s *EditorScreen) View(width, height int) string {
	var b strings.Builder
	b.WriteString("\n")
	b.WriteString(theme.Section.Render(s.category.Key()) + "  " + theme.Hint.Render(s.id) + "\n\n")
	b.WriteString(theme.Instruction.Render("was: "+s.original) + "\n\n")
	b.WriteString(s.input.View())
	if s.saving {
		b.WriteString("\n" + theme.Hint.Render("saving..."))
	}
	return lipgloss.NewStyle().Width(width).Padding(0, 2).Render(b.String())
}
