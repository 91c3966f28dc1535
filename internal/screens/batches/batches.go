// Package batches lists stored batches and loads one into the workbook.
package batches

import (
	"context"
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/mathsheet/internal/router"
	"github.com/abhisek/mathsheet/internal/screen"
	"github.com/abhisek/mathsheet/internal/store"
	"github.com/abhisek/mathsheet/internal/ui/components"
	"github.com/abhisek/mathsheet/internal/ui/layout"
	"github.com/abhisek/mathsheet/internal/ui/theme"
)

// ListLimit caps the number of batches shown.
const ListLimit = 50

// Lister returns stored batch summaries, newest first.
type Lister interface {
	ListBatches(ctx context.Context, limit int) ([]store.BatchSummary, error)
}

// Loader switches the workbook to a stored batch.
type Loader interface {
	Load(ctx context.Context, batchID string) error
}

type listedMsg struct {
	batches []store.BatchSummary
	err     error
}

type loadedMsg struct {
	id  string
	err error
}

// BatchesScreen lists stored batches.
type BatchesScreen struct {
	loader  Loader
	lister  Lister
	menu    components.Menu
	batches []store.BatchSummary
	loaded  bool
	errMsg  string
}

var _ screen.Screen = (*BatchesScreen)(nil)
var _ screen.KeyHintProvider = (*BatchesScreen)(nil)

// New creates a BatchesScreen.
func New(loader Loader, lister Lister) *BatchesScreen {
	return &BatchesScreen{loader: loader, lister: lister}
}

func (s *BatchesScreen) Init() tea.Cmd {
	lister := s.lister
	return func() tea.Msg {
		list, err := lister.ListBatches(context.Background(), ListLimit)
		return listedMsg{batches: list, err: err}
	}
}

func (s *BatchesScreen) Title() string { return "Batches" }

func (s *BatchesScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "Enter", Description: "Open"},
		{Key: "↑↓", Description: "Navigate"},
		{Key: "Esc", Description: "Back"},
	}
}

func (s *BatchesScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case listedMsg:
		s.loaded = true
		if msg.err != nil {
			s.errMsg = msg.err.Error()
			return s, nil
		}
		s.batches = msg.batches
		items := make([]components.MenuItem, len(msg.batches))
		for i, b := range msg.batches {
			id := b.ID
			items[i] = components.MenuItem{
				Label:  fmt.Sprintf("#%-4d %s  %d set(s)  %s", b.Sequence, b.CreatedAt.Local().Format("2006-01-02 15:04"), b.Sets, shortID(id)),
				Action: func() tea.Cmd { return s.load(id) },
			}
		}
		s.menu = components.NewMenu(items)
		return s, nil

	case loadedMsg:
		if msg.err != nil {
			s.errMsg = msg.err.Error()
			return s, nil
		}
		notice := "opened batch " + shortID(msg.id)
		return s, router.PopChanged(notice)

	case tea.KeyMsg:
		var cmd tea.Cmd
		s.menu, cmd = s.menu.Update(msg)
		return s, cmd
	}
	return s, nil
}

func (s *BatchesScreen) load(id string) tea.Cmd {
	loader := s.loader
	return func() tea.Msg {
		return loadedMsg{id: id, err: loader.Load(context.Background(), id)}
	}
}

func (s *BatchesScreen) View(width, height int) string {
	center := lipgloss.NewStyle().Width(width).Align(lipgloss.Center)
	switch {
	case s.errMsg != "":
		return center.Foreground(theme.Error).Render("\n\nError: " + s.errMsg)
	case !s.loaded:
		return center.Foreground(theme.TextDim).Render("\n\n  Loading batches...")
	case len(s.batches) == 0:
		return center.Foreground(theme.TextDim).Italic(true).Render("\n\n  No stored batches yet.")
	}

	var b strings.Builder
	b.WriteString("\n")
	b.WriteString(s.menu.View())
	return b.String()
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
