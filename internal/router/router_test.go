package router

import (
	"testing"

	tea "charm.land/bubbletea/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/mathsheet/internal/screen"
)

// recordingScreen remembers the messages it was given.
type recordingScreen struct {
	title   string
	initRan bool
	got     []tea.Msg
}

func (s *recordingScreen) Init() tea.Cmd {
	s.initRan = true
	return nil
}

func (s *recordingScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	s.got = append(s.got, msg)
	return s, nil
}

func (s *recordingScreen) View(int, int) string { return s.title }
func (s *recordingScreen) Title() string        { return s.title }

func TestPushAndPop(t *testing.T) {
	pages := &recordingScreen{title: "Set 1 · Page 1"}
	r := New(pages)

	editor := &recordingScreen{title: "Edit question"}
	r.Update(PushScreenMsg{Screen: editor})

	assert.Equal(t, 2, r.Depth())
	assert.Same(t, editor, r.Active())
	assert.True(t, editor.initRan)
	assert.Equal(t, []string{"Set 1 · Page 1", "Edit question"}, r.Titles())
	assert.Equal(t, "Edit question", r.View(80, 20))

	r.Update(PopScreenMsg{})
	assert.Equal(t, 1, r.Depth())
	assert.Same(t, pages, r.Active())
	assert.Empty(t, pages.got, "a plain pop sends nothing to the screen below")
}

func TestPopNeverRemovesRoot(t *testing.T) {
	pages := &recordingScreen{title: "pages"}
	r := New(pages)

	assert.False(t, r.Pop())
	assert.Nil(t, r.Update(PopScreenMsg{Changed: true, Notice: "saved"}))
	assert.Equal(t, 1, r.Depth())
	assert.Empty(t, pages.got)
}

func TestPopChangedNotifiesScreenBelow(t *testing.T) {
	pages := &recordingScreen{title: "pages"}
	r := New(pages)
	r.Push(&recordingScreen{title: "batches"})

	msg := PopChanged("opened batch 1a2b3c4d")()
	r.Update(msg)

	require.Len(t, pages.got, 1)
	assert.Equal(t, screen.WorkbookChangedMsg{Notice: "opened batch 1a2b3c4d"}, pages.got[0])
}

func TestUpdateForwardsToActive(t *testing.T) {
	pages := &recordingScreen{title: "pages"}
	r := New(pages)
	editor := &recordingScreen{title: "editor"}
	r.Push(editor)

	key := tea.KeyPressMsg{Code: 'x', Text: "x"}
	r.Update(key)

	assert.Equal(t, []tea.Msg{key}, editor.got)
	assert.Empty(t, pages.got)
	assert.Equal(t, PopScreenMsg{}, Pop()())
}
