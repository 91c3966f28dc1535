// Package router keeps the stack of terminal editor screens: the page
// browser at the bottom, with the question editor or batch picker on top.
package router

import (
	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/mathsheet/internal/screen"
)

// PushScreenMsg opens a screen on top of the current one.
type PushScreenMsg struct {
	Screen screen.Screen
}

// PopScreenMsg closes the current screen. When Changed is set the screen
// that becomes active receives a screen.WorkbookChangedMsg carrying Notice,
// so it re-reads pages after an edit or a batch switch.
type PopScreenMsg struct {
	Changed bool
	Notice  string
}

// Pop returns a command that closes the current screen without changes.
func Pop() tea.Cmd {
	return func() tea.Msg { return PopScreenMsg{} }
}

// PopChanged returns a command that closes the current screen and tells
// the one below that the workbook changed.
func PopChanged(notice string) tea.Cmd {
	return func() tea.Msg { return PopScreenMsg{Changed: true, Notice: notice} }
}

// Router manages a stack of screens. The root screen is never popped.
type Router struct {
	stack []screen.Screen
}

// New creates a Router rooted at the given screen.
func New(root screen.Screen) *Router {
	return &Router{stack: []screen.Screen{root}}
}

// Push adds a screen on top of the stack and runs its Init.
func (r *Router) Push(s screen.Screen) tea.Cmd {
	r.stack = append(r.stack, s)
	return s.Init()
}

// Pop removes the top screen, keeping the root.
func (r *Router) Pop() bool {
	if len(r.stack) <= 1 {
		return false
	}
	r.stack = r.stack[:len(r.stack)-1]
	return true
}

// Active returns the top screen.
func (r *Router) Active() screen.Screen {
	return r.stack[len(r.stack)-1]
}

// Depth returns the number of screens on the stack.
func (r *Router) Depth() int {
	return len(r.stack)
}

// Titles returns the screen titles from the root up, for a breadcrumb.
func (r *Router) Titles() []string {
	out := make([]string, len(r.stack))
	for i, s := range r.stack {
		out[i] = s.Title()
	}
	return out
}

// Update handles navigation messages and forwards everything else to the
// active screen.
func (r *Router) Update(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case PushScreenMsg:
		return r.Push(msg.Screen)
	case PopScreenMsg:
		if !r.Pop() || !msg.Changed {
			return nil
		}
		return r.forward(screen.WorkbookChangedMsg{Notice: msg.Notice})
	}
	return r.forward(msg)
}

func (r *Router) forward(msg tea.Msg) tea.Cmd {
	updated, cmd := r.Active().Update(msg)
	r.stack[len(r.stack)-1] = updated
	return cmd
}

// View renders the active screen.
func (r *Router) View(width, height int) string {
	return r.Active().View(width, height)
}
