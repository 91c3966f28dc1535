// Package history tracks previously generated question texts so later
// generations can be steered away from repeats.
package history

import (
	"context"
	"strings"
)

// PromptLimit is the number of most recent entries forwarded to the model.
const PromptLimit = 50

// History is an insertion-ordered set of question texts. The zero value is
// ready to use. It is not safe for concurrent mutation; callers own it
// explicitly and pass it where needed.
type History struct {
	order []string
	seen  map[string]struct{}
}

// New returns a history seeded with texts.
func New(texts ...string) *History {
	h := &History{}
	h.Add(texts...)
	return h
}

func normalize(s string) string {
	return strings.TrimSpace(s)
}

// Add appends texts not already present and returns how many were new.
func (h *History) Add(texts ...string) int {
	if h.seen == nil {
		h.seen = make(map[string]struct{})
	}
	added := 0
	for _, t := range texts {
		t = normalize(t)
		if t == "" {
			continue
		}
		if _, ok := h.seen[t]; ok {
			continue
		}
		h.seen[t] = struct{}{}
		h.order = append(h.order, t)
		added++
	}
	return added
}

// Contains reports whether text was seen before.
func (h *History) Contains(text string) bool {
	if h == nil {
		return false
	}
	_, ok := h.seen[normalize(text)]
	return ok
}

// Len returns the number of distinct entries.
func (h *History) Len() int {
	if h == nil {
		return 0
	}
	return len(h.order)
}

// Recent returns up to n of the newest entries, oldest first.
func (h *History) Recent(n int) []string {
	if h == nil || n <= 0 {
		return nil
	}
	start := max(len(h.order)-n, 0)
	return append([]string(nil), h.order[start:]...)
}

// All returns every entry, oldest first.
func (h *History) All() []string {
	if h == nil {
		return nil
	}
	return append([]string(nil), h.order...)
}

// Clone returns an independent copy.
func (h *History) Clone() *History {
	if h == nil {
		return New()
	}
	return New(h.order...)
}

// Since returns the entries h has beyond the first n, i.e. what was added
// to a clone of a history of length n.
func (h *History) Since(n int) []string {
	if h == nil || n >= len(h.order) {
		return nil
	}
	return append([]string(nil), h.order[max(n, 0):]...)
}

// Store persists history entries.
type Store interface {
	Load(ctx context.Context) (*History, error)
	Append(ctx context.Context, texts []string) error
	Clear(ctx context.Context) error
}
