package batches

import (
	"context"
	"strings"
	"testing"
	"time"

	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/mathsheet/internal/router"
	"github.com/abhisek/mathsheet/internal/store"
)

type fakeRepo struct {
	list   []store.BatchSummary
	loaded []string
}

func (f *fakeRepo) ListBatches(_ context.Context, limit int) ([]store.BatchSummary, error) {
	if limit < len(f.list) {
		return f.list[:limit], nil
	}
	return f.list, nil
}

func (f *fakeRepo) Load(_ context.Context, id string) error {
	f.loaded = append(f.loaded, id)
	return nil
}

func TestBatches_ListAndOpen(t *testing.T) {
	at := time.Date(2026, 10, 1, 9, 30, 0, 0, time.Local)
	repo := &fakeRepo{list: []store.BatchSummary{
		{ID: "bbbbbbbb-2222", Sequence: 2, CreatedAt: at, Sets: 3},
		{ID: "aaaaaaaa-1111", Sequence: 1, CreatedAt: at, Sets: 1},
	}}
	s := New(repo, repo)

	if !strings.Contains(s.View(80, 20), "Loading") {
		t.Error("expected loading state before list arrives")
	}

	s.Update(s.Init()())
	view := s.View(80, 20)
	if !strings.Contains(view, "bbbbbbbb") || !strings.Contains(view, "3 set(s)") {
		t.Errorf("unexpected view:\n%s", view)
	}

	s.Update(tea.KeyPressMsg{Code: tea.KeyDown})
	_, cmd := s.Update(tea.KeyPressMsg{Code: tea.KeyEnter})
	if cmd == nil {
		t.Fatal("expected load command")
	}
	_, cmd = s.Update(cmd())
	if len(repo.loaded) != 1 || repo.loaded[0] != "aaaaaaaa-1111" {
		t.Errorf("loaded = %v", repo.loaded)
	}
	if cmd == nil {
		t.Fatal("expected navigation after load")
	}
	pop, ok := cmd().(router.PopScreenMsg)
	if !ok || !pop.Changed || !strings.Contains(pop.Notice, "aaaaaaaa") {
		t.Errorf("after load got %#v", pop)
	}
}

func TestBatches_Empty(t *testing.T) {
	repo := &fakeRepo{}
	s := New(repo, repo)
	s.Update(s.Init()())
	if !strings.Contains(s.View(80, 20), "No stored batches") {
		t.Error("expected empty message")
	}
}
