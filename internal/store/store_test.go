package store

import (
	"path/filepath"
	"testing"
)

func openTemp(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "state.db"))
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestPutGetRoundTrip(t *testing.T) {
	s := openTemp(t)

	want := ViewState{Row: 12, Col: 4, Scroll: 8, ReadOnly: true}
	s.Put("/notes/a.md", want)

	got, ok := s.Get("/notes/a.md")
	if !ok {
		t.Fatal("state not found after Put")
	}
	if got != want {
		t.Errorf("got %+v, want %+v", got, want)
	}
}

func TestGetMiss(t *testing.T) {
	s := openTemp(t)
	if _, ok := s.Get("/never/seen.md"); ok {
		t.Error("unknown path should miss")
	}
}

func TestPutReplaces(t *testing.T) {
	s := openTemp(t)
	s.Put("/a.md", ViewState{Row: 1})
	s.Put("/a.md", ViewState{Row: 2, ReadOnly: true})

	got, ok := s.Get("/a.md")
	if !ok || got.Row != 2 || !got.ReadOnly {
		t.Errorf("got %+v, %v", got, ok)
	}
}

func TestNilStoreIsSafe(t *testing.T) {
	var s *Store
	if _, ok := s.Get("/x.md"); ok {
		t.Error("nil store should miss")
	}
	s.Put("/x.md", ViewState{}) // must not panic
	if err := s.Close(); err != nil {
		t.Errorf("Close on nil store: %v", err)
	}
}
