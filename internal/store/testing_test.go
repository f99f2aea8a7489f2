package store

import (
	"context"
	"testing"
	"time"

	"github.com/erazemk/katalog/internal/db"
	"github.com/erazemk/katalog/internal/model"
)

// newTestStore returns a store over a fresh in-memory database whose clock
// advances by one second on every write, starting at base.
func newTestStore(t *testing.T, base time.Time) *Store {
	t.Helper()
	s := New(db.NewTestDB(t))
	now := base
	s.Now = func() time.Time {
		now = now.Add(time.Second)
		return now
	}
	return s
}

func mustMedium(t *testing.T, s *Store, title string) *model.Medium {
	t.Helper()
	m, err := s.CreateMedium(context.Background(), model.MediumInput{
		Title:       title,
		Description: title + " collection",
		ImageURL:    "https://example.com/" + title + ".jpg",
	})
	if err != nil {
		t.Fatalf("CreateMedium(%q): %v", title, err)
	}
	return m
}

func mustItem(t *testing.T, s *Store, in model.ItemInput) *model.Item {
	t.Helper()
	if in.Creator == "" {
		in.Creator = "Someone"
	}
	if in.ImageURL == "" {
		in.ImageURL = "https://example.com/cover.jpg"
	}
	if in.Description == "" {
		in.Description = "A work"
	}
	it, err := s.CreateItem(context.Background(), in)
	if err != nil {
		t.Fatalf("CreateItem(%q): %v", in.Title, err)
	}
	return it
}
