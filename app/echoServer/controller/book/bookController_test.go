package book

import (
	"testing"
	"time"
)

func TestCoverFilename_UsesBookID(t *testing.T) {
	ts := time.Date(2026, 3, 9, 10, 30, 0, 0, time.UTC)
	got := coverFilename(42, ts)
	want := "book_42_20260309103000.jpg"
	if got != want {
		t.Fatalf("coverFilename = %q, want %q", got, want)
	}
}
