package state

import (
	"fmt"
	"sync"
	"testing"

	"github.com/booru-prompt/booru-prompt/internal/tags"
)

func TestNewRecordStateIsEmpty(t *testing.T) {
	s := NewRecordState()

	if _, ok := s.Current(); ok {
		t.Error("new state should be empty")
	}
	if s.Version() != 0 {
		t.Errorf("Version() = %d, want 0", s.Version())
	}
}

func TestSetReplacesWholesale(t *testing.T) {
	s := NewRecordState()

	s.Set("1", tags.Record{Artist: "a", Character: "c", Origin: "o", Tags: "t"})
	s.Set("2", tags.Record{Tags: "only_tags"})

	snap, ok := s.Current()
	if !ok {
		t.Fatal("expected populated state")
	}
	if snap.PostID != "2" {
		t.Errorf("PostID = %q, want 2", snap.PostID)
	}
	want := tags.Record{Tags: "only_tags"}
	if snap.Record != want {
		t.Errorf("Record = %+v, want %+v (no fields carried over)", snap.Record, want)
	}
	if snap.FetchedAt.IsZero() {
		t.Error("FetchedAt not set")
	}
	if s.Version() != 2 {
		t.Errorf("Version() = %d, want 2", s.Version())
	}
}

func TestSetEmptyRecordStaysPopulated(t *testing.T) {
	s := NewRecordState()
	s.Set("1", tags.Record{Tags: "x"})
	s.Set("2", tags.Record{})

	snap, ok := s.Current()
	if !ok {
		t.Fatal("state must never return to empty")
	}
	if !snap.Record.IsEmpty() {
		t.Errorf("Record = %+v, want empty record", snap.Record)
	}
}

func TestCurrentReturnsCopy(t *testing.T) {
	s := NewRecordState()
	s.Set("1", tags.Record{Tags: "x"})

	snap, _ := s.Current()
	snap.Record.Tags = "mutated"

	again, _ := s.Current()
	if again.Record.Tags != "x" {
		t.Errorf("stored record was mutated: %q", again.Record.Tags)
	}
}

func TestConcurrentSet(t *testing.T) {
	s := NewRecordState()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			id := fmt.Sprint(i)
			s.Set(id, tags.Record{Artist: id, Tags: id})
			s.Current()
		}(i)
	}
	wg.Wait()

	snap, ok := s.Current()
	if !ok {
		t.Fatal("expected populated state")
	}
	// Whichever Set won, its fields must all come from the same call.
	if snap.Record.Artist != snap.PostID || snap.Record.Tags != snap.PostID {
		t.Errorf("torn record: %+v", snap)
	}
	if s.Version() != 50 {
		t.Errorf("Version() = %d, want 50", s.Version())
	}
}
