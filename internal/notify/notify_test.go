package notify

import (
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/booru-prompt/booru-prompt/internal/logging"
)

type recorder struct {
	notified []string
	alerted  []string
	alertErr error
}

func newTestNotifier(enabled bool, rec *recorder) *Notifier {
	n := NewNotifier(enabled, logging.NewLogger(logging.Options{Out: io.Discard}))
	n.notify = func(title, message, icon string) error {
		rec.notified = append(rec.notified, message)
		return nil
	}
	n.alert = func(title, message, icon string) error {
		rec.alerted = append(rec.alerted, message)
		return rec.alertErr
	}
	return n
}

func TestStatusDisabled(t *testing.T) {
	rec := &recorder{}
	n := newTestNotifier(false, rec)

	n.Status("Copied to clipboard!", false)
	n.Status("Error: boom", true)

	if len(rec.notified)+len(rec.alerted) != 0 {
		t.Errorf("disabled notifier sent %v / %v", rec.notified, rec.alerted)
	}
}

func TestStatus(t *testing.T) {
	rec := &recorder{}
	n := newTestNotifier(true, rec)

	n.Status("Tags extracted successfully!", false)
	n.Status("Error: post not found", true)

	if len(rec.notified) != 1 || rec.notified[0] != "Tags extracted successfully!" {
		t.Errorf("notified = %v", rec.notified)
	}
	if len(rec.alerted) != 1 || rec.alerted[0] != "Error: post not found" {
		t.Errorf("alerted = %v", rec.alerted)
	}
}

func TestStatusAlertFallsBack(t *testing.T) {
	rec := &recorder{alertErr: errors.New("no alert support")}
	n := newTestNotifier(true, rec)

	n.Status("Error: boom", true)

	if len(rec.notified) != 1 || rec.notified[0] != "Error: boom" {
		t.Errorf("expected fallback notify, got %v", rec.notified)
	}
}

func TestSetEnabled(t *testing.T) {
	rec := &recorder{}
	n := newTestNotifier(false, rec)

	n.SetEnabled(true)
	if !n.IsEnabled() {
		t.Fatal("IsEnabled() = false after SetEnabled(true)")
	}
	n.Status("File saved successfully!", false)

	if len(rec.notified) != 1 || rec.notified[0] != "File saved successfully!" {
		t.Errorf("notified = %v", rec.notified)
	}
}

func TestStatusTruncatesLongMessages(t *testing.T) {
	rec := &recorder{}
	n := newTestNotifier(true, rec)

	n.Status("Error: "+strings.Repeat("x", 500), true)

	if len(rec.alerted) != 1 || len(rec.alerted[0]) != maxMessageLen {
		t.Errorf("alerted = %v", rec.alerted)
	}
}

func TestTruncate(t *testing.T) {
	tests := []struct {
		input    string
		maxLen   int
		expected string
	}{
		{"short", 10, "short"},
		{"exactly10c", 10, "exactly10c"},
		{"this is a long string", 10, "this is..."},
		{"", 10, ""},
		{"abcd", 3, "..."},
		{"abcd", 2, ".."},
	}

	for _, tt := range tests {
		if got := truncate(tt.input, tt.maxLen); got != tt.expected {
			t.Errorf("truncate(%q, %d) = %q, want %q", tt.input, tt.maxLen, got, tt.expected)
		}
	}
}
