package archive

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"mailmop/internal/model"
)

func TestSaveWritesRecord(t *testing.T) {
	w, err := NewWriter(filepath.Join(t.TempDir(), "saved"))
	if err != nil {
		t.Fatalf("NewWriter: %v", err)
	}

	e := model.Email{
		ID:      "abc123",
		Subject: "Hello",
		Sender:  "Alice <alice@example.com>",
		Date:    "Mon, 2 Jan 2006 15:04:05 -0700",
		BodyB64: "aGVsbG8",
		Preview: "hello",
	}
	at := time.Date(2026, 8, 26, 12, 0, 0, 0, time.UTC)

	path, err := w.Save(e, "alice@example.com", model.DecisionDelete, at)
	if err != nil {
		t.Fatalf("Save: %v", err)
	}
	if filepath.Base(path) != "abc123_alice_example_com.json" {
		t.Errorf("filename = %s", filepath.Base(path))
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read back: %v", err)
	}
	var rec Record
	if err := json.Unmarshal(data, &rec); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if rec.ID != "abc123" || rec.Subject != "Hello" || rec.BodyB64 != "aGVsbG8" {
		t.Errorf("email fields not preserved: %+v", rec)
	}
	if rec.ArchivedAt != "2026-08-26T12:00:00Z" {
		t.Errorf("ArchivedAt = %q", rec.ArchivedAt)
	}
	if rec.Decision != "delete" {
		t.Errorf("Decision = %q", rec.Decision)
	}
	if rec.SenderNormalized != "alice@example.com" {
		t.Errorf("SenderNormalized = %q", rec.SenderNormalized)
	}
}

func TestSanitizeSender(t *testing.T) {
	if got := SanitizeSender("a@x.com"); got != "a_x_com" {
		t.Errorf("SanitizeSender short = %q", got)
	}

	// Two distinct long senders whose first 48 sanitized characters agree
	// must still sanitize to different names.
	base := strings.Repeat("a", 60)
	s1 := SanitizeSender(base + "1@example.com")
	s2 := SanitizeSender(base + "2@example.com")
	if s1 == s2 {
		t.Fatalf("colliding sanitized senders: %q", s1)
	}
	if !strings.HasPrefix(s1, strings.Repeat("a", 48)+"-") {
		t.Errorf("truncated form unexpected: %q", s1)
	}
}
