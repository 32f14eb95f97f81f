package archive

import (
	"encoding/json"
	"fmt"
	"hash/fnv"
	"os"
	"path/filepath"
	"strings"
	"time"

	"mailmop/internal/model"
)

// Record is the JSON document persisted for every message before it is
// trashed. It preserves the original email fields plus run metadata.
type Record struct {
	model.Email
	ArchivedAt       string `json:"archived_at"`
	Decision         string `json:"decision"`
	SenderNormalized string `json:"sender_normalized"`
}

// Writer persists archive records under one directory.
type Writer struct {
	Dir string
}

// NewWriter creates the directory if needed and returns a Writer over it.
func NewWriter(dir string) (*Writer, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create archive dir %s: %w", dir, err)
	}
	return &Writer{Dir: dir}, nil
}

// Save writes one email as a standalone JSON file and returns its path.
// The file is named <id>_<sanitized sender>.json.
func (w *Writer) Save(e model.Email, sender string, decision model.Decision, at time.Time) (string, error) {
	rec := Record{
		Email:            e,
		ArchivedAt:       at.UTC().Format(time.RFC3339),
		Decision:         string(decision),
		SenderNormalized: sender,
	}

	name := fmt.Sprintf("%s_%s.json", e.ID, SanitizeSender(sender))
	path := filepath.Join(w.Dir, name)

	data, err := json.MarshalIndent(rec, "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshal archive record %s: %w", e.ID, err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("write archive %s: %w", path, err)
	}
	return path, nil
}

const maxSenderLen = 48

// SanitizeSender turns a normalized sender into a filename-safe fragment:
// '@' and '.' become '_' and the result is capped at 48 characters. A capped
// sender gets an 8-hex FNV suffix of the full address so two senders that
// truncate identically still produce distinct filenames.
func SanitizeSender(sender string) string {
	safe := strings.NewReplacer("@", "_", ".", "_").Replace(sender)
	if len(safe) <= maxSenderLen {
		return safe
	}
	h := fnv.New32a()
	h.Write([]byte(sender))
	return fmt.Sprintf("%s-%08x", safe[:maxSenderLen], h.Sum32())
}
