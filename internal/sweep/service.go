package sweep

import (
	"context"
	"log/slog"
	"time"

	"mailmop/internal/archive"
	"mailmop/internal/gmail"
)

// Index is the optional archive-index surface the execute stage records to.
// *store.ArchiveIndex satisfies it; a nil Index disables indexing.
type Index interface {
	RecordArchived(ctx context.Context, runID, messageID, sender, subject, path string, archivedAt time.Time) error
}

// Service runs the four cleanup stages against one Gmail account.
type Service struct {
	Client  gmail.Client
	Archive *archive.Writer
	Index   Index
	Log     *slog.Logger
	Clock   func() time.Time
}

// NewService wires a Service with a nil-safe logger and clock.
func NewService(client gmail.Client, w *archive.Writer, idx Index, log *slog.Logger) *Service {
	if log == nil {
		log = slog.Default()
	}
	return &Service{
		Client:  client,
		Archive: w,
		Index:   idx,
		Log:     log,
		Clock:   time.Now,
	}
}

func (s *Service) now() time.Time {
	if s.Clock != nil {
		return s.Clock()
	}
	return time.Now()
}
