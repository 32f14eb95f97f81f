package sweep

import (
	"context"
	"fmt"
	"sort"

	"mailmop/internal/model"
)

// EventKind tags the per-message outcomes emitted during execute.
type EventKind string

const (
	EventSaved       EventKind = "saved"
	EventTrashed     EventKind = "trashed"
	EventTrashFailed EventKind = "trash-failed"
)

// Event is one per-message execute outcome, for front ends that surface
// progress while the stage runs.
type Event struct {
	Kind      EventKind
	Sender    string
	MessageID string
	Path      string
	Err       error
}

// Execute acts on every sender mapped to delete. For each such sender it
// first archives every message in the group to disk, and only after all
// saves succeeded issues trash calls for the group. A message is therefore
// never trashed without a local copy existing first. A failed trash call is
// logged and skipped; a failed save aborts the run before any trash call
// for that sender. Senders absent from decisions, or mapped to skip, are
// left untouched.
func (s *Service) Execute(ctx context.Context, runID string, groups map[string]*model.SenderGroup, decisions map[string]model.Decision, report func(Event)) (saved, trashed []string, err error) {
	emit := func(e Event) {
		if report != nil {
			report(e)
		}
	}

	// Deterministic sender order so runs replay identically.
	senders := make([]string, 0, len(decisions))
	for sender := range decisions {
		senders = append(senders, sender)
	}
	sort.Strings(senders)

	for _, sender := range senders {
		if decisions[sender] != model.DecisionDelete {
			continue
		}
		group, ok := groups[sender]
		if !ok {
			continue
		}

		// Save phase: always first.
		s.Log.Info("saving group", "sender", sender, "count", group.Count)
		for _, email := range group.Emails {
			at := s.now()
			path, err := s.Archive.Save(email, sender, model.DecisionDelete, at)
			if err != nil {
				return saved, trashed, fmt.Errorf("save %s for %s: %w", email.ID, sender, err)
			}
			saved = append(saved, path)
			emit(Event{Kind: EventSaved, Sender: sender, MessageID: email.ID, Path: path})

			if s.Index != nil {
				if ierr := s.Index.RecordArchived(ctx, runID, email.ID, sender, email.Subject, path, at); ierr != nil {
					s.Log.Warn("index record failed", "message", email.ID, "error", ierr)
				}
			}
		}

		// Trash phase: only after every save for this sender succeeded.
		s.Log.Info("trashing group", "sender", sender, "count", group.Count)
		for _, email := range group.Emails {
			if err := s.Client.Trash(ctx, email.ID); err != nil {
				s.Log.Warn("trash failed", "message", email.ID, "sender", sender, "error", err)
				emit(Event{Kind: EventTrashFailed, Sender: sender, MessageID: email.ID, Err: err})
				continue
			}
			trashed = append(trashed, email.ID)
			emit(Event{Kind: EventTrashed, Sender: sender, MessageID: email.ID})
		}
	}

	return saved, trashed, nil
}
