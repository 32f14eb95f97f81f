package sweep

import (
	"context"
	"encoding/base64"
	"fmt"
	"strings"
	"unicode/utf8"

	"mailmop/internal/gmail"
	"mailmop/internal/model"
)

const (
	previewLimit    = 140
	previewEllipsis = "…"

	// PreviewDecodeError is the sentinel preview for bodies that are not
	// valid base64url. A malformed body never aborts a run.
	PreviewDecodeError = "[decode error]"
)

// Fetch lists up to max INBOX messages and retrieves each one in full,
// one request in flight at a time. Any API failure aborts the whole stage:
// the caller gets a nil set and the error, never partial results.
// progress, when non-nil, is called after every retrieved message.
func (s *Service) Fetch(ctx context.Context, max int64, progress func(done, total int)) ([]model.Email, error) {
	ids, err := s.Client.ListInbox(ctx, max)
	if err != nil {
		return nil, fmt.Errorf("fetch: %w", err)
	}

	emails := make([]model.Email, 0, len(ids))
	for i, id := range ids {
		msg, err := s.Client.GetMessage(ctx, id)
		if err != nil {
			return nil, fmt.Errorf("fetch: %w", err)
		}
		emails = append(emails, FromMessage(msg))
		if progress != nil {
			progress(i+1, len(ids))
		}
	}

	s.Log.Info("fetched emails", "count", len(emails))
	return emails, nil
}

// FromMessage builds the immutable Email record from a retrieved message,
// applying header defaults and the decoded preview.
func FromMessage(msg gmail.Message) model.Email {
	return model.Email{
		ID:      msg.ID,
		Subject: headerOr(msg.Headers, "subject", "(no subject)"),
		Sender:  headerOr(msg.Headers, "from", "Unknown"),
		Date:    headerOr(msg.Headers, "date", "Unknown"),
		BodyB64: msg.BodyB64,
		Preview: Preview(msg.BodyB64),
	}
}

func headerOr(headers map[string]string, key, fallback string) string {
	if v, ok := headers[key]; ok && v != "" {
		return v
	}
	return fallback
}

// Preview decodes a base64url body fragment into a short UTF-8 preview,
// truncated to 140 runes with a trailing ellipsis. An empty fragment yields
// an empty preview; an undecodable one yields PreviewDecodeError.
func Preview(bodyB64 string) string {
	if bodyB64 == "" {
		return ""
	}
	b, err := base64.URLEncoding.DecodeString(bodyB64)
	if err != nil {
		// Gmail emits unpadded base64url.
		b, err = base64.RawURLEncoding.DecodeString(bodyB64)
		if err != nil {
			return PreviewDecodeError
		}
	}
	decoded := strings.ToValidUTF8(string(b), "�")
	if utf8.RuneCountInString(decoded) > previewLimit {
		return string([]rune(decoded)[:previewLimit]) + previewEllipsis
	}
	return decoded
}
