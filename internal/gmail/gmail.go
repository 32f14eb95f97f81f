package gmail

import (
	"context"
	"fmt"
	"strings"

	gmailv1 "google.golang.org/api/gmail/v1"
)

// Message is the slice of a Gmail message the cleanup pipeline needs:
// headers keyed by lower-cased name and the base64url body fragment
// of the first plain-text part.
type Message struct {
	ID      string
	Headers map[string]string
	BodyB64 string
}

// Client is the narrow Gmail surface required by mailmop.
type Client interface {
	// ListInbox returns up to max message ids from INBOX, newest first.
	ListInbox(ctx context.Context, max int64) ([]string, error)
	// GetMessage fetches one message in full format.
	GetMessage(ctx context.Context, id string) (Message, error)
	// Trash moves one message to the provider trash.
	Trash(ctx context.Context, id string) error
}

type apiClient struct {
	svc *gmailv1.Service
}

// NewClient wraps a *gmailv1.Service in the Client interface.
func NewClient(svc *gmailv1.Service) Client {
	return &apiClient{svc: svc}
}

const user = "me"

func (c *apiClient) ListInbox(ctx context.Context, max int64) ([]string, error) {
	res, err := c.svc.Users.Messages.List(user).
		LabelIds("INBOX").
		MaxResults(max).
		Context(ctx).
		Do()
	if err != nil {
		return nil, fmt.Errorf("list messages: %w", err)
	}
	ids := make([]string, 0, len(res.Messages))
	for _, m := range res.Messages {
		ids = append(ids, m.Id)
	}
	return ids, nil
}

func (c *apiClient) GetMessage(ctx context.Context, id string) (Message, error) {
	msg, err := c.svc.Users.Messages.Get(user, id).
		Format("full").
		Context(ctx).
		Do()
	if err != nil {
		return Message{}, fmt.Errorf("get message %s: %w", id, err)
	}

	headers := make(map[string]string)
	var body string
	if msg.Payload != nil {
		for _, h := range msg.Payload.Headers {
			headers[strings.ToLower(h.Name)] = h.Value
		}
		body = plainTextData(msg.Payload)
	}
	return Message{ID: msg.Id, Headers: headers, BodyB64: body}, nil
}

func (c *apiClient) Trash(ctx context.Context, id string) error {
	if _, err := c.svc.Users.Messages.Trash(user, id).Context(ctx).Do(); err != nil {
		return fmt.Errorf("trash message %s: %w", id, err)
	}
	return nil
}
