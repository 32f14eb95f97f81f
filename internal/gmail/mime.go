package gmail

import (
	"strings"

	gmailv1 "google.golang.org/api/gmail/v1"
)

// plainTextData returns the base64url body data of the first top-level
// text/plain part. A message without sub-parts falls back to its single
// top-level body. Returns "" when no plain-text data exists.
func plainTextData(payload *gmailv1.MessagePart) string {
	if payload == nil {
		return ""
	}
	if len(payload.Parts) > 0 {
		for _, part := range payload.Parts {
			if !strings.EqualFold(part.MimeType, "text/plain") {
				continue
			}
			if part.Body != nil && part.Body.Data != "" {
				return part.Body.Data
			}
		}
		return ""
	}
	if payload.Body != nil {
		return payload.Body.Data
	}
	return ""
}
