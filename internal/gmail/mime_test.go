package gmail

import (
	"testing"

	gmailv1 "google.golang.org/api/gmail/v1"
)

func TestPlainTextData_Multipart(t *testing.T) {
	payload := &gmailv1.MessagePart{
		MimeType: "multipart/alternative",
		Parts: []*gmailv1.MessagePart{
			{MimeType: "text/html", Body: &gmailv1.MessagePartBody{Data: "aHRtbA"}},
			{MimeType: "text/plain", Body: &gmailv1.MessagePartBody{Data: "cGxhaW4"}},
			{MimeType: "text/plain", Body: &gmailv1.MessagePartBody{Data: "c2Vjb25k"}},
		},
	}
	if got := plainTextData(payload); got != "cGxhaW4" {
		t.Fatalf("plainTextData = %q, want first text/plain part", got)
	}
}

func TestPlainTextData_MultipartWithoutPlain(t *testing.T) {
	payload := &gmailv1.MessagePart{
		MimeType: "multipart/alternative",
		Parts: []*gmailv1.MessagePart{
			{MimeType: "text/html", Body: &gmailv1.MessagePartBody{Data: "aHRtbA"}},
		},
	}
	if got := plainTextData(payload); got != "" {
		t.Fatalf("plainTextData = %q, want empty", got)
	}
}

func TestPlainTextData_SinglePart(t *testing.T) {
	payload := &gmailv1.MessagePart{
		MimeType: "text/plain",
		Body:     &gmailv1.MessagePartBody{Data: "Ym9keQ"},
	}
	if got := plainTextData(payload); got != "Ym9keQ" {
		t.Fatalf("plainTextData = %q, want top-level body", got)
	}
}

func TestPlainTextData_Empty(t *testing.T) {
	if got := plainTextData(nil); got != "" {
		t.Fatalf("plainTextData(nil) = %q", got)
	}
	if got := plainTextData(&gmailv1.MessagePart{}); got != "" {
		t.Fatalf("plainTextData(empty) = %q", got)
	}
}

func TestPlainTextData_SkipsPartsWithoutData(t *testing.T) {
	payload := &gmailv1.MessagePart{
		MimeType: "multipart/mixed",
		Parts: []*gmailv1.MessagePart{
			{MimeType: "text/plain"},
			{MimeType: "text/plain", Body: &gmailv1.MessagePartBody{Data: "ZGF0YQ"}},
		},
	}
	if got := plainTextData(payload); got != "ZGF0YQ" {
		t.Fatalf("plainTextData = %q, want part with data", got)
	}
}
