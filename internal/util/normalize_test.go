package util

import "testing"

func TestNormalizeSender(t *testing.T) {
	cases := []struct {
		name string
		in   string
		want string
	}{
		{"angle brackets", `Alice <Alice@Example.COM>`, "alice@example.com"},
		{"brackets with inner spaces", `News < digest@news.io >`, "digest@news.io"},
		{"bare address", "Bob@Example.com", "bob@example.com"},
		{"bare address padded", "  bob@example.com  ", "bob@example.com"},
		{"no address at all", "Mailer Daemon", "mailer daemon"},
		{"bracket without closing after", ">odd <a@x.com", "a@x.com"},
		{"empty", "", ""},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := NormalizeSender(tc.in); got != tc.want {
				t.Fatalf("NormalizeSender(%q) = %q, want %q", tc.in, got, tc.want)
			}
		})
	}
}
