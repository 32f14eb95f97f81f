package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadDefaults(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("MAILMOP_ARCHIVE_DIR", filepath.Join(dir, "saved"))

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.MaxFetch != 10 {
		t.Errorf("MaxFetch = %d, want default 10", cfg.MaxFetch)
	}
	if cfg.CredentialsFile != "credentials.json" {
		t.Errorf("CredentialsFile = %q", cfg.CredentialsFile)
	}
	if cfg.RunPrefix != "mailmop-" {
		t.Errorf("RunPrefix = %q", cfg.RunPrefix)
	}
	if len(cfg.Scopes) != 2 {
		t.Errorf("Scopes = %v, want readonly+modify", cfg.Scopes)
	}
	if _, err := os.Stat(cfg.ArchiveDir); err != nil {
		t.Errorf("archive dir not created: %v", err)
	}
}

func TestLoadEnvOverrides(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("MAILMOP_ARCHIVE_DIR", filepath.Join(dir, "box"))
	t.Setenv("MAILMOP_MAX_FETCH", "120")
	t.Setenv("MAILMOP_TOKEN_FILE", filepath.Join(dir, "tok.json"))

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.MaxFetch != 120 {
		t.Errorf("MaxFetch = %d, want 120", cfg.MaxFetch)
	}
	if cfg.TokenFile != filepath.Join(dir, "tok.json") {
		t.Errorf("TokenFile = %q", cfg.TokenFile)
	}
}

func TestClampFetch(t *testing.T) {
	cases := []struct{ in, want int64 }{
		{0, 10}, {9, 10}, {10, 10}, {250, 250}, {500, 500}, {501, 500},
	}
	for _, tc := range cases {
		if got := ClampFetch(tc.in); got != tc.want {
			t.Errorf("ClampFetch(%d) = %d, want %d", tc.in, got, tc.want)
		}
	}
}
