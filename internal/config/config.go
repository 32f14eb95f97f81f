package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/viper"
	gmailv1 "google.golang.org/api/gmail/v1"
)

const (
	minFetch = 10
	maxFetch = 500
)

// Config holds everything a run needs: API credentials, the archive
// directory, and the fetch bound. Values come from MAILMOP_* environment
// variables with defaults matching a fresh checkout.
type Config struct {
	Scopes          []string
	CredentialsFile string
	TokenFile       string
	ArchiveDir      string
	IndexFile       string
	MaxFetch        int64
	RunPrefix       string
}

// Load reads configuration from the environment, applies defaults, clamps
// the fetch bound into [10,500] and creates the archive directory.
func Load() (*Config, error) {
	v := viper.New()
	v.SetEnvPrefix("MAILMOP")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetDefault("scopes", []string{gmailv1.GmailReadonlyScope, gmailv1.GmailModifyScope})
	v.SetDefault("credentials_file", "credentials.json")
	v.SetDefault("token_file", "token.json")
	v.SetDefault("archive_dir", "saved_emails")
	v.SetDefault("index_file", "")
	v.SetDefault("max_fetch", minFetch)
	v.SetDefault("run_prefix", "mailmop-")

	cfg := &Config{
		Scopes:          v.GetStringSlice("scopes"),
		CredentialsFile: v.GetString("credentials_file"),
		TokenFile:       v.GetString("token_file"),
		ArchiveDir:      v.GetString("archive_dir"),
		IndexFile:       v.GetString("index_file"),
		MaxFetch:        ClampFetch(v.GetInt64("max_fetch")),
		RunPrefix:       v.GetString("run_prefix"),
	}

	if err := os.MkdirAll(cfg.ArchiveDir, 0o755); err != nil {
		return nil, fmt.Errorf("create archive dir %s: %w", cfg.ArchiveDir, err)
	}
	return cfg, nil
}

// ClampFetch forces n into the supported fetch-count range.
func ClampFetch(n int64) int64 {
	if n < minFetch {
		return minFetch
	}
	if n > maxFetch {
		return maxFetch
	}
	return n
}
