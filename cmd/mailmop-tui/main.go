package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"mailmop/internal/archive"
	"mailmop/internal/config"
	"mailmop/internal/gmail"
	"mailmop/internal/store"
	"mailmop/internal/sweep"
	"mailmop/internal/tui"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	// Authenticate before the alternate screen takes over the terminal.
	svc, err := gmail.NewService(context.Background(), cfg.CredentialsFile, cfg.TokenFile, cfg.Scopes)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	writer, err := archive.NewWriter(cfg.ArchiveDir)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	indexPath := cfg.IndexFile
	if indexPath == "" {
		indexPath = filepath.Join(cfg.ArchiveDir, "index.db")
	}
	index, err := store.Open(indexPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Cannot open archive index: %v\n", err)
		os.Exit(1)
	}
	defer index.Close()

	// The TUI owns the terminal; logs go nowhere unless debugging.
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	service := sweep.NewService(gmail.NewClient(svc), writer, index, log)

	runID := cfg.RunPrefix + time.Now().Format("20060102-150405")
	appModel := tui.NewAppModel(service, index, cfg, runID)
	p := tea.NewProgram(&appModel, tea.WithAltScreen())
	appModel.SetProgram(p)

	finalModel, err := p.Run()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Alas, there's been an error: %v\n", err)
		os.Exit(1)
	}
	if m, ok := finalModel.(*tui.AppModel); ok && m.Err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", m.Err)
		os.Exit(1)
	}
}
