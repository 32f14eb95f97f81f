package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"
	"unicode/utf8"

	"mailmop/internal/archive"
	"mailmop/internal/config"
	"mailmop/internal/gmail"
	"mailmop/internal/model"
	"mailmop/internal/store"
	"mailmop/internal/sweep"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	log := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelInfo}))

	if err := run(ctx, log); err != nil {
		if errors.Is(err, context.Canceled) {
			fmt.Fprintln(os.Stderr, "\nInterrupted by user.")
			os.Exit(130)
		}
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, log *slog.Logger) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	svc, err := gmail.NewService(ctx, cfg.CredentialsFile, cfg.TokenFile, cfg.Scopes)
	if err != nil {
		return err
	}

	writer, err := archive.NewWriter(cfg.ArchiveDir)
	if err != nil {
		return err
	}

	indexPath := cfg.IndexFile
	if indexPath == "" {
		indexPath = filepath.Join(cfg.ArchiveDir, "index.db")
	}
	index, err := store.Open(indexPath)
	if err != nil {
		return err
	}
	defer index.Close()

	service := sweep.NewService(gmail.NewClient(svc), writer, index, log)

	started := time.Now()
	runID := cfg.RunPrefix + started.Format("20060102-150405")
	state := model.NewRunState(cfg.MaxFetch, started.Format(time.RFC3339))

	fmt.Printf("mailmop — inbox cleanup (only skip or delete)\n\n")
	fmt.Printf("Fetching up to %d messages...\n", state.MaxFetch)

	emails, err := service.Fetch(ctx, state.MaxFetch, func(done, total int) {
		fmt.Printf("  %d/%d\r", done, total)
	})
	if err != nil {
		if errors.Is(err, context.Canceled) {
			return err
		}
		// A fetch failure yields an empty result set; the run continues
		// (and finishes with nothing to review). No retry.
		fmt.Printf("Fetch error: %v\n", err)
		emails = nil
	}
	fmt.Printf("\n→ Fetched %d emails\n", len(emails))

	state = state.WithEmails(emails).WithGroups(sweep.GroupBySender(emails))
	fmt.Printf("→ Grouped into %d senders\n", len(state.Groups))

	review := sweep.NewReview(state.Groups)
	if err := promptDecisions(ctx, review); err != nil {
		return err
	}
	state = state.WithDecisions(review.Decisions())

	fmt.Println("\nExecuting decisions...")
	if err := index.BeginRun(ctx, runID, started); err != nil {
		log.Warn("begin run", "error", err)
	}
	saved, trashed, execErr := service.Execute(ctx, runID, state.Groups, state.Decisions, func(e sweep.Event) {
		switch e.Kind {
		case sweep.EventSaved:
			fmt.Printf("   saved   → %s\n", filepath.Base(e.Path))
		case sweep.EventTrashed:
			fmt.Printf("   trashed → %s\n", shortID(e.MessageID))
		case sweep.EventTrashFailed:
			fmt.Printf("   failed to trash %s: %v\n", e.MessageID, e.Err)
		}
	})
	state = state.WithResults(saved, trashed)
	if err := index.FinishRun(ctx, runID, len(saved), len(trashed), time.Now()); err != nil {
		log.Warn("finish run", "error", err)
	}
	if execErr != nil {
		return execErr
	}

	line := strings.Repeat("═", 60)
	fmt.Printf("\n%s\n  FINISHED\n  Saved  : %d files\n  Trashed: %d messages\n  Archive: %s\n%s\n",
		line, len(state.SavedPaths), len(state.TrashedIDs), cfg.ArchiveDir, line)
	return nil
}

// promptDecisions walks the pending set largest-first and records one
// decision per sender. Anything that is not an explicit delete trigger
// skips the sender.
func promptDecisions(ctx context.Context, review *sweep.Review) error {
	line := strings.Repeat("═", 60)
	fmt.Printf("\n%s\n  SENDER REVIEW  (senders with most emails first)\n%s\n\n", line, line)

	sc := bufio.NewScanner(os.Stdin)
	for _, group := range review.Pending() {
		fmt.Printf(" %3d  %s\n", group.Count, group.Sender)
		shown := group.Emails
		if len(shown) > 2 {
			shown = shown[:2]
		}
		for _, e := range shown {
			fmt.Printf("      • %s\n", truncate(e.Subject, 60))
		}
		if group.Count > 2 {
			fmt.Printf("      … +%d more\n", group.Count-2)
		}

		for {
			if err := ctx.Err(); err != nil {
				return err
			}
			fmt.Printf("\n→ %s  [d = delete (save locally + trash), Enter = skip] : ", group.Sender)
			if !sc.Scan() {
				if err := sc.Err(); err != nil {
					return fmt.Errorf("read decision: %w", err)
				}
				// EOF defaults the remaining senders to skip.
				return nil
			}
			choice := strings.ToLower(strings.TrimSpace(sc.Text()))

			switch choice {
			case "", "skip", "keep", "k":
				review.Submit(group.Sender, model.DecisionSkip)
				fmt.Println("   → skipped (kept in Gmail)")
			case "d", "delete", "t", "trash", "remove":
				review.Submit(group.Sender, model.DecisionDelete)
				fmt.Println("   → will save locally then trash from Gmail")
			default:
				fmt.Println("   ?  Only two choices: d = delete (save+trash), Enter = skip")
				continue
			}
			break
		}
		fmt.Println()
	}
	return nil
}

func truncate(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	return string([]rune(s)[:n]) + "…"
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8] + "…"
	}
	return id
}
