package tui

import (
	"mailmop/internal/model"
	"mailmop/internal/sweep"
)

// Async message types for Bubble Tea commands.

type fetchProgressMsg struct {
	done  int
	total int
}

type fetchCompleteMsg struct {
	emails []model.Email
	err    error
}

type execEventMsg sweep.Event

type execCompleteMsg struct {
	saved   []string
	trashed []string
	err     error
}
