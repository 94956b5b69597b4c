package agent

import (
	"fmt"
	"strings"
	"time"

	"github.com/liveicon/liveicon/internal/agent/command"
	"github.com/liveicon/liveicon/internal/agent/notify"
)

// Notification field limits, in characters.
const (
	TitleCommandLimit = 16
	BodyLimit         = 96
)

// Ellipsis marks a truncated string.
const Ellipsis = "..."

// Truncate keeps the first limit characters of s and appends Ellipsis when s
// is longer than limit. Shorter strings are returned unchanged. A negative
// limit counts as zero.
func Truncate(s string, limit int) string {
	limit = max(limit, 0)
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return string(runes[:limit]) + Ellipsis
}

// FailureMessage builds the notification for a failed run of command.
func FailureMessage(command, errorText string) notify.Message {
	return notify.Message{
		Title: fmt.Sprintf("Running '%s' failed", Truncate(command, TitleCommandLimit)),
		Body:  Truncate(strings.TrimSpace(errorText), BodyLimit),
	}
}

// RunLabel returns the menu title of the activation item.
func RunLabel(command string) string {
	return fmt.Sprintf("Run '%s'", Truncate(command, TitleCommandLimit))
}

// FormatStatus describes a finished run for display.
func FormatStatus(outcome command.Outcome, at time.Time) string {
	stamp := at.Format("15:04:05")
	if outcome.Succeeded {
		return fmt.Sprintf("Last run succeeded at %s", stamp)
	}
	if outcome.ExitCode < 0 {
		return fmt.Sprintf("Last run could not start (%s)", stamp)
	}
	return fmt.Sprintf("Last run failed with exit %d at %s", outcome.ExitCode, stamp)
}
