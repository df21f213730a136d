package tui

import (
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/squeng/fixadat/pkg/domain"
)

// formatTime renders a relative timestamp for vote and RSVP lists.
func formatTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	d := time.Since(t)
	switch {
	case d < time.Minute:
		return "just now"
	case d < time.Hour:
		return fmt.Sprintf("%dm ago", int(d.Minutes()))
	case d < 24*time.Hour:
		return fmt.Sprintf("%dh ago", int(d.Hours()))
	default:
		return fmt.Sprintf("%dd ago", int(d.Hours()/24))
	}
}

// formatCandidate renders a candidate as "Mon 01 Jan 2024 10:00". Strings that
// do not parse are shown as they are.
func formatCandidate(c string) string {
	t, err := domain.ParseCandidate(c)
	if err != nil {
		return c
	}
	return t.Format("Mon 02 Jan 2006 15:04")
}

// truncStr truncates a string to maxLen runes, appending an ellipsis if needed.
func truncStr(s string, maxLen int) string {
	if maxLen <= 0 {
		return ""
	}
	if utf8.RuneCountInString(s) <= maxLen {
		return s
	}
	runes := []rune(s)
	return string(runes[:maxLen-1]) + "…"
}

// indent prefixes every line of s.
func indent(s, prefix string) string {
	lines := strings.Split(s, "\n")
	for i, l := range lines {
		if l != "" {
			lines[i] = prefix + l
		}
	}
	return strings.Join(lines, "\n")
}

func boolValue(b bool) string {
	if b {
		return "true"
	}
	return "false"
}
