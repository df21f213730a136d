package tui

import (
	"strings"
	"unicode"
	"unicode/utf8"

	tea "github.com/charmbracelet/bubbletea"
)

// Rune limits for typed values.
const (
	lineLimit = 200
	textLimit = 4000
)

// edit applies one key to a value being typed. Runes and pastes are appended
// up to limit runes, backspace drops a rune, ctrl+w a word and ctrl+u the lot.
// Any other key leaves text alone.
func edit(text string, k tea.KeyMsg, limit int) string {
	switch k.Type {
	case tea.KeyBackspace:
		_, size := utf8.DecodeLastRuneInString(text)
		return text[:len(text)-size]
	case tea.KeyCtrlW:
		trimmed := strings.TrimRightFunc(text, unicode.IsSpace)
		i := strings.LastIndexFunc(trimmed, unicode.IsSpace)
		return trimmed[:i+1]
	case tea.KeyCtrlU:
		return ""
	case tea.KeySpace:
		return appendText(text, " ", limit)
	case tea.KeyRunes:
		if k.Alt {
			return text
		}
		return appendText(text, string(k.Runes), limit)
	}
	return text
}

// appendText adds s to text, cutting s so the result stays within limit runes.
func appendText(text, s string, limit int) string {
	room := limit - utf8.RuneCountInString(text)
	if room <= 0 {
		return text
	}
	if utf8.RuneCountInString(s) > room {
		s = string([]rune(s)[:room])
	}
	return text + s
}

// clipLines keeps the first n lines of s. n <= 0 keeps everything.
func clipLines(s string, n int) string {
	if n <= 0 {
		return s
	}
	lines := strings.SplitAfterN(s, "\n", n+1)
	if len(lines) <= n {
		return s
	}
	return strings.Join(lines[:n], "")
}
