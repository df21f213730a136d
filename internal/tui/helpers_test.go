package tui

import (
	"strconv"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog"

	"github.com/squeng/fixadat/internal/testutil"
	"github.com/squeng/fixadat/pkg/client"
)

func key(s string) tea.KeyMsg {
	switch s {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	case "tab":
		return tea.KeyMsg{Type: tea.KeyTab}
	case "shift+tab":
		return tea.KeyMsg{Type: tea.KeyShiftTab}
	case "backspace":
		return tea.KeyMsg{Type: tea.KeyBackspace}
	case "up":
		return tea.KeyMsg{Type: tea.KeyUp}
	case "down":
		return tea.KeyMsg{Type: tea.KeyDown}
	case "left":
		return tea.KeyMsg{Type: tea.KeyLeft}
	case "right":
		return tea.KeyMsg{Type: tea.KeyRight}
	case " ":
		return tea.KeyMsg{Type: tea.KeySpace}
	case "ctrl+s":
		return tea.KeyMsg{Type: tea.KeyCtrlS}
	case "ctrl+r":
		return tea.KeyMsg{Type: tea.KeyCtrlR}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

// runes turns text into one key message per rune.
func runes(text string) []tea.KeyMsg {
	out := make([]tea.KeyMsg, 0, len(text))
	for _, r := range text {
		out = append(out, key(string(r)))
	}
	return out
}

// drain runs cmd and feeds every resulting message back into m until no
// command is left. Commands are run in place, so network calls finish
// before drain returns.
func drain(t *testing.T, m tea.Model, cmd tea.Cmd) tea.Model {
	t.Helper()
	if cmd == nil {
		return m
	}
	switch msg := cmd().(type) {
	case nil:
		return m
	case tea.QuitMsg:
		return m
	case tea.BatchMsg:
		for _, c := range msg {
			m = drain(t, m, c)
		}
		return m
	default:
		next, cmd := m.Update(msg)
		return drain(t, next, cmd)
	}
}

// press sends keys one by one, draining each resulting command.
func press(t *testing.T, m tea.Model, keys ...tea.KeyMsg) tea.Model {
	t.Helper()
	for _, k := range keys {
		var cmd tea.Cmd
		m, cmd = m.Update(k)
		m = drain(t, m, cmd)
	}
	return m
}

type testEnv struct {
	api    *testutil.IAPI
	deps   Deps
	copied []string
	opened []string
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	env := &testEnv{api: testutil.NewIAPI(t)}
	c := client.New(env.api.URL(), client.WithTimeout(5*time.Second))
	env.deps = Deps{
		Elections: c,
		Events:    c,
		Lookups:   c,
		Origin:    "https://fixadat.test",
		TimeZone:  "UTC",
		Log:       zerolog.Nop(),
		Clipboard: func(s string) error {
			env.copied = append(env.copied, s)
			return nil
		},
		OpenURL: func(s string) error {
			env.opened = append(env.opened, s)
			return nil
		},
	}
	return env
}

func itoa(id int64) string { return strconv.FormatInt(id, 10) }
