package tui

import (
	"context"

	"github.com/atotto/clipboard"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog"

	"github.com/squeng/fixadat/internal/browser"
	"github.com/squeng/fixadat/pkg/client"
	"github.com/squeng/fixadat/pkg/domain"
)

// Lookups are the read-only helper endpoints.
type Lookups interface {
	TimeZones(ctx context.Context) ([]string, error)
	Validate(ctx context.Context, kind client.ValidationKind, value string) (client.Validation, error)
}

// Deps is everything a page needs from the outside.
type Deps struct {
	Elections     domain.ElectionRepository
	Events        domain.EventRepository
	Lookups       Lookups
	Localizations domain.Localizations

	// Origin is prefixed to share links.
	Origin string
	// TimeZone is the zone votes are cast in and pages are loaded in
	// when the link does not name one.
	TimeZone string

	Log       zerolog.Logger
	Clipboard func(string) error
	OpenURL   func(string) error
}

func (d Deps) withDefaults() Deps {
	if d.Clipboard == nil {
		d.Clipboard = clipboard.WriteAll
	}
	if d.OpenURL == nil {
		d.OpenURL = browser.Open
	}
	if d.TimeZone == "" {
		d.TimeZone = "UTC"
	}
	return d
}

func (d Deps) l10n(key, fallback string) string {
	return d.Localizations.Get(key, fallback)
}

// fail logs err and turns it into an error banner.
func (d Deps) fail(action string, err error) banner {
	ev := d.Log.Error().Err(err).Str("action", action)
	if status, ok := domain.StatusOf(err); ok {
		ev = ev.Int("status", status)
	}
	ev.Msg("request failed")
	return errorBanner(action + " failed: " + err.Error())
}

func timeZonesCmd(l Lookups) tea.Cmd {
	if l == nil {
		return nil
	}
	return func() tea.Msg {
		zones, err := l.TimeZones(context.Background())
		return timeZonesMsg{zones: zones, err: err}
	}
}

type timeZonesMsg struct {
	zones []string
	err   error
}
