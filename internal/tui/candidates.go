package tui

import (
	"fmt"
	"slices"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/squeng/fixadat/pkg/domain"
)

type candidatesMode int

const (
	candidatesBrowse candidatesMode = iota
	candidatesAdding
	candidatesZone
)

// saveScheduleMsg asks the page to store the edited candidates.
type saveScheduleMsg struct {
	candidates []string
	timeZone   string
}

// candidatesModel edits the election's candidate date-times.
type candidatesModel struct {
	draft   []string
	initial []string
	zone    string
	zone0   string
	zones   []string

	cursor int
	mode   candidatesMode
	input  string
	notice string
	saving bool
}

func newCandidatesModel(e *domain.Election) candidatesModel {
	m := candidatesModel{}
	return m.sync(e, true)
}

// sync loads the election's schedule. Unsaved edits survive unless force.
func (m candidatesModel) sync(e *domain.Election, force bool) candidatesModel {
	if e == nil {
		return m
	}
	m.saving = false
	initial, err := domain.NormalizeSchedule(e.Candidates)
	if err != nil {
		initial = e.SortedCandidates()
	}
	dirty := m.dirty()
	m.initial, m.zone0 = initial, e.TimeZone
	if force || !dirty {
		m.draft = slices.Clone(initial)
		m.zone = e.TimeZone
		m.cursor = min(m.cursor, max(len(m.draft)-1, 0))
	}
	return m
}

func (m candidatesModel) dirty() bool {
	return !domain.SameCandidates(m.draft, m.initial) || m.zone != m.zone0
}

// canSave reports whether the draft differs from what is stored and has at
// least one candidate.
func (m candidatesModel) canSave() bool {
	return m.dirty() && len(m.draft) > 0 && !m.saving
}

func (m candidatesModel) editing() bool { return m.mode != candidatesBrowse }

func (m candidatesModel) Update(msg tea.Msg) (candidatesModel, tea.Cmd) {
	switch msg := msg.(type) {
	case timeZonesMsg:
		if msg.err == nil {
			m.zones = msg.zones
		}
		return m, nil

	case tea.KeyMsg:
		m.notice = ""
		switch m.mode {
		case candidatesAdding:
			return m.updateInput(msg, m.add)
		case candidatesZone:
			return m.updateInput(msg, m.setZone)
		}

		switch msg.String() {
		case "j", "down":
			if m.cursor < len(m.draft)-1 {
				m.cursor++
			}
		case "k", "up":
			if m.cursor > 0 {
				m.cursor--
			}
		case "a", "n":
			m.mode = candidatesAdding
			m.input = ""
		case "d", "x":
			if len(m.draft) > 0 {
				m.draft = slices.Delete(slices.Clone(m.draft), m.cursor, m.cursor+1)
				m.cursor = min(m.cursor, max(len(m.draft)-1, 0))
			}
		case "z":
			m.mode = candidatesZone
			m.input = m.zone
		case "r":
			m.draft = slices.Clone(m.initial)
			m.zone = m.zone0
			m.cursor = 0
		case "s", "ctrl+s":
			if !m.canSave() {
				if len(m.draft) == 0 {
					m.notice = "add at least one date"
				} else {
					m.notice = "nothing to save"
				}
				return m, nil
			}
			m.saving = true
			candidates, zone := slices.Clone(m.draft), m.zone
			return m, func() tea.Msg { return saveScheduleMsg{candidates: candidates, timeZone: zone} }
		}
	}
	return m, nil
}

func (m candidatesModel) updateInput(msg tea.KeyMsg, accept func(string) (candidatesModel, error)) (candidatesModel, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.mode = candidatesBrowse
		m.input = ""
	case "enter":
		next, err := accept(strings.TrimSpace(m.input))
		if err != nil {
			m.notice = err.Error()
			return m, nil
		}
		next.mode = candidatesBrowse
		next.input = ""
		return next, nil
	default:
		m.input = edit(m.input, msg, lineLimit)
	}
	return m, nil
}

func (m candidatesModel) add(input string) (candidatesModel, error) {
	normalized, err := domain.NormalizeCandidate(input)
	if err != nil {
		return m, fmt.Errorf("not a date and time: %q", input)
	}
	key := domain.CandidateKey(normalized)
	for _, c := range m.draft {
		if domain.CandidateKey(c) == key {
			return m, fmt.Errorf("%s is already a candidate", formatCandidate(c))
		}
	}
	m.draft = domain.SortCandidates(append(slices.Clone(m.draft), normalized))
	m.cursor = slices.Index(m.draft, normalized)
	return m, nil
}

func (m candidatesModel) setZone(input string) (candidatesModel, error) {
	if input == "" {
		m.zone = ""
		return m, nil
	}
	if len(m.zones) > 0 {
		if !slices.Contains(m.zones, input) {
			return m, fmt.Errorf("unknown time zone %q", input)
		}
	} else if _, err := time.LoadLocation(input); err != nil {
		return m, fmt.Errorf("unknown time zone %q", input)
	}
	m.zone = input
	return m, nil
}

// zoneMatches lists known zones starting with the typed prefix.
func (m candidatesModel) zoneMatches(limit int) []string {
	var out []string
	prefix := strings.ToLower(m.input)
	for _, z := range m.zones {
		if strings.HasPrefix(strings.ToLower(z), prefix) {
			out = append(out, z)
			if len(out) == limit {
				break
			}
		}
	}
	return out
}

func (m candidatesModel) helpKeys() string {
	switch m.mode {
	case candidatesAdding, candidatesZone:
		return helpBar("enter", "ok", "esc", "cancel")
	}
	return helpBar("j/k", "nav", "a", "add", "d", "delete", "z", "time zone", "s", "save", "r", "revert")
}

func (m candidatesModel) View() string {
	var b strings.Builder

	zone := m.zone
	if zone == "" {
		zone = "no time zone"
	}
	b.WriteString(" " + metaStyle.Render("time zone ") + normalStyle.Render(zone) + "\n\n")

	if len(m.draft) == 0 {
		b.WriteString(" " + dimStyle.Render("No dates yet. Press a to add one.") + "\n")
	}
	for i, c := range m.draft {
		line := formatCandidate(c)
		if i == m.cursor {
			b.WriteString(" " + accentStyle.Render("▸ ") + selectedStyle.Render(line) + "\n")
		} else {
			b.WriteString("   " + normalStyle.Render(line) + "\n")
		}
	}

	b.WriteString("\n")
	switch m.mode {
	case candidatesAdding:
		b.WriteString(" " + inputPromptStyle.Render("date ") + m.input + "█  " + inputPlaceholderStyle.Render("YYYY-MM-DD HH:MM") + "\n")
	case candidatesZone:
		b.WriteString(" " + inputPromptStyle.Render("zone ") + m.input + "█\n")
		for _, z := range m.zoneMatches(5) {
			b.WriteString("      " + dimStyle.Render(z) + "\n")
		}
	default:
		switch {
		case m.saving:
			b.WriteString(" " + dimStyle.Render("saving…") + "\n")
		case m.canSave():
			b.WriteString(" " + ifNeedBeStyle.Render("unsaved changes") + "\n")
		}
	}
	if m.notice != "" {
		b.WriteString(" " + errorStyle.Render(m.notice) + "\n")
	}
	return b.String()
}
