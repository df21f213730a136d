package tui

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/squeng/fixadat/pkg/domain"
)

// rsvpsModel lists the answers a host has received.
type rsvpsModel struct {
	rsvps     []domain.Rsvp
	headcount int
	cursor    int
}

func (m rsvpsModel) sync(e *domain.Event) rsvpsModel {
	m.rsvps = e.Rsvps
	m.headcount = e.Headcount()
	m.cursor = min(m.cursor, max(len(m.rsvps)-1, 0))
	return m
}

func (m rsvpsModel) Update(msg tea.Msg) (rsvpsModel, tea.Cmd) {
	if key, ok := msg.(tea.KeyMsg); ok {
		switch key.String() {
		case "j", "down":
			if m.cursor < len(m.rsvps)-1 {
				m.cursor++
			}
		case "k", "up":
			if m.cursor > 0 {
				m.cursor--
			}
		}
	}
	return m, nil
}

func attendanceLabel(a domain.Attendance) string {
	switch a {
	case domain.AttendanceAlone:
		return "coming"
	case domain.AttendanceWithPlus1:
		return "coming +1"
	case domain.AttendanceNot:
		return "not coming"
	default:
		return string(a)
	}
}

func attendanceStyleFor(a domain.Attendance) string {
	switch a {
	case domain.AttendanceAlone, domain.AttendanceWithPlus1:
		return yesStyle.Render(attendanceLabel(a))
	default:
		return noStyle.Render(attendanceLabel(a))
	}
}

func (m rsvpsModel) View() string {
	var b strings.Builder
	b.WriteString(" " + titleStyle.Render(fmt.Sprintf("%d", m.headcount)) + " " + metaStyle.Render("people coming") +
		"  " + dimStyle.Render(fmt.Sprintf("(%d answers)", len(m.rsvps))) + "\n\n")
	if len(m.rsvps) == 0 {
		b.WriteString(" " + dimStyle.Render("No answers yet.") + "\n")
	}
	for i, r := range m.rsvps {
		name := fmt.Sprintf("%-20s", truncStr(r.Name, 20))
		contact := strings.TrimSpace(r.EmailAddress + " " + r.PhoneNumber)
		line := name + " " + attendanceStyleFor(r.Attendance)
		if contact != "" {
			line += "  " + metaStyle.Render(contact)
		}
		if when := formatTime(r.Created.Time); when != "" {
			line += "  " + dimStyle.Render(when)
		}
		if i == m.cursor {
			b.WriteString(" " + accentStyle.Render("▸ ") + line + "\n")
		} else {
			b.WriteString("   " + line + "\n")
		}
	}
	return b.String()
}

func (m rsvpsModel) helpKeys() string {
	return helpBar("j/k", "scroll")
}
