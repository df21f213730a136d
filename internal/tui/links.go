package tui

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/squeng/fixadat/pkg/client"
	"github.com/squeng/fixadat/pkg/domain"
)

type shareLink struct {
	label string
	url   string
	note  string
}

type copiedMsg struct {
	label string
	err   error
}

type openedMsg struct {
	label string
	err   error
}

// linksModel lists the share links of a page and sends reminders.
type linksModel struct {
	links    []shareLink
	cursor   int
	reminder sectionsModel
}

func reminderSection() section {
	return section{
		key:   "reminder",
		title: "Send the link",
		form: newForm("reminder",
			formField{label: "E-mail", kind: textField, check: client.ValidateEmailAddress, placeholder: "name@example.com"},
			formField{label: "SMS", kind: textField, check: client.ValidateCellPhoneNumber, placeholder: "+41 79 123 45 67"},
		),
	}
}

func newLinksModel(links []shareLink) linksModel {
	return linksModel{links: links, reminder: newSectionsModel(reminderSection())}
}

func electionLinks(origin string, e *domain.Election) []shareLink {
	return []shareLink{
		{label: "Voters", url: domain.VoterLink(origin, e.ID, e.VoterToken), note: "share with everyone who should vote"},
		{label: "Organizer", url: domain.OrganizerLink(origin, e.ID, e.OrganizerToken), note: "keep this one to yourself"},
	}
}

func eventLinks(origin string, e *domain.Event) []shareLink {
	return []shareLink{
		{label: "Guests", url: domain.GuestLink(origin, e.ID, e.GuestToken), note: "share with everyone you invite"},
		{label: "Host", url: domain.HostLink(origin, e.ID, e.HostToken), note: "keep this one to yourself"},
	}
}

func (m linksModel) editing() bool { return m.reminder.editing }

// recipients reads the reminder form. Both fields may be set.
func recipients(f form) domain.Subscriptions {
	return domain.Subscriptions{EmailAddress: f.value(0), PhoneNumber: f.value(1)}
}

func (m linksModel) Update(msg tea.Msg, deps Deps) (linksModel, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if m.reminder.editing {
			var cmd tea.Cmd
			m.reminder, cmd = m.reminder.Update(msg, deps.Lookups)
			return m, cmd
		}
		switch msg.String() {
		case "j", "down":
			if m.cursor < len(m.links)-1 {
				m.cursor++
			}
		case "k", "up":
			if m.cursor > 0 {
				m.cursor--
			}
		case "c", "y":
			if len(m.links) == 0 {
				return m, nil
			}
			l := m.links[m.cursor]
			write := deps.Clipboard
			return m, func() tea.Msg { return copiedMsg{label: l.label, err: write(l.url)} }
		case "o":
			if len(m.links) == 0 {
				return m, nil
			}
			l := m.links[m.cursor]
			open := deps.OpenURL
			return m, func() tea.Msg { return openedMsg{label: l.label, err: open(l.url)} }
		case "e", "enter", "s", "r":
			var cmd tea.Cmd
			m.reminder, cmd = m.reminder.Update(msg, deps.Lookups)
			return m, cmd
		}
		return m, nil
	}
	var cmd tea.Cmd
	m.reminder, cmd = m.reminder.Update(msg, deps.Lookups)
	return m, cmd
}

// sent clears the reminder form after the server accepted it.
func (m linksModel) sent(ok bool) linksModel {
	if ok {
		m.reminder = m.reminder.sync([]section{reminderSection()}, "reminder")
	}
	m.reminder = m.reminder.done("reminder")
	return m
}

func (m linksModel) helpKeys() string {
	if m.reminder.editing {
		return m.reminder.helpKeys()
	}
	return helpBar("j/k", "nav", "c", "copy", "o", "open", "e", "reminder", "s", "send")
}

func (m linksModel) View(width int) string {
	var b strings.Builder
	for i, l := range m.links {
		label := l.label
		if i == m.cursor {
			b.WriteString(" " + accentStyle.Render("▸ ") + selectedStyle.Render(label) + "  " + dimStyle.Render(l.note) + "\n")
		} else {
			b.WriteString("   " + normalStyle.Render(label) + "  " + metaStyle.Render(l.note) + "\n")
		}
		b.WriteString("   " + normalStyle.Render(truncStr(l.url, max(width-4, 20))) + "\n\n")
	}
	b.WriteString(m.reminder.View())
	return b.String()
}
