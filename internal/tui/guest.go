package tui

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/squeng/fixadat/pkg/client"
	"github.com/squeng/fixadat/pkg/domain"
)

// guestModel is the event card with the RSVP form under it.
type guestModel struct {
	event *domain.Event
	form  sectionsModel
}

func rsvpSection(e *domain.Event) section {
	options := make([]string, 0, 3)
	for _, a := range e.AttendanceOptions() {
		options = append(options, string(a))
	}
	email := "E-mail"
	if e.EmailAddressRequired {
		email += " *"
	}
	phone := "SMS"
	if e.PhoneNumberRequired {
		phone += " *"
	}
	return section{
		key:   "rsvp",
		title: "Will you come?",
		form: newForm("rsvp",
			formField{label: "Name", kind: textField, required: true, placeholder: "your name"},
			formField{label: "Answer", kind: choiceField, value: string(domain.AttendanceAlone), options: options},
			formField{label: email, kind: textField, check: client.ValidateEmailAddress, placeholder: "name@example.com"},
			formField{label: phone, kind: textField, check: client.ValidateCellPhoneNumber, placeholder: "+41 79 123 45 67"},
		),
	}
}

// rsvpFrom reads the RSVP form.
func rsvpFrom(f form) domain.Rsvp {
	return domain.Rsvp{
		Name:         f.value(0),
		Attendance:   domain.Attendance(f.value(1)),
		EmailAddress: f.value(2),
		PhoneNumber:  f.value(3),
	}
}

func (m guestModel) sync(e *domain.Event, force string) guestModel {
	m.event = e
	m.form = m.form.sync([]section{rsvpSection(e)}, force)
	return m
}

func (m guestModel) editing() bool { return m.form.editing }

func (m guestModel) Update(msg tea.Msg, lookups Lookups) (guestModel, tea.Cmd) {
	if _, ok := msg.(tea.KeyMsg); ok && (m.event == nil || !m.event.AcceptsRsvps()) {
		return m, nil
	}
	var cmd tea.Cmd
	m.form, cmd = m.form.Update(msg, lookups)
	return m, cmd
}

func (m guestModel) helpKeys() string {
	if m.event == nil || !m.event.AcceptsRsvps() {
		return ""
	}
	if m.form.editing {
		return m.form.helpKeys()
	}
	return helpBar("enter", "answer", "s", "send")
}

// eventCard renders what every visitor sees of an event.
func eventCard(e *domain.Event) string {
	var b strings.Builder
	when := strings.TrimSpace(e.Date + " " + e.Time)
	if when != "" {
		if e.TimeZone != "" {
			when += " (" + e.TimeZone + ")"
		}
		b.WriteString(" " + metaStyle.Render("When  ") + normalStyle.Render(when) + "\n")
	}
	if e.Geo != nil && e.Geo.Name != "" {
		b.WriteString(" " + metaStyle.Render("Where ") + normalStyle.Render(e.Geo.Name) +
			dimStyle.Render(fmt.Sprintf("  %.5f, %.5f", e.Geo.Latitude, e.Geo.Longitude)) + "\n")
	}
	if e.URL != "" {
		b.WriteString(" " + metaStyle.Render("Link  ") + normalStyle.Render(e.URL) + "\n")
	}
	if lines := e.DescriptionLines(); len(lines) > 0 {
		b.WriteString("\n" + descriptionView(lines))
	}
	return b.String()
}

func (m guestModel) View() string {
	if m.event == nil {
		return ""
	}
	var b strings.Builder
	b.WriteString(eventCard(m.event) + "\n")
	if !m.event.AcceptsRsvps() {
		b.WriteString(" " + metaStyle.Render("Answers are closed: this event is read only.") + "\n")
		return b.String()
	}
	b.WriteString(m.form.View())
	return b.String()
}
