package domain

import (
	"context"
	"fmt"
	"slices"
)

// Attendance is a guest's answer to an event.
type Attendance string

const (
	AttendanceNot       Attendance = "Not"
	AttendanceAlone     Attendance = "Alone"
	AttendanceWithPlus1 Attendance = "WithPlus1"
)

// Attendances lists every attendance in form order.
var Attendances = []Attendance{AttendanceNot, AttendanceAlone, AttendanceWithPlus1}

// ValidAttendance returns true if a is a known attendance.
func ValidAttendance(a Attendance) bool {
	switch a {
	case AttendanceNot, AttendanceAlone, AttendanceWithPlus1:
		return true
	}
	return false
}

// Heads is the number of people an attendance brings.
func (a Attendance) Heads() int {
	switch a {
	case AttendanceAlone:
		return 1
	case AttendanceWithPlus1:
		return 2
	default:
		return 0
	}
}

// Geo is a named map position.
type Geo struct {
	Name      string  `json:"name"`
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// Rsvp is one guest's answer.
type Rsvp struct {
	Name         string     `json:"name"`
	EmailAddress string     `json:"emailAddress,omitempty"`
	PhoneNumber  string     `json:"phoneNumber,omitempty"`
	Attendance   Attendance `json:"attendance"`
	Created      Timestamp  `json:"created,omitzero"`
}

// Schedule is the date/time field group of an event. Date is YYYY-MM-DD and
// Time is HH:MM, both local to TimeZone.
type Schedule struct {
	Date     string `json:"date,omitempty"`
	Time     string `json:"time,omitempty"`
	TimeZone string `json:"timeZone,omitempty"`
}

// Location is where an event happens: a link, a map position, or both.
type Location struct {
	URL string `json:"url,omitempty"`
	Geo *Geo   `json:"geo,omitempty"`
}

// EventSettings is the flag field group of an event.
type EventSettings struct {
	EmailAddressRequired bool `json:"emailAddressRequired"`
	PhoneNumberRequired  bool `json:"phoneNumberRequired"`
	Plus1Allowed         bool `json:"plus1Allowed"`
}

// EventData is the event aggregate as the server returns it.
type EventData struct {
	ID                   int64         `json:"id"`
	HostToken            string        `json:"hostToken,omitempty"`
	GuestToken           string        `json:"guestToken"`
	Name                 string        `json:"name"`
	Description          string        `json:"description,omitempty"`
	Date                 string        `json:"date,omitempty"`
	Time                 string        `json:"time,omitempty"`
	TimeZone             string        `json:"timeZone,omitempty"`
	URL                  string        `json:"url,omitempty"`
	Geo                  *Geo          `json:"geo,omitempty"`
	EmailAddressRequired bool          `json:"emailAddressRequired"`
	PhoneNumberRequired  bool          `json:"phoneNumberRequired"`
	Plus1Allowed         bool          `json:"plus1Allowed"`
	Visibility           Visibility    `json:"visibility"`
	Rsvps                []Rsvp        `json:"rsvps"`
	Subscriptions        Subscriptions `json:"subscriptions"`
	Created              Timestamp     `json:"created"`
	Updated              Timestamp     `json:"updated"`
}

func (d EventData) clone() EventData {
	d.Rsvps = slices.Clone(d.Rsvps)
	if d.Geo != nil {
		g := *d.Geo
		d.Geo = &g
	}
	return d
}

// Settings returns the flag field group.
func (d EventData) Settings() EventSettings {
	return EventSettings{
		EmailAddressRequired: d.EmailAddressRequired,
		PhoneNumberRequired:  d.PhoneNumberRequired,
		Plus1Allowed:         d.Plus1Allowed,
	}
}

// Schedule returns the date/time field group.
func (d EventData) Schedule() Schedule {
	return Schedule{Date: d.Date, Time: d.Time, TimeZone: d.TimeZone}
}

// Location returns the location field group.
func (d EventData) Location() Location {
	return Location{URL: d.URL, Geo: d.Geo}
}

// Event is one loaded event. Like Election it is replaced, never changed.
type Event struct {
	EventData

	repo     EventRepository
	token    string
	host     bool
	viewZone string
}

// NewEvent binds data to repo. host records whether the page was opened in the
// host view.
func NewEvent(repo EventRepository, data EventData, token string, host bool, viewZone string) *Event {
	return &Event{EventData: data.clone(), repo: repo, token: token, host: host, viewZone: viewZone}
}

// Token returns the access token used for every call.
func (e *Event) Token() string { return e.token }

// IsHost reports whether the page was opened with the host token.
func (e *Event) IsHost() bool {
	return IsOrganizer(e.token, e.HostToken)
}

// AcceptsRsvps reports whether the RSVP form is offered.
func (e *Event) AcceptsRsvps() bool {
	return e.Visibility.AcceptsResponses()
}

// DescriptionLines splits the description for display.
func (e *Event) DescriptionLines() []string {
	return DescriptionLines(e.Description)
}

// AttendanceOptions lists the answers a guest may pick.
func (e *Event) AttendanceOptions() []Attendance {
	if e.Plus1Allowed {
		return Attendances
	}
	return []Attendance{AttendanceNot, AttendanceAlone}
}

// Headcount sums the people every RSVP brings.
func (e *Event) Headcount() int {
	n := 0
	for _, r := range e.Rsvps {
		n += r.Attendance.Heads()
	}
	return n
}

// CheckRsvp reports the first rule rsvp breaks for this event.
func (e *Event) CheckRsvp(rsvp Rsvp) error {
	if rsvp.Name == "" {
		return ErrNameRequired
	}
	if !ValidAttendance(rsvp.Attendance) {
		return ErrInvalidAttendance
	}
	if rsvp.Attendance == AttendanceWithPlus1 && !e.Plus1Allowed {
		return ErrPlus1NotAllowed
	}
	if rsvp.Attendance == AttendanceNot {
		return nil
	}
	if e.EmailAddressRequired && rsvp.EmailAddress == "" {
		return ErrEmailRequired
	}
	if e.PhoneNumberRequired && rsvp.PhoneNumber == "" {
		return ErrPhoneRequired
	}
	return nil
}

// With returns a copy with patch applied to its data.
func (e *Event) With(patch func(*EventData)) *Event {
	data := e.EventData.clone()
	if patch != nil {
		patch(&data)
	}
	return &Event{EventData: data, repo: e.repo, token: e.token, host: e.host, viewZone: e.viewZone}
}

// Reload fetches the aggregate again.
func (e *Event) Reload(ctx context.Context) (*Event, error) {
	zone := e.viewZone
	if zone == "" {
		zone = e.TimeZone
	}
	data, err := e.repo.GetEvent(ctx, e.ID, e.token, e.host, zone)
	if err != nil {
		return nil, fmt.Errorf("reload event %d: %w", e.ID, err)
	}
	return NewEvent(e.repo, *data, e.token, e.host, e.viewZone), nil
}

// UpdateText replaces name and description.
func (e *Event) UpdateText(ctx context.Context, name, description string) (*Event, error) {
	text := Text{Name: name, Description: description}
	if err := e.repo.PutEventText(ctx, e.ID, e.token, text); err != nil {
		return nil, fmt.Errorf("update event text: %w", err)
	}
	return e.With(func(d *EventData) {
		d.Name = text.Name
		d.Description = text.Description
	}), nil
}

// UpdateSchedule replaces date, time and time zone.
func (e *Event) UpdateSchedule(ctx context.Context, schedule Schedule) (*Event, error) {
	if err := e.repo.PutEventSchedule(ctx, e.ID, e.token, schedule); err != nil {
		return nil, fmt.Errorf("update event schedule: %w", err)
	}
	return e.With(func(d *EventData) {
		d.Date = schedule.Date
		d.Time = schedule.Time
		d.TimeZone = schedule.TimeZone
	}), nil
}

// UpdateLocation replaces the link and map position.
func (e *Event) UpdateLocation(ctx context.Context, location Location) (*Event, error) {
	if err := e.repo.PutEventLocation(ctx, e.ID, e.token, location); err != nil {
		return nil, fmt.Errorf("update event location: %w", err)
	}
	return e.With(func(d *EventData) {
		d.URL = location.URL
		d.Geo = nil
		if location.Geo != nil {
			g := *location.Geo
			d.Geo = &g
		}
	}), nil
}

// UpdateSettings replaces the RSVP requirements.
func (e *Event) UpdateSettings(ctx context.Context, settings EventSettings) (*Event, error) {
	if err := e.repo.PatchEventSettings(ctx, e.ID, e.token, settings); err != nil {
		return nil, fmt.Errorf("update event settings: %w", err)
	}
	return e.With(func(d *EventData) {
		d.EmailAddressRequired = settings.EmailAddressRequired
		d.PhoneNumberRequired = settings.PhoneNumberRequired
		d.Plus1Allowed = settings.Plus1Allowed
	}), nil
}

// UpdateVisibility changes who may see and answer the event.
func (e *Event) UpdateVisibility(ctx context.Context, visibility Visibility) (*Event, error) {
	if err := e.repo.PutEventVisibility(ctx, e.ID, e.token, visibility); err != nil {
		return nil, fmt.Errorf("update event visibility: %w", err)
	}
	return e.With(func(d *EventData) { d.Visibility = visibility }), nil
}

// Rsvp submits an answer and returns the event as the server now has it.
func (e *Event) Rsvp(ctx context.Context, rsvp Rsvp) (*Event, error) {
	if err := e.repo.PostRsvp(ctx, e.ID, e.token, rsvp); err != nil {
		return nil, fmt.Errorf("rsvp: %w", err)
	}
	return e.Reload(ctx)
}

// SendReminder asks the server to send the guest link to recipients.
func (e *Event) SendReminder(ctx context.Context, recipients Subscriptions) error {
	if err := e.repo.PostEventReminder(ctx, e.ID, e.token, recipients); err != nil {
		return fmt.Errorf("send event reminder: %w", err)
	}
	return nil
}

// Delete removes the event.
func (e *Event) Delete(ctx context.Context) error {
	if err := e.repo.DeleteEvent(ctx, e.ID, e.token); err != nil {
		return fmt.Errorf("delete event %d: %w", e.ID, err)
	}
	return nil
}

// CreateEvent asks the server for a new empty event.
func CreateEvent(ctx context.Context, repo EventRepository) (*EventCreated, error) {
	created, err := repo.PostEvent(ctx)
	if err != nil {
		return nil, fmt.Errorf("create event: %w", err)
	}
	return created, nil
}

// RecreateEvent loads an event for the page opened with token.
func RecreateEvent(ctx context.Context, repo EventRepository, id int64, token string, host bool, timeZone string) (*Event, error) {
	if token == "" {
		return nil, ErrMissingToken
	}
	data, err := repo.GetEvent(ctx, id, token, host, timeZone)
	if err != nil {
		return nil, fmt.Errorf("load event %d: %w", id, err)
	}
	return NewEvent(repo, *data, token, host, timeZone), nil
}
