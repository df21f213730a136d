package domain

import "context"

// ElectionCreated is the answer to a bare election POST.
type ElectionCreated struct {
	ID             int64  `json:"id"`
	OrganizerToken string `json:"organizerToken"`
}

// EventCreated is the answer to a bare event POST.
type EventCreated struct {
	ID        int64  `json:"id"`
	HostToken string `json:"hostToken"`
}

// Text is the name/description field group shared by elections and events.
type Text struct {
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
}

// Nominees is the schedule field group of an election.
type Nominees struct {
	Candidates []string `json:"candidates"`
	TimeZone   string   `json:"timeZone,omitempty"`
}

// Subscriptions is where the organizer wants to hear about new responses.
// It is also the body of a reminder.
type Subscriptions struct {
	EmailAddress string `json:"emailAddress,omitempty"`
	PhoneNumber  string `json:"phoneNumber,omitempty"`
}

// Empty reports whether no channel is set.
func (s Subscriptions) Empty() bool {
	return s.EmailAddress == "" && s.PhoneNumber == ""
}

// ElectionRepository is the back end of the election page. Every method maps to
// one endpoint and takes only the fields it changes. Mutations report failure
// as an error carrying the HTTP status.
type ElectionRepository interface {
	PostElection(ctx context.Context) (*ElectionCreated, error)
	GetElection(ctx context.Context, id int64, token, timeZone string) (*ElectionData, error)
	PutElectionText(ctx context.Context, id int64, token string, text Text) error
	PutElectionSchedule(ctx context.Context, id int64, token string, nominees Nominees) error
	PutElectionVisibility(ctx context.Context, id int64, token string, visibility Visibility) error
	PatchElectionSubscriptions(ctx context.Context, id int64, token string, subscriptions Subscriptions) error
	PostVote(ctx context.Context, id int64, token string, ballot Ballot) error
	DeleteVote(ctx context.Context, id int64, token, name string, voted Timestamp) error
	DeleteElection(ctx context.Context, id int64, token string) error
	PostElectionReminder(ctx context.Context, id int64, token string, recipients Subscriptions) error
}

// EventRepository is the back end of the event page.
type EventRepository interface {
	PostEvent(ctx context.Context) (*EventCreated, error)
	GetEvent(ctx context.Context, id int64, token string, host bool, timeZone string) (*EventData, error)
	PutEventText(ctx context.Context, id int64, token string, text Text) error
	PutEventSchedule(ctx context.Context, id int64, token string, schedule Schedule) error
	PutEventLocation(ctx context.Context, id int64, token string, location Location) error
	PatchEventSettings(ctx context.Context, id int64, token string, settings EventSettings) error
	PutEventVisibility(ctx context.Context, id int64, token string, visibility Visibility) error
	PostRsvp(ctx context.Context, id int64, token string, rsvp Rsvp) error
	PostEventReminder(ctx context.Context, id int64, token string, recipients Subscriptions) error
	DeleteEvent(ctx context.Context, id int64, token string) error
}
