package domain

import (
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"strings"
)

// LinkKind tells election links from event links.
type LinkKind int

const (
	LinkElection LinkKind = iota
	LinkEvent
)

func (k LinkKind) String() string {
	if k == LinkEvent {
		return "event"
	}
	return "election"
}

// Link is a share link taken apart. The token lives in the fragment and never
// travels to the server in a path or query.
type Link struct {
	Kind     LinkKind
	Origin   string
	ID       int64
	Token    string
	TimeZone string
	BrandNew bool
	Host     bool
}

var errNotAShareLink = errors.New("not an election or event link")

// ParseLink reads a link of the form {origin}/elections/{id}[/{tab}][?query]#{token}
// or {origin}/events/{id}[/{tab}][?view=host]#{token}. A tab segment such as
// /tally or /RSVPs is ignored.
func ParseLink(raw string) (Link, error) {
	u, err := url.Parse(strings.TrimSpace(raw))
	if err != nil {
		return Link{}, fmt.Errorf("parse link: %w", err)
	}
	parts := strings.Split(strings.Trim(u.Path, "/"), "/")

	var l Link
	at := -1
	for i := len(parts) - 2; i >= 0 && at < 0; i-- {
		switch parts[i] {
		case "elections":
			l.Kind, at = LinkElection, i
		case "events":
			l.Kind, at = LinkEvent, i
		}
	}
	if at < 0 || len(parts)-at > 3 {
		return Link{}, errNotAShareLink
	}
	idPart := parts[at+1]
	l.ID, err = strconv.ParseInt(idPart, 10, 64)
	if err != nil {
		return Link{}, fmt.Errorf("parse link id %q: %w", idPart, err)
	}
	if u.Scheme != "" && u.Host != "" {
		base := strings.Join(parts[:at], "/")
		l.Origin = u.Scheme + "://" + u.Host
		if base != "" {
			l.Origin += "/" + base
		}
	}
	l.Token = u.Fragment
	q := u.Query()
	l.TimeZone = q.Get("timeZone")
	l.BrandNew = q.Get("brandNew") == "true"
	l.Host = q.Get("view") == "host"
	return l, nil
}

// String renders the link back to its shareable form.
func (l Link) String() string {
	var b strings.Builder
	b.WriteString(strings.TrimRight(l.Origin, "/"))
	if l.Kind == LinkEvent {
		b.WriteString("/events/")
	} else {
		b.WriteString("/elections/")
	}
	b.WriteString(strconv.FormatInt(l.ID, 10))

	q := url.Values{}
	if l.BrandNew {
		q.Set("brandNew", "true")
	}
	if l.TimeZone != "" {
		q.Set("timeZone", l.TimeZone)
	}
	if l.Host {
		q.Set("view", "host")
	}
	if len(q) > 0 {
		b.WriteString("?")
		b.WriteString(q.Encode())
	}
	if l.Token != "" {
		b.WriteString("#")
		b.WriteString(l.Token)
	}
	return b.String()
}

// VoterLink is the link organizers hand out to voters.
func VoterLink(origin string, id int64, voterToken string) string {
	return Link{Kind: LinkElection, Origin: origin, ID: id, Token: voterToken}.String()
}

// OrganizerLink reopens the election with organizer rights.
func OrganizerLink(origin string, id int64, organizerToken string) string {
	return Link{Kind: LinkElection, Origin: origin, ID: id, Token: organizerToken}.String()
}

// GuestLink is the link hosts hand out to guests.
func GuestLink(origin string, id int64, guestToken string) string {
	return Link{Kind: LinkEvent, Origin: origin, ID: id, Token: guestToken}.String()
}

// HostLink reopens the event in the host view.
func HostLink(origin string, id int64, hostToken string) string {
	return Link{Kind: LinkEvent, Origin: origin, ID: id, Token: hostToken, Host: true}.String()
}
