package testutil

import (
	"net/http"
	"time"

	"github.com/go-chi/render"

	"github.com/squeng/fixadat/pkg/domain"
)

func (a *IAPI) lookupEvent(w http.ResponseWriter, r *http.Request, hostOnly bool) (*event, bool) {
	id, ok := pathID(r)
	if !ok {
		fail(w, r, http.StatusNotFound, "no such event")
		return nil, false
	}
	e, ok := a.events[id]
	if !ok {
		fail(w, r, http.StatusNotFound, "no such event")
		return nil, false
	}
	if e.gone {
		fail(w, r, http.StatusGone, "event is gone")
		return nil, false
	}
	token := r.Header.Get("X-Access-Token")
	host := token != "" && token == e.data.HostToken
	guest := token != "" && token == e.data.GuestToken
	if !host && !(guest && !hostOnly) {
		fail(w, r, http.StatusForbidden, "wrong token")
		return nil, false
	}
	return e, host
}

// ExpireEvent makes the event answer 410 Gone.
func (a *IAPI) ExpireEvent(id int64) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if e, ok := a.events[id]; ok {
		e.gone = true
	}
}

func (a *IAPI) postEvent(w http.ResponseWriter, r *http.Request) {
	if !bareBody(w, r) {
		return
	}
	data := a.SeedEvent(domain.EventData{
		Created: domain.NewTimestamp(time.Now().UTC()),
		Updated: domain.NewTimestamp(time.Now().UTC()),
	})
	render.Status(r, http.StatusCreated)
	render.JSON(w, r, domain.EventCreated{ID: data.ID, HostToken: data.HostToken})
}

func (a *IAPI) getEvent(w http.ResponseWriter, r *http.Request) {
	a.mu.Lock()
	defer a.mu.Unlock()
	e, host := a.lookupEvent(w, r, false)
	if e == nil {
		return
	}
	out := e.data
	if !host || r.URL.Query().Get("view") != "host" {
		out.HostToken = ""
		out.Rsvps = []domain.Rsvp{}
		out.Subscriptions = domain.Subscriptions{}
	}
	render.JSON(w, r, out)
}

func (a *IAPI) deleteEvent(w http.ResponseWriter, r *http.Request) {
	a.mu.Lock()
	defer a.mu.Unlock()
	e, _ := a.lookupEvent(w, r, true)
	if e == nil {
		return
	}
	delete(a.events, e.data.ID)
	noContent(w)
}

// updateEvent decodes the body into v and applies it to the event under lock.
func updateEvent[T any](a *IAPI, w http.ResponseWriter, r *http.Request, apply func(*domain.EventData, T)) {
	var v T
	if err := render.DecodeJSON(r.Body, &v); err != nil {
		fail(w, r, http.StatusBadRequest, "failed to decode request")
		return
	}
	a.mu.Lock()
	defer a.mu.Unlock()
	e, _ := a.lookupEvent(w, r, true)
	if e == nil {
		return
	}
	apply(&e.data, v)
	noContent(w)
}

func (a *IAPI) putEventText(w http.ResponseWriter, r *http.Request) {
	updateEvent(a, w, r, func(d *domain.EventData, t domain.Text) {
		d.Name, d.Description = t.Name, t.Description
	})
}

func (a *IAPI) putEventSchedule(w http.ResponseWriter, r *http.Request) {
	updateEvent(a, w, r, func(d *domain.EventData, s domain.Schedule) {
		d.Date, d.Time, d.TimeZone = s.Date, s.Time, s.TimeZone
	})
}

func (a *IAPI) putEventLocation(w http.ResponseWriter, r *http.Request) {
	updateEvent(a, w, r, func(d *domain.EventData, l domain.Location) {
		d.URL, d.Geo = l.URL, l.Geo
	})
}

func (a *IAPI) patchEvent(w http.ResponseWriter, r *http.Request) {
	updateEvent(a, w, r, func(d *domain.EventData, s domain.EventSettings) {
		d.EmailAddressRequired = s.EmailAddressRequired
		d.PhoneNumberRequired = s.PhoneNumberRequired
		d.Plus1Allowed = s.Plus1Allowed
	})
}

func (a *IAPI) putEventVisibility(w http.ResponseWriter, r *http.Request) {
	updateEvent(a, w, r, func(d *domain.EventData, body struct {
		Visibility domain.Visibility `json:"visibility"`
	}) {
		d.Visibility = body.Visibility
	})
}

func (a *IAPI) postRsvp(w http.ResponseWriter, r *http.Request) {
	var rsvp domain.Rsvp
	if err := render.DecodeJSON(r.Body, &rsvp); err != nil {
		fail(w, r, http.StatusBadRequest, "failed to decode request")
		return
	}
	a.mu.Lock()
	defer a.mu.Unlock()
	e, _ := a.lookupEvent(w, r, false)
	if e == nil {
		return
	}
	ev := domain.NewEvent(nil, e.data, "", false, "")
	if err := ev.CheckRsvp(rsvp); err != nil {
		fail(w, r, http.StatusBadRequest, err.Error())
		return
	}
	if e.data.Visibility != domain.VisibilityPublic {
		fail(w, r, http.StatusForbidden, "event is read-only")
		return
	}
	rsvp.Created = domain.NewTimestamp(time.Now().UTC())
	rsvps := e.data.Rsvps[:0:0]
	for _, old := range e.data.Rsvps {
		if old.Name != rsvp.Name {
			rsvps = append(rsvps, old)
		}
	}
	e.data.Rsvps = append(rsvps, rsvp)
	noContent(w)
}

func (a *IAPI) postEventReminder(w http.ResponseWriter, r *http.Request) {
	var s domain.Subscriptions
	if err := render.DecodeJSON(r.Body, &s); err != nil {
		fail(w, r, http.StatusBadRequest, "failed to decode request")
		return
	}
	a.mu.Lock()
	defer a.mu.Unlock()
	if e, _ := a.lookupEvent(w, r, true); e == nil {
		return
	}
	a.reminders = append(a.reminders, s)
	noContent(w)
}
