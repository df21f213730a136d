// Package testutil provides an in-memory Fixadat/Squawg back end for tests.
package testutil

import (
	"bytes"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/render"
	"github.com/google/uuid"

	"github.com/squeng/fixadat/pkg/domain"
)

// Request is one call the stub received.
type Request struct {
	Method string
	Path   string
	Query  url.Values
	Header http.Header
	Body   []byte
}

type errorBody struct {
	Error string `json:"error"`
}

type election struct {
	data domain.ElectionData
	gone bool
}

type event struct {
	data domain.EventData
	gone bool
}

// IAPI is an httptest server speaking the /iapi endpoints of both back ends.
// Aggregates live in memory; every request is recorded.
type IAPI struct {
	Server    *httptest.Server
	CSRFToken string

	mu        sync.Mutex
	requests  []Request
	elections map[int64]*election
	events    map[int64]*event
	nextID    int64
	failures  map[string]int
	reminders []domain.Subscriptions
}

// NewIAPI starts a stub server that is closed when t ends.
func NewIAPI(t testing.TB) *IAPI {
	t.Helper()
	a := &IAPI{
		CSRFToken: uuid.NewString(),
		elections: map[int64]*election{},
		events:    map[int64]*event{},
		nextID:    41,
		failures:  map[string]int{},
	}
	a.Server = httptest.NewServer(a.router())
	t.Cleanup(a.Server.Close)
	return a
}

// URL is the stub's origin.
func (a *IAPI) URL() string { return a.Server.URL }

// Requests returns a copy of everything received so far, landing page excluded.
func (a *IAPI) Requests() []Request {
	a.mu.Lock()
	defer a.mu.Unlock()
	return append([]Request(nil), a.requests...)
}

// Count returns how many requests used method on path.
func (a *IAPI) Count(method, path string) int {
	n := 0
	for _, r := range a.Requests() {
		if r.Method == method && r.Path == path {
			n++
		}
	}
	return n
}

// Last returns the most recent request, or the zero Request.
func (a *IAPI) Last() Request {
	reqs := a.Requests()
	if len(reqs) == 0 {
		return Request{}
	}
	return reqs[len(reqs)-1]
}

// Reminders returns the recipients of every reminder sent.
func (a *IAPI) Reminders() []domain.Subscriptions {
	a.mu.Lock()
	defer a.mu.Unlock()
	return append([]domain.Subscriptions(nil), a.reminders...)
}

// FailNext makes the next method request on path answer status.
func (a *IAPI) FailNext(method, path string, status int) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.failures[method+" "+path] = status
}

// SeedElection stores data, filling in id and tokens when missing, and
// returns what was stored.
func (a *IAPI) SeedElection(data domain.ElectionData) domain.ElectionData {
	a.mu.Lock()
	defer a.mu.Unlock()
	if data.ID == 0 {
		a.nextID++
		data.ID = a.nextID
	}
	if data.OrganizerToken == "" {
		data.OrganizerToken = uuid.NewString()
	}
	if data.VoterToken == "" {
		data.VoterToken = uuid.NewString()
	}
	if data.Visibility == "" {
		data.Visibility = domain.VisibilityPublic
	}
	if data.Candidates == nil {
		data.Candidates = []string{}
	}
	if data.Votes == nil {
		data.Votes = []domain.Vote{}
	}
	a.elections[data.ID] = &election{data: data}
	return data
}

// Election returns the stored election.
func (a *IAPI) Election(id int64) (domain.ElectionData, bool) {
	a.mu.Lock()
	defer a.mu.Unlock()
	e, ok := a.elections[id]
	if !ok {
		return domain.ElectionData{}, false
	}
	return e.data, true
}

// ExpireElection makes the election answer 410 Gone.
func (a *IAPI) ExpireElection(id int64) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if e, ok := a.elections[id]; ok {
		e.gone = true
	}
}

// SeedEvent stores data, filling in id and tokens when missing.
func (a *IAPI) SeedEvent(data domain.EventData) domain.EventData {
	a.mu.Lock()
	defer a.mu.Unlock()
	if data.ID == 0 {
		a.nextID++
		data.ID = a.nextID
	}
	if data.HostToken == "" {
		data.HostToken = uuid.NewString()
	}
	if data.GuestToken == "" {
		data.GuestToken = uuid.NewString()
	}
	if data.Visibility == "" {
		data.Visibility = domain.VisibilityPublic
	}
	if data.Rsvps == nil {
		data.Rsvps = []domain.Rsvp{}
	}
	a.events[data.ID] = &event{data: data}
	return data
}

// Event returns the stored event.
func (a *IAPI) Event(id int64) (domain.EventData, bool) {
	a.mu.Lock()
	defer a.mu.Unlock()
	e, ok := a.events[id]
	if !ok {
		return domain.EventData{}, false
	}
	return e.data, true
}

func (a *IAPI) router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Get("/", a.landing)

	r.Route("/iapi", func(r chi.Router) {
		r.Use(a.record)
		r.Use(a.checkCSRF)
		r.Use(a.injectFailure)

		r.Get("/timeZones", func(w http.ResponseWriter, r *http.Request) {
			render.JSON(w, r, []string{"America/New_York", "Europe/Zurich", "UTC"})
		})
		r.Get("/l10nMessages", func(w http.ResponseWriter, r *http.Request) {
			render.JSON(w, r, domain.Localizations{"texts": "Texts", "votes": "Votes"})
		})
		r.Get("/validations/{collection}", a.validate)

		r.Post("/elections", a.postElection)
		r.Route("/elections/{id}", func(r chi.Router) {
			r.Get("/", a.getElection)
			r.Delete("/", a.deleteElection)
			r.Put("/text", a.putElectionText)
			r.Put("/nominees", a.putElectionNominees)
			r.Put("/visibility", a.putElectionVisibility)
			r.Patch("/subscriptions", a.patchElectionSubscriptions)
			r.Post("/votes", a.postVote)
			r.Delete("/votes", a.deleteVote)
			r.Post("/reminders", a.postElectionReminder)
		})

		r.Post("/events", a.postEvent)
		r.Route("/events/{id}", func(r chi.Router) {
			r.Get("/", a.getEvent)
			r.Patch("/", a.patchEvent)
			r.Delete("/", a.deleteEvent)
			r.Put("/text", a.putEventText)
			r.Put("/schedule", a.putEventSchedule)
			r.Put("/location", a.putEventLocation)
			r.Put("/visibility", a.putEventVisibility)
			r.Post("/RSVPs", a.postRsvp)
			r.Post("/reminders", a.postEventReminder)
		})
	})
	return r
}

func (a *IAPI) landing(w http.ResponseWriter, _ *http.Request) {
	http.SetCookie(w, &http.Cookie{Name: "PLAY_SESSION", Value: "s-" + a.CSRFToken, Path: "/"})
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	fmt.Fprintf(w, `<!DOCTYPE html><html><head><meta charset="utf-8"><meta name="csrf-token" content="%s"></head><body></body></html>`, a.CSRFToken)
}

func (a *IAPI) record(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		r.Body = io.NopCloser(bytes.NewReader(body))
		a.mu.Lock()
		a.requests = append(a.requests, Request{
			Method: r.Method,
			Path:   r.URL.Path,
			Query:  r.URL.Query(),
			Header: r.Header.Clone(),
			Body:   body,
		})
		a.mu.Unlock()
		next.ServeHTTP(w, r)
	})
}

func (a *IAPI) checkCSRF(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet, http.MethodHead, http.MethodOptions:
		default:
			if r.Header.Get("Csrf-Token") != a.CSRFToken {
				fail(w, r, http.StatusForbidden, "csrf token mismatch")
				return
			}
		}
		next.ServeHTTP(w, r)
	})
}

func (a *IAPI) injectFailure(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		key := r.Method + " " + r.URL.Path
		a.mu.Lock()
		status, ok := a.failures[key]
		delete(a.failures, key)
		a.mu.Unlock()
		if ok {
			fail(w, r, status, http.StatusText(status))
			return
		}
		next.ServeHTTP(w, r)
	})
}

func fail(w http.ResponseWriter, r *http.Request, status int, msg string) {
	render.Status(r, status)
	render.JSON(w, r, errorBody{Error: msg})
}

func noContent(w http.ResponseWriter) {
	w.WriteHeader(http.StatusNoContent)
}

func pathID(r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	return id, err == nil
}

func (a *IAPI) validate(w http.ResponseWriter, r *http.Request) {
	var value string
	var valid bool
	switch chi.URLParam(r, "collection") {
	case "emailAddresses":
		value = r.URL.Query().Get("emailAddress")
		at := strings.Index(value, "@")
		valid = at > 0 && strings.Contains(value[at:], ".")
	case "cellPhoneNumbers":
		value = r.URL.Query().Get("cellPhoneNumber")
		valid = strings.HasPrefix(value, "+") && len(value) >= 8
	case "urls":
		value = r.URL.Query().Get("url")
		u, err := url.Parse(value)
		valid = err == nil && (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
	default:
		fail(w, r, http.StatusNotFound, "unknown validation")
		return
	}
	render.JSON(w, r, map[string]any{"value": value, "valid": valid})
}

// lookupElection resolves the election and the caller's role. It writes the
// error response itself and returns nil when the request must stop.
func (a *IAPI) lookupElection(w http.ResponseWriter, r *http.Request, organizerOnly bool) (*election, bool) {
	id, ok := pathID(r)
	if !ok {
		fail(w, r, http.StatusNotFound, "no such election")
		return nil, false
	}
	e, ok := a.elections[id]
	if !ok {
		fail(w, r, http.StatusNotFound, "no such election")
		return nil, false
	}
	if e.gone {
		fail(w, r, http.StatusGone, "election is gone")
		return nil, false
	}
	token := r.Header.Get("X-Access-Token")
	organizer := token != "" && token == e.data.OrganizerToken
	voter := token != "" && token == e.data.VoterToken
	if !organizer && !(voter && !organizerOnly) {
		fail(w, r, http.StatusForbidden, "wrong token")
		return nil, false
	}
	return e, organizer
}

// bareBody rejects a creation request that carries a body.
func bareBody(w http.ResponseWriter, r *http.Request) bool {
	body, _ := io.ReadAll(r.Body)
	if len(body) > 0 || r.Header.Get("Content-Type") != "" {
		fail(w, r, http.StatusBadRequest, "creation takes no body")
		return false
	}
	return true
}

func (a *IAPI) postElection(w http.ResponseWriter, r *http.Request) {
	if !bareBody(w, r) {
		return
	}
	data := a.SeedElection(domain.ElectionData{
		Created: domain.NewTimestamp(time.Now().UTC()),
		Updated: domain.NewTimestamp(time.Now().UTC()),
	})
	render.Status(r, http.StatusCreated)
	render.JSON(w, r, domain.ElectionCreated{ID: data.ID, OrganizerToken: data.OrganizerToken})
}

func (a *IAPI) getElection(w http.ResponseWriter, r *http.Request) {
	a.mu.Lock()
	defer a.mu.Unlock()
	e, organizer := a.lookupElection(w, r, false)
	if e == nil {
		return
	}
	out := e.data
	if !organizer {
		out.OrganizerToken = ""
		out.Subscriptions = domain.Subscriptions{}
	}
	render.JSON(w, r, out)
}

func (a *IAPI) deleteElection(w http.ResponseWriter, r *http.Request) {
	a.mu.Lock()
	defer a.mu.Unlock()
	e, _ := a.lookupElection(w, r, true)
	if e == nil {
		return
	}
	delete(a.elections, e.data.ID)
	noContent(w)
}

func (a *IAPI) putElectionText(w http.ResponseWriter, r *http.Request) {
	var text domain.Text
	if err := render.DecodeJSON(r.Body, &text); err != nil {
		fail(w, r, http.StatusBadRequest, "failed to decode request")
		return
	}
	a.mu.Lock()
	defer a.mu.Unlock()
	e, _ := a.lookupElection(w, r, true)
	if e == nil {
		return
	}
	e.data.Name, e.data.Description = text.Name, text.Description
	noContent(w)
}

func (a *IAPI) putElectionNominees(w http.ResponseWriter, r *http.Request) {
	var nominees domain.Nominees
	if err := render.DecodeJSON(r.Body, &nominees); err != nil {
		fail(w, r, http.StatusBadRequest, "failed to decode request")
		return
	}
	a.mu.Lock()
	defer a.mu.Unlock()
	e, _ := a.lookupElection(w, r, true)
	if e == nil {
		return
	}
	e.data.Candidates, e.data.TimeZone = nominees.Candidates, nominees.TimeZone
	noContent(w)
}

func (a *IAPI) putElectionVisibility(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Visibility domain.Visibility `json:"visibility"`
	}
	if err := render.DecodeJSON(r.Body, &body); err != nil || !domain.ValidVisibility(body.Visibility) {
		fail(w, r, http.StatusBadRequest, "bad visibility")
		return
	}
	a.mu.Lock()
	defer a.mu.Unlock()
	e, _ := a.lookupElection(w, r, true)
	if e == nil {
		return
	}
	e.data.Visibility = body.Visibility
	noContent(w)
}

func (a *IAPI) patchElectionSubscriptions(w http.ResponseWriter, r *http.Request) {
	var s domain.Subscriptions
	if err := render.DecodeJSON(r.Body, &s); err != nil {
		fail(w, r, http.StatusBadRequest, "failed to decode request")
		return
	}
	a.mu.Lock()
	defer a.mu.Unlock()
	e, _ := a.lookupElection(w, r, true)
	if e == nil {
		return
	}
	e.data.Subscriptions = s
	noContent(w)
}

func (a *IAPI) postVote(w http.ResponseWriter, r *http.Request) {
	var ballot domain.Ballot
	if err := render.DecodeJSON(r.Body, &ballot); err != nil || ballot.Name == "" {
		fail(w, r, http.StatusBadRequest, "bad ballot")
		return
	}
	a.mu.Lock()
	defer a.mu.Unlock()
	e, _ := a.lookupElection(w, r, false)
	if e == nil {
		return
	}
	if e.data.Visibility != domain.VisibilityPublic {
		fail(w, r, http.StatusForbidden, "election is read-only")
		return
	}
	v := domain.Vote{Name: ballot.Name, Voted: domain.NewTimestamp(time.Now().UTC()), Availability: ballot.Availability}
	votes := e.data.Votes[:0:0]
	for _, old := range e.data.Votes {
		if old.Name != v.Name {
			votes = append(votes, old)
		}
	}
	e.data.Votes = append(votes, v)
	noContent(w)
}

func (a *IAPI) deleteVote(w http.ResponseWriter, r *http.Request) {
	name, voted := r.URL.Query().Get("name"), r.URL.Query().Get("voted")
	a.mu.Lock()
	defer a.mu.Unlock()
	e, _ := a.lookupElection(w, r, true)
	if e == nil {
		return
	}
	votes := e.data.Votes[:0:0]
	found := false
	for _, v := range e.data.Votes {
		if v.Name == name && v.Voted.String() == voted {
			found = true
			continue
		}
		votes = append(votes, v)
	}
	if !found {
		fail(w, r, http.StatusNotFound, "no such vote")
		return
	}
	e.data.Votes = votes
	noContent(w)
}

func (a *IAPI) postElectionReminder(w http.ResponseWriter, r *http.Request) {
	var s domain.Subscriptions
	if err := render.DecodeJSON(r.Body, &s); err != nil {
		fail(w, r, http.StatusBadRequest, "failed to decode request")
		return
	}
	a.mu.Lock()
	defer a.mu.Unlock()
	if e, _ := a.lookupElection(w, r, true); e == nil {
		return
	}
	a.reminders = append(a.reminders, s)
	noContent(w)
}
