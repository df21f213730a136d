package tui

import (
	"context"
	"fmt"
	"strconv"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/squeng/fixadat/pkg/client"
	"github.com/squeng/fixadat/pkg/domain"
)

// eventTab is one tab of the event page. Hosts get settings, links and
// RSVPs; guests get the card.
type eventTab interface{ eventTab() }

type (
	eventSettingsTab struct{}
	eventLinksTab    struct{}
	eventRsvpsTab    struct{}
	eventCardTab     struct{}
)

func (eventSettingsTab) eventTab() {}
func (eventLinksTab) eventTab()    {}
func (eventRsvpsTab) eventTab()    {}
func (eventCardTab) eventTab()     {}

func hostTabs() []eventTab {
	return []eventTab{eventSettingsTab{}, eventLinksTab{}, eventRsvpsTab{}}
}

func guestTabs() []eventTab { return []eventTab{eventCardTab{}} }

type eventLoadedMsg struct {
	event *domain.Event
	err   error
}

type eventSavedMsg struct {
	key   string
	event *domain.Event
	err   error
}

type eventDeletedMsg struct{ err error }

// EventApp is the event page.
type EventApp struct {
	deps Deps
	link domain.Link

	state  domain.LoadState
	status int
	err    error
	event  *domain.Event

	tabs   []eventTab
	active int

	settings sectionsModel
	links    linksModel
	rsvps    rsvpsModel
	guest    guestModel

	confirmDelete bool
	banner        banner
	width         int
	height        int
}

// NewEventApp builds the page for a parsed event link.
func NewEventApp(deps Deps, link domain.Link) EventApp {
	a := EventApp{deps: deps.withDefaults(), link: link, state: domain.LoadPending}
	if link.Token == "" {
		a.state = domain.LoadMissingToken
	}
	a.links = newLinksModel(nil)
	return a
}

func (a EventApp) origin() string {
	if a.link.Origin != "" {
		return a.link.Origin
	}
	return a.deps.Origin
}

func (a EventApp) Init() tea.Cmd {
	if a.state == domain.LoadMissingToken {
		return nil
	}
	repo, link := a.deps.Events, a.link
	zone := link.TimeZone
	if zone == "" {
		zone = a.deps.TimeZone
	}
	return func() tea.Msg {
		e, err := domain.RecreateEvent(context.Background(), repo, link.ID, link.Token, link.Host, zone)
		return eventLoadedMsg{event: e, err: err}
	}
}

func (a EventApp) save(key string, mutate func(context.Context, *domain.Event) (*domain.Event, error)) tea.Cmd {
	e := a.event
	return func() tea.Msg {
		next, err := mutate(context.Background(), e)
		return eventSavedMsg{key: key, event: next, err: err}
	}
}

func scheduleSection(s domain.Schedule) section {
	return section{
		key:   "schedule",
		title: "Date & time",
		form: newForm("schedule",
			formField{label: "Date", kind: textField, value: s.Date, placeholder: "YYYY-MM-DD"},
			formField{label: "Time", kind: textField, value: s.Time, placeholder: "HH:MM"},
			formField{label: "Time zone", kind: textField, value: s.TimeZone, placeholder: "Europe/Zurich"},
		),
	}
}

func formatCoordinate(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}

func locationSection(l domain.Location) section {
	var place, lat, lon string
	if l.Geo != nil {
		place, lat, lon = l.Geo.Name, formatCoordinate(l.Geo.Latitude), formatCoordinate(l.Geo.Longitude)
	}
	return section{
		key:   "location",
		title: "Location",
		form: newForm("location",
			formField{label: "Link", kind: textField, value: l.URL, check: client.ValidateURL, placeholder: "https://…"},
			formField{label: "Place", kind: textField, value: place, placeholder: "optional"},
			formField{label: "Latitude", kind: textField, value: lat},
			formField{label: "Longitude", kind: textField, value: lon},
		),
	}
}

func rulesSection(s domain.EventSettings) section {
	return section{
		key:   "rules",
		title: "Answers",
		form: newForm("rules",
			formField{label: "E-mail required", kind: toggleField, value: boolValue(s.EmailAddressRequired)},
			formField{label: "SMS required", kind: toggleField, value: boolValue(s.PhoneNumberRequired)},
			formField{label: "Plus one allowed", kind: toggleField, value: boolValue(s.Plus1Allowed)},
		),
	}
}

func eventSettingSections(e *domain.Event) []section {
	return append(textSections(e.Name, e.Description),
		scheduleSection(e.Schedule()),
		locationSection(e.Location()),
		rulesSection(e.Settings()),
		visibilitySection(e.Visibility),
	)
}

// scheduleFrom reads and checks the schedule form.
func scheduleFrom(f form) (domain.Schedule, error) {
	s := domain.Schedule{Date: f.value(0), Time: f.value(1), TimeZone: f.value(2)}
	if s.Date != "" {
		if _, err := time.Parse(time.DateOnly, s.Date); err != nil {
			return s, fmt.Errorf("date %q is not YYYY-MM-DD", s.Date)
		}
	}
	if s.Time != "" {
		if _, err := time.Parse("15:04", s.Time); err != nil {
			return s, fmt.Errorf("time %q is not HH:MM", s.Time)
		}
	}
	if s.TimeZone != "" {
		if _, err := time.LoadLocation(s.TimeZone); err != nil {
			return s, fmt.Errorf("unknown time zone %q", s.TimeZone)
		}
	}
	return s, nil
}

// locationFrom reads the location form. The map position is left out when
// place and coordinates are all empty.
func locationFrom(f form) (domain.Location, error) {
	l := domain.Location{URL: f.value(0)}
	place, lat, lon := f.value(1), f.value(2), f.value(3)
	if place == "" && lat == "" && lon == "" {
		return l, nil
	}
	la, err := strconv.ParseFloat(lat, 64)
	if err != nil || la < -90 || la > 90 {
		return l, fmt.Errorf("latitude %q is not between -90 and 90", lat)
	}
	lo, err := strconv.ParseFloat(lon, 64)
	if err != nil || lo < -180 || lo > 180 {
		return l, fmt.Errorf("longitude %q is not between -180 and 180", lon)
	}
	l.Geo = &domain.Geo{Name: place, Latitude: la, Longitude: lo}
	return l, nil
}

func (a EventApp) adopt(e *domain.Event, force string) EventApp {
	a.event = e
	a.settings = a.settings.sync(eventSettingSections(e), force)
	if e.IsHost() {
		a.links.links = eventLinks(a.origin(), e)
	}
	a.rsvps = a.rsvps.sync(e)
	a.guest = a.guest.sync(e, force)
	return a
}

func (a EventApp) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		return a, nil

	case eventLoadedMsg:
		a.state, a.status = domain.ResolveLoad(a.link.Token, msg.err)
		a.err = msg.err
		if msg.err != nil {
			a.deps.fail("load event", msg.err)
			return a, nil
		}
		a = a.adopt(msg.event, "")
		if msg.event.IsHost() && a.link.Host {
			a.tabs = hostTabs()
		} else {
			a.tabs = guestTabs()
		}
		a.active = 0
		if a.link.BrandNew && len(a.tabs) > 1 {
			a.active = 1
			a.banner = infoBanner(a.deps.l10n("page.created", "Your event has been created. Share the guest link."))
		}
		return a, nil

	case eventSavedMsg:
		if msg.err != nil {
			a.banner = a.deps.fail("save "+msg.key, msg.err)
			a.settings = a.settings.done(msg.key)
			a.guest.form = a.guest.form.done(msg.key)
			return a, nil
		}
		a = a.adopt(msg.event, msg.key)
		if msg.key == "rsvp" {
			a.banner = infoBanner("Thanks for your answer.")
		} else {
			a.banner = infoBanner("Saved.")
		}
		return a, nil

	case eventDeletedMsg:
		if msg.err != nil {
			a.banner = a.deps.fail("delete event", msg.err)
			return a, nil
		}
		a.event = nil
		a.state, a.status = domain.LoadFailed, 404
		a.tabs = nil
		return a, nil

	case reminderSentMsg:
		a.links = a.links.sent(msg.err == nil)
		if msg.err != nil {
			a.banner = a.deps.fail("send reminder", msg.err)
		} else {
			a.banner = infoBanner("Reminder sent.")
		}
		return a, nil

	case copiedMsg:
		if msg.err != nil {
			a.banner = a.deps.fail("copy", msg.err)
		} else {
			a.banner = infoBanner(msg.label + " link copied.")
		}
		return a, nil

	case openedMsg:
		if msg.err != nil {
			a.banner = a.deps.fail("open browser", msg.err)
		}
		return a, nil

	case saveSectionMsg:
		return a.saveSection(msg)

	case validateTickMsg, validatedMsg:
		var c1, c2, c3 tea.Cmd
		a.settings, c1 = a.settings.Update(msg, a.deps.Lookups)
		a.links, c2 = a.links.Update(msg, a.deps)
		a.guest, c3 = a.guest.Update(msg, a.deps.Lookups)
		return a, tea.Batch(c1, c2, c3)

	case tea.KeyMsg:
		a.banner = banner{}
		if a.confirmDelete {
			a.confirmDelete = false
			if msg.String() == "y" && a.event != nil {
				e := a.event
				return a, func() tea.Msg { return eventDeletedMsg{err: e.Delete(context.Background())} }
			}
			return a, nil
		}
		if a.state != domain.LoadReady {
			switch msg.String() {
			case "q", "ctrl+c", "esc":
				return a, tea.Quit
			}
			return a, nil
		}
		if msg.String() == "ctrl+c" {
			return a, tea.Quit
		}
		if !a.isEditing() {
			switch k := msg.String(); k {
			case "q":
				return a, tea.Quit
			case "1", "2", "3":
				if i := int(k[0] - '1'); i < len(a.tabs) {
					a.active = i
				}
				return a, nil
			case "D":
				if _, ok := a.tabs[a.active].(eventSettingsTab); ok {
					a.confirmDelete = true
					return a, nil
				}
			}
		}
		return a.updateTab(msg)
	}
	return a, nil
}

// reject ends a save that failed before reaching the server.
func (a EventApp) reject(key string, err error) (EventApp, tea.Cmd) {
	a.banner = errorBanner(err.Error())
	a.settings = a.settings.done(key)
	a.guest.form = a.guest.form.done(key)
	return a, nil
}

func (a EventApp) saveSection(msg saveSectionMsg) (EventApp, tea.Cmd) {
	f := msg.form
	switch msg.key {
	case "texts":
		return a, a.save(msg.key, func(ctx context.Context, e *domain.Event) (*domain.Event, error) {
			return e.UpdateText(ctx, f.value(0), f.value(1))
		})
	case "schedule":
		s, err := scheduleFrom(f)
		if err != nil {
			return a.reject(msg.key, err)
		}
		return a, a.save(msg.key, func(ctx context.Context, e *domain.Event) (*domain.Event, error) {
			return e.UpdateSchedule(ctx, s)
		})
	case "location":
		l, err := locationFrom(f)
		if err != nil {
			return a.reject(msg.key, err)
		}
		return a, a.save(msg.key, func(ctx context.Context, e *domain.Event) (*domain.Event, error) {
			return e.UpdateLocation(ctx, l)
		})
	case "rules":
		s := domain.EventSettings{EmailAddressRequired: f.on(0), PhoneNumberRequired: f.on(1), Plus1Allowed: f.on(2)}
		return a, a.save(msg.key, func(ctx context.Context, e *domain.Event) (*domain.Event, error) {
			return e.UpdateSettings(ctx, s)
		})
	case "visibility":
		return a, a.save(msg.key, func(ctx context.Context, e *domain.Event) (*domain.Event, error) {
			return e.UpdateVisibility(ctx, domain.Visibility(f.value(0)))
		})
	case "rsvp":
		rsvp := rsvpFrom(f)
		if err := a.event.CheckRsvp(rsvp); err != nil {
			return a.reject(msg.key, err)
		}
		return a, a.save(msg.key, func(ctx context.Context, e *domain.Event) (*domain.Event, error) {
			return e.Rsvp(ctx, rsvp)
		})
	case "reminder":
		e := a.event
		return a, func() tea.Msg { return reminderSentMsg{err: e.SendReminder(context.Background(), recipients(f))} }
	}
	return a, nil
}

func (a EventApp) updateTab(msg tea.KeyMsg) (EventApp, tea.Cmd) {
	var cmd tea.Cmd
	switch t := a.tabs[a.active].(type) {
	case eventSettingsTab:
		a.settings, cmd = a.settings.Update(msg, a.deps.Lookups)
	case eventLinksTab:
		a.links, cmd = a.links.Update(msg, a.deps)
	case eventRsvpsTab:
		a.rsvps, cmd = a.rsvps.Update(msg)
	case eventCardTab:
		a.guest, cmd = a.guest.Update(msg, a.deps.Lookups)
	default:
		panic(fmt.Sprintf("tui: unhandled event tab %T", t))
	}
	return a, cmd
}

func (a EventApp) isEditing() bool {
	if len(a.tabs) == 0 {
		return false
	}
	switch t := a.tabs[a.active].(type) {
	case eventSettingsTab:
		return a.settings.editing
	case eventLinksTab:
		return a.links.editing()
	case eventRsvpsTab:
		return false
	case eventCardTab:
		return a.guest.editing()
	default:
		panic(fmt.Sprintf("tui: unhandled event tab %T", t))
	}
}

func (a EventApp) tabLabel(t eventTab) string {
	switch t.(type) {
	case eventSettingsTab:
		return a.deps.l10n("tab.settings", "Settings")
	case eventLinksTab:
		return a.deps.l10n("tab.links", "Links")
	case eventRsvpsTab:
		return a.deps.l10n("tab.rsvps", "RSVPs")
	case eventCardTab:
		return a.deps.l10n("tab.event", "Event")
	default:
		panic(fmt.Sprintf("tui: unhandled event tab %T", t))
	}
}

func (a EventApp) View() string {
	if a.state != domain.LoadReady || a.event == nil {
		head := header(a.width, "squawg", "", "")
		return frame(a.height, head, "", terminalView(a.deps, a.state, a.status, a.err), a.banner, helpBar("q", "quit"))
	}
	e := a.event

	role := "guest"
	if e.IsHost() {
		role = "host"
	}
	meta := fmt.Sprintf("%s · %s (%s) · %d coming", role, e.Visibility, e.Visibility.Label(), e.Headcount())
	head := header(a.width, "squawg", e.Name, meta)

	labels := make([]string, len(a.tabs))
	for i, t := range a.tabs {
		labels[i] = a.tabLabel(t)
	}
	tabs := tabBar(a.width, labels, a.active)

	var body, help string
	switch t := a.tabs[a.active].(type) {
	case eventSettingsTab:
		body = a.settings.View() + "\n " + metaStyle.Render("D delete this event") + "\n"
		help = a.settings.helpKeys()
	case eventLinksTab:
		body, help = a.links.View(a.width), a.links.helpKeys()
	case eventRsvpsTab:
		body, help = a.rsvps.View(), a.rsvps.helpKeys()
	case eventCardTab:
		body, help = a.guest.View(), a.guest.helpKeys()
	default:
		panic(fmt.Sprintf("tui: unhandled event tab %T", t))
	}

	b := a.banner
	if a.confirmDelete {
		b = errorBanner("Delete this event for good? y/n")
	}
	if !a.isEditing() {
		if len(a.tabs) > 1 {
			help += "  " + helpEntry(fmt.Sprintf("1-%d", len(a.tabs)), "tabs")
		}
		help += "  " + helpEntry("q", "quit")
	}
	return frame(a.height, head, tabs, body, b, help)
}
