package tui

import (
	"net/http"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/squeng/fixadat/pkg/domain"
)

func openEvent(t *testing.T, env *testEnv, link domain.Link) EventApp {
	t.Helper()
	a := NewEventApp(env.deps, link)
	m, _ := a.Update(tea.WindowSizeMsg{Width: 100, Height: 50})
	m = drain(t, m, a.Init())
	return m.(EventApp)
}

func seedEvent(env *testEnv, patch func(*domain.EventData)) domain.EventData {
	data := domain.EventData{
		Name:     "Summer party",
		Date:     "2024-07-06",
		Time:     "18:00",
		TimeZone: "Europe/Zurich",
		Rsvps: []domain.Rsvp{
			{Name: "Bob", Attendance: domain.AttendanceWithPlus1},
			{Name: "Carol", Attendance: domain.AttendanceNot},
		},
		Plus1Allowed: true,
	}
	if patch != nil {
		patch(&data)
	}
	return env.api.SeedEvent(data)
}

func TestEventGuestCard(t *testing.T) {
	env := newTestEnv(t)
	data := seedEvent(env, nil)
	a := openEvent(t, env, domain.Link{Kind: domain.LinkEvent, ID: data.ID, Token: data.GuestToken})

	require.Equal(t, domain.LoadReady, a.state)
	require.Len(t, a.tabs, 1)
	view := a.View()
	assert.Contains(t, view, "Summer party")
	assert.Contains(t, view, "2024-07-06 18:00")
	assert.Contains(t, view, "Will you come?")
	assert.Empty(t, a.event.Rsvps, "guests do not see answers")
}

func TestEventGuestRsvp(t *testing.T) {
	env := newTestEnv(t)
	data := seedEvent(env, nil)
	a := openEvent(t, env, domain.Link{Kind: domain.LinkEvent, ID: data.ID, Token: data.GuestToken})

	keys := append([]tea.KeyMsg{key("enter")}, runes("Alice")...)
	keys = append(keys, key("ctrl+s"))
	a = press(t, a, keys...).(EventApp)

	stored, _ := env.api.Event(data.ID)
	require.Len(t, stored.Rsvps, 3)
	assert.Equal(t, "Alice", stored.Rsvps[2].Name)
	assert.Equal(t, domain.AttendanceAlone, stored.Rsvps[2].Attendance)
	assert.Contains(t, a.View(), "Thanks for your answer.")
	assert.False(t, a.guest.form.sections[0].form.dirty(), "form is cleared after a sent answer")
}

func TestEventGuestRsvpNeedsEmail(t *testing.T) {
	env := newTestEnv(t)
	data := seedEvent(env, func(d *domain.EventData) { d.EmailAddressRequired = true })
	a := openEvent(t, env, domain.Link{Kind: domain.LinkEvent, ID: data.ID, Token: data.GuestToken})

	keys := append([]tea.KeyMsg{key("enter")}, runes("Alice")...)
	keys = append(keys, key("ctrl+s"))
	a = press(t, a, keys...).(EventApp)

	assert.Zero(t, env.api.Count(http.MethodPost, "/iapi/events/"+itoa(data.ID)+"/RSVPs"))
	assert.Contains(t, a.View(), domain.ErrEmailRequired.Error())
}

func TestEventGuestPlusOneOnlyWhenAllowed(t *testing.T) {
	env := newTestEnv(t)
	data := seedEvent(env, func(d *domain.EventData) { d.Plus1Allowed = false })
	a := openEvent(t, env, domain.Link{Kind: domain.LinkEvent, ID: data.ID, Token: data.GuestToken})

	options := a.guest.form.sections[0].form.fields[1].options
	assert.Equal(t, []string{"Not", "Alone"}, options)
}

func TestEventReadOnlyGuest(t *testing.T) {
	env := newTestEnv(t)
	data := seedEvent(env, func(d *domain.EventData) { d.Visibility = domain.VisibilityProtected })
	a := openEvent(t, env, domain.Link{Kind: domain.LinkEvent, ID: data.ID, Token: data.GuestToken})

	a = press(t, a, key("enter")).(EventApp)
	assert.False(t, a.isEditing())
	assert.Contains(t, a.View(), "read only")
}

func TestEventHostTabs(t *testing.T) {
	env := newTestEnv(t)
	data := seedEvent(env, nil)
	a := openEvent(t, env, domain.Link{Kind: domain.LinkEvent, ID: data.ID, Token: data.HostToken, Host: true})

	require.Len(t, a.tabs, 3)
	assert.IsType(t, eventSettingsTab{}, a.tabs[a.active])

	a = press(t, a, key("3")).(EventApp)
	view := a.View()
	assert.Equal(t, 2, a.rsvps.headcount)
	assert.Contains(t, view, "people coming")
	assert.Contains(t, view, "Bob")
}

func TestEventHostWithoutHostViewIsGuest(t *testing.T) {
	env := newTestEnv(t)
	data := seedEvent(env, nil)
	a := openEvent(t, env, domain.Link{Kind: domain.LinkEvent, ID: data.ID, Token: data.HostToken})

	require.Len(t, a.tabs, 1)
	assert.IsType(t, eventCardTab{}, a.tabs[0])
}

func TestEventBrandNewOpensLinks(t *testing.T) {
	env := newTestEnv(t)
	data := seedEvent(env, nil)
	a := openEvent(t, env, domain.Link{Kind: domain.LinkEvent, ID: data.ID, Token: data.HostToken, Host: true, BrandNew: true})

	assert.IsType(t, eventLinksTab{}, a.tabs[a.active])
	assert.Contains(t, a.View(), domain.GuestLink("https://fixadat.test", data.ID, data.GuestToken))
}

func TestEventHostTogglesRules(t *testing.T) {
	env := newTestEnv(t)
	data := seedEvent(env, nil)
	a := openEvent(t, env, domain.Link{Kind: domain.LinkEvent, ID: data.ID, Token: data.HostToken, Host: true})

	// texts, schedule, location, rules
	a = press(t, a, key("j"), key("j"), key("j"), key("enter"), key(" "), key("ctrl+s")).(EventApp)

	stored, _ := env.api.Event(data.ID)
	assert.True(t, stored.EmailAddressRequired)
	assert.True(t, stored.Plus1Allowed)
	assert.True(t, a.event.EmailAddressRequired)
	assert.Equal(t, 1, env.api.Count(http.MethodPatch, "/iapi/events/"+itoa(data.ID)))
}

func TestEventHostRejectsBadDate(t *testing.T) {
	env := newTestEnv(t)
	data := seedEvent(env, func(d *domain.EventData) { d.Date = "" })
	a := openEvent(t, env, domain.Link{Kind: domain.LinkEvent, ID: data.ID, Token: data.HostToken, Host: true})

	keys := append([]tea.KeyMsg{key("j"), key("enter")}, runes("2024-13-45")...)
	keys = append(keys, key("ctrl+s"))
	a = press(t, a, keys...).(EventApp)

	assert.Zero(t, env.api.Count(http.MethodPut, "/iapi/events/"+itoa(data.ID)+"/schedule"))
	assert.Contains(t, a.View(), "is not YYYY-MM-DD")
	assert.Empty(t, a.settings.saving)
}

func TestEventHostDelete(t *testing.T) {
	env := newTestEnv(t)
	data := seedEvent(env, nil)
	a := openEvent(t, env, domain.Link{Kind: domain.LinkEvent, ID: data.ID, Token: data.HostToken, Host: true})

	a = press(t, a, key("D"), key("y")).(EventApp)
	_, ok := env.api.Event(data.ID)
	assert.False(t, ok)
	assert.Contains(t, a.View(), "Not Found")
}

func TestLocationFrom(t *testing.T) {
	tests := []struct {
		name    string
		values  [4]string
		wantGeo bool
		wantErr bool
	}{
		{"link only", [4]string{"https://example.com", "", "", ""}, false, false},
		{"position", [4]string{"", "Lake", "47.37", "8.54"}, true, false},
		{"bad latitude", [4]string{"", "Lake", "91", "8.54"}, false, true},
		{"missing longitude", [4]string{"", "Lake", "47.37", ""}, false, true},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			f := locationSection(domain.Location{}).form
			for i, v := range tc.values {
				f.fields[i].value = v
			}
			l, err := locationFrom(f)
			if tc.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.wantGeo, l.Geo != nil)
		})
	}
}
