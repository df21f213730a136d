package tui

import (
	"context"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/squeng/fixadat/pkg/client"
	"github.com/squeng/fixadat/pkg/domain"
)

// electionTab is one tab of the election page. The set is closed: every
// switch over it handles each tab and panics on anything else.
type electionTab interface{ electionTab() }

type (
	textsTab      struct{}
	candidatesTab struct{}
	linksTab      struct{}
	votesTab      struct{}
	settingsTab   struct{}
)

func (textsTab) electionTab()      {}
func (candidatesTab) electionTab() {}
func (linksTab) electionTab()      {}
func (votesTab) electionTab()      {}
func (settingsTab) electionTab()   {}

func organizerTabs() []electionTab {
	return []electionTab{textsTab{}, candidatesTab{}, linksTab{}, votesTab{}, settingsTab{}}
}

func voterTabs() []electionTab { return []electionTab{votesTab{}} }

type electionLoadedMsg struct {
	election *domain.Election
	err      error
}

// electionSavedMsg carries the entity after a mutation. key names what was
// saved so its form can be reset.
type electionSavedMsg struct {
	key      string
	election *domain.Election
	err      error
}

type electionDeletedMsg struct{ err error }

type reminderSentMsg struct{ err error }

// ElectionApp is the election page.
type ElectionApp struct {
	deps Deps
	link domain.Link

	state    domain.LoadState
	status   int
	err      error
	election *domain.Election

	tabs   []electionTab
	active int

	texts      sectionsModel
	candidates candidatesModel
	links      linksModel
	votes      votesModel
	settings   sectionsModel

	confirmDelete bool
	banner        banner
	width         int
	height        int
}

// NewElectionApp builds the page for a parsed election link.
func NewElectionApp(deps Deps, link domain.Link) ElectionApp {
	a := ElectionApp{deps: deps.withDefaults(), link: link, state: domain.LoadPending}
	if link.Token == "" {
		a.state = domain.LoadMissingToken
	}
	a.links = newLinksModel(nil)
	return a
}

func (a ElectionApp) origin() string {
	if a.link.Origin != "" {
		return a.link.Origin
	}
	return a.deps.Origin
}

func (a ElectionApp) viewZone() string {
	if a.link.TimeZone != "" {
		return a.link.TimeZone
	}
	return a.deps.TimeZone
}

func (a ElectionApp) Init() tea.Cmd {
	if a.state == domain.LoadMissingToken {
		return nil
	}
	return tea.Batch(a.load(), timeZonesCmd(a.deps.Lookups))
}

func (a ElectionApp) load() tea.Cmd {
	repo, link, zone := a.deps.Elections, a.link, a.viewZone()
	return func() tea.Msg {
		e, err := domain.RecreateElection(context.Background(), repo, link.ID, link.Token, zone)
		return electionLoadedMsg{election: e, err: err}
	}
}

// save runs a mutation off the update loop.
func (a ElectionApp) save(key string, mutate func(context.Context, *domain.Election) (*domain.Election, error)) tea.Cmd {
	e := a.election
	return func() tea.Msg {
		next, err := mutate(context.Background(), e)
		return electionSavedMsg{key: key, election: next, err: err}
	}
}

func textSections(name, description string) []section {
	return []section{{
		key:   "texts",
		title: "Texts",
		form: newForm("texts",
			formField{label: "Name", kind: textField, value: name, required: true, placeholder: "What is this about?"},
			formField{label: "Description", kind: multilineField, value: description, placeholder: "optional"},
		),
	}}
}

func visibilitySection(v domain.Visibility) section {
	return section{
		key:   "visibility",
		title: "Visibility",
		form: newForm("visibility",
			formField{label: "Visibility", kind: choiceField, value: string(v), options: visibilityOptions()},
		),
	}
}

func subscriptionsSection(s domain.Subscriptions) section {
	return section{
		key:   "subscriptions",
		title: "Notify me of new answers",
		form: newForm("subscriptions",
			formField{label: "E-mail", kind: textField, value: s.EmailAddress, check: client.ValidateEmailAddress, placeholder: "name@example.com"},
			formField{label: "SMS", kind: textField, value: s.PhoneNumber, check: client.ValidateCellPhoneNumber, placeholder: "+41 79 123 45 67"},
		),
	}
}

func electionSettingSections(e *domain.Election) []section {
	return []section{visibilitySection(e.Visibility), subscriptionsSection(e.Subscriptions)}
}

// adopt makes e the page's election. The form named by force is reset to
// the new values even if it has edits.
func (a ElectionApp) adopt(e *domain.Election, force string) ElectionApp {
	a.election = e
	a.texts = a.texts.sync(textSections(e.Name, e.Description), force)
	a.candidates = a.candidates.sync(e, force == "schedule")
	a.links.links = electionLinks(a.origin(), e)
	a.votes = a.votes.sync(e)
	a.settings = a.settings.sync(electionSettingSections(e), force)
	return a
}

func (a ElectionApp) tabIndex(want electionTab) int {
	for i, t := range a.tabs {
		if t == want {
			return i
		}
	}
	return 0
}

func (a ElectionApp) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		return a, nil

	case electionLoadedMsg:
		a.state, a.status = domain.ResolveLoad(a.link.Token, msg.err)
		a.err = msg.err
		if msg.err != nil {
			a.deps.fail("load election", msg.err)
			return a, nil
		}
		a = a.adopt(msg.election, "")
		if msg.election.IsOrganizer() {
			a.tabs = organizerTabs()
		} else {
			a.tabs = voterTabs()
		}
		a.active = a.tabIndex(votesTab{})
		if a.link.BrandNew && msg.election.IsOrganizer() {
			a.active = a.tabIndex(textsTab{})
			a.banner = infoBanner(a.deps.l10n("page.created", "Your election has been created. Give it a name."))
		}
		return a, nil

	case timeZonesMsg:
		if msg.err != nil {
			a.deps.Log.Warn().Err(msg.err).Msg("time zones unavailable")
		}
		a.candidates, _ = a.candidates.Update(msg)
		return a, nil

	case electionSavedMsg:
		return a.saved(msg)

	case electionDeletedMsg:
		if msg.err != nil {
			a.banner = a.deps.fail("delete election", msg.err)
			return a, nil
		}
		a.election = nil
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
		return a, a.saveSection(msg)

	case saveScheduleMsg:
		return a, a.save("schedule", func(ctx context.Context, e *domain.Election) (*domain.Election, error) {
			return e.UpdateSchedule(ctx, msg.candidates, msg.timeZone)
		})

	case castVoteMsg:
		zone := a.viewZone()
		return a, a.save("vote", func(ctx context.Context, e *domain.Election) (*domain.Election, error) {
			return e.CastVote(ctx, msg.name, msg.availability, zone)
		})

	case revokeVoteMsg:
		return a, a.save("revoke", func(ctx context.Context, e *domain.Election) (*domain.Election, error) {
			return e.RevokeVote(ctx, msg.vote)
		})

	case validateTickMsg, validatedMsg:
		var c1, c2, c3 tea.Cmd
		a.texts, c1 = a.texts.Update(msg, a.deps.Lookups)
		a.settings, c2 = a.settings.Update(msg, a.deps.Lookups)
		a.links, c3 = a.links.Update(msg, a.deps)
		return a, tea.Batch(c1, c2, c3)

	case tea.KeyMsg:
		a.banner = banner{}
		if a.confirmDelete {
			a.confirmDelete = false
			if msg.String() == "y" && a.election != nil {
				e := a.election
				return a, func() tea.Msg { return electionDeletedMsg{err: e.Delete(context.Background())} }
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
			case "1", "2", "3", "4", "5":
				if i := int(k[0] - '1'); i < len(a.tabs) {
					a.active = i
				}
				return a, nil
			case "D":
				if _, ok := a.tabs[a.active].(settingsTab); ok {
					a.confirmDelete = true
					return a, nil
				}
			}
		}
		return a.updateTab(msg)
	}
	return a, nil
}

func (a ElectionApp) saved(msg electionSavedMsg) (tea.Model, tea.Cmd) {
	if msg.err != nil {
		a.banner = a.deps.fail("save "+msg.key, msg.err)
		a.texts = a.texts.done(msg.key)
		a.settings = a.settings.done(msg.key)
		a.candidates.saving = false
		a.votes.busy = false
		return a, nil
	}
	a = a.adopt(msg.election, msg.key)
	switch msg.key {
	case "vote":
		a.banner = infoBanner("Thanks for voting.")
	case "revoke":
		a.banner = infoBanner("Vote revoked.")
	default:
		a.banner = infoBanner("Saved.")
	}
	return a, nil
}

func (a ElectionApp) saveSection(msg saveSectionMsg) tea.Cmd {
	f := msg.form
	switch msg.key {
	case "texts":
		return a.save(msg.key, func(ctx context.Context, e *domain.Election) (*domain.Election, error) {
			return e.UpdateText(ctx, f.value(0), f.value(1))
		})
	case "visibility":
		return a.save(msg.key, func(ctx context.Context, e *domain.Election) (*domain.Election, error) {
			return e.UpdateVisibility(ctx, domain.Visibility(f.value(0)))
		})
	case "subscriptions":
		return a.save(msg.key, func(ctx context.Context, e *domain.Election) (*domain.Election, error) {
			return e.UpdateSubscriptions(ctx, recipients(f))
		})
	case "reminder":
		e := a.election
		return func() tea.Msg { return reminderSentMsg{err: e.SendReminder(context.Background(), recipients(f))} }
	}
	return nil
}

func (a ElectionApp) updateTab(msg tea.KeyMsg) (ElectionApp, tea.Cmd) {
	var cmd tea.Cmd
	switch t := a.tabs[a.active].(type) {
	case textsTab:
		a.texts, cmd = a.texts.Update(msg, a.deps.Lookups)
	case candidatesTab:
		a.candidates, cmd = a.candidates.Update(msg)
	case linksTab:
		a.links, cmd = a.links.Update(msg, a.deps)
	case votesTab:
		a.votes, cmd = a.votes.Update(msg)
	case settingsTab:
		a.settings, cmd = a.settings.Update(msg, a.deps.Lookups)
	default:
		panic(fmt.Sprintf("tui: unhandled election tab %T", t))
	}
	return a, cmd
}

func (a ElectionApp) isEditing() bool {
	if len(a.tabs) == 0 {
		return false
	}
	switch t := a.tabs[a.active].(type) {
	case textsTab:
		return a.texts.editing
	case candidatesTab:
		return a.candidates.editing()
	case linksTab:
		return a.links.editing()
	case votesTab:
		return a.votes.editing()
	case settingsTab:
		return a.settings.editing
	default:
		panic(fmt.Sprintf("tui: unhandled election tab %T", t))
	}
}

func (a ElectionApp) tabLabel(t electionTab) string {
	switch t.(type) {
	case textsTab:
		return a.deps.l10n("tab.texts", "Texts")
	case candidatesTab:
		return a.deps.l10n("tab.candidates", "Dates & times")
	case linksTab:
		return a.deps.l10n("tab.links", "Links")
	case votesTab:
		return a.deps.l10n("tab.votes", "Votes")
	case settingsTab:
		return a.deps.l10n("tab.settings", "Settings")
	default:
		panic(fmt.Sprintf("tui: unhandled election tab %T", t))
	}
}

func (a ElectionApp) View() string {
	if a.state != domain.LoadReady || a.election == nil {
		head := header(a.width, "fixadat", "", "")
		return frame(a.height, head, "", terminalView(a.deps, a.state, a.status, a.err), a.banner, helpBar("q", "quit"))
	}
	e := a.election

	role := "voter"
	if e.IsOrganizer() {
		role = "organizer"
	}
	meta := fmt.Sprintf("%s · %s (%s) · %d votes", role, e.Visibility, e.Visibility.Label(), len(e.Votes))
	if z := e.ViewTimeZone(); z != "" {
		meta += " · " + z
	}
	head := header(a.width, "fixadat", e.Name, meta)

	labels := make([]string, len(a.tabs))
	for i, t := range a.tabs {
		labels[i] = a.tabLabel(t)
	}
	tabs := tabBar(a.width, labels, a.active)

	var body, help string
	switch t := a.tabs[a.active].(type) {
	case textsTab:
		body, help = a.texts.View(), a.texts.helpKeys()
	case candidatesTab:
		body, help = a.candidates.View(), a.candidates.helpKeys()
	case linksTab:
		body, help = a.links.View(a.width), a.links.helpKeys()
	case votesTab:
		var b strings.Builder
		if lines := e.DescriptionLines(); len(lines) > 0 {
			b.WriteString(descriptionView(lines) + "\n")
		}
		b.WriteString(a.votes.View())
		body, help = b.String(), a.votes.helpKeys()
	case settingsTab:
		body = a.settings.View() + "\n " + metaStyle.Render("D delete this election") + "\n"
		help = a.settings.helpKeys()
	default:
		panic(fmt.Sprintf("tui: unhandled election tab %T", t))
	}

	b := a.banner
	if a.confirmDelete {
		b = errorBanner("Delete this election for good? y/n")
	}
	if !a.isEditing() && len(a.tabs) > 1 {
		help += "  " + helpEntry(fmt.Sprintf("1-%d", len(a.tabs)), "tabs") + "  " + helpEntry("q", "quit")
	} else if !a.isEditing() {
		help += "  " + helpEntry("q", "quit")
	}
	return frame(a.height, head, tabs, body, b, help)
}
