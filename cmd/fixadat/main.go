package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/atotto/clipboard"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/fatih/color"
	"github.com/rs/zerolog"

	"github.com/squeng/fixadat/internal/config"
	"github.com/squeng/fixadat/internal/logging"
	"github.com/squeng/fixadat/internal/tui"
	"github.com/squeng/fixadat/pkg/client"
	"github.com/squeng/fixadat/pkg/domain"
)

// version is set at build time via -ldflags "-X main.version=..."
var version = "dev"

func main() {
	if err := run(os.Args[1:]); err != nil {
		color.New(color.FgRed).Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run(args []string) error {
	if len(args) > 0 {
		switch args[0] {
		case "--version", "version", "-v":
			fmt.Println("fixadat " + version)
			return nil
		case "help", "--help", "-h":
			printHelp(os.Stdout)
			return nil
		}
	}
	if len(args) == 0 {
		printHelp(os.Stdout)
		return nil
	}

	cfg := config.MustLoad()
	logger, closer, err := logging.Open(cfg)
	if err != nil {
		return err
	}
	defer closer.Close()
	// Arguments carry share links and their tokens, so only the command is logged.
	logger.Info().Str("version", version).Str("command", args[0]).Msg("fixadat starting")

	c := newCLI(cfg, logger, os.Stdout)
	ctx := context.Background()

	switch args[0] {
	case "new":
		link, err := c.createElection(ctx)
		if err != nil {
			return err
		}
		return c.open(link)
	case "event":
		if len(args) < 2 || args[1] != "new" {
			return errors.New("usage: fixadat event new")
		}
		link, err := c.createEvent(ctx)
		if err != nil {
			return err
		}
		return c.open(link)
	case "open", "tally", "links":
		if len(args) < 2 {
			return fmt.Errorf("usage: fixadat %s <link>", args[0])
		}
		link, err := domain.ParseLink(args[1])
		if err != nil {
			return err
		}
		logger.Info().Stringer("kind", link.Kind).Int64("id", link.ID).Msg("link")
		switch args[0] {
		case "open":
			return c.open(link)
		case "tally":
			return c.printTally(ctx, link)
		default:
			return c.shareLinks(ctx, link)
		}
	case "list":
		return c.listBookmarks()
	default:
		return fmt.Errorf("unknown command %q, try fixadat help", args[0])
	}
}

// cli holds what the commands share. Elections live on the Fixadat origin,
// events on the Squawg origin; a link naming another origin gets its own
// client.
type cli struct {
	cfg  *config.Config
	log  zerolog.Logger
	out  io.Writer
	copy func(string) error

	fixadat *client.Client
	squawg  *client.Client
}

func newCLI(cfg *config.Config, logger zerolog.Logger, out io.Writer) *cli {
	c := &cli{cfg: cfg, log: logger, out: out, copy: clipboard.WriteAll}
	c.fixadat = c.newClient(cfg.FixadatURL)
	c.squawg = c.newClient(cfg.SquawgURL)
	return c
}

func (c *cli) newClient(origin string) *client.Client {
	return client.New(origin,
		client.WithCSRFToken(c.cfg.CSRFToken),
		client.WithTimeout(c.cfg.HTTPTimeout),
		client.WithLogger(c.log.With().Str("origin", origin).Logger()),
	)
}

// clientFor picks the client that serves link.
func (c *cli) clientFor(link domain.Link) *client.Client {
	def := c.fixadat
	if link.Kind == domain.LinkEvent {
		def = c.squawg
	}
	if link.Origin == "" || link.Origin == def.BaseURL() {
		return def
	}
	return c.newClient(link.Origin)
}

func (c *cli) deps(ctx context.Context, cl *client.Client) tui.Deps {
	l10n, err := cl.Localizations(ctx)
	if err != nil {
		c.log.Warn().Err(err).Msg("localizations unavailable, using built-in labels")
	}
	return tui.Deps{
		Elections:     cl,
		Events:        cl,
		Lookups:       cl,
		Localizations: l10n,
		Origin:        cl.BaseURL(),
		TimeZone:      c.cfg.TimeZone,
		Log:           c.log,
	}
}

// open runs the election or event page for link until the user quits.
func (c *cli) open(link domain.Link) error {
	deps := c.deps(context.Background(), c.clientFor(link))

	var model tea.Model
	if link.Kind == domain.LinkEvent {
		model = tui.NewEventApp(deps, link)
	} else {
		model = tui.NewElectionApp(deps, link)
	}
	p := tea.NewProgram(model, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("tui error: %w", err)
	}
	return nil
}

// createElection posts an empty election, bookmarks its organizer link and
// prints both share links. The returned link opens the page as brand new.
func (c *cli) createElection(ctx context.Context) (domain.Link, error) {
	created, err := domain.CreateElection(ctx, c.fixadat)
	if err != nil {
		return domain.Link{}, fmt.Errorf("create election: %w", err)
	}
	origin := c.fixadat.BaseURL()
	organizer := domain.OrganizerLink(origin, created.ID, created.OrganizerToken)
	if err := appendBookmark(c.cfg.BookmarksFile(), bookmark{Kind: domain.LinkElection, URL: organizer}); err != nil {
		c.log.Warn().Err(err).Msg("could not save bookmark")
	}
	c.log.Info().Int64("id", created.ID).Msg("election created")

	fmt.Fprintf(c.out, "%s election %d\n", color.GreenString("created"), created.ID)
	fmt.Fprintf(c.out, "  organizer  %s\n", color.CyanString(organizer))

	return domain.Link{
		Kind:     domain.LinkElection,
		Origin:   origin,
		ID:       created.ID,
		Token:    created.OrganizerToken,
		BrandNew: true,
	}, nil
}

// createEvent is createElection for events; the bookmark is the host link.
func (c *cli) createEvent(ctx context.Context) (domain.Link, error) {
	created, err := domain.CreateEvent(ctx, c.squawg)
	if err != nil {
		return domain.Link{}, fmt.Errorf("create event: %w", err)
	}
	origin := c.squawg.BaseURL()
	host := domain.HostLink(origin, created.ID, created.HostToken)
	if err := appendBookmark(c.cfg.BookmarksFile(), bookmark{Kind: domain.LinkEvent, URL: host}); err != nil {
		c.log.Warn().Err(err).Msg("could not save bookmark")
	}
	c.log.Info().Int64("id", created.ID).Msg("event created")

	fmt.Fprintf(c.out, "%s event %d\n", color.GreenString("created"), created.ID)
	fmt.Fprintf(c.out, "  host  %s\n", color.CyanString(host))

	return domain.Link{
		Kind:     domain.LinkEvent,
		Origin:   origin,
		ID:       created.ID,
		Token:    created.HostToken,
		BrandNew: true,
		Host:     true,
	}, nil
}

// shareLinks prints the links of an election or event and copies the one
// meant for voters or guests.
func (c *cli) shareLinks(ctx context.Context, link domain.Link) error {
	if link.Token == "" {
		return errors.New("the link has no token")
	}
	cl := c.clientFor(link)
	origin := cl.BaseURL()

	var public string
	var lines [][2]string
	switch link.Kind {
	case domain.LinkEvent:
		e, err := domain.RecreateEvent(ctx, cl, link.ID, link.Token, link.Host, c.zone(link))
		if err != nil {
			return fmt.Errorf("load event: %w", err)
		}
		public = domain.GuestLink(origin, e.ID, e.GuestToken)
		lines = append(lines, [2]string{"guests", public})
		if e.IsHost() {
			lines = append(lines, [2]string{"host", domain.HostLink(origin, e.ID, e.HostToken)})
		}
	default:
		e, err := domain.RecreateElection(ctx, cl, link.ID, link.Token, c.zone(link))
		if err != nil {
			return fmt.Errorf("load election: %w", err)
		}
		public = domain.VoterLink(origin, e.ID, e.VoterToken)
		lines = append(lines, [2]string{"voters", public})
		if e.IsOrganizer() {
			lines = append(lines, [2]string{"organizer", domain.OrganizerLink(origin, e.ID, e.OrganizerToken)})
		}
	}

	for _, l := range lines {
		fmt.Fprintf(c.out, "  %-10s %s\n", l[0], color.CyanString(l[1]))
	}
	if err := c.copy(public); err != nil {
		c.log.Warn().Err(err).Msg("clipboard unavailable")
		return nil
	}
	fmt.Fprintln(c.out, color.GreenString("copied"), "the", lines[0][0], "link")
	return nil
}

func (c *cli) zone(link domain.Link) string {
	if link.TimeZone != "" {
		return link.TimeZone
	}
	return c.cfg.TimeZone
}

func (c *cli) listBookmarks() error {
	marks, err := readBookmarks(c.cfg.BookmarksFile())
	if err != nil {
		return err
	}
	if len(marks) == 0 {
		fmt.Fprintln(c.out, "No saved links yet. Try fixadat new.")
		return nil
	}
	for _, b := range marks {
		fmt.Fprintf(c.out, "%s  %-8s %s\n", b.Created.Format("2006-01-02 15:04"), b.Kind, color.CyanString(b.URL))
	}
	return nil
}
