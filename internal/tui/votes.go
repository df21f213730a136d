package tui

import (
	"fmt"
	"maps"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/squeng/fixadat/pkg/domain"
	"github.com/squeng/fixadat/pkg/tally"
)

type votesMode int

const (
	votesBrowse votesMode = iota
	votesBallot
	votesConfirmRevoke
)

type castVoteMsg struct {
	name         string
	availability map[string]domain.Availability
}

type revokeVoteMsg struct {
	vote domain.Vote
}

// votesModel shows the tally and takes a ballot. Organizers may revoke votes.
type votesModel struct {
	tally     tally.Tally
	votes     []domain.Vote
	open      bool
	organizer bool

	cursor int
	mode   votesMode

	name         string
	availability map[string]domain.Availability
	row          int // 0 is the name, then one row per candidate
	busy         bool
	notice       string
}

func newVotesModel(e *domain.Election) votesModel {
	return votesModel{}.sync(e)
}

func (m votesModel) sync(e *domain.Election) votesModel {
	if e == nil {
		return m
	}
	m.tally = tally.Count(e)
	m.votes = e.Votes
	m.open = e.AcceptsVotes()
	m.organizer = e.IsOrganizer()
	m.busy = false
	m.cursor = min(m.cursor, max(len(m.votes)-1, 0))
	if m.mode == votesBallot && !m.open {
		m.mode = votesBrowse
	}
	return m
}

func (m votesModel) editing() bool { return m.mode != votesBrowse }

// startBallot opens the ballot, prefilled from the vote of the same name if
// there is one.
func (m votesModel) startBallot(name string) votesModel {
	m.mode = votesBallot
	m.row = 0
	m.name = name
	m.availability = domain.DefaultAvailability(m.tally.Candidates)
	for _, v := range m.votes {
		if v.Name != name || name == "" {
			continue
		}
		for _, c := range m.tally.Candidates {
			if a, ok := v.For(c); ok {
				m.availability[domain.CandidateKey(c)] = a
			}
		}
	}
	return m
}

func (m votesModel) Update(msg tea.Msg) (votesModel, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}
	m.notice = ""

	switch m.mode {
	case votesConfirmRevoke:
		if key.String() == "y" && len(m.votes) > 0 {
			m.mode = votesBrowse
			m.busy = true
			v := m.votes[m.cursor]
			return m, func() tea.Msg { return revokeVoteMsg{vote: v} }
		}
		m.mode = votesBrowse
		return m, nil

	case votesBallot:
		return m.updateBallot(key)
	}

	switch key.String() {
	case "j", "down":
		if m.cursor < len(m.votes)-1 {
			m.cursor++
		}
	case "k", "up":
		if m.cursor > 0 {
			m.cursor--
		}
	case "v", "enter":
		if !m.open {
			m.notice = "this election is read only"
			return m, nil
		}
		return m.startBallot(""), nil
	case "e":
		if m.open && len(m.votes) > 0 {
			return m.startBallot(m.votes[m.cursor].Name), nil
		}
	case "x":
		if m.organizer && len(m.votes) > 0 && !m.busy {
			m.mode = votesConfirmRevoke
		}
	}
	return m, nil
}

func (m votesModel) updateBallot(key tea.KeyMsg) (votesModel, tea.Cmd) {
	rows := len(m.tally.Candidates) + 1
	switch key.String() {
	case "esc":
		m.mode = votesBrowse
	case "tab", "down":
		m.row = (m.row + 1) % rows
	case "shift+tab", "up":
		m.row = (m.row - 1 + rows) % rows
	case "ctrl+s":
		name := strings.TrimSpace(m.name)
		if name == "" {
			m.notice = domain.ErrNameRequired.Error()
			m.row = 0
			return m, nil
		}
		if m.busy {
			return m, nil
		}
		m.busy = true
		m.mode = votesBrowse
		availability := maps.Clone(m.availability)
		return m, func() tea.Msg { return castVoteMsg{name: name, availability: availability} }
	default:
		if m.row == 0 {
			m.name = edit(m.name, key, lineLimit)
			return m, nil
		}
		k := domain.CandidateKey(m.tally.Candidates[m.row-1])
		switch key.String() {
		case " ", "enter", "right":
			m.availability[k] = m.availability[k].Next()
		case "y":
			m.availability[k] = domain.AvailabilityYes
		case "i":
			m.availability[k] = domain.AvailabilityIfNeedBe
		case "n":
			m.availability[k] = domain.AvailabilityNo
		}
	}
	return m, nil
}

func (m votesModel) helpKeys() string {
	switch m.mode {
	case votesBallot:
		return helpBar("tab", "next", "space", "cycle", "y/i/n", "set", "ctrl+s", "vote", "esc", "cancel")
	case votesConfirmRevoke:
		return helpBar("y", "revoke", "any", "keep")
	}
	if m.organizer {
		return helpBar("j/k", "nav", "v", "vote", "e", "edit vote", "x", "revoke")
	}
	return helpBar("j/k", "nav", "v", "vote", "e", "edit vote")
}

func availabilitySymbol(a domain.Availability) string {
	switch a {
	case domain.AvailabilityYes:
		return "✓"
	case domain.AvailabilityIfNeedBe:
		return "~"
	case domain.AvailabilityNo:
		return "✗"
	default:
		return "·"
	}
}

func (m votesModel) View() string {
	var b strings.Builder
	t := m.tally

	if len(t.Candidates) == 0 {
		b.WriteString(" " + dimStyle.Render("No dates to vote on yet.") + "\n")
	}
	for i, c := range t.Candidates {
		col := t.Columns[i]
		label := fmt.Sprintf("%-22s", formatCandidate(c))
		if tally.IsBest(col, t.Best) {
			label = bestStyle.Render(label)
		} else {
			label = normalStyle.Render(label)
		}
		counts := yesStyle.Render(fmt.Sprintf("%2d✓", col.Yes)) + " " +
			ifNeedBeStyle.Render(fmt.Sprintf("%2d~", col.IfNeedBe)) + " " +
			noStyle.Render(fmt.Sprintf("%2d✗", col.No))

		var marks strings.Builder
		for _, v := range m.votes {
			a, _ := v.For(c)
			marks.WriteString(availabilityStyle(string(a)).Render(availabilitySymbol(a)))
		}
		b.WriteString(" " + label + "  " + counts + "  " + marks.String() + "\n")
	}

	b.WriteString("\n" + sectionHeaderStyle.Render(" VOTERS") + "\n")
	if len(m.votes) == 0 {
		b.WriteString(" " + dimStyle.Render("Nobody has voted yet.") + "\n")
	}
	for i, v := range m.votes {
		line := fmt.Sprintf("%-20s %s", truncStr(v.Name, 20), formatTime(v.Voted.Time))
		switch {
		case i == m.cursor && m.mode == votesConfirmRevoke:
			b.WriteString(" " + errorStyle.Render("▸ "+line+"  revoke? y/n") + "\n")
		case i == m.cursor:
			b.WriteString(" " + accentStyle.Render("▸ ") + selectedStyle.Render(line) + "\n")
		default:
			b.WriteString("   " + normalStyle.Render(line) + "\n")
		}
	}

	b.WriteString("\n")
	switch {
	case m.mode == votesBallot:
		b.WriteString(m.ballotView())
	case !m.open:
		b.WriteString(" " + metaStyle.Render("Voting is closed: this election is read only.") + "\n")
	case m.busy:
		b.WriteString(" " + dimStyle.Render("sending…") + "\n")
	}
	if m.notice != "" {
		b.WriteString(" " + errorStyle.Render(m.notice) + "\n")
	}
	return b.String()
}

func (m votesModel) ballotView() string {
	var b strings.Builder
	b.WriteString(sectionHeaderStyle.Render(" YOUR VOTE") + "\n")
	cursor := func(row int) string {
		if row == m.row {
			return accentStyle.Render("▸ ")
		}
		return "  "
	}
	name := m.name
	if m.row == 0 {
		name += "█"
	}
	b.WriteString(" " + cursor(0) + metaStyle.Render("Name: ") + normalStyle.Render(name) + "\n")
	for i, c := range m.tally.Candidates {
		a := m.availability[domain.CandidateKey(c)]
		b.WriteString(" " + cursor(i+1) + fmt.Sprintf("%-22s ", formatCandidate(c)) +
			availabilityStyle(string(a)).Render(availabilitySymbol(a)+" "+string(a)) + "\n")
	}
	return b.String()
}
