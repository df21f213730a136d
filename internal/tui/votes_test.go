package tui

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/squeng/fixadat/pkg/domain"
)

func votesElection(visibility domain.Visibility, token string) *domain.Election {
	return testElection(domain.ElectionData{
		OrganizerToken: "org",
		VoterToken:     "vot",
		Visibility:     visibility,
		Candidates:     []string{"2024-01-01T10:00:00", "2024-01-02T10:00:00"},
		Votes: []domain.Vote{
			{Name: "Alice", Voted: domain.NewTimestamp(time.Now()), Availability: map[string]domain.Availability{
				"2024-01-01T10:00": domain.AvailabilityYes,
				"2024-01-02T10:00": domain.AvailabilityIfNeedBe,
			}},
		},
	}, token)
}

func TestVotesBallotPrefillsFromExistingVote(t *testing.T) {
	m := newVotesModel(votesElection(domain.VisibilityPublic, "vot"))
	m, _ = m.Update(key("e"))

	require.Equal(t, votesBallot, m.mode)
	assert.Equal(t, "Alice", m.name)
	assert.Equal(t, domain.AvailabilityYes, m.availability["2024-01-01T10:00"])
	assert.Equal(t, domain.AvailabilityIfNeedBe, m.availability["2024-01-02T10:00"])
}

func TestVotesBallotRequiresName(t *testing.T) {
	m := newVotesModel(votesElection(domain.VisibilityPublic, "vot"))
	m, _ = m.Update(key("v"))
	m, cmd := m.Update(key("ctrl+s"))

	assert.Nil(t, cmd)
	assert.Equal(t, votesBallot, m.mode)
	assert.Contains(t, m.View(), domain.ErrNameRequired.Error())
}

func TestVotesBallotCycles(t *testing.T) {
	m := newVotesModel(votesElection(domain.VisibilityPublic, "vot"))
	m, _ = m.Update(key("v"))
	for _, k := range append(runes("Bob"), key("down"), key(" "), key(" "), key("down"), key("i")) {
		m, _ = m.Update(k)
	}
	m, cmd := m.Update(key("ctrl+s"))
	require.NotNil(t, cmd)
	msg := cmd().(castVoteMsg)

	assert.Equal(t, "Bob", msg.name)
	assert.Equal(t, map[string]domain.Availability{
		"2024-01-01T10:00": domain.AvailabilityYes,
		"2024-01-02T10:00": domain.AvailabilityIfNeedBe,
	}, msg.availability)
	assert.True(t, m.busy)
}

func TestVotesRevokeOnlyForOrganizer(t *testing.T) {
	voter := newVotesModel(votesElection(domain.VisibilityPublic, "vot"))
	voter, _ = voter.Update(key("x"))
	assert.Equal(t, votesBrowse, voter.mode)

	organizer := newVotesModel(votesElection(domain.VisibilityPublic, "org"))
	organizer, _ = organizer.Update(key("x"))
	require.Equal(t, votesConfirmRevoke, organizer.mode)
	_, cmd := organizer.Update(key("y"))
	require.NotNil(t, cmd)
	assert.Equal(t, "Alice", cmd().(revokeVoteMsg).vote.Name)
}

func TestVotesViewHighlightsBest(t *testing.T) {
	m := newVotesModel(votesElection(domain.VisibilityPrivate, "org"))
	view := m.View()

	assert.Contains(t, view, "Mon 01 Jan 2024 10:00")
	assert.Contains(t, view, "Alice")
	assert.Contains(t, view, "read only")
	assert.Equal(t, []string{"2024-01-01T10:00:00"}, m.tally.BestCandidates())
	assert.True(t, strings.Contains(view, " 1✓"))
}
