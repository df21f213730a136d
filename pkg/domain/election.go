package domain

import (
	"context"
	"fmt"
	"maps"
	"slices"
	"strings"
)

// ElectionData is the election aggregate as the server returns it.
type ElectionData struct {
	ID             int64         `json:"id"`
	OrganizerToken string        `json:"organizerToken,omitempty"`
	VoterToken     string        `json:"voterToken"`
	Name           string        `json:"name"`
	Description    string        `json:"description,omitempty"`
	TimeZone       string        `json:"timeZone,omitempty"`
	Candidates     []string      `json:"candidates"`
	Visibility     Visibility    `json:"visibility"`
	Votes          []Vote        `json:"votes"`
	Subscriptions  Subscriptions `json:"subscriptions"`
	Created        Timestamp     `json:"created"`
	Updated        Timestamp     `json:"updated"`
}

func (d ElectionData) clone() ElectionData {
	d.Candidates = slices.Clone(d.Candidates)
	votes := make([]Vote, len(d.Votes))
	for i, v := range d.Votes {
		v.Availability = maps.Clone(v.Availability)
		votes[i] = v
	}
	d.Votes = votes
	return d
}

// Election is one loaded election. It is never changed in place: every
// mutator returns a new Election, the receiver stays as it was.
type Election struct {
	ElectionData

	repo     ElectionRepository
	token    string
	viewZone string
}

// NewElection binds data to repo. token is the access token the page was opened
// with; viewZone is the time zone data was fetched for.
func NewElection(repo ElectionRepository, data ElectionData, token, viewZone string) *Election {
	return &Election{ElectionData: data.clone(), repo: repo, token: token, viewZone: viewZone}
}

// Token returns the access token used for every call.
func (e *Election) Token() string { return e.token }

// ViewTimeZone returns the time zone the election is re-fetched in.
func (e *Election) ViewTimeZone() string {
	if e.viewZone != "" {
		return e.viewZone
	}
	return e.TimeZone
}

// IsOrganizer reports whether the page was opened with the organizer token.
func (e *Election) IsOrganizer() bool {
	return IsOrganizer(e.token, e.OrganizerToken)
}

// AcceptsVotes reports whether the vote form is offered.
func (e *Election) AcceptsVotes() bool {
	return e.Visibility.AcceptsResponses()
}

// DescriptionLines splits the description for display.
func (e *Election) DescriptionLines() []string {
	return DescriptionLines(e.Description)
}

// SortedCandidates returns the candidates in chronological order.
func (e *Election) SortedCandidates() []string {
	return SortCandidates(e.Candidates)
}

// With returns a copy with patch applied to its data.
func (e *Election) With(patch func(*ElectionData)) *Election {
	data := e.ElectionData.clone()
	if patch != nil {
		patch(&data)
	}
	return &Election{ElectionData: data, repo: e.repo, token: e.token, viewZone: e.viewZone}
}

// Reload fetches the aggregate again.
func (e *Election) Reload(ctx context.Context) (*Election, error) {
	data, err := e.repo.GetElection(ctx, e.ID, e.token, e.ViewTimeZone())
	if err != nil {
		return nil, fmt.Errorf("reload election %d: %w", e.ID, err)
	}
	return NewElection(e.repo, *data, e.token, e.viewZone), nil
}

// UpdateText replaces name and description.
func (e *Election) UpdateText(ctx context.Context, name, description string) (*Election, error) {
	text := Text{Name: name, Description: description}
	if err := e.repo.PutElectionText(ctx, e.ID, e.token, text); err != nil {
		return nil, fmt.Errorf("update election text: %w", err)
	}
	return e.With(func(d *ElectionData) {
		d.Name = text.Name
		d.Description = text.Description
	}), nil
}

// UpdateSchedule replaces the candidates and the election's time zone.
func (e *Election) UpdateSchedule(ctx context.Context, candidates []string, timeZone string) (*Election, error) {
	nominees := Nominees{Candidates: slices.Clone(candidates), TimeZone: timeZone}
	if err := e.repo.PutElectionSchedule(ctx, e.ID, e.token, nominees); err != nil {
		return nil, fmt.Errorf("update election schedule: %w", err)
	}
	return e.With(func(d *ElectionData) {
		d.Candidates = nominees.Candidates
		d.TimeZone = nominees.TimeZone
	}), nil
}

// UpdateVisibility changes who may see and answer the election.
func (e *Election) UpdateVisibility(ctx context.Context, visibility Visibility) (*Election, error) {
	if err := e.repo.PutElectionVisibility(ctx, e.ID, e.token, visibility); err != nil {
		return nil, fmt.Errorf("update election visibility: %w", err)
	}
	return e.With(func(d *ElectionData) { d.Visibility = visibility }), nil
}

// UpdateSubscriptions changes where new votes are announced.
func (e *Election) UpdateSubscriptions(ctx context.Context, subscriptions Subscriptions) (*Election, error) {
	if err := e.repo.PatchElectionSubscriptions(ctx, e.ID, e.token, subscriptions); err != nil {
		return nil, fmt.Errorf("update election subscriptions: %w", err)
	}
	return e.With(func(d *ElectionData) { d.Subscriptions = subscriptions }), nil
}

// CastVote submits a ballot and returns the election as the server now has it.
func (e *Election) CastVote(ctx context.Context, name string, availability map[string]Availability, timeZone string) (*Election, error) {
	ballot := Ballot{Name: name, TimeZone: timeZone, Availability: maps.Clone(availability)}
	if err := e.repo.PostVote(ctx, e.ID, e.token, ballot); err != nil {
		return nil, fmt.Errorf("cast vote: %w", err)
	}
	return e.Reload(ctx)
}

// RevokeVote removes vote and returns the election as the server now has it.
func (e *Election) RevokeVote(ctx context.Context, vote Vote) (*Election, error) {
	if err := e.repo.DeleteVote(ctx, e.ID, e.token, vote.Name, vote.Voted); err != nil {
		return nil, fmt.Errorf("revoke vote: %w", err)
	}
	return e.Reload(ctx)
}

// SendReminder asks the server to send the voter link to recipients.
func (e *Election) SendReminder(ctx context.Context, recipients Subscriptions) error {
	if err := e.repo.PostElectionReminder(ctx, e.ID, e.token, recipients); err != nil {
		return fmt.Errorf("send election reminder: %w", err)
	}
	return nil
}

// Delete removes the election. The caller drops the entity afterwards.
func (e *Election) Delete(ctx context.Context) error {
	if err := e.repo.DeleteElection(ctx, e.ID, e.token); err != nil {
		return fmt.Errorf("delete election %d: %w", e.ID, err)
	}
	return nil
}

// CreateElection asks the server for a new empty election.
func CreateElection(ctx context.Context, repo ElectionRepository) (*ElectionCreated, error) {
	created, err := repo.PostElection(ctx)
	if err != nil {
		return nil, fmt.Errorf("create election: %w", err)
	}
	return created, nil
}

// RecreateElection loads an election for the page opened with token.
// An empty token fails with ErrMissingToken before anything is fetched.
func RecreateElection(ctx context.Context, repo ElectionRepository, id int64, token, timeZone string) (*Election, error) {
	if token == "" {
		return nil, ErrMissingToken
	}
	data, err := repo.GetElection(ctx, id, token, timeZone)
	if err != nil {
		return nil, fmt.Errorf("load election %d: %w", id, err)
	}
	return NewElection(repo, *data, token, timeZone), nil
}

// DescriptionLines splits a multi-line description, dropping trailing blank lines.
func DescriptionLines(description string) []string {
	description = strings.TrimRight(strings.ReplaceAll(description, "\r\n", "\n"), "\n \t")
	if description == "" {
		return nil
	}
	return strings.Split(description, "\n")
}
