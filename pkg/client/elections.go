package client

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/squeng/fixadat/pkg/domain"
)

var _ domain.ElectionRepository = (*Client)(nil)

func electionPath(id int64) string {
	return "/iapi/elections/" + strconv.FormatInt(id, 10)
}

// PostElection creates an empty election. The server answers 201.
func (c *Client) PostElection(ctx context.Context) (*domain.ElectionCreated, error) {
	resp, err := c.post(ctx, "/iapi/elections", "", nil)
	if err != nil {
		return nil, fmt.Errorf("client.PostElection: %w", err)
	}
	if err := expectStatus(resp, http.StatusCreated); err != nil {
		return nil, fmt.Errorf("client.PostElection: %w", err)
	}
	var created domain.ElectionCreated
	if err := resp.Decode(&created); err != nil {
		return nil, fmt.Errorf("client.PostElection: %w", err)
	}
	return &created, nil
}

// GetElection fetches the aggregate with candidates converted to timeZone.
func (c *Client) GetElection(ctx context.Context, id int64, token, timeZone string) (*domain.ElectionData, error) {
	path := electionPath(id)
	if timeZone != "" {
		path += "?" + url.Values{"timeZone": {timeZone}}.Encode()
	}
	resp, err := c.get(ctx, path, token)
	if err != nil {
		return nil, fmt.Errorf("client.GetElection: %w", err)
	}
	if err := expectOK(resp); err != nil {
		return nil, fmt.Errorf("client.GetElection: %w", err)
	}
	var data domain.ElectionData
	if err := resp.Decode(&data); err != nil {
		return nil, fmt.Errorf("client.GetElection: %w", err)
	}
	return &data, nil
}

// PutElectionText replaces name and description.
func (c *Client) PutElectionText(ctx context.Context, id int64, token string, text domain.Text) error {
	if err := c.mutate(ctx, http.MethodPut, electionPath(id)+"/text", token, text); err != nil {
		return fmt.Errorf("client.PutElectionText: %w", err)
	}
	return nil
}

// PutElectionSchedule replaces the candidates.
func (c *Client) PutElectionSchedule(ctx context.Context, id int64, token string, nominees domain.Nominees) error {
	if nominees.Candidates == nil {
		nominees.Candidates = []string{}
	}
	if err := c.mutate(ctx, http.MethodPut, electionPath(id)+"/nominees", token, nominees); err != nil {
		return fmt.Errorf("client.PutElectionSchedule: %w", err)
	}
	return nil
}

// PutElectionVisibility changes the visibility.
func (c *Client) PutElectionVisibility(ctx context.Context, id int64, token string, visibility domain.Visibility) error {
	body := struct {
		Visibility domain.Visibility `json:"visibility"`
	}{visibility}
	if err := c.mutate(ctx, http.MethodPut, electionPath(id)+"/visibility", token, body); err != nil {
		return fmt.Errorf("client.PutElectionVisibility: %w", err)
	}
	return nil
}

// PatchElectionSubscriptions changes where new votes are announced.
func (c *Client) PatchElectionSubscriptions(ctx context.Context, id int64, token string, subscriptions domain.Subscriptions) error {
	if err := c.mutate(ctx, http.MethodPatch, electionPath(id)+"/subscriptions", token, subscriptions); err != nil {
		return fmt.Errorf("client.PatchElectionSubscriptions: %w", err)
	}
	return nil
}

// PostVote casts a ballot.
func (c *Client) PostVote(ctx context.Context, id int64, token string, ballot domain.Ballot) error {
	if ballot.Availability == nil {
		ballot.Availability = map[string]domain.Availability{}
	}
	if err := c.mutate(ctx, http.MethodPost, electionPath(id)+"/votes", token, ballot); err != nil {
		return fmt.Errorf("client.PostVote: %w", err)
	}
	return nil
}

// DeleteVote revokes the vote identified by name and the time it was cast.
func (c *Client) DeleteVote(ctx context.Context, id int64, token, name string, voted domain.Timestamp) error {
	q := url.Values{"name": {name}, "voted": {voted.String()}}
	if err := c.mutate(ctx, http.MethodDelete, electionPath(id)+"/votes?"+q.Encode(), token, nil); err != nil {
		return fmt.Errorf("client.DeleteVote: %w", err)
	}
	return nil
}

// DeleteElection removes the election.
func (c *Client) DeleteElection(ctx context.Context, id int64, token string) error {
	if err := c.mutate(ctx, http.MethodDelete, electionPath(id), token, nil); err != nil {
		return fmt.Errorf("client.DeleteElection: %w", err)
	}
	return nil
}

// PostElectionReminder mails or texts the voter link to recipients.
func (c *Client) PostElectionReminder(ctx context.Context, id int64, token string, recipients domain.Subscriptions) error {
	if err := c.mutate(ctx, http.MethodPost, electionPath(id)+"/reminders", token, recipients); err != nil {
		return fmt.Errorf("client.PostElectionReminder: %w", err)
	}
	return nil
}
