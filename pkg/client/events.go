package client

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/squeng/fixadat/pkg/domain"
)

var _ domain.EventRepository = (*Client)(nil)

func eventPath(id int64) string {
	return "/iapi/events/" + strconv.FormatInt(id, 10)
}

// PostEvent creates an empty event.
func (c *Client) PostEvent(ctx context.Context) (*domain.EventCreated, error) {
	resp, err := c.post(ctx, "/iapi/events", "", nil)
	if err != nil {
		return nil, fmt.Errorf("client.PostEvent: %w", err)
	}
	if err := expectStatus(resp, http.StatusCreated); err != nil {
		return nil, fmt.Errorf("client.PostEvent: %w", err)
	}
	var created domain.EventCreated
	if err := resp.Decode(&created); err != nil {
		return nil, fmt.Errorf("client.PostEvent: %w", err)
	}
	return &created, nil
}

// GetEvent fetches the aggregate. host asks for the host view, which
// includes RSVPs and subscriptions.
func (c *Client) GetEvent(ctx context.Context, id int64, token string, host bool, timeZone string) (*domain.EventData, error) {
	q := url.Values{}
	if host {
		q.Set("view", "host")
	}
	if timeZone != "" {
		q.Set("timeZone", timeZone)
	}
	path := eventPath(id)
	if len(q) > 0 {
		path += "?" + q.Encode()
	}
	resp, err := c.get(ctx, path, token)
	if err != nil {
		return nil, fmt.Errorf("client.GetEvent: %w", err)
	}
	if err := expectOK(resp); err != nil {
		return nil, fmt.Errorf("client.GetEvent: %w", err)
	}
	var data domain.EventData
	if err := resp.Decode(&data); err != nil {
		return nil, fmt.Errorf("client.GetEvent: %w", err)
	}
	return &data, nil
}

// PutEventText replaces name and description.
func (c *Client) PutEventText(ctx context.Context, id int64, token string, text domain.Text) error {
	if err := c.mutate(ctx, http.MethodPut, eventPath(id)+"/text", token, text); err != nil {
		return fmt.Errorf("client.PutEventText: %w", err)
	}
	return nil
}

// PutEventSchedule replaces date, time and time zone.
func (c *Client) PutEventSchedule(ctx context.Context, id int64, token string, schedule domain.Schedule) error {
	if err := c.mutate(ctx, http.MethodPut, eventPath(id)+"/schedule", token, schedule); err != nil {
		return fmt.Errorf("client.PutEventSchedule: %w", err)
	}
	return nil
}

// PutEventLocation replaces link and map position.
func (c *Client) PutEventLocation(ctx context.Context, id int64, token string, location domain.Location) error {
	if err := c.mutate(ctx, http.MethodPut, eventPath(id)+"/location", token, location); err != nil {
		return fmt.Errorf("client.PutEventLocation: %w", err)
	}
	return nil
}

// PatchEventSettings replaces the RSVP requirements.
func (c *Client) PatchEventSettings(ctx context.Context, id int64, token string, settings domain.EventSettings) error {
	if err := c.mutate(ctx, http.MethodPatch, eventPath(id), token, settings); err != nil {
		return fmt.Errorf("client.PatchEventSettings: %w", err)
	}
	return nil
}

// PutEventVisibility changes the visibility.
func (c *Client) PutEventVisibility(ctx context.Context, id int64, token string, visibility domain.Visibility) error {
	body := struct {
		Visibility domain.Visibility `json:"visibility"`
	}{visibility}
	if err := c.mutate(ctx, http.MethodPut, eventPath(id)+"/visibility", token, body); err != nil {
		return fmt.Errorf("client.PutEventVisibility: %w", err)
	}
	return nil
}

// PostRsvp submits a guest's answer.
func (c *Client) PostRsvp(ctx context.Context, id int64, token string, rsvp domain.Rsvp) error {
	body := struct {
		Name         string            `json:"name"`
		Attendance   domain.Attendance `json:"attendance"`
		EmailAddress string            `json:"emailAddress,omitempty"`
		PhoneNumber  string            `json:"phoneNumber,omitempty"`
	}{rsvp.Name, rsvp.Attendance, rsvp.EmailAddress, rsvp.PhoneNumber}
	if err := c.mutate(ctx, http.MethodPost, eventPath(id)+"/RSVPs", token, body); err != nil {
		return fmt.Errorf("client.PostRsvp: %w", err)
	}
	return nil
}

// PostEventReminder mails or texts the guest link to recipients.
func (c *Client) PostEventReminder(ctx context.Context, id int64, token string, recipients domain.Subscriptions) error {
	if err := c.mutate(ctx, http.MethodPost, eventPath(id)+"/reminders", token, recipients); err != nil {
		return fmt.Errorf("client.PostEventReminder: %w", err)
	}
	return nil
}

// DeleteEvent removes the event.
func (c *Client) DeleteEvent(ctx context.Context, id int64, token string) error {
	if err := c.mutate(ctx, http.MethodDelete, eventPath(id), token, nil); err != nil {
		return fmt.Errorf("client.DeleteEvent: %w", err)
	}
	return nil
}
