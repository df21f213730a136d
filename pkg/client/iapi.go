package client

import (
	"context"
	"fmt"
	"net/url"

	"github.com/squeng/fixadat/pkg/domain"
)

// ValidationKind names a server-side input check. The value before '?' is the
// collection, the one after it the query parameter.
type ValidationKind string

const (
	ValidateEmailAddress    ValidationKind = "emailAddresses?emailAddress"
	ValidateCellPhoneNumber ValidationKind = "cellPhoneNumbers?cellPhoneNumber"
	ValidateURL             ValidationKind = "urls?url"
)

// Validation is the server's verdict on one value.
type Validation struct {
	Value string `json:"value"`
	Valid bool   `json:"valid"`
}

// TimeZones lists the IANA zones the server converts between.
func (c *Client) TimeZones(ctx context.Context) ([]string, error) {
	resp, err := c.get(ctx, "/iapi/timeZones", "")
	if err != nil {
		return nil, fmt.Errorf("client.TimeZones: %w", err)
	}
	if err := expectOK(resp); err != nil {
		return nil, fmt.Errorf("client.TimeZones: %w", err)
	}
	var zones []string
	if err := resp.Decode(&zones); err != nil {
		return nil, fmt.Errorf("client.TimeZones: %w", err)
	}
	return zones, nil
}

// Localizations fetches the message table for the server's negotiated locale.
func (c *Client) Localizations(ctx context.Context) (domain.Localizations, error) {
	resp, err := c.get(ctx, "/iapi/l10nMessages", "")
	if err != nil {
		return nil, fmt.Errorf("client.Localizations: %w", err)
	}
	if err := expectOK(resp); err != nil {
		return nil, fmt.Errorf("client.Localizations: %w", err)
	}
	var l domain.Localizations
	if err := resp.Decode(&l); err != nil {
		return nil, fmt.Errorf("client.Localizations: %w", err)
	}
	return l, nil
}

// Validate asks the server whether value is acceptable for kind. An empty
// value is valid without a round trip.
func (c *Client) Validate(ctx context.Context, kind ValidationKind, value string) (Validation, error) {
	if value == "" {
		return Validation{Value: value, Valid: true}, nil
	}
	resp, err := c.get(ctx, "/iapi/validations/"+string(kind)+"="+url.QueryEscape(value), "")
	if err != nil {
		return Validation{}, fmt.Errorf("client.Validate: %w", err)
	}
	if err := expectOK(resp); err != nil {
		return Validation{}, fmt.Errorf("client.Validate: %w", err)
	}
	var v Validation
	if err := resp.Decode(&v); err != nil {
		return Validation{}, fmt.Errorf("client.Validate: %w", err)
	}
	return v, nil
}
