package client

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"

	"golang.org/x/net/html"
)

// maxLandingRedirects bounds the hops followed to reach the landing page.
const maxLandingRedirects = 5

// CSRFToken returns the token sent with unsafe requests. Unless one was set
// with WithCSRFToken, the landing page is fetched once and the token read
// from its csrf-token meta tag; the session cookie it sets stays in the jar.
// Same-origin redirects, such as one to a locale path, are followed for this
// fetch only. A page without the tag yields an empty token, and requests go
// out without the header.
func (c *Client) CSRFToken(ctx context.Context) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.csrfLoaded {
		return c.csrfToken, nil
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/", nil)
	if err != nil {
		return "", fmt.Errorf("create landing request: %w", err)
	}
	req.Header.Set("Accept", "text/html")
	req.Header.Set("Cache-Control", "no-store")
	resp, err := c.landingClient().Do(req)
	if err != nil {
		return "", fmt.Errorf("fetch landing page: %w", err)
	}
	defer resp.Body.Close() //nolint:errcheck // best-effort close

	if resp.StatusCode != http.StatusOK {
		return "", &HTTPError{StatusCode: resp.StatusCode, Message: "landing page"}
	}
	token, err := findCSRFMeta(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		return "", fmt.Errorf("parse landing page: %w", err)
	}
	if token == "" {
		c.log.Warn().Str("base_url", c.baseURL).Msg("landing page has no csrf-token meta tag")
	}
	c.csrfToken = token
	c.csrfLoaded = true
	return token, nil
}

// landingClient shares the jar and transport of the API client but follows
// redirects that stay on the same scheme and host.
func (c *Client) landingClient() *http.Client {
	hc := *c.httpClient
	hc.CheckRedirect = func(req *http.Request, via []*http.Request) error {
		first := via[0].URL
		if len(via) > maxLandingRedirects || req.URL.Scheme != first.Scheme || req.URL.Host != first.Host {
			return ErrRedirect
		}
		return nil
	}
	return &hc
}

// findCSRFMeta returns the content of <meta name="csrf-token">.
func findCSRFMeta(r io.Reader) (string, error) {
	z := html.NewTokenizer(r)
	for {
		switch z.Next() {
		case html.ErrorToken:
			if z.Err() == io.EOF {
				return "", nil
			}
			return "", z.Err()
		case html.StartTagToken, html.SelfClosingTagToken:
			tok := z.Token()
			if tok.Data != "meta" {
				continue
			}
			var name, content string
			for _, a := range tok.Attr {
				switch strings.ToLower(a.Key) {
				case "name":
					name = a.Val
				case "content":
					content = a.Val
				}
			}
			if strings.EqualFold(name, "csrf-token") {
				return content, nil
			}
		}
	}
}
