// Package directory is an HTTP address-book client used to enrich
// recipients before rendering.
package directory

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"template-composer/internal/contact"
)

// Client is a minimal HTTP client for a contacts API.
type Client struct {
	baseURL string
	apiKey  string
	http    *http.Client
	// Endpoints (optional overrides)
	getPath    string // Template: "/contacts/%s"
	searchPath string
}

var _ contact.Directory = (*Client)(nil)

// New creates a new directory client.
// baseURL should be like "https://contacts.example.com/v1" (no trailing slash).
func New(baseURL, apiKey string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		apiKey:     apiKey,
		http:       &http.Client{Timeout: timeout},
		getPath:    "/contacts/%s",
		searchPath: "/contacts",
	}
}

// WithPaths optionally overrides endpoints.
func (c *Client) WithPaths(getPath, searchPath string) *Client {
	c2 := *c
	if strings.TrimSpace(getPath) != "" {
		c2.getPath = getPath
	}
	if strings.TrimSpace(searchPath) != "" {
		c2.searchPath = searchPath
	}
	return &c2
}

// GetByID fetches one contact. A 404 reports ok=false.
func (c *Client) GetByID(ctx context.Context, id string) (contact.Record, bool, error) {
	if c == nil {
		return contact.Record{}, false, errors.New("nil directory client")
	}
	if strings.TrimSpace(id) == "" {
		return contact.Record{}, false, errors.New("empty contact id")
	}
	u := c.baseURL + fmt.Sprintf(c.getPath, url.PathEscape(id))
	body, found, err := c.get(ctx, u)
	if err != nil || !found {
		return contact.Record{}, false, err
	}
	var out struct {
		contact.Record
		Data *contact.Record `json:"data"`
	}
	if err := json.Unmarshal(body, &out); err != nil {
		return contact.Record{}, false, fmt.Errorf("decode contact: %w", err)
	}
	// Try common envelope patterns
	if out.Data != nil {
		return *out.Data, true, nil
	}
	return out.Record, true, nil
}

// SearchByEmail returns the first contact whose address matches email.
func (c *Client) SearchByEmail(ctx context.Context, email string) (contact.Record, bool, error) {
	if c == nil {
		return contact.Record{}, false, errors.New("nil directory client")
	}
	if strings.TrimSpace(email) == "" {
		return contact.Record{}, false, nil
	}
	u := c.baseURL + c.searchPath + "?" + url.Values{"email": {email}}.Encode()
	body, found, err := c.get(ctx, u)
	if err != nil || !found {
		return contact.Record{}, false, err
	}
	var list []contact.Record
	if err := json.Unmarshal(body, &list); err != nil {
		var env struct {
			Data []contact.Record `json:"data"`
		}
		if err2 := json.Unmarshal(body, &env); err2 != nil {
			return contact.Record{}, false, fmt.Errorf("decode contacts: %w", err)
		}
		list = env.Data
	}
	if len(list) == 0 {
		return contact.Record{}, false, nil
	}
	return list[0], true, nil
}

func (c *Client) get(ctx context.Context, u string) ([]byte, bool, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, http.NoBody)
	if err != nil {
		return nil, false, err
	}
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}
	req.Header.Set("Accept", "application/json")
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, false, err
	}
	defer resp.Body.Close()
	if resp.StatusCode == http.StatusNotFound {
		return nil, false, nil
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		b, _ := io.ReadAll(resp.Body)
		return nil, false, fmt.Errorf("directory request failed: status=%d body=%s", resp.StatusCode, string(b))
	}
	b, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, false, err
	}
	return b, true, nil
}
