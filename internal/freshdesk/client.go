// Package freshdesk wraps the Freshdesk v2 REST API: contact search,
// contact create/update, and ticket creation.
package freshdesk

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// defaultTimeout bounds every upstream call so a slow Freshdesk cannot pin
// request handlers indefinitely.
const defaultTimeout = 15 * time.Second

// APIError is a non-success response from Freshdesk, carrying the upstream
// status and raw body for operator diagnosis.
type APIError struct {
	StatusCode int
	Body       string
}

// Error implements the error interface.
func (e *APIError) Error() string {
	return fmt.Sprintf("freshdesk API error (status %d): %s", e.StatusCode, e.Body)
}

// ClientOption configures the client.
type ClientOption func(*Client)

// WithBaseURL sets a custom base URL, replacing the <domain>.freshdesk.com
// default. Used in tests to point at a local server.
func WithBaseURL(baseURL string) ClientOption {
	return func(c *Client) {
		c.baseURL = strings.TrimSuffix(baseURL, "/")
	}
}

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(httpClient *http.Client) ClientOption {
	return func(c *Client) {
		c.httpClient = httpClient
	}
}

// WithTimeout overrides the default upstream call timeout.
func WithTimeout(d time.Duration) ClientOption {
	return func(c *Client) {
		c.httpClient.Timeout = d
	}
}

// Client is an authenticated HTTP client for one Freshdesk account.
type Client struct {
	apiKey     string
	baseURL    string
	httpClient *http.Client
}

// NewClient creates a client for the given Freshdesk subdomain. The API key
// is sent as the Basic auth username with the literal placeholder password
// Freshdesk expects.
func NewClient(domain, apiKey string, opts ...ClientOption) *Client {
	c := &Client{
		apiKey:     apiKey,
		baseURL:    fmt.Sprintf("https://%s.freshdesk.com", domain),
		httpClient: &http.Client{Timeout: defaultTimeout},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// SearchContactsByEmail looks up contacts by email address. A non-success
// upstream status is treated as no match, not a fatal error.
func (c *Client) SearchContactsByEmail(ctx context.Context, email string) ([]Contact, error) {
	return c.searchContacts(ctx, "email", email)
}

// SearchContactsByPhone looks up contacts by mobile number, with the same
// no-match semantics as SearchContactsByEmail.
func (c *Client) SearchContactsByPhone(ctx context.Context, phone string) ([]Contact, error) {
	return c.searchContacts(ctx, "mobile", phone)
}

func (c *Client) searchContacts(ctx context.Context, field, value string) ([]Contact, error) {
	endpoint := fmt.Sprintf("%s/api/v2/contacts?%s=%s", c.baseURL, field, url.QueryEscape(value))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	c.setHeaders(req, false)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("contact search failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		// Search failures are non-fatal; the caller treats them as absence.
		return nil, nil
	}

	var contacts []Contact
	if err := json.NewDecoder(resp.Body).Decode(&contacts); err != nil {
		return nil, fmt.Errorf("failed to decode contact list: %w", err)
	}
	return contacts, nil
}

// CreateContact creates a contact. Non-success responses return an *APIError
// with the upstream status and body.
func (c *Client) CreateContact(ctx context.Context, fields ContactFields) (*Contact, error) {
	var contact Contact
	if err := c.writeJSON(ctx, http.MethodPost, "/api/v2/contacts", fields, &contact); err != nil {
		return nil, err
	}
	return &contact, nil
}

// UpdateContact updates a contact by ID. Non-success responses return an
// *APIError; callers on the ticket path fall back to the record they already
// hold rather than propagating.
func (c *Client) UpdateContact(ctx context.Context, id int64, fields ContactFields) (*Contact, error) {
	var contact Contact
	path := fmt.Sprintf("/api/v2/contacts/%d", id)
	if err := c.writeJSON(ctx, http.MethodPut, path, fields, &contact); err != nil {
		return nil, err
	}
	return &contact, nil
}

// CreateTicket submits a ticket. Non-success responses return an *APIError
// carrying the upstream status and raw body.
func (c *Client) CreateTicket(ctx context.Context, ticket Ticket) error {
	return c.writeJSON(ctx, http.MethodPost, "/api/v2/tickets", ticket, nil)
}

// writeJSON issues a JSON write request and decodes the response into out
// when out is non-nil.
func (c *Client) writeJSON(ctx context.Context, method, path string, payload, out any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	c.setHeaders(req, true)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return &APIError{StatusCode: resp.StatusCode, Body: string(respBody)}
	}

	if out != nil {
		if err := json.Unmarshal(respBody, out); err != nil {
			return fmt.Errorf("failed to unmarshal response: %w", err)
		}
	}
	return nil
}

func (c *Client) setHeaders(req *http.Request, hasBody bool) {
	// Freshdesk Basic auth: API key as username, "X" as the throwaway password.
	req.SetBasicAuth(c.apiKey, "X")
	req.Header.Set("Accept", "application/json")
	if hasBody {
		req.Header.Set("Content-Type", "application/json")
	}
}
