// Package airtable queries records from the Airtable REST API and exposes the
// query as the airtable_query tool.
//
// The API token is injected through [Config] when the client is built. A
// client without a token is still usable: every query then fails with
// [ErrMissingToken] before any request is sent.
package airtable

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/germanamz/calcmcp/pkg/tools/envelope"
)

// DefaultBaseURL is the Airtable REST API root.
const DefaultBaseURL = "https://api.airtable.com/v0"

// ErrMissingToken is returned when the client has no API token. Its message
// is surfaced to callers verbatim.
var ErrMissingToken = errors.New("AIRTABLE_API_TOKEN environment variable not set") //nolint:staticcheck // user-facing text

// APIError is returned for a non-2xx response.
type APIError struct {
	StatusCode int
	StatusText string
	Body       string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("%d %s\n%s", e.StatusCode, e.StatusText, e.Body)
}

// Config configures a Client.
type Config struct {
	Token      string       //nolint:gosec // configuration field, not a hardcoded secret
	BaseURL    string       // Defaults to DefaultBaseURL.
	HTTPClient *http.Client // Defaults to a client with no timeout.
}

// Client performs record queries. It holds no per-call state and is safe for
// concurrent use.
type Client struct {
	token   string
	baseURL string
	client  *http.Client
}

// New creates a Client from cfg.
func New(cfg Config) *Client {
	c := &Client{
		token:   cfg.Token,
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		client:  cfg.HTTPClient,
	}

	if c.baseURL == "" {
		c.baseURL = DefaultBaseURL
	}

	if c.client == nil {
		c.client = &http.Client{}
	}

	return c
}

// ListParams selects records from one table. Nil pointers and a nil Fields
// slice mean the parameter was not supplied.
type ListParams struct {
	BaseID          string
	TableName       string
	MaxRecords      *float64
	View            *string
	Fields          []string
	FilterByFormula *string
}

// query encodes the parameters in a fixed order: maxRecords, view, fields[],
// filterByFormula.
func (p ListParams) query() string {
	var q []string
	add := func(k, v string) {
		q = append(q, url.QueryEscape(k)+"="+url.QueryEscape(v))
	}

	if p.MaxRecords != nil && *p.MaxRecords != 0 {
		add("maxRecords", envelope.FormatNumber(*p.MaxRecords))
	}

	if p.View != nil && *p.View != "" {
		add("view", *p.View)
	}

	for _, f := range p.Fields {
		add("fields[]", f)
	}

	if p.FilterByFormula != nil && *p.FilterByFormula != "" {
		add("filterByFormula", *p.FilterByFormula)
	}

	return strings.Join(q, "&")
}

// endpoint builds the request URL for p.
func (c *Client) endpoint(p ListParams) string {
	u := c.baseURL + "/" + url.PathEscape(p.BaseID) + "/" + url.PathEscape(p.TableName)
	if q := p.query(); q != "" {
		u += "?" + q
	}

	return u
}

// ListRecords performs a single GET for the table and returns the response
// body once it is known to be valid JSON. A non-2xx response yields an
// *APIError. No retries are attempted.
func (c *Client) ListRecords(ctx context.Context, p ListParams) (json.RawMessage, error) {
	if c.token == "" {
		return nil, ErrMissingToken
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.endpoint(p), nil)
	if err != nil {
		return nil, fmt.Errorf("airtable: create request: %w", err)
	}

	req.Header.Set("Authorization", "Bearer "+c.token)

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("airtable: %w", err)
	}
	defer resp.Body.Close() //nolint:errcheck // best-effort close on read

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("airtable: read body: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &APIError{
			StatusCode: resp.StatusCode,
			StatusText: statusText(resp),
			Body:       string(body),
		}
	}

	var data json.RawMessage
	if err := json.Unmarshal(body, &data); err != nil {
		return nil, fmt.Errorf("airtable: decode response: %w", err)
	}

	return data, nil
}

// statusText returns the reason phrase sent by the server, falling back to
// the standard text for the code.
func statusText(resp *http.Response) string {
	reason := strings.TrimSpace(strings.TrimPrefix(resp.Status, strconv.Itoa(resp.StatusCode)))
	if reason == "" {
		return http.StatusText(resp.StatusCode)
	}

	return reason
}
