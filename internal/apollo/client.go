package apollo

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"github.com/octobees/outreach-drafter/internal/dto"
)

// ErrUnauthorized is returned when the people-search service rejects the API key.
var ErrUnauthorized = errors.New("people-search service rejected credentials")

const maxErrorBody = 500

// APIError reports a non-success response from the people-search service.
type APIError struct {
	Status int
	Body   string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("API request failed with status %d", e.Status)
}

// MatchResult is either a raw profile document or a failure reason.
type MatchResult struct {
	Person  map[string]any
	Failure string
}

// OK reports whether a profile document was returned.
func (r MatchResult) OK() bool {
	return r.Failure == "" && r.Person != nil
}

// Searcher lists contact identifiers matching a filter.
type Searcher interface {
	SearchPeople(ctx context.Context, filter dto.PeopleSearchFilter) ([]string, error)
}

// Matcher fetches a single profile document.
type Matcher interface {
	MatchPerson(ctx context.Context, id string) MatchResult
}

// Client talks to the people-search REST API.
type Client struct {
	client  *http.Client
	baseURL string
	apiKey  string
	limiter *rate.Limiter
}

// NewClient builds a client. A nil limiter leaves calls unthrottled.
func NewClient(client *http.Client, baseURL, apiKey string, limiter *rate.Limiter) *Client {
	if client == nil {
		client = &http.Client{Timeout: 30 * time.Second}
	}
	return &Client{
		client:  client,
		baseURL: strings.TrimRight(baseURL, "/"),
		apiKey:  apiKey,
		limiter: limiter,
	}
}

// NewLimiter spreads requests evenly over interval with a burst of requests.
func NewLimiter(requests int, interval time.Duration) *rate.Limiter {
	if requests <= 0 || interval <= 0 {
		return nil
	}
	return rate.NewLimiter(rate.Every(interval/time.Duration(requests)), requests)
}

// SearchPeople returns the ids of matching people in the order the service lists them.
func (c *Client) SearchPeople(ctx context.Context, filter dto.PeopleSearchFilter) ([]string, error) {
	resp, err := c.post(ctx, "/mixed_people/search", buildSearchPayload(filter))
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if err := checkStatus(resp); err != nil {
		return nil, err
	}

	var payload struct {
		People []struct {
			ID string `json:"id"`
		} `json:"people"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil && err != io.EOF {
		return nil, fmt.Errorf("could not decode search response: %w", err)
	}

	ids := make([]string, 0, len(payload.People))
	for _, p := range payload.People {
		if p.ID != "" {
			ids = append(ids, p.ID)
		}
	}
	return ids, nil
}

// MatchPerson fetches the profile for id. Every failure is folded into the result.
func (c *Client) MatchPerson(ctx context.Context, id string) MatchResult {
	resp, err := c.post(ctx, "/people/match?id="+url.QueryEscape(id), nil)
	if err != nil {
		return MatchResult{Failure: err.Error()}
	}
	defer resp.Body.Close()

	if err := checkStatus(resp); err != nil {
		return MatchResult{Failure: err.Error()}
	}

	var doc map[string]any
	if err := json.NewDecoder(resp.Body).Decode(&doc); err != nil {
		return MatchResult{Failure: fmt.Sprintf("could not decode match response: %v", err)}
	}
	if doc == nil {
		return MatchResult{Failure: "empty match response"}
	}
	return MatchResult{Person: doc}
}

func (c *Client) post(ctx context.Context, path string, payload any) (*http.Response, error) {
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, fmt.Errorf("rate limiter: %w", err)
		}
	}

	var body io.Reader = http.NoBody
	if payload != nil {
		raw, err := json.Marshal(payload)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal payload: %w", err)
		}
		body = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, body)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Cache-Control", "no-cache")
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Api-Key", c.apiKey)

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("people-search request failed: %w", err)
	}
	return resp, nil
}

func checkStatus(resp *http.Response) error {
	switch {
	case resp.StatusCode == http.StatusOK:
		return nil
	case resp.StatusCode == http.StatusUnauthorized:
		return ErrUnauthorized
	default:
		data, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return &APIError{Status: resp.StatusCode, Body: Redact(string(data))}
	}
}

// buildSearchPayload drops every empty input so the service applies no filter for it.
func buildSearchPayload(filter dto.PeopleSearchFilter) map[string]any {
	payload := map[string]any{}
	lists := map[string][]string{
		"person_titles":               filter.PersonTitles,
		"person_locations":            filter.PersonLocations,
		"person_seniorities":          filter.PersonSeniorities,
		"organization_locations":      filter.OrganizationLocations,
		"q_organization_domains_list": filter.OrganizationDomains,
		"contact_email_status":        filter.ContactEmailStatus,
		"organization_ids":            filter.OrganizationIDs,
	}
	for key, values := range lists {
		if len(values) > 0 {
			payload[key] = values
		}
	}
	if r := strings.TrimSpace(filter.OrganizationNumEmployeesRange); r != "" {
		payload["organization_num_employees_ranges"] = []string{r}
	}
	if k := strings.TrimSpace(filter.Keywords); k != "" {
		payload["q_keywords"] = k
	}
	if filter.Page > 0 {
		payload["page"] = filter.Page
	}
	if filter.PerPage > 0 {
		payload["per_page"] = filter.PerPage
	}
	return payload
}

var (
	_ Searcher = (*Client)(nil)
	_ Matcher  = (*Client)(nil)
)
