// Package crm reads lead preferences from and writes notes to the external
// CRM over its REST API.
package crm

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
)

const defaultBaseURL = "https://crm.internal.propdesk.in/api/v1"

// Lead is the subset of a CRM lead record the dashboard consumes.
// Preference fields arrive as the agent typed them; normalization happens
// in the matcher, not here.
type Lead struct {
	ID             string   `json:"id"`
	Name           string   `json:"name"`
	Phone          string   `json:"phone,omitempty"`
	Budget         string   `json:"budget,omitempty"`
	Configurations []string `json:"configurations,omitempty"`
	Locations      []string `json:"locations,omitempty"`
	PropertyType   string   `json:"property_type,omitempty"`
	Notes          string   `json:"notes,omitempty"`
}

// Client talks to the CRM API.
type Client struct {
	httpClient *http.Client
	token      string

	// Overridable URL for testing.
	baseURL string
}

// NewClient creates a CRM client with the given access token.
func NewClient(token string) (*Client, error) {
	if token == "" {
		return nil, fmt.Errorf("CRM token is required")
	}
	return &Client{
		httpClient: &http.Client{},
		token:      token,
		baseURL:    defaultBaseURL,
	}, nil
}

// GetLead fetches one lead by id.
func (c *Client) GetLead(id string) (*Lead, error) {
	if id == "" {
		return nil, fmt.Errorf("lead id is required")
	}

	req, err := http.NewRequest("GET", c.baseURL+"/leads/"+id, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Authorization", "Zoho-oauthtoken "+c.token)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("sending request: %w", err)
	}
	defer func() {
		if closeErr := resp.Body.Close(); closeErr != nil {
			err = fmt.Errorf("%w (also failed to close body: %v)", err, closeErr)
		}
	}()

	if resp.StatusCode == http.StatusNotFound {
		return nil, fmt.Errorf("lead %s not found", id)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status %d", resp.StatusCode)
	}

	var lead Lead
	if err := json.NewDecoder(resp.Body).Decode(&lead); err != nil {
		return nil, fmt.Errorf("decoding response: %w", err)
	}

	return &lead, nil
}

// UpdateNote appends a note to the lead record.
func (c *Client) UpdateNote(leadID, note string) error {
	if leadID == "" {
		return fmt.Errorf("lead id is required")
	}

	body, err := json.Marshal(map[string]string{"note": note})
	if err != nil {
		return fmt.Errorf("marshaling request: %w", err)
	}

	req, err := http.NewRequest("POST", c.baseURL+"/leads/"+leadID+"/notes", bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Authorization", "Zoho-oauthtoken "+c.token)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("sending request: %w", err)
	}
	defer func() {
		if closeErr := resp.Body.Close(); closeErr != nil {
			err = fmt.Errorf("%w (also failed to close body: %v)", err, closeErr)
		}
	}()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		return fmt.Errorf("unexpected status %d", resp.StatusCode)
	}

	return nil
}
