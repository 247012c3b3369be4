package crm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"golang.org/x/time/rate"
)

const (
	DefaultBaseURL    = "https://services.leadconnectorhq.com"
	DefaultAPIVersion = "2021-07-28"
	DefaultTimeout    = 10 * time.Second
)

// Config holds the GoHighLevel credentials for one location (sub-account).
type Config struct {
	APIKey     string
	LocationID string
	BaseURL    string
	APIVersion string
	Timeout    time.Duration
	// RequestsPerSecond caps outbound calls; GoHighLevel allows bursts of 100 per 10s.
	RequestsPerSecond float64
}

// Client is a small GoHighLevel REST client covering contacts and tags.
type Client struct {
	apiKey     string
	locationID string
	baseURL    string
	version    string
	httpClient *http.Client
	limiter    *rate.Limiter
}

func NewClient(cfg Config) *Client {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.APIVersion == "" {
		cfg.APIVersion = DefaultAPIVersion
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = DefaultTimeout
	}
	if cfg.RequestsPerSecond <= 0 {
		cfg.RequestsPerSecond = 8
	}

	return &Client{
		apiKey:     cfg.APIKey,
		locationID: cfg.LocationID,
		baseURL:    cfg.BaseURL,
		version:    cfg.APIVersion,
		httpClient: &http.Client{Timeout: cfg.Timeout},
		limiter:    rate.NewLimiter(rate.Limit(cfg.RequestsPerSecond), 10),
	}
}

func (c *Client) LocationID() string {
	return c.locationID
}

// GetContact fetches a contact by id. Returns ErrContactNotFound on 404.
func (c *Client) GetContact(ctx context.Context, contactID string) (*Contact, error) {
	var out struct {
		Contact Contact `json:"contact"`
	}
	if err := c.do(ctx, http.MethodGet, "/contacts/"+url.PathEscape(contactID), nil, &out); err != nil {
		return nil, err
	}
	return &out.Contact, nil
}

// UpsertContact creates or updates the contact matched by email within the location.
func (c *Client) UpsertContact(ctx context.Context, in UpsertContactInput) (*Contact, bool, error) {
	body := upsertContactRequest{
		LocationID: c.locationID,
		Email:      in.Email,
		Name:       in.Name,
		Website:    in.Website,
		Tags:       in.Tags,
		Source:     in.Source,
	}
	for id, value := range in.CustomFields {
		body.CustomFields = append(body.CustomFields, customFieldWrite{ID: id, FieldValue: value})
	}

	var out struct {
		New     bool    `json:"new"`
		Contact Contact `json:"contact"`
	}
	if err := c.do(ctx, http.MethodPost, "/contacts/upsert", body, &out); err != nil {
		return nil, false, err
	}
	return &out.Contact, out.New, nil
}

// AddTags appends tags to a contact.
func (c *Client) AddTags(ctx context.Context, contactID string, tags []string) error {
	if len(tags) == 0 {
		return nil
	}
	body := map[string][]string{"tags": tags}
	return c.do(ctx, http.MethodPost, "/contacts/"+url.PathEscape(contactID)+"/tags", body, nil)
}

func (c *Client) do(ctx context.Context, method, endpoint string, body interface{}, result interface{}) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("crm rate limiter: %w", err)
	}

	var reqBody io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to marshal request body: %w", err)
		}
		reqBody = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+endpoint, reqBody)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Version", c.version)
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("crm request failed: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return fmt.Errorf("failed to read response body: %w", err)
	}

	if resp.StatusCode == http.StatusNotFound {
		return ErrContactNotFound
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		apiErr := &APIError{StatusCode: resp.StatusCode}
		if jsonErr := json.Unmarshal(respBody, apiErr); jsonErr != nil || apiErr.Message == "" {
			apiErr.Message = string(respBody)
		}
		return apiErr
	}

	if result != nil && len(respBody) > 0 {
		if err := json.Unmarshal(respBody, result); err != nil {
			return fmt.Errorf("failed to decode response: %w", err)
		}
	}
	return nil
}
