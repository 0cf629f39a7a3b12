// internal/client/newsletter/client.go
package newsletter

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"plus-service/internal/client/upstream"

	"github.com/sony/gobreaker"
)

const serviceName = "basket"

type Config struct {
	BaseURL      string
	APIKey       string
	NewsletterID string
	Timeout      time.Duration
}

// Client talks to the basket newsletter service.
type Client struct {
	baseURL      string
	apiKey       string
	newsletterID string
	http         *http.Client
	cb           *gobreaker.CircuitBreaker
}

func NewClient(cfg Config) *Client {
	return &Client{
		baseURL:      strings.TrimRight(cfg.BaseURL, "/"),
		apiKey:       cfg.APIKey,
		newsletterID: cfg.NewsletterID,
		http:         upstream.NewHTTPClient(cfg.Timeout),
		cb:           upstream.NewBreaker(serviceName, 30*time.Second),
	}
}

type lookupResponse struct {
	Status      string   `json:"status"`
	Token       string   `json:"token"`
	Newsletters []string `json:"newsletters"`
}

// lookup returns nil, nil when basket does not know the email.
func (c *Client) lookup(ctx context.Context, email string) (*lookupResponse, error) {
	endpoint := fmt.Sprintf("%s/news/lookup-user/?%s", c.baseURL, url.Values{"email": {email}}.Encode())

	v, err := upstream.Execute(c.cb, func() (interface{}, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
		if err != nil {
			return nil, fmt.Errorf("failed to build request: %w", err)
		}
		req.Header.Set("X-Api-Key", c.apiKey)
		req.Header.Set("Accept", "application/json")

		resp, err := c.http.Do(req)
		if err != nil {
			return nil, fmt.Errorf("newsletter lookup failed: %w", err)
		}
		defer resp.Body.Close()

		switch {
		case resp.StatusCode == http.StatusNotFound:
			return (*lookupResponse)(nil), nil
		case resp.StatusCode < 200 || resp.StatusCode > 299:
			return nil, &upstream.StatusError{Service: serviceName, Code: resp.StatusCode}
		}

		var body lookupResponse
		if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
			return nil, fmt.Errorf("failed to decode newsletter lookup: %w", err)
		}
		return &body, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*lookupResponse), nil
}

// IsSubscribed reports whether email receives the configured newsletter.
// An email basket has never seen is a confirmed "no".
func (c *Client) IsSubscribed(ctx context.Context, email string) (bool, error) {
	res, err := c.lookup(ctx, email)
	if err != nil {
		return false, err
	}
	if res == nil {
		return false, nil
	}
	for _, n := range res.Newsletters {
		if n == c.newsletterID {
			return true, nil
		}
	}
	return false, nil
}

// Subscribe signs email up for the configured newsletter.
func (c *Client) Subscribe(ctx context.Context, email, sourceURL string) error {
	form := url.Values{
		"email":       {email},
		"newsletters": {c.newsletterID},
		"format":      {"html"},
	}
	if sourceURL != "" {
		form.Set("source_url", sourceURL)
	}
	return c.post(ctx, c.baseURL+"/news/subscribe/", form)
}

// Unsubscribe removes email from the configured newsletter. Unknown emails
// are already unsubscribed.
func (c *Client) Unsubscribe(ctx context.Context, email string) error {
	res, err := c.lookup(ctx, email)
	if err != nil {
		return err
	}
	if res == nil || res.Token == "" {
		return nil
	}

	form := url.Values{"newsletters": {c.newsletterID}}
	return c.post(ctx, fmt.Sprintf("%s/news/unsubscribe/%s/", c.baseURL, url.PathEscape(res.Token)), form)
}

func (c *Client) post(ctx context.Context, endpoint string, form url.Values) error {
	_, err := upstream.Execute(c.cb, func() (interface{}, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(form.Encode()))
		if err != nil {
			return nil, fmt.Errorf("failed to build request: %w", err)
		}
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
		req.Header.Set("X-Api-Key", c.apiKey)

		resp, err := c.http.Do(req)
		if err != nil {
			return nil, fmt.Errorf("newsletter request failed: %w", err)
		}
		defer resp.Body.Close()

		if resp.StatusCode < 200 || resp.StatusCode > 299 {
			return nil, &upstream.StatusError{Service: serviceName, Code: resp.StatusCode}
		}
		return nil, nil
	})
	return err
}
