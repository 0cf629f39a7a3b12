// internal/client/subscription/client.go
package subscription

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"plus-service/internal/client/upstream"
	"plus-service/internal/domain/user"

	"github.com/sony/gobreaker"
)

const serviceName = "subscriptions"

// Client reads active subscriptions from the subscription platform.
type Client struct {
	baseURL string
	http    *http.Client
	cb      *gobreaker.CircuitBreaker
}

func NewClient(baseURL string, timeout time.Duration) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    upstream.NewHTTPClient(timeout),
		cb:      upstream.NewBreaker(serviceName, 30*time.Second),
	}
}

type listResponse struct {
	Subscriptions []user.SubscriptionEntry `json:"subscriptions"`
}

// Subscriptions lists the subject's active subscriptions. Any failure is
// marked xerrors.ErrUpstream.
func (c *Client) Subscriptions(ctx context.Context, subjectID string) ([]user.SubscriptionEntry, error) {
	endpoint := fmt.Sprintf("%s/v1/subscriptions/%s", c.baseURL, url.PathEscape(subjectID))

	v, err := upstream.Execute(c.cb, func() (interface{}, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
		if err != nil {
			return nil, fmt.Errorf("failed to build request: %w", err)
		}
		req.Header.Set("Accept", "application/json")

		resp, err := c.http.Do(req)
		if err != nil {
			return nil, fmt.Errorf("subscriptions request failed: %w", err)
		}
		defer resp.Body.Close()

		if resp.StatusCode < 200 || resp.StatusCode > 299 {
			return nil, &upstream.StatusError{Service: serviceName, Code: resp.StatusCode}
		}

		var body listResponse
		if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
			return nil, fmt.Errorf("failed to decode subscriptions: %w", err)
		}
		return body.Subscriptions, nil
	})
	if err != nil {
		return nil, err
	}
	return v.([]user.SubscriptionEntry), nil
}
