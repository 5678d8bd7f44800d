// Package usersclient resolves user profiles from the users service during
// review enrichment. Lookups return sentinel errors instead of swallowing
// transport failures, so each call site decides whether to degrade or fail.
package usersclient

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"goshop/internal/domain"
	"goshop/internal/pkg/logger"
)

var (
	// ErrNotFound means the users service answered and does not know the id.
	ErrNotFound = errors.New("user not found")
	// ErrForbidden means the users service rejected the caller's token (403).
	ErrForbidden = errors.New("user lookup forbidden")
	// ErrUnavailable covers transport failures and unexpected statuses.
	ErrUnavailable = errors.New("users service unavailable")
)

// Client calls the users service over HTTP. No retries and no circuit
// breaking; a single bounded request per lookup.
type Client struct {
	baseURL string
	http    *http.Client
	logger  logger.Logger
}

func New(baseURL string, timeout time.Duration, log logger.Logger) *Client {
	return &Client{
		baseURL: baseURL,
		http:    &http.Client{Timeout: timeout},
		logger:  log,
	}
}

// UserByID fetches a user profile, forwarding the caller's Authorization
// header value (may be empty for unauthenticated list enrichment).
func (c *Client) UserByID(ctx context.Context, id string, authToken string) (*domain.UserProfile, error) {
	endpoint := fmt.Sprintf("%s/users/%s", c.baseURL, url.PathEscape(id))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	if authToken != "" {
		req.Header.Set("Authorization", authToken)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		c.logger.Warn("user lookup failed", map[string]interface{}{"user_id": id, "error": err.Error()})
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
		var profile domain.UserProfile
		if err := json.NewDecoder(resp.Body).Decode(&profile); err != nil {
			return nil, fmt.Errorf("%w: decoding response: %v", ErrUnavailable, err)
		}
		return &profile, nil
	case http.StatusNotFound:
		return nil, ErrNotFound
	case http.StatusForbidden:
		return nil, ErrForbidden
	default:
		c.logger.Warn("unexpected status from users service", map[string]interface{}{
			"user_id": id,
			"status":  resp.StatusCode,
		})
		return nil, fmt.Errorf("%w: status %d", ErrUnavailable, resp.StatusCode)
	}
}
