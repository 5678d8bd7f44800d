// Package catalogclient resolves product summaries from the catalog service.
package catalogclient

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
	// ErrNotFound means the catalog answered and has no such product.
	ErrNotFound = errors.New("product not found")
	// ErrUnavailable covers transport failures and unexpected statuses.
	ErrUnavailable = errors.New("catalog service unavailable")
)

// Client calls the catalog service over HTTP. One bounded request per lookup.
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

// ProductByID fetches a product summary by id.
func (c *Client) ProductByID(ctx context.Context, id string) (*domain.RemoteProduct, error) {
	endpoint := fmt.Sprintf("%s/products/%s", c.baseURL, url.PathEscape(id))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		c.logger.Warn("product lookup failed", map[string]interface{}{"product_id": id, "error": err.Error()})
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
		var product domain.RemoteProduct
		if err := json.NewDecoder(resp.Body).Decode(&product); err != nil {
			return nil, fmt.Errorf("%w: decoding response: %v", ErrUnavailable, err)
		}
		return &product, nil
	case http.StatusNotFound:
		return nil, ErrNotFound
	default:
		c.logger.Warn("unexpected status from catalog service", map[string]interface{}{
			"product_id": id,
			"status":     resp.StatusCode,
		})
		return nil, fmt.Errorf("%w: status %d", ErrUnavailable, resp.StatusCode)
	}
}
