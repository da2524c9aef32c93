// Package wordpress implements the CMS client for the WordPress REST API.
package wordpress

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-resty/resty/v2"
	"github.com/sony/gobreaker/v2"
	"go.uber.org/zap"

	"camp-slides/internal/domain"
)

const (
	// PostsEndpoint is the collection path of the posts API.
	PostsEndpoint = "/wp-json/wp/v2/posts"

	// HealthEndpoint is the REST API index, served by every WordPress install.
	HealthEndpoint = "/wp-json/"

	defaultPerPage = 30
)

// Client implements domain.PostSource for WordPress.
type Client struct {
	client  *resty.Client
	cb      *gobreaker.CircuitBreaker[*resty.Response]
	perPage int
	logger  *zap.Logger
}

// New creates a new WordPress client.
func New(cfg ClientConfig, logger *zap.Logger) *Client {
	perPage := cfg.PerPage
	if perPage <= 0 {
		perPage = defaultPerPage
	}

	return &Client{
		client:  NewRestyClient(cfg),
		cb:      NewCircuitBreaker[*resty.Response]("wordpress", cfg.CB, isSuccessful, logger),
		perPage: perPage,
		logger:  logger,
	}
}

// isSuccessful keeps missing posts from tripping the breaker.
func isSuccessful(err error) bool {
	return err == nil || errors.Is(err, domain.ErrPostNotFound)
}

// ListPosts retrieves the most recent posts with their embedded media.
func (c *Client) ListPosts(ctx context.Context) ([]*domain.Post, error) {
	resp, err := c.cb.Execute(func() (*resty.Response, error) {
		var result []postResponse
		r, err := c.client.R().
			SetContext(ctx).
			SetQueryParam("_embed", "").
			SetQueryParam("per_page", strconv.Itoa(c.perPage)).
			SetResult(&result).
			Get(PostsEndpoint)
		if err != nil {
			return nil, err
		}
		if r.IsError() {
			return nil, fmt.Errorf("wordpress returned status %d", r.StatusCode())
		}

		return r, nil
	})

	if err != nil {
		c.logger.Warn("wordpress list failed",
			zap.Error(err),
			zap.String("state", c.cb.State().String()),
		)

		return nil, fmt.Errorf("listing posts: %w", err)
	}

	result := resp.Result().(*[]postResponse)
	posts := make([]*domain.Post, 0, len(*result))
	for i := range *result {
		posts = append(posts, (*result)[i].ToDomain())
	}

	c.logger.Debug("wordpress list completed",
		zap.Int("count", len(posts)),
	)

	return posts, nil
}

// GetPost retrieves a single post with its rendered body.
func (c *Client) GetPost(ctx context.Context, id int) (*domain.Post, error) {
	body, err := c.GetPostRaw(ctx, id)
	if err != nil {
		return nil, err
	}

	var result postResponse
	if err := json.Unmarshal(body, &result); err != nil {
		return nil, fmt.Errorf("decoding post %d: %w", id, err)
	}

	return result.ToDomain(), nil
}

// GetPostRaw retrieves the CMS JSON document of a post, bypassing HTTP caches.
// Non-JSON bodies are rejected.
func (c *Client) GetPostRaw(ctx context.Context, id int) ([]byte, error) {
	resp, err := c.cb.Execute(func() (*resty.Response, error) {
		r, err := c.client.R().
			SetContext(ctx).
			SetHeader("Cache-Control", "no-cache").
			SetPathParam("id", strconv.Itoa(id)).
			Get(PostsEndpoint + "/{id}")
		if err != nil {
			return nil, err
		}
		if r.StatusCode() == http.StatusNotFound {
			return nil, domain.ErrPostNotFound
		}
		if r.IsError() {
			return nil, fmt.Errorf("wordpress returned status %d", r.StatusCode())
		}
		if !json.Valid(r.Body()) {
			return nil, errors.New("wordpress returned a non-JSON body")
		}

		return r, nil
	})

	if err != nil {
		c.logger.Warn("wordpress post fetch failed",
			zap.Int("post_id", id),
			zap.Error(err),
			zap.String("state", c.cb.State().String()),
		)

		return nil, fmt.Errorf("fetching post %d: %w", id, err)
	}

	return resp.Body(), nil
}

// HealthCheck verifies the CMS is accessible.
func (c *Client) HealthCheck(ctx context.Context) error {
	resp, err := c.client.R().
		SetContext(ctx).
		Get(HealthEndpoint)
	if err != nil {
		return err
	}
	if resp.IsError() {
		return fmt.Errorf("health check returned status %d", resp.StatusCode())
	}

	return nil
}
