package domain

import (
	"context"
	"errors"
	"time"
)

// ErrPostNotFound is returned by a PostSource when the CMS has no such post.
var ErrPostNotFound = errors.New("post not found")

// PostSource defines the read side of the upstream CMS.
// Implementations: internal/infra/wordpress/client.go
type PostSource interface {
	// ListPosts returns the most recent posts with embedded media.
	ListPosts(ctx context.Context) ([]*Post, error)

	// GetPost returns a single post including its rendered body.
	GetPost(ctx context.Context, id int) (*Post, error)

	// GetPostRaw returns the CMS JSON document for a post, unmodified.
	GetPostRaw(ctx context.Context, id int) ([]byte, error)

	// HealthCheck verifies the CMS is reachable.
	HealthCheck(ctx context.Context) error
}

// Cache defines the interface for shared caching operations.
// Implementations: internal/infra/redis/cache.go (optional)
type Cache interface {
	// Get retrieves a value by key. Returns nil if not found.
	Get(ctx context.Context, key string) ([]byte, error)

	// Set stores a value with the given TTL.
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error

	// Delete removes a value by key.
	Delete(ctx context.Context, key string) error

	// DeletePrefix removes all values whose key starts with prefix.
	DeletePrefix(ctx context.Context, prefix string) error
}
