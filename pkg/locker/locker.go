// Package locker provides distributed locks so that periodic work runs on
// one instance at a time.
package locker

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// DistributedLocker provides distributed lock capabilities across multiple instances.
// Implementations must be safe for concurrent use.
type DistributedLocker interface {
	// Acquire attempts to acquire the lock without waiting.
	// Returns false, nil when another instance holds it.
	// The lock expires after ttl if not released.
	Acquire(ctx context.Context, key string, ttl time.Duration) (bool, error)

	// Release releases the lock identified by key.
	// Releasing a lock this instance does not own is a no-op.
	Release(ctx context.Context, key string) error
}

// ErrNotAcquired is returned by Run when another instance holds the lock.
var ErrNotAcquired = errors.New("lock held by another instance")

// Run executes fn while holding key. The lock is released when fn returns,
// using a fresh context so a cancelled ctx does not leave the lock behind.
func Run(ctx context.Context, l DistributedLocker, key string, ttl time.Duration, fn func(ctx context.Context) error) (err error) {
	acquired, err := l.Acquire(ctx, key, ttl)
	if err != nil {
		return err
	}
	if !acquired {
		return ErrNotAcquired
	}

	defer func() {
		releaseCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if rerr := l.Release(releaseCtx, key); rerr != nil && err == nil {
			err = fmt.Errorf("release after run: %w", rerr)
		}
	}()

	return fn(ctx)
}
