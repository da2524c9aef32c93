package service

import (
	"context"
	"strings"
	"sync"
	"time"

	"camp-slides/internal/domain"
)

// fakeSource is an in-memory domain.PostSource.
type fakeSource struct {
	mu        sync.Mutex
	posts     []*domain.Post
	bodies    map[int]string
	listErr   error
	getErr    error
	getErrs   map[int][]error // consumed one per call, ahead of getErr
	listCalls int
	getCalls  map[int]int
	gate      chan struct{} // when set, calls block until it is closed
}

func newFakeSource(posts ...*domain.Post) *fakeSource {
	return &fakeSource{
		posts:    posts,
		bodies:   map[int]string{},
		getCalls: map[int]int{},
		getErrs:  map[int][]error{},
	}
}

func (f *fakeSource) wait(ctx context.Context) error {
	f.mu.Lock()
	gate := f.gate
	f.mu.Unlock()
	if gate == nil {
		return nil
	}
	select {
	case <-gate:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (f *fakeSource) ListPosts(ctx context.Context) ([]*domain.Post, error) {
	f.mu.Lock()
	f.listCalls++
	f.mu.Unlock()

	if err := f.wait(ctx); err != nil {
		return nil, err
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	if f.listErr != nil {
		return nil, f.listErr
	}
	return f.posts, nil
}

func (f *fakeSource) GetPost(ctx context.Context, id int) (*domain.Post, error) {
	f.mu.Lock()
	f.getCalls[id]++
	var scripted error
	if errs := f.getErrs[id]; len(errs) > 0 {
		scripted, f.getErrs[id] = errs[0], errs[1:]
	}
	f.mu.Unlock()

	if err := f.wait(ctx); err != nil {
		return nil, err
	}
	if scripted != nil {
		return nil, scripted
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	if f.getErr != nil {
		return nil, f.getErr
	}
	body, ok := f.bodies[id]
	if !ok {
		return nil, domain.ErrPostNotFound
	}
	return &domain.Post{ID: id, Content: body}, nil
}

func (f *fakeSource) GetPostRaw(context.Context, int) ([]byte, error) {
	return nil, nil
}

func (f *fakeSource) HealthCheck(context.Context) error {
	return nil
}

func (f *fakeSource) calls(id int) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.getCalls[id]
}

func (f *fakeSource) lists() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.listCalls
}

func (f *fakeSource) set(fn func(f *fakeSource)) {
	f.mu.Lock()
	defer f.mu.Unlock()
	fn(f)
}

// memCache is an in-memory domain.Cache.
type memCache struct {
	mu   sync.Mutex
	data map[string][]byte
}

func newMemCache() *memCache {
	return &memCache{data: map[string][]byte{}}
}

func (c *memCache) Get(_ context.Context, key string) ([]byte, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.data[key], nil
}

func (c *memCache) Set(_ context.Context, key string, value []byte, _ time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.data[key] = value
	return nil
}

func (c *memCache) Delete(_ context.Context, key string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.data, key)
	return nil
}

func (c *memCache) DeletePrefix(_ context.Context, prefix string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	for k := range c.data {
		if strings.HasPrefix(k, prefix) {
			delete(c.data, k)
		}
	}
	return nil
}

func (c *memCache) has(key string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	_, ok := c.data[key]
	return ok
}

// sanitizerFunc adapts a function to the Sanitizer interface.
type sanitizerFunc func(string) string

func (f sanitizerFunc) Sanitize(html string) string { return f(html) }

var trimSanitizer = sanitizerFunc(strings.TrimSpace)

func spanishPosts() []*domain.Post {
	return []*domain.Post{
		{ID: 16972, Title: "Mapa"},
		{ID: 12978, Title: "Calendario", FeaturedMediaURL: "https://camp.mx/cal.jpg"},
		{ID: 11777, Title: "Orientación", Excerpt: `<source src="https://camp.mx/o.mp4">`},
		{ID: 500, Title: "Calendar", FeaturedMediaURL: "https://camp.mx/cal-en.jpg"},
		{ID: 501, Title: "Noticias", FeaturedMediaURL: "https://camp.mx/n.jpg"},
	}
}
