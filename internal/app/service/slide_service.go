// Package service provides application use cases.
package service

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"camp-slides/internal/domain"
)

// SlideService builds the per-language slide decks from the CMS.
type SlideService struct {
	source domain.PostSource
	cache  domain.Cache // nil disables deck caching
	ttl    time.Duration
	group  singleflight.Group
	logger *zap.Logger
}

// NewSlideService creates a new SlideService. cache may be nil.
func NewSlideService(source domain.PostSource, cache domain.Cache, ttl time.Duration, logger *zap.Logger) *SlideService {
	return &SlideService{
		source: source,
		cache:  cache,
		ttl:    ttl,
		logger: logger,
	}
}

// RefreshResult holds the result of rebuilding one deck.
type RefreshResult struct {
	Language domain.Language
	Count    int
	Duration time.Duration
	Error    error
}

// Slides returns the deck for lang. Upstream failures yield an empty deck;
// they are logged and never returned.
func (s *SlideService) Slides(ctx context.Context, lang domain.Language) []domain.ProcessedPost {
	key := deckKey(lang)

	if deck, ok := s.cached(ctx, key); ok {
		return deck
	}

	v, err, shared := s.group.Do(key, func() (any, error) {
		return s.build(ctx, lang)
	})
	if err != nil {
		s.logger.Warn("slide deck unavailable, serving empty deck",
			zap.String("lang", string(lang)),
			zap.Error(err),
		)
		return []domain.ProcessedPost{}
	}

	if shared {
		s.logger.Debug("slide deck build shared", zap.String("lang", string(lang)))
	}

	return v.([]domain.ProcessedPost)
}

// Refresh rebuilds the deck for lang, bypassing the cached copy.
func (s *SlideService) Refresh(ctx context.Context, lang domain.Language) ([]domain.ProcessedPost, error) {
	v, err, _ := s.group.Do(deckKey(lang), func() (any, error) {
		return s.build(ctx, lang)
	})
	if err != nil {
		return nil, err
	}
	return v.([]domain.ProcessedPost), nil
}

// RefreshAll rebuilds the decks of all languages concurrently.
// Partial failures are allowed.
func (s *SlideService) RefreshAll(ctx context.Context, langs []domain.Language) []RefreshResult {
	results := make([]RefreshResult, len(langs))
	var wg sync.WaitGroup

	for i, lang := range langs {
		wg.Add(1)
		go func(idx int, l domain.Language) {
			defer wg.Done()

			start := time.Now()
			deck, err := s.Refresh(ctx, l)
			results[idx] = RefreshResult{
				Language: l,
				Count:    len(deck),
				Duration: time.Since(start),
				Error:    err,
			}
		}(i, lang)
	}

	wg.Wait()

	failed := 0
	for _, r := range results {
		if r.Error != nil {
			failed++
		}
	}

	s.logger.Info("slide decks refreshed",
		zap.Int("languages", len(langs)),
		zap.Int("failed", failed),
	)

	return results
}

// build fetches the posts, derives the deck and caches it.
func (s *SlideService) build(ctx context.Context, lang domain.Language) ([]domain.ProcessedPost, error) {
	posts, err := s.source.ListPosts(ctx)
	if err != nil {
		return nil, fmt.Errorf("building %s deck: %w", lang, err)
	}

	deck := domain.ProcessPosts(posts, lang)

	s.logger.Debug("slide deck built",
		zap.String("lang", string(lang)),
		zap.Int("posts", len(posts)),
		zap.Int("slides", len(deck)),
	)

	s.store(ctx, deckKey(lang), deck)

	return deck, nil
}

func (s *SlideService) cached(ctx context.Context, key string) ([]domain.ProcessedPost, bool) {
	if s.cache == nil {
		return nil, false
	}

	data, err := s.cache.Get(ctx, key)
	if err != nil || data == nil {
		return nil, false
	}

	var deck []domain.ProcessedPost
	if err := json.Unmarshal(data, &deck); err != nil {
		s.logger.Warn("discarding undecodable cached deck",
			zap.String("key", key),
			zap.Error(err),
		)
		return nil, false
	}

	return deck, true
}

func (s *SlideService) store(ctx context.Context, key string, deck []domain.ProcessedPost) {
	if s.cache == nil {
		return
	}

	data, err := json.Marshal(deck)
	if err != nil {
		return
	}
	// Cache errors are logged by the cache; the deck is still served.
	_ = s.cache.Set(ctx, key, data, s.ttl)
}

func deckKey(lang domain.Language) string {
	return "slides:" + string(lang)
}
