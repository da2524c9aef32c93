package service

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"camp-slides/internal/domain"
)

func TestSlideService_Slides(t *testing.T) {
	source := newFakeSource(spanishPosts()...)
	svc := NewSlideService(source, nil, time.Minute, zap.NewNop())

	es := svc.Slides(context.Background(), domain.LanguageSpanish)
	require.Len(t, es, 3)
	assert.Equal(t, []int{16972, 12978, 11777}, []int{es[0].ID, es[1].ID, es[2].ID})
	assert.Equal(t, domain.MapImageURL, es[0].FeatureImage)
	assert.Equal(t, "https://camp.mx/o.mp4", es[2].VideoURL)

	en := svc.Slides(context.Background(), domain.LanguageEnglish)
	require.Len(t, en, 1)
	assert.Equal(t, 500, en[0].ID)

	assert.Equal(t, 2, source.lists(), "without a cache every call goes upstream")
}

func TestSlideService_CacheHitAvoidsUpstream(t *testing.T) {
	source := newFakeSource(spanishPosts()...)
	cache := newMemCache()
	svc := NewSlideService(source, cache, time.Minute, zap.NewNop())
	ctx := context.Background()

	first := svc.Slides(ctx, domain.LanguageSpanish)
	second := svc.Slides(ctx, domain.LanguageSpanish)

	assert.Equal(t, first, second)
	assert.Equal(t, 1, source.lists())
	assert.True(t, cache.has("slides:es"))
}

func TestSlideService_FailureYieldsEmptyDeck(t *testing.T) {
	source := newFakeSource()
	source.listErr = errors.New("connection refused")
	cache := newMemCache()
	svc := NewSlideService(source, cache, time.Minute, zap.NewNop())
	ctx := context.Background()

	deck := svc.Slides(ctx, domain.LanguageEnglish)
	assert.NotNil(t, deck)
	assert.Empty(t, deck)
	assert.False(t, cache.has("slides:en"), "failed builds are not cached")

	source.set(func(f *fakeSource) {
		f.listErr = nil
		f.posts = []*domain.Post{{ID: 1, Title: "Map"}}
	})

	deck = svc.Slides(ctx, domain.LanguageEnglish)
	assert.Len(t, deck, 1)
	assert.Equal(t, 2, source.lists())
}

func TestSlideService_ConcurrentBuildsCollapse(t *testing.T) {
	source := newFakeSource(spanishPosts()...)
	source.gate = make(chan struct{})
	svc := NewSlideService(source, nil, time.Minute, zap.NewNop())

	const callers = 10
	var wg sync.WaitGroup
	decks := make([][]domain.ProcessedPost, callers)
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			decks[i] = svc.Slides(context.Background(), domain.LanguageSpanish)
		}(i)
	}

	time.Sleep(50 * time.Millisecond)
	close(source.gate)
	wg.Wait()

	assert.Equal(t, 1, source.lists())
	for _, d := range decks {
		assert.Len(t, d, 3)
	}
}

func TestSlideService_Refresh(t *testing.T) {
	source := newFakeSource(spanishPosts()...)
	cache := newMemCache()
	svc := NewSlideService(source, cache, time.Minute, zap.NewNop())
	ctx := context.Background()

	svc.Slides(ctx, domain.LanguageSpanish)

	source.set(func(f *fakeSource) { f.posts = f.posts[:1] })

	deck, err := svc.Refresh(ctx, domain.LanguageSpanish)
	require.NoError(t, err)
	assert.Len(t, deck, 1)
	assert.Len(t, svc.Slides(ctx, domain.LanguageSpanish), 1, "refresh replaces the cached deck")

	source.set(func(f *fakeSource) { f.listErr = errors.New("timeout") })
	_, err = svc.Refresh(ctx, domain.LanguageSpanish)
	assert.Error(t, err)
	assert.Len(t, svc.Slides(ctx, domain.LanguageSpanish), 1, "failed refresh keeps the previous deck")
}

func TestSlideService_RefreshAll(t *testing.T) {
	source := newFakeSource(spanishPosts()...)
	svc := NewSlideService(source, newMemCache(), time.Minute, zap.NewNop())

	results := svc.RefreshAll(context.Background(), []domain.Language{domain.LanguageEnglish, domain.LanguageSpanish})

	require.Len(t, results, 2)
	assert.Equal(t, domain.LanguageEnglish, results[0].Language)
	assert.Equal(t, 1, results[0].Count)
	assert.Equal(t, domain.LanguageSpanish, results[1].Language)
	assert.Equal(t, 3, results[1].Count)
	for _, r := range results {
		assert.NoError(t, r.Error)
	}
}
