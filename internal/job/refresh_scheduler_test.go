package job

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"camp-slides/internal/app/service"
	"camp-slides/internal/domain"
)

type fakeLocker struct {
	mu       sync.Mutex
	held     map[string]bool
	acquires int
	releases int
	err      error
}

func newFakeLocker() *fakeLocker {
	return &fakeLocker{held: map[string]bool{}}
}

func (l *fakeLocker) Acquire(_ context.Context, key string, _ time.Duration) (bool, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.acquires++
	if l.err != nil {
		return false, l.err
	}
	if l.held[key] {
		return false, nil
	}
	l.held[key] = true
	return true, nil
}

func (l *fakeLocker) Release(_ context.Context, key string) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.releases++
	delete(l.held, key)
	return nil
}

func (l *fakeLocker) isHeld(key string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.held[key]
}

type fakeDecks struct {
	mu    sync.Mutex
	calls int
	err   error
}

func (d *fakeDecks) RefreshAll(_ context.Context, langs []domain.Language) []service.RefreshResult {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.calls++

	results := make([]service.RefreshResult, len(langs))
	for i, l := range langs {
		results[i] = service.RefreshResult{Language: l, Count: 3, Error: d.err}
	}
	return results
}

func (d *fakeDecks) count() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.calls
}

func newTestScheduler(decks *fakeDecks, l *fakeLocker) *RefreshScheduler {
	return NewRefreshScheduler(decks, RefreshConfig{
		Interval:  time.Hour,
		Timeout:   time.Second,
		Languages: []domain.Language{domain.LanguageEnglish, domain.LanguageSpanish},
	}, zap.NewNop(), l)
}

func TestRefreshScheduler_SuccessKeepsLock(t *testing.T) {
	decks := &fakeDecks{}
	l := newFakeLocker()
	s := newTestScheduler(decks, l)
	s.ctx = context.Background()

	s.executeRefresh()

	assert.Equal(t, 1, decks.count())
	assert.True(t, l.isHeld(scheduledLockKey), "lock is kept for the cooldown")

	s.executeRefresh()
	assert.Equal(t, 1, decks.count(), "held lock skips the refresh")
}

func TestRefreshScheduler_FailureReleasesLock(t *testing.T) {
	decks := &fakeDecks{err: errors.New("cms down")}
	l := newFakeLocker()
	s := newTestScheduler(decks, l)
	s.ctx = context.Background()

	s.executeRefresh()

	assert.False(t, l.isHeld(scheduledLockKey))

	s.executeRefresh()
	assert.Equal(t, 2, decks.count(), "released lock allows a retry")
}

func TestRefreshScheduler_LockError(t *testing.T) {
	decks := &fakeDecks{}
	l := newFakeLocker()
	l.err = errors.New("redis down")
	s := newTestScheduler(decks, l)
	s.ctx = context.Background()

	s.executeRefresh()

	assert.Equal(t, 0, decks.count())
}

func TestRefreshScheduler_StartOnStartup(t *testing.T) {
	decks := &fakeDecks{}
	s := newTestScheduler(decks, newFakeLocker())

	s.Start(true)
	require.Eventually(t, func() bool { return decks.count() == 1 }, time.Second, 10*time.Millisecond)
	s.Stop()

	assert.Equal(t, 1, decks.count())
}

func TestRefreshScheduler_StopWithoutStart(t *testing.T) {
	s := newTestScheduler(&fakeDecks{}, newFakeLocker())
	assert.NotPanics(t, s.Stop)
}

func TestRefreshScheduler_RefreshNow(t *testing.T) {
	decks := &fakeDecks{}
	l := newFakeLocker()
	s := newTestScheduler(decks, l)

	results, err := s.RefreshNow(context.Background())
	require.NoError(t, err)
	require.Len(t, results, 2)
	assert.Equal(t, domain.LanguageEnglish, results[0].Language)
	assert.False(t, l.isHeld(manualLockKey), "manual lock is released after the run")

	l.held[manualLockKey] = true
	_, err = s.RefreshNow(context.Background())
	assert.True(t, errors.Is(err, ErrRefreshInProgress))
}
