package service

import (
	"context"
	"strconv"
	"sync"
	"time"

	"go.uber.org/zap"

	"camp-slides/internal/domain"
)

// Sanitizer cleans post bodies before they are cached.
type Sanitizer interface {
	Sanitize(html string) string
}

// ContentConfig holds settings for post body fetching.
type ContentConfig struct {
	FetchTimeout time.Duration
	CacheTTL     time.Duration
}

// ContentService is the process-wide cache of post bodies.
// Fetches run in the background; callers poll Get for the outcome.
type ContentService struct {
	source    domain.PostSource
	cache     domain.Cache // nil disables the shared cache
	sanitizer Sanitizer
	cfg       ContentConfig
	logger    *zap.Logger

	mu       sync.Mutex
	states   map[int]domain.ContentState
	gens     map[int]uint64 // bumped by every Fetch that starts loading
	inflight map[int]bool   // a fetch loop is running for the post
	nextGen  uint64
	wg       sync.WaitGroup
}

// NewContentService creates a new ContentService. cache may be nil.
func NewContentService(source domain.PostSource, cache domain.Cache, sanitizer Sanitizer, cfg ContentConfig, logger *zap.Logger) *ContentService {
	return &ContentService{
		source:    source,
		cache:     cache,
		sanitizer: sanitizer,
		cfg:       cfg,
		logger:    logger,
		states:    make(map[int]domain.ContentState),
		gens:      make(map[int]uint64),
		inflight:  make(map[int]bool),
	}
}

// Fetch starts loading postID unless it is already loading or loaded.
// It returns immediately; the result lands in the state map.
// The return value reports whether a fetch was started.
//
// At most one upstream request per post is in flight. A Fetch issued while
// a request from before a Clear is still running is served by that loop
// once the stale result has been discarded.
func (s *ContentService) Fetch(postID int) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.states[postID].Settled() {
		return false
	}
	s.nextGen++
	s.gens[postID] = s.nextGen
	s.states[postID] = domain.LoadingContent()

	if s.inflight[postID] {
		return true
	}
	s.inflight[postID] = true
	s.wg.Add(1)

	go s.run(postID)

	return true
}

// run loads postID until a result matches the latest Fetch or the entry
// is cleared.
func (s *ContentService) run(postID int) {
	defer s.wg.Done()

	for {
		s.mu.Lock()
		gen := s.gens[postID]
		s.mu.Unlock()

		st, html := s.fetchOnce(postID)

		done, stored := s.complete(postID, gen, st)
		if !done {
			continue
		}
		if stored && html != "" && s.cache != nil {
			ctx, cancel := context.WithTimeout(context.Background(), s.cfg.FetchTimeout)
			_ = s.cache.Set(ctx, contentKey(postID), []byte(html), s.cfg.CacheTTL)
			cancel()
		}
		return
	}
}

func (s *ContentService) fetchOnce(postID int) (domain.ContentState, string) {
	ctx, cancel := context.WithTimeout(context.Background(), s.cfg.FetchTimeout)
	defer cancel()

	return s.load(ctx, postID)
}

// Get returns the state of postID, Idle if it was never fetched.
func (s *ContentService) Get(postID int) domain.ContentState {
	s.mu.Lock()
	defer s.mu.Unlock()

	if st, ok := s.states[postID]; ok {
		return st
	}
	return domain.IdleContent()
}

// Clear forgets postID so the next Fetch goes upstream again.
func (s *ContentService) Clear(ctx context.Context, postID int) error {
	s.mu.Lock()
	delete(s.states, postID)
	delete(s.gens, postID)
	s.mu.Unlock()

	if s.cache == nil {
		return nil
	}
	return s.cache.Delete(ctx, contentKey(postID))
}

// ClearAll forgets every post.
func (s *ContentService) ClearAll(ctx context.Context) error {
	s.mu.Lock()
	n := len(s.states)
	s.states = make(map[int]domain.ContentState)
	s.gens = make(map[int]uint64)
	s.mu.Unlock()

	s.logger.Info("content cache cleared", zap.Int("entries", n))

	if s.cache == nil {
		return nil
	}
	return s.cache.DeletePrefix(ctx, contentKeyPrefix)
}

// Wait blocks until all background fetches have finished.
func (s *ContentService) Wait() {
	s.wg.Wait()
}

// load returns the outcome for postID and, when it came from upstream,
// the sanitized body to write to the shared cache.
func (s *ContentService) load(ctx context.Context, postID int) (domain.ContentState, string) {
	if s.cache != nil {
		if data, err := s.cache.Get(ctx, contentKey(postID)); err == nil && data != nil {
			return domain.LoadedContent(string(data)), ""
		}
	}

	post, err := s.source.GetPost(ctx, postID)
	if err != nil {
		s.logger.Warn("post content fetch failed",
			zap.Int("post_id", postID),
			zap.Error(err),
		)
		return domain.FailedContent(err.Error()), ""
	}

	html := s.sanitizer.Sanitize(post.Content)

	s.logger.Debug("post content loaded",
		zap.Int("post_id", postID),
		zap.Int("bytes", len(html)),
	)

	return domain.LoadedContent(html), html
}

// complete stores st if gen is still the latest fetch of postID. done reports
// whether the loop may stop, stored whether st landed. Results for cleared
// entries are dropped; results overtaken by a newer Fetch are dropped and the
// loop goes again.
func (s *ContentService) complete(postID int, gen uint64, st domain.ContentState) (done, stored bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	cur, ok := s.states[postID]
	if !ok || !cur.IsLoading() {
		delete(s.inflight, postID)
		return true, false
	}
	if s.gens[postID] != gen {
		s.logger.Debug("stale post content dropped", zap.Int("post_id", postID))
		return false, false
	}

	s.states[postID] = st
	delete(s.gens, postID)
	delete(s.inflight, postID)
	return true, true
}

const contentKeyPrefix = "content:"

func contentKey(postID int) string {
	return contentKeyPrefix + strconv.Itoa(postID)
}
